package attendance

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/geodateam/team-presence/internal"
	"github.com/geodateam/team-presence/internal/core/common/dates"
)

// Service drives the per-day attendance state machine:
// NotClockedIn -> ClockedIn -> ClockedOut (terminal).
type Service struct {
	repo   Repository
	logger *slog.Logger
	now    func() time.Time
}

func NewService(repo Repository, logger *slog.Logger) *Service {
	return &Service{
		repo:   repo,
		logger: logger,
		now:    time.Now,
	}
}

// WithClock overrides the service clock. Meant for tests.
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

// ClockIn opens today's record. One clock-in per calendar day is the
// invariant, so an existing record fails the call whether or not it has
// been clocked out already.
func (s *Service) ClockIn(ctx context.Context, userID string, dto ClockInDTO) (*Record, error) {
	if err := dto.Validate(); err != nil {
		s.logger.Error("clock-in validation failed", "error", err, "user_id", userID)
		return nil, err
	}

	now := s.now()
	rec := &Record{
		ID:       uuid.NewString(),
		UserID:   userID,
		ClockIn:  now,
		Location: dto.Location,
		Date:     dates.Format(now),
	}
	if dto.Latitude != nil {
		rec.Latitude = decimal.NullDecimal{Decimal: *dto.Latitude, Valid: true}
		rec.Longitude = decimal.NullDecimal{Decimal: *dto.Longitude, Valid: true}
	}

	if err := s.repo.Create(ctx, rec); err != nil {
		if errors.Is(err, ErrAlreadyClockedIn) {
			s.logger.Warn("duplicate clock-in rejected", "user_id", userID, "date", rec.Date)
			return nil, ErrAlreadyClockedIn
		}
		s.logger.Error("failed to create attendance record", "error", err, "user_id", userID)
		return nil, err
	}

	s.logger.Info("clock-in recorded",
		"record_id", rec.ID,
		"user_id", userID,
		"date", rec.Date,
		"has_coordinates", rec.Latitude.Valid)

	return rec, nil
}

// ClockOut closes today's record. The clock-out timestamp is set exactly
// once; a second attempt is a state-machine violation.
func (s *Service) ClockOut(ctx context.Context, userID string) (*Record, error) {
	now := s.now()
	today := dates.Format(now)

	rec, err := s.repo.GetByUserAndDate(ctx, userID, today)
	if err != nil {
		if errors.Is(err, ErrRecordNotFound) {
			return nil, ErrNoOpenRecord
		}
		s.logger.Error("failed to look up today's record", "error", err, "user_id", userID)
		return nil, err
	}

	if rec.ClockOut != nil {
		return nil, ErrAlreadyClockedOut
	}

	if err := s.repo.SetClockOut(ctx, rec.ID, now); err != nil {
		s.logger.Error("failed to set clock-out", "error", err, "record_id", rec.ID)
		return nil, err
	}
	rec.ClockOut = &now

	s.logger.Info("clock-out recorded",
		"record_id", rec.ID,
		"user_id", userID,
		"date", today)

	return rec, nil
}

// GetToday returns today's record, or nil without error when the user has
// not clocked in yet.
func (s *Service) GetToday(ctx context.Context, userID, date string) (*Record, error) {
	rec, err := s.repo.GetByUserAndDate(ctx, userID, date)
	if err != nil {
		if errors.Is(err, ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return rec, nil
}

// Today pairs the current record with its running duration.
func (s *Service) Today(ctx context.Context, userID string) (*TodayResponse, error) {
	rec, err := s.GetToday(ctx, userID, dates.Format(s.now()))
	if err != nil {
		return nil, err
	}
	return &TodayResponse{
		Record:   rec,
		Duration: WorkingDuration(rec, s.now()),
	}, nil
}

// ListHistory returns the user's records, newest date first, optionally
// bounded by an inclusive date range.
func (s *Service) ListHistory(ctx context.Context, userID string, filter HistoryFilter) ([]*Record, error) {
	if filter.StartDate != "" {
		if err := dates.Validate(filter.StartDate); err != nil {
			return nil, internal.NewValidationError(err.Error(), internal.ErrCodeInvalidDate)
		}
	}
	if filter.EndDate != "" {
		if err := dates.Validate(filter.EndDate); err != nil {
			return nil, internal.NewValidationError(err.Error(), internal.ErrCodeInvalidDate)
		}
	}

	records, err := s.repo.ListByUser(ctx, userID, filter.StartDate, filter.EndDate)
	if err != nil {
		s.logger.Error("failed to list attendance history", "error", err, "user_id", userID)
		return nil, err
	}
	return records, nil
}
