package expense

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/geodateam/team-presence/internal"
	"github.com/geodateam/team-presence/internal/core/common/dates"
	"github.com/geodateam/team-presence/internal/user"
)

// Service handles expense business logic.
type Service struct {
	repo  Repository
	users user.Repository
	log   *slog.Logger
	now   func() time.Time
}

func NewService(repo Repository, users user.Repository, log *slog.Logger) *Service {
	return &Service{
		repo:  repo,
		users: users,
		log:   log,
		now:   time.Now,
	}
}

// Submit creates a new claim with status pending.
func (s *Service) Submit(ctx context.Context, userID string, dto SubmitExpenseDTO) (*Expense, error) {
	if err := dto.Validate(); err != nil {
		s.log.Error("expense validation failed", "error", err, "user_id", userID)
		return nil, err
	}

	e := &Expense{
		ID:          uuid.NewString(),
		UserID:      userID,
		Date:        dto.Date,
		Amount:      dto.Amount,
		Category:    dto.Category,
		Description: dto.Description,
		ReceiptPath: dto.ReceiptPath,
		Status:      StatusPending,
		CreatedAt:   s.now(),
	}

	if err := s.repo.Create(ctx, e); err != nil {
		s.log.Error("failed to create expense", "error", err, "user_id", userID)
		return nil, err
	}

	s.log.Info("expense submitted",
		"expense_id", e.ID,
		"user_id", userID,
		"amount", e.Amount.String(),
		"category", e.Category,
		"has_receipt", e.HasReceipt())

	return e, nil
}

// ListForUser returns the user's expenses matching the filter, newest
// first.
func (s *Service) ListForUser(ctx context.Context, userID string, filter Filter) ([]*Expense, error) {
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

	expenses, err := s.repo.ListByUser(ctx, userID, filter)
	if err != nil {
		s.log.Error("failed to list expenses", "error", err, "user_id", userID)
		return nil, err
	}
	return expenses, nil
}

// GetForUser fetches one expense with an owner-or-admin access check.
func (s *Service) GetForUser(ctx context.Context, expenseID, userID string, isAdmin bool) (*Expense, error) {
	e, err := s.repo.GetByID(ctx, expenseID)
	if err != nil {
		return nil, err
	}
	if !isAdmin && e.UserID != userID {
		s.log.Warn("expense access denied", "expense_id", expenseID, "user_id", userID)
		return nil, ErrForbidden
	}
	return e, nil
}

// SetStatus resolves a pending claim. Resolved status is terminal; an
// already-approved or rejected claim cannot be flipped afterwards.
func (s *Service) SetStatus(ctx context.Context, expenseID, status string) (*Expense, error) {
	if err := (UpdateStatusDTO{Status: status}).Validate(); err != nil {
		return nil, err
	}

	e, err := s.repo.GetByID(ctx, expenseID)
	if err != nil {
		if errors.Is(err, ErrExpenseNotFound) {
			return nil, ErrExpenseNotFound
		}
		s.log.Error("failed to load expense for review", "error", err, "expense_id", expenseID)
		return nil, err
	}

	if !e.IsPending() {
		s.log.Warn("status change rejected for resolved expense",
			"expense_id", expenseID,
			"current_status", e.Status,
			"requested_status", status)
		return nil, ErrInvalidStatus
	}

	if err := s.repo.UpdateStatus(ctx, expenseID, status); err != nil {
		s.log.Error("failed to update expense status", "error", err, "expense_id", expenseID)
		return nil, err
	}
	e.Status = status

	s.log.Info("expense reviewed",
		"expense_id", expenseID,
		"status", status,
		"amount", e.Amount.String())

	return e, nil
}

// ListPendingWithOwner joins pending claims with their owners' display
// name and email, newest first.
func (s *Service) ListPendingWithOwner(ctx context.Context) ([]*WithOwner, error) {
	pending, err := s.repo.ListPending(ctx)
	if err != nil {
		s.log.Error("failed to list pending expenses", "error", err)
		return nil, err
	}

	result := make([]*WithOwner, 0, len(pending))
	for _, e := range pending {
		entry := &WithOwner{Expense: e}
		owner, err := s.users.GetByID(ctx, e.UserID)
		if err == nil {
			entry.OwnerName = owner.Name
			entry.OwnerEmail = owner.Email
		}
		result = append(result, entry)
	}
	return result, nil
}
