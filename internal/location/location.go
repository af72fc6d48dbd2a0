package location

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/geodateam/team-presence/internal"
)

// Ping is one append-only geolocation sample. Pings share a user with
// attendance records but nothing ties them together beyond that.
type Ping struct {
	ID        string          `json:"id" gorm:"primaryKey"`
	UserID    string          `json:"user_id" gorm:"column:user_id;not null"`
	Latitude  decimal.Decimal `json:"latitude" gorm:"type:decimal(10,8);not null"`
	Longitude decimal.Decimal `json:"longitude" gorm:"type:decimal(11,8);not null"`
	Timestamp time.Time       `json:"timestamp" gorm:"column:timestamp"`
}

func (Ping) TableName() string {
	return "location_tracking"
}

type Repository interface {
	Create(ctx context.Context, p *Ping) error
}

type TrackDTO struct {
	Latitude  *decimal.Decimal `json:"latitude"`
	Longitude *decimal.Decimal `json:"longitude"`
}

func (dto TrackDTO) Validate() error {
	if dto.Latitude == nil || dto.Longitude == nil {
		return internal.NewValidationError("latitude and longitude are required", internal.ErrCodeValidationFailed)
	}
	return nil
}

type Service struct {
	repo Repository
	log  *slog.Logger
	now  func() time.Time
}

func NewService(repo Repository, log *slog.Logger) *Service {
	return &Service{repo: repo, log: log, now: time.Now}
}

// Track appends a ping with a server-set timestamp.
func (s *Service) Track(ctx context.Context, userID string, dto TrackDTO) (*Ping, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	p := &Ping{
		ID:        uuid.NewString(),
		UserID:    userID,
		Latitude:  *dto.Latitude,
		Longitude: *dto.Longitude,
		Timestamp: s.now(),
	}

	if err := s.repo.Create(ctx, p); err != nil {
		s.log.Error("failed to store location ping", "error", err, "user_id", userID)
		return nil, err
	}
	return p, nil
}
