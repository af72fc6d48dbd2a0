package postgres

import (
	"context"

	"github.com/geodateam/team-presence/internal/location"
	"gorm.io/gorm"
)

// LocationRepository implements the location.Repository interface using GORM.
type LocationRepository struct {
	db *gorm.DB
}

func NewLocationRepository(db *gorm.DB) location.Repository {
	return &LocationRepository{db: db}
}

func (r *LocationRepository) Create(ctx context.Context, p *location.Ping) error {
	return r.db.WithContext(ctx).Create(p).Error
}
