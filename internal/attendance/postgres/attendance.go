package postgres

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/geodateam/team-presence/internal/attendance"
	"gorm.io/gorm"
)

// AttendanceRepository implements the attendance.Repository interface
// using GORM. The unique index on (user_id, date) makes Create the atomic
// guard for the one-record-per-day invariant.
type AttendanceRepository struct {
	db *gorm.DB
}

func NewAttendanceRepository(db *gorm.DB) attendance.Repository {
	return &AttendanceRepository{db: db}
}

func (r *AttendanceRepository) Create(ctx context.Context, rec *attendance.Record) error {
	err := r.db.WithContext(ctx).Create(rec).Error
	if err != nil && isUniqueViolation(err) {
		return attendance.ErrAlreadyClockedIn
	}
	return err
}

func (r *AttendanceRepository) SetClockOut(ctx context.Context, id string, clockOut time.Time) error {
	res := r.db.WithContext(ctx).
		Model(&attendance.Record{}).
		Where("id = ?", id).
		Update("clock_out", clockOut)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return attendance.ErrRecordNotFound
	}
	return nil
}

func (r *AttendanceRepository) GetByUserAndDate(ctx context.Context, userID, date string) (*attendance.Record, error) {
	var rec attendance.Record
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND date = ?", userID, date).
		First(&rec).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, attendance.ErrRecordNotFound
		}
		return nil, err
	}
	return &rec, nil
}

func (r *AttendanceRepository) ListByUser(ctx context.Context, userID, startDate, endDate string) ([]*attendance.Record, error) {
	q := r.db.WithContext(ctx).Where("user_id = ?", userID)
	if startDate != "" {
		q = q.Where("date >= ?", startDate)
	}
	if endDate != "" {
		q = q.Where("date <= ?", endDate)
	}

	var records []*attendance.Record
	err := q.Order("date DESC").Find(&records).Error
	return records, err
}

func (r *AttendanceRepository) ListByDate(ctx context.Context, date string) ([]*attendance.Record, error) {
	var records []*attendance.Record
	err := r.db.WithContext(ctx).
		Where("date = ?", date).
		Find(&records).Error
	return records, err
}

func isUniqueViolation(err error) bool {
	msg := err.Error()
	return strings.Contains(msg, "duplicate key") || strings.Contains(msg, "UNIQUE constraint")
}
