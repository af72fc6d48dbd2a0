package attendance

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

// Record is one workday's presence window for a user. It is created on
// clock-in with ClockOut unset, mutated exactly once on clock-out, and
// never deleted. At most one record exists per (user, date) pair; the
// write path enforces that, not the data structure.
type Record struct {
	ID        string              `json:"id" gorm:"primaryKey"`
	UserID    string              `json:"user_id" gorm:"column:user_id;not null;uniqueIndex:idx_attendance_user_date"`
	ClockIn   time.Time           `json:"clock_in" gorm:"column:clock_in;not null"`
	ClockOut  *time.Time          `json:"clock_out" gorm:"column:clock_out"`
	Latitude  decimal.NullDecimal `json:"latitude" gorm:"column:latitude;type:decimal(10,8)"`
	Longitude decimal.NullDecimal `json:"longitude" gorm:"column:longitude;type:decimal(11,8)"`
	Location  *string             `json:"location"`
	Date      string              `json:"date" gorm:"not null;uniqueIndex:idx_attendance_user_date"`
}

func (Record) TableName() string {
	return "attendance_records"
}

// IsOpen reports whether the record is still waiting for a clock-out.
func (r *Record) IsOpen() bool {
	return r.ClockOut == nil
}

// Duration is a floored hours-and-minutes split of elapsed working time.
type Duration struct {
	Hours   int `json:"hours"`
	Minutes int `json:"minutes"`
}

// WorkingDuration measures elapsed time between clock-in and clock-out,
// or between clock-in and now for a record that is still open. Whole
// hours plus remaining whole minutes, floored. A record with a zero
// clock-in has no meaningful duration and yields zero.
func WorkingDuration(r *Record, now time.Time) Duration {
	if r == nil || r.ClockIn.IsZero() {
		return Duration{}
	}

	end := now
	if r.ClockOut != nil {
		end = *r.ClockOut
	}

	elapsed := end.Sub(r.ClockIn)
	if elapsed < 0 {
		return Duration{}
	}

	return Duration{
		Hours:   int(elapsed / time.Hour),
		Minutes: int((elapsed % time.Hour) / time.Minute),
	}
}

// Repository is the attendance collection contract. Create must reject a
// second record for the same (user, date) atomically; with concurrent
// requests a check-then-insert at the service level is not enough on its
// own.
type Repository interface {
	Create(ctx context.Context, rec *Record) error
	// SetClockOut stamps the clock-out time on an existing record.
	SetClockOut(ctx context.Context, id string, clockOut time.Time) error
	// GetByUserAndDate returns ErrRecordNotFound when the user has no
	// record for that day.
	GetByUserAndDate(ctx context.Context, userID, date string) (*Record, error)
	// ListByUser filters by inclusive [startDate, endDate] bounds (empty
	// means open-ended) and orders most-recent-date first.
	ListByUser(ctx context.Context, userID, startDate, endDate string) ([]*Record, error)
	// ListByDate returns every user's record for one business day.
	ListByDate(ctx context.Context, date string) ([]*Record, error)
}

var (
	ErrRecordNotFound    = errors.New("attendance record not found")
	ErrAlreadyClockedIn  = errors.New("already clocked in for this date")
	ErrAlreadyClockedOut = errors.New("already clocked out for this date")
	ErrNoOpenRecord      = errors.New("no clock-in record found for this date")
)
