// Package memory keeps attendance records in process. The write lock
// makes the existence check and insert one atomic step, which is what
// preserves the one-record-per-day invariant under concurrent requests.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/geodateam/team-presence/internal/attendance"
)

type AttendanceRepository struct {
	mu      sync.RWMutex
	records map[string]*attendance.Record
	order   []string
}

func NewAttendanceRepository() *AttendanceRepository {
	return &AttendanceRepository{records: make(map[string]*attendance.Record)}
}

func (r *AttendanceRepository) Create(_ context.Context, rec *attendance.Record) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, existing := range r.records {
		if existing.UserID == rec.UserID && existing.Date == rec.Date {
			return attendance.ErrAlreadyClockedIn
		}
	}

	clone := *rec
	r.records[rec.ID] = &clone
	r.order = append(r.order, rec.ID)
	return nil
}

func (r *AttendanceRepository) SetClockOut(_ context.Context, id string, clockOut time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	rec, ok := r.records[id]
	if !ok {
		return attendance.ErrRecordNotFound
	}
	t := clockOut
	rec.ClockOut = &t
	return nil
}

func (r *AttendanceRepository) GetByUserAndDate(_ context.Context, userID, date string) (*attendance.Record, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	// first match in insertion order, same as the reference lookup
	for _, id := range r.order {
		rec := r.records[id]
		if rec.UserID == userID && rec.Date == date {
			clone := *rec
			return &clone, nil
		}
	}
	return nil, attendance.ErrRecordNotFound
}

func (r *AttendanceRepository) ListByUser(_ context.Context, userID, startDate, endDate string) ([]*attendance.Record, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var records []*attendance.Record
	for _, id := range r.order {
		rec := r.records[id]
		if rec.UserID != userID {
			continue
		}
		if startDate != "" && rec.Date < startDate {
			continue
		}
		if endDate != "" && rec.Date > endDate {
			continue
		}
		clone := *rec
		records = append(records, &clone)
	}

	sort.SliceStable(records, func(i, j int) bool {
		return records[i].Date > records[j].Date
	})
	return records, nil
}

func (r *AttendanceRepository) ListByDate(_ context.Context, date string) ([]*attendance.Record, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var records []*attendance.Record
	for _, id := range r.order {
		if rec := r.records[id]; rec.Date == date {
			clone := *rec
			records = append(records, &clone)
		}
	}
	return records, nil
}
