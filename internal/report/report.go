package report

import (
	"github.com/geodateam/team-presence/internal/attendance"
	"github.com/geodateam/team-presence/internal/user"
	"github.com/shopspring/decimal"
)

// Presence classification for one employee on one business day.
const (
	StatusAbsent    = "absent"
	StatusActive    = "active"
	StatusCompleted = "completed"
)

// AdminStats is the dashboard aggregate. Every field is recomputed from a
// full scan on each call; the collections are small and nothing caches.
type AdminStats struct {
	TotalEmployees int64           `json:"total_employees"`
	PresentToday   int64           `json:"present_today"`
	PendingCount   int64           `json:"pending_expenses"`
	TotalAmount    decimal.Decimal `json:"total_amount"`
}

// MemberStatus is one employee's row in the team attendance snapshot.
type MemberStatus struct {
	User       *user.User         `json:"user"`
	Attendance *attendance.Record `json:"attendance"`
	Status     string             `json:"status"`
}

// ReminderResult is the fail-soft partition of a reminder batch: who got
// an email, who did not. Neither list aborts the other.
type ReminderResult struct {
	Notified []string `json:"notified"`
	Failed   []string `json:"failed"`
}

func classify(rec *attendance.Record) string {
	switch {
	case rec == nil:
		return StatusAbsent
	case rec.ClockOut == nil:
		return StatusActive
	default:
		return StatusCompleted
	}
}
