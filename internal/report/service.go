package report

import (
	"context"
	"log/slog"

	"github.com/geodateam/team-presence/internal/attendance"
	"github.com/geodateam/team-presence/internal/expense"
	"github.com/geodateam/team-presence/internal/notification"
	"github.com/geodateam/team-presence/internal/user"
)

// Service composes reads across the user, attendance and expense
// collections into admin summary views. It never writes.
type Service struct {
	users      user.Repository
	attendance attendance.Repository
	expenses   expense.Repository
	sender     notification.EmailSender
	log        *slog.Logger
}

func NewService(
	users user.Repository,
	att attendance.Repository,
	exp expense.Repository,
	sender notification.EmailSender,
	log *slog.Logger,
) *Service {
	return &Service{
		users:      users,
		attendance: att,
		expenses:   exp,
		sender:     sender,
		log:        log,
	}
}

// AdminStats aggregates the dashboard counters for one business day.
// PresentToday counts distinct employees, so the number stays correct
// even if the one-record-per-day invariant is ever relaxed.
func (s *Service) AdminStats(ctx context.Context, today string) (*AdminStats, error) {
	totalEmployees, err := s.users.CountEmployees(ctx)
	if err != nil {
		return nil, err
	}

	records, err := s.attendance.ListByDate(ctx, today)
	if err != nil {
		return nil, err
	}
	seen := make(map[string]struct{}, len(records))
	for _, rec := range records {
		seen[rec.UserID] = struct{}{}
	}

	pendingCount, err := s.expenses.CountPending(ctx)
	if err != nil {
		return nil, err
	}

	totalAmount, err := s.expenses.SumAmounts(ctx)
	if err != nil {
		return nil, err
	}

	return &AdminStats{
		TotalEmployees: totalEmployees,
		PresentToday:   int64(len(seen)),
		PendingCount:   pendingCount,
		TotalAmount:    totalAmount,
	}, nil
}

// TeamMembers lists every employee, ordered by name.
func (s *Service) TeamMembers(ctx context.Context) ([]*user.User, error) {
	return s.users.ListEmployees(ctx)
}

// TeamAttendanceStatus classifies every employee for one business day:
// absent (no record), active (open record) or completed (clocked out).
// Ordering follows employee name, inherited from ListEmployees.
func (s *Service) TeamAttendanceStatus(ctx context.Context, today string) ([]*MemberStatus, error) {
	employees, err := s.users.ListEmployees(ctx)
	if err != nil {
		return nil, err
	}

	records, err := s.attendance.ListByDate(ctx, today)
	if err != nil {
		return nil, err
	}
	byUser := make(map[string]*attendance.Record, len(records))
	for _, rec := range records {
		if _, ok := byUser[rec.UserID]; !ok {
			byUser[rec.UserID] = rec
		}
	}

	statuses := make([]*MemberStatus, 0, len(employees))
	for _, emp := range employees {
		rec := byUser[emp.ID]
		statuses = append(statuses, &MemberStatus{
			User:       emp,
			Attendance: rec,
			Status:     classify(rec),
		})
	}
	return statuses, nil
}

// UsersNotClockedIn returns the employees in the absent bucket of
// TeamAttendanceStatus for the same day.
func (s *Service) UsersNotClockedIn(ctx context.Context, today string) ([]*user.User, error) {
	statuses, err := s.TeamAttendanceStatus(ctx, today)
	if err != nil {
		return nil, err
	}

	var absent []*user.User
	for _, st := range statuses {
		if st.Status == StatusAbsent {
			absent = append(absent, st.User)
		}
	}
	return absent, nil
}

// SendReminders emails each user in the batch. Individual failures are
// collected, not raised: the batch always runs to the end and reports a
// notified/failed split. Unknown user IDs are skipped entirely.
func (s *Service) SendReminders(ctx context.Context, userIDs []string) *ReminderResult {
	result := &ReminderResult{
		Notified: []string{},
		Failed:   []string{},
	}

	for _, id := range userIDs {
		u, err := s.users.GetByID(ctx, id)
		if err != nil {
			s.log.Warn("reminder skipped: unknown user", "user_id", id)
			continue
		}

		if err := s.sender.Send(ctx, u.Email, u.Name); err != nil {
			s.log.Error("reminder send failed", "error", err, "user_id", id, "email", u.Email)
			result.Failed = append(result.Failed, u.Name)
			continue
		}
		result.Notified = append(result.Notified, u.Name)
	}

	s.log.Info("reminder batch finished",
		"requested", len(userIDs),
		"notified", len(result.Notified),
		"failed", len(result.Failed))

	return result
}
