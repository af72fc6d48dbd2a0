package report_test

import (
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/shopspring/decimal"

	"github.com/geodateam/team-presence/internal/attendance"
	attendancememory "github.com/geodateam/team-presence/internal/attendance/memory"
	"github.com/geodateam/team-presence/internal/expense"
	expensememory "github.com/geodateam/team-presence/internal/expense/memory"
	"github.com/geodateam/team-presence/internal/report"
	"github.com/geodateam/team-presence/internal/user"
	usermemory "github.com/geodateam/team-presence/internal/user/memory"
)

func TestReportService(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Report Service Suite")
}

// fakeSender records sent reminders and fails for listed addresses.
type fakeSender struct {
	sent    []string
	failFor map[string]bool
}

func (f *fakeSender) Send(_ context.Context, email, _ string) error {
	if f.failFor[email] {
		return errors.New("smtp unavailable")
	}
	f.sent = append(f.sent, email)
	return nil
}

var _ = Describe("Service", func() {
	const today = "2026-03-02"

	var (
		ctx      context.Context
		users    *usermemory.UserRepository
		att      *attendancememory.AttendanceRepository
		expenses *expensememory.ExpenseRepository
		sender   *fakeSender
		service  *report.Service
	)

	addUser := func(id, name, role string) *user.User {
		u := &user.User{
			ID:        id,
			Email:     id + "@example.com",
			Name:      name,
			Role:      role,
			CreatedAt: time.Now(),
		}
		Expect(users.Create(ctx, u)).To(Succeed())
		return u
	}

	clockIn := func(userID, date string) *attendance.Record {
		rec := &attendance.Record{
			ID:      userID + "-" + date,
			UserID:  userID,
			ClockIn: time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC),
			Date:    date,
		}
		Expect(att.Create(ctx, rec)).To(Succeed())
		return rec
	}

	BeforeEach(func() {
		ctx = context.Background()
		users = usermemory.NewUserRepository()
		att = attendancememory.NewAttendanceRepository()
		expenses = expensememory.NewExpenseRepository()
		sender = &fakeSender{failFor: map[string]bool{}}
		service = report.NewService(users, att, expenses, sender, slog.Default())
	})

	Describe("AdminStats", func() {
		It("aggregates the dashboard counters", func() {
			addUser("u1", "Alice", user.RoleEmployee)
			addUser("u2", "Bob", user.RoleEmployee)
			addUser("u3", "Cara", user.RoleEmployee)
			addUser("a1", "Root", user.RoleAdmin)

			clockIn("u1", today)
			clockIn("u2", today)
			clockIn("u3", "2026-03-01")

			Expect(expenses.Create(ctx, &expense.Expense{
				ID: "e1", UserID: "u1", Date: today,
				Amount: decimal.RequireFromString("10.50"),
				Status: expense.StatusPending, CreatedAt: time.Now(),
			})).To(Succeed())
			Expect(expenses.Create(ctx, &expense.Expense{
				ID: "e2", UserID: "u2", Date: today,
				Amount: decimal.RequireFromString("20.25"),
				Status: expense.StatusApproved, CreatedAt: time.Now(),
			})).To(Succeed())

			stats, err := service.AdminStats(ctx, today)
			Expect(err).NotTo(HaveOccurred())
			Expect(stats.TotalEmployees).To(Equal(int64(3)))
			Expect(stats.PresentToday).To(Equal(int64(2)))
			Expect(stats.PendingCount).To(Equal(int64(1)))
			Expect(stats.TotalAmount.Equal(decimal.RequireFromString("30.75"))).To(BeTrue())
		})

		It("is all zeros on an empty system", func() {
			stats, err := service.AdminStats(ctx, today)
			Expect(err).NotTo(HaveOccurred())
			Expect(stats.TotalEmployees).To(BeZero())
			Expect(stats.PresentToday).To(BeZero())
			Expect(stats.PendingCount).To(BeZero())
			Expect(stats.TotalAmount.IsZero()).To(BeTrue())
		})
	})

	Describe("TeamAttendanceStatus", func() {
		It("classifies every employee by name order", func() {
			addUser("u2", "Bob", user.RoleEmployee)
			addUser("u1", "Alice", user.RoleEmployee)
			addUser("u3", "Cara", user.RoleEmployee)

			clockIn("u1", today)
			rec := clockIn("u2", today)
			out := rec.ClockIn.Add(8 * time.Hour)
			Expect(att.SetClockOut(ctx, rec.ID, out)).To(Succeed())

			statuses, err := service.TeamAttendanceStatus(ctx, today)
			Expect(err).NotTo(HaveOccurred())
			Expect(statuses).To(HaveLen(3))

			Expect(statuses[0].User.Name).To(Equal("Alice"))
			Expect(statuses[0].Status).To(Equal(report.StatusActive))
			Expect(statuses[1].User.Name).To(Equal("Bob"))
			Expect(statuses[1].Status).To(Equal(report.StatusCompleted))
			Expect(statuses[2].User.Name).To(Equal("Cara"))
			Expect(statuses[2].Status).To(Equal(report.StatusAbsent))
			Expect(statuses[2].Attendance).To(BeNil())
		})
	})

	Describe("UsersNotClockedIn", func() {
		It("matches the absent bucket", func() {
			addUser("u1", "Alice", user.RoleEmployee)
			addUser("u2", "Bob", user.RoleEmployee)
			clockIn("u1", today)

			absent, err := service.UsersNotClockedIn(ctx, today)
			Expect(err).NotTo(HaveOccurred())
			Expect(absent).To(HaveLen(1))
			Expect(absent[0].Name).To(Equal("Bob"))
		})
	})

	Describe("SendReminders", func() {
		It("partitions the batch into notified and failed", func() {
			addUser("u1", "Alice", user.RoleEmployee)
			addUser("u2", "Bob", user.RoleEmployee)
			sender.failFor["u2@example.com"] = true

			result := service.SendReminders(ctx, []string{"u1", "u2"})
			Expect(result.Notified).To(Equal([]string{"Alice"}))
			Expect(result.Failed).To(Equal([]string{"Bob"}))
			Expect(sender.sent).To(Equal([]string{"u1@example.com"}))
		})

		It("skips unknown user ids without failing the batch", func() {
			addUser("u1", "Alice", user.RoleEmployee)

			result := service.SendReminders(ctx, []string{"ghost", "u1"})
			Expect(result.Notified).To(Equal([]string{"Alice"}))
			Expect(result.Failed).To(BeEmpty())
		})

		It("keeps going after a failure", func() {
			addUser("u1", "Alice", user.RoleEmployee)
			addUser("u2", "Bob", user.RoleEmployee)
			sender.failFor["u1@example.com"] = true

			result := service.SendReminders(ctx, []string{"u1", "u2"})
			Expect(result.Failed).To(Equal([]string{"Alice"}))
			Expect(result.Notified).To(Equal([]string{"Bob"}))
		})
	})
})
