package postgres

import (
	"context"
	"fmt"
	"testing"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/shopspring/decimal"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/geodateam/team-presence/internal/expense"
)

func TestExpenseRepository(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Expense Repository Suite")
}

var _ = Describe("ExpenseRepository", func() {
	var (
		ctx  context.Context
		db   *gorm.DB
		repo expense.Repository
	)

	seq := 0
	newExpense := func(userID, amount, status string) *expense.Expense {
		seq++
		return &expense.Expense{
			ID:          fmt.Sprintf("exp-%d", seq),
			UserID:      userID,
			Date:        "2026-03-02",
			Amount:      decimal.RequireFromString(amount),
			Category:    "travel",
			Description: "Train ticket",
			Status:      status,
			CreatedAt:   time.Now().Add(time.Duration(seq) * time.Second),
		}
	}

	BeforeEach(func() {
		ctx = context.Background()

		var err error
		db, err = gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
		Expect(err).NotTo(HaveOccurred())

		err = db.AutoMigrate(&expense.Expense{})
		Expect(err).NotTo(HaveOccurred())

		repo = NewExpenseRepository(db)
	})

	AfterEach(func() {
		sqlDB, err := db.DB()
		Expect(err).NotTo(HaveOccurred())
		Expect(sqlDB.Close()).To(Succeed())
	})

	Describe("Create and GetByID", func() {
		It("round-trips a claim with an exact amount", func() {
			e := newExpense("user-1", "42.50", expense.StatusPending)
			Expect(repo.Create(ctx, e)).To(Succeed())

			got, err := repo.GetByID(ctx, e.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(got.Amount.Equal(decimal.RequireFromString("42.50"))).To(BeTrue())
			Expect(got.Status).To(Equal(expense.StatusPending))
		})

		It("returns ErrExpenseNotFound for an unknown id", func() {
			_, err := repo.GetByID(ctx, "missing")
			Expect(err).To(MatchError(expense.ErrExpenseNotFound))
		})
	})

	Describe("ListByUser", func() {
		BeforeEach(func() {
			Expect(repo.Create(ctx, newExpense("user-1", "10.00", expense.StatusPending))).To(Succeed())
			Expect(repo.Create(ctx, newExpense("user-1", "20.00", expense.StatusApproved))).To(Succeed())
			Expect(repo.Create(ctx, newExpense("user-2", "30.00", expense.StatusPending))).To(Succeed())
		})

		It("returns only the user's claims, newest first", func() {
			claims, err := repo.ListByUser(ctx, "user-1", expense.Filter{})
			Expect(err).NotTo(HaveOccurred())
			Expect(claims).To(HaveLen(2))
			Expect(claims[0].Amount.Equal(decimal.RequireFromString("20.00"))).To(BeTrue())
		})

		It("filters by status", func() {
			claims, err := repo.ListByUser(ctx, "user-1", expense.Filter{Status: expense.StatusApproved})
			Expect(err).NotTo(HaveOccurred())
			Expect(claims).To(HaveLen(1))
		})
	})

	Describe("UpdateStatus", func() {
		It("persists the transition", func() {
			e := newExpense("user-1", "10.00", expense.StatusPending)
			Expect(repo.Create(ctx, e)).To(Succeed())

			Expect(repo.UpdateStatus(ctx, e.ID, expense.StatusApproved)).To(Succeed())

			got, err := repo.GetByID(ctx, e.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(got.Status).To(Equal(expense.StatusApproved))
		})

		It("returns ErrExpenseNotFound for an unknown id", func() {
			err := repo.UpdateStatus(ctx, "missing", expense.StatusApproved)
			Expect(err).To(MatchError(expense.ErrExpenseNotFound))
		})
	})

	Describe("aggregates", func() {
		It("counts only pending claims", func() {
			Expect(repo.Create(ctx, newExpense("user-1", "10.00", expense.StatusPending))).To(Succeed())
			Expect(repo.Create(ctx, newExpense("user-1", "20.00", expense.StatusRejected))).To(Succeed())

			count, err := repo.CountPending(ctx)
			Expect(err).NotTo(HaveOccurred())
			Expect(count).To(Equal(int64(1)))
		})

		It("sums every claim regardless of status", func() {
			Expect(repo.Create(ctx, newExpense("user-1", "10.10", expense.StatusPending))).To(Succeed())
			Expect(repo.Create(ctx, newExpense("user-2", "20.20", expense.StatusApproved))).To(Succeed())

			total, err := repo.SumAmounts(ctx)
			Expect(err).NotTo(HaveOccurred())
			Expect(total.Equal(decimal.RequireFromString("30.30"))).To(BeTrue())
		})

		It("sums an empty table to zero", func() {
			total, err := repo.SumAmounts(ctx)
			Expect(err).NotTo(HaveOccurred())
			Expect(total.IsZero()).To(BeTrue())
		})
	})

	Describe("ListPending", func() {
		It("excludes resolved claims", func() {
			Expect(repo.Create(ctx, newExpense("user-1", "10.00", expense.StatusPending))).To(Succeed())
			Expect(repo.Create(ctx, newExpense("user-1", "20.00", expense.StatusApproved))).To(Succeed())
			Expect(repo.Create(ctx, newExpense("user-2", "30.00", expense.StatusPending))).To(Succeed())

			pending, err := repo.ListPending(ctx)
			Expect(err).NotTo(HaveOccurred())
			Expect(pending).To(HaveLen(2))
		})
	})
})
