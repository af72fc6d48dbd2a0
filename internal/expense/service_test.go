package expense_test

import (
	"context"
	"fmt"
	"log/slog"
	"testing"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/shopspring/decimal"

	"github.com/geodateam/team-presence/internal/expense"
	expensememory "github.com/geodateam/team-presence/internal/expense/memory"
	"github.com/geodateam/team-presence/internal/user"
	usermemory "github.com/geodateam/team-presence/internal/user/memory"
)

func TestExpenseService(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Expense Service Suite")
}

var _ = Describe("Service", func() {
	var (
		ctx     context.Context
		repo    *expensememory.ExpenseRepository
		users   *usermemory.UserRepository
		service *expense.Service
	)

	validDTO := func() expense.SubmitExpenseDTO {
		return expense.SubmitExpenseDTO{
			Date:        "2026-03-02",
			Amount:      decimal.RequireFromString("42.50"),
			Category:    "travel",
			Description: "Train ticket to client site",
		}
	}

	BeforeEach(func() {
		ctx = context.Background()
		repo = expensememory.NewExpenseRepository()
		users = usermemory.NewUserRepository()
		service = expense.NewService(repo, users, slog.Default())
	})

	Describe("Submit", func() {
		It("creates a pending claim", func() {
			e, err := service.Submit(ctx, "user-1", validDTO())
			Expect(err).NotTo(HaveOccurred())
			Expect(e.ID).NotTo(BeEmpty())
			Expect(e.Status).To(Equal(expense.StatusPending))
			Expect(e.Amount.Equal(decimal.RequireFromString("42.50"))).To(BeTrue())
			Expect(e.HasReceipt()).To(BeFalse())
		})

		It("keeps the stored receipt reference", func() {
			dto := validDTO()
			ref := "receipt-123.pdf"
			dto.ReceiptPath = &ref

			e, err := service.Submit(ctx, "user-1", dto)
			Expect(err).NotTo(HaveOccurred())
			Expect(e.HasReceipt()).To(BeTrue())
			Expect(*e.ReceiptPath).To(Equal(ref))
		})

		It("rejects a zero amount", func() {
			dto := validDTO()
			dto.Amount = decimal.Zero
			_, err := service.Submit(ctx, "user-1", dto)
			Expect(err).To(HaveOccurred())
		})

		It("rejects a negative amount", func() {
			dto := validDTO()
			dto.Amount = decimal.RequireFromString("-10.00")
			_, err := service.Submit(ctx, "user-1", dto)
			Expect(err).To(HaveOccurred())
		})

		It("rejects a missing category", func() {
			dto := validDTO()
			dto.Category = ""
			_, err := service.Submit(ctx, "user-1", dto)
			Expect(err).To(HaveOccurred())
		})

		It("rejects a malformed date", func() {
			dto := validDTO()
			dto.Date = "02.03.2026"
			_, err := service.Submit(ctx, "user-1", dto)
			Expect(err).To(HaveOccurred())
		})
	})

	Describe("GetForUser", func() {
		var claim *expense.Expense

		BeforeEach(func() {
			var err error
			claim, err = service.Submit(ctx, "user-1", validDTO())
			Expect(err).NotTo(HaveOccurred())
		})

		It("lets the owner read it", func() {
			got, err := service.GetForUser(ctx, claim.ID, "user-1", false)
			Expect(err).NotTo(HaveOccurred())
			Expect(got.ID).To(Equal(claim.ID))
		})

		It("lets an admin read it", func() {
			got, err := service.GetForUser(ctx, claim.ID, "admin-1", true)
			Expect(err).NotTo(HaveOccurred())
			Expect(got.ID).To(Equal(claim.ID))
		})

		It("denies another employee", func() {
			_, err := service.GetForUser(ctx, claim.ID, "user-2", false)
			Expect(err).To(MatchError(expense.ErrForbidden))
		})

		It("reports an unknown claim", func() {
			_, err := service.GetForUser(ctx, "missing", "user-1", false)
			Expect(err).To(MatchError(expense.ErrExpenseNotFound))
		})
	})

	Describe("SetStatus", func() {
		var claim *expense.Expense

		BeforeEach(func() {
			var err error
			claim, err = service.Submit(ctx, "user-1", validDTO())
			Expect(err).NotTo(HaveOccurred())
		})

		It("approves a pending claim", func() {
			e, err := service.SetStatus(ctx, claim.ID, expense.StatusApproved)
			Expect(err).NotTo(HaveOccurred())
			Expect(e.Status).To(Equal(expense.StatusApproved))
		})

		It("rejects a pending claim", func() {
			e, err := service.SetStatus(ctx, claim.ID, expense.StatusRejected)
			Expect(err).NotTo(HaveOccurred())
			Expect(e.Status).To(Equal(expense.StatusRejected))
		})

		It("refuses to resolve twice", func() {
			_, err := service.SetStatus(ctx, claim.ID, expense.StatusApproved)
			Expect(err).NotTo(HaveOccurred())

			_, err = service.SetStatus(ctx, claim.ID, expense.StatusRejected)
			Expect(err).To(MatchError(expense.ErrInvalidStatus))
		})

		It("refuses a transition back to pending", func() {
			_, err := service.SetStatus(ctx, claim.ID, expense.StatusPending)
			Expect(err).To(HaveOccurred())
		})

		It("reports an unknown claim", func() {
			_, err := service.SetStatus(ctx, "missing", expense.StatusApproved)
			Expect(err).To(MatchError(expense.ErrExpenseNotFound))
		})
	})

	Describe("ListForUser", func() {
		BeforeEach(func() {
			base := validDTO()
			for i, cat := range []string{"travel", "meals", "travel"} {
				dto := base
				dto.Category = cat
				dto.Date = fmt.Sprintf("2026-03-0%d", i+1)
				_, err := service.Submit(ctx, "user-1", dto)
				Expect(err).NotTo(HaveOccurred())
			}
			_, err := service.Submit(ctx, "user-2", base)
			Expect(err).NotTo(HaveOccurred())
		})

		It("returns only the user's claims", func() {
			claims, err := service.ListForUser(ctx, "user-1", expense.Filter{})
			Expect(err).NotTo(HaveOccurred())
			Expect(claims).To(HaveLen(3))
		})

		It("filters by category", func() {
			claims, err := service.ListForUser(ctx, "user-1", expense.Filter{Category: "meals"})
			Expect(err).NotTo(HaveOccurred())
			Expect(claims).To(HaveLen(1))
		})

		It("filters by date window", func() {
			claims, err := service.ListForUser(ctx, "user-1", expense.Filter{
				StartDate: "2026-03-02",
				EndDate:   "2026-03-03",
			})
			Expect(err).NotTo(HaveOccurred())
			Expect(claims).To(HaveLen(2))
		})

		It("rejects a malformed date bound", func() {
			_, err := service.ListForUser(ctx, "user-1", expense.Filter{StartDate: "bad"})
			Expect(err).To(HaveOccurred())
		})
	})

	Describe("ListPendingWithOwner", func() {
		BeforeEach(func() {
			Expect(users.Create(ctx, &user.User{
				ID:        "user-1",
				Email:     "mara@example.com",
				Name:      "Mara",
				Role:      user.RoleEmployee,
				CreatedAt: time.Now(),
			})).To(Succeed())
		})

		It("joins claims with owner details", func() {
			claim, err := service.Submit(ctx, "user-1", validDTO())
			Expect(err).NotTo(HaveOccurred())

			pending, err := service.ListPendingWithOwner(ctx)
			Expect(err).NotTo(HaveOccurred())
			Expect(pending).To(HaveLen(1))
			Expect(pending[0].ID).To(Equal(claim.ID))
			Expect(pending[0].OwnerName).To(Equal("Mara"))
			Expect(pending[0].OwnerEmail).To(Equal("mara@example.com"))
		})

		It("excludes resolved claims", func() {
			claim, err := service.Submit(ctx, "user-1", validDTO())
			Expect(err).NotTo(HaveOccurred())
			_, err = service.Submit(ctx, "user-1", validDTO())
			Expect(err).NotTo(HaveOccurred())

			_, err = service.SetStatus(ctx, claim.ID, expense.StatusRejected)
			Expect(err).NotTo(HaveOccurred())

			pending, err := service.ListPendingWithOwner(ctx)
			Expect(err).NotTo(HaveOccurred())
			Expect(pending).To(HaveLen(1))
		})

		It("keeps the claim when the owner lookup fails", func() {
			_, err := service.Submit(ctx, "ghost", validDTO())
			Expect(err).NotTo(HaveOccurred())

			pending, err := service.ListPendingWithOwner(ctx)
			Expect(err).NotTo(HaveOccurred())
			Expect(pending).To(HaveLen(1))
			Expect(pending[0].OwnerName).To(BeEmpty())
		})
	})
})
