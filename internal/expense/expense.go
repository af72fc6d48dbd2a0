package expense

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

// Expense is a claim submitted by an employee for admin review. Amounts
// are exact decimals end to end; currency never touches binary floating
// point.
type Expense struct {
	ID          string          `json:"id" gorm:"primaryKey"`
	UserID      string          `json:"user_id" gorm:"column:user_id;not null"`
	Date        string          `json:"date" gorm:"not null"`
	Amount      decimal.Decimal `json:"amount" gorm:"type:decimal(10,2);not null"`
	Category    string          `json:"category" gorm:"not null"`
	Description string          `json:"description" gorm:"not null"`
	ReceiptPath *string         `json:"receipt_path,omitempty" gorm:"column:receipt_path"`
	Status      string          `json:"status" gorm:"not null;default:pending"`
	CreatedAt   time.Time       `json:"created_at" gorm:"column:created_at"`
}

func (Expense) TableName() string {
	return "expenses"
}

// Review lifecycle. A resolved expense is terminal: no transition back to
// pending and no flip between approved and rejected.
const (
	StatusPending  = "pending"
	StatusApproved = "approved"
	StatusRejected = "rejected"
)

func (e *Expense) IsPending() bool {
	return e.Status == StatusPending
}

func (e *Expense) HasReceipt() bool {
	return e.ReceiptPath != nil && *e.ReceiptPath != ""
}

// Filter narrows expense listings. Zero values mean "no constraint".
type Filter struct {
	StartDate string
	EndDate   string
	Category  string
	Status    string
}

// Repository is the expense collection contract. Expenses are never
// deleted; the only mutation is the single status transition.
type Repository interface {
	Create(ctx context.Context, e *Expense) error
	GetByID(ctx context.Context, id string) (*Expense, error)
	// ListByUser orders newest-created first.
	ListByUser(ctx context.Context, userID string, filter Filter) ([]*Expense, error)
	// ListPending orders newest-created first.
	ListPending(ctx context.Context) ([]*Expense, error)
	UpdateStatus(ctx context.Context, id, status string) error
	CountPending(ctx context.Context) (int64, error)
	// SumAmounts totals every expense regardless of status.
	SumAmounts(ctx context.Context) (decimal.Decimal, error)
}

var (
	ErrExpenseNotFound = errors.New("expense not found")
	ErrInvalidStatus   = errors.New("expense is not pending review")
	ErrReceiptNotFound = errors.New("no receipt attached to expense")
	ErrForbidden       = errors.New("expense belongs to another user")
)
