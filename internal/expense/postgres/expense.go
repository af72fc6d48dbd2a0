package postgres

import (
	"context"
	"errors"

	"github.com/geodateam/team-presence/internal/expense"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// ExpenseRepository implements the expense.Repository interface using GORM.
type ExpenseRepository struct {
	db *gorm.DB
}

func NewExpenseRepository(db *gorm.DB) expense.Repository {
	return &ExpenseRepository{db: db}
}

func (r *ExpenseRepository) Create(ctx context.Context, e *expense.Expense) error {
	return r.db.WithContext(ctx).Create(e).Error
}

func (r *ExpenseRepository) GetByID(ctx context.Context, id string) (*expense.Expense, error) {
	var e expense.Expense
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&e).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, expense.ErrExpenseNotFound
		}
		return nil, err
	}
	return &e, nil
}

func (r *ExpenseRepository) ListByUser(ctx context.Context, userID string, filter expense.Filter) ([]*expense.Expense, error) {
	q := r.db.WithContext(ctx).Where("user_id = ?", userID)
	if filter.StartDate != "" {
		q = q.Where("date >= ?", filter.StartDate)
	}
	if filter.EndDate != "" {
		q = q.Where("date <= ?", filter.EndDate)
	}
	if filter.Category != "" {
		q = q.Where("category = ?", filter.Category)
	}
	if filter.Status != "" {
		q = q.Where("status = ?", filter.Status)
	}

	var expenses []*expense.Expense
	err := q.Order("created_at DESC").Find(&expenses).Error
	return expenses, err
}

func (r *ExpenseRepository) ListPending(ctx context.Context) ([]*expense.Expense, error) {
	var expenses []*expense.Expense
	err := r.db.WithContext(ctx).
		Where("status = ?", expense.StatusPending).
		Order("created_at DESC").
		Find(&expenses).Error
	return expenses, err
}

func (r *ExpenseRepository) UpdateStatus(ctx context.Context, id, status string) error {
	res := r.db.WithContext(ctx).
		Model(&expense.Expense{}).
		Where("id = ?", id).
		Update("status", status)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return expense.ErrExpenseNotFound
	}
	return nil
}

func (r *ExpenseRepository) CountPending(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&expense.Expense{}).
		Where("status = ?", expense.StatusPending).
		Count(&count).Error
	return count, err
}

func (r *ExpenseRepository) SumAmounts(ctx context.Context) (decimal.Decimal, error) {
	// COALESCE keeps the empty-table case a plain zero instead of NULL.
	var total decimal.NullDecimal
	err := r.db.WithContext(ctx).
		Model(&expense.Expense{}).
		Select("COALESCE(SUM(amount), 0)").
		Scan(&total).Error
	if err != nil {
		return decimal.Zero, err
	}
	if !total.Valid {
		return decimal.Zero, nil
	}
	return total.Decimal, nil
}
