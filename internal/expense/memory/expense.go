// Package memory keeps the expense collection in process, with the same
// insertion-order scan semantics as the other memory repositories.
package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/geodateam/team-presence/internal/expense"
	"github.com/shopspring/decimal"
)

type ExpenseRepository struct {
	mu       sync.RWMutex
	expenses map[string]*expense.Expense
	order    []string
}

func NewExpenseRepository() *ExpenseRepository {
	return &ExpenseRepository{expenses: make(map[string]*expense.Expense)}
}

func (r *ExpenseRepository) Create(_ context.Context, e *expense.Expense) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	clone := *e
	r.expenses[e.ID] = &clone
	r.order = append(r.order, e.ID)
	return nil
}

func (r *ExpenseRepository) GetByID(_ context.Context, id string) (*expense.Expense, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	e, ok := r.expenses[id]
	if !ok {
		return nil, expense.ErrExpenseNotFound
	}
	clone := *e
	return &clone, nil
}

func (r *ExpenseRepository) ListByUser(_ context.Context, userID string, filter expense.Filter) ([]*expense.Expense, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var matches []*expense.Expense
	for _, id := range r.order {
		e := r.expenses[id]
		if e.UserID != userID {
			continue
		}
		if filter.StartDate != "" && e.Date < filter.StartDate {
			continue
		}
		if filter.EndDate != "" && e.Date > filter.EndDate {
			continue
		}
		if filter.Category != "" && e.Category != filter.Category {
			continue
		}
		if filter.Status != "" && e.Status != filter.Status {
			continue
		}
		clone := *e
		matches = append(matches, &clone)
	}

	sortNewestFirst(matches)
	return matches, nil
}

func (r *ExpenseRepository) ListPending(_ context.Context) ([]*expense.Expense, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var pending []*expense.Expense
	for _, id := range r.order {
		if e := r.expenses[id]; e.Status == expense.StatusPending {
			clone := *e
			pending = append(pending, &clone)
		}
	}

	sortNewestFirst(pending)
	return pending, nil
}

func (r *ExpenseRepository) UpdateStatus(_ context.Context, id, status string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	e, ok := r.expenses[id]
	if !ok {
		return expense.ErrExpenseNotFound
	}
	e.Status = status
	return nil
}

func (r *ExpenseRepository) CountPending(_ context.Context) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var count int64
	for _, e := range r.expenses {
		if e.Status == expense.StatusPending {
			count++
		}
	}
	return count, nil
}

func (r *ExpenseRepository) SumAmounts(_ context.Context) (decimal.Decimal, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	total := decimal.Zero
	for _, e := range r.expenses {
		total = total.Add(e.Amount)
	}
	return total, nil
}

func sortNewestFirst(expenses []*expense.Expense) {
	sort.SliceStable(expenses, func(i, j int) bool {
		return expenses[i].CreatedAt.After(expenses[j].CreatedAt)
	})
}
