// Package memory keeps the user collection in process. Entries live in a
// map keyed by id plus an insertion-order index so scans replay creation
// order, and everything is guarded by a single RWMutex.
package memory

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/geodateam/team-presence/internal/user"
)

type UserRepository struct {
	mu    sync.RWMutex
	users map[string]*user.User
	order []string
}

func NewUserRepository() *UserRepository {
	return &UserRepository{users: make(map[string]*user.User)}
}

func (r *UserRepository) Create(_ context.Context, u *user.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, existing := range r.users {
		if strings.EqualFold(existing.Email, u.Email) {
			return user.ErrEmailTaken
		}
	}

	clone := *u
	r.users[u.ID] = &clone
	r.order = append(r.order, u.ID)
	return nil
}

func (r *UserRepository) GetByID(_ context.Context, id string) (*user.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	u, ok := r.users[id]
	if !ok {
		return nil, user.ErrNotFound
	}
	clone := *u
	return &clone, nil
}

func (r *UserRepository) GetByEmail(_ context.Context, email string) (*user.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, id := range r.order {
		if strings.EqualFold(r.users[id].Email, email) {
			clone := *r.users[id]
			return &clone, nil
		}
	}
	return nil, user.ErrNotFound
}

func (r *UserRepository) ListEmployees(_ context.Context) ([]*user.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var employees []*user.User
	for _, id := range r.order {
		if u := r.users[id]; u.Role == user.RoleEmployee {
			clone := *u
			employees = append(employees, &clone)
		}
	}
	sort.Slice(employees, func(i, j int) bool {
		return employees[i].Name < employees[j].Name
	})
	return employees, nil
}

func (r *UserRepository) CountEmployees(_ context.Context) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var count int64
	for _, u := range r.users {
		if u.Role == user.RoleEmployee {
			count++
		}
	}
	return count, nil
}
