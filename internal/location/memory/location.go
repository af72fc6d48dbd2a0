// Package memory keeps location pings in process. Append-only, so only
// insert order matters.
package memory

import (
	"context"
	"sync"

	"github.com/geodateam/team-presence/internal/location"
)

type LocationRepository struct {
	mu    sync.Mutex
	pings []*location.Ping
}

func NewLocationRepository() *LocationRepository {
	return &LocationRepository{}
}

func (r *LocationRepository) Create(_ context.Context, p *location.Ping) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	clone := *p
	r.pings = append(r.pings, &clone)
	return nil
}
