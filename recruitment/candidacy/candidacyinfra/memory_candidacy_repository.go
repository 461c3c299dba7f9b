package candidacyinfra

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/youssef9656/server/pkg/kernel"
	"github.com/youssef9656/server/recruitment/candidacy"
)

// MemoryCandidacyRepository backs STORE_DRIVER=memory, for local runs and tests
type MemoryCandidacyRepository struct {
	mu    sync.RWMutex
	items map[kernel.CandidacyID]candidacy.Candidacy
}

func NewMemoryCandidacyRepository() *MemoryCandidacyRepository {
	return &MemoryCandidacyRepository{items: make(map[kernel.CandidacyID]candidacy.Candidacy)}
}

func clone(c candidacy.Candidacy) candidacy.Candidacy {
	c.Domains = append([]string{}, c.Domains...)
	return c
}

func (r *MemoryCandidacyRepository) FindByEmail(ctx context.Context, email kernel.Email) (*candidacy.Candidacy, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, c := range r.items {
		if c.Email == email {
			out := clone(c)
			return &out, nil
		}
	}
	return nil, nil
}

func (r *MemoryCandidacyRepository) Create(ctx context.Context, c *candidacy.Candidacy) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.items {
		if existing.Email == c.Email {
			return candidacy.ErrEmailExists()
		}
	}
	r.items[c.ID] = clone(*c)
	return nil
}

func (r *MemoryCandidacyRepository) matching(filter candidacy.ListFilter) []candidacy.Candidacy {
	out := make([]candidacy.Candidacy, 0, len(r.items))
	for _, c := range r.items {
		if filter.Status != "" && c.Status != filter.Status {
			continue
		}
		if filter.Nationality != "" && c.Nationality != filter.Nationality {
			continue
		}
		out = append(out, clone(c))
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID > out[j].ID
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out
}

func (r *MemoryCandidacyRepository) List(ctx context.Context, filter candidacy.ListFilter, opts kernel.PaginationOptions) (*kernel.Paginated[candidacy.Candidacy], error) {
	opts = opts.Normalize()
	r.mu.RLock()
	all := r.matching(filter)
	r.mu.RUnlock()

	start := min(opts.Offset(), len(all))
	end := min(start+opts.PageSize, len(all))
	return kernel.NewPaginated(all[start:end], opts, len(all)), nil
}

func (r *MemoryCandidacyRepository) ListAll(ctx context.Context, filter candidacy.ListFilter) ([]candidacy.Candidacy, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.matching(filter), nil
}

func (r *MemoryCandidacyRepository) GetByID(ctx context.Context, id kernel.CandidacyID) (*candidacy.Candidacy, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	c, ok := r.items[id]
	if !ok {
		return nil, candidacy.ErrNotFound().WithDetail("id", id)
	}
	out := clone(c)
	return &out, nil
}

func (r *MemoryCandidacyRepository) UpdateStatus(ctx context.Context, id kernel.CandidacyID, status candidacy.Status, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.items[id]
	if !ok {
		return candidacy.ErrNotFound().WithDetail("id", id)
	}
	c.Status = status
	c.UpdatedAt = &at
	r.items[id] = c
	return nil
}

func (r *MemoryCandidacyRepository) Delete(ctx context.Context, id kernel.CandidacyID) (*candidacy.Candidacy, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.items[id]
	if !ok {
		return nil, candidacy.ErrNotFound().WithDetail("id", id)
	}
	delete(r.items, id)
	return &c, nil
}

func (r *MemoryCandidacyRepository) IncrementEmailCount(ctx context.Context, email kernel.Email, message string, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for id, c := range r.items {
		if c.Email != email {
			continue
		}
		c.EmailsSent++
		c.LastEmailAt = &at
		c.LastMessage = &message
		r.items[id] = c
		return nil
	}
	return candidacy.ErrNotFound().WithDetail("email", email)
}
