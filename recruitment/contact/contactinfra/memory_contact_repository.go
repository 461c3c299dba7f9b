package contactinfra

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/youssef9656/server/pkg/kernel"
	"github.com/youssef9656/server/recruitment/contact"
)

type MemoryContactRepository struct {
	mu       sync.RWMutex
	messages map[kernel.ContactID]contact.Message
}

func NewMemoryContactRepository() *MemoryContactRepository {
	return &MemoryContactRepository{messages: make(map[kernel.ContactID]contact.Message)}
}

func (r *MemoryContactRepository) Create(ctx context.Context, m *contact.Message) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.messages[m.ID] = *m
	return nil
}

func (r *MemoryContactRepository) List(ctx context.Context) ([]contact.Message, error) {
	r.mu.RLock()
	out := make([]contact.Message, 0, len(r.messages))
	for _, m := range r.messages {
		out = append(out, m)
	}
	r.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (r *MemoryContactRepository) GetByID(ctx context.Context, id kernel.ContactID) (*contact.Message, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	m, ok := r.messages[id]
	if !ok {
		return nil, contact.ErrNotFound().WithDetail("id", id)
	}
	return &m, nil
}

func (r *MemoryContactRepository) Update(ctx context.Context, id kernel.ContactID, fields contact.UpdateFields, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	m, ok := r.messages[id]
	if !ok {
		return contact.ErrNotFound().WithDetail("id", id)
	}
	if fields.FullName != nil {
		m.FullName = *fields.FullName
	}
	if fields.Email != nil {
		m.Email = kernel.Email(*fields.Email)
	}
	if fields.Phone != nil {
		m.Phone = *fields.Phone
	}
	if fields.Subject != nil {
		m.Subject = *fields.Subject
	}
	if fields.Message != nil {
		m.Body = *fields.Message
	}
	m.UpdatedAt = &at
	r.messages[id] = m
	return nil
}

func (r *MemoryContactRepository) SetStatus(ctx context.Context, id kernel.ContactID, status string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	m, ok := r.messages[id]
	if !ok {
		return contact.ErrNotFound().WithDetail("id", id)
	}
	m.Status = status
	r.messages[id] = m
	return nil
}
