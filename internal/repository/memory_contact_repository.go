package repository

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/contactbook/backend/internal/model"
	"github.com/google/uuid"
)

// MemoryContactRepository keeps contacts in process memory. A single mutex
// covers the phone index and the records so concurrent inserts of the same
// phone cannot both succeed.
type MemoryContactRepository struct {
	mu      sync.Mutex
	seq     uint64
	byID    map[string]memoryContact
	byPhone map[string]string
	now     func() time.Time
}

type memoryContact struct {
	contact model.Contact
	seq     uint64
}

// NewMemoryContactRepository creates an empty in-memory repository.
func NewMemoryContactRepository() *MemoryContactRepository {
	return &MemoryContactRepository{
		byID:    make(map[string]memoryContact),
		byPhone: make(map[string]string),
		now:     func() time.Time { return time.Now().UTC() },
	}
}

var _ ContactRepository = (*MemoryContactRepository)(nil)
var _ DB = (*MemoryContactRepository)(nil)

// Ping only fails once ctx is done.
func (r *MemoryContactRepository) Ping(ctx context.Context) error {
	return ctx.Err()
}

func (r *MemoryContactRepository) Insert(ctx context.Context, c model.NewContact) (*model.Contact, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, taken := r.byPhone[c.Phone]; taken {
		return nil, &ConflictError{Field: "phone"}
	}

	now := r.now()
	r.seq++
	stored := model.Contact{
		ID:        uuid.NewString(),
		Name:      c.Name,
		Email:     c.Email,
		Phone:     c.Phone,
		Message:   c.Message,
		CreatedAt: now,
		UpdatedAt: now,
	}
	r.byID[stored.ID] = memoryContact{contact: stored, seq: r.seq}
	r.byPhone[stored.Phone] = stored.ID

	out := stored
	return &out, nil
}

func (r *MemoryContactRepository) ListAll(ctx context.Context) ([]*model.Contact, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.Lock()
	entries := make([]memoryContact, 0, len(r.byID))
	for _, e := range r.byID {
		entries = append(entries, e)
	}
	r.mu.Unlock()

	sort.Slice(entries, func(i, j int) bool {
		if !entries[i].contact.CreatedAt.Equal(entries[j].contact.CreatedAt) {
			return entries[i].contact.CreatedAt.After(entries[j].contact.CreatedAt)
		}
		return entries[i].seq > entries[j].seq
	})

	out := make([]*model.Contact, len(entries))
	for i := range entries {
		c := entries[i].contact
		out[i] = &c
	}
	return out, nil
}

func (r *MemoryContactRepository) DeleteByID(ctx context.Context, id string) (*model.Contact, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	e, ok := r.byID[id]
	if !ok {
		return nil, ErrNotFound
	}
	delete(r.byID, id)
	delete(r.byPhone, e.contact.Phone)

	out := e.contact
	return &out, nil
}
