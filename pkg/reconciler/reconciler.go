// Package reconciler keeps a client-side contact list consistent with the
// server. Creates are applied only after the server confirms them; deletes
// are applied immediately and rolled back from a snapshot if the server
// rejects them.
package reconciler

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"sync"

	"github.com/contactbook/backend/internal/model"
	"github.com/contactbook/backend/pkg/contactapi"
)

var (
	// ErrCreateInFlight is returned while another Create is outstanding.
	ErrCreateInFlight = errors.New("reconciler: create already in progress")
	// ErrDeleteDeclined is returned when the Confirmer says no.
	ErrDeleteDeclined = errors.New("reconciler: delete not confirmed")
	// ErrNotListed is returned for a delete of an id absent from the local list.
	ErrNotListed = errors.New("reconciler: contact not in list")
)

const (
	msgDeleteFailed   = "Failed to delete contact"
	msgDeleteNotFound = "Contact not found. Refresh the list to see the latest contacts."
)

// API is the server surface the reconciler drives. *contactapi.Client implements it.
type API interface {
	List(ctx context.Context) ([]*model.Contact, error)
	Create(ctx context.Context, in model.ContactInput) (*model.Contact, error)
	Delete(ctx context.Context, id string) (*model.DeletionResult, error)
}

// Confirmer asks the user whether a contact should really be deleted.
type Confirmer interface {
	ConfirmDelete(ctx context.Context, c *model.Contact) bool
}

// ConfirmFunc adapts a function to Confirmer.
type ConfirmFunc func(ctx context.Context, c *model.Contact) bool

func (f ConfirmFunc) ConfirmDelete(ctx context.Context, c *model.Contact) bool { return f(ctx, c) }

// Alerter shows a single dismissible message.
type Alerter interface {
	Alert(msg string)
}

// AlertFunc adapts a function to Alerter.
type AlertFunc func(msg string)

func (f AlertFunc) Alert(msg string) { f(msg) }

type State int

const (
	Loading State = iota
	Ready
	Error
)

func (s State) String() string {
	switch s {
	case Loading:
		return "loading"
	case Ready:
		return "ready"
	case Error:
		return "error"
	default:
		return "unknown"
	}
}

// Snapshot is a point-in-time copy of the reconciler's state.
type Snapshot struct {
	State    State
	Contacts []*model.Contact
	Err      string
}

// Reconciler owns the local list. All methods are safe for concurrent use.
type Reconciler struct {
	api     API
	confirm Confirmer
	alert   Alerter

	mu       sync.Mutex
	state    State
	contacts []*model.Contact
	lastErr  string
	creating bool
}

// New returns a Reconciler in the Loading state with an empty list.
// confirm must not be nil; alert may be.
func New(api API, confirm Confirmer, alert Alerter) *Reconciler {
	if alert == nil {
		alert = AlertFunc(func(string) {})
	}
	return &Reconciler{
		api:      api,
		confirm:  confirm,
		alert:    alert,
		state:    Loading,
		contacts: []*model.Contact{},
	}
}

// Refresh replaces the local list with the server's. On failure the
// previous list is kept and the state moves to Error.
func (r *Reconciler) Refresh(ctx context.Context) error {
	r.mu.Lock()
	r.state = Loading
	r.mu.Unlock()

	contacts, err := r.api.List(ctx)

	r.mu.Lock()
	defer r.mu.Unlock()
	if err != nil {
		r.state = Error
		r.lastErr = errorMessage(err)
		slog.Warn("refresh contacts failed", "error", err)
		return err
	}
	r.state = Ready
	r.contacts = contacts
	r.lastErr = ""
	return nil
}

// Create submits in and prepends the confirmed record. On failure the
// local list is untouched; a *contactapi.ValidationError carries the
// per-field messages.
func (r *Reconciler) Create(ctx context.Context, in model.ContactInput) (*model.Contact, error) {
	r.mu.Lock()
	if r.creating {
		r.mu.Unlock()
		return nil, ErrCreateInFlight
	}
	r.creating = true
	r.mu.Unlock()

	contact, err := r.api.Create(ctx, in)

	r.mu.Lock()
	defer r.mu.Unlock()
	r.creating = false
	if err != nil {
		return nil, err
	}
	next := make([]*model.Contact, 0, len(r.contacts)+1)
	next = append(next, contact)
	r.contacts = append(next, r.contacts...)
	return contact, nil
}

// Delete removes id from the local list before calling the server. If the
// server call fails the list captured just before removal is put back as is
// and the Alerter is notified.
func (r *Reconciler) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	target := r.find(id)
	r.mu.Unlock()
	if target == nil {
		return ErrNotListed
	}

	if !r.confirm.ConfirmDelete(ctx, target) {
		return ErrDeleteDeclined
	}

	r.mu.Lock()
	snapshot := r.contacts
	r.contacts = without(snapshot, id)
	r.mu.Unlock()

	if _, err := r.api.Delete(ctx, id); err != nil {
		r.mu.Lock()
		r.contacts = snapshot
		r.mu.Unlock()

		slog.Warn("delete contact failed, restored list", "id", id, "error", err)
		if errors.Is(err, contactapi.ErrNotFound) {
			r.alert.Alert(msgDeleteNotFound)
		} else {
			r.alert.Alert(msgDeleteFailed)
		}
		return err
	}
	return nil
}

// Contacts returns a copy of the local list.
func (r *Reconciler) Contacts() []*model.Contact {
	r.mu.Lock()
	defer r.mu.Unlock()
	return clone(r.contacts)
}

// Filter returns the contacts whose name or email contains query,
// ignoring case. An empty query matches everything.
func (r *Reconciler) Filter(query string) []*model.Contact {
	q := strings.ToLower(strings.TrimSpace(query))

	r.mu.Lock()
	defer r.mu.Unlock()
	if q == "" {
		return clone(r.contacts)
	}
	out := []*model.Contact{}
	for _, c := range r.contacts {
		if strings.Contains(strings.ToLower(c.Name), q) || strings.Contains(strings.ToLower(c.Email), q) {
			cp := *c
			out = append(out, &cp)
		}
	}
	return out
}

func (r *Reconciler) Snapshot() Snapshot {
	r.mu.Lock()
	defer r.mu.Unlock()
	return Snapshot{State: r.state, Contacts: clone(r.contacts), Err: r.lastErr}
}

func (r *Reconciler) find(id string) *model.Contact {
	for _, c := range r.contacts {
		if c.ID == id {
			cp := *c
			return &cp
		}
	}
	return nil
}

// without never mutates in; the snapshot taken before it must stay intact.
func without(in []*model.Contact, id string) []*model.Contact {
	out := make([]*model.Contact, 0, len(in))
	for _, c := range in {
		if c.ID != id {
			out = append(out, c)
		}
	}
	return out
}

func clone(in []*model.Contact) []*model.Contact {
	out := make([]*model.Contact, len(in))
	for i, c := range in {
		cp := *c
		out[i] = &cp
	}
	return out
}

func errorMessage(err error) string {
	var sErr *contactapi.StatusError
	if errors.As(err, &sErr) && sErr.Message != "" {
		return sErr.Message
	}
	return "Failed to load contacts"
}
