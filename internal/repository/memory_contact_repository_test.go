package repository

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"

	"github.com/contactbook/backend/internal/model"
)

func newContact(name, phone string) model.NewContact {
	return model.NewContact{Name: name, Email: name + "@x.com", Phone: phone}
}

func TestMemoryContactRepository_InsertAssignsIDAndTimestamps(t *testing.T) {
	repo := NewMemoryContactRepository()

	c, err := repo.Insert(context.Background(), newContact("ann", "9876543210"))
	require.NoError(t, err)
	assert.NotEmpty(t, c.ID)
	assert.False(t, c.CreatedAt.IsZero())
	assert.Equal(t, c.CreatedAt, c.UpdatedAt)
	assert.Equal(t, "9876543210", c.Phone)
}

func TestMemoryContactRepository_DuplicatePhoneConflicts(t *testing.T) {
	repo := NewMemoryContactRepository()
	ctx := context.Background()

	orig, err := repo.Insert(ctx, newContact("ann", "9876543210"))
	require.NoError(t, err)

	_, err = repo.Insert(ctx, model.NewContact{Name: "bob", Email: "bob@y.com", Phone: "9876543210"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrConflict))
	var conflict *ConflictError
	require.True(t, errors.As(err, &conflict))
	assert.Equal(t, "phone", conflict.Field)

	all, err := repo.ListAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, *orig, *all[0])
}

func TestMemoryContactRepository_PhoneMatchIsExact(t *testing.T) {
	repo := NewMemoryContactRepository()
	ctx := context.Background()

	_, err := repo.Insert(ctx, newContact("ann", "ext-1"))
	require.NoError(t, err)
	_, err = repo.Insert(ctx, newContact("bob", "EXT-1"))
	assert.NoError(t, err)
}

func TestMemoryContactRepository_ListNewestFirst(t *testing.T) {
	repo := NewMemoryContactRepository()
	ctx := context.Background()

	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	tick := 0
	repo.now = func() time.Time {
		tick++
		return base.Add(time.Duration(tick) * time.Second)
	}

	for i := 1; i <= 3; i++ {
		_, err := repo.Insert(ctx, newContact(fmt.Sprintf("c%d", i), fmt.Sprintf("%d", i)))
		require.NoError(t, err)
	}

	all, err := repo.ListAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, []string{"c3", "c2", "c1"}, []string{all[0].Name, all[1].Name, all[2].Name})

	again, err := repo.ListAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, all, again)
}

func TestMemoryContactRepository_TiesBrokenByInsertionOrder(t *testing.T) {
	repo := NewMemoryContactRepository()
	ctx := context.Background()

	fixed := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	repo.now = func() time.Time { return fixed }

	for i := 1; i <= 4; i++ {
		_, err := repo.Insert(ctx, newContact(fmt.Sprintf("c%d", i), fmt.Sprintf("%d", i)))
		require.NoError(t, err)
	}

	all, err := repo.ListAll(ctx)
	require.NoError(t, err)
	names := make([]string, len(all))
	for i, c := range all {
		names[i] = c.Name
	}
	assert.Equal(t, []string{"c4", "c3", "c2", "c1"}, names)
}

func TestMemoryContactRepository_DeleteIsTerminal(t *testing.T) {
	repo := NewMemoryContactRepository()
	ctx := context.Background()

	c, err := repo.Insert(ctx, newContact("ann", "9876543210"))
	require.NoError(t, err)

	deleted, err := repo.DeleteByID(ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, c.ID, deleted.ID)

	_, err = repo.DeleteByID(ctx, c.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	// the phone is free again, under a new id
	again, err := repo.Insert(ctx, newContact("ann", "9876543210"))
	require.NoError(t, err)
	assert.NotEqual(t, c.ID, again.ID)
}

func TestMemoryContactRepository_DeleteUnknownID(t *testing.T) {
	repo := NewMemoryContactRepository()
	_, err := repo.DeleteByID(context.Background(), "does-not-exist")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryContactRepository_ConcurrentSamePhone(t *testing.T) {
	repo := NewMemoryContactRepository()
	ctx := context.Background()

	const writers = 32
	var ok, conflicts atomic.Int32
	var g errgroup.Group
	for i := 0; i < writers; i++ {
		g.Go(func() error {
			_, err := repo.Insert(ctx, newContact(fmt.Sprintf("w%d", i), "5550000000"))
			switch {
			case err == nil:
				ok.Add(1)
			case errors.Is(err, ErrConflict):
				conflicts.Add(1)
			default:
				return err
			}
			return nil
		})
	}
	require.NoError(t, g.Wait())

	assert.EqualValues(t, 1, ok.Load())
	assert.EqualValues(t, writers-1, conflicts.Load())

	all, err := repo.ListAll(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestMemoryContactRepository_CanceledContext(t *testing.T) {
	repo := NewMemoryContactRepository()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := repo.Insert(ctx, newContact("ann", "1"))
	assert.ErrorIs(t, err, context.Canceled)
	assert.ErrorIs(t, repo.Ping(ctx), context.Canceled)
}
