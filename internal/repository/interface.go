package repository

import (
	"context"

	"github.com/contactbook/backend/internal/model"
)

// DB は DB 接続の生存確認を行うインターフェース
type DB interface {
	Ping(ctx context.Context) error
}

// ContactRepository is the durable, phone-unique contact collection.
type ContactRepository interface {
	// Insert assigns ID and timestamps and stores the record. A duplicate
	// phone yields a *ConflictError; the check and the write are atomic.
	Insert(ctx context.Context, c model.NewContact) (*model.Contact, error)
	// ListAll returns a fresh snapshot, newest first.
	ListAll(ctx context.Context) ([]*model.Contact, error)
	// DeleteByID removes and returns the record, or ErrNotFound.
	DeleteByID(ctx context.Context, id string) (*model.Contact, error)
}
