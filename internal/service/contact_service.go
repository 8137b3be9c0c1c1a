package service

import (
	"context"

	"github.com/contactbook/backend/internal/model"
)

// ContactService defines the business logic for the contact directory.
type ContactService interface {
	// Create validates raw input and stores the record. It returns
	// *ValidationError, *ConflictError or *StorageError on failure.
	Create(ctx context.Context, in model.ContactInput) (*model.Contact, error)

	// List returns every contact, newest first.
	List(ctx context.Context) ([]*model.Contact, error)

	// Delete removes a contact. It returns ErrNotFound when id does not resolve.
	Delete(ctx context.Context, id string) (*model.DeletionResult, error)
}
