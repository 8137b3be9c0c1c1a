package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/contactbook/backend/internal/metrics"
	"github.com/contactbook/backend/internal/model"
	"github.com/contactbook/backend/internal/repository"
	"github.com/contactbook/backend/internal/validation"
)

// DeletedMessage is reported back after a successful delete.
const DeletedMessage = "Contact deleted successfully"

// contactServiceImpl is the production implementation of ContactService.
type contactServiceImpl struct {
	repo      repository.ContactRepository
	validator *validation.Validator
	metrics   *metrics.ContactMetrics
}

// NewContactService creates a ContactService backed by the given repository.
// m may be nil.
func NewContactService(repo repository.ContactRepository, validator *validation.Validator, m *metrics.ContactMetrics) ContactService {
	if validator == nil {
		validator = validation.New(validation.Policy{})
	}
	return &contactServiceImpl{repo: repo, validator: validator, metrics: m}
}

// Create runs the validator and stores the normalized record. The store is
// not touched when validation fails.
func (s *contactServiceImpl) Create(ctx context.Context, in model.ContactInput) (*model.Contact, error) {
	start := time.Now()

	rec, fieldErrs := s.validator.Validate(in)
	if len(fieldErrs) > 0 {
		s.observe("create", metrics.OutcomeValidation, start)
		return nil, &ValidationError{Errors: fieldErrs}
	}

	contact, err := s.repo.Insert(ctx, rec)
	if err != nil {
		var conflict *repository.ConflictError
		if errors.As(err, &conflict) && conflict.Field == validation.FieldPhone {
			s.observe("create", metrics.OutcomeConflict, start)
			return nil, &ConflictError{Field: validation.FieldPhone, Message: validation.MsgPhoneDuplicate}
		}
		s.observe("create", metrics.OutcomeStorage, start)
		slog.Error("create contact failed", "error", err)
		return nil, &StorageError{Op: "create", Err: err}
	}

	s.observe("create", metrics.OutcomeOK, start)
	slog.Info("contact created", "id", contact.ID)
	return contact, nil
}

// List returns the full collection, newest first. The slice is never nil.
func (s *contactServiceImpl) List(ctx context.Context) ([]*model.Contact, error) {
	start := time.Now()

	contacts, err := s.repo.ListAll(ctx)
	if err != nil {
		s.observe("list", metrics.OutcomeStorage, start)
		slog.Error("list contacts failed", "error", err)
		return nil, &StorageError{Op: "list", Err: err}
	}
	if contacts == nil {
		contacts = []*model.Contact{}
	}

	s.observe("list", metrics.OutcomeOK, start)
	return contacts, nil
}

// Delete removes the contact with the given id.
func (s *contactServiceImpl) Delete(ctx context.Context, id string) (*model.DeletionResult, error) {
	start := time.Now()

	deleted, err := s.repo.DeleteByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			s.observe("delete", metrics.OutcomeNotFound, start)
			return nil, ErrNotFound
		}
		s.observe("delete", metrics.OutcomeStorage, start)
		slog.Error("delete contact failed", "id", id, "error", err)
		return nil, &StorageError{Op: "delete", Err: err}
	}

	s.observe("delete", metrics.OutcomeOK, start)
	slog.Info("contact deleted", "id", deleted.ID)
	return &model.DeletionResult{Message: DeletedMessage, ID: deleted.ID}, nil
}

func (s *contactServiceImpl) observe(op, outcome string, start time.Time) {
	s.metrics.ObserveOperation(op, outcome, time.Since(start).Seconds())
}
