package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/contactbook/backend/internal/model"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// phoneUniqueConstraint is the name Postgres gives UNIQUE (phone) on contacts.
const phoneUniqueConstraint = "contacts_phone_key"

// uniqueViolation is SQLSTATE unique_violation.
const uniqueViolation = "23505"

// Querier is the subset of pgxpool.Pool used by the Postgres repositories.
type Querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// PgContactRepository is the PostgreSQL implementation of ContactRepository.
type PgContactRepository struct {
	db Querier
}

// NewPgContactRepository creates a PgContactRepository backed by the given pool.
func NewPgContactRepository(db Querier) *PgContactRepository {
	return &PgContactRepository{db: db}
}

// Ensure PgContactRepository implements ContactRepository at compile time.
var _ ContactRepository = (*PgContactRepository)(nil)

const contactColumns = `id::text, name, email, phone, message, created_at, updated_at`

// Insert adds a contacts row. The UNIQUE (phone) constraint makes the
// duplicate check and the write a single atomic statement.
func (r *PgContactRepository) Insert(ctx context.Context, c model.NewContact) (*model.Contact, error) {
	out := &model.Contact{
		Name:    c.Name,
		Email:   c.Email,
		Phone:   c.Phone,
		Message: c.Message,
	}
	err := r.db.QueryRow(ctx,
		`INSERT INTO contacts (name, email, phone, message)
		 VALUES ($1, $2, $3, $4)
		 RETURNING id::text, created_at, updated_at`,
		c.Name, c.Email, c.Phone, c.Message,
	).Scan(&out.ID, &out.CreatedAt, &out.UpdatedAt)
	if err != nil {
		if isPhoneConflict(err) {
			return nil, &ConflictError{Field: "phone"}
		}
		return nil, fmt.Errorf("contacts: insert failed: %w", err)
	}
	return out, nil
}

// ListAll returns every contact, newest first. seq breaks created_at ties
// in insertion order.
func (r *PgContactRepository) ListAll(ctx context.Context) ([]*model.Contact, error) {
	rows, err := r.db.Query(ctx,
		`SELECT `+contactColumns+`
		 FROM contacts
		 ORDER BY created_at DESC, seq DESC`)
	if err != nil {
		return nil, fmt.Errorf("contacts: select failed: %w", err)
	}
	defer rows.Close()

	contacts := []*model.Contact{}
	for rows.Next() {
		var c model.Contact
		if err := rows.Scan(&c.ID, &c.Name, &c.Email, &c.Phone, &c.Message, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, fmt.Errorf("contacts: scan failed: %w", err)
		}
		contacts = append(contacts, &c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("contacts: select failed: %w", err)
	}
	return contacts, nil
}

// DeleteByID removes the row and returns it. Identifiers that are not
// UUIDs cannot exist in the table and are reported as ErrNotFound without
// a round-trip.
func (r *PgContactRepository) DeleteByID(ctx context.Context, id string) (*model.Contact, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, ErrNotFound
	}

	var c model.Contact
	err := r.db.QueryRow(ctx,
		`DELETE FROM contacts WHERE id = $1
		 RETURNING `+contactColumns,
		id,
	).Scan(&c.ID, &c.Name, &c.Email, &c.Phone, &c.Message, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("contacts: delete failed: %w", err)
	}
	return &c, nil
}

func isPhoneConflict(err error) bool {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) || pgErr.Code != uniqueViolation {
		return false
	}
	return pgErr.ConstraintName == "" || pgErr.ConstraintName == phoneUniqueConstraint
}
