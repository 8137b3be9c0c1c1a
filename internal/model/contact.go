package model

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"
)

// Contact is a directory entry. Records are never edited after creation;
// UpdatedAt mirrors CreatedAt and is kept for API compatibility.
type Contact struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// NewContact is a validated, trimmed record ready to be inserted.
// ID and timestamps are assigned by the store.
type NewContact struct {
	Name    string
	Email   string
	Phone   string
	Message string
}

// ContactInput is the raw body of a create request.
type ContactInput struct {
	Name    Field `json:"name"`
	Email   Field `json:"email"`
	Phone   Field `json:"phone"`
	Message Field `json:"message"`
}

// DeletionResult is returned after a contact has been removed.
type DeletionResult struct {
	Message string `json:"message"`
	ID      string `json:"id"`
}

// Field is a loosely typed form value. Strings, numbers and booleans are
// accepted. null, false, 0 and a missing key all decode to the empty value.
type Field string

// UnmarshalJSON implements json.Unmarshaler.
func (f *Field) UnmarshalJSON(b []byte) error {
	dec := json.NewDecoder(bytes.NewReader(b))
	dec.UseNumber()

	var v any
	if err := dec.Decode(&v); err != nil {
		return err
	}

	switch x := v.(type) {
	case nil:
		*f = ""
	case string:
		*f = Field(x)
	case bool:
		if x {
			*f = "true"
		} else {
			*f = ""
		}
	case json.Number:
		if n, err := x.Float64(); err == nil && n == 0 {
			*f = ""
		} else {
			*f = Field(x.String())
		}
	default:
		return fmt.Errorf("model: unsupported field value %s", b)
	}
	return nil
}

func (f Field) String() string { return string(f) }
