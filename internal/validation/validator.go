// Package validation checks contact input before it reaches the store.
//
// Validation runs in two stages. The required-field stage looks at name,
// email and phone together and stops the call if any of them is blank. The
// format stage then checks every remaining rule and reports all failures at
// once, keyed by field name.
package validation

import (
	"regexp"
	"sort"
	"strings"

	"github.com/contactbook/backend/internal/model"
)

// Field names used as keys in FieldErrors.
const (
	FieldName    = "name"
	FieldEmail   = "email"
	FieldPhone   = "phone"
	FieldMessage = "message"
)

// Messages reported for each rule.
const (
	MsgNameRequired     = "Name is required"
	MsgEmailRequired    = "Email is required"
	MsgPhoneRequired    = "Phone is required"
	MsgNameLettersOnly  = "Name must contain only letters and spaces"
	MsgEmailInvalid     = "Email format is invalid"
	MsgPhoneTenDigits   = "Phone must be exactly 10 digits"
	MsgPhoneDuplicate   = "This phone number is already registered"
	MsgValidationFailed = "Validation error"
)

var (
	namePattern  = regexp.MustCompile(`^[A-Za-z\s]+$`)
	emailPattern = regexp.MustCompile(`(?i)^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	phonePattern = regexp.MustCompile(`^[0-9]{10}$`)
)

// Policy toggles the optional format rules. The zero value only checks
// required fields and the email shape.
type Policy struct {
	RequireNameLettersOnly bool
	RequirePhoneDigits10   bool
}

// FieldErrors maps a field name to a human-readable message.
type FieldErrors map[string]string

// Fields returns the failing field names in sorted order.
func (fe FieldErrors) Fields() []string {
	out := make([]string, 0, len(fe))
	for k := range fe {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// Validator applies a Policy to raw contact input.
type Validator struct {
	policy Policy
}

// New returns a Validator for the given policy.
func New(policy Policy) *Validator {
	return &Validator{policy: policy}
}

// Policy returns the active policy.
func (v *Validator) Policy() Policy { return v.policy }

// Validate returns the normalized record, or a non-empty FieldErrors when the
// input is rejected. It has no side effects.
func (v *Validator) Validate(in model.ContactInput) (model.NewContact, FieldErrors) {
	rec := model.NewContact{
		Name:    strings.TrimSpace(in.Name.String()),
		Email:   strings.TrimSpace(in.Email.String()),
		Phone:   strings.TrimSpace(in.Phone.String()),
		Message: strings.TrimSpace(in.Message.String()),
	}

	errs := FieldErrors{}
	if rec.Name == "" {
		errs[FieldName] = MsgNameRequired
	}
	if rec.Email == "" {
		errs[FieldEmail] = MsgEmailRequired
	}
	if rec.Phone == "" {
		errs[FieldPhone] = MsgPhoneRequired
	}
	if len(errs) > 0 {
		return model.NewContact{}, errs
	}

	if v.policy.RequireNameLettersOnly && !namePattern.MatchString(rec.Name) {
		errs[FieldName] = MsgNameLettersOnly
	}
	if !emailPattern.MatchString(rec.Email) {
		errs[FieldEmail] = MsgEmailInvalid
	}
	if v.policy.RequirePhoneDigits10 && !phonePattern.MatchString(rec.Phone) {
		errs[FieldPhone] = MsgPhoneTenDigits
	}
	if len(errs) > 0 {
		return model.NewContact{}, errs
	}

	return rec, nil
}
