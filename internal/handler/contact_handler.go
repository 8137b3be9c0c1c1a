package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/contactbook/backend/internal/model"
	"github.com/contactbook/backend/internal/service"
	"github.com/contactbook/backend/internal/validation"
)

// maxBodyBytes bounds POST /api/contacts request bodies.
const maxBodyBytes = 64 << 10

// ContactHandler handles create, list and delete for contacts.
type ContactHandler struct {
	contactService service.ContactService
}

// NewContactHandler creates a ContactHandler with the given service.
func NewContactHandler(contactService service.ContactService) *ContactHandler {
	return &ContactHandler{contactService: contactService}
}

// Create handles POST /api/contacts.
// name, email and phone are required; message is optional.
func (h *ContactHandler) Create(w http.ResponseWriter, r *http.Request) {
	var in model.ContactInput
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&in); err != nil {
		writeJSON(w, http.StatusBadRequest, messageResponse{Message: "Invalid request body"})
		return
	}

	contact, err := h.contactService.Create(r.Context(), in)
	if err != nil {
		var vErr *service.ValidationError
		var cErr *service.ConflictError
		switch {
		case errors.As(err, &vErr):
			writeJSON(w, http.StatusBadRequest, messageResponse{
				Message: validation.MsgValidationFailed,
				Errors:  vErr.Errors,
			})
		case errors.As(err, &cErr):
			writeJSON(w, http.StatusBadRequest, messageResponse{
				Message: validation.MsgValidationFailed,
				Errors:  cErr.FieldErrors(),
			})
		default:
			writeServerError(w)
		}
		return
	}

	writeJSON(w, http.StatusCreated, contact)
}

// List handles GET /api/contacts. The response is always a JSON array.
func (h *ContactHandler) List(w http.ResponseWriter, r *http.Request) {
	contacts, err := h.contactService.List(r.Context())
	if err != nil {
		writeServerError(w)
		return
	}

	if contacts == nil {
		contacts = []*model.Contact{}
	}
	writeJSON(w, http.StatusOK, contacts)
}

// Delete handles DELETE /api/contacts/{id}.
func (h *ContactHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	res, err := h.contactService.Delete(r.Context(), id)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			writeJSON(w, http.StatusNotFound, messageResponse{Message: "Contact not found"})
			return
		}
		writeServerError(w)
		return
	}

	writeJSON(w, http.StatusOK, res)
}
