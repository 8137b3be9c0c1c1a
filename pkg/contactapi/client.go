// Package contactapi is an HTTP client for the contact directory API.
package contactapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/contactbook/backend/internal/model"
)

// ErrNotFound is returned when the server answers 404 for a contact.
var ErrNotFound = errors.New("contactapi: contact not found")

// ValidationError carries the per-field messages of a 400 response.
type ValidationError struct {
	Message string
	Errors  map[string]string
}

func (e *ValidationError) Error() string {
	if len(e.Errors) == 0 {
		return e.Message
	}
	return fmt.Sprintf("%s: %v", e.Message, e.Errors)
}

// StatusError is any other non-2xx response.
type StatusError struct {
	StatusCode int
	Message    string
}

func (e *StatusError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("contactapi: unexpected status %d", e.StatusCode)
	}
	return fmt.Sprintf("contactapi: %s (status %d)", e.Message, e.StatusCode)
}

// Client talks to /api/contacts on a single server.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient returns a Client for baseURL. A nil httpClient gets a 10s timeout.
func NewClient(baseURL string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 10 * time.Second}
	}
	return &Client{baseURL: strings.TrimRight(baseURL, "/"), httpClient: httpClient}
}

// List fetches every contact, newest first.
func (c *Client) List(ctx context.Context) ([]*model.Contact, error) {
	var contacts []*model.Contact
	if err := c.do(ctx, http.MethodGet, "/api/contacts", nil, http.StatusOK, &contacts); err != nil {
		return nil, err
	}
	if contacts == nil {
		contacts = []*model.Contact{}
	}
	return contacts, nil
}

// Create submits a new contact and returns the stored record.
func (c *Client) Create(ctx context.Context, in model.ContactInput) (*model.Contact, error) {
	body, err := json.Marshal(in)
	if err != nil {
		return nil, err
	}
	var contact model.Contact
	if err := c.do(ctx, http.MethodPost, "/api/contacts", body, http.StatusCreated, &contact); err != nil {
		return nil, err
	}
	return &contact, nil
}

// Delete removes the contact with the given id.
func (c *Client) Delete(ctx context.Context, id string) (*model.DeletionResult, error) {
	var res model.DeletionResult
	if err := c.do(ctx, http.MethodDelete, "/api/contacts/"+url.PathEscape(id), nil, http.StatusOK, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

type errorResponse struct {
	Message string            `json:"message"`
	Errors  map[string]string `json:"errors"`
}

func (c *Client) do(ctx context.Context, method, path string, body []byte, want int, out any) error {
	var r io.Reader
	if body != nil {
		r = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, r)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode == want {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("contactapi: decode %s %s: %w", method, path, err)
		}
		return nil
	}

	var e errorResponse
	_ = json.NewDecoder(resp.Body).Decode(&e)
	switch resp.StatusCode {
	case http.StatusNotFound:
		return ErrNotFound
	case http.StatusBadRequest:
		return &ValidationError{Message: e.Message, Errors: e.Errors}
	default:
		return &StatusError{StatusCode: resp.StatusCode, Message: e.Message}
	}
}
