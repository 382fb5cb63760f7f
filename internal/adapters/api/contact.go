package api

import (
	"context"
	"errors"
	"net/mail"
	"strings"

	"github.com/shieldsight/shieldsight-cli/internal/core"
)

var (
	// ErrContactFieldsRequired is returned when any contact field is empty.
	ErrContactFieldsRequired = errors.New("all contact fields are required")

	// ErrContactInvalidEmail is returned when the sender address does not parse.
	ErrContactInvalidEmail = errors.New("invalid email address")
)

// ValidateContact checks a contact message before submission. Validation
// failures abort the operation with no request made.
func ValidateContact(msg core.ContactMessage) error {
	if strings.TrimSpace(msg.Name) == "" ||
		strings.TrimSpace(msg.Email) == "" ||
		strings.TrimSpace(msg.Subject) == "" ||
		strings.TrimSpace(msg.Message) == "" {
		return ErrContactFieldsRequired
	}
	if _, err := mail.ParseAddress(msg.Email); err != nil {
		return ErrContactInvalidEmail
	}
	return nil
}

// SubmitContact sends a contact-form message to the backend.
func (c *Client) SubmitContact(ctx context.Context, msg core.ContactMessage) error {
	if err := ValidateContact(msg); err != nil {
		return err
	}
	return c.postJSON(ctx, "/contact/", msg, nil)
}
