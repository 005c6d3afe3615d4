package core

import (
	"errors"
	"net/mail"
	"strings"
	"time"
)

const (
	ComplaintOpen     ComplaintStatus = "open"
	ComplaintResolved ComplaintStatus = "resolved"
)

const maxDescriptionLen = 5000

type (
	ComplaintStatus string

	// Complaint is a help-desk ticket raised by a user.
	Complaint struct {
		ID          string
		UserID      string
		Email       string
		Subject     string
		Description string
		Status      ComplaintStatus
		CreatedAt   time.Time
	}
)

var (
	ErrEmptySubject       = errors.New("empty subject")
	ErrEmptyDescription   = errors.New("empty description")
	ErrDescriptionTooLong = errors.New("description too long (max 5000 characters)")
	ErrInvalidEmail       = errors.New("invalid email address")
	ErrInvalidStatus      = errors.New("invalid complaint status")
)

// ParseComplaintStatus maps a submitted status; empty means open.
func ParseComplaintStatus(s string) (ComplaintStatus, error) {
	switch ComplaintStatus(strings.ToLower(strings.TrimSpace(s))) {
	case "", ComplaintOpen:
		return ComplaintOpen, nil
	case ComplaintResolved:
		return ComplaintResolved, nil
	default:
		return "", ErrInvalidStatus
	}
}

func (c Complaint) Validate() error {
	if err := validateTitle(c.Subject, ErrEmptySubject); err != nil {
		return err
	}
	if strings.TrimSpace(c.Description) == "" {
		return ErrEmptyDescription
	}
	if len(c.Description) > maxDescriptionLen {
		return ErrDescriptionTooLong
	}
	if c.Email != "" {
		if addr, err := mail.ParseAddress(c.Email); err != nil || addr.Address != c.Email {
			return ErrInvalidEmail
		}
	}
	if _, err := ParseComplaintStatus(string(c.Status)); err != nil {
		return err
	}
	return nil
}
