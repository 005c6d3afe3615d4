package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"budgetwise/internal/core"
	"budgetwise/internal/log"
	"budgetwise/internal/store"

	"github.com/google/uuid"
)

// HelpDesk files and tracks user complaints. New tickets and status changes
// are announced as complaint events; reports ignore them.
type HelpDesk struct {
	store  store.ComplaintStore
	events Publisher
	newID  func() string
	now    func() time.Time
}

func NewHelpDesk(st store.ComplaintStore, events Publisher) *HelpDesk {
	return &HelpDesk{
		store:  st,
		events: events,
		newID:  uuid.NewString,
		now:    time.Now,
	}
}

func (h *HelpDesk) publish(ctx context.Context, op core.ChangeOp, c core.Complaint) {
	log.FromContext(ctx).InfoContext(ctx, "Complaint changed",
		log.NewFields().
			WithRecord(string(core.RecordComplaint), c.ID).
			WithOperation(string(op)).
			WithComponent(log.ComponentHelpDesk).
			ToSlice()...)
	if h.events == nil {
		return
	}
	h.events.Publish(core.ChangeEvent{Kind: core.RecordComplaint, Op: op, ID: c.ID, At: h.now().UTC()})
}

// Complaints lists every ticket, or only those raised by userID when set.
func (h *HelpDesk) Complaints(ctx context.Context, userID string) ([]core.Complaint, error) {
	all, err := h.store.ListComplaints(ctx)
	if err != nil {
		return nil, err
	}
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return all, nil
	}
	mine := make([]core.Complaint, 0, len(all))
	for _, c := range all {
		if c.UserID == userID {
			mine = append(mine, c)
		}
	}
	return mine, nil
}

func (h *HelpDesk) Complaint(ctx context.Context, id string) (core.Complaint, error) {
	return h.store.GetComplaint(ctx, id)
}

// File opens a new ticket. The id, status and timestamp are always assigned
// here.
func (h *HelpDesk) File(ctx context.Context, c core.Complaint) (core.Complaint, error) {
	c.UserID = strings.TrimSpace(c.UserID)
	c.Email = strings.TrimSpace(c.Email)
	c.Subject = strings.TrimSpace(c.Subject)
	c.Description = strings.TrimSpace(c.Description)
	c.ID = h.newID()
	c.Status = core.ComplaintOpen
	c.CreatedAt = h.now().UTC()
	if err := c.Validate(); err != nil {
		return core.Complaint{}, invalid(err)
	}
	if err := h.store.CreateComplaint(ctx, c); err != nil {
		return core.Complaint{}, fmt.Errorf("save complaint: %w", err)
	}
	h.publish(ctx, core.ChangeCreated, c)
	return c, nil
}

// SetStatus moves a ticket to status. Setting the current status again is a
// no-op and publishes nothing.
func (h *HelpDesk) SetStatus(ctx context.Context, id string, status core.ComplaintStatus) (core.Complaint, error) {
	if status != core.ComplaintOpen && status != core.ComplaintResolved {
		return core.Complaint{}, invalid(core.ErrInvalidStatus)
	}
	c, err := h.store.GetComplaint(ctx, id)
	if err != nil {
		return core.Complaint{}, err
	}
	if c.Status == status {
		return c, nil
	}
	c.Status = status
	if err := h.store.UpdateComplaint(ctx, c); err != nil {
		return core.Complaint{}, fmt.Errorf("update complaint: %w", err)
	}
	h.publish(ctx, core.ChangeUpdated, c)
	return c, nil
}
