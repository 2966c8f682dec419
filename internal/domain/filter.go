package domain

import (
	"context"
	"time"
)

// Filter is a saved query of a user. When Email is set the user is notified about new
// events matching Query.
type Filter struct {
	ID               int64     `json:"id"`
	Name             string    `json:"name"`
	UserEmail        string    `json:"user_email"`
	Query            string    `json:"query"`
	Email            bool      `json:"email"`
	ModificationTime time.Time `json:"modification_time"`
}

// FilterRepository defines storage for saved filters.
type FilterRepository interface {
	// ListWithEmail returns every filter with email notifications enabled.
	ListWithEmail(ctx context.Context) ([]*Filter, error)
}

// NotificationService notifies users whose filters match an event.
type NotificationService interface {
	// NotifyEventMatches sends one email per matching filter and returns how many were sent.
	NotifyEventMatches(ctx context.Context, eventID int64) (int, error)
}
