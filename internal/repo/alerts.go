package repo

import (
	"context"
	"time"

	"github.com/hamed0406/appsentry/internal/domain"
)

// AlertRecord holds the last verdict we recorded for a subject and the
// last time a notification went out (used for cooldown).
type AlertRecord struct {
	Subject     string
	LastVerdict domain.Verdict
	LastSentAt  *time.Time
}

// AlertStore is implemented by a persistence layer to track alert state
// across cycles.
type AlertStore interface {
	// GetAlert returns nil, nil if there's no record yet.
	GetAlert(ctx context.Context, subject string) (*AlertRecord, error)
	// SetAlert upserts the record. If sentAt.IsZero() the previous send
	// time is kept (state recorded without a notification), so the
	// cooldown window survives verdict-only updates.
	SetAlert(ctx context.Context, subject string, v domain.Verdict, sentAt time.Time) error
}
