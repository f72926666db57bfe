package notify

import (
	"context"

	"go.uber.org/multierr"
)

type Notifier interface {
	Send(ctx context.Context, title, text string) error
}

// Multi fans a notification out to every configured channel and
// reports the combined failures.
type Multi []Notifier

func (m Multi) Send(ctx context.Context, title, text string) error {
	var errs error
	for _, n := range m {
		if n == nil {
			continue
		}
		errs = multierr.Append(errs, n.Send(ctx, title, text))
	}
	return errs
}

// Noop discards notifications; used when no channel is configured and
// in tests.
type Noop struct{}

func (Noop) Send(ctx context.Context, title, text string) error { return nil }
