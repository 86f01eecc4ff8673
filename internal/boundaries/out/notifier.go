package out

import "context"

// Notifier delivers a one-shot operator alert.
type Notifier interface {
	Notify(ctx context.Context, subject, body string) error
}
