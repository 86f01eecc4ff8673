package out

import (
	"context"

	"github.com/bnema/snapfork/internal/domain"
)

// DatabaseProbe opens a transient connection to a database and answers
// whether the instance is still in recovery (replica catch-up) mode.
//
// Connection failures are returned as *domain.ProbeError so callers can
// branch on a structured kind instead of matching error text. The probe owns
// the connection for the duration of the call and closes it on every path.
type DatabaseProbe interface {
	InRecovery(ctx context.Context, info domain.ConnInfo) (bool, error)
}
