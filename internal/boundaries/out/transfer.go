package out

import (
	"context"

	"github.com/bnema/snapfork/internal/domain"
)

// TransferClient initiates backup transfers and resolves their status.
type TransferClient interface {
	// Capture requests a new backup of the named database. The returned id
	// may be empty when the provider rejects the request, e.g. while the
	// database is still provisioning; callers are expected to retry.
	Capture(ctx context.Context, dbName string) (string, error)
	// Transfer fetches the detail record for a transfer.
	Transfer(ctx context.Context, dbName, id string) (domain.TransferDetail, error)
}
