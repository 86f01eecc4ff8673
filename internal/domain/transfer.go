package domain

import "time"

// TransferStatus tracks the observed state of a backup transfer.
type TransferStatus string

const (
	TransferStatusPending   TransferStatus = "pending"
	TransferStatusCompleted TransferStatus = "completed"
	TransferStatusError     TransferStatus = "error"
	TransferStatusUnknown   TransferStatus = "unknown"
)

// TransferJob identifies a backup transfer running against a named database.
// Immutable once the provider assigns the id.
type TransferJob struct {
	ID       string
	Database string
}

// TransferDetail is the provider's detail record for a transfer.
type TransferDetail struct {
	ID         string
	Errors     []string
	FinishedAt *time.Time
}

// Status derives the transfer status from the detail record. An error
// indicator wins over a completion timestamp.
func (d TransferDetail) Status() TransferStatus {
	if len(d.Errors) > 0 {
		return TransferStatusError
	}
	if d.FinishedAt != nil {
		return TransferStatusCompleted
	}
	return TransferStatusPending
}
