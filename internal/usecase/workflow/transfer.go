package workflow

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/bnema/snapfork/internal/boundaries/out"
	"github.com/bnema/snapfork/internal/domain"
)

// TransferWaiter drives a backup transfer from initiation to completion.
type TransferWaiter struct {
	transfers out.TransferClient
	sleeper   out.Sleeper
	log       zerolog.Logger
}

// NewTransferWaiter creates a transfer waiter.
func NewTransferWaiter(transfers out.TransferClient, sleeper out.Sleeper, log zerolog.Logger) *TransferWaiter {
	return &TransferWaiter{
		transfers: transfers,
		sleeper:   sleeper,
		log:       log,
	}
}

// Initiate requests a backup of dbName, retrying on a fixed interval while
// the provider rejects the request without an id. Provisioning races are
// expected to resolve, so there is no upper bound on retries.
func (w *TransferWaiter) Initiate(ctx context.Context, dbName string) (domain.TransferJob, error) {
	for {
		id, err := w.transfers.Capture(ctx, dbName)
		if err != nil {
			return domain.TransferJob{}, err
		}
		if id != "" {
			w.log.Info().Str("db", dbName).Str("transfer", id).Msg("backup transfer started")
			return domain.TransferJob{ID: id, Database: dbName}, nil
		}

		w.log.Info().Str("db", dbName).Msg("backup not accepted yet, retrying")
		if err := w.sleeper.Sleep(ctx, pollInterval); err != nil {
			return domain.TransferJob{}, err
		}
	}
}

// AwaitCompletion polls the transfer until its status resolves to completed.
// Errored and unknown statuses keep polling; only a completion timestamp
// terminates the loop.
func (w *TransferWaiter) AwaitCompletion(ctx context.Context, job domain.TransferJob) error {
	for {
		status := w.status(ctx, job)
		w.log.Info().
			Str("db", job.Database).
			Str("transfer", job.ID).
			Str("status", string(status)).
			Msg("backup transfer status")

		if status == domain.TransferStatusCompleted {
			return nil
		}

		if err := w.sleeper.Sleep(ctx, pollInterval); err != nil {
			return err
		}
	}
}

// status resolves the transfer's current status. Any failure to check is
// reported as unknown rather than raised; the caller keeps polling.
func (w *TransferWaiter) status(ctx context.Context, job domain.TransferJob) domain.TransferStatus {
	detail, err := w.transfers.Transfer(ctx, job.Database, job.ID)
	if err != nil {
		w.log.Warn().Err(err).Str("transfer", job.ID).Msg("could not check transfer status")
		return domain.TransferStatusUnknown
	}
	return detail.Status()
}
