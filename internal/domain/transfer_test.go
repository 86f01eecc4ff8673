package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestTransferDetailStatus(t *testing.T) {
	now := time.Now()

	assert.Equal(t, TransferStatusPending, TransferDetail{}.Status())
	assert.Equal(t, TransferStatusCompleted, TransferDetail{FinishedAt: &now}.Status())
	assert.Equal(t, TransferStatusError, TransferDetail{Errors: []string{"boom"}}.Status())

	// An error indicator wins even when a completion timestamp is present.
	assert.Equal(t, TransferStatusError, TransferDetail{Errors: []string{"boom"}, FinishedAt: &now}.Status())
}
