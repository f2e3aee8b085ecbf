package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTransactionStatus_Terminal(t *testing.T) {
	tests := []struct {
		status   TransactionStatus
		terminal bool
	}{
		{TransactionPending, false},
		{TransactionPaid, true},
		{TransactionCancelled, true},
		{TransactionFailed, true},
		{TransactionStatus("unknown"), false},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.terminal, tt.status.Terminal(), "status %q", tt.status)
	}
}
