package webhook

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ticketpass/internal/status"
	"ticketpass/models"
)

func TestParseNotification_Valid(t *testing.T) {
	raw := []byte(`{
		"notification_id": "ntf_8f2a",
		"reference_id": "txn_41",
		"status": "paid",
		"gateway": "acmepay",
		"amount": 149.90,
		"timestamp": "2026-08-29T12:00:00Z"
	}`)

	n, err := ParseNotification(raw)
	require.NoError(t, err)

	assert.Equal(t, "ntf_8f2a", n.NotificationID)
	assert.Equal(t, "txn_41", n.ReferenceID)
	assert.Equal(t, "acmepay", n.Gateway)
	assert.True(t, n.Amount.Equal(decimal.RequireFromString("149.90")))
	assert.Equal(t, time.Date(2026, 8, 29, 12, 0, 0, 0, time.UTC), n.Timestamp.UTC())

	target, ok := n.Target()
	require.True(t, ok)
	assert.Equal(t, models.TransactionPaid, target)
}

func TestParseNotification_InvalidJSON(t *testing.T) {
	_, err := ParseNotification([]byte(`{"notification_id": `))
	assert.ErrorIs(t, err, status.ErrMalformedPayload)
}

func TestParseNotification_MissingFields(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{"missing notification_id", `{"reference_id":"txn_41","status":"paid","timestamp":"2026-08-29T12:00:00Z"}`},
		{"missing reference_id", `{"notification_id":"ntf_1","status":"paid","timestamp":"2026-08-29T12:00:00Z"}`},
		{"missing timestamp", `{"notification_id":"ntf_1","reference_id":"txn_41","status":"paid"}`},
		{"unknown status", `{"notification_id":"ntf_1","reference_id":"txn_41","status":"refunded","timestamp":"2026-08-29T12:00:00Z"}`},
		{"negative amount", `{"notification_id":"ntf_1","reference_id":"txn_41","status":"paid","amount":-1,"timestamp":"2026-08-29T12:00:00Z"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseNotification([]byte(tt.raw))
			assert.ErrorIs(t, err, status.ErrMalformedPayload)
		})
	}
}

func TestNotification_Target(t *testing.T) {
	tests := []struct {
		gatewayStatus string
		target        models.TransactionStatus
		ok            bool
	}{
		{"paid", models.TransactionPaid, true},
		{"approved", models.TransactionPaid, true},
		{"cancelled", models.TransactionCancelled, true},
		{"failed", models.TransactionFailed, true},
		{"rejected", models.TransactionFailed, true},
		{"pending", "", false},
		{"", "", false},
	}

	for _, tt := range tests {
		n := &Notification{Status: tt.gatewayStatus}
		target, ok := n.Target()
		assert.Equal(t, tt.ok, ok, "status %q", tt.gatewayStatus)
		assert.Equal(t, tt.target, target, "status %q", tt.gatewayStatus)
	}
}

func TestNotification_AmountMatches(t *testing.T) {
	n := &Notification{Amount: decimal.RequireFromString("149.90")}

	assert.True(t, n.AmountMatches(14990))
	assert.False(t, n.AmountMatches(14900))
	assert.False(t, n.AmountMatches(0))

	// Omitted amount always matches.
	omitted := &Notification{}
	assert.True(t, omitted.AmountMatches(14990))
}
