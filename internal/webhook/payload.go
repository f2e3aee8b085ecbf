package webhook

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"ticketpass/internal/status"
	"ticketpass/models"
)

// Notification is the gateway's webhook payload. Amounts arrive in major
// currency units with decimal places; stored transaction amounts are minor
// units.
type Notification struct {
	NotificationID string          `json:"notification_id"`
	ReferenceID    string          `json:"reference_id"`
	Status         string          `json:"status"`
	Gateway        string          `json:"gateway,omitempty"`
	Amount         decimal.Decimal `json:"amount,omitempty"`
	Timestamp      time.Time       `json:"timestamp"`
}

// ParseNotification decodes and validates a raw webhook body. Decoding must
// never be fed back into signature verification; the signature covers the
// raw bytes only.
func ParseNotification(raw []byte) (*Notification, error) {
	var n Notification
	if err := json.Unmarshal(raw, &n); err != nil {
		return nil, fmt.Errorf("%w: %v", status.ErrMalformedPayload, err)
	}
	if err := n.Validate(); err != nil {
		return nil, err
	}
	return &n, nil
}

func (n *Notification) Validate() error {
	switch {
	case n.NotificationID == "":
		return fmt.Errorf("%w: missing notification_id", status.ErrMalformedPayload)
	case n.ReferenceID == "":
		return fmt.Errorf("%w: missing reference_id", status.ErrMalformedPayload)
	case n.Timestamp.IsZero():
		return fmt.Errorf("%w: missing timestamp", status.ErrMalformedPayload)
	case n.Amount.IsNegative():
		return fmt.Errorf("%w: negative amount", status.ErrMalformedPayload)
	}
	if _, ok := n.Target(); !ok {
		return fmt.Errorf("%w: unknown status %q", status.ErrMalformedPayload, n.Status)
	}
	return nil
}

// Target maps the gateway status onto the transaction state machine.
func (n *Notification) Target() (models.TransactionStatus, bool) {
	switch n.Status {
	case "paid", "approved":
		return models.TransactionPaid, true
	case "cancelled":
		return models.TransactionCancelled, true
	case "failed", "rejected":
		return models.TransactionFailed, true
	default:
		return "", false
	}
}

// AmountMatches reports whether the notified amount equals the stored
// minor-unit amount. A zero amount means the gateway omitted the field.
func (n *Notification) AmountMatches(minorUnits int64) bool {
	if n.Amount.IsZero() {
		return true
	}
	return n.Amount.Mul(decimal.NewFromInt(100)).Equal(decimal.NewFromInt(minorUnits))
}
