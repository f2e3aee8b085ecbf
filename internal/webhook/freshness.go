package webhook

import (
	"time"

	"ticketpass/internal/status"
)

// DefaultFreshnessWindow bounds the replay window without needing nonce
// storage beyond it.
const DefaultFreshnessWindow = 5 * time.Minute

// CheckFreshness rejects notifications whose embedded timestamp is stale or
// implausibly in the future relative to now.
func CheckFreshness(ts, now time.Time, window time.Duration) error {
	if window <= 0 {
		window = DefaultFreshnessWindow
	}

	drift := now.Sub(ts)
	if drift < 0 {
		drift = -drift
	}
	if drift > window {
		return status.ErrStaleNotification
	}
	return nil
}
