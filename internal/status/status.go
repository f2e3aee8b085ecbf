package status

import "errors"

var (
	ErrOriginNotAllowed    = errors.New("webhook: source ip not on gateway allowlist")
	ErrRateLimited         = errors.New("webhook: rate limit exceeded")
	ErrInvalidSignature    = errors.New("webhook: signature mismatch")
	ErrStaleNotification   = errors.New("webhook: timestamp outside freshness window")
	ErrMalformedPayload    = errors.New("webhook: malformed payload")
	ErrAmountMismatch      = errors.New("webhook: notified amount does not match transaction")
	ErrTransactionNotFound = errors.New("webhook: transaction reference not found")
)
