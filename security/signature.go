package security

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"strings"
)

// MinSecretLength is the minimum byte length accepted for the shared
// webhook secret.
const MinSecretLength = 32

// Hmac256 is a function to generate HMAC256 hash.
func Hmac256(body, key []byte) string {
	hash := hmac.New(sha256.New, key)
	hash.Write(body)
	return hex.EncodeToString(hash.Sum(nil))
}

// VerifySignature recomputes the HMAC-SHA256 of the raw request body and
// compares it to the claimed header value in constant time. It must run on
// the bytes as received; re-serialized JSON can differ byte-for-byte and
// break the signature. A "sha256=" prefix on the header is tolerated.
func VerifySignature(rawBody []byte, signature string, secret []byte) bool {
	signature = strings.TrimPrefix(strings.TrimSpace(signature), "sha256=")
	if signature == "" {
		return false
	}

	expected := Hmac256(rawBody, secret)
	return hmac.Equal([]byte(signature), []byte(expected))
}
