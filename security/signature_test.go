package security

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testSecret = []byte("0123456789abcdef0123456789abcdef")

func TestVerifySignature_Valid(t *testing.T) {
	body := []byte(`{"notification_id":"n-1","reference_id":"t-1","status":"paid"}`)
	sig := Hmac256(body, testSecret)

	assert.True(t, VerifySignature(body, sig, testSecret))
}

func TestVerifySignature_Sha256Prefix(t *testing.T) {
	body := []byte(`{"notification_id":"n-1"}`)
	sig := "sha256=" + Hmac256(body, testSecret)

	assert.True(t, VerifySignature(body, sig, testSecret))
}

func TestVerifySignature_FlippedPayloadByte(t *testing.T) {
	body := []byte(`{"notification_id":"n-1","status":"paid"}`)
	sig := Hmac256(body, testSecret)

	// Flipping any single byte of the payload must invalidate the signature.
	for i := range body {
		tampered := make([]byte, len(body))
		copy(tampered, body)
		tampered[i] ^= 0x01

		require.False(t, VerifySignature(tampered, sig, testSecret),
			"tampered byte %d accepted", i)
	}
}

func TestVerifySignature_FlippedSignatureByte(t *testing.T) {
	body := []byte(`{"notification_id":"n-1","status":"paid"}`)
	sig := []byte(Hmac256(body, testSecret))

	for i := range sig {
		tampered := make([]byte, len(sig))
		copy(tampered, sig)
		if tampered[i] == 'f' {
			tampered[i] = '0'
		} else {
			tampered[i] = 'f'
		}
		if string(tampered) == string(sig) {
			continue
		}

		require.False(t, VerifySignature(body, string(tampered), testSecret),
			"tampered signature byte %d accepted", i)
	}
}

func TestVerifySignature_WrongSecret(t *testing.T) {
	body := []byte(`{"notification_id":"n-1"}`)
	sig := Hmac256(body, []byte("another-secret-another-secret-32"))

	assert.False(t, VerifySignature(body, sig, testSecret))
}

func TestVerifySignature_EmptyHeader(t *testing.T) {
	assert.False(t, VerifySignature([]byte("body"), "", testSecret))
	assert.False(t, VerifySignature([]byte("body"), "   ", testSecret))
	assert.False(t, VerifySignature([]byte("body"), "sha256=", testSecret))
}
