package payment

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
)

// SignatureHeader carries the provider's HMAC over the raw request body.
const SignatureHeader = "X-Payment-Signature"

// VerifySignature checks the webhook HMAC-SHA256 before anything in the
// payload is trusted. Constant-time compare; an unverifiable event is
// rejected outright.
func (b *Bridge) VerifySignature(payload []byte, signature string) bool {
	if len(b.secret) == 0 || signature == "" {
		return false
	}

	mac := hmac.New(sha256.New, b.secret)
	mac.Write(payload)
	expected := hex.EncodeToString(mac.Sum(nil))

	return hmac.Equal([]byte(expected), []byte(signature))
}

// Sign computes the signature for a payload; used by tests and local
// provider stubs.
func Sign(secret, payload []byte) string {
	mac := hmac.New(sha256.New, secret)
	mac.Write(payload)
	return hex.EncodeToString(mac.Sum(nil))
}
