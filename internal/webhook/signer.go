package webhook

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
)

// Sign computes the hex HMAC-SHA256 of the payload under the subscription
// secret. Receivers recompute it from the raw body and compare with
// hmac.Equal before trusting the delivery.
func Sign(secret string, payload []byte) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(payload)
	return hex.EncodeToString(mac.Sum(nil))
}

// Verify reports whether the signature matches the payload in constant time
func Verify(secret string, payload []byte, signature string) bool {
	return hmac.Equal([]byte(Sign(secret, payload)), []byte(signature))
}
