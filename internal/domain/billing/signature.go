package billing

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
)

// SignPin computes the hex HMAC-SHA256 of timestamp + "." + body.
func SignPin(secret, timestamp string, body []byte) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(timestamp))
	mac.Write([]byte("."))
	mac.Write(body)
	return hex.EncodeToString(mac.Sum(nil))
}

// VerifyPinSignature checks a Pin Payments webhook signature in constant time.
// The timestamp is only part of the signed material; its age is not checked.
func VerifyPinSignature(secret, timestamp, signature string, body []byte) bool {
	if secret == "" || timestamp == "" || signature == "" {
		return false
	}
	expected := SignPin(secret, timestamp, body)
	return hmac.Equal([]byte(expected), []byte(signature))
}
