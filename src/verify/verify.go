package verify

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"

	"github.com/sirupsen/logrus"
	"github.com/tributemc/tribute-gateway/src/utils"
)

// Signature checks the hex-encoded HMAC-SHA256 signature Tribute sends in
// the trbt-signature header against the raw request body. Must run before
// the body is parsed. An empty signature always fails.
func Signature(body []byte, signature string, secret string) bool {
	if signature == "" {
		logrus.Error("webhook rejected, missing signature header")
		return false
	}

	h := hmac.New(sha256.New, utils.S2B(secret))

	// Write Data to it
	_, _ = h.Write(body)

	// Get result and encode as hexadecimal string
	expected := hex.EncodeToString(h.Sum(nil))

	if !hmac.Equal(utils.S2B(signature), utils.S2B(expected)) {
		logrus.Errorf("webhook rejected, signature mismatch, got=%s", truncate(signature, 16))
		return false
	}

	return true
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
