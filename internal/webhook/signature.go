// Package webhook verifies and receives Cloud Agents status-change deliveries.
package webhook

import (
	"crypto/hmac"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
)

// SignatureHeader carries the hex HMAC-SHA256 of the raw request body.
const SignatureHeader = "X-Cursor-Signature"

// Sign returns the hex-encoded HMAC-SHA256 of body keyed by secret.
func Sign(secret, body []byte) string {
	mac := hmac.New(sha256.New, secret)
	mac.Write(body)
	return hex.EncodeToString(mac.Sum(nil))
}

// Verify checks signature (hex, optionally prefixed with "sha256=")
// against body using a constant-time comparison. Errors never include
// the expected signature.
func Verify(secret, body []byte, signature string) error {
	if len(secret) == 0 {
		return errors.New("webhook: secret is empty")
	}
	if len(body) == 0 {
		return errors.New("webhook: body is empty")
	}
	if signature == "" {
		return errors.New("webhook: signature is empty")
	}

	signatureBytes, err := hex.DecodeString(strings.TrimPrefix(strings.TrimSpace(signature), "sha256="))
	if err != nil {
		return fmt.Errorf("webhook: invalid hex signature: %w", err)
	}

	mac := hmac.New(sha256.New, secret)
	mac.Write(body)
	if subtle.ConstantTimeCompare(mac.Sum(nil), signatureBytes) != 1 {
		return errors.New("webhook: signature mismatch")
	}
	return nil
}
