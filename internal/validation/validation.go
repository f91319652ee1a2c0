// Package validation provides functionality for validating slash-command signatures to verify request authenticity.
package validation

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Headers carrying the Slack request signature material.
const (
	SignatureHeader = "X-Slack-Signature"
	TimestampHeader = "X-Slack-Request-Timestamp"
)

const signatureVersion = "v0"

// MaxTimestampSkew bounds the replay window: requests whose claimed timestamp
// differs from the current wall clock by more than this are rejected.
const MaxTimestampSkew = 5 * time.Minute

// Verification failure causes. The handler collapses all of them into a
// single unauthorized verdict; they are distinguished for logging only.
var (
	ErrMissingSecret     = errors.New("missing signing secret")
	ErrMissingSignature  = errors.New("missing request signature")
	ErrInvalidTimestamp  = errors.New("missing or malformed request timestamp")
	ErrTimestampExpired  = errors.New("request timestamp outside the replay window")
	ErrSignatureMismatch = errors.New("request signature mismatch")
)

// FailureReason names a ValidateSignature error for metric labels and logs.
func FailureReason(err error) string {
	switch {
	case err == nil:
		return "none"
	case errors.Is(err, ErrMissingSecret):
		return "missing_secret"
	case errors.Is(err, ErrMissingSignature):
		return "missing_signature"
	case errors.Is(err, ErrInvalidTimestamp):
		return "invalid_timestamp"
	case errors.Is(err, ErrTimestampExpired):
		return "timestamp_expired"
	case errors.Is(err, ErrSignatureMismatch):
		return "signature_mismatch"
	default:
		return "unknown"
	}
}

// SigningSecret represents the shared secret used to validate slash-command signatures.
type SigningSecret string

// NewSigningSecret creates a new SigningSecret instance from the provided secret string and returns its address.
func NewSigningSecret(secret string) *SigningSecret {
	s := SigningSecret(secret)
	return &s
}

// ValidateSignature validates the timed HMAC-SHA256 signature of a slash-command
// request using the raw body and the lowercase-keyed request headers. The body
// must be the exact bytes as received, captured before any form decoding. The
// verdict is the returned error: nil means authentic, anything else means the
// request must be rejected. It never panics, whatever the input shape.
func (s *SigningSecret) ValidateSignature(body []byte, headers map[string]string, now time.Time) error {
	if s == nil || *s == "" {
		return ErrMissingSecret
	}
	signature := headers[strings.ToLower(SignatureHeader)]
	if signature == "" {
		return ErrMissingSignature
	}
	timestamp := headers[strings.ToLower(TimestampHeader)]
	if timestamp == "" {
		return ErrInvalidTimestamp
	}

	ts, err := strconv.ParseInt(timestamp, 10, 64)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidTimestamp, err)
	}
	sent := time.Unix(ts, 0)
	if now.Sub(sent) > MaxTimestampSkew || sent.Sub(now) > MaxTimestampSkew {
		return ErrTimestampExpired
	}

	// hmac.Equal is constant-time and handles unequal lengths without panicking.
	expected := s.ExpectedSignature(timestamp, body)
	if !hmac.Equal([]byte(expected), []byte(signature)) {
		return ErrSignatureMismatch
	}
	return nil
}

// ExpectedSignature computes the signature the platform would attach to a
// request carrying the given timestamp header value and raw body: the
// lowercase hex HMAC-SHA256 of "v0:<timestamp>:<body>", prefixed with "v0=".
// It is deterministic for identical inputs.
func (s *SigningSecret) ExpectedSignature(timestamp string, body []byte) string {
	mac := hmac.New(sha256.New, []byte(*s))
	mac.Write([]byte(signatureVersion + ":" + timestamp + ":"))
	mac.Write(body)
	return signatureVersion + "=" + hex.EncodeToString(mac.Sum(nil))
}
