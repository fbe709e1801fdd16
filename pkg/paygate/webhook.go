package paygate

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Verification failure kinds. Callers treat both as permanent: a delivery
// that does not verify is logged and acknowledged, never retried.
var (
	ErrInvalidSignature = errors.New("invalid webhook signature")
	ErrStaleTimestamp   = errors.New("webhook timestamp outside replay window")
)

// SignatureHeader is the header carrying the webhook signature,
// format: "t=<unix>,v1=<hex hmac>".
const SignatureHeader = "X-Gateway-Signature"

// replayTolerance bounds how old a signed timestamp may be. Events outside
// the window are treated as replays and rejected.
const replayTolerance = 5 * time.Minute

// Event is the parsed webhook envelope.
type Event struct {
	ID      string `json:"id"`
	Type    string `json:"type"`
	Created int64  `json:"created"`
	Data    struct {
		Object intentPayload `json:"object"`
	} `json:"data"`
}

// IntentID returns the payment intent id the event refers to.
func (e *Event) IntentID() string { return e.Data.Object.ID }

// IntentStatus returns the gateway-reported intent status.
func (e *Event) IntentStatus() string { return e.Data.Object.Status }

// Metadata returns the intent metadata attached at creation time.
func (e *Event) Metadata() map[string]string { return e.Data.Object.Metadata }

// VerifySignature checks the HMAC-SHA256 signature over "timestamp.body"
// using constant-time comparison, and enforces the replay window.
func VerifySignature(payload []byte, header, secret string, now time.Time) error {
	var ts, sig string
	for _, part := range strings.Split(header, ",") {
		k, v, found := strings.Cut(strings.TrimSpace(part), "=")
		if !found {
			continue
		}
		switch k {
		case "t":
			ts = v
		case "v1":
			sig = v
		}
	}
	if ts == "" || sig == "" {
		return fmt.Errorf("malformed header: %w", ErrInvalidSignature)
	}

	tsUnix, err := strconv.ParseInt(ts, 10, 64)
	if err != nil {
		return fmt.Errorf("malformed timestamp: %w", ErrInvalidSignature)
	}
	if diff := now.Sub(time.Unix(tsUnix, 0)); diff > replayTolerance || diff < -replayTolerance {
		return ErrStaleTimestamp
	}

	provided, err := hex.DecodeString(sig)
	if err != nil {
		return fmt.Errorf("malformed hex: %w", ErrInvalidSignature)
	}

	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(ts))
	mac.Write([]byte("."))
	mac.Write(payload)
	if !hmac.Equal(provided, mac.Sum(nil)) {
		return fmt.Errorf("signature mismatch: %w", ErrInvalidSignature)
	}
	return nil
}

// Sign computes a signature header for a payload. Used by tests and by the
// sandbox replay tool.
func Sign(payload []byte, secret string, at time.Time) string {
	ts := strconv.FormatInt(at.Unix(), 10)
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(ts))
	mac.Write([]byte("."))
	mac.Write(payload)
	return fmt.Sprintf("t=%s,v1=%s", ts, hex.EncodeToString(mac.Sum(nil)))
}

// ParseEvent decodes a verified payload into an Event.
func ParseEvent(payload []byte) (*Event, error) {
	var ev Event
	if err := json.Unmarshal(payload, &ev); err != nil {
		return nil, fmt.Errorf("malformed event payload: %w", err)
	}
	if ev.ID == "" || ev.Type == "" {
		return nil, fmt.Errorf("event missing id or type")
	}
	return &ev, nil
}
