package paygate

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

const testSecret = "whsec_test_123"

func TestVerifySignature(t *testing.T) {
	payload := []byte(`{"id":"evt_1","type":"payment_intent.succeeded"}`)
	now := time.Now()

	t.Run("valid signature passes", func(t *testing.T) {
		header := Sign(payload, testSecret, now)
		err := VerifySignature(payload, header, testSecret, now)
		assert.NoError(t, err)
	})

	t.Run("wrong secret fails", func(t *testing.T) {
		header := Sign(payload, "whsec_other", now)
		err := VerifySignature(payload, header, testSecret, now)
		assert.ErrorIs(t, err, ErrInvalidSignature)
	})

	t.Run("tampered body fails", func(t *testing.T) {
		header := Sign(payload, testSecret, now)
		err := VerifySignature([]byte(`{"id":"evt_1","type":"payment_intent.failed"}`), header, testSecret, now)
		assert.ErrorIs(t, err, ErrInvalidSignature)
	})

	t.Run("stale timestamp fails", func(t *testing.T) {
		header := Sign(payload, testSecret, now.Add(-10*time.Minute))
		err := VerifySignature(payload, header, testSecret, now)
		assert.ErrorIs(t, err, ErrStaleTimestamp)
	})

	t.Run("malformed header fails", func(t *testing.T) {
		assert.ErrorIs(t, VerifySignature(payload, "", testSecret, now), ErrInvalidSignature)
		assert.ErrorIs(t, VerifySignature(payload, "t=abc,v1=zz", testSecret, now), ErrInvalidSignature)
	})
}

func TestParseEvent(t *testing.T) {
	t.Run("valid event", func(t *testing.T) {
		raw := []byte(`{"id":"evt_1","type":"payment_intent.succeeded","created":1700000000,"data":{"object":{"id":"pi_1","status":"succeeded","metadata":{"purpose":"membership"}}}}`)
		ev, err := ParseEvent(raw)
		assert.NoError(t, err)
		assert.Equal(t, "evt_1", ev.ID)
		assert.Equal(t, "pi_1", ev.IntentID())
		assert.Equal(t, "succeeded", ev.IntentStatus())
		assert.Equal(t, "membership", ev.Metadata()["purpose"])
	})

	t.Run("missing id rejected", func(t *testing.T) {
		_, err := ParseEvent([]byte(`{"type":"payment_intent.succeeded"}`))
		assert.Error(t, err)
	})

	t.Run("garbage rejected", func(t *testing.T) {
		_, err := ParseEvent([]byte(`not-json`))
		assert.Error(t, err)
	})
}
