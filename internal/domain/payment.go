package domain

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// Payment intent status values, mirroring the gateway
const (
	IntentStatusCreated   = "created"
	IntentStatusSucceeded = "succeeded"
	IntentStatusFailed    = "failed"
)

// Gateway webhook event types the core reacts to
const (
	EventIntentSucceeded = "payment_intent.succeeded"
	EventIntentFailed    = "payment_intent.failed"
)

// Intent purposes carried in gateway metadata so the webhook can route.
const (
	IntentPurposeMembership = "membership"
	IntentPurposeInvoice    = "placement_invoice"
)

// PaymentIntent is the gateway-side representation of an in-progress charge.
// Persisted locally for audit only; the gateway remains the source of truth
// for charge status.
type PaymentIntent struct {
	ID           string            `json:"id"` // gateway intent id
	CandidateID  string            `json:"candidate_id"`
	Amount       decimal.Decimal   `json:"amount"`
	Currency     string            `json:"currency"`
	Status       string            `json:"status"`
	ClientSecret string            `json:"client_secret,omitempty"`
	Metadata     map[string]string `json:"metadata,omitempty"`
	CreatedAt    time.Time         `json:"created_at"`
}

// WebhookEvent records a received gateway event for idempotent processing.
// The (gateway event id) unique constraint is the dedupe mechanism under
// at-least-once delivery.
type WebhookEvent struct {
	ID          int64      `json:"id"`
	EventID     string     `json:"event_id"`
	EventType   string     `json:"event_type"`
	Payload     []byte     `json:"-"`
	ProcessedAt *time.Time `json:"processed_at,omitempty"`
	ProcessErr  *string    `json:"process_err,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
}

// CreateIntentRequest is the input to the gateway adapter. Amounts are sent
// in minor units per gateway convention.
type CreateIntentRequest struct {
	AmountCents int64
	Currency    string
	Metadata    map[string]string
}

// PaymentGateway is the anti-corruption boundary to the external payment
// processor. Implemented by pkg/paygate.
type PaymentGateway interface {
	CreateIntent(ctx context.Context, req CreateIntentRequest) (*PaymentIntent, error)
	GetIntent(ctx context.Context, intentID string) (*PaymentIntent, error)
}

type PaymentRepository interface {
	SaveIntent(ctx context.Context, intent *PaymentIntent) error
	UpdateIntentStatus(ctx context.Context, intentID, status string) error
	// ClaimEvent claims a webhook event id for processing. Returns false when
	// the event was already processed successfully; a redelivery of an event
	// whose earlier attempt failed is claimed again so the retry completes it.
	ClaimEvent(ctx context.Context, event *WebhookEvent) (bool, error)
	MarkEventProcessed(ctx context.Context, eventID string, processErr *string) error
}

// WebhookUsecase is the inbound boundary for gateway notifications.
// HandleEvent never surfaces signature or dedupe failures to the caller in a
// way that should reach end users: the delivery layer acknowledges them.
type WebhookUsecase interface {
	HandleEvent(ctx context.Context, payload []byte, signatureHeader string) error
}
