// Package audit provides structured audit logging for billing and account
// events (webhook deliveries, invoice transitions, admin overrides). Audit
// entries go through zap so they can be shipped to a log pipeline separately
// from application logs.
package audit

import (
	"os"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// EventType classifies an audit entry.
type EventType string

const (
	EventWebhookReceived     EventType = "webhook_received"
	EventWebhookInvalidSig   EventType = "webhook_invalid_signature"
	EventWebhookDuplicate    EventType = "webhook_duplicate"
	EventWebhookProcessed    EventType = "webhook_processed"
	EventMembershipActivated EventType = "membership_activated"
	EventMembershipExpired   EventType = "membership_expired"
	EventInvoiceIssued       EventType = "invoice_issued"
	EventInvoicePaid         EventType = "invoice_paid"
	EventInvoiceVoided       EventType = "invoice_voided"
	EventTeamApproved        EventType = "team_approved"
)

// Logger writes audit events as structured JSON.
type Logger struct {
	zl      *zap.Logger
	service string
	env     string
}

// New builds a production zap logger writing to stdout. Returns a no-op
// logger on build failure so callers never need nil checks.
func New(serviceName string) *Logger {
	cfg := zap.NewProductionConfig()
	cfg.EncoderConfig.TimeKey = "timestamp"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	cfg.DisableStacktrace = true

	zl, err := cfg.Build()
	if err != nil {
		zl = zap.NewNop()
	}

	env := os.Getenv("APP_ENV")
	if env == "" {
		env = "development"
	}

	return &Logger{zl: zl, service: serviceName, env: env}
}

// Event records an audit entry. Fields come in pairs via zap.Field helpers.
func (l *Logger) Event(event EventType, fields ...zap.Field) {
	base := []zap.Field{
		zap.String("service", l.service),
		zap.String("env", l.env),
		zap.String("event", string(event)),
		zap.Time("at", time.Now().UTC()),
	}
	l.zl.Info("audit", append(base, fields...)...)
}

// Sync flushes buffered entries. Call on shutdown.
func (l *Logger) Sync() {
	_ = l.zl.Sync()
}
