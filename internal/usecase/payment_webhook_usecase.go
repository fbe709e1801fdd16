package usecase

import (
	"context"
	"errors"
	"strconv"
	"time"

	"go-clubmatch-backend/internal/domain"
	"go-clubmatch-backend/pkg/audit"
	"go-clubmatch-backend/pkg/logger"
	"go-clubmatch-backend/pkg/paygate"

	"go.uber.org/zap"
)

type webhookUsecase struct {
	secret        string
	paymentRepo   domain.PaymentRepository
	membershipUC  domain.MembershipUsecase
	placementUC   domain.PlacementUsecase
	auditLog      *audit.Logger
}

func NewWebhookUsecase(
	secret string,
	paymentRepo domain.PaymentRepository,
	membershipUC domain.MembershipUsecase,
	placementUC domain.PlacementUsecase,
	auditLog *audit.Logger,
) domain.WebhookUsecase {
	return &webhookUsecase{
		secret:        secret,
		paymentRepo:   paymentRepo,
		membershipUC:  membershipUC,
		placementUC:   placementUC,
		auditLog:      auditLog,
	}
}

// HandleEvent verifies, dedupes and routes one gateway delivery. Per gateway
// convention the delivery layer always answers 200 for signature failures and
// duplicates: returning an error from here means the gateway should retry,
// which is only correct for transient processing failures.
func (u *webhookUsecase) HandleEvent(ctx context.Context, payload []byte, signatureHeader string) error {
	if err := paygate.VerifySignature(payload, signatureHeader, u.secret, time.Now()); err != nil {
		// Fail closed, swallow: log and acknowledge so the gateway stops
		// retrying a delivery that will never verify.
		u.auditLog.Event(audit.EventWebhookInvalidSig, zap.String("reason", err.Error()))
		return nil
	}

	event, err := paygate.ParseEvent(payload)
	if err != nil {
		u.auditLog.Event(audit.EventWebhookInvalidSig, zap.String("reason", err.Error()))
		return nil
	}

	claimed, err := u.paymentRepo.ClaimEvent(ctx, &domain.WebhookEvent{
		EventID:   event.ID,
		EventType: event.Type,
		Payload:   payload,
	})
	if err != nil {
		// Transient store failure: let the gateway retry.
		return err
	}
	if !claimed {
		// Already processed successfully by an earlier delivery. Events whose
		// previous attempt failed are claimed again, so the 5xx retry path
		// actually gets a second run at them.
		u.auditLog.Event(audit.EventWebhookDuplicate, zap.String("event_id", event.ID))
		return nil
	}

	u.auditLog.Event(audit.EventWebhookReceived,
		zap.String("event_id", event.ID),
		zap.String("event_type", event.Type),
	)

	processErr := u.route(ctx, event)

	var errMsg *string
	if processErr != nil {
		msg := processErr.Error()
		errMsg = &msg
		logger.Log.Error("Webhook processing failed", "event_id", event.ID, "error", processErr)
	}
	if err := u.paymentRepo.MarkEventProcessed(ctx, event.ID, errMsg); err != nil {
		logger.Log.Warn("Failed to mark webhook event processed", "event_id", event.ID, "error", err)
	}

	u.auditLog.Event(audit.EventWebhookProcessed,
		zap.String("event_id", event.ID),
		zap.Bool("ok", processErr == nil),
	)
	return processErr
}

func (u *webhookUsecase) route(ctx context.Context, event *paygate.Event) error {
	switch event.Type {
	case domain.EventIntentSucceeded:
		return u.handleSucceeded(ctx, event)
	case domain.EventIntentFailed:
		return u.membershipUC.CancelPendingByIntent(ctx, event.IntentID())
	default:
		// Unknown types are recorded by the dedupe insert and acknowledged.
		logger.Log.Info("Ignoring unhandled webhook event type", "event_type", event.Type)
		return nil
	}
}

func (u *webhookUsecase) handleSucceeded(ctx context.Context, event *paygate.Event) error {
	switch event.Metadata()["purpose"] {
	case domain.IntentPurposeInvoice:
		invoiceID, err := strconv.ParseInt(event.Metadata()["invoice_id"], 10, 64)
		if err != nil {
			logger.Log.Warn("Invoice webhook missing invoice_id metadata", "event_id", event.ID)
			return nil
		}
		return u.placementUC.MarkInvoicePaid(ctx, invoiceID)
	default:
		// Membership purchases and upgrades both route here.
		_, err := u.membershipUC.ActivateByIntent(ctx, event.IntentID())
		if errors.Is(err, domain.ErrNotFound) {
			// Permanent: no membership will ever match, retrying is useless.
			logger.Log.Warn("Webhook intent has no matching membership", "intent_id", event.IntentID())
			return nil
		}
		return err
	}
}
