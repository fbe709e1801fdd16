package usecase_test

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"testing"
	"time"

	"go-clubmatch-backend/internal/domain"
	"go-clubmatch-backend/internal/usecase"
	"go-clubmatch-backend/pkg/apperror"
	"go-clubmatch-backend/pkg/paygate"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

const webhookSecret = "whsec_test"

func signedEvent(eventID, eventType, intentID, status string, metadata map[string]string) ([]byte, string) {
	meta, _ := json.Marshal(metadata)
	if metadata == nil {
		meta = []byte("{}")
	}
	payload := []byte(fmt.Sprintf(
		`{"id":%q,"type":%q,"created":%d,"data":{"object":{"id":%q,"status":%q,"metadata":%s}}}`,
		eventID, eventType, time.Now().Unix(), intentID, status, meta,
	))
	return payload, paygate.Sign(payload, webhookSecret, time.Now())
}

func newWebhookUC(payRepo *MockPaymentRepo, msUC *MockMembershipUC, plUC *MockPlacementUC) domain.WebhookUsecase {
	return usecase.NewWebhookUsecase(webhookSecret, payRepo, msUC, plUC, testAudit())
}

func TestHandleEvent(t *testing.T) {
	ctx := context.Background()

	t.Run("invalid signature acknowledged without processing", func(t *testing.T) {
		payload, _ := signedEvent("evt_1", domain.EventIntentSucceeded, "pi_1", "succeeded", nil)
		sig := paygate.Sign(payload, "wrong-secret", time.Now())

		payRepo := new(MockPaymentRepo)
		uc := newWebhookUC(payRepo, new(MockMembershipUC), new(MockPlacementUC))

		err := uc.HandleEvent(ctx, payload, sig)

		assert.NoError(t, err)
		payRepo.AssertNotCalled(t, "ClaimEvent", mock.Anything, mock.Anything)
	})

	t.Run("stale timestamp acknowledged without processing", func(t *testing.T) {
		payload, _ := signedEvent("evt_1", domain.EventIntentSucceeded, "pi_1", "succeeded", nil)
		sig := paygate.Sign(payload, webhookSecret, time.Now().Add(-10*time.Minute))

		payRepo := new(MockPaymentRepo)
		uc := newWebhookUC(payRepo, new(MockMembershipUC), new(MockPlacementUC))

		err := uc.HandleEvent(ctx, payload, sig)

		assert.NoError(t, err)
		payRepo.AssertNotCalled(t, "ClaimEvent", mock.Anything, mock.Anything)
	})

	t.Run("processed duplicate acknowledged without routing", func(t *testing.T) {
		payload, sig := signedEvent("evt_dup", domain.EventIntentSucceeded, "pi_1", "succeeded", nil)

		payRepo := new(MockPaymentRepo)
		payRepo.On("ClaimEvent", ctx, mock.AnythingOfType("*domain.WebhookEvent")).Return(false, nil)

		msUC := new(MockMembershipUC)
		uc := newWebhookUC(payRepo, msUC, new(MockPlacementUC))

		err := uc.HandleEvent(ctx, payload, sig)

		assert.NoError(t, err)
		msUC.AssertNotCalled(t, "ActivateByIntent", mock.Anything, mock.Anything)
	})

	t.Run("redelivery after transient failure processes the event", func(t *testing.T) {
		payload, sig := signedEvent("evt_retry", domain.EventIntentSucceeded, "pi_9", "succeeded",
			map[string]string{"purpose": domain.IntentPurposeMembership})

		// The claim is granted twice: the first attempt fails transiently, so
		// the gateway's redelivery must get another run instead of being
		// swallowed as a duplicate.
		payRepo := new(MockPaymentRepo)
		payRepo.On("ClaimEvent", ctx, mock.AnythingOfType("*domain.WebhookEvent")).Return(true, nil).Twice()
		payRepo.On("MarkEventProcessed", ctx, "evt_retry", mock.MatchedBy(func(msg *string) bool {
			return msg != nil
		})).Return(nil).Once()
		payRepo.On("MarkEventProcessed", ctx, "evt_retry", (*string)(nil)).Return(nil).Once()

		msUC := new(MockMembershipUC)
		msUC.On("ActivateByIntent", ctx, "pi_9").Return(nil, errors.New("db timeout")).Once()
		msUC.On("ActivateByIntent", ctx, "pi_9").Return(&domain.Membership{ID: 1}, nil).Once()

		uc := newWebhookUC(payRepo, msUC, new(MockPlacementUC))

		assert.Error(t, uc.HandleEvent(ctx, payload, sig))
		assert.NoError(t, uc.HandleEvent(ctx, payload, sig))
		payRepo.AssertExpectations(t)
		msUC.AssertExpectations(t)
	})

	t.Run("store failure surfaces so the gateway retries", func(t *testing.T) {
		payload, sig := signedEvent("evt_1", domain.EventIntentSucceeded, "pi_1", "succeeded", nil)

		payRepo := new(MockPaymentRepo)
		payRepo.On("ClaimEvent", ctx, mock.AnythingOfType("*domain.WebhookEvent")).Return(false, errors.New("db down"))

		uc := newWebhookUC(payRepo, new(MockMembershipUC), new(MockPlacementUC))
		err := uc.HandleEvent(ctx, payload, sig)

		assert.Error(t, err)
	})

	t.Run("succeeded membership intent activates", func(t *testing.T) {
		payload, sig := signedEvent("evt_1", domain.EventIntentSucceeded, "pi_1", "succeeded",
			map[string]string{"purpose": domain.IntentPurposeMembership, "candidate_id": "cand-1"})

		payRepo := new(MockPaymentRepo)
		payRepo.On("ClaimEvent", ctx, mock.MatchedBy(func(ev *domain.WebhookEvent) bool {
			return ev.EventID == "evt_1" && ev.EventType == domain.EventIntentSucceeded
		})).Return(true, nil)
		payRepo.On("MarkEventProcessed", ctx, "evt_1", (*string)(nil)).Return(nil)

		msUC := new(MockMembershipUC)
		msUC.On("ActivateByIntent", ctx, "pi_1").Return(&domain.Membership{ID: 1}, nil)

		uc := newWebhookUC(payRepo, msUC, new(MockPlacementUC))
		err := uc.HandleEvent(ctx, payload, sig)

		assert.NoError(t, err)
		payRepo.AssertExpectations(t)
		msUC.AssertExpectations(t)
	})

	t.Run("succeeded invoice intent settles the invoice", func(t *testing.T) {
		payload, sig := signedEvent("evt_2", domain.EventIntentSucceeded, "pi_2", "succeeded",
			map[string]string{"purpose": domain.IntentPurposeInvoice, "invoice_id": "42"})

		payRepo := new(MockPaymentRepo)
		payRepo.On("ClaimEvent", ctx, mock.AnythingOfType("*domain.WebhookEvent")).Return(true, nil)
		payRepo.On("MarkEventProcessed", ctx, "evt_2", (*string)(nil)).Return(nil)

		plUC := new(MockPlacementUC)
		plUC.On("MarkInvoicePaid", ctx, int64(42)).Return(nil)

		msUC := new(MockMembershipUC)
		uc := newWebhookUC(payRepo, msUC, plUC)
		err := uc.HandleEvent(ctx, payload, sig)

		assert.NoError(t, err)
		plUC.AssertExpectations(t)
		msUC.AssertNotCalled(t, "ActivateByIntent", mock.Anything, mock.Anything)
	})

	t.Run("failed intent cancels the pending membership", func(t *testing.T) {
		payload, sig := signedEvent("evt_3", domain.EventIntentFailed, "pi_3", "failed", nil)

		payRepo := new(MockPaymentRepo)
		payRepo.On("ClaimEvent", ctx, mock.AnythingOfType("*domain.WebhookEvent")).Return(true, nil)
		payRepo.On("MarkEventProcessed", ctx, "evt_3", (*string)(nil)).Return(nil)

		msUC := new(MockMembershipUC)
		msUC.On("CancelPendingByIntent", ctx, "pi_3").Return(nil)

		uc := newWebhookUC(payRepo, msUC, new(MockPlacementUC))
		err := uc.HandleEvent(ctx, payload, sig)

		assert.NoError(t, err)
		msUC.AssertExpectations(t)
	})

	t.Run("intent with no matching membership is permanent, not retried", func(t *testing.T) {
		payload, sig := signedEvent("evt_4", domain.EventIntentSucceeded, "pi_gone", "succeeded",
			map[string]string{"purpose": domain.IntentPurposeMembership})

		payRepo := new(MockPaymentRepo)
		payRepo.On("ClaimEvent", ctx, mock.AnythingOfType("*domain.WebhookEvent")).Return(true, nil)
		payRepo.On("MarkEventProcessed", ctx, "evt_4", (*string)(nil)).Return(nil)

		msUC := new(MockMembershipUC)
		msUC.On("ActivateByIntent", ctx, "pi_gone").
			Return(nil, apperror.New(http.StatusNotFound, "No membership found for this payment", domain.ErrNotFound))

		uc := newWebhookUC(payRepo, msUC, new(MockPlacementUC))
		err := uc.HandleEvent(ctx, payload, sig)

		assert.NoError(t, err)
	})

	t.Run("processing failure recorded and surfaced for retry", func(t *testing.T) {
		payload, sig := signedEvent("evt_5", domain.EventIntentSucceeded, "pi_5", "succeeded",
			map[string]string{"purpose": domain.IntentPurposeMembership})

		payRepo := new(MockPaymentRepo)
		payRepo.On("ClaimEvent", ctx, mock.AnythingOfType("*domain.WebhookEvent")).Return(true, nil)
		payRepo.On("MarkEventProcessed", ctx, "evt_5", mock.MatchedBy(func(msg *string) bool {
			return msg != nil && *msg != ""
		})).Return(nil)

		msUC := new(MockMembershipUC)
		msUC.On("ActivateByIntent", ctx, "pi_5").Return(nil, errors.New("db down"))

		uc := newWebhookUC(payRepo, msUC, new(MockPlacementUC))
		err := uc.HandleEvent(ctx, payload, sig)

		assert.Error(t, err)
		payRepo.AssertExpectations(t)
	})

	t.Run("unknown event type acknowledged", func(t *testing.T) {
		payload, sig := signedEvent("evt_6", "charge.refunded", "pi_6", "refunded", nil)

		payRepo := new(MockPaymentRepo)
		payRepo.On("ClaimEvent", ctx, mock.AnythingOfType("*domain.WebhookEvent")).Return(true, nil)
		payRepo.On("MarkEventProcessed", ctx, "evt_6", (*string)(nil)).Return(nil)

		uc := newWebhookUC(payRepo, new(MockMembershipUC), new(MockPlacementUC))
		assert.NoError(t, uc.HandleEvent(ctx, payload, sig))
	})
}
