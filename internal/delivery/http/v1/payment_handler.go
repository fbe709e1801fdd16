package v1

import (
	"io"
	"net/http"

	"go-clubmatch-backend/internal/delivery/http/middleware"
	"go-clubmatch-backend/internal/delivery/http/response"
	"go-clubmatch-backend/internal/domain"
	"go-clubmatch-backend/pkg/apperror"

	"github.com/gin-gonic/gin"
)

// maxWebhookBytes bounds gateway payloads; real deliveries are a few KB.
const maxWebhookBytes = 1 << 20 // 1 MB

type PaymentHandler struct {
	webhookUC domain.WebhookUsecase
}

// NewPaymentHandler registers the gateway webhook endpoint. It lives on the
// public group: the gateway authenticates with an HMAC signature, not a
// bearer token.
func NewPaymentHandler(public *gin.RouterGroup, webhookUC domain.WebhookUsecase) {
	handler := &PaymentHandler{webhookUC: webhookUC}

	public.POST("/payments/webhook", middleware.RateLimitMiddleware(middleware.WebhookRateLimitConfig()), handler.Webhook)
}

// Webhook godoc
// @Summary      Payment gateway webhook
// @Description  Receives signed payment events from the gateway. Invalid signatures and duplicate deliveries are acknowledged with 200 so the gateway stops retrying; only transient processing failures return 5xx.
// @Tags         payments
// @Accept       json
// @Produce      json
// @Success      200  {object}  response.Response
// @Failure      500  {object}  response.Response
// @Router       /payments/webhook [post]
func (h *PaymentHandler) Webhook(c *gin.Context) {
	payload, err := io.ReadAll(io.LimitReader(c.Request.Body, maxWebhookBytes))
	if err != nil {
		c.Error(apperror.BadRequest("Unreadable payload"))
		return
	}

	sig := c.GetHeader("X-Gateway-Signature")

	// A non-nil error means a transient failure: answer 5xx so the gateway
	// redelivers. Everything else, including bad signatures, gets a 200.
	if err := h.webhookUC.HandleEvent(c.Request.Context(), payload, sig); err != nil {
		c.Error(apperror.Internal(err))
		return
	}

	response.Success(c, http.StatusOK, "Event received", nil)
}
