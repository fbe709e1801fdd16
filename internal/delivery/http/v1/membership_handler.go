package v1

import (
	"net/http"

	"go-clubmatch-backend/internal/delivery/http/response"
	"go-clubmatch-backend/internal/domain"
	"go-clubmatch-backend/pkg/apperror"

	"github.com/gin-gonic/gin"
)

type MembershipHandler struct {
	membershipUC domain.MembershipUsecase
}

func NewMembershipHandler(public *gin.RouterGroup, protected *gin.RouterGroup, membershipUC domain.MembershipUsecase) {
	handler := &MembershipHandler{membershipUC: membershipUC}

	// Plan catalog is public so the pricing page needs no login
	public.GET("/memberships/plans", handler.ListPlans)

	memberships := protected.Group("/memberships")
	{
		memberships.POST("/intent", handler.CreateIntent)
		memberships.POST("/confirm", handler.Confirm)
		memberships.POST("/upgrade", handler.Upgrade)
		memberships.GET("/me", handler.My)
		memberships.GET("/history", handler.History)
	}
}

type CreateIntentRequest struct {
	PlanType string `json:"plan_type" binding:"required,valid_plan"`
}

type ConfirmPaymentRequest struct {
	PaymentIntentID string `json:"payment_intent_id" binding:"required"`
}

type UpgradeRequest struct {
	PlanType string `json:"plan_type" binding:"required,valid_plan"`
}

// ListPlans godoc
// @Summary      List membership plans
// @Description  Get the plan catalog with prices and features
// @Tags         memberships
// @Produce      json
// @Success      200  {object}  response.Response
// @Router       /memberships/plans [get]
func (h *MembershipHandler) ListPlans(c *gin.Context) {
	plans := h.membershipUC.ListPlans(c.Request.Context())
	response.Success(c, http.StatusOK, "Membership plans", plans)
}

// CreateIntent godoc
// @Summary      Start membership purchase
// @Description  Create a payment intent for the chosen plan (candidates only)
// @Tags         memberships
// @Accept       json
// @Produce      json
// @Param        intent  body      CreateIntentRequest  true  "Plan selection"
// @Success      201  {object}  response.Response
// @Failure      400  {object}  response.Response
// @Failure      409  {object}  response.Response
// @Router       /memberships/intent [post]
// @Security     BearerAuth
func (h *MembershipHandler) CreateIntent(c *gin.Context) {
	if err := requireCandidate(c); err != nil {
		c.Error(err)
		return
	}

	var req CreateIntentRequest
	if !bindJSON(c, &req) {
		return
	}

	candidateID := c.GetString(string(domain.KeyUserID))
	intent, err := h.membershipUC.CreatePaymentIntent(c.Request.Context(), candidateID, req.PlanType)
	if err != nil {
		c.Error(err)
		return
	}

	response.Success(c, http.StatusCreated, "Payment intent created", intent)
}

// Confirm godoc
// @Summary      Confirm membership payment
// @Description  Synchronous fallback to webhook delivery: verifies the intent with the gateway and activates the membership
// @Tags         memberships
// @Accept       json
// @Produce      json
// @Param        confirm  body      ConfirmPaymentRequest  true  "Intent to confirm"
// @Success      200  {object}  response.Response
// @Failure      400  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Router       /memberships/confirm [post]
// @Security     BearerAuth
func (h *MembershipHandler) Confirm(c *gin.Context) {
	if err := requireCandidate(c); err != nil {
		c.Error(err)
		return
	}

	var req ConfirmPaymentRequest
	if !bindJSON(c, &req) {
		return
	}

	candidateID := c.GetString(string(domain.KeyUserID))
	membership, err := h.membershipUC.ConfirmPayment(c.Request.Context(), candidateID, req.PaymentIntentID)
	if err != nil {
		c.Error(err)
		return
	}

	response.Success(c, http.StatusOK, "Membership activated", membership)
}

// Upgrade godoc
// @Summary      Upgrade membership plan
// @Description  Create a prorated payment intent for a strictly higher tier. The plan switches once the charge succeeds; the renewal date is kept.
// @Tags         memberships
// @Accept       json
// @Produce      json
// @Param        upgrade  body      UpgradeRequest  true  "Target plan"
// @Success      201  {object}  response.Response
// @Failure      400  {object}  response.Response
// @Failure      409  {object}  response.Response
// @Router       /memberships/upgrade [post]
// @Security     BearerAuth
func (h *MembershipHandler) Upgrade(c *gin.Context) {
	if err := requireCandidate(c); err != nil {
		c.Error(err)
		return
	}

	var req UpgradeRequest
	if !bindJSON(c, &req) {
		return
	}

	candidateID := c.GetString(string(domain.KeyUserID))
	intent, err := h.membershipUC.Upgrade(c.Request.Context(), candidateID, req.PlanType)
	if err != nil {
		c.Error(err)
		return
	}

	response.Success(c, http.StatusCreated, "Upgrade payment intent created", intent)
}

// My godoc
// @Summary      Current membership
// @Description  Get the logged-in candidate's active membership
// @Tags         memberships
// @Produce      json
// @Success      200  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Router       /memberships/me [get]
// @Security     BearerAuth
func (h *MembershipHandler) My(c *gin.Context) {
	if err := requireCandidate(c); err != nil {
		c.Error(err)
		return
	}

	candidateID := c.GetString(string(domain.KeyUserID))
	membership, err := h.membershipUC.MyMembership(c.Request.Context(), candidateID)
	if err != nil {
		c.Error(err)
		return
	}

	response.Success(c, http.StatusOK, "Current membership", membership)
}

// History godoc
// @Summary      Membership history
// @Description  Get all memberships the candidate ever held, newest first
// @Tags         memberships
// @Produce      json
// @Success      200  {object}  response.Response
// @Router       /memberships/history [get]
// @Security     BearerAuth
func (h *MembershipHandler) History(c *gin.Context) {
	if err := requireCandidate(c); err != nil {
		c.Error(err)
		return
	}

	candidateID := c.GetString(string(domain.KeyUserID))
	history, err := h.membershipUC.History(c.Request.Context(), candidateID)
	if err != nil {
		c.Error(err)
		return
	}

	response.Success(c, http.StatusOK, "Membership history", history)
}

// requireCandidate guards membership routes: plans are bought by candidates,
// never by clubs or admins.
func requireCandidate(c *gin.Context) error {
	if role := c.GetString(string(domain.KeyUserRole)); role != domain.RoleCandidate {
		return apperror.Forbidden("Only candidates can manage memberships")
	}
	return nil
}
