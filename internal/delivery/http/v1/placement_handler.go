package v1

import (
	"net/http"

	"go-clubmatch-backend/internal/delivery/http/response"
	"go-clubmatch-backend/internal/domain"
	"go-clubmatch-backend/pkg/apperror"

	"github.com/gin-gonic/gin"
)

type PlacementHandler struct {
	placementUC domain.PlacementUsecase
}

// NewPlacementHandler registers the club-facing placement and invoice routes.
// Placements are created by accepting an application, never directly here;
// invoices are settled by the payment webhook or voided by an admin.
func NewPlacementHandler(protected *gin.RouterGroup, placementUC domain.PlacementUsecase) {
	handler := &PlacementHandler{placementUC: placementUC}

	teams := protected.Group("/teams")
	{
		teams.GET("/placements", handler.ListPlacements)
		teams.GET("/invoices", handler.ListInvoices)
		teams.GET("/billing-status", handler.BillingStatus)
	}
}

// ListPlacements godoc
// @Summary      List the club's placements
// @Description  Get all hires recorded for the logged-in club
// @Tags         placements
// @Produce      json
// @Success      200  {object}  response.Response
// @Failure      403  {object}  response.Response
// @Router       /teams/placements [get]
// @Security     BearerAuth
func (h *PlacementHandler) ListPlacements(c *gin.Context) {
	if err := requireTeam(c); err != nil {
		c.Error(err)
		return
	}

	teamID := c.GetString(string(domain.KeyUserID))
	placements, err := h.placementUC.ListTeamPlacements(c.Request.Context(), teamID)
	if err != nil {
		c.Error(err)
		return
	}

	response.Success(c, http.StatusOK, "Placement list", placements)
}

// ListInvoices godoc
// @Summary      List the club's invoices
// @Description  Get all placement fee invoices for the logged-in club
// @Tags         placements
// @Produce      json
// @Success      200  {object}  response.Response
// @Failure      403  {object}  response.Response
// @Router       /teams/invoices [get]
// @Security     BearerAuth
func (h *PlacementHandler) ListInvoices(c *gin.Context) {
	if err := requireTeam(c); err != nil {
		c.Error(err)
		return
	}

	teamID := c.GetString(string(domain.KeyUserID))
	invoices, err := h.placementUC.ListTeamInvoices(c.Request.Context(), teamID)
	if err != nil {
		c.Error(err)
		return
	}

	response.Success(c, http.StatusOK, "Invoice list", invoices)
}

// BillingStatus godoc
// @Summary      Vacancy creation eligibility
// @Description  Reports whether the club can create vacancies or is blocked by unpaid placement invoices
// @Tags         placements
// @Produce      json
// @Success      200  {object}  response.Response
// @Failure      403  {object}  response.Response
// @Router       /teams/billing-status [get]
// @Security     BearerAuth
func (h *PlacementHandler) BillingStatus(c *gin.Context) {
	if err := requireTeam(c); err != nil {
		c.Error(err)
		return
	}

	teamID := c.GetString(string(domain.KeyUserID))
	allowed, err := h.placementUC.CanCreateVacancy(c.Request.Context(), teamID)
	if err != nil {
		c.Error(apperror.Internal(err))
		return
	}

	response.Success(c, http.StatusOK, "Billing status", gin.H{
		"can_create_vacancy": allowed,
	})
}

func requireTeam(c *gin.Context) error {
	if role := c.GetString(string(domain.KeyUserRole)); role != domain.RoleTeam {
		return apperror.Forbidden("Only clubs can access this resource")
	}
	return nil
}
