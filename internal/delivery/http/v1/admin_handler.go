package v1

import (
	"net/http"
	"strconv"

	"go-clubmatch-backend/internal/delivery/http/middleware"
	"go-clubmatch-backend/internal/delivery/http/response"
	"go-clubmatch-backend/internal/domain"

	"github.com/gin-gonic/gin"
)

type AdminHandler struct {
	adminUC     domain.AdminUsecase
	placementUC domain.PlacementUsecase
}

func NewAdminHandler(protected *gin.RouterGroup, adminUC domain.AdminUsecase, placementUC domain.PlacementUsecase) {
	handler := &AdminHandler{adminUC: adminUC, placementUC: placementUC}

	admin := protected.Group("/admin")
	admin.Use(middleware.RequireRole(domain.RoleAdmin))
	{
		admin.GET("/teams/pending", handler.ListPendingTeams)
		admin.POST("/teams/:id/approve", handler.ApproveTeam)

		admin.GET("/users", handler.ListUsers)
		admin.POST("/users/:id/activate", handler.ActivateUser)
		admin.POST("/users/:id/deactivate", handler.DeactivateUser)
		admin.DELETE("/users/:id", handler.DeleteUser)

		admin.POST("/invoices/:id/void", handler.VoidInvoice)

		admin.GET("/stats/revenue", handler.RevenueStats)
		admin.GET("/stats/platform", handler.PlatformStats)
	}
}

// ListPendingTeams godoc
// @Summary      List clubs awaiting approval
// @Tags         admin
// @Produce      json
// @Success      200  {object}  response.Response
// @Failure      403  {object}  response.Response
// @Router       /admin/teams/pending [get]
// @Security     BearerAuth
func (h *AdminHandler) ListPendingTeams(c *gin.Context) {
	teams, err := h.adminUC.ListPendingTeams(c.Request.Context())
	if err != nil {
		c.Error(err)
		return
	}

	response.Success(c, http.StatusOK, "Pending clubs", teams)
}

// ApproveTeam godoc
// @Summary      Approve a club
// @Description  Approve a pending club so it can publish vacancies
// @Tags         admin
// @Produce      json
// @Param        id   path      string  true  "Club user ID"
// @Success      200  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Router       /admin/teams/{id}/approve [post]
// @Security     BearerAuth
func (h *AdminHandler) ApproveTeam(c *gin.Context) {
	teamID := c.Param("id")
	if err := h.adminUC.ApproveTeam(c.Request.Context(), teamID); err != nil {
		c.Error(err)
		return
	}

	response.Success(c, http.StatusOK, "Club approved", nil)
}

// ListUsers godoc
// @Summary      List users
// @Description  List platform users, optionally filtered by role
// @Tags         admin
// @Produce      json
// @Param        role       query     string  false  "Filter by role (candidate, team, admin)"
// @Param        page       query     int     false  "Page number"
// @Param        page_size  query     int     false  "Page size"
// @Success      200  {object}  response.Response
// @Router       /admin/users [get]
// @Security     BearerAuth
func (h *AdminHandler) ListUsers(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	role := c.Query("role")

	users, total, err := h.adminUC.ListUsers(c.Request.Context(), role, page, pageSize)
	if err != nil {
		c.Error(err)
		return
	}

	response.Success(c, http.StatusOK, "User list", gin.H{
		"users":     users,
		"total":     total,
		"page":      page,
		"page_size": pageSize,
	})
}

// ActivateUser godoc
// @Summary      Reactivate a user account
// @Tags         admin
// @Produce      json
// @Param        id   path      string  true  "User ID"
// @Success      200  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Router       /admin/users/{id}/activate [post]
// @Security     BearerAuth
func (h *AdminHandler) ActivateUser(c *gin.Context) {
	if err := h.adminUC.SetUserActive(c.Request.Context(), c.Param("id"), true); err != nil {
		c.Error(err)
		return
	}

	response.Success(c, http.StatusOK, "User activated", nil)
}

// DeactivateUser godoc
// @Summary      Deactivate a user account
// @Description  Deactivated users cannot log in until reactivated
// @Tags         admin
// @Produce      json
// @Param        id   path      string  true  "User ID"
// @Success      200  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Router       /admin/users/{id}/deactivate [post]
// @Security     BearerAuth
func (h *AdminHandler) DeactivateUser(c *gin.Context) {
	if err := h.adminUC.SetUserActive(c.Request.Context(), c.Param("id"), false); err != nil {
		c.Error(err)
		return
	}

	response.Success(c, http.StatusOK, "User deactivated", nil)
}

// DeleteUser godoc
// @Summary      Delete a user account
// @Description  Permanently delete a user. Admin accounts cannot be deleted.
// @Tags         admin
// @Produce      json
// @Param        id   path      string  true  "User ID"
// @Success      200  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Router       /admin/users/{id} [delete]
// @Security     BearerAuth
func (h *AdminHandler) DeleteUser(c *gin.Context) {
	if err := h.adminUC.DeleteUser(c.Request.Context(), c.Param("id")); err != nil {
		c.Error(err)
		return
	}

	response.Success(c, http.StatusOK, "User deleted", nil)
}

// VoidInvoice godoc
// @Summary      Void an invoice
// @Description  Void an unpaid placement invoice, lifting the vacancy creation block it caused
// @Tags         admin
// @Produce      json
// @Param        id   path      int  true  "Invoice ID"
// @Success      200  {object}  response.Response
// @Failure      400  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Router       /admin/invoices/{id}/void [post]
// @Security     BearerAuth
func (h *AdminHandler) VoidInvoice(c *gin.Context) {
	id, err := parseIDParam(c)
	if err != nil {
		c.Error(err)
		return
	}

	if err := h.placementUC.VoidInvoice(c.Request.Context(), id); err != nil {
		c.Error(err)
		return
	}

	response.Success(c, http.StatusOK, "Invoice voided", nil)
}

// RevenueStats godoc
// @Summary      Revenue statistics
// @Description  Membership and placement revenue totals plus outstanding invoice count
// @Tags         admin
// @Produce      json
// @Success      200  {object}  response.Response
// @Router       /admin/stats/revenue [get]
// @Security     BearerAuth
func (h *AdminHandler) RevenueStats(c *gin.Context) {
	stats, err := h.adminUC.RevenueStats(c.Request.Context())
	if err != nil {
		c.Error(err)
		return
	}

	response.Success(c, http.StatusOK, "Revenue statistics", stats)
}

// PlatformStats godoc
// @Summary      Platform statistics
// @Description  Entity counts across the platform
// @Tags         admin
// @Produce      json
// @Success      200  {object}  response.Response
// @Router       /admin/stats/platform [get]
// @Security     BearerAuth
func (h *AdminHandler) PlatformStats(c *gin.Context) {
	stats, err := h.adminUC.PlatformStats(c.Request.Context())
	if err != nil {
		c.Error(err)
		return
	}

	response.Success(c, http.StatusOK, "Platform statistics", stats)
}
