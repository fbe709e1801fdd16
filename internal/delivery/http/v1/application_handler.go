package v1

import (
	"net/http"

	"go-clubmatch-backend/internal/delivery/http/response"
	"go-clubmatch-backend/internal/domain"
	"go-clubmatch-backend/pkg/apperror"

	"github.com/gin-gonic/gin"
)

type ApplicationHandler struct {
	applicationUC domain.ApplicationUsecase
}

func NewApplicationHandler(protected *gin.RouterGroup, applicationUC domain.ApplicationUsecase) {
	handler := &ApplicationHandler{applicationUC: applicationUC}

	applications := protected.Group("/applications")
	{
		applications.POST("", handler.Apply)
		applications.GET("/my", handler.MyApplications)
		applications.POST("/:id/withdraw", handler.Withdraw)
		applications.POST("/:id/decide", handler.Decide)
	}

	// Owning club's view of applications for one vacancy
	protected.GET("/vacancies/:id/applications", handler.ListByVacancy)
}

type ApplyRequest struct {
	VacancyID   int64  `json:"vacancy_id" binding:"required,gt=0"`
	CoverLetter string `json:"cover_letter" binding:"omitempty,max=4000,no_emoji"`
}

type DecideRequest struct {
	Status string `json:"status" binding:"required,oneof=accepted declined"`
	Notes  string `json:"notes" binding:"omitempty,max=2000"`
}

// Apply godoc
// @Summary      Apply to a vacancy
// @Description  Submit an application (candidates with an active membership only)
// @Tags         applications
// @Accept       json
// @Produce      json
// @Param        application  body      ApplyRequest  true  "Application JSON"
// @Success      201  {object}  response.Response
// @Failure      400  {object}  response.Response
// @Failure      403  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Router       /applications [post]
// @Security     BearerAuth
func (h *ApplicationHandler) Apply(c *gin.Context) {
	role := c.GetString(string(domain.KeyUserRole))
	if role != domain.RoleCandidate {
		c.Error(apperror.Forbidden("Only candidates can apply to vacancies"))
		return
	}

	var req ApplyRequest
	if !bindJSON(c, &req) {
		return
	}

	candidateID := c.GetString(string(domain.KeyUserID))
	app, err := h.applicationUC.Apply(c.Request.Context(), candidateID, req.VacancyID, req.CoverLetter)
	if err != nil {
		c.Error(err)
		return
	}

	response.Success(c, http.StatusCreated, "Application submitted", app)
}

// MyApplications godoc
// @Summary      List my applications
// @Description  Get all applications submitted by the logged-in candidate
// @Tags         applications
// @Produce      json
// @Success      200  {object}  response.Response
// @Router       /applications/my [get]
// @Security     BearerAuth
func (h *ApplicationHandler) MyApplications(c *gin.Context) {
	candidateID := c.GetString(string(domain.KeyUserID))
	apps, err := h.applicationUC.MyApplications(c.Request.Context(), candidateID)
	if err != nil {
		c.Error(err)
		return
	}

	response.Success(c, http.StatusOK, "Application list", apps)
}

// Withdraw godoc
// @Summary      Withdraw an application
// @Description  Withdraw a pending application (owning candidate only)
// @Tags         applications
// @Produce      json
// @Param        id   path      int  true  "Application ID"
// @Success      200  {object}  response.Response
// @Failure      400  {object}  response.Response
// @Failure      403  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Router       /applications/{id}/withdraw [post]
// @Security     BearerAuth
func (h *ApplicationHandler) Withdraw(c *gin.Context) {
	id, err := parseIDParam(c)
	if err != nil {
		c.Error(err)
		return
	}

	candidateID := c.GetString(string(domain.KeyUserID))
	if err := h.applicationUC.Withdraw(c.Request.Context(), candidateID, id); err != nil {
		c.Error(err)
		return
	}

	response.Success(c, http.StatusOK, "Application withdrawn", nil)
}

// ListByVacancy godoc
// @Summary      List applications for a vacancy
// @Description  Get all applications for one of the club's vacancies
// @Tags         applications
// @Produce      json
// @Param        id   path      int  true  "Vacancy ID"
// @Success      200  {object}  response.Response
// @Failure      403  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Router       /vacancies/{id}/applications [get]
// @Security     BearerAuth
func (h *ApplicationHandler) ListByVacancy(c *gin.Context) {
	role := c.GetString(string(domain.KeyUserRole))
	if role != domain.RoleTeam {
		c.Error(apperror.Forbidden("Only clubs can review applications"))
		return
	}

	vacancyID, err := parseIDParam(c)
	if err != nil {
		c.Error(err)
		return
	}

	teamID := c.GetString(string(domain.KeyUserID))
	apps, listErr := h.applicationUC.ListByVacancy(c.Request.Context(), teamID, vacancyID)
	if listErr != nil {
		c.Error(listErr)
		return
	}

	response.Success(c, http.StatusOK, "Applications for vacancy", apps)
}

// Decide godoc
// @Summary      Decide on an application
// @Description  Accept or decline a pending application. Accepting records the hire and raises the placement fee invoice.
// @Tags         applications
// @Accept       json
// @Produce      json
// @Param        id        path      int            true  "Application ID"
// @Param        decision  body      DecideRequest  true  "Decision JSON"
// @Success      200  {object}  response.Response
// @Failure      400  {object}  response.Response
// @Failure      403  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Router       /applications/{id}/decide [post]
// @Security     BearerAuth
func (h *ApplicationHandler) Decide(c *gin.Context) {
	role := c.GetString(string(domain.KeyUserRole))
	if role != domain.RoleTeam {
		c.Error(apperror.Forbidden("Only clubs can decide on applications"))
		return
	}

	id, err := parseIDParam(c)
	if err != nil {
		c.Error(err)
		return
	}

	var req DecideRequest
	if !bindJSON(c, &req) {
		return
	}

	teamID := c.GetString(string(domain.KeyUserID))
	if err := h.applicationUC.Decide(c.Request.Context(), teamID, id, req.Status, req.Notes); err != nil {
		c.Error(err)
		return
	}

	response.Success(c, http.StatusOK, "Application decided", nil)
}
