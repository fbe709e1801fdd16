package v1

import (
	"net/http"
	"strconv"

	"go-clubmatch-backend/internal/delivery/http/response"
	"go-clubmatch-backend/internal/domain"
	"go-clubmatch-backend/pkg/apperror"

	"github.com/gin-gonic/gin"
)

type VacancyHandler struct {
	vacancyUC domain.VacancyUsecase
}

func NewVacancyHandler(public *gin.RouterGroup, protected *gin.RouterGroup, vacancyUC domain.VacancyUsecase) {
	handler := &VacancyHandler{vacancyUC: vacancyUC}

	// PUBLIC routes - browsing vacancies requires no account.
	// Only active vacancies are returned (server-side enforced).
	publicVacancies := public.Group("/vacancies")
	{
		publicVacancies.GET("", handler.ListActive)
		publicVacancies.GET("/:id", handler.GetDetails)
	}

	// PROTECTED routes - club vacancy management
	protectedVacancies := protected.Group("/vacancies")
	{
		protectedVacancies.POST("", handler.Create)
		protectedVacancies.PUT("/:id", handler.Update)
		protectedVacancies.DELETE("/:id", handler.Delete)
		protectedVacancies.POST("/:id/activate", handler.Activate)
		protectedVacancies.POST("/:id/close", handler.Close)
	}

	// Club-specific listing (only the club's own vacancies, drafts included)
	teams := protected.Group("/teams")
	{
		teams.GET("/vacancies", handler.ListByTeam)
	}
}

type CreateVacancyRequest struct {
	Title           string  `json:"title" binding:"required,min=3,max=150,no_emoji"`
	Description     string  `json:"description" binding:"required"`
	Requirements    string  `json:"requirements"`
	PositionType    string  `json:"position_type" binding:"omitempty,oneof=player coach staff"`
	ExperienceLevel string  `json:"experience_level"`
	Location        string  `json:"location" binding:"required"`
	SalaryMin       float64 `json:"salary_min" binding:"required,gt=0"`
	SalaryMax       float64 `json:"salary_max" binding:"required,gt=0,gtefield=SalaryMin"`
}

type UpdateVacancyRequest struct {
	Title           string  `json:"title" binding:"required,min=3,max=150,no_emoji"`
	Description     string  `json:"description" binding:"required"`
	Requirements    string  `json:"requirements"`
	PositionType    string  `json:"position_type" binding:"omitempty,oneof=player coach staff"`
	ExperienceLevel string  `json:"experience_level"`
	Location        string  `json:"location" binding:"required"`
	SalaryMin       float64 `json:"salary_min" binding:"required,gt=0"`
	SalaryMax       float64 `json:"salary_max" binding:"required,gt=0,gtefield=SalaryMin"`
}

// Create godoc
// @Summary      Create a vacancy
// @Description  Create a new vacancy (approved clubs only). Blocked while the club has unpaid placement invoices.
// @Tags         vacancies
// @Accept       json
// @Produce      json
// @Param        vacancy  body      CreateVacancyRequest  true  "Vacancy JSON"
// @Success      201  {object}  response.Response
// @Failure      400  {object}  response.Response
// @Failure      403  {object}  response.Response
// @Failure      409  {object}  response.Response
// @Router       /vacancies [post]
// @Security     BearerAuth
func (h *VacancyHandler) Create(c *gin.Context) {
	role := c.GetString(string(domain.KeyUserRole))
	if role != domain.RoleTeam {
		c.Error(apperror.Forbidden("Only clubs can create vacancies"))
		return
	}

	var req CreateVacancyRequest
	if !bindJSON(c, &req) {
		return
	}

	teamID := c.GetString(string(domain.KeyUserID))

	toPtr := func(s string) *string {
		if s == "" {
			return nil
		}
		return &s
	}

	vacancy := &domain.Vacancy{
		Title:           req.Title,
		Description:     req.Description,
		Requirements:    toPtr(req.Requirements),
		PositionType:    toPtr(req.PositionType),
		ExperienceLevel: toPtr(req.ExperienceLevel),
		Location:        req.Location,
		SalaryMin:       req.SalaryMin,
		SalaryMax:       req.SalaryMax,
	}

	if err := h.vacancyUC.CreateVacancy(c.Request.Context(), teamID, vacancy); err != nil {
		c.Error(err)
		return
	}

	response.Success(c, http.StatusCreated, "Vacancy created", vacancy)
}

// ListActive godoc
// @Summary      List active vacancies (public)
// @Description  Browse active vacancies with optional filters
// @Tags         vacancies
// @Produce      json
// @Param        page              query     int     false  "Page number"
// @Param        page_size         query     int     false  "Page size"
// @Param        location          query     string  false  "Filter by location"
// @Param        position_type     query     string  false  "Filter by position type (player, coach, staff)"
// @Param        experience_level  query     string  false  "Filter by experience level"
// @Param        salary_min        query     number  false  "Minimum salary"
// @Param        salary_max        query     number  false  "Maximum salary"
// @Success      200  {object}  response.Response
// @Router       /vacancies [get]
func (h *VacancyHandler) ListActive(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "10"))

	salaryMin, _ := strconv.ParseFloat(c.Query("salary_min"), 64)
	salaryMax, _ := strconv.ParseFloat(c.Query("salary_max"), 64)

	filter := domain.VacancyFilter{
		Location:        c.Query("location"),
		PositionType:    c.Query("position_type"),
		ExperienceLevel: c.Query("experience_level"),
		SalaryMin:       salaryMin,
		SalaryMax:       salaryMax,
	}

	vacancies, total, err := h.vacancyUC.ListActive(c.Request.Context(), filter, page, pageSize)
	if err != nil {
		c.Error(err)
		return
	}

	response.Success(c, http.StatusOK, "Vacancy list", gin.H{
		"vacancies": vacancies,
		"total":     total,
		"page":      page,
		"page_size": pageSize,
	})
}

// GetDetails godoc
// @Summary      Get vacancy details (public)
// @Description  Get detailed info of a vacancy with club profile
// @Tags         vacancies
// @Produce      json
// @Param        id   path      int  true  "Vacancy ID"
// @Success      200  {object}  response.Response
// @Failure      400  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Router       /vacancies/{id} [get]
func (h *VacancyHandler) GetDetails(c *gin.Context) {
	id, err := parseIDParam(c)
	if err != nil {
		c.Error(err)
		return
	}

	vacancy, getErr := h.vacancyUC.GetVacancy(c.Request.Context(), id)
	if getErr != nil {
		c.Error(getErr)
		return
	}

	// Drafts and closed vacancies are never visible publicly
	if vacancy.Status != domain.VacancyStatusActive {
		c.Error(apperror.NotFound("Vacancy not found"))
		return
	}

	response.Success(c, http.StatusOK, "Vacancy details", vacancy)
}

// ListByTeam godoc
// @Summary      List the club's own vacancies
// @Description  Get all vacancies belonging to the logged-in club, drafts included
// @Tags         teams
// @Produce      json
// @Param        page       query     int  false  "Page number"
// @Param        page_size  query     int  false  "Page size"
// @Success      200  {object}  response.Response
// @Failure      403  {object}  response.Response
// @Router       /teams/vacancies [get]
// @Security     BearerAuth
func (h *VacancyHandler) ListByTeam(c *gin.Context) {
	role := c.GetString(string(domain.KeyUserRole))
	if role != domain.RoleTeam {
		c.Error(apperror.Forbidden("Only clubs can access their vacancy list"))
		return
	}

	teamID := c.GetString(string(domain.KeyUserID))
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "10"))

	vacancies, total, err := h.vacancyUC.ListByTeam(c.Request.Context(), teamID, page, pageSize)
	if err != nil {
		c.Error(err)
		return
	}

	response.Success(c, http.StatusOK, "Club vacancy list", gin.H{
		"vacancies": vacancies,
		"total":     total,
		"page":      page,
		"page_size": pageSize,
	})
}

// Update godoc
// @Summary      Update a vacancy
// @Description  Update an existing vacancy (owning club only)
// @Tags         vacancies
// @Accept       json
// @Produce      json
// @Param        id       path      int                   true  "Vacancy ID"
// @Param        vacancy  body      UpdateVacancyRequest  true  "Vacancy JSON"
// @Success      200  {object}  response.Response
// @Failure      400  {object}  response.Response
// @Failure      403  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Router       /vacancies/{id} [put]
// @Security     BearerAuth
func (h *VacancyHandler) Update(c *gin.Context) {
	id, err := parseIDParam(c)
	if err != nil {
		c.Error(err)
		return
	}

	var req UpdateVacancyRequest
	if !bindJSON(c, &req) {
		return
	}

	vacancy := &domain.Vacancy{
		ID:          id,
		Title:       req.Title,
		Description: req.Description,
		Location:    req.Location,
		SalaryMin:   req.SalaryMin,
		SalaryMax:   req.SalaryMax,
	}
	if req.Requirements != "" {
		vacancy.Requirements = &req.Requirements
	}
	if req.PositionType != "" {
		vacancy.PositionType = &req.PositionType
	}
	if req.ExperienceLevel != "" {
		vacancy.ExperienceLevel = &req.ExperienceLevel
	}

	teamID := c.GetString(string(domain.KeyUserID))
	if err := h.vacancyUC.UpdateVacancy(c.Request.Context(), teamID, vacancy); err != nil {
		c.Error(err)
		return
	}

	response.Success(c, http.StatusOK, "Vacancy updated", vacancy)
}

// Activate godoc
// @Summary      Publish a vacancy
// @Description  Move a draft vacancy to active so candidates can see and apply
// @Tags         vacancies
// @Produce      json
// @Param        id   path      int  true  "Vacancy ID"
// @Success      200  {object}  response.Response
// @Failure      403  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Router       /vacancies/{id}/activate [post]
// @Security     BearerAuth
func (h *VacancyHandler) Activate(c *gin.Context) {
	id, err := parseIDParam(c)
	if err != nil {
		c.Error(err)
		return
	}

	teamID := c.GetString(string(domain.KeyUserID))
	if err := h.vacancyUC.ActivateVacancy(c.Request.Context(), teamID, id); err != nil {
		c.Error(err)
		return
	}

	response.Success(c, http.StatusOK, "Vacancy activated", nil)
}

// Close godoc
// @Summary      Close a vacancy
// @Description  Close an active vacancy; no further applications accepted
// @Tags         vacancies
// @Produce      json
// @Param        id   path      int  true  "Vacancy ID"
// @Success      200  {object}  response.Response
// @Failure      403  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Router       /vacancies/{id}/close [post]
// @Security     BearerAuth
func (h *VacancyHandler) Close(c *gin.Context) {
	id, err := parseIDParam(c)
	if err != nil {
		c.Error(err)
		return
	}

	teamID := c.GetString(string(domain.KeyUserID))
	if err := h.vacancyUC.CloseVacancy(c.Request.Context(), teamID, id); err != nil {
		c.Error(err)
		return
	}

	response.Success(c, http.StatusOK, "Vacancy closed", nil)
}

// Delete godoc
// @Summary      Delete a vacancy
// @Description  Permanently delete a vacancy (owning club only)
// @Tags         vacancies
// @Produce      json
// @Param        id   path      int  true  "Vacancy ID"
// @Success      200  {object}  response.Response
// @Failure      403  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Router       /vacancies/{id} [delete]
// @Security     BearerAuth
func (h *VacancyHandler) Delete(c *gin.Context) {
	id, err := parseIDParam(c)
	if err != nil {
		c.Error(err)
		return
	}

	teamID := c.GetString(string(domain.KeyUserID))
	if err := h.vacancyUC.DeleteVacancy(c.Request.Context(), teamID, id); err != nil {
		c.Error(err)
		return
	}

	response.Success(c, http.StatusOK, "Vacancy deleted", nil)
}

// parseIDParam reads the :id path segment as an int64.
func parseIDParam(c *gin.Context) (int64, *apperror.AppError) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return 0, apperror.BadRequest("Invalid ID format")
	}
	return id, nil
}
