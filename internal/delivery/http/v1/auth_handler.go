package v1

import (
	"bytes"
	"fmt"
	"image"
	"image/png"
	"io"
	"net/http"
	"time"

	_ "image/gif"
	_ "image/jpeg"

	"go-clubmatch-backend/internal/delivery/http/middleware"
	"go-clubmatch-backend/internal/delivery/http/response"
	"go-clubmatch-backend/internal/domain"
	"go-clubmatch-backend/pkg/apperror"
	"go-clubmatch-backend/pkg/storage"

	"github.com/gin-gonic/gin"
	"golang.org/x/image/draw"
)

// maxLogoBytes bounds the raw upload before decoding.
const maxLogoBytes = 2 << 20 // 2 MB

// maxLogoDimension is the longest edge after resizing.
const maxLogoDimension = 256

type AuthHandler struct {
	authUC  domain.AuthUsecase
	storage *storage.Client
}

func NewAuthHandler(public *gin.RouterGroup, protected *gin.RouterGroup, authUC domain.AuthUsecase, storageClient *storage.Client) {
	handler := &AuthHandler{
		authUC:  authUC,
		storage: storageClient,
	}

	// Public Routes
	publicAuth := public.Group("/auth")
	{
		publicAuth.POST("/register/candidate", middleware.RateLimitMiddleware(middleware.AuthRateLimitConfig()), handler.RegisterCandidate)
		publicAuth.POST("/register/team", middleware.RateLimitMiddleware(middleware.AuthRateLimitConfig()), handler.RegisterTeam)
		publicAuth.POST("/login", middleware.RateLimitMiddleware(middleware.LoginRateLimitConfig()), handler.Login)
	}

	// Protected Routes
	protectedAuth := protected.Group("/auth")
	{
		protectedAuth.GET("/me", handler.Me)
		protectedAuth.POST("/me/logo", middleware.RateLimitMiddleware(middleware.UploadRateLimitConfig()), handler.UploadLogo)
	}
}

type RegisterCandidateRequest struct {
	Email       string `json:"email" binding:"required,email"`
	Password    string `json:"password" binding:"required,min=8"`
	FullName    string `json:"full_name" binding:"required,min=2,max=100,valid_name,no_emoji"`
	Position    string `json:"position" binding:"omitempty,max=50,valid_name"`
	DateOfBirth string `json:"date_of_birth" binding:"omitempty,datetime=2006-01-02"`
	Nationality string `json:"nationality" binding:"omitempty,max=60,valid_name"`
}

type RegisterTeamRequest struct {
	Email        string `json:"email" binding:"required,email"`
	Password     string `json:"password" binding:"required,min=8"`
	ClubName     string `json:"club_name" binding:"required,min=2,max=120,valid_name,no_emoji"`
	ContactPhone string `json:"contact_phone" binding:"omitempty,valid_phone"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// RegisterCandidate godoc
// @Summary      Candidate Registration
// @Description  Register a new candidate account (player, coach or staff)
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        register  body      RegisterCandidateRequest  true  "Registration Details"
// @Success      201    {object}  response.Response
// @Failure      400    {object}  response.Response
// @Router       /auth/register/candidate [post]
func (h *AuthHandler) RegisterCandidate(c *gin.Context) {
	var req RegisterCandidateRequest
	if !bindJSON(c, &req) {
		return
	}

	user := &domain.User{
		Email:    req.Email,
		FullName: &req.FullName,
	}
	if req.Position != "" {
		user.Position = &req.Position
	}
	if req.Nationality != "" {
		user.Nationality = &req.Nationality
	}
	if req.DateOfBirth != "" {
		dob, err := time.Parse("2006-01-02", req.DateOfBirth)
		if err != nil {
			c.Error(apperror.BadRequest("Invalid date_of_birth format, expected YYYY-MM-DD"))
			return
		}
		user.DateOfBirth = &dob
	}

	if err := h.authUC.RegisterCandidate(c.Request.Context(), user, req.Password); err != nil {
		c.Error(err)
		return
	}

	response.Success(c, http.StatusCreated, "Registration successful. You can now log in.", user)
}

// RegisterTeam godoc
// @Summary      Club Registration
// @Description  Register a new football club account. Clubs require admin approval before publishing vacancies.
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        register  body      RegisterTeamRequest  true  "Registration Details"
// @Success      201    {object}  response.Response
// @Failure      400    {object}  response.Response
// @Router       /auth/register/team [post]
func (h *AuthHandler) RegisterTeam(c *gin.Context) {
	var req RegisterTeamRequest
	if !bindJSON(c, &req) {
		return
	}

	user := &domain.User{
		Email:    req.Email,
		ClubName: &req.ClubName,
	}
	if req.ContactPhone != "" {
		user.ContactPhone = &req.ContactPhone
	}

	if err := h.authUC.RegisterTeam(c.Request.Context(), user, req.Password); err != nil {
		c.Error(err)
		return
	}

	response.Success(c, http.StatusCreated, "Registration successful. Your club is pending admin approval.", user)
}

// Login godoc
// @Summary      User Login
// @Description  Login with email and password
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        login  body      LoginRequest  true  "Login Credentials"
// @Success      200    {object}  response.Response
// @Failure      400    {object}  response.Response
// @Failure      401    {object}  response.Response
// @Router       /auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if !bindJSON(c, &req) {
		return
	}

	token, user, err := h.authUC.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		c.Error(err)
		return
	}

	response.Success(c, http.StatusOK, "Login successful", gin.H{
		"token": token,
		"user":  user,
	})
}

// Me godoc
// @Summary      Current User
// @Description  Get the profile of the logged-in user
// @Tags         auth
// @Produce      json
// @Success      200  {object}  response.Response
// @Failure      401  {object}  response.Response
// @Router       /auth/me [get]
// @Security     BearerAuth
func (h *AuthHandler) Me(c *gin.Context) {
	userID := c.GetString(string(domain.KeyUserID))
	user, err := h.authUC.GetCurrentUser(c.Request.Context(), userID)
	if err != nil {
		c.Error(err)
		return
	}

	response.Success(c, http.StatusOK, "User details", user)
}

// UploadLogo godoc
// @Summary      Upload Club Logo
// @Description  Upload a club logo image (clubs only). PNG, JPEG and GIF accepted, resized server-side.
// @Tags         auth
// @Accept       multipart/form-data
// @Produce      json
// @Param        logo  formData  file  true  "Logo image"
// @Success      200   {object}  response.Response
// @Failure      400   {object}  response.Response
// @Failure      403   {object}  response.Response
// @Router       /auth/me/logo [post]
// @Security     BearerAuth
func (h *AuthHandler) UploadLogo(c *gin.Context) {
	if h.storage == nil {
		c.Error(apperror.New(http.StatusServiceUnavailable, "Logo uploads are not available right now", nil))
		return
	}

	role := c.GetString(string(domain.KeyUserRole))
	if role != domain.RoleTeam {
		c.Error(apperror.Forbidden("Only clubs can upload a logo"))
		return
	}

	fileHeader, err := c.FormFile("logo")
	if err != nil {
		c.Error(apperror.BadRequest("Missing logo file"))
		return
	}
	if fileHeader.Size > maxLogoBytes {
		c.Error(apperror.BadRequest("Logo must be 2MB or smaller"))
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		c.Error(apperror.Internal(err))
		return
	}
	defer file.Close()

	src, _, err := image.Decode(io.LimitReader(file, maxLogoBytes))
	if err != nil {
		c.Error(apperror.BadRequest("Unsupported image format"))
		return
	}

	resized := resizeLogo(src)
	var buf bytes.Buffer
	if err := png.Encode(&buf, resized); err != nil {
		c.Error(apperror.Internal(err))
		return
	}

	userID := c.GetString(string(domain.KeyUserID))
	key := fmt.Sprintf("logos/%s.png", userID)
	logoURL, err := h.storage.Upload(c.Request.Context(), key, "image/png", buf.Bytes())
	if err != nil {
		c.Error(apperror.Internal(err))
		return
	}

	if err := h.authUC.UpdateTeamLogo(c.Request.Context(), userID, logoURL); err != nil {
		c.Error(err)
		return
	}

	response.Success(c, http.StatusOK, "Logo updated", gin.H{"logo_url": logoURL})
}

// resizeLogo scales the image down so its longest edge is maxLogoDimension.
// Smaller images pass through untouched.
func resizeLogo(src image.Image) image.Image {
	bounds := src.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	if w <= maxLogoDimension && h <= maxLogoDimension {
		return src
	}

	if w >= h {
		h = h * maxLogoDimension / w
		w = maxLogoDimension
	} else {
		w = w * maxLogoDimension / h
		h = maxLogoDimension
	}
	if w < 1 {
		w = 1
	}
	if h < 1 {
		h = 1
	}

	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.CatmullRom.Scale(dst, dst.Bounds(), src, bounds, draw.Over, nil)
	return dst
}
