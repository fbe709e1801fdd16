package v1

import (
	"net/http"

	"go-clubmatch-backend/internal/delivery/http/middleware"
	"go-clubmatch-backend/internal/delivery/http/response"
	"go-clubmatch-backend/internal/domain"
	"go-clubmatch-backend/internal/usecase"
	"go-clubmatch-backend/pkg/auth"
	"go-clubmatch-backend/pkg/storage"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

type RouterDeps struct {
	AuthUC        domain.AuthUsecase
	MembershipUC  domain.MembershipUsecase
	WebhookUC     domain.WebhookUsecase
	VacancyUC     domain.VacancyUsecase
	ApplicationUC domain.ApplicationUsecase
	PlacementUC   domain.PlacementUsecase
	MessageUC     domain.MessageUsecase
	AdminUC       domain.AdminUsecase
	HealthUC      usecase.HealthUsecase
	Tokens        *auth.Manager
	Storage       *storage.Client
}

func NewRouter(deps RouterDeps) *gin.Engine {
	r := gin.New()

	// Global Middlewares
	r.Use(middleware.CORSMiddleware()) // CORS must be first!
	r.Use(gin.Recovery())
	r.Use(gin.Logger())
	r.Use(middleware.SecurityHeadersMiddleware())
	r.Use(middleware.RequestID())
	r.Use(middleware.GlobalRateLimitMiddleware())
	r.Use(middleware.ErrorHandler())

	v1 := r.Group("/v1")

	// Health Check
	v1.GET("/health", func(c *gin.Context) {
		status := deps.HealthUC.Check(c.Request.Context())
		code := http.StatusOK
		if status["status"] != "ok" {
			code = http.StatusServiceUnavailable
		}
		response.Success(c, code, "Health check", status)
	})

	// Swagger
	v1.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Gateway webhook (public; authenticated by HMAC signature)
	NewPaymentHandler(v1, deps.WebhookUC)

	// Protected routes
	protected := v1.Group("")
	protected.Use(middleware.AuthMiddleware(deps.Tokens, deps.AuthUC))
	{
		NewAuthHandler(v1, protected, deps.AuthUC, deps.Storage)
		NewMembershipHandler(v1, protected, deps.MembershipUC)
		NewVacancyHandler(v1, protected, deps.VacancyUC)
		NewApplicationHandler(protected, deps.ApplicationUC)
		NewPlacementHandler(protected, deps.PlacementUC)
		NewMessageHandler(protected, deps.MessageUC)
		NewAdminHandler(protected, deps.AdminUC, deps.PlacementUC)
	}

	return r
}
