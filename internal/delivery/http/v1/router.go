package v1

import (
	"net/http"

	"go-profile-backend/internal/delivery/http/middleware"
	"go-profile-backend/internal/delivery/http/response"
	"go-profile-backend/internal/domain"
	"go-profile-backend/internal/usecase"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type RouterDeps struct {
	ProfileUC      domain.ProfileUsecase
	SkillUC        domain.SkillUsecase
	HealthUC       usecase.HealthUsecase
	RateLimiter    *middleware.RateLimiter
	AllowedOrigins []string
	IsProduction   bool
}

func NewRouter(deps RouterDeps) *gin.Engine {
	r := gin.New()

	limiter := deps.RateLimiter
	if limiter == nil {
		limiter = middleware.NewRateLimiter(nil)
	}

	// Global Middlewares
	r.Use(middleware.CORSMiddleware(deps.AllowedOrigins, deps.IsProduction)) // CORS must be first!
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.RequestLogger())
	r.Use(middleware.SecurityHeadersMiddleware())
	r.Use(middleware.ErrorHandler())

	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	v1 := r.Group("/v1")
	v1.Use(limiter.Middleware(middleware.DefaultRateLimitConfig()))

	v1.GET("/health", func(c *gin.Context) {
		if deps.HealthUC == nil {
			response.Success(c, http.StatusOK, "System operational", nil)
			return
		}
		status, healthy := deps.HealthUC.Check(c.Request.Context())
		if !healthy {
			response.Error(c, http.StatusServiceUnavailable, "System degraded", status)
			return
		}
		response.Success(c, http.StatusOK, "System operational", status)
	})

	NewProfileHandler(v1, deps.ProfileUC, limiter.Middleware(middleware.CVSyncRateLimitConfig()))
	NewSkillHandler(v1, deps.SkillUC)

	return r
}
