// internal/router/router.go
package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/cantonapps/licensing-backend/internal/config"
	"github.com/cantonapps/licensing-backend/internal/handlers"
	"github.com/cantonapps/licensing-backend/internal/ledger"
	"github.com/cantonapps/licensing-backend/internal/middleware"
	"github.com/cantonapps/licensing-backend/internal/services"
	"github.com/cantonapps/licensing-backend/internal/utils"
)

// Stores bundles the per-entity workflow stores so main can hand the same
// instances to both the router and the reconcilers.
type Stores struct {
	Requests *services.AppInstallRequestService
	Installs *services.AppInstallService
	Licenses *services.LicenseService
	Renewals *services.LicenseRenewalService
	Workflow *services.WorkflowService
}

func NewStores(gateway ledger.Gateway, db *gorm.DB, cfg *config.Config) *Stores {
	audit := services.NewAuditService(db)

	requests := services.NewAppInstallRequestService(gateway, audit)
	installs := services.NewAppInstallService(gateway, audit)
	licenses := services.NewLicenseService(gateway, audit)
	renewals := services.NewLicenseRenewalService(gateway, audit)
	workflow := services.NewWorkflowService(installs, licenses, renewals, cfg.Renewal)

	return &Stores{
		Requests: requests,
		Installs: installs,
		Licenses: licenses,
		Renewals: renewals,
		Workflow: workflow,
	}
}

func Initialize(stores *Stores, cfg *config.Config) *gin.Engine {
	requestHandler := handlers.NewAppInstallRequestHandler(stores.Requests, stores.Installs)
	installHandler := handlers.NewAppInstallHandler(stores.Installs, stores.Workflow)
	licenseHandler := handlers.NewLicenseHandler(stores.Licenses, stores.Workflow)
	renewalHandler := handlers.NewRenewalHandler(stores.Renewals, stores.Workflow)
	userHandler := handlers.NewUserHandler()

	// Set JWT secret
	utils.SetJWTSecret(cfg.JWT.SecretKey)

	r := gin.New()

	// Global middleware
	r.Use(gin.Recovery())
	r.Use(middleware.RequestLogger())
	r.Use(middleware.CORS())
	r.Use(middleware.GeneralRateLimit(cfg.RateLimit))

	// Health check
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "healthy",
			"version": "1.0.0",
		})
	})

	v1 := r.Group("/v1")
	v1.Use(middleware.AuthRequired())
	{
		v1.GET("/user", userHandler.GetAuthenticatedUser)

		requests := v1.Group("/app-install-requests")
		{
			requests.GET("", requestHandler.List)
			commands := requests.Group("")
			commands.Use(middleware.CommandRateLimit(cfg.RateLimit))
			{
				commands.POST("/:contractId/accept", requestHandler.Accept)
				commands.POST("/:contractId/reject", requestHandler.Reject)
				commands.POST("/:contractId/cancel", requestHandler.Cancel)
			}
		}

		installs := v1.Group("/app-installs")
		{
			installs.GET("", installHandler.List)
			commands := installs.Group("")
			commands.Use(middleware.CommandRateLimit(cfg.RateLimit))
			{
				commands.POST("/:contractId/cancel", installHandler.Cancel)
				commands.POST("/:contractId/create-license", installHandler.CreateLicense)
			}
		}

		licenses := v1.Group("/licenses")
		{
			licenses.GET("", licenseHandler.List)
			commands := licenses.Group("")
			commands.Use(middleware.CommandRateLimit(cfg.RateLimit))
			{
				commands.POST("/:contractId/renew", licenseHandler.Renew)
				commands.POST("/:contractId/expire", licenseHandler.Expire)
			}
		}

		renewals := v1.Group("/license-renewal-requests")
		{
			renewals.GET("", renewalHandler.List)
			commands := renewals.Group("")
			commands.Use(middleware.CommandRateLimit(cfg.RateLimit))
			{
				commands.POST("/:contractId/complete", renewalHandler.Complete)
			}
		}
	}

	return r
}
