package router

import (
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"adframes/internal/handler"
	"adframes/internal/middleware"
	"adframes/internal/service"
)

// Options carries the HTTP-level settings the router applies.
type Options struct {
	AllowedOrigins []string
	MaxBodyBytes   int64
	EnableSwagger  bool
}

// Setup configures the Gin engine with all routes and middleware.
func Setup(
	authSvc service.AuthService,
	uploadH *handler.UploadHandler,
	schemaH *handler.SchemaHandler,
	healthH *handler.HealthHandler,
	opts Options,
) *gin.Engine {
	r := gin.New()

	// Global middleware
	r.Use(middleware.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger())
	r.Use(middleware.CORS(opts.AllowedOrigins))

	// Health checks
	r.GET("/healthz", healthH.Liveness)
	r.GET("/readyz", healthH.Readiness)

	if opts.EnableSwagger {
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	v1 := r.Group("/api/v1")

	// Public schema routes
	v1.GET("/schema", schemaH.Schema)
	v1.GET("/templates/inventory", schemaH.Template)

	// Protected routes - require a valid owner token
	protected := v1.Group("")
	protected.Use(middleware.OwnerAuth(authSvc))

	uploads := protected.Group("/uploads")
	uploads.POST("", middleware.MaxBodySize(opts.MaxBodyBytes), uploadH.Create)
	uploads.GET("/:id", uploadH.Get)
	uploads.PUT("/:id/mapping", uploadH.UpdateMapping)
	uploads.POST("/:id/preview", uploadH.Preview)
	uploads.POST("/:id/commit", uploadH.Commit)
	uploads.GET("/:id/errors.csv", uploadH.ErrorReport)
	uploads.DELETE("/:id", uploadH.Cancel)

	return r
}
