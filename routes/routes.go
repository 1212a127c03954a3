package routes

import (
	"time"

	"github.com/Kirtivanjode/wanderwithkii/cache"
	"github.com/Kirtivanjode/wanderwithkii/config"
	"github.com/Kirtivanjode/wanderwithkii/controllers"
	"github.com/Kirtivanjode/wanderwithkii/media"
	"github.com/Kirtivanjode/wanderwithkii/middleware"
	"github.com/Kirtivanjode/wanderwithkii/models"
	"github.com/Kirtivanjode/wanderwithkii/utils"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Dependencies are built once at startup and shared by every handler.
type Dependencies struct {
	DB       *gorm.DB
	Config   *config.Config
	Log      *zap.SugaredLogger
	Metrics  *middleware.Metrics
	Images   *cache.Images
	Verifier utils.CredentialVerifier
}

// NewRouter builds the engine with the middleware stack and every route.
func NewRouter(deps Dependencies) *gin.Engine {
	r := gin.New()
	r.MaxMultipartMemory = deps.Config.MaxUploadBytes

	mw := middleware.NewMiddleware(deps.Log, deps.Metrics)
	r.Use(mw.RequestID(), mw.Recoverer(), mw.RequestLogger())
	r.Use(cors.New(corsConfig(deps.Config.CORSAllowedOrigins)))

	SetupRoutes(r, deps, mw)
	return r
}

func SetupRoutes(r *gin.Engine, deps Dependencies, mw *middleware.Middleware) {
	db, cfg, log := deps.DB, deps.Config, deps.Log

	// Initialize controllers
	uploadController := controllers.NewUploadController(db, media.NewProcessor(cfg.MediaMaxDimension), deps.Images, cfg.MaxUploadBytes, log)
	authController := controllers.NewAuthController(db, deps.Verifier, cfg.JWTSecret, cfg.JWTTTL, log)
	postController := controllers.NewPostController(db, uploadController, log)
	interactionController := controllers.NewInteractionController(db, deps.Metrics, log)
	commentController := controllers.NewCommentController(db, log)
	bucketListController := controllers.NewBucketListController(db, log)
	wishlistController := controllers.NewWishlistController(db, log)
	foodController := controllers.NewFoodController(db, uploadController, log)
	adventureController := controllers.NewAdventureController(db, uploadController, log)
	sectionController := controllers.NewSectionController(db, uploadController, log)
	userController := controllers.NewUserController(db, log)
	validationController := controllers.NewValidationController(db, log)
	healthController := controllers.NewHealthController(db, log)

	r.GET("/healthz", healthController.Health)
	if deps.Metrics != nil {
		r.GET("/metrics", deps.Metrics.Handler())
	}

	// Content writes are open unless AUTH_REQUIRE_ADMIN is set.
	// Account writes then also need the caller's own token or an admin one.
	var admin, signedIn, self []gin.HandlerFunc
	if cfg.AuthRequireAdmin {
		authn := middleware.AuthMiddleware(cfg.JWTSecret)
		admin = []gin.HandlerFunc{authn, middleware.RequireRole(models.RoleAdmin)}
		signedIn = []gin.HandlerFunc{authn}
		self = []gin.HandlerFunc{authn, middleware.RequireSelfOrRole(models.RoleAdmin, "id")}
	}

	api := r.Group("/api")
	{
		SetupAuthRoutes(api, authController, mw.RateLimit(cfg.AuthRateLimitRPM), signedIn)
		SetupPostRoutes(api, postController, admin)
		SetupInteractionRoutes(api, interactionController)
		SetupCommentRoutes(api, commentController)
		SetupBucketListRoutes(api, bucketListController, wishlistController, admin)
		SetupContentRoutes(api, foodController, adventureController, sectionController, admin)
		SetupUploadRoutes(api, uploadController)
		SetupUserRoutes(api, userController, self)
		SetupValidationRoutes(api, validationController)
	}
}

func corsConfig(origins []string) cors.Config {
	cfg := cors.Config{
		AllowMethods:  []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Authorization", middleware.RequestIDHeader},
		ExposeHeaders: []string{middleware.RequestIDHeader, "Content-Disposition"},
		MaxAge:        12 * time.Hour,
	}
	if len(origins) == 0 || (len(origins) == 1 && origins[0] == "*") {
		cfg.AllowAllOrigins = true
		return cfg
	}
	cfg.AllowOrigins = origins
	cfg.AllowCredentials = true
	return cfg
}

// with prepends the guard handlers to h.
func with(guard []gin.HandlerFunc, h gin.HandlerFunc) []gin.HandlerFunc {
	return append(append([]gin.HandlerFunc{}, guard...), h)
}
