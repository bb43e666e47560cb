package routes

import (
	"net/http"
	"slices"
	"time"

	"github.com/Bill-Pill/sunglasses-io/controllers"
	apperrors "github.com/Bill-Pill/sunglasses-io/errors"
	"github.com/Bill-Pill/sunglasses-io/middleware"
	"github.com/Bill-Pill/sunglasses-io/services"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const serviceName = "sunglasses-io"

// Dependencies are the collaborators the router wires into handlers.
// RateLimiter and Metrics are optional.
type Dependencies struct {
	Catalog        services.CatalogService
	Auth           services.AuthService
	Carts          services.CartService
	Gate           *middleware.Gate
	RateLimiter    *middleware.RateLimiter
	Metrics        middleware.MetricsRecorder
	Logger         *zap.Logger
	AllowedOrigins []string
}

// NewRouter builds the gin engine with every route registered.
func NewRouter(deps Dependencies) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	RegisterRoutes(r, deps)
	return r
}

func RegisterRoutes(r *gin.Engine, deps Dependencies) {
	r.Use(
		middleware.RequestID(),
		middleware.RequestLogger(deps.Logger),
		middleware.MetricsMiddleware(deps.Metrics, serviceName),
		cors.New(corsConfig(deps.AllowedOrigins)),
		apperrors.ErrorMiddleware(),
	)

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "OK"})
	})
	r.GET("/ready", func(c *gin.Context) {
		if !deps.Gate.Ready() {
			apperrors.Abort(c, apperrors.ErrNotReady)
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})

	catalog := controllers.NewCatalogController(deps.Catalog)
	auth := controllers.NewAuthController(deps.Auth)
	cart := controllers.NewCartController(deps.Carts)

	api := r.Group("/api")
	api.Use(deps.Gate.Middleware())
	if deps.RateLimiter != nil {
		api.Use(deps.RateLimiter.Middleware())
	}
	{
		api.GET("/brands", catalog.ListBrands)
		api.GET("/brands/:id/products", catalog.ListProductsForBrand)
		api.GET("/products", catalog.SearchProducts)

		api.POST("/login", auth.Login)

		api.GET("/me/cart", cart.GetCart)
		api.POST("/me/cart", cart.AddToCart)
		api.DELETE("/me/cart/:id", cart.RemoveFromCart)
		api.POST("/me/cart/:id", cart.UpdateQuantity)
	}
}

func corsConfig(origins []string) cors.Config {
	cfg := cors.Config{
		AllowMethods:  []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", middleware.RequestIDHeader},
		ExposeHeaders: []string{"Content-Length", middleware.RequestIDHeader},
		MaxAge:        12 * time.Hour,
	}
	if len(origins) == 0 || slices.Contains(origins, "*") {
		cfg.AllowAllOrigins = true
		return cfg
	}
	cfg.AllowOrigins = origins
	cfg.AllowCredentials = true
	return cfg
}
