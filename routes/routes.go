package routes

import (
	"milano/configs"
	"milano/controllers"
	"milano/middlewares"
	"milano/pkg/logger"
	"milano/pkg/metrics"
	"milano/services"
	"milano/utils"
	"milano/ws"

	"github.com/gin-gonic/gin"
)

// NewRouter wires every endpoint over one set of services.
func NewRouter(svc *services.Services, cfg *configs.Config, hub *ws.AlertHub) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), logger.Middleware(), metrics.Middleware(), middlewares.CORSMiddleware(cfg.Origins()))
	RegisterRoutes(r, svc, cfg, hub)
	return r
}

func RegisterRoutes(r *gin.Engine, svc *services.Services, cfg *configs.Config, hub *ws.AlertHub) {
	r.GET("/health", func(c *gin.Context) { c.JSON(200, gin.H{"ok": true, "mode": svc.Mode}) })
	r.GET("/metrics", gin.WrapH(metrics.Handler()))

	// Controllers
	orderCtrl := controllers.NewOrderController(svc.Orders)
	menuCtrl := controllers.NewMenuController(svc.Catalog)
	reviewCtrl := controllers.NewReviewController(svc.Reviews)
	supportCtrl := controllers.NewSupportController(svc.Support)
	authCtrl := controllers.NewAuthController(svc.Auth)
	adminCtrl := controllers.NewAdminController(svc.Auth, svc.Analytics)
	geoCtrl := controllers.NewGeocodeController(svc.Geocoder)

	limit := middlewares.NewRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst).Handler()
	admin := middlewares.AuthMiddleware(cfg.JWTSecret, utils.RoleAdmin)

	// Auth
	a := r.Group("/auth")
	{
		a.POST("/register", limit, authCtrl.Register)
		a.POST("/login", limit, authCtrl.Login)
		a.GET("/me", middlewares.AuthMiddleware(cfg.JWTSecret), authCtrl.Me)
		a.PUT("/profile", authCtrl.UpdateProfile)
	}

	// Catalog
	r.GET("/menu", menuCtrl.Menu)
	r.GET("/categories", menuCtrl.Categories)

	// Orders
	o := r.Group("/orders")
	{
		o.POST("", limit, orderCtrl.Create)
		o.GET("", orderCtrl.List)
		o.GET("/:id", orderCtrl.Detail)
		o.PATCH("/:id", admin, orderCtrl.Advance)
		o.PUT("/:id/status", admin, orderCtrl.Override)
	}

	// Reviews
	r.GET("/reviews", reviewCtrl.List)
	r.POST("/reviews", limit, reviewCtrl.Create)

	// Support
	s := r.Group("/support")
	{
		s.GET("", supportCtrl.List)
		s.POST("", limit, supportCtrl.Create)
		s.PATCH("/:id", admin, supportCtrl.Update)
	}

	r.GET("/geocode/reverse", geoCtrl.Reverse)

	// Admin
	r.POST("/admin/check", adminCtrl.Check)
	r.GET("/analytics", admin, adminCtrl.Analytics)
	ad := r.Group("/admin", admin)
	{
		ad.GET("/users", adminCtrl.Users)
	}
	r.GET("/admin/orders/ws", middlewares.WSAuthMiddleware(cfg.JWTSecret, utils.RoleAdmin), hub.HandleWebSocket)
}
