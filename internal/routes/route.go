package routes

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joshua-takyi/vena/internal/config"
	"github.com/joshua-takyi/vena/internal/container"
	"github.com/joshua-takyi/vena/internal/handlers"
	"github.com/joshua-takyi/vena/internal/middleware"
)

// SetupRoutes configures all routes with the dependency container
func SetupRoutes(cfg *config.Config, container *container.Container) *gin.Engine {
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	middleware.SecureCookies = cfg.IsProduction()

	r := gin.New()
	r.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.AllowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS", "PATCH"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", "X-Request-ID", handlers.IdempotencyHeader},
		ExposeHeaders:    []string{"Content-Length", "X-Request-ID", "Idempotent-Replayed"},
		AllowCredentials: true,
	}))

	r.Use(middleware.RequestID())
	r.Use(middleware.StructuredLogger(container.Logger))
	r.Use(middleware.ErrorHandler(container.Logger))
	r.Use(gin.Recovery())

	v1 := r.Group("/api/v1")
	{
		v1.GET("/health", func(c *gin.Context) {
			c.JSON(200, gin.H{
				"status":  "OK",
				"service": "vena-api",
			})
		})

		v1.POST("/signup", handlers.SignUp(container.UserService))
		v1.POST("/login", handlers.Login(container.UserService))
		v1.POST("/logout", handlers.Logout(container.UserService))

		public := v1.Group("/public/:vendor_id")
		{
			public.GET("/packages", handlers.PublicPackages(container.StudioService))
			public.POST("/quote", handlers.QuoteBooking(container.BookingService))
			public.POST("/bookings", handlers.SubmitBooking(container.BookingService))
			public.POST("/leads", handlers.SubmitLeadForm(container.LeadService))
			public.POST("/feedback", handlers.SubmitFeedback(container.FeedbackService))
		}
		v1.GET("/portal/:access_id", handlers.ClientPortal(container.StudioService))
	}

	protected := v1.Group("/")
	protected.Use(middleware.AuthMiddleware(container.Validator, container.UserService, container.Logger))

	protected.GET("/profile", handlers.GetProfile(container.UserService))
	protected.PATCH("/profile", handlers.UpdateProfile(container.UserService))

	clientRoutes := protected.Group("/clients")
	{
		clientRoutes.GET("", handlers.ListClients(container.StudioService))
		clientRoutes.POST("", handlers.CreateClient(container.StudioService))
		clientRoutes.PATCH("/:id", handlers.UpdateClient(container.StudioService))
		clientRoutes.DELETE("/:id", handlers.DeleteClient(container.StudioService))
	}

	packageRoutes := protected.Group("/packages")
	{
		packageRoutes.GET("", handlers.ListPackages(container.StudioService))
		packageRoutes.POST("", handlers.CreatePackage(container.StudioService))
		packageRoutes.PATCH("/:id", handlers.UpdatePackage(container.StudioService))
		packageRoutes.DELETE("/:id", handlers.DeletePackage(container.StudioService))
	}

	addOnRoutes := protected.Group("/add-ons")
	{
		addOnRoutes.GET("", handlers.ListAddOns(container.StudioService))
		addOnRoutes.POST("", handlers.CreateAddOn(container.StudioService))
		addOnRoutes.DELETE("/:id", handlers.DeleteAddOn(container.StudioService))
	}

	projectRoutes := protected.Group("/projects")
	{
		projectRoutes.GET("", handlers.ListProjects(container.StudioService))
		projectRoutes.PATCH("/:id", handlers.UpdateProject(container.StudioService))
		projectRoutes.DELETE("/:id", handlers.DeleteProject(container.StudioService))
	}

	leadRoutes := protected.Group("/leads")
	{
		leadRoutes.GET("", handlers.ListLeads(container.LeadService))
		leadRoutes.POST("", handlers.CreateLead(container.LeadService))
		leadRoutes.PATCH("/:id", handlers.UpdateLead(container.LeadService))
		leadRoutes.DELETE("/:id", handlers.DeleteLead(container.LeadService))
	}

	protected.GET("/transactions", handlers.ListTransactions(container.StudioService))
	protected.POST("/transactions", handlers.CreateTransaction(container.StudioService))

	promoRoutes := protected.Group("/promo-codes")
	{
		promoRoutes.GET("", handlers.ListPromoCodes(container.StudioService))
		promoRoutes.POST("", handlers.CreatePromoCode(container.StudioService))
		promoRoutes.DELETE("/:id", handlers.DeletePromoCode(container.StudioService))
	}

	protected.GET("/feedback", handlers.ListFeedback(container.FeedbackService))

	notificationRoutes := protected.Group("/notifications")
	{
		notificationRoutes.GET("", handlers.ListNotifications(container.Notifications))
		notificationRoutes.POST("/read-all", handlers.MarkAllNotificationsRead(container.Notifications))
		notificationRoutes.POST("/:id/read", handlers.MarkNotificationRead(container.Notifications))
	}

	return r
}
