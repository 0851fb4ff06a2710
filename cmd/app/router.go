package main

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"cabbie/internal/api/controllers"
	"cabbie/internal/config"
	"cabbie/internal/models/db_models"
	"cabbie/pkg/middleware"
	"cabbie/pkg/utils"
)

type Controllers struct {
	Account  *controllers.AccountController
	Places   *controllers.PlacesController
	Wizard   *controllers.WizardController
	Checkout *controllers.CheckoutController
	Booking  *controllers.BookingController
	Site     *controllers.SiteController
}

func ProvideRouter(
	cfg *config.Config,
	log *zap.Logger,
	tokens *utils.TokenIssuer,
	accountController *controllers.AccountController,
	placesController *controllers.PlacesController,
	wizardController *controllers.WizardController,
	checkoutController *controllers.CheckoutController,
	bookingController *controllers.BookingController,
	siteController *controllers.SiteController,
) *gin.Engine {
	if cfg.App.GinMode != "" {
		gin.SetMode(cfg.App.GinMode)
	}

	r := gin.New()
	r.Use(middleware.TraceIDMiddleware())
	r.Use(middleware.RequestLogger(log.Named("http")))
	r.Use(gin.Recovery())
	r.Use(middleware.CORSMiddleware(cfg.App.AllowedOrigins))

	RegisterRoutes(r, tokens, middleware.NewRateLimiter(cfg.Limits.RPS, cfg.Limits.Burst), Controllers{
		Account:  accountController,
		Places:   placesController,
		Wizard:   wizardController,
		Checkout: checkoutController,
		Booking:  bookingController,
		Site:     siteController,
	})

	return r
}

func RegisterRoutes(r *gin.Engine, tokens *utils.TokenIssuer, limiter *middleware.RateLimiter, c Controllers) {
	auth := middleware.JWTAuthMiddleware(tokens)
	optionalAuth := middleware.OptionalAuth(tokens)
	throttle := middleware.RateLimit(limiter)

	r.GET("/healthz", c.Site.Healthz)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	r.GET("/services", c.Site.ServiceTypes)
	r.POST("/contact", throttle, c.Site.Contact)

	accountGroup := r.Group("/accounts")
	accountGroup.POST("/register", throttle, c.Account.Register)
	accountGroup.POST("/login", throttle, c.Account.Login)
	accountGroup.POST("/logout", c.Account.Logout)
	accountGroup.POST("/forgot-password", throttle, c.Account.ForgotPassword)
	accountGroup.POST("/reset-password", throttle, c.Account.ResetPassword)
	accountGroup.GET("/me", auth, c.Account.Me)

	placesGroup := r.Group("/places")
	placesGroup.GET("/autocomplete", c.Places.Autocomplete)
	placesGroup.GET("/:placeId", c.Places.Details)
	r.POST("/quotes", c.Places.Quote)

	wizardGroup := r.Group("/wizard/drafts")
	wizardGroup.POST("", optionalAuth, c.Wizard.CreateDraft)
	wizardGroup.GET("/:id", c.Wizard.GetDraft)
	wizardGroup.PUT("/:id/ride-details", c.Wizard.SubmitRideDetails)
	wizardGroup.PUT("/:id/passenger-info", c.Wizard.SubmitPassengerInfo)
	wizardGroup.POST("/:id/back", c.Wizard.Back)

	checkoutGroup := r.Group("/checkout/sessions")
	checkoutGroup.POST("", optionalAuth, c.Checkout.CreateSession)
	checkoutGroup.GET("/:id", c.Checkout.GetSession)
	r.POST("/webhooks/stripe", c.Checkout.StripeWebhook)

	bookingGroup := r.Group("/bookings")
	bookingGroup.GET("/lookup", throttle, c.Booking.Lookup)
	bookingGroup.GET("", auth, c.Booking.ListMine)
	bookingGroup.GET("/:id", auth, c.Booking.Get)
	bookingGroup.GET("/:id/receipt", auth, c.Booking.Receipt)
	bookingGroup.POST("/:id/cancel", auth, c.Booking.Cancel)

	adminGroup := r.Group("/admin", auth, middleware.RoleMiddleware(db_models.RoleAdmin))
	adminGroup.GET("/bookings", c.Booking.AdminList)
	adminGroup.GET("/bookings/export", c.Booking.AdminExport)
	adminGroup.PATCH("/bookings/:id/status", c.Booking.AdminUpdateStatus)
}
