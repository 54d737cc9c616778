package router

import (
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"givehubtel/internal/checkout"
	"givehubtel/internal/config"
	"givehubtel/internal/handler"
	"givehubtel/internal/hubtel"
	"givehubtel/internal/middleware"
	"givehubtel/internal/nonce"
	"givehubtel/internal/pkg/telegram"
	"givehubtel/internal/repository"
)

// Setup wires repositories, services and routes onto the Echo server.
func Setup(
	e *echo.Echo,
	db *gorm.DB,
	cfg *config.Config,
	issuer *nonce.Issuer,
	botAPI *telegram.BotAPI,
	logger *zap.Logger,
) {
	// Global middleware
	e.Use(echomw.Recover())
	e.Use(middleware.CORS())

	store := repository.NewDonationRepository(db)

	hubtelClient := hubtel.NewClient(
		cfg.Hubtel.APIID,
		cfg.Hubtel.APIKey,
		cfg.Hubtel.BaseURL,
		cfg.Hubtel.InsecureTLS,
	)

	svc := checkout.NewService(store, hubtelClient, issuer, cfg, logger)
	reconciler := checkout.NewReconciler(store, logger)

	donationHandler := handler.NewDonationHandler(svc, store, issuer, logger)
	callbackHandler := handler.NewCallbackHandler(reconciler, store, botAPI, cfg.Telegram.ReportChannel, logger)

	// Donor-facing pages
	donations := e.Group("/donations")
	donations.GET("/new", donationHandler.New)
	donations.POST("/checkout", donationHandler.Checkout)
	donations.GET("/confirm", donationHandler.Confirm)
	donations.GET("/failed", donationHandler.Failed)

	// Hubtel server-to-server callback. Registered for both methods; the
	// provider has been observed using POST but the contract only promises
	// "a request".
	e.POST(checkout.CallbackPath, callbackHandler.Handle)
	e.GET(checkout.CallbackPath, callbackHandler.Handle)

	// Health check
	e.GET("/health", func(c echo.Context) error {
		return c.JSON(200, map[string]string{"status": "ok"})
	})
}
