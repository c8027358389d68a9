package api

import (
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"gorm.io/gorm"

	"github.com/AiMagic5000/508-ministry-dashboard/internal/app"
	iauth "github.com/AiMagic5000/508-ministry-dashboard/internal/auth"
	"github.com/AiMagic5000/508-ministry-dashboard/internal/clerk"
	"github.com/AiMagic5000/508-ministry-dashboard/internal/handlers"
	"github.com/AiMagic5000/508-ministry-dashboard/internal/middleware"
	"github.com/AiMagic5000/508-ministry-dashboard/internal/services"
)

// NewRouter builds the Gin engine, wires middleware and registers all routes.
// The webhook endpoint is public (it carries its own signature), everything
// under /api requires a provider session token.
func NewRouter(db *gorm.DB, cfg *app.Config) (*gin.Engine, error) {
	if db == nil {
		return nil, fmt.Errorf("database handle must be provided")
	}
	if cfg == nil {
		return nil, fmt.Errorf("config must be provided")
	}

	r := gin.New()

	// Global middleware
	r.Use(middleware.Recovery())
	r.Use(middleware.Logger())
	r.Use(middleware.Metrics())

	// Health endpoint (public)
	r.GET("/health", handlers.Health())

	if cfg.Monitoring.Enabled {
		r.GET(cfg.Monitoring.MetricsPath, gin.WrapH(promhttp.Handler()))
	}

	// Webhook intake (public, signature-verified)
	verifier, err := clerk.NewVerifier(cfg.Clerk.WebhookSecret)
	if err != nil {
		return nil, err
	}
	activity, err := services.NewActivityService(db)
	if err != nil {
		return nil, err
	}
	provisioner, err := services.NewProvisioningService(db, activity)
	if err != nil {
		return nil, err
	}
	r.POST("/api/webhooks/clerk", handlers.Webhook(verifier, provisioner))

	// Protected routes
	sessionVerifier, err := iauth.NewSessionVerifier(iauth.VerifierConfig{
		PublicKeyPEM: cfg.Clerk.JWTPublicKey,
		Issuer:       cfg.Clerk.Issuer,
	})
	if err != nil {
		return nil, err
	}
	userService, err := services.NewUserService(db)
	if err != nil {
		return nil, err
	}

	api := r.Group("/api")
	api.Use(middleware.Auth(sessionVerifier, userService))

	// Organization profile
	orgHandler, err := handlers.NewOrganizationHandler(db)
	if err != nil {
		return nil, err
	}
	api.GET("/organization", orgHandler.Get)
	api.PATCH("/organization", middleware.RequireOwner(), orgHandler.Update)

	// Users
	userHandler, err := handlers.NewUserHandler(db)
	if err != nil {
		return nil, err
	}
	api.GET("/users", userHandler.List)
	api.GET("/users/me", userHandler.Me)

	// Donations
	donationHandler, err := handlers.NewDonationHandler(db)
	if err != nil {
		return nil, err
	}
	donations := api.Group("/donations")
	{
		donations.GET("", donationHandler.List)
		donations.POST("", donationHandler.Create)
		donations.PATCH("/:id", donationHandler.Update)
		donations.DELETE("/:id", donationHandler.Delete)
	}

	// Trustees
	trusteeHandler, err := handlers.NewTrusteeHandler(db)
	if err != nil {
		return nil, err
	}
	trustees := api.Group("/trustees")
	{
		trustees.GET("", trusteeHandler.List)
		trustees.POST("", trusteeHandler.Create)
		trustees.PATCH("/:id", trusteeHandler.Update)
		trustees.DELETE("/:id", middleware.RequireOwner(), trusteeHandler.Delete)
	}

	// Volunteers
	volunteerHandler, err := handlers.NewVolunteerHandler(db)
	if err != nil {
		return nil, err
	}
	volunteers := api.Group("/volunteers")
	{
		volunteers.GET("", volunteerHandler.List)
		volunteers.POST("", volunteerHandler.Create)
		volunteers.PATCH("/:id", volunteerHandler.Update)
		volunteers.POST("/:id/hours", volunteerHandler.LogHours)
		volunteers.DELETE("/:id", volunteerHandler.Delete)
	}

	// Compliance checklist
	complianceHandler, err := handlers.NewComplianceHandler(db)
	if err != nil {
		return nil, err
	}
	compliance := api.Group("/compliance")
	{
		compliance.GET("", complianceHandler.List)
		compliance.GET("/score", complianceHandler.Score)
		compliance.POST("", complianceHandler.Create)
		compliance.PATCH("/:id", complianceHandler.Update)
		compliance.DELETE("/:id", complianceHandler.Delete)
	}

	// Documents
	documentHandler, err := handlers.NewDocumentHandler(db)
	if err != nil {
		return nil, err
	}
	documents := api.Group("/documents")
	{
		documents.GET("", documentHandler.List)
		documents.POST("", documentHandler.Create)
		documents.PATCH("/:id", documentHandler.Update)
		documents.DELETE("/:id", documentHandler.Delete)
	}

	// Meetings
	meetingHandler, err := handlers.NewMeetingHandler(db)
	if err != nil {
		return nil, err
	}
	meetings := api.Group("/meetings")
	{
		meetings.GET("", meetingHandler.List)
		meetings.POST("", meetingHandler.Create)
		meetings.PATCH("/:id", meetingHandler.Update)
		meetings.DELETE("/:id", meetingHandler.Delete)
	}

	// Notifications
	notificationHandler, err := handlers.NewNotificationHandler(db)
	if err != nil {
		return nil, err
	}
	notifications := api.Group("/notifications")
	{
		notifications.GET("", notificationHandler.List)
		notifications.POST("", notificationHandler.Create)
		notifications.POST("/:id/read", notificationHandler.MarkRead)
		notifications.POST("/read-all", notificationHandler.MarkAllRead)
	}

	// Settings
	settingsHandler, err := handlers.NewSettingsHandler(db)
	if err != nil {
		return nil, err
	}
	settings := api.Group("/settings")
	{
		settings.GET("/notifications", settingsHandler.GetNotificationSettings)
		settings.PATCH("/notifications", settingsHandler.UpdateNotificationSettings)
		settings.GET("/dashboard", settingsHandler.GetDashboardConfig)
		settings.PATCH("/dashboard", settingsHandler.UpdateDashboardConfig)
	}

	// Dashboard overview
	dashboardHandler, err := handlers.NewDashboardHandler(db)
	if err != nil {
		return nil, err
	}
	dashboard := api.Group("/dashboard")
	{
		dashboard.GET("/stats", dashboardHandler.Stats)
		dashboard.GET("/activity", dashboardHandler.Activity)
	}

	r.NoRoute(middleware.NotFoundHandler)

	return r, nil
}
