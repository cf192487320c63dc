// internal/app/router.go
package app

import (
	attendanceHandler "kilofit-service/internal/handlers/attendance"
	authHandler "kilofit-service/internal/handlers/auth"
	clientHandler "kilofit-service/internal/handlers/client"
	paymentHandler "kilofit-service/internal/handlers/payment"
	planHandler "kilofit-service/internal/handlers/plan"
	rewardHandler "kilofit-service/internal/handlers/reward"
	subscriptionHandler "kilofit-service/internal/handlers/subscription"
	wsHandler "kilofit-service/internal/handlers/ws"
	"kilofit-service/internal/middleware"

	"github.com/gin-gonic/gin"
)

type Handlers struct {
	AuthHandler         *authHandler.AuthHandler
	ClientHandler       *clientHandler.ClientHandler
	PlanHandler         *planHandler.PlanHandler
	SubscriptionHandler *subscriptionHandler.SubscriptionHandler
	RewardHandler       *rewardHandler.RewardHandler
	AttendanceHandler   *attendanceHandler.AttendanceHandler
	PaymentHandler      *paymentHandler.PaymentHandler
	WSHandler           *wsHandler.WSHandler
	AuthMiddleware      *middleware.AuthMiddleware
}

func SetupRouter(r *gin.Engine, h *Handlers) {
	api := r.Group("/api/v1")

	// ==================== Health Check ====================
	api.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok", "version": "1.0.0"})
	})

	// ==================== WebSocket ====================
	r.GET("/ws", h.AuthMiddleware.Auth(), h.WSHandler.Connect)

	// ==================== Auth ====================
	auth := api.Group("/auth")
	{
		auth.POST("/login", h.AuthHandler.Login)
	}
	authAdmin := api.Group("/auth")
	authAdmin.Use(h.AuthMiddleware.SuperAdminOnly()...)
	{
		authAdmin.POST("/admins", h.AuthHandler.CreateAdmin)
	}

	// ==================== Clients ====================
	clients := api.Group("/clients")
	clients.Use(h.AuthMiddleware.AdminOnly()...)
	{
		clients.POST("", h.ClientHandler.CreateClient)
		clients.GET("", h.ClientHandler.ListClients)
		clients.GET("/stats", h.ClientHandler.GetClientStats)
		clients.GET("/:clientId", h.ClientHandler.GetClient)
		clients.PUT("/:clientId", h.ClientHandler.UpdateClient)
		clients.PATCH("/:clientId/status", h.ClientHandler.UpdateClientStatus)

		// Per-client subscription views
		clients.POST("/:clientId/subscriptions", h.SubscriptionHandler.CreateSubscription)
		clients.GET("/:clientId/subscriptions", h.SubscriptionHandler.ListClientSubscriptions)
		clients.GET("/:clientId/subscriptions/active", h.SubscriptionHandler.GetActiveSubscription)

		// Per-client reward and attendance views
		clients.GET("/:clientId/rewards", h.RewardHandler.ListAvailable)
		clients.GET("/:clientId/attendance", h.AttendanceHandler.ListByClient)
	}

	// ==================== Plans ====================
	plans := api.Group("/plans")
	{
		plans.GET("", h.PlanHandler.ListPlans)
		plans.GET("/:id", h.PlanHandler.GetPlan)

		plansAdmin := plans.Group("")
		plansAdmin.Use(h.AuthMiddleware.AdminOnly()...)
		{
			plansAdmin.POST("", h.PlanHandler.CreatePlan)
			plansAdmin.PUT("/:id", h.PlanHandler.UpdatePlan)
			plansAdmin.PATCH("/:id/status", h.PlanHandler.UpdatePlanStatus)
		}
	}

	// ==================== Subscriptions ====================
	subscriptions := api.Group("/subscriptions")
	subscriptions.Use(h.AuthMiddleware.AdminOnly()...)
	{
		subscriptions.GET("", h.SubscriptionHandler.ListSubscriptions)
		subscriptions.GET("/stats", h.SubscriptionHandler.GetStats)
		subscriptions.GET("/expiring", h.SubscriptionHandler.GetExpiring)
		subscriptions.POST("/expire-all", h.SubscriptionHandler.ExpireAll)
		subscriptions.POST("/activate-all", h.SubscriptionHandler.ActivateAll)

		subscriptions.GET("/:id", h.SubscriptionHandler.GetSubscription)
		subscriptions.GET("/:id/renewable", h.SubscriptionHandler.CheckRenewable)
		subscriptions.POST("/:id/renew", h.SubscriptionHandler.RenewSubscription)
		subscriptions.POST("/:id/cancel", h.SubscriptionHandler.CancelSubscription)
		subscriptions.GET("/:id/payments/stats", h.SubscriptionHandler.GetPaymentStats)

		// Reward workflow per cycle
		subscriptions.POST("/:id/rewards/calculate", h.RewardHandler.Calculate)
		subscriptions.GET("/:id/rewards/state", h.RewardHandler.GetSituation)
		subscriptions.GET("/:id/rewards", h.RewardHandler.ListBySubscription)
	}

	// ==================== Rewards ====================
	rewards := api.Group("/rewards")
	rewards.Use(h.AuthMiddleware.AdminOnly()...)
	{
		rewards.GET("/config", h.RewardHandler.GetConfig)
		rewards.POST("/:id/apply", h.RewardHandler.Apply)
	}
	rewardsSuper := api.Group("/rewards")
	rewardsSuper.Use(h.AuthMiddleware.SuperAdminOnly()...)
	{
		rewardsSuper.PUT("/config", h.RewardHandler.UpdateConfig)
	}

	// ==================== Attendance ====================
	attendance := api.Group("/attendance")
	attendance.Use(h.AuthMiddleware.AdminOnly()...)
	{
		attendance.POST("/check-in", h.AttendanceHandler.CheckIn)
	}

	// ==================== Payments ====================
	payments := api.Group("/payments")
	payments.Use(h.AuthMiddleware.AdminOnly()...)
	{
		payments.GET("", h.PaymentHandler.ListPayments)
	}
}
