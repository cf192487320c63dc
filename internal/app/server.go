// internal/app/server.go
package app

import (
	"context"
	"fmt"
	"time"

	"kilofit-service/internal/cache"
	"kilofit-service/internal/config"
	"kilofit-service/internal/db"
	attendanceHandler "kilofit-service/internal/handlers/attendance"
	authHandler "kilofit-service/internal/handlers/auth"
	clientHandler "kilofit-service/internal/handlers/client"
	paymentHandler "kilofit-service/internal/handlers/payment"
	planHandler "kilofit-service/internal/handlers/plan"
	rewardHandler "kilofit-service/internal/handlers/reward"
	subscriptionHandler "kilofit-service/internal/handlers/subscription"
	wsHandler "kilofit-service/internal/handlers/ws"
	"kilofit-service/internal/middleware"
	"kilofit-service/internal/notify"
	"kilofit-service/internal/pkg/jwt"
	"kilofit-service/internal/repository/postgres"
	attendanceService "kilofit-service/internal/service/attendance"
	authService "kilofit-service/internal/service/auth"
	clientService "kilofit-service/internal/service/client"
	paymentService "kilofit-service/internal/service/payment"
	planService "kilofit-service/internal/service/plan"
	rewardService "kilofit-service/internal/service/reward"
	subscriptionService "kilofit-service/internal/service/subscription"
	"kilofit-service/internal/worker"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type Server struct {
	cfg    config.AppConfig
	engine *gin.Engine
	logger *zap.Logger

	cancel context.CancelFunc
}

func NewServer() *Server {
	cfg := config.Load()

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	return &Server{cfg: cfg, engine: gin.New()}
}

func (s *Server) Start() error {
	ctx, cancel := context.WithCancel(context.Background())
	s.cancel = cancel

	// ----- Logger -----
	var logger *zap.Logger
	var err error
	if s.cfg.IsProduction() {
		logger, err = zap.NewProduction()
	} else {
		logger, err = zap.NewDevelopment()
	}
	if err != nil {
		return fmt.Errorf("failed to build logger: %w", err)
	}
	defer logger.Sync()
	s.logger = logger

	// ----- PostgreSQL -----
	pool, err := db.ConnectDB(s.cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("failed to connect to PostgreSQL: %w", err)
	}

	// ----- Redis -----
	redisClient, err := db.NewRedisClient(db.RedisConfig{
		Addr:     s.cfg.RedisAddr,
		Password: s.cfg.RedisPass,
		DB:       s.cfg.RedisDB,
		PoolSize: 10,
	})
	if err != nil {
		return fmt.Errorf("failed to connect to Redis: %w", err)
	}

	// ----- Cache layer -----
	cacheStore := cache.NewStore(redisClient, 10*time.Minute, logger)
	renewalLock := cache.NewRenewalLock(redisClient)
	flagStore := cache.NewFlagStore(redisClient)

	// ----- Notification hub -----
	hub := notify.NewHub(logger)
	go hub.Run(ctx)

	// ----- Repositories -----
	dbWrapper := postgres.NewDB(pool)
	adminRepo := postgres.NewAdminRepository(pool)
	clientRepo := postgres.NewClientRepository(pool)
	planRepo := postgres.NewPlanRepository(pool)
	subscriptionRepo := postgres.NewSubscriptionRepository(pool)
	rewardRepo := postgres.NewRewardRepository(pool)
	attendanceRepo := postgres.NewAttendanceRepository(pool)
	paymentRepo := postgres.NewPaymentRepository(pool)

	// ----- Services -----
	signer := jwt.NewSigner(s.cfg.JWTSecret, "kilofit-service", s.cfg.TokenTTL)
	authSvc := authService.NewAuthService(adminRepo, signer, logger)
	clientSvc := clientService.NewClientService(clientRepo, logger)
	planSvc := planService.NewPlanService(planRepo, logger)
	rewardSvc := rewardService.NewRewardService(
		rewardRepo,
		subscriptionRepo,
		planRepo,
		attendanceRepo,
		cacheStore,
		s.cfg.RewardConfigTTL,
		logger,
	)
	subscriptionSvc := subscriptionService.NewSubscriptionService(
		dbWrapper,
		subscriptionRepo,
		planRepo,
		clientRepo,
		paymentRepo,
		rewardSvc,
		cacheStore,
		renewalLock,
		hub,
		s.cfg.RenewalWindowDays,
		logger,
	)
	attendanceSvc := attendanceService.NewAttendanceService(attendanceRepo, subscriptionRepo, planRepo, logger)
	paymentSvc := paymentService.NewPaymentService(paymentRepo, logger)

	// ----- Background worker -----
	expiryWorker := worker.NewExpiryWorker(
		subscriptionSvc,
		rewardRepo,
		flagStore,
		hub,
		s.cfg.ExpiryCheckInterval,
		s.cfg.RenewalWindowDays,
		logger,
	)
	go expiryWorker.Run(ctx)

	// ----- Handlers -----
	handlers := &Handlers{
		AuthHandler:         authHandler.NewAuthHandler(authSvc),
		ClientHandler:       clientHandler.NewClientHandler(clientSvc),
		PlanHandler:         planHandler.NewPlanHandler(planSvc),
		SubscriptionHandler: subscriptionHandler.NewSubscriptionHandler(subscriptionSvc),
		RewardHandler:       rewardHandler.NewRewardHandler(rewardSvc),
		AttendanceHandler:   attendanceHandler.NewAttendanceHandler(attendanceSvc),
		PaymentHandler:      paymentHandler.NewPaymentHandler(paymentSvc),
		WSHandler:           wsHandler.NewWSHandler(hub, logger),
		AuthMiddleware:      middleware.NewAuthMiddleware(authSvc),
	}

	s.engine.Use(
		middleware.RecoveryMiddleware(logger),
		middleware.LoggingMiddleware(logger),
		middleware.CORSMiddleware(),
	)

	SetupRouter(s.engine, handlers)

	logger.Info("server starting", zap.String("addr", s.cfg.HTTPAddr))
	return s.engine.Run(s.cfg.HTTPAddr)
}

// Stop cancels the background worker and notification hub.
func (s *Server) Stop() {
	if s.cancel != nil {
		s.cancel()
	}
}
