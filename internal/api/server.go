package api

import (
	"fmt"
	"log"
	"log/slog"
	"net/http"

	"gigbook/internal/cache"
	"gigbook/internal/config"
	"gigbook/internal/database"
	"gigbook/internal/gateway"
	"gigbook/internal/handlers"
	"gigbook/internal/messaging"
	"gigbook/internal/middleware"
	"gigbook/internal/models"
	"gigbook/internal/repository"
	"gigbook/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Server представляет HTTP сервер API
type Server struct {
	router   *gin.Engine
	config   *config.Config
	db       *database.DB
	nats     *messaging.NATSClient
	redis    *cache.Client
	services *service.Services
	repos    *repository.Repositories
}

// NewServer создает новый экземпляр сервера
func NewServer(cfg *config.Config) *Server {
	gin.SetMode(cfg.GinMode)

	// Подключаемся к базе данных
	db, err := database.Connect(cfg.Database)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	// Запускаем миграции
	if err := db.RunMigrations(); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	// Подключаемся к NATS
	natsClient, err := messaging.NewNATSClient(cfg.NATS)
	if err != nil {
		log.Fatalf("Failed to connect to NATS: %v", err)
	}

	// Redis дедуплицирует webhook-доставки; без него остается только
	// status guard в базе
	redisClient, err := cache.NewClient(cfg.Redis)
	if err != nil {
		slog.Error("Redis unavailable, webhook dedup falls back to status guard", "error", err)
		redisClient = nil
	}

	gatewayClient := gateway.NewClient(cfg.Gateway)

	// Создаем репозитории и сервисы
	repos := repository.NewRepositories(db)
	services := service.NewServices(repos, natsClient, gatewayClient, redisClient)

	router := gin.New()
	router.Use(middleware.Recovery())
	router.Use(middleware.CORS())
	router.Use(middleware.Logger())

	server := &Server{
		router:   router,
		config:   cfg,
		db:       db,
		nats:     natsClient,
		redis:    redisClient,
		services: services,
		repos:    repos,
	}

	server.setupRoutes()

	return server
}

// setupRoutes настраивает все API роуты
func (s *Server) setupRoutes() {
	h := handlers.NewHandlers(s.services)

	api := s.router.Group("/api")

	// Gateway callback: аутентифицируется не токеном, а идемпотентностью
	api.POST("/payments/:id/webhook", h.PaymentWebhook)

	authed := api.Group("")
	authed.Use(middleware.Auth(s.config.JWTSecret))
	{
		reservations := authed.Group("/reservations")
		{
			reservations.POST("", middleware.RequireRole(models.RoleBooker), h.CreateReservation)
			reservations.GET("", h.ListReservations)
			reservations.GET("/:id", h.GetReservation)
			reservations.PATCH("/:id/status", h.UpdateReservationStatus)
			reservations.PATCH("/:id/payment", middleware.RequireRole(models.RoleBooker), h.UpdateReservationPayment)
			reservations.DELETE("/:id", middleware.RequireRole(models.RoleBooker), h.DeleteReservation)
		}

		payments := authed.Group("/payments")
		{
			payments.POST("", middleware.RequireRole(models.RoleBooker), h.CreatePayment)
			payments.GET("", h.ListPayments)
			payments.GET("/:id", h.GetPayment)
		}

		methods := authed.Group("/payment-methods")
		{
			methods.POST("", h.CreatePaymentMethod)
			methods.GET("", h.ListPaymentMethods)
			methods.PUT("/:id", h.UpdatePaymentMethod)
			methods.PUT("/:id/default", h.SetDefaultPaymentMethod)
			methods.DELETE("/:id", h.DeletePaymentMethod)
		}

		notifications := authed.Group("/notifications")
		{
			notifications.GET("", h.ListNotifications)
			notifications.PATCH("/read-all", h.MarkAllNotificationsRead)
			notifications.PATCH("/:id/read", h.MarkNotificationRead)
		}
	}

	s.router.GET("/health", s.healthCheck)
	s.router.GET("/metrics", gin.WrapH(promhttp.Handler()))
}

// healthCheck обрабатывает health check запросы
func (s *Server) healthCheck(c *gin.Context) {
	dbCheck := s.db.HealthCheck(c.Request.Context())

	status := http.StatusOK
	if dbCheck.Status != "healthy" {
		status = http.StatusServiceUnavailable
	}

	c.JSON(status, gin.H{
		"status":   dbCheck.Status,
		"service":  "gigbook-api",
		"database": dbCheck,
	})
}

// Run запускает HTTP сервер
func (s *Server) Run() error {
	addr := fmt.Sprintf(":%s", s.config.Port)
	return s.router.Run(addr)
}

// GetRouter возвращает роутер для тестирования
func (s *Server) GetRouter() *gin.Engine {
	return s.router
}

// Cleanup закрывает соединения
func (s *Server) Cleanup() error {
	if s.nats != nil {
		if err := s.nats.Close(); err != nil {
			log.Printf("Error closing NATS connection: %v", err)
		}
	}

	if s.redis != nil {
		if err := s.redis.Close(); err != nil {
			log.Printf("Error closing redis connection: %v", err)
		}
	}

	if s.db != nil {
		if err := s.db.Close(); err != nil {
			log.Printf("Error closing database connection: %v", err)
			return err
		}
	}

	return nil
}
