package main

import (
	"os"

	_ "rentledger/api/swagger" // swagger docs
	"rentledger/internal/database"
	"rentledger/internal/handler"
	"rentledger/internal/middleware"
	"rentledger/internal/repository"
	"rentledger/internal/service"
	"rentledger/internal/websocket"
	"rentledger/pkg/crypto"
	"rentledger/pkg/logger"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"
)

// Development only. Encrypts intermediary portal credentials at rest; any
// real deployment must provide its own 32-byte hex key.
const devEncryptionKey = "6368616e676520746869732064657620656e6372797074696f6e206b65792121"

// @title           RentLedger API
// @version         1.0
// @description     Back office for short-term rental apartments: bookings, expenses and quarterly VAT settlement.
// @host            localhost:8080
// @BasePath        /api
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	// Missing file is fine, environment variables may come from the process
	_ = godotenv.Load("configs/.env")

	log := logger.New(os.Getenv("LOG_LEVEL"), os.Getenv("LOG_FORMAT"))
	defer func() { _ = log.Sync() }()

	dbHost := os.Getenv("DB_HOST")
	dbPort := os.Getenv("DB_PORT")
	dbUser := os.Getenv("DB_USER")
	dbPassword := os.Getenv("DB_PASSWORD")
	dbName := os.Getenv("DB_NAME")
	dbSslMode := os.Getenv("DB_SSLMODE")

	if dbHost == "" {
		dbHost = "localhost"
	}
	if dbPort == "" {
		dbPort = "5432"
	}
	if dbUser == "" {
		dbUser = "postgres"
	}
	if dbPassword == "" {
		dbPassword = "postgres"
	}
	if dbName == "" {
		dbName = "rentledger"
	}
	if dbSslMode == "" {
		dbSslMode = "disable"
	}

	dsn := "postgres://" + dbUser + ":" + dbPassword + "@" + dbHost + ":" + dbPort + "/" + dbName + "?sslmode=" + dbSslMode

	db, err := database.NewConnection(dsn)
	if err != nil {
		log.Fatal("database connection failed", zap.Error(err))
	}
	log.Info("connected to PostgreSQL")

	encKey := os.Getenv("ENCRYPTION_KEY")
	if encKey == "" {
		if gin.Mode() == gin.ReleaseMode {
			log.Fatal("ENCRYPTION_KEY is required in release mode")
		}
		log.Warn("ENCRYPTION_KEY not set, using development key")
		encKey = devEncryptionKey
	}
	cipher, err := crypto.NewCipher(encKey)
	if err != nil {
		log.Fatal("invalid ENCRYPTION_KEY", zap.Error(err))
	}

	jwtSecret := middleware.GetJWTSecret()

	// Set up WebSocket hub for the activity feed
	wsHub := websocket.NewHub(log)
	go wsHub.Run()

	// Set up dependencies (Repository -> Service -> Handler)
	userRepo := repository.NewUserRepository(db)
	apartmentRepo := repository.NewApartmentRepository(db)
	rateRepo := repository.NewRateRepository(db)
	intermediaryRepo := repository.NewIntermediaryRepository(db)
	incomeRepo := repository.NewIncomeRepository(db)
	expenseRepo := repository.NewExpenseRepository(db)
	auditRepo := repository.NewAuditRepository(db)
	txManager := repository.NewTransactionManager(db)

	authService := service.NewAuthService(userRepo, string(jwtSecret))
	apartmentService := service.NewApartmentService(apartmentRepo, rateRepo, incomeRepo, expenseRepo, auditRepo, txManager, wsHub)
	rateService := service.NewRateService(rateRepo, apartmentRepo, incomeRepo, auditRepo, txManager, wsHub)
	intermediaryService := service.NewIntermediaryService(intermediaryRepo, cipher)
	incomeService := service.NewIncomeService(incomeRepo, apartmentRepo, rateRepo, intermediaryRepo, auditRepo, txManager, wsHub)
	expenseService := service.NewExpenseService(expenseRepo, apartmentRepo, auditRepo, txManager, wsHub)
	dashboardService := service.NewDashboardService(incomeRepo, expenseRepo)
	auditService := service.NewAuditService(auditRepo)

	// Initialize Handlers
	authHandler := handler.NewAuthHandler(authService)
	apartmentHandler := handler.NewApartmentHandler(apartmentService)
	rateHandler := handler.NewRateHandler(rateService)
	intermediaryHandler := handler.NewIntermediaryHandler(intermediaryService)
	incomeHandler := handler.NewIncomeHandler(incomeService)
	expenseHandler := handler.NewExpenseHandler(expenseService)
	dashboardHandler := handler.NewDashboardHandler(dashboardService)
	auditHandler := handler.NewAuditHandler(auditService)

	// Set up Gin Router
	router := gin.New()
	router.Use(logger.GinMiddleware(log), logger.Recovery(log))

	// CORS configuration
	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = []string{"http://localhost:5173", "http://127.0.0.1:5173", "http://localhost:5174"} // Frontend URL
	corsConfig.AllowCredentials = true
	corsConfig.AllowHeaders = []string{"Origin", "Content-Length", "Content-Type", "Authorization", "Accept"}
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	router.Use(cors.New(corsConfig))

	// Swagger route
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Health check
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "OK"})
	})

	// WebSocket endpoint
	router.GET("/ws", func(c *gin.Context) {
		websocket.ServeWs(wsHub, c, jwtSecret)
	})

	// Register API Routes
	auth := middleware.RequireAuth(jwtSecret)
	authHandler.RegisterRoutes(router.Group(""), auth)
	apartmentHandler.RegisterRoutes(router.Group(""), auth)
	rateHandler.RegisterRoutes(router.Group(""), auth)
	intermediaryHandler.RegisterRoutes(router.Group(""), auth)
	incomeHandler.RegisterRoutes(router.Group(""), auth)
	expenseHandler.RegisterRoutes(router.Group(""), auth)
	dashboardHandler.RegisterRoutes(router.Group(""), auth)
	auditHandler.RegisterRoutes(router.Group(""), auth)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	log.Info("server listening", zap.String("port", port))
	if err := router.Run(":" + port); err != nil {
		log.Fatal("server failed", zap.Error(err))
	}
}
