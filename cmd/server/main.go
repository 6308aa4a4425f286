package main

import (
	"context"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rabbitmq/amqp091-go"
	openai "github.com/sashabaranov/go-openai"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"

	"bbexpress-api/internal/config"
	"bbexpress-api/internal/controller"
	"bbexpress-api/internal/middleware"
	"bbexpress-api/internal/rabbit"
	"bbexpress-api/internal/repository"
	"bbexpress-api/internal/service"
	"bbexpress-api/internal/storage"
	"bbexpress-api/pkg/logger"
)

func main() {
	cfg := config.Load()

	log, err := logger.Init(os.Getenv("GIN_MODE") != "release")
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	// Conexión a MongoDB
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.MongoURI))
	if err != nil {
		log.Fatal("Error conectando a MongoDB", zap.Error(err))
	}
	db := client.Database(cfg.MongoDBName)

	if err := repository.EnsureIndexes(ctx, db); err != nil {
		log.Fatal("Error creando índices", zap.Error(err))
	}

	// Repositorios
	userRepo := repository.NewMongoUserRepository(db)
	shipmentRepo := repository.NewMongoShipmentRepository(db)
	transferRepo := repository.NewMongoTransferRepository(db)
	txRepo := repository.NewMongoTransactionRepository(db)
	notificationRepo := repository.NewMongoNotificationRepository(db)
	productRepo := repository.NewMongoProductRepository(db)
	configRepo := repository.NewMongoConfigRepository(db)
	verificationRepo := repository.NewMongoVerificationRepository(db)

	// Conexión a RabbitMQ
	conn, err := amqp091.Dial(cfg.RabbitURL)
	if err != nil {
		log.Fatal("Error conectando a RabbitMQ", zap.Error(err))
	}
	ch, err := conn.Channel()
	if err != nil {
		log.Fatal("Error creando canal en RabbitMQ", zap.Error(err))
	}

	publisher, err := rabbit.NewPublisher(ch)
	if err != nil {
		log.Fatal("Error declarando exchange", zap.Error(err))
	}

	// Servicios externos
	files := storage.NewClient(cfg.StorageURL, cfg.StorageAPIKey)
	mail := service.NewSMTPMailService(service.SMTPConfig{
		Host:     cfg.SMTPHost,
		Port:     cfg.SMTPPort,
		Username: cfg.SMTPUser,
		Password: cfg.SMTPPassword,
		From:     cfg.MailFrom,
	})

	// Servicios de negocio
	authService := service.NewAuthService(userRepo, verificationRepo, mail, cfg.JWTSecret)
	shipmentService := service.NewShipmentService(shipmentRepo, userRepo, txRepo, publisher)
	transferService := service.NewTransferService(transferRepo, txRepo, files, publisher, cfg.UploadDir)
	txService := service.NewTransactionService(txRepo)
	receiptService := service.NewReceiptService()
	notificationService := service.NewNotificationService(notificationRepo)
	productService := service.NewProductService(productRepo, txRepo, files)
	configService := service.NewConfigService(configRepo)
	chatService := service.NewChatService(openai.NewClient(cfg.OpenAIKey), cfg.OpenAIModel, configService)

	// Handlers
	authCtrl := controller.NewAuthController(authService)
	shipmentCtrl := controller.NewShipmentController(shipmentService, authService)
	transferCtrl := controller.NewTransferController(transferService)
	txCtrl := controller.NewTransactionController(txService, receiptService)
	notificationCtrl := controller.NewNotificationController(notificationService)
	productCtrl := controller.NewProductController(productService, authService)
	configCtrl := controller.NewConfigController(configService)
	chatCtrl := controller.NewChatController(chatService)
	uploadCtrl := controller.NewUploadController(files)

	// Router
	r := gin.Default()
	r.Use(middleware.Metrics())

	// Rutas públicas
	r.GET("/health", func(c *gin.Context) { c.JSON(200, gin.H{"status": "ok"}) })
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	r.POST("/auth/register", authCtrl.Register)
	r.POST("/auth/login", authCtrl.Login)
	r.POST("/auth/verify-email", authCtrl.VerifyEmail)
	r.POST("/auth/resend-code", authCtrl.ResendCode)
	r.POST("/auth/forgot-password", authCtrl.ForgotPassword)
	r.POST("/auth/reset-password", authCtrl.ResetPassword)
	r.GET("/track/:tracking", shipmentCtrl.Track)
	r.GET("/products", productCtrl.List)
	r.GET("/config", configCtrl.Get)
	r.POST("/chat", chatCtrl.Chat)

	// Rutas protegidas (requieren token)
	auth := r.Group("/")
	auth.Use(middleware.AuthMiddleware(cfg.JWTSecret))

	auth.GET("/auth/me", authCtrl.Me)
	auth.PUT("/auth/profile", authCtrl.UpdateProfile)

	auth.POST("/shipments", shipmentCtrl.Create)
	auth.POST("/shipments/bulk", shipmentCtrl.CreateBulk)
	auth.GET("/shipments", shipmentCtrl.List)

	auth.POST("/transfers", transferCtrl.Create)
	auth.GET("/transfers", transferCtrl.List)

	auth.GET("/transactions/:id/receipt", txCtrl.Receipt)
	auth.POST("/store/purchases", productCtrl.RecordPurchase)

	auth.GET("/notifications", notificationCtrl.List)
	auth.GET("/notifications/unread-count", notificationCtrl.UnreadCount)
	auth.POST("/notifications/:id/read", notificationCtrl.MarkRead)
	auth.POST("/notifications/read-all", notificationCtrl.MarkAllRead)

	// Rutas admin
	admin := auth.Group("/admin")
	admin.Use(middleware.AdminOnly())

	admin.GET("/users", authCtrl.ListUsers)
	admin.PATCH("/users/:id/discount", authCtrl.SetDiscountEligible)

	admin.PATCH("/shipments/:id/status", shipmentCtrl.UpdateStatus)
	admin.POST("/shipments/mark-arrived", shipmentCtrl.BulkMarkArrived)

	admin.PATCH("/transfers/:id/status", transferCtrl.UpdateStatus)

	admin.GET("/transactions", txCtrl.List)
	admin.GET("/transactions/export", txCtrl.ExportCSV)

	admin.POST("/notifications", notificationCtrl.Create)
	admin.DELETE("/notifications/:id", notificationCtrl.Delete)

	admin.POST("/products", productCtrl.Create)
	admin.PUT("/products/:id", productCtrl.Update)
	admin.DELETE("/products/:id", productCtrl.Delete)
	admin.POST("/products/import", productCtrl.ImportExcel)

	admin.PUT("/config", configCtrl.Update)

	admin.POST("/uploads", uploadCtrl.UploadImage)
	admin.DELETE("/uploads/:publicId", uploadCtrl.DeleteImage)

	// Consumidor de eventos de este mismo servicio
	rabbit.SetupConsumers(ch, notificationService, mail)

	// Ejecutar servidor
	log.Info("BBExpress API ejecutándose", zap.String("port", cfg.Port))
	if err := r.Run(":" + cfg.Port); err != nil {
		log.Fatal("Error en el servidor", zap.Error(err))
	}
}
