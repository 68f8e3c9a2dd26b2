package container

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/hibiken/asynq"

	"shop-backend/internal/config"
	infraCache "shop-backend/internal/infrastructure/cache"
	"shop-backend/internal/infrastructure/database"
	"shop-backend/internal/infrastructure/email"
	"shop-backend/internal/infrastructure/eventbus"
	"shop-backend/internal/infrastructure/mongodb"
	"shop-backend/internal/infrastructure/queue"
	"shop-backend/internal/infrastructure/storage"
	"shop-backend/pkg/cache"
	"shop-backend/pkg/jwt"

	cartHandler "shop-backend/internal/domains/cart/handler"
	cartRepo "shop-backend/internal/domains/cart/repository"
	cartService "shop-backend/internal/domains/cart/service"
	chatHandler "shop-backend/internal/domains/chat/handler"
	chatRepo "shop-backend/internal/domains/chat/repository"
	chatService "shop-backend/internal/domains/chat/service"
	flashSaleHandler "shop-backend/internal/domains/flashsale/handler"
	flashSaleRepo "shop-backend/internal/domains/flashsale/repository"
	flashSaleService "shop-backend/internal/domains/flashsale/service"
	notificationHandler "shop-backend/internal/domains/notification/handler"
	notificationRepo "shop-backend/internal/domains/notification/repository"
	notificationService "shop-backend/internal/domains/notification/service"
	orderHandler "shop-backend/internal/domains/order/handler"
	orderRepo "shop-backend/internal/domains/order/repository"
	orderService "shop-backend/internal/domains/order/service"
	"shop-backend/internal/domains/payment/gateway"
	mockGateway "shop-backend/internal/domains/payment/gateway/mock"
	"shop-backend/internal/domains/payment/gateway/vnpay"
	paymentHandler "shop-backend/internal/domains/payment/handler"
	paymentRepo "shop-backend/internal/domains/payment/repository"
	paymentService "shop-backend/internal/domains/payment/service"
	productHandler "shop-backend/internal/domains/product/handler"
	productRepo "shop-backend/internal/domains/product/repository"
	productService "shop-backend/internal/domains/product/service"
	reportHandler "shop-backend/internal/domains/report/handler"
	reportRepo "shop-backend/internal/domains/report/repository"
	reportService "shop-backend/internal/domains/report/service"
	userHandler "shop-backend/internal/domains/user/handler"
	userRepo "shop-backend/internal/domains/user/repository"
	userService "shop-backend/internal/domains/user/service"
	voucherHandler "shop-backend/internal/domains/voucher/handler"
	voucherRepo "shop-backend/internal/domains/voucher/repository"
	voucherService "shop-backend/internal/domains/voucher/service"
)

// ========================================
// CONTAINER STRUCT
// ========================================

// Container chứa toàn bộ dependencies của application (api + worker dùng chung)
type Container struct {
	// ========================================
	// INFRASTRUCTURE LAYER
	// ========================================
	Config         *config.Config
	DB             *database.PostgresDB
	Redis          *infraCache.RedisCache
	Cache          cache.Cache
	Mongo          *mongodb.MongoDB
	Storage        storage.FileStorage
	ImageProcessor *storage.ImageProcessor
	AsynqClient    *asynq.Client
	AsynqInspector *asynq.Inspector
	Publisher      eventbus.Publisher
	EmailService   email.EmailService
	PaymentGateway gateway.Gateway
	JWTManager     *jwt.Manager

	// ========================================
	// REPOSITORY LAYER
	// ========================================
	UserRepo         userRepo.UserRepository
	ProductRepo      productRepo.ProductRepository
	ImportRepo       productRepo.ImportRepository
	VoucherRepo      voucherRepo.VoucherRepository
	OrderRepo        orderRepo.OrderRepository
	PaymentRepo      paymentRepo.PaymentRepository
	FlashSaleRepo    flashSaleRepo.FlashSaleRepository
	NotificationRepo notificationRepo.NotificationRepository
	CartRepo         cartRepo.CartRepository
	ChatRepo         chatRepo.ChatRepository
	ReportRepo       reportRepo.ReportRepository

	// ========================================
	// SERVICE LAYER
	// ========================================
	UserService         userService.UserService
	ProductService      productService.ProductService
	ImportService       productService.ImportService
	VoucherService      voucherService.VoucherService
	NotificationService notificationService.NotificationService
	CartService         cartService.CartService
	OrderService        orderService.OrderService
	CallbackService     paymentService.CallbackService
	FlashSaleService    flashSaleService.FlashSaleService
	ChatService         chatService.ChatService
	ReportService       reportService.ReportService

	// ========================================
	// HANDLER LAYER (HTTP)
	// ========================================
	UserHandler         *userHandler.UserHandler
	ProductHandler      *productHandler.ProductHandler
	VoucherHandler      *voucherHandler.VoucherHandler
	NotificationHandler *notificationHandler.NotificationHandler
	CartHandler         *cartHandler.CartHandler
	OrderHandler        *orderHandler.OrderHandler
	PaymentHandler      *paymentHandler.PaymentHandler
	FlashSaleHandler    *flashSaleHandler.FlashSaleHandler
	ChatHandler         *chatHandler.ChatHandler
	ReportHandler       *reportHandler.ReportHandler
}

// ========================================
// CONSTRUCTOR: BUILD CONTAINER
// ========================================

// NewContainer build dependency graph theo thứ tự:
// Config -> Infrastructure -> Repositories -> Services -> Handlers
func NewContainer() (*Container, error) {
	log.Println("🔧 Initializing DI Container...")

	c := &Container{}

	// ========================================
	// STEP 1: LOAD CONFIGURATION
	// ========================================
	log.Println("📋 Loading configuration...")

	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	c.Config = cfg
	log.Printf("✅ Config loaded (Environment: %s)", cfg.App.Environment)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	// ========================================
	// STEP 2: INITIALIZE INFRASTRUCTURE
	// ========================================
	if err := c.initInfrastructure(ctx); err != nil {
		c.Cleanup()
		return nil, err
	}

	// ========================================
	// STEP 3: INITIALIZE REPOSITORIES
	// ========================================
	log.Println("📦 Initializing repositories...")
	if err := c.initRepositories(ctx); err != nil {
		c.Cleanup()
		return nil, fmt.Errorf("failed to init repositories: %w", err)
	}
	log.Println("✅ Repositories initialized")

	// ========================================
	// STEP 4: INITIALIZE SERVICES
	// ========================================
	log.Println("⚙️  Initializing services...")
	c.initServices()
	log.Println("✅ Services initialized")

	// ========================================
	// STEP 5: INITIALIZE HANDLERS
	// ========================================
	log.Println("🎯 Initializing handlers...")
	c.initHandlers()
	log.Println("✅ Handlers initialized")

	log.Println("🎉 DI Container initialized successfully")
	return c, nil
}

// ========================================
// PRIVATE INITIALIZATION METHODS
// ========================================

func (c *Container) initInfrastructure(ctx context.Context) error {
	cfg := c.Config

	// ----------------------------------------
	// POSTGRES
	// ----------------------------------------
	log.Println("🗄️  Connecting to PostgreSQL...")
	dbConfig, err := config.LoadDatabaseConfig()
	if err != nil {
		return fmt.Errorf("failed to load database config: %w", err)
	}

	db := database.NewPostgresDB(dbConfig)
	if err := db.Connect(ctx); err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	if err := db.HealthCheck(ctx); err != nil {
		return fmt.Errorf("database health check failed: %w", err)
	}
	c.DB = db
	log.Println("✅ Database connected")

	// ----------------------------------------
	// REDIS (cache + cart)
	// ----------------------------------------
	// Redis bắt buộc: cart lưu trực tiếp trong Redis
	log.Println("🔴 Connecting to Redis...")
	redisCache := infraCache.NewRedisCache(cfg.Redis.Host, cfg.Redis.Password, cfg.Redis.DB)
	if err := redisCache.Connect(ctx); err != nil {
		return fmt.Errorf("failed to connect to redis: %w", err)
	}
	c.Redis = redisCache
	c.Cache = redisCache
	log.Println("✅ Redis connected")

	// ----------------------------------------
	// MONGODB (chat)
	// ----------------------------------------
	log.Println("🍃 Connecting to MongoDB...")
	mongo, err := mongodb.Connect(ctx, cfg.Mongo)
	if err != nil {
		return fmt.Errorf("failed to connect to mongodb: %w", err)
	}
	c.Mongo = mongo
	log.Printf("✅ MongoDB connected (database: %s)", cfg.Mongo.Database)

	// ----------------------------------------
	// MINIO
	// ----------------------------------------
	log.Println("🪣 Connecting to MinIO...")
	minioStorage, err := storage.NewMinIOStorage(ctx, cfg.MinIO)
	if err != nil {
		return fmt.Errorf("failed to init minio: %w", err)
	}
	c.Storage = minioStorage
	c.ImageProcessor = storage.NewImageProcessor()
	log.Printf("✅ MinIO ready (bucket: %s)", cfg.MinIO.Bucket)

	// ----------------------------------------
	// ASYNQ + KAFKA + EMAIL
	// ----------------------------------------
	c.AsynqClient = queue.NewClient(cfg.Redis.Host, cfg.Redis.Password, cfg.Redis.DB)
	c.AsynqInspector = queue.NewInspector(cfg.Redis.Host, cfg.Redis.Password, cfg.Redis.DB)
	c.Publisher = eventbus.NewProducer(cfg.Kafka.Brokers, cfg.Kafka.OrderTopic)
	c.EmailService = email.NewSMTPEmailService(cfg.Email)

	// ----------------------------------------
	// PAYMENT GATEWAY
	// ----------------------------------------
	// Dev không có TMN code -> dùng mock gateway
	if cfg.VNPay.TmnCode == "" && cfg.App.Environment != "production" {
		log.Println("⚠️  VNPay not configured, using mock payment gateway")
		c.PaymentGateway = mockGateway.NewGateway()
	} else {
		vnpayClient, err := vnpay.NewClient(vnpay.NewConfig(cfg.VNPay))
		if err != nil {
			return fmt.Errorf("failed to init vnpay client: %w", err)
		}
		c.PaymentGateway = vnpayClient
	}

	c.JWTManager = jwt.NewManager(
		cfg.JWT.Secret,
		time.Duration(cfg.JWT.AccessTokenExpiry)*time.Minute,
		time.Duration(cfg.JWT.RefreshTokenExpiry)*time.Hour,
	)

	return nil
}

func (c *Container) initRepositories(ctx context.Context) error {
	pool := c.DB.Pool

	c.UserRepo = userRepo.NewPostgresUserRepository(pool)
	c.ProductRepo = productRepo.NewPostgresProductRepository(pool)
	c.ImportRepo = productRepo.NewPostgresImportRepository(pool)
	c.VoucherRepo = voucherRepo.NewPostgresVoucherRepository(pool)
	c.OrderRepo = orderRepo.NewPostgresOrderRepository(pool)
	c.PaymentRepo = paymentRepo.NewPostgresPaymentRepository(pool)
	c.FlashSaleRepo = flashSaleRepo.NewPostgresFlashSaleRepository(pool)
	c.NotificationRepo = notificationRepo.NewPostgresNotificationRepository(pool)
	c.ReportRepo = reportRepo.NewPostgresReportRepository(pool)

	c.CartRepo = cartRepo.NewRedisCartRepository(c.Redis.Client)

	if err := chatRepo.EnsureIndexes(ctx, c.Mongo.Database); err != nil {
		return err
	}
	c.ChatRepo = chatRepo.NewMongoChatRepository(c.Mongo.Database)

	return nil
}

func (c *Container) initServices() {
	cfg := c.Config

	c.UserService = userService.NewUserService(c.UserRepo, c.JWTManager)
	c.ProductService = productService.NewProductService(c.ProductRepo, c.Storage, c.ImageProcessor)
	c.ImportService = productService.NewImportService(
		c.ProductRepo,
		c.ImportRepo,
		c.Storage,
		c.AsynqClient,
		cfg.FlashSale.ImportQueue,
	)
	c.VoucherService = voucherService.NewVoucherService(c.VoucherRepo)
	c.NotificationService = notificationService.NewNotificationService(c.NotificationRepo, c.Cache)
	c.CartService = cartService.NewCartService(c.CartRepo, c.ProductRepo)

	// ----------------------------------------
	// ORDER + PAYMENT (cross-domain)
	// ----------------------------------------
	c.OrderService = orderService.NewOrderService(
		c.OrderRepo,
		c.PaymentRepo,
		c.VoucherService,
		c.PaymentGateway,
		c.NotificationService,
		c.Publisher,
		c.AsynqClient,
		c.CartService,
	)
	c.CallbackService = paymentService.NewCallbackService(
		c.PaymentRepo,
		c.PaymentGateway,
		c.NotificationService,
		c.Publisher,
	)

	// ----------------------------------------
	// FLASH SALE (timers trên asynq)
	// ----------------------------------------
	timers := flashSaleService.NewTimers(c.AsynqClient, c.AsynqInspector, cfg.FlashSale)
	c.FlashSaleService = flashSaleService.NewFlashSaleService(
		c.FlashSaleRepo,
		timers,
		c.NotificationService,
		c.UserService,
		c.AsynqClient,
		cfg.FlashSale,
	)

	c.ChatService = chatService.NewChatService(c.ChatRepo, c.Storage, c.UserService, c.NotificationService)
	c.ReportService = reportService.NewReportService(c.ReportRepo)
}

func (c *Container) initHandlers() {
	c.UserHandler = userHandler.NewUserHandler(c.UserService)
	c.ProductHandler = productHandler.NewProductHandler(c.ProductService, c.ImportService)
	c.VoucherHandler = voucherHandler.NewVoucherHandler(c.VoucherService)
	c.NotificationHandler = notificationHandler.NewNotificationHandler(c.NotificationService)
	c.CartHandler = cartHandler.NewCartHandler(c.CartService)
	c.OrderHandler = orderHandler.NewOrderHandler(c.OrderService)
	c.PaymentHandler = paymentHandler.NewPaymentHandler(c.CallbackService)
	c.FlashSaleHandler = flashSaleHandler.NewFlashSaleHandler(c.FlashSaleService)
	c.ChatHandler = chatHandler.NewChatHandler(c.ChatService)
	c.ReportHandler = reportHandler.NewReportHandler(c.ReportService)
}

// Cleanup dọn dẹp resources khi shutdown
func (c *Container) Cleanup() {
	log.Println("🧹 Cleaning up container resources...")

	if c.AsynqClient != nil {
		if err := c.AsynqClient.Close(); err != nil {
			log.Printf("⚠️  Failed to close asynq client: %v", err)
		}
	}
	if c.AsynqInspector != nil {
		_ = c.AsynqInspector.Close()
	}

	if c.Publisher != nil {
		if err := c.Publisher.Close(); err != nil {
			log.Printf("⚠️  Failed to close kafka publisher: %v", err)
		}
	}

	if c.Mongo != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		if err := c.Mongo.Close(ctx); err != nil {
			log.Printf("⚠️  Failed to close MongoDB: %v", err)
		}
		cancel()
	}

	if c.DB != nil {
		c.DB.Close()
		log.Println("✅ Database connections closed")
	}

	if c.Redis != nil {
		if err := c.Redis.Close(); err != nil {
			log.Printf("⚠️  Failed to close Redis: %v", err)
		} else {
			log.Println("✅ Redis connections closed")
		}
	}

	log.Println("✅ Container cleanup completed")
}
