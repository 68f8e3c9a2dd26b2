package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/robfig/cron/v3"
)

// Config chứa toàn bộ application configuration
// Struct này được populate từ environment variables
type Config struct {
	App       AppConfig
	Database  DatabaseConfig
	Redis     RedisConfig
	JWT       JWTConfig
	Email     EmailConfig
	VNPay     VNPayConfig
	MinIO     MinIOConfig
	Mongo     MongoConfig
	Kafka     KafkaConfig
	FlashSale FlashSaleConfig
	Worker    WorkerConfig
}

type AppConfig struct {
	Name        string
	Environment string // development, staging, production
	Port        string
	Version     string
}

type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Database string
	SSLMode  string
	MaxConns int
	MinConns int
}

type RedisConfig struct {
	Host     string
	Password string
	DB       int
}

type JWTConfig struct {
	Secret             string
	AccessTokenExpiry  int // minutes
	RefreshTokenExpiry int // hours
}

type EmailConfig struct {
	SMTPHost     string
	SMTPPort     int
	SMTPUser     string
	SMTPPassword string
	From         string
	FrontendURL  string
}

// =====================================================
// VNPAY CONFIGURATION
// =====================================================

type VNPayConfig struct {
	TmnCode       string        // Merchant Code (e.g., "DEMOV01")
	HashSecret    string        // Secret key for HMAC-SHA512
	APIURL        string        // VNPay API base URL
	ReturnURL     string        // Frontend callback URL
	IPNURL        string        // Backend webhook URL
	PaymentExpiry time.Duration // vnp_ExpireDate = vnp_CreateDate + expiry
}

type MinIOConfig struct {
	Endpoint  string // localhost:9000
	AccessKey string // minioadmin
	SecretKey string // minioadmin
	Bucket    string // shop
	UseSSL    bool   // false for local
}

// MongoConfig cho chat (chatrooms + messages)
type MongoConfig struct {
	URI      string
	Database string
}

// KafkaConfig cho order event publisher.
// Brokers rỗng → publisher chạy ở chế độ no-op
type KafkaConfig struct {
	Brokers    string
	OrderTopic string
}

// FlashSaleConfig điều khiển timer của flash sale
type FlashSaleConfig struct {
	NotifyLead    time.Duration // gửi thông báo trước startAt
	RecoveryCron  string        // cron spec quét các timer bị lỡ
	EmailQueue    string
	TimerQueue    string
	NotifyQueue   string
	ImportQueue   string
	TimerMaxRetry int
}

// WorkerConfig cho asynq server (cmd/worker)
type WorkerConfig struct {
	Concurrency int
	HealthPort  string
}

// Load đọc config từ environment variables
func Load() (*Config, error) {
	cfg := &Config{
		App: AppConfig{
			Name:        getEnv("APP_NAME", "Shop API"),
			Environment: getEnv("APP_ENV", "development"),
			Port:        getEnv("APP_PORT", "8080"),
			Version:     getEnv("APP_VERSION", "1.0.0"),
		},
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnvInt("DB_PORT", 5432),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", ""),
			Database: getEnv("DB_NAME", "shop"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
			MaxConns: getEnvInt("DB_MAX_CONNS", 25),
			MinConns: getEnvInt("DB_MIN_CONNS", 5),
		},
		Redis: RedisConfig{
			Host:     getEnv("REDIS_HOST", "localhost:6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvInt("REDIS_DB", 0),
		},
		JWT: JWTConfig{
			Secret:             getEnv("JWT_SECRET", "your-secret-key-change-in-production"),
			AccessTokenExpiry:  getEnvInt("JWT_ACCESS_EXPIRY", 60*24), // 1 day
			RefreshTokenExpiry: getEnvInt("JWT_REFRESH_EXPIRY", 72),   // 3 days
		},
		Email: EmailConfig{
			SMTPHost:     getEnv("SMTP_HOST", "localhost"),
			SMTPPort:     getEnvInt("SMTP_PORT", 1025),
			SMTPUser:     getEnv("SMTP_USER", ""),
			SMTPPassword: getEnv("SMTP_PASSWORD", ""),
			From:         getEnv("EMAIL_FROM", "noreply@shop.local"),
			FrontendURL:  getEnv("FRONTEND_URL", "http://localhost:3000"),
		},
		VNPay: VNPayConfig{
			TmnCode:       getEnv("VNPAY_TMN_CODE", ""),
			HashSecret:    getEnv("VNPAY_HASH_SECRET", ""),
			APIURL:        getEnv("VNPAY_API_URL", "https://sandbox.vnpayment.vn"),
			ReturnURL:     getEnv("VNPAY_RETURN_URL", "http://localhost:3000/payment/vnpay-return"),
			IPNURL:        getEnv("VNPAY_IPN_URL", "http://localhost:8080/api/v1/orders/vnpay_ipn"),
			PaymentExpiry: getEnvDuration("VNPAY_PAYMENT_EXPIRY", 15*time.Minute),
		},
		MinIO: MinIOConfig{
			Endpoint:  getEnv("MINIO_ENDPOINT", "localhost:9000"),
			AccessKey: getEnv("MINIO_ACCESS_KEY", "minioadmin"),
			SecretKey: getEnv("MINIO_SECRET_KEY", "minioadmin"),
			Bucket:    getEnv("MINIO_BUCKET", "shop"),
			UseSSL:    getEnvBool("MINIO_USE_SSL", false),
		},
		Mongo: MongoConfig{
			URI:      getEnv("MONGO_URI", "mongodb://localhost:27017"),
			Database: getEnv("MONGO_DATABASE", "shop_chat"),
		},
		Kafka: KafkaConfig{
			Brokers:    getEnv("KAFKA_BROKERS", ""),
			OrderTopic: getEnv("KAFKA_ORDER_TOPIC", "order-events"),
		},
		FlashSale: FlashSaleConfig{
			NotifyLead:    getEnvDuration("FLASH_SALE_NOTIFY_LEAD", 15*time.Minute),
			RecoveryCron:  getEnv("FLASH_SALE_RECOVERY_CRON", "@every 1m"),
			EmailQueue:    getEnv("QUEUE_EMAIL", "default"),
			TimerQueue:    getEnv("QUEUE_FLASH_SALE_TIMER", "critical"),
			NotifyQueue:   getEnv("QUEUE_FLASH_SALE_NOTIFY", "high"),
			ImportQueue:   getEnv("QUEUE_IMPORT", "low"),
			TimerMaxRetry: getEnvInt("FLASH_SALE_TIMER_MAX_RETRY", 5),
		},
		Worker: WorkerConfig{
			Concurrency: getEnvInt("WORKER_CONCURRENCY", 20),
			HealthPort:  getEnv("WORKER_HEALTH_PORT", "9999"),
		},
	}

	// Validate critical config
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// Validate kiểm tra config có hợp lệ không
func (c *Config) Validate() error {
	if c.FlashSale.NotifyLead < 0 {
		return fmt.Errorf("FLASH_SALE_NOTIFY_LEAD must not be negative")
	}
	if c.Worker.Concurrency <= 0 {
		return fmt.Errorf("WORKER_CONCURRENCY must be positive")
	}
	if _, err := cron.ParseStandard(c.FlashSale.RecoveryCron); err != nil {
		return fmt.Errorf("invalid FLASH_SALE_RECOVERY_CRON %q: %w", c.FlashSale.RecoveryCron, err)
	}

	// Production environment phải có JWT secret
	if c.App.Environment == "production" {
		if c.JWT.Secret == "your-secret-key-change-in-production" {
			return fmt.Errorf("JWT_SECRET must be set in production")
		}
		if c.Database.Password == "" {
			return fmt.Errorf("DB_PASSWORD must be set in production")
		}
		if c.VNPay.TmnCode == "" || c.VNPay.HashSecret == "" {
			return fmt.Errorf("VNPAY_TMN_CODE and VNPAY_HASH_SECRET must be set in production")
		}
	}

	return nil
}

// Helper functions
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvBool(key string, defaultValue bool) bool {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.ParseBool(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := time.ParseDuration(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}
