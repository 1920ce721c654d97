package config

import (
	"errors"
	"strings"
	"time"

	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/Dee-Olulo/House-hunting-platform/internal/moderation"
	"github.com/Dee-Olulo/House-hunting-platform/internal/platform/logger"
)

const defaultJWTSecret = "change-me-property-service-secret"

// Config holds all configuration for the service.
type Config struct {
	ServiceName            string `mapstructure:"SERVICE_NAME"`
	HTTPPort               string `mapstructure:"HTTP_PORT"`
	GRPCPort               string `mapstructure:"GRPC_PORT"`
	MongoURI               string `mapstructure:"MONGO_URI"`
	MongoDatabase          string `mapstructure:"MONGO_DATABASE"`
	NATSURL                string `mapstructure:"NATS_URL"`
	JWTSecret              string `mapstructure:"JWT_SECRET"` // Tokens are issued by the user service
	PrometheusMetricsPort  string `mapstructure:"PROMETHEUS_METRICS_PORT"`
	LogLevel               string `mapstructure:"LOG_LEVEL"`
	LogFormat              string `mapstructure:"LOG_FORMAT"`
	OTExporterOTLPEndpoint string `mapstructure:"OTEL_EXPORTER_OTLP_ENDPOINT"`

	RedisAddress  string        `mapstructure:"REDIS_ADDRESS"`
	RedisPassword string        `mapstructure:"REDIS_PASSWORD"`
	RedisDB       int           `mapstructure:"REDIS_DB"`
	CacheTTL      time.Duration `mapstructure:"CACHE_TTL"`

	MinioEndpoint  string `mapstructure:"MINIO_ENDPOINT"`
	MinioAccessKey string `mapstructure:"MINIO_ACCESS_KEY"`
	MinioSecretKey string `mapstructure:"MINIO_SECRET_KEY"`
	MinioBucket    string `mapstructure:"MINIO_BUCKET"`
	MinioUseSSL    bool   `mapstructure:"MINIO_USE_SSL"`

	SMTP       SMTPConfig `mapstructure:",squash"`
	AdminEmail string     `mapstructure:"ADMIN_EMAIL"`

	AutoModerationEnabled       bool   `mapstructure:"AUTO_MODERATION_ENABLED"`
	ModerationApproveThreshold  int    `mapstructure:"MODERATION_APPROVE_THRESHOLD"`
	ModerationReviewThreshold   int    `mapstructure:"MODERATION_REVIEW_THRESHOLD"`
	ModerationExtraSpamKeywords string `mapstructure:"MODERATION_EXTRA_SPAM_KEYWORDS"` // comma separated
	NotifyLandlordOnApproval    bool   `mapstructure:"NOTIFY_LANDLORD_ON_APPROVAL"`
	NotifyLandlordOnRejection   bool   `mapstructure:"NOTIFY_LANDLORD_ON_REJECTION"`
	NotifyAdminOnFlagged        bool   `mapstructure:"NOTIFY_ADMIN_ON_FLAGGED"`
}

// SMTPConfig holds outgoing mail settings. An empty Host disables email.
type SMTPConfig struct {
	Host        string `mapstructure:"SMTP_HOST"`
	Port        int    `mapstructure:"SMTP_PORT"`
	Username    string `mapstructure:"SMTP_USERNAME"`
	Password    string `mapstructure:"SMTP_PASSWORD"`
	SenderEmail string `mapstructure:"SMTP_SENDER_EMAIL"`
	Encryption  string `mapstructure:"SMTP_ENCRYPTION"` // none | ssl | tls
}

// LoadConfig reads configuration from environment variables. A .env file, if
// any, is loaded into the environment by main before this is called.
func LoadConfig(appLogger *logger.Logger) (*Config, error) {
	v := viper.New()

	v.SetDefault("SERVICE_NAME", "property-service")
	v.SetDefault("HTTP_PORT", "8080")
	v.SetDefault("GRPC_PORT", "50051")
	v.SetDefault("MONGO_URI", "mongodb://localhost:27017")
	v.SetDefault("MONGO_DATABASE", "house_hunting")
	v.SetDefault("NATS_URL", "nats://localhost:4222")
	v.SetDefault("JWT_SECRET", defaultJWTSecret)
	v.SetDefault("PROMETHEUS_METRICS_PORT", "9090")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")
	v.SetDefault("OTEL_EXPORTER_OTLP_ENDPOINT", "")

	v.SetDefault("REDIS_ADDRESS", "localhost:6379")
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)
	v.SetDefault("CACHE_TTL", "10m")

	v.SetDefault("MINIO_ENDPOINT", "localhost:9000")
	v.SetDefault("MINIO_ACCESS_KEY", "minioadmin")
	v.SetDefault("MINIO_SECRET_KEY", "minioadmin")
	v.SetDefault("MINIO_BUCKET", "property-media")
	v.SetDefault("MINIO_USE_SSL", false)

	v.SetDefault("SMTP_HOST", "")
	v.SetDefault("SMTP_PORT", 587)
	v.SetDefault("SMTP_USERNAME", "")
	v.SetDefault("SMTP_PASSWORD", "")
	v.SetDefault("SMTP_SENDER_EMAIL", "noreply@house-hunting.local")
	v.SetDefault("SMTP_ENCRYPTION", "tls")
	v.SetDefault("ADMIN_EMAIL", "")

	defaults := moderation.DefaultConfig()
	v.SetDefault("AUTO_MODERATION_ENABLED", true)
	v.SetDefault("MODERATION_APPROVE_THRESHOLD", defaults.ApproveThreshold)
	v.SetDefault("MODERATION_REVIEW_THRESHOLD", defaults.ReviewThreshold)
	v.SetDefault("MODERATION_EXTRA_SPAM_KEYWORDS", "")
	v.SetDefault("NOTIFY_LANDLORD_ON_APPROVAL", true)
	v.SetDefault("NOTIFY_LANDLORD_ON_REJECTION", true)
	v.SetDefault("NOTIFY_ADMIN_ON_FLAGGED", true)

	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		appLogger.Error("Failed to unmarshal configuration", zap.Error(err))
		return nil, err
	}

	if cfg.JWTSecret == defaultJWTSecret || cfg.JWTSecret == "" {
		appLogger.Warn("JWT_SECRET is set to its default insecure value or is empty. Please set a strong secret in your environment.")
	}
	if cfg.MongoURI == "" {
		return nil, errors.New("MONGO_URI is not set")
	}
	if cfg.MongoDatabase == "" {
		return nil, errors.New("MONGO_DATABASE is not set")
	}
	if cfg.ModerationReviewThreshold > cfg.ModerationApproveThreshold {
		return nil, errors.New("MODERATION_REVIEW_THRESHOLD must not exceed MODERATION_APPROVE_THRESHOLD")
	}

	appLogger.Debug("Configuration loaded",
		zap.String("service_name", cfg.ServiceName),
		zap.String("http_port", cfg.HTTPPort),
		zap.String("grpc_port", cfg.GRPCPort),
		zap.Bool("mongo_uri_present", cfg.MongoURI != ""),
		zap.String("mongo_database", cfg.MongoDatabase),
		zap.String("nats_url", cfg.NATSURL),
		zap.String("redis_address", cfg.RedisAddress),
		zap.Duration("cache_ttl", cfg.CacheTTL),
		zap.String("minio_endpoint", cfg.MinioEndpoint),
		zap.Bool("smtp_enabled", cfg.SMTP.Host != ""),
		zap.Bool("jwt_secret_present", cfg.JWTSecret != ""),
		zap.String("prometheus_port", cfg.PrometheusMetricsPort),
		zap.String("log_level", cfg.LogLevel),
		zap.String("otel_endpoint", cfg.OTExporterOTLPEndpoint),
		zap.Bool("auto_moderation", cfg.AutoModerationEnabled),
	)

	return &cfg, nil
}

// ModerationConfig builds the moderator configuration: production defaults
// with the thresholds and extra spam keywords taken from the environment.
func (c *Config) ModerationConfig() moderation.Config {
	mc := moderation.DefaultConfig()
	mc.ApproveThreshold = c.ModerationApproveThreshold
	mc.ReviewThreshold = c.ModerationReviewThreshold
	for _, kw := range strings.Split(c.ModerationExtraSpamKeywords, ",") {
		if kw = strings.TrimSpace(kw); kw != "" {
			mc.SpamKeywords = append(mc.SpamKeywords, kw)
		}
	}
	return mc
}
