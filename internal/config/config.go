package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	Port                   string
	Environment            string
	LogLevel               string
	SupabaseURL            string
	SupabaseAnonKey        string
	SupabaseServiceRoleKey string
	SupabaseJWTSecret      string
	MongoDBURI             string
	MongoDBPassword        string
	MongoDBDatabase        string
	RedisURL               string
	CloudinaryCloudName    string
	CloudinaryAPIKey       string
	CloudinaryAPISecret    string
	AllowedOrigins         []string
	NotificationQueueSize  int
	BookingIdempotencyTTL  time.Duration
}

func LoadConfig() (*Config, error) {
	cfg := &Config{
		Port:                   getEnvWithDefault("PORT", "8080"),
		Environment:            getEnvWithDefault("ENVIRONMENT", "development"),
		LogLevel:               getEnvWithDefault("LOG_LEVEL", "info"),
		SupabaseURL:            os.Getenv("SUPABASE_URL"),
		SupabaseAnonKey:        os.Getenv("SUPABASE_URL_ANON_KEY"),
		SupabaseServiceRoleKey: os.Getenv("SUPABASE_SERVICE_ROLE_KEY"),
		SupabaseJWTSecret:      os.Getenv("SUPABASE_JWT_SECRET"),
		MongoDBURI:             os.Getenv("MONGODB_URI"),
		MongoDBPassword:        os.Getenv("MONGODB_PASSWORD"),
		MongoDBDatabase:        getEnvWithDefault("MONGODB_DATABASE", "vena"),
		RedisURL:               os.Getenv("REDIS_URL"),
		CloudinaryCloudName:    os.Getenv("CLOUDINARY_CLOUD_NAME"),
		CloudinaryAPIKey:       os.Getenv("CLOUDINARY_API_KEY"),
		CloudinaryAPISecret:    os.Getenv("CLOUDINARY_API_SECRET"),
		AllowedOrigins:         splitList(getEnvWithDefault("ALLOWED_ORIGINS", "http://localhost:3000")),
	}

	queueSize, err := strconv.Atoi(getEnvWithDefault("NOTIFICATION_QUEUE_SIZE", "64"))
	if err != nil || queueSize <= 0 {
		return nil, fmt.Errorf("NOTIFICATION_QUEUE_SIZE must be a positive integer")
	}
	cfg.NotificationQueueSize = queueSize

	ttl, err := time.ParseDuration(getEnvWithDefault("BOOKING_IDEMPOTENCY_TTL", "24h"))
	if err != nil || ttl <= 0 {
		return nil, fmt.Errorf("BOOKING_IDEMPOTENCY_TTL must be a positive duration")
	}
	cfg.BookingIdempotencyTTL = ttl

	// Validate required fields
	if cfg.SupabaseURL == "" {
		return nil, fmt.Errorf("SUPABASE_URL is required")
	}
	if cfg.SupabaseAnonKey == "" {
		return nil, fmt.Errorf("SUPABASE_URL_ANON_KEY is required")
	}
	if cfg.MongoDBURI == "" {
		return nil, fmt.Errorf("MONGODB_URI is required")
	}
	if cfg.MongoDBPassword == "" && strings.Contains(cfg.MongoDBURI, "<password>") {
		return nil, fmt.Errorf("MONGODB_PASSWORD is required")
	}

	return cfg, nil
}

func getEnvWithDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

// HasCloudinary reports whether package cover uploads can be hosted.
func (c *Config) HasCloudinary() bool {
	return c.CloudinaryCloudName != "" && c.CloudinaryAPIKey != "" && c.CloudinaryAPISecret != ""
}
