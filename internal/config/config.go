package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds runtime configuration values for the API service.
type Config struct {
	AppName           string
	AppEnv            string
	AppPort           string
	DatabaseURL       string
	DatabaseMaxConns  int
	DatabaseMaxIdle   int
	RedisURL          string
	JWTSecret         string
	TokenTTL          time.Duration
	OTPTTL            time.Duration
	LockoutThreshold  int
	LockoutWindow     time.Duration
	UploadDir         string
	UploadMaxMB       int
	StorageProvider   string
	CloudinaryCloud   string
	CloudinaryKey     string
	CloudinarySecret  string
	CloudinaryFolder  string
	MailProvider      string
	SendGridAPIKey    string
	MailFromName      string
	MailFromAddress   string
	DashboardCacheTTL time.Duration
}

// HTTPAddress returns the address the HTTP server should listen on.
func (c Config) HTTPAddress() string {
	if strings.HasPrefix(c.AppPort, ":") {
		return c.AppPort
	}

	return fmt.Sprintf(":%s", c.AppPort)
}

// Load reads configuration values from environment variables and optional .env file.
func Load() (Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetEnvPrefix("SIMPLYLEARN")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	v.SetDefault("app.name", "SimplyLearn API")
	v.SetDefault("app.env", "development")
	v.SetDefault("app.port", "8080")
	v.SetDefault("database.max_conns", 25)
	v.SetDefault("database.max_idle", 5)
	v.SetDefault("token.ttl", "720h")
	v.SetDefault("otp.ttl", "10m")
	v.SetDefault("lockout.threshold", 3)
	v.SetDefault("lockout.window", "5m")
	v.SetDefault("upload.dir", "uploads")
	v.SetDefault("upload.max_mb", 10)
	v.SetDefault("storage.provider", "local")
	v.SetDefault("cloudinary.folder", "simplylearn/submissions")
	v.SetDefault("mail.provider", "log")
	v.SetDefault("mail.from_name", "SimplyLearn")
	v.SetDefault("mail.from_address", "no-reply@simplylearn.dev")
	v.SetDefault("dashboard.cache_ttl", "5m")

	tokenTTL, err := time.ParseDuration(v.GetString("token.ttl"))
	if err != nil {
		return Config{}, fmt.Errorf("invalid token ttl: %w", err)
	}

	otpTTL, err := time.ParseDuration(v.GetString("otp.ttl"))
	if err != nil {
		return Config{}, fmt.Errorf("invalid otp ttl: %w", err)
	}

	lockoutWindow, err := time.ParseDuration(v.GetString("lockout.window"))
	if err != nil {
		return Config{}, fmt.Errorf("invalid lockout window: %w", err)
	}

	cacheTTL, err := time.ParseDuration(v.GetString("dashboard.cache_ttl"))
	if err != nil {
		return Config{}, fmt.Errorf("invalid dashboard cache ttl: %w", err)
	}

	cfg := Config{
		AppName:           v.GetString("app.name"),
		AppEnv:            v.GetString("app.env"),
		AppPort:           v.GetString("app.port"),
		DatabaseURL:       v.GetString("database.url"),
		DatabaseMaxConns:  v.GetInt("database.max_conns"),
		DatabaseMaxIdle:   v.GetInt("database.max_idle"),
		RedisURL:          v.GetString("redis.url"),
		JWTSecret:         v.GetString("jwt.secret"),
		TokenTTL:          tokenTTL,
		OTPTTL:            otpTTL,
		LockoutThreshold:  v.GetInt("lockout.threshold"),
		LockoutWindow:     lockoutWindow,
		UploadDir:         v.GetString("upload.dir"),
		UploadMaxMB:       v.GetInt("upload.max_mb"),
		StorageProvider:   strings.ToLower(v.GetString("storage.provider")),
		CloudinaryCloud:   v.GetString("cloudinary.cloud_name"),
		CloudinaryKey:     v.GetString("cloudinary.api_key"),
		CloudinarySecret:  v.GetString("cloudinary.api_secret"),
		CloudinaryFolder:  v.GetString("cloudinary.folder"),
		MailProvider:      strings.ToLower(v.GetString("mail.provider")),
		SendGridAPIKey:    v.GetString("sendgrid_api_key"),
		MailFromName:      v.GetString("mail.from_name"),
		MailFromAddress:   v.GetString("mail.from_address"),
		DashboardCacheTTL: cacheTTL,
	}

	if cfg.JWTSecret == "" {
		return Config{}, fmt.Errorf("jwt secret must be provided")
	}

	if cfg.LockoutThreshold <= 0 {
		cfg.LockoutThreshold = 3
	}

	if cfg.UploadMaxMB <= 0 {
		cfg.UploadMaxMB = 10
	}

	return cfg, nil
}
