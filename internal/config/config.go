package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	Server  ServerConfig
	DB      DBConfig
	JWT     JWTConfig
	S3      S3Config
	Storage StorageConfig
	Email   EmailConfig
	CORS    CORSConfig
	Upload  UploadConfig
	Pricing PricingConfig
	Dedupe  DedupeConfig
	Session SessionConfig
}

// EmailConfig holds email delivery settings.
type EmailConfig struct {
	Provider    string `mapstructure:"provider"`
	Region      string `mapstructure:"region"`
	FromAddress string `mapstructure:"from_address"`
	FromName    string `mapstructure:"from_name"`
	FrontendURL string `mapstructure:"frontend_url"`
}

// CORSConfig holds CORS settings.
type CORSConfig struct {
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port         string        `mapstructure:"port"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	Environment  string        `mapstructure:"environment"`
}

// DBConfig holds PostgreSQL connection settings.
type DBConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	Name     string `mapstructure:"name"`
	SSLMode  string `mapstructure:"sslmode"`
	MaxOpen  int    `mapstructure:"max_open"`
	MaxIdle  int    `mapstructure:"max_idle"`
}

// DSN returns the PostgreSQL connection string.
func (d *DBConfig) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.Name, d.SSLMode,
	)
}

// JWTConfig holds settings for validating owner bearer tokens issued by the
// identity provider.
type JWTConfig struct {
	Secret string `mapstructure:"secret"`
	Issuer string `mapstructure:"issuer"`
}

// S3Config holds AWS S3 settings.
type S3Config struct {
	Region        string `mapstructure:"region"`
	Bucket        string `mapstructure:"bucket"`
	Endpoint      string `mapstructure:"endpoint"`
	AccessKey     string `mapstructure:"access_key"`
	SecretKey     string `mapstructure:"secret_key"`
	PresignExpiry int64  `mapstructure:"presign_expiry"`
}

// StorageConfig selects where failure reports are published: "s3" or "noop".
type StorageConfig struct {
	Provider string `mapstructure:"provider"`
}

// UploadConfig holds ingestion settings.
type UploadConfig struct {
	MaxFileSizeMB    int64    `mapstructure:"max_file_size_mb"`
	PreviewSize      int      `mapstructure:"preview_size"`
	DefaultEncodings []string `mapstructure:"default_encodings"`
	GroupingField    string   `mapstructure:"grouping_field"`
}

// MaxFileSize returns the upload limit in bytes.
func (u *UploadConfig) MaxFileSize() int64 {
	return u.MaxFileSizeMB * 1024 * 1024
}

// PricingConfig holds price derivation settings.
type PricingConfig struct {
	SlotsPerDay int `mapstructure:"slots_per_day"`
}

// DedupeConfig selects duplicate matching: "contains" or "exact".
type DedupeConfig struct {
	MatchMode string `mapstructure:"match_mode"`
}

// SessionConfig holds upload session lifetime settings.
type SessionConfig struct {
	TTL             time.Duration `mapstructure:"ttl"`
	JanitorSchedule string        `mapstructure:"janitor_schedule"`
}

// Load reads configuration from environment variables with the ADFRAMES_ prefix.
func Load() (*Config, error) {
	v := viper.New()
	v.SetEnvPrefix("ADFRAMES")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Server defaults
	v.SetDefault("server.port", ":8080")
	v.SetDefault("server.read_timeout", "30s")
	v.SetDefault("server.write_timeout", "120s")
	v.SetDefault("server.environment", "development")

	// DB defaults
	v.SetDefault("db.host", "localhost")
	v.SetDefault("db.port", 5432)
	v.SetDefault("db.user", "adframes")
	v.SetDefault("db.password", "adframes_secret")
	v.SetDefault("db.name", "adframes_db")
	v.SetDefault("db.sslmode", "disable")
	v.SetDefault("db.max_open", 25)
	v.SetDefault("db.max_idle", 10)

	// JWT defaults
	v.SetDefault("jwt.secret", "change-me-in-production")
	v.SetDefault("jwt.issuer", "adframes")

	// S3 defaults
	v.SetDefault("s3.region", "us-east-1")
	v.SetDefault("s3.bucket", "adframes-reports")
	v.SetDefault("s3.endpoint", "")
	v.SetDefault("s3.presign_expiry", 86400)
	v.SetDefault("storage.provider", "noop")

	// Email defaults
	v.SetDefault("email.provider", "noop")
	v.SetDefault("email.region", "us-east-1")
	v.SetDefault("email.from_address", "noreply@adframes.io")
	v.SetDefault("email.from_name", "AdFrames")
	v.SetDefault("email.frontend_url", "http://localhost:3000")

	v.SetDefault("cors.allowed_origins", "http://localhost:3000,http://127.0.0.1:3000")

	// Ingestion defaults
	v.SetDefault("upload.max_file_size_mb", 20)
	v.SetDefault("upload.preview_size", 10)
	v.SetDefault("upload.default_encodings", "utf-8,utf-16,windows-1252,iso-8859-1")
	v.SetDefault("upload.grouping_field", "frame_id")
	v.SetDefault("pricing.slots_per_day", 144)
	v.SetDefault("dedupe.match_mode", "contains")
	v.SetDefault("session.ttl", "30m")
	v.SetDefault("session.janitor_schedule", "@every 5m")

	// Bind environment variables explicitly for nested keys
	envBindings := map[string]string{
		"server.port":              "ADFRAMES_SERVER_PORT",
		"server.read_timeout":      "ADFRAMES_SERVER_READ_TIMEOUT",
		"server.write_timeout":     "ADFRAMES_SERVER_WRITE_TIMEOUT",
		"server.environment":       "ADFRAMES_SERVER_ENVIRONMENT",
		"db.host":                  "ADFRAMES_DB_HOST",
		"db.port":                  "ADFRAMES_DB_PORT",
		"db.user":                  "ADFRAMES_DB_USER",
		"db.password":              "ADFRAMES_DB_PASSWORD",
		"db.name":                  "ADFRAMES_DB_NAME",
		"db.sslmode":               "ADFRAMES_DB_SSLMODE",
		"db.max_open":              "ADFRAMES_DB_MAX_OPEN",
		"db.max_idle":              "ADFRAMES_DB_MAX_IDLE",
		"jwt.secret":               "ADFRAMES_JWT_SECRET",
		"jwt.issuer":               "ADFRAMES_JWT_ISSUER",
		"s3.region":                "ADFRAMES_S3_REGION",
		"s3.bucket":                "ADFRAMES_S3_BUCKET",
		"s3.endpoint":              "ADFRAMES_S3_ENDPOINT",
		"s3.access_key":            "ADFRAMES_S3_ACCESS_KEY",
		"s3.secret_key":            "ADFRAMES_S3_SECRET_KEY",
		"s3.presign_expiry":        "ADFRAMES_S3_PRESIGN_EXPIRY",
		"storage.provider":         "ADFRAMES_STORAGE_PROVIDER",
		"email.provider":           "ADFRAMES_EMAIL_PROVIDER",
		"email.region":             "ADFRAMES_EMAIL_REGION",
		"email.from_address":       "ADFRAMES_EMAIL_FROM_ADDRESS",
		"email.from_name":          "ADFRAMES_EMAIL_FROM_NAME",
		"email.frontend_url":       "ADFRAMES_EMAIL_FRONTEND_URL",
		"cors.allowed_origins":     "ADFRAMES_CORS_ALLOWED_ORIGINS",
		"upload.max_file_size_mb":  "ADFRAMES_UPLOAD_MAX_FILE_SIZE_MB",
		"upload.preview_size":      "ADFRAMES_UPLOAD_PREVIEW_SIZE",
		"upload.default_encodings": "ADFRAMES_UPLOAD_DEFAULT_ENCODINGS",
		"upload.grouping_field":    "ADFRAMES_UPLOAD_GROUPING_FIELD",
		"pricing.slots_per_day":    "ADFRAMES_PRICING_SLOTS_PER_DAY",
		"dedupe.match_mode":        "ADFRAMES_DEDUPE_MATCH_MODE",
		"session.ttl":              "ADFRAMES_SESSION_TTL",
		"session.janitor_schedule": "ADFRAMES_SESSION_JANITOR_SCHEDULE",
	}
	for key, env := range envBindings {
		_ = v.BindEnv(key, env)
	}

	cfg := &Config{}

	// Railway/Heroku/Render set a PORT env var. Use it if ADFRAMES_SERVER_PORT is not explicitly set.
	serverPort := v.GetString("server.port")
	if port := os.Getenv("PORT"); port != "" && os.Getenv("ADFRAMES_SERVER_PORT") == "" {
		serverPort = ":" + port
	}

	cfg.Server = ServerConfig{
		Port:         serverPort,
		ReadTimeout:  v.GetDuration("server.read_timeout"),
		WriteTimeout: v.GetDuration("server.write_timeout"),
		Environment:  v.GetString("server.environment"),
	}
	cfg.DB = DBConfig{
		Host:     v.GetString("db.host"),
		Port:     v.GetInt("db.port"),
		User:     v.GetString("db.user"),
		Password: v.GetString("db.password"),
		Name:     v.GetString("db.name"),
		SSLMode:  v.GetString("db.sslmode"),
		MaxOpen:  v.GetInt("db.max_open"),
		MaxIdle:  v.GetInt("db.max_idle"),
	}
	cfg.JWT = JWTConfig{
		Secret: v.GetString("jwt.secret"),
		Issuer: v.GetString("jwt.issuer"),
	}
	cfg.S3 = S3Config{
		Region:        v.GetString("s3.region"),
		Bucket:        v.GetString("s3.bucket"),
		Endpoint:      v.GetString("s3.endpoint"),
		AccessKey:     v.GetString("s3.access_key"),
		SecretKey:     v.GetString("s3.secret_key"),
		PresignExpiry: v.GetInt64("s3.presign_expiry"),
	}
	cfg.Storage = StorageConfig{Provider: strings.ToLower(v.GetString("storage.provider"))}
	cfg.Email = EmailConfig{
		Provider:    strings.ToLower(v.GetString("email.provider")),
		Region:      v.GetString("email.region"),
		FromAddress: v.GetString("email.from_address"),
		FromName:    v.GetString("email.from_name"),
		FrontendURL: v.GetString("email.frontend_url"),
	}
	cfg.CORS = CORSConfig{AllowedOrigins: splitList(v.GetString("cors.allowed_origins"))}

	cfg.Upload = UploadConfig{
		MaxFileSizeMB:    v.GetInt64("upload.max_file_size_mb"),
		PreviewSize:      v.GetInt("upload.preview_size"),
		DefaultEncodings: splitList(v.GetString("upload.default_encodings")),
		GroupingField:    strings.TrimSpace(v.GetString("upload.grouping_field")),
	}
	cfg.Pricing = PricingConfig{SlotsPerDay: v.GetInt("pricing.slots_per_day")}
	cfg.Dedupe = DedupeConfig{MatchMode: strings.ToLower(v.GetString("dedupe.match_mode"))}
	cfg.Session = SessionConfig{
		TTL:             v.GetDuration("session.ttl"),
		JanitorSchedule: v.GetString("session.janitor_schedule"),
	}

	if cfg.Upload.MaxFileSizeMB <= 0 {
		return nil, fmt.Errorf("upload.max_file_size_mb must be positive, got %d", cfg.Upload.MaxFileSizeMB)
	}
	if cfg.Pricing.SlotsPerDay <= 0 {
		return nil, fmt.Errorf("pricing.slots_per_day must be positive, got %d", cfg.Pricing.SlotsPerDay)
	}
	switch cfg.Dedupe.MatchMode {
	case "contains", "exact":
	default:
		return nil, fmt.Errorf("dedupe.match_mode must be contains or exact, got %q", cfg.Dedupe.MatchMode)
	}

	return cfg, nil
}

// splitList parses a comma-separated value, dropping empty entries.
func splitList(s string) []string {
	var out []string
	for _, item := range strings.Split(s, ",") {
		item = strings.TrimSpace(item)
		if item != "" {
			out = append(out, item)
		}
	}
	return out
}
