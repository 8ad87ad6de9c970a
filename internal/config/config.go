package config

import (
	"errors"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port    string
	DB      DBConfig
	Auth    AuthConfig
	HTTP    HTTPConfig
	Storage StorageConfig
	Log     LogConfig
}

type DBConfig struct {
	Host       string
	Port       uint
	Name       string
	Username   string
	Password   string
	SecretID   string
	SSLDisable bool
}

type AuthConfig struct {
	JWTSecret    string
	AccessTTL    time.Duration
	CookieSecure bool
	LoginRate    string

	// First admin account, created only while the users table is empty.
	AdminEmail    string
	AdminPassword string
}

type HTTPConfig struct {
	CORSOrigins   []string
	MaxImageBytes int64
	MaxSheetBytes int64
}

type StorageConfig struct {
	Region        string
	Bucket        string
	PublicBaseURL string
}

type LogConfig struct {
	Level  string
	Format string
}

// LoadConfig reads .env (when present) and the process environment.
func LoadConfig() (Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	port, err := strconv.ParseUint(getEnv("DB_PORT", "5432"), 10, 32)
	if err != nil {
		port = 5432
	}

	cfg := Config{
		Port: getEnv("APP_PORT", "8080"),
		DB: DBConfig{
			Host:       getEnv("DB_HOST", "localhost"),
			Port:       uint(port),
			Name:       getEnv("DB_NAME", "vanzari"),
			Username:   os.Getenv("DB_USERNAME"),
			Password:   os.Getenv("DB_PASSWORD"),
			SecretID:   os.Getenv("DB_SECRET_ID"),
			SSLDisable: os.Getenv("DB_SSL_MODE_DISABLE") == "true",
		},
		Auth: AuthConfig{
			JWTSecret:    os.Getenv("JWT_SECRET"),
			AccessTTL:    getDuration("ACCESS_TTL", 15*time.Minute),
			CookieSecure: os.Getenv("COOKIE_SECURE") == "true",
			LoginRate:    getEnv("LOGIN_RATE", "10-M"),

			AdminEmail:    os.Getenv("ADMIN_EMAIL"),
			AdminPassword: os.Getenv("ADMIN_PASSWORD"),
		},
		HTTP: HTTPConfig{
			CORSOrigins:   splitList(getEnv("CORS_ORIGINS", "http://localhost:3000")),
			MaxImageBytes: getInt64("MAX_IMAGE_BYTES", 5<<20),
			MaxSheetBytes: getInt64("MAX_SHEET_BYTES", 20<<20),
		},
		Storage: StorageConfig{
			Region:        getEnv("AWS_REGION", "eu-central-1"),
			Bucket:        os.Getenv("S3_BUCKET"),
			PublicBaseURL: os.Getenv("S3_PUBLIC_BASE_URL"),
		},
		Log: LogConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: getEnv("LOG_FORMAT", "text"),
		},
	}

	if cfg.Auth.JWTSecret == "" {
		return cfg, errors.New("JWT_SECRET environment variable is required")
	}
	if cfg.DB.SecretID == "" && (cfg.DB.Username == "" || cfg.DB.Password == "") {
		return cfg, errors.New("either DB_USERNAME/DB_PASSWORD or DB_SECRET_ID must be set")
	}
	return cfg, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getInt64(key string, defaultValue int64) int64 {
	v, err := strconv.ParseInt(os.Getenv(key), 10, 64)
	if err != nil || v <= 0 {
		return defaultValue
	}
	return v
}

func getDuration(key string, defaultValue time.Duration) time.Duration {
	d, err := time.ParseDuration(os.Getenv(key))
	if err != nil || d <= 0 {
		return defaultValue
	}
	return d
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
