package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	BackendMemory = "memory"
	BackendMongo  = "mongo"
)

var AppEnv Config

type Config struct {
	Port                 string
	StoreBackend         string
	MongoURI             string
	DBName               string
	JWTSecret            string
	AccessTokenTTL       time.Duration
	RedisAddr            string
	RedisPassword        string
	CartTTL              time.Duration
	DeliveryFee          float64
	UploadDir            string
	PublicBaseURL        string
	AdminDefaultUsername string
	AdminDefaultPassword string
}

func Load() {
	if err := godotenv.Load(); err != nil {
		log.Println(".env not loaded:", err)
	}
	AppEnv = FromEnv()
}

// FromEnv reads the configuration from the process environment.
func FromEnv() Config {
	cfg := Config{
		Port:                 getEnvOrDefault("PORT", "8080"),
		StoreBackend:         strings.ToLower(getEnvOrDefault("STORE_BACKEND", "")),
		MongoURI:             getEnvOrDefault("MONGO_URI", ""),
		DBName:               getEnvOrDefault("DB_NAME", "minimart"),
		JWTSecret:            getEnvOrDefault("JWT_SECRET", ""),
		AccessTokenTTL:       getDurationEnv("ACCESS_TOKEN_TTL", 120, time.Minute),
		RedisAddr:            getEnvOrDefault("REDIS_ADDR", ""),
		RedisPassword:        getEnvOrDefault("REDIS_PASSWORD", ""),
		CartTTL:              getDurationEnv("CART_TTL", 24, time.Hour),
		DeliveryFee:          getFloatEnv("DELIVERY_FEE", 100),
		UploadDir:            getEnvOrDefault("UPLOAD_DIR", "./public/uploads"),
		PublicBaseURL:        getEnvOrDefault("PUBLIC_BASE_URL", ""),
		AdminDefaultUsername: getEnvOrDefault("ADMIN_DEFAULT_USERNAME", "admin"),
		AdminDefaultPassword: getEnvOrDefault("ADMIN_DEFAULT_PASSWORD", "admin123"),
	}

	if cfg.StoreBackend == "" {
		cfg.StoreBackend = BackendMemory
		if cfg.MongoURI != "" {
			cfg.StoreBackend = BackendMongo
		}
	}
	if cfg.JWTSecret == "" {
		log.Println("[CONFIG] [WARN] JWT_SECRET is empty, admin tokens are signed with an empty key")
	}
	return cfg
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return defaultValue
}

func getDurationEnv(key string, defaultValue int, unit time.Duration) time.Duration {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil && parsed > 0 {
			return time.Duration(parsed) * unit
		}
	}
	return time.Duration(defaultValue) * unit
}

func getFloatEnv(key string, defaultValue float64) float64 {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		if parsed, err := strconv.ParseFloat(value, 64); err == nil && parsed >= 0 {
			return parsed
		}
	}
	return defaultValue
}
