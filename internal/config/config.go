package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

// Config holds application configuration values.
type Config struct {
	Secret         string
	DatabaseDSN    string
	HTTPPort       string
	LogLevel       logrus.Level
	AllowedOrigins []string
	CatalogCSV     string

	SyncEndpoint string
	SyncInterval time.Duration

	BackupInterval      time.Duration
	BackupCheckInterval time.Duration
	BackupKeep          int
}

// Load reads a .env file when present, then the environment, with reasonable defaults.
func Load() Config {
	_ = godotenv.Load()

	secret := os.Getenv("SECRET")
	if secret == "" {
		secret = "dev_secret"
	}

	port := os.Getenv("HTTP_PORT")
	if port == "" {
		port = "8080"
	}
	// Validate that port is numeric.
	if _, err := strconv.Atoi(port); err != nil {
		logrus.Warnf("invalid HTTP_PORT value %q, defaulting to 8080", port)
		port = "8080"
	}

	dsn := os.Getenv("DATABASE_DSN")
	if dsn == "" {
		dsn = "vetclinic.db"
		if host := os.Getenv("DB_HOST"); host != "" {
			user := os.Getenv("DB_USER")
			if user == "" {
				user = "postgres"
			}
			dbPort := os.Getenv("DB_PORT")
			if dbPort == "" {
				dbPort = "5432"
			}
			name := os.Getenv("DB_NAME")
			if name == "" {
				name = "vetclinic"
			}
			password := os.Getenv("DB_PASSWORD")
			dsn = fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable", user, password, host, dbPort, name)
		}
	}

	level, err := logrus.ParseLevel(getEnv("LOG_LEVEL", "info"))
	if err != nil {
		logrus.Warnf("invalid LOG_LEVEL, defaulting to info: %v", err)
		level = logrus.InfoLevel
	}

	var origins []string
	for _, o := range strings.Split(getEnv("ALLOWED_ORIGINS", "*"), ",") {
		if o = strings.TrimSpace(o); o != "" {
			origins = append(origins, o)
		}
	}

	return Config{
		Secret:              secret,
		DatabaseDSN:         dsn,
		HTTPPort:            port,
		LogLevel:            level,
		AllowedOrigins:      origins,
		CatalogCSV:          getEnv("CATALOG_CSV", "assets/products.csv"),
		SyncEndpoint:        os.Getenv("SYNC_ENDPOINT"),
		SyncInterval:        getDuration("SYNC_INTERVAL", 15*time.Second),
		BackupInterval:      getDuration("BACKUP_INTERVAL", 24*time.Hour),
		BackupCheckInterval: getDuration("BACKUP_CHECK_INTERVAL", time.Hour),
		BackupKeep:          getInt("BACKUP_KEEP", 7),
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getDuration(key string, fallback time.Duration) time.Duration {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback
	}
	d, err := time.ParseDuration(raw)
	if err != nil || d <= 0 {
		logrus.Warnf("invalid %s value %q, defaulting to %s", key, raw, fallback)
		return fallback
	}
	return d
}

func getInt(key string, fallback int) int {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 {
		logrus.Warnf("invalid %s value %q, defaulting to %d", key, raw, fallback)
		return fallback
	}
	return n
}
