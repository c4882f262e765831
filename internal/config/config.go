package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"
)

type Config struct {
	Port     string
	LogLevel string

	// Storage ceiling in GB applied at boot unless a snapshot overrides it
	StorageTotalGB float64
	SeedDemo       bool

	ShareBaseURL string
	QRBaseURL    string

	ActivityDBPath string

	// Snapshot persistence: "" (memory only), "sqlite" or "postgres"
	SnapshotDriver string
	SnapshotPath   string
	DBHost         string
	DBUser         string
	DBPassword     string
	DBName         string
	DBPort         string
	DBSSLMode      string

	LoginDelay          time.Duration
	GalleryPaymentDelay time.Duration
	ItemPaymentDelay    time.Duration
	PayoutDelay         time.Duration
	StorageUpgradeDelay time.Duration

	LoginRatePerSec float64
	LoginBurst      int
}

func LoadConfig() *Config {
	err := godotenv.Load()
	if err != nil {
		log.Println("Warning: Error loading .env file")
	}

	return &Config{
		Port:     getEnv("PORT", "8080"),
		LogLevel: getEnv("LOG_LEVEL", "info"),

		StorageTotalGB: getEnvFloat("STORAGE_TOTAL_GB", 25),
		SeedDemo:       getEnvBool("SEED_DEMO", true),

		ShareBaseURL: getEnv("SHARE_BASE_URL", "https://cloud.photo/gallery/"),
		QRBaseURL:    getEnv("QR_BASE_URL", "https://api.qrserver.com/v1/create-qr-code/?size=200x200&data="),

		ActivityDBPath: getEnv("ACTIVITY_DB_PATH", ":memory:"),

		SnapshotDriver: getEnv("SNAPSHOT_DRIVER", ""),
		SnapshotPath:   getEnv("SNAPSHOT_PATH", "./gallery.db"),
		DBHost:         getEnv("DB_HOST", "localhost"),
		DBUser:         getEnv("DB_USER", "postgres"),
		DBPassword:     getEnv("DB_PASSWORD", ""),
		DBName:         getEnv("DB_NAME", "gallery"),
		DBPort:         getEnv("DB_PORT", "5432"),
		DBSSLMode:      getEnv("DB_SSLMODE", "disable"),

		LoginDelay:          getEnvDuration("LOGIN_DELAY", time.Second),
		GalleryPaymentDelay: getEnvDuration("GALLERY_PAYMENT_DELAY", 2*time.Second),
		ItemPaymentDelay:    getEnvDuration("ITEM_PAYMENT_DELAY", 1500*time.Millisecond),
		PayoutDelay:         getEnvDuration("PAYOUT_DELAY", 2*time.Second),
		StorageUpgradeDelay: getEnvDuration("STORAGE_UPGRADE_DELAY", 1500*time.Millisecond),

		LoginRatePerSec: getEnvFloat("LOGIN_RATE_PER_SEC", 1),
		LoginBurst:      getEnvInt("LOGIN_BURST", 5),
	}
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvFloat(key string, fallback float64) float64 {
	value, exists := os.LookupEnv(key)
	if !exists {
		return fallback
	}
	f, err := strconv.ParseFloat(value, 64)
	if err != nil {
		log.Printf("Warning: invalid %s=%q, using %v", key, value, fallback)
		return fallback
	}
	return f
}

func getEnvInt(key string, fallback int) int {
	value, exists := os.LookupEnv(key)
	if !exists {
		return fallback
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		log.Printf("Warning: invalid %s=%q, using %d", key, value, fallback)
		return fallback
	}
	return n
}

func getEnvBool(key string, fallback bool) bool {
	value, exists := os.LookupEnv(key)
	if !exists {
		return fallback
	}
	b, err := strconv.ParseBool(value)
	if err != nil {
		log.Printf("Warning: invalid %s=%q, using %t", key, value, fallback)
		return fallback
	}
	return b
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	value, exists := os.LookupEnv(key)
	if !exists {
		return fallback
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		log.Printf("Warning: invalid %s=%q, using %s", key, value, fallback)
		return fallback
	}
	return d
}
