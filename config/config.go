package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds all application configuration loaded from environment variables.
type Config struct {
	CatalogPath string
	DataDir     string
	LedgerPath  string
	SnapshotDir string
	SummaryRows int

	// Alerting. An empty WebhookURL disables notifications entirely.
	WebhookURL       string
	WebhookTimeoutMs int

	// Browser session. BrowserWSURL wins if set; otherwise ProvisionerURL is
	// asked for a fresh instance; otherwise a local Chrome is launched.
	BrowserWSURL   string
	ProvisionerURL string
	ChromeBin      string

	NavTimeoutMs  int
	SettleMs      int
	DOMTimeoutMs  int
	RetryAttempts int
	RetryDelayMs  int

	// Optional PostgreSQL mirror of the ledger.
	PostgresEnabled  bool
	PostgresHost     string
	PostgresPort     string
	PostgresUser     string
	PostgresPassword string
	PostgresDB       string
	PostgresSSLMode  string
}

// Load reads the .env file and returns a populated Config struct.
func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("[config] No .env file found, falling back to system env vars")
	}

	return &Config{
		CatalogPath: getEnv("PRODUCTS_PATH", "products.json"),
		DataDir:     getEnv("DATA_DIR", "data"),
		LedgerPath:  getEnv("LEDGER_PATH", "data/prices.csv"),
		SnapshotDir: getEnv("SNAPSHOT_DIR", "data/snapshots"),
		SummaryRows: getEnvInt("SUMMARY_ROWS", 10),

		WebhookURL:       getEnv("SLACK_WEBHOOK", ""),
		WebhookTimeoutMs: getEnvInt("WEBHOOK_TIMEOUT_MS", 10000),

		BrowserWSURL:   getEnv("BROWSER_WS_URL", ""),
		ProvisionerURL: getEnv("BROWSER_PROVISIONER_URL", ""),
		ChromeBin:      getEnv("CHROME_BIN", ""),

		NavTimeoutMs:  getEnvInt("NAV_TIMEOUT_MS", 30000),
		SettleMs:      getEnvInt("SETTLE_MS", 2000),
		DOMTimeoutMs:  getEnvInt("DOM_TIMEOUT_MS", 15000),
		RetryAttempts: getEnvInt("RETRY_ATTEMPTS", 2),
		RetryDelayMs:  getEnvInt("RETRY_DELAY_MS", 1000),

		PostgresEnabled:  getEnvBool("POSTGRES_ENABLED", false),
		PostgresHost:     getEnv("POSTGRES_HOST", "localhost"),
		PostgresPort:     getEnv("POSTGRES_PORT", "5432"),
		PostgresUser:     getEnv("POSTGRES_USER", "pricewatch"),
		PostgresPassword: getEnv("POSTGRES_PASSWORD", "pricewatch123"),
		PostgresDB:       getEnv("POSTGRES_DB", "pricewatch_db"),
		PostgresSSLMode:  getEnv("POSTGRES_SSLMODE", "disable"),
	}
}

// DSN returns the PostgreSQL connection string.
func (c *Config) DSN() string {
	return "host=" + c.PostgresHost +
		" port=" + c.PostgresPort +
		" user=" + c.PostgresUser +
		" password=" + c.PostgresPassword +
		" dbname=" + c.PostgresDB +
		" sslmode=" + c.PostgresSSLMode
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if val := os.Getenv(key); val != "" {
		n, err := strconv.Atoi(val)
		if err == nil {
			return n
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if val := os.Getenv(key); val != "" {
		b, err := strconv.ParseBool(val)
		if err == nil {
			return b
		}
	}
	return fallback
}
