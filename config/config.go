package config

import (
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Config holds all application configuration loaded from environment variables.
type Config struct {
	SearchURL         string
	PageParam         string
	UserAgent         string
	RequestTimeoutSec int
	RateLimitMs       int
	MaxRetries        int
	MaxPages          int
	MaxConcurrency    int
	Fetcher           string
	ChromeBin         string
	SelectorsPath     string

	CSVOutputPath  string
	JSONOutputPath string
	PDFOutputPath  string
	BenchmarksPath string
	ListingsPath   string
	TopK           int

	HTTPAddr string
	LogLevel string

	PostgresHost     string
	PostgresPort     string
	PostgresUser     string
	PostgresPassword string
	PostgresDB       string
	PostgresSSLMode  string
	StoreResults     bool
}

// Load reads the .env file and returns a populated Config struct.
func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("[config] No .env file found, falling back to system env vars")
	}

	return &Config{
		SearchURL:         getEnv("SEARCH_URL", "https://www.olx.pl/oferty/q-%s/"),
		PageParam:         getEnv("PAGE_PARAM", "page"),
		UserAgent:         getEnv("USER_AGENT", "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"),
		RequestTimeoutSec: getEnvInt("REQUEST_TIMEOUT_SEC", 20),
		RateLimitMs:       getEnvInt("RATE_LIMIT_MS", 1000),
		MaxRetries:        getEnvInt("MAX_RETRIES", 3),
		MaxPages:          getEnvInt("MAX_PAGES", 0),
		MaxConcurrency:    getEnvInt("MAX_CONCURRENCY", 4),
		Fetcher:           strings.ToLower(getEnv("FETCHER", "http")),
		ChromeBin:         getEnv("CHROME_BIN", ""),
		SelectorsPath:     getEnv("SELECTORS_PATH", ""),

		CSVOutputPath:  getEnv("CSV_OUTPUT_PATH", "./output/listings.csv"),
		JSONOutputPath: getEnv("JSON_OUTPUT_PATH", "./output/listings.json"),
		PDFOutputPath:  getEnv("PDF_OUTPUT_PATH", ""),
		BenchmarksPath: getEnv("BENCHMARKS_PATH", "benchmarks.csv"),
		ListingsPath:   getEnv("LISTINGS_PATH", ""),
		TopK:           getEnvInt("TOP_K", 10),

		HTTPAddr: getEnv("HTTP_ADDR", ":8080"),
		LogLevel: getEnv("LOG_LEVEL", "info"),

		PostgresHost:     getEnv("POSTGRES_HOST", "localhost"),
		PostgresPort:     getEnv("POSTGRES_PORT", "5432"),
		PostgresUser:     getEnv("POSTGRES_USER", "olx"),
		PostgresPassword: getEnv("POSTGRES_PASSWORD", "olx"),
		PostgresDB:       getEnv("POSTGRES_DB", "olx_browser"),
		PostgresSSLMode:  getEnv("POSTGRES_SSLMODE", "disable"),
		StoreResults:     getEnvBool("STORE_RESULTS", false),
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
	switch strings.ToLower(strings.TrimSpace(os.Getenv(key))) {
	case "1", "true", "yes", "on":
		return true
	case "0", "false", "no", "off":
		return false
	}
	return fallback
}
