package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config represents the application configuration
type Config struct {
	// Redis configuration
	RedisAddr            string
	RedisDB              int
	RedisStream          string
	RedisStreamCount     int
	RedisStreamMaxLength int

	// Memcache configuration
	MemcacheAddr string

	// SQLite configuration
	SQLitePath string

	// Telegram configuration
	TelegramToken   string
	TelegramChatIDs []int64

	// Crawler configuration
	CrawlInterval  time.Duration
	RequestDelay   time.Duration
	RequestTimeout time.Duration
	MaxRetries     int
	RetryBackoff   time.Duration
	MaxPages       int
	SeenTTL        time.Duration

	// Seed query configuration
	Sources  []string
	Keywords string
	Location string

	// Base URLs for different sources
	JobinjaURL   string
	JobvisionURL string
	LinkedInURL  string

	// Environment
	Environment string
}

// LoadConfig loads the configuration from environment variables with defaults
func LoadConfig() Config {
	redisDB, _ := strconv.Atoi(getEnv("REDIS_DB", "0"))
	streamCount, _ := strconv.Atoi(getEnv("REDIS_STREAM_COUNT", "1"))
	streamMaxLen, _ := strconv.Atoi(getEnv("REDIS_STREAM_MAX_LENGTH", "500"))
	crawlInterval, _ := strconv.Atoi(getEnv("CRAWL_INTERVAL_SECONDS", "3600"))
	requestDelay, _ := strconv.Atoi(getEnv("REQUEST_DELAY_SECONDS", "2"))
	requestTimeout, _ := strconv.Atoi(getEnv("REQUEST_TIMEOUT_SECONDS", "30"))
	maxRetries, _ := strconv.Atoi(getEnv("MAX_RETRIES", "3"))
	retryBackoff, _ := strconv.Atoi(getEnv("RETRY_BACKOFF_SECONDS", "2"))
	maxPages, _ := strconv.Atoi(getEnv("MAX_PAGES", "10"))
	seenTTL, _ := strconv.Atoi(getEnv("SEEN_TTL_SECONDS", "1800"))

	return Config{
		RedisAddr:            getEnv("REDIS_ADDR", "localhost:6379"),
		RedisDB:              redisDB,
		RedisStream:          getEnv("REDIS_STREAM", "jobs"),
		RedisStreamCount:     streamCount,
		RedisStreamMaxLength: streamMaxLen,
		MemcacheAddr:         getEnv("MEMCACHE_ADDR", "localhost:11211"),
		SQLitePath:           getEnv("SQLITE_PATH", "jobs.db"),
		TelegramToken:        getEnv("TELEGRAM_BOT_TOKEN", ""),
		TelegramChatIDs:      parseChatIDs(getEnv("TELEGRAM_CHAT_IDS", "")),
		CrawlInterval:        time.Duration(crawlInterval) * time.Second,
		RequestDelay:         time.Duration(requestDelay) * time.Second,
		RequestTimeout:       time.Duration(requestTimeout) * time.Second,
		MaxRetries:           maxRetries,
		RetryBackoff:         time.Duration(retryBackoff) * time.Second,
		MaxPages:             maxPages,
		SeenTTL:              time.Duration(seenTTL) * time.Second,
		Sources:              parseList(getEnv("JOB_SOURCES", "jobinja,jobvision,linkedin")),
		Keywords:             getEnv("JOB_KEYWORDS", ""),
		Location:             getEnv("JOB_LOCATION", ""),
		JobinjaURL:           getEnv("JOBINJA_URL", "https://jobinja.ir"),
		JobvisionURL:         getEnv("JOBVISION_URL", "https://jobvision.ir"),
		LinkedInURL:          getEnv("LINKEDIN_URL", "https://www.linkedin.com"),
		Environment:          getEnv("JOBWORKER_ENVIRONMENT", "development"),
	}
}

// Validate checks the configuration for invalid values
func (c *Config) Validate() error {
	if len(c.Sources) == 0 {
		return fmt.Errorf("no job sources configured")
	}
	if c.MaxPages <= 0 {
		return fmt.Errorf("max pages must be positive, got %d", c.MaxPages)
	}
	if c.MaxRetries < 0 {
		return fmt.Errorf("max retries must not be negative, got %d", c.MaxRetries)
	}
	if c.CrawlInterval <= 0 {
		return fmt.Errorf("crawl interval must be positive, got %s", c.CrawlInterval)
	}
	if c.TelegramToken != "" && len(c.TelegramChatIDs) == 0 {
		return fmt.Errorf("telegram token set but no chat IDs configured")
	}
	return nil
}

// BaseURL returns the configured base URL for a source identifier
func (c *Config) BaseURL(source string) string {
	switch source {
	case "jobinja":
		return c.JobinjaURL
	case "jobvision":
		return c.JobvisionURL
	case "linkedin":
		return c.LinkedInURL
	default:
		return ""
	}
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

// parseList splits a comma-separated value into trimmed entries
func parseList(value string) []string {
	var out []string
	for _, part := range strings.Split(value, ",") {
		part = strings.TrimSpace(part)
		if part != "" {
			out = append(out, part)
		}
	}
	return out
}

// parseChatIDs parses a comma-separated list of Telegram chat IDs
func parseChatIDs(value string) []int64 {
	var out []int64
	for _, part := range parseList(value) {
		id, err := strconv.ParseInt(part, 10, 64)
		if err != nil {
			continue
		}
		out = append(out, id)
	}
	return out
}
