package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port    string
	BaseURL string

	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	// SQLitePath, when set, switches the app to an embedded SQLite database
	// instead of Postgres. Used for local development.
	SQLitePath string

	JWTSecret        string
	JWTExpiry        time.Duration
	JWTRefreshExpiry time.Duration

	RedisURL       string
	AllowedOrigins []string

	SMTPHost     string
	SMTPPort     int
	SMTPUsername string
	SMTPPassword string
	FromEmail    string
	FromName     string

	// RSVPMilestones are the counts at which the host gets a milestone email.
	RSVPMilestones []int
}

func Load() *Config {
	godotenv.Load()
	godotenv.Load("../.env")

	return &Config{
		Port:    getEnv("PORT", "8080"),
		BaseURL: getEnv("BASE_URL", "http://localhost:8080"),

		DBHost:     getEnv("DB_HOST", "localhost"),
		DBPort:     getEnv("DB_PORT", "5432"),
		DBUser:     getEnv("DB_USER", "rsvphub"),
		DBPassword: getEnv("DB_PASSWORD", "rsvphub"),
		DBName:     getEnv("DB_NAME", "rsvphub"),
		SQLitePath: getEnv("SQLITE_PATH", ""),

		JWTSecret:        getEnv("JWT_SECRET", "dev-secret-change-in-production"),
		JWTExpiry:        parseDuration(getEnv("JWT_EXPIRY", "15m")),
		JWTRefreshExpiry: parseDuration(getEnv("JWT_REFRESH_EXPIRY", "168h")),

		RedisURL:       getEnv("REDIS_URL", "localhost:6379"),
		AllowedOrigins: parseOrigins(getEnv("ALLOWED_ORIGINS", defaultOrigins())),

		SMTPHost:     getEnv("SMTP_SERVER", "smtp.gmail.com"),
		SMTPPort:     parseInt(getEnv("SMTP_PORT", "587"), 587),
		SMTPUsername: getEnv("SMTP_USERNAME", ""),
		SMTPPassword: getEnv("SMTP_PASSWORD", ""),
		FromEmail:    getEnv("FROM_EMAIL", ""),
		FromName:     getEnv("FROM_NAME", "RSVP Hub"),

		RSVPMilestones: parseMilestones(getEnv("RSVP_MILESTONES", "10,25,50,100")),
	}
}

func (c *Config) DSN() string {
	return "host=" + c.DBHost +
		" user=" + c.DBUser +
		" password=" + c.DBPassword +
		" dbname=" + c.DBName +
		" port=" + c.DBPort +
		" sslmode=disable TimeZone=UTC"
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func parseDuration(s string) time.Duration {
	d, err := time.ParseDuration(s)
	if err != nil {
		return 15 * time.Minute
	}
	return d
}

func parseInt(s string, fallback int) int {
	n, err := strconv.Atoi(s)
	if err != nil {
		return fallback
	}
	return n
}

func defaultOrigins() string {
	if os.Getenv("GIN_MODE") != "release" {
		return "http://localhost:5173,http://localhost:8080"
	}
	return ""
}

func parseOrigins(s string) []string {
	parts := strings.Split(s, ",")
	origins := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			origins = append(origins, p)
		}
	}
	return origins
}

// parseMilestones parses a comma-separated ascending list of RSVP counts.
// Entries that are not positive integers are skipped.
func parseMilestones(s string) []int {
	parts := strings.Split(s, ",")
	milestones := make([]int, 0, len(parts))
	for _, p := range parts {
		n, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil || n <= 0 {
			continue
		}
		milestones = append(milestones, n)
	}
	return milestones
}
