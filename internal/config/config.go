package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	DatabaseURL string // GIGD_DATABASE_URL (required)
	HTTPAddr    string // GIGD_HTTP_ADDR (default ":8080")
	NATSURL     string // GIGD_NATS_URL (optional, empty = no events)
	AuthToken   string // GIGD_AUTH_TOKEN (optional, empty = auth disabled)
	AdminToken  string // GIGD_ADMIN_TOKEN (gates the activity feed endpoint)

	// BaseURL is the public site URL used to build task links in emails.
	BaseURL string // GIGD_BASE_URL (default "https://gigboard.io")

	// Mail settings
	SMTPHost     string   // GIGD_SMTP_HOST (empty = mail logged, not sent)
	SMTPPort     string   // GIGD_SMTP_PORT (default "465")
	SMTPUser     string   // GIGD_SMTP_USER
	SMTPPassword string   // GIGD_SMTP_PASSWORD
	MailFrom     string   // GIGD_MAIL_FROM (default SMTPUser)
	// StaffRecipients always receive new-task notifications.
	StaffRecipients []string // GIGD_STAFF_RECIPIENTS (comma-separated)

	// Export settings
	ExportInterval   time.Duration // GIGD_EXPORT_INTERVAL (default 0 = disabled)
	ExportS3Bucket   string        // GIGD_EXPORT_S3_BUCKET (enables S3 when set)
	ExportS3Endpoint string        // GIGD_EXPORT_S3_ENDPOINT (custom endpoint for MinIO)
	ExportS3Region   string        // GIGD_EXPORT_S3_REGION (default "us-east-1")
	ExportS3Key      string        // GIGD_EXPORT_S3_KEY (default "gigboard/feed.jsonl")
	ExportGitRepo    string        // GIGD_EXPORT_GIT_REPO (enables git when set; path to a local clone)
	ExportGitFile    string        // GIGD_EXPORT_GIT_FILE (default "gigboard.jsonl")
	ExportGitBranch  string        // GIGD_EXPORT_GIT_BRANCH (default "main")

	// ReminderInterval is how often the worker scans for due progress events.
	ReminderInterval time.Duration // GIGD_REMINDER_INTERVAL (default 10m)
}

// Load reads configuration from the environment. A .env file in the working
// directory is merged in first, without overriding already-set variables.
func Load() (*Config, error) {
	_ = godotenv.Load()

	c := &Config{
		DatabaseURL:      os.Getenv("GIGD_DATABASE_URL"),
		HTTPAddr:         envOrDefault("GIGD_HTTP_ADDR", ":8080"),
		NATSURL:          os.Getenv("GIGD_NATS_URL"),
		AuthToken:        os.Getenv("GIGD_AUTH_TOKEN"),
		AdminToken:       os.Getenv("GIGD_ADMIN_TOKEN"),
		BaseURL:          strings.TrimRight(envOrDefault("GIGD_BASE_URL", "https://gigboard.io"), "/"),
		SMTPHost:         os.Getenv("GIGD_SMTP_HOST"),
		SMTPPort:         envOrDefault("GIGD_SMTP_PORT", "465"),
		SMTPUser:         os.Getenv("GIGD_SMTP_USER"),
		SMTPPassword:     os.Getenv("GIGD_SMTP_PASSWORD"),
		ExportS3Bucket:   os.Getenv("GIGD_EXPORT_S3_BUCKET"),
		ExportS3Endpoint: os.Getenv("GIGD_EXPORT_S3_ENDPOINT"),
		ExportS3Region:   envOrDefault("GIGD_EXPORT_S3_REGION", "us-east-1"),
		ExportS3Key:      envOrDefault("GIGD_EXPORT_S3_KEY", "gigboard/feed.jsonl"),
		ExportGitRepo:    os.Getenv("GIGD_EXPORT_GIT_REPO"),
		ExportGitFile:    envOrDefault("GIGD_EXPORT_GIT_FILE", "gigboard.jsonl"),
		ExportGitBranch:  envOrDefault("GIGD_EXPORT_GIT_BRANCH", "main"),
	}
	if c.DatabaseURL == "" {
		return nil, fmt.Errorf("GIGD_DATABASE_URL is required")
	}

	c.MailFrom = envOrDefault("GIGD_MAIL_FROM", c.SMTPUser)

	if v := os.Getenv("GIGD_STAFF_RECIPIENTS"); v != "" {
		for _, addr := range strings.Split(v, ",") {
			if addr = strings.TrimSpace(addr); addr != "" {
				c.StaffRecipients = append(c.StaffRecipients, addr)
			}
		}
	}

	if v := os.Getenv("GIGD_EXPORT_INTERVAL"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return nil, fmt.Errorf("GIGD_EXPORT_INTERVAL: %w", err)
		}
		c.ExportInterval = d
	}

	interval := envOrDefault("GIGD_REMINDER_INTERVAL", "10m")
	d, err := time.ParseDuration(interval)
	if err != nil {
		return nil, fmt.Errorf("GIGD_REMINDER_INTERVAL: %w", err)
	}
	c.ReminderInterval = d

	return c, nil
}

func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
