package config

import (
	"os"
	"strconv"
)

type Media struct {
	RootPath      string
	QuarantineDir string
}

type Config struct {
	PostgresURI            string
	RedisURI               string
	CustomerServiceURL     string
	NotificationWebhookURL string
	Media                  Media
	ArchiveRetentionDays   int
	OverdueRemindHours     int
	DueNotificationCron    string
	OverdueCheckCron       string
	ArchiveCandidateCron   string
}

func LoadConfig() *Config {
	return &Config{
		PostgresURI:            getEnv("POSTGRES_URI", ""),
		RedisURI:               getEnv("REDIS_URI", ""),
		CustomerServiceURL:     getEnv("CUSTOMER_SERVICE_URL", "http://localhost:8086"),
		NotificationWebhookURL: getEnv("NOTIFICATION_WEBHOOK_URL", ""),
		Media: Media{
			RootPath:      getEnv("MEDIA_ROOT_PATH", "./customer-media"),
			QuarantineDir: getEnv("MEDIA_QUARANTINE_DIR", "deleted"),
		},
		ArchiveRetentionDays: getEnvInt("ARCHIVE_RETENTION_DAYS", 90),
		OverdueRemindHours:   getEnvInt("OVERDUE_REMIND_HOURS", 24),
		DueNotificationCron:  getEnv("DUE_NOTIFICATION_CRON", "0 0 9 * * *"),
		OverdueCheckCron:     getEnv("OVERDUE_CHECK_CRON", "0 30 9 * * *"),
		ArchiveCandidateCron: getEnv("ARCHIVE_CANDIDATE_CRON", "0 0 10 * * 1"),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return defaultValue
	}
	return n
}
