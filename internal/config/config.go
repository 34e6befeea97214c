package config

import (
	"os"
	"strings"
	"time"
)

type Config struct {
	MongoURI         string
	MongoDatabase    string
	MongoConnTimeout time.Duration

	Port     string
	LogLevel string

	NotificationServiceURL string
	NotifyTimeout          time.Duration
	SMSTemplateID          string
	EmailTemplateID        string

	// Kafka is optional: an empty broker list disables the setup-event
	// stream entirely.
	KafkaBrokers    []string
	KafkaSetupTopic string

	RequestTimeout  time.Duration
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	IdleTimeout     time.Duration
	ShutdownTimeout time.Duration
}

func Load() *Config {
	return &Config{
		MongoURI:         getEnvStr(EnvMongoURI, DefaultMongoURI),
		MongoDatabase:    getEnvStr(EnvMongoDatabase, DefaultMongoDatabase),
		MongoConnTimeout: getEnvDuration(EnvMongoConnTimeout, DefaultMongoConnTimeout),

		Port:     getEnvStr(EnvPort, DefaultPort),
		LogLevel: getEnvStr(EnvLogLevel, DefaultLogLevel),

		NotificationServiceURL: getEnvStr(EnvNotificationServiceURL, DefaultNotificationServiceURL),
		NotifyTimeout:          getEnvDuration(EnvNotifyTimeout, DefaultNotifyTimeout),
		SMSTemplateID:          getEnvStr(EnvSMSTemplateID, DefaultSMSTemplateID),
		EmailTemplateID:        getEnvStr(EnvEmailTemplateID, DefaultEmailTemplateID),

		KafkaBrokers:    getEnvList(EnvKafkaBrokers),
		KafkaSetupTopic: getEnvStr(EnvKafkaSetupTopic, DefaultKafkaSetupTopic),

		RequestTimeout:  getEnvDuration(EnvRequestTimeout, DefaultRequestTimeout),
		ReadTimeout:     getEnvDuration(EnvReadTimeout, DefaultReadTimeout),
		WriteTimeout:    getEnvDuration(EnvWriteTimeout, DefaultWriteTimeout),
		IdleTimeout:     getEnvDuration(EnvIdleTimeout, DefaultIdleTimeout),
		ShutdownTimeout: getEnvDuration(EnvShutdownTimeout, DefaultShutdownTimeout),
	}
}

// TemplateID returns the confirmation template configured for the alert type.
func (c *Config) TemplateID(alertType string) string {
	if alertType == "sms" {
		return c.SMSTemplateID
	}
	return c.EmailTemplateID
}

func getEnvStr(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return fallback
}

func getEnvList(key string) []string {
	value := os.Getenv(key)
	if value == "" {
		return nil
	}

	var items []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			items = append(items, part)
		}
	}
	return items
}
