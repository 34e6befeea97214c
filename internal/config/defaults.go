package config

import "time"

const (
	DefaultMongoURI         = "mongodb://127.0.0.1:27017"
	DefaultMongoDatabase    = "air-alerts"
	DefaultMongoConnTimeout = 10 * time.Second

	DefaultPort     = "3001"
	DefaultLogLevel = "info"

	DefaultNotificationServiceURL = "http://localhost:3000/send-notification"
	DefaultNotifyTimeout          = 10 * time.Second
	DefaultSMSTemplateID          = "73244097-acce-4e7b-84f2-3ddcd0e70fb5"
	DefaultEmailTemplateID        = "55e3e00c-0401-4f41-bf22-ecbbcf8af412"

	DefaultKafkaSetupTopic = "alerts.setup"

	DefaultRequestTimeout  = 30 * time.Second
	DefaultReadTimeout     = 15 * time.Second
	DefaultWriteTimeout    = 15 * time.Second
	DefaultIdleTimeout     = 60 * time.Second
	DefaultShutdownTimeout = 30 * time.Second
)
