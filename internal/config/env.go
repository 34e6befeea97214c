package config

const (
	EnvMongoURI         = "MONGO_URI"
	EnvMongoDatabase    = "MONGO_DATABASE"
	EnvMongoConnTimeout = "MONGO_CONN_TIMEOUT"

	EnvPort     = "PORT"
	EnvLogLevel = "LOG_LEVEL"

	EnvNotificationServiceURL = "NOTIFICATION_SERVICE_URL"
	EnvNotifyTimeout          = "NOTIFY_TIMEOUT"
	EnvSMSTemplateID          = "SMS_SET_UP_CONFIRMATION_TEMPLATE_ID"
	EnvEmailTemplateID        = "EMAIL_SET_UP_CONFIRMATION_TEMPLATE_ID"

	EnvKafkaBrokers    = "KAFKA_BROKERS"
	EnvKafkaSetupTopic = "KAFKA_SETUP_TOPIC"

	EnvRequestTimeout  = "REQUEST_TIMEOUT"
	EnvReadTimeout     = "READ_TIMEOUT"
	EnvWriteTimeout    = "WRITE_TIMEOUT"
	EnvIdleTimeout     = "IDLE_TIMEOUT"
	EnvShutdownTimeout = "SHUTDOWN_TIMEOUT"
)
