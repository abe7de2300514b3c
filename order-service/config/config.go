package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	ServiceName  string       `mapstructure:"service_name"`
	Env          string       `mapstructure:"env"`
	Port         string       `mapstructure:"port"`
	Database     Database     `mapstructure:"database"`
	AWS          AWS          `mapstructure:"aws"`
	Saga         Saga         `mapstructure:"saga"`
	Participants Participants `mapstructure:"participants"`
	Telemetry    Telemetry    `mapstructure:"telemetry"`
	Log          Log          `mapstructure:"log"`
}

type Database struct {
	// Driver is "postgres" or "memory"
	Driver   string `mapstructure:"driver"`
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	Database string `mapstructure:"database"`
	SSLMode  string `mapstructure:"ssl_mode"`
}

type AWS struct {
	Enabled     bool   `mapstructure:"enabled"`
	Region      string `mapstructure:"region"`
	Endpoint    string `mapstructure:"endpoint"`
	SNSTopicArn string `mapstructure:"sns_topic_arn"`
	SQSQueueURL string `mapstructure:"sqs_queue_url"`
	SQSWorkers  int    `mapstructure:"sqs_workers"`
}

type Saga struct {
	MaxRetryAttempts      int           `mapstructure:"max_retry_attempts"`
	RetryDelay            time.Duration `mapstructure:"retry_delay"`
	FailOnRetryExhaustion bool          `mapstructure:"fail_on_retry_exhaustion"`
	RecoveryWorkers       int           `mapstructure:"recovery_workers"`
	RecoveryBatchSize     int           `mapstructure:"recovery_batch_size"`
	RecoveryStaleAfter    time.Duration `mapstructure:"recovery_stale_after"`
	ReconcileDelay        time.Duration `mapstructure:"reconcile_delay"`
	ReconcileAttempts     int           `mapstructure:"reconcile_attempts"`
}

type Participants struct {
	PaymentURL      string        `mapstructure:"payment_url"`
	InventoryURL    string        `mapstructure:"inventory_url"`
	ShippingURL     string        `mapstructure:"shipping_url"`
	NotificationURL string        `mapstructure:"notification_url"`
	Timeout         time.Duration `mapstructure:"timeout"`
}

type Telemetry struct {
	Enabled      bool   `mapstructure:"enabled"`
	OTLPEndpoint string `mapstructure:"otlp_endpoint"`
}

type Log struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

func ReadConfig() (*Config, error) {
	_, filename, _, ok := runtime.Caller(0)
	if !ok {
		return nil, fmt.Errorf("unable to get current file")
	}

	viper.SetConfigName(getConfigName())
	viper.SetConfigType("json")
	viper.AddConfigPath(filepath.Dir(filename))

	// ORDER_SAGA_RETRY_DELAY overrides saga.retry_delay
	viper.SetEnvPrefix("ORDER")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	setDefaults()

	if err := viper.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	return &config, nil
}

func getConfigName() string {
	env := os.Getenv("ENVIRONMENT")
	if env == "" {
		return "local"
	}
	return env
}

func setDefaults() {
	viper.SetDefault("service_name", "order-service")
	viper.SetDefault("env", getEnv("ENV", "local"))
	viper.SetDefault("port", getEnv("PORT", "8080"))

	viper.SetDefault("database.driver", "postgres")
	viper.SetDefault("database.host", "localhost")
	viper.SetDefault("database.port", 5432)
	viper.SetDefault("database.user", "postgres")
	viper.SetDefault("database.password", "password")
	viper.SetDefault("database.database", "order_saga")
	viper.SetDefault("database.ssl_mode", "disable")

	if dbURL := os.Getenv("DATABASE_URL"); dbURL != "" {
		viper.Set("database.url", dbURL)
	}

	viper.SetDefault("aws.enabled", false)
	viper.SetDefault("aws.region", getEnv("AWS_DEFAULT_REGION", "us-east-1"))
	viper.SetDefault("aws.endpoint", getEnv("AWS_ENDPOINT_URL", "http://localhost:4566"))
	viper.SetDefault("aws.sns_topic_arn", getEnv("SNS_TOPIC_ARN", "arn:aws:sns:us-east-1:000000000000:saga-events"))
	viper.SetDefault("aws.sqs_queue_url", getEnv("SQS_QUEUE_URL", "http://localhost:4566/000000000000/saga-compensations"))
	viper.SetDefault("aws.sqs_workers", 4)

	viper.SetDefault("saga.max_retry_attempts", 3)
	viper.SetDefault("saga.retry_delay", time.Second)
	viper.SetDefault("saga.fail_on_retry_exhaustion", false)
	viper.SetDefault("saga.recovery_workers", 4)
	viper.SetDefault("saga.recovery_batch_size", 100)
	viper.SetDefault("saga.recovery_stale_after", time.Duration(0))
	viper.SetDefault("saga.reconcile_delay", 5*time.Second)
	viper.SetDefault("saga.reconcile_attempts", 5)

	viper.SetDefault("participants.payment_url", "http://localhost:8081")
	viper.SetDefault("participants.inventory_url", "http://localhost:8081")
	viper.SetDefault("participants.shipping_url", "http://localhost:8081")
	viper.SetDefault("participants.notification_url", "http://localhost:8081")
	viper.SetDefault("participants.timeout", 5*time.Second)

	viper.SetDefault("telemetry.enabled", false)
	viper.SetDefault("telemetry.otlp_endpoint", "localhost:4318")

	viper.SetDefault("log.level", "info")
	viper.SetDefault("log.format", "console")
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// GetDatabaseURL constructs database URL from config
func (c *Config) GetDatabaseURL() string {
	if url := viper.GetString("database.url"); url != "" {
		return url
	}

	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.Database.User,
		c.Database.Password,
		c.Database.Host,
		c.Database.Port,
		c.Database.Database,
		c.Database.SSLMode,
	)
}
