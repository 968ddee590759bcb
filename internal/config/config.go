package config

import (
	"os"
	"strconv"
	"time"
)

// Transaction flavors the merchant can be configured for.
const (
	TransactionTypeCharge    = "charge"
	TransactionTypeAuthorize = "authorize"
)

// Settings holds the merchant-facing gateway behavior. It is loaded once and
// passed by value into classifier/dispatcher call sites; core logic never
// reads configuration through a global.
type Settings struct {
	MerchantID           string
	TransactionType      string
	EnableVirtualCapture bool
	Tokenization         bool
	SubscriptionsEnabled bool
	CaptureLockTTL       time.Duration
	ReviewPollInterval   time.Duration
}

type Config struct {
	DatabaseURL      string
	RedisURL         string
	KafkaBrokers     string
	ProcessorBaseURL string
	ProcessorAPIKey  string
	JaegerEndpoint   string
	Port             string
	Settings         Settings
}

func Load() *Config {
	port := os.Getenv("PORT")
	if port == "" {
		port = "8084"
	}

	processorBaseURL := os.Getenv("PROCESSOR_BASE_URL")
	if processorBaseURL == "" {
		processorBaseURL = "https://apitest.cybersource.com"
	}

	txType := os.Getenv("TRANSACTION_TYPE")
	if txType != TransactionTypeCharge {
		txType = TransactionTypeAuthorize
	}

	return &Config{
		DatabaseURL:      os.Getenv("DATABASE_URL"),
		RedisURL:         os.Getenv("REDIS_URL"),
		KafkaBrokers:     os.Getenv("KAFKA_BROKERS"),
		ProcessorBaseURL: processorBaseURL,
		ProcessorAPIKey:  os.Getenv("PROCESSOR_API_KEY"),
		JaegerEndpoint:   os.Getenv("JAEGER_ENDPOINT"),
		Port:             port,
		Settings: Settings{
			MerchantID:           os.Getenv("MERCHANT_ID"),
			TransactionType:      txType,
			EnableVirtualCapture: envBool("ENABLE_VIRTUAL_CAPTURE"),
			Tokenization:         envBool("TOKENIZATION"),
			SubscriptionsEnabled: envBool("SUBSCRIPTIONS_ENABLED"),
			CaptureLockTTL:       envDuration("CAPTURE_LOCK_TTL", 50*time.Minute),
			ReviewPollInterval:   envDuration("REVIEW_POLL_INTERVAL", 15*time.Minute),
		},
	}
}

// IsChargeType reports whether the merchant is configured for combined
// authorize+settle transactions.
func (s Settings) IsChargeType() bool {
	return s.TransactionType == TransactionTypeCharge
}

func envBool(key string) bool {
	v, err := strconv.ParseBool(os.Getenv(key))
	return err == nil && v
}

func envDuration(key string, fallback time.Duration) time.Duration {
	d, err := time.ParseDuration(os.Getenv(key))
	if err != nil || d <= 0 {
		return fallback
	}
	return d
}
