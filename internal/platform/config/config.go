// Package config builds runtime configuration from the environment so main
// stays lean. A .env file is loaded when present.
package config

import (
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config captures everything the server process needs.
type Config struct {
	Server   Server
	Database Database
	Redis    Redis
	Kafka    Kafka
	Notifier Notifier
}

// Server captures HTTP server level configuration.
type Server struct {
	Addr string
}

// Database selects and configures the invoice store.
// Driver is "postgres" or "memory".
type Database struct {
	Driver string
	DSN    string
}

// Redis configures the event dedup guard. Disabled when URL is empty.
type Redis struct {
	URL      string
	EventTTL time.Duration
}

// Kafka configures the delivery-event consumer. Disabled when Brokers is empty.
type Kafka struct {
	Brokers []string
	Topic   string
	Group   string
}

// Notifier selects the outbound sender.
// Driver is "ses", "log", or "simulator" (log + simulated delivery webhook).
type Notifier struct {
	Driver         string
	Sender         string
	SimulatorDelay time.Duration

	AWSRegion    string
	AWSAccessKey string
	AWSSecretKey string
}

// FromEnv builds a Config from environment variables.
func FromEnv() Config {
	_ = godotenv.Load()

	return Config{
		Server: Server{
			Addr: envOr("INVOICER_ADDR", ":8080"),
		},
		Database: Database{
			Driver: envOr("DB_DRIVER", "memory"),
			DSN:    os.Getenv("DATABASE_URL"),
		},
		Redis: Redis{
			URL:      os.Getenv("REDIS_URL"),
			EventTTL: durationOr("EVENT_DEDUP_TTL", 24*time.Hour),
		},
		Kafka: Kafka{
			Brokers: splitList(os.Getenv("KAFKA_BROKERS")),
			Topic:   envOr("KAFKA_DELIVERY_TOPIC", "esp.deliveries"),
			Group:   envOr("KAFKA_CONSUMER_GROUP", "invoicer"),
		},
		Notifier: Notifier{
			Driver:         envOr("NOTIFIER_DRIVER", "simulator"),
			Sender:         envOr("NOTIFIER_SENDER", "billing@localhost"),
			SimulatorDelay: durationOr("SIMULATOR_DELAY", 2*time.Second),
			AWSRegion:      envOr("AWS_REGION", "us-east-1"),
			AWSAccessKey:   os.Getenv("AWS_ACCESS_KEY_ID"),
			AWSSecretKey:   os.Getenv("AWS_SECRET_ACCESS_KEY"),
		},
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func durationOr(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return fallback
	}
	return d
}

func splitList(v string) []string {
	if v == "" {
		return nil
	}
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
