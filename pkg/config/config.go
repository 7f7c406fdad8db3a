package config

import (
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Store drivers
const (
	StoreMongo  = "mongo"
	StoreMemory = "memory"
)

type Config struct {
	Port     string
	Env      string
	LogLevel string

	StoreDriver       string
	MongoURI          string
	MongoDatabase     string
	MongoTimeout      time.Duration
	MongoTransactions bool

	PostgresConnStr string

	KafkaBrokers      []string
	KafkaTopic        string
	KafkaWriteTimeout time.Duration

	JWTSecret string
	JWTTTL    time.Duration

	FirebaseCredentialsPath string
	AdminEmails             []string
}

// Load reads .env, an optional config.yaml and the environment, in
// increasing order of precedence.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, assuming environment variables are set.")
	}

	v := viper.New()
	v.SetDefault("PORT", "8080")
	v.SetDefault("ENV", "development")
	v.SetDefault("LOG_LEVEL", "info")

	v.SetDefault("STORE_DRIVER", StoreMongo)
	v.SetDefault("MONGO_URI", "mongodb://localhost:27017")
	v.SetDefault("MONGO_DATABASE", "SocialNetwork")
	v.SetDefault("MONGO_TIMEOUT", "5s")
	v.SetDefault("MONGO_TRANSACTIONS", false)

	v.SetDefault("POSTGRES_CONN_STR", "")

	v.SetDefault("KAFKA_BROKERS", "")
	v.SetDefault("KAFKA_TOPIC", "social-activity")
	v.SetDefault("KAFKA_WRITE_TIMEOUT", "10s")

	v.SetDefault("JWT_SECRET", "supersecretjwtkey")
	v.SetDefault("JWT_TTL", "72h")

	v.SetDefault("FIREBASE_CREDENTIALS_PATH", "")
	v.SetDefault("ADMIN_EMAILS", "")

	v.AutomaticEnv()

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	_ = v.ReadInConfig() // optional

	cfg := &Config{
		Port:                    v.GetString("PORT"),
		Env:                     v.GetString("ENV"),
		LogLevel:                v.GetString("LOG_LEVEL"),
		StoreDriver:             strings.ToLower(v.GetString("STORE_DRIVER")),
		MongoURI:                v.GetString("MONGO_URI"),
		MongoDatabase:           v.GetString("MONGO_DATABASE"),
		MongoTimeout:            parseDuration(v.GetString("MONGO_TIMEOUT"), 5*time.Second),
		MongoTransactions:       v.GetBool("MONGO_TRANSACTIONS"),
		PostgresConnStr:         v.GetString("POSTGRES_CONN_STR"),
		KafkaBrokers:            splitList(v.GetString("KAFKA_BROKERS")),
		KafkaTopic:              v.GetString("KAFKA_TOPIC"),
		KafkaWriteTimeout:       parseDuration(v.GetString("KAFKA_WRITE_TIMEOUT"), 10*time.Second),
		JWTSecret:               v.GetString("JWT_SECRET"),
		JWTTTL:                  parseDuration(v.GetString("JWT_TTL"), 72*time.Hour),
		FirebaseCredentialsPath: v.GetString("FIREBASE_CREDENTIALS_PATH"),
		AdminEmails:             splitList(v.GetString("ADMIN_EMAILS")),
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks settings that have no usable default
func (c *Config) Validate() error {
	switch c.StoreDriver {
	case StoreMongo:
		if c.MongoURI == "" {
			return fmt.Errorf("MONGO_URI must be set when STORE_DRIVER=%s", StoreMongo)
		}
		if c.MongoDatabase == "" {
			return fmt.Errorf("MONGO_DATABASE must be set when STORE_DRIVER=%s", StoreMongo)
		}
	case StoreMemory:
	default:
		return fmt.Errorf("unknown STORE_DRIVER %q", c.StoreDriver)
	}
	if c.JWTSecret == "" {
		return fmt.Errorf("JWT_SECRET must not be empty")
	}
	return nil
}

// KafkaEnabled reports whether activity events are published to Kafka
func (c *Config) KafkaEnabled() bool {
	return len(c.KafkaBrokers) > 0 && c.KafkaTopic != ""
}

func parseDuration(s string, def time.Duration) time.Duration {
	d, err := time.ParseDuration(s)
	if err != nil || d <= 0 {
		return def
	}
	return d
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
