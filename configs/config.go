package configs

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

type Config struct {
	AppPort string

	DBHost string
	DBPort string
	DBUser string
	DBPass string
	DBName string

	RedisHost string
	RedisPort string

	KafkaBootstrap string
	KafkaGroupID   string
	StreamTopic    string

	CelebrityThreshold int64
	FanoutConcurrency  int
	FanoutWriteTimeout time.Duration
	BatchSize          int
	BatchWait          time.Duration

	// DedupTTL enables sequence-token deduplication of reaction events
	// when > 0. Zero disables it and leaves the counter path purely
	// at-least-once.
	DedupTTL time.Duration
}

func LoadConfig() *Config {
	return &Config{
		AppPort: getEnv("APP_PORT", ":8086"),

		DBHost: getEnv("FANOUT_DB_HOST", "localhost"),
		DBPort: getEnv("FANOUT_DB_PORT", "5432"),
		DBUser: getEnv("FANOUT_DB_USER", "postgres"),
		DBPass: getEnv("FANOUT_DB_PASS", "postgres"),
		DBName: getEnv("FANOUT_DB_NAME", "social_db"),

		RedisHost: getEnv("REDIS_HOST", "redis-feed"),
		RedisPort: getEnv("REDIS_PORT", "6379"),

		KafkaBootstrap: getEnv("KAFKA_BOOTSTRAP_SERVERS", "kafka:9092"),
		KafkaGroupID:   getEnv("KAFKA_GROUP_ID", "fanout-service"),
		StreamTopic:    getEnv("CHANGE_STREAM_TOPIC", "storage.changes"),

		CelebrityThreshold: int64(getEnvInt("CELEBRITY_THRESHOLD", 5000)),
		FanoutConcurrency:  getEnvInt("FANOUT_CONCURRENCY", 100),
		FanoutWriteTimeout: time.Duration(getEnvInt("FANOUT_WRITE_TIMEOUT_MS", 2000)) * time.Millisecond,
		BatchSize:          getEnvInt("STREAM_BATCH_SIZE", 100),
		BatchWait:          time.Duration(getEnvInt("STREAM_BATCH_WAIT_MS", 500)) * time.Millisecond,

		DedupTTL: time.Duration(getEnvInt("DEDUP_TTL_S", 0)) * time.Second,
	}
}

func (c *Config) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
		c.DBHost, c.DBPort, c.DBUser, c.DBPass, c.DBName,
	)
}

func (c *Config) RedisAddr() string {
	return fmt.Sprintf("%s:%s", c.RedisHost, c.RedisPort)
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if val := os.Getenv(key); val != "" {
		if n, err := strconv.Atoi(val); err == nil && n >= 0 {
			return n
		}
	}
	return fallback
}
