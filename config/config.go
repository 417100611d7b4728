package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/redis/go-redis/v9"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

type Config struct {
	Port        string
	BindAddress string
	LogMode     string
	DBHost      string
	DBPort      string
	DBUser      string
	DBPassword  string
	DBName      string
	RedisHost   string
	RedisPort   string

	TMDBAPIKey  string
	TMDBBaseURL string

	// AllowReseed perturbs the daily selection seed with the wall clock
	// so staging can cycle answers. Never enable in production.
	AllowReseed bool

	RelatedGenreThreshold int
	RelatedMatchCompanies bool
	ObfuscationMaxRetries int
}

func Load() *Config {
	return &Config{
		Port:        getEnv("PORT", "8080"),
		BindAddress: getEnv("BIND_ADDRESS", "localhost"),
		LogMode:     getEnv("LOG_MODE", "development"),
		DBHost:      getEnv("DB_HOST", "localhost"),
		DBPort:      getEnv("DB_PORT", "5432"),
		DBUser:      getEnv("DB_USER", "coverquest"),
		DBPassword:  getEnv("DB_PASSWORD", "coverquest123"),
		DBName:      getEnv("DB_NAME", "coverquest"),
		RedisHost:   getEnv("REDIS_HOST", "localhost"),
		RedisPort:   getEnv("REDIS_PORT", "6379"),

		TMDBAPIKey:  getEnv("TMDB_API_KEY", ""),
		TMDBBaseURL: getEnv("TMDB_BASE_URL", ""),

		AllowReseed: getEnvBool("GAME_ALLOW_RESEED", false),

		RelatedGenreThreshold: getEnvInt("RELATED_GENRE_THRESHOLD", 3),
		RelatedMatchCompanies: getEnvBool("RELATED_MATCH_COMPANIES", false),
		ObfuscationMaxRetries: getEnvInt("OBFUSCATION_MAX_RETRIES", 2),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.ParseBool(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func InitDB(cfg *Config) (*gorm.DB, error) {
	dsn := fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=disable TimeZone=UTC",
		cfg.DBHost, cfg.DBUser, cfg.DBPassword, cfg.DBName, cfg.DBPort)

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	return db, nil
}

func InitRedis(cfg *Config) *redis.Client {
	client := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%s", cfg.RedisHost, cfg.RedisPort),
		Password: "", // no password set
		DB:       0,  // use default DB
	})

	return client
}
