package config

import (
	"log"
	"os"

	"github.com/joho/godotenv"
)

type Config struct {
	Port             string
	Env              string
	PostgresConnStr  string
	MongoURI         string
	MongoDBName      string
	RedisAddr        string
	RedisPassword    string
	JWTSecret        string
	LogLevel         string
	LogFormat        string
	StoryCleanupSpec string
}

// Load reads configuration from the environment, optionally seeded from a
// .env file.
func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, assuming environment variables are set.")
	}

	return &Config{
		Port:             getEnv("PORT", "8080"),
		Env:              getEnv("ENV", "development"),
		PostgresConnStr:  getEnv("POSTGRES_CONN_STR", ""),
		MongoURI:         getEnv("MONGO_URI", ""),
		MongoDBName:      getEnv("MONGO_DB_NAME", "wavegram"),
		RedisAddr:        getEnv("REDIS_ADDR", ""),
		RedisPassword:    getEnv("REDIS_PASSWORD", ""),
		JWTSecret:        getEnv("JWT_SECRET", "supersecretjwtkey"),
		LogLevel:         getEnv("LOG_LEVEL", "info"),
		LogFormat:        getEnv("LOG_FORMAT", "text"),
		StoryCleanupSpec: getEnv("STORY_CLEANUP_SPEC", "0 3 * * *"),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
