package storeapi

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"strings"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
	"gorm.io/gorm/schema"

	"log"
	"os"
	"time"

	"github.com/joho/godotenv"
)

const (
	ModeDev    = "dev"
	ModeProd   = "prod"
	ModeMemory = "memory"
)

type AppConfig struct {
	Mode     string
	ApiPort  string
	LogLevel zerolog.Level
	Paging   struct {
		DefaultLimit int
		MaxLimit     int
	}
	StockSummaryTTL time.Duration
	NatsURL         string
	MainDatabase    struct {
		Host         string
		Port         string
		User         string
		Password     string
		DatabaseName string
		SSLMode      string
	}
	RedisConfig struct {
		Enabled  bool
		Host     string
		Port     string
		Password string
		DB       int
	}
}

var config AppConfig

// InitConfig loads envfile into the environment, reads AppConfig and
// builds the process handles.
func InitConfig(envfile string) {
	if err := godotenv.Load(envfile); err != nil {
		log.Printf("Could not load %s, using process environment: %s", envfile, err)
	}
	config = loadConfig()

	Logger = initLogger(config.LogLevel)
	if config.Mode != ModeMemory {
		DB = connectToPostgres(config.MainDatabase.Host, config.MainDatabase.User, config.MainDatabase.Password, config.MainDatabase.DatabaseName, config.MainDatabase.Port, config.MainDatabase.SSLMode)
	}
	if config.RedisConfig.Enabled {
		Redis = connectToRedis(config.RedisConfig.Host, config.RedisConfig.Port, config.RedisConfig.Password, config.RedisConfig.DB)
	}
}

func loadConfig() AppConfig {
	cfg := AppConfig{
		Mode:            getEnvOrPanic("RUN_MODE"),
		ApiPort:         getEnvOrPanic("API_PORT"),
		LogLevel:        parseLevel(GetEnv("LOG_LEVEL", "info")),
		StockSummaryTTL: time.Duration(getIntEnvOrDefault("STOCK_SUMMARY_TTL_SECONDS", 60)) * time.Second,
		NatsURL:         GetEnv("NATS_URL", ""),
	}
	switch cfg.Mode {
	case ModeDev, ModeProd, ModeMemory:
	default:
		log.Fatalf("RUN_MODE must be one of %s, %s, %s", ModeDev, ModeProd, ModeMemory)
	}

	cfg.Paging.DefaultLimit = getIntEnvOrDefault("PAGE_LIMIT_DEFAULT", 10)
	cfg.Paging.MaxLimit = getIntEnvOrDefault("PAGE_LIMIT_MAX", 100)

	if cfg.Mode != ModeMemory {
		cfg.MainDatabase.Host = getEnvOrPanic("DB_HOSTNAME")
		cfg.MainDatabase.Port = getEnvOrPanic("DB_PORT")
		cfg.MainDatabase.User = getEnvOrPanic("DB_USERNAME")
		cfg.MainDatabase.Password = getEnvOrPanic("DB_PASSWORD")
		cfg.MainDatabase.DatabaseName = getEnvOrPanic("DB_NAME")
		cfg.MainDatabase.SSLMode = GetEnv("DB_SSL_MODE", "disable")
	}

	cfg.RedisConfig.Enabled = getBoolEnvOrDefault("REDIS_ENABLED", false)
	cfg.RedisConfig.Host = GetEnv("REDIS_HOST", "localhost")
	cfg.RedisConfig.Port = GetEnv("REDIS_PORT", "6379")
	cfg.RedisConfig.Password = GetEnv("REDIS_PASSWORD", "")
	cfg.RedisConfig.DB = getIntEnvOrDefault("REDIS_DB", 0)
	return cfg
}

func GetConfig() AppConfig {
	return config
}

func getEnvOrPanic(key string) string {
	value := os.Getenv(key)
	if value == "" {
		log.Fatalf("%s must be set", key)
	}
	return value
}

func GetEnv(key string, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getIntEnvOrDefault(key string, defaultValue int) int {
	raw := os.Getenv(key)
	if raw == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return defaultValue
	}
	return value
}

func getBoolEnvOrDefault(key string, defaultValue bool) bool {
	value, err := strconv.ParseBool(os.Getenv(key))
	if err != nil {
		return defaultValue
	}
	return value
}

func parseLevel(raw string) zerolog.Level {
	level, err := zerolog.ParseLevel(strings.ToLower(raw))
	if err != nil || level == zerolog.NoLevel {
		return zerolog.InfoLevel
	}
	return level
}

func connectToPostgres(host string, username string, password string, dbname string, port string, ssl string) *gorm.DB {
	var err error
	var db *gorm.DB
	var conn *sql.DB

	dsn := fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=%s",
		host, username, password, dbname, port, ssl)
	if db, err = gorm.Open(postgres.Open(dsn),
		&gorm.Config{
			Logger: logger.New(
				log.New(os.Stdout, "\r\n", log.LstdFlags),
				logger.Config{
					SlowThreshold: 200 * time.Millisecond,
					LogLevel:      logger.Error,
				},
			),
			CreateBatchSize: 1000,
			TranslateError:  true,
			NowFunc: func() time.Time {
				return time.Now().UTC()
			},
			NamingStrategy: schema.NamingStrategy{
				SingularTable: true,
			}}); err != nil {
		panic(err)
	}
	if conn, err = db.DB(); err != nil {
		panic(err)
	}
	conn.SetMaxIdleConns(10)
	conn.SetMaxOpenConns(10)
	conn.SetConnMaxLifetime(time.Hour)
	return db
}

func initLogger(level zerolog.Level) zerolog.Logger {
	output := zerolog.ConsoleWriter{
		Out:        os.Stdout,
		TimeFormat: "15:04:05",
		NoColor:    false,
		FormatLevel: func(i interface{}) string {
			return strings.ToUpper(fmt.Sprintf("| %-6s|", i))
		},
		FormatMessage: func(i interface{}) string {
			return fmt.Sprintf("  %s  ", i)
		},
		FormatFieldName: func(i interface{}) string {
			return fmt.Sprintf("%s=", i)
		},
		FormatFieldValue: func(i interface{}) string {
			return fmt.Sprintf("%s", i)
		},
	}

	return zerolog.New(output).Level(level).With().Timestamp().Caller().Logger()
}

func connectToRedis(host string, port string, password string, db int) *redis.Client {
	client := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%s", host, port),
		Password: password,
		DB:       db,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		panic(fmt.Sprintf("Failed to connect to Redis: %v", err))
	}

	return client
}
