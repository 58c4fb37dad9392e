package storeapi

import (
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"gorm.io/gorm"
)

// Process-wide handles built by InitConfig. DB is nil in memory mode and
// Redis is nil unless REDIS_ENABLED is set.
var (
	DB     *gorm.DB
	Logger zerolog.Logger
	Redis  *redis.Client
)
