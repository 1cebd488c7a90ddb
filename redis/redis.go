package redis

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/redis/go-redis/v9"
)

var (
	Client *redis.Client
	Ctx    = context.Background()
)

// FreeTimeCacheTTL bounds how stale the mentor availability display can be.
const FreeTimeCacheTTL = 5 * time.Minute

func InitRedis() {
	Client = redis.NewClient(&redis.Options{
		Addr: os.Getenv("REDIS_ADDR"),
		DB:   0,
	})

	// Test connection
	_, err := Client.Ping(Ctx).Result()
	if err != nil {
		panic(fmt.Sprintf("Failed to connect to Redis: %v", err))
	}
	fmt.Println("✅ Connected to Redis")
}

// FreeTimeKey is the cache key for a mentor's free-time display payload.
func FreeTimeKey(mentorID uint) string {
	return fmt.Sprintf("mentor:%d:free-time", mentorID)
}

// InvalidateFreeTime drops the cached availability display for a user.
// Called whenever their timetable or bookings change. A nil client (tests,
// redis disabled) is a no-op.
func InvalidateFreeTime(userID uint) {
	if Client == nil {
		return
	}
	Client.Del(Ctx, FreeTimeKey(userID))
}
