package utils

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/robfig/cron/v3"
)

// Retry configuration
const maxRetries = 3
const retryDelay = 2 * time.Minute

// CleanupExpiredFiles removes a generated report file once it is older than the TTL
func CleanupExpiredFiles(filePath string, ttl time.Duration) error {
	info, err := os.Stat(filePath)
	if err != nil {
		return fmt.Errorf("error checking file: %v", err)
	}

	if time.Since(info.ModTime()) > ttl {
		if err := os.Remove(filePath); err != nil {
			return fmt.Errorf("error deleting expired file: %v", err)
		}
	}
	return nil
}

// CleanupExpiredCache drops stale order-view cache entries from Redis. TTLs
// handle expiry on their own; this sweep catches keys written without one.
func CleanupExpiredCache(redisClient *redis.Client) error {
	ctx := context.Background()
	iter := redisClient.Scan(ctx, 0, "orders:*", 100).Iterator()
	for iter.Next(ctx) {
		key := iter.Val()
		ttl, err := redisClient.TTL(ctx, key).Result()
		if err != nil {
			continue
		}
		if ttl < 0 {
			if err := redisClient.Del(ctx, key).Err(); err != nil {
				return fmt.Errorf("error deleting cache key %s: %v", key, err)
			}
		}
	}
	return iter.Err()
}

// CleanupAllExpired handles the cleanup of report files and Redis cache entries
func CleanupAllExpired(fileTTL time.Duration, redisClient *redis.Client) error {
	files, err := os.ReadDir("./public/files")
	if err != nil {
		return fmt.Errorf("error reading files directory: %v", err)
	}

	for _, file := range files {
		if file.IsDir() {
			continue
		}

		filePath := fmt.Sprintf("./public/files/%s", file.Name())
		if err := CleanupExpiredFiles(filePath, fileTTL); err != nil {
			fmt.Println("Error cleaning up file:", err)
		}
	}

	return CleanupExpiredCache(redisClient)
}

// RunScheduledCleanup runs cleanup tasks daily at 1 AM with retries and logs error messages on failure
func RunScheduledCleanup(redisClient *redis.Client) {
	c := cron.New()

	c.AddFunc("0 1 * * *", func() {
		log.Println("running scheduled cleanup task...")

		var retries int
		var cleanupSuccess bool

		for retries < maxRetries {
			err := CleanupAllExpired(7*24*time.Hour, redisClient)
			if err == nil {
				cleanupSuccess = true
				break
			}
			log.Printf("cleanup failed: %v", err)
			retries++
			time.Sleep(retryDelay)
		}

		if !cleanupSuccess {
			log.Printf("cleanup task failed after %d retries. please check the system.", retries)
			SendEmail(
				os.Getenv("ADMIN_EMAIL"),
				"The scheduled report cleanup task failed after multiple attempts.",
				"Report Cleanup Failed",
				"",
			)
		}
	})

	c.Start()

	// Keep this goroutine alive so the cron jobs keep firing
	select {}
}
