// Package redis provides Redis-backed persistence for CSRF sessions along
// with client initialization and health checking.
//
// This package wraps the go-redis client with connection validation and
// retry logic, and implements the token.Store interface on top of it.
// Sessions are stored as hashes, the token generation counter as a single
// key updated atomically through a Lua script.
//
// # Key Features
//
//   - Connect: Creates a Redis client with retry logic and connection verification
//   - Healthcheck: Returns a health check function for monitoring Redis connectivity
//   - Store: token.Store implementation with optional native key expiration
//
// Connection establishment validates the Redis URL format, attempts
// connection with retries, and verifies connectivity with a ping operation
// before returning the client.
//
// # Configuration
//
// All configuration is handled through the Config struct with environment variable mapping:
//
//	type Config struct {
//		ConnectionURL  string        `env:"REDIS_URL,required" envDefault:"redis://localhost:6379/0"`
//		RetryAttempts  int           `env:"REDIS_RETRY_ATTEMPTS" envDefault:"3"`
//		RetryInterval  time.Duration `env:"REDIS_RETRY_INTERVAL" envDefault:"5s"`
//		ConnectTimeout time.Duration `env:"REDIS_CONNECT_TIMEOUT" envDefault:"30s"`
//		ScanBatchSize  int           `env:"REDIS_SCAN_BATCH_SIZE" envDefault:"1000"`
//	}
//
// The configuration supports both redis:// and rediss:// (TLS) URL schemes.
//
// # Usage Example
//
//	package main
//
//	import (
//		"context"
//		"log"
//		"time"
//
//		"github.com/dmitrymomot/csrfkit/core/token"
//		"github.com/dmitrymomot/csrfkit/integration/database/redis"
//	)
//
//	func main() {
//		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
//		defer cancel()
//
//		cfg := redis.Config{
//			ConnectionURL:  "redis://localhost:6379/0",
//			RetryAttempts:  3,
//			RetryInterval:  5 * time.Second,
//			ConnectTimeout: 30 * time.Second,
//		}
//
//		client, err := redis.Connect(ctx, cfg)
//		if err != nil {
//			log.Fatal("Failed to connect to Redis:", err)
//		}
//		defer client.Close()
//
//		store := redis.NewStore(client, redis.WithTTL(30*time.Minute))
//		manager, err := token.NewManager(store)
//		if err != nil {
//			log.Fatal(err)
//		}
//		_ = manager
//	}
//
// # Session Expiration
//
// With WithTTL configured, session keys expire natively and Redis reclaims
// them without any sweeping. DeleteExpired still honors its contract by
// scanning for sessions issued before the cutoff, which matters when the TTL
// is absent or out of sync with the token manager's expiry window. The
// ScanBatchSize option controls the SCAN page size used by that pass.
//
// # Counter Atomicity
//
// The token generation counter is incremented and wrapped back to zero in a
// single Lua script, so concurrent requests cannot observe a partial update
// and the reseed threshold crossing is reported to exactly one caller per
// cycle.
//
// # Health Checking
//
// The health check performs a ping suitable for Kubernetes
// readiness/liveness probes or HTTP health endpoints:
//
//	healthCheck := redis.Healthcheck(client)
//
//	http.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
//		if err := healthCheck(r.Context()); err != nil {
//			http.Error(w, "Redis unhealthy", http.StatusServiceUnavailable)
//			return
//		}
//		w.WriteHeader(http.StatusOK)
//	})
//
// # Error Handling
//
// The package defines domain-specific errors that can be checked using errors.Is():
//
//   - ErrFailedToParseRedisConnString: Returned when the Redis connection URL is malformed
//   - ErrRedisNotReady: Returned when Redis doesn't become ready within the timeout period
//   - ErrEmptyConnectionURL: Returned when no connection URL is provided
//   - ErrHealthcheckFailed: Returned when health check ping fails
//
// These errors wrap the underlying go-redis client errors while providing
// stable error types for application-level error handling and retry logic.
package redis
