// Command enqueue submits a maintenance job to the worker queue on demand,
// without waiting for the cron schedule.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/hibiken/asynq"

	"github.com/vendora/vendora/jobs"
)

func main() {
	redisAddr := flag.String("redis", getenv("REDIS_ADDR", "127.0.0.1:6379"), "redis address")
	maxAge := flag.Duration("max-age", 24*time.Hour, "pending-order age before expiry (order_expiry only)")
	flag.Parse()

	task := flag.Arg(0)
	if task == "" {
		log.Fatalf("usage: enqueue [-redis addr] [-max-age d] override_sweep|order_expiry")
	}

	client, err := jobs.NewClient(asynq.RedisClientOpt{Addr: *redisAddr})
	if err != nil {
		log.Fatalf("connect queue: %v", err)
	}
	defer func() { _ = client.Close() }()

	ctx := context.Background()
	var info *asynq.TaskInfo
	switch task {
	case "override_sweep":
		info, err = client.EnqueueOverrideSweep(ctx)
	case "order_expiry":
		info, err = client.EnqueueOrderExpiry(ctx, *maxAge)
	default:
		log.Fatalf("unknown task %q", task)
	}
	if err != nil {
		log.Fatalf("enqueue %s: %v", task, err)
	}
	fmt.Printf("enqueued %s id=%s queue=%s\n", task, info.ID, info.Queue)
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
