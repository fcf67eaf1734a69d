package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"classattend/internal/attendance"
	"classattend/internal/config"
	"classattend/internal/queue"
	"classattend/internal/store"
)

// Worker consumes attendance.marked messages and refreshes the redis live
// tally for the affected lecture.
func main() {
	cfg := config.Load()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		log.Println("shutdown signal received")
		cancel()
	}()

	db, err := store.NewDB(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("db connect failed: %v", err)
	}
	defer db.Close()

	redisClient := store.NewRedis(cfg.RedisAddr)

	var q queue.Queue
	if cfg.QueueBackend == "memory" {
		q = queue.NewInMemory(64)
	} else {
		q = queue.NewRedisQueue(redisClient.Client, "classattend:marks")
	}

	repo := attendance.NewRepository(db.Client)

	messages, err := q.Consume(ctx)
	if err != nil {
		log.Fatalf("queue consume init failed: %v", err)
	}

	log.Println("worker started, waiting for messages...")
	for msg := range messages {
		if msg.Type != queue.TypeAttendanceMarked {
			continue
		}

		payload, err := queue.DecodeMarked(msg)
		if err != nil {
			log.Printf("decode message %s failed: %v", msg.ID, err)
			continue
		}

		total, present, err := repo.CountForLecture(ctx, payload.LectureID)
		if err != nil {
			log.Printf("count lecture %d failed: %v", payload.LectureID, err)
			continue
		}

		counts := store.LiveCounts{Present: present, Absent: total - present, Total: total}
		if err := redisClient.SetLiveCounts(ctx, payload.LectureID, counts); err != nil {
			log.Printf("set live counts for lecture %d failed: %v", payload.LectureID, err)
			continue
		}
		log.Printf("lecture %d live counts: %d/%d present", payload.LectureID, present, total)
	}

	log.Println("worker stopped")
}
