package store

import (
	"context"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

// Redis wraps the redis client.
type Redis struct {
	Client *redis.Client
}

// NewRedis connects to redis with short timeouts.
func NewRedis(addr string) *Redis {
	client := redis.NewClient(&redis.Options{
		Addr:         addr,
		DialTimeout:  2 * time.Second,
		ReadTimeout:  1 * time.Second,
		WriteTimeout: 1 * time.Second,
	})
	return &Redis{Client: client}
}

// Healthy verifies redis connectivity.
func (r *Redis) Healthy(ctx context.Context) bool {
	if r == nil || r.Client == nil {
		return false
	}
	return r.Client.Ping(ctx).Err() == nil
}

// LiveCounts is the worker-maintained per-lecture tally shown on live
// dashboards. It mirrors the ledger, it is not the source of truth.
type LiveCounts struct {
	Present int64 `json:"present"`
	Absent  int64 `json:"absent"`
	Total   int64 `json:"total"`
}

func liveKey(lectureID int64) string {
	return "classattend:lecture:" + strconv.FormatInt(lectureID, 10) + ":live"
}

// SetLiveCounts overwrites the live tally for a lecture.
func (r *Redis) SetLiveCounts(ctx context.Context, lectureID int64, counts LiveCounts) error {
	return r.Client.HSet(ctx, liveKey(lectureID),
		"present", counts.Present,
		"absent", counts.Absent,
		"total", counts.Total,
	).Err()
}

// GetLiveCounts returns the live tally for a lecture. A lecture with no
// tally yet reads as all zeroes.
func (r *Redis) GetLiveCounts(ctx context.Context, lectureID int64) (LiveCounts, error) {
	vals, err := r.Client.HGetAll(ctx, liveKey(lectureID)).Result()
	if err != nil {
		return LiveCounts{}, err
	}
	var counts LiveCounts
	counts.Present, _ = strconv.ParseInt(vals["present"], 10, 64)
	counts.Absent, _ = strconv.ParseInt(vals["absent"], 10, 64)
	counts.Total, _ = strconv.ParseInt(vals["total"], 10, 64)
	return counts, nil
}

// DeleteLiveCounts removes the tally, used when a lecture is deleted.
func (r *Redis) DeleteLiveCounts(ctx context.Context, lectureID int64) error {
	return r.Client.Del(ctx, liveKey(lectureID)).Err()
}
