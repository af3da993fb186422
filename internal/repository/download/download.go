package download

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/redis/go-redis/v9"
)

const (
	KeyPrefix    = "jncepweb"
	KeyFileStats = "fs" // HASH. Maps a stable hash of a file name to its download counter. HINCRBY jncepweb:fs {file_hash} 1

	KeySeparator = ":"
)

type downloadRepository struct {
	cl  *redis.Client
	log *slog.Logger
}

// NewDownloadRepository connects to redisURL and checks the connection.
func NewDownloadRepository(ctx context.Context, redisURL string, log *slog.Logger) (*downloadRepository, error) {
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("cannot parse redis url: %w", err)
	}

	cl := redis.NewClient(opt)
	if _, err := cl.Ping(ctx).Result(); err != nil {
		cl.Close()

		return nil, fmt.Errorf("cannot ping redis: %w", err)
	}

	return NewDownloadRepositoryWithClient(cl, log), nil
}

func NewDownloadRepositoryWithClient(cl *redis.Client, log *slog.Logger) *downloadRepository {
	return &downloadRepository{
		cl:  cl,
		log: log.With(slog.String("item", "DownloadRepository")),
	}
}

func (r *downloadRepository) IncFileCounter(ctx context.Context, id string) (int64, error) {
	counter, err := r.cl.HIncrBy(ctx, getKey(KeyPrefix, KeyFileStats), id, 1).Result()
	if err != nil {
		return 0, fmt.Errorf("cannot increment file %s counter: %w", id, err)
	}

	return counter, nil
}

// GetFileCounters returns counters for ids. Files never downloaded are reported as 0.
func (r *downloadRepository) GetFileCounters(ctx context.Context, ids []string) (map[string]int64, error) {
	counters := make(map[string]int64, len(ids))
	if len(ids) < 1 {
		return counters, nil
	}

	vals, err := r.cl.HMGet(ctx, getKey(KeyPrefix, KeyFileStats), ids...).Result()
	if err != nil && !errors.Is(err, redis.Nil) {
		return nil, fmt.Errorf("cannot get file counters: %w", err)
	}

	for i, id := range ids {
		counters[id] = 0
		if i >= len(vals) || vals[i] == nil {
			continue
		}

		str, ok := vals[i].(string)
		if !ok {
			continue
		}

		c, err := strconv.ParseInt(str, 10, 64)
		if err != nil {
			r.log.Error("Cannot convert counter value", slog.String("file_id", id), slog.Any("error", err))

			continue
		}

		counters[id] = c
	}

	return counters, nil
}

func (r *downloadRepository) Close() error {
	return r.cl.Close()
}

func getKey(keys ...string) string {
	return strings.Join(keys, KeySeparator)
}
