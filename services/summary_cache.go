package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/kendall-kelly/printshop-api/ledger"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const (
	summaryCacheKey      = "printshop:dashboard:summary"
	summaryGenerationKey = "printshop:dashboard:generation"
)

// SummaryCache caches the dashboard summary between writes.
//
// Every Invalidate bumps a generation. Readers take the generation before
// computing and pass it to Set, which drops the value when a write has
// invalidated the cache in between.
type SummaryCache interface {
	// Get returns ok=false on a miss
	Get(ctx context.Context) (summary *ledger.Summary, ok bool, err error)
	Generation(ctx context.Context) (int64, error)
	Set(ctx context.Context, generation int64, summary *ledger.Summary) error
	Invalidate(ctx context.Context) error
}

// RedisSummaryCache keeps the summary as JSON under a single key
type RedisSummaryCache struct {
	client *redis.Client
	ttl    time.Duration
	log    *zap.Logger
}

// NewRedisSummaryCache connects and pings the server
func NewRedisSummaryCache(addr, password string, db int, ttl time.Duration, log *zap.Logger) (*RedisSummaryCache, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	log.Info("Redis connected successfully", zap.String("addr", addr))

	return NewRedisSummaryCacheWithClient(rdb, ttl, log), nil
}

// NewRedisSummaryCacheWithClient wraps an existing client
func NewRedisSummaryCacheWithClient(client *redis.Client, ttl time.Duration, log *zap.Logger) *RedisSummaryCache {
	return &RedisSummaryCache{client: client, ttl: ttl, log: log}
}

func (r *RedisSummaryCache) Get(ctx context.Context) (*ledger.Summary, bool, error) {
	raw, err := r.client.Get(ctx, summaryCacheKey).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}

	var s ledger.Summary
	if err := json.Unmarshal(raw, &s); err != nil {
		return nil, false, fmt.Errorf("decode cached summary: %w", err)
	}
	return &s, true, nil
}

func (r *RedisSummaryCache) Generation(ctx context.Context) (int64, error) {
	return readGeneration(ctx, r.client)
}

// Set writes the summary under WATCH on the generation key, so a concurrent
// Invalidate aborts the transaction.
func (r *RedisSummaryCache) Set(ctx context.Context, generation int64, summary *ledger.Summary) error {
	raw, err := json.Marshal(summary)
	if err != nil {
		return err
	}

	err = r.client.Watch(ctx, func(tx *redis.Tx) error {
		current, err := readGeneration(ctx, tx)
		if err != nil {
			return err
		}
		if current != generation {
			return errStaleSummary
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, summaryCacheKey, raw, r.ttl)
			return nil
		})
		return err
	}, summaryGenerationKey)

	if errors.Is(err, errStaleSummary) || errors.Is(err, redis.TxFailedErr) {
		r.log.Debug("skipped stale summary", zap.Int64("generation", generation))
		return nil
	}
	return err
}

func (r *RedisSummaryCache) Invalidate(ctx context.Context) error {
	_, err := r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Incr(ctx, summaryGenerationKey)
		pipe.Del(ctx, summaryCacheKey)
		return nil
	})
	return err
}

func (r *RedisSummaryCache) Close() error {
	return r.client.Close()
}

var errStaleSummary = errors.New("summary generation changed")

func readGeneration(ctx context.Context, c interface {
	Get(ctx context.Context, key string) *redis.StringCmd
}) (int64, error) {
	gen, err := c.Get(ctx, summaryGenerationKey).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	return gen, err
}

// NoopSummaryCache never hits
type NoopSummaryCache struct{}

func (NoopSummaryCache) Get(context.Context) (*ledger.Summary, bool, error) { return nil, false, nil }
func (NoopSummaryCache) Generation(context.Context) (int64, error)          { return 0, nil }
func (NoopSummaryCache) Set(context.Context, int64, *ledger.Summary) error { return nil }
func (NoopSummaryCache) Invalidate(context.Context) error                  { return nil }
