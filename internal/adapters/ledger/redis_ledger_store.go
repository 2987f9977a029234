package ledger

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"movesmart-route-service/internal/domain"
	"movesmart-route-service/internal/platform/obs"
	"slices"
	"strconv"
	"strings"

	"github.com/redis/go-redis/v9"
)

// Redis-backed LedgerStore keeping the key/value layout of the browser
// ledger: string-encoded JSON under <prefix>daily_stats, plus the user id and
// the total-time-saved mirror as plain strings.
type RedisLedgerStore struct {
	rdb    redis.UniversalClient
	prefix string
}

func NewRedisLedgerStore(rdb redis.UniversalClient, prefix string) *RedisLedgerStore {
	return &RedisLedgerStore{rdb: rdb, prefix: prefix}
}

func (s *RedisLedgerStore) key(name string) string { return s.prefix + name }

func (s *RedisLedgerStore) LoadDailyStats(ctx context.Context) ([]domain.DailyStat, error) {
	raw, err := s.rdb.Get(ctx, s.key("daily_stats")).Result()
	if errors.Is(err, redis.Nil) {
		return []domain.DailyStat{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load daily stats: redis get: %w", err)
	}

	var stats []domain.DailyStat
	if err := json.Unmarshal([]byte(raw), &stats); err != nil {
		return nil, fmt.Errorf("load daily stats: parse json: %w", err)
	}
	slices.SortFunc(stats, func(a, b domain.DailyStat) int { return strings.Compare(a.Date, b.Date) })
	return stats, nil
}

// ReplaceDailyStats writes both keys in a MULTI/EXEC transaction.
func (s *RedisLedgerStore) ReplaceDailyStats(
	ctx context.Context,
	stats []domain.DailyStat,
	totalTimeSaved float64,
) (err error) {
	defer obs.Time(ctx, "ledger.redis.ReplaceDailyStats")(&err)

	if stats == nil {
		stats = []domain.DailyStat{}
	}
	payload, err := json.Marshal(stats)
	if err != nil {
		return fmt.Errorf("replace daily stats: marshal: %w", err)
	}

	_, err = s.rdb.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, s.key("daily_stats"), payload, 0)
		pipe.Set(ctx, s.key("total_time_saved"), strconv.FormatFloat(totalTimeSaved, 'f', -1, 64), 0)
		return nil
	})
	if err != nil {
		return fmt.Errorf("replace daily stats: redis exec: %w", err)
	}
	return nil
}

func (s *RedisLedgerStore) LoadTotalTimeSaved(ctx context.Context) (float64, error) {
	v, err := s.rdb.Get(ctx, s.key("total_time_saved")).Float64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("load total time saved: %w", err)
	}
	return v, nil
}

func (s *RedisLedgerStore) LoadUserID(ctx context.Context) (string, bool, error) {
	v, err := s.rdb.Get(ctx, s.key("user_id")).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("load user id: %w", err)
	}
	return v, true, nil
}

func (s *RedisLedgerStore) SaveUserID(ctx context.Context, id string) error {
	if err := s.rdb.Set(ctx, s.key("user_id"), id, 0).Err(); err != nil {
		return fmt.Errorf("save user id: %w", err)
	}
	return nil
}
