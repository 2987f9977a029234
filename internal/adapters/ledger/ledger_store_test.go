package ledger

import (
	"context"
	"path/filepath"
	"testing"

	"movesmart-route-service/internal/domain"
	"movesmart-route-service/internal/platform/db"
	"movesmart-route-service/internal/ports"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newSqliteStore(t *testing.T) *SqliteLedgerStore {
	t.Helper()
	conn, err := db.OpenSQLite(filepath.Join(t.TempDir(), "ledger.db"))
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	require.NoError(t, InitSchema(conn))
	return NewSqliteLedgerStore(conn)
}

func newRedisStore(t *testing.T) (*RedisLedgerStore, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { rdb.Close() })
	return NewRedisLedgerStore(rdb, "movesmart_"), mr
}

func exerciseLedgerStore(t *testing.T, store ports.LedgerStore) {
	ctx := context.Background()

	stats, err := store.LoadDailyStats(ctx)
	require.NoError(t, err)
	assert.Empty(t, stats)

	total, err := store.LoadTotalTimeSaved(ctx)
	require.NoError(t, err)
	assert.Zero(t, total)

	_, ok, err := store.LoadUserID(ctx)
	require.NoError(t, err)
	assert.False(t, ok)

	first := []domain.DailyStat{
		{Date: "2026-10-12", TimeSavedMinutes: 5, FuelSavedLiters: 0.25, TripCount: 1},
		{Date: "2026-10-13", TimeSavedMinutes: 2.5, FuelSavedLiters: 0.125, TripCount: 2},
	}
	require.NoError(t, store.ReplaceDailyStats(ctx, first, 7.5))

	stats, err = store.LoadDailyStats(ctx)
	require.NoError(t, err)
	assert.Equal(t, first, stats)

	// A replace drops rows that are not in the new set.
	second := []domain.DailyStat{
		{Date: "2026-10-13", TimeSavedMinutes: 2.5, FuelSavedLiters: 0.125, TripCount: 2},
	}
	require.NoError(t, store.ReplaceDailyStats(ctx, second, 2.5))

	stats, err = store.LoadDailyStats(ctx)
	require.NoError(t, err)
	assert.Equal(t, second, stats)

	total, err = store.LoadTotalTimeSaved(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2.5, total)

	require.NoError(t, store.SaveUserID(ctx, "c0ffee00-0000-4000-8000-000000000001"))
	id, ok, err := store.LoadUserID(ctx)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "c0ffee00-0000-4000-8000-000000000001", id)
}

func TestSqliteLedgerStore(t *testing.T) {
	exerciseLedgerStore(t, newSqliteStore(t))
}

func TestRedisLedgerStore(t *testing.T) {
	store, _ := newRedisStore(t)
	exerciseLedgerStore(t, store)
}

func TestRedisLedgerStoreUsesStringEncodedJSON(t *testing.T) {
	store, mr := newRedisStore(t)
	ctx := context.Background()

	require.NoError(t, store.ReplaceDailyStats(ctx, []domain.DailyStat{
		{Date: "2026-10-14", TimeSavedMinutes: 5, FuelSavedLiters: 0.5, TripCount: 1},
	}, 5))

	raw, err := mr.Get("movesmart_daily_stats")
	require.NoError(t, err)
	assert.JSONEq(t, `[{"date":"2026-10-14","timeSaved":5,"fuelSaved":0.5,"tripCount":1}]`, raw)

	mirror, err := mr.Get("movesmart_total_time_saved")
	require.NoError(t, err)
	assert.Equal(t, "5", mirror)
}

func TestRedisLedgerStoreRejectsCorruptJSON(t *testing.T) {
	store, mr := newRedisStore(t)
	require.NoError(t, mr.Set("movesmart_daily_stats", "{not json"))

	_, err := store.LoadDailyStats(context.Background())
	assert.Error(t, err)
}

func TestSqliteReplaceRejectsEmptyDateAndKeepsPriorState(t *testing.T) {
	store := newSqliteStore(t)
	ctx := context.Background()

	prior := []domain.DailyStat{{Date: "2026-10-14", TimeSavedMinutes: 1, TripCount: 1}}
	require.NoError(t, store.ReplaceDailyStats(ctx, prior, 1))

	err := store.ReplaceDailyStats(ctx, []domain.DailyStat{{Date: " "}}, 0)
	require.Error(t, err)

	stats, err := store.LoadDailyStats(ctx)
	require.NoError(t, err)
	assert.Equal(t, prior, stats)
}

func TestLedgerStoresReturnStatsInDateOrder(t *testing.T) {
	redisStore, _ := newRedisStore(t)
	stores := map[string]ports.LedgerStore{
		"sqlite": newSqliteStore(t),
		"redis":  redisStore,
	}

	unsorted := []domain.DailyStat{
		{Date: "2026-10-14", TimeSavedMinutes: 3, TripCount: 1},
		{Date: "2026-09-20", TimeSavedMinutes: 1, TripCount: 1},
		{Date: "2026-10-02", TimeSavedMinutes: 2, TripCount: 1},
	}
	want := []string{"2026-09-20", "2026-10-02", "2026-10-14"}

	for name, store := range stores {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			require.NoError(t, store.ReplaceDailyStats(ctx, unsorted, 6))

			stats, err := store.LoadDailyStats(ctx)
			require.NoError(t, err)

			got := make([]string, 0, len(stats))
			for _, s := range stats {
				got = append(got, s.Date)
			}
			assert.Equal(t, want, got)
		})
	}
}

func TestRedisLedgerStoreSortsExternallyWrittenStats(t *testing.T) {
	store, mr := newRedisStore(t)
	require.NoError(t, mr.Set("movesmart_daily_stats",
		`[{"date":"2026-10-14","timeSaved":2,"fuelSaved":0,"tripCount":1},{"date":"2026-10-13","timeSaved":1,"fuelSaved":0,"tripCount":1}]`))

	stats, err := store.LoadDailyStats(context.Background())
	require.NoError(t, err)
	require.Len(t, stats, 2)
	assert.Equal(t, "2026-10-13", stats[0].Date)
	assert.Equal(t, "2026-10-14", stats[1].Date)
}
