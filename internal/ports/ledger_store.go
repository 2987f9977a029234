package ports

import (
	"context"
	"movesmart-route-service/internal/domain"
)

// Port: persisted local savings state. Owned exclusively by the savings ledger.
type LedgerStore interface {
	// Return all retained daily stats ordered by date.
	LoadDailyStats(ctx context.Context) ([]domain.DailyStat, error)
	// Atomically replace the daily stats and the total-time-saved mirror.
	ReplaceDailyStats(ctx context.Context, stats []domain.DailyStat, totalTimeSaved float64) error
	// Return the persisted total-time-saved mirror (0 when never written).
	LoadTotalTimeSaved(ctx context.Context) (float64, error)
	// Return the anonymous user id, or ok=false when none was stored yet.
	LoadUserID(ctx context.Context) (id string, ok bool, err error)
	SaveUserID(ctx context.Context, id string) error
}
