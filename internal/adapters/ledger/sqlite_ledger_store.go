package ledger

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"movesmart-route-service/internal/domain"
	"movesmart-route-service/internal/platform/obs"
	"strconv"
	"strings"
)

const (
	metaUserID         = "user_id"
	metaTotalTimeSaved = "total_time_saved"
)

// SQLite-backed LedgerStore. Daily stats live in a table keyed by date.
type SqliteLedgerStore struct {
	DB *sql.DB
}

func NewSqliteLedgerStore(db *sql.DB) *SqliteLedgerStore {
	return &SqliteLedgerStore{DB: db}
}

func (s *SqliteLedgerStore) LoadDailyStats(ctx context.Context) ([]domain.DailyStat, error) {
	if s.DB == nil {
		return nil, errors.New("sqlite ledger store: DB is nil")
	}

	query := `
	SELECT
		date,
		time_saved_minutes,
		fuel_saved_liters,
		trip_count
	FROM daily_stats
	ORDER BY date;
	`
	rows, err := s.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("load daily stats: query daily_stats table: %w", err)
	}
	defer rows.Close()

	stats := make([]domain.DailyStat, 0, 32)
	for rows.Next() {
		var st domain.DailyStat
		if err := rows.Scan(&st.Date, &st.TimeSavedMinutes, &st.FuelSavedLiters, &st.TripCount); err != nil {
			return nil, fmt.Errorf("load daily stats: scan row: %w", err)
		}
		stats = append(stats, st)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("load daily stats: row iteration: %w", err)
	}

	return stats, nil
}

// ReplaceDailyStats swaps the whole table and the mirror in one transaction.
func (s *SqliteLedgerStore) ReplaceDailyStats(
	ctx context.Context,
	stats []domain.DailyStat,
	totalTimeSaved float64,
) (err error) {
	defer obs.Time(ctx, "ledger.sqlite.ReplaceDailyStats")(&err)

	if s.DB == nil {
		return errors.New("sqlite ledger store: DB is nil")
	}

	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("replace daily stats: db begin: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `DELETE FROM daily_stats;`); err != nil {
		return fmt.Errorf("replace daily stats: clear: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
	INSERT INTO daily_stats (
		date,
		time_saved_minutes,
		fuel_saved_liters,
		trip_count
	)
	VALUES (?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("replace daily stats: db prepare: %w", err)
	}
	defer stmt.Close()

	for _, st := range stats {
		if strings.TrimSpace(st.Date) == "" {
			return errors.New("replace daily stats: empty date key")
		}
		if _, err := stmt.ExecContext(ctx, st.Date, st.TimeSavedMinutes, st.FuelSavedLiters, st.TripCount); err != nil {
			return fmt.Errorf("replace daily stats date=%q: %w", st.Date, err)
		}
	}

	if err := putMeta(ctx, tx, metaTotalTimeSaved, strconv.FormatFloat(totalTimeSaved, 'f', -1, 64)); err != nil {
		return fmt.Errorf("replace daily stats: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("replace daily stats commit: %w", err)
	}

	return nil
}

func (s *SqliteLedgerStore) LoadTotalTimeSaved(ctx context.Context) (float64, error) {
	v, ok, err := s.getMeta(ctx, metaTotalTimeSaved)
	if err != nil || !ok {
		return 0, err
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, fmt.Errorf("load total time saved: parse %q: %w", v, err)
	}
	return f, nil
}

func (s *SqliteLedgerStore) LoadUserID(ctx context.Context) (string, bool, error) {
	return s.getMeta(ctx, metaUserID)
}

func (s *SqliteLedgerStore) SaveUserID(ctx context.Context, id string) error {
	if s.DB == nil {
		return errors.New("sqlite ledger store: DB is nil")
	}
	return putMeta(ctx, s.DB, metaUserID, id)
}

func (s *SqliteLedgerStore) getMeta(ctx context.Context, key string) (string, bool, error) {
	if s.DB == nil {
		return "", false, errors.New("sqlite ledger store: DB is nil")
	}

	var v string
	err := s.DB.QueryRowContext(ctx, `SELECT value FROM ledger_meta WHERE key = ?;`, key).Scan(&v)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("get ledger meta %q: %w", key, err)
	}
	return v, true, nil
}

type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

func putMeta(ctx context.Context, db execer, key, value string) error {
	if _, err := db.ExecContext(ctx, `INSERT OR REPLACE INTO ledger_meta (key, value) VALUES (?, ?);`, key, value); err != nil {
		return fmt.Errorf("put ledger meta %q: %w", key, err)
	}
	return nil
}
