package services

import (
	"context"
	"fmt"
	"log"
	"movesmart-route-service/internal/domain"
	"movesmart-route-service/internal/platform/timeutil"
	"movesmart-route-service/internal/ports"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

const (
	DefaultRetentionDays     = 30
	DefaultFuelLitersPerHour = 2.0
)

// RetentionPolicy evicts daily stats older than Days before the write date.
// A stat exactly Days old is retained.
type RetentionPolicy struct {
	Days int
}

// Apply returns the stats dated on or after today minus p.Days, in date order.
func (p RetentionPolicy) Apply(stats []domain.DailyStat, today time.Time) []domain.DailyStat {
	cutoff := startOfDay(today).AddDate(0, 0, -p.Days)

	kept := make([]domain.DailyStat, 0, len(stats))
	for _, s := range stats {
		day, err := s.Day(today.Location())
		if err != nil {
			log.Printf("ledger: dropping stat with malformed date=%q: %v", s.Date, err)
			continue
		}
		if day.Before(cutoff) {
			continue
		}
		kept = append(kept, s)
	}

	slices.SortFunc(kept, func(a, b domain.DailyStat) int { return strings.Compare(a.Date, b.Date) })
	return kept
}

type LedgerPolicy struct {
	Retention         RetentionPolicy
	FuelLitersPerHour float64
	// Location decides which calendar day a trip belongs to.
	Location *time.Location
}

func DefaultLedgerPolicy() LedgerPolicy {
	return LedgerPolicy{
		Retention:         RetentionPolicy{Days: DefaultRetentionDays},
		FuelLitersPerHour: DefaultFuelLitersPerHour,
		Location:          time.UTC,
	}
}

// SavingsLedger owns the rolling day-bucketed record of realized savings.
// Every write is a single read-modify-write against the store, serialized
// within the process.
type SavingsLedger struct {
	store  ports.LedgerStore
	clock  timeutil.Clock
	policy LedgerPolicy

	mu sync.Mutex
}

func NewSavingsLedger(store ports.LedgerStore, clock timeutil.Clock, policy LedgerPolicy) *SavingsLedger {
	if clock == nil {
		clock = timeutil.RealClock{}
	}
	if policy.Location == nil {
		policy.Location = time.UTC
	}
	return &SavingsLedger{store: store, clock: clock, policy: policy}
}

// ComputeSavings derives the savings for a selection. raw is the unfloored
// difference; delta is what the ledger accumulates.
func (l *SavingsLedger) ComputeSavings(nominalBestMinutes, predictedBestMinutes float64) (raw float64, delta domain.SavingsDelta) {
	raw = nominalBestMinutes - predictedBestMinutes
	if raw > 0 {
		delta.TimeSavedMinutes = raw
		delta.FuelSavedLiters = (raw / 60) * l.policy.FuelLitersPerHour
	}
	return raw, delta
}

// RecordTrip merges one completed selection into today's bucket, applies the
// retention policy and persists the result.
func (l *SavingsLedger) RecordTrip(
	ctx context.Context,
	nominalBestMinutes float64,
	predictedBestMinutes float64,
) (_ domain.SavingsDelta, err error) {
	defer func() {
		if err != nil {
			err = fmt.Errorf("record trip: %w", err)
		}
	}()

	_, delta := l.ComputeSavings(nominalBestMinutes, predictedBestMinutes)

	l.mu.Lock()
	defer l.mu.Unlock()

	stats, err := l.store.LoadDailyStats(ctx)
	if err != nil {
		return domain.SavingsDelta{}, fmt.Errorf("load daily stats: %w", err)
	}

	today := l.today()
	key := today.Format(domain.DateLayout)

	merged := false
	for i := range stats {
		if stats[i].Date == key {
			stats[i].TimeSavedMinutes += delta.TimeSavedMinutes
			stats[i].FuelSavedLiters += delta.FuelSavedLiters
			stats[i].TripCount++
			merged = true
			break
		}
	}
	if !merged {
		stats = append(stats, domain.DailyStat{
			Date:             key,
			TimeSavedMinutes: delta.TimeSavedMinutes,
			FuelSavedLiters:  delta.FuelSavedLiters,
			TripCount:        1,
		})
	}

	retained := l.policy.Retention.Apply(stats, today)

	if err := l.store.ReplaceDailyStats(ctx, retained, sumTotals(retained).TimeSavedMinutes); err != nil {
		return domain.SavingsDelta{}, fmt.Errorf("persist daily stats: %w", err)
	}

	return delta, nil
}

// Last7Days returns exactly seven entries, six days ago through today,
// zero-filled for days without a stat.
func (l *SavingsLedger) Last7Days(ctx context.Context) ([]domain.DaySavings, error) {
	stats, err := l.store.LoadDailyStats(ctx)
	if err != nil {
		return nil, fmt.Errorf("last 7 days: %w", err)
	}

	byDate := make(map[string]float64, len(stats))
	for _, s := range stats {
		byDate[s.Date] += s.TimeSavedMinutes
	}

	today := l.today()
	out := make([]domain.DaySavings, 0, 7)
	for i := 6; i >= 0; i-- {
		d := today.AddDate(0, 0, -i)
		key := d.Format(domain.DateLayout)
		out = append(out, domain.DaySavings{
			Date:             key,
			DayLabel:         d.Format("Mon"),
			TimeSavedMinutes: byDate[key],
		})
	}
	return out, nil
}

// Totals sums every retained stat.
func (l *SavingsLedger) Totals(ctx context.Context) (domain.SavingsTotals, error) {
	stats, err := l.store.LoadDailyStats(ctx)
	if err != nil {
		return domain.SavingsTotals{}, fmt.Errorf("totals: %w", err)
	}
	return sumTotals(stats), nil
}

// TotalTimeSaved reads the persisted quick-display mirror.
func (l *SavingsLedger) TotalTimeSaved(ctx context.Context) (float64, error) {
	v, err := l.store.LoadTotalTimeSaved(ctx)
	if err != nil {
		return 0, fmt.Errorf("total time saved: %w", err)
	}
	return v, nil
}

// UserID returns the anonymous user identifier, generating and persisting
// one on first use.
func (l *SavingsLedger) UserID(ctx context.Context) (string, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	id, ok, err := l.store.LoadUserID(ctx)
	if err != nil {
		return "", fmt.Errorf("user id: load: %w", err)
	}
	if ok && id != "" {
		return id, nil
	}

	id = uuid.NewString()
	if err := l.store.SaveUserID(ctx, id); err != nil {
		return "", fmt.Errorf("user id: save: %w", err)
	}
	return id, nil
}

func (l *SavingsLedger) today() time.Time {
	return startOfDay(l.clock.Now().In(l.policy.Location))
}

func startOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

func sumTotals(stats []domain.DailyStat) domain.SavingsTotals {
	var t domain.SavingsTotals
	for _, s := range stats {
		t.TimeSavedMinutes += s.TimeSavedMinutes
		t.FuelSavedLiters += s.FuelSavedLiters
		t.TripCount += s.TripCount
	}
	if t.TripCount > 0 {
		t.AvgTimeSavedPerTripMins = t.TimeSavedMinutes / float64(t.TripCount)
	}
	return t
}
