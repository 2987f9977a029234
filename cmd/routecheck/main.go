package main

import (
	"context"
	"database/sql"
	"flag"
	"fmt"
	"log"
	"movesmart-route-service/internal/adapters/analytics"
	"movesmart-route-service/internal/adapters/directions"
	"movesmart-route-service/internal/adapters/ledger"
	"movesmart-route-service/internal/adapters/prediction"
	"movesmart-route-service/internal/config"
	"movesmart-route-service/internal/platform/db"
	"movesmart-route-service/internal/platform/obs"
	"movesmart-route-service/internal/platform/timeutil"
	"movesmart-route-service/internal/ports"
	"movesmart-route-service/internal/services"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// routecheck evaluates the candidate routes of a directions response against
// the prediction service, records the recommended route as taken and prints
// the outcome.
func main() {
	dirPath := flag.String("directions", "", "path to a directions JSON response")
	record := flag.Bool("record", true, "record the recommended route in the savings ledger")
	flag.Parse()

	if *dirPath == "" {
		log.Fatal("-directions is required")
	}

	config.LoadDotEnv()
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	if err := run(cfg, *dirPath, *record); err != nil {
		log.Fatal(err)
	}
}

func run(cfg *config.Config, dirPath string, record bool) error {
	ctx := obs.WithRequestID(context.Background(), uuid.NewString())

	f, err := os.Open(dirPath)
	if err != nil {
		return fmt.Errorf("open directions: %w", err)
	}
	dirs, err := directions.Decode(f)
	f.Close()
	if err != nil {
		return err
	}

	clock := timeutil.RealClock{}
	httpClient := &http.Client{}

	model, err := prediction.NewHTTPSegmentPredictor(cfg.Predict.BaseURL, httpClient, clock)
	if err != nil {
		return err
	}
	var predictor ports.SegmentPredictor = model
	if cfg.Predict.Timeout > 0 {
		predictor = services.TimeoutPredictor{Next: model, Timeout: cfg.Predict.Timeout}
	}

	optimizer := services.NewOptimizer(services.NewRouteEvaluator(predictor, cfg.Predict.Parallelism))
	rec, _ := optimizer.Optimize(ctx, services.OptimizeRequest{
		Routes:      dirs.Routes,
		Origin:      dirs.Origin,
		Destination: dirs.Destination,
	})

	best, hasBest := rec.Best()
	for _, e := range rec.Evaluations {
		marker := " "
		if hasBest && e.RouteIndex == best.RouteIndex {
			marker = "*"
		}
		fmt.Printf("%s %-40s predicted=%dmin nominal=%dmin congestion=%.2f predicted_segments=%d fallback_steps=%d\n",
			marker, e.RouteName, e.PredictedRounded(), e.NominalRounded(), e.MeanCongestion,
			e.PredictedSegments, e.FallbackSteps)
	}
	if !hasBest || !record {
		return nil
	}

	store, closeStore, err := openLedgerStore(cfg)
	if err != nil {
		return err
	}
	defer closeStore()

	savings := services.NewSavingsLedger(store, clock, services.LedgerPolicy{
		Retention:         services.RetentionPolicy{Days: cfg.Ledger.RetentionDays},
		FuelLitersPerHour: cfg.Ledger.FuelLitersPerHour,
		Location:          cfg.Ledger.Location,
	})

	sink, err := analytics.NewClient(cfg.Analytics.BaseURL, httpClient)
	if err != nil {
		return err
	}
	tripLogger := services.NewTripLogger(sink, cfg.Analytics.TripLogTimeout)
	defer tripLogger.Wait()

	completer := &services.TripCompleter{Ledger: savings, Logger: tripLogger, Now: clock.Now}
	delta, err := completer.CompleteTrip(ctx, rec)
	if err != nil {
		return err
	}
	fmt.Printf("saved time=%.1fmin fuel=%.2fL\n", delta.TimeSavedMinutes, delta.FuelSavedLiters)

	days, err := savings.Last7Days(ctx)
	if err != nil {
		return err
	}
	for _, d := range days {
		fmt.Printf("  %s %s %dmin\n", d.DayLabel, d.Date, d.Rounded())
	}

	totals, err := savings.Totals(ctx)
	if err != nil {
		return err
	}
	fmt.Printf("total time=%.1fmin fuel=%.2fL trips=%d avg=%.1fmin\n",
		totals.TimeSavedMinutes, totals.FuelSavedLiters, totals.TripCount, totals.AvgTimeSavedPerTripMins)

	return nil
}

func openLedgerStore(cfg *config.Config) (ports.LedgerStore, func(), error) {
	if cfg.Ledger.Backend == "redis" {
		rdb := redis.NewClient(&redis.Options{Addr: cfg.Ledger.RedisAddr})
		pingCtx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()
		if err := rdb.Ping(pingCtx).Err(); err != nil {
			rdb.Close()
			return nil, nil, fmt.Errorf("connect redis addr=%s: %w", cfg.Ledger.RedisAddr, err)
		}
		return ledger.NewRedisLedgerStore(rdb, cfg.Ledger.KeyPrefix), func() { rdb.Close() }, nil
	}

	if err := os.MkdirAll(filepath.Dir(cfg.Ledger.Path), 0o755); err != nil {
		return nil, nil, fmt.Errorf("create ledger dir for %q: %w", cfg.Ledger.Path, err)
	}
	conn, err := db.OpenSQLite(cfg.Ledger.Path)
	if err != nil {
		return nil, nil, err
	}
	if err := ledger.InitSchema(conn); err != nil {
		conn.Close()
		return nil, nil, err
	}
	return ledger.NewSqliteLedgerStore(conn), func() { closeDB(conn) }, nil
}

func closeDB(conn *sql.DB) {
	if err := conn.Close(); err != nil {
		log.Printf("close ledger db: %v", err)
	}
}
