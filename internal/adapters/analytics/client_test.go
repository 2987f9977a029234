package analytics

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"movesmart-route-service/internal/domain"
	"movesmart-route-service/internal/platform/httpx"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, h http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)

	c, err := NewClient(srv.URL, srv.Client())
	require.NoError(t, err)
	c.queries.Policy.InitialBackoff = time.Millisecond
	return c
}

func TestLogTripPostsCamelCasePayload(t *testing.T) {
	var got map[string]any
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/log_trip", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusCreated)
	})

	err := c.LogTrip(context.Background(), domain.TripRecord{
		UserID:              "9b2f",
		Origin:              "36.8,-1.29",
		Destination:         "36.9,-1.31",
		TimeSavedMinutes:    -1.5,
		FuelSavedLiters:     0,
		AIRouteTime:         15,
		StandardRouteTime:   13.5,
		RouteName:           "Route 1 (Uhuru Highway)",
		PredictedCongestion: 0.4,
		Timestamp:           time.Date(2026, 10, 14, 7, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)

	assert.Equal(t, "9b2f", got["userId"])
	assert.Equal(t, -1.5, got["timeSavedMinutes"])
	assert.Equal(t, 15.0, got["aiRouteTime"])
	assert.Equal(t, 13.5, got["standardRouteTime"])
	assert.Equal(t, "Route 1 (Uhuru Highway)", got["routeName"])
	assert.Equal(t, 0.4, got["predictedCongestion"])
	assert.Equal(t, "2026-10-14T07:00:00Z", got["timestamp"])
}

func TestLogTripIsNotRetried(t *testing.T) {
	var calls atomic.Int32
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		http.Error(w, "unavailable", http.StatusServiceUnavailable)
	})

	err := c.LogTrip(context.Background(), domain.TripRecord{UserID: "u"})
	require.Error(t, err)

	var he *httpx.StatusError
	require.ErrorAs(t, err, &he)
	assert.Equal(t, http.StatusServiceUnavailable, he.Code)
	assert.Equal(t, int32(1), calls.Load())
}

func TestUrbanAnalyticsRetriesTransientFailures(t *testing.T) {
	var calls atomic.Int32
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/urban_analytics", r.URL.Path)
		if calls.Add(1) < 3 {
			http.Error(w, "busy", http.StatusServiceUnavailable)
			return
		}
		_, _ = w.Write([]byte(`{
			"aggregate_time_saved_minutes": 120.5,
			"aggregate_fuel_saved_liters": 4.1,
			"average_congestion_index": 0.42,
			"total_logged_trips": 31,
			"top_routes_by_saving": [{"name": "Route 1 (Thika Rd)", "value": 40}]
		}`))
	})

	got, err := c.UrbanAnalytics(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int32(3), calls.Load())
	assert.Equal(t, domain.UrbanAnalytics{
		AggregateTimeSavedMinutes: 120.5,
		AggregateFuelSavedLiters:  4.1,
		AverageCongestionIndex:    0.42,
		TotalLoggedTrips:          31,
		TopRoutesBySaving:         []domain.RouteSaving{{Name: "Route 1 (Thika Rd)", Value: 40}},
	}, got)
}

func TestUrbanAnalyticsDoesNotRetryClientErrors(t *testing.T) {
	var calls atomic.Int32
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		http.Error(w, "nope", http.StatusNotFound)
	})

	_, err := c.UrbanAnalytics(context.Background())
	require.Error(t, err)
	assert.Equal(t, int32(1), calls.Load())
}

func TestUrbanAnalyticsGivesUpAfterMaxAttempts(t *testing.T) {
	var calls atomic.Int32
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		http.Error(w, "down", http.StatusBadGateway)
	})

	_, err := c.UrbanAnalytics(context.Background())
	require.Error(t, err)
	assert.Equal(t, int32(c.queries.Policy.MaxAttempts), calls.Load())
}

func TestNewClientRequiresBaseURL(t *testing.T) {
	_, err := NewClient("", nil)
	assert.Error(t, err)
}
