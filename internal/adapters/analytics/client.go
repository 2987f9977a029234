package analytics

import (
	"context"
	"fmt"
	"movesmart-route-service/internal/api/dto"
	"movesmart-route-service/internal/domain"
	"movesmart-route-service/internal/platform/httpx"
	"movesmart-route-service/internal/platform/obs"
	"net/http"
	"time"
)

// Client talks to the analytics service: it is the TripSink used by the trip
// logger and the UrbanAnalyticsProvider used by reporting views.
//
// Trip logs are sent exactly once; only the read-only analytics query is
// retried.
type Client struct {
	logs    *httpx.Client
	queries *httpx.Client
}

func NewClient(baseURL string, client *http.Client) (*Client, error) {
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}

	logs, err := httpx.New(baseURL, client, httpx.NoRetry)
	if err != nil {
		return nil, fmt.Errorf("analytics client: %w", err)
	}
	queries, err := httpx.New(baseURL, client, httpx.Backoff(4, 200*time.Millisecond))
	if err != nil {
		return nil, fmt.Errorf("analytics client: %w", err)
	}

	return &Client{logs: logs, queries: queries}, nil
}

func (c *Client) LogTrip(ctx context.Context, trip domain.TripRecord) (err error) {
	defer obs.Time(ctx, "analytics.LogTrip")(&err)

	if err := c.logs.Do(ctx, http.MethodPost, "/log_trip", dto.LogTripRequestFromDomain(trip), nil); err != nil {
		return fmt.Errorf("log trip: user_id=%q: %w", trip.UserID, err)
	}
	return nil
}

func (c *Client) UrbanAnalytics(ctx context.Context) (_ domain.UrbanAnalytics, err error) {
	defer obs.Time(ctx, "analytics.UrbanAnalytics")(&err)

	var decoded dto.UrbanAnalyticsResponse
	if err := c.queries.Do(ctx, http.MethodGet, "/urban_analytics", nil, &decoded); err != nil {
		return domain.UrbanAnalytics{}, fmt.Errorf("urban analytics: %w", err)
	}
	return decoded.ToDomain(), nil
}
