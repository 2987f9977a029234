package domain

import (
	"math"
	"time"
)

// DateLayout is the calendar day key format used by the ledger.
const DateLayout = "2006-01-02"

// Realized savings for one calendar day. Keyed uniquely by Date.
type DailyStat struct {
	Date             string  `json:"date"`
	TimeSavedMinutes float64 `json:"timeSaved"`
	FuelSavedLiters  float64 `json:"fuelSaved"`
	TripCount        int     `json:"tripCount"`
}

// Day parses the date key in loc.
func (s DailyStat) Day(loc *time.Location) (time.Time, error) {
	return time.ParseInLocation(DateLayout, s.Date, loc)
}

// The savings attributed to a single completed selection.
type SavingsDelta struct {
	TimeSavedMinutes float64
	FuelSavedLiters  float64
}

// Sums over every retained DailyStat.
type SavingsTotals struct {
	TimeSavedMinutes        float64
	FuelSavedLiters         float64
	TripCount               int
	AvgTimeSavedPerTripMins float64
}

// One point of the gap-free weekly savings series.
type DaySavings struct {
	Date             string
	DayLabel         string
	TimeSavedMinutes float64
}

func (d DaySavings) Rounded() int { return int(math.Round(d.TimeSavedMinutes)) }
