package misc

import (
	"encoding/json"
	"time"

	"github.com/planme-app/planme-backend/internal/models"
)

// Day boundaries for misc metrics are evaluated in India Standard Time,
// matching the app's primary audience. IST has no DST, so a fixed zone is
// enough.
var istZone = time.FixedZone("IST", 330*60)

// todayWindow returns the UTC instants bounding the current IST calendar
// day [00:00:00.000, 23:59:59.999].
func todayWindow(now time.Time) (time.Time, time.Time) {
	local := now.In(istZone)
	start := time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, istZone)
	end := time.Date(local.Year(), local.Month(), local.Day(), 23, 59, 59, 999000000, istZone)
	return start.UTC(), end.UTC()
}

// historyWindow returns the UTC instants bounding the `days`-day IST
// window ending `offsetDays` before today (inclusive on both ends).
func historyWindow(now time.Time, days, offsetDays int) (time.Time, time.Time) {
	local := now.In(istZone)
	endDay := time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, istZone).AddDate(0, 0, -offsetDays)
	startDay := endDay.AddDate(0, 0, -(days - 1))

	start := startDay
	end := endDay.Add(24*time.Hour - time.Millisecond)
	return start.UTC(), end.UTC()
}

// DayProtein is one point of the protein history series.
type DayProtein struct {
	Date    string  `json:"date"` // YYYY-MM-DD (IST)
	Protein float64 `json:"protein"`
}

// proteinOf decodes the JSONB payload of one entry; malformed or missing
// payloads count as zero.
func proteinOf(entry models.MiscEntry) float64 {
	if len(entry.DailyFoodMisc) == 0 {
		return 0
	}
	var payload models.DailyFoodMisc
	if err := json.Unmarshal([]byte(entry.DailyFoodMisc), &payload); err != nil {
		return 0
	}
	return payload.Protein
}

// BuildHistory maps fetched entries onto a dense, newest-first series of
// `days` IST calendar days ending `offsetDays` before today. Days without
// an entry report zero protein; at most one entry per day is expected and
// the latest wins.
func BuildHistory(now time.Time, entries []models.MiscEntry, days, offsetDays int) []DayProtein {
	byDate := map[string]float64{}
	for _, entry := range entries {
		key := entry.CreatedAt.In(istZone).Format("2006-01-02")
		byDate[key] = proteinOf(entry)
	}

	local := now.In(istZone)
	endDay := time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, istZone).AddDate(0, 0, -offsetDays)

	out := make([]DayProtein, 0, days)
	for i := 0; i < days; i++ {
		day := endDay.AddDate(0, 0, -i)
		key := day.Format("2006-01-02")
		out = append(out, DayProtein{Date: key, Protein: byDate[key]})
	}
	return out
}
