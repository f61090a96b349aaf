package expenses

import (
	"sort"

	"github.com/planme-app/planme-backend/internal/models"
)

// DailyTotal is one point of the per-day spend series.
type DailyTotal struct {
	Date  string  `json:"date"` // YYYY-MM-DD
	Total float64 `json:"total"`
}

// CategoryTotal is the aggregate spend for one category.
type CategoryTotal struct {
	Category string  `json:"category"`
	Total    float64 `json:"total"`
}

// Totals summarizes a window of expense logs.
type Totals struct {
	Sum         float64 `json:"sum"`
	AvgPerDay   float64 `json:"avgPerDay"`
	Days        int     `json:"days"`
	TopCategory string  `json:"topCategory,omitempty"`
}

// Summary is the response shape of the expense summary endpoint.
type Summary struct {
	DailySeries []DailyTotal    `json:"dailySeries"`
	ByCategory  []CategoryTotal `json:"byCategory"`
	Totals      Totals          `json:"totals"`
}

// Summarize aggregates logs into a daily series (ascending by date),
// per-category totals (descending by amount), and overall totals. Days
// counts distinct days with spend; avg is over those days, not the full
// requested window.
func Summarize(logs []models.ExpenseLog) Summary {
	byDate := map[string]float64{}
	byCategory := map[string]float64{}

	for _, log := range logs {
		date := log.Date.UTC().Format("2006-01-02")
		byDate[date] += log.Amount

		category := log.CategoryTitle
		if category == "" {
			category = "Misc"
		}
		byCategory[category] += log.Amount
	}

	dailySeries := make([]DailyTotal, 0, len(byDate))
	for date, total := range byDate {
		dailySeries = append(dailySeries, DailyTotal{Date: date, Total: total})
	}
	sort.Slice(dailySeries, func(i, j int) bool {
		return dailySeries[i].Date < dailySeries[j].Date
	})

	categoryTotals := make([]CategoryTotal, 0, len(byCategory))
	for category, total := range byCategory {
		categoryTotals = append(categoryTotals, CategoryTotal{Category: category, Total: total})
	}
	sort.Slice(categoryTotals, func(i, j int) bool {
		if categoryTotals[i].Total != categoryTotals[j].Total {
			return categoryTotals[i].Total > categoryTotals[j].Total
		}
		return categoryTotals[i].Category < categoryTotals[j].Category
	})

	var sum float64
	for _, d := range dailySeries {
		sum += d.Total
	}

	days := len(dailySeries)
	avgDays := days
	if avgDays < 1 {
		avgDays = 1
	}

	totals := Totals{
		Sum:       sum,
		AvgPerDay: sum / float64(avgDays),
		Days:      days,
	}
	if len(categoryTotals) > 0 {
		totals.TopCategory = categoryTotals[0].Category
	}

	return Summary{
		DailySeries: dailySeries,
		ByCategory:  categoryTotals,
		Totals:      totals,
	}
}
