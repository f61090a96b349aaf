package misc

import (
	"strconv"
	"testing"
	"time"

	"github.com/planme-app/planme-backend/internal/models"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// 2024-03-15 10:00 UTC is 15:30 IST on the same date.
var testNow = time.Date(2024, 3, 15, 10, 0, 0, 0, time.UTC)

func TestTodayWindow(t *testing.T) {
	start, end := todayWindow(testNow)

	wantStart := time.Date(2024, 3, 14, 18, 30, 0, 0, time.UTC)
	wantEnd := time.Date(2024, 3, 15, 18, 29, 59, 999000000, time.UTC)

	if !start.Equal(wantStart) {
		t.Errorf("expected start %v, got %v", wantStart, start)
	}
	if !end.Equal(wantEnd) {
		t.Errorf("expected end %v, got %v", wantEnd, end)
	}
}

func TestTodayWindowCrossesUTCMidnight(t *testing.T) {
	// 2024-03-15 20:00 UTC is already 01:30 IST on March 16.
	lateNow := time.Date(2024, 3, 15, 20, 0, 0, 0, time.UTC)
	start, _ := todayWindow(lateNow)

	wantStart := time.Date(2024, 3, 15, 18, 30, 0, 0, time.UTC)
	if !start.Equal(wantStart) {
		t.Errorf("expected start %v, got %v", wantStart, start)
	}
}

func TestHistoryWindow(t *testing.T) {
	start, end := historyWindow(testNow, 10, 0)

	// 10 days ending today: March 6 through March 15 (IST).
	wantStart := time.Date(2024, 3, 5, 18, 30, 0, 0, time.UTC)
	wantEnd := time.Date(2024, 3, 15, 18, 29, 59, 999000000, time.UTC)

	if !start.Equal(wantStart) {
		t.Errorf("expected start %v, got %v", wantStart, start)
	}
	if !end.Equal(wantEnd) {
		t.Errorf("expected end %v, got %v", wantEnd, end)
	}
}

func TestHistoryWindowWithOffset(t *testing.T) {
	start, end := historyWindow(testNow, 10, 10)

	// Second page: March 25 - 19 = Feb 25 through March 5 (IST).
	wantStart := time.Date(2024, 2, 24, 18, 30, 0, 0, time.UTC)
	wantEnd := time.Date(2024, 3, 5, 18, 29, 59, 999000000, time.UTC)

	if !start.Equal(wantStart) {
		t.Errorf("expected start %v, got %v", wantStart, start)
	}
	if !end.Equal(wantEnd) {
		t.Errorf("expected end %v, got %v", wantEnd, end)
	}
}

func entryAt(created time.Time, protein float64) models.MiscEntry {
	return models.MiscEntry{
		Model:         gorm.Model{CreatedAt: created},
		UserID:        "user-1",
		DailyFoodMisc: datatypes.JSON([]byte(`{"protein":` + strconv.FormatFloat(protein, 'f', -1, 64) + `}`)),
	}
}

func TestBuildHistoryDenseSeries(t *testing.T) {
	entries := []models.MiscEntry{
		entryAt(time.Date(2024, 3, 15, 8, 0, 0, 0, time.UTC), 90),  // March 15 IST
		entryAt(time.Date(2024, 3, 13, 10, 0, 0, 0, time.UTC), 60), // March 13 IST
	}

	history := BuildHistory(testNow, entries, 3, 0)

	if len(history) != 3 {
		t.Fatalf("expected 3 days, got %d", len(history))
	}

	want := []DayProtein{
		{Date: "2024-03-15", Protein: 90},
		{Date: "2024-03-14", Protein: 0},
		{Date: "2024-03-13", Protein: 60},
	}
	for i, expected := range want {
		if history[i] != expected {
			t.Errorf("day %d: expected %+v, got %+v", i, expected, history[i])
		}
	}
}

func TestBuildHistoryMalformedEntryCountsAsZero(t *testing.T) {
	entries := []models.MiscEntry{
		{
			Model:         gorm.Model{CreatedAt: time.Date(2024, 3, 15, 8, 0, 0, 0, time.UTC)},
			UserID:        "user-1",
			DailyFoodMisc: datatypes.JSON([]byte(`not json`)),
		},
	}

	history := BuildHistory(testNow, entries, 1, 0)

	if history[0].Protein != 0 {
		t.Errorf("expected 0 protein for malformed payload, got %f", history[0].Protein)
	}
}

func TestBuildHistoryLateUTCEntryLandsOnNextISTDay(t *testing.T) {
	// 19:00 UTC on March 14 is 00:30 IST on March 15.
	entries := []models.MiscEntry{
		entryAt(time.Date(2024, 3, 14, 19, 0, 0, 0, time.UTC), 45),
	}

	history := BuildHistory(testNow, entries, 2, 0)

	if history[0].Date != "2024-03-15" || history[0].Protein != 45 {
		t.Errorf("expected entry on 2024-03-15 with 45g, got %+v", history[0])
	}
	if history[1].Protein != 0 {
		t.Errorf("expected 0 protein on 2024-03-14, got %f", history[1].Protein)
	}
}
