package plans

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/planme-app/planme-backend/internal/models"
	"gorm.io/datatypes"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}

	if err := db.AutoMigrate(&models.DayPlan{}, &models.DailyPlan{}); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}

	return db
}

func performJSON(t *testing.T, r *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()

	var reader *strings.Reader
	if body == "" {
		reader = strings.NewReader("")
	} else {
		reader = strings.NewReader(body)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestParseDate(t *testing.T) {
	parsed, err := parseDate("2024-03-15")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)
	if !parsed.Equal(want) {
		t.Errorf("expected %v, got %v", want, parsed)
	}

	parsed, err = parseDate("2024-03-15T09:30:00+05:30")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want = time.Date(2024, 3, 15, 4, 0, 0, 0, time.UTC)
	if !parsed.Equal(want) {
		t.Errorf("expected %v, got %v", want, parsed)
	}

	if _, err := parseDate("15/03/2024"); err == nil {
		t.Error("expected error for unsupported format, got nil")
	}
}

func TestAddPlanHandler(t *testing.T) {
	gin.SetMode(gin.TestMode)
	db := setupDB(t)

	r := gin.New()
	r.POST("/addPlan", AddPlanHandler(db))

	body := `{
		"userId": "user-1",
		"planName": "Morning routine",
		"planDate": "2024-03-15",
		"reminders": [{"title": "Stretch", "time": "07:00", "completed": false}]
	}`
	w := performJSON(t, r, http.MethodPost, "/addPlan", body)

	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", w.Code, w.Body.String())
	}

	var plan models.DailyPlan
	if err := db.First(&plan).Error; err != nil {
		t.Fatalf("expected plan persisted: %v", err)
	}
	if plan.PlanName != "Morning routine" {
		t.Errorf("expected plan name saved, got %q", plan.PlanName)
	}
	if plan.IsCompleted != nil {
		t.Error("expected is_completed to start unset")
	}

	reminders, err := plan.DecodeReminders()
	if err != nil {
		t.Fatalf("failed to decode reminders: %v", err)
	}
	if len(reminders) != 1 || reminders[0].Title != "Stretch" {
		t.Errorf("unexpected reminders: %+v", reminders)
	}
}

func TestAddPlanHandlerRejectsBadDate(t *testing.T) {
	gin.SetMode(gin.TestMode)
	db := setupDB(t)

	r := gin.New()
	r.POST("/addPlan", AddPlanHandler(db))

	body := `{"userId": "u1", "planName": "x", "planDate": "not-a-date", "reminders": []}`
	w := performJSON(t, r, http.MethodPost, "/addPlan", body)

	if w.Code != http.StatusBadRequest {
		t.Errorf("expected status 400, got %d", w.Code)
	}
}

func TestGetAllPlansForDateHandler(t *testing.T) {
	gin.SetMode(gin.TestMode)
	db := setupDB(t)

	plans := []models.DailyPlan{
		{UserID: "user-1", PlanName: "On the day", PlanDate: time.Date(2024, 3, 15, 8, 0, 0, 0, time.UTC), Reminders: datatypes.JSON(`[]`)},
		{UserID: "user-1", PlanName: "Day before", PlanDate: time.Date(2024, 3, 14, 23, 0, 0, 0, time.UTC), Reminders: datatypes.JSON(`[]`)},
		{UserID: "user-2", PlanName: "Other user", PlanDate: time.Date(2024, 3, 15, 8, 0, 0, 0, time.UTC), Reminders: datatypes.JSON(`[]`)},
	}
	for i := range plans {
		if err := db.Create(&plans[i]).Error; err != nil {
			t.Fatalf("failed to create fixture: %v", err)
		}
	}

	r := gin.New()
	r.GET("/getAllPlansForDate", GetAllPlansForDateHandler(db))

	w := performJSON(t, r, http.MethodGet, "/getAllPlansForDate?userId=user-1&date=2024-03-15", "")

	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", w.Code, w.Body.String())
	}

	var resp struct {
		Success bool               `json:"success"`
		Plans   []models.DailyPlan `json:"plans"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if !resp.Success {
		t.Error("expected success true")
	}
	if len(resp.Plans) != 1 || resp.Plans[0].PlanName != "On the day" {
		t.Errorf("unexpected plans: %+v", resp.Plans)
	}
}

func TestUpdatePlanHandler(t *testing.T) {
	gin.SetMode(gin.TestMode)
	db := setupDB(t)

	completed := true
	plan := models.DailyPlan{
		UserID:      "user-1",
		PlanName:    "Routine",
		PlanDate:    time.Date(2024, 3, 15, 8, 0, 0, 0, time.UTC),
		Reminders:   datatypes.JSON(`[{"title":"Old","time":"07:00","completed":true}]`),
		IsCompleted: &completed,
	}
	if err := db.Create(&plan).Error; err != nil {
		t.Fatalf("failed to create fixture: %v", err)
	}

	r := gin.New()
	r.PUT("/updatePlan", UpdatePlanHandler(db))

	body := `{"planId": 1, "reminders": [{"title": "New", "time": "08:00", "completed": false}]}`
	w := performJSON(t, r, http.MethodPut, "/updatePlan", body)

	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", w.Code, w.Body.String())
	}

	var fetched models.DailyPlan
	if err := db.First(&fetched, plan.ID).Error; err != nil {
		t.Fatalf("failed to refetch plan: %v", err)
	}

	reminders, err := fetched.DecodeReminders()
	if err != nil {
		t.Fatalf("failed to decode reminders: %v", err)
	}
	if len(reminders) != 1 || reminders[0].Title != "New" {
		t.Errorf("expected reminders replaced, got %+v", reminders)
	}

	// Completion is not recomputed on update.
	if fetched.IsCompleted == nil || !*fetched.IsCompleted {
		t.Error("expected is_completed untouched by update")
	}
}

func TestUpdatePlanHandlerNotFound(t *testing.T) {
	gin.SetMode(gin.TestMode)
	db := setupDB(t)

	r := gin.New()
	r.PUT("/updatePlan", UpdatePlanHandler(db))

	body := `{"planId": 42, "reminders": []}`
	w := performJSON(t, r, http.MethodPut, "/updatePlan", body)

	if w.Code != http.StatusNotFound {
		t.Errorf("expected status 404, got %d", w.Code)
	}
}

func TestDayPlanRoutesRejectNonNumericID(t *testing.T) {
	gin.SetMode(gin.TestMode)
	db := setupDB(t)

	fixtures := []models.DayPlan{
		{UserID: "user-1", DayName: "Friday", SelectedDate: time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)},
		{UserID: "user-2", DayName: "Saturday", SelectedDate: time.Date(2024, 3, 16, 0, 0, 0, 0, time.UTC)},
	}
	for i := range fixtures {
		if err := db.Create(&fixtures[i]).Error; err != nil {
			t.Fatalf("failed to create fixture: %v", err)
		}
	}

	r := gin.New()
	r.GET("/plan_day/detail/:planId", GetDayPlanHandler(db))
	r.PUT("/plan_day/:planId", UpdateDayPlanHandler(db))
	r.DELETE("/plan_day/:planId", DeleteDayPlanHandler(db))

	// A crafted ID must never reach the database as a condition.
	w := performJSON(t, r, http.MethodDelete, "/plan_day/1%20OR%201=1", "")
	if w.Code != http.StatusBadRequest {
		t.Errorf("expected status 400 for crafted delete ID, got %d", w.Code)
	}

	var count int64
	db.Model(&models.DayPlan{}).Count(&count)
	if count != 2 {
		t.Fatalf("expected both day plans to survive, found %d", count)
	}

	w = performJSON(t, r, http.MethodGet, "/plan_day/detail/1%20OR%201=1", "")
	if w.Code != http.StatusBadRequest {
		t.Errorf("expected status 400 for crafted get ID, got %d", w.Code)
	}

	w = performJSON(t, r, http.MethodPut, "/plan_day/abc", `{"dayName": "Renamed"}`)
	if w.Code != http.StatusBadRequest {
		t.Errorf("expected status 400 for non-numeric update ID, got %d", w.Code)
	}

	w = performJSON(t, r, http.MethodDelete, "/plan_day/0", "")
	if w.Code != http.StatusBadRequest {
		t.Errorf("expected status 400 for zero ID, got %d", w.Code)
	}
}

func TestDayPlanLifecycle(t *testing.T) {
	gin.SetMode(gin.TestMode)
	db := setupDB(t)

	r := gin.New()
	r.POST("/plan_day", SaveDayPlanHandler(db))
	r.GET("/plan_day/:userId", GetUserDayPlansHandler(db))
	r.DELETE("/plan_day/:planId", DeleteDayPlanHandler(db))

	body := `{
		"userId": "user-1",
		"dayName": "Friday",
		"selectedDate": "2024-03-15",
		"timeSlots": [{"id": "s1", "time": "09:00", "title": "Deep work", "subgoals": []}]
	}`
	w := performJSON(t, r, http.MethodPost, "/plan_day", body)
	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200 on save, got %d: %s", w.Code, w.Body.String())
	}

	w = performJSON(t, r, http.MethodGet, "/plan_day/user-1", "")
	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200 on list, got %d", w.Code)
	}

	var resp struct {
		Data []models.DayPlan `json:"data"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if len(resp.Data) != 1 || resp.Data[0].DayName != "Friday" {
		t.Fatalf("unexpected day plans: %+v", resp.Data)
	}

	w = performJSON(t, r, http.MethodDelete, "/plan_day/1", "")
	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200 on delete, got %d", w.Code)
	}

	w = performJSON(t, r, http.MethodDelete, "/plan_day/1", "")
	if w.Code != http.StatusNotFound {
		t.Errorf("expected status 404 on second delete, got %d", w.Code)
	}
}
