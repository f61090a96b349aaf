package validate

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
)

func decodeBody(t *testing.T, raw string) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	if err := json.Unmarshal([]byte(raw), &body); err != nil {
		t.Fatalf("bad test fixture: %v", err)
	}
	return body
}

func TestCheckBodyDailyPlanValid(t *testing.T) {
	body := decodeBody(t, `{
		"userId": "user-1",
		"planName": "Morning routine",
		"planDate": "2024-03-15",
		"reminders": [{"title": "Stretch", "time": "07:00", "completed": false}]
	}`)

	if err := CheckBody(DailyPlan, body); err != nil {
		t.Errorf("expected valid body, got %v", err)
	}
}

func TestCheckBodyDailyPlanMissingFields(t *testing.T) {
	body := decodeBody(t, `{"userId": "user-1"}`)

	err := CheckBody(DailyPlan, body)
	if err == nil {
		t.Fatal("expected validation error, got nil")
	}
	if !strings.Contains(err.Error(), "request validation failed") {
		t.Errorf("unexpected error message: %v", err)
	}
}

func TestCheckBodyDailyPlanBadReminderShape(t *testing.T) {
	body := decodeBody(t, `{
		"userId": "user-1",
		"planName": "Morning routine",
		"planDate": "2024-03-15",
		"reminders": [{"title": "Stretch"}]
	}`)

	if err := CheckBody(DailyPlan, body); err == nil {
		t.Error("expected validation error for reminder missing time, got nil")
	}
}

func TestCheckBodyPlanUpdateRejectsStringID(t *testing.T) {
	body := decodeBody(t, `{"planId": "7", "reminders": []}`)

	if err := CheckBody(PlanUpdate, body); err == nil {
		t.Error("expected validation error for string planId, got nil")
	}
}

func TestCheckBodyTemplateRequiresReminders(t *testing.T) {
	body := decodeBody(t, `{"userId": "user-1", "name": "Gym day", "reminders": []}`)

	if err := CheckBody(Template, body); err == nil {
		t.Error("expected validation error for empty reminders, got nil")
	}
}

func TestBodyMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.POST("/plans", Body(DailyPlan), func(c *gin.Context) {
		// Downstream binding must still see the body.
		var payload map[string]interface{}
		if err := c.ShouldBindJSON(&payload); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"success": false})
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true, "planName": payload["planName"]})
	})

	valid := `{"userId":"u1","planName":"Evening","planDate":"2024-03-15","reminders":[]}`
	req := httptest.NewRequest(http.MethodPost, "/plans", strings.NewReader(valid))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("expected status 200, got %d: %s", w.Code, w.Body.String())
	}
	if !strings.Contains(w.Body.String(), "Evening") {
		t.Errorf("expected downstream handler to see the body, got %s", w.Body.String())
	}

	req = httptest.NewRequest(http.MethodPost, "/plans", strings.NewReader(`{"userId":"u1"}`))
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("expected status 400, got %d", w.Code)
	}

	req = httptest.NewRequest(http.MethodPost, "/plans", strings.NewReader(`not json`))
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("expected status 400 for non-JSON body, got %d", w.Code)
	}
}

func TestQueryParamsMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/plans", QueryParams("userId", "date"), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"success": true})
	})

	req := httptest.NewRequest(http.MethodGet, "/plans?userId=u1&date=2024-03-15", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("expected status 200, got %d", w.Code)
	}

	req = httptest.NewRequest(http.MethodGet, "/plans?userId=u1", nil)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("expected status 400, got %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "date") {
		t.Errorf("expected missing parameter named in response, got %s", w.Body.String())
	}
}
