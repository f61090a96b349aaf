package health

import "net/http"

// Handler responds to health checks. Kept framework-free so it can serve
// on a bare mux as well as wrapped in gin.
func Handler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"ok"}`))
}
