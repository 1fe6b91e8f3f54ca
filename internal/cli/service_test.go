package cli

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
)

const analyticsBody = `{
	"total_analyses": 7,
	"disease_distribution": [{"disease": "bud_rot", "count": 5}, {"disease": "healthy", "count": 2}],
	"recent_analyses": [{"id": "a1", "disease": "bud_rot", "confidence": 0.91, "filename": "palm.jpg"}],
	"avg_processing_time_ms": 140.5,
	"uptime_hours": 2.5,
	"feedback_count": 1,
	"unique_diseases_detected": 2
}`

const feedbackStatsBody = `{
	"total_feedback": 4,
	"correct_predictions": 3,
	"average_rating": 4.5,
	"accuracy_rate": 75
}`

// serviceServer fakes the non-upload endpoints and records feedback bodies
type serviceServer struct {
	*httptest.Server
	mu        sync.Mutex
	feedback  []map[string]interface{}
	resetHits int
}

func newServiceServer(t *testing.T) *serviceServer {
	t.Helper()
	s := &serviceServer{}
	s.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch {
		case r.URL.Path == "/health":
			_, _ = io.WriteString(w, `{"status": "healthy"}`)
		case r.URL.Path == "/analytics":
			_, _ = io.WriteString(w, analyticsBody)
		case r.URL.Path == "/feedback" && r.Method == http.MethodGet:
			_, _ = io.WriteString(w, feedbackStatsBody)
		case r.URL.Path == "/feedback" && r.Method == http.MethodPost:
			var body map[string]interface{}
			if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
				http.Error(w, `{"error": "bad json"}`, http.StatusBadRequest)
				return
			}
			s.mu.Lock()
			s.feedback = append(s.feedback, body)
			s.mu.Unlock()
			_, _ = io.WriteString(w, `{"success": true, "message": "Feedback recorded"}`)
		case r.URL.Path == "/stats/reset":
			s.mu.Lock()
			s.resetHits++
			s.mu.Unlock()
			_, _ = io.WriteString(w, `{"success": true, "message": "Statistics reset"}`)
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(s.Close)
	return s
}

func (s *serviceServer) feedbackBodies() []map[string]interface{} {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]map[string]interface{}(nil), s.feedback...)
}

func (s *serviceServer) resets() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.resetHits
}

func TestHealthCommand(t *testing.T) {
	isolate(t)
	server := newServiceServer(t)

	stdout, _, err := runCommand(t, "health", "--endpoint", server.URL)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if !strings.Contains(stdout, "[OK]") || !strings.Contains(stdout, "healthy") {
		t.Errorf("Unexpected output: %s", stdout)
	}
}

func TestHealthCommand_Unreachable(t *testing.T) {
	isolate(t)
	server := httptest.NewServer(http.NotFoundHandler())
	url := server.URL
	server.Close()

	stdout, _, err := runCommand(t, "health", "--endpoint", url)
	if err == nil {
		t.Fatal("Expected error for a closed server")
	}
	if !strings.Contains(stdout, "unreachable") {
		t.Errorf("Unexpected output: %s", stdout)
	}
}

func TestStatsCommand_Text(t *testing.T) {
	isolate(t)
	server := newServiceServer(t)

	stdout, _, err := runCommand(t, "stats", "--endpoint", server.URL, "--no-color")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	for _, want := range []string{"Service Statistics", "Total Analyses", "Disease Distribution", "Bud Rot", "palm.jpg", "Accuracy"} {
		if !strings.Contains(stdout, want) {
			t.Errorf("Expected %q in output:\n%s", want, stdout)
		}
	}
}

func TestStatsCommand_JSON(t *testing.T) {
	isolate(t)
	server := newServiceServer(t)

	stdout, _, err := runCommand(t, "stats", "--endpoint", server.URL, "-o", "json")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	var out struct {
		Analytics struct {
			TotalAnalyses int `json:"total_analyses"`
		} `json:"analytics"`
		Feedback struct {
			AccuracyRate float64 `json:"accuracy_rate"`
		} `json:"feedback"`
	}
	if err := json.Unmarshal([]byte(stdout), &out); err != nil {
		t.Fatalf("Invalid JSON: %v\n%s", err, stdout)
	}
	if out.Analytics.TotalAnalyses != 7 || out.Feedback.AccuracyRate != 75 {
		t.Errorf("Unexpected stats: %+v", out)
	}
}

func TestStatsCommand_Reset(t *testing.T) {
	isolate(t)
	server := newServiceServer(t)

	stdout, _, err := runCommand(t, "stats", "--endpoint", server.URL, "--reset")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if server.resets() != 1 {
		t.Errorf("Expected one reset request, got %d", server.resets())
	}
	if !strings.Contains(stdout, "Statistics reset") {
		t.Errorf("Unexpected output: %s", stdout)
	}
}

func TestFeedbackCommand(t *testing.T) {
	isolate(t)
	server := newServiceServer(t)

	stdout, _, err := runCommand(t, "feedback", "a1", "--endpoint", server.URL, "--correct=false", "--actual", "bud_rot")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if !strings.Contains(stdout, "Feedback recorded") {
		t.Errorf("Unexpected output: %s", stdout)
	}

	bodies := server.feedbackBodies()
	if len(bodies) != 1 {
		t.Fatalf("Expected one feedback request, got %d", len(bodies))
	}
	body := bodies[0]
	if body["analysis_id"] != "a1" || body["actual_disease"] != "bud_rot" {
		t.Errorf("Unexpected body: %v", body)
	}
	if correct, ok := body["is_correct"]; !ok || correct != false {
		t.Errorf("Expected is_correct=false to be sent, got %v", body)
	}
	if _, ok := body["rating"]; ok {
		t.Errorf("Rating was not given and must be omitted: %v", body)
	}
}

func TestFeedbackCommand_InvalidRating(t *testing.T) {
	isolate(t)
	server := newServiceServer(t)

	_, _, err := runCommand(t, "feedback", "a1", "--endpoint", server.URL, "--rating", "9")
	if err == nil || !strings.Contains(err.Error(), "rating must be between 1 and 5") {
		t.Errorf("Expected rating error, got %v", err)
	}
	if len(server.feedbackBodies()) != 0 {
		t.Error("Invalid feedback must not be sent")
	}
}

func TestThemeCommand(t *testing.T) {
	home := isolate(t)

	if _, _, err := runCommand(t, "theme", "set", "dark"); err != nil {
		t.Fatalf("set failed: %v", err)
	}
	stdout, _, err := runCommand(t, "theme", "show")
	if err != nil {
		t.Fatalf("show failed: %v", err)
	}
	if !strings.Contains(stdout, "dark (saved") {
		t.Errorf("Expected saved dark theme, got %s", stdout)
	}

	stdout, _, err = runCommand(t, "theme", "toggle")
	if err != nil {
		t.Fatalf("toggle failed: %v", err)
	}
	if !strings.Contains(stdout, "Theme set to light") {
		t.Errorf("Unexpected toggle output: %s", stdout)
	}

	data, err := os.ReadFile(filepath.Join(home, "state.yaml"))
	if err != nil || !strings.Contains(string(data), "light") {
		t.Errorf("Expected persisted light theme, got %q (%v)", data, err)
	}

	if _, _, err := runCommand(t, "theme", "set", "sepia"); err == nil {
		t.Error("Expected error for an unknown theme")
	}
}

func TestConfigCommands(t *testing.T) {
	isolate(t)
	path := filepath.Join(t.TempDir(), "palmscan.yaml")

	stdout, _, err := runCommand(t, "config", "init", "--path", path)
	if err != nil {
		t.Fatalf("init failed: %v", err)
	}
	if !strings.Contains(stdout, "Configuration file created") {
		t.Errorf("Unexpected init output: %s", stdout)
	}
	if _, _, err := runCommand(t, "config", "init", "--path", path); err == nil {
		t.Error("Expected error when the file exists")
	}

	stdout, _, err = runCommand(t, "--config", path, "config", "validate")
	if err != nil {
		t.Fatalf("validate failed: %v", err)
	}
	if !strings.Contains(stdout, "Configuration is valid") || !strings.Contains(stdout, "http://localhost:5000") {
		t.Errorf("Unexpected validate output: %s", stdout)
	}

	broken := filepath.Join(t.TempDir(), "broken.yaml")
	if err := os.WriteFile(broken, []byte("output:\n  format: xml\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	stdout, _, err = runCommand(t, "--config", broken, "config", "validate")
	if err == nil || !strings.Contains(stdout, "validation failed") {
		t.Errorf("Expected validation failure, got %v: %s", err, stdout)
	}
}

func TestVersionCommand(t *testing.T) {
	isolate(t)
	stdout, _, err := runCommand(t, "version")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if !strings.Contains(stdout, "PalmScan 1.2.3 (abc123) built on 2024-01-01") {
		t.Errorf("Unexpected version output: %s", stdout)
	}
}
