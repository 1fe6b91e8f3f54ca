package cli

import (
	"bytes"
	"encoding/json"
	"image"
	"image/png"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/yildizm/PalmScan/internal/client"
	"github.com/yildizm/PalmScan/internal/config"
	"github.com/yildizm/PalmScan/internal/diagnosis"
)

const successBody = `{
	"success": true,
	"prediction": "black_scorch",
	"confidence": 0.837,
	"disease_info": {
		"name": "Black Scorch",
		"description": "Fungal disease",
		"severity": "severe",
		"symptoms": ["Black lesions"],
		"treatment": ["Prune"],
		"prevention": ["Sanitation"]
	},
	"alternatives": [
		{"disease": "black_scorch", "confidence": 0.837},
		{"disease": "leaf_spots", "confidence": 0.1}
	],
	"processing_time_ms": 120
}`

// isolate keeps tests away from real config and state files
func isolate(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("PALMSCAN_PROGRESS_ENABLED", "false")
	t.Setenv("PALMSCAN_UI_STATE_FILE", filepath.Join(home, "state.yaml"))
	t.Setenv("PALMSCAN_OUTPUT_REPORT_DIR", filepath.Join(home, "reports"))
	return home
}

func runCommand(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	cmd := NewRootCommand("1.2.3", "abc123", "2024-01-01")
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(append([]string{"--no-emoji"}, args...))
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func writePNG(t *testing.T, dir, name string) string {
	t.Helper()
	var buf bytes.Buffer
	if err := png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, 12, 8))); err != nil {
		t.Fatalf("failed to encode png: %v", err)
	}
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, buf.Bytes(), 0o600); err != nil {
		t.Fatalf("failed to write png: %v", err)
	}
	return path
}

// analyzeServer answers /analyze with body and counts uploads
func analyzeServer(t *testing.T, status int, body string) (*httptest.Server, *atomic.Int32) {
	t.Helper()
	var uploads atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/analyze" {
			http.NotFound(w, r)
			return
		}
		if _, _, err := r.FormFile(client.FieldName); err != nil {
			http.Error(w, `{"error":"missing image"}`, http.StatusBadRequest)
			return
		}
		uploads.Add(1)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = io.WriteString(w, body)
	}))
	t.Cleanup(server.Close)
	return server, &uploads
}

func TestAnalyzeCommand_JSON(t *testing.T) {
	isolate(t)
	server, uploads := analyzeServer(t, http.StatusOK, successBody)
	path := writePNG(t, t.TempDir(), "frond.png")

	stdout, stderr, err := runCommand(t, "analyze", "--endpoint", server.URL, "-o", "json", "--no-progress", path)
	if err != nil {
		t.Fatalf("Unexpected error: %v (stderr: %s)", err, stderr)
	}
	if uploads.Load() != 1 {
		t.Errorf("Expected 1 upload, got %d", uploads.Load())
	}

	var result diagnosis.Result
	if err := json.Unmarshal([]byte(stdout), &result); err != nil {
		t.Fatalf("Output is not a JSON result: %v\n%s", err, stdout)
	}
	if result.Prediction != "black_scorch" {
		t.Errorf("Expected black_scorch, got %s", result.Prediction)
	}
	if result.Percent() != 84 {
		t.Errorf("Expected 84%%, got %d", result.Percent())
	}
}

func TestAnalyzeCommand_TextAndProgress(t *testing.T) {
	isolate(t)
	server, _ := analyzeServer(t, http.StatusOK, successBody)
	path := writePNG(t, t.TempDir(), "frond.png")

	stdout, stderr, err := runCommand(t, "analyze", "--endpoint", server.URL, "--no-color", path)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	for _, want := range []string{"Black Scorch", "Black lesions", "Prune", "Sanitation"} {
		if !strings.Contains(stdout, want) {
			t.Errorf("Expected output to contain %q:\n%s", want, stdout)
		}
	}
	for _, want := range []string{"  0% Preparing image...", " 75% Analyzing disease patterns...", "100% Analysis complete!"} {
		if !strings.Contains(stderr, want) {
			t.Errorf("Expected progress line %q:\n%s", want, stderr)
		}
	}
}

func TestAnalyzeCommand_BatchWithFailures(t *testing.T) {
	isolate(t)
	server, uploads := analyzeServer(t, http.StatusOK, successBody)
	dir := t.TempDir()
	first := writePNG(t, dir, "a.png")
	second := writePNG(t, dir, "b.png")
	notes := filepath.Join(dir, "notes.txt")
	if err := os.WriteFile(notes, []byte("not an image"), 0o600); err != nil {
		t.Fatal(err)
	}

	stdout, stderr, err := runCommand(t, "analyze", "--endpoint", server.URL, "-o", "json", "--no-progress", "--concurrency", "2", first, notes, second)
	if err == nil || !strings.Contains(err.Error(), "1 of 3 analyses failed") {
		t.Fatalf("Expected partial failure error, got %v", err)
	}
	if uploads.Load() != 2 {
		t.Errorf("Rejected file must not be uploaded, got %d uploads", uploads.Load())
	}
	if !strings.Contains(stderr, diagnosis.MsgInvalidFormat) {
		t.Errorf("Expected invalid format message, got:\n%s", stderr)
	}

	var results []diagnosis.Result
	if err := json.Unmarshal([]byte(stdout), &results); err != nil {
		t.Fatalf("Expected JSON array: %v\n%s", err, stdout)
	}
	if len(results) != 2 {
		t.Errorf("Expected 2 results, got %d", len(results))
	}
}

func TestAnalyzeCommand_ServiceError(t *testing.T) {
	isolate(t)
	server, _ := analyzeServer(t, http.StatusInternalServerError, `{"error": "Model not loaded"}`)
	path := writePNG(t, t.TempDir(), "frond.png")

	stdout, stderr, err := runCommand(t, "analyze", "--endpoint", server.URL, "--no-progress", path)
	if err == nil {
		t.Fatal("Expected error")
	}
	if stdout != "" {
		t.Errorf("Expected no result output, got %q", stdout)
	}
	if !strings.Contains(stderr, "Model not loaded") {
		t.Errorf("Expected service message, got:\n%s", stderr)
	}
}

func TestAnalyzeCommand_ExportAndOutputFile(t *testing.T) {
	home := isolate(t)
	server, _ := analyzeServer(t, http.StatusOK, successBody)
	path := writePNG(t, t.TempDir(), "frond.png")
	outFile := filepath.Join(t.TempDir(), "summary.md")

	stdout, stderr, err := runCommand(t, "analyze", "--endpoint", server.URL, "--no-progress", "--export", "-o", "markdown", "--output-file", outFile, path)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if stdout != "" {
		t.Errorf("Expected output redirected to file, got %q", stdout)
	}

	data, err := os.ReadFile(outFile)
	if err != nil {
		t.Fatalf("Output file missing: %v", err)
	}
	if !strings.Contains(string(data), "Black Scorch") {
		t.Errorf("Unexpected markdown output:\n%s", data)
	}

	reports, err := filepath.Glob(filepath.Join(home, "reports", "palm-disease-analysis-*.txt"))
	if err != nil || len(reports) != 1 {
		t.Fatalf("Expected one exported report, got %v (%v)", reports, err)
	}
	if !strings.Contains(stderr, "Report saved to") {
		t.Errorf("Expected report notice, got:\n%s", stderr)
	}
}

func TestAnalyzeCommand_RequiresArgument(t *testing.T) {
	isolate(t)
	if _, _, err := runCommand(t, "analyze"); err == nil {
		t.Error("Expected error without images")
	}
}

func TestProgressSchedule(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Progress.Preparing = 1
	cfg.Progress.Uploading = 2
	cfg.Progress.Preprocessing = 3
	cfg.Progress.Generating = 4
	cfg.Progress.Complete = 5

	s := progressSchedule(cfg)
	got := []int{int(s.Steps[0].Delay), int(s.Steps[1].Delay), int(s.Steps[2].Delay), int(s.Finalize.Delay), int(s.Complete.Delay)}
	for i, want := range []int{1, 2, 3, 4, 5} {
		if got[i] != want {
			t.Errorf("delay %d = %d, want %d", i, got[i], want)
		}
	}
	if s.Request.Percent != 75 || s.Complete.Percent != 100 {
		t.Errorf("Percentages must not change: %+v", s)
	}
}

func TestClientConfig(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Server.Endpoint = "https://palms.example.com"
	cfg.Server.AnalyzePath = "/api/analyze"
	cfg.Server.Timeout = 3

	cc := clientConfig(cfg)
	if cc.BaseURL != "https://palms.example.com" || cc.AnalyzePath != "/api/analyze" || cc.Timeout != 3 {
		t.Errorf("Unexpected client config: %+v", cc)
	}
	if cc.HealthPath != "/health" {
		t.Errorf("Expected default health path, got %s", cc.HealthPath)
	}
}
