package formatter

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/yildizm/PalmScan/internal/diagnosis"
)

var fixedNow = func() time.Time {
	return time.Date(2026, 10, 18, 14, 30, 0, 0, time.UTC)
}

func sampleResult() *diagnosis.Result {
	return &diagnosis.Result{
		Success:    true,
		Prediction: "black_scorch",
		Confidence: 0.837,
		DiseaseInfo: &diagnosis.DiseaseInfo{
			Name:        "Black Scorch",
			Description: "Fungal disease caused by Thielaviopsis paradoxa.",
			Severity:    "Severe",
			Symptoms:    []string{"Black lesions on fronds", "Scorched leaf tips"},
			Treatment:   []string{"Remove infected fronds", "Apply copper fungicide"},
			Prevention:  []string{"Sanitize pruning tools"},
		},
		Alternatives: []diagnosis.Alternative{
			{Disease: "black_scorch", Confidence: 0.837},
			{Disease: "leaf_spots", Confidence: 0.081},
			{Disease: "fusarium_wilt", Confidence: 0.042},
			{Disease: "rachis_blight", Confidence: 0.02},
			{Disease: "healthy", Confidence: 0.01},
		},
		ProcessingTimeMS: 240,
	}
}

func TestTextFormatter_Report(t *testing.T) {
	out, err := NewText(fixedNow).Format(sampleResult())
	if err != nil {
		t.Fatalf("Format failed: %v", err)
	}

	expected := `PALM TREE DISEASE ANALYSIS REPORT
Generated: 2026-10-18 14:30:00

ANALYSIS RESULTS
================
Disease: Black Scorch
Confidence: 84%
Severity: Severe

DESCRIPTION
===========
Fungal disease caused by Thielaviopsis paradoxa.

SYMPTOMS
========
• Black lesions on fronds
• Scorched leaf tips

RECOMMENDED TREATMENT
=====================
• Remove infected fronds
• Apply copper fungicide

PREVENTION MEASURES
===================
• Sanitize pruning tools

ALTERNATIVE POSSIBILITIES
=========================
• Leaf Spots: 8%
• Fusarium Wilt: 4%
• Rachis Blight: 2%

DISCLAIMER
==========
This analysis is provided for guidance only. For serious plant health concerns,
please consult with a professional arborist or plant pathologist.

Report generated by Palm Tree Disease Detector AI System`

	if string(out) != expected {
		t.Errorf("Unexpected report:\n%s\n--- want ---\n%s", out, expected)
	}
}

func TestTextFormatter_NoAlternatives(t *testing.T) {
	result := sampleResult()
	result.Alternatives = result.Alternatives[:1]

	out, err := NewText(fixedNow).Format(result)
	if err != nil {
		t.Fatalf("Format failed: %v", err)
	}
	if strings.Contains(string(out), "Black Scorch: 84%") {
		t.Error("Primary result must not be listed as an alternative")
	}
	if !strings.Contains(string(out), "ALTERNATIVE POSSIBILITIES\n=========================\n\n") {
		t.Errorf("Expected empty alternatives section:\n%s", out)
	}
}

func TestJSONFormatter(t *testing.T) {
	out, err := NewJSON().Format(sampleResult())
	if err != nil {
		t.Fatalf("Format failed: %v", err)
	}

	var decoded diagnosis.Result
	if err := json.Unmarshal(out, &decoded); err != nil {
		t.Fatalf("Output is not valid JSON: %v", err)
	}
	if decoded.DiseaseInfo.Name != "Black Scorch" || len(decoded.Alternatives) != 5 {
		t.Errorf("JSON dump must keep the full result, got %+v", decoded)
	}
	if !strings.Contains(string(out), "\n  \"prediction\"") {
		t.Errorf("Expected indented output:\n%s", out)
	}
}

func TestMarkdownFormatter(t *testing.T) {
	out, err := NewMarkdown(fixedNow).Format(sampleResult())
	if err != nil {
		t.Fatalf("Format failed: %v", err)
	}
	md := string(out)

	for _, want := range []string{
		"# Palm Tree Disease Analysis Report",
		"Generated: 2026-10-18 14:30:00",
		"| Disease | Black Scorch |",
		"84% |",
		"## Symptoms\n\n- Black lesions on fronds\n- Scorched leaf tips",
		"1. Leaf Spots (8%)",
		"3. Rachis Blight (2%)",
	} {
		if !strings.Contains(md, want) {
			t.Errorf("Expected %q in markdown:\n%s", want, md)
		}
	}
	if strings.Contains(md, "Healthy (1%)") {
		t.Error("Only three alternatives should be listed")
	}
}

func TestTerminalFormatter(t *testing.T) {
	out, err := NewTerminalWithEmoji(false, false).Format(sampleResult())
	if err != nil {
		t.Fatalf("Format failed: %v", err)
	}
	text := string(out)

	for _, want := range []string{"Black Scorch", "84% Confidence", "Severe", "Scorched leaf tips", "Leaf Spots", "8%", "240 ms"} {
		if !strings.Contains(text, want) {
			t.Errorf("Expected %q in terminal output:\n%s", want, text)
		}
	}
	if strings.Contains(text, "🌴") {
		t.Error("Emoji must be replaced by fallbacks when disabled")
	}
}

func TestView(t *testing.T) {
	view := View(sampleResult())

	if view.ConfidenceText != "84% Confidence" {
		t.Errorf("Expected '84%% Confidence', got %q", view.ConfidenceText)
	}
	if view.Level != diagnosis.ConfidenceHigh {
		t.Errorf("Expected high confidence, got %s", view.Level)
	}
	if view.Severity != diagnosis.SeveritySevere {
		t.Errorf("Expected severe, got %s", view.Severity)
	}
	if len(view.Alternatives) != 3 {
		t.Fatalf("Expected 3 alternatives, got %d", len(view.Alternatives))
	}
	if view.Alternatives[0].Name != "Leaf Spots" || view.Alternatives[0].Percent != 8 || view.Alternatives[0].Level != diagnosis.ConfidenceLow {
		t.Errorf("Unexpected first alternative: %+v", view.Alternatives[0])
	}
	if view.Symptoms[0] != "Black lesions on fronds" {
		t.Errorf("Symptom order not preserved: %v", view.Symptoms)
	}

	unknown := sampleResult()
	unknown.DiseaseInfo.Severity = ""
	if v := View(unknown); v.Severity != diagnosis.SeverityUnknown || v.SeverityText != "unknown" {
		t.Errorf("Expected unknown severity, got %s/%s", v.Severity, v.SeverityText)
	}
}

func TestNew(t *testing.T) {
	tests := []struct {
		format  string
		wantErr bool
	}{
		{"text", false},
		{"json", false},
		{"markdown", false},
		{"md", false},
		{"report", false},
		{"", false},
		{"csv", true},
	}

	for _, tt := range tests {
		_, err := New(tt.format, Options{Now: fixedNow})
		if (err != nil) != tt.wantErr {
			t.Errorf("New(%q) error = %v, wantErr %v", tt.format, err, tt.wantErr)
		}
	}
}

func TestExporter(t *testing.T) {
	dir := t.TempDir()
	exporter := &Exporter{Dir: dir, Format: ReportText, Now: fixedNow}

	path, err := exporter.Export(sampleResult())
	if err != nil {
		t.Fatalf("Export failed: %v", err)
	}
	if filepath.Base(path) != "palm-disease-analysis-2026-10-18.txt" {
		t.Errorf("Unexpected file name %s", filepath.Base(path))
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read report: %v", err)
	}
	if !strings.HasPrefix(string(data), "PALM TREE DISEASE ANALYSIS REPORT\n") {
		t.Errorf("Unexpected report content:\n%s", data)
	}

	second, err := exporter.Export(sampleResult())
	if err != nil {
		t.Fatalf("Second export failed: %v", err)
	}
	if filepath.Base(second) != "palm-disease-analysis-2026-10-18-1.txt" {
		t.Errorf("Expected suffixed name, got %s", filepath.Base(second))
	}

	exporter.Format = ReportJSON
	jsonPath, err := exporter.Export(sampleResult())
	if err != nil {
		t.Fatalf("JSON export failed: %v", err)
	}
	if filepath.Ext(jsonPath) != ".json" {
		t.Errorf("Expected .json extension, got %s", jsonPath)
	}

	if _, err := exporter.Export(nil); err == nil {
		t.Error("Expected error exporting nil result")
	}
	exporter.Format = "pdf"
	if _, err := exporter.Export(sampleResult()); err == nil {
		t.Error("Expected error for unsupported report format")
	}
}
