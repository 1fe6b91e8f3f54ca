package config

// SampleConfig returns a fully commented configuration file
func SampleConfig() string {
	return `# PalmScan configuration
version: "1.0"

# Inference service
server:
  endpoint: http://localhost:5000
  analyze_path: /analyze
  health_path: /health
  analytics_path: /analytics
  feedback_path: /feedback
  reset_path: /stats/reset
  # 0 waits for the service indefinitely
  timeout: 0s
  # parallel uploads when analyzing several images
  max_concurrent: 4

# File acceptance
upload:
  max_size: 10485760
  allowed_types:
    - image/jpeg
    - image/jpg
    - image/png

# Progress stages shown while the service works
progress:
  enabled: true
  preparing: 800ms
  uploading: 600ms
  preprocessing: 800ms
  generating: 400ms
  complete: 500ms

output:
  format: text          # text|json|markdown|report
  report_format: text   # text|json|markdown
  report_dir: .
  color_mode: auto      # auto|always|never
  emoji: true
  verbose: false

ui:
  theme: auto           # auto|light|dark
  state_file: ~/.config/palmscan/state.yaml

# Drop folder
watch:
  debounce: 250ms
  export: true
`
}

// MinimalSampleConfig returns a compact configuration with essential settings
func MinimalSampleConfig() string {
	return `version: "1.0"
server:
  endpoint: http://localhost:5000
output:
  format: text
  report_format: text
`
}
