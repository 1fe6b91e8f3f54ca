package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"net/url"
	"strings"
	"time"

	"github.com/yildizm/PalmScan/internal/diagnosis"
	"github.com/yildizm/PalmScan/internal/intake"
	"github.com/yildizm/PalmScan/internal/logger"
)

// FieldName is the multipart field carrying the image
const FieldName = "image"

// Config holds inference service settings
type Config struct {
	// BaseURL is the service origin, e.g. http://localhost:5000
	BaseURL string `json:"base_url"`

	AnalyzePath   string `json:"analyze_path"`
	HealthPath    string `json:"health_path"`
	AnalyticsPath string `json:"analytics_path"`
	FeedbackPath  string `json:"feedback_path"`
	ResetPath     string `json:"reset_path"`

	// Timeout for HTTP requests; zero waits indefinitely
	Timeout time.Duration `json:"timeout"`

	UserAgent string `json:"user_agent"`
}

// DefaultConfig returns the settings of a locally running service
func DefaultConfig() *Config {
	return &Config{
		BaseURL:       "http://localhost:5000",
		AnalyzePath:   "/analyze",
		HealthPath:    "/health",
		AnalyticsPath: "/analytics",
		FeedbackPath:  "/feedback",
		ResetPath:     "/stats/reset",
		UserAgent:     "palmscan",
	}
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if strings.TrimSpace(c.BaseURL) == "" {
		return fmt.Errorf("base URL is required")
	}
	u, err := url.Parse(c.BaseURL)
	if err != nil {
		return fmt.Errorf("invalid base URL: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("base URL scheme must be http or https, got %q", u.Scheme)
	}
	if u.Host == "" {
		return fmt.Errorf("base URL %q has no host", c.BaseURL)
	}
	if c.AnalyzePath == "" {
		return fmt.Errorf("analyze path is required")
	}
	if c.Timeout < 0 {
		return fmt.Errorf("timeout cannot be negative")
	}
	return nil
}

// Client talks to the disease inference service
type Client struct {
	config  *Config
	client  *http.Client
	baseURL *url.URL
	log     *logger.Logger
}

// Option customizes a Client
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.client = hc
	}
}

// WithLogger sets the logger used for request tracing
func WithLogger(log *logger.Logger) Option {
	return func(c *Client) {
		c.log = log
	}
}

// New creates a new client instance
func New(config *Config, opts ...Option) (*Client, error) {
	if config == nil {
		config = DefaultConfig()
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}

	baseURL, err := url.Parse(config.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid base URL: %w", err)
	}

	c := &Client{
		config:  config,
		client:  &http.Client{Timeout: config.Timeout},
		baseURL: baseURL,
		log:     logger.Nop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Endpoint returns the absolute URL for a service path
func (c *Client) Endpoint(path string) string {
	return c.baseURL.JoinPath(path).String()
}

// Analyze uploads the image and returns the diagnosis.
// Non-2xx responses become RequestFailed errors carrying the service message;
// transport and decode failures become UnexpectedFailure errors.
func (c *Client) Analyze(ctx context.Context, file *intake.SelectedFile) (*diagnosis.Result, error) {
	if file == nil {
		return nil, diagnosis.NewUnexpectedFailure(fmt.Errorf("no file to analyze"))
	}

	body, contentType, err := encodeUpload(file)
	if err != nil {
		return nil, diagnosis.NewUnexpectedFailure(err)
	}

	endpoint := c.Endpoint(c.config.AnalyzePath)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, body)
	if err != nil {
		return nil, diagnosis.NewUnexpectedFailure(fmt.Errorf("failed to create request: %w", err))
	}
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Accept", "application/json")
	c.setUserAgent(req)

	start := time.Now()
	c.log.DebugWithFields("uploading image", []logger.Field{
		logger.F("file", file.Name),
		logger.F("size", file.Size),
		logger.F("endpoint", endpoint),
	})

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, diagnosis.NewUnexpectedFailure(fmt.Errorf("request failed: %w", err))
	}
	defer func() { _ = resp.Body.Close() }()

	if !isSuccess(resp.StatusCode) {
		return nil, requestFailed(resp)
	}

	result, err := diagnosis.Decode(resp.Body)
	if err != nil {
		return nil, diagnosis.NewUnexpectedFailure(err)
	}

	c.log.DebugWithFields("analysis received", []logger.Field{
		logger.F("prediction", result.Prediction),
		logger.F("confidence", result.Percent()),
		logger.Duration(time.Since(start)),
	})
	return result, nil
}

// Health checks that the service is up
func (c *Client) Health(ctx context.Context) (*HealthResponse, error) {
	var health HealthResponse
	if err := c.getJSON(ctx, c.config.HealthPath, &health); err != nil {
		return nil, err
	}
	return &health, nil
}

// Analytics fetches the service-side analytics summary
func (c *Client) Analytics(ctx context.Context) (*Analytics, error) {
	var analytics Analytics
	if err := c.getJSON(ctx, c.config.AnalyticsPath, &analytics); err != nil {
		return nil, err
	}
	return &analytics, nil
}

// FeedbackStats fetches the feedback summary
func (c *Client) FeedbackStats(ctx context.Context) (*FeedbackStats, error) {
	var stats FeedbackStats
	if err := c.getJSON(ctx, c.config.FeedbackPath, &stats); err != nil {
		return nil, err
	}
	return &stats, nil
}

// SubmitFeedback records a user's verdict on a past analysis
func (c *Client) SubmitFeedback(ctx context.Context, feedback *Feedback) (*StatusResponse, error) {
	if feedback == nil || strings.TrimSpace(feedback.AnalysisID) == "" {
		return nil, fmt.Errorf("analysis id is required")
	}
	if feedback.Rating != nil && (*feedback.Rating < 1 || *feedback.Rating > 5) {
		return nil, fmt.Errorf("rating must be between 1 and 5, got %d", *feedback.Rating)
	}

	var status StatusResponse
	if err := c.postJSON(ctx, c.config.FeedbackPath, feedback, &status); err != nil {
		return nil, err
	}
	return &status, nil
}

// ResetStats clears the service-side analytics
func (c *Client) ResetStats(ctx context.Context) (*StatusResponse, error) {
	var status StatusResponse
	if err := c.postJSON(ctx, c.config.ResetPath, nil, &status); err != nil {
		return nil, err
	}
	return &status, nil
}

func (c *Client) getJSON(ctx context.Context, path string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.Endpoint(path), http.NoBody)
	if err != nil {
		return diagnosis.NewUnexpectedFailure(fmt.Errorf("failed to create request: %w", err))
	}
	return c.doJSON(req, out)
}

func (c *Client) postJSON(ctx context.Context, path string, in, out interface{}) error {
	var body io.Reader = http.NoBody
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return diagnosis.NewUnexpectedFailure(fmt.Errorf("failed to marshal request: %w", err))
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.Endpoint(path), body)
	if err != nil {
		return diagnosis.NewUnexpectedFailure(fmt.Errorf("failed to create request: %w", err))
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return c.doJSON(req, out)
}

func (c *Client) doJSON(req *http.Request, out interface{}) error {
	req.Header.Set("Accept", "application/json")
	c.setUserAgent(req)

	resp, err := c.client.Do(req)
	if err != nil {
		return diagnosis.NewUnexpectedFailure(fmt.Errorf("request failed: %w", err))
	}
	defer func() { _ = resp.Body.Close() }()

	if !isSuccess(resp.StatusCode) {
		return requestFailed(resp)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return diagnosis.NewUnexpectedFailure(fmt.Errorf("failed to decode response: %w", err))
	}
	return nil
}

func (c *Client) setUserAgent(req *http.Request) {
	if c.config.UserAgent != "" {
		req.Header.Set("User-Agent", c.config.UserAgent)
	}
}

func isSuccess(status int) bool {
	return status >= 200 && status < 300
}

// requestFailed builds the error for a non-2xx response
func requestFailed(resp *http.Response) error {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 64*1024))
	var errorResp ErrorResponse
	if json.Unmarshal(body, &errorResp) == nil && errorResp.Error != "" {
		return diagnosis.NewRequestFailed(resp.StatusCode, errorResp.Error)
	}
	return diagnosis.NewRequestFailed(resp.StatusCode, "")
}

var quoteEscaper = strings.NewReplacer("\\", "\\\\", `"`, "\\\"")

// encodeUpload builds the multipart body with the single image field
func encodeUpload(file *intake.SelectedFile) (io.Reader, string, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	mediaType := file.MediaType
	if mediaType == "" {
		mediaType = "application/octet-stream"
	}

	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="%s"; filename="%s"`,
		FieldName, quoteEscaper.Replace(file.Name)))
	h.Set("Content-Type", mediaType)

	part, err := w.CreatePart(h)
	if err != nil {
		return nil, "", fmt.Errorf("failed to create multipart field: %w", err)
	}
	if _, err := part.Write(file.Content); err != nil {
		return nil, "", fmt.Errorf("failed to write image: %w", err)
	}
	if err := w.Close(); err != nil {
		return nil, "", fmt.Errorf("failed to finish multipart body: %w", err)
	}
	return &buf, w.FormDataContentType(), nil
}
