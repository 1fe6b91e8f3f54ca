package client

// ErrorResponse is the error body returned by the inference service
type ErrorResponse struct {
	Error string `json:"error"`
}

// HealthResponse is returned by the health endpoint
type HealthResponse struct {
	Status string `json:"status"`
}

// DiseaseCount is one entry of the disease distribution
type DiseaseCount struct {
	Disease string `json:"disease"`
	Count   int    `json:"count"`
}

// AnalysisRecord is a past analysis as recorded by the service
type AnalysisRecord struct {
	ID             string  `json:"id"`
	Disease        string  `json:"disease"`
	Confidence     float64 `json:"confidence"`
	Timestamp      string  `json:"timestamp"`
	Filename       string  `json:"filename"`
	ProcessingTime int     `json:"processing_time"`
}

// DailyStats aggregates the analyses of one day
type DailyStats struct {
	Date          string         `json:"date"`
	Count         int            `json:"count"`
	AvgConfidence float64        `json:"avg_confidence"`
	Diseases      map[string]int `json:"diseases"`
}

// SystemInfo describes the running service
type SystemInfo struct {
	PredictAvailable bool           `json:"predict_available"`
	StartTime        string         `json:"start_time"`
	MemoryUsage      map[string]int `json:"memory_usage"`
}

// Analytics is the service-side analytics summary
type Analytics struct {
	TotalAnalyses          int              `json:"total_analyses"`
	DiseaseDistribution    []DiseaseCount   `json:"disease_distribution"`
	RecentAnalyses         []AnalysisRecord `json:"recent_analyses"`
	AvgProcessingTimeMS    float64          `json:"avg_processing_time_ms"`
	UptimeHours            float64          `json:"uptime_hours"`
	DailyStats             []DailyStats     `json:"daily_stats"`
	FeedbackCount          int              `json:"feedback_count"`
	UniqueDiseasesDetected int              `json:"unique_diseases_detected"`
	SystemInfo             SystemInfo       `json:"system_info"`
}

// Feedback is a user's verdict on a past analysis
type Feedback struct {
	AnalysisID    string `json:"analysis_id"`
	IsCorrect     *bool  `json:"is_correct,omitempty"`
	ActualDisease string `json:"actual_disease,omitempty"`
	FeedbackText  string `json:"feedback_text,omitempty"`
	Rating        *int   `json:"rating,omitempty"`
}

// FeedbackRecord is stored feedback as returned by the service
type FeedbackRecord struct {
	ID            string `json:"id"`
	AnalysisID    string `json:"analysis_id"`
	IsCorrect     *bool  `json:"is_correct"`
	ActualDisease string `json:"actual_disease"`
	FeedbackText  string `json:"feedback_text"`
	Rating        *int   `json:"rating"`
	Timestamp     string `json:"timestamp"`
}

// FeedbackStats summarizes submitted feedback
type FeedbackStats struct {
	TotalFeedback      int              `json:"total_feedback"`
	CorrectPredictions int              `json:"correct_predictions"`
	AverageRating      float64          `json:"average_rating"`
	AccuracyRate       float64          `json:"accuracy_rate"`
	RecentFeedback     []FeedbackRecord `json:"recent_feedback"`
}

// StatusResponse is the acknowledgement for write operations
type StatusResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}
