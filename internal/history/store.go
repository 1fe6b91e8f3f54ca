package history

import (
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/yildizm/PalmScan/internal/diagnosis"
)

const (
	// MaxRecent is the number of analyses kept in the recent list
	MaxRecent = 50

	// MaxProcessingTimes is the number of processing times kept for aggregates
	MaxProcessingTimes = 100

	dayLayout = "2006-01-02"
)

// Analysis is one recorded analysis
type Analysis struct {
	ID               string    `json:"id" yaml:"id"`
	Disease          string    `json:"disease" yaml:"disease"`
	Confidence       float64   `json:"confidence" yaml:"confidence"`
	Timestamp        time.Time `json:"timestamp" yaml:"timestamp"`
	FileName         string    `json:"filename" yaml:"filename"`
	ProcessingTimeMS int       `json:"processing_time_ms" yaml:"processing_time_ms"`
}

// DailyStats aggregates the analyses of one calendar day
type DailyStats struct {
	Date          string         `json:"date" yaml:"date"`
	Count         int            `json:"count" yaml:"count"`
	AvgConfidence float64        `json:"avg_confidence" yaml:"avg_confidence"`
	Diseases      map[string]int `json:"diseases" yaml:"diseases"`

	confidenceSum float64
}

// Aggregates represents statistical aggregates for processing times
type Aggregates struct {
	Min   float64 `json:"min" yaml:"min"`
	Max   float64 `json:"max" yaml:"max"`
	Avg   float64 `json:"avg" yaml:"avg"`
	Count int     `json:"count" yaml:"count"`
	P50   float64 `json:"p50" yaml:"p50"`
	P95   float64 `json:"p95" yaml:"p95"`
}

// Summary is a point-in-time copy of the store
type Summary struct {
	TotalAnalyses  int            `json:"total_analyses" yaml:"total_analyses"`
	DiseaseCounts  map[string]int `json:"disease_counts" yaml:"disease_counts"`
	UniqueDiseases int            `json:"unique_diseases_detected" yaml:"unique_diseases_detected"`
	Recent         []Analysis     `json:"recent_analyses" yaml:"recent_analyses"`
	ProcessingTime Aggregates     `json:"processing_time_ms" yaml:"processing_time_ms"`
	Daily          []DailyStats   `json:"daily_stats" yaml:"daily_stats"`
	StartedAt      time.Time      `json:"started_at" yaml:"started_at"`
	Uptime         time.Duration  `json:"uptime" yaml:"uptime"`
}

// Store keeps session analytics in memory
type Store struct {
	mutex           sync.RWMutex
	now             func() time.Time
	started         time.Time
	total           int
	diseaseCounts   map[string]int
	recent          []Analysis
	processingTimes []float64
	daily           map[string]*DailyStats
}

// New creates an empty store. A nil clock means time.Now.
func New(now func() time.Time) *Store {
	if now == nil {
		now = time.Now
	}
	s := &Store{now: now}
	s.reset()
	return s
}

// Record stores a successful analysis and returns the assigned record
func (s *Store) Record(fileName string, result *diagnosis.Result) Analysis {
	disease := result.Prediction
	if disease == "" && result.DiseaseInfo != nil {
		disease = result.DiseaseInfo.Name
	}

	s.mutex.Lock()
	defer s.mutex.Unlock()

	now := s.now()
	entry := Analysis{
		ID:               uuid.NewString(),
		Disease:          disease,
		Confidence:       result.Confidence,
		Timestamp:        now,
		FileName:         fileName,
		ProcessingTimeMS: result.ProcessingTimeMS,
	}

	s.total++
	s.diseaseCounts[disease]++

	s.recent = append(s.recent, entry)
	if len(s.recent) > MaxRecent {
		s.recent = s.recent[len(s.recent)-MaxRecent:]
	}

	s.processingTimes = append(s.processingTimes, float64(result.ProcessingTimeMS))
	if len(s.processingTimes) > MaxProcessingTimes {
		s.processingTimes = s.processingTimes[len(s.processingTimes)-MaxProcessingTimes:]
	}

	key := now.Format(dayLayout)
	day, ok := s.daily[key]
	if !ok {
		day = &DailyStats{Date: key, Diseases: make(map[string]int)}
		s.daily[key] = day
	}
	day.Count++
	day.Diseases[disease]++
	day.confidenceSum += result.Confidence
	day.AvgConfidence = day.confidenceSum / float64(day.Count)

	return entry
}

// Snapshot returns a copy of the current analytics
func (s *Store) Snapshot() Summary {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	counts := make(map[string]int, len(s.diseaseCounts))
	for k, v := range s.diseaseCounts {
		counts[k] = v
	}

	recent := make([]Analysis, len(s.recent))
	copy(recent, s.recent)

	daily := make([]DailyStats, 0, len(s.daily))
	for _, day := range s.daily {
		d := *day
		d.Diseases = make(map[string]int, len(day.Diseases))
		for k, v := range day.Diseases {
			d.Diseases[k] = v
		}
		daily = append(daily, d)
	}
	sort.Slice(daily, func(i, j int) bool {
		return daily[i].Date < daily[j].Date
	})

	return Summary{
		TotalAnalyses:  s.total,
		DiseaseCounts:  counts,
		UniqueDiseases: len(counts),
		Recent:         recent,
		ProcessingTime: calculateAggregates(s.processingTimes),
		Daily:          daily,
		StartedAt:      s.started,
		Uptime:         s.now().Sub(s.started),
	}
}

// Latest returns the most recent analyses (up to limit), newest last
func (s *Store) Latest(limit int) []Analysis {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	start := len(s.recent) - limit
	if start < 0 || limit <= 0 {
		start = 0
	}
	result := make([]Analysis, len(s.recent[start:]))
	copy(result, s.recent[start:])
	return result
}

// Reset clears all analytics
func (s *Store) Reset() {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	s.reset()
}

func (s *Store) reset() {
	s.started = s.now()
	s.total = 0
	s.diseaseCounts = make(map[string]int)
	s.recent = nil
	s.processingTimes = nil
	s.daily = make(map[string]*DailyStats)
}

// calculateAggregates calculates aggregates from a slice of values
func calculateAggregates(values []float64) Aggregates {
	if len(values) == 0 {
		return Aggregates{}
	}

	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)

	sum := 0.0
	for _, v := range values {
		sum += v
	}

	return Aggregates{
		Min:   sorted[0],
		Max:   sorted[len(sorted)-1],
		Avg:   sum / float64(len(values)),
		Count: len(values),
		P50:   percentile(sorted, 0.50),
		P95:   percentile(sorted, 0.95),
	}
}

// percentile calculates the pth percentile of sorted values
func percentile(sortedValues []float64, p float64) float64 {
	if len(sortedValues) == 0 {
		return 0
	}

	index := p * float64(len(sortedValues)-1)
	lowerIdx := int(index)
	upperIdx := lowerIdx + 1

	if upperIdx >= len(sortedValues) {
		return sortedValues[len(sortedValues)-1]
	}

	// Linear interpolation
	weight := index - float64(lowerIdx)
	return sortedValues[lowerIdx]*(1-weight) + sortedValues[upperIdx]*weight
}
