package controller

import (
	"context"
	"time"
)

// Step is one simulated progress phase
type Step struct {
	Percent int
	Label   string
	Delay   time.Duration
}

// Schedule is the progress sequence around the analysis request.
// Steps run before the request, Request is shown while it is in flight,
// Finalize after the response arrives and Complete before the results.
type Schedule struct {
	Steps    []Step
	Request  Step
	Finalize Step
	Complete Step
}

// DefaultSchedule returns the standard progress sequence
func DefaultSchedule() Schedule {
	return Schedule{
		Steps: []Step{
			{Percent: 0, Label: "Preparing image...", Delay: 800 * time.Millisecond},
			{Percent: 25, Label: "Uploading to AI system...", Delay: 600 * time.Millisecond},
			{Percent: 50, Label: "Preprocessing with neural networks...", Delay: 800 * time.Millisecond},
		},
		Request:  Step{Percent: 75, Label: "Analyzing disease patterns..."},
		Finalize: Step{Percent: 95, Label: "Generating diagnosis...", Delay: 400 * time.Millisecond},
		Complete: Step{Percent: 100, Label: "Analysis complete!", Delay: 500 * time.Millisecond},
	}
}

// Sleeper waits for d or until ctx is done
type Sleeper func(ctx context.Context, d time.Duration) error

// Sleep is the real-time Sleeper
func Sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// NoSleep returns immediately unless ctx is already done
func NoSleep(ctx context.Context, _ time.Duration) error {
	return ctx.Err()
}
