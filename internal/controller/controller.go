package controller

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/yildizm/PalmScan/internal/diagnosis"
	"github.com/yildizm/PalmScan/internal/history"
	"github.com/yildizm/PalmScan/internal/intake"
	"github.com/yildizm/PalmScan/internal/logger"
	"github.com/yildizm/PalmScan/internal/theme"
)

// ErrBusy is returned when an action arrives while an analysis is in flight
var ErrBusy = errors.New("analysis already in progress")

// Analyzer performs the remote analysis of a file
type Analyzer interface {
	Analyze(ctx context.Context, file *intake.SelectedFile) (*diagnosis.Result, error)
}

// Exporter writes a report for a result and returns its location
type Exporter interface {
	Export(result *diagnosis.Result) (string, error)
}

// ThemeToggler flips the persisted theme and returns the new one
type ThemeToggler interface {
	Toggle() (theme.Mode, error)
}

// Observer receives a snapshot after every state change
type Observer func(State)

// Option configures a Controller
type Option func(*Controller)

// WithValidator replaces the default file validator
func WithValidator(v *intake.Validator) Option {
	return func(c *Controller) { c.validator = v }
}

// WithExporter sets the report exporter
func WithExporter(e Exporter) Option {
	return func(c *Controller) { c.exporter = e }
}

// WithThemes sets the theme toggler
func WithThemes(t ThemeToggler) Option {
	return func(c *Controller) { c.themes = t }
}

// WithHistory records successful analyses into store
func WithHistory(store *history.Store) Option {
	return func(c *Controller) { c.history = store }
}

// WithObserver registers the view binding
func WithObserver(o Observer) Option {
	return func(c *Controller) { c.observer = o }
}

// WithSleeper replaces the real-time progress delays
func WithSleeper(s Sleeper) Option {
	return func(c *Controller) { c.sleep = s }
}

// WithSchedule replaces the progress sequence
func WithSchedule(s Schedule) Option {
	return func(c *Controller) { c.schedule = s }
}

// WithLogger sets the logger
func WithLogger(l *logger.Logger) Option {
	return func(c *Controller) { c.log = l }
}

// Controller is the upload-analysis state machine. It is safe for use from
// several goroutines; only one analysis runs at a time.
type Controller struct {
	mu       sync.Mutex
	state    State
	inFlight bool

	validator *intake.Validator
	analyzer  Analyzer
	exporter  Exporter
	themes    ThemeToggler
	history   *history.Store
	observer  Observer
	sleep     Sleeper
	schedule  Schedule
	log       *logger.Logger

	previews sync.WaitGroup
}

// New creates a controller that analyzes files with analyzer
func New(analyzer Analyzer, opts ...Option) *Controller {
	c := &Controller{
		analyzer:  analyzer,
		validator: intake.NewValidator(),
		sleep:     Sleep,
		schedule:  DefaultSchedule(),
		log:       logger.Nop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// State returns a snapshot of the current state
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Busy reports whether an analysis is in flight
func (c *Controller) Busy() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.inFlight
}

// Wait blocks until pending preview decodes have finished
func (c *Controller) Wait() {
	c.previews.Wait()
}

// Dispatch runs one action. Validation and analysis failures are reflected
// in the returned state and also returned as the error.
func (c *Controller) Dispatch(ctx context.Context, cmd Command) (Response, error) {
	c.log.Debug("dispatch %s", cmd.Action)

	switch cmd.Action {
	case SelectFile, Drop:
		return c.selectFile(cmd)
	case Analyze:
		return c.analyze(ctx)
	case Clear, NewAnalysis:
		return c.clear()
	case Retry:
		return c.retry()
	case ExportReport:
		return c.export()
	case ToggleTheme:
		return c.toggleTheme()
	case Help:
		return Response{State: c.State(), HelpText: HelpText}, nil
	default:
		return Response{State: c.State()}, fmt.Errorf("unknown action %d", cmd.Action)
	}
}

func (c *Controller) selectFile(cmd Command) (Response, error) {
	if c.Busy() {
		return Response{State: c.State()}, ErrBusy
	}

	var (
		file *intake.SelectedFile
		err  error
	)
	if cmd.Content != nil {
		name := cmd.Name
		if name == "" {
			name = "dropped-image"
		}
		file, err = c.validator.FromBytes(name, cmd.MediaType, cmd.Content)
	} else {
		file, err = c.validator.Open(cmd.Path)
	}

	if err != nil {
		message := diagnosis.UserMessage(err)
		if !isDiagnosisError(err) {
			message = "Could not read file: " + err.Error()
		}
		c.log.WarnWithFields("file rejected", []logger.Field{
			logger.F("kind", diagnosis.KindOf(err)),
			logger.Error(err),
		})
		state := c.update(func(s *State) {
			s.Panel = PanelError
			s.ErrorMessage = message
		})
		return Response{State: state}, err
	}

	state := c.update(func(s *State) {
		s.File = file
		s.Preview = intake.Preview{Name: file.Name}
		s.AnalyzeEnabled = true
		s.ErrorMessage = ""
		s.Panel = PanelIdle
	})

	c.previews.Add(1)
	go c.decodePreview(file)

	return Response{State: state}, nil
}

// decodePreview fills in the preview unless the file was replaced meanwhile
func (c *Controller) decodePreview(file *intake.SelectedFile) {
	defer c.previews.Done()

	preview, err := intake.DecodePreview(file)
	if err != nil {
		c.log.Debug("preview unavailable for %s: %v", file.Name, err)
		return
	}

	c.mu.Lock()
	if c.state.File != file {
		c.mu.Unlock()
		return
	}
	c.state.Preview = preview
	snapshot := c.state
	c.mu.Unlock()

	c.notify(snapshot)
}

func (c *Controller) analyze(ctx context.Context) (resp Response, err error) {
	c.mu.Lock()
	if c.inFlight {
		c.mu.Unlock()
		return Response{State: c.State()}, ErrBusy
	}
	if c.state.File == nil {
		snapshot := c.state
		c.mu.Unlock()
		return Response{State: snapshot}, nil
	}
	c.inFlight = true
	file := c.state.File
	c.mu.Unlock()

	defer func() {
		if r := recover(); r != nil {
			err = diagnosis.NewUnexpectedFailure(fmt.Errorf("analysis panicked: %v", r))
			c.fail(err)
		}
		resp = Response{State: c.finish()}
	}()

	return Response{}, c.run(ctx, file)
}

// run walks the progress schedule around the request
func (c *Controller) run(ctx context.Context, file *intake.SelectedFile) error {
	first := Progress{}
	if len(c.schedule.Steps) > 0 {
		first = Progress{Percent: c.schedule.Steps[0].Percent, Label: c.schedule.Steps[0].Label}
	}
	c.update(func(s *State) {
		s.Panel = PanelLoading
		s.ErrorMessage = ""
		s.AnalyzeEnabled = false
		s.Progress = first
	})

	for _, step := range c.schedule.Steps {
		if err := c.step(ctx, step); err != nil {
			return err
		}
	}

	c.progress(c.schedule.Request)
	result, analyzeErr := c.analyzer.Analyze(ctx, file)

	if err := c.step(ctx, c.schedule.Finalize); err != nil {
		return err
	}
	if analyzeErr != nil {
		c.log.WarnWithFields("analysis failed", []logger.Field{
			logger.F("file", file.Name),
			logger.F("kind", diagnosis.KindOf(analyzeErr)),
			logger.Error(analyzeErr),
		})
		if !isDiagnosisError(analyzeErr) {
			analyzeErr = diagnosis.NewUnexpectedFailure(analyzeErr)
		}
		return c.fail(analyzeErr)
	}
	if result == nil {
		return c.fail(diagnosis.NewUnexpectedFailure(errors.New("empty analysis result")))
	}

	if err := c.step(ctx, c.schedule.Complete); err != nil {
		return err
	}

	var analysisID string
	if c.history != nil {
		analysisID = c.history.Record(file.Name, result).ID
	}

	c.log.InfoWithFields("analysis complete", []logger.Field{
		logger.F("file", file.Name),
		logger.F("disease", result.Prediction),
		logger.F("confidence", result.Percent()),
	})

	c.update(func(s *State) {
		s.Result = result
		s.AnalysisID = analysisID
		s.Panel = PanelResults
	})
	return nil
}

// step shows a progress phase and waits its delay
func (c *Controller) step(ctx context.Context, step Step) error {
	c.progress(step)
	if err := c.sleep(ctx, step.Delay); err != nil {
		return c.fail(diagnosis.NewUnexpectedFailure(fmt.Errorf("analysis interrupted: %w", err)))
	}
	return nil
}

func (c *Controller) progress(step Step) {
	c.update(func(s *State) {
		s.Progress = Progress{Percent: step.Percent, Label: step.Label}
	})
}

// fail moves to the Error panel and returns err
func (c *Controller) fail(err error) error {
	message := diagnosis.UserMessage(err)
	c.update(func(s *State) {
		s.Panel = PanelError
		s.ErrorMessage = message
	})
	return err
}

// finish ends an attempt; the Loading panel never outlives it
func (c *Controller) finish() State {
	c.mu.Lock()
	c.inFlight = false
	changed := false
	if c.state.Panel == PanelLoading {
		c.state.Panel = PanelError
		c.state.ErrorMessage = diagnosis.MsgUnexpectedFailure
		changed = true
	}
	c.state.AnalyzeEnabled = c.state.File != nil
	snapshot := c.state
	c.mu.Unlock()

	if changed {
		c.notify(snapshot)
	}
	return snapshot
}

func (c *Controller) clear() (Response, error) {
	if c.Busy() {
		return Response{State: c.State()}, ErrBusy
	}
	state := c.update(func(s *State) {
		*s = State{Panel: PanelIdle}
	})
	return Response{State: state}, nil
}

func (c *Controller) retry() (Response, error) {
	if c.Busy() {
		return Response{State: c.State()}, ErrBusy
	}
	state := c.update(func(s *State) {
		if s.Panel != PanelError {
			return
		}
		s.Panel = PanelIdle
		s.ErrorMessage = ""
		s.AnalyzeEnabled = s.File != nil
	})
	return Response{State: state}, nil
}

func (c *Controller) export() (Response, error) {
	state := c.State()
	if state.Result == nil || c.exporter == nil {
		return Response{State: state}, nil
	}

	path, err := c.exporter.Export(state.Result)
	if err != nil {
		c.log.Error("report export failed: %v", err)
		return Response{State: state}, fmt.Errorf("failed to export report: %w", err)
	}
	c.log.Info("report written to %s", path)
	return Response{State: state, ReportPath: path}, nil
}

func (c *Controller) toggleTheme() (Response, error) {
	state := c.State()
	if c.themes == nil {
		return Response{State: state}, nil
	}
	mode, err := c.themes.Toggle()
	if err != nil {
		return Response{State: state}, fmt.Errorf("failed to toggle theme: %w", err)
	}
	return Response{State: state, Theme: mode}, nil
}

// update applies fn under the lock and publishes the result
func (c *Controller) update(fn func(*State)) State {
	c.mu.Lock()
	fn(&c.state)
	snapshot := c.state
	c.mu.Unlock()

	c.notify(snapshot)
	return snapshot
}

func (c *Controller) notify(state State) {
	if c.observer != nil {
		c.observer(state)
	}
}

func isDiagnosisError(err error) bool {
	var de *diagnosis.Error
	return errors.As(err, &de)
}
