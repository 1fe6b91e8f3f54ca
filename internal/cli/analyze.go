package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"

	"github.com/spf13/cobra"
	"github.com/yildizm/PalmScan/internal/config"
	"github.com/yildizm/PalmScan/internal/controller"
	"github.com/yildizm/PalmScan/internal/diagnosis"
	"github.com/yildizm/PalmScan/internal/formatter"
	"github.com/yildizm/PalmScan/internal/logger"
	"golang.org/x/sync/errgroup"
)

var (
	analyzeExport      bool
	analyzeOutputFile  string
	analyzeNoProgress  bool
	analyzeConcurrency int
)

func newAnalyzeCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "analyze <image>...",
		Short: "Analyze palm tree photos",
		Long: `Upload one or more palm tree photos to the inference service and print
the diagnosis for each.

Images are validated locally first (JPEG or PNG, at most 10MB by default).
Several images are uploaded in parallel; results are printed in argument order.

Examples:
  palmscan analyze leaf.jpg
  palmscan analyze --output json *.png
  palmscan analyze --export --output-file summary.md -o markdown leaf.jpg`,
		Args: cobra.MinimumNArgs(1),
		RunE: runAnalyze,
	}

	cmd.Flags().BoolVar(&analyzeExport, "export", false, "write a report file for every successful analysis")
	cmd.Flags().StringVar(&analyzeOutputFile, "output-file", "", "save output to file instead of stdout")
	cmd.Flags().BoolVar(&analyzeNoProgress, "no-progress", false, "do not print progress stages")
	cmd.Flags().IntVar(&analyzeConcurrency, "concurrency", 0, "parallel uploads (default from config)")

	return cmd
}

// analysisOutcome is the result of analyzing one image
type analysisOutcome struct {
	Path       string
	Result     *diagnosis.Result
	ReportPath string
	Message    string
	Err        error
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	cfg := GetGlobalConfig()
	log := newLogger("analyze")

	svc, err := newClient(cfg)
	if err != nil {
		return fmt.Errorf("invalid service configuration: %w", err)
	}

	f, err := getFormatter(getOutputFormat(), useColor(cfg) && analyzeOutputFile == "")
	if err != nil {
		return err
	}

	limit := analyzeConcurrency
	if !cmd.Flags().Changed("concurrency") || limit < 1 {
		limit = cfg.Server.MaxConcurrent
	}

	var progress *progressPrinter
	if !analyzeNoProgress {
		progress = newProgressPrinter(cmd.ErrOrStderr(), len(args) > 1)
	}

	log.InfoWithFields("starting batch", []logger.Field{logger.Count(len(args)), logger.F("concurrency", limit)})
	outcomes := analyzeAll(cmd.Context(), svc, cfg, args, limit, analyzeExport, progress)

	var (
		results []*diagnosis.Result
		failed  int
	)
	errOut := cmd.ErrOrStderr()
	for _, o := range outcomes {
		if o.Err != nil {
			failed++
			fmt.Fprintf(errOut, "%s %s: %s\n", GetEmoji("error"), o.Path, o.Message)
			if isVerbose() {
				fmt.Fprintf(errOut, "   %v\n", o.Err)
			}
			continue
		}
		results = append(results, o.Result)
		if o.ReportPath != "" {
			fmt.Fprintf(errOut, "%s Report saved to %s\n", GetEmoji("report"), o.ReportPath)
		}
	}

	if len(results) > 0 {
		output, err := renderResults(f, getOutputFormat(), results)
		if err != nil {
			return err
		}
		if err := handleOutputDestination(cmd.OutOrStdout(), output); err != nil {
			return err
		}
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d analyses failed", failed, len(args))
	}
	return nil
}

// analyzeAll runs one controller per image with at most limit in flight.
// Outcomes keep the order of paths.
func analyzeAll(ctx context.Context, analyzer controller.Analyzer, cfg *config.Config, paths []string, limit int, export bool, progress *progressPrinter) []analysisOutcome {
	if ctx == nil {
		ctx = context.Background()
	}
	outcomes := make([]analysisOutcome, len(paths))

	var g errgroup.Group
	g.SetLimit(limit)
	for i, path := range paths {
		g.Go(func() error {
			opts := controllerOptions(cfg)
			if progress != nil {
				opts = append(opts, controller.WithObserver(progress.observe(path)))
			}
			sel := controller.Command{Action: controller.SelectFile, Path: path}
			outcomes[i] = analyzeOne(ctx, controller.New(analyzer, opts...), sel, export)
			return nil
		})
	}
	_ = g.Wait()

	return outcomes
}

// analyzeOne selects the image in sel, analyzes it and optionally exports a report
func analyzeOne(ctx context.Context, ctrl *controller.Controller, sel controller.Command, export bool) analysisOutcome {
	outcome := analysisOutcome{Path: sel.Path}

	resp, err := ctrl.Dispatch(ctx, sel)
	if err != nil {
		outcome.Err = err
		outcome.Message = messageFor(resp.State, err)
		return outcome
	}

	resp, err = ctrl.Dispatch(ctx, controller.Command{Action: controller.Analyze})
	if err != nil {
		outcome.Err = err
		outcome.Message = messageFor(resp.State, err)
		return outcome
	}
	outcome.Result = resp.State.Result

	if export {
		resp, err = ctrl.Dispatch(ctx, controller.Command{Action: controller.ExportReport})
		if err != nil {
			outcome.Err = err
			outcome.Message = err.Error()
			return outcome
		}
		outcome.ReportPath = resp.ReportPath
	}
	return outcome
}

func messageFor(state controller.State, err error) string {
	if state.ErrorMessage != "" {
		return state.ErrorMessage
	}
	return diagnosis.UserMessage(err)
}

// renderResults formats every result; several JSON results become one array
func renderResults(f formatter.Formatter, format string, results []*diagnosis.Result) ([]byte, error) {
	if format == formatter.FormatJSON && len(results) > 1 {
		items := make([]json.RawMessage, 0, len(results))
		for _, r := range results {
			data, err := f.Format(r)
			if err != nil {
				return nil, fmt.Errorf("failed to format result: %w", err)
			}
			items = append(items, json.RawMessage(bytes.TrimSpace(data)))
		}
		data, err := json.MarshalIndent(items, "", "  ")
		if err != nil {
			return nil, fmt.Errorf("failed to format results: %w", err)
		}
		return append(data, '\n'), nil
	}

	var buf bytes.Buffer
	for i, r := range results {
		data, err := f.Format(r)
		if err != nil {
			return nil, fmt.Errorf("failed to format result: %w", err)
		}
		if i > 0 {
			buf.WriteString("\n")
		}
		buf.Write(data)
	}
	return buf.Bytes(), nil
}

// progressPrinter writes each new progress stage to w
type progressPrinter struct {
	mu    sync.Mutex
	w     io.Writer
	named bool
	last  map[string]int
}

func newProgressPrinter(w io.Writer, named bool) *progressPrinter {
	return &progressPrinter{w: w, named: named, last: make(map[string]int)}
}

func (p *progressPrinter) observe(path string) controller.Observer {
	name := filepath.Base(path)
	return func(s controller.State) {
		if s.Panel != controller.PanelLoading {
			return
		}
		p.mu.Lock()
		defer p.mu.Unlock()

		if last, ok := p.last[path]; ok && last == s.Progress.Percent {
			return
		}
		p.last[path] = s.Progress.Percent

		if p.named {
			fmt.Fprintf(p.w, "[%s] %3d%% %s\n", name, s.Progress.Percent, s.Progress.Label)
		} else {
			fmt.Fprintf(p.w, "%3d%% %s\n", s.Progress.Percent, s.Progress.Label)
		}
	}
}

// handleOutputDestination writes output to --output-file or w
func handleOutputDestination(w io.Writer, output []byte) error {
	if analyzeOutputFile != "" {
		if err := validateOutputFilePath(analyzeOutputFile); err != nil {
			return fmt.Errorf("invalid output file path: %w", err)
		}

		if err := writeOutputBytesToFile(output, analyzeOutputFile); err != nil {
			return fmt.Errorf("failed to write output to file: %w", err)
		}

		if isVerbose() {
			fmt.Fprintf(os.Stderr, "Output saved to: %s\n", analyzeOutputFile)
		}
		return nil
	}

	_, err := w.Write(output)
	return err
}

func validateOutputFilePath(path string) error {
	if path == "" {
		return fmt.Errorf("empty file path")
	}
	info, err := os.Stat(filepath.Clean(path))
	if err == nil && info.IsDir() {
		return fmt.Errorf("path is a directory: %s", path)
	}
	return nil
}

// writeOutputBytesToFile writes output to a file with proper error handling
func writeOutputBytesToFile(output []byte, filePath string) error {
	cleanPath := filepath.Clean(filePath)

	file, err := os.Create(cleanPath)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer func() {
		if closeErr := file.Close(); closeErr != nil && isVerbose() {
			fmt.Fprintf(os.Stderr, "Warning: failed to close output file: %v\n", closeErr)
		}
	}()

	if _, err := file.Write(output); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}

	if err := file.Sync(); err != nil {
		return fmt.Errorf("failed to sync output file: %w", err)
	}

	return nil
}
