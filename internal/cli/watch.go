package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"
	"github.com/yildizm/PalmScan/internal/controller"
	"github.com/yildizm/PalmScan/internal/formatter"
	"github.com/yildizm/PalmScan/internal/history"
	"github.com/yildizm/PalmScan/internal/logger"
	"github.com/yildizm/PalmScan/internal/ui/components"
	"golang.org/x/sync/errgroup"
)

var (
	watchExport bool
)

func newWatchCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "watch <dir>",
		Short: "Analyze photos dropped into a folder",
		Long: `Watch a directory and analyze every JPEG or PNG image written into it.

Uses file system notifications; each file is analyzed once its writes have
settled. A report is written to the configured report directory for every
analysis unless --export=false is given. Press Ctrl+C to stop watching.

Examples:
  palmscan watch ./inbox
  palmscan watch --export=false ~/Pictures/palms`,
		Args: cobra.ExactArgs(1),
		RunE: runWatch,
	}

	cmd.Flags().BoolVar(&watchExport, "export", true, "write a report file for every analysis (default from config)")

	return cmd
}

func runWatch(cmd *cobra.Command, args []string) error {
	dir := args[0]
	if err := validateWatchDir(dir); err != nil {
		return fmt.Errorf("invalid watch directory: %w", err)
	}

	cfg := GetGlobalConfig()
	export := cfg.Watch.Export
	if cmd.Flags().Changed("export") {
		export = watchExport
	}

	svc, err := newClient(cfg)
	if err != nil {
		return fmt.Errorf("invalid service configuration: %w", err)
	}
	f, err := getFormatter(getOutputFormat(), useColor(cfg))
	if err != nil {
		return err
	}

	store := history.New(nil)
	ctrl := controller.New(svc, append(controllerOptions(cfg), controller.WithHistory(store))...)

	watcher, err := createWatcher(dir)
	if err != nil {
		return err
	}
	defer cleanupWatcher(watcher)

	parent := cmd.Context()
	if parent == nil {
		parent = context.Background()
	}
	ctx, stop := signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	out := cmd.OutOrStdout()
	fmt.Fprintf(cmd.ErrOrStderr(), "%s Watching %s for palm photos (Ctrl+C to stop)\n", GetEmoji("watch"), dir)

	folder := &dropFolder{
		ctrl:     ctrl,
		debounce: cfg.Watch.Debounce,
		export:   export,
		log:      newLogger("watch"),
		onResult: func(o analysisOutcome) {
			printWatchOutcome(out, cmd.ErrOrStderr(), f, o)
		},
	}
	err = folder.run(ctx, watcher.Events, watcher.Errors)

	printWatchSummary(cmd.ErrOrStderr(), store.Snapshot())
	return err
}

// dropFolder turns file system events into analyses, one at a time
type dropFolder struct {
	ctrl     *controller.Controller
	debounce time.Duration
	export   bool
	log      *logger.Logger
	onResult func(analysisOutcome)
}

// run collects settled image paths and analyzes them until ctx is done
func (d *dropFolder) run(ctx context.Context, events <-chan fsnotify.Event, errs <-chan error) error {
	if d.log == nil {
		d.log = logger.Nop()
	}
	g, ctx := errgroup.WithContext(ctx)
	queue := make(chan string, 16)

	g.Go(func() error {
		defer close(queue)
		return d.collect(ctx, events, errs, queue)
	})
	g.Go(func() error {
		for path := range queue {
			if ctx.Err() != nil {
				return nil
			}
			sel := controller.Command{Action: controller.Drop, Path: path}
			d.onResult(analyzeOne(ctx, d.ctrl, sel, d.export))
		}
		return nil
	})

	return g.Wait()
}

// collect debounces events per path and forwards image files to queue
func (d *dropFolder) collect(ctx context.Context, events <-chan fsnotify.Event, errs <-chan error, queue chan<- string) error {
	ready := make(chan string, 16)
	timers := make(map[string]*time.Timer)
	defer func() {
		for _, t := range timers {
			t.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-events:
			if !ok {
				return fmt.Errorf("watcher events channel closed")
			}
			if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) {
				continue
			}
			if !isImageFile(event.Name) {
				continue
			}
			path := event.Name
			if t, exists := timers[path]; exists {
				t.Reset(d.debounce)
				continue
			}
			timers[path] = time.AfterFunc(d.debounce, func() {
				select {
				case ready <- path:
				case <-ctx.Done():
				}
			})

		case path := <-ready:
			delete(timers, path)
			d.log.Debug("queued %s", path)
			select {
			case queue <- path:
			case <-ctx.Done():
				return nil
			}

		case err, ok := <-errs:
			if !ok {
				return fmt.Errorf("watcher errors channel closed")
			}
			d.log.Warn("watcher error: %v", err)
		}
	}
}

// isImageFile reports whether name looks like a photo the service accepts
func isImageFile(name string) bool {
	base := filepath.Base(name)
	if strings.HasPrefix(base, ".") {
		return false
	}
	switch strings.ToLower(filepath.Ext(base)) {
	case ".jpg", ".jpeg", ".png":
		return true
	default:
		return false
	}
}

func printWatchOutcome(out, errOut io.Writer, f formatter.Formatter, o analysisOutcome) {
	if o.Err != nil {
		fmt.Fprintf(errOut, "%s %s: %s\n", GetEmoji("error"), filepath.Base(o.Path), o.Message)
		return
	}
	data, err := f.Format(o.Result)
	if err != nil {
		fmt.Fprintf(errOut, "%s %s: %v\n", GetEmoji("error"), filepath.Base(o.Path), err)
		return
	}
	fmt.Fprintf(out, "%s %s\n", GetEmoji("image"), filepath.Base(o.Path))
	_, _ = out.Write(data)
	if o.ReportPath != "" {
		fmt.Fprintf(errOut, "%s Report saved to %s\n", GetEmoji("report"), o.ReportPath)
	}
}

func printWatchSummary(w io.Writer, summary history.Summary) {
	if summary.TotalAnalyses == 0 {
		return
	}
	fmt.Fprintf(w, "\n%s Analyzed %d image(s)", GetEmoji("statistics"), summary.TotalAnalyses)
	if top := components.TopDiseases(summary.DiseaseCounts, 3); len(top) > 0 {
		fmt.Fprintf(w, ": %s", strings.Join(top, ", "))
	}
	fmt.Fprintln(w)
}

// cleanupWatcher safely closes watcher with error logging
func cleanupWatcher(watcher *fsnotify.Watcher) {
	if err := watcher.Close(); err != nil && isVerbose() {
		fmt.Fprintf(os.Stderr, "Warning: failed to close watcher: %v\n", err)
	}
}

// createWatcher creates a watcher on dir
func createWatcher(dir string) (*fsnotify.Watcher, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create watcher: %w", err)
	}

	if err := watcher.Add(dir); err != nil {
		cleanupWatcher(watcher)
		return nil, fmt.Errorf("failed to watch directory: %w", err)
	}

	return watcher, nil
}

// validateWatchDir validates that a path is an existing directory
func validateWatchDir(path string) error {
	if strings.TrimSpace(path) == "" {
		return fmt.Errorf("empty directory path")
	}

	info, err := os.Stat(filepath.Clean(path))
	if err != nil {
		return fmt.Errorf("cannot access directory: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("not a directory: %s", path)
	}

	return nil
}
