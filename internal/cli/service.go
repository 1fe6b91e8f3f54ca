package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
	"github.com/yildizm/PalmScan/internal/client"
	"github.com/yildizm/PalmScan/internal/diagnosis"
	"github.com/yildizm/PalmScan/internal/formatter"
	"github.com/yildizm/go-termfmt"
)

func newHealthCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "health",
		Short: "Check that the inference service is reachable",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := newClient(GetGlobalConfig())
			if err != nil {
				return fmt.Errorf("invalid service configuration: %w", err)
			}
			health, err := svc.Health(commandContext(cmd))
			if err != nil {
				fmt.Fprintf(cmd.OutOrStdout(), "%s %s is unreachable\n", statusSymbol(false), GetGlobalConfig().Server.Endpoint)
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s is %s\n", statusSymbol(true), GetGlobalConfig().Server.Endpoint, health.Status)
			return nil
		},
	}
}

func newStatsCommand() *cobra.Command {
	var reset bool

	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show service analytics and feedback statistics",
		Long: `Fetch the analytics the inference service keeps: total analyses, disease
distribution, processing times and user feedback accuracy.

Examples:
  palmscan stats
  palmscan stats -o json
  palmscan stats --reset`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := newClient(GetGlobalConfig())
			if err != nil {
				return fmt.Errorf("invalid service configuration: %w", err)
			}
			ctx := commandContext(cmd)

			if reset {
				status, err := svc.ResetStats(ctx)
				if err != nil {
					return fmt.Errorf("failed to reset statistics: %w", err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", statusSymbol(status.Success), status.Message)
				return nil
			}

			analytics, err := svc.Analytics(ctx)
			if err != nil {
				return fmt.Errorf("failed to fetch analytics: %w", err)
			}
			feedback, err := svc.FeedbackStats(ctx)
			if err != nil {
				return fmt.Errorf("failed to fetch feedback statistics: %w", err)
			}

			if getOutputFormat() == formatter.FormatJSON {
				return writeJSON(cmd.OutOrStdout(), map[string]interface{}{
					"analytics": analytics,
					"feedback":  feedback,
				})
			}
			cfg := GetGlobalConfig()
			renderStats(cmd.OutOrStdout(), analytics, feedback, useColor(cfg))
			return nil
		},
	}

	cmd.Flags().BoolVar(&reset, "reset", false, "clear the service statistics")

	return cmd
}

// renderStats prints analytics and feedback as tree views
func renderStats(w io.Writer, analytics *client.Analytics, feedback *client.FeedbackStats, color bool) {
	opts := termfmt.DefaultOptions()
	opts.Color = color
	opts.Emoji = !isEmojiDisabled()

	fmt.Fprintf(w, "%s Service Statistics\n", GetEmoji("statistics"))
	fmt.Fprintln(w, termfmt.TreeViewWithOptions([]termfmt.TreeItem{
		{Label: "Total Analyses", Value: fmt.Sprintf("%d", analytics.TotalAnalyses)},
		{Label: "Unique Diseases", Value: fmt.Sprintf("%d", analytics.UniqueDiseasesDetected)},
		{Label: "Avg Processing Time", Value: fmt.Sprintf("%.0f ms", analytics.AvgProcessingTimeMS)},
		{Label: "Uptime", Value: fmt.Sprintf("%.1f h", analytics.UptimeHours)},
		{Label: "Feedback Received", Value: fmt.Sprintf("%d", analytics.FeedbackCount), Last: true},
	}, opts))

	if len(analytics.DiseaseDistribution) > 0 {
		fmt.Fprintf(w, "\n%s Disease Distribution\n", GetEmoji("disease"))
		items := make([]termfmt.TreeItem, 0, len(analytics.DiseaseDistribution))
		for i, d := range analytics.DiseaseDistribution {
			items = append(items, termfmt.TreeItem{
				Label: diagnosis.FormatDiseaseName(d.Disease),
				Value: fmt.Sprintf("%d", d.Count),
				Last:  i == len(analytics.DiseaseDistribution)-1,
			})
		}
		fmt.Fprintln(w, termfmt.TreeViewWithOptions(items, opts))
	}

	if len(analytics.RecentAnalyses) > 0 {
		fmt.Fprintf(w, "\n%s Recent Analyses\n", GetEmoji("image"))
		items := make([]termfmt.TreeItem, 0, len(analytics.RecentAnalyses))
		for i, a := range analytics.RecentAnalyses {
			items = append(items, termfmt.TreeItem{
				Label: a.Filename,
				Value: fmt.Sprintf("%s (%d%%) %s", diagnosis.FormatDiseaseName(a.Disease), diagnosis.ConfidencePercent(a.Confidence), a.ID),
				Last:  i == len(analytics.RecentAnalyses)-1,
			})
		}
		fmt.Fprintln(w, termfmt.TreeViewWithOptions(items, opts))
	}

	fmt.Fprintf(w, "\n%s Feedback\n", GetEmoji("success"))
	fmt.Fprintln(w, termfmt.TreeViewWithOptions([]termfmt.TreeItem{
		{Label: "Total", Value: fmt.Sprintf("%d", feedback.TotalFeedback)},
		{Label: "Correct Predictions", Value: fmt.Sprintf("%d", feedback.CorrectPredictions)},
		{Label: "Accuracy", Value: fmt.Sprintf("%.1f%%", feedback.AccuracyRate)},
		{Label: "Average Rating", Value: fmt.Sprintf("%.1f / 5", feedback.AverageRating), Last: true},
	}, opts))
}

func newFeedbackCommand() *cobra.Command {
	var (
		correct bool
		rating  int
		actual  string
		text    string
	)

	cmd := &cobra.Command{
		Use:   "feedback <analysis-id>",
		Short: "Send feedback about a past analysis",
		Long: `Tell the inference service whether a diagnosis was right.

The analysis id is listed by "palmscan stats" under recent analyses.

Examples:
  palmscan feedback 3f2a... --correct
  palmscan feedback 3f2a... --correct=false --actual "bud rot" --rating 2`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			feedback := &client.Feedback{
				AnalysisID:    strings.TrimSpace(args[0]),
				ActualDisease: actual,
				FeedbackText:  text,
			}
			if cmd.Flags().Changed("correct") {
				feedback.IsCorrect = &correct
			}
			if cmd.Flags().Changed("rating") {
				if rating < 1 || rating > 5 {
					return fmt.Errorf("rating must be between 1 and 5")
				}
				feedback.Rating = &rating
			}
			if feedback.AnalysisID == "" {
				return fmt.Errorf("analysis id is required")
			}

			svc, err := newClient(GetGlobalConfig())
			if err != nil {
				return fmt.Errorf("invalid service configuration: %w", err)
			}
			status, err := svc.SubmitFeedback(commandContext(cmd), feedback)
			if err != nil {
				return fmt.Errorf("failed to submit feedback: %w", err)
			}

			message := status.Message
			if message == "" {
				message = "Feedback submitted"
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", statusSymbol(status.Success), message)
			return nil
		},
	}

	cmd.Flags().BoolVar(&correct, "correct", false, "whether the diagnosis was correct")
	cmd.Flags().IntVar(&rating, "rating", 0, "rating from 1 to 5")
	cmd.Flags().StringVar(&actual, "actual", "", "the disease actually present")
	cmd.Flags().StringVar(&text, "text", "", "free-form comment")

	return cmd
}

func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}

func writeJSON(w io.Writer, v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}
	_, err = fmt.Fprintln(w, string(data))
	return err
}
