package cli

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/mikey/email-domain-verifier/internal/core"
	"github.com/spf13/cobra"
)

func newReviewCommand(a *app) *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "review <domain> [domain...]",
		Short: "Ask a language model whether unknown domains are disposable",
		Long: `Review candidate domains that are not yet in the store with the configured
language model provider (bedrock, gemini or openai). Confident disposable
verdicts are added to the store only with --apply.

Examples:
  domain-check review quickinbox.example --provider openai
  domain-check review quickinbox.example fastmail.example --apply`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			return a.invoke(func(svc *core.ReviewService) error {
				outcomes, err := svc.Review(ctx, args)
				if errors.Is(err, core.ErrNoReviewer) {
					return fmt.Errorf("%w: set review.provider or pass --provider", err)
				}
				if jsonOutput {
					if encErr := encodeJSON(cmd.OutOrStdout(), outcomes); encErr != nil {
						return encErr
					}
				} else {
					printOutcomes(cmd.OutOrStdout(), outcomes)
				}
				return err
			})
		},
	}

	cmd.Flags().StringVar(&a.opts.ReviewProvider, "provider", "", "Override review.provider (bedrock, gemini, openai)")
	cmd.Flags().BoolVar(&a.opts.ReviewApply, "apply", false, "Add confident disposable verdicts to the store")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output outcomes as JSON")
	return cmd
}

func printOutcomes(out io.Writer, outcomes []*core.ReviewOutcome) {
	red := color.New(color.FgRed, color.Bold)
	green := color.New(color.FgGreen, color.Bold)
	yellow := color.New(color.FgYellow)
	cyan := color.New(color.FgCyan)

	for _, o := range outcomes {
		fmt.Fprintln(out)
		cyan.Fprintf(out, "%s\n", o.Input)
		switch o.Status {
		case core.ReviewStatusInvalid:
			yellow.Fprintln(out, "  invalid domain, not reviewed")
		case core.ReviewStatusKnown:
			fmt.Fprintf(out, "  %s is already a known disposable domain\n", o.Domain)
		case core.ReviewStatusFailed:
			red.Fprintf(out, "  review failed: %s\n", o.Error)
		case core.ReviewStatusReviewed:
			fmt.Fprint(out, "  Disposable:  ")
			if o.Review.IsDisposable {
				red.Fprintln(out, "Yes")
			} else {
				green.Fprintln(out, "No")
			}
			fmt.Fprintf(out, "  Confidence:  %.2f\n", o.Review.Confidence)
			fmt.Fprintf(out, "  Model:       %s\n", o.Review.ModelUsed)
			fmt.Fprintf(out, "  Explanation: %s\n", o.Review.Explanation)
			if o.Applied {
				green.Fprintln(out, "  Added to store")
			}
		}
	}
}
