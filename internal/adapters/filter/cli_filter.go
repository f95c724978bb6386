package filter

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/mikey/email-domain-verifier/internal/core"
	"go.uber.org/zap"
)

// CLIFilter classifies addresses for the command line and renders the results
type CLIFilter struct {
	classifier Classifier
	logger     *zap.Logger
	out        io.Writer
	verbose    bool
}

// NewCLIFilter creates a new CLI filter writing to out
func NewCLIFilter(classifier Classifier, logger *zap.Logger, out io.Writer, verbose bool) *CLIFilter {
	return &CLIFilter{
		classifier: classifier,
		logger:     logger,
		out:        out,
		verbose:    verbose,
	}
}

// CheckSender classifies a single address
func (f *CLIFilter) CheckSender(ctx context.Context, from string) (*core.VerificationResult, error) {
	return f.classifier.Classify(ctx, from)
}

// ProcessEmail classifies an address and prints the verdict
func (f *CLIFilter) ProcessEmail(ctx context.Context, email string) (*core.VerificationResult, error) {
	f.logger.Debug("Checking address", zap.String("email", email))

	start := time.Now()
	result, err := f.CheckSender(ctx, email)
	if err != nil {
		f.logger.Error("Failed to classify address", zap.Error(err))
		return nil, err
	}

	f.PrintResult(result, time.Since(start))
	return result, nil
}

// PrintResult renders a single classification
func (f *CLIFilter) PrintResult(result *core.VerificationResult, took time.Duration) {
	green := color.New(color.FgGreen, color.Bold)
	red := color.New(color.FgRed, color.Bold)
	yellow := color.New(color.FgYellow, color.Bold)
	cyan := color.New(color.FgCyan)
	white := color.New(color.FgWhite, color.Bold)

	fmt.Fprintln(f.out)
	white.Fprintf(f.out, "Email: %s\n", result.Email)

	fmt.Fprint(f.out, "Verdict: ")
	switch Verdict(result) {
	case VerdictInvalid:
		red.Fprintln(f.out, "INVALID")
	case VerdictDisposable:
		red.Fprintln(f.out, "DISPOSABLE")
	case VerdictSuspicious:
		yellow.Fprintln(f.out, "SUSPICIOUS")
	default:
		green.Fprintln(f.out, "LEGITIMATE")
	}
	fmt.Fprintf(f.out, "Message: %s\n", result.Message)

	if !result.IsValid {
		return
	}

	fmt.Fprintln(f.out)
	cyan.Fprintln(f.out, "Details:")
	fmt.Fprintf(f.out, "  Domain:      %s\n", result.Domain)
	fmt.Fprintf(f.out, "  Disposable:  %s\n", yesNo(result.IsDisposable, red, green))
	fmt.Fprintf(f.out, "  Suspicious:  %s\n", yesNo(result.IsSuspicious, yellow, green))
	if len(result.Reasons) > 0 {
		fmt.Fprintf(f.out, "  Reasons:     %s\n", strings.Join(result.Reasons, ", "))
	}
	if f.verbose {
		fmt.Fprintf(f.out, "  Took:        %v\n", took)
	}
}

// PrintSummary renders the totals of a bulk run
func (f *CLIFilter) PrintSummary(bulk *core.BulkVerificationResult, took time.Duration) {
	cyan := color.New(color.FgCyan)
	white := color.New(color.FgWhite, color.Bold)
	red := color.New(color.FgRed)
	yellow := color.New(color.FgYellow)
	green := color.New(color.FgGreen)

	fmt.Fprintln(f.out)
	white.Fprintln(f.out, "Summary")
	cyan.Fprintln(f.out, strings.Repeat("-", 30))
	fmt.Fprintf(f.out, "  Total:       %d\n", bulk.Total)
	fmt.Fprintf(f.out, "  Valid:       %s\n", green.Sprint(bulk.ValidCount))
	fmt.Fprintf(f.out, "  Invalid:     %d\n", bulk.Total-bulk.ValidCount)
	fmt.Fprintf(f.out, "  Disposable:  %s\n", red.Sprint(bulk.DisposableCount))
	fmt.Fprintf(f.out, "  Suspicious:  %s\n", yellow.Sprint(bulk.SuspiciousCount))
	if bulk.Total > 0 {
		fmt.Fprintf(f.out, "  Disposable rate: %.1f%%\n", 100*float64(bulk.DisposableCount)/float64(bulk.Total))
	}
	fmt.Fprintf(f.out, "  Took:        %v\n", took.Round(time.Millisecond))
}

func yesNo(v bool, yes, no *color.Color) string {
	if v {
		return yes.Sprint("Yes")
	}
	return no.Sprint("No")
}
