package cli

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/mikey/email-domain-verifier/internal/adapters/filter"
	"github.com/mikey/email-domain-verifier/internal/adapters/source"
	"github.com/mikey/email-domain-verifier/internal/config"
	"github.com/mikey/email-domain-verifier/internal/core"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
)

// bulkChunkSize is how many addresses are classified per progress update
const bulkChunkSize = 100

type bulkOptions struct {
	inputFile  string
	outputFile string
	format     string
}

func newBulkCommand(a *app) *cobra.Command {
	opts := &bulkOptions{}

	cmd := &cobra.Command{
		Use:   "bulk",
		Short: "Classify a list of email addresses",
		Long: `Classify email addresses read from a file (one per line) or from stdin.

Examples:
  domain-check bulk -f emails.txt
  domain-check bulk -f emails.txt -o results.csv
  cat emails.txt | domain-check bulk --format json -o results.json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			emails, err := loadEmails(opts.inputFile, cmd.InOrStdin())
			if err != nil {
				return err
			}
			if len(emails) == 0 {
				return fmt.Errorf("no email addresses to verify")
			}

			return a.invoke(func(
				cfg *config.Config,
				svc *core.VerifierService,
				sources []core.DomainSource,
				cli *filter.CLIFilter,
			) error {
				if err := ensurePopulated(ctx, cfg, svc, sources); err != nil {
					return err
				}

				start := time.Now()
				bulk, err := classifyWithProgress(ctx, svc, emails, a.quiet, cmd.ErrOrStderr())
				if err != nil {
					return err
				}
				took := time.Since(start)

				if opts.outputFile != "" {
					if err := writeResults(opts.outputFile, opts.format, bulk.Results); err != nil {
						return err
					}
					fmt.Fprintf(cmd.OutOrStdout(), "Results written to %s\n", opts.outputFile)
				} else if opts.format == "json" {
					if err := encodeJSON(cmd.OutOrStdout(), bulk); err != nil {
						return err
					}
				}

				if !a.quiet {
					cli.PrintSummary(bulk, took)
				}
				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&opts.inputFile, "file", "f", "", "Input file with one email per line (default stdin)")
	cmd.Flags().StringVarP(&opts.outputFile, "output", "o", "", "Write per-address results to this file")
	cmd.Flags().StringVar(&opts.format, "format", "", "Output format: csv or json (default from output extension)")
	return cmd
}

func loadEmails(path string, stdin io.Reader) ([]string, error) {
	if path == "" || path == "-" {
		return source.ParseList(stdin)
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()
	return source.ParseList(f)
}

// classifyWithProgress classifies emails in chunks so the bar advances
// while keeping results in input order
func classifyWithProgress(ctx context.Context, svc *core.VerifierService, emails []string, quiet bool, w io.Writer) (*core.BulkVerificationResult, error) {
	var bar *progressbar.ProgressBar
	if !quiet {
		bar = progressbar.NewOptions(len(emails),
			progressbar.OptionSetWriter(w),
			progressbar.OptionSetDescription("Verifying"),
			progressbar.OptionSetTheme(progressbar.Theme{
				Saucer:        "=",
				SaucerHead:    ">",
				SaucerPadding: " ",
				BarStart:      "[",
				BarEnd:        "]",
			}),
			progressbar.OptionShowCount(),
			progressbar.OptionShowIts(),
			progressbar.OptionSetItsString("emails"),
		)
	}

	total := &core.BulkVerificationResult{Results: make([]*core.VerificationResult, 0, len(emails))}
	for i := 0; i < len(emails); i += bulkChunkSize {
		end := min(i+bulkChunkSize, len(emails))
		chunk, err := svc.ClassifyBulk(ctx, emails[i:end])
		if err != nil {
			return nil, err
		}
		total.Total += chunk.Total
		total.ValidCount += chunk.ValidCount
		total.DisposableCount += chunk.DisposableCount
		total.SuspiciousCount += chunk.SuspiciousCount
		total.Results = append(total.Results, chunk.Results...)
		if bar != nil {
			_ = bar.Add(end - i)
		}
	}
	if bar != nil {
		_ = bar.Finish()
		fmt.Fprintln(w)
	}
	return total, nil
}

func writeResults(path, format string, results []*core.VerificationResult) error {
	if format == "" {
		if strings.EqualFold(filepath.Ext(path), ".json") {
			format = "json"
		} else {
			format = "csv"
		}
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer f.Close()

	switch format {
	case "json":
		return encodeJSON(f, results)
	case "csv":
		return writeCSV(f, results)
	default:
		return fmt.Errorf("unsupported output format: %s", format)
	}
}

func writeCSV(w io.Writer, results []*core.VerificationResult) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"email", "domain", "verdict", "is_valid", "is_disposable", "is_suspicious", "reasons", "message"}); err != nil {
		return err
	}
	for _, r := range results {
		if err := cw.Write([]string{
			r.Email,
			r.Domain,
			string(filter.Verdict(r)),
			strconv.FormatBool(r.IsValid),
			strconv.FormatBool(r.IsDisposable),
			strconv.FormatBool(r.IsSuspicious),
			strings.Join(r.Reasons, ";"),
			r.Message,
		}); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func encodeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
