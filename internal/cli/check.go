package cli

import (
	"context"
	"fmt"

	"github.com/mikey/email-domain-verifier/internal/adapters/filter"
	"github.com/mikey/email-domain-verifier/internal/config"
	"github.com/mikey/email-domain-verifier/internal/core"
	"github.com/spf13/cobra"
)

func newCheckCommand(a *app) *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "check <email> [email...]",
		Short: "Classify one or more email addresses",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
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

				var results []*core.VerificationResult
				for _, email := range args {
					if jsonOutput {
						result, err := svc.Classify(ctx, email)
						if err != nil {
							return err
						}
						results = append(results, result)
						continue
					}
					if _, err := cli.ProcessEmail(ctx, email); err != nil {
						return fmt.Errorf("checking %s: %w", email, err)
					}
				}

				if jsonOutput {
					return encodeJSON(cmd.OutOrStdout(), results)
				}
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output results as JSON")
	return cmd
}
