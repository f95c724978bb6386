package cli

import (
	"context"
	"fmt"

	"github.com/fatih/color"
	"github.com/mikey/email-domain-verifier/internal/config"
	"github.com/mikey/email-domain-verifier/internal/core"
	"github.com/spf13/cobra"
)

func newStatusCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show the state of the disposable domain store",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			return a.invoke(func(cfg *config.Config, svc *core.VerifierService) error {
				status, err := svc.Status(ctx)
				if err != nil {
					return err
				}

				out := cmd.OutOrStdout()
				fmt.Fprintf(out, "Store:   %s\n", cfg.GetStore().Type)
				fmt.Fprintf(out, "Domains: %d\n", status.DomainCount)
				fmt.Fprint(out, "Ready:   ")
				if status.Ready {
					color.New(color.FgGreen).Fprintln(out, "yes")
				} else {
					color.New(color.FgYellow).Fprintln(out, "no (store is empty, run populate)")
				}
				return nil
			})
		},
	}
}
