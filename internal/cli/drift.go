package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newDriftCmd(rc *RootConfig) *cobra.Command {
	return &cobra.Command{
		Use:   "drift",
		Short: "Run the drift guard over the trade log",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(rc)
			if err != nil {
				return err
			}
			defer a.close()
			rep, err := a.driftGuard().Run()
			if err != nil {
				return fmt.Errorf("drift guard: %w", err)
			}
			a.metrics.Drift(rep.Action)
			if s := rep.String(); s != "" {
				fmt.Fprintln(cmd.OutOrStdout(), s)
			} else {
				fmt.Fprintf(cmd.OutOrStdout(), "Drift guard: %s (%d days, avg %.2fR, max DD %.2fR)\n",
					rep.Action, rep.Stats.Days, rep.Stats.AvgR, rep.Stats.MaxDrawdownR)
			}
			return a.flush("drift")
		},
	}
}
