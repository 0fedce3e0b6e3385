package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rustyeddy/intraday/backtest"
)

func newSweepCmd(rc *RootConfig) *cobra.Command {
	var days int
	cmd := &cobra.Command{
		Use:   "sweep",
		Short: "Replay ORB over a grid of volume multipliers",
		Long: `Sweep replays the ORB detector once per multiplier in
backtest.sweep_volume_multipliers, one earliest signal per day, and
suggests a change when the best average R beats the configured multiplier
by at least backtest.suggest_min_delta. Nothing is written or applied.

Example:
  trader sweep --days 7`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(rc)
			if err != nil {
				return err
			}
			defer a.close()
			start, end, err := a.window("", "", days)
			if err != nil {
				return err
			}
			base, err := a.runner()
			if err != nil {
				return err
			}
			s := &backtest.Sweep{
				Base:        *base,
				ORB:         a.cfg.ORBParams(),
				Common:      a.cfg.Common(a.sess),
				Multipliers: a.cfg.Backtest.SweepVolumeMults,
				MinDelta:    a.cfg.Backtest.SuggestMinDelta,
			}
			res, err := s.Run(cmd.Context(), start, end)
			if err != nil {
				return fmt.Errorf("sweep: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), res.String())

			roll, err := a.rollup()
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "\n%s\n", roll)
			return a.flush("sweep")
		},
	}
	cmd.Flags().IntVar(&days, "days", 7, "trading days before today")
	return cmd
}
