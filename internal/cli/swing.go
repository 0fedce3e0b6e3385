package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rustyeddy/intraday/scanner"
	"github.com/rustyeddy/intraday/strategies"
)

func newSwingCmd(rc *RootConfig) *cobra.Command {
	return &cobra.Command{
		Use:   "swing",
		Short: "List swing setups from daily bars",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(rc)
			if err != nil {
				return err
			}
			defer a.close()
			s, err := a.scanner()
			if err != nil {
				return err
			}
			p := a.cfg.SwingParams()
			cands, err := s.SwingScan(cmd.Context(), strategies.NewSwing(a.cfg.Common(a.sess), p), a.cfg.Strategies.Swing.LookbackDays)
			if err != nil {
				return fmt.Errorf("swing: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), scanner.FormatSwingAlerts(p.Style, a.sess.DateKey(a.now()), cands))
			return a.flush("swing")
		},
	}
}
