package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/rustyeddy/intraday/risk"
	"github.com/rustyeddy/intraday/scanner"
)

func newScanCmd(rc *RootConfig) *cobra.Command {
	return &cobra.Command{
		Use:   "scan",
		Short: "Run one live tick and send the best candidate through the risk gate",
		Long: `Scan classifies today's regime from the benchmark, runs the active
detectors over the universe, applies the sector cap and hands the best
scoring candidate to the risk gate. A sent approval is printed in full.

Example:
  trader scan --config trader.yaml`,
		Args: cobra.NoArgs,
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
			res, err := s.Tick(cmd.Context())
			if err != nil {
				return fmt.Errorf("scan: %w", err)
			}
			printTick(cmd.OutOrStdout(), res)
			return a.flush("scan")
		},
	}
}

func printTick(w io.Writer, res scanner.TickResult) {
	switch {
	case res.Skipped != "":
		fmt.Fprintf(w, "%s: no action (%s)\n", res.Date, res.Skipped)
	case res.Gate == nil:
		fmt.Fprintf(w, "%s: no action\n", res.Date)
	case res.Gate.Outcome == risk.Sent:
		fmt.Fprintln(w, res.Gate.Message)
	default:
		fmt.Fprintf(w, "%s: %s %s (%s)\n", res.Date, res.Gate.ApprovalID, res.Gate.Outcome, res.Gate.Reason)
	}
}
