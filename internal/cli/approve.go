package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/rustyeddy/intraday/risk"
)

func newApproveCmd(rc *RootConfig) *cobra.Command {
	var source string
	cmd := &cobra.Command{
		Use:       "approve yes|no",
		Short:     "Record the reply to the pending approval",
		Args:      cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		ValidArgs: []string{"yes", "no", "YES", "NO"},
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(rc)
			if err != nil {
				return err
			}
			defer a.close()
			p, err := risk.Resolve(a.store, a.approvals, args[0], source, a.now())
			if errors.Is(err, risk.ErrNoPending) {
				fmt.Fprintln(cmd.OutOrStdout(), "No pending approval.")
				return a.flush("approve")
			}
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Recorded %s for %s\n", strings.ToUpper(args[0]), p.ApprovalID)
			return a.flush("approve")
		},
	}
	cmd.Flags().StringVar(&source, "source", "cli", "where the reply came from")
	return cmd
}
