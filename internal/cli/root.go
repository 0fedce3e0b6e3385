// Package cli wires the trader commands.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

const version = "0.4.0"

// RootConfig holds the persistent flags shared by every command.
type RootConfig struct {
	ConfigPath string
	LogLevel   string
}

func NewRootCmd() *cobra.Command {
	rc := &RootConfig{}

	cmd := &cobra.Command{
		Use:           "trader",
		Short:         "Paper trading assistant for NSE intraday setups",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().StringVar(&rc.ConfigPath, "config", "", "Path to config file (YAML or JSON; defaults apply when empty)")
	cmd.PersistentFlags().StringVar(&rc.LogLevel, "log-level", "", "Override log level: debug|info|warn|error")

	cmd.AddCommand(
		newScanCmd(rc),
		newBacktestCmd(rc),
		newSweepCmd(rc),
		newDriftCmd(rc),
		newSwingCmd(rc),
		newApproveCmd(rc),
		newJournalCmd(rc),
		newWatchCmd(rc),
		newConfigCmd(),
	)

	cmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "trader %s (PAPER)\n", version)
		},
	})

	return cmd
}

func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
