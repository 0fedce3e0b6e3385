package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rustyeddy/intraday/journal"
)

func newJournalCmd(rc *RootConfig) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "journal",
		Short: "Query the trade log and the SQLite journal",
		Long: `Query simulated trades and backtest runs.

Subcommands:
  day    - Trades logged for a day, as Org or CSV
  rollup - Totals across the whole trade log
  run    - A stored backtest run, as Org

Examples:
  trader journal day 2025-01-15
  trader journal day 2025-01-15 --csv
  trader journal run 01JH6Y...`,
	}

	var asCSV bool
	day := &cobra.Command{
		Use:   "day <YYYY-MM-DD>",
		Short: "List trades logged for a day",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(rc)
			if err != nil {
				return err
			}
			defer a.close()
			if _, err := a.sess.ParseDate(args[0]); err != nil {
				return fmt.Errorf("date: %w", err)
			}
			trades, logged, err := a.trades.Day(args[0])
			if err != nil {
				return err
			}
			if !logged {
				fmt.Fprintf(cmd.OutOrStdout(), "No trade log for %s.\n", args[0])
				return nil
			}
			if asCSV {
				return journal.WriteTradesCSV(cmd.OutOrStdout(), trades)
			}
			if len(trades) == 0 {
				fmt.Fprintf(cmd.OutOrStdout(), "%s: no trades.\n", args[0])
				return nil
			}
			fmt.Fprintln(cmd.OutOrStdout(), journal.FormatTradesOrg(trades))
			return nil
		},
	}
	day.Flags().BoolVar(&asCSV, "csv", false, "print CSV instead of Org")

	rollup := &cobra.Command{
		Use:   "rollup",
		Short: "Summarize every logged trade",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(rc)
			if err != nil {
				return err
			}
			defer a.close()
			roll, err := a.rollup()
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), roll)
			return nil
		},
	}

	run := &cobra.Command{
		Use:   "run <run-id>",
		Short: "Show a stored backtest run",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(rc)
			if err != nil {
				return err
			}
			defer a.close()
			if a.cfg.Journal.SQLitePath == "" {
				return errors.New("journal.sqlite_path is not set")
			}
			j, err := journal.NewSQLite(a.cfg.Journal.SQLitePath)
			if err != nil {
				return fmt.Errorf("open journal: %w", err)
			}
			defer j.Close()

			r, err := j.GetRun(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			rows, err := j.ListTradesByRun(cmd.Context(), args[0])
			if err != nil {
				return fmt.Errorf("query trades: %w", err)
			}
			s, err := r.Org()
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), s)
			for _, row := range rows {
				fmt.Fprintln(cmd.OutOrStdout(), journal.FormatTradeOrg(row.Trade))
			}
			return nil
		},
	}

	cmd.AddCommand(day, rollup, run)
	return cmd
}
