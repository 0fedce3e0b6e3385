package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/rustyeddy/intraday/backtest"
	"github.com/rustyeddy/intraday/journal"
)

func newBacktestCmd(rc *RootConfig) *cobra.Command {
	var (
		from, to string
		days     int
		org      bool
		csvPath  string
	)
	cmd := &cobra.Command{
		Use:   "backtest",
		Short: "Replay past trading days through the detectors and simulator",
		Long: `Backtest replays each trading day in the window: regime, detectors,
sector cap, selection and simulation. Every day is written to the trade
log, which the drift guard reads. With journal.sqlite_path set the run and
its trades are also stored in SQLite.

Examples:
  trader backtest --days 30
  trader backtest --from 2025-01-01 --to 2025-01-31 --org`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(rc)
			if err != nil {
				return err
			}
			defer a.close()
			if days <= 0 {
				days = a.cfg.Backtest.Days
			}
			start, end, err := a.window(from, to, days)
			if err != nil {
				return err
			}
			r, err := a.runner()
			if err != nil {
				return err
			}
			if p := a.cfg.Journal.SQLitePath; p != "" {
				j, err := journal.NewSQLite(p)
				if err != nil {
					return fmt.Errorf("open journal: %w", err)
				}
				defer j.Close()
				r.Journal = j
			}

			res, err := r.Run(cmd.Context(), start, end)
			if err != nil {
				return fmt.Errorf("backtest: %w", err)
			}
			backtest.PrintResult(cmd.OutOrStdout(), &res)

			if org {
				path, err := writeOrg(a.cfg.Journal.OrgDir, res)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Org report: %s\n", path)
			}
			if csvPath != "" {
				if err := writeCSV(csvPath, res); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Trades CSV: %s\n", csvPath)
			}
			return a.flush("backtest")
		},
	}
	cmd.Flags().StringVar(&from, "from", "", "first day (YYYY-MM-DD)")
	cmd.Flags().StringVar(&to, "to", "", "last day (YYYY-MM-DD)")
	cmd.Flags().IntVar(&days, "days", 0, "trading days before today (default backtest.days)")
	cmd.Flags().BoolVar(&org, "org", false, "write an Org-mode report to journal.org_dir")
	cmd.Flags().StringVar(&csvPath, "csv", "", "write the run's trades as CSV")
	return cmd
}

func writeOrg(dir string, res backtest.Result) (string, error) {
	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}
	run := res.Run()
	run.OrgPath = filepath.Join(dir, "backtest_"+res.RunID+".org")
	if err := run.WriteBacktestOrg(); err != nil {
		return "", fmt.Errorf("write org report: %w", err)
	}
	return run.OrgPath, nil
}

func writeCSV(path string, res backtest.Result) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := journal.WriteTradesCSV(f, res.Trades()); err != nil {
		f.Close()
		return fmt.Errorf("write trades csv: %w", err)
	}
	return f.Close()
}
