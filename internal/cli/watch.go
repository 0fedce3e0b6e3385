package cli

import (
	"context"
	"fmt"
	"os/signal"
	"sync"
	"syscall"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/rustyeddy/intraday/scanner"
	"github.com/rustyeddy/intraday/strategies"
)

// cronLogger adapts zerolog to cron.Logger.
type cronLogger struct{ log zerolog.Logger }

func (l cronLogger) Info(msg string, kv ...any) {
	l.log.Debug().Fields(kv).Msg(msg)
}

func (l cronLogger) Error(err error, msg string, kv ...any) {
	l.log.Error().Err(err).Fields(kv).Msg(msg)
}

// scheduler runs jobs on cron specs in the exchange timezone. Jobs share
// the state files, so they run one at a time.
type scheduler struct {
	cron *cron.Cron
	ctx  context.Context
	mu   sync.Mutex
	log  zerolog.Logger
}

func newScheduler(ctx context.Context, a *app) *scheduler {
	logger := cronLogger{log: a.log}
	return &scheduler{
		cron: cron.New(
			cron.WithLocation(a.sess.Location),
			cron.WithLogger(logger),
			cron.WithChain(cron.Recover(logger), cron.SkipIfStillRunning(logger)),
		),
		ctx: ctx,
		log: a.log,
	}
}

// add registers job under name. An empty spec leaves the job off.
func (s *scheduler) add(name, spec string, job func(context.Context) error) error {
	if spec == "" {
		return nil
	}
	_, err := s.cron.AddFunc(spec, func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		if err := job(s.ctx); err != nil {
			s.log.Error().Err(err).Str("job", name).Msg("job failed")
			return
		}
		s.log.Debug().Str("job", name).Msg("job done")
	})
	if err != nil {
		return fmt.Errorf("schedule %s %q: %w", name, spec, err)
	}
	s.log.Info().Str("job", name).Str("spec", spec).Msg("scheduled")
	return nil
}

func (s *scheduler) run() {
	s.cron.Start()
	s.log.Info().Msg("cron started")
	<-s.ctx.Done()
	<-s.cron.Stop().Done()
	s.log.Info().Msg("cron stopped")
}

func newWatchCmd(rc *RootConfig) *cobra.Command {
	return &cobra.Command{
		Use:   "watch",
		Short: "Run scan, drift guard, nightly replay and swing alerts on schedule",
		Long: `Watch runs until interrupted, firing each job on its cron spec from
the schedule section in the session timezone. An empty spec disables a job.

Jobs:
  scan     - one live tick through the risk gate
  drift    - drift guard over the trade log
  backtest - replay today into the trade log
  swing    - swing alerts from daily bars`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(rc)
			if err != nil {
				return err
			}
			defer a.close()

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			s, err := a.scanner()
			if err != nil {
				return err
			}
			r, err := a.runner()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			sched := newScheduler(ctx, a)
			swingParams := a.cfg.SwingParams()
			swing := strategies.NewSwing(a.cfg.Common(a.sess), swingParams)

			jobs := []struct {
				name, spec string
				fn         func(context.Context) error
			}{
				{"scan", a.cfg.Schedule.Scan, func(ctx context.Context) error {
					res, err := s.Tick(ctx)
					if err != nil {
						return err
					}
					printTick(out, res)
					return a.flush("scan")
				}},
				{"drift", a.cfg.Schedule.Drift, func(context.Context) error {
					rep, err := a.driftGuard().Run()
					if err != nil {
						return err
					}
					a.metrics.Drift(rep.Action)
					if msg := rep.String(); msg != "" {
						fmt.Fprintln(out, msg)
					}
					return a.flush("drift")
				}},
				{"backtest", a.cfg.Schedule.Backtest, func(ctx context.Context) error {
					today := a.sess.Day(a.now())
					if _, err := r.Run(ctx, today, today); err != nil {
						return err
					}
					return a.flush("backtest")
				}},
				{"swing", a.cfg.Schedule.Swing, func(ctx context.Context) error {
					cands, err := s.SwingScan(ctx, swing, a.cfg.Strategies.Swing.LookbackDays)
					if err != nil {
						return err
					}
					fmt.Fprintln(out, scanner.FormatSwingAlerts(swingParams.Style, a.sess.DateKey(a.now()), cands))
					return a.flush("swing")
				}},
			}
			for _, j := range jobs {
				if err := sched.add(j.name, j.spec, j.fn); err != nil {
					return err
				}
			}
			sched.run()
			return nil
		},
	}
}
