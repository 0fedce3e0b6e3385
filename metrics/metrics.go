// Package metrics records gate decisions, candidates, simulated trades and
// drift-guard actions as Prometheus metrics. A scheduled CLI process has no
// scrape endpoint, so the registry is written to a node-exporter textfile.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/rustyeddy/intraday/risk"
	"github.com/rustyeddy/intraday/sim"
	"github.com/rustyeddy/intraday/trade"
)

const namespace = "intraday"

type Recorder struct {
	reg *prometheus.Registry

	decisions  *prometheus.CounterVec
	candidates *prometheus.CounterVec
	trades     *prometheus.CounterVec
	tradeR     *prometheus.HistogramVec
	drift      *prometheus.CounterVec
	dataErrors *prometheus.CounterVec
	lastRun    *prometheus.GaugeVec
}

func New() *Recorder {
	r := &Recorder{
		reg: prometheus.NewRegistry(),
		decisions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "gate",
			Name:      "decisions_total",
			Help:      "Risk gate outcomes",
		}, []string{"outcome"}),
		candidates: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "scanner",
			Name:      "candidates_total",
			Help:      "Candidates produced by detectors",
		}, []string{"strategy", "grade"}),
		trades: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "sim",
			Name:      "trades_total",
			Help:      "Simulated trades by exit reason",
		}, []string{"strategy", "exit_reason"}),
		tradeR: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "sim",
			Name:      "trade_r",
			Help:      "Outcome of simulated trades in R",
			Buckets:   []float64{-2, -1.5, -1, -0.5, 0, 0.5, 1, 1.5, 2, 3},
		}, []string{"strategy"}),
		drift: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "drift",
			Name:      "actions_total",
			Help:      "Drift guard actions",
		}, []string{"action"}),
		dataErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "marketdata",
			Name:      "errors_total",
			Help:      "Symbols skipped because data could not be fetched",
		}, []string{"kind"}),
		lastRun: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "last_run_timestamp_seconds",
			Help:      "Unix time a command last completed",
		}, []string{"command"}),
	}
	r.reg.MustRegister(r.decisions, r.candidates, r.trades, r.tradeR, r.drift, r.dataErrors, r.lastRun)
	return r
}

// Registry exposes the underlying registry as a gatherer.
func (r *Recorder) Registry() *prometheus.Registry { return r.reg }

func (r *Recorder) Decision(o risk.Outcome) {
	r.decisions.WithLabelValues(string(o)).Inc()
}

func (r *Recorder) Candidate(c trade.Candidate) {
	r.candidates.WithLabelValues(string(c.Strategy), c.Grade.String()).Inc()
}

func (r *Recorder) Trade(t sim.Trade) {
	r.trades.WithLabelValues(string(t.Strategy), string(t.ExitReason)).Inc()
	r.tradeR.WithLabelValues(string(t.Strategy)).Observe(t.R)
}

func (r *Recorder) Drift(a risk.DriftAction) {
	r.drift.WithLabelValues(string(a)).Inc()
}

func (r *Recorder) DataError(kind string) {
	r.dataErrors.WithLabelValues(kind).Inc()
}

func (r *Recorder) Completed(command string, unix float64) {
	r.lastRun.WithLabelValues(command).Set(unix)
}

// WriteTextfile writes the registry atomically for the node exporter
// textfile collector.
func (r *Recorder) WriteTextfile(path string) error {
	return prometheus.WriteToTextfile(path, r.reg)
}
