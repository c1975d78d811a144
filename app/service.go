package app

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"

	"github.com/kilianp07/peakshave/config"
	"github.com/kilianp07/peakshave/core/fit"
	"github.com/kilianp07/peakshave/core/loadcurve"
	coremetrics "github.com/kilianp07/peakshave/core/metrics"
	"github.com/kilianp07/peakshave/core/merit"
	"github.com/kilianp07/peakshave/core/strategy"
	"github.com/kilianp07/peakshave/core/sweep"
	"github.com/kilianp07/peakshave/infra/logger"
	"github.com/kilianp07/peakshave/infra/metrics"
	"github.com/kilianp07/peakshave/internal/eventbus"
	"github.com/kilianp07/peakshave/pkg/export"
	"github.com/kilianp07/peakshave/simulator"
)

// Service orchestrates one full scaling experiment: curve generation, the
// capacity sweep, the per-strategy fits and the export of the artifacts.
type Service struct {
	cfg         *config.Config
	curve       *loadcurve.Curve
	bounds      strategy.Bounds
	sink        coremetrics.Sink
	bus         eventbus.EventBus
	log         logger.Logger
	promEnabled bool
	promPort    string
}

// New creates a Service from the configuration.
func New(cfg *config.Config) (*Service, error) {
	applyLogLevel(cfg.Logging.Level)
	logg := logger.New("service")

	curve, err := simulator.New(cfg.Curve).Generate()
	if err != nil {
		return nil, fmt.Errorf("generate curve: %w", err)
	}
	bounds, err := cfg.Strategies.Bounds()
	if err != nil {
		return nil, fmt.Errorf("strategies: %w", err)
	}
	sink, err := coremetrics.NewSink(cfg.Metrics.Sinks)
	if err != nil {
		return nil, fmt.Errorf("metrics sink: %w", err)
	}
	promEnabled := false
	for _, s := range cfg.Metrics.Sinks {
		if s.Type == "prometheus" {
			promEnabled = true
		}
	}

	return &Service{
		cfg:         cfg,
		curve:       curve,
		bounds:      bounds,
		sink:        sink,
		bus:         eventbus.New(),
		log:         logg,
		promEnabled: promEnabled,
		promPort:    cfg.Metrics.PrometheusPort,
	}, nil
}

// Curve returns the generated load curve.
func (s *Service) Curve() *loadcurve.Curve { return s.curve }

// Run executes the experiment and blocks until it finishes, or until the
// context is cancelled when a Prometheus endpoint is being served.
func (s *Service) Run(ctx context.Context) error {
	if s.promEnabled {
		go func() {
			if err := metrics.StartPromServer(ctx, s.promPort); err != nil {
				s.log.Errorf("prom server: %v", err)
			}
		}()
	}

	grid, err := sweep.Grid(s.cfg.Sweep.MinCapacityMWh, s.cfg.Sweep.MaxCapacityMWh, s.cfg.Sweep.Points)
	if err != nil {
		return fmt.Errorf("capacity grid: %w", err)
	}
	metrics.StartEventCollector(ctx, s.bus, s.sink, len(grid))

	s.log.Infof("load curve: %d samples, peak %.1f MW, trough %.1f MW",
		s.curve.Len(), s.curve.PeakMW(), s.curve.TroughMW())

	exp := &sweep.Experiment{
		Curve:      s.curve,
		Bounds:     s.bounds,
		Capacities: grid,
		Workers:    s.cfg.Sweep.Workers,
		Bus:        s.bus,
		Log:        logger.New("sweep"),
	}
	res, err := exp.Run(ctx)
	if err != nil {
		return fmt.Errorf("sweep: %w", err)
	}

	fits := s.fitSeries(res)
	if err := s.export(res, fits); err != nil {
		return err
	}
	s.logSummary(res, fits)

	if s.promEnabled {
		<-ctx.Done()
	}
	return nil
}

// fitSeries fits the scaling law per strategy. A failed fit is reported and
// skipped rather than aborting the run; the records are already exported.
func (s *Service) fitSeries(res *sweep.Results) []export.StrategyFit {
	var fits []export.StrategyFit
	for _, series := range res.Series() {
		f, err := fit.PowerLaw(series.Records, fit.Options{WithOffset: s.cfg.Fit.WithOffset})
		if err != nil {
			s.log.Warnf("fit %s: %v", series.Name, err)
			continue
		}
		fits = append(fits, export.StrategyFit{Strategy: series.Name, Fit: f})
		if rec, ok := s.sink.(coremetrics.FitRecorder); ok {
			ev := coremetrics.FitEvent{
				RunID:    res.RunID,
				Strategy: series.Name,
				Scale:    f.Scale,
				Exponent: f.Exponent,
				Offset:   f.Offset,
				RSquared: f.RSquared,
				Points:   len(series.Records),
				Time:     time.Now(),
			}
			if err := rec.RecordFit(ev); err != nil {
				s.log.Warnf("record fit %s: %v", series.Name, err)
			}
		}
	}
	return fits
}

func (s *Service) export(res *sweep.Results, fits []export.StrategyFit) error {
	dir := s.cfg.Export.Dir
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("export dir: %w", err)
	}
	if s.cfg.Export.Wants("csv") {
		if err := writeFile(filepath.Join(dir, "records.csv"), func(f *os.File) error {
			return export.WriteRecordsCSV(f, res.Series())
		}); err != nil {
			return err
		}
		if err := writeFile(filepath.Join(dir, "fits.csv"), func(f *os.File) error {
			return export.WriteFitsCSV(f, fits)
		}); err != nil {
			return err
		}
	}
	if s.cfg.Export.Wants("json") {
		if err := writeFile(filepath.Join(dir, "records.json"), func(f *os.File) error {
			return export.WriteRecordsJSON(f, res.Series())
		}); err != nil {
			return err
		}
		if err := writeFile(filepath.Join(dir, "fits.json"), func(f *os.File) error {
			return export.WriteFitsJSON(f, fits)
		}); err != nil {
			return err
		}
	}
	if c := s.cfg.Sweep.IllustrativeCapacityMWh; c > 0 && s.cfg.Export.Wants("csv") {
		shaved, err := strategy.Optimistic{}.Dispatch(s.curve, c)
		if err != nil {
			return fmt.Errorf("illustrative dispatch: %w", err)
		}
		if err := writeFile(filepath.Join(dir, "shaved_curve.csv"), func(f *os.File) error {
			return export.WriteCurveCSV(f, s.curve, shaved.Shaved)
		}); err != nil {
			return err
		}
	}
	s.log.Infof("artifacts written to %s", dir)
	return nil
}

// logSummary reports the fitted laws and translates the illustrative peak
// reduction into merit-order marginal prices.
func (s *Service) logSummary(res *sweep.Results, fits []export.StrategyFit) {
	for _, f := range fits {
		s.log.Infof("%s: peak ~ %.1f * capacity^-%.3f + %.1f (r2=%.4f)",
			f.Strategy, f.Fit.Scale, f.Fit.Exponent, f.Fit.Offset, f.Fit.RSquared)
	}
	c := s.cfg.Sweep.IllustrativeCapacityMWh
	if c <= 0 {
		return
	}
	lvl, err := strategy.Optimistic{}.Dispatch(s.curve, c)
	if err != nil {
		s.log.Warnf("illustrative dispatch: %v", err)
		return
	}
	supply, err := merit.New(merit.DefaultFleet())
	if err != nil {
		s.log.Warnf("merit order: %v", err)
		return
	}
	before := supply.PriceAt(s.curve.PeakMW(), merit.Query{})
	after := supply.PriceAt(lvl.PeakMW, merit.Query{})
	s.log.Infof("%.0f MWh of storage shaves the peak from %.1f to %.1f MW, marginal price %.0f -> %.0f $/MWh",
		c, s.curve.PeakMW(), lvl.PeakMW, before, after)
}

// Close releases resources held by the service.
func (s *Service) Close() error {
	s.bus.Close()
	if c, ok := s.sink.(interface{ Close() }); ok {
		c.Close()
	}
	return nil
}

func writeFile(path string, write func(*os.File) error) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := write(f); err != nil {
		f.Close()
		return fmt.Errorf("write %s: %w", path, err)
	}
	return f.Close()
}

func applyLogLevel(level string) {
	switch level {
	case "debug":
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	case "warn":
		zerolog.SetGlobalLevel(zerolog.WarnLevel)
	case "error":
		zerolog.SetGlobalLevel(zerolog.ErrorLevel)
	default:
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}
}
