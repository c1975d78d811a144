package simulator

import (
	"math"
	"math/rand"

	"github.com/kilianp07/peakshave/core/loadcurve"
)

// Generator builds synthetic daily load curves from a base level, a
// slow diurnal swing and a faster solar dip harmonic. An optional
// multiplicative jitter roughens the profile for robustness runs.
type Generator struct {
	cfg  Config
	rand *rand.Rand
}

// New creates a new Generator.
func New(cfg Config) *Generator {
	return &Generator{
		cfg:  cfg,
		rand: rand.New(rand.NewSource(cfg.Seed)),
	}
}

// Generate produces one day of load samples on a uniform grid. The
// sample at index k sits at hour 24k/Points, so the final point stops
// one step short of the wrap back to midnight. Negative values after
// jitter are clipped to zero.
func (g *Generator) Generate() (*loadcurve.Curve, error) {
	if err := g.cfg.Validate(); err != nil {
		return nil, err
	}
	samples := make([]float64, g.cfg.Points)
	for k := range samples {
		t := 24 * float64(k) / float64(g.cfg.Points)
		samples[k] = g.sample(t)
	}
	return loadcurve.Daily(samples)
}

func (g *Generator) sample(hour float64) float64 {
	shifted := hour + g.cfg.PhaseShiftHours
	v := g.cfg.BaseMW +
		g.cfg.EveningSwingMW*math.Sin(2*math.Pi*shifted/24) -
		g.cfg.SolarDipMW*math.Cos(4*math.Pi*shifted/24)
	if g.cfg.JitterPct > 0 {
		v *= 1 + (g.rand.Float64()*2-1)*g.cfg.JitterPct
	}
	if v < 0 {
		v = 0
	}
	return v
}
