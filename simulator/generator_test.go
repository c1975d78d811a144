package simulator

import (
	"math"
	"testing"
)

func defaultConfig() Config {
	var cfg Config
	cfg.SetDefaults()
	return cfg
}

// The default profile is the reference duck curve: 22000 MW peak at 18:00
// and a 6875 MW trough (the analytic minimum of the two-harmonic form).
func TestGenerateDefaultDuckCurve(t *testing.T) {
	c, err := New(defaultConfig()).Generate()
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if c.Len() != 1000 {
		t.Fatalf("len = %d, want 1000", c.Len())
	}
	if got := c.SpanHours(); math.Abs(got-24) > 1e-12 {
		t.Fatalf("span = %v h, want 24", got)
	}
	if got := c.PeakMW(); math.Abs(got-22000) > 1e-9 {
		t.Errorf("peak = %v, want 22000", got)
	}
	if got := c.TroughMW(); math.Abs(got-6875) > 0.5 {
		t.Errorf("trough = %v, want about 6875", got)
	}
	// The peak sits at hour 18; sample 750 of 1000 lands exactly on it.
	if got := c.At(750); math.Abs(got-22000) > 1e-9 {
		t.Errorf("sample at 18:00 = %v, want 22000", got)
	}
}

func TestGenerateClipsNegativeLoad(t *testing.T) {
	cfg := defaultConfig()
	cfg.BaseMW = 1000
	cfg.SolarDipMW = 8000
	c, err := New(cfg).Generate()
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if got := c.TroughMW(); got != 0 {
		t.Errorf("trough = %v, want 0 after clipping", got)
	}
}

func TestGenerateJitterIsSeeded(t *testing.T) {
	cfg := defaultConfig()
	cfg.JitterPct = 0.05
	cfg.Seed = 42
	a, err := New(cfg).Generate()
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	b, err := New(cfg).Generate()
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	for i := 0; i < a.Len(); i++ {
		if a.At(i) != b.At(i) {
			t.Fatalf("same seed diverged at sample %d", i)
		}
	}

	cfg.Seed = 43
	d, err := New(cfg).Generate()
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	same := true
	for i := 0; i < a.Len(); i++ {
		if a.At(i) != d.At(i) {
			same = false
			break
		}
	}
	if same {
		t.Fatal("different seeds produced identical curves")
	}
}

func TestConfigValidate(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Config)
	}{
		{"too few points", func(c *Config) { c.Points = 1 }},
		{"negative base", func(c *Config) { c.BaseMW = -1 }},
		{"negative swing", func(c *Config) { c.EveningSwingMW = -1 }},
		{"negative dip", func(c *Config) { c.SolarDipMW = -1 }},
		{"jitter above one", func(c *Config) { c.JitterPct = 1.5 }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := defaultConfig()
			tc.mutate(&cfg)
			if _, err := New(cfg).Generate(); err == nil {
				t.Fatal("expected validation error")
			}
		})
	}
}
