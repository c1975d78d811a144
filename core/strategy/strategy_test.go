package strategy

import (
	"errors"
	"math"
	"testing"

	"github.com/kilianp07/peakshave/core/loadcurve"
	"github.com/kilianp07/peakshave/core/solver"
)

func mustCurve(t *testing.T, samples []float64, dt float64) *loadcurve.Curve {
	t.Helper()
	c, err := loadcurve.New(samples, dt)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return c
}

func duckCurve(t *testing.T) *loadcurve.Curve {
	t.Helper()
	samples := make([]float64, 1000)
	for i := range samples {
		hour := 24 * float64(i) / 1000
		rad := 2 * math.Pi * (hour - 12) / 24
		samples[i] = math.Max(0, 12000+6000*math.Sin(rad)-4000*math.Cos(2*rad))
	}
	c, err := loadcurve.Daily(samples)
	if err != nil {
		t.Fatalf("Daily: %v", err)
	}
	return c
}

func TestOptimisticZeroCapacity(t *testing.T) {
	c := duckCurve(t)
	res, err := Optimistic{}.Dispatch(c, 0)
	if err != nil {
		t.Fatalf("Dispatch: %v", err)
	}
	if res.PeakMW != c.PeakMW() {
		t.Errorf("PeakMW = %v, want original %v", res.PeakMW, c.PeakMW())
	}
}

func TestOptimisticMonotonicInCapacity(t *testing.T) {
	c := duckCurve(t)
	prev := math.Inf(1)
	for _, capacity := range []float64{0, 100, 1000, 5000, 20000, 50000} {
		res, err := Optimistic{}.Dispatch(c, capacity)
		if err != nil {
			t.Fatalf("Dispatch(%v): %v", capacity, err)
		}
		if res.PeakMW > prev+1e-9 {
			t.Errorf("peak rose from %v to %v at capacity %v", prev, res.PeakMW, capacity)
		}
		prev = res.PeakMW
	}
}

func TestOptimisticShavedPeakEqualsCeiling(t *testing.T) {
	c := duckCurve(t)
	res, err := Optimistic{}.Dispatch(c, 25000)
	if err != nil {
		t.Fatalf("Dispatch: %v", err)
	}
	maxShaved := res.Shaved[0]
	for _, v := range res.Shaved {
		if v > maxShaved {
			maxShaved = v
		}
	}
	if maxShaved != res.PeakMW {
		t.Errorf("shaved max = %v, want ceiling %v", maxShaved, res.PeakMW)
	}
}

func TestPessimisticWindowDischarge(t *testing.T) {
	samples := make([]float64, 24)
	for i := range samples {
		samples[i] = 10
	}
	samples[18] = 20
	c := mustCurve(t, samples, 1)

	p, err := NewPessimistic(17, 4)
	if err != nil {
		t.Fatalf("NewPessimistic: %v", err)
	}
	res, err := p.Dispatch(c, 8) // 2 MW across hours 17..20
	if err != nil {
		t.Fatalf("Dispatch: %v", err)
	}
	if got := res.PeakMW; got != 18 {
		t.Errorf("PeakMW = %v, want 18", got)
	}
	for i, want := range map[int]float64{16: 10, 17: 8, 18: 18, 19: 8, 20: 8, 21: 10} {
		if got := res.Shaved[i]; got != want {
			t.Errorf("shaved[%d] = %v, want %v", i, got, want)
		}
	}
}

func TestPessimisticWindowWrapsMidnight(t *testing.T) {
	samples := make([]float64, 24)
	for i := range samples {
		samples[i] = 10
	}
	samples[0] = 20
	c := mustCurve(t, samples, 1)

	p, err := NewPessimistic(22, 4) // covers hours 22, 23, 0, 1
	if err != nil {
		t.Fatalf("NewPessimistic: %v", err)
	}
	res, err := p.Dispatch(c, 4)
	if err != nil {
		t.Fatalf("Dispatch: %v", err)
	}
	if got := res.Shaved[0]; got != 19 {
		t.Errorf("shaved[0] = %v, want 19", got)
	}
	if got := res.Shaved[23]; got != 9 {
		t.Errorf("shaved[23] = %v, want 9", got)
	}
	if got := res.Shaved[2]; got != 10 {
		t.Errorf("shaved[2] = %v, want 10 (outside window)", got)
	}
}

func TestPessimisticDoesNotClip(t *testing.T) {
	samples := make([]float64, 24)
	for i := range samples {
		samples[i] = 1
	}
	c := mustCurve(t, samples, 1)

	p, err := NewPessimistic(17, 4)
	if err != nil {
		t.Fatalf("NewPessimistic: %v", err)
	}
	res, err := p.Dispatch(c, 400) // 100 MW against a 1 MW curve
	if err != nil {
		t.Fatalf("Dispatch: %v", err)
	}
	if got := res.Shaved[18]; got != -99 {
		t.Errorf("shaved[18] = %v, want -99 (no clipping)", got)
	}
	if got := res.PeakMW; got != 1 {
		t.Errorf("PeakMW = %v, want 1", got)
	}
}

func TestPessimisticValidation(t *testing.T) {
	if _, err := NewPessimistic(17, 0); !errors.Is(err, ErrBadWindow) {
		t.Errorf("NewPessimistic(17, 0) error = %v, want ErrBadWindow", err)
	}
	if _, err := NewPessimistic(17, 25); !errors.Is(err, ErrBadWindow) {
		t.Errorf("NewPessimistic(17, 25) error = %v, want ErrBadWindow", err)
	}
	p := Pessimistic{WindowStartHour: 17, WindowHours: 4}
	c := mustCurve(t, []float64{1, 2}, 1)
	if _, err := p.Dispatch(c, -5); !errors.Is(err, solver.ErrNegativeCapacity) {
		t.Errorf("Dispatch(-5) error = %v, want ErrNegativeCapacity", err)
	}
}

func TestExpectedMeanOfBounds(t *testing.T) {
	c := duckCurve(t)
	window, err := NewPessimistic(17, 4)
	if err != nil {
		t.Fatalf("NewPessimistic: %v", err)
	}
	exp, err := NewExpected(VariantMean, 0, window)
	if err != nil {
		t.Fatalf("NewExpected: %v", err)
	}

	const capacity = 5000.0
	opt, err := Optimistic{}.Dispatch(c, capacity)
	if err != nil {
		t.Fatalf("optimistic: %v", err)
	}
	pess, err := window.Dispatch(c, capacity)
	if err != nil {
		t.Fatalf("pessimistic: %v", err)
	}
	got, err := exp.Dispatch(c, capacity)
	if err != nil {
		t.Fatalf("expected: %v", err)
	}
	if want := 0.5 * (opt.PeakMW + pess.PeakMW); got.PeakMW != want {
		t.Errorf("expected peak = %v, want mean %v", got.PeakMW, want)
	}
}

func TestExpectedDiscountedRerunsOptimistic(t *testing.T) {
	c := duckCurve(t)
	exp, err := NewExpected(VariantDiscounted, 0.75, Pessimistic{})
	if err != nil {
		t.Fatalf("NewExpected: %v", err)
	}
	got, err := exp.Dispatch(c, 10000)
	if err != nil {
		t.Fatalf("Dispatch: %v", err)
	}
	want, err := Optimistic{}.Dispatch(c, 7500)
	if err != nil {
		t.Fatalf("optimistic: %v", err)
	}
	if got.PeakMW != want.PeakMW {
		t.Errorf("discounted peak = %v, want %v", got.PeakMW, want.PeakMW)
	}
}

func TestExpectedValidation(t *testing.T) {
	if _, err := NewExpected("median", 0, Pessimistic{}); !errors.Is(err, ErrUnknownVariant) {
		t.Errorf("variant error = %v, want ErrUnknownVariant", err)
	}
	if _, err := NewExpected(VariantDiscounted, 1.5, Pessimistic{}); !errors.Is(err, ErrBadDiscount) {
		t.Errorf("discount error = %v, want ErrBadDiscount", err)
	}
	exp, err := NewExpected("", 0, Pessimistic{WindowStartHour: 17, WindowHours: 4})
	if err != nil {
		t.Fatalf("NewExpected defaults: %v", err)
	}
	if exp.Variant != VariantMean || exp.DiscountFactor != DefaultDiscountFactor {
		t.Errorf("defaults = %+v, want mean/0.75", exp)
	}
}

func TestAllStrategiesZeroCapacity(t *testing.T) {
	c := duckCurve(t)
	window, err := NewPessimistic(17, 4)
	if err != nil {
		t.Fatalf("NewPessimistic: %v", err)
	}
	exp, err := NewExpected(VariantMean, 0, window)
	if err != nil {
		t.Fatalf("NewExpected: %v", err)
	}
	for _, s := range []Strategy{Optimistic{}, exp, window} {
		res, err := s.Dispatch(c, 0)
		if err != nil {
			t.Fatalf("%s: %v", s.Name(), err)
		}
		if res.PeakMW != c.PeakMW() {
			t.Errorf("%s peak at zero capacity = %v, want %v", s.Name(), res.PeakMW, c.PeakMW())
		}
	}
}
