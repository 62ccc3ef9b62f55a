package pricing

import (
	"math"
	"testing"

	"github.com/menta2k/patio-designer/pkg/errors"
	"github.com/menta2k/patio-designer/pkg/types"
)

func TestNew(t *testing.T) {
	calc := New()
	if calc == nil {
		t.Fatal("New() returned nil")
	}

	if calc.Market() != "Georgia" {
		t.Errorf("Expected Georgia market, got %s", calc.Market())
	}
}

func TestRate(t *testing.T) {
	calc := New()
	tests := []struct {
		enclosure types.EnclosureType
		expected  float64
	}{
		{types.ScreenPorch, 18},
		{types.Sunroom, 95},
		{types.PatioCover, 45},
		{types.EnclosureType("gazebo"), 45},
		{"", 45},
	}

	for _, test := range tests {
		if got := calc.Rate(test.enclosure); got != test.expected {
			t.Errorf("Rate(%q) = %f, expected %f", test.enclosure, got, test.expected)
		}
	}
}

func TestEstimate(t *testing.T) {
	calc := New()

	est, err := calc.Estimate(12, 10, types.Sunroom)
	if err != nil {
		t.Fatalf("Estimate failed: %v", err)
	}

	if est.Area != 120 {
		t.Errorf("Expected area 120, got %f", est.Area)
	}
	if est.Rate != 95 {
		t.Errorf("Expected rate 95, got %f", est.Rate)
	}
	if est.Price != 11400 {
		t.Errorf("Expected price 11400, got %f", est.Price)
	}

	want := "Estimated Price: $11,400.00 (Approximate for Georgia Market)"
	if got := calc.Text(est); got != want {
		t.Errorf("Text() = %q, expected %q", got, want)
	}
}

func TestEstimateUnknownEnclosure(t *testing.T) {
	calc := New()

	est, err := calc.Estimate(10, 10, types.EnclosureType("pergola"))
	if err != nil {
		t.Fatalf("Estimate failed: %v", err)
	}
	if est.Enclosure != types.PatioCover {
		t.Errorf("Expected fallback to %s, got %s", types.PatioCover, est.Enclosure)
	}
	if est.Price != 4500 {
		t.Errorf("Expected price 4500, got %f", est.Price)
	}
}

func TestEstimateInvalidDimensions(t *testing.T) {
	calc := New()
	cases := [][2]float64{
		{0, 10},
		{10, 0},
		{-5, 10},
		{10, -0.1},
		{math.NaN(), 10},
		{10, math.Inf(1)},
	}

	for _, c := range cases {
		_, err := calc.Estimate(c[0], c[1], types.ScreenPorch)
		if !errors.Is(err, errors.ErrCodeInvalidDimensions) {
			t.Errorf("Estimate(%v, %v) error = %v, expected INVALID_DIMENSIONS", c[0], c[1], err)
		}
	}
}

func TestEstimateMonotonic(t *testing.T) {
	calc := New()

	for _, enclosure := range types.EnclosureTypes() {
		prev := 0.0
		for w := 1.0; w <= 40; w += 1.5 {
			est, err := calc.Estimate(w, 8, enclosure)
			if err != nil {
				t.Fatalf("Estimate failed: %v", err)
			}
			if est.Price < prev {
				t.Errorf("%s: price decreased from %f to %f at width %f", enclosure, prev, est.Price, w)
			}
			if est.Price != w*8*calc.Rate(enclosure) {
				t.Errorf("%s: price %f is not width × depth × rate", enclosure, est.Price)
			}
			prev = est.Price
		}

		prev = 0
		for d := 0.5; d <= 30; d += 0.75 {
			est, _ := calc.Estimate(12, d, enclosure)
			if est.Price < prev {
				t.Errorf("%s: price decreased with depth at %f", enclosure, d)
			}
			prev = est.Price
		}
	}
}

func TestCustomRates(t *testing.T) {
	calc := NewWithConfig(Config{
		Rates: map[types.EnclosureType]float64{
			types.ScreenPorch: 20,
			types.Sunroom:     100,
			types.PatioCover:  50,
		},
		Market: "Florida",
	})

	est, err := calc.Estimate(15, 12, types.ScreenPorch)
	if err != nil {
		t.Fatalf("Estimate failed: %v", err)
	}

	want := "Estimated Price: $3,600.00 (Approximate for Florida Market)"
	if got := calc.Text(est); got != want {
		t.Errorf("Text() = %q, expected %q", got, want)
	}
}

func TestFormatAmount(t *testing.T) {
	tests := []struct {
		amount   float64
		expected string
	}{
		{0, "0.00"},
		{18, "18.00"},
		{1234567.891, "1,234,567.89"},
		{11400, "11,400.00"},
	}

	for _, test := range tests {
		if got := FormatAmount(test.amount); got != test.expected {
			t.Errorf("FormatAmount(%f) = %q, expected %q", test.amount, got, test.expected)
		}
	}
}

func BenchmarkEstimate(b *testing.B) {
	calc := New()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		calc.Estimate(12, 10, types.Sunroom)
	}
}

func TestPartialRateTable(t *testing.T) {
	calc := NewWithConfig(Config{
		Rates:  map[types.EnclosureType]float64{types.PatioCover: 45},
		Market: DefaultMarket,
	})

	est, err := calc.Estimate(10, 10, types.ScreenPorch)
	if err != nil {
		t.Fatalf("Estimate failed: %v", err)
	}
	if est.Rate != 45 || est.Price != 4500 {
		t.Errorf("Expected fallback to the patio cover rate, got %+v", est)
	}
	if est.Enclosure != types.ScreenPorch {
		t.Errorf("Estimate should keep the requested enclosure, got %s", est.Enclosure)
	}
}

func TestEmptyRateTable(t *testing.T) {
	calc := NewWithConfig(Config{
		Rates:  map[types.EnclosureType]float64{types.Sunroom: 95},
		Market: DefaultMarket,
	})

	if _, err := calc.Estimate(10, 10, types.ScreenPorch); !errors.Is(err, errors.ErrCodeUnsupportedOption) {
		t.Errorf("Expected UNSUPPORTED_OPTION without a usable rate, got %v", err)
	}
	if est, err := calc.Estimate(10, 10, types.Sunroom); err != nil || est.Price != 9500 {
		t.Errorf("Configured rate should still apply, got %+v, %v", est, err)
	}
}
