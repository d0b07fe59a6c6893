package mathutil

import (
	"math"
	"testing"
)

func TestRound(t *testing.T) {
	tests := []struct {
		name     string
		input    float64
		expected float64
	}{
		{"Rounds up", 10.006, 10.01},
		{"Rounds down", 10.004, 10.0},
		{"Negative values", -10.006, -10.01},
		{"Already exact", 10.25, 10.25},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if result := Round(tt.input); math.Abs(result-tt.expected) > 1e-9 {
				t.Errorf("Round(%v) = %v, expected %v", tt.input, result, tt.expected)
			}
		})
	}
}

func TestCompoundFactor(t *testing.T) {
	tests := []struct {
		name     string
		rate     float64
		periods  int
		expected float64
	}{
		{"Zero periods is identity", 5.0, 0, 1.0},
		{"One period", 5.0, 1, 1.05},
		{"Three periods", 3.0, 3, 1.03 * 1.03 * 1.03},
		{"Zero rate stays flat", 0.0, 10, 1.0},
		{"Negative rate shrinks", -10.0, 1, 0.9},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if result := CompoundFactor(tt.rate, tt.periods); math.Abs(result-tt.expected) > 1e-9 {
				t.Errorf("CompoundFactor(%v, %d) = %v, expected %v", tt.rate, tt.periods, result, tt.expected)
			}
		})
	}
}

func TestPresentValue(t *testing.T) {
	tests := []struct {
		name     string
		cashFlow float64
		rate     float64
		year     int
		expected float64
	}{
		{"Year 0 is undiscounted", 1000, 8.0, 0, 1000},
		{"Zero rate is undiscounted", 1000, 0.0, 5, 1000},
		{"One year at 8%", 1080, 8.0, 1, 1000},
		{"Two years at 10%", 1210, 10.0, 2, 1000},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if result := PresentValue(tt.cashFlow, tt.rate, tt.year); math.Abs(result-tt.expected) > 0.01 {
				t.Errorf("PresentValue(%v, %v, %d) = %v, expected %v", tt.cashFlow, tt.rate, tt.year, result, tt.expected)
			}
		})
	}
}

func TestCombineGrowthRates(t *testing.T) {
	// 3% and 3% compound to 6.09%, not 6%.
	combined := CombineGrowthRates(3.0, 3.0)
	if math.Abs(combined-6.09) > 1e-9 {
		t.Errorf("CombineGrowthRates(3, 3) = %v, expected 6.09", combined)
	}

	// Zero on either side leaves the other unchanged.
	if result := CombineGrowthRates(0, 4.5); math.Abs(result-4.5) > 1e-9 {
		t.Errorf("CombineGrowthRates(0, 4.5) = %v, expected 4.5", result)
	}
}

func TestApplyPercentage(t *testing.T) {
	if result := ApplyPercentage(500000, 1.2); math.Abs(result-6000) > 1e-9 {
		t.Errorf("ApplyPercentage(500000, 1.2) = %v, expected 6000", result)
	}
	if result := ApplyPercentage(100, 0); result != 0 {
		t.Errorf("ApplyPercentage(100, 0) = %v, expected 0", result)
	}
}

func TestMinMax(t *testing.T) {
	if Min(3, 5) != 3 || Min(5, 3) != 3 {
		t.Error("Min returned the wrong value")
	}
	if Max(3, 5) != 5 || Max(5, 3) != 5 {
		t.Error("Max returned the wrong value")
	}
}

func TestWithinTolerance(t *testing.T) {
	if !WithinTolerance(10.0, 10.009, 0.01) {
		t.Error("expected values within tolerance")
	}
	if WithinTolerance(10.0, 10.02, 0.01) {
		t.Error("expected values outside tolerance")
	}
}
