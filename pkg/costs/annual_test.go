package costs

import (
	"errors"
	"math"
	"testing"
)

func TestEscalate(t *testing.T) {
	tests := []struct {
		name            string
		baseCost        float64
		escalationRate  float64
		year            int
		yearOneIndexing bool
		expected        float64
	}{
		{
			name:            "Year 1 carries the base cost",
			baseCost:        10000,
			escalationRate:  3.0,
			year:            1,
			yearOneIndexing: true,
			expected:        10000,
		},
		{
			name:            "Year 3 compounds twice",
			baseCost:        10000,
			escalationRate:  3.0,
			year:            3,
			yearOneIndexing: true,
			expected:        10000 * 1.03 * 1.03,
		},
		{
			name:            "Without indexing escalation applies from year 1",
			baseCost:        10000,
			escalationRate:  3.0,
			year:            1,
			yearOneIndexing: false,
			expected:        10300,
		},
		{
			name:            "Zero rate is idempotent across years",
			baseCost:        10000,
			escalationRate:  0.0,
			year:            17,
			yearOneIndexing: true,
			expected:        10000,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := Escalate(tt.baseCost, tt.escalationRate, tt.year, tt.yearOneIndexing)
			if err != nil {
				t.Fatalf("Escalate() error = %v", err)
			}
			if math.Abs(result-tt.expected) > 0.01 {
				t.Errorf("Escalate() = %.2f, expected %.2f", result, tt.expected)
			}
		})
	}
}

func TestEscalateInvalidYear(t *testing.T) {
	for _, year := range []int{0, -1, -10} {
		_, err := Escalate(10000, 3.0, year, true)
		if err == nil {
			t.Errorf("year %d: expected error, got nil", year)
			continue
		}
		if !errors.Is(err, ErrInvalidYear) {
			t.Errorf("year %d: expected ErrInvalidYear, got %v", year, err)
		}
	}
}

func TestCalculateOwnershipCosts(t *testing.T) {
	// Year 1 costs are the unescalated bases.
	result, err := CalculateOwnershipCosts(500000, 1.2, 2.0, 5000, 10000, 0, 1.5, 0.5, 3.0, 1)
	if err != nil {
		t.Fatalf("CalculateOwnershipCosts() error = %v", err)
	}

	if math.Abs(result.PropertyTaxes-6000) > 0.01 {
		t.Errorf("PropertyTaxes = %.2f, expected 6000", result.PropertyTaxes)
	}
	if math.Abs(result.Insurance-5000) > 0.01 {
		t.Errorf("Insurance = %.2f, expected 5000", result.Insurance)
	}
	if math.Abs(result.CapexReserve-7500) > 0.01 {
		t.Errorf("CapexReserve = %.2f, expected 7500", result.CapexReserve)
	}
	if math.Abs(result.ObsolescenceCost-2500) > 0.01 {
		t.Errorf("ObsolescenceCost = %.2f, expected 2500", result.ObsolescenceCost)
	}

	expectedTotal := result.PropertyTaxes + result.Insurance + result.Maintenance +
		result.PropertyManagement + result.CapexReserve + result.ObsolescenceCost
	if math.Abs(result.TotalAnnualCost-expectedTotal) > 0.01 {
		t.Errorf("TotalAnnualCost = %.2f, expected %.2f", result.TotalAnnualCost, expectedTotal)
	}
}

func TestCalculateOwnershipCostsEscalation(t *testing.T) {
	// Property taxes follow their own escalation rate while everything
	// else follows inflation.
	year5, err := CalculateOwnershipCosts(500000, 1.2, 2.0, 5000, 10000, 0, 1.5, 0.5, 3.0, 5)
	if err != nil {
		t.Fatalf("CalculateOwnershipCosts() error = %v", err)
	}

	expectedTaxes := 6000 * math.Pow(1.02, 4)
	if math.Abs(year5.PropertyTaxes-expectedTaxes) > 0.01 {
		t.Errorf("PropertyTaxes = %.2f, expected %.2f", year5.PropertyTaxes, expectedTaxes)
	}

	expectedInsurance := 5000 * math.Pow(1.03, 4)
	if math.Abs(year5.Insurance-expectedInsurance) > 0.01 {
		t.Errorf("Insurance = %.2f, expected %.2f", year5.Insurance, expectedInsurance)
	}
}

func TestCalculateOwnershipCostsInvalidYear(t *testing.T) {
	if _, err := CalculateOwnershipCosts(500000, 1.2, 2.0, 5000, 10000, 0, 1.5, 0.5, 3.0, 0); err == nil {
		t.Error("expected error for year 0, got nil")
	}
}

func TestCalculateRentalCosts(t *testing.T) {
	tests := []struct {
		name               string
		currentAnnualRent  float64
		rentIncreaseRate   float64
		year               int
		currentSpaceNeeded float64
		totalSpaceRented   float64
		expectedRent       float64
		expectedPerUnit    float64
	}{
		{
			name:              "Year 1 is the current rent",
			currentAnnualRent: 120000,
			rentIncreaseRate:  3.0,
			year:              1,
			totalSpaceRented:  4500,
			expectedRent:      120000,
			expectedPerUnit:   120000.0 / 4500,
		},
		{
			name:              "Year 4 compounds three times",
			currentAnnualRent: 120000,
			rentIncreaseRate:  3.0,
			year:              4,
			totalSpaceRented:  4500,
			expectedRent:      120000 * 1.03 * 1.03 * 1.03,
			expectedPerUnit:   120000 * 1.03 * 1.03 * 1.03 / 4500,
		},
		{
			name:               "Falls back to needed space for per-unit rent",
			currentAnnualRent:  120000,
			rentIncreaseRate:   0.0,
			year:               1,
			currentSpaceNeeded: 4000,
			totalSpaceRented:   0,
			expectedRent:       120000,
			expectedPerUnit:    30,
		},
		{
			name:              "No space figures skips per-unit rent",
			currentAnnualRent: 120000,
			rentIncreaseRate:  0.0,
			year:              1,
			expectedRent:      120000,
			expectedPerUnit:   0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := CalculateRentalCosts(tt.currentAnnualRent, tt.rentIncreaseRate, tt.year,
				tt.currentSpaceNeeded, tt.totalSpaceRented)
			if err != nil {
				t.Fatalf("CalculateRentalCosts() error = %v", err)
			}
			if math.Abs(result.AnnualRent-tt.expectedRent) > 0.01 {
				t.Errorf("AnnualRent = %.2f, expected %.2f", result.AnnualRent, tt.expectedRent)
			}
			if math.Abs(result.RentPerUnit-tt.expectedPerUnit) > 0.0001 {
				t.Errorf("RentPerUnit = %.4f, expected %.4f", result.RentPerUnit, tt.expectedPerUnit)
			}
		})
	}
}

func TestCalculateUpgradeCost(t *testing.T) {
	tests := []struct {
		name              string
		purchasePrice     float64
		landValuePct      float64
		upgradeCycleYears int
		year              int
		expected          float64
	}{
		{
			name:              "Upgrade year costs 2% of building value",
			purchasePrice:     500000,
			landValuePct:      25,
			upgradeCycleYears: 15,
			year:              15,
			expected:          7500,
		},
		{
			name:              "Second cycle hits at year 30",
			purchasePrice:     500000,
			landValuePct:      25,
			upgradeCycleYears: 15,
			year:              30,
			expected:          7500,
		},
		{
			name:              "Off-cycle year costs nothing",
			purchasePrice:     500000,
			landValuePct:      25,
			upgradeCycleYears: 15,
			year:              14,
			expected:          0,
		},
		{
			name:              "Zero cycle disables upgrades",
			purchasePrice:     500000,
			landValuePct:      25,
			upgradeCycleYears: 0,
			year:              15,
			expected:          0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := CalculateUpgradeCost(tt.purchasePrice, tt.landValuePct, tt.upgradeCycleYears, tt.year)
			if math.Abs(result-tt.expected) > 0.01 {
				t.Errorf("CalculateUpgradeCost() = %.2f, expected %.2f", result, tt.expected)
			}
		})
	}
}

func TestCalculateTaxBenefits(t *testing.T) {
	tests := []struct {
		name                   string
		interestDeductible     bool
		propertyTaxDeductible  bool
		depreciationDeductible bool
		expectedTotal          float64
	}{
		{
			name:                   "All deductions active",
			interestDeductible:     true,
			propertyTaxDeductible:  true,
			depreciationDeductible: true,
			expectedTotal:          (17500 + 6000 + 9615.38) * 0.25,
		},
		{
			name:                  "Interest and property tax only",
			interestDeductible:    true,
			propertyTaxDeductible: true,
			expectedTotal:         (17500 + 6000) * 0.25,
		},
		{
			name:          "Nothing deductible",
			expectedTotal: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := CalculateTaxBenefits(17500, 6000, 9615.38, 25.0,
				tt.interestDeductible, tt.propertyTaxDeductible, tt.depreciationDeductible)
			if math.Abs(result.TotalTaxSavings-tt.expectedTotal) > 0.01 {
				t.Errorf("TotalTaxSavings = %.2f, expected %.2f", result.TotalTaxSavings, tt.expectedTotal)
			}
		})
	}
}

func TestCalculateSublettingIncome(t *testing.T) {
	tests := []struct {
		name               string
		propertySize       float64
		currentSpaceNeeded float64
		ratePerUnit        float64
		requestedSpace     float64
		enabled            bool
		expectedSpace      float64
		expectedIncome     float64
	}{
		{
			name:               "Excess space sublet at requested size",
			propertySize:       5000,
			currentSpaceNeeded: 4000,
			ratePerUnit:        32,
			requestedSpace:     1000,
			enabled:            true,
			expectedSpace:      1000,
			expectedIncome:     32000,
		},
		{
			name:               "Request capped at available space",
			propertySize:       5000,
			currentSpaceNeeded: 4500,
			ratePerUnit:        32,
			requestedSpace:     1000,
			enabled:            true,
			expectedSpace:      500,
			expectedIncome:     16000,
		},
		{
			name:               "Space deficit floors at zero",
			propertySize:       4000,
			currentSpaceNeeded: 5000,
			ratePerUnit:        32,
			requestedSpace:     1000,
			enabled:            true,
			expectedSpace:      0,
			expectedIncome:     0,
		},
		{
			name:               "Disabled yields all zeros",
			propertySize:       5000,
			currentSpaceNeeded: 4000,
			ratePerUnit:        32,
			requestedSpace:     1000,
			enabled:            false,
			expectedSpace:      0,
			expectedIncome:     0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := CalculateSublettingIncome(tt.propertySize, tt.currentSpaceNeeded,
				tt.ratePerUnit, tt.requestedSpace, tt.enabled)
			if math.Abs(result.SublettingSpace-tt.expectedSpace) > 0.001 {
				t.Errorf("SublettingSpace = %.2f, expected %.2f", result.SublettingSpace, tt.expectedSpace)
			}
			if math.Abs(result.Income-tt.expectedIncome) > 0.01 {
				t.Errorf("Income = %.2f, expected %.2f", result.Income, tt.expectedIncome)
			}
			if result.Enabled != tt.enabled {
				t.Errorf("Enabled = %v, expected %v", result.Enabled, tt.enabled)
			}
		})
	}
}
