package analysis

import (
	"math"
	"testing"

	"github.com/proptools/buyrent-analyzer/internal/params"
)

func TestComputeTerminalValue(t *testing.T) {
	p := params.Defaults()
	tv := ComputeTerminalValue(p)

	// Land and building both appreciate at the market rate from their
	// initial split of the purchase price.
	appreciation := math.Pow(1.03, 25)
	expectedLand := 125000 * appreciation
	expectedBuilding := 375000 * appreciation

	if math.Abs(tv.LandValue-expectedLand) > 0.01 {
		t.Errorf("LandValue = %.2f, expected %.2f", tv.LandValue, expectedLand)
	}
	if math.Abs(tv.BuildingValue-expectedBuilding) > 0.01 {
		t.Errorf("BuildingValue = %.2f, expected %.2f", tv.BuildingValue, expectedBuilding)
	}
	if math.Abs(tv.GrossPropertyValue-(expectedLand+expectedBuilding)) > 0.01 {
		t.Errorf("GrossPropertyValue = %.2f, expected %.2f", tv.GrossPropertyValue, expectedLand+expectedBuilding)
	}

	// 25 of 39 depreciation years have accrued.
	expectedDepreciation := 375000 * 25.0 / 39.0
	if math.Abs(tv.AccruedDepreciation-expectedDepreciation) > 0.01 {
		t.Errorf("AccruedDepreciation = %.2f, expected %.2f", tv.AccruedDepreciation, expectedDepreciation)
	}

	// The default 20-year loan is past term at the 25-year horizon.
	if tv.OutstandingLoan != 0 {
		t.Errorf("OutstandingLoan = %.2f, expected 0 after the loan term", tv.OutstandingLoan)
	}
	if math.Abs(tv.NetEquity-tv.GrossPropertyValue) > 0.01 {
		t.Errorf("NetEquity = %.2f, expected %.2f with no loan outstanding", tv.NetEquity, tv.GrossPropertyValue)
	}
}

func TestComputeTerminalValueWithOutstandingLoan(t *testing.T) {
	p := params.Defaults()
	p.LoanTerm = 30
	p.AnalysisPeriod = 10

	tv := ComputeTerminalValue(p)
	if tv.OutstandingLoan <= 0 {
		t.Fatalf("OutstandingLoan = %.2f, expected a positive balance 10 years into a 30-year loan", tv.OutstandingLoan)
	}
	if tv.OutstandingLoan >= 350000 {
		t.Errorf("OutstandingLoan = %.2f, expected amortization below the original 350000", tv.OutstandingLoan)
	}
	if math.Abs(tv.NetEquity-(tv.GrossPropertyValue-tv.OutstandingLoan)) > 0.01 {
		t.Errorf("NetEquity = %.2f, expected gross minus loan", tv.NetEquity)
	}
}

func TestComputeTerminalValueDepreciationCap(t *testing.T) {
	p := params.Defaults()
	p.DepreciationPeriod = 10
	p.AnalysisPeriod = 25

	tv := ComputeTerminalValue(p)
	// Fully depreciated after 10 of 25 years: accrual caps at building value.
	if math.Abs(tv.AccruedDepreciation-375000) > 0.01 {
		t.Errorf("AccruedDepreciation = %.2f, expected full building value 375000", tv.AccruedDepreciation)
	}
	if math.Abs(tv.RemainingBookValue-125000) > 0.01 {
		t.Errorf("RemainingBookValue = %.2f, expected land value 125000", tv.RemainingBookValue)
	}
}

func TestRentalTerminalValue(t *testing.T) {
	p := params.Defaults()
	if value := RentalTerminalValue(p); value != 0 {
		t.Errorf("RentalTerminalValue = %.2f, expected 0 without a deposit", value)
	}

	p.SecurityDeposit = 30000
	value := RentalTerminalValue(p)
	expected := 30000 / math.Pow(1.03, 25)
	if math.Abs(value-expected) > 0.01 {
		t.Errorf("RentalTerminalValue = %.2f, expected %.2f", value, expected)
	}
}
