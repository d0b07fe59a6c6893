package analysis

import (
	"github.com/proptools/buyrent-analyzer/internal/params"
	"github.com/proptools/buyrent-analyzer/pkg/mathutil"
	"github.com/proptools/buyrent-analyzer/pkg/mortgage"
)

// TerminalValue decomposes the property's worth at the analysis horizon
// into land and building components. Land appreciates with the market;
// the building both appreciates and loses book value to straight-line
// depreciation, floored at zero.
type TerminalValue struct {
	LandValue           float64 `json:"land_value"`
	BuildingValue       float64 `json:"building_value"`
	GrossPropertyValue  float64 `json:"gross_property_value"`
	RemainingBookValue  float64 `json:"remaining_book_value"`
	OutstandingLoan     float64 `json:"outstanding_loan"`
	NetEquity           float64 `json:"net_equity"`
	AccruedDepreciation float64 `json:"accrued_depreciation"`
}

// ComputeTerminalValue values the property at the end of the analysis
// period without assuming a sale. The sale-proceeds figure in the cash
// flow series answers "what if we exit"; this answers "what do we hold".
func ComputeTerminalValue(p params.ParameterSet) TerminalValue {
	appreciation := mathutil.CompoundFactor(p.MarketAppreciationRate, p.AnalysisPeriod)

	landBase := mathutil.ApplyPercentage(p.PurchasePrice, p.LandValuePct)
	buildingBase := p.PurchasePrice - landBase

	tv := TerminalValue{
		LandValue:     landBase * appreciation,
		BuildingValue: buildingBase * appreciation,
	}
	tv.GrossPropertyValue = tv.LandValue + tv.BuildingValue

	if p.DepreciationPeriod > 0 {
		depreciatedYears := p.AnalysisPeriod
		if depreciatedYears > p.DepreciationPeriod {
			depreciatedYears = p.DepreciationPeriod
		}
		tv.AccruedDepreciation = buildingBase * float64(depreciatedYears) / float64(p.DepreciationPeriod)
	}
	tv.RemainingBookValue = mathutil.Max(0.0, landBase+buildingBase-tv.AccruedDepreciation)

	summary := mortgage.CalculatePayment(p.PurchasePrice, p.DownPaymentPct, p.InterestRate, p.LoanTerm, p.TransactionCosts)
	if p.AnalysisPeriod < p.LoanTerm {
		tv.OutstandingLoan = mortgage.RemainingBalance(summary.LoanAmount, p.InterestRate, summary.AnnualPayment, p.AnalysisPeriod)
	}
	tv.NetEquity = tv.GrossPropertyValue - tv.OutstandingLoan

	return tv
}

// RentalTerminalValue returns the recoverable value at the horizon for
// the rental scenario: the security deposit comes back at nominal value,
// eroded in real terms by inflation over the analysis period.
func RentalTerminalValue(p params.ParameterSet) float64 {
	if p.SecurityDeposit <= 0 {
		return 0.0
	}
	return p.SecurityDeposit / mathutil.CompoundFactor(p.InflationRate, p.AnalysisPeriod)
}
