package analysis

import "github.com/proptools/buyrent-analyzer/pkg/mathutil"

// BreakEvenResult reports when ownership's cumulative discounted cost
// first drops below renting's, if it ever does within the horizon.
type BreakEvenResult struct {
	Year                   int     `json:"year"`
	Found                  bool    `json:"found"`
	CumulativeDifference   float64 `json:"cumulative_difference"`
	AverageAnnualAdvantage float64 `json:"average_annual_advantage"`
}

// BreakEven walks both discounted cash-flow series and reports the first
// year where ownership's running total, including the initial
// investments, overtakes renting's. Series must come from the same
// Compare call so years line up.
func (e *Engine) BreakEven(result *NPVResult) BreakEvenResult {
	if result == nil || len(result.OwnershipFlows) == 0 || len(result.OwnershipFlows) != len(result.RentalFlows) {
		return BreakEvenResult{}
	}

	ownershipTotal := -result.OwnershipInitialInvestment
	rentalTotal := -result.RentalInitialInvestment

	var breakEven BreakEvenResult
	for i := range result.OwnershipFlows {
		own := result.OwnershipFlows[i]
		rent := result.RentalFlows[i]

		ownershipTotal += mathutil.PresentValue(own.NetCashFlow, result.CostOfCapital, own.Year)
		rentalTotal += mathutil.PresentValue(rent.NetCashFlow, result.CostOfCapital, rent.Year)

		if !breakEven.Found && ownershipTotal >= rentalTotal {
			breakEven.Found = true
			breakEven.Year = own.Year
		}
	}

	breakEven.CumulativeDifference = ownershipTotal - rentalTotal
	breakEven.AverageAnnualAdvantage = breakEven.CumulativeDifference / float64(len(result.OwnershipFlows))
	return breakEven
}
