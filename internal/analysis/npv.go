// Package analysis builds the multi-year cash-flow series for the
// ownership and rental scenarios, discounts them to net present value,
// and produces the buy/rent recommendation.
package analysis

import (
	"fmt"

	"github.com/proptools/buyrent-analyzer/internal/params"
	"github.com/proptools/buyrent-analyzer/pkg/constants"
	"github.com/proptools/buyrent-analyzer/pkg/costs"
	"github.com/proptools/buyrent-analyzer/pkg/mathutil"
	"github.com/proptools/buyrent-analyzer/pkg/mortgage"
	"go.uber.org/zap"
)

// YearRecord holds one year's derived figures for a scenario. Year
// indexes are 1-based and their order is significant: escalation and
// discounting both depend on it.
type YearRecord struct {
	Year                 int     `json:"year"`
	FinancingPayment     float64 `json:"financing_payment,omitempty"`
	MortgageInterest     float64 `json:"mortgage_interest,omitempty"`
	OperatingCosts       float64 `json:"operating_costs"`
	UpgradeCost          float64 `json:"upgrade_cost,omitempty"`
	OneTimeCosts         float64 `json:"one_time_costs,omitempty"`
	SublettingIncome     float64 `json:"subletting_income,omitempty"`
	TaxBenefits          float64 `json:"tax_benefits"`
	SaleProceeds         float64 `json:"sale_proceeds,omitempty"`
	NetCashFlow          float64 `json:"net_cash_flow"`
	RemainingLoanBalance float64 `json:"remaining_loan_balance,omitempty"`
}

// NPVResult holds the outcome of one rent-vs-buy comparison. It is
// derived, never stored; every call recomputes it from scratch.
type NPVResult struct {
	OwnershipNPV               float64      `json:"ownership_npv"`
	RentalNPV                  float64      `json:"rental_npv"`
	NPVDifference              float64      `json:"npv_difference"`
	OwnershipInitialInvestment float64      `json:"ownership_initial_investment"`
	RentalInitialInvestment    float64      `json:"rental_initial_investment"`
	OwnershipIRR               float64      `json:"ownership_irr,omitempty"`
	RentalIRR                  float64      `json:"rental_irr,omitempty"`
	OwnershipIRRValid          bool         `json:"ownership_irr_valid"`
	RentalIRRValid             bool         `json:"rental_irr_valid"`
	Recommendation             string       `json:"recommendation"`
	Confidence                 string       `json:"confidence"`
	AnalysisPeriod             int          `json:"analysis_period"`
	CostOfCapital              float64      `json:"cost_of_capital"`
	OwnershipFlows             []YearRecord `json:"ownership_flows"`
	RentalFlows                []YearRecord `json:"rental_flows"`
}

// Engine runs rent-vs-buy comparisons. It holds no state beyond the
// logger; every computation is a pure function of its parameter set.
type Engine struct {
	logger *zap.Logger
}

// NewEngine creates an analysis engine.
func NewEngine(logger *zap.Logger) *Engine {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Engine{logger: logger}
}

// OwnershipCashFlows builds the year-by-year cash flow series for the
// ownership scenario. The mortgage interest deduction uses the current
// year's interest portion from the amortization schedule, not a flat
// estimate. The final year carries the terminal sale proceeds.
func (e *Engine) OwnershipCashFlows(p params.ParameterSet) ([]YearRecord, mortgage.PaymentSummary, error) {
	summary := mortgage.CalculatePayment(p.PurchasePrice, p.DownPaymentPct, p.InterestRate, p.LoanTerm, p.TransactionCosts)

	schedule, err := mortgage.GenerateSchedule(summary.LoanAmount, p.InterestRate, summary.AnnualPayment, p.LoanTerm)
	if err != nil {
		return nil, summary, fmt.Errorf("ownership amortization: %w", err)
	}

	buildingValue := p.PurchasePrice * (1.0 - p.LandValuePct/constants.PercentageMultiplier)
	annualDepreciation := 0.0
	if p.DepreciationPeriod > 0 {
		annualDepreciation = buildingValue / float64(p.DepreciationPeriod)
	}

	sublettingBase := costs.CalculateSublettingIncome(p.OwnershipPropertySize, p.CurrentSpaceNeeded,
		p.SublettingRate, p.SublettingSpace, p.SublettingEnabled)
	// Subletting rates grow with both general inflation and the rent
	// escalation users expect on market space.
	sublettingGrowth := mathutil.CombineGrowthRates(p.InflationRate, p.RentIncreaseRate)

	flows := make([]YearRecord, 0, p.AnalysisPeriod)
	for year := 1; year <= p.AnalysisPeriod; year++ {
		record := YearRecord{Year: year}

		if summary.LoanAmount > 0 && year <= len(schedule) {
			payment := schedule[year-1]
			record.FinancingPayment = summary.AnnualPayment
			record.MortgageInterest = payment.InterestPortion
			record.RemainingLoanBalance = payment.EndingBalance
		}

		ownCosts, err := costs.CalculateOwnershipCosts(p.PurchasePrice, p.PropertyTaxRate, p.PropertyTaxEscalation,
			p.InsuranceCost, p.AnnualMaintenance, p.PropertyManagement, p.CapexReserveRate,
			p.ObsolescenceRiskRate, p.InflationRate, year)
		if err != nil {
			return nil, summary, err
		}
		record.OperatingCosts = ownCosts.TotalAnnualCost

		record.UpgradeCost = costs.CalculateUpgradeCost(p.PurchasePrice, p.LandValuePct, p.UpgradeCycleYears, year)

		if year == 1 {
			record.OneTimeCosts = p.MovingCosts + p.SpaceImprovementCost
		}

		if sublettingBase.Enabled {
			income, err := costs.Escalate(sublettingBase.Income, sublettingGrowth, year, true)
			if err != nil {
				return nil, summary, err
			}
			record.SublettingIncome = income
		}

		depreciation := 0.0
		if year <= p.DepreciationPeriod {
			depreciation = annualDepreciation
		}
		benefits := costs.CalculateTaxBenefits(record.MortgageInterest, ownCosts.PropertyTaxes, depreciation,
			p.CorporateTaxRate, p.InterestDeductible, p.PropertyTaxDeductible, p.DepreciationDeductible)
		record.TaxBenefits = benefits.TotalTaxSavings

		if year == p.AnalysisPeriod {
			salePrice := p.PurchasePrice * mathutil.CompoundFactor(p.MarketAppreciationRate, p.AnalysisPeriod)
			saleCosts := mathutil.ApplyPercentage(salePrice, p.SaleCostPct)
			record.SaleProceeds = salePrice - record.RemainingLoanBalance - saleCosts
		}

		record.NetCashFlow = -record.FinancingPayment - record.OperatingCosts - record.UpgradeCost -
			record.OneTimeCosts + record.SublettingIncome + record.TaxBenefits + record.SaleProceeds

		flows = append(flows, record)
	}

	return flows, summary, nil
}

// RentalCashFlows builds the year-by-year cash flow series for the
// rental scenario. A configured future expansion scales the rent
// proportionally to the added space from that year forward; moving
// costs hit year 1 only.
func (e *Engine) RentalCashFlows(p params.ParameterSet) ([]YearRecord, error) {
	expansionFactor := 1.0
	if p.FutureExpansionYear > 0 && p.CurrentSpaceNeeded > 0 && p.AdditionalSpaceNeeded > 0 {
		expansionFactor = (p.CurrentSpaceNeeded + p.AdditionalSpaceNeeded) / p.CurrentSpaceNeeded
	}

	flows := make([]YearRecord, 0, p.AnalysisPeriod)
	for year := 1; year <= p.AnalysisPeriod; year++ {
		record := YearRecord{Year: year}

		rental, err := costs.CalculateRentalCosts(p.CurrentAnnualRent, p.RentIncreaseRate, year,
			p.CurrentSpaceNeeded, p.RentalPropertySize)
		if err != nil {
			return nil, err
		}

		rent := rental.AnnualRent
		if p.FutureExpansionYear > 0 && year >= p.FutureExpansionYear {
			rent *= expansionFactor
		}
		record.OperatingCosts = rent

		if year == 1 {
			record.OneTimeCosts = p.MovingCosts
		}

		if p.RentDeductible {
			record.TaxBenefits = mathutil.ApplyPercentage(rent, p.CorporateTaxRate)
		}

		record.NetCashFlow = -record.OperatingCosts - record.OneTimeCosts + record.TaxBenefits
		flows = append(flows, record)
	}

	return flows, nil
}

// Compare is the top-level entry point: it builds both cash-flow
// series, discounts them at the cost of capital, and produces the
// recommendation.
//
// NPV convention: each scenario's initial investment is an outflow at
// time zero, annual flows discount at 1/(1+r)^year. Moving costs appear
// in the year-1 flows, so the rental initial investment carries only
// the security deposit and commission.
//
// Tie-break policy: an NPV difference of exactly zero recommends RENT
// with Low confidence, on the grounds that renting is the lower
// commitment when the economics are indifferent.
func (e *Engine) Compare(p params.ParameterSet) (*NPVResult, error) {
	if problems := p.Validate(); len(problems) > 0 {
		return nil, fmt.Errorf("invalid parameters: %v", problems)
	}

	ownershipFlows, summary, err := e.OwnershipCashFlows(p)
	if err != nil {
		return nil, fmt.Errorf("ownership cash flows: %w", err)
	}

	rentalFlows, err := e.RentalCashFlows(p)
	if err != nil {
		return nil, fmt.Errorf("rental cash flows: %w", err)
	}

	result := &NPVResult{
		OwnershipInitialInvestment: summary.TotalInitialInvestment,
		RentalInitialInvestment:    p.SecurityDeposit + p.RentalCommission,
		AnalysisPeriod:             p.AnalysisPeriod,
		CostOfCapital:              p.CostOfCapital,
		OwnershipFlows:             ownershipFlows,
		RentalFlows:                rentalFlows,
	}

	result.OwnershipNPV = -result.OwnershipInitialInvestment
	for _, record := range ownershipFlows {
		result.OwnershipNPV += mathutil.PresentValue(record.NetCashFlow, p.CostOfCapital, record.Year)
	}

	result.RentalNPV = -result.RentalInitialInvestment
	for _, record := range rentalFlows {
		result.RentalNPV += mathutil.PresentValue(record.NetCashFlow, p.CostOfCapital, record.Year)
	}

	result.NPVDifference = result.OwnershipNPV - result.RentalNPV
	result.Recommendation, result.Confidence = recommend(result.NPVDifference,
		result.OwnershipInitialInvestment, result.RentalInitialInvestment)

	result.OwnershipIRR, result.OwnershipIRRValid = internalRateOfReturn(result.OwnershipInitialInvestment, ownershipFlows)
	result.RentalIRR, result.RentalIRRValid = internalRateOfReturn(result.RentalInitialInvestment, rentalFlows)

	e.logger.Debug("npv comparison computed",
		zap.String("op", "analysis.Compare"),
		zap.Float64("npv_difference", result.NPVDifference),
		zap.String("recommendation", result.Recommendation),
	)

	return result, nil
}

// recommend maps the NPV difference to a recommendation and confidence
// label. Confidence bands compare the difference against the larger of
// the two initial investments and are monotonic in |difference|:
// at least 50% of that investment is High, at least 20% is Medium,
// anything smaller is Low.
func recommend(npvDifference, ownershipInitial, rentalInitial float64) (string, string) {
	if npvDifference == 0 {
		return constants.RecommendationRent, constants.ConfidenceLow
	}

	recommendation := constants.RecommendationRent
	if npvDifference > 0 {
		recommendation = constants.RecommendationBuy
	}

	scale := mathutil.Max(mathutil.Max(ownershipInitial, rentalInitial), 1.0)
	ratio := mathutil.Max(npvDifference, -npvDifference) / scale

	switch {
	case ratio >= 0.50:
		return recommendation, constants.ConfidenceHigh
	case ratio >= 0.20:
		return recommendation, constants.ConfidenceMedium
	default:
		return recommendation, constants.ConfidenceLow
	}
}

// internalRateOfReturn solves best-effort for the discount rate that
// zeroes the scenario NPV. Cash-flow series here are mostly negative
// with a single terminal inflow, so a root does not always exist; the
// second return value reports whether one was found.
func internalRateOfReturn(initialInvestment float64, flows []YearRecord) (float64, bool) {
	if len(flows) == 0 {
		return 0, false
	}

	npvAt := func(rate float64) float64 {
		total := -initialInvestment
		for _, record := range flows {
			total += record.NetCashFlow / mathutil.CompoundFactor(rate, record.Year)
		}
		return total
	}

	// Scan for a sign change, then bisect.
	const step = 1.0
	lo, hi := -95.0, 0.0
	found := false
	previous := npvAt(lo)
	for rate := lo + step; rate <= 1000.0; rate += step {
		current := npvAt(rate)
		if (previous <= 0 && current >= 0) || (previous >= 0 && current <= 0) {
			lo, hi = rate-step, rate
			found = true
			break
		}
		previous = current
	}
	if !found {
		return 0, false
	}

	for i := 0; i < 100; i++ {
		mid := (lo + hi) / 2.0
		if npvAt(lo)*npvAt(mid) <= 0 {
			hi = mid
		} else {
			lo = mid
		}
		if hi-lo < 1e-9 {
			break
		}
	}
	return (lo + hi) / 2.0, true
}
