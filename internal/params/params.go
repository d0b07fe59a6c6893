// Package params defines the typed parameter set consumed by the
// projection engine, its documented defaults, and the single ingress
// point where missing values fall back to those defaults.
//
// Computation code never reaches into ambient state or raw maps: the
// flat mapping supplied by the UI/session layer is resolved here, once,
// into a fully-populated ParameterSet.
package params

import (
	"fmt"
	"sort"
)

// ParameterSet holds every input of the rent-vs-buy analysis. Rates are
// percentages (5.0 means 5%). Instances are treated as immutable by the
// engine; perturbations work on copies.
type ParameterSet struct {
	// Purchase scenario
	PurchasePrice    float64 `mapstructure:"purchase_price" json:"purchase_price" yaml:"purchase_price"`
	DownPaymentPct   float64 `mapstructure:"down_payment_pct" json:"down_payment_pct" yaml:"down_payment_pct"`
	InterestRate     float64 `mapstructure:"interest_rate" json:"interest_rate" yaml:"interest_rate"`
	LoanTerm         int     `mapstructure:"loan_term" json:"loan_term" yaml:"loan_term"`
	TransactionCosts float64 `mapstructure:"transaction_costs" json:"transaction_costs" yaml:"transaction_costs"`
	SaleCostPct      float64 `mapstructure:"sale_cost_pct" json:"sale_cost_pct" yaml:"sale_cost_pct"`

	// Rental scenario
	CurrentAnnualRent float64 `mapstructure:"current_annual_rent" json:"current_annual_rent" yaml:"current_annual_rent"`
	RentIncreaseRate  float64 `mapstructure:"rent_increase_rate" json:"rent_increase_rate" yaml:"rent_increase_rate"`
	SecurityDeposit   float64 `mapstructure:"security_deposit" json:"security_deposit" yaml:"security_deposit"`
	RentalCommission  float64 `mapstructure:"rental_commission" json:"rental_commission" yaml:"rental_commission"`

	// Common horizon
	AnalysisPeriod int     `mapstructure:"analysis_period" json:"analysis_period" yaml:"analysis_period"`
	CostOfCapital  float64 `mapstructure:"cost_of_capital" json:"cost_of_capital" yaml:"cost_of_capital"`

	// Ownership operating costs
	PropertyTaxRate       float64 `mapstructure:"property_tax_rate" json:"property_tax_rate" yaml:"property_tax_rate"`
	PropertyTaxEscalation float64 `mapstructure:"property_tax_escalation" json:"property_tax_escalation" yaml:"property_tax_escalation"`
	InsuranceCost         float64 `mapstructure:"insurance_cost" json:"insurance_cost" yaml:"insurance_cost"`
	AnnualMaintenance     float64 `mapstructure:"annual_maintenance" json:"annual_maintenance" yaml:"annual_maintenance"`
	PropertyManagement    float64 `mapstructure:"property_management" json:"property_management" yaml:"property_management"`
	CapexReserveRate      float64 `mapstructure:"capex_reserve_rate" json:"capex_reserve_rate" yaml:"capex_reserve_rate"`
	ObsolescenceRiskRate  float64 `mapstructure:"obsolescence_risk_rate" json:"obsolescence_risk_rate" yaml:"obsolescence_risk_rate"`
	InflationRate         float64 `mapstructure:"inflation_rate" json:"inflation_rate" yaml:"inflation_rate"`
	UpgradeCycleYears     int     `mapstructure:"upgrade_cycle_years" json:"upgrade_cycle_years" yaml:"upgrade_cycle_years"`

	// Terminal value
	LandValuePct           float64 `mapstructure:"land_value_pct" json:"land_value_pct" yaml:"land_value_pct"`
	MarketAppreciationRate float64 `mapstructure:"market_appreciation_rate" json:"market_appreciation_rate" yaml:"market_appreciation_rate"`
	DepreciationPeriod     int     `mapstructure:"depreciation_period" json:"depreciation_period" yaml:"depreciation_period"`

	// Tax treatment
	CorporateTaxRate       float64 `mapstructure:"corporate_tax_rate" json:"corporate_tax_rate" yaml:"corporate_tax_rate"`
	InterestDeductible     bool    `mapstructure:"interest_deductible" json:"interest_deductible" yaml:"interest_deductible"`
	PropertyTaxDeductible  bool    `mapstructure:"property_tax_deductible" json:"property_tax_deductible" yaml:"property_tax_deductible"`
	RentDeductible         bool    `mapstructure:"rent_deductible" json:"rent_deductible" yaml:"rent_deductible"`
	DepreciationDeductible bool    `mapstructure:"depreciation_deductible" json:"depreciation_deductible" yaml:"depreciation_deductible"`

	// One-time and space parameters
	MovingCosts           float64 `mapstructure:"moving_costs" json:"moving_costs" yaml:"moving_costs"`
	SpaceImprovementCost  float64 `mapstructure:"space_improvement_cost" json:"space_improvement_cost" yaml:"space_improvement_cost"`
	OwnershipPropertySize float64 `mapstructure:"ownership_property_size" json:"ownership_property_size" yaml:"ownership_property_size"`
	RentalPropertySize    float64 `mapstructure:"rental_property_size" json:"rental_property_size" yaml:"rental_property_size"`
	CurrentSpaceNeeded    float64 `mapstructure:"current_space_needed" json:"current_space_needed" yaml:"current_space_needed"`

	// Subletting and expansion
	SublettingEnabled     bool    `mapstructure:"subletting_enabled" json:"subletting_enabled" yaml:"subletting_enabled"`
	SublettingRate        float64 `mapstructure:"subletting_rate" json:"subletting_rate" yaml:"subletting_rate"`
	SublettingSpace       float64 `mapstructure:"subletting_space" json:"subletting_space" yaml:"subletting_space"`
	FutureExpansionYear   int     `mapstructure:"future_expansion_year" json:"future_expansion_year" yaml:"future_expansion_year"`
	AdditionalSpaceNeeded float64 `mapstructure:"additional_space_needed" json:"additional_space_needed" yaml:"additional_space_needed"`
}

// Defaults returns a ParameterSet with every field set to its documented
// default. FutureExpansionYear 0 means the expansion never happens.
func Defaults() ParameterSet {
	return ParameterSet{
		PurchasePrice:    500000,
		DownPaymentPct:   30.0,
		InterestRate:     5.0,
		LoanTerm:         20,
		TransactionCosts: 0,
		SaleCostPct:      5.0,

		CurrentAnnualRent: 120000,
		RentIncreaseRate:  3.0,
		SecurityDeposit:   0,
		RentalCommission:  0,

		AnalysisPeriod: 25,
		CostOfCapital:  8.0,

		PropertyTaxRate:       1.2,
		PropertyTaxEscalation: 2.0,
		InsuranceCost:         5000,
		AnnualMaintenance:     10000,
		PropertyManagement:    0,
		CapexReserveRate:      1.5,
		ObsolescenceRiskRate:  0.5,
		InflationRate:         3.0,
		UpgradeCycleYears:     15,

		LandValuePct:           25.0,
		MarketAppreciationRate: 3.0,
		DepreciationPeriod:     39,

		CorporateTaxRate:       25.0,
		InterestDeductible:     true,
		PropertyTaxDeductible:  true,
		RentDeductible:         true,
		DepreciationDeductible: true,

		MovingCosts:           0,
		SpaceImprovementCost:  0,
		OwnershipPropertySize: 5000,
		RentalPropertySize:    4500,
		CurrentSpaceNeeded:    4000,

		SublettingEnabled:     false,
		SublettingRate:        0,
		SublettingSpace:       0,
		FutureExpansionYear:   0,
		AdditionalSpaceNeeded: 0,
	}
}

// Clone returns an independent copy of the parameter set. ParameterSet
// holds only scalars, so a value copy is a deep copy; the method exists
// to make perturbation call sites explicit.
func (p ParameterSet) Clone() ParameterSet {
	return p
}

// Validate reports structural problems that make an analysis
// meaningless. It returns all problems at once rather than failing on
// the first.
func (p ParameterSet) Validate() []string {
	var problems []string
	if p.AnalysisPeriod < 1 {
		problems = append(problems, "analysis_period must be at least 1 year")
	}
	if p.DownPaymentPct < 0 || p.DownPaymentPct > 100 {
		problems = append(problems, "down_payment_pct must be between 0 and 100")
	}
	if p.InterestRate < 0 {
		problems = append(problems, "interest_rate must not be negative")
	}
	if p.PurchasePrice <= 0 {
		problems = append(problems, "purchase_price must be positive")
	}
	if p.CurrentAnnualRent < 0 {
		problems = append(problems, "current_annual_rent must not be negative")
	}
	if p.DepreciationPeriod < 0 {
		problems = append(problems, "depreciation_period must not be negative")
	}
	return problems
}

// floatField returns a pointer to the named perturbable float field.
func (p *ParameterSet) floatField(key string) *float64 {
	switch key {
	case "rent_increase_rate":
		return &p.RentIncreaseRate
	case "interest_rate":
		return &p.InterestRate
	case "inflation_rate":
		return &p.InflationRate
	case "market_appreciation_rate":
		return &p.MarketAppreciationRate
	case "cost_of_capital":
		return &p.CostOfCapital
	case "down_payment_pct":
		return &p.DownPaymentPct
	default:
		return nil
	}
}

// MetricValue returns the current value of a perturbable metric.
func (p ParameterSet) MetricValue(key string) (float64, error) {
	field := p.floatField(key)
	if field == nil {
		return 0, fmt.Errorf("unknown sensitivity metric %q", key)
	}
	return *field, nil
}

// WithMetricOffset returns a copy of the parameter set with the named
// metric shifted by the given percentage-point offset.
func (p ParameterSet) WithMetricOffset(key string, offset float64) (ParameterSet, error) {
	clone := p.Clone()
	field := clone.floatField(key)
	if field == nil {
		return clone, fmt.Errorf("unknown sensitivity metric %q", key)
	}
	*field += offset
	return clone, nil
}

// MetricLabels maps perturbable metric keys to their display labels.
// Used to drive axis pickers; it involves no computation.
func MetricLabels() map[string]string {
	return map[string]string{
		"rent_increase_rate":       "Rent Increase Rate",
		"interest_rate":            "Interest Rate",
		"inflation_rate":           "Inflation Rate",
		"market_appreciation_rate": "Market Appreciation Rate",
		"cost_of_capital":          "Cost of Capital",
		"down_payment_pct":         "Down Payment %",
	}
}

// MetricKeys returns the perturbable metric keys in stable order.
func MetricKeys() []string {
	labels := MetricLabels()
	keys := make([]string, 0, len(labels))
	for key := range labels {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}
