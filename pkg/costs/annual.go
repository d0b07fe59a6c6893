// Package costs computes per-year operating costs and benefits for both
// scenarios: escalated ownership costs, rental costs, upgrade capital
// events, tax benefits, and subletting income.
//
// All escalation in this package follows Year-1 indexing: the first
// analysis year carries the unescalated base value and compounding
// starts in year 2. Escalate exposes the alternative mode explicitly so
// callers cannot drift apart on the convention.
package costs

import (
	"errors"
	"fmt"

	"github.com/proptools/buyrent-analyzer/pkg/constants"
	"github.com/proptools/buyrent-analyzer/pkg/mathutil"
)

// ErrInvalidYear indicates a year index below 1, for which escalated
// costs are meaningless.
var ErrInvalidYear = errors.New("year must be 1 or greater")

// OwnershipCosts holds the per-category operating costs of owning for
// one year.
type OwnershipCosts struct {
	Year               int
	PropertyTaxes      float64
	Insurance          float64
	Maintenance        float64
	PropertyManagement float64
	CapexReserve       float64
	ObsolescenceCost   float64
	TotalAnnualCost    float64
}

// RentalCosts holds the rental figures for one year. RentPerUnit is 0
// when no usable space figure was supplied.
type RentalCosts struct {
	Year        int
	AnnualRent  float64
	RentPerUnit float64
	TotalSpace  float64
}

// TaxBenefits itemizes the deduction components and the resulting tax
// savings. Components whose deductibility flag is off report 0.
type TaxBenefits struct {
	InterestDeduction      float64
	PropertyTaxDeduction   float64
	DepreciationDeduction  float64
	InterestTaxSavings     float64
	PropertyTaxSavings     float64
	DepreciationTaxSavings float64
	TotalTaxSavings        float64
}

// SublettingIncome holds the derived subletting figures. All fields are
// 0 when subletting is disabled.
type SublettingIncome struct {
	AvailableSpace  float64
	SublettingSpace float64
	Income          float64
	Enabled         bool
}

// Escalate returns the escalated cost for the given year.
//
// With yearOneIndexing (the convention used throughout the engine) year
// 1 returns the base cost and year N returns base*(1+rate/100)^(N-1).
// Without it, escalation applies from year 1: base*(1+rate/100)^N.
func Escalate(baseCost, escalationRate float64, year int, yearOneIndexing bool) (float64, error) {
	if year < 1 {
		return 0, fmt.Errorf("%w: got %d", ErrInvalidYear, year)
	}

	periods := year
	if yearOneIndexing {
		periods = year - 1
	}
	return baseCost * mathutil.CompoundFactor(escalationRate, periods), nil
}

// CalculateOwnershipCosts returns the per-category ownership operating
// costs for one year. Property taxes escalate at their own assessment
// rate; insurance, maintenance, management, capex reserve, and
// obsolescence all escalate with general inflation. Capex reserve and
// obsolescence bases are rates applied to the purchase price.
func CalculateOwnershipCosts(purchasePrice, propertyTaxRate, propertyTaxEscalation, insuranceCost, annualMaintenance, propertyManagement, capexReserveRate, obsolescenceRiskRate, inflationRate float64, year int) (OwnershipCosts, error) {
	if year < 1 {
		return OwnershipCosts{}, fmt.Errorf("%w: got %d", ErrInvalidYear, year)
	}

	propertyTaxBase := mathutil.ApplyPercentage(purchasePrice, propertyTaxRate)
	propertyTaxes, err := Escalate(propertyTaxBase, propertyTaxEscalation, year, true)
	if err != nil {
		return OwnershipCosts{}, err
	}

	inflated := func(base float64) float64 {
		v, _ := Escalate(base, inflationRate, year, true)
		return v
	}

	result := OwnershipCosts{
		Year:               year,
		PropertyTaxes:      propertyTaxes,
		Insurance:          inflated(insuranceCost),
		Maintenance:        inflated(annualMaintenance),
		PropertyManagement: inflated(propertyManagement),
		CapexReserve:       inflated(mathutil.ApplyPercentage(purchasePrice, capexReserveRate)),
		ObsolescenceCost:   inflated(mathutil.ApplyPercentage(purchasePrice, obsolescenceRiskRate)),
	}
	result.TotalAnnualCost = result.PropertyTaxes + result.Insurance + result.Maintenance +
		result.PropertyManagement + result.CapexReserve + result.ObsolescenceCost

	return result, nil
}

// CalculateRentalCosts returns the escalated rent for one year. When
// both space figures are supplied and the rented space is non-zero it
// also reports the per-unit rent; a zero or unset denominator skips the
// per-unit figure rather than dividing by zero.
func CalculateRentalCosts(currentAnnualRent, rentIncreaseRate float64, year int, currentSpaceNeeded, totalSpaceRented float64) (RentalCosts, error) {
	annualRent, err := Escalate(currentAnnualRent, rentIncreaseRate, year, true)
	if err != nil {
		return RentalCosts{}, err
	}

	result := RentalCosts{Year: year, AnnualRent: annualRent, TotalSpace: totalSpaceRented}
	if totalSpaceRented > 0 {
		result.RentPerUnit = annualRent / totalSpaceRented
	} else if currentSpaceNeeded > 0 {
		result.TotalSpace = currentSpaceNeeded
		result.RentPerUnit = annualRent / currentSpaceNeeded
	}
	return result, nil
}

// CalculateUpgradeCost returns the lump renovation cost for property
// upgrade years. An upgrade year is any year divisible by the upgrade
// cycle; the cost is a fixed share of building value (purchase price
// excluding land). Non-upgrade years cost 0.
func CalculateUpgradeCost(purchasePrice, landValuePct float64, upgradeCycleYears, year int) float64 {
	if year <= 0 || upgradeCycleYears <= 0 {
		return 0.0
	}
	if year%upgradeCycleYears != 0 {
		return 0.0
	}

	buildingValue := purchasePrice * (1.0 - landValuePct/constants.PercentageMultiplier)
	return mathutil.ApplyPercentage(buildingValue, constants.UpgradeCostPct)
}

// CalculateTaxBenefits computes the tax shield from ownership
// deductions. Each component contributes only when its deductibility
// flag is set; the individual amounts are reported for auditing.
func CalculateTaxBenefits(mortgageInterest, propertyTaxes, depreciationAmount, corporateTaxRate float64, interestDeductible, propertyTaxDeductible, depreciationDeductible bool) TaxBenefits {
	var benefits TaxBenefits
	if interestDeductible {
		benefits.InterestDeduction = mortgageInterest
	}
	if propertyTaxDeductible {
		benefits.PropertyTaxDeduction = propertyTaxes
	}
	if depreciationDeductible {
		benefits.DepreciationDeduction = depreciationAmount
	}

	benefits.InterestTaxSavings = mathutil.ApplyPercentage(benefits.InterestDeduction, corporateTaxRate)
	benefits.PropertyTaxSavings = mathutil.ApplyPercentage(benefits.PropertyTaxDeduction, corporateTaxRate)
	benefits.DepreciationTaxSavings = mathutil.ApplyPercentage(benefits.DepreciationDeduction, corporateTaxRate)
	benefits.TotalTaxSavings = benefits.InterestTaxSavings + benefits.PropertyTaxSavings + benefits.DepreciationTaxSavings

	return benefits
}

// CalculateSublettingIncome derives the subletting figures for excess
// owned space. Available space floors at zero when the occupant needs
// more space than the property has; the space actually sublet is capped
// at what is available. Disabled subletting yields all zeros.
func CalculateSublettingIncome(propertySize, currentSpaceNeeded, ratePerUnit, requestedSpace float64, enabled bool) SublettingIncome {
	if !enabled {
		return SublettingIncome{}
	}

	availableSpace := mathutil.Max(0.0, propertySize-currentSpaceNeeded)
	sublettingSpace := mathutil.Min(requestedSpace, availableSpace)

	return SublettingIncome{
		AvailableSpace:  availableSpace,
		SublettingSpace: sublettingSpace,
		Income:          sublettingSpace * ratePerUnit,
		Enabled:         true,
	}
}
