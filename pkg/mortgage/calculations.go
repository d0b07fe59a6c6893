// Package mortgage provides loan economics for the purchase scenario:
// level-payment amortization, interest/principal splits, input
// validation, and effective-rate solving.
package mortgage

import (
	"errors"
	"fmt"

	"github.com/proptools/buyrent-analyzer/pkg/constants"
	"github.com/proptools/buyrent-analyzer/pkg/mathutil"
)

// ErrPaymentBelowInterest indicates an annual payment too small to cover
// the interest accrued on the remaining balance. This is a data problem
// in the inputs, not a condition to clamp away.
var ErrPaymentBelowInterest = errors.New("annual payment does not cover interest")

// PaymentSummary holds the loan economics derived from the purchase terms.
type PaymentSummary struct {
	LoanAmount             float64
	DownPaymentAmount      float64
	AnnualPayment          float64
	MonthlyPayment         float64
	InterestPortionYear1   float64
	PrincipalPortionYear1  float64
	TotalInitialInvestment float64
}

// Payment holds the interest/principal split for one year of the schedule.
type Payment struct {
	Year                int
	BeginningBalance    float64
	InterestPortion     float64
	PrincipalPortion    float64
	EndingBalance       float64
	CumulativeInterest  float64
	CumulativePrincipal float64
}

// ValidationResult reports input problems without failing; the caller
// decides whether to proceed.
type ValidationResult struct {
	Valid  bool
	Errors []string
}

// CalculateLoanAmount returns the loan principal for a purchase.
// Transaction costs are a separate upfront cost and never reduce the
// principal. A 100% down payment yields exactly zero.
func CalculateLoanAmount(purchasePrice, downPaymentPct float64) float64 {
	if downPaymentPct >= constants.PercentageMultiplier {
		return 0.0
	}
	loanAmount := purchasePrice * (1.0 - downPaymentPct/constants.PercentageMultiplier)
	return mathutil.Max(0.0, loanAmount)
}

// CalculatePayment derives the full loan economics for a purchase. The
// level payment solves on a monthly basis, matching how lenders quote,
// then annualizes; the year-1 interest portion uses the simple annual
// rate on the original principal.
func CalculatePayment(purchasePrice, downPaymentPct, interestRate float64, loanTerm int, transactionCosts float64) PaymentSummary {
	downPaymentAmount := mathutil.ApplyPercentage(purchasePrice, downPaymentPct)
	loanAmount := CalculateLoanAmount(purchasePrice, downPaymentPct)

	summary := PaymentSummary{
		LoanAmount:             loanAmount,
		DownPaymentAmount:      downPaymentAmount,
		TotalInitialInvestment: downPaymentAmount + transactionCosts,
	}

	if loanAmount <= 0 || loanTerm <= 0 {
		return summary
	}

	if interestRate == 0 {
		// Interest-free loan: principal amortizes evenly.
		summary.AnnualPayment = loanAmount / float64(loanTerm)
		summary.MonthlyPayment = summary.AnnualPayment / constants.MonthsPerYear
		summary.PrincipalPortionYear1 = summary.AnnualPayment
		return summary
	}

	monthlyRate := interestRate / constants.PercentageMultiplier / constants.MonthsPerYear
	numPayments := loanTerm * int(constants.MonthsPerYear)
	discountFactor := 1.0 - 1.0/mathutil.CompoundFactor(interestRate/constants.MonthsPerYear, numPayments)
	summary.MonthlyPayment = loanAmount * monthlyRate / discountFactor
	summary.AnnualPayment = summary.MonthlyPayment * constants.MonthsPerYear
	summary.InterestPortionYear1 = mathutil.ApplyPercentage(loanAmount, interestRate)
	summary.PrincipalPortionYear1 = summary.AnnualPayment - summary.InterestPortionYear1

	return summary
}

// RemainingBalance walks the amortization recurrence forward and returns
// the loan balance at the end of the given year. Year 0 is the original
// loan amount.
func RemainingBalance(loanAmount, interestRate, annualPayment float64, year int) float64 {
	if loanAmount <= 0 {
		return 0.0
	}
	if year <= 0 {
		return loanAmount
	}

	balance := loanAmount
	for y := 1; y <= year; y++ {
		if balance <= 0 {
			break
		}
		interest := mathutil.ApplyPercentage(balance, interestRate)
		principal := mathutil.Min(annualPayment-interest, balance)
		principal = mathutil.Max(0.0, principal)
		balance = mathutil.Max(0.0, balance-principal)
	}
	return balance
}

// PaymentBreakdown returns the interest/principal split for any year
// within the loan term, based on the remaining balance at the start of
// that year. Returns ErrPaymentBelowInterest when the payment cannot
// cover the interest accrued that year.
func PaymentBreakdown(loanAmount, interestRate, annualPayment float64, year int) (Payment, error) {
	if year <= 0 {
		return Payment{}, fmt.Errorf("year must be 1 or greater, got %d", year)
	}

	beginningBalance := RemainingBalance(loanAmount, interestRate, annualPayment, year-1)
	payment := Payment{Year: year, BeginningBalance: beginningBalance}
	if beginningBalance <= 0 {
		return payment, nil
	}

	payment.InterestPortion = mathutil.ApplyPercentage(beginningBalance, interestRate)
	if annualPayment < payment.InterestPortion && !mathutil.WithinTolerance(annualPayment, payment.InterestPortion, constants.CurrencyTolerance) {
		return payment, fmt.Errorf("%w: payment %.2f, interest %.2f in year %d",
			ErrPaymentBelowInterest, annualPayment, payment.InterestPortion, year)
	}

	payment.PrincipalPortion = mathutil.Min(annualPayment-payment.InterestPortion, beginningBalance)
	payment.EndingBalance = mathutil.Max(0.0, beginningBalance-payment.PrincipalPortion)
	return payment, nil
}

// GenerateSchedule produces the complete year-by-year amortization
// schedule with cumulative interest and principal totals. Years after
// payoff carry zero payments.
func GenerateSchedule(loanAmount, interestRate, annualPayment float64, loanTerm int) ([]Payment, error) {
	if loanAmount <= 0 || annualPayment <= 0 || loanTerm <= 0 {
		return nil, nil
	}

	schedule := make([]Payment, 0, loanTerm)
	balance := loanAmount
	cumulativeInterest := 0.0
	cumulativePrincipal := 0.0

	for year := 1; year <= loanTerm; year++ {
		payment := Payment{Year: year, BeginningBalance: balance}
		if balance > 0 {
			payment.InterestPortion = mathutil.ApplyPercentage(balance, interestRate)
			if annualPayment < payment.InterestPortion && !mathutil.WithinTolerance(annualPayment, payment.InterestPortion, constants.CurrencyTolerance) {
				return schedule, fmt.Errorf("%w: payment %.2f, interest %.2f in year %d",
					ErrPaymentBelowInterest, annualPayment, payment.InterestPortion, year)
			}
			payment.PrincipalPortion = mathutil.Min(annualPayment-payment.InterestPortion, balance)
			payment.EndingBalance = mathutil.Max(0.0, balance-payment.PrincipalPortion)
			if mathutil.Round(payment.EndingBalance) == 0 {
				// Avoid carrying machine error into later years.
				payment.EndingBalance = 0.0
			}
			cumulativeInterest += payment.InterestPortion
			cumulativePrincipal += payment.PrincipalPortion
			balance = payment.EndingBalance
		}
		payment.CumulativeInterest = cumulativeInterest
		payment.CumulativePrincipal = cumulativePrincipal
		schedule = append(schedule, payment)
	}

	return schedule, nil
}

// ValidateInputs checks purchase terms for logical consistency. Problems
// are reported in the result rather than raised so the caller can show
// them all at once.
func ValidateInputs(purchasePrice, downPaymentPct, interestRate float64, loanTerm int) ValidationResult {
	var errs []string

	if purchasePrice <= 0 {
		errs = append(errs, "purchase price must be positive")
	}
	if downPaymentPct < 0 || downPaymentPct > constants.PercentageMultiplier {
		errs = append(errs, "down payment percentage must be between 0% and 100%")
	}
	if interestRate < 0 || interestRate > constants.MaxReasonableInterestRate {
		errs = append(errs, fmt.Sprintf("interest rate must be between 0%% and %.0f%%", constants.MaxReasonableInterestRate))
	}
	if loanTerm < 0 || loanTerm > constants.MaxReasonableLoanTerm {
		errs = append(errs, fmt.Sprintf("loan term must be between 0 and %d years", constants.MaxReasonableLoanTerm))
	}

	return ValidationResult{Valid: len(errs) == 0, Errors: errs}
}

// EffectiveInterestRate solves for the rate that reproduces the given
// annual payment when the principal net of fees is amortized over the
// loan term. Solved by bisection on the annuity formula; more fees mean
// a higher effective rate than nominal. Degenerate inputs return 0.
func EffectiveInterestRate(loanAmount, annualPayment float64, loanTerm int, fees float64) float64 {
	principal := loanAmount - fees
	if principal <= 0 || annualPayment <= 0 || loanTerm <= 0 {
		return 0.0
	}

	// With no interest the payment would be principal/term; a payment at
	// or below that implies a non-positive rate.
	if annualPayment <= principal/float64(loanTerm) {
		return 0.0
	}

	paymentAt := func(rate float64) float64 {
		if rate == 0 {
			return principal / float64(loanTerm)
		}
		r := rate / constants.PercentageMultiplier
		return principal * r / (1.0 - 1.0/mathutil.CompoundFactor(rate, loanTerm))
	}

	lo, hi := 0.0, 100.0
	for i := 0; i < 200; i++ {
		mid := (lo + hi) / 2.0
		if paymentAt(mid) < annualPayment {
			lo = mid
		} else {
			hi = mid
		}
		if hi-lo < 1e-10 {
			break
		}
	}
	return (lo + hi) / 2.0
}
