// Package output provides utilities for formatting and displaying analysis results.
package output

import (
	"fmt"
	"io"

	"github.com/proptools/buyrent-analyzer/internal/analysis"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// PrettyFormat writes a human-readable rather than machine-readable summary.
func PrettyFormat(w io.Writer, result *analysis.NPVResult) {
	p := message.NewPrinter(language.English)

	fmt.Fprintf(w, "--- Rent vs. buy analysis over %d years ---\n", result.AnalysisPeriod)
	_, _ = p.Fprintf(w, "Ownership NPV:       $%.2f\n", result.OwnershipNPV)
	_, _ = p.Fprintf(w, "Rental NPV:          $%.2f\n", result.RentalNPV)
	_, _ = p.Fprintf(w, "NPV difference:      $%.2f\n", result.NPVDifference)
	_, _ = p.Fprintf(w, "Initial investment:  $%.2f (own) / $%.2f (rent)\n",
		result.OwnershipInitialInvestment, result.RentalInitialInvestment)
	if result.OwnershipIRRValid {
		fmt.Fprintf(w, "Ownership IRR:       %.2f%%\n", result.OwnershipIRR)
	}
	fmt.Fprintf(w, "Recommendation:      %s (%s confidence)\n", result.Recommendation, result.Confidence)

	fmt.Fprintf(w, "\nYear | Ownership net  | Rental net\n")
	fmt.Fprintf(w, "____ | ______________ | __________\n")
	for i := range result.OwnershipFlows {
		_, _ = p.Fprintf(w, "%4d | $%.2f | $%.2f\n",
			result.OwnershipFlows[i].Year, result.OwnershipFlows[i].NetCashFlow, result.RentalFlows[i].NetCashFlow)
	}
}

// CsvFormat writes the year-by-year series in comma-separated value format.
func CsvFormat(w io.Writer, result *analysis.NPVResult) {
	fmt.Fprintf(w, `"year","ownership net cash flow","rental net cash flow","ownership tax benefits","rental rent"`)
	fmt.Fprintf(w, "\n")
	for i := range result.OwnershipFlows {
		own := result.OwnershipFlows[i]
		rent := result.RentalFlows[i]
		fmt.Fprintf(w, `"%d","%.2f","%.2f","%.2f","%.2f"`, own.Year, own.NetCashFlow, rent.NetCashFlow,
			own.TaxBenefits, rent.OperatingCosts)
		fmt.Fprintf(w, "\n")
	}
	fmt.Fprintf(w, `"summary","%.2f","%.2f","%s","%s"`, result.OwnershipNPV, result.RentalNPV,
		result.Recommendation, result.Confidence)
	fmt.Fprintf(w, "\n")
}
