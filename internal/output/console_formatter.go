package output

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/retirewise/planner/internal/domain"
	pkgdec "github.com/retirewise/planner/pkg/decimal"
)

// ConsoleFormatter renders a readable summary plus a year-by-year table.
type ConsoleFormatter struct{}

func (c ConsoleFormatter) Name() string { return "console" }

func (c ConsoleFormatter) Format(results *domain.CalculationResults) ([]byte, error) {
	buf := &bytes.Buffer{}

	fmt.Fprintf(buf, "RETIREMENT PROJECTION: %s\n", results.ScenarioName)
	fmt.Fprintln(buf, strings.Repeat("=", 100))

	fmt.Fprintf(buf, "Final portfolio value:   %s\n", money(results.FinalPortfolioValue))
	if results.Depleted() {
		fmt.Fprintf(buf, "Portfolio depleted at:   age %d\n", *results.DepletionAge)
	} else {
		fmt.Fprintln(buf, "Portfolio depleted at:   never (within horizon)")
	}
	fmt.Fprintf(buf, "Total lifetime tax:      %s\n", money(results.TotalLifetimeTax))
	fmt.Fprintf(buf, "Total lifetime benefits: %s\n\n", money(results.TotalLifetimeBenefits))

	fmt.Fprintf(buf, "%-4s %-3s %14s %14s %14s %12s %12s %12s %12s\n",
		"Age", "Ret", "TaxDeferred", "TaxFree", "NonReg", "Benefits", "Expenses", "Tax", "Shortfall")
	fmt.Fprintln(buf, strings.Repeat("-", 100))

	for _, year := range results.Years {
		retired := ""
		if year.Retired {
			retired = "*"
		}
		fmt.Fprintf(buf, "%-4d %-3s %14s %14s %14s %12s %12s %12s %12s\n",
			year.Age,
			retired,
			money(year.ClosingTaxDeferred),
			money(year.ClosingTaxFree),
			money(year.ClosingNonRegistered),
			money(year.TotalBenefits()),
			money(year.Expenses),
			money(year.TaxPaid),
			money(year.Shortfall),
		)
	}

	return buf.Bytes(), nil
}

func money(d decimal.Decimal) string {
	return pkgdec.NewMoneyFromDecimal(d).Round().Format()
}
