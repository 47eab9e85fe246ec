package output

import (
	"bytes"
	"encoding/csv"
	"strconv"

	"github.com/retirewise/planner/internal/domain"
)

// CSVFormatter exports one row per simulated year.
type CSVFormatter struct{}

func (c CSVFormatter) Name() string { return "csv" }

func (c CSVFormatter) Format(results *domain.CalculationResults) ([]byte, error) {
	buf := &bytes.Buffer{}
	w := csv.NewWriter(buf)

	header := []string{
		"Age", "Retired",
		"OpeningTaxDeferred", "OpeningTaxFree", "OpeningNonRegistered",
		"CPPIncome", "OASIncome",
		"MandatoryWithdrawal", "TaxDeferredWithdrawal", "TaxFreeWithdrawal", "NonRegisteredWithdrawal",
		"Expenses", "TaxableIncome", "TaxPaid", "NetSpendable", "Shortfall", "FullyFunded",
		"ClosingTaxDeferred", "ClosingTaxFree", "ClosingNonRegistered",
	}
	if err := w.Write(header); err != nil {
		return nil, err
	}

	for _, y := range results.Years {
		row := []string{
			strconv.Itoa(y.Age),
			strconv.FormatBool(y.Retired),
			y.OpeningTaxDeferred.StringFixed(2),
			y.OpeningTaxFree.StringFixed(2),
			y.OpeningNonRegistered.StringFixed(2),
			y.CPPIncome.StringFixed(2),
			y.OASIncome.StringFixed(2),
			y.MandatoryWithdrawal.StringFixed(2),
			y.TaxDeferredWithdrawal.StringFixed(2),
			y.TaxFreeWithdrawal.StringFixed(2),
			y.NonRegisteredWithdrawal.StringFixed(2),
			y.Expenses.StringFixed(2),
			y.TaxableIncome.StringFixed(2),
			y.TaxPaid.StringFixed(2),
			y.NetSpendable.StringFixed(2),
			y.Shortfall.StringFixed(2),
			strconv.FormatBool(y.FullyFunded),
			y.ClosingTaxDeferred.StringFixed(2),
			y.ClosingTaxFree.StringFixed(2),
			y.ClosingNonRegistered.StringFixed(2),
		}
		if err := w.Write(row); err != nil {
			return nil, err
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
