package output

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strconv"
)

// CSVFormatter exports the run: a Parameter,Value table, a blank line, then one row per month.
type CSVFormatter struct{}

func (c CSVFormatter) Name() string { return "csv" }

func (c CSVFormatter) Format(r *Report) ([]byte, error) {
	buf := &bytes.Buffer{}
	w := csv.NewWriter(buf)

	rows := [][]string{{"Parameter", "Value"}}
	rows = append(rows, parameterRows(r)...)
	rows = append(rows, []string{})
	rows = append(rows, []string{"Month", "CapitalBeforeTax", "CapitalAfterTax"})
	for _, p := range r.Result.Timeline {
		rows = append(rows, []string{
			strconv.Itoa(p.Month),
			p.CapitalBeforeTax.StringFixed(2),
			p.CapitalAfterTax.StringFixed(2),
		})
	}

	for _, row := range rows {
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

func parameterRows(r *Report) [][]string {
	in, res := r.Input, r.Result
	rows := [][]string{
		{"Name", r.Name},
		{"NominalInterestRate", in.NominalInterest.String()},
		{"InflationRate", in.InflationRate.String()},
		{"RealInterestRate", res.RealInterestRate.StringFixed(6)},
		{"InitialCapital", in.InitialCapital.StringFixed(2)},
		{"DesiredMonthlyIncome", in.DesiredMonthlyIncome.StringFixed(2)},
		{"WithdrawalRate", in.WithdrawalRate.String()},
		{"TaxRate", in.TaxRate.String()},
		{"TaxOption", string(in.TaxOption)},
	}
	for i, p := range in.Periods {
		rows = append(rows, []string{fmt.Sprintf("Period%d", i+1), fmt.Sprintf("%d years at %s", p.Years, p.MonthlyDeposit.StringFixed(2))})
	}

	goal := ""
	if g := res.GoalReachedAt; g != nil {
		goal = fmt.Sprintf("%d years %d months", g.Years, g.Months)
	}
	threshold := ""
	if res.RiseThreshold != nil {
		threshold = res.RiseThreshold.StringFixed(2)
	}

	return append(rows,
		[]string{"TotalMonths", strconv.Itoa(res.TotalMonths)},
		[]string{"FinalCapital", res.FinalCapital.StringFixed(2)},
		[]string{"TotalDeposits", res.TotalDeposits.StringFixed(2)},
		[]string{"InterestEarned", res.InterestEarned.StringFixed(2)},
		[]string{"TaxAmount", res.TaxAmount.StringFixed(2)},
		[]string{"CapitalAfterTax", res.CapitalAfterTax.StringFixed(2)},
		[]string{"MonthlyIncomeAfterTax", res.MonthlyIncomeAfterTax.StringFixed(2)},
		[]string{"RiseThreshold", threshold},
		[]string{"GoalReachedAt", goal},
		[]string{"TargetMet", strconv.FormatBool(r.TargetMet())},
	)
}
