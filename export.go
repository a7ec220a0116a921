package main

import (
	"encoding/csv"
	"fmt"
	"io"

	"github.com/shopspring/decimal"
)

// WriteBandsCSV writes one row per age with the p10/p50/p90 balances, nominal and in
// today's money, rounded to cents
func WriteBandsCSV(w io.Writer, r SimulationResult) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"age", "phase", "p10", "p50", "p90", "p10_real", "p50_real", "p90_real"}); err != nil {
		return err
	}

	inflation := decimal.NewFromFloat(1 + r.Profile.InflationRate)
	for i, b := range r.Bands {
		phase := "accumulation"
		if b.Age >= r.Profile.RetirementAge {
			phase = "retirement"
		}
		deflator := inflation.Pow(decimal.NewFromInt(int64(i)))
		row := []string{fmt.Sprint(b.Age), phase}
		for _, v := range []float64{b.P10, b.P50, b.P90} {
			row = append(row, decimal.NewFromFloat(v).StringFixed(2))
		}
		for _, v := range []float64{b.P10, b.P50, b.P90} {
			row = append(row, decimal.NewFromFloat(v).DivRound(deflator, 2).StringFixed(2))
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}
