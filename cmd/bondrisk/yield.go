package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"slices"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/meenmo/bondrisk/bond"
	"github.com/meenmo/bondrisk/rootfind"
	"github.com/meenmo/bondrisk/utils"
	"github.com/meenmo/bondrisk/valuation"
)

type yieldInput struct {
	TaskID        string         `json:"task_id,omitempty"`
	ValuationDate string         `json:"valuation_date"`
	MarketPrice   float64        `json:"market_price"`
	DayCount      string         `json:"day_count"`
	Cashflows     []cashflowJSON `json:"cashflows"`
	Terms         *termsJSON     `json:"terms,omitempty"`
}

type cashflowJSON struct {
	Date      string  `json:"date"`
	Coupon    float64 `json:"coupon"`
	Principal float64 `json:"principal"`
}

type termsJSON struct {
	Maturity    string          `json:"maturity"`
	FirstCoupon string          `json:"first_coupon"`
	CouponRate  valuation.Value `json:"coupon_rate"`
	Frequency   int             `json:"frequency"`
	Notional    float64         `json:"notional"`
}

type yieldOutput struct {
	TaskID           string          `json:"task_id,omitempty"`
	ValuationDate    string          `json:"valuation_date"`
	MarketPrice      float64         `json:"market_price"`
	YTM              valuation.Value `json:"ytm"`
	MacaulayDuration valuation.Value `json:"macaulay_duration"`
	ModifiedDuration valuation.Value `json:"modified_duration"`
	Convexity        valuation.Value `json:"convexity"`
	Cashflows        int             `json:"cashflows"`
	Error            string          `json:"error,omitempty"`
}

// errYieldFailed is returned after the output is written when any item failed.
var errYieldFailed = errors.New("one or more yield computations failed")

func newYieldCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "yield [-i file]",
		Short: "Solve yield to maturity, duration and convexity from JSON input",
		Long: `Reads a JSON object or array from the input file (stdin if omitted).
Each item carries valuation_date, market_price and either explicit
cashflows [{date, coupon, principal}] or bond terms
{maturity, first_coupon, coupon_rate, frequency, notional}.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			path, _ := cmd.Flags().GetString("input")
			raw, err := readInput(strings.TrimSpace(path), cmd.InOrStdin())
			if err != nil {
				return fmt.Errorf("read input: %w", err)
			}
			inputs, isArray, err := parseInputs(raw)
			if err != nil {
				return fmt.Errorf("parse JSON: %w", err)
			}

			settings := a.cfg.SolverSettings()
			hadError := false
			outputs := make([]yieldOutput, 0, len(inputs))
			for _, in := range inputs {
				out := processYield(in, settings)
				if out.Error != "" {
					hadError = true
					a.logger.WithFields(logrus.Fields{"task_id": in.TaskID, "reason": out.Error}).Warn("yield failed")
				}
				outputs = append(outputs, out)
			}

			var b []byte
			if isArray {
				b, err = json.Marshal(outputs)
			} else {
				b, err = json.Marshal(outputs[0])
			}
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(b))

			if hadError {
				return errYieldFailed
			}
			return nil
		},
	}
	cmd.Flags().StringP("input", "i", "", "JSON input path (reads stdin if omitted)")
	return cmd
}

// processYield fills every measure it can. A failed step leaves its own
// measures and those that depend on it missing and sets Error.
func processYield(in yieldInput, settings rootfind.Settings) yieldOutput {
	out := yieldOutput{
		TaskID:        in.TaskID,
		ValuationDate: in.ValuationDate,
		MarketPrice:   in.MarketPrice,
	}
	fail := func(err error) yieldOutput {
		out.Error = err.Error()
		return out
	}

	vdate, err := utils.ParseDate(in.ValuationDate)
	if err != nil {
		return fail(fmt.Errorf("invalid valuation_date: %w", err))
	}
	basis, err := utils.BasisFor(in.DayCount)
	if err != nil {
		return fail(err)
	}
	vctx := valuation.New(vdate).WithBasis(basis)

	sched, err := scheduleFor(in, vctx)
	if err != nil {
		return fail(err)
	}
	out.Cashflows = len(sched)

	y, err := bond.SolveYield(in.MarketPrice, sched, vctx, settings)
	if err != nil {
		return fail(err)
	}
	out.YTM = valuation.Some(y)

	sens, err := bond.DurationAndConvexity(in.MarketPrice, sched, y, vctx)
	if err != nil {
		return fail(err)
	}
	out.MacaulayDuration = valuation.Some(sens.Macaulay)
	out.ModifiedDuration = valuation.Some(sens.Modified)
	out.Convexity = valuation.Some(sens.Convexity)
	return out
}

// scheduleFor uses explicit cashflows when given, otherwise builds the
// schedule from the terms. Explicit cashflows on or before the valuation
// date are dropped; the rest are sorted by date and must not share a date.
func scheduleFor(in yieldInput, vctx valuation.Context) (bond.Schedule, error) {
	if len(in.Cashflows) > 0 {
		sched := make(bond.Schedule, 0, len(in.Cashflows))
		for _, cf := range in.Cashflows {
			d, err := utils.ParseDate(cf.Date)
			if err != nil {
				return nil, fmt.Errorf("invalid cashflow date: %w", err)
			}
			if !d.After(vctx.Date) {
				continue
			}
			sched = append(sched, bond.Cashflow{Date: d, Coupon: cf.Coupon, Principal: cf.Principal})
		}
		slices.SortStableFunc(sched, func(a, b bond.Cashflow) int {
			return a.Date.Compare(b.Date)
		})
		for i := 1; i < len(sched); i++ {
			if sched[i].Date.Equal(sched[i-1].Date) {
				return nil, fmt.Errorf("duplicate cashflow date %s", sched[i].Date.Format(utils.LayoutISO))
			}
		}
		return sched, nil
	}
	if in.Terms == nil {
		return nil, fmt.Errorf("either cashflows or terms are required")
	}

	terms := bond.Terms{
		CouponRate: in.Terms.CouponRate,
		Frequency:  in.Terms.Frequency,
		Notional:   in.Terms.Notional,
	}
	var err error
	if in.Terms.Maturity != "" {
		if terms.Maturity, err = utils.ParseDate(in.Terms.Maturity); err != nil {
			return nil, fmt.Errorf("invalid maturity: %w", err)
		}
	}
	if in.Terms.FirstCoupon != "" {
		if terms.FirstCoupon, err = utils.ParseDate(in.Terms.FirstCoupon); err != nil {
			return nil, fmt.Errorf("invalid first_coupon: %w", err)
		}
	}
	return bond.BuildSchedule(terms, vctx)
}

func readInput(path string, stdin io.Reader) ([]byte, error) {
	if path != "" {
		return os.ReadFile(path)
	}
	return io.ReadAll(stdin)
}

func parseInputs(raw []byte) ([]yieldInput, bool, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return nil, false, fmt.Errorf("empty input")
	}
	if trimmed[0] == '[' {
		var inputs []yieldInput
		if err := json.Unmarshal(trimmed, &inputs); err != nil {
			return nil, true, err
		}
		if len(inputs) == 0 {
			return nil, true, fmt.Errorf("empty input array")
		}
		return inputs, true, nil
	}
	var input yieldInput
	if err := json.Unmarshal(trimmed, &input); err != nil {
		return nil, false, err
	}
	return []yieldInput{input}, false, nil
}
