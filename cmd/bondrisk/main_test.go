package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func execute(t *testing.T, stdin string, args ...string) (string, string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), errOut.String(), err
}

func writeFile(t *testing.T, dir, name, body string) string {
	t.Helper()
	p := filepath.Join(dir, name)
	if err := os.WriteFile(p, []byte(body), 0o600); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return p
}

const scenarioCurve = "Date;Discount;Zero Rate\n" +
	"01/10/2025;1;#N/D\n" +
	"01/10/2026;0.970873786407767;3\n" +
	"01/10/2027;0.9425959091337544;3\n" +
	"01/10/2028;0.9150675514187865;3\n" +
	"01/10/2029;0.8884150984648412;3\n" +
	"01/10/2030;0.8625389305483895;3\n" +
	"01/10/2031;0.8374164374256209;3\n"

func TestVersion(t *testing.T) {
	out, _, err := execute(t, "", "version")
	if err != nil {
		t.Fatalf("version: %v", err)
	}
	if !strings.HasPrefix(out, "bondrisk dev") {
		t.Fatalf("unexpected output: %q", out)
	}
}

func TestYield_Terms(t *testing.T) {
	in := `{"task_id":"a","valuation_date":"2025-10-01","market_price":109.15134943470665,
		"terms":{"maturity":"2030-10-01","first_coupon":"2026-10-01","coupon_rate":5,"frequency":1}}`
	out, _, err := execute(t, in, "yield")
	if err != nil {
		t.Fatalf("yield: %v", err)
	}
	var got yieldOutput
	if err := json.Unmarshal([]byte(out), &got); err != nil {
		t.Fatalf("decode %q: %v", out, err)
	}
	if got.TaskID != "a" || got.Cashflows != 5 {
		t.Fatalf("unexpected output: %+v", got)
	}
	if y, ok := got.YTM.Get(); !ok || math.Abs(y-0.03) > 1e-9 {
		t.Fatalf("ytm: got %s want 0.03", got.YTM)
	}
	if d, ok := got.MacaulayDuration.Get(); !ok || math.Abs(d-4.570538222980189) > 1e-8 {
		t.Fatalf("macaulay: got %s", got.MacaulayDuration)
	}
}

func TestYield_ArrayWithFailure(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "in.json", `[
		{"task_id":"ok","valuation_date":"2025-10-01","market_price":100,
		 "cashflows":[{"date":"2025-10-01","coupon":4},{"date":"2026-10-01","coupon":4,"principal":100}]},
		{"task_id":"bad","valuation_date":"2025-10-01","market_price":500,
		 "cashflows":[{"date":"2026-10-01","coupon":4,"principal":100}]},
		{"task_id":"none","valuation_date":"2025-10-01","market_price":100}
	]`)

	out, _, err := execute(t, "", "yield", "-i", path)
	if !errors.Is(err, errYieldFailed) {
		t.Fatalf("expected errYieldFailed, got %v", err)
	}
	var got []yieldOutput
	if err := json.Unmarshal([]byte(out), &got); err != nil {
		t.Fatalf("decode %q: %v", out, err)
	}
	if len(got) != 3 {
		t.Fatalf("expected 3 outputs, got %d", len(got))
	}
	// The coupon on the valuation date is not a future cashflow: 104 in one year at par is 4%.
	if y, ok := got[0].YTM.Get(); got[0].Error != "" || got[0].Cashflows != 1 || !ok || math.Abs(y-0.04) > 1e-9 {
		t.Fatalf("first output: %+v", got[0])
	}
	if !strings.Contains(got[1].Error, "bracket") {
		t.Fatalf("second output should fail to bracket: %+v", got[1])
	}
	if got[1].MarketPrice != 500 || got[1].Cashflows != 1 {
		t.Fatalf("failed output should echo its input: %+v", got[1])
	}
	if got[2].Error == "" || got[2].MarketPrice != 100 {
		t.Fatalf("third output needs cashflows or terms: %+v", got[2])
	}

	var raw []map[string]any
	if err := json.Unmarshal([]byte(out), &raw); err != nil {
		t.Fatalf("decode %q: %v", out, err)
	}
	for _, i := range []int{1, 2} {
		for _, field := range []string{"ytm", "macaulay_duration", "modified_duration", "convexity"} {
			v, present := raw[i][field]
			if !present || v != nil {
				t.Fatalf("output %d: %s should be null, got %v (present %v)", i, field, v, present)
			}
		}
	}
}

func TestYield_ExplicitCashflowOrdering(t *testing.T) {
	unsorted := `{"valuation_date":"2025-10-01","market_price":100,
		"cashflows":[{"date":"2027-10-01","coupon":4,"principal":100},{"date":"01/10/2026","coupon":4}]}`
	out, _, err := execute(t, unsorted, "yield")
	if err != nil {
		t.Fatalf("yield: %v", err)
	}
	var got yieldOutput
	if err := json.Unmarshal([]byte(out), &got); err != nil {
		t.Fatalf("decode %q: %v", out, err)
	}
	// A 4% annual coupon bond priced at par yields 4% whatever the input order.
	if y, ok := got.YTM.Get(); !ok || math.Abs(y-0.04) > 1e-9 || got.Cashflows != 2 {
		t.Fatalf("unsorted cashflows: %+v", got)
	}

	duplicate := `{"valuation_date":"2025-10-01","market_price":100,
		"cashflows":[{"date":"2026-10-01","coupon":4},{"date":"2026-10-01","coupon":4,"principal":100}]}`
	out, _, err = execute(t, duplicate, "yield")
	if !errors.Is(err, errYieldFailed) {
		t.Fatalf("expected errYieldFailed, got %v", err)
	}
	var dup yieldOutput
	if err := json.Unmarshal([]byte(out), &dup); err != nil {
		t.Fatalf("decode %q: %v", out, err)
	}
	if !strings.Contains(dup.Error, "duplicate cashflow date") || dup.YTM.Valid() {
		t.Fatalf("duplicate dates should be rejected: %+v", dup)
	}
}

func TestReport_CSVSource(t *testing.T) {
	dir := t.TempDir()
	bondsPath := writeFile(t, dir, "bonds.csv",
		"ISIN;Ccy;Coupon;Coupon Frequency;Maturity;First Coupon Date;Price\n"+
			"XS0000000001;EUR;5;1;01/10/2030;01/10/2026;#N/D\n"+
			"XS0000000002;EUR;3;1;01/10/2028;01/10/2026;99\n"+
			"XS0000000003;USD;3;1;01/10/2028;01/10/2026;99\n"+
			"XS0000000004;EUR;3;1;#N/D;01/10/2026;99\n")
	curvePath := writeFile(t, dir, "curve.csv", scenarioCurve)
	pricesPath := writeFile(t, dir, "prices.csv", "Ticker;30/09/2025;01/10/2025\nXS0000000001 Corp;108;109.15134943470665\n")

	out, logs, err := execute(t, "", "report",
		"--valuation-date", "2025-10-01",
		"--bonds", bondsPath, "--curve", curvePath, "--prices", pricesPath,
		"--log-level", "debug", "--workers", "2")
	if err != nil {
		t.Fatalf("report: %v (logs: %s)", err, logs)
	}

	var rows []map[string]any
	if err := json.Unmarshal([]byte(out), &rows); err != nil {
		t.Fatalf("decode %q: %v", out, err)
	}
	if len(rows) != 2 {
		t.Fatalf("expected 2 EUR bonds with a maturity, got %d", len(rows))
	}
	first := rows[0]
	if first["isin"] != "XS0000000001" || first["price_source"] != "market" {
		t.Fatalf("first row: %+v", first)
	}
	if y, _ := first["ytm"].(float64); math.Abs(y-0.03) > 1e-9 {
		t.Fatalf("ytm: got %v", first["ytm"])
	}
	if s, _ := first["spread"].(float64); math.Abs(s) > 1e-9 {
		t.Fatalf("spread: got %v", first["spread"])
	}
	if rows[1]["price_source"] != "static" {
		t.Fatalf("second row should use the static price: %+v", rows[1])
	}
	if !strings.Contains(logs, "risk report computed") {
		t.Fatalf("expected summary log, got %q", logs)
	}

	csvOut, _, err := execute(t, "", "report",
		"--valuation-date", "2025-10-01",
		"--bonds", bondsPath, "--curve", curvePath, "--format", "csv")
	if err != nil {
		t.Fatalf("report csv: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(csvOut), "\n")
	if len(lines) != 3 || !strings.HasPrefix(lines[0], "isin,ttm_years,market_price,price_source,ytm") {
		t.Fatalf("csv output: %q", csvOut)
	}
}

func TestCurve(t *testing.T) {
	curvePath := writeFile(t, t.TempDir(), "curve.csv", scenarioCurve)
	out, _, err := execute(t, "", "curve", "--valuation-date", "2025-10-01", "--curve", curvePath,
		"--date", "2025-09-01", "--date", "01/04/2027", "--date", "2040-01-01")
	if err != nil {
		t.Fatalf("curve: %v", err)
	}
	var got []curveQuote
	if err := json.Unmarshal([]byte(out), &got); err != nil {
		t.Fatalf("decode %q: %v", out, err)
	}
	if len(got) != 3 {
		t.Fatalf("expected 3 quotes, got %d", len(got))
	}
	if got[0].DiscountFactor != 1 {
		t.Fatalf("past date should discount at 1, got %v", got[0].DiscountFactor)
	}
	if got[1].Date != "2027-04-01" || !(got[1].DiscountFactor < 0.970873786407767 && got[1].DiscountFactor > 0.9425959091337544) {
		t.Fatalf("interpolated quote: %+v", got[1])
	}
	if got[2].DiscountFactor != 0.8374164374256209 {
		t.Fatalf("flat extrapolation: got %v", got[2].DiscountFactor)
	}
	if z, ok := got[2].ZeroRate.Get(); !ok || math.Abs(z-0.03) > 1e-12 {
		t.Fatalf("zero rate: got %s", got[2].ZeroRate)
	}

	if _, _, err := execute(t, "", "curve", "--valuation-date", "2025-10-01", "--curve", curvePath); err == nil {
		t.Fatalf("expected error without --date")
	}
}

func TestConfigErrors(t *testing.T) {
	if _, _, err := execute(t, "", "version", "--log-level", "loud"); err == nil {
		t.Fatalf("expected error for bad log level")
	}
	if _, _, err := execute(t, "", "report", "--format", "xml"); err == nil {
		t.Fatalf("expected error for bad format")
	}
	if _, _, err := execute(t, "", "version", "--config", filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Fatalf("expected error for missing config file")
	}
}
