package renderer

import (
	"fmt"
	"io"
	"strings"

	"github.com/etnz/fundfolio"
)

// separator closes every fund block of the console report.
var separator = strings.Repeat("-", 40)

// Report writes the console report of a valuation: portfolio totals, then
// one block per fund.
//
// Positions without price show "n/a" for their value and gain.
func Report(w io.Writer, v *fundfolio.Valuation) error {
	unit := currencyUnit(v.Currency)
	var b strings.Builder
	fmt.Fprintf(&b, "Total Portfolio Value: %s %s\n", v.TotalValue.Figure(), unit)
	fmt.Fprintf(&b, "Total Portfolio Gain: %s %s\n", v.TotalGain.Figure(), unit)
	for i, res := range v.Results {
		value, gain := notAvailable, notAvailable
		if res.Available {
			value = res.Value.Figure() + " " + unit
			gain = res.Gain.Figure() + " " + unit
		}
		fmt.Fprintf(&b, "Fund %d:\n", i+1)
		fmt.Fprintf(&b, "  Folio            : %s\n", res.Key.Account)
		fmt.Fprintf(&b, "  Fund Name        : %s\n", res.Name)
		fmt.Fprintf(&b, "  Remaining Units  : %s\n", res.Units.StringFixed(unitsPlaces))
		fmt.Fprintf(&b, "  Current Value    : %s\n", value)
		fmt.Fprintf(&b, "  Gain             : %s\n", gain)
		fmt.Fprintln(&b, separator)
	}
	_, err := io.WriteString(w, b.String())
	return err
}

// currencyUnit is the suffix amounts are printed with.
func currencyUnit(code string) string {
	if code == "INR" {
		return "Rs"
	}
	return code
}
