// Package price parses and renders the free-form price input of the receipt form.
package price

import (
	"errors"
	"math"
	"strconv"
	"strings"

	"golang.org/x/text/currency"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

// Parse keeps only ASCII digits and '.', then reads the rest as a number.
// An empty remainder is 0 and an unparsable one (e.g. "1.2.3") is NaN.
// Values too large for a float64 come back as +Inf.
// Signs are stripped with everything else, so the result is never negative.
func Parse(s string) float64 {
	cleaned := strings.Map(func(r rune) rune {
		if (r >= '0' && r <= '9') || r == '.' {
			return r
		}
		return -1
	}, s)
	if cleaned == "" {
		return 0
	}
	v, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		if errors.Is(err, strconv.ErrRange) {
			return v
		}
		return math.NaN()
	}
	return v
}

// String renders v the way a bare number is shown in the price field:
// shortest form, no trailing zeros, "NaN" and "Infinity" for the specials.
func String(v float64) string {
	switch {
	case math.IsNaN(v):
		return "NaN"
	case math.IsInf(v, 1):
		return "Infinity"
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// Format renders v as a USD amount for the given locale with two fraction digits.
// Half cents round up (0.125 -> 0.13); v is never negative.
func Format(v float64, tag language.Tag) string {
	symbol := usdSymbol(tag)
	switch {
	case math.IsNaN(v):
		return symbol + "NaN"
	case math.IsInf(v, 1):
		return symbol + "∞"
	}
	// x/text rounds half to even, so settle the cents first.
	v = math.Round(v*100) / 100
	p := message.NewPrinter(tag)
	return symbol + p.Sprint(number.Decimal(v, number.MinFractionDigits(2), number.MaxFractionDigits(2)))
}

func usdSymbol(tag language.Tag) string {
	// Only US locales render the bare dollar sign.
	if region, _ := tag.Region(); region.String() == "US" {
		return "$"
	}
	return currency.USD.String() + " "
}
