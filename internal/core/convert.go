package core

// convert.go turns spreadsheet cells into typed values for the importer.
//
// Cells arrive with the usual artifacts of hand-edited files:
//   - Excel formula prefixes (="PRD001")
//   - Surrounding quotes and stray whitespace
//   - Currency symbols and thousands separators in prices
//   - Accounting negatives written as (12.50)
//
// The Parse* helpers report ok=false for empty or unparsable input so the
// caller can apply the field's default instead of failing the row.

import (
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
)

// numericRegex validates a cleaned number: integers, decimals, scientific notation.
var numericRegex = regexp.MustCompile(`^[+-]?(\d+(\.\d*)?|\.\d+)([eE][+-]?\d+)?$`)

var currencyReplacer = strings.NewReplacer(
	"$", "",
	"€", "", // Euro
	"£", "", // Pound
	"¥", "", // Yen / Yuan
	"￥", "", // Fullwidth Yuan
	"元", "", // 元
	",", "",
	"，", "", // Fullwidth comma
	" ", "",
)

// CleanCell removes common spreadsheet artifacts from a cell value:
// whitespace, an Excel formula prefix (="..."), and surrounding quotes.
func CleanCell(s string) string {
	s = strings.TrimSpace(s)

	if strings.HasPrefix(s, "=\"") && strings.HasSuffix(s, "\"") {
		s = s[2 : len(s)-1]
	} else if strings.HasPrefix(s, "=") {
		s = s[1:]
	}

	s = strings.Trim(s, `"'`)
	return strings.TrimSpace(s)
}

// CleanNumber normalizes a numeric cell: currency symbols and thousands
// separators are dropped and "(12.50)" becomes "-12.50".
func CleanNumber(s string) string {
	s = CleanCell(s)
	if s == "" {
		return ""
	}

	isNegative := false
	if strings.HasPrefix(s, "(") && strings.HasSuffix(s, ")") {
		isNegative = true
		s = strings.TrimSpace(s[1 : len(s)-1])
	}

	s = currencyReplacer.Replace(s)

	if isNegative && s != "" {
		s = "-" + s
	}
	return s
}

// Limits on a cleaned numeric cell. Rounding or comparing a decimal with a
// huge exponent expands it digit by digit, so such cells count as unparsable.
const (
	maxNumberLen      = 40
	maxNumberExponent = 20
)

// ParseDecimalCell parses a price-like cell.
func ParseDecimalCell(s string) (decimal.Decimal, bool) {
	s = CleanNumber(s)
	if s == "" || len(s) > maxNumberLen || !numericRegex.MatchString(s) {
		return decimal.Decimal{}, false
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Decimal{}, false
	}
	if exp := d.Exponent(); exp > maxNumberExponent || exp < -maxNumberExponent {
		return decimal.Decimal{}, false
	}
	return d, true
}

// ParseIntCell parses a whole-number cell. "100.0", as spreadsheets export
// integers, is accepted; "12.5" is not.
func ParseIntCell(s string) (int, bool) {
	d, ok := ParseDecimalCell(s)
	if !ok || !d.IsInteger() {
		return 0, false
	}
	if d.GreaterThan(decimal.NewFromInt(maxStock)) || d.LessThan(decimal.NewFromInt(-maxStock)) {
		return 0, false
	}
	return int(d.IntPart()), true
}

// maxStock keeps parsed quantities inside the INTEGER column range.
const maxStock = 1<<31 - 1
