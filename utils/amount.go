package utils

import (
	"regexp"
	"strconv"
	"strings"
)

// MaxAmount is the largest value accepted as a statement amount. Anything bigger is
// almost always an account or customer number picked up by mistake.
const MaxAmount = 10_000_000_000

// AmountPattern finds an amount-shaped token inside a text window.
var AmountPattern = regexp.MustCompile(`(?i)(?:(?:₹|` + "`" + `|Rs\.?|INR)\s*)?\(?\d[\d,]*(?:\.\d{1,2})?\)?(?:\s*(?:CR|DR)\b)?`)

// amount shapes, tried in order: zero, Indian grouping, Western grouping, plain digits.
// Group 1 is the currency marker, group 2 the digits.
var amountLadder = []*regexp.Regexp{
	amountRung(`0+(?:\.0{1,2})?`),
	amountRung(`\d{1,3}(?:,\d{2})*,\d{3}(?:\.\d{1,2})?`),
	amountRung(`\d{1,3}(?:,\d{3})+(?:\.\d{1,2})?`),
	amountRung(`\d+(?:\.\d{1,2})?`),
}

var zeroAmount = regexp.MustCompile(`^0+(?:\.0{1,2})?$`)

func amountRung(digits string) *regexp.Regexp {
	return regexp.MustCompile(`(?i)^\s*\(?\s*(₹|` + "`" + `|Rs\.?|INR)?\s*\(?(` + digits + `)\)?(?:\s*(?:CR|DR))?(?:[^\d.,]|$)`)
}

// ParseAmount normalizes a statement amount such as "₹1,23,456.78", "(1,234.00)"
// or "0.00 CR". Parenthesised amounts are returned as their magnitude.
func ParseAmount(s string) (float64, bool) {
	s = strings.TrimRight(strings.TrimSpace(s), ",.")
	if s == "" {
		return 0, false
	}

	for _, re := range amountLadder {
		m := re.FindStringSubmatch(s)
		if m == nil {
			continue
		}
		currency, digits := m[1], m[2]

		cleaned := strings.ReplaceAll(digits, ",", "")
		if zeroAmount.MatchString(cleaned) {
			return 0, true
		}

		// long bare integers are IDs, not amounts
		if !strings.Contains(cleaned, ".") && len(cleaned) > 10 && currency == "" {
			continue
		}

		val, err := strconv.ParseFloat(cleaned, 64)
		if err != nil {
			continue
		}
		if val > MaxAmount {
			continue
		}
		return val, true
	}

	return 0, false
}
