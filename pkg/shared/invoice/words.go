package invoice

import (
	"strings"

	"github.com/shopspring/decimal"
)

var (
	unitWords = []string{"", "One", "Two", "Three", "Four", "Five", "Six", "Seven", "Eight", "Nine"}
	teenWords = []string{"Ten", "Eleven", "Twelve", "Thirteen", "Fourteen", "Fifteen", "Sixteen", "Seventeen", "Eighteen", "Nineteen"}
	tensWords = []string{"", "", "Twenty", "Thirty", "Forty", "Fifty", "Sixty", "Seventy", "Eighty", "Ninety"}
)

// Indian grouping, highest first.
var magnitudes = []struct {
	value int64
	label string
}{
	{10000000, "Crore"},
	{100000, "Lakh"},
	{1000, "Thousand"},
}

// AmountInWords spells a rupee amount using the Indian numbering system,
// e.g. 1234.5 -> "One Thousand Two Hundred and Thirty Four Rupees and Fifty
// Paise Only". The amount is rounded to whole paise first.
func AmountInWords(amount decimal.Decimal) string {
	prefix := ""
	if amount.IsNegative() {
		prefix = "Minus "
		amount = amount.Neg()
	}
	amount = amount.Round(2)
	if amount.IsZero() {
		return "Zero Rupees Only"
	}

	rupees := amount.Floor()
	paise := amount.Sub(rupees).Mul(hundred).Round(0).IntPart()

	words := spellRupees(rupees.IntPart())
	if words == "" {
		words = "Zero"
	}
	words = prefix + words + " Rupees"
	if paise > 0 {
		words += " and " + belowThousand(paise) + " Paise"
	}
	return words + " Only"
}

func spellRupees(n int64) string {
	var parts []string
	for _, m := range magnitudes {
		if n >= m.value {
			count := n / m.value
			// a crore count past 999 is itself spelled in Indian groups
			if count > 999 {
				parts = append(parts, spellRupees(count), m.label)
			} else {
				parts = append(parts, belowThousand(count), m.label)
			}
			n %= m.value
		}
	}
	if n > 0 {
		parts = append(parts, belowThousand(n))
	}
	return strings.Join(parts, " ")
}

func belowThousand(n int64) string {
	switch {
	case n == 0:
		return ""
	case n < 10:
		return unitWords[n]
	case n < 20:
		return teenWords[n-10]
	case n < 100:
		if n%10 == 0 {
			return tensWords[n/10]
		}
		return tensWords[n/10] + " " + unitWords[n%10]
	}
	words := unitWords[n/100] + " Hundred"
	if rest := n % 100; rest != 0 {
		words += " and " + belowThousand(rest)
	}
	return words
}
