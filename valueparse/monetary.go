package valueparse

import (
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
)

// Each of the following recognizes exactly one lexical shape seen across
// the ~15-year span of TED award-value literals. They are deliberately
// narrow: widening one to "be more forgiving" is how two of them end up
// overlapping, which is exactly what ParseMonetary treats as a bug.
var (
	reCommaDecimal2      = regexp.MustCompile(`^\d+,\d{2}$`)
	reCommaDecimal1      = regexp.MustCompile(`^\d+,\d$`)
	reCommaDecimal4      = regexp.MustCompile(`^\d+,\d{4}$`)
	reDotDecimal         = regexp.MustCompile(`^\d+(\.\d{2,})?$`)
	reDotDecimal1        = regexp.MustCompile(`^\d+\.\d$`)
	reDoubleSpaceThousands = regexp.MustCompile(`^\d{1,3}(?: \d{3})*  \d{3},\d{2}$`)
	reSpaceThousands     = regexp.MustCompile(`^\d{1,3}(?: \d{3})*([,.]\d{2})?$`)
	reSpaceThousandsC3   = regexp.MustCompile(`^\d{1,3}(?: \d{3}){1,3},\d{3}$`)
	reSpaceThousandsC4   = regexp.MustCompile(`^\d{1,3}(?: \d{3}){1,3},\d{4}$`)
	reCommaThousandsInt  = regexp.MustCompile(`^\d{1,3}(,\d{3}){1,3}$`)
	reValueSpaceEUR      = regexp.MustCompile(`(?i)^Value:\s+(\d{1,3}(?:\s\d{3})*(?:,\d+)?)\s+EUR\.$`)
)

// ParseMonetaryCommaDecimal2 parses "885,72": comma decimal, exactly 2 digits.
func ParseMonetaryCommaDecimal2(s string) (decimal.Decimal, bool) {
	if !reCommaDecimal2.MatchString(s) {
		return decimal.Decimal{}, false
	}
	return mustParseDecimal(strings.Replace(s, ",", ".", 1))
}

// ParseMonetaryCommaDecimal1 parses "72,8": comma decimal, exactly 1 digit.
func ParseMonetaryCommaDecimal1(s string) (decimal.Decimal, bool) {
	if !reCommaDecimal1.MatchString(s) {
		return decimal.Decimal{}, false
	}
	return mustParseDecimal(strings.Replace(s, ",", ".", 1))
}

// ParseMonetaryCommaDecimal4 parses "40,0000": comma decimal, exactly 4 digits.
func ParseMonetaryCommaDecimal4(s string) (decimal.Decimal, bool) {
	if !reCommaDecimal4.MatchString(s) {
		return decimal.Decimal{}, false
	}
	return mustParseDecimal(strings.Replace(s, ",", ".", 1))
}

// ParseMonetaryDotDecimal parses "1234.56" or "1234": an integer, or dot
// decimal with two or more fractional digits (one digit belongs to
// ParseMonetaryDotDecimal1).
func ParseMonetaryDotDecimal(s string) (decimal.Decimal, bool) {
	if !reDotDecimal.MatchString(s) {
		return decimal.Decimal{}, false
	}
	return mustParseDecimal(s)
}

// ParseMonetaryDotDecimal1 parses "979828.1": dot decimal, exactly 1 digit.
func ParseMonetaryDotDecimal1(s string) (decimal.Decimal, bool) {
	if !reDotDecimal1.MatchString(s) {
		return decimal.Decimal{}, false
	}
	return mustParseDecimal(s)
}

// ParseMonetaryDoubleSpaceThousands parses "1 011  606,51": single-space
// thousands groups with a double space before the last group.
func ParseMonetaryDoubleSpaceThousands(s string) (decimal.Decimal, bool) {
	if !reDoubleSpaceThousands.MatchString(s) {
		return decimal.Decimal{}, false
	}
	normalized := strings.ReplaceAll(strings.ReplaceAll(s, " ", ""), ",", ".")
	return mustParseDecimal(normalized)
}

// ParseMonetarySpaceThousands parses "10 760 400" or "1 234,56": space
// thousands separators with an optional 2-digit decimal part.
func ParseMonetarySpaceThousands(s string) (decimal.Decimal, bool) {
	if !strings.Contains(s, " ") || !reSpaceThousands.MatchString(s) {
		return decimal.Decimal{}, false
	}
	normalized := strings.ReplaceAll(strings.ReplaceAll(s, " ", ""), ",", ".")
	return mustParseDecimal(normalized)
}

// ParseMonetarySpaceThousandsComma3 parses "56 146,820": space thousands,
// comma decimal, exactly 3 digits.
func ParseMonetarySpaceThousandsComma3(s string) (decimal.Decimal, bool) {
	if !strings.Contains(s, " ") || !reSpaceThousandsC3.MatchString(s) {
		return decimal.Decimal{}, false
	}
	normalized := strings.ReplaceAll(strings.ReplaceAll(s, " ", ""), ",", ".")
	return mustParseDecimal(normalized)
}

// ParseMonetarySpaceThousandsComma4 parses "264 886,8600": space thousands,
// comma decimal, exactly 4 digits.
func ParseMonetarySpaceThousandsComma4(s string) (decimal.Decimal, bool) {
	if !strings.Contains(s, " ") || !reSpaceThousandsC4.MatchString(s) {
		return decimal.Decimal{}, false
	}
	normalized := strings.ReplaceAll(strings.ReplaceAll(s, " ", ""), ",", ".")
	return mustParseDecimal(normalized)
}

// ParseMonetaryCommaThousandsInt parses "600,000" or "1,234,567": comma
// as thousands separator, no decimal part.
func ParseMonetaryCommaThousandsInt(s string) (decimal.Decimal, bool) {
	if !reCommaThousandsInt.MatchString(s) {
		return decimal.Decimal{}, false
	}
	return mustParseDecimal(strings.ReplaceAll(s, ",", ""))
}

// ParseMonetaryValueSpaceEUR parses "Value: 10 760 400  EUR.": the
// verbose legacy free-text form seen in some R2.0.7 value elements.
func ParseMonetaryValueSpaceEUR(s string) (decimal.Decimal, bool) {
	m := reValueSpaceEUR.FindStringSubmatch(s)
	if m == nil {
		return decimal.Decimal{}, false
	}
	normalized := strings.ReplaceAll(strings.ReplaceAll(m[1], " ", ""), ",", ".")
	return mustParseDecimal(normalized)
}

func mustParseDecimal(s string) (decimal.Decimal, bool) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Decimal{}, false
	}
	return d, true
}

var monetaryParsers = []func(string) (decimal.Decimal, bool){
	ParseMonetaryCommaDecimal2,
	ParseMonetaryCommaDecimal1,
	ParseMonetaryCommaDecimal4,
	ParseMonetaryDotDecimal,
	ParseMonetaryDotDecimal1,
	ParseMonetaryDoubleSpaceThousands,
	ParseMonetarySpaceThousands,
	ParseMonetarySpaceThousandsComma3,
	ParseMonetarySpaceThousandsComma4,
	ParseMonetaryCommaThousandsInt,
	ParseMonetaryValueSpaceEUR,
}

// ParseMonetary runs the full monetary-parser family against text.
// Values are always non-negative; a negative literal never matches any
// parser in the family and is reported as UnparseableValue by the
// caller. Panics with AmbiguousParse if more than one parser matches —
// per spec that condition means the parser set is no longer disjoint.
func ParseMonetary(text string) (decimal.Decimal, bool) {
	text = trimmed(text)
	if text == "" {
		return decimal.Decimal{}, false
	}

	var match decimal.Decimal
	matched := false
	matchCount := 0
	for _, parse := range monetaryParsers {
		if d, ok := parse(text); ok {
			matchCount++
			match, matched = d, ok
		}
	}
	if matchCount > 1 {
		panic(AmbiguousParse{Kind: "monetary", Text: text, MatchCount: matchCount})
	}
	return match, matched
}
