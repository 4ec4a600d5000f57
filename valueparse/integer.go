package valueparse

import (
	"strconv"
	"strings"
)

// ParseOptionalInt parses a tender-count-like field: a trimmed integer,
// or a whole-number decimal spelling like "3.0". Anything else is not
// an error in itself — the caller logs UnparseableValue and stores null,
// the notice is still saved.
func ParseOptionalInt(text string) (int, bool) {
	text = trimmed(text)
	if text == "" {
		return 0, false
	}

	if n, err := strconv.Atoi(text); err == nil {
		return n, true
	}

	if dot := strings.IndexByte(text, '.'); dot >= 0 {
		whole, frac := text[:dot], text[dot+1:]
		if frac == strings.Repeat("0", len(frac)) {
			if n, err := strconv.Atoi(whole); err == nil {
				return n, true
			}
		}
	}

	return 0, false
}
