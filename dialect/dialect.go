// Package dialect recognizes and parses the two XML dialects TED
// publishes contract award notices in: the legacy "TED 2.0" family
// (R2.0.7/R2.0.8/R2.0.9) and the newer eForms UBL ContractAwardNotice.
// Each parser turns a single XML file into a schema.Notice, or reports
// that the file is not an award notice at all.
package dialect

import (
	"strings"

	"github.com/tedimport/awards/schema"
)

// Kind is the closed set of supported dialects. The set is small and
// fixed by design — prefer this sum type over an open-ended parser
// registry.
type Kind int

const (
	Unknown Kind = iota
	UBL
	Legacy
)

func (k Kind) String() string {
	switch k {
	case UBL:
		return "eforms-ubl"
	case Legacy:
		return "ted-v2"
	default:
		return "unknown"
	}
}

// Parser turns one XML file into a canonical Notice. A nil Notice with
// a nil error means the file was well-formed but was not an award
// notice (e.g. a corrigendum or a lot with no award) — that is routine,
// not exceptional. A non-nil error means the file could not be parsed
// at all and the caller should treat it as Malformed.
type Parser interface {
	Parse(path string) (*schema.Notice, error)
}

// Detect reads a probe of file content (conventionally the first ~3 KB,
// decoded lossily as UTF-8) and picks a dialect by substring match.
// Returning Unknown is not an error — archives routinely contain
// non-award documents that must be silently skipped.
func Detect(probe []byte) Kind {
	text := string(probe)
	switch {
	case strings.Contains(text, "<ContractAwardNotice"):
		return UBL
	case strings.Contains(text, "<TED_EXPORT") && strings.Contains(text, `CODE="7"`):
		return Legacy
	default:
		return Unknown
	}
}

// ParserFor returns the Parser implementation for a detected Kind, or
// nil for Unknown.
func ParserFor(kind Kind) Parser {
	switch kind {
	case UBL:
		return &UBLParser{MinAwardYear: 2005}
	case Legacy:
		return &LegacyParser{}
	default:
		return nil
	}
}
