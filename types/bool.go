package types

import (
	"fmt"
	"strings"
)

// Bool is a strict true/false flag as found in eForms UBL boolean
// indicators (cbc:AcceleratedProcedure, framework-agreement indicators,
// EU-funding indicators). Unlike a bare Go bool it rejects "0", "1",
// "True", "yes" and every other loose spelling — the source schema only
// ever emits the lowercase XSD boolean literals, and anything else
// indicates the document does not mean what we'd assume.
type Bool bool

// ParseBool parses a strict boolean literal. An empty string is treated
// as an absent indicator and parses as false, matching how a missing
// eForms indicator element is read by callers.
func ParseBool(s string) (Bool, error) {
	switch strings.TrimSpace(s) {
	case "true":
		return Bool(true), nil
	case "false", "":
		return Bool(false), nil
	default:
		return Bool(false), fmt.Errorf("invalid boolean %q: must be 'true' or 'false'", s)
	}
}

// String returns "true" or "false".
func (b Bool) String() string {
	if b {
		return "true"
	}
	return "false"
}

// Bool returns the underlying bool value.
func (b Bool) Bool() bool {
	return bool(b)
}
