// Package valueparse implements the strict, disjoint-by-construction
// value parsers for monetary and date literals found in TED notice XML
// text nodes, and the optional-integer parser for tender counts.
//
// Every parser family follows the same discipline: each individual
// parser recognizes exactly one lexical shape and returns no match
// (rather than a best-effort guess) for anything else. An aggregator
// runs the whole family and disposes of the result by match count:
// zero matches returns absent (logging is left to the caller), exactly one match
// wins, and more than one match is a bug in the parser set, not in the
// input — it is reported as AmbiguousParse, not silently resolved.
package valueparse

import (
	"regexp"
	"time"

	"github.com/tedimport/awards/types"
)

var (
	reYYYYMMDD  = regexp.MustCompile(`^\d{8}$`)
	reISODate   = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)
	reISOOffset = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}([+-]\d{2}:\d{2}|Z)$`)
)

// ParseDateYYYYMMDD parses an 8-digit date such as "20081231". It
// matches nothing else: no separators, no time component.
func ParseDateYYYYMMDD(text string) (types.Date, bool) {
	if !reYYYYMMDD.MatchString(text) {
		return types.Date{}, false
	}
	t, err := time.Parse("20060102", text)
	if err != nil {
		return types.Date{}, false
	}
	return types.NewDate(t), true
}

// ParseDateISO parses a bare ISO calendar date such as "2024-01-15".
// It does not accept a time component or zone offset — ParseDateISOOffset
// owns that shape.
func ParseDateISO(text string) (types.Date, bool) {
	if !reISODate.MatchString(text) {
		return types.Date{}, false
	}
	t, err := time.Parse(types.DateFormat, text)
	if err != nil {
		return types.Date{}, false
	}
	return types.NewDate(t), true
}

// ParseDateISOOffset parses an ISO date with a trailing zone offset or Z
// suffix, such as "2025-01-02+01:00" or "2024-12-30Z". The zone is
// discarded; only the date portion is kept, matching how eForms
// IssueDate/PublicationDate values are read.
func ParseDateISOOffset(text string) (types.Date, bool) {
	if !reISOOffset.MatchString(text) {
		return types.Date{}, false
	}
	t, err := time.Parse(types.DateFormat, text[:10])
	if err != nil {
		return types.Date{}, false
	}
	return types.NewDate(t), true
}

var dateParsers = []func(string) (types.Date, bool){
	ParseDateYYYYMMDD,
	ParseDateISO,
	ParseDateISOOffset,
}

// ParseDate runs the full date-parser family against text and returns
// the single matching date. It panics with AmbiguousParse if more than
// one parser in the family matches — per spec, that is a parser-set bug
// to be fixed before deployment, not a runtime condition to recover
// from. A zero match count returns (types.Date{}, false); callers treat
// that as UnparseableValue (warn, null the field, keep the notice).
func ParseDate(text string) (types.Date, bool) {
	text = trimmed(text)
	if text == "" {
		return types.Date{}, false
	}

	var match types.Date
	matched := false
	matchCount := 0
	for _, parse := range dateParsers {
		if d, ok := parse(text); ok {
			matchCount++
			match, matched = d, ok
		}
	}
	if matchCount > 1 {
		panic(AmbiguousParse{Kind: "date", Text: text, MatchCount: matchCount})
	}
	return match, matched
}
