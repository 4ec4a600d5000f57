package codes

import "go.uber.org/zap"

// procedureMapping is the result of resolving a raw procedure type code:
// the canonical entry (or none, for explicitly unmappable codes like
// "not applicable") plus whether the code implied BT-106 accelerated.
// In eForms, accelerated is its own boolean indicator rather than a
// distinct procedure type — the legacy dialects fold it into the code
// itself, so normalization has to split it back out.
type procedureMapping struct {
	code        string
	accelerated bool
}

// procedureTypeCodeMap covers the R2.0.7/R2.0.8 numeric/letter codes
// (PR_PROC CODE). Verified empirically from F03_2014 dual-code files:
// codes "B" and "4" both land on neg-w-call — they were always the same
// procedure, just spelled differently across editions.
var procedureTypeCodeMap = map[string]procedureMapping{
	"1": {"open", false},
	"2": {"restricted", false},
	"3": {"restricted", true},
	"4": {"neg-w-call", false},
	"6": {"neg-w-call", true},
	"9": {"", false},
	"A": {"", false},
	"B": {"neg-w-call", false},
	"C": {"comp-dial", false},
	"G": {"innovation", false},
	"T": {"neg-wo-call", false},
	"V": {"neg-wo-call", false},
	"N": {"", false},
	"Z": {"", false},
}

// tedV2ProcedureToCanonical covers the R2.0.9 canonical uppercase codes.
var tedV2ProcedureToCanonical = map[string]procedureMapping{
	"OPEN":                                   {"open", false},
	"RESTRICTED":                             {"restricted", false},
	"ACCELERATED_RESTRICTED":                 {"restricted", true},
	"COMPETITIVE_NEGOTIATION":                {"neg-w-call", false},
	"NEGOTIATED_WITH_COMPETITION":            {"neg-w-call", false},
	"ACCELERATED_NEGOTIATED":                 {"neg-w-call", true},
	"COMPETITIVE_DIALOGUE":                   {"comp-dial", false},
	"INNOVATION_PARTNERSHIP":                 {"innovation", false},
	"AWARD_CONTRACT_WITHOUT_CALL":            {"neg-wo-call", false},
	"NEGOTIATED_WITH_PRIOR_CALL":             {"neg-w-call", false},
	"AWARD_CONTRACT_WITH_PRIOR_PUBLICATION":  {"neg-w-call", false},
	"AWARD_CONTRACT_WITHOUT_PUBLICATION":     {"neg-wo-call", false},
	"NEGOTIATED_WITHOUT_PUBLICATION":         {"neg-wo-call", false},
	"INVOLVING_NEGOTIATION":                  {"", false},
}

var procedureTypeDescriptions = map[string]string{
	"open":        "Open procedure",
	"restricted":  "Restricted procedure",
	"neg-w-call":  "Negotiated with prior call for competition",
	"comp-dial":   "Competitive dialogue",
	"innovation":  "Innovation partnership",
	"neg-wo-call": "Negotiated without prior call for competition",
	"oth-single":  "Other single stage procedure",
	"oth-mult":    "Other multiple stage procedure",
	"comp-tend":   "Competitive tendering (Regulation 1370/2007)",
}

// NormalizeProcedureType converts a raw procedure type code — whichever
// dialect it came from — into a canonical entry plus the BT-106
// accelerated flag. rawCode == "" and the legacy "unpublished" sentinel
// both yield (nil, false).
func NormalizeProcedureType(log *zap.Logger, rawCode, description string) (*Entry, bool) {
	if rawCode == "" || rawCode == "unpublished" {
		return nil, false
	}

	if m, ok := procedureTypeCodeMap[rawCode]; ok {
		if m.code == "" {
			return nil, false
		}
		return describedEntry(m.code, procedureTypeDescriptions), m.accelerated
	}

	if m, ok := tedV2ProcedureToCanonical[rawCode]; ok {
		if m.code == "" {
			return nil, false
		}
		return describedEntry(m.code, procedureTypeDescriptions), m.accelerated
	}

	if desc, known := procedureTypeDescriptions[rawCode]; known {
		if description == "" {
			description = desc
		}
		return entryPtr(rawCode, description), false
	}

	if log != nil {
		log.Warn("unknown procedure type code", zap.String("code", rawCode))
	}
	return nil, false
}

func describedEntry(code string, descriptions map[string]string) *Entry {
	if desc, ok := descriptions[code]; ok {
		e := entry(code, desc)
		return &e
	}
	e := Entry{Code: code}
	return &e
}

func entryPtr(code, description string) *Entry {
	e := entry(code, description)
	return &e
}
