package codes

import "go.uber.org/zap"

// authorityTypeCodeMap covers the R2.0.7/R2.0.8 CODED_DATA_SECTION
// codes for buyer legal type. Code "4" ("Utilities entity") and "8"
// ("Other") have no eForms buyer-legal-type equivalent and normalize to
// none — "4" actually describes buyer-contracting-type, a different
// codelist this component does not model.
var authorityTypeCodeMap = map[string]string{
	"1": "cga",
	"3": "ra",
	"4": "",
	"5": "eu-ins-bod-ag",
	"6": "body-pl",
	"8": "",
	"9": "",
	"N": "cga",
	"R": "body-pl-ra",
	"Z": "",
}

// tedV2AuthorityToCanonical covers the R2.0.9 canonical CA_TYPE values.
var tedV2AuthorityToCanonical = map[string]string{
	"MINISTRY":          "cga",
	"NATIONAL_AGENCY":   "cga",
	"REGIONAL_AUTHORITY": "ra",
	"REGIONAL_AGENCY":    "body-pl-ra",
	"BODY_PUBLIC":        "body-pl",
	"EU_INSTITUTION":     "eu-ins-bod-ag",
	"OTHER":              "",
}

var authorityTypeDescriptions = map[string]string{
	"cga":            "Central government authority",
	"ra":             "Regional authority",
	"eu-ins-bod-ag":  "EU institution, body or agency",
	"body-pl":        "Body governed by public law",
	"body-pl-cga":    "Body governed by public law, controlled by a central government authority",
	"body-pl-la":     "Body governed by public law, controlled by a local authority",
	"body-pl-ra":     "Body governed by public law, controlled by a regional authority",
	"la":             "Local authority",
	"def-cont":       "Defence contractor",
	"int-org":        "International organisation",
	"pub-undert":     "Public undertaking",
}

// NormalizeAuthorityType converts a raw buyer legal type code to its
// canonical eForms entry. See the Open Questions in DESIGN.md for how
// legacy code "4" is currently handled: the buyer is saved without an
// authority type rather than the notice being dropped.
func NormalizeAuthorityType(log *zap.Logger, rawCode string) *Entry {
	if rawCode == "" {
		return nil
	}

	if canonical, ok := authorityTypeCodeMap[rawCode]; ok {
		if canonical == "" {
			return nil
		}
		return describedEntry(canonical, authorityTypeDescriptions)
	}

	if canonical, ok := tedV2AuthorityToCanonical[rawCode]; ok {
		if canonical == "" {
			return nil
		}
		return describedEntry(canonical, authorityTypeDescriptions)
	}

	if _, known := authorityTypeDescriptions[rawCode]; known {
		return describedEntry(rawCode, authorityTypeDescriptions)
	}

	if log != nil {
		log.Warn("unknown authority type code", zap.String("code", rawCode))
	}
	return nil
}
