package codes

import "go.uber.org/zap"

// contractNatureCodeMap covers the R2.0.7/R2.0.8 NC_CONTRACT_NATURE
// numeric codes. Verified empirically against F03_2014 dual-code files
// carrying both NC_CONTRACT_NATURE and TYPE_CONTRACT: "1" -> works,
// "2" -> supplies, "4" -> services.
var contractNatureCodeMap = map[string]string{
	"1": "works",
	"2": "supplies",
	"4": "services",
}

// tedV2ContractNatureToCanonical covers the R2.0.9 uppercase TYPE_CONTRACT values.
var tedV2ContractNatureToCanonical = map[string]string{
	"WORKS":    "works",
	"SUPPLIES": "supplies",
	"SERVICES": "services",
}

var contractNatureCodes = map[string]bool{
	"works": true, "supplies": true, "services": true, "combined": true,
}

// NormalizeContractNature converts a raw contract nature code — from
// any dialect — to its canonical eForms code. Unknown codes are logged
// and return "".
func NormalizeContractNature(log *zap.Logger, rawCode string) string {
	if rawCode == "" {
		return ""
	}

	if canonical, ok := contractNatureCodeMap[rawCode]; ok {
		return canonical
	}

	if canonical, ok := tedV2ContractNatureToCanonical[rawCode]; ok {
		return canonical
	}

	if contractNatureCodes[rawCode] {
		return rawCode
	}

	if log != nil {
		log.Warn("unknown contract nature code", zap.String("code", rawCode))
	}
	return ""
}
