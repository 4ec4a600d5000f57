package schema

import (
	"github.com/shopspring/decimal"
	"github.com/tedimport/awards/codes"
)

// CPVCode is a single Common Procurement Vocabulary code attached to a
// contract, with an optional free-text description. Duplicate codes
// within one contract are deduplicated by Code before persistence.
type CPVCode struct {
	Code        string
	Description *string
}

// Contract is one per notice.
type Contract struct {
	Title                  string // required
	ShortDescription       *string
	MainCPVCode            *string
	CPVCodes               []CPVCode
	NUTSCode               *string
	ContractNatureCode     string // canonical, "" if unmappable
	ProcedureType          *codes.Entry
	Accelerated            bool
	FrameworkAgreement     bool
	EUFunded               bool
	EstimatedValue         *decimal.Decimal
	EstimatedValueCurrency *string
}
