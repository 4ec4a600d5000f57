package schema

import (
	"time"

	"github.com/shopspring/decimal"
)

// Award is at least one per notice. No-award placeholder lots are
// dropped before reaching this type — a dialect parser that sees one
// simply does not emit an Award for it.
type Award struct {
	AwardTitle            *string
	ContractNumber        *string
	AwardedValue          *decimal.Decimal
	AwardedValueCurrency  *string
	TendersReceived       *int
	AwardDate             *time.Time
	LotNumber             *string
	ContractStartDate     *time.Time
	ContractEndDate       *time.Time
	Contractors           []Organization
}
