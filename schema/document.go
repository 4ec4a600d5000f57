package schema

import (
	"time"

	"github.com/tedimport/awards/codes"
)

// Document identifies the source notice. DocID must be present and is
// globally unique — the loader's duplicate check keys on it alone.
type Document struct {
	DocID                 string
	Edition               *string
	Version               *string
	ReceptionID           *string
	OfficialJournalRef    *string
	PublicationDate       *time.Time
	DispatchDate          *time.Time
	SourceCountry         *string // country code as given in the notice, uppercased
	ContactPoint          *string
	Phone                 *string
	Email                 *string
	URLGeneral            *string
	BuyerURL              *string
	BuyerAuthorityType    *codes.Entry
	BuyerMainActivityCode *string
}
