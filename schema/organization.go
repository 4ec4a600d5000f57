package schema

// Organization is used polymorphically as a buyer or a contractor.
// Identity for deduplication is the structural tuple of OfficialName,
// Address, Town, PostalCode, CountryCode, and NUTSCode — the loader
// treats two nil fields in that tuple as equal to each other, not as
// distinct unknowns.
type Organization struct {
	OfficialName string // required, non-empty after trim
	Address      *string
	Town         *string
	PostalCode   *string
	CountryCode  *string
	NUTSCode     *string
	Identifiers  []Identifier
}

// Identifier is a single organization identifier, e.g. a national
// company register number or a VAT ID. Scheme is optional; Value is
// required.
type Identifier struct {
	Scheme *string
	Value  string
}
