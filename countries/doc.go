// Package countries contains no code: it has no ISO 3166-1 code-to-name
// table, no historical overlay and no Normalize function. The dialect
// parsers pass country codes through uppercased, and nothing in this
// module remaps UK to GB or 1A to absent.
package countries
