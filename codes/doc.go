// Package codes folds several generations of TED controlled-vocabulary
// codes — procedure type, buyer legal type, contract nature — into the
// canonical eForms codelists. Every mapping table here is a closed set
// taken from the OP-TED/ted-xml-data-converter reference mappings; an
// unrecognized code is never an error, only a logged warning and a
// missing value.
package codes
