// Package types provides the small scalar value types shared by the
// canonical schema: a calendar Date and a strict Bool. Parsing from raw
// XML text belongs to package valueparse, not here — these types only
// hold validated values.
package types
