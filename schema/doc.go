// Package schema holds the canonical in-memory record types that every
// dialect parser produces and the loader consumes: Notice, Document,
// Organization, Contract, Award, and the codelist value types they
// reference. Nothing here reads or writes XML or SQL — it is the
// parser output contract described in spec §3.
package schema
