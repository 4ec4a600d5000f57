package schema

// Notice is the top-level parser output: one per award notice. A
// dialect parser either produces a fully-populated Notice or returns
// none — there is no partial notice.
type Notice struct {
	Document Document
	Buyer    Organization
	Contract Contract
	Awards   []Award // non-empty
}
