package models

// Result summarizes one reconciliation call. Diff maps field names to the
// values that were (or would be) applied. A non-nil Err means the call
// failed before converging; Changed is always false in that case.
type Result struct {
	Name    string         `json:"name"`
	Changed bool           `json:"changed"`
	Comment string         `json:"comment"`
	Diff    map[string]any `json:"diff,omitempty"`
	Err     error          `json:"-"`
}

// OK reports whether the reconciliation completed without a failure.
func (r Result) OK() bool {
	return r.Err == nil
}
