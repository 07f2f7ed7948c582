package jobs

// Raw is one job manifest as parsed from disk: untyped string values
// for every recognized key, plus provenance. The sanitizer turns a Raw
// into a Record.
type Raw struct {
	Fields    map[string]string
	Path      string
	Signature string
}

// Get returns the raw value for a field, or "" when absent.
func (r *Raw) Get(field string) string {
	if r.Fields == nil {
		return ""
	}
	return r.Fields[field]
}
