package models

// RunResult is the aggregate of one invocation. Entries keep resolution order and
// TotalBytes always equals the sum of Entries[i].Bytes.
type RunResult struct {
	Entries    []Entry `json:"entries"`
	TotalBytes int64   `json:"total_bytes"`
}

// NewRunResult returns an empty result whose Entries is non-nil, so it encodes as [].
func NewRunResult() *RunResult {
	return &RunResult{Entries: []Entry{}}
}

// Append adds e at the end and updates the running total.
func (r *RunResult) Append(e Entry) {
	r.Entries = append(r.Entries, e)
	r.TotalBytes += e.Bytes
}

// Found returns the number of entries.
func (r *RunResult) Found() int {
	return len(r.Entries)
}
