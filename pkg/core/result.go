// Package core provides the result and error model for the
// screenshot extraction pipeline.
package core

// ExtractResult captures the outcome of one device extraction.
type ExtractResult struct {
	// Listed is the number of screenshot files the remote listing
	// reported before any pull was attempted.
	Listed int `json:"listed"`

	// Files are the local paths staged successfully, discovered by
	// re-scanning the staging directory after the pull.
	Files []string `json:"files"`

	// UsedFallback is true when the bulk pull failed and files were
	// retrieved one at a time instead.
	UsedFallback bool `json:"usedFallback"`

	// Errors holds one human-readable entry per file that could not
	// be retrieved. Partial failures do not abort the batch.
	Errors []string `json:"errors,omitempty"`
}

// Empty reports whether the remote side had nothing to extract.
// An empty remote directory is a normal outcome, not an error.
func (r ExtractResult) Empty() bool {
	return r.Listed == 0
}

// OrganizeResult is the aggregate outcome of one organizer run.
// Runs and Tests count distinct directories created, not files
// processed, so many steps of one test still count that test once.
type OrganizeResult struct {
	Runs        int      `json:"runs"`
	Tests       int      `json:"tests"`
	Screenshots int      `json:"screenshots"`
	Errors      []string `json:"errors,omitempty"`
}

// Summary merges the per-stage results for one pipeline invocation.
type Summary struct {
	Extracted int             `json:"extracted"`
	Organize  *OrganizeResult `json:"organize,omitempty"`
	Cleaned   bool            `json:"cleaned"`
	Errors    []string        `json:"errors,omitempty"`
}

// TotalErrors counts every recorded per-file failure across stages.
func (s Summary) TotalErrors() int {
	n := len(s.Errors)
	if s.Organize != nil {
		n += len(s.Organize.Errors)
	}
	return n
}
