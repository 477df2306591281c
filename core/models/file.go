package models

// FileRecord is one candidate file produced by the tree walk.
type FileRecord struct {
	Path string
	Ext  string
}

// FileResult is the outcome of rewriting a single file. Applied lists the
// aliases in the order they were substituted; an alias used twice appears
// twice.
type FileResult struct {
	Path    string
	Changed bool
	Applied []string
}

// RunSummary aggregates one batch run over a tree.
type RunSummary struct {
	Scanned int
	Changed int
	Skipped int
	Failed  int
	Results []FileResult
}

// Add records a successfully scanned file.
func (rs *RunSummary) Add(result FileResult) {
	rs.Scanned++
	if result.Changed {
		rs.Changed++
	}
	rs.Results = append(rs.Results, result)
}
