// pkg/api/summary_v1.go
package api

// SummaryV1 is the stable JSON schema of the end-of-run report.
// Keep fields, names, and types stable. Add new fields only with ",omitempty".
type SummaryV1 struct {
	HashType  string `json:"hash_type"`
	Needles   int    `json:"needles"`
	Matched   int    `json:"matched"`
	Unmatched int    `json:"unmatched"`

	// Needle file
	NeedleLines      int `json:"needle_lines"`
	InvalidNeedles   int `json:"invalid_needles"`
	DuplicateNeedles int `json:"duplicate_needles"`

	// Haystack pass
	HaystackRead    int  `json:"haystack_read"`
	HaystackInvalid int  `json:"haystack_invalid"`
	Batches         int  `json:"batches"`
	ShortCircuit    bool `json:"short_circuit"`
	Saturated       bool `json:"saturated"`

	MatchFile   string `json:"match_file,omitempty"`
	NoMatchFile string `json:"nomatch_file,omitempty"`
}
