package runlog

import "time"

// Run is one recorded generate invocation.
type Run struct {
	ID            string    `json:"id"`
	CreatedAt     time.Time `json:"created_at"`
	Policy        string    `json:"policy"`
	CataloguePath string    `json:"catalogue_path"`
	OutputPath    string    `json:"output_path"`

	Entries       int `json:"entries"`
	Candidates    int `json:"candidates"`
	Pairs         int `json:"pairs"`
	Duplicates    int `json:"duplicates"`
	SkippedGroups int `json:"skipped_groups"`
	Collisions    int `json:"collisions"`

	Seed       int64  `json:"seed"`
	SampleSize int    `json:"k"`
	PathPrefix string `json:"path_prefix"`
	IDWidth    int    `json:"id_width"`
	Collision  string `json:"collision"`
	// Pivots is the variant to baseline agent override map in effect.
	Pivots map[string]string `json:"pivots,omitempty"`

	OutputSHA256 string `json:"output_sha256"`
}

// ShortID returns the first eight characters of the run identifier.
func (r Run) ShortID() string {
	if len(r.ID) <= 8 {
		return r.ID
	}
	return r.ID[:8]
}
