package domain

// PathStatus is the terminal state one category path reached.
type PathStatus string

const (
	PathStatusExhausted PathStatus = "exhausted" // normal end of pagination
	PathStatusStalled   PathStatus = "stalled"   // offset ceiling reached
	PathStatusFailed    PathStatus = "failed"    // no page ever succeeded
)

// PathReport records how one path's pagination ended.
type PathReport struct {
	Path         CategoryPath `json:"path"`
	Status       PathStatus   `json:"status"`
	PagesFetched int          `json:"pages_fetched"`
	Failures     int          `json:"failures"`
	Rows         int          `json:"rows"`
}

// HarvestResult is the deduplicated outcome of one run plus its metadata.
// A run always produces one, possibly empty; callers judge completeness from
// the counters, never from the absence of an error.
type HarvestResult struct {
	Variants []ProductVariant `json:"variants"`
	Reports  []PathReport     `json:"reports"`

	PathsDiscovered int `json:"paths_discovered"`
	PathsAttempted  int `json:"paths_attempted"`
	PathsStalled    int `json:"paths_stalled"`
	PathsFailed     int `json:"paths_failed"`
	PagesFetched    int `json:"pages_fetched"`
	RowsBeforeDedup int `json:"rows_before_dedup"`
	RowsAfterDedup  int `json:"rows_after_dedup"`
}
