package api

// LadderRequest is the JSON body for POST /api/v1/ladder.
type LadderRequest struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

// LadderResponse is the JSON response for a successful ladder query.
type LadderResponse struct {
	Ladder    []string `json:"ladder"`
	Steps     int      `json:"steps"`
	Skipped   int      `json:"skipped,omitempty"`
	ElapsedMs int64    `json:"elapsed_ms"`
}

// ErrorResponse is the JSON response for errors.
type ErrorResponse struct {
	Error string `json:"error"`
	Field string `json:"field,omitempty"`
	Page  string `json:"page,omitempty"`
	Steps int    `json:"steps,omitempty"`
}

// StatsResponse is the JSON response for GET /api/v1/stats.
type StatsResponse struct {
	Source         string `json:"source"` // "http" or "snapshot"
	SnapshotPages  uint32 `json:"snapshot_pages,omitempty"`
	SnapshotLinks  uint32 `json:"snapshot_links,omitempty"`
	CachedPages    int    `json:"cached_pages"`
	SearchesServed int64  `json:"searches_served"`
}

// HealthResponse is the JSON response for GET /api/v1/health.
type HealthResponse struct {
	Status string `json:"status"`
}
