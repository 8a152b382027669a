package server

// AnalyzeRequest is the payload for synchronous and asynchronous analyses.
// Checks optionally restricts the run to some categories; empty means all.
type AnalyzeRequest struct {
	URL    string   `json:"url" example:"https://example.com"`
	Checks []string `json:"checks,omitempty" example:"meta,links"`
}

// HealthResponse reports service liveness.
type HealthResponse struct {
	Status  string `json:"status" example:"healthy"`
	Version string `json:"version" example:"1.0.0"`
}

// ErrorResponse is a uniform error payload returned by the API.
type ErrorResponse struct {
	Error string `json:"error" example:"not found"`
}
