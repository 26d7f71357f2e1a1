package api

// AnalyticsRequest is the validated body of POST /analytics.
type AnalyticsRequest struct {
	Regions     []string `json:"regions"`
	ThresholdMS int      `json:"threshold_ms"`
}

// FieldError is one entry of a 422 validation response. Loc is the path to
// the offending value, e.g. ["body","regions",2].
type FieldError struct {
	Loc  []interface{} `json:"loc"`
	Msg  string        `json:"msg"`
	Type string        `json:"type"`
}

// ValidationResponse is the payload for 422 Unprocessable Entity.
type ValidationResponse struct {
	Detail []FieldError `json:"detail"`
}

// HealthResponse is the payload for GET /healthz.
type HealthResponse struct {
	Status        string `json:"status"`
	Regions       int    `json:"regions"`
	DatasetSource string `json:"dataset_source"`
	LoadedAt      string `json:"loaded_at"` // RFC3339
}

// RegionResponse is one entry in GET /regions.
type RegionResponse struct {
	Region  string `json:"region"`
	Samples int    `json:"samples"`
}

type errorResponse struct {
	Error string `json:"error"`
}
