package types

// WallFrame is pushed to live landing pages when a public wall entry is posted.
type WallFrame struct {
	Time string `json:"time"`
	Text string `json:"text"`
}

// HealthResponse is returned by GET /healthz.
type HealthResponse struct {
	Mode   string `json:"mode"`
	Uptime string `json:"uptime"`
	Wall   int    `json:"wall"`
}
