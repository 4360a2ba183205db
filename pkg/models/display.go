package models

// DisplayStat provides formatted stat display info.
// Clients render cards from these without knowing stat semantics.
type DisplayStat struct {
	Label    string `json:"label"`    // "PPG", "FG%", "Championships"
	Value    string `json:"value"`    // "27.1", "50.4%", "4"
	Category string `json:"category"` // "Per Game", "Shooting", "Career"
}

// ErrorResponse represents an API error response
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
	Code    int    `json:"code"`
	Reason  string `json:"reason,omitempty"`
}
