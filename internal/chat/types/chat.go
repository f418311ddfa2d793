package types

// ChatRequest is the inbound payload of POST /chat.
// Model, MaxTokens and Temperature are accepted and type-checked but not used yet.
type ChatRequest struct {
	Message     string   `json:"message"`
	Model       *string  `json:"model,omitempty"`
	MaxTokens   *int     `json:"max_tokens,omitempty"`
	Temperature *float64 `json:"temperature,omitempty"`
}

// ChatResponse is the body returned on success.
type ChatResponse struct {
	Message string `json:"message"`
}

// FieldError describes one schema violation of an inbound payload.
type FieldError struct {
	Loc  []string `json:"loc"`  // e.g. ["body", "message"]
	Msg  string   `json:"msg"`  // human readable
	Type string   `json:"type"` // machine readable, e.g. "missing", "string_type"
}

// Field returns the last element of Loc, which names the offending field.
func (e FieldError) Field() string {
	if len(e.Loc) == 0 {
		return ""
	}
	return e.Loc[len(e.Loc)-1]
}
