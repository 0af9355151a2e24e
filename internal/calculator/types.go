package calculator

import (
	"learnmint-calculator/internal/expr"
	"learnmint-calculator/internal/history"
)

// EvaluateRequest is the JSON body for POST /calculator/evaluate.
type EvaluateRequest struct {
	Expression string `json:"expression"`
	Mode       string `json:"mode,omitempty"` // "deg" or "rad"; empty uses the server default
}

// EvaluateResponse reports a one-off evaluation. A failed evaluation is not
// an HTTP error: Result carries the localized error text and Error is set.
type EvaluateResponse struct {
	Expression string         `json:"expression"`
	Mode       expr.AngleMode `json:"mode"`
	Result     string         `json:"result"`
	Display    string         `json:"display"`
	Error      bool           `json:"error"`
	Reason     string         `json:"reason,omitempty"`
}

// CreateSessionRequest is the JSON body for POST /calculator/sessions.
// Both fields are optional; passing a previous ID resumes its history.
type CreateSessionRequest struct {
	ID   string `json:"id,omitempty"`
	Mode string `json:"mode,omitempty"`
}

// SessionResponse is a session's current calculator state.
type SessionResponse struct {
	ID string `json:"id"`
	Snapshot
}

// KeysRequest is the JSON body for POST /calculator/sessions/{id}/keys.
// Keys are display glyphs, internal values or aliases, pressed in order.
type KeysRequest struct {
	Keys []string `json:"keys"`
}

// ModeRequest is the JSON body for POST /calculator/sessions/{id}/mode.
type ModeRequest struct {
	Mode string `json:"mode"`
}

// HistoryResponse lists a session's ledger, most recent first.
type HistoryResponse struct {
	Entries []history.Entry `json:"entries"`
}

// KeypadResponse is the button layout for GET /calculator/keypad.
type KeypadResponse struct {
	Buttons []Button `json:"buttons"`
}
