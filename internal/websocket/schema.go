package websocket

import (
	"github.com/classhub/examly-backend/internal/model"
)

// ─── Actions (Client → Server) ──────────────────────────────────────

type Action string

const (
	ActionAutosave Action = "autosave"
	ActionSubmit   Action = "submit"
	ActionState    Action = "state"
	ActionPing     Action = "ping"
)

// RequestPayload is the single client → server message shape. Autosave
// carries a question index and an answer value; submit, state, and ping
// carry only the action.
type RequestPayload struct {
	Action        Action       `json:"action"`
	QuestionIndex int          `json:"question_index,omitempty"`
	Value         model.Answer `json:"value,omitempty"`
}

// ─── Events (Server → Client) ───────────────────────────────────────

type Event string

const (
	EventError     Event = "error"
	EventSaved     Event = "saved"
	EventSubmitted Event = "submitted"
	EventState     Event = "state"
	EventPong      Event = "pong"
)

type SavedResponse struct {
	Event         Event `json:"event"`
	QuestionIndex int   `json:"question_index"`
}

type SubmittedResponse struct {
	Event       Event               `json:"event"`
	Status      model.AttemptStatus `json:"status"`
	ScoreTotal  int                 `json:"score_total"`
	FullyGraded bool                `json:"fully_graded"`
}

type StateResponse struct {
	Event Event               `json:"event"`
	State *model.AttemptState `json:"state"`
}

type ErrorResponse struct {
	Event Event  `json:"event"`
	Error string `json:"error"`
}

type PongResponse struct {
	Event Event `json:"event"`
}
