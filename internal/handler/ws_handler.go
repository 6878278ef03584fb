package handler

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"github.com/classhub/examly-backend/internal/middleware"
	"github.com/classhub/examly-backend/internal/model"
	"github.com/classhub/examly-backend/internal/response"
	"github.com/classhub/examly-backend/internal/service"
	ws "github.com/classhub/examly-backend/internal/websocket"
)

// buildUpgrader creates a WebSocket upgrader with origin validation.
// allowedOrigins comes from config.Config.AllowedOrigins.
// An empty slice permits all origins (development mode).
func buildUpgrader(allowedOrigins []string) websocket.Upgrader {
	return websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin: func(r *http.Request) bool {
			if len(allowedOrigins) == 0 {
				return true
			}
			origin := r.Header.Get("Origin")
			for _, allowed := range allowedOrigins {
				if strings.EqualFold(allowed, origin) {
					return true
				}
			}
			return false
		},
	}
}

// WSHandler handles the WebSocket attempt stream: autosave writes, submit,
// and state reads over one connection.
type WSHandler struct {
	attemptService *service.AttemptService
	log            zerolog.Logger
	upgrader       websocket.Upgrader
}

// NewWSHandler creates a new WSHandler.
func NewWSHandler(attemptService *service.AttemptService, log zerolog.Logger, allowedOrigins []string) *WSHandler {
	return &WSHandler{
		attemptService: attemptService,
		log:            log.With().Str("component", "ws_handler").Logger(),
		upgrader:       buildUpgrader(allowedOrigins),
	}
}

// AttemptStream godoc
// WS /ws/v1/student/attempts/:attempt_id/stream
// Upgrades to WebSocket for real-time answer autosave on a running attempt.
func (h *WSHandler) AttemptStream(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	attemptID, err := uuid.Parse(c.Param("attempt_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid attempt ID"})
		return
	}

	studentID := claims.UserID

	// Reject the upgrade outright when the attempt is not this student's
	// running session.
	state, err := h.attemptService.State(c.Request.Context(), attemptID, studentID)
	if err != nil || state.Status != model.AttemptInProgress {
		c.JSON(http.StatusConflict, gin.H{"error": string(response.ErrSessionClosed)})
		return
	}

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.log.Error().Err(err).Msg("WebSocket upgrade failed")
		return
	}
	defer conn.Close()

	wsLog := h.log.With().
		Int("student_id", studentID).
		Str("attempt_id", attemptID.String()).
		Logger()

	wsLog.Info().Msg("Student connected")

	for {
		var msg ws.RequestPayload
		if err := ws.ReadJSON(conn, &msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				wsLog.Warn().Err(err).Msg("Unexpected close")
			} else {
				wsLog.Debug().Msg("Connection closed")
			}
			break
		}

		switch msg.Action {
		case ws.ActionAutosave:
			h.handleAutosave(conn, attemptID, studentID, &msg)
		case ws.ActionSubmit:
			h.handleSubmit(conn, wsLog, attemptID, studentID)
			return
		case ws.ActionState:
			h.handleState(conn, attemptID, studentID)
		case ws.ActionPing:
			ws.WriteTyped(conn, ws.PongResponse{Event: ws.EventPong})
		default:
			wsLog.Warn().Str("action", string(msg.Action)).Msg("Unknown action")
			ws.WriteError(conn, "unknown action: "+string(msg.Action))
		}
	}
}

// handleAutosave buffers a single answer.
func (h *WSHandler) handleAutosave(conn *websocket.Conn, attemptID uuid.UUID, studentID int, msg *ws.RequestPayload) {
	req := &model.RecordAnswerRequest{
		QuestionIndex: msg.QuestionIndex,
		Value:         msg.Value,
	}

	if err := h.attemptService.RecordAnswer(context.Background(), attemptID, studentID, req); err != nil {
		ws.WriteError(conn, attemptErrorMessage(err))
		return
	}

	ws.WriteTyped(conn, ws.SavedResponse{
		Event:         ws.EventSaved,
		QuestionIndex: msg.QuestionIndex,
	})
}

// handleSubmit finalizes and grades the attempt, then reports the outcome.
func (h *WSHandler) handleSubmit(conn *websocket.Conn, wsLog zerolog.Logger, attemptID uuid.UUID, studentID int) {
	attempt, err := h.attemptService.Submit(context.Background(), attemptID, studentID)
	if err != nil {
		wsLog.Error().Err(err).Msg("Submit error")
		ws.WriteError(conn, attemptErrorMessage(err))
		return
	}

	wsLog.Info().
		Str("status", string(attempt.Status)).
		Int("score", attempt.Result.ScoreTotal).
		Msg("Attempt submitted over stream")

	ws.WriteTyped(conn, ws.SubmittedResponse{
		Event:       ws.EventSubmitted,
		Status:      attempt.Status,
		ScoreTotal:  attempt.Result.ScoreTotal,
		FullyGraded: attempt.Result.FullyGraded,
	})
}

// handleState sends the current session state.
func (h *WSHandler) handleState(conn *websocket.Conn, attemptID uuid.UUID, studentID int) {
	state, err := h.attemptService.State(context.Background(), attemptID, studentID)
	if err != nil {
		ws.WriteError(conn, attemptErrorMessage(err))
		return
	}

	ws.WriteTyped(conn, ws.StateResponse{Event: ws.EventState, State: state})
}

// attemptErrorMessage maps service errors to the short messages sent over
// the socket.
func attemptErrorMessage(err error) string {
	switch {
	case errors.Is(err, service.ErrSessionClosed):
		return "attempt is no longer in progress"
	case errors.Is(err, service.ErrDeadlineExceeded):
		return "attempt deadline has passed"
	case errors.Is(err, service.ErrAnswerKind):
		return "answer shape does not match the question kind"
	case errors.Is(err, model.ErrQuestionIndex):
		return "question index out of range"
	case errors.Is(err, service.ErrNotAttemptOwner), errors.Is(err, service.ErrAttemptNotFound):
		return "attempt not found"
	default:
		return "request failed"
	}
}
