package httpadapter

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/kwhsu/riskprofiler/internal/app/survey"
	"github.com/kwhsu/riskprofiler/internal/domain"
)

// handleStreamQuestion delivers the session's current question as
// server-sent events: one data frame per text fragment, then a final frame
// with done=true carrying the complete question. Session state only
// advances once the engine has stored the finalized text, so an aborted
// stream leaves the session untouched.
func (s *Server) handleStreamQuestion(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w)
		return
	}

	var req streamQuestionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		badRequest(w, "invalid JSON body")
		return
	}
	if req.SessionID == "" {
		badRequest(w, "session_id is required")
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "streaming unsupported"})
		return
	}

	// Headers cannot change once the first frame is flushed; engine errors
	// before that point still map onto plain status codes.
	headersSent := false
	emit := func(c survey.Chunk) error {
		if !headersSent {
			w.Header().Set("Content-Type", "text/event-stream; charset=utf-8")
			w.Header().Set("Cache-Control", "no-cache")
			w.Header().Set("Connection", "keep-alive")
			w.WriteHeader(http.StatusOK)
			headersSent = true
		}

		frame, err := json.Marshal(c)
		if err != nil {
			return err
		}
		if _, err := fmt.Fprintf(w, "data: %s\n\n", frame); err != nil {
			return err
		}
		flusher.Flush()
		return nil
	}

	err := s.engine.StreamQuestion(r.Context(), domain.SessionID(req.SessionID), emit)
	if err != nil && !headersSent {
		writeEngineError(w, err)
	}
}
