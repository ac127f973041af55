package httpadapter

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/kwhsu/riskprofiler/internal/app/survey"
	"github.com/kwhsu/riskprofiler/internal/domain"
)

type Server struct {
	engine *survey.Engine

	modelName string
}

// NewServer wires the transport surface. Every endpoint maps 1:1 to an
// engine operation; responses are read-only projections of session state.
func NewServer(engine *survey.Engine, modelName string) http.Handler {
	s := &Server{engine: engine, modelName: modelName}
	mux := http.NewServeMux()

	mux.HandleFunc("/", s.handleRoot)
	mux.HandleFunc("/healthz", s.handleHealthz)
	mux.HandleFunc("/models", s.handleModels)

	mux.HandleFunc("/survey/start", s.handleStart)
	mux.HandleFunc("/survey/answer", s.handleAnswer)
	mux.HandleFunc("/survey/stream-question", s.handleStreamQuestion)
	mux.HandleFunc("/survey/save-question", s.handleSaveQuestion)

	// /survey/sessions/{id} → GET: progress, DELETE: teardown
	mux.HandleFunc("/survey/sessions/", s.handleSessionWithID)

	return chainMiddlewares(mux, withRequestID, withLogging, withCORS)
}

// ─────────────────────────────────────────────
// DTOs (request/response)
// ─────────────────────────────────────────────

type startResponse struct {
	SessionID      string `json:"session_id"`
	Question       string `json:"question"`
	QuestionNumber int    `json:"question_number"`
	TotalQuestions int    `json:"total_questions"`
}

type answerRequest struct {
	SessionID string `json:"session_id"`
	Answer    string `json:"answer"`
}

type answerResponse struct {
	Finished bool `json:"finished"`

	Question       string `json:"question,omitempty"`
	QuestionNumber int    `json:"question_number,omitempty"`
	TotalQuestions int    `json:"total_questions"`

	Advice   string               `json:"advice,omitempty"`
	Profile  *domain.TraitProfile `json:"profile,omitempty"`
	Category string               `json:"category,omitempty"`
}

type streamQuestionRequest struct {
	SessionID string `json:"session_id"`
}

type saveQuestionRequest struct {
	SessionID string `json:"session_id"`
	Question  string `json:"question"`
}

type saveQuestionResponse struct {
	Question string `json:"question"`
}

type progressResponse struct {
	Current  int                  `json:"current"`
	Total    int                  `json:"total"`
	Finished bool                 `json:"finished"`
	Profile  *domain.TraitProfile `json:"profile,omitempty"`
	Category string               `json:"category,omitempty"`
}

// ─────────────────────────────────────────────
// Concrete handlers
// ─────────────────────────────────────────────

func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"service": "riskprofiler-api",
		"endpoints": []string{
			"/survey/start",
			"/survey/answer",
			"/survey/stream-question",
			"/survey/save-question",
		},
	})
}

func (s *Server) handleHealthz(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
}

func (s *Server) handleModels(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"model_name":      s.modelName,
		"generator_ready": s.engine.GeneratorAvailable(),
		"total_questions": s.engine.TotalQuestions(),
	})
}

func (s *Server) handleStart(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w)
		return
	}

	out, err := s.engine.Start(r.Context())
	if err != nil {
		writeEngineError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, startResponse{
		SessionID:      string(out.SessionID),
		Question:       out.Question,
		QuestionNumber: out.Number,
		TotalQuestions: out.Total,
	})
}

func (s *Server) handleAnswer(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w)
		return
	}

	var req answerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		badRequest(w, "invalid JSON body")
		return
	}
	if req.SessionID == "" {
		badRequest(w, "session_id is required")
		return
	}
	if strings.TrimSpace(req.Answer) == "" {
		badRequest(w, "answer is required")
		return
	}

	out, err := s.engine.SubmitAnswer(r.Context(), domain.SessionID(req.SessionID), req.Answer)
	if err != nil {
		writeEngineError(w, err)
		return
	}

	resp := answerResponse{
		Finished:       out.Finished,
		TotalQuestions: out.Total,
	}
	if out.Finished {
		resp.Advice = out.Advice
		resp.Profile = &out.Profile
		resp.Category = string(out.Category)
	} else {
		resp.Question = out.Question
		resp.QuestionNumber = out.Number
	}

	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleSaveQuestion(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w)
		return
	}

	var req saveQuestionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		badRequest(w, "invalid JSON body")
		return
	}
	if req.SessionID == "" || strings.TrimSpace(req.Question) == "" {
		badRequest(w, "session_id and question are required")
		return
	}

	stored, err := s.engine.SaveQuestion(r.Context(), domain.SessionID(req.SessionID), req.Question)
	if err != nil {
		writeEngineError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, saveQuestionResponse{Question: stored})
}

func (s *Server) handleSessionWithID(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimPrefix(r.URL.Path, "/survey/sessions/")
	if id == "" || strings.Contains(id, "/") {
		http.NotFound(w, r)
		return
	}

	switch r.Method {
	case http.MethodGet:
		s.handleProgress(w, domain.SessionID(id))
	case http.MethodDelete:
		s.handleDelete(w, domain.SessionID(id))
	default:
		methodNotAllowed(w)
	}
}

func (s *Server) handleProgress(w http.ResponseWriter, id domain.SessionID) {
	out, err := s.engine.Progress(id)
	if err != nil {
		writeEngineError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, progressResponse{
		Current:  out.Current,
		Total:    out.Total,
		Finished: out.Finished,
		Profile:  out.Profile,
		Category: string(out.Category),
	})
}

func (s *Server) handleDelete(w http.ResponseWriter, id domain.SessionID) {
	if !s.engine.Delete(id) {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "session not found"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"deleted": true})
}

// ─────────────────────────────────────────────
// HTTP helpers
// ─────────────────────────────────────────────

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeEngineError maps the domain error taxonomy onto status codes:
// unknown session → 404, state-machine precondition violations → 409,
// anything else → 500.
func writeEngineError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrSessionNotFound):
		writeJSON(w, http.StatusNotFound, map[string]string{"error": err.Error()})
	case domain.IsRejected(err):
		writeJSON(w, http.StatusConflict, map[string]string{"error": err.Error()})
	default:
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
	}
}

func badRequest(w http.ResponseWriter, msg string) {
	writeJSON(w, http.StatusBadRequest, map[string]string{"error": msg})
}

func methodNotAllowed(w http.ResponseWriter) {
	writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
}
