// CLAUDE:SUMMARY HTTP surface — debate lifecycle endpoints, persona catalog/staffing, persisted history reads
package api

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/quorumlabs/council/internal/council"
	"github.com/quorumlabs/council/internal/persona"
)

// maxBodySize is the maximum HTTP body size for debate creation.
const maxBodySize = 64 * 1024 // 64KB

// History is the persisted-session read surface; *db.DB satisfies it.
type History interface {
	GetSession(ctx context.Context, id string) (*council.SessionRecord, error)
	ListSessions(ctx context.Context, limit int) ([]*council.SessionRecord, error)
}

type API struct {
	manager *council.Manager
	history History
	logger  *slog.Logger
}

func New(manager *council.Manager, history History, logger *slog.Logger) *API {
	if logger == nil {
		logger = slog.Default()
	}
	return &API{manager: manager, history: history, logger: logger}
}

func (a *API) RegisterRoutes(mux *http.ServeMux) {
	// Debates
	mux.HandleFunc("POST /api/debates", a.handleStartDebate)
	mux.HandleFunc("GET /api/debates", a.handleListDebates)
	mux.HandleFunc("GET /api/debates/{id}", a.handleGetDebate)
	mux.HandleFunc("GET /api/debates/{id}/status", a.handleGetStatus)
	mux.HandleFunc("POST /api/debates/{id}/pause", a.handlePause)
	mux.HandleFunc("POST /api/debates/{id}/resume", a.handleResume)
	mux.HandleFunc("POST /api/debates/{id}/verdict", a.handleVerdict)

	// Personas
	mux.HandleFunc("GET /api/personas", a.handleGetPersonas)
	mux.HandleFunc("POST /api/personas/autostaff", a.handleAutoStaff)
	mux.HandleFunc("POST /api/personas/randomize", a.handleRandomize)

	// History
	mux.HandleFunc("GET /api/history", a.handleHistory)
	mux.HandleFunc("GET /api/history/{id}", a.handleHistoryGet)
}

func (a *API) handleStartDebate(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodySize)
	var req struct {
		Topic       string   `json:"topic"`
		UserContext string   `json:"user_context"`
		UserProfile string   `json:"user_profile"`
		Topics      []string `json:"topics"`    // staffing hints
		Visionary   string   `json:"visionary"` // explicit persona IDs
		Skeptic     string   `json:"skeptic"`
		Random      bool     `json:"random"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		if strings.Contains(err.Error(), "too large") {
			jsonError(w, "request body too large", http.StatusRequestEntityTooLarge)
			return
		}
		jsonError(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if req.Topic == "" {
		jsonError(w, "topic is required", http.StatusBadRequest)
		return
	}

	staff, err := resolveStaffing(req.Visionary, req.Skeptic, req.Topics, req.Random)
	if err != nil {
		jsonError(w, err.Error(), http.StatusBadRequest)
		return
	}

	sess, err := a.manager.StartDebate(r.Context(), req.Topic, req.UserContext, req.UserProfile, staff)
	if err != nil {
		var initErr *council.InitializationError
		if errors.As(err, &initErr) {
			a.logger.Error("seat initialization failed", "seat", initErr.SeatID, "error", err)
			jsonError(w, "debate could not be staffed: "+initErr.SeatID, http.StatusBadGateway)
			return
		}
		a.logger.Error("starting debate", "error", err)
		jsonError(w, "internal error", http.StatusInternalServerError)
		return
	}

	jsonResp(w, http.StatusCreated, map[string]any{
		"id":     sess.ID,
		"agents": sess.Engine.Configs(),
		"status": sess.Engine.Status(),
	})
}

// resolveStaffing applies the request's staffing mode: explicit persona
// IDs win, then random, then affinity scoring over the topic hints.
func resolveStaffing(visionaryID, skepticID string, topics []string, random bool) (persona.Staffing, error) {
	if visionaryID != "" || skepticID != "" {
		if visionaryID == "" || skepticID == "" {
			return persona.Staffing{}, errors.New("visionary and skeptic must both be set")
		}
		if visionaryID == skepticID {
			return persona.Staffing{}, errors.New("visionary and skeptic must differ")
		}
		v := persona.Get(visionaryID)
		s := persona.Get(skepticID)
		if v == nil || s == nil {
			return persona.Staffing{}, errors.New("unknown persona id")
		}
		if v.FunctionalRole == persona.RoleModerator || s.FunctionalRole == persona.RoleModerator {
			return persona.Staffing{}, errors.New("the moderator cannot take an adversarial seat")
		}
		return persona.Staffing{VisionarySeat: *v, SkepticSeat: *s}, nil
	}
	if random {
		return persona.Randomize(), nil
	}
	return persona.AutoStaff(topics), nil
}

func (a *API) handleListDebates(w http.ResponseWriter, r *http.Request) {
	type item struct {
		ID     string          `json:"id"`
		Topic  string          `json:"topic"`
		Status council.Status  `json:"status"`
	}
	sessions := a.manager.List()
	out := make([]item, 0, len(sessions))
	for _, s := range sessions {
		out = append(out, item{ID: s.ID, Topic: s.Engine.Topic(), Status: s.Engine.Status()})
	}
	jsonResp(w, http.StatusOK, map[string]any{"debates": out})
}

func (a *API) handleGetDebate(w http.ResponseWriter, r *http.Request) {
	sess := a.manager.Get(r.PathValue("id"))
	if sess == nil {
		jsonError(w, "debate not found", http.StatusNotFound)
		return
	}
	jsonResp(w, http.StatusOK, map[string]any{
		"id":       sess.ID,
		"topic":    sess.Engine.Topic(),
		"agents":   sess.Engine.Configs(),
		"messages": sess.Engine.Messages(),
		"status":   sess.Engine.Status(),
		"verdict":  sess.Engine.Verdict(),
	})
}

func (a *API) handleGetStatus(w http.ResponseWriter, r *http.Request) {
	sess := a.manager.Get(r.PathValue("id"))
	if sess == nil {
		jsonError(w, "debate not found", http.StatusNotFound)
		return
	}
	jsonResp(w, http.StatusOK, sess.Engine.Status())
}

func (a *API) handlePause(w http.ResponseWriter, r *http.Request) {
	if !a.manager.Pause(r.PathValue("id")) {
		jsonError(w, "debate not found", http.StatusNotFound)
		return
	}
	jsonResp(w, http.StatusOK, map[string]bool{"paused": true})
}

func (a *API) handleResume(w http.ResponseWriter, r *http.Request) {
	if !a.manager.Resume(r.PathValue("id")) {
		jsonError(w, "debate not found or not resumable", http.StatusConflict)
		return
	}
	jsonResp(w, http.StatusOK, map[string]bool{"resumed": true})
}

func (a *API) handleVerdict(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	verdict, err := a.manager.GenerateVerdict(r.Context(), id)
	switch {
	case errors.Is(err, council.ErrSessionNotFound):
		jsonError(w, "debate not found", http.StatusNotFound)
		return
	case errors.Is(err, council.ErrVerdictUnavailable):
		jsonError(w, "verdict generation failed, retry", http.StatusBadGateway)
		return
	case err != nil:
		a.logger.Error("generating verdict", "debate", id, "error", err)
		jsonError(w, "internal error", http.StatusInternalServerError)
		return
	}
	sess := a.manager.Get(id)
	jsonResp(w, http.StatusOK, map[string]any{
		"verdict":    verdict,
		"references": sess.Engine.Messages()[len(sess.Engine.Messages())-1].References,
	})
}

func (a *API) handleGetPersonas(w http.ResponseWriter, r *http.Request) {
	jsonResp(w, http.StatusOK, map[string]any{"personas": persona.List()})
}

func (a *API) handleAutoStaff(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Topics []string `json:"topics"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		jsonError(w, "invalid request body", http.StatusBadRequest)
		return
	}
	staff := persona.AutoStaff(req.Topics)
	jsonResp(w, http.StatusOK, map[string]any{
		"visionary": staff.VisionarySeat,
		"skeptic":   staff.SkepticSeat,
	})
}

func (a *API) handleRandomize(w http.ResponseWriter, r *http.Request) {
	staff := persona.Randomize()
	jsonResp(w, http.StatusOK, map[string]any{
		"visionary": staff.VisionarySeat,
		"skeptic":   staff.SkepticSeat,
	})
}

func (a *API) handleHistory(w http.ResponseWriter, r *http.Request) {
	if a.history == nil {
		jsonError(w, "persistence disabled", http.StatusNotImplemented)
		return
	}
	limit := 50
	if s := r.URL.Query().Get("limit"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n < 0 {
			jsonError(w, "invalid limit", http.StatusBadRequest)
			return
		}
		limit = n
	}
	recs, err := a.history.ListSessions(r.Context(), limit)
	if err != nil {
		a.logger.Error("listing history", "error", err)
		jsonError(w, "internal error", http.StatusInternalServerError)
		return
	}
	jsonResp(w, http.StatusOK, map[string]any{"debates": recs})
}

func (a *API) handleHistoryGet(w http.ResponseWriter, r *http.Request) {
	if a.history == nil {
		jsonError(w, "persistence disabled", http.StatusNotImplemented)
		return
	}
	rec, err := a.history.GetSession(r.Context(), r.PathValue("id"))
	if errors.Is(err, council.ErrSessionNotFound) {
		jsonError(w, "debate not found", http.StatusNotFound)
		return
	}
	if err != nil {
		a.logger.Error("loading history", "error", err)
		jsonError(w, "internal error", http.StatusInternalServerError)
		return
	}
	jsonResp(w, http.StatusOK, rec)
}

// --- Helpers ---

func jsonResp(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func jsonError(w http.ResponseWriter, msg string, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": msg})
}
