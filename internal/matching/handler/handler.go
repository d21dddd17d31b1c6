package handler

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	ledger "organmatch/internal/ledger/models"
	"organmatch/internal/matching/models"
	id "organmatch/pkg/domain"
	dErrors "organmatch/pkg/domain-errors"
	"organmatch/pkg/platform/httputil"
	"organmatch/pkg/requestcontext"
)

// Service defines the matching engine operations exposed over HTTP.
type Service interface {
	AttemptMatch(ctx context.Context, tenantID id.TenantID) (*models.MatchOutcome, error)
	GetMatch(ctx context.Context, tenantID id.TenantID, matchID id.MatchID) (*models.Match, error)
	ListMatches(ctx context.Context, tenantID id.TenantID, state models.MatchState) ([]*models.Match, error)
	Commit(ctx context.Context, tenantID id.TenantID, matchID id.MatchID, notes string) (*ledger.Record, error)
	ReleaseMatch(ctx context.Context, tenantID id.TenantID, matchID id.MatchID) (*models.Match, error)
}

// Handler wires matching endpoints to the engine.
type Handler struct {
	service Service
	logger  *slog.Logger
}

// New constructs a matching handler with its dependencies.
func New(service Service, logger *slog.Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Register mounts matching endpoints on the router.
func (h *Handler) Register(r chi.Router) {
	r.Post("/matches", h.HandleAttempt)
	r.Get("/matches", h.HandleList)
	r.Get("/matches/{id}", h.HandleGet)
	r.Post("/matches/{id}/commit", h.HandleCommit)
	r.Post("/matches/{id}/release", h.HandleRelease)
}

// HandleAttempt handles POST /matches. A reservation answers 201; the two
// "nothing to do" outcomes answer 200 with the outcome kind.
func (h *Handler) HandleAttempt(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	start := time.Now()
	tenantID, ok := h.tenant(w, r)
	if !ok {
		return
	}

	outcome, err := h.service.AttemptMatch(ctx, tenantID)
	if err != nil {
		h.logFailure(ctx, "match attempt failed", err)
		httputil.WriteError(w, err)
		return
	}

	h.logger.InfoContext(ctx, "match attempt handled",
		"request_id", requestcontext.RequestID(ctx),
		"tenant_id", tenantID,
		"outcome", outcome.Kind,
		"duration_ms", time.Since(start).Milliseconds(),
	)
	status := http.StatusOK
	if outcome.Matched() {
		status = http.StatusCreated
	}
	httputil.WriteJSON(w, status, outcome)
}

// HandleList handles GET /matches?state=reserved|committed|released.
func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	tenantID, ok := h.tenant(w, r)
	if !ok {
		return
	}
	var state models.MatchState
	if raw := r.URL.Query().Get("state"); raw != "" {
		parsed, err := models.ParseMatchState(raw)
		if err != nil {
			httputil.WriteError(w, err)
			return
		}
		state = parsed
	}
	ms, err := h.service.ListMatches(r.Context(), tenantID, state)
	if err != nil {
		h.logFailure(r.Context(), "list matches failed", err)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]any{"matches": ms})
}

func (h *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	tenantID, matchID, ok := h.matchParams(w, r)
	if !ok {
		return
	}
	m, err := h.service.GetMatch(r.Context(), tenantID, matchID)
	if err != nil {
		h.logFailure(r.Context(), "get match failed", err)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, m)
}

// CommitRequest is the optional body of POST /matches/{id}/commit.
type CommitRequest struct {
	Notes string `json:"notes"`
}

// HandleCommit handles POST /matches/{id}/commit and returns the ledger record.
func (h *Handler) HandleCommit(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	tenantID, matchID, ok := h.matchParams(w, r)
	if !ok {
		return
	}
	req, err := httputil.DecodeJSON[CommitRequest](r)
	if err != nil {
		h.logger.WarnContext(ctx, "invalid commit request",
			"request_id", requestcontext.RequestID(ctx),
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}

	rec, err := h.service.Commit(ctx, tenantID, matchID, req.Notes)
	if err != nil {
		h.logFailure(ctx, "commit failed", err)
		httputil.WriteError(w, err)
		return
	}
	h.logger.InfoContext(ctx, "match committed",
		"request_id", requestcontext.RequestID(ctx),
		"tenant_id", tenantID,
		"match_id", matchID,
		"record_id", rec.ID,
		"subject", requestcontext.Subject(ctx),
	)
	httputil.WriteJSON(w, http.StatusOK, rec)
}

func (h *Handler) HandleRelease(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	tenantID, matchID, ok := h.matchParams(w, r)
	if !ok {
		return
	}
	m, err := h.service.ReleaseMatch(ctx, tenantID, matchID)
	if err != nil {
		h.logFailure(ctx, "release failed", err)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, m)
}

func (h *Handler) tenant(w http.ResponseWriter, r *http.Request) (id.TenantID, bool) {
	tenantID := requestcontext.TenantID(r.Context())
	if tenantID.IsNil() {
		httputil.WriteError(w, dErrors.New(dErrors.CodeUnauthorized, "authentication required"))
		return "", false
	}
	return tenantID, true
}

func (h *Handler) matchParams(w http.ResponseWriter, r *http.Request) (id.TenantID, id.MatchID, bool) {
	tenantID, ok := h.tenant(w, r)
	if !ok {
		return "", "", false
	}
	matchID, err := id.ParseMatchID(chi.URLParam(r, "id"))
	if err != nil {
		httputil.WriteError(w, err)
		return "", "", false
	}
	return tenantID, matchID, true
}

// logFailure logs infrastructure failures at error level; domain refusals
// are expected traffic and only get a debug line.
func (h *Handler) logFailure(ctx context.Context, msg string, err error) {
	code := dErrors.CodeOf(err)
	if code == dErrors.CodeInternal || code == dErrors.CodeTimeout {
		h.logger.ErrorContext(ctx, msg, "request_id", requestcontext.RequestID(ctx), "error", err)
		return
	}
	h.logger.DebugContext(ctx, msg, "request_id", requestcontext.RequestID(ctx), "code", code)
}
