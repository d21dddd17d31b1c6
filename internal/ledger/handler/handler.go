package handler

import (
	"context"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"organmatch/internal/ledger/models"
	matching "organmatch/internal/matching/models"
	id "organmatch/pkg/domain"
	dErrors "organmatch/pkg/domain-errors"
	"organmatch/pkg/platform/httputil"
	"organmatch/pkg/requestcontext"
)

// Service defines the ledger read operations exposed over HTTP.
type Service interface {
	Query(ctx context.Context, tenantID id.TenantID, f models.Filter) ([]*models.Record, error)
}

// Handler serves the transplant ledger.
type Handler struct {
	service Service
	logger  *slog.Logger
}

func New(service Service, logger *slog.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

// Register mounts ledger endpoints on the router.
func (h *Handler) Register(r chi.Router) {
	r.Get("/transplants", h.HandleQuery)
}

// HandleQuery handles
// GET /transplants?donor=&recipient=&organ=&date=YYYY-MM-DD&year=&month=&q=&limit=.
// Records come back newest commit first.
func (h *Handler) HandleQuery(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	tenantID := requestcontext.TenantID(ctx)
	if tenantID.IsNil() {
		httputil.WriteError(w, dErrors.New(dErrors.CodeUnauthorized, "authentication required"))
		return
	}

	filter, err := ParseFilter(r.URL.Query())
	if err != nil {
		h.logger.WarnContext(ctx, "invalid transplant query",
			"request_id", requestcontext.RequestID(ctx),
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}

	recs, err := h.service.Query(ctx, tenantID, filter)
	if err != nil {
		if dErrors.HasCode(err, dErrors.CodeInternal) {
			h.logger.ErrorContext(ctx, "transplant query failed",
				"request_id", requestcontext.RequestID(ctx),
				"tenant_id", tenantID,
				"error", err,
			)
		}
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]any{
		"transplants": recs,
		"count":       len(recs),
	})
}

// ParseFilter reads ledger criteria from query parameters. Range and limit
// checks happen in Filter.Normalize.
func ParseFilter(q url.Values) (models.Filter, error) {
	f := models.Filter{
		Donor:     q.Get("donor"),
		Recipient: q.Get("recipient"),
		Search:    q.Get("q"),
	}
	if raw := q.Get("organ"); raw != "" {
		organ, err := matching.ParseOrgan(raw)
		if err != nil {
			return models.Filter{}, err
		}
		f.Organ = organ
	}
	if raw := q.Get("date"); raw != "" {
		d, err := time.Parse(time.DateOnly, raw)
		if err != nil {
			return models.Filter{}, dErrors.New(dErrors.CodeValidation, "date must be YYYY-MM-DD")
		}
		f.Date = &d
	}
	var err error
	if f.Year, err = intParam(q, "year"); err != nil {
		return models.Filter{}, err
	}
	if f.Month, err = intParam(q, "month"); err != nil {
		return models.Filter{}, err
	}
	if f.Limit, err = intParam(q, "limit"); err != nil {
		return models.Filter{}, err
	}
	if f.Offset, err = intParam(q, "offset"); err != nil {
		return models.Filter{}, err
	}
	return f, nil
}

func intParam(q url.Values, name string) (int, error) {
	raw := q.Get(name)
	if raw == "" {
		return 0, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, dErrors.New(dErrors.CodeValidation, name+" must be a number")
	}
	return v, nil
}
