package handler

import (
	"context"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"

	"github.com/go-chi/chi/v5"

	matching "organmatch/internal/matching/models"
	"organmatch/internal/registry/models"
	"organmatch/internal/registry/service"
	id "organmatch/pkg/domain"
	dErrors "organmatch/pkg/domain-errors"
	"organmatch/pkg/platform/httputil"
	"organmatch/pkg/requestcontext"
)

// Service defines the registry operations exposed over HTTP.
type Service interface {
	RegisterDonor(ctx context.Context, tenantID id.TenantID, in service.DonorInput) (*matching.Donor, error)
	RegisterRecipient(ctx context.Context, tenantID id.TenantID, in service.RecipientInput) (*matching.Recipient, error)
	GetDonor(ctx context.Context, tenantID id.TenantID, donorID id.DonorID) (*matching.Donor, error)
	GetRecipient(ctx context.Context, tenantID id.TenantID, recipientID id.RecipientID) (*matching.Recipient, error)
	ListDonors(ctx context.Context, tenantID id.TenantID, filter models.DonorFilter) ([]*matching.Donor, error)
	ListRecipients(ctx context.Context, tenantID id.TenantID, filter models.RecipientFilter) ([]*matching.Recipient, error)
	RemoveDonor(ctx context.Context, tenantID id.TenantID, donorID id.DonorID) error
	RemoveRecipient(ctx context.Context, tenantID id.TenantID, recipientID id.RecipientID) error
}

// Handler wires registry intake endpoints to the registry service.
type Handler struct {
	service Service
	logger  *slog.Logger
}

func New(service Service, logger *slog.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

// Register mounts registry endpoints on the router.
func (h *Handler) Register(r chi.Router) {
	r.Post("/donors", h.HandleRegisterDonor)
	r.Get("/donors", h.HandleListDonors)
	r.Get("/donors/{id}", h.HandleGetDonor)
	r.Delete("/donors/{id}", h.HandleRemoveDonor)
	r.Post("/recipients", h.HandleRegisterRecipient)
	r.Get("/recipients", h.HandleListRecipients)
	r.Get("/recipients/{id}", h.HandleGetRecipient)
	r.Delete("/recipients/{id}", h.HandleRemoveRecipient)
}

func (h *Handler) HandleRegisterDonor(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	tenantID, ok := h.tenant(w, r)
	if !ok {
		return
	}
	req, err := httputil.DecodeJSON[DonorRequest](r)
	if err != nil {
		h.warn(ctx, "invalid donor request", err)
		httputil.WriteError(w, err)
		return
	}
	in, err := req.ToInput()
	if err != nil {
		h.warn(ctx, "invalid donor request", err)
		httputil.WriteError(w, err)
		return
	}
	d, err := h.service.RegisterDonor(ctx, tenantID, in)
	if err != nil {
		h.fail(ctx, "register donor failed", err)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, d)
}

func (h *Handler) HandleRegisterRecipient(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	tenantID, ok := h.tenant(w, r)
	if !ok {
		return
	}
	req, err := httputil.DecodeJSON[RecipientRequest](r)
	if err != nil {
		h.warn(ctx, "invalid recipient request", err)
		httputil.WriteError(w, err)
		return
	}
	in, err := req.ToInput()
	if err != nil {
		h.warn(ctx, "invalid recipient request", err)
		httputil.WriteError(w, err)
		return
	}
	rec, err := h.service.RegisterRecipient(ctx, tenantID, in)
	if err != nil {
		h.fail(ctx, "register recipient failed", err)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, rec)
}

// HandleListDonors handles GET /donors?organ=&blood_group=&available=true.
func (h *Handler) HandleListDonors(w http.ResponseWriter, r *http.Request) {
	tenantID, ok := h.tenant(w, r)
	if !ok {
		return
	}
	q := r.URL.Query()
	var filter models.DonorFilter
	var err error
	if filter.Organ, filter.BloodGroup, err = medicalFilter(q); err != nil {
		httputil.WriteError(w, err)
		return
	}
	if filter.AvailableOnly, err = boolParam(q, "available"); err != nil {
		httputil.WriteError(w, err)
		return
	}
	ds, err := h.service.ListDonors(r.Context(), tenantID, filter)
	if err != nil {
		h.fail(r.Context(), "list donors failed", err)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]any{"donors": ds})
}

// HandleListRecipients handles GET /recipients?organ=&blood_group=&urgency=&waiting=true.
func (h *Handler) HandleListRecipients(w http.ResponseWriter, r *http.Request) {
	tenantID, ok := h.tenant(w, r)
	if !ok {
		return
	}
	q := r.URL.Query()
	var filter models.RecipientFilter
	var err error
	if filter.Organ, filter.BloodGroup, err = medicalFilter(q); err != nil {
		httputil.WriteError(w, err)
		return
	}
	if filter.WaitingOnly, err = boolParam(q, "waiting"); err != nil {
		httputil.WriteError(w, err)
		return
	}
	if raw := q.Get("urgency"); raw != "" {
		u, err := matching.ParseUrgency(raw)
		if err != nil {
			httputil.WriteError(w, err)
			return
		}
		filter.Urgency = &u
	}
	rs, err := h.service.ListRecipients(r.Context(), tenantID, filter)
	if err != nil {
		h.fail(r.Context(), "list recipients failed", err)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]any{"recipients": rs})
}

func (h *Handler) HandleGetDonor(w http.ResponseWriter, r *http.Request) {
	tenantID, ok := h.tenant(w, r)
	if !ok {
		return
	}
	donorID, err := id.ParseDonorID(chi.URLParam(r, "id"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	d, err := h.service.GetDonor(r.Context(), tenantID, donorID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, d)
}

func (h *Handler) HandleGetRecipient(w http.ResponseWriter, r *http.Request) {
	tenantID, ok := h.tenant(w, r)
	if !ok {
		return
	}
	recipientID, err := id.ParseRecipientID(chi.URLParam(r, "id"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	rec, err := h.service.GetRecipient(r.Context(), tenantID, recipientID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, rec)
}

func (h *Handler) HandleRemoveDonor(w http.ResponseWriter, r *http.Request) {
	tenantID, ok := h.tenant(w, r)
	if !ok {
		return
	}
	donorID, err := id.ParseDonorID(chi.URLParam(r, "id"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	if err := h.service.RemoveDonor(r.Context(), tenantID, donorID); err != nil {
		h.fail(r.Context(), "remove donor failed", err)
		httputil.WriteError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) HandleRemoveRecipient(w http.ResponseWriter, r *http.Request) {
	tenantID, ok := h.tenant(w, r)
	if !ok {
		return
	}
	recipientID, err := id.ParseRecipientID(chi.URLParam(r, "id"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	if err := h.service.RemoveRecipient(r.Context(), tenantID, recipientID); err != nil {
		h.fail(r.Context(), "remove recipient failed", err)
		httputil.WriteError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) tenant(w http.ResponseWriter, r *http.Request) (id.TenantID, bool) {
	tenantID := requestcontext.TenantID(r.Context())
	if tenantID.IsNil() {
		httputil.WriteError(w, dErrors.New(dErrors.CodeUnauthorized, "authentication required"))
		return "", false
	}
	return tenantID, true
}

func medicalFilter(q url.Values) (matching.Organ, matching.BloodGroup, error) {
	var organ matching.Organ
	var blood matching.BloodGroup
	var err error
	if raw := q.Get("organ"); raw != "" {
		if organ, err = matching.ParseOrgan(raw); err != nil {
			return "", "", err
		}
	}
	if raw := q.Get("blood_group"); raw != "" {
		if blood, err = matching.ParseBloodGroup(raw); err != nil {
			return "", "", err
		}
	}
	return organ, blood, nil
}

func boolParam(q url.Values, name string) (bool, error) {
	raw := q.Get(name)
	if raw == "" {
		return false, nil
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return false, dErrors.New(dErrors.CodeValidation, name+" must be true or false")
	}
	return v, nil
}

func (h *Handler) warn(ctx context.Context, msg string, err error) {
	h.logger.WarnContext(ctx, msg, "request_id", requestcontext.RequestID(ctx), "error", err)
}

func (h *Handler) fail(ctx context.Context, msg string, err error) {
	if dErrors.HasCode(err, dErrors.CodeInternal) {
		h.logger.ErrorContext(ctx, msg, "request_id", requestcontext.RequestID(ctx), "error", err)
	}
}
