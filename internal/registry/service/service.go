// Package service is the intake used by the external registration workflow to
// add and remove donors and waiting-list recipients. Availability and waiting
// flags are owned by the matching engine and are not writable here.
package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	matching "organmatch/internal/matching/models"
	"organmatch/internal/registry/models"
	id "organmatch/pkg/domain"
	dErrors "organmatch/pkg/domain-errors"
	"organmatch/pkg/platform/sentinel"
	"organmatch/pkg/requestcontext"
)

type DonorStore interface {
	Create(ctx context.Context, d *matching.Donor) error
	Get(ctx context.Context, tenantID id.TenantID, donorID id.DonorID) (*matching.Donor, error)
	List(ctx context.Context, tenantID id.TenantID, filter models.DonorFilter) ([]*matching.Donor, error)
	Remove(ctx context.Context, tenantID id.TenantID, donorID id.DonorID) error
}

type RecipientStore interface {
	Create(ctx context.Context, r *matching.Recipient) error
	Get(ctx context.Context, tenantID id.TenantID, recipientID id.RecipientID) (*matching.Recipient, error)
	List(ctx context.Context, tenantID id.TenantID, filter models.RecipientFilter) ([]*matching.Recipient, error)
	Remove(ctx context.Context, tenantID id.TenantID, recipientID id.RecipientID) error
}

// DonorInput carries the registration fields for a new donor.
type DonorInput struct {
	ID      id.DonorID
	Name    string
	Gender  string
	Age     int
	Medical matching.Medical
}

// RecipientInput carries the registration fields for a new recipient.
// A zero WaitingSince means the request time.
type RecipientInput struct {
	ID           id.RecipientID
	Name         string
	Gender       string
	Age          int
	Medical      matching.Medical
	Urgency      matching.Urgency
	WaitingSince time.Time
}

type Service struct {
	donors     DonorStore
	recipients RecipientStore
	logger     *slog.Logger
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

func New(donors DonorStore, recipients RecipientStore, opts ...Option) *Service {
	s := &Service{donors: donors, recipients: recipients}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Service) RegisterDonor(ctx context.Context, tenantID id.TenantID, in DonorInput) (*matching.Donor, error) {
	d, err := matching.NewDonor(tenantID, in.ID, in.Name, in.Gender, in.Age, in.Medical, requestcontext.Now(ctx))
	if err != nil {
		return nil, err
	}
	if err := s.donors.Create(ctx, d); err != nil {
		return nil, storeErr(err, "donor", "failed to register donor")
	}
	s.logInfo(ctx, "donor registered", "tenant_id", tenantID, "donor_id", d.ID, "organ", d.Medical.Organ)
	return d, nil
}

func (s *Service) RegisterRecipient(ctx context.Context, tenantID id.TenantID, in RecipientInput) (*matching.Recipient, error) {
	since := in.WaitingSince
	if since.IsZero() {
		since = requestcontext.Now(ctx)
	}
	r, err := matching.NewRecipient(tenantID, in.ID, in.Name, in.Gender, in.Age, in.Medical, in.Urgency, since)
	if err != nil {
		return nil, err
	}
	if err := s.recipients.Create(ctx, r); err != nil {
		return nil, storeErr(err, "recipient", "failed to register recipient")
	}
	s.logInfo(ctx, "recipient registered",
		"tenant_id", tenantID,
		"recipient_id", r.ID,
		"organ", r.Medical.Organ,
		"urgency", r.Urgency,
	)
	return r, nil
}

func (s *Service) GetDonor(ctx context.Context, tenantID id.TenantID, donorID id.DonorID) (*matching.Donor, error) {
	d, err := s.donors.Get(ctx, tenantID, donorID)
	if err != nil {
		return nil, storeErr(err, "donor", "failed to load donor")
	}
	return d, nil
}

func (s *Service) GetRecipient(ctx context.Context, tenantID id.TenantID, recipientID id.RecipientID) (*matching.Recipient, error) {
	r, err := s.recipients.Get(ctx, tenantID, recipientID)
	if err != nil {
		return nil, storeErr(err, "recipient", "failed to load recipient")
	}
	return r, nil
}

func (s *Service) ListDonors(ctx context.Context, tenantID id.TenantID, filter models.DonorFilter) ([]*matching.Donor, error) {
	if tenantID.IsNil() {
		return nil, dErrors.New(dErrors.CodeValidation, "tenant_id is required")
	}
	ds, err := s.donors.List(ctx, tenantID, filter)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list donors")
	}
	if ds == nil {
		ds = []*matching.Donor{}
	}
	return ds, nil
}

func (s *Service) ListRecipients(ctx context.Context, tenantID id.TenantID, filter models.RecipientFilter) ([]*matching.Recipient, error) {
	if tenantID.IsNil() {
		return nil, dErrors.New(dErrors.CodeValidation, "tenant_id is required")
	}
	rs, err := s.recipients.List(ctx, tenantID, filter)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list recipients")
	}
	if rs == nil {
		rs = []*matching.Recipient{}
	}
	return rs, nil
}

// RemoveDonor deletes a donor. A reservation that still references the donor
// fails its commit with CodeStaleMatch and has to be released.
func (s *Service) RemoveDonor(ctx context.Context, tenantID id.TenantID, donorID id.DonorID) error {
	if err := s.donors.Remove(ctx, tenantID, donorID); err != nil {
		return storeErr(err, "donor", "failed to remove donor")
	}
	s.logInfo(ctx, "donor removed", "tenant_id", tenantID, "donor_id", donorID)
	return nil
}

func (s *Service) RemoveRecipient(ctx context.Context, tenantID id.TenantID, recipientID id.RecipientID) error {
	if err := s.recipients.Remove(ctx, tenantID, recipientID); err != nil {
		return storeErr(err, "recipient", "failed to remove recipient")
	}
	s.logInfo(ctx, "recipient removed", "tenant_id", tenantID, "recipient_id", recipientID)
	return nil
}

func storeErr(err error, what, msg string) error {
	switch {
	case errors.Is(err, sentinel.ErrNotFound):
		return dErrors.New(dErrors.CodeNotFound, what+" not found")
	case errors.Is(err, sentinel.ErrConflict):
		return dErrors.New(dErrors.CodeConflict, what+" already registered")
	default:
		return dErrors.Wrap(err, dErrors.CodeInternal, msg)
	}
}

func (s *Service) logInfo(ctx context.Context, msg string, args ...any) {
	if s.logger != nil {
		s.logger.InfoContext(ctx, msg, args...)
	}
}
