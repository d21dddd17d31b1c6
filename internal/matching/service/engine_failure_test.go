package service

//go:generate mockgen -source=service.go -destination=mocks/mocks.go -package=mocks DonorRegistry,RecipientRegistry,MatchStore,Ledger,Locker

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	ledgermodels "organmatch/internal/ledger/models"
	ledgerservice "organmatch/internal/ledger/service"
	ledgermemory "organmatch/internal/ledger/store/memory"
	"organmatch/internal/matching/lock"
	"organmatch/internal/matching/metrics"
	"organmatch/internal/matching/models"
	"organmatch/internal/matching/service/mocks"
	matchstore "organmatch/internal/matching/store/match"
	donorstore "organmatch/internal/registry/store/donor"
	recipientstore "organmatch/internal/registry/store/recipient"
	id "organmatch/pkg/domain"
	dErrors "organmatch/pkg/domain-errors"
	"organmatch/pkg/platform/sentinel"
	"organmatch/pkg/requestcontext"
)

// =============================================================================
// Failure Path Test Suite
// =============================================================================
// Real in-memory registries with mocked collaborators where a failure has to
// be injected: the ledger, the match store and the tenant lock.

type FailureSuite struct {
	suite.Suite
	ctrl       *gomock.Controller
	donors     *donorstore.InMemory
	recipients *recipientstore.InMemory
	ctx        context.Context
	t0         time.Time
}

func TestFailureSuite(t *testing.T) {
	suite.Run(t, new(FailureSuite))
}

func (s *FailureSuite) SetupTest() {
	s.ctrl = gomock.NewController(s.T())
	s.donors = donorstore.NewInMemory()
	s.recipients = recipientstore.NewInMemory()
	s.t0 = time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC)
	s.ctx = requestcontext.WithTime(context.Background(), s.t0.Add(time.Hour))

	d, err := models.NewDonor(tenant, "D1", "Ada Donor", "F", 35, kidneyA, s.t0)
	s.Require().NoError(err)
	s.Require().NoError(s.donors.Create(s.ctx, d))
	r, err := models.NewRecipient(tenant, "R1", "Ben Recipient", "M", 52, kidneyA, models.UrgencyCritical, s.t0)
	s.Require().NoError(err)
	s.Require().NoError(s.recipients.Create(s.ctx, r))
}

func (s *FailureSuite) TearDownTest() {
	s.ctrl.Finish()
}

func (s *FailureSuite) flags() (available, waiting bool) {
	d, err := s.donors.Get(s.ctx, tenant, "D1")
	s.Require().NoError(err)
	r, err := s.recipients.Get(s.ctx, tenant, "R1")
	s.Require().NoError(err)
	return d.Available, r.Waiting
}

func (s *FailureSuite) TestMatchStoreCreateFailureRestoresFlags() {
	matches := mocks.NewMockMatchStore(s.ctrl)
	matches.EXPECT().Create(gomock.Any(), gomock.Any()).Return(errors.New("disk full"))
	engine, err := New(s.donors, s.recipients, matches, mocks.NewMockLedger(s.ctrl))
	s.Require().NoError(err)

	_, err = engine.AttemptMatch(s.ctx, tenant)
	s.True(dErrors.HasCode(err, dErrors.CodeInternal))

	available, waiting := s.flags()
	s.True(available)
	s.True(waiting)
}

func (s *FailureSuite) TestLiveMatchConflictReportsConflict() {
	matches := mocks.NewMockMatchStore(s.ctrl)
	matches.EXPECT().Create(gomock.Any(), gomock.Any()).Return(sentinel.ErrConflict)
	engine, err := New(s.donors, s.recipients, matches, mocks.NewMockLedger(s.ctrl))
	s.Require().NoError(err)

	_, err = engine.AttemptMatch(s.ctx, tenant)
	s.True(dErrors.HasCode(err, dErrors.CodeConflict))
	available, waiting := s.flags()
	s.True(available)
	s.True(waiting)
}

func (s *FailureSuite) TestLockTimeout() {
	locker := mocks.NewMockLocker(s.ctrl)
	locker.EXPECT().Lock(gomock.Any(), tenant).DoAndReturn(
		func(ctx context.Context, _ id.TenantID) (lock.Unlock, error) {
			<-ctx.Done()
			return nil, ctx.Err()
		})
	engine, err := New(s.donors, s.recipients, matchstore.NewInMemory(), mocks.NewMockLedger(s.ctrl), WithLocker(locker))
	s.Require().NoError(err)

	ctx, cancel := context.WithTimeout(s.ctx, 10*time.Millisecond)
	defer cancel()
	_, err = engine.AttemptMatch(ctx, tenant)
	s.True(dErrors.HasCode(err, dErrors.CodeTimeout))
	available, waiting := s.flags()
	s.True(available)
	s.True(waiting)
}

// A ledger that does not answer within the commit timeout leaves the match
// committed but unrecorded. The next Commit re-appends the same record.
func (s *FailureSuite) TestCommitTimeoutThenRetry() {
	store := ledgermemory.New()
	ledgerSvc := ledgerservice.New(store)
	ledger := mocks.NewMockLedger(s.ctrl)
	matches := matchstore.NewInMemory()
	reg := prometheus.NewRegistry()
	m := metrics.NewWithRegisterer(reg)

	engine, err := New(s.donors, s.recipients, matches, ledger,
		WithCommitTimeout(20*time.Millisecond),
		WithMetrics(m),
		WithMatchIDGenerator(func() id.MatchID { return "m-1" }),
	)
	s.Require().NoError(err)

	outcome, err := engine.AttemptMatch(s.ctx, tenant)
	s.Require().NoError(err)
	s.Require().Equal(id.MatchID("m-1"), outcome.Match.ID)

	gomock.InOrder(
		ledger.EXPECT().Append(gomock.Any(), gomock.Any()).DoAndReturn(
			func(ctx context.Context, _ *ledgermodels.Record) (id.RecordID, error) {
				<-ctx.Done()
				return "", ctx.Err()
			}),
		ledger.EXPECT().Append(gomock.Any(), gomock.Any()).DoAndReturn(ledgerSvc.Append),
	)

	_, err = engine.Commit(s.ctx, tenant, "m-1", "first try")
	s.Require().Error(err)
	s.True(dErrors.HasCode(err, dErrors.CodeTimeout))
	assert.Equal(s.T(), 1.0, testutil.ToFloat64(m.Commits.WithLabelValues(metrics.CommitResultLedgerFailed)))

	stored, err := matches.FindByID(s.ctx, tenant, "m-1")
	s.Require().NoError(err)
	s.Equal(models.MatchStateCommitted, stored.State)
	s.False(stored.Recorded)

	rec, err := engine.Commit(s.ctx, tenant, "m-1", "ignored on retry")
	s.Require().NoError(err)
	s.Equal(ledgermodels.RecordIDFor(tenant, "m-1"), rec.ID)
	s.Equal("first try", rec.Notes)

	stored, err = matches.FindByID(s.ctx, tenant, "m-1")
	s.Require().NoError(err)
	s.True(stored.Recorded)

	_, err = engine.Commit(s.ctx, tenant, "m-1", "")
	s.True(dErrors.HasCode(err, dErrors.CodeAlreadyCommitted))

	recs, err := ledgerSvc.Query(s.ctx, tenant, ledgermodels.Filter{})
	s.Require().NoError(err)
	s.Len(recs, 1)
}

func (s *FailureSuite) TestCommitLedgerErrorIsInternal() {
	ledger := mocks.NewMockLedger(s.ctrl)
	ledger.EXPECT().Append(gomock.Any(), gomock.Any()).Return(id.RecordID(""), errors.New("connection reset"))
	engine, err := New(s.donors, s.recipients, matchstore.NewInMemory(), ledger)
	s.Require().NoError(err)

	outcome, err := engine.AttemptMatch(s.ctx, tenant)
	s.Require().NoError(err)
	_, err = engine.Commit(s.ctx, tenant, outcome.Match.ID, "")
	s.True(dErrors.HasCode(err, dErrors.CodeInternal))
	s.True(errors.Is(err, errLedgerAppend))
}

func (s *FailureSuite) TestCommitRejectsLongNotes() {
	engine, err := New(s.donors, s.recipients, matchstore.NewInMemory(), mocks.NewMockLedger(s.ctrl))
	s.Require().NoError(err)
	notes := make([]byte, maxNotesLength+1)
	for i := range notes {
		notes[i] = 'x'
	}
	_, err = engine.Commit(s.ctx, tenant, "m-1", string(notes))
	s.True(dErrors.HasCode(err, dErrors.CodeValidation))
}

func TestNewRequiresCollaborators(t *testing.T) {
	donors := donorstore.NewInMemory()
	recipients := recipientstore.NewInMemory()
	matches := matchstore.NewInMemory()
	ledger := ledgerservice.New(ledgermemory.New())

	_, err := New(nil, recipients, matches, ledger)
	require.Error(t, err)
	_, err = New(donors, nil, matches, ledger)
	require.Error(t, err)
	_, err = New(donors, recipients, nil, ledger)
	require.Error(t, err)
	_, err = New(donors, recipients, matches, nil)
	require.Error(t, err)
	_, err = New(donors, recipients, matches, ledger)
	require.NoError(t, err)
}
