//go:build integration

package match_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"organmatch/internal/matching/models"
	"organmatch/internal/matching/store/match"
	"organmatch/internal/platform/postgres"
	id "organmatch/pkg/domain"
	"organmatch/pkg/platform/sentinel"
	"organmatch/pkg/testutil/containers"
)

type PostgresMatchSuite struct {
	suite.Suite
	postgres *containers.PostgresContainer
	store    *match.PostgresStore
	ctx      context.Context
	now      time.Time
}

func TestPostgresMatchSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(PostgresMatchSuite))
}

func (s *PostgresMatchSuite) SetupSuite() {
	s.postgres = containers.GetManager().GetPostgres(s.T())
	s.store = match.NewPostgres(s.postgres.Pool)
	s.ctx = context.Background()
	s.now = time.Date(2026, 5, 1, 9, 0, 0, 0, time.UTC)
}

func (s *PostgresMatchSuite) SetupTest() {
	s.Require().NoError(s.postgres.TruncateTables(s.ctx, "matches"))
}

func (s *PostgresMatchSuite) reserved(mid, donor, recipient string) *models.Match {
	return &models.Match{
		ID: id.MatchID(mid), TenantID: "h1",
		DonorID: id.DonorID(donor), RecipientID: id.RecipientID(recipient),
		DonorName: "Donor " + donor, RecipientName: "Patient " + recipient,
		Organ: models.OrganKidney, State: models.MatchStateReserved, CreatedAt: s.now,
	}
}

func (s *PostgresMatchSuite) TestLiveIndexes() {
	s.Require().NoError(s.store.Create(s.ctx, s.reserved("m1", "D1", "R1")))

	s.ErrorIs(s.store.Create(s.ctx, s.reserved("m2", "D1", "R2")), sentinel.ErrConflict)
	s.ErrorIs(s.store.Create(s.ctx, s.reserved("m3", "D2", "R1")), sentinel.ErrConflict)

	m, err := s.store.FindByID(s.ctx, "h1", "m1")
	s.Require().NoError(err)
	m.ApplyRelease(s.now.Add(time.Minute))
	s.Require().NoError(s.store.Update(s.ctx, m))

	s.NoError(s.store.Create(s.ctx, s.reserved("m4", "D1", "R1")))
}

func (s *PostgresMatchSuite) TestCommitRoundTrip() {
	s.Require().NoError(s.store.Create(s.ctx, s.reserved("m1", "D1", "R1")))

	m, err := s.store.FindByID(s.ctx, "h1", "m1")
	s.Require().NoError(err)
	s.Nil(m.CommittedAt)
	s.Equal("Donor D1", m.DonorName)

	m.ApplyCommit("rec-1", "theatre 2", s.now.Add(time.Hour))
	m.Recorded = true
	s.Require().NoError(s.store.Update(s.ctx, m))

	got, err := s.store.FindByID(s.ctx, "h1", "m1")
	s.Require().NoError(err)
	s.Equal(models.MatchStateCommitted, got.State)
	s.Require().NotNil(got.CommittedAt)
	s.Equal(s.now.Add(time.Hour), *got.CommittedAt)
	s.Equal(id.RecordID("rec-1"), got.RecordID)
	s.Equal("theatre 2", got.Notes)
	s.True(got.Recorded)

	committed, err := s.store.ListByTenant(s.ctx, "h1", models.MatchStateCommitted)
	s.Require().NoError(err)
	s.Len(committed, 1)
	reserved, err := s.store.ListByTenant(s.ctx, "h1", models.MatchStateReserved)
	s.Require().NoError(err)
	s.Empty(reserved)
}

func (s *PostgresMatchSuite) TestTxRollback() {
	runner := postgres.NewTxRunner(s.postgres.Pool)
	boom := errors.New("boom")

	err := runner.RunInTx(s.ctx, func(ctx context.Context) error {
		s.Require().NoError(s.store.Create(ctx, s.reserved("m1", "D1", "R1")))
		return boom
	})
	s.ErrorIs(err, boom)

	_, err = s.store.FindByID(s.ctx, "h1", "m1")
	s.ErrorIs(err, sentinel.ErrNotFound)

	err = runner.RunInTx(s.ctx, func(ctx context.Context) error {
		return s.store.Create(ctx, s.reserved("m1", "D1", "R1"))
	})
	s.Require().NoError(err)
	_, err = s.store.FindByID(s.ctx, "h1", "m1")
	s.NoError(err)
}

func (s *PostgresMatchSuite) TestMissing() {
	s.ErrorIs(s.store.Update(s.ctx, s.reserved("nope", "D1", "R1")), sentinel.ErrNotFound)
	_, err := s.store.FindByID(s.ctx, "h2", "nope")
	s.ErrorIs(err, sentinel.ErrNotFound)
}
