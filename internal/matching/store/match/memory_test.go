package match

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"organmatch/internal/matching/models"
	id "organmatch/pkg/domain"
	"organmatch/pkg/platform/sentinel"
)

type MatchStoreSuite struct {
	suite.Suite
	store *InMemory
	ctx   context.Context
	now   time.Time
}

func TestMatchStoreSuite(t *testing.T) {
	suite.Run(t, new(MatchStoreSuite))
}

func (s *MatchStoreSuite) SetupTest() {
	s.store = NewInMemory()
	s.ctx = context.Background()
	s.now = time.Date(2026, 5, 1, 9, 0, 0, 0, time.UTC)
}

func (s *MatchStoreSuite) reserved(mid, donor, recipient string) *models.Match {
	return &models.Match{
		ID: id.MatchID(mid), TenantID: "h1",
		DonorID: id.DonorID(donor), RecipientID: id.RecipientID(recipient),
		State: models.MatchStateReserved, CreatedAt: s.now,
	}
}

func (s *MatchStoreSuite) TestLiveParticipantUniqueness() {
	s.Require().NoError(s.store.Create(s.ctx, s.reserved("m1", "D1", "R1")))

	s.Run("second live match for the same donor conflicts", func() {
		s.ErrorIs(s.store.Create(s.ctx, s.reserved("m2", "D1", "R2")), sentinel.ErrConflict)
	})

	s.Run("second live match for the same recipient conflicts", func() {
		s.ErrorIs(s.store.Create(s.ctx, s.reserved("m3", "D2", "R1")), sentinel.ErrConflict)
	})

	s.Run("released match frees both participants", func() {
		m, err := s.store.FindByID(s.ctx, "h1", "m1")
		s.Require().NoError(err)
		m.ApplyRelease(s.now)
		s.Require().NoError(s.store.Update(s.ctx, m))
		s.NoError(s.store.Create(s.ctx, s.reserved("m4", "D1", "R1")))
	})

	s.Run("other tenants are unaffected", func() {
		other := s.reserved("m5", "D1", "R1")
		other.TenantID = "h2"
		s.NoError(s.store.Create(s.ctx, other))
	})
}

func (s *MatchStoreSuite) TestListByTenant() {
	first := s.reserved("m1", "D1", "R1")
	second := s.reserved("m2", "D2", "R2")
	second.CreatedAt = s.now.Add(time.Minute)
	s.Require().NoError(s.store.Create(s.ctx, second))
	s.Require().NoError(s.store.Create(s.ctx, first))

	all, err := s.store.ListByTenant(s.ctx, "h1", "")
	s.Require().NoError(err)
	s.Require().Len(all, 2)
	s.Equal(id.MatchID("m1"), all[0].ID)

	committed, err := s.store.ListByTenant(s.ctx, "h1", models.MatchStateCommitted)
	s.Require().NoError(err)
	s.Empty(committed)
}

func (s *MatchStoreSuite) TestUpdateMissing() {
	s.ErrorIs(s.store.Update(s.ctx, s.reserved("nope", "D1", "R1")), sentinel.ErrNotFound)
	_, err := s.store.FindByID(s.ctx, "h1", "nope")
	s.ErrorIs(err, sentinel.ErrNotFound)
}
