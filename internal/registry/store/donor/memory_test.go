package donor

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	matching "organmatch/internal/matching/models"
	"organmatch/internal/registry/models"
	id "organmatch/pkg/domain"
	"organmatch/pkg/platform/sentinel"
)

type DonorStoreSuite struct {
	suite.Suite
	store *InMemory
	ctx   context.Context
}

func TestDonorStoreSuite(t *testing.T) {
	suite.Run(t, new(DonorStoreSuite))
}

func (s *DonorStoreSuite) SetupTest() {
	s.store = NewInMemory()
	s.ctx = context.Background()
}

func (s *DonorStoreSuite) newDonor(tenant id.TenantID, did string, organ matching.Organ) *matching.Donor {
	d, err := matching.NewDonor(tenant, id.DonorID(did), "Donor "+did, "F", 35,
		matching.Medical{Organ: organ, BloodGroup: matching.BloodAPos, TissueType: "1", HLAMatch: 6}, time.Now())
	s.Require().NoError(err)
	return d
}

func (s *DonorStoreSuite) TestCreateAndGet() {
	s.Run("finds created donor", func() {
		d := s.newDonor("h1", "D1", matching.OrganKidney)
		s.Require().NoError(s.store.Create(s.ctx, d))

		found, err := s.store.Get(s.ctx, "h1", "D1")
		s.Require().NoError(err)
		s.Equal(d.Name, found.Name)
	})

	s.Run("rejects duplicate id", func() {
		d := s.newDonor("h1", "D2", matching.OrganKidney)
		s.Require().NoError(s.store.Create(s.ctx, d))
		s.ErrorIs(s.store.Create(s.ctx, d), sentinel.ErrConflict)
	})

	s.Run("tenants are isolated", func() {
		_, err := s.store.Get(s.ctx, "h2", "D1")
		s.ErrorIs(err, sentinel.ErrNotFound)
	})

	s.Run("returned donors are copies", func() {
		found, err := s.store.Get(s.ctx, "h1", "D1")
		s.Require().NoError(err)
		found.Available = false

		again, err := s.store.Get(s.ctx, "h1", "D1")
		s.Require().NoError(err)
		s.True(again.Available)
	})
}

func (s *DonorStoreSuite) TestListAvailablePreservesRegistrationOrder() {
	for _, did := range []string{"D3", "D1", "D2"} {
		s.Require().NoError(s.store.Create(s.ctx, s.newDonor("h1", did, matching.OrganKidney)))
	}
	s.Require().NoError(s.store.SetAvailable(s.ctx, "h1", "D1", false))

	donors, err := s.store.ListAvailable(s.ctx, "h1")
	s.Require().NoError(err)
	s.Require().Len(donors, 2)
	s.Equal(id.DonorID("D3"), donors[0].ID)
	s.Equal(id.DonorID("D2"), donors[1].ID)
}

func (s *DonorStoreSuite) TestListFilter() {
	s.Require().NoError(s.store.Create(s.ctx, s.newDonor("h1", "D1", matching.OrganKidney)))
	s.Require().NoError(s.store.Create(s.ctx, s.newDonor("h1", "D2", matching.OrganHeart)))

	donors, err := s.store.List(s.ctx, "h1", models.DonorFilter{Organ: matching.OrganHeart})
	s.Require().NoError(err)
	s.Require().Len(donors, 1)
	s.Equal(id.DonorID("D2"), donors[0].ID)
}

func (s *DonorStoreSuite) TestRemove() {
	s.Require().NoError(s.store.Create(s.ctx, s.newDonor("h1", "D1", matching.OrganKidney)))
	s.Require().NoError(s.store.Remove(s.ctx, "h1", "D1"))

	_, err := s.store.Get(s.ctx, "h1", "D1")
	s.ErrorIs(err, sentinel.ErrNotFound)
	s.ErrorIs(s.store.Remove(s.ctx, "h1", "D1"), sentinel.ErrNotFound)
	s.ErrorIs(s.store.SetAvailable(s.ctx, "h1", "D1", true), sentinel.ErrNotFound)
}
