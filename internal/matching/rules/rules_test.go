package rules

import (
	"fmt"
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"organmatch/internal/matching/models"
	id "organmatch/pkg/domain"
)

var t0 = time.Date(2026, 1, 1, 8, 0, 0, 0, time.UTC)

func medical(organ models.Organ, blood models.BloodGroup, tissue string, hla int) models.Medical {
	return models.Medical{Organ: organ, BloodGroup: blood, TissueType: tissue, HLAMatch: hla}
}

func donor(did string, m models.Medical) *models.Donor {
	return &models.Donor{ID: id.DonorID(did), TenantID: "h1", Name: did, Medical: m, Available: true}
}

func recipient(rid string, u models.Urgency, since time.Time) *models.Recipient {
	return &models.Recipient{
		ID: id.RecipientID(rid), TenantID: "h1", Name: rid, Urgency: u, Waiting: true, WaitingSince: since,
		Medical: medical(models.OrganKidney, models.BloodAPos, "1", 6),
	}
}

func TestIsCompatible(t *testing.T) {
	base := medical(models.OrganKidney, models.BloodAPos, "1", 6)
	r := &models.Recipient{Medical: base}

	t.Run("all four fields equal is compatible", func(t *testing.T) {
		assert.True(t, IsCompatible(donor("D1", base), r))
	})

	mutations := map[string]func(m *models.Medical){
		"organ differs":       func(m *models.Medical) { m.Organ = models.OrganLiver },
		"blood group differs": func(m *models.Medical) { m.BloodGroup = models.BloodONeg },
		"tissue type differs": func(m *models.Medical) { m.TissueType = "2" },
		"hla match differs":   func(m *models.Medical) { m.HLAMatch = 5 },
	}
	for name, mutate := range mutations {
		t.Run(name, func(t *testing.T) {
			m := base
			mutate(&m)
			assert.False(t, IsCompatible(donor("D1", m), r))
		})
	}

	t.Run("nil participants are never compatible", func(t *testing.T) {
		assert.False(t, IsCompatible(nil, r))
		assert.False(t, IsCompatible(donor("D1", base), nil))
	})
}

// TestIsCompatible_IffAllFieldsEqual checks the predicate against the
// field-by-field definition over a grid of profiles.
func TestIsCompatible_IffAllFieldsEqual(t *testing.T) {
	var profiles []models.Medical
	for _, o := range []models.Organ{models.OrganHeart, models.OrganKidney} {
		for _, b := range []models.BloodGroup{models.BloodAPos, models.BloodONeg} {
			for _, tt := range []string{"1", "2"} {
				for _, h := range []int{5, 6} {
					profiles = append(profiles, medical(o, b, tt, h))
				}
			}
		}
	}
	for _, dm := range profiles {
		for _, rm := range profiles {
			want := dm.Organ == rm.Organ && dm.BloodGroup == rm.BloodGroup &&
				dm.TissueType == rm.TissueType && dm.HLAMatch == rm.HLAMatch
			got := IsCompatible(donor("D", dm), &models.Recipient{Medical: rm})
			require.Equal(t, want, got, "donor %+v recipient %+v", dm, rm)
		}
	}
}

func TestFindCompatibleDonor(t *testing.T) {
	want := medical(models.OrganKidney, models.BloodAPos, "1", 6)
	r := &models.Recipient{Medical: want}

	t.Run("first eligible donor in pool order wins", func(t *testing.T) {
		pool := []*models.Donor{
			donor("D1", medical(models.OrganLiver, models.BloodAPos, "1", 6)),
			donor("D2", want),
			donor("D3", want),
		}
		d, ok := FindCompatibleDonor(r, pool)
		require.True(t, ok)
		assert.Equal(t, id.DonorID("D2"), d.ID)
	})

	t.Run("unavailable donors are skipped", func(t *testing.T) {
		d2 := donor("D2", want)
		d2.Available = false
		d, ok := FindCompatibleDonor(r, []*models.Donor{d2, donor("D3", want)})
		require.True(t, ok)
		assert.Equal(t, id.DonorID("D3"), d.ID)
	})

	t.Run("no eligible donor", func(t *testing.T) {
		_, ok := FindCompatibleDonor(r, []*models.Donor{donor("D1", medical(models.OrganLiver, models.BloodONeg, "1", 6))})
		assert.False(t, ok)
		_, ok = FindCompatibleDonor(r, nil)
		assert.False(t, ok)
	})
}

func TestSelectNextRecipient(t *testing.T) {
	t.Run("empty pool", func(t *testing.T) {
		_, ok := SelectNextRecipient(nil)
		assert.False(t, ok)
	})

	t.Run("critical beats older high", func(t *testing.T) {
		pool := []*models.Recipient{
			recipient("R1", models.UrgencyHigh, t0),
			recipient("R2", models.UrgencyCritical, t0.Add(time.Hour)),
		}
		r, ok := SelectNextRecipient(pool)
		require.True(t, ok)
		assert.Equal(t, id.RecipientID("R2"), r.ID)
	})

	t.Run("oldest wait wins within urgency", func(t *testing.T) {
		pool := []*models.Recipient{
			recipient("R1", models.UrgencyCritical, t0.Add(2*time.Hour)),
			recipient("R2", models.UrgencyCritical, t0),
			recipient("R3", models.UrgencyCritical, t0.Add(time.Hour)),
		}
		r, _ := SelectNextRecipient(pool)
		assert.Equal(t, id.RecipientID("R2"), r.ID)
	})

	t.Run("falls through high, medium, low", func(t *testing.T) {
		pool := []*models.Recipient{
			recipient("R1", models.UrgencyLow, t0),
			recipient("R2", models.UrgencyMedium, t0.Add(time.Hour)),
		}
		r, _ := SelectNextRecipient(pool)
		assert.Equal(t, id.RecipientID("R2"), r.ID)
	})

	t.Run("non-waiting recipients are excluded", func(t *testing.T) {
		matched := recipient("R1", models.UrgencyCritical, t0)
		matched.Waiting = false
		r, ok := SelectNextRecipient([]*models.Recipient{matched, recipient("R2", models.UrgencyLow, t0)})
		require.True(t, ok)
		assert.Equal(t, id.RecipientID("R2"), r.ID)

		_, ok = SelectNextRecipient([]*models.Recipient{matched})
		assert.False(t, ok)
	})

	t.Run("result is independent of pool order", func(t *testing.T) {
		var pool []*models.Recipient
		for i := 0; i < 20; i++ {
			u := models.Urgency(i % 4)
			pool = append(pool, recipient(fmt.Sprintf("R%02d", i), u, t0.Add(time.Duration(i%3)*time.Minute)))
		}
		first, _ := SelectNextRecipient(pool)
		rng := rand.New(rand.NewSource(7))
		for i := 0; i < 50; i++ {
			rng.Shuffle(len(pool), func(a, b int) { pool[a], pool[b] = pool[b], pool[a] })
			got, _ := SelectNextRecipient(pool)
			require.Equal(t, first.ID, got.ID)
		}
		assert.Equal(t, models.UrgencyCritical, first.Urgency)
	})
}
