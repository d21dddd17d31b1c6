package handler

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"organmatch/internal/ledger/models"
	"organmatch/internal/ledger/service"
	"organmatch/internal/ledger/store/memory"
	matching "organmatch/internal/matching/models"
	id "organmatch/pkg/domain"
	dErrors "organmatch/pkg/domain-errors"
	"organmatch/pkg/testutil"
)

type LedgerHandlerSuite struct {
	suite.Suite
	router chi.Router
}

func TestLedgerHandlerSuite(t *testing.T) {
	suite.Run(t, new(LedgerHandlerSuite))
}

func (s *LedgerHandlerSuite) SetupTest() {
	svc := service.New(memory.New())
	ctx := context.Background()
	seed := []struct {
		match, donor, donorName, recipient, recipientName string
		organ                                             matching.Organ
		committed                                         time.Time
	}{
		{"m-1", "D1", "Ada Lovelace", "R1", "Grace Hopper", matching.OrganKidney, time.Date(2025, 12, 30, 9, 0, 0, 0, time.UTC)},
		{"m-2", "D2", "Alan Turing", "R2", "Edsger Dijkstra", matching.OrganHeart, time.Date(2026, 1, 15, 14, 0, 0, 0, time.UTC)},
		{"m-3", "D3", "Barbara Liskov", "R3", "Ada Byron", matching.OrganKidney, time.Date(2026, 1, 15, 18, 0, 0, 0, time.UTC)},
	}
	for _, r := range seed {
		rec := &models.Record{
			ID:            models.RecordIDFor("st-marys", id.MatchID(r.match)),
			TenantID:      "st-marys",
			MatchID:       id.MatchID(r.match),
			DonorID:       id.DonorID(r.donor),
			DonorName:     r.donorName,
			RecipientID:   id.RecipientID(r.recipient),
			RecipientName: r.recipientName,
			Organ:         r.organ,
			MatchedAt:     r.committed.Add(-time.Hour),
			CommittedAt:   r.committed,
		}
		_, err := svc.Append(ctx, rec)
		s.Require().NoError(err)
	}
	s.router = chi.NewRouter()
	New(svc, slog.New(slog.NewTextHandler(io.Discard, nil))).Register(s.router)
}

func (s *LedgerHandlerSuite) query(params url.Values) []string {
	rr := testutil.DoRequest(s.router, testutil.WithTenant(
		testutil.NewRequest(s.T(), http.MethodGet, "/transplants?"+params.Encode()), "st-marys"))
	s.Require().Equal(http.StatusOK, rr.Code, rr.Body.String())
	body := testutil.UnmarshalResponse[struct {
		Transplants []models.Record `json:"transplants"`
		Count       int             `json:"count"`
	}](s.T(), rr)
	s.Equal(len(body.Transplants), body.Count)
	matches := make([]string, 0, len(body.Transplants))
	for _, r := range body.Transplants {
		matches = append(matches, r.MatchID.String())
	}
	return matches
}

func (s *LedgerHandlerSuite) TestFilters() {
	tests := []struct {
		name   string
		params url.Values
		want   []string
	}{
		{"everything newest first", url.Values{}, []string{"m-3", "m-2", "m-1"}},
		{"by organ", url.Values{"organ": {"Kidney"}}, []string{"m-3", "m-1"}},
		{"by donor id", url.Values{"donor": {"D2"}}, []string{"m-2"}},
		{"by donor name ignoring case", url.Values{"donor": {"ada lovelace"}}, []string{"m-1"}},
		{"by recipient", url.Values{"recipient": {"R3"}}, []string{"m-3"}},
		{"by date", url.Values{"date": {"2026-01-15"}}, []string{"m-3", "m-2"}},
		{"by year", url.Values{"year": {"2025"}}, []string{"m-1"}},
		{"by year and month", url.Values{"year": {"2026"}, "month": {"1"}}, []string{"m-3", "m-2"}},
		{"search across names", url.Values{"q": {"ada"}}, []string{"m-3", "m-1"}},
		{"limit", url.Values{"limit": {"1"}}, []string{"m-3"}},
		{"no hit", url.Values{"organ": {"Eyes"}}, []string{}},
	}
	for _, tc := range tests {
		s.Run(tc.name, func() {
			s.Equal(tc.want, s.query(tc.params))
		})
	}
}

func (s *LedgerHandlerSuite) TestTenantIsolation() {
	rr := testutil.DoRequest(s.router, testutil.WithTenant(
		testutil.NewRequest(s.T(), http.MethodGet, "/transplants"), "other-hospital"))
	testutil.AssertStatusOK(s.T(), rr)
	testutil.AssertJSONContains(s.T(), rr, "count", float64(0))
}

func (s *LedgerHandlerSuite) TestRejectsBadParameters() {
	for _, raw := range []string{
		"organ=kidney",
		"date=15-01-2026",
		"year=abc",
		"month=13&year=2026",
		"month=1",
		"limit=-5",
	} {
		s.Run(raw, func() {
			rr := testutil.DoRequest(s.router, testutil.WithTenant(
				testutil.NewRequest(s.T(), http.MethodGet, "/transplants?"+raw), "st-marys"))
			testutil.AssertStatusAndError(s.T(), rr, http.StatusBadRequest, string(dErrors.CodeValidation))
		})
	}
}

func TestRequiresTenant(t *testing.T) {
	r := chi.NewRouter()
	New(service.New(memory.New()), slog.New(slog.NewTextHandler(io.Discard, nil))).Register(r)
	rr := testutil.DoRequest(r, testutil.NewRequest(t, http.MethodGet, "/transplants"))
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}

func TestParseFilter(t *testing.T) {
	f, err := ParseFilter(url.Values{"date": {"2026-03-09"}, "q": {" liver "}, "limit": {"20"}, "offset": {"40"}})
	require.NoError(t, err)
	require.NotNil(t, f.Date)
	assert.Equal(t, time.Date(2026, 3, 9, 0, 0, 0, 0, time.UTC), *f.Date)
	assert.Equal(t, " liver ", f.Search, "trimming is left to Normalize")
	assert.Equal(t, 20, f.Limit)
	assert.Equal(t, 40, f.Offset)
}
