//go:build integration

package publisher_test

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
	"github.com/twmb/franz-go/pkg/kgo"

	"organmatch/internal/ledger/models"
	"organmatch/internal/ledger/outbox"
	"organmatch/internal/ledger/publisher"
	matching "organmatch/internal/matching/models"
	"organmatch/internal/platform/config"
	"organmatch/internal/platform/kafka"
	"organmatch/pkg/testutil/containers"
)

const topic = "transplants.committed"

type PublisherSuite struct {
	suite.Suite
	redpanda *containers.RedpandaContainer
	client   *kgo.Client
}

func TestPublisherSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(PublisherSuite))
}

func (s *PublisherSuite) SetupSuite() {
	s.redpanda = containers.GetManager().GetRedpanda(s.T())
	client, err := kafka.NewClient(config.KafkaConfig{Brokers: s.redpanda.Brokers, Topic: topic})
	s.Require().NoError(err)
	s.client = client
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	s.Require().NoError(kafka.EnsureTopic(ctx, s.client, topic, 1, 1))
	// Creating it twice is fine.
	s.Require().NoError(kafka.EnsureTopic(ctx, s.client, topic, 1, 1))
}

func (s *PublisherSuite) TearDownSuite() {
	if s.client != nil {
		s.client.Close()
	}
}

func (s *PublisherSuite) TestCommittedRecordReachesTopic() {
	ob, err := outbox.Open(s.T().TempDir())
	s.Require().NoError(err)
	defer ob.Close()

	rec := &models.Record{
		ID:            models.RecordIDFor("h1", "m-int"),
		TenantID:      "h1",
		MatchID:       "m-int",
		DonorID:       "D1",
		DonorName:     "Dana",
		RecipientID:   "R1",
		RecipientName: "Remy",
		Organ:         matching.OrganLiver,
		MatchedAt:     time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC),
		CommittedAt:   time.Date(2026, 5, 1, 1, 0, 0, 0, time.UTC),
	}
	s.Require().NoError(ob.Enqueue(rec))

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	acked, err := publisher.New(s.client, ob, topic).Drain(ctx)
	s.Require().NoError(err)
	s.Equal(1, acked)

	consumer, err := kgo.NewClient(
		kgo.SeedBrokers(s.redpanda.Brokers...),
		kgo.ConsumeTopics(topic),
		kgo.ConsumeResetOffset(kgo.NewOffset().AtStart()),
	)
	s.Require().NoError(err)
	defer consumer.Close()

	var got models.Record
	for got.ID == "" {
		fetches := consumer.PollFetches(ctx)
		s.Require().NoError(ctx.Err())
		fetches.EachRecord(func(r *kgo.Record) {
			if string(r.Key) == rec.ID.String() {
				s.Require().NoError(json.Unmarshal(r.Value, &got))
			}
		})
	}
	s.Equal(*rec, got)
}
