//go:build integration

package notify

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
	"github.com/twmb/franz-go/pkg/kgo"

	"lexscreen/pkg/testutil/containers"
)

type KafkaSuite struct {
	suite.Suite
	redpanda *containers.RedpandaContainer
	client   *kgo.Client
}

func TestKafkaSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(KafkaSuite))
}

func (s *KafkaSuite) SetupSuite() {
	s.redpanda = containers.GetManager().GetRedpanda(s.T())
	client, err := NewKafkaClient([]string{s.redpanda.Broker}, "lexscreen-test")
	s.Require().NoError(err)
	s.client = client
}

func (s *KafkaSuite) TearDownSuite() {
	s.client.Close()
}

func (s *KafkaSuite) TestPublishesEvent() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	topic := "screening.records.test"

	s.Require().NoError(EnsureTopic(ctx, s.client, topic, 1, 1))
	s.Require().NoError(EnsureTopic(ctx, s.client, topic, 1, 1), "second create is a no-op")

	r := testRecord()
	s.Require().NoError(NewKafka(s.client, topic).Send(ctx, r))

	consumer, err := kgo.NewClient(
		kgo.SeedBrokers(s.redpanda.Broker),
		kgo.ConsumeTopics(topic),
		kgo.ConsumeResetOffset(kgo.NewOffset().AtStart()),
	)
	s.Require().NoError(err)
	defer consumer.Close()

	fetches := consumer.PollRecords(ctx, 1)
	s.Require().NoError(fetches.Err())
	records := fetches.Records()
	s.Require().Len(records, 1)

	msg := records[0]
	s.Equal(r.ScreeningID.String(), string(msg.Key))
	var e Event
	s.Require().NoError(json.Unmarshal(msg.Value, &e))
	s.Equal(r.ID.String(), e.RecordID)
	s.True(e.ReviewForced)
}
