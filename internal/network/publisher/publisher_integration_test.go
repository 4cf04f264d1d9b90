//go:build integration

package publisher_test

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
	"github.com/twmb/franz-go/pkg/kadm"
	"github.com/twmb/franz-go/pkg/kgo"

	"grantnet/internal/network/models"
	"grantnet/internal/network/publisher"
	"grantnet/pkg/testutil/containers"
)

const topic = "grantnet.analysis.completed.test"

type KafkaPublisherSuite struct {
	suite.Suite
	broker    *containers.RedpandaContainer
	publisher *publisher.KafkaPublisher
}

func TestKafkaPublisherSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(KafkaPublisherSuite))
}

func (s *KafkaPublisherSuite) SetupSuite() {
	s.broker = containers.GetManager().GetRedpanda(s.T())

	admin, err := kgo.NewClient(kgo.SeedBrokers(s.broker.Broker))
	s.Require().NoError(err)
	defer admin.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	_, err = kadm.NewClient(admin).CreateTopics(ctx, 1, 1, nil, topic)
	s.Require().NoError(err)

	s.publisher, err = publisher.NewKafka([]string{s.broker.Broker}, topic)
	s.Require().NoError(err)
}

func (s *KafkaPublisherSuite) TearDownSuite() {
	if s.publisher != nil {
		s.publisher.Close()
	}
}

func (s *KafkaPublisherSuite) TestPublishAnalysis() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	result := &models.AnalysisResult{
		FundersAnalyzed: 2,
		BundledCount:    1,
		Metadata:        models.RunMetadata{RunID: "run-42", CacheKey: "analysis:abc"},
	}
	s.Require().NoError(s.publisher.PublishAnalysis(ctx, result))

	consumer, err := kgo.NewClient(
		kgo.SeedBrokers(s.broker.Broker),
		kgo.ConsumeTopics(topic),
		kgo.ConsumeResetOffset(kgo.NewOffset().AtStart()),
	)
	s.Require().NoError(err)
	defer consumer.Close()

	var record *kgo.Record
	for record == nil && ctx.Err() == nil {
		fetches := consumer.PollFetches(ctx)
		fetches.EachRecord(func(r *kgo.Record) {
			if string(r.Key) == "analysis:abc" {
				record = r
			}
		})
	}
	s.Require().NotNil(record, "completion event not consumed")

	var event publisher.CompletionEvent
	s.Require().NoError(json.Unmarshal(record.Value, &event))
	s.Equal(publisher.EventAnalysisCompleted, event.EventType)
	s.Equal("run-42", event.RunID)
	s.Equal(1, event.Result.BundledCount)
}
