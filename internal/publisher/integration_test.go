//go:build integration

package publisher

import (
	"context"
	"encoding/json"
	"log/slog"
	"os"
	"testing"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/rabbitmq"
	"github.com/testcontainers/testcontainers-go/wait"

	"jobradar/internal/domain"
)

type RabbitMQIntegrationSuite struct {
	suite.Suite
	ctx       context.Context
	container *rabbitmq.RabbitMQContainer
	amqpURL   string
	logger    *slog.Logger
}

func (s *RabbitMQIntegrationSuite) SetupSuite() {
	s.ctx = context.Background()
	s.logger = slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))

	container, err := rabbitmq.Run(s.ctx,
		"rabbitmq:3.13-management-alpine",
		testcontainers.WithWaitStrategy(
			wait.ForLog("Server startup complete").
				WithStartupTimeout(60*time.Second),
		),
	)
	s.Require().NoError(err)
	s.container = container

	amqpURL, err := container.AmqpURL(s.ctx)
	s.Require().NoError(err)
	s.amqpURL = amqpURL
}

func (s *RabbitMQIntegrationSuite) TearDownSuite() {
	if s.container != nil {
		_ = s.container.Terminate(s.ctx)
	}
}

func TestRabbitMQIntegrationSuite(t *testing.T) {
	suite.Run(t, new(RabbitMQIntegrationSuite))
}

func (s *RabbitMQIntegrationSuite) consumeMessage(cfg Config) *amqp.Delivery {
	conn, err := amqp.Dial(s.amqpURL)
	s.Require().NoError(err)
	defer conn.Close()

	ch, err := conn.Channel()
	s.Require().NoError(err)
	defer ch.Close()

	deliveries, err := ch.Consume(cfg.QueueName, "", true, false, false, false, nil)
	s.Require().NoError(err)

	select {
	case msg := <-deliveries:
		return &msg
	case <-time.After(5 * time.Second):
		s.Fail("no message received")
		return nil
	}
}

func (s *RabbitMQIntegrationSuite) TestPublisher_Connection() {
	cfg := Config{
		URL:        s.amqpURL,
		Exchange:   "test-exchange",
		RoutingKey: "test-routing-key",
		QueueName:  "test-queue",
	}

	pub, err := NewRabbitMQ(cfg, s.logger)
	s.NoError(err)
	s.NotNil(pub)

	err = pub.Close()
	s.NoError(err)
}

func (s *RabbitMQIntegrationSuite) TestPublisher_PublishCreated() {
	cfg := Config{
		URL:        s.amqpURL,
		Exchange:   "test-exchange-created",
		RoutingKey: "test-routing-key-created",
		QueueName:  "test-queue-created",
	}

	pub, err := NewRabbitMQ(cfg, s.logger)
	s.Require().NoError(err)
	defer pub.Close()

	now := time.Now().UTC().Truncate(time.Millisecond)
	event := &domain.JobEvent{
		Action: domain.JobCreated,
		Job: &domain.CanonicalJob{
			ID:             7,
			Title:          "Senior Go Developer",
			Company:        "Acme",
			Location:       "Austin, TX",
			SeniorityLevel: "Senior",
			JobType:        "Engineering",
			FirstSeen:      now,
			LastSeen:       now,
		},
		RawPostingID:    42,
		SimilarityScore: 1.0,
		Timestamp:       now,
	}

	s.NoError(pub.PublishJobEvent(s.ctx, event))

	msg := s.consumeMessage(cfg)
	s.Require().NotNil(msg)
	s.Equal("application/json", msg.ContentType)
	s.Equal(uint8(amqp.Persistent), msg.DeliveryMode)

	var received domain.JobEvent
	s.NoError(json.Unmarshal(msg.Body, &received))
	s.Equal(domain.JobCreated, received.Action)
	s.Equal(int64(7), received.Job.ID)
	s.Equal("Senior Go Developer", received.Job.Title)
	s.Equal(int64(42), received.RawPostingID)
	s.InDelta(1.0, received.SimilarityScore, 1e-9)
	s.False(received.Timestamp.IsZero())
}

func (s *RabbitMQIntegrationSuite) TestPublisher_PublishMatched() {
	cfg := Config{
		URL:        s.amqpURL,
		Exchange:   "test-exchange-matched",
		RoutingKey: "test-routing-key-matched",
		QueueName:  "test-queue-matched",
	}

	pub, err := NewRabbitMQ(cfg, s.logger)
	s.Require().NoError(err)
	defer pub.Close()

	event := &domain.JobEvent{
		Action:          domain.JobMatched,
		Job:             &domain.CanonicalJob{ID: 5, Title: "Engineer"},
		RawPostingID:    43,
		SimilarityScore: 0.85,
		Timestamp:       time.Now().UTC(),
	}

	s.NoError(pub.PublishJobEvent(s.ctx, event))

	var received domain.JobEvent
	msg := s.consumeMessage(cfg)
	s.Require().NotNil(msg)
	s.NoError(json.Unmarshal(msg.Body, &received))
	s.Equal(domain.JobMatched, received.Action)
	s.InDelta(0.85, received.SimilarityScore, 1e-9)
}
