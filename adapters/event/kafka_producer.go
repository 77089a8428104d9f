package event

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	"github.com/khoahotran/career-studio/internal/application/service"
	"github.com/khoahotran/career-studio/internal/config"
	"github.com/khoahotran/career-studio/pkg/logger"
)

const (
	TopicPortfolioEvents = "portfolio.events"
)

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

type KafkaProducerClient struct {
	PortfolioEventsWriter messageWriter
	logger                logger.Logger
}

func NewKafkaProducerClient(cfg config.Config, log logger.Logger) (*KafkaProducerClient, error) {
	brokers := cfg.Kafka.Brokers
	if len(brokers) == 0 {
		return nil, fmt.Errorf("config Kafka brokers not found")
	}

	// writer 'portfolio.events'
	portfolioWriter := &kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Topic:                  TopicPortfolioEvents,
		Balancer:               &kafka.Hash{},
		AllowAutoTopicCreation: true,
	}

	log.Info("Initialize Kafka Producers successfully.", zap.Strings("brokers", brokers))

	return &KafkaProducerClient{
		PortfolioEventsWriter: portfolioWriter,
		logger:                log,
	}, nil
}

// PublishPortfolioEvent keys messages by owner so one owner's events stay ordered.
func (c *KafkaProducerClient) PublishPortfolioEvent(ctx context.Context, ev service.PortfolioEvent) error {
	value, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("marshal portfolio event: %w", err)
	}

	err = c.PortfolioEventsWriter.WriteMessages(ctx, kafka.Message{
		Key:   []byte(ev.OwnerID.String()),
		Value: value,
	})
	if err != nil {
		return fmt.Errorf("write portfolio event: %w", err)
	}
	return nil
}

func (c *KafkaProducerClient) Close() {
	if c.PortfolioEventsWriter != nil {
		if err := c.PortfolioEventsWriter.Close(); err != nil {
			c.logger.Warn("Failed to close Kafka writer", zap.Error(err))
		}
	}
	c.logger.Info("Closed Kafka Producers")
}
