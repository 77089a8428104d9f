package event

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"time"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	"github.com/khoahotran/career-studio/internal/application/service"
	"github.com/khoahotran/career-studio/internal/config"
	"github.com/khoahotran/career-studio/pkg/logger"
)

type PortfolioEventHandler func(ctx context.Context, ev service.PortfolioEvent) error

type messageReader interface {
	FetchMessage(ctx context.Context) (kafka.Message, error)
	CommitMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

const (
	defaultHandleAttempts = 3
	defaultRetryBackoff   = 500 * time.Millisecond
)

// PortfolioConsumer feeds 'portfolio.events' to a handler one message at a
// time. A failing handler is retried with doubling backoff; after the last
// attempt the message is committed and dropped, since group offsets are
// cumulative and leaving a hole would not keep it anyway. A dropped save
// leaves a stale snapshot until the owner's next save republishes it.
// Undecodable messages are committed and skipped.
type PortfolioConsumer struct {
	reader   messageReader
	logger   logger.Logger
	attempts int
	backoff  time.Duration
}

func NewPortfolioConsumer(cfg config.Config, log logger.Logger) *PortfolioConsumer {
	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:  cfg.Kafka.Brokers,
		Topic:    TopicPortfolioEvents,
		GroupID:  cfg.Kafka.GroupID,
		MinBytes: 10e3,
		MaxBytes: 10e6,
	})
	return &PortfolioConsumer{
		reader:   reader,
		logger:   log,
		attempts: defaultHandleAttempts,
		backoff:  defaultRetryBackoff,
	}
}

// Run blocks until ctx is cancelled.
func (c *PortfolioConsumer) Run(ctx context.Context, handle PortfolioEventHandler) error {
	c.logger.Info("Worker listening", zap.String("topic", TopicPortfolioEvents))
	for {
		msg, err := c.reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil || errors.Is(err, io.EOF) {
				return nil
			}
			c.logger.Error("Failed to read message from Kafka", err)
			continue
		}

		var ev service.PortfolioEvent
		if err := json.Unmarshal(msg.Value, &ev); err != nil {
			c.logger.Warn("Failed to unmarshal portfolio event, skipping", zap.Int64("offset", msg.Offset), zap.Error(err))
			c.commit(ctx, msg)
			continue
		}

		if err := c.handleWithRetry(ctx, handle, ev); err != nil {
			if ctx.Err() != nil {
				// Uncommitted, so the group redelivers it after restart.
				return nil
			}
			c.logger.Error("Dropping portfolio event after retries", err,
				zap.String("owner_id", ev.OwnerID.String()),
				zap.Int64("offset", msg.Offset))
		}
		c.commit(ctx, msg)
	}
}

func (c *PortfolioConsumer) handleWithRetry(ctx context.Context, handle PortfolioEventHandler, ev service.PortfolioEvent) error {
	attempts := c.attempts
	if attempts < 1 {
		attempts = 1
	}
	wait := c.backoff

	var err error
	for attempt := 1; ; attempt++ {
		if err = handle(ctx, ev); err == nil {
			return nil
		}
		if attempt == attempts {
			return err
		}
		c.logger.Warn("Portfolio event failed, retrying",
			zap.Int("attempt", attempt),
			zap.Duration("backoff", wait),
			zap.Error(err))

		timer := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
		wait *= 2
	}
}

func (c *PortfolioConsumer) Close() error {
	return c.reader.Close()
}

func (c *PortfolioConsumer) commit(ctx context.Context, msg kafka.Message) {
	if err := c.reader.CommitMessages(ctx, msg); err != nil {
		c.logger.Error("Failed to commit message", err, zap.Int64("offset", msg.Offset))
	}
}
