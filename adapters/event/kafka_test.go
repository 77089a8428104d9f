package event

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/khoahotran/career-studio/internal/application/service"
	"github.com/khoahotran/career-studio/pkg/logger"
)

type captureWriter struct {
	msgs []kafka.Message
}

func (w *captureWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	w.msgs = append(w.msgs, msgs...)
	return nil
}

func (w *captureWriter) Close() error { return nil }

type scriptedReader struct {
	queue     []kafka.Message
	committed []int64
}

func (r *scriptedReader) FetchMessage(context.Context) (kafka.Message, error) {
	if len(r.queue) == 0 {
		return kafka.Message{}, io.EOF
	}
	msg := r.queue[0]
	r.queue = r.queue[1:]
	return msg, nil
}

func (r *scriptedReader) CommitMessages(_ context.Context, msgs ...kafka.Message) error {
	for _, m := range msgs {
		r.committed = append(r.committed, m.Offset)
	}
	return nil
}

func (r *scriptedReader) Close() error { return nil }

func TestPublishPortfolioEvent(t *testing.T) {
	w := &captureWriter{}
	client := &KafkaProducerClient{PortfolioEventsWriter: w, logger: logger.NewNop()}

	ev := service.PortfolioEvent{
		EventType:  service.PortfolioEventSaved,
		OwnerID:    uuid.New(),
		Slug:       "jane",
		OccurredAt: time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC),
	}
	require.NoError(t, client.PublishPortfolioEvent(context.Background(), ev))

	require.Len(t, w.msgs, 1)
	assert.Equal(t, ev.OwnerID.String(), string(w.msgs[0].Key))

	var payload map[string]any
	require.NoError(t, json.Unmarshal(w.msgs[0].Value, &payload))
	assert.Equal(t, "portfolio.saved", payload["event_type"])
	assert.Equal(t, "jane", payload["slug"])
	assert.Equal(t, "2024-05-01T10:00:00Z", payload["occurred_at"])
}

func TestPortfolioConsumer_CommitsHandledAndPoisonMessages(t *testing.T) {
	good, err := json.Marshal(service.PortfolioEvent{EventType: service.PortfolioEventSaved, OwnerID: uuid.New()})
	require.NoError(t, err)
	failing, err := json.Marshal(service.PortfolioEvent{EventType: service.PortfolioEventSaved, Slug: "fail"})
	require.NoError(t, err)

	reader := &scriptedReader{queue: []kafka.Message{
		{Offset: 1, Value: good},
		{Offset: 2, Value: []byte("{not json")},
		{Offset: 3, Value: failing},
	}}
	consumer := &PortfolioConsumer{reader: reader, logger: logger.NewNop(), attempts: 3, backoff: time.Millisecond}

	var handled []string
	err = consumer.Run(context.Background(), func(_ context.Context, ev service.PortfolioEvent) error {
		handled = append(handled, ev.Slug)
		if ev.Slug == "fail" {
			return errors.New("storage down")
		}
		return nil
	})
	require.NoError(t, err)

	assert.Equal(t, []string{"", "fail", "fail", "fail"}, handled)
	assert.Equal(t, []int64{1, 2, 3}, reader.committed)
}

func TestPortfolioConsumer_RetriesTransientFailure(t *testing.T) {
	body, err := json.Marshal(service.PortfolioEvent{EventType: service.PortfolioEventSaved, Slug: "jane"})
	require.NoError(t, err)

	reader := &scriptedReader{queue: []kafka.Message{{Offset: 7, Value: body}}}
	consumer := &PortfolioConsumer{reader: reader, logger: logger.NewNop(), attempts: 3, backoff: time.Millisecond}

	calls := 0
	err = consumer.Run(context.Background(), func(context.Context, service.PortfolioEvent) error {
		calls++
		if calls < 3 {
			return errors.New("cloudinary timeout")
		}
		return nil
	})
	require.NoError(t, err)

	assert.Equal(t, 3, calls)
	assert.Equal(t, []int64{7}, reader.committed)
}

func TestPortfolioConsumer_CancelDuringBackoffLeavesOffset(t *testing.T) {
	body, err := json.Marshal(service.PortfolioEvent{EventType: service.PortfolioEventSaved, Slug: "jane"})
	require.NoError(t, err)

	reader := &scriptedReader{queue: []kafka.Message{{Offset: 9, Value: body}}}
	consumer := &PortfolioConsumer{reader: reader, logger: logger.NewNop(), attempts: 5, backoff: time.Hour}

	ctx, cancel := context.WithCancel(context.Background())
	calls := 0
	err = consumer.Run(ctx, func(context.Context, service.PortfolioEvent) error {
		calls++
		cancel()
		return errors.New("storage down")
	})
	require.NoError(t, err)

	assert.Equal(t, 1, calls)
	assert.Empty(t, reader.committed)
}
