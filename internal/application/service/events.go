package service

import (
	"context"
	"time"

	"github.com/google/uuid"
)

type PortfolioEventType string

const (
	PortfolioEventSaved PortfolioEventType = "portfolio.saved"
)

// PortfolioEvent is published on 'portfolio.events'. PreviousSlug is only set
// when the save renamed the portfolio.
type PortfolioEvent struct {
	EventType    PortfolioEventType `json:"event_type"`
	OwnerID      uuid.UUID          `json:"owner_id"`
	Slug         string             `json:"slug"`
	PreviousSlug string             `json:"previous_slug,omitempty"`
	OccurredAt   time.Time          `json:"occurred_at"`
}

type EventPublisher interface {
	PublishPortfolioEvent(ctx context.Context, ev PortfolioEvent) error
}
