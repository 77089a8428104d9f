package studio

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/khoahotran/career-studio/internal/domain/collection"
	"github.com/khoahotran/career-studio/internal/domain/portfolio"
)

var ErrSessionNotFound = errors.New("no active studio session")

// Session is the owner's in-progress draft plus the open/collapsed state of
// every section. Open state is never written to the portfolio itself.
type Session struct {
	OwnerID   uuid.UUID                                        `json:"owner_id"`
	Portfolio *portfolio.Portfolio                             `json:"portfolio"`
	Open      map[portfolio.SectionName]*collection.Disclosure `json:"open"`
	Dirty     bool                                             `json:"dirty"`
	StartedAt time.Time                                        `json:"started_at"`
	UpdatedAt time.Time                                        `json:"updated_at"`
}

func NewSession(p *portfolio.Portfolio, now time.Time) *Session {
	p.Normalize()
	return &Session{
		OwnerID:   p.OwnerID,
		Portfolio: p,
		Open:      make(map[portfolio.SectionName]*collection.Disclosure),
		StartedAt: now,
		UpdatedAt: now,
	}
}

// Disclosure returns the open set of a section, creating it on first use.
func (s *Session) Disclosure(name portfolio.SectionName) *collection.Disclosure {
	if s.Open == nil {
		s.Open = make(map[portfolio.SectionName]*collection.Disclosure)
	}
	d, ok := s.Open[name]
	if !ok || d == nil {
		d = collection.NewDisclosure()
		s.Open[name] = d
	}
	return d
}

// MarkChanged flags the draft as having unsaved edits.
func (s *Session) MarkChanged(now time.Time) {
	s.Dirty = true
	s.UpdatedAt = now
}

// Store keeps one draft session per owner.
type Store interface {
	Get(ctx context.Context, ownerID uuid.UUID) (*Session, error)
	Put(ctx context.Context, s *Session) error
	// Update applies fn atomically to the stored session. If fn returns an
	// error nothing is written.
	Update(ctx context.Context, ownerID uuid.UUID, fn func(*Session) error) (*Session, error)
	Delete(ctx context.Context, ownerID uuid.UUID) error
}
