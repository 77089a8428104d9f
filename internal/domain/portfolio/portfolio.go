package portfolio

import (
	"context"
	"errors"
	"regexp"
	"time"

	"github.com/google/uuid"
)

const (
	ThemeClassic  = "classic"
	ThemeModern   = "modern"
	ThemeMinimal  = "minimal"
	ThemeCreative = "creative"

	DefaultTheme = ThemeClassic
)

var Themes = []string{ThemeClassic, ThemeModern, ThemeMinimal, ThemeCreative}

type PersonalInfo struct {
	FullName  string `json:"full_name"`
	Headline  string `json:"headline"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
	Location  string `json:"location"`
	Summary   string `json:"summary"`
	Website   string `json:"website"`
	AvatarURL string `json:"avatar_url"`
}

type Portfolio struct {
	OwnerID      uuid.UUID     `json:"owner_id"`
	Slug         string        `json:"slug"`
	Theme        string        `json:"theme"`
	PersonalInfo PersonalInfo  `json:"personal_info"`
	Education    []Education   `json:"education"`
	Experience   []Experience  `json:"experience"`
	Projects     []Project     `json:"projects"`
	Certificates []Certificate `json:"certificates"`
	Skills       []Skill       `json:"skills"`
	SocialLinks  []SocialLink  `json:"social_links"`
	IsPublic     bool          `json:"is_public"`
	SnapshotURL  *string       `json:"snapshot_url"`
	CreatedAt    time.Time     `json:"created_at"`
	UpdatedAt    time.Time     `json:"updated_at"`
}

var (
	ErrInvalidSlug       = errors.New("slug only allows lowercase letters, numbers, and hyphens")
	ErrSlugRequired      = errors.New("a public portfolio needs a slug")
	ErrInvalidTheme      = errors.New("unknown theme")
	ErrPortfolioNotFound = errors.New("portfolio not found")
	slugRegex            = regexp.MustCompile(`^[a-z0-9-]+$`)
)

// New returns an empty portfolio for owner with every collection initialized.
func New(ownerID uuid.UUID, now time.Time) *Portfolio {
	return &Portfolio{
		OwnerID:      ownerID,
		Theme:        DefaultTheme,
		Education:    []Education{},
		Experience:   []Experience{},
		Projects:     []Project{},
		Certificates: []Certificate{},
		Skills:       []Skill{},
		SocialLinks:  []SocialLink{},
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

// Validate checks the publishing settings only. Missing entry fields are
// reported as issues by the schemas and never block a save.
func (p *Portfolio) Validate() error {
	if p.Slug != "" && !slugRegex.MatchString(p.Slug) {
		return ErrInvalidSlug
	}
	if p.IsPublic && p.Slug == "" {
		return ErrSlugRequired
	}
	if !IsTheme(p.Theme) {
		return ErrInvalidTheme
	}
	return nil
}

// Normalize replaces nil collections with empty ones so they encode as [].
func (p *Portfolio) Normalize() {
	if p.Theme == "" {
		p.Theme = DefaultTheme
	}
	if p.Education == nil {
		p.Education = []Education{}
	}
	if p.Experience == nil {
		p.Experience = []Experience{}
	}
	if p.Projects == nil {
		p.Projects = []Project{}
	}
	if p.Certificates == nil {
		p.Certificates = []Certificate{}
	}
	if p.Skills == nil {
		p.Skills = []Skill{}
	}
	if p.SocialLinks == nil {
		p.SocialLinks = []SocialLink{}
	}
}

func IsTheme(name string) bool {
	for _, t := range Themes {
		if t == name {
			return true
		}
	}
	return false
}

// Summary is the list view of a public portfolio.
type Summary struct {
	OwnerID   uuid.UUID `json:"owner_id"`
	Slug      string    `json:"slug"`
	FullName  string    `json:"full_name"`
	Headline  string    `json:"headline"`
	Theme     string    `json:"theme"`
	UpdatedAt time.Time `json:"updated_at"`
}

type Repository interface {
	GetByOwner(ctx context.Context, ownerID uuid.UUID) (*Portfolio, error)
	FindPublicBySlug(ctx context.Context, slug string) (*Portfolio, error)
	Upsert(ctx context.Context, p *Portfolio) error
	SetSnapshotURL(ctx context.Context, ownerID uuid.UUID, url string) error
	ListPublic(ctx context.Context, limit, offset int) ([]Summary, error)
}

// PublicCacheKey is the cache key of the public rendering of slug.
func PublicCacheKey(slug string) string {
	return "portfolio:public:" + slug
}
