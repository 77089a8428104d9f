package http

import (
	"time"

	"github.com/khoahotran/career-studio/internal/domain/portfolio"
	"github.com/khoahotran/career-studio/internal/domain/studio"
)

// Studio DTOs

type FieldUpdateRequest struct {
	Field string `json:"field" binding:"required"`
	Value any    `json:"value"`
}

type SelectThemeRequest struct {
	Theme string `json:"theme" binding:"required"`
}

type UpdatePublishingRequest struct {
	Slug     string `json:"slug"`
	IsPublic bool   `json:"is_public"`
}

type SessionDTO struct {
	OwnerID   string               `json:"owner_id"`
	Portfolio *portfolio.Portfolio `json:"portfolio"`
	Open      map[string][]string  `json:"open"`
	Dirty     bool                 `json:"dirty"`
	StartedAt time.Time            `json:"started_at"`
	UpdatedAt time.Time            `json:"updated_at"`
}

func ToSessionDTO(s *studio.Session, sections *portfolio.Sections) SessionDTO {
	dto := SessionDTO{
		OwnerID:   s.OwnerID.String(),
		Portfolio: s.Portfolio,
		Open:      make(map[string][]string),
		Dirty:     s.Dirty,
		StartedAt: s.StartedAt,
		UpdatedAt: s.UpdatedAt,
	}
	for _, sec := range sections.All() {
		dto.Open[string(sec.Name())] = s.Disclosure(sec.Name()).IDs()
	}
	return dto
}

// Public portfolio DTOs

type PublicPortfolioDTO struct {
	Slug         string                  `json:"slug"`
	Theme        string                  `json:"theme"`
	PersonalInfo portfolio.PersonalInfo  `json:"personal_info"`
	Education    []portfolio.Education   `json:"education"`
	Experience   []portfolio.Experience  `json:"experience"`
	Projects     []portfolio.Project     `json:"projects"`
	Certificates []portfolio.Certificate `json:"certificates"`
	Skills       []portfolio.Skill       `json:"skills"`
	SocialLinks  []portfolio.SocialLink  `json:"social_links"`
	SnapshotURL  *string                 `json:"snapshot_url,omitempty"`
	UpdatedAt    time.Time               `json:"updated_at"`
}

func ToPublicPortfolioDTO(p *portfolio.Portfolio) PublicPortfolioDTO {
	return PublicPortfolioDTO{
		Slug:         p.Slug,
		Theme:        p.Theme,
		PersonalInfo: p.PersonalInfo,
		Education:    p.Education,
		Experience:   p.Experience,
		Projects:     p.Projects,
		Certificates: p.Certificates,
		Skills:       p.Skills,
		SocialLinks:  p.SocialLinks,
		SnapshotURL:  p.SnapshotURL,
		UpdatedAt:    p.UpdatedAt,
	}
}

type PortfolioSummaryDTO struct {
	Slug      string    `json:"slug"`
	FullName  string    `json:"full_name"`
	Headline  string    `json:"headline"`
	Theme     string    `json:"theme"`
	UpdatedAt time.Time `json:"updated_at"`
}

func ToPortfolioSummaryDTO(s portfolio.Summary) PortfolioSummaryDTO {
	return PortfolioSummaryDTO{
		Slug:      s.Slug,
		FullName:  s.FullName,
		Headline:  s.Headline,
		Theme:     s.Theme,
		UpdatedAt: s.UpdatedAt,
	}
}
