package portfolio

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/gorilla/feeds"
	"go.uber.org/zap"

	"github.com/khoahotran/career-studio/internal/domain/portfolio"
	"github.com/khoahotran/career-studio/pkg/logger"
)

const monthLayout = "2006-01"

type FeedUseCase struct {
	portfolioRepo portfolio.Repository
	baseURL       string
	logger        logger.Logger
}

func NewFeedUseCase(repo portfolio.Repository, baseURL string, log logger.Logger) *FeedUseCase {
	return &FeedUseCase{
		portfolioRepo: repo,
		baseURL:       strings.TrimRight(baseURL, "/"),
		logger:        log,
	}
}

type FeedInput struct {
	Slug string
}

// Execute builds a feed of the projects, positions and certificates of a
// public portfolio, newest first.
func (uc *FeedUseCase) Execute(ctx context.Context, input FeedInput) (*feeds.Feed, error) {
	p, err := uc.portfolioRepo.FindPublicBySlug(ctx, input.Slug)
	if err != nil {
		return nil, err
	}

	link := fmt.Sprintf("%s/p/%s", uc.baseURL, p.Slug)
	title := p.PersonalInfo.FullName
	if title == "" {
		title = p.Slug
	}

	feed := &feeds.Feed{
		Title:       title,
		Link:        &feeds.Link{Href: link},
		Description: p.PersonalInfo.Headline,
		Author:      &feeds.Author{Name: p.PersonalInfo.FullName, Email: p.PersonalInfo.Email},
		Created:     p.CreatedAt,
		Updated:     p.UpdatedAt,
	}

	for _, pr := range p.Projects {
		href := link + "#project-" + pr.ID
		if pr.URL != "" {
			href = pr.URL
		}
		feed.Items = append(feed.Items, &feeds.Item{
			Id:          "project-" + pr.ID,
			Title:       pr.Name,
			Link:        &feeds.Link{Href: href},
			Description: pr.Description,
			Created:     monthOr(pr.StartDate, p.UpdatedAt),
		})
	}
	for _, e := range p.Experience {
		feed.Items = append(feed.Items, &feeds.Item{
			Id:          "experience-" + e.ID,
			Title:       strings.TrimSpace(fmt.Sprintf("%s at %s", e.Position, e.Company)),
			Link:        &feeds.Link{Href: link + "#experience-" + e.ID},
			Description: e.Description,
			Created:     monthOr(e.StartDate, p.UpdatedAt),
		})
	}
	for _, c := range p.Certificates {
		href := link + "#certificate-" + c.ID
		if c.CredentialURL != "" {
			href = c.CredentialURL
		}
		feed.Items = append(feed.Items, &feeds.Item{
			Id:          "certificate-" + c.ID,
			Title:       c.Name,
			Link:        &feeds.Link{Href: href},
			Description: c.Issuer,
			Created:     monthOr(c.IssueDate, p.UpdatedAt),
		})
	}

	sort.SliceStable(feed.Items, func(i, j int) bool {
		return feed.Items[i].Created.After(feed.Items[j].Created)
	})

	uc.logger.Info("Portfolio feed generated", zap.String("slug", p.Slug), zap.Int("item_count", len(feed.Items)))
	return feed, nil
}

func monthOr(value string, fallback time.Time) time.Time {
	t, err := time.Parse(monthLayout, strings.TrimSpace(value))
	if err != nil {
		return fallback
	}
	return t
}
