package portfolio

import (
	"context"
	"fmt"

	"github.com/khoahotran/career-studio/internal/domain/portfolio"
)

const maxPageSize = 100

type ListPublicPortfoliosUseCase struct {
	portfolioRepo portfolio.Repository
}

func NewListPublicPortfoliosUseCase(repo portfolio.Repository) *ListPublicPortfoliosUseCase {
	return &ListPublicPortfoliosUseCase{portfolioRepo: repo}
}

type ListPublicPortfoliosInput struct {
	Page  int
	Limit int
}

type ListPublicPortfoliosOutput struct {
	Portfolios []portfolio.Summary
	Page       int
	Limit      int
}

func (uc *ListPublicPortfoliosUseCase) Execute(ctx context.Context, input ListPublicPortfoliosInput) (*ListPublicPortfoliosOutput, error) {
	if input.Page < 1 {
		input.Page = 1
	}
	if input.Limit < 1 {
		input.Limit = 10
	}
	if input.Limit > maxPageSize {
		input.Limit = maxPageSize
	}
	offset := (input.Page - 1) * input.Limit

	items, err := uc.portfolioRepo.ListPublic(ctx, input.Limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list public portfolios failed: %w", err)
	}
	if items == nil {
		items = []portfolio.Summary{}
	}
	return &ListPublicPortfoliosOutput{Portfolios: items, Page: input.Page, Limit: input.Limit}, nil
}
