package http

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	portfolioUC "github.com/khoahotran/career-studio/internal/application/usecase/portfolio"
	"github.com/khoahotran/career-studio/pkg/logger"
)

type PortfolioHandler struct {
	getPublicUseCase  *portfolioUC.GetPublicPortfolioUseCase
	listPublicUseCase *portfolioUC.ListPublicPortfoliosUseCase
	feedUseCase       *portfolioUC.FeedUseCase
	logger            logger.Logger
}

func NewPortfolioHandler(
	getUC *portfolioUC.GetPublicPortfolioUseCase,
	listUC *portfolioUC.ListPublicPortfoliosUseCase,
	feedUC *portfolioUC.FeedUseCase,
	log logger.Logger,
) *PortfolioHandler {
	return &PortfolioHandler{
		getPublicUseCase:  getUC,
		listPublicUseCase: listUC,
		feedUseCase:       feedUC,
		logger:            log,
	}
}

func (h *PortfolioHandler) ListPublic(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))

	output, err := h.listPublicUseCase.Execute(c.Request.Context(), portfolioUC.ListPublicPortfoliosInput{
		Page:  page,
		Limit: limit,
	})
	if err != nil {
		c.Error(err)
		return
	}

	items := make([]PortfolioSummaryDTO, len(output.Portfolios))
	for i, s := range output.Portfolios {
		items[i] = ToPortfolioSummaryDTO(s)
	}
	c.JSON(http.StatusOK, gin.H{
		"data":  items,
		"page":  output.Page,
		"limit": output.Limit,
	})
}

func (h *PortfolioHandler) GetPublic(c *gin.Context) {
	output, err := h.getPublicUseCase.Execute(c.Request.Context(), portfolioUC.GetPublicPortfolioInput{
		Slug: c.Param("slug"),
	})
	if err != nil {
		c.Error(err)
		return
	}

	if output.Cached {
		c.Header("X-Cache", "HIT")
	} else {
		c.Header("X-Cache", "MISS")
	}
	c.JSON(http.StatusOK, ToPublicPortfolioDTO(output.Portfolio))
}

func (h *PortfolioHandler) Feed(c *gin.Context) {
	feed, err := h.feedUseCase.Execute(c.Request.Context(), portfolioUC.FeedInput{Slug: c.Param("slug")})
	if err != nil {
		c.Error(err)
		return
	}

	c.Header("Content-Type", "application/rss+xml; charset=utf-8")
	if err := feed.WriteRss(c.Writer); err != nil {
		h.logger.Error("Failed to write RSS feed to response", err)
	}
}
