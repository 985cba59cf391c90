package handlers

import (
	"net/http"

	"github.com/anonto42/snapfeed/backend/internal/services"
	"github.com/labstack/echo/v4"
)

// FeedHandler serves the read side of posts
type FeedHandler struct {
	feed     FeedService
	accounts AccountService
}

// NewFeedHandler creates a new FeedHandler
func NewFeedHandler(feed FeedService, accounts AccountService) *FeedHandler {
	return &FeedHandler{feed: feed, accounts: accounts}
}

// RegisterFeedRoutes registers feed-related routes
func (h *FeedHandler) RegisterFeedRoutes(g *echo.Group, auth RouteAuth) {
	g.GET("/posts", h.GetFeed, auth.Optional)
	g.GET("/posts/:id", h.GetPost, auth.Optional)
}

// GetFeed returns one page of enriched posts, optionally filtered by author external id
func (h *FeedHandler) GetFeed(c echo.Context) error {
	page, err := h.feed.GetFeed(c.Request().Context(), services.FeedQuery{
		Page:             intQuery(c, "page"),
		Limit:            intQuery(c, "limit"),
		AuthorExternalID: c.QueryParam("userId"),
		ViewerID:         viewerID(c, h.accounts),
	})
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, echo.Map{
		"posts": page.Posts,
		"pagination": echo.Map{
			"page":    page.Page,
			"limit":   page.Limit,
			"total":   len(page.Posts),
			"hasMore": page.HasMore,
		},
	})
}

// GetPost returns one post with its full comment list
func (h *FeedHandler) GetPost(c echo.Context) error {
	postID, err := idParam(c, "id")
	if err != nil {
		return err
	}
	post, err := h.feed.GetPost(c.Request().Context(), postID, viewerID(c, h.accounts))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, post)
}
