package handlers

import (
	"errors"
	"io"
	"net/http"

	"github.com/anonto42/snapfeed/backend/internal/models"
	"github.com/anonto42/snapfeed/backend/internal/services"
	"github.com/labstack/echo/v4"
)

// MaxUploadBytes bounds the whole multipart body of an upload. Anything larger is
// rejected as an oversized image without being read.
const MaxUploadBytes = 32 << 20

var errImageTooLarge = &services.Error{Kind: services.KindInvalidInput, Reason: services.ReasonImageTooLarge, Message: "image must be 5MB or smaller"}

// PostHandler handles post creation, caption edits and deletion
type PostHandler struct {
	posts    PostService
	accounts AccountService
}

// NewPostHandler creates a new PostHandler
func NewPostHandler(posts PostService, accounts AccountService) *PostHandler {
	return &PostHandler{posts: posts, accounts: accounts}
}

// RegisterPostRoutes registers post-related routes
func (h *PostHandler) RegisterPostRoutes(g *echo.Group, auth RouteAuth) {
	g.POST("/posts", h.CreatePost, auth.Required)
	g.PUT("/posts/:id", h.UpdatePost, auth.Required)
	g.DELETE("/posts/:id", h.DeletePost, auth.Required)
}

// CreatePost accepts a multipart form with an image file and an optional caption
func (h *PostHandler) CreatePost(c echo.Context) error {
	user, err := currentUser(c, h.accounts)
	if err != nil {
		return err
	}

	req := c.Request()
	if req.ContentLength > MaxUploadBytes {
		return errImageTooLarge
	}
	req.Body = http.MaxBytesReader(c.Response(), req.Body, MaxUploadBytes)

	fileHeader, err := c.FormFile("image")
	if err != nil {
		var maxErr *http.MaxBytesError
		switch {
		case errors.As(err, &maxErr):
			return errImageTooLarge
		case errors.Is(err, http.ErrMissingFile):
			return &services.Error{Kind: services.KindInvalidInput, Reason: services.ReasonMissingImage, Message: "image is required"}
		}
		return badRequest("invalid multipart form")
	}
	if fileHeader.Size > models.MaxImageBytes {
		return errImageTooLarge
	}

	file, err := fileHeader.Open()
	if err != nil {
		return badRequest("unable to read image")
	}
	defer file.Close()

	// one byte past the limit is enough for the service to reject it
	data, err := io.ReadAll(io.LimitReader(file, models.MaxImageBytes+1))
	if err != nil {
		return badRequest("unable to read image")
	}

	in := services.NewPost{Filename: fileHeader.Filename, Data: data}
	if caption := c.FormValue("caption"); caption != "" {
		in.Caption = &caption
	}

	post, err := h.posts.CreatePost(c.Request().Context(), user, in)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, echo.Map{"success": true, "post": post})
}

// UpdatePost replaces the caption of the caller's post
func (h *PostHandler) UpdatePost(c echo.Context) error {
	postID, err := idParam(c, "id")
	if err != nil {
		return err
	}
	var req models.UpdatePostRequest
	if err := c.Bind(&req); err != nil {
		return badRequest("invalid request payload")
	}

	user, err := currentUser(c, h.accounts)
	if err != nil {
		return err
	}
	post, err := h.posts.EditPost(c.Request().Context(), user.ID, postID, req.Caption)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "post": post})
}

// DeletePost removes the caller's post
func (h *PostHandler) DeletePost(c echo.Context) error {
	postID, err := idParam(c, "id")
	if err != nil {
		return err
	}
	user, err := currentUser(c, h.accounts)
	if err != nil {
		return err
	}
	if err := h.posts.DeletePost(c.Request().Context(), user.ID, postID); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true})
}
