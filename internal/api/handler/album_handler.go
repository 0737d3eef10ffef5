package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/dkv3/class-site/internal/api/view"
	"github.com/dkv3/class-site/internal/core/domain"
	"github.com/dkv3/class-site/internal/core/ports"
)

// AlbumHandler serves the album gallery and its JSON listing.
type AlbumHandler struct {
	service ports.AlbumService
}

func NewAlbumHandler(service ports.AlbumService) *AlbumHandler {
	return &AlbumHandler{service: service}
}

type addLinkRequest struct {
	URL   string `json:"url"   validate:"required"`
	Title string `json:"title" validate:"max=120"`
}

type albumResponse struct {
	Photos []domain.Photo       `json:"photos"`
	Links  []domain.LinkedPhoto `json:"links"`
	Total  int                  `json:"total"`
}

// Page renders the gallery.
func (h *AlbumHandler) Page(c echo.Context) error {
	photos, links, err := h.load(c)
	if err != nil {
		return err
	}
	return c.Render(http.StatusOK, "album.html", view.AlbumPage{
		Session: ctxSession(c),
		Photos:  photos,
		Links:   links,
	})
}

// List returns the scanned photos and the linked photos.
//
// @Summary      List album photos
// @Tags         album
// @Produce      json
// @Success      200  {object}  albumResponse
// @Failure      401  {object}  map[string]string
// @Router       /api/album [get]
func (h *AlbumHandler) List(c echo.Context) error {
	photos, links, err := h.load(c)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, albumResponse{Photos: photos, Links: links, Total: len(photos) + len(links)})
}

// AddLink adds an externally hosted photo.
//
// @Summary      Add a linked photo
// @Tags         album
// @Accept       json
// @Produce      json
// @Param        body  body      addLinkRequest  true  "Photo link"
// @Success      201   {object}  domain.LinkedPhoto
// @Failure      400   {object}  map[string]string
// @Failure      403   {object}  map[string]string
// @Router       /api/album/links [post]
func (h *AlbumHandler) AddLink(c echo.Context) error {
	var req addLinkRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	photo, err := h.service.AddLinked(c.Request().Context(), ctxSession(c), req.URL, req.Title)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, photo)
}

func (h *AlbumHandler) load(c echo.Context) ([]domain.Photo, []domain.LinkedPhoto, error) {
	ctx := c.Request().Context()
	photos, err := h.service.ListPhotos(ctx)
	if err != nil {
		return nil, nil, err
	}
	links, err := h.service.ListLinked(ctx)
	if err != nil {
		return nil, nil, err
	}
	return photos, links, nil
}
