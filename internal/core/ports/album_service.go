package ports

import (
	"context"

	"github.com/dkv3/class-site/internal/core/domain"
)

type AlbumService interface {
	// ListPhotos scans the album directory. It never fails on a missing
	// or unreadable directory; the result is then empty.
	ListPhotos(ctx context.Context) ([]domain.Photo, error)
	ListLinked(ctx context.Context) ([]domain.LinkedPhoto, error)
	AddLinked(ctx context.Context, sess *domain.Session, link, title string) (*domain.LinkedPhoto, error)
}
