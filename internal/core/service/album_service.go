package service

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"os"
	"path"
	"regexp"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"github.com/rs/zerolog"

	"github.com/dkv3/class-site/internal/core/domain"
	"github.com/dkv3/class-site/internal/core/ports"
)

var _ ports.AlbumService = (*AlbumService)(nil)

// imageExtensions is matched against the lower-cased file extension.
var imageExtensions = map[string]struct{}{
	"jpg":  {},
	"jpeg": {},
	"png":  {},
	"gif":  {},
	"webp": {},
}

// AlbumOptions locates the album on disk and on the site.
type AlbumOptions struct {
	Dir         string
	PublicPath  string
	Description string
	Metrics     Metrics
}

// AlbumService lists the photos of the album directory and the linked photos
// curated by admins.
type AlbumService struct {
	dir         string
	publicPath  string
	description string
	links       ports.AlbumLinkStore
	metrics     Metrics
	log         zerolog.Logger
	now         func() time.Time
}

func NewAlbumService(links ports.AlbumLinkStore, log zerolog.Logger, opts AlbumOptions) *AlbumService {
	s := &AlbumService{
		dir:         opts.Dir,
		publicPath:  strings.TrimRight(opts.PublicPath, "/"),
		description: opts.Description,
		links:       links,
		metrics:     opts.Metrics,
		log:         log,
		now:         time.Now,
	}
	if s.description == "" {
		s.description = domain.DefaultPhotoDescription
	}
	if s.metrics == nil {
		s.metrics = nopMetrics{}
	}
	return s
}

// ListPhotos scans the album directory on every call. Entries are in filename
// order; ids are 1-based positions among the included images.
func (s *AlbumService) ListPhotos(_ context.Context) ([]domain.Photo, error) {
	start := time.Now()
	photos := []domain.Photo{}

	entries, err := os.ReadDir(s.dir)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			s.log.Warn().Err(err).Str("dir", s.dir).Msg("album directory unreadable")
		}
		s.metrics.AlbumScanned(0, time.Since(start))
		return photos, nil
	}

	for _, entry := range entries {
		if entry.IsDir() || !isImage(entry.Name()) {
			continue
		}
		name := entry.Name()
		photos = append(photos, domain.Photo{
			ID:       len(photos) + 1,
			Filename: name,
			Src:      s.publicPath + "/" + name,
			Title:    PhotoTitle(name),
			Desc:     s.description,
		})
	}

	s.metrics.AlbumScanned(len(photos), time.Since(start))
	return photos, nil
}

func isImage(name string) bool {
	ext := strings.TrimPrefix(path.Ext(name), ".")
	if ext == "" {
		return false
	}
	_, ok := imageExtensions[strings.ToLower(ext)]
	return ok
}

// PhotoTitle derives a display title from a filename:
// "Orion_Nebula.jpg" becomes "Orion nebula".
func PhotoTitle(filename string) string {
	base := strings.TrimSuffix(filename, path.Ext(filename))
	base = strings.NewReplacer("_", " ", "-", " ").Replace(base)
	base = strings.ToLower(base)

	r, size := utf8.DecodeRuneInString(base)
	if r == utf8.RuneError {
		return base
	}
	return string(unicode.ToUpper(r)) + base[size:]
}

func (s *AlbumService) ListLinked(ctx context.Context) ([]domain.LinkedPhoto, error) {
	links, err := s.links.ListLinks(ctx)
	if err != nil {
		return nil, fmt.Errorf("list linked photos: %w", err)
	}
	return links, nil
}

// AddLinked appends an external photo. Only admins may curate the album.
func (s *AlbumService) AddLinked(ctx context.Context, sess *domain.Session, link, title string) (*domain.LinkedPhoto, error) {
	if !sess.IsAdmin() {
		return nil, domain.ErrForbidden
	}
	link = strings.TrimSpace(link)
	if link == "" {
		return nil, fmt.Errorf("add linked photo: %w: link is required", domain.ErrInvalidInput)
	}
	direct := ConvertDriveLink(link)
	if u, err := url.Parse(direct); err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return nil, fmt.Errorf("add linked photo: %w: link must be an http(s) URL", domain.ErrInvalidInput)
	}

	links, err := s.links.ListLinks(ctx)
	if err != nil {
		return nil, fmt.Errorf("add linked photo: %w", err)
	}
	photo := domain.LinkedPhoto{
		Title:   strings.TrimSpace(title),
		URL:     direct,
		AddedBy: sess.Username(),
		AddedAt: s.now().UTC(),
	}
	links = append(links, photo)
	if err := s.links.SaveLinks(ctx, links); err != nil {
		return nil, fmt.Errorf("add linked photo: %w", err)
	}

	s.log.Info().Str("url", photo.URL).Str("by", photo.AddedBy).Msg("linked photo added")
	return &photo, nil
}

var (
	drivePathID  = regexp.MustCompile(`/d/([^/]+)`)
	driveQueryID = regexp.MustCompile(`[?&]id=([^&]+)`)
)

// ConvertDriveLink rewrites a Google Drive share link into a direct-view
// link. Other links are returned unchanged.
func ConvertDriveLink(link string) string {
	if link == "" {
		return ""
	}
	var id string
	if m := drivePathID.FindStringSubmatch(link); m != nil {
		id = m[1]
	} else if m := driveQueryID.FindStringSubmatch(link); m != nil {
		id = m[1]
	}
	if id == "" {
		return link
	}
	return "https://drive.google.com/uc?export=view&id=" + id
}
