package storage

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/dkv3/class-site/internal/core/domain"
	"github.com/dkv3/class-site/internal/core/ports"
)

var _ ports.AlbumLinkStore = (*AlbumLinks)(nil)

// AlbumLinks stores the linked photo list under the shared album key.
type AlbumLinks struct {
	kv  ports.KeyValueStore
	log zerolog.Logger
}

func NewAlbumLinks(kv ports.KeyValueStore, log zerolog.Logger) *AlbumLinks {
	return &AlbumLinks{kv: kv, log: log}
}

func (a *AlbumLinks) ListLinks(ctx context.Context) ([]domain.LinkedPhoto, error) {
	raw, ok, err := a.kv.Get(ctx, SiteKey(KeyAlbumPhotos))
	if err != nil {
		return nil, fmt.Errorf("load album links: %w", err)
	}
	links := []domain.LinkedPhoto{}
	if !ok {
		return links, nil
	}
	if err := json.Unmarshal([]byte(raw), &links); err != nil {
		a.log.Warn().Err(err).Str("key", KeyAlbumPhotos).Msg("malformed album links, reading as empty")
		return []domain.LinkedPhoto{}, nil
	}
	if links == nil {
		links = []domain.LinkedPhoto{}
	}
	return links, nil
}

func (a *AlbumLinks) SaveLinks(ctx context.Context, links []domain.LinkedPhoto) error {
	data, err := json.Marshal(links)
	if err != nil {
		return fmt.Errorf("encode album links: %w", err)
	}
	if err := a.kv.Set(ctx, SiteKey(KeyAlbumPhotos), string(data), 0); err != nil {
		return fmt.Errorf("save album links: %w", err)
	}
	return nil
}
