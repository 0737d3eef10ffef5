package storage

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/dkv3/class-site/internal/core/domain"
	"github.com/dkv3/class-site/internal/core/ports"
)

var _ ports.UserDirectory = (*UserDirectory)(nil)

// UserDirectory stores the whole directory as one JSON array under a site key.
type UserDirectory struct {
	kv  ports.KeyValueStore
	log zerolog.Logger
}

func NewUserDirectory(kv ports.KeyValueStore, log zerolog.Logger) *UserDirectory {
	return &UserDirectory{kv: kv, log: log}
}

// List returns the stored directory. A blob that does not decode is logged and
// read as empty.
func (d *UserDirectory) List(ctx context.Context) (domain.Directory, error) {
	raw, ok, err := d.kv.Get(ctx, SiteKey(KeyUsers))
	if err != nil {
		return nil, fmt.Errorf("load users: %w", err)
	}
	if !ok {
		return domain.Directory{}, nil
	}

	var dir domain.Directory
	if err := json.Unmarshal([]byte(raw), &dir); err != nil {
		d.log.Warn().Err(err).Str("key", KeyUsers).Msg("malformed user directory, reading as empty")
		return domain.Directory{}, nil
	}
	if dir == nil {
		dir = domain.Directory{}
	}
	return dir, nil
}

func (d *UserDirectory) Save(ctx context.Context, dir domain.Directory) error {
	if dir == nil {
		dir = domain.Directory{}
	}
	data, err := json.Marshal(dir)
	if err != nil {
		return fmt.Errorf("encode users: %w", err)
	}
	if err := d.kv.Set(ctx, SiteKey(KeyUsers), string(data), 0); err != nil {
		return fmt.Errorf("save users: %w", err)
	}
	return nil
}
