package queue

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/dkv3/class-site/internal/core/domain"
	"github.com/dkv3/class-site/internal/core/ports"
)

// LogRepository writes activity events to the structured log. It backs the
// audit trail when no database is configured.
type LogRepository struct {
	log zerolog.Logger
}

func NewLogRepository(log zerolog.Logger) ports.ActivityRepository {
	return &LogRepository{log: log}
}

func (r *LogRepository) Insert(_ context.Context, event *domain.ActivityEvent) error {
	r.log.Info().
		Str("username", event.Username).
		Str("client_id", event.ClientID).
		Str("action", string(event.Action)).
		Str("detail", event.Detail).
		Time("at", event.At).
		Msg("activity")
	return nil
}
