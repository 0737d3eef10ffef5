package ports

import (
	"context"

	"github.com/dkv3/class-site/internal/core/domain"
)

// ActivityRepository writes audit events to durable storage.
type ActivityRepository interface {
	Insert(ctx context.Context, event *domain.ActivityEvent) error
}

// ActivityRecorder accepts audit events without blocking the caller.
type ActivityRecorder interface {
	Record(event domain.ActivityEvent)
}
