package queue

import (
	"context"
	"hash/fnv"
	"strconv"
	"time"

	"github.com/rs/zerolog"

	"github.com/dkv3/class-site/internal/api/metrics"
	"github.com/dkv3/class-site/internal/core/domain"
	"github.com/dkv3/class-site/internal/core/ports"
)

const (
	defaultWorkers = 4
	channelBuffer  = 256
	insertTimeout  = 5 * time.Second
)

var _ ports.ActivityRecorder = (*Dispatcher)(nil)

// Dispatcher routes activity events to a fixed set of workers using
// consistent hashing on the username, keeping each user's events in order.
type Dispatcher struct {
	workers []chan domain.ActivityEvent
	repo    ports.ActivityRepository
	log     zerolog.Logger
}

// NewDispatcher creates a Dispatcher with numWorkers sharded workers.
// If numWorkers <= 0, defaultWorkers is used.
func NewDispatcher(numWorkers int, repo ports.ActivityRepository, log zerolog.Logger) *Dispatcher {
	if numWorkers <= 0 {
		numWorkers = defaultWorkers
	}
	d := &Dispatcher{
		workers: make([]chan domain.ActivityEvent, numWorkers),
		repo:    repo,
		log:     log,
	}
	for i := range d.workers {
		d.workers[i] = make(chan domain.ActivityEvent, channelBuffer)
	}
	return d
}

// Start launches all worker goroutines. Workers stop when ctx is cancelled.
func (d *Dispatcher) Start(ctx context.Context) {
	for i, ch := range d.workers {
		go d.runWorker(ctx, i, ch)
	}
}

// Record hands event to its worker. When the worker's buffer is full the
// event is dropped and logged so request handling never blocks on auditing.
func (d *Dispatcher) Record(event domain.ActivityEvent) {
	idx := d.shardIndex(event.Username)
	select {
	case d.workers[idx] <- event:
		metrics.ActivityQueueDepth.WithLabelValues(strconv.Itoa(idx)).Set(float64(len(d.workers[idx])))
	default:
		metrics.ActivityDroppedTotal.Inc()
		d.log.Warn().
			Str("username", event.Username).
			Str("action", string(event.Action)).
			Int("worker_id", idx).
			Msg("activity queue full, event dropped")
	}
}

// shardIndex maps a username deterministically to a worker index.
func (d *Dispatcher) shardIndex(username string) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(username))
	return int(h.Sum32() % uint32(len(d.workers)))
}

func (d *Dispatcher) runWorker(ctx context.Context, id int, ch <-chan domain.ActivityEvent) {
	label := strconv.Itoa(id)
	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-ch:
			if !ok {
				return
			}
			metrics.ActivityQueueDepth.WithLabelValues(label).Set(float64(len(ch)))

			insertCtx, cancel := context.WithTimeout(ctx, insertTimeout)
			err := d.repo.Insert(insertCtx, &event)
			cancel()
			if err != nil {
				d.log.Error().Err(err).
					Str("username", event.Username).
					Str("action", string(event.Action)).
					Int("worker_id", id).
					Msg("activity insert failed")
			}
		}
	}
}
