package queue

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/dkv3/class-site/internal/core/domain"
)

type recordingRepo struct {
	mu     sync.Mutex
	events []domain.ActivityEvent
	done   chan struct{}
	want   int
}

func (r *recordingRepo) Insert(_ context.Context, e *domain.ActivityEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, *e)
	if len(r.events) == r.want {
		close(r.done)
	}
	return nil
}

func TestDispatcher_PreservesPerUserOrder(t *testing.T) {
	repo := &recordingRepo{done: make(chan struct{}), want: 6}
	d := NewDispatcher(3, repo, zerolog.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	d.Start(ctx)

	actions := []domain.ActivityAction{domain.ActionRegister, domain.ActionLogin, domain.ActionLogout}
	for _, a := range actions {
		d.Record(domain.ActivityEvent{Username: "siswa", Action: a})
		d.Record(domain.ActivityEvent{Username: "admin", Action: a})
	}

	select {
	case <-repo.done:
	case <-time.After(2 * time.Second):
		t.Fatalf("timed out waiting for events")
	}

	repo.mu.Lock()
	defer repo.mu.Unlock()
	var siswa []domain.ActivityAction
	for _, e := range repo.events {
		if e.Username == "siswa" {
			siswa = append(siswa, e.Action)
		}
	}
	if len(siswa) != len(actions) {
		t.Fatalf("expected %d events for siswa, got %d", len(actions), len(siswa))
	}
	for i := range actions {
		if siswa[i] != actions[i] {
			t.Fatalf("events out of order: %v", siswa)
		}
	}
}

func TestDispatcher_ShardIndexIsStable(t *testing.T) {
	d := NewDispatcher(8, NewLogRepository(zerolog.Nop()), zerolog.Nop())
	first := d.shardIndex("admin")
	for i := 0; i < 10; i++ {
		if d.shardIndex("admin") != first {
			t.Fatalf("shard index changed between calls")
		}
	}
	if first < 0 || first >= 8 {
		t.Fatalf("shard index out of range: %d", first)
	}
}

func TestDispatcher_DropsWhenFull(t *testing.T) {
	d := NewDispatcher(1, NewLogRepository(zerolog.Nop()), zerolog.Nop())
	// Workers are not started, so the buffer fills up.
	for i := 0; i < channelBuffer+10; i++ {
		d.Record(domain.ActivityEvent{Username: "admin", Action: domain.ActionLogin})
	}
	if got := len(d.workers[0]); got != channelBuffer {
		t.Fatalf("expected full buffer of %d, got %d", channelBuffer, got)
	}
}
