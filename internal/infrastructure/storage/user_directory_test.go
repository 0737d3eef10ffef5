package storage

import (
	"context"
	"testing"

	"github.com/rs/zerolog"

	"github.com/dkv3/class-site/internal/core/domain"
)

func TestUserDirectory_RoundTrip(t *testing.T) {
	ctx := context.Background()
	d := NewUserDirectory(NewMemoryStore(), zerolog.Nop())

	dir, err := d.List(ctx)
	if err != nil || len(dir) != 0 {
		t.Fatalf("expected empty directory, got %v %v", dir, err)
	}

	in := domain.Directory{
		{ID: 1, Username: "admin", Role: domain.SomeRole(domain.RoleAdmin)},
		{ID: 2, Username: "lama"},
	}
	if err := d.Save(ctx, in); err != nil {
		t.Fatalf("Save: %v", err)
	}

	out, err := d.List(ctx)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(out) != 2 || out[0].Username != "admin" || !out[0].Role.Is(domain.RoleAdmin) {
		t.Fatalf("unexpected directory: %+v", out)
	}
	if _, ok := out[1].Role.Get(); ok {
		t.Fatalf("missing role must stay missing after a round trip")
	}
}

func TestUserDirectory_MalformedReadsEmpty(t *testing.T) {
	ctx := context.Background()
	kv := NewMemoryStore()
	_ = kv.Set(ctx, SiteKey(KeyUsers), `[{"username":"x","role":5}]`, 0)
	d := NewUserDirectory(kv, zerolog.Nop())

	dir, err := d.List(ctx)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(dir) != 0 {
		t.Fatalf("expected empty directory, got %+v", dir)
	}
}

func TestAlbumLinks_RoundTrip(t *testing.T) {
	ctx := context.Background()
	a := NewAlbumLinks(NewMemoryStore(), zerolog.Nop())

	links, err := a.ListLinks(ctx)
	if err != nil || links == nil || len(links) != 0 {
		t.Fatalf("expected empty list, got %#v %v", links, err)
	}

	if err := a.SaveLinks(ctx, []domain.LinkedPhoto{{Title: "Saturnus", URL: "https://example.com/s.jpg"}}); err != nil {
		t.Fatalf("SaveLinks: %v", err)
	}
	links, err = a.ListLinks(ctx)
	if err != nil || len(links) != 1 || links[0].Title != "Saturnus" {
		t.Fatalf("unexpected links: %+v %v", links, err)
	}
}
