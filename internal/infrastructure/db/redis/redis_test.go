package redis

import (
	"context"
	"os"
	"testing"
	"time"
)

func TestStore_Key(t *testing.T) {
	s := NewStore(nil, "dkv3:")
	if got := s.key("site:dkv3_users"); got != "dkv3:site:dkv3_users" {
		t.Fatalf("unexpected key: %s", got)
	}
}

// TestStore_RoundTrip runs against a live server when REDIS_TEST_ADDR is set.
func TestStore_RoundTrip(t *testing.T) {
	addr := os.Getenv("REDIS_TEST_ADDR")
	if addr == "" {
		t.Skip("REDIS_TEST_ADDR not set")
	}
	ctx := context.Background()

	client, err := Connect(ctx, Config{Addr: addr})
	if err != nil {
		t.Fatalf("Connect: %v", err)
	}
	defer client.Close()

	s := NewStore(client, "test:"+t.Name()+":")
	defer s.Delete(ctx, "k")

	if _, ok, err := s.Get(ctx, "k"); err != nil || ok {
		t.Fatalf("expected missing key, got ok=%v err=%v", ok, err)
	}
	if err := s.Set(ctx, "k", "v", time.Minute); err != nil {
		t.Fatalf("Set: %v", err)
	}
	v, ok, err := s.Get(ctx, "k")
	if err != nil || !ok || v != "v" {
		t.Fatalf("Get = %q %v %v", v, ok, err)
	}
	if err := s.Delete(ctx, "k"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, ok, _ := s.Get(ctx, "k"); ok {
		t.Fatalf("key still present after delete")
	}
}
