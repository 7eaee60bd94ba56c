package mail

import (
	"context"
	"testing"

	"go.uber.org/zap"

	"github.com/mikey/securelens/internal/adapters/settings"
)

func TestClientIDStore(t *testing.T) {
	ctx := context.Background()
	store := NewClientIDStore(settings.NewMemoryStore(zap.NewNop()), "", zap.NewNop())

	if got := store.Get(ctx); got != DefaultClientID {
		t.Fatalf("expected default client id, got %q", got)
	}

	if err := store.Set(ctx, "  custom-id  "); err != nil {
		t.Fatal(err)
	}
	if got := store.Get(ctx); got != "custom-id" {
		t.Fatalf("expected stored id, got %q", got)
	}

	if err := store.Set(ctx, ""); err != nil {
		t.Fatal(err)
	}
	if got := store.Get(ctx); got != DefaultClientID {
		t.Fatalf("expected default after clearing, got %q", got)
	}
}

func TestClientIDStoreFallback(t *testing.T) {
	store := NewClientIDStore(settings.NewMemoryStore(zap.NewNop()), "configured", zap.NewNop())
	if got := store.Get(context.Background()); got != "configured" {
		t.Fatalf("got %q", got)
	}
}
