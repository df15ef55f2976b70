package session_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/fitpulse/fitpulse-bot/internal/session"
)

func TestMemoryStoreGetMissing(t *testing.T) {
	t.Parallel()

	store := session.NewMemoryStore(0)

	_, err := store.Get(context.Background(), 42)
	if !errors.Is(err, session.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestMemoryStorePutGet(t *testing.T) {
	t.Parallel()

	store := session.NewMemoryStore(0)
	ctx := context.Background()

	sess := &session.Session{ChatID: 1, Program: "onboarding", Step: "await_name"}
	sess.SetAnswer("name", "Anna")

	if err := store.Put(ctx, sess); err != nil {
		t.Fatalf("Put failed: %v", err)
	}

	got, err := store.Get(ctx, 1)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if got.Program != "onboarding" || got.Step != "await_name" {
		t.Errorf("unexpected session: %+v", got)
	}
	if got.Answer("name") != "Anna" {
		t.Errorf("answer not preserved: %+v", got.Answers)
	}
	if got.UpdatedAt.IsZero() {
		t.Error("UpdatedAt not stamped on Put")
	}
}

func TestMemoryStoreGetReturnsCopy(t *testing.T) {
	t.Parallel()

	store := session.NewMemoryStore(0)
	ctx := context.Background()

	if err := store.Put(ctx, &session.Session{ChatID: 1, Program: "support", Step: "loop"}); err != nil {
		t.Fatalf("Put failed: %v", err)
	}

	first, _ := store.Get(ctx, 1)
	first.Step = "mutated"
	first.SetAnswer("k", "v")

	second, _ := store.Get(ctx, 1)
	if second.Step != "loop" {
		t.Errorf("stored session mutated through returned copy: %+v", second)
	}
	if second.Answer("k") != "" {
		t.Errorf("stored answers mutated through returned copy: %+v", second.Answers)
	}
}

func TestMemoryStorePutReplaces(t *testing.T) {
	t.Parallel()

	store := session.NewMemoryStore(0)
	ctx := context.Background()

	_ = store.Put(ctx, &session.Session{ChatID: 1, Program: "onboarding", Step: "await_name"})
	_ = store.Put(ctx, &session.Session{ChatID: 1, Program: "support", Step: "loop"})

	got, err := store.Get(ctx, 1)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if got.Program != "support" {
		t.Errorf("expected replaced session, got %+v", got)
	}
}

func TestMemoryStoreDelete(t *testing.T) {
	t.Parallel()

	store := session.NewMemoryStore(0)
	ctx := context.Background()

	_ = store.Put(ctx, &session.Session{ChatID: 1, Program: "onboarding", Step: "await_name"})

	if err := store.Delete(ctx, 1); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if _, err := store.Get(ctx, 1); !errors.Is(err, session.ErrNotFound) {
		t.Fatalf("expected ErrNotFound after delete, got %v", err)
	}

	// Deleting an absent session is not an error
	if err := store.Delete(ctx, 1); err != nil {
		t.Fatalf("Delete of absent session failed: %v", err)
	}
}

func TestMemoryStoreTTLExpiry(t *testing.T) {
	t.Parallel()

	store := session.NewMemoryStore(10 * time.Millisecond)
	ctx := context.Background()

	_ = store.Put(ctx, &session.Session{ChatID: 1, Program: "onboarding", Step: "await_name"})

	time.Sleep(30 * time.Millisecond)

	if _, err := store.Get(ctx, 1); !errors.Is(err, session.ErrNotFound) {
		t.Fatalf("expected expired session to be treated as absent, got %v", err)
	}
}
