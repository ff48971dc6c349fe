package bloomstamp

import (
	"context"
	"errors"
	"testing"
)

func checkStore(ctx context.Context, tb testing.TB, s Store) {
	tb.Helper()
	f := New()
	f.AddString("stored")
	if err := s.Save(ctx, "a", f); err != nil {
		tb.Fatalf("Save failed: %s", err)
	}
	got, err := s.Load(ctx, "a")
	if err != nil {
		tb.Fatalf("Load failed: %s", err)
	}
	if got != f {
		tb.Errorf("Load returns another filter")
	}

	f.AddString("updated")
	if err := s.Save(ctx, "a", f); err != nil {
		tb.Fatalf("Save failed: %s", err)
	}
	got, err = s.Load(ctx, "a")
	if err != nil {
		tb.Fatalf("Load failed: %s", err)
	}
	if !got.HasString("updated") {
		tb.Errorf("Save should replace the previous filter")
	}

	_, err = s.Load(ctx, "missing")
	if !errors.Is(err, ErrNotFound) {
		tb.Errorf("unexpected error for missing name: %v", err)
	}
}

func TestMemoryStore(t *testing.T) {
	checkStore(context.Background(), t, NewMemoryStore())
}

func TestMemoryStoreCopies(t *testing.T) {
	ctx := context.Background()
	ms := NewMemoryStore()
	f := New()
	if err := ms.Save(ctx, "a", f); err != nil {
		t.Fatal(err)
	}
	f.AddString("after save")
	got, err := ms.Load(ctx, "a")
	if err != nil {
		t.Fatal(err)
	}
	if got.CountOnes() != 0 {
		t.Error("stored filter aliases the caller's filter")
	}
}
