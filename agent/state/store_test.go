package state

import (
	"context"
	"errors"
	"reflect"
	"testing"
	"time"
)

func TestMemoryStoreRoundTrip(t *testing.T) {
	t.Parallel()

	store := NewMemoryStore()
	now := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	profile := NewProfile("user-1", []string{"Python", "Git"}, now)

	if err := store.Save(context.Background(), profile); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	loaded, err := store.Load(context.Background(), "user-1")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if loaded.UserID != "user-1" {
		t.Fatalf("unexpected user id: %q", loaded.UserID)
	}
	if !reflect.DeepEqual(loaded.Skills, []string{"Python", "Git"}) {
		t.Fatalf("unexpected skills: %v", loaded.Skills)
	}
	if !loaded.UpdatedAt.Equal(now) {
		t.Fatalf("unexpected updated at: %v", loaded.UpdatedAt)
	}
}

func TestMemoryStoreLoadMissing(t *testing.T) {
	t.Parallel()

	store := NewMemoryStore()
	_, err := store.Load(context.Background(), "nobody")
	if !errors.Is(err, ErrProfileNotFound) {
		t.Fatalf("expected ErrProfileNotFound, got %v", err)
	}
}

func TestMemoryStoreLoadReturnsClone(t *testing.T) {
	t.Parallel()

	store := NewMemoryStore()
	now := time.Now().UTC()
	if err := store.Save(context.Background(), NewProfile("user-1", []string{"Python"}, now)); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	first, err := store.Load(context.Background(), "user-1")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	first.Skills[0] = "mutated"

	second, err := store.Load(context.Background(), "user-1")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if second.Skills[0] != "Python" {
		t.Fatalf("stored profile mutated through loaded copy: %q", second.Skills[0])
	}
}

func TestMemoryStoreDelete(t *testing.T) {
	t.Parallel()

	store := NewMemoryStore()
	now := time.Now().UTC()
	if err := store.Save(context.Background(), NewProfile("user-1", nil, now)); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	if err := store.Delete(context.Background(), "user-1"); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if _, err := store.Load(context.Background(), "user-1"); !errors.Is(err, ErrProfileNotFound) {
		t.Fatalf("expected ErrProfileNotFound after delete, got %v", err)
	}
}

func TestMemoryStoreInvalidInput(t *testing.T) {
	t.Parallel()

	store := NewMemoryStore()
	if _, err := store.Load(context.Background(), "  "); !errors.Is(err, ErrInvalidUser) {
		t.Fatalf("expected ErrInvalidUser, got %v", err)
	}
	if err := store.Save(context.Background(), nil); !errors.Is(err, ErrNilProfile) {
		t.Fatalf("expected ErrNilProfile, got %v", err)
	}
	if err := store.Save(context.Background(), &Profile{}); !errors.Is(err, ErrInvalidUser) {
		t.Fatalf("expected ErrInvalidUser, got %v", err)
	}
}

func TestNewProfileDedupesSkills(t *testing.T) {
	t.Parallel()

	p := NewProfile(" user-1 ", []string{"Python", "python", " SQL "}, time.Now())
	if p.UserID != "user-1" {
		t.Fatalf("unexpected user id: %q", p.UserID)
	}
	if !reflect.DeepEqual(p.Skills, []string{"Python", "SQL"}) {
		t.Fatalf("unexpected skills: %v", p.Skills)
	}
}
