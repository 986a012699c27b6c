package assistant

import (
	"errors"
	"testing"
)

func TestResolveDefaultsToEnglish(t *testing.T) {
	store := NewMemoryStore(Seed())

	p, err := Resolve(store, "")
	if err != nil {
		t.Fatalf("Resolve err: %v", err)
	}
	if p.ID != DefaultProfileID {
		t.Fatalf("unexpected profile %s", p.ID)
	}
}

func TestResolveUnknownProfile(t *testing.T) {
	store := NewMemoryStore(Seed())

	if _, err := Resolve(store, "klingon"); !errors.Is(err, ErrProfileNotFound) {
		t.Fatalf("expected ErrProfileNotFound, got %v", err)
	}
}

func TestListReturnsCopy(t *testing.T) {
	store := NewMemoryStore(Seed())
	items := store.List()
	items[0].Greeting = "changed"

	if got, _ := store.FindByID(items[0].ID); got.Greeting == "changed" {
		t.Fatal("store mutated through List result")
	}
}
