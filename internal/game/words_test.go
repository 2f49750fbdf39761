package game

import (
	"testing"

	"impostor"
)

const testCatalog = `
Fruits:
  - Apple
  - Banana
Tools:
  - Hammer
`

func TestNewWordService(t *testing.T) {
	t.Run("parses a valid catalog", func(t *testing.T) {
		svc, err := NewWordService([]byte(testCatalog))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		cats := svc.Categories()
		if len(cats) != 2 {
			t.Fatalf("expected 2 categories, got %d", len(cats))
		}
		// Stable sorted order
		if cats[0] != "Fruits" || cats[1] != "Tools" {
			t.Errorf("unexpected category order: %v", cats)
		}
	})

	t.Run("rejects an empty catalog", func(t *testing.T) {
		if _, err := NewWordService([]byte("")); err == nil {
			t.Error("expected error for empty catalog")
		}
	})

	t.Run("rejects a category without words", func(t *testing.T) {
		if _, err := NewWordService([]byte("Empty: []\n")); err == nil {
			t.Error("expected error for empty category")
		}
	})

	t.Run("rejects malformed yaml", func(t *testing.T) {
		if _, err := NewWordService([]byte("{not yaml")); err == nil {
			t.Error("expected error for malformed catalog")
		}
	})
}

func TestWordService_RandomWord(t *testing.T) {
	svc, err := NewWordService([]byte(testCatalog))
	if err != nil {
		t.Fatal(err)
	}

	word, err := svc.RandomWord("Tools")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if word != "Hammer" {
		t.Errorf("expected Hammer, got %s", word)
	}

	if _, err := svc.RandomWord("Nope"); err == nil {
		t.Error("expected error for unknown category")
	}
}

func TestWordService_RandomPick(t *testing.T) {
	svc, err := NewWordService([]byte(testCatalog))
	if err != nil {
		t.Fatal(err)
	}

	for i := 0; i < 50; i++ {
		category, word := svc.RandomPick()
		if !svc.HasCategory(category) {
			t.Fatalf("picked unknown category %s", category)
		}
		if word == "" {
			t.Fatal("picked empty word")
		}
	}
}

func TestEmbeddedCatalogShape(t *testing.T) {
	// The shipped catalog must satisfy the same constraints the service
	// enforces at startup.
	svc, err := NewWordService(impostor.WordsYAML)
	if err != nil {
		t.Fatal(err)
	}
	if len(svc.Categories()) == 0 {
		t.Fatal("embedded catalog has no categories")
	}
	for _, cat := range svc.Categories() {
		if _, err := svc.RandomWord(cat); err != nil {
			t.Errorf("category %s unusable: %v", cat, err)
		}
	}
}
