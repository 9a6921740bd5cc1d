package services

import (
	"testing"

	"github.com/grandline-rpg/grandline/bot/content"
)

func loadTables(t *testing.T) *content.Tables {
	t.Helper()
	tables, err := content.Load("../../data/content")
	if err != nil {
		t.Fatalf("load content: %v", err)
	}
	return tables
}

func TestSearchService_BlankQueryReturnsAll(t *testing.T) {
	s := NewSearchService(loadTables(t))

	got := s.Allies("", 25)
	if len(got) != 9 {
		t.Fatalf("blank ally query returned %d matches, want 9", len(got))
	}
	if got[0].ID != "zoro_early" {
		t.Errorf("first match = %q, want content order", got[0].ID)
	}

	if got := s.Quests("   ", 3); len(got) != 3 {
		t.Errorf("blank quest query ignored the cap: %d matches", len(got))
	}
}

func TestSearchService_FuzzyMatch(t *testing.T) {
	s := NewSearchService(loadTables(t))

	got := s.Quests("arlong", 25)
	if len(got) == 0 {
		t.Fatal("no matches for arlong")
	}
	if got[0].ID != "arlong_park_main" {
		t.Errorf("best match = %q, want arlong_park_main", got[0].ID)
	}

	if got := s.Upgrades("hull", 25); len(got) == 0 {
		t.Error("no upgrade matches for hull")
	}

	if got := s.Allies("zzzzqqqq", 25); len(got) != 0 {
		t.Errorf("nonsense query matched %v", got)
	}
}
