package services

import (
	"strings"

	"github.com/sahilm/fuzzy"

	"github.com/grandline-rpg/grandline/bot/content"
)

// SearchService fuzzy-matches content names for command autocomplete. A blank
// query returns everything in content order, capped.
type SearchService struct {
	tables *content.Tables
}

func NewSearchService(tables *content.Tables) *SearchService {
	return &SearchService{tables: tables}
}

// Match pairs a content id with its display name.
type Match struct {
	ID   string
	Name string
}

// Quests matches quest names against the query.
func (s *SearchService) Quests(query string, limit int) []Match {
	all := s.tables.Quests()
	ids := make([]string, len(all))
	names := make([]string, len(all))
	for i, q := range all {
		ids[i] = q.ID
		names[i] = q.Name
	}
	return match(query, ids, names, limit)
}

// Allies matches ally names against the query.
func (s *SearchService) Allies(query string, limit int) []Match {
	all := s.tables.Allies()
	ids := make([]string, len(all))
	names := make([]string, len(all))
	for i, a := range all {
		ids[i] = a.ID
		names[i] = a.Name
	}
	return match(query, ids, names, limit)
}

// Upgrades matches ship upgrade names against the query.
func (s *SearchService) Upgrades(query string, limit int) []Match {
	all := s.tables.Upgrades()
	ids := make([]string, len(all))
	names := make([]string, len(all))
	for i, u := range all {
		ids[i] = u.ID
		names[i] = u.Name
	}
	return match(query, ids, names, limit)
}

func match(query string, ids, names []string, limit int) []Match {
	if strings.TrimSpace(query) == "" {
		out := make([]Match, 0, limit)
		for i := range ids {
			if len(out) >= limit {
				break
			}
			out = append(out, Match{ID: ids[i], Name: names[i]})
		}
		return out
	}

	results := fuzzy.Find(query, names)
	out := make([]Match, 0, limit)
	for _, r := range results {
		if len(out) >= limit {
			break
		}
		out = append(out, Match{ID: ids[r.Index], Name: names[r.Index]})
	}
	return out
}
