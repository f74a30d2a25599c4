package service

import (
	"sort"
	"strings"

	"github.com/lithammer/fuzzysearch/fuzzy"
	sfuzzy "github.com/sahilm/fuzzy"

	"github.com/mmcdole/memorylane/internal/domain"
)

// SectionMatch is one jump search result
type SectionMatch struct {
	Index   int
	Section domain.Section
	Score   int // Higher is better
}

// sectionIndex implements sahilm/fuzzy.Source over section search text
type sectionIndex []domain.Section

// String returns the lowercase search text at index i (implements fuzzy.Source)
func (s sectionIndex) String(i int) string { return s[i].SearchText() }

// Len returns the number of sections (implements fuzzy.Source)
func (s sectionIndex) Len() int { return len(s) }

// SearchService handles fuzzy jump-to-memory search
type SearchService struct {
	sections sectionIndex
}

// NewSearchService indexes the lane's sections
func NewSearchService(lane *domain.Lane) *SearchService {
	s := &SearchService{}
	if lane != nil {
		s.sections = append(sectionIndex(nil), lane.Sections...)
	}
	return s
}

// Find returns sections matching query, best first. An empty query returns
// every section in lane order.
func (s *SearchService) Find(query string) []SectionMatch {
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		results := make([]SectionMatch, len(s.sections))
		for i, sec := range s.sections {
			results[i] = SectionMatch{Index: i, Section: sec}
		}
		return results
	}

	// Subsequence matching first
	matches := sfuzzy.FindFrom(query, s.sections)
	if len(matches) > 0 {
		results := make([]SectionMatch, 0, len(matches))
		for _, m := range matches {
			score := m.Score + prefixBonus(s.sections[m.Index].Title, query)
			results = append(results, SectionMatch{Index: m.Index, Section: s.sections[m.Index], Score: score})
		}
		sort.SliceStable(results, func(i, j int) bool {
			return results[i].Score > results[j].Score
		})
		return results
	}

	// Fall back to typo-tolerant ranking over titles
	return s.typoSearch(query)
}

// prefixBonus favors titles that start with (or equal) the query
func prefixBonus(title, query string) int {
	title = strings.ToLower(title)
	switch {
	case title == query:
		return 1000
	case strings.HasPrefix(title, query):
		return 500
	}
	return 0
}

// typoSearch ranks titles by Levenshtein distance, keeping close ones only
func (s *SearchService) typoSearch(query string) []SectionMatch {
	var results []SectionMatch
	for i, sec := range s.sections {
		best := -1
		for _, word := range strings.Fields(sec.SearchText()) {
			d := fuzzy.LevenshteinDistance(query, word)
			if best < 0 || d < best {
				best = d
			}
		}
		if best >= 0 && best <= maxTypoDistance(query) {
			results = append(results, SectionMatch{Index: i, Section: sec, Score: -best})
		}
	}
	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})
	return results
}

func maxTypoDistance(query string) int {
	switch n := len([]rune(query)); {
	case n <= 3:
		return 1
	case n <= 6:
		return 2
	default:
		return 3
	}
}
