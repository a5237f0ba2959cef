package nlu

import (
	"sort"
	"strings"

	"glowdesk/models"
)

// DefaultSpecificityMargin is how many characters longer the leading
// category's best keyword must be before an otherwise-ambiguous match is
// treated as unambiguously more specific ("scalp treatment" must beat a
// generic "treatment"). Tunable via CATEGORY_SPECIFICITY_MARGIN.
const DefaultSpecificityMargin = 3

// MatchCategory resolves the message against the bookable categories.
// It returns exactly one of: a resolved match, a non-empty ambiguity set,
// or neither (no category mentioned). Resolution is deterministic and
// independent of the order categories are supplied in.
func MatchCategory(text string, categories []models.ServiceCategory, margin int) (*models.CategoryMatch, []models.ServiceCategory) {
	if margin <= 0 {
		margin = DefaultSpecificityMargin
	}
	lower := strings.ToLower(text)

	type candidate struct {
		category models.ServiceCategory
		matchLen int
	}
	var candidates []candidate

	for _, cat := range categories {
		best := 0
		for _, kw := range categoryVocabulary(cat) {
			if len(kw) > best && strings.Contains(lower, kw) {
				best = len(kw)
			}
		}
		if best > 0 {
			candidates = append(candidates, candidate{category: cat, matchLen: best})
		}
	}

	switch len(candidates) {
	case 0:
		return nil, nil
	case 1:
		return &models.CategoryMatch{Category: candidates[0].category, MatchLen: candidates[0].matchLen}, nil
	}

	// Longest match first; slug breaks exact ties so the result never
	// depends on input order.
	sort.Slice(candidates, func(i, j int) bool {
		if candidates[i].matchLen != candidates[j].matchLen {
			return candidates[i].matchLen > candidates[j].matchLen
		}
		return candidates[i].category.Slug < candidates[j].category.Slug
	})

	if candidates[0].matchLen-candidates[1].matchLen >= margin {
		return &models.CategoryMatch{Category: candidates[0].category, MatchLen: candidates[0].matchLen}, nil
	}

	ambiguous := make([]models.ServiceCategory, 0, len(candidates))
	for _, c := range candidates {
		ambiguous = append(ambiguous, c.category)
	}
	return nil, ambiguous
}

// categoryVocabulary is the full lower-case match set for a category:
// its keyword list plus literal title and short-title substrings.
func categoryVocabulary(cat models.ServiceCategory) []string {
	vocab := make([]string, 0, len(cat.Keywords)+2)
	for _, kw := range cat.Keywords {
		vocab = append(vocab, strings.ToLower(kw))
	}
	if cat.Name != "" {
		vocab = append(vocab, strings.ToLower(cat.Name))
	}
	if cat.ShortName != "" {
		vocab = append(vocab, strings.ToLower(cat.ShortName))
	}
	return vocab
}
