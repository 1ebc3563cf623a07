package product

import (
	"regexp"
	"sort"
	"strings"
)

// Duplicate detection works on normalized name+brand keys: lower-cased,
// punctuation stripped, package-size qualifiers ("3 lb", "24 ct") and filler
// words removed. Within a group the row with the most complete data wins.

var (
	sizeRe     = regexp.MustCompile(`(?i)\b(\d+(\.\d+)?)\s*(lb|lbs|pound|pounds|oz|ounce|ounces|kg|g|ct|count)\b`)
	nonWordRe  = regexp.MustCompile(`[^\w\s]`)
	fillerRe   = regexp.MustCompile(`(?i)\b(dry|wet|canned|kibble|cat|food|foods)\b`)
	multiSpace = regexp.MustCompile(`\s+`)
)

func normalizeName(name string) string {
	n := strings.ToLower(name)
	n = nonWordRe.ReplaceAllString(n, " ")
	n = sizeRe.ReplaceAllString(n, " ")
	n = fillerRe.ReplaceAllString(n, " ")
	return strings.TrimSpace(multiSpace.ReplaceAllString(n, " "))
}

func normalizeBrand(brand string) string {
	b := strings.ToLower(brand)
	b = nonWordRe.ReplaceAllString(b, " ")
	return strings.TrimSpace(multiSpace.ReplaceAllString(b, " "))
}

// completenessScore ranks how much usable data a row carries.
func completenessScore(p Product) int {
	score := 0
	if p.Description != nil && strings.TrimSpace(*p.Description) != "" {
		score += 2
	}
	if p.ImageURL != nil && strings.TrimSpace(*p.ImageURL) != "" {
		score++
	}
	if p.ShoppingURL != nil && strings.TrimSpace(*p.ShoppingURL) != "" {
		score++
	}
	if p.FullIngredientList != nil && strings.TrimSpace(*p.FullIngredientList) != "" {
		score++
	}
	if p.Price != nil {
		score++
	}
	return score
}

// DuplicateGroup holds one kept product and the duplicates slated for removal.
type DuplicateGroup struct {
	Keep       Product
	Duplicates []Product
}

// FindDuplicateGroups groups products by normalized name+brand and, for each
// group with more than one member, picks the most complete row to keep.
// Lower ID wins ties so repeated runs are deterministic.
func FindDuplicateGroups(products []Product) []DuplicateGroup {
	byKey := make(map[string][]Product)
	for _, p := range products {
		key := normalizeBrand(p.Brand) + "|" + normalizeName(p.Name)
		byKey[key] = append(byKey[key], p)
	}

	keys := make([]string, 0, len(byKey))
	for key, group := range byKey {
		if len(group) > 1 {
			keys = append(keys, key)
		}
	}
	sort.Strings(keys)

	groups := make([]DuplicateGroup, 0, len(keys))
	for _, key := range keys {
		group := byKey[key]
		sort.Slice(group, func(i, j int) bool {
			si, sj := completenessScore(group[i]), completenessScore(group[j])
			if si != sj {
				return si > sj
			}
			return group[i].ID < group[j].ID
		})
		groups = append(groups, DuplicateGroup{Keep: group[0], Duplicates: group[1:]})
	}
	return groups
}

// RemoveDuplicates deletes every duplicate row found across the whole catalog
// and returns how many were removed.
func (s *Service) RemoveDuplicates() (int, error) {
	// The catalog is small; pull everything in one page.
	all, err := s.repo.List(0, 100000)
	if err != nil {
		return 0, err
	}
	ids := make([]int, 0)
	for _, g := range FindDuplicateGroups(all) {
		for _, d := range g.Duplicates {
			ids = append(ids, d.ID)
		}
	}
	if len(ids) == 0 {
		return 0, nil
	}
	if err := s.repo.DeleteMany(ids); err != nil {
		return 0, err
	}
	return len(ids), nil
}
