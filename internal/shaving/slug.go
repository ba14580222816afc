package shaving

import "strings"

// Slug lower-cases s and strips all whitespace, so "Robotic  Surgery" and
// "roboticsurgery" compare equal.
func Slug(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(s)), "")
}

// itemKey is the exact-match key used for non-payable lookups.
func itemKey(s string) string {
	return strings.ToUpper(strings.TrimSpace(s))
}

func nonPayableSet(items []string) map[string]struct{} {
	set := make(map[string]struct{}, len(items))
	for _, it := range items {
		set[itemKey(it)] = struct{}{}
	}
	return set
}

// slugMatches reports whether either slug contains the other.
func slugMatches(limitSlug, itemSlug string) bool {
	return strings.Contains(itemSlug, limitSlug) || strings.Contains(limitSlug, itemSlug)
}
