package questiongen

import "strings"

// NormalizeText folds a question text into its dedup key: lowercased,
// whitespace collapsed, trailing punctuation dropped.
func NormalizeText(s string) string {
	s = strings.ToLower(strings.Join(strings.Fields(s), " "))
	return strings.TrimRight(s, "?.! ")
}

// dedupSet tracks normalized texts already accepted into a set.
type dedupSet map[string]struct{}

// add records text and reports whether it was new.
func (d dedupSet) add(text string) bool {
	key := NormalizeText(text)
	if _, ok := d[key]; ok {
		return false
	}
	d[key] = struct{}{}
	return true
}
