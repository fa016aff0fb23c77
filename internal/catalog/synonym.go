package catalog

import "strings"

// SynonymRule folds any input containing Pattern to Canonical, unless the
// input also contains one of the Unless words.
type SynonymRule struct {
	Pattern   string
	Canonical string
	Unless    []string
}

func (r SynonymRule) matches(key string) bool {
	if r.Pattern == "" || !strings.Contains(key, r.Pattern) {
		return false
	}
	for _, w := range r.Unless {
		if w != "" && strings.Contains(key, w) {
			return false
		}
	}
	return true
}
