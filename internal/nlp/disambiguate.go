package nlp

import "strings"

// specificity lists topics that win over their more general relatives when
// the utterance names neither candidate outright.
var specificity = []string{"avl_tree", "bst", "binary_tree"}

// Disambiguate collapses a topic spec to a single topic id. Rules, first hit
// wins: a single id is returned as is; a candidate whose id (with
// underscores, or with spaces in their place) appears in the utterance; the
// most specific candidate in avl_tree > bst > binary_tree order; the first
// candidate.
func Disambiguate(spec, utterance string) string {
	if !strings.Contains(spec, TopicSeparator) {
		return spec
	}

	var parts []string
	for _, p := range strings.Split(spec, TopicSeparator) {
		if p != "" {
			parts = append(parts, p)
		}
	}
	if len(parts) == 0 {
		return Unknown
	}

	for _, t := range parts {
		if strings.Contains(utterance, t) {
			return t
		}
		if strings.Contains(utterance, strings.ReplaceAll(t, "_", " ")) {
			return t
		}
	}

	for _, s := range specificity {
		if contains(parts, s) {
			return s
		}
	}

	return parts[0]
}
