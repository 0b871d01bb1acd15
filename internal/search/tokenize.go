package search

import "regexp"

var tokenRe = regexp.MustCompile(`[a-z0-9]+`)

var stopwords = map[string]struct{}{}

func init() {
	for _, w := range []string{
		"the", "a", "an", "is", "are", "was", "were", "be", "been",
		"being", "have", "has", "had", "do", "does", "did", "will",
		"would", "could", "should", "may", "might", "must", "shall",
		"can", "need", "dare", "ought", "used", "to", "of", "in",
		"for", "on", "with", "at", "by", "from", "as", "into",
		"through", "during", "before", "after", "above", "below",
		"between", "under", "again", "further", "then", "once",
		"and", "but", "or", "nor", "so", "yet", "both", "either",
		"neither", "not", "only", "own", "same", "than", "too",
		"very", "just", "also", "now", "here", "there", "when",
		"where", "why", "how", "all", "each", "every", "any",
		"this", "that", "these", "those", "it", "its",
	} {
		stopwords[w] = struct{}{}
	}
}

// tokenize extracts maximal alphanumeric runs from lowercased text,
// dropping stop-words and single-character tokens.
func tokenize(text string) []string {
	var out []string
	for _, tok := range tokenRe.FindAllString(text, -1) {
		if len(tok) < 2 {
			continue
		}
		if _, stop := stopwords[tok]; stop {
			continue
		}
		out = append(out, tok)
	}
	return out
}
