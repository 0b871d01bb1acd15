// Package search ranks tickets against free-text queries using
// TF-IDF weighted cosine similarity. Results always come from the real
// universe; the index finds tickets, it never invents them.
package search

import (
	"fmt"
	"log/slog"
	"math"
	"sort"
	"strings"

	"github.com/IanBaswana/jira-ai-assistant-demo/internal/ticket"
)

const (
	// DefaultTopK bounds result sets when the caller passes no limit.
	DefaultTopK = 5
	// DefaultMinScore excludes results with negligible lexical overlap.
	DefaultMinScore = 0.1
)

// Result holds ranked retrieval output. Scores map issue keys to
// cosine similarity. Diagnostic is set when the query produced no
// searchable terms; that is not an error.
type Result struct {
	Issues     []*ticket.Ticket
	Scores     map[string]float64
	Query      string
	Mode       string
	Diagnostic string
}

// Index is a TF-IDF index over the record universe. It is read-only
// after construction; reload the dataset by building a new index.
type Index struct {
	universe  *ticket.Universe
	order     []string
	docText   map[string]string
	docTokens map[string][]string
	idf       map[string]float64
	logger    *slog.Logger
}

// NewIndex builds the term-weighting index for every ticket in the
// universe.
func NewIndex(universe *ticket.Universe, logger *slog.Logger) *Index {
	ix := &Index{
		universe:  universe,
		docText:   make(map[string]string, universe.Len()),
		docTokens: make(map[string][]string, universe.Len()),
		idf:       make(map[string]float64),
		logger:    logger,
	}

	for _, t := range universe.Tickets() {
		text := indexText(t)
		ix.order = append(ix.order, t.Key)
		ix.docText[t.Key] = text
		ix.docTokens[t.Key] = tokenize(text)
	}

	docFreq := map[string]int{}
	for _, tokens := range ix.docTokens {
		seen := map[string]struct{}{}
		for _, tok := range tokens {
			if _, dup := seen[tok]; dup {
				continue
			}
			seen[tok] = struct{}{}
			docFreq[tok]++
		}
	}
	total := float64(len(ix.docTokens))
	for tok, df := range docFreq {
		ix.idf[tok] = math.Log(total / float64(df))
	}

	if logger != nil {
		logger.Debug("search index built", "documents", len(ix.order), "terms", len(ix.idf))
	}
	return ix
}

// indexText concatenates every searchable field of a ticket into one
// lowercased blob, comments included.
func indexText(t *ticket.Ticket) string {
	parts := []string{
		t.Key,
		t.Summary,
		t.Description,
		string(t.Status),
		string(t.Priority),
		string(t.Type),
		strings.Join(t.Labels, " "),
		strings.Join(t.Components, " "),
	}
	if t.Assignee != nil {
		parts = append(parts, t.Assignee.DisplayName)
	}
	if t.Reporter != nil {
		parts = append(parts, t.Reporter.DisplayName)
	}
	for _, c := range t.Comments {
		parts = append(parts, c.Body)
	}
	return strings.ToLower(strings.Join(parts, " "))
}

// Search scores the query against every indexed ticket and returns the
// topK results at or above minScore, in descending score order with
// ties broken by collection order.
func (ix *Index) Search(query string, topK int, minScore float64) Result {
	if topK <= 0 {
		topK = DefaultTopK
	}

	res := Result{Query: query, Mode: "semantic", Scores: map[string]float64{}}

	queryTokens := tokenize(strings.ToLower(query))
	if len(queryTokens) == 0 {
		res.Diagnostic = "query produced no searchable terms"
		return res
	}

	type scored struct {
		key   string
		score float64
	}
	var hits []scored
	for _, key := range ix.order {
		score := ix.similarity(queryTokens, ix.docTokens[key])
		if score >= minScore {
			hits = append(hits, scored{key: key, score: score})
		}
	}

	sort.SliceStable(hits, func(i, j int) bool { return hits[i].score > hits[j].score })
	if len(hits) > topK {
		hits = hits[:topK]
	}

	for _, h := range hits {
		t, _ := ix.universe.Get(h.key)
		res.Issues = append(res.Issues, t)
		res.Scores[h.key] = h.score
	}
	return res
}

// SimilarTo ranks tickets similar to an existing one by feeding its
// own indexed text back through Search, excluding the source ticket.
func (ix *Index) SimilarTo(key string, topK int) (Result, error) {
	if topK <= 0 {
		topK = 3
	}
	text, ok := ix.docText[key]
	if !ok {
		return Result{}, fmt.Errorf("%w: %s", ticket.ErrIssueNotFound, key)
	}

	res := ix.Search(text, topK+1, DefaultMinScore)
	res.Query = "similar to " + key
	res.Mode = "similarity"

	filtered := res.Issues[:0]
	for _, t := range res.Issues {
		if t.Key != key {
			filtered = append(filtered, t)
		}
	}
	if len(filtered) > topK {
		filtered = filtered[:topK]
	}
	res.Issues = filtered
	delete(res.Scores, key)
	return res, nil
}

// similarity computes TF-IDF weighted cosine similarity between the
// query and one document. Document term frequency is normalized by
// document length; query term frequency is raw counts.
func (ix *Index) similarity(queryTokens, docTokens []string) float64 {
	if len(docTokens) == 0 {
		return 0
	}

	queryTF := map[string]float64{}
	for _, tok := range queryTokens {
		queryTF[tok]++
	}
	docTF := map[string]float64{}
	for _, tok := range docTokens {
		docTF[tok]++
	}
	docLen := float64(len(docTokens))
	for tok := range docTF {
		docTF[tok] /= docLen
	}

	union := map[string]struct{}{}
	for tok := range queryTF {
		union[tok] = struct{}{}
	}
	for tok := range docTF {
		union[tok] = struct{}{}
	}

	var dot, queryNorm, docNorm float64
	for tok := range union {
		idf := ix.idf[tok]
		q := queryTF[tok] * idf
		d := docTF[tok] * idf
		dot += q * d
		queryNorm += q * q
		docNorm += d * d
	}
	if queryNorm == 0 || docNorm == 0 {
		return 0
	}
	return dot / (math.Sqrt(queryNorm) * math.Sqrt(docNorm))
}
