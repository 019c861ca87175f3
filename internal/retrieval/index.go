package retrieval

import (
	"context"
	"math"
	"sort"
	"strings"
	"unicode"
)

// Index is an in-memory TF-IDF index over knowledge-base passages. It is
// immutable after construction, so concurrent Search calls need no locking.
type Index struct {
	passages []Passage
	vectors  []map[string]float64 // tf-idf vector per passage
	norms    []float64
	idf      map[string]float64
}

// NewIndex builds an index over the given passages. Ranking is fully
// deterministic for a fixed passage set and query.
func NewIndex(passages []Passage) *Index {
	idx := &Index{
		passages: passages,
		idf:      make(map[string]float64),
	}

	// Document frequencies
	df := make(map[string]int)
	tokenized := make([][]string, len(passages))
	for i, p := range passages {
		tokens := tokenize(p.Text)
		tokenized[i] = tokens
		seen := make(map[string]bool)
		for _, tok := range tokens {
			if !seen[tok] {
				seen[tok] = true
				df[tok]++
			}
		}
	}

	total := float64(len(passages))
	for term, n := range df {
		// Smoothed IDF keeps common terms at a small positive weight.
		idx.idf[term] = math.Log(1+total/float64(n)) + 1
	}

	idx.vectors = make([]map[string]float64, len(passages))
	idx.norms = make([]float64, len(passages))
	for i, tokens := range tokenized {
		vec := termFrequencies(tokens)
		var norm float64
		for term, tf := range vec {
			w := tf * idx.idf[term]
			vec[term] = w
			norm += w * w
		}
		idx.vectors[i] = vec
		idx.norms[i] = math.Sqrt(norm)
	}

	return idx
}

// Len returns the number of indexed passages.
func (idx *Index) Len() int {
	return len(idx.passages)
}

// Search returns the topK most similar passages for the query, restricted to
// the given category when non-empty (passages with an empty category always
// match). Zero-similarity passages are omitted; an empty result is not an
// error.
func (idx *Index) Search(ctx context.Context, query, category string, topK int) ([]ScoredPassage, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if topK <= 0 || len(idx.passages) == 0 {
		return nil, nil
	}

	queryVec := termFrequencies(tokenize(query))
	var queryNorm float64
	for term, tf := range queryVec {
		w := tf * idx.idfOrDefault(term)
		queryVec[term] = w
		queryNorm += w * w
	}
	queryNorm = math.Sqrt(queryNorm)
	if queryNorm == 0 {
		return nil, nil
	}

	type hit struct {
		pos   int
		score float64
	}
	var hits []hit
	for i, p := range idx.passages {
		if category != "" && p.Category != "" && p.Category != category {
			continue
		}
		if idx.norms[i] == 0 {
			continue
		}
		var dot float64
		for term, qw := range queryVec {
			if dw, ok := idx.vectors[i][term]; ok {
				dot += qw * dw
			}
		}
		if dot <= 0 {
			continue
		}
		hits = append(hits, hit{pos: i, score: dot / (queryNorm * idx.norms[i])})
	}

	// Stable ordering: score descending, index order breaks ties.
	sort.SliceStable(hits, func(a, b int) bool {
		return hits[a].score > hits[b].score
	})
	if len(hits) > topK {
		hits = hits[:topK]
	}

	results := make([]ScoredPassage, 0, len(hits))
	for _, h := range hits {
		results = append(results, ScoredPassage{
			Passage: idx.passages[h.pos],
			Score:   h.score,
		})
	}
	return results, nil
}

func (idx *Index) idfOrDefault(term string) float64 {
	if w, ok := idx.idf[term]; ok {
		return w
	}
	return 1
}

// tokenize lowercases and splits on any non-letter/non-digit rune.
func tokenize(text string) []string {
	return strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}

func termFrequencies(tokens []string) map[string]float64 {
	if len(tokens) == 0 {
		return map[string]float64{}
	}
	freq := make(map[string]float64)
	for _, tok := range tokens {
		freq[tok]++
	}
	for term := range freq {
		freq[term] /= float64(len(tokens))
	}
	return freq
}
