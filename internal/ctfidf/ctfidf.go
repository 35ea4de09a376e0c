// Package ctfidf computes class-based TF-IDF topic representations: per
// topic, a ranked keyword list and a term-weight signature usable for
// similarity scoring.
package ctfidf

import (
	"math"
	"regexp"
	"sort"
	"strings"
)

var tokenPattern = regexp.MustCompile(`[a-z][a-z']+`)

// stopwords are excluded from topic representations. The list is short on
// purpose: only function words that drown out topical vocabulary.
var stopwords = map[string]struct{}{
	"a": {}, "about": {}, "after": {}, "again": {}, "all": {}, "also": {},
	"am": {}, "an": {}, "and": {}, "any": {}, "are": {}, "as": {}, "at": {},
	"be": {}, "because": {}, "been": {}, "before": {}, "being": {}, "but": {},
	"by": {}, "can": {}, "could": {}, "did": {}, "do": {}, "does": {},
	"doing": {}, "down": {}, "during": {}, "each": {}, "feel": {}, "felt": {},
	"few": {}, "for": {}, "from": {}, "get": {}, "got": {}, "had": {},
	"has": {}, "have": {}, "having": {}, "he": {}, "her": {}, "here": {},
	"him": {}, "his": {}, "how": {}, "i": {}, "if": {}, "in": {}, "into": {},
	"is": {}, "it": {}, "it's": {}, "its": {}, "i'm": {}, "just": {},
	"like": {}, "me": {}, "more": {}, "most": {}, "my": {}, "no": {},
	"not": {}, "now": {}, "of": {}, "on": {}, "one": {}, "only": {},
	"or": {}, "other": {}, "our": {}, "out": {}, "over": {}, "own": {},
	"re": {}, "really": {}, "she": {}, "so": {}, "some": {}, "still": {},
	"such": {}, "than": {}, "that": {}, "the": {}, "their": {}, "them": {},
	"then": {}, "there": {}, "these": {}, "they": {}, "this": {}, "those": {},
	"through": {}, "to": {}, "too": {}, "under": {}, "until": {}, "up": {},
	"very": {}, "was": {}, "we": {}, "were": {}, "what": {}, "when": {},
	"where": {}, "which": {}, "while": {}, "who": {}, "why": {}, "will": {},
	"with": {}, "would": {}, "you": {}, "your": {},
}

// Tokenize lowercases text and returns its content tokens.
func Tokenize(text string) []string {
	raw := tokenPattern.FindAllString(strings.ToLower(text), -1)
	tokens := make([]string, 0, len(raw))
	for _, t := range raw {
		if _, stop := stopwords[t]; stop {
			continue
		}
		tokens = append(tokens, t)
	}
	return tokens
}

// TermFrequencies counts tokens in a single document.
func TermFrequencies(text string) map[string]float64 {
	freqs := make(map[string]float64)
	for _, t := range Tokenize(text) {
		freqs[t]++
	}
	return freqs
}

// Keyword is one ranked representation term.
type Keyword struct {
	Term  string
	Score float64
}

// Model holds the fitted per-topic representations.
type Model struct {
	// Signatures maps topic id to its term-weight vector.
	Signatures map[int]map[string]float64

	// Keywords maps topic id to its ranked keyword list.
	Keywords map[int][]Keyword
}

// Fit computes class-based TF-IDF over documents grouped by topic: all
// documents of a topic form one class document, term frequency within the
// class is weighted by log(1 + average class size / corpus frequency).
func Fit(classDocs map[int][]string, topK int) *Model {
	classTF := make(map[int]map[string]float64, len(classDocs))
	corpusFreq := make(map[string]float64)
	var totalTokens float64

	for id, docs := range classDocs {
		tf := make(map[string]float64)
		for _, doc := range docs {
			for _, t := range Tokenize(doc) {
				tf[t]++
				corpusFreq[t]++
				totalTokens++
			}
		}
		classTF[id] = tf
	}

	avgClassSize := totalTokens / math.Max(float64(len(classDocs)), 1)

	m := &Model{
		Signatures: make(map[int]map[string]float64, len(classDocs)),
		Keywords:   make(map[int][]Keyword, len(classDocs)),
	}

	for id, tf := range classTF {
		var classTotal float64
		for _, n := range tf {
			classTotal += n
		}

		sig := make(map[string]float64, len(tf))
		for term, n := range tf {
			idf := math.Log(1 + avgClassSize/corpusFreq[term])
			sig[term] = (n / math.Max(classTotal, 1)) * idf
		}
		m.Signatures[id] = sig
		m.Keywords[id] = rank(sig, topK)
	}

	return m
}

// rank orders a signature's terms by descending score, ties alphabetical.
func rank(sig map[string]float64, topK int) []Keyword {
	ranked := make([]Keyword, 0, len(sig))
	for term, score := range sig {
		ranked = append(ranked, Keyword{Term: term, Score: score})
	}
	sort.Slice(ranked, func(a, b int) bool {
		if ranked[a].Score != ranked[b].Score {
			return ranked[a].Score > ranked[b].Score
		}
		return ranked[a].Term < ranked[b].Term
	})
	if topK > 0 && len(ranked) > topK {
		ranked = ranked[:topK]
	}
	return ranked
}

// Terms returns just the term strings of a ranked keyword list.
func Terms(keywords []Keyword) []string {
	terms := make([]string, len(keywords))
	for i, kw := range keywords {
		terms[i] = kw.Term
	}
	return terms
}

// Cosine computes the cosine similarity between two sparse term vectors.
func Cosine(a, b map[string]float64) float64 {
	var dot, na, nb float64
	for term, x := range a {
		na += x * x
		if y, ok := b[term]; ok {
			dot += x * y
		}
	}
	for _, y := range b {
		nb += y * y
	}
	if na == 0 || nb == 0 {
		return 0
	}
	return dot / (math.Sqrt(na) * math.Sqrt(nb))
}
