package bundle

import (
	"math"
	"regexp"
	"strings"
)

// SparseVector is one row of TF-IDF features, keyed by vocabulary index.
type SparseVector map[int]float64

var tokenPattern = regexp.MustCompile(`[a-z0-9]+`)

// Vectorizer maps raw message text to L2-normalized TF-IDF features using
// the vocabulary and IDF weights captured at training time. Texts are
// lowercased and reduced to alphanumeric tokens before n-gram extraction.
type Vectorizer struct {
	Vocabulary map[string]int `json:"vocabulary"`
	IDF        []float64      `json:"idf"`
	NgramMin   int            `json:"ngram_min"`
	NgramMax   int            `json:"ngram_max"`
}

// Transform vectorizes all texts in one pass. The result has exactly one
// row per input text, in input order.
func (v *Vectorizer) Transform(texts []string) []SparseVector {
	rows := make([]SparseVector, len(texts))
	for i, text := range texts {
		rows[i] = v.transformOne(text)
	}
	return rows
}

func (v *Vectorizer) transformOne(text string) SparseVector {
	tokens := tokenPattern.FindAllString(strings.ToLower(text), -1)

	counts := make(map[int]float64)
	for n := v.ngramMin(); n <= v.ngramMax(); n++ {
		for i := 0; i+n <= len(tokens); i++ {
			gram := strings.Join(tokens[i:i+n], " ")
			if idx, ok := v.Vocabulary[gram]; ok {
				counts[idx]++
			}
		}
	}

	row := make(SparseVector, len(counts))
	var norm float64
	for idx, tf := range counts {
		w := tf
		if idx < len(v.IDF) {
			w *= v.IDF[idx]
		}
		row[idx] = w
		norm += w * w
	}

	if norm > 0 {
		norm = math.Sqrt(norm)
		for idx := range row {
			row[idx] /= norm
		}
	}

	return row
}

func (v *Vectorizer) ngramMin() int {
	if v.NgramMin < 1 {
		return 1
	}
	return v.NgramMin
}

func (v *Vectorizer) ngramMax() int {
	if v.NgramMax < v.ngramMin() {
		return v.ngramMin()
	}
	return v.NgramMax
}
