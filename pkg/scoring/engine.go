// Package scoring applies the loaded model bundle to messages and turns
// probabilities into spam/ham labels using a per-request threshold.
package scoring

import (
	"strings"

	"github.com/FaresAlnamla/Email-Spam-Detection-System/pkg/bundle"
	"github.com/FaresAlnamla/Email-Spam-Detection-System/pkg/domain"
)

// Engine scores messages against an immutable model bundle. Scoring N
// texts always yields N results in input order and never mutates the
// bundle, so a single Engine serves all requests concurrently.
type Engine struct {
	bundle *bundle.Bundle
}

type EngineDependencies struct {
	Bundle *bundle.Bundle
}

func NewEngine(deps EngineDependencies) *Engine {
	return &Engine{
		bundle: deps.Bundle,
	}
}

// Score classifies all texts in one vectorizer pass. Empty texts are
// scored like any other so batch semantics stay total; single-item
// validation belongs to ScoreOne.
func (e *Engine) Score(texts []string, threshold float64) []domain.ScoredItem {
	trimmed := make([]string, len(texts))
	for i, t := range texts {
		trimmed[i] = strings.TrimSpace(t)
	}

	rows := e.bundle.Vectorizer.Transform(trimmed)
	items := make([]domain.ScoredItem, len(trimmed))

	switch clf := e.bundle.Classifier.(type) {
	case bundle.ProbabilisticClassifier:
		proba := clf.PredictProba(rows)
		for i, t := range trimmed {
			columns := len(clf.Classes())
			if len(proba[i]) > 0 {
				columns = len(proba[i])
			}
			spamIdx := bundle.SpamClassIndex(clf.Classes(), columns)

			p := proba[i][spamIdx]
			label := domain.Label_Ham
			if p >= threshold {
				label = domain.Label_Spam
			}

			items[i] = domain.ScoredItem{
				Text:      t,
				Pred:      string(label),
				ProbaSpam: &p,
			}
		}
	case bundle.LabelOnlyClassifier:
		// No calibrated probabilities: the raw predicted class stands and
		// thresholding is skipped entirely.
		preds := clf.Predict(rows)
		for i, t := range trimmed {
			items[i] = domain.ScoredItem{
				Text: t,
				Pred: preds[i],
			}
		}
	}

	return items
}

// ScoreOne classifies a single message, rejecting input that is empty
// after trimming.
func (e *Engine) ScoreOne(text string, threshold float64) (domain.ScoredItem, error) {
	if strings.TrimSpace(text) == "" {
		return domain.ScoredItem{}, domain.ErrEmptyText
	}
	return e.Score([]string{text}, threshold)[0], nil
}

// Bundle exposes the underlying model for provenance reporting.
func (e *Engine) Bundle() *bundle.Bundle {
	return e.bundle
}

// Probabilistic reports whether the loaded classifier produces spam
// probabilities, which decides if output tables carry a proba_spam
// column.
func (e *Engine) Probabilistic() bool {
	_, ok := e.bundle.Classifier.(bundle.ProbabilisticClassifier)
	return ok
}
