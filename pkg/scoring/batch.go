package scoring

import (
	"github.com/FaresAlnamla/Email-Spam-Detection-System/pkg/domain"
)

// BatchScorer validates batch size limits and scores the whole batch in
// one vectorized call. This is the throughput-critical path: texts are
// never scored element-by-element.
type BatchScorer struct {
	engine   *Engine
	maxBatch int
}

type BatchScorerDependencies struct {
	Engine   *Engine
	MaxBatch int
}

func NewBatchScorer(deps BatchScorerDependencies) *BatchScorer {
	return &BatchScorer{
		engine:   deps.Engine,
		maxBatch: deps.MaxBatch,
	}
}

// ScoreBatch scores texts with the given threshold. An empty batch and a
// batch beyond the configured maximum are both input errors.
func (s *BatchScorer) ScoreBatch(texts []string, threshold float64) ([]domain.ScoredItem, error) {
	if len(texts) == 0 {
		return nil, domain.ErrEmptyBatch
	}
	if len(texts) > s.maxBatch {
		return nil, domain.ErrBatchTooLarge
	}
	return s.engine.Score(texts, threshold), nil
}

// MaxBatch reports the configured batch ceiling.
func (s *BatchScorer) MaxBatch() int {
	return s.maxBatch
}
