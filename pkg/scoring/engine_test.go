package scoring

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/FaresAlnamla/Email-Spam-Detection-System/pkg/bundle"
	"github.com/FaresAlnamla/Email-Spam-Detection-System/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ln(0.6/0.4): "win" alone scores a spam probability of exactly 0.6.
const testArtifact = `{
	"vectorizer": {
		"vocabulary": {"win": 0, "free": 1, "hello": 2},
		"idf": [1.0, 1.0, 1.0],
		"ngram_min": 1,
		"ngram_max": 1
	},
	"classifier": {
		"type": "logistic_regression",
		"classes": ["ham", "spam"],
		"coef": [[0.4054651081081644, 3.0, -3.0]],
		"intercept": [0]
	},
	"meta": {"algorithm": "LogisticRegression"}
}`

const labelOnlyArtifact = `{
	"vectorizer": {
		"vocabulary": {"win": 0, "free": 1, "hello": 2},
		"idf": [1.0, 1.0, 1.0],
		"ngram_min": 1,
		"ngram_max": 1
	},
	"classifier": {
		"type": "linear_svm",
		"classes": ["ham", "spam"],
		"coef": [[0.5, 3.0, -3.0]],
		"intercept": [0]
	}
}`

func loadTestBundle(t *testing.T, artifact string) *bundle.Bundle {
	t.Helper()
	path := filepath.Join(t.TempDir(), "bundle.json")
	require.NoError(t, os.WriteFile(path, []byte(artifact), 0o644))
	b, err := bundle.Load(path)
	require.NoError(t, err)
	return b
}

func newTestEngine(t *testing.T) *Engine {
	return NewEngine(EngineDependencies{Bundle: loadTestBundle(t, testArtifact)})
}

func TestEngine_Score(t *testing.T) {
	e := newTestEngine(t)

	items := e.Score([]string{"free", "hello", "win"}, 0.55)
	require.Len(t, items, 3)

	assert.Equal(t, "spam", items[0].Pred)
	assert.Equal(t, "ham", items[1].Pred)

	require.NotNil(t, items[2].ProbaSpam)
	assert.InDelta(t, 0.6, *items[2].ProbaSpam, 1e-9)
	assert.Equal(t, "spam", items[2].Pred)
}

func TestEngine_ThresholdScenario(t *testing.T) {
	e := newTestEngine(t)
	registry := domain.NewProfileRegistry(domain.ProfileRegistryDependencies{SystemProfile: "default"})

	// A 0.60-probability message flips between profiles.
	bank := e.Score([]string{"win"}, registry.Resolve("bank").Threshold)[0]
	assert.Equal(t, "ham", bank.Pred)

	aggressive := e.Score([]string{"win"}, registry.Resolve("aggressive").Threshold)[0]
	assert.Equal(t, "spam", aggressive.Pred)
}

func TestEngine_BatchInvariance(t *testing.T) {
	e := newTestEngine(t)
	texts := []string{"free win", "hello there", "win win win"}

	together := e.Score(texts, 0.55)
	for i, text := range texts {
		alone := e.Score([]string{text}, 0.55)
		assert.Equal(t, alone[0], together[i])
	}
}

func TestEngine_Idempotent(t *testing.T) {
	e := newTestEngine(t)
	texts := []string{"free", "hello", "win free"}

	assert.Equal(t, e.Score(texts, 0.55), e.Score(texts, 0.55))
}

func TestEngine_TrimsText(t *testing.T) {
	e := newTestEngine(t)

	item := e.Score([]string{"   win \t"}, 0.55)[0]
	assert.Equal(t, "win", item.Text)
}

func TestEngine_EmptyTextInBatchIsScored(t *testing.T) {
	e := newTestEngine(t)

	items := e.Score([]string{"", "   "}, 0.55)
	require.Len(t, items, 2)
	for _, item := range items {
		assert.Equal(t, "ham", item.Pred)
		require.NotNil(t, item.ProbaSpam)
		assert.InDelta(t, 0.5, *item.ProbaSpam, 1e-9)
	}
}

func TestEngine_ScoreOne(t *testing.T) {
	e := newTestEngine(t)

	item, err := e.ScoreOne("free entry win a prize", 0.55)
	require.NoError(t, err)
	assert.Equal(t, "spam", item.Pred)

	_, err = e.ScoreOne("", 0.55)
	assert.ErrorIs(t, err, domain.ErrEmptyText)

	_, err = e.ScoreOne("   \n ", 0.55)
	assert.ErrorIs(t, err, domain.ErrEmptyText)
}

func TestEngine_LabelOnlyClassifier(t *testing.T) {
	e := NewEngine(EngineDependencies{Bundle: loadTestBundle(t, labelOnlyArtifact)})

	assert.False(t, e.Probabilistic())

	// Thresholding is skipped entirely: even an extreme threshold leaves
	// the raw predicted class untouched, and no probability is reported.
	items := e.Score([]string{"free", "hello"}, 0.99)
	require.Len(t, items, 2)
	assert.Equal(t, "spam", items[0].Pred)
	assert.Nil(t, items[0].ProbaSpam)
	assert.Equal(t, "ham", items[1].Pred)
	assert.Nil(t, items[1].ProbaSpam)
}

func TestEngine_Probabilistic(t *testing.T) {
	assert.True(t, newTestEngine(t).Probabilistic())
}
