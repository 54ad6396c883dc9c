package bundle

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSpamClassIndex(t *testing.T) {
	tests := []struct {
		name     string
		classes  []string
		columns  int
		expected int
	}{
		{name: "named spam class wins", classes: []string{"spam", "ham"}, columns: 2, expected: 0},
		{name: "named spam second", classes: []string{"ham", "spam"}, columns: 2, expected: 1},
		{name: "no name two columns picks second", classes: []string{"0", "1"}, columns: 2, expected: 1},
		{name: "no name other width picks first", classes: []string{"a", "b", "c"}, columns: 3, expected: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, SpamClassIndex(tt.classes, tt.columns))
		})
	}
}

func TestLogisticRegression_PredictProba(t *testing.T) {
	clf := &LogisticRegression{linearModel: linearModel{
		ClassNames: []string{"ham", "spam"},
		Coef:       [][]float64{{2.0, -1.0}},
		Intercept:  []float64{0.5},
	}}

	proba := clf.PredictProba([]SparseVector{
		{0: 1.0},
		{1: 1.0},
		{},
	})
	require.Len(t, proba, 3)

	// score = 2.0*1 + 0.5
	assert.InDelta(t, sigmoid(2.5), proba[0][1], 1e-12)
	assert.InDelta(t, sigmoid(-0.5), proba[1][1], 1e-12)
	assert.InDelta(t, sigmoid(0.5), proba[2][1], 1e-12)

	for _, row := range proba {
		assert.InDelta(t, 1.0, row[0]+row[1], 1e-12)
	}
}

func TestLogisticRegression_Multiclass(t *testing.T) {
	clf := &LogisticRegression{linearModel: linearModel{
		ClassNames: []string{"ham", "spam", "promo"},
		Coef: [][]float64{
			{1.0},
			{3.0},
			{2.0},
		},
		Intercept: []float64{0, 0, 0},
	}}

	proba := clf.PredictProba([]SparseVector{{0: 1.0}})
	require.Len(t, proba[0], 3)

	var sum float64
	for _, p := range proba[0] {
		sum += p
	}
	assert.InDelta(t, 1.0, sum, 1e-12)
	assert.Greater(t, proba[0][1], proba[0][0])
	assert.Greater(t, proba[0][1], proba[0][2])
}

func TestLinearSVM_Predict(t *testing.T) {
	clf := &LinearSVM{linearModel: linearModel{
		ClassNames: []string{"ham", "spam"},
		Coef:       [][]float64{{1.0}},
		Intercept:  []float64{-0.5},
	}}

	preds := clf.Predict([]SparseVector{
		{0: 1.0},
		{0: 0.1},
		{},
	})
	assert.Equal(t, []string{"spam", "ham", "ham"}, preds)
}

func TestLinearModel_Validate(t *testing.T) {
	tests := []struct {
		name    string
		model   linearModel
		wantErr bool
	}{
		{
			name:  "valid binary",
			model: linearModel{ClassNames: []string{"ham", "spam"}, Coef: [][]float64{{1}}, Intercept: []float64{0}},
		},
		{
			name:    "single class",
			model:   linearModel{ClassNames: []string{"spam"}, Coef: [][]float64{{1}}},
			wantErr: true,
		},
		{
			name:    "no coefficients",
			model:   linearModel{ClassNames: []string{"ham", "spam"}},
			wantErr: true,
		},
		{
			name:    "multiclass row mismatch",
			model:   linearModel{ClassNames: []string{"a", "b", "c"}, Coef: [][]float64{{1}}},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.model.validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestSigmoid(t *testing.T) {
	assert.InDelta(t, 0.5, sigmoid(0), 1e-12)
	assert.InDelta(t, 0.6, sigmoid(math.Log(0.6/0.4)), 1e-12)
}
