package bundle

import (
	"fmt"
	"math"
)

type ClassifierType string

const (
	ClassifierType_LogisticRegression ClassifierType = "logistic_regression"
	ClassifierType_LinearSVM          ClassifierType = "linear_svm"
)

// Classifier is the common surface of both classifier variants. The
// concrete variant is chosen once at bundle-load time; callers dispatch
// with a single type assertion instead of runtime capability probing.
type Classifier interface {
	Classes() []string
	Name() string
}

// ProbabilisticClassifier produces calibrated per-class probabilities.
type ProbabilisticClassifier interface {
	Classifier
	// PredictProba returns one probability row per input row, with one
	// column per class in Classes() order.
	PredictProba(rows []SparseVector) [][]float64
}

// LabelOnlyClassifier produces discrete labels without probabilities.
type LabelOnlyClassifier interface {
	Classifier
	Predict(rows []SparseVector) []string
}

// SpamClassIndex locates the probability column for the spam class.
// Compatibility policy for classifiers trained without explicit class
// names: an exact "spam" class wins, else the second of two columns,
// else the first.
func SpamClassIndex(classes []string, columns int) int {
	for i, c := range classes {
		if c == "spam" {
			return i
		}
	}
	if columns == 2 {
		return 1
	}
	return 0
}

type linearModel struct {
	ClassNames []string    `json:"classes"`
	Coef       [][]float64 `json:"coef"`
	Intercept  []float64   `json:"intercept"`
}

func (m *linearModel) Classes() []string {
	return m.ClassNames
}

func (m *linearModel) validate() error {
	if len(m.ClassNames) < 2 {
		return fmt.Errorf("classifier needs at least 2 classes, got %d", len(m.ClassNames))
	}
	if len(m.Coef) == 0 {
		return fmt.Errorf("classifier has no coefficients")
	}
	if len(m.ClassNames) == 2 && len(m.Coef) != 1 && len(m.Coef) != 2 {
		return fmt.Errorf("binary classifier expects 1 coefficient row, got %d", len(m.Coef))
	}
	if len(m.ClassNames) > 2 && len(m.Coef) != len(m.ClassNames) {
		return fmt.Errorf("classifier has %d classes but %d coefficient rows", len(m.ClassNames), len(m.Coef))
	}
	return nil
}

// decisionScores computes w·x+b per decision row.
func (m *linearModel) decisionScores(row SparseVector) []float64 {
	scores := make([]float64, len(m.Coef))
	for k, weights := range m.Coef {
		var s float64
		for idx, val := range row {
			if idx < len(weights) {
				s += weights[idx] * val
			}
		}
		if k < len(m.Intercept) {
			s += m.Intercept[k]
		}
		scores[k] = s
	}
	return scores
}

// LogisticRegression is the probabilistic variant: sigmoid over the
// margin for binary models, softmax over per-class scores otherwise.
type LogisticRegression struct {
	linearModel
}

func (c *LogisticRegression) Name() string {
	return string(ClassifierType_LogisticRegression)
}

func (c *LogisticRegression) PredictProba(rows []SparseVector) [][]float64 {
	out := make([][]float64, len(rows))
	for i, row := range rows {
		scores := c.decisionScores(row)
		if len(scores) == 1 {
			p := sigmoid(scores[0])
			out[i] = []float64{1 - p, p}
			continue
		}
		out[i] = softmax(scores)
	}
	return out
}

// LinearSVM is the label-only variant: an uncalibrated margin decides the
// class and no probability is reported.
type LinearSVM struct {
	linearModel
}

func (c *LinearSVM) Name() string {
	return string(ClassifierType_LinearSVM)
}

func (c *LinearSVM) Predict(rows []SparseVector) []string {
	out := make([]string, len(rows))
	for i, row := range rows {
		scores := c.decisionScores(row)
		if len(scores) == 1 {
			if scores[0] > 0 {
				out[i] = c.ClassNames[1]
			} else {
				out[i] = c.ClassNames[0]
			}
			continue
		}
		best := 0
		for k := 1; k < len(scores); k++ {
			if scores[k] > scores[best] {
				best = k
			}
		}
		out[i] = c.ClassNames[best]
	}
	return out
}

func sigmoid(x float64) float64 {
	return 1 / (1 + math.Exp(-x))
}

func softmax(scores []float64) []float64 {
	max := scores[0]
	for _, s := range scores[1:] {
		if s > max {
			max = s
		}
	}
	var sum float64
	out := make([]float64, len(scores))
	for i, s := range scores {
		out[i] = math.Exp(s - max)
		sum += out[i]
	}
	for i := range out {
		out[i] /= sum
	}
	return out
}
