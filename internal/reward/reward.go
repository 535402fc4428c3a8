// Package reward maps an evaluation vector to a scalar reward, either by a
// pre-trained classifier (an external collaborator, specified only by its
// input/output shape, returning a probability in [0, 1]) or by a
// configurable heuristic formula compiled once with expr-lang and re-run
// per evaluation, whose range follows the vector components it combines.
package reward

import (
	"github.com/kaalam/arcsynth/internal/eval"
)

// Model scores a batch of evaluation vectors.
type Model interface {
	// Score returns one reward per vector, in the same order.
	Score(vectors []eval.Vector) ([]float64, error)
}

// Classifier is the external collaborator the original backs with a
// gradient-boosted tree ensemble. Training data is built by
// internal/harness: a positive example is a vector captured at the tail of
// a known solution run on its own problem; a negative example is a vector
// captured at the tail of a code item run on an unrelated problem whose
// pic_reach_max fell short of a full match. This package defines the
// interface only — no bundled implementation, matching the original's
// "classifier is out of scope, specified only by shape" stance.
type Classifier interface {
	// PredictProba returns the classifier's estimated probability that
	// vector is the tail of a correct solution, for each vector in the
	// batch, in [0, 1].
	PredictProba(vectors []eval.Vector) ([]float64, error)
}

// ClassifierModel adapts a Classifier to Model by forwarding directly to
// PredictProba: the classifier already outputs a probability in [0, 1],
// so no further transform is applied.
type ClassifierModel struct {
	Classifier Classifier
}

// Score implements Model.
func (m ClassifierModel) Score(vectors []eval.Vector) ([]float64, error) {
	return m.Classifier.PredictProba(vectors)
}
