package rubric

import (
	"context"
	"fmt"

	"github.com/okian/gradebench/internal/domain/model"
)

// NumericAnswer grades assignments whose submission is a single literal
// answer. Known answers map to fixed scores; anything else earns zero,
// which is a legitimate grade for a wrong answer. Only an empty body is
// withheld from posting.
type NumericAnswer struct {
	name      string
	maxPoints float64
	answers   map[string]float64
}

// NewNumericAnswer builds a literal-answer evaluator. The answers map is
// copied; scores above maxPoints are capped at registration.
func NewNumericAnswer(name string, maxPoints float64, answers map[string]float64) *NumericAnswer {
	copied := make(map[string]float64, len(answers))
	for k, v := range answers {
		if v > maxPoints {
			v = maxPoints
		}
		if v < 0 {
			v = 0
		}
		copied[k] = v
	}
	return &NumericAnswer{name: name, maxPoints: maxPoints, answers: copied}
}

// Name implements Evaluator.
func (n *NumericAnswer) Name() string { return n.name }

// MaxPoints implements Evaluator.
func (n *NumericAnswer) MaxPoints() float64 { return n.maxPoints }

// Evaluate compares the submission's plain text against the answer table.
func (n *NumericAnswer) Evaluate(_ context.Context, sub model.Submission) model.Outcome {
	text := sub.PlainText()
	if text == "" {
		return model.Skipped("submission body is empty")
	}

	score := n.answers[text]
	comment := fmt.Sprintf("Answer %q earns %g of %g points.", text, score, n.maxPoints)
	return model.Graded(score, []string{comment})
}
