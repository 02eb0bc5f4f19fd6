// Package rubric defines the contract for scoring submissions against
// per-assignment correctness rubrics, and the staged pipeline most rubrics
// are built from.
package rubric

import (
	"context"
	"errors"

	"github.com/okian/gradebench/internal/domain/model"
	"github.com/okian/gradebench/pkg/metrics"
)

// Evaluator scores one submission against one assignment's rubric.
type Evaluator interface {
	// Name identifies the rubric for logging and metrics.
	Name() string

	// MaxPoints is the upper bound of every Graded score this evaluator
	// produces.
	MaxPoints() float64

	// Evaluate scores the submission. Expected failure modes (malformed
	// input, failed simulation) come back as Skipped or partial-credit
	// Graded outcomes, never as panics.
	Evaluate(ctx context.Context, sub model.Submission) model.Outcome
}

// StageFunc runs one stage of a staged rubric. carry is the payload the
// previous stage produced via StageResult.Carry, nil for the first stage.
// Returning an error wrapping ErrUngradable terminates the pipeline with a
// Skipped outcome; any other error terminates it with an Error outcome.
type StageFunc func(ctx context.Context, sub model.Submission, carry interface{}) (model.StageResult, error)

// Stage is one step of a staged rubric pipeline.
type Stage struct {
	Name string
	Max  float64
	Run  StageFunc
}

// Pipeline is a staged rubric: an ordered list of stages with an early-exit
// policy. The first stage that does not award its maximum marks terminates
// the pipeline, and its score becomes the submission's score. Comments
// accumulate across stages in order.
type Pipeline struct {
	name      string
	maxPoints float64
	stages    []Stage
}

// NewPipeline builds a staged rubric. maxPoints bounds the final score.
func NewPipeline(name string, maxPoints float64, stages ...Stage) *Pipeline {
	return &Pipeline{name: name, maxPoints: maxPoints, stages: stages}
}

// Name implements Evaluator.
func (p *Pipeline) Name() string { return p.name }

// MaxPoints implements Evaluator.
func (p *Pipeline) MaxPoints() float64 { return p.maxPoints }

// Evaluate runs the stages in order under the early-exit policy.
//
// A negative stage score is an internal "do not post" sentinel and converts
// to a Skipped outcome; it never reaches the publisher as a grade.
func (p *Pipeline) Evaluate(ctx context.Context, sub model.Submission) model.Outcome {
	var comments []string
	var carry interface{}

	for _, st := range p.stages {
		res, err := st.Run(ctx, sub, carry)
		if err != nil {
			if errors.Is(err, ErrUngradable) {
				metrics.RecordStageExit(p.name, st.Name)
				return model.Skipped(err.Error())
			}
			return model.Errored(err)
		}

		comments = append(comments, res.Comments...)

		if res.Score < 0 {
			metrics.RecordStageExit(p.name, st.Name)
			return model.Skipped("rubric stage " + st.Name + " withheld the grade")
		}
		if res.Score < st.Max {
			metrics.RecordStageExit(p.name, st.Name)
			return model.Graded(p.clamp(res.Score), comments)
		}
		carry = res.Carry
	}

	metrics.RecordStageExit(p.name, "complete")
	return model.Graded(p.maxPoints, comments)
}

func (p *Pipeline) clamp(score float64) float64 {
	if score < 0 {
		return 0
	}
	if score > p.maxPoints {
		return p.maxPoints
	}
	return score
}
