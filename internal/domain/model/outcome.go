package model

// OutcomeKind tags the result of evaluating one submission.
type OutcomeKind int

const (
	// OutcomeGraded carries a postable score and comments.
	OutcomeGraded OutcomeKind = iota
	// OutcomeSkipped means the submission must not be posted this sweep.
	OutcomeSkipped
	// OutcomeError means evaluation itself failed unexpectedly.
	OutcomeError
)

// String returns the kind name for logging.
func (k OutcomeKind) String() string {
	switch k {
	case OutcomeGraded:
		return "graded"
	case OutcomeSkipped:
		return "skipped"
	case OutcomeError:
		return "error"
	default:
		return "unknown"
	}
}

// Outcome is the tagged result of evaluating one submission. Only a Graded
// outcome ever reaches the result publisher; Skipped and Error stop at the
// orchestrator boundary.
type Outcome struct {
	Kind OutcomeKind

	// Score and Comments are meaningful only when Kind is OutcomeGraded.
	// Score is bounded to [0, maxPoints] for the assignment's rubric.
	Score    float64
	Comments []string

	// Reason is set when Kind is OutcomeSkipped.
	Reason string

	// Err is set when Kind is OutcomeError.
	Err error
}

// Graded builds a postable outcome.
func Graded(score float64, comments []string) Outcome {
	return Outcome{Kind: OutcomeGraded, Score: score, Comments: comments}
}

// Skipped builds a non-postable outcome with a reason.
func Skipped(reason string) Outcome {
	return Outcome{Kind: OutcomeSkipped, Reason: reason}
}

// Errored builds an outcome for an unexpected evaluation failure.
func Errored(err error) Outcome {
	return Outcome{Kind: OutcomeError, Err: err}
}
