// Package model contains domain models passed between layers.
package model

// WorkflowState is the course service's submission lifecycle tag.
type WorkflowState string

// Workflow states reported by the course service. Only StateSubmitted is
// eligible for grading.
const (
	StateUnsubmitted   WorkflowState = "unsubmitted"
	StateSubmitted     WorkflowState = "submitted"
	StateGraded        WorkflowState = "graded"
	StatePendingReview WorkflowState = "pending_review"
)

// Assignment is one configured assignment. The full set is the sweep's
// static configuration; it is never mutated at runtime.
type Assignment struct {
	ID        int64  // assignment id on the course service
	Name      string // display name, for logging
	Evaluator string // registry key selecting the rubric
}

// Submission is one learner's work item as reported by the course service.
// Read-only to this system.
type Submission struct {
	ID     int64
	UserID int64
	State  WorkflowState
	Body   string // raw HTML/markup body
}

// Gradable reports whether the submission is in the only state eligible
// for grading.
func (s Submission) Gradable() bool {
	return s.State == StateSubmitted
}

// StageResult is the intermediate value produced by one rubric stage.
// It never leaves a single evaluation call.
type StageResult struct {
	Score    float64
	Comments []string

	// Carry is an evaluator-specific payload handed to the next stage,
	// e.g. the simulated product sequence. Nil when undefined.
	Carry interface{}
}
