// Package app runs the grading sweep. Each sweep walks the configured
// assignments, evaluates every gradable submission with the assignment's
// rubric, and writes scores and comments back to the course service.
package app

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/okian/gradebench/internal/adapters/lms"
	"github.com/okian/gradebench/internal/config"
	"github.com/okian/gradebench/internal/domain/model"
	"github.com/okian/gradebench/internal/domain/rubric"
	"github.com/okian/gradebench/pkg/logger"
	"github.com/okian/gradebench/pkg/metrics"
)

// Default sweep configuration constants.
const (
	defaultPollInterval = 300 * time.Second
	defaultWorkerCount  = 1
)

// Course is the slice of the course service the sweep depends on.
type Course interface {
	ListAssignments(ctx context.Context) ([]lms.RemoteAssignment, error)
	FetchSubmissions(ctx context.Context, assignmentID int64) []model.Submission
	PublishGrade(ctx context.Context, assignmentID, userID int64, score float64, comments []string) bool
}

// Service drives the periodic grading sweep over configured assignments.
type Service struct {
	course      Course
	registry    *rubric.Registry
	assignments []config.AssignmentConfig

	pollInterval time.Duration
	workerCount  int

	clock  Clock
	logger logger.Logger
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithLogger sets a custom logger for the service.
func WithLogger(log logger.Logger) Option {
	return func(s *Service) {
		if log != nil {
			s.logger = log
		}
	}
}

// WithWorkerCount sets the number of concurrent evaluation workers per
// assignment. One worker keeps at most one evaluation per learner in
// flight, which is the safe default.
func WithWorkerCount(count int) Option {
	return func(s *Service) {
		if count > 0 {
			s.workerCount = count
		}
	}
}

// WithPollInterval sets the pause between consecutive sweeps.
func WithPollInterval(d time.Duration) Option {
	return func(s *Service) {
		if d > 0 {
			s.pollInterval = d
		}
	}
}

// WithClock sets the time source for the sweep loop.
func WithClock(c Clock) Option {
	return func(s *Service) {
		if c != nil {
			s.clock = c
		}
	}
}

// New constructs a sweep service over the given course, rubric registry,
// and assignment table.
func New(course Course, registry *rubric.Registry, assignments []config.AssignmentConfig, opts ...Option) *Service {
	s := &Service{
		course:       course,
		registry:     registry,
		assignments:  assignments,
		pollInterval: defaultPollInterval,
		workerCount:  defaultWorkerCount,
		clock:        realClock{},
		logger:       logger.Get().Named("sweep"),
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Run sweeps forever, pausing pollInterval between rounds, until the
// context is canceled. There is no terminal success state; new
// submissions keep arriving between sweeps.
func (s *Service) Run(ctx context.Context) error {
	metrics.UpdateWorkerCount(s.workerCount)
	s.discoverAssignments(ctx)

	s.logger.Info(ctx, "sweep loop started",
		logger.Int("assignments", len(s.assignments)),
		logger.Int("workers", s.workerCount),
		logger.String("interval", s.pollInterval.String()),
	)

	for {
		s.RunSweep(ctx)

		if err := s.clock.Sleep(ctx, s.pollInterval); err != nil {
			s.logger.Info(ctx, "sweep loop stopped")
			return err
		}
	}
}

// RunSweep performs one full pass over every configured assignment. A
// failure in one assignment never aborts the others.
func (s *Service) RunSweep(ctx context.Context) {
	sweepID := uuid.NewString()
	start := s.clock.Now()
	log := s.logger.Named(sweepID[:8])

	log.Debug(ctx, "sweep started")
	for _, a := range s.assignments {
		if ctx.Err() != nil {
			return
		}
		s.processAssignment(ctx, log, a)
	}

	elapsed := s.clock.Now().Sub(start)
	metrics.RecordSweepDuration(elapsed.Seconds())
	metrics.RecordSweepCompleted(s.clock.Now().Unix())
	log.Info(ctx, "sweep completed",
		logger.String("elapsed", elapsed.String()),
	)
}

// processAssignment fetches the assignment's submissions and fans them
// out to evaluation workers.
func (s *Service) processAssignment(ctx context.Context, log logger.Logger, a config.AssignmentConfig) {
	log = log.Named(a.Name)

	// Catch-all boundary: whatever goes wrong inside one assignment is
	// logged and the sweep moves on to the next one.
	defer func() {
		if r := recover(); r != nil {
			metrics.RecordAssignmentError()
			log.Error(ctx, "assignment processing failed",
				logger.Int64("assignmentID", a.ID),
				logger.Any("panic", r),
			)
		}
	}()

	subs := s.course.FetchSubmissions(ctx, a.ID)
	metrics.RecordSubmissionsFetched(len(subs))
	if len(subs) == 0 {
		log.Debug(ctx, "no submissions", logger.Int64("assignmentID", a.ID))
		metrics.RecordAssignmentProcessed()
		return
	}
	log.Debug(ctx, "submissions fetched",
		logger.Int64("assignmentID", a.ID),
		logger.Int("count", len(subs)),
	)

	ev, ok := s.registry.Resolve(a.Evaluator)
	if !ok {
		// Logged once per assignment per sweep; each gradable submission
		// counts as a skip, and none of them is ever posted.
		log.Warn(ctx, "no evaluator configured",
			logger.Int64("assignmentID", a.ID),
			logger.String("evaluator", a.Evaluator),
		)
		for _, sub := range subs {
			if sub.Gradable() {
				metrics.RecordSubmissionSkipped("no evaluator configured")
			}
		}
		metrics.RecordAssignmentProcessed()
		return
	}

	jobs := make(chan model.Submission)
	var wg sync.WaitGroup
	for i := 0; i < s.workerCount; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for sub := range jobs {
				s.evaluateOne(ctx, log, a, ev, sub)
			}
		}()
	}

	for _, sub := range subs {
		if ctx.Err() != nil {
			break
		}
		if !sub.Gradable() {
			log.Debug(ctx, "submission not gradable",
				logger.Int64("userID", sub.UserID),
				logger.String("state", string(sub.State)),
			)
			metrics.RecordSubmissionSkipped("state")
			continue
		}
		jobs <- sub
	}
	close(jobs)
	wg.Wait()

	metrics.RecordAssignmentProcessed()
}

// evaluateOne shields the worker goroutine from a panicking evaluator;
// one broken submission never takes down its siblings or the process.
func (s *Service) evaluateOne(ctx context.Context, log logger.Logger, a config.AssignmentConfig, ev rubric.Evaluator, sub model.Submission) {
	defer func() {
		if r := recover(); r != nil {
			metrics.RecordEvaluationError()
			log.Error(ctx, "evaluator panicked",
				logger.Int64("userID", sub.UserID),
				logger.Any("panic", r),
			)
		}
	}()
	s.processSubmission(ctx, log, a, ev, sub)
}

// processSubmission evaluates one submission and publishes the outcome.
// Evaluation and publish failures affect only this submission; the next
// sweep sees it again and retries.
func (s *Service) processSubmission(ctx context.Context, log logger.Logger, a config.AssignmentConfig, ev rubric.Evaluator, sub model.Submission) {
	start := s.clock.Now()
	out := ev.Evaluate(ctx, sub)
	metrics.RecordEvaluationLatency(float64(s.clock.Now().Sub(start).Milliseconds()))

	switch out.Kind {
	case model.OutcomeGraded:
		ok := s.course.PublishGrade(ctx, a.ID, sub.UserID, out.Score, out.Comments)
		if ok {
			metrics.RecordSubmissionGraded()
			log.Info(ctx, "submission graded",
				logger.Int64("userID", sub.UserID),
				logger.Float64("score", out.Score),
			)
		} else {
			log.Warn(ctx, "grade publish failed, will retry next sweep",
				logger.Int64("userID", sub.UserID),
			)
		}

	case model.OutcomeSkipped:
		metrics.RecordSubmissionSkipped(out.Reason)
		log.Info(ctx, "submission skipped",
			logger.Int64("userID", sub.UserID),
			logger.String("reason", out.Reason),
		)

	case model.OutcomeError:
		metrics.RecordEvaluationError()
		log.Error(ctx, "evaluation failed",
			logger.Int64("userID", sub.UserID),
			logger.Error(out.Err),
		)
	}
}

// discoverAssignments logs the remote assignment catalog once at startup
// and flags configured assignments that do not exist on the course.
// Discovery failures are not fatal; the sweep proceeds on configuration
// alone.
func (s *Service) discoverAssignments(ctx context.Context) {
	remote, err := s.course.ListAssignments(ctx)
	if err != nil {
		s.logger.Warn(ctx, "assignment discovery failed", logger.Error(err))
		return
	}

	byID := make(map[int64]string, len(remote))
	for _, r := range remote {
		byID[r.ID] = r.Name
		s.logger.Debug(ctx, "course assignment",
			logger.Int64("assignmentID", r.ID),
			logger.String("name", r.Name),
		)
	}

	for _, a := range s.assignments {
		if _, ok := byID[a.ID]; !ok {
			s.logger.Warn(ctx, "configured assignment not found on course",
				logger.Int64("assignmentID", a.ID),
				logger.String("name", a.Name),
			)
		}
	}
}
