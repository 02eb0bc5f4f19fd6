package lms

import (
	"context"
	"fmt"
	"strings"

	"github.com/okian/gradebench/pkg/logger"
	"github.com/okian/gradebench/pkg/metrics"
)

// gradePayload is the write-back body: a posted grade plus one text comment.
type gradePayload struct {
	Submission struct {
		PostedGrade float64 `json:"posted_grade"`
	} `json:"submission"`
	Comment struct {
		TextComment string `json:"text_comment"`
	} `json:"comment"`
}

// PublishGrade writes a score and comments back for one (assignment,
// learner) pair. Comments are joined in order into one text blob. The
// write is an idempotent overwrite: replaying it with the same inputs is
// safe. Any transport failure or non-success status reports false and is
// never raised past this boundary; the next sweep re-publishes.
func (c *Client) PublishGrade(ctx context.Context, assignmentID, userID int64, score float64, comments []string) bool {
	url := fmt.Sprintf("%s/courses/%d/assignments/%d/submissions/%d",
		c.baseURL, c.courseID, assignmentID, userID)

	var payload gradePayload
	payload.Submission.PostedGrade = score
	payload.Comment.TextComment = strings.Join(comments, "\n")

	ok, err := c.put(ctx, url, payload)
	if err != nil {
		metrics.RecordPublishFailure()
		c.logger.Warn(ctx, "grade write-back failed",
			logger.Int64("assignmentID", assignmentID),
			logger.Int64("userID", userID),
			logger.Error(err),
		)
		return false
	}
	if !ok {
		metrics.RecordPublishFailure()
		c.logger.Warn(ctx, "grade write-back rejected",
			logger.Int64("assignmentID", assignmentID),
			logger.Int64("userID", userID),
		)
		return false
	}

	metrics.RecordPublishSuccess()
	return true
}
