package lms

import (
	"context"
	"fmt"
	"strings"

	"github.com/okian/gradebench/internal/domain/model"
	"github.com/okian/gradebench/pkg/logger"
	"github.com/okian/gradebench/pkg/metrics"
)

// submissionRecord mirrors the service's submission JSON.
type submissionRecord struct {
	ID            int64  `json:"id"`
	UserID        int64  `json:"user_id"`
	WorkflowState string `json:"workflow_state"`
	Body          string `json:"body"`
}

// SubmissionPager walks the paginated submission list of one assignment,
// following the service's continuation links until exhausted. Each call to
// Submissions returns a fresh pager, so the sequence is restartable.
type SubmissionPager struct {
	client       *Client
	assignmentID int64
	next         string
	done         bool
	err          error
}

// Submissions returns a pager over every submission of the assignment.
func (c *Client) Submissions(assignmentID int64) *SubmissionPager {
	return &SubmissionPager{
		client:       c,
		assignmentID: assignmentID,
		next: fmt.Sprintf("%s/courses/%d/assignments/%d/submissions?per_page=%d",
			c.baseURL, c.courseID, assignmentID, c.perPage),
	}
}

// Next fetches the next page. It returns false when the sequence is
// exhausted or a page fetch failed; Err distinguishes the two.
func (p *SubmissionPager) Next(ctx context.Context) ([]model.Submission, bool) {
	if p.done || p.next == "" {
		return nil, false
	}

	var records []submissionRecord
	resp, err := p.client.get(ctx, p.next, &records)
	if err != nil {
		metrics.RecordFetchError()
		p.err = err
		p.done = true
		return nil, false
	}
	metrics.RecordPageFetched()

	p.next = nextLink(resp.Header.Get("Link"))
	if p.next == "" || len(records) == 0 {
		p.done = true
	}
	if len(records) == 0 {
		return nil, false
	}

	page := make([]model.Submission, len(records))
	for i, r := range records {
		page[i] = model.Submission{
			ID:     r.ID,
			UserID: r.UserID,
			State:  model.WorkflowState(r.WorkflowState),
			Body:   r.Body,
		}
	}
	return page, true
}

// Err returns the fetch error that truncated the sequence, if any.
func (p *SubmissionPager) Err() error {
	return p.err
}

// All accumulates every page into one ordered slice. A fetch failure
// truncates the result at that point and is logged; partial results are
// acceptable, the next sweep retries.
func (p *SubmissionPager) All(ctx context.Context) []model.Submission {
	var all []model.Submission
	for {
		page, ok := p.Next(ctx)
		if !ok {
			break
		}
		all = append(all, page...)
	}
	if err := p.Err(); err != nil {
		p.client.logger.Warn(ctx, "submission fetch truncated",
			logger.Int64("assignmentID", p.assignmentID),
			logger.Int("fetched", len(all)),
			logger.Error(err),
		)
	}
	return all
}

// FetchSubmissions accumulates the full submission list of the
// assignment, newest pager each call.
func (c *Client) FetchSubmissions(ctx context.Context, assignmentID int64) []model.Submission {
	return c.Submissions(assignmentID).All(ctx)
}

// nextLink extracts the rel="next" URL from an RFC 5988 Link header.
// Canvas-style pagination sends one such header per response; an absent
// next relation means the sequence is exhausted.
func nextLink(header string) string {
	for _, part := range strings.Split(header, ",") {
		section := strings.Split(part, ";")
		if len(section) < 2 {
			continue
		}
		url := strings.Trim(strings.TrimSpace(section[0]), "<>")
		for _, param := range section[1:] {
			if strings.TrimSpace(param) == `rel="next"` {
				return url
			}
		}
	}
	return ""
}
