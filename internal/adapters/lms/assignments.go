package lms

import (
	"context"
	"fmt"

	"github.com/okian/gradebench/pkg/metrics"
)

// RemoteAssignment is an assignment as listed by the course service.
type RemoteAssignment struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// ListAssignments fetches the course's assignment list. Callers treat an
// error as an empty list for the current sweep.
func (c *Client) ListAssignments(ctx context.Context) ([]RemoteAssignment, error) {
	url := fmt.Sprintf("%s/courses/%d/assignments?per_page=%d", c.baseURL, c.courseID, c.perPage)

	var assignments []RemoteAssignment
	if _, err := c.get(ctx, url, &assignments); err != nil {
		metrics.RecordFetchError()
		return nil, err
	}
	return assignments, nil
}
