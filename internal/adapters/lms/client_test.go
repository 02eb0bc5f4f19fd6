package lms_test

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"strconv"
	"testing"

	"github.com/okian/gradebench/internal/adapters/lms"
	"github.com/okian/gradebench/internal/domain/model"
	"github.com/okian/gradebench/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
)

func TestMain(m *testing.M) {
	if err := logger.Init(); err != nil {
		panic(err)
	}
	os.Exit(m.Run())
}

func TestListAssignments(t *testing.T) {
	Convey("Given a course service", t, func() {
		ctx := context.Background()

		Convey("When the service lists assignments", func() {
			var gotAuth, gotPath string
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				gotAuth = r.Header.Get("Authorization")
				gotPath = r.URL.Path
				_ = json.NewEncoder(w).Encode([]map[string]interface{}{
					{"id": 101, "name": "Design 1"},
					{"id": 102, "name": "Problem Set 1"},
				})
			}))
			defer srv.Close()

			c := lms.NewClient(srv.URL, "tok", 7)
			assignments, err := c.ListAssignments(ctx)

			Convey("Then it returns them with the bearer credential sent", func() {
				So(err, ShouldBeNil)
				So(len(assignments), ShouldEqual, 2)
				So(assignments[0].ID, ShouldEqual, 101)
				So(assignments[0].Name, ShouldEqual, "Design 1")
				So(gotPath, ShouldEqual, "/courses/7/assignments")
				So(gotAuth, ShouldEqual, "Bearer tok")
			})
		})

		Convey("When the service answers with a non-success status", func() {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(http.StatusUnauthorized)
			}))
			defer srv.Close()

			c := lms.NewClient(srv.URL, "tok", 7)
			_, err := c.ListAssignments(ctx)

			So(err, ShouldNotBeNil)
			So(err.Error(), ShouldContainSubstring, "401")
		})
	})
}

// pagedServer serves pages of submissions with rel="next" continuation
// links until the last page. failAt >= 0 makes that page return 500.
func pagedServer(pages [][]map[string]interface{}, failAt int) *httptest.Server {
	var srv *httptest.Server
	srv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		page := 0
		if p := r.URL.Query().Get("page"); p != "" {
			page, _ = strconv.Atoi(p)
		}
		if page == failAt {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		if page < len(pages)-1 {
			next := fmt.Sprintf("%s%s?page=%d", srv.URL, r.URL.Path, page+1)
			w.Header().Set("Link", fmt.Sprintf(`<%s>; rel="next", <%s?page=0>; rel="first"`, next, srv.URL+r.URL.Path))
		}
		_ = json.NewEncoder(w).Encode(pages[page])
	}))
	return srv
}

func record(id, userID int, state string) map[string]interface{} {
	return map[string]interface{}{
		"id": id, "user_id": userID, "workflow_state": state, "body": "55",
	}
}

func TestSubmissionPagination(t *testing.T) {
	Convey("Given a paginated submission list", t, func() {
		ctx := context.Background()
		pages := [][]map[string]interface{}{
			{record(1, 11, "submitted"), record(2, 12, "graded")},
			{record(3, 13, "submitted"), record(4, 14, "unsubmitted")},
			{record(5, 15, "submitted"), record(6, 16, "submitted")},
		}

		Convey("When accumulating all pages", func() {
			srv := pagedServer(pages, -1)
			defer srv.Close()

			c := lms.NewClient(srv.URL, "tok", 7)
			subs := c.Submissions(42).All(ctx)

			Convey("Then it yields N*M records in original relative order", func() {
				So(len(subs), ShouldEqual, 6)
				for i, s := range subs {
					So(s.ID, ShouldEqual, int64(i+1))
					So(s.UserID, ShouldEqual, int64(i+11))
				}
				So(subs[0].State, ShouldEqual, model.StateSubmitted)
				So(subs[1].State, ShouldEqual, model.StateGraded)
				So(subs[0].Body, ShouldEqual, "55")
			})
		})

		Convey("When a middle page fails", func() {
			srv := pagedServer(pages, 1)
			defer srv.Close()

			c := lms.NewClient(srv.URL, "tok", 7)
			pager := c.Submissions(42)
			subs := pager.All(ctx)

			Convey("Then the sequence truncates instead of raising", func() {
				So(len(subs), ShouldEqual, 2)
				So(pager.Err(), ShouldNotBeNil)
			})
		})

		Convey("When the list is empty", func() {
			srv := pagedServer([][]map[string]interface{}{{}}, -1)
			defer srv.Close()

			c := lms.NewClient(srv.URL, "tok", 7)
			pager := c.Submissions(42)
			subs := pager.All(ctx)

			So(len(subs), ShouldEqual, 0)
			So(pager.Err(), ShouldBeNil)
		})

		Convey("When the pager is restarted", func() {
			srv := pagedServer(pages, -1)
			defer srv.Close()

			c := lms.NewClient(srv.URL, "tok", 7)
			first := c.Submissions(42).All(ctx)
			second := c.Submissions(42).All(ctx)

			So(len(first), ShouldEqual, len(second))
		})
	})
}

func TestPublishGrade(t *testing.T) {
	Convey("Given a course service accepting grades", t, func() {
		ctx := context.Background()

		Convey("When publishing a grade with comments", func() {
			var gotPath, gotMethod string
			var gotBody map[string]map[string]interface{}
			calls := 0
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				calls++
				gotPath = r.URL.Path
				gotMethod = r.Method
				_ = json.NewDecoder(r.Body).Decode(&gotBody)
				w.WriteHeader(http.StatusOK)
			}))
			defer srv.Close()

			c := lms.NewClient(srv.URL, "tok", 7)
			ok := c.PublishGrade(ctx, 42, 11, 3.5, []string{"first", "second"})

			Convey("Then it PUTs the expected payload", func() {
				So(ok, ShouldBeTrue)
				So(gotMethod, ShouldEqual, http.MethodPut)
				So(gotPath, ShouldEqual, "/courses/7/assignments/42/submissions/11")
				So(gotBody["submission"]["posted_grade"], ShouldEqual, 3.5)
				So(gotBody["comment"]["text_comment"], ShouldEqual, "first\nsecond")
			})

			Convey("And replaying the same publish is safe", func() {
				So(c.PublishGrade(ctx, 42, 11, 3.5, []string{"first", "second"}), ShouldBeTrue)
				So(calls, ShouldEqual, 2)
			})
		})

		Convey("When the service rejects the write", func() {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(http.StatusForbidden)
			}))
			defer srv.Close()

			c := lms.NewClient(srv.URL, "tok", 7)
			So(c.PublishGrade(ctx, 42, 11, 5, []string{"ok"}), ShouldBeFalse)
		})

		Convey("When the service is unreachable", func() {
			srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
			srv.Close() // connection refused from here on

			c := lms.NewClient(srv.URL, "tok", 7)
			So(c.PublishGrade(ctx, 42, 11, 5, []string{"ok"}), ShouldBeFalse)
		})
	})
}
