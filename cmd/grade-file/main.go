// Command grade-file runs a course rubric against a local submission
// file, printing the outcome instead of writing anything back. It exists
// for dry-running rubric changes before the sweep daemon picks them up.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/okian/gradebench/internal/domain/model"
	"github.com/okian/gradebench/internal/domain/rubric"
	"github.com/okian/gradebench/pkg/logger"
)

func main() {
	evaluator := flag.String("evaluator", "design1", "evaluator key to run")
	list := flag.Bool("list", false, "list registered evaluators and exit")
	flag.Parse()

	if err := logger.Init(); err != nil {
		os.Stderr.WriteString("failed to initialize logging: " + err.Error() + "\n")
		os.Exit(1)
	}

	reg := rubric.NewCourseRegistry()

	if *list {
		for _, key := range reg.Keys() {
			fmt.Println(key)
		}
		return
	}

	if flag.NArg() != 1 {
		os.Stderr.WriteString("usage: grade-file [-evaluator key] <submission file>\n")
		os.Exit(2)
	}

	body, err := os.ReadFile(flag.Arg(0))
	if err != nil {
		os.Stderr.WriteString("failed to read submission: " + err.Error() + "\n")
		os.Exit(1)
	}

	ev, ok := reg.Resolve(*evaluator)
	if !ok {
		os.Stderr.WriteString("unknown evaluator: " + *evaluator + "\n")
		os.Exit(2)
	}

	out := ev.Evaluate(context.Background(), model.Submission{
		State: model.StateSubmitted,
		Body:  string(body),
	})

	switch out.Kind {
	case model.OutcomeGraded:
		fmt.Printf("score: %g / %g\n", out.Score, ev.MaxPoints())
		for _, c := range out.Comments {
			fmt.Println("comment:", c)
		}
	case model.OutcomeSkipped:
		fmt.Println("skipped:", out.Reason)
	case model.OutcomeError:
		fmt.Println("error:", out.Err)
		os.Exit(1)
	}
}
