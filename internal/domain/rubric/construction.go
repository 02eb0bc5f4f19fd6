package rubric

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/okian/gradebench/internal/domain/construct"
	"github.com/okian/gradebench/internal/domain/model"
)

// Construction-design rubric constants. Every stage is marked out of 5 and
// the submission's score is whichever stage terminated the pipeline.
const (
	constructionMax = 5.0

	stageFullMarks      = 5.0
	isolationPartial    = 2.0 // not exactly one amplification step, or it fails to simulate
	sitePartial         = 3.0 // neither required site pair fully present
	duplicatePartial    = 4.0 // a biobrick site occurs more than once
	flankPartial        = 3.0 // fewer than flankMargin bases on either side of a site
	finalSimPartial     = 3.0 // full construction fails to simulate
	finalMissingPartial = 3.5 // final product missing, or missing a required subsequence

	// flankMargin is the minimum bases required on both sides of a site.
	flankMargin = 5
)

// site is one entry of the fixed biobrick recognition-site catalog.
type site struct {
	name  string
	motif string
}

// biobrickSites is the fixed catalog, in scan order. Stage iteration order
// over this slice is part of the rubric: the first flanking violation found
// in this order determines the comment.
var biobrickSites = []site{
	{name: "BglII", motif: "AGATCT"},
	{name: "XhoI", motif: "CTCGAG"},
	{name: "EcoRI", motif: "GAATTC"},
	{name: "BamHI", motif: "GGATCC"},
}

// sitePairs lists the site pairs of which at least one must be fully
// present in the isolated amplification product.
var sitePairs = [][2]string{
	{"BglII", "XhoI"},
	{"EcoRI", "BamHI"},
}

// siteHit records the first occurrence of a catalog site in the product.
type siteHit struct {
	site
	pos int
}

// designState is the carry value threaded through the pipeline stages.
type designState struct {
	plan    *construct.Plan
	amp     construct.Step
	product string
	found   []siteHit
}

// ConstructionConfig holds the per-assignment parameters of the
// construction-design rubric.
type ConstructionConfig struct {
	// FinalProduct names the sequence the full plan must produce.
	FinalProduct string

	// Insert, FlankedInsert, and Backbone are the literal subsequences the
	// final product must contain, checked in this order.
	Insert        string
	FlankedInsert string
	Backbone      string

	// Library holds course-supplied template sequences the construction
	// file references but does not declare.
	Library map[string]string
}

// ConstructionRubric grades a molecular construction-design exercise with a
// six-stage pipeline: parse, single-step isolation, site presence, ordering
// and uniqueness, flanking margin, and final product check.
//
// The final stage deliberately departs from the uniform early-exit scoring
// of the prior stages: its own failure modes map to distinct partial
// scores. That asymmetry is part of the rubric.
type ConstructionRubric struct {
	*Pipeline
	cfg ConstructionConfig
}

// NewConstructionRubric builds the staged construction-design rubric.
func NewConstructionRubric(cfg ConstructionConfig) *ConstructionRubric {
	r := &ConstructionRubric{cfg: cfg}
	r.Pipeline = NewPipeline("construction-design", constructionMax,
		Stage{Name: "parse", Max: stageFullMarks, Run: r.parse},
		Stage{Name: "single_step_isolation", Max: stageFullMarks, Run: r.isolateAmplification},
		Stage{Name: "site_presence", Max: stageFullMarks, Run: r.sitePresence},
		Stage{Name: "ordering_uniqueness", Max: stageFullMarks, Run: r.orderingUniqueness},
		Stage{Name: "flanking_margin", Max: stageFullMarks, Run: r.flankingMargin},
		Stage{Name: "final_product", Max: stageFullMarks, Run: r.finalProduct},
	)
	return r
}

// parse extracts the plain text from the submission body and parses it as
// construction-file shorthand. A malformed file is ungradable, not a zero.
func (r *ConstructionRubric) parse(_ context.Context, sub model.Submission, _ interface{}) (model.StageResult, error) {
	text := sub.PlainText()
	if text == "" {
		return model.StageResult{}, fmt.Errorf("%w: submission body is empty", ErrUngradable)
	}

	plan, err := construct.Parse(text)
	if err != nil {
		return model.StageResult{}, fmt.Errorf("%w: %v", ErrUngradable, err)
	}

	return model.StageResult{
		Score:    stageFullMarks,
		Comments: []string{"Construction file parsed successfully."},
		Carry:    &designState{plan: plan},
	}, nil
}

// isolateAmplification requires exactly one amplification step and
// simulates only that step against the declared sources.
func (r *ConstructionRubric) isolateAmplification(_ context.Context, _ model.Submission, carry interface{}) (model.StageResult, error) {
	state := carry.(*designState)

	amps := state.plan.AmplificationSteps()
	if len(amps) != 1 {
		return model.StageResult{
			Score: isolationPartial,
			Comments: []string{
				fmt.Sprintf("Expected exactly one amplification (PCR) step, found %d.", len(amps)),
			},
		}, nil
	}
	state.amp = amps[0]

	pool, err := construct.Simulate(state.plan.Isolated(state.amp), r.cfg.Library)
	if err != nil {
		return model.StageResult{
			Score: isolationPartial,
			Comments: []string{
				fmt.Sprintf("The amplification step does not simulate in isolation: %v", err),
			},
		}, nil
	}

	product, ok := pool[state.amp.Output]
	if !ok {
		return model.StageResult{
			Score: isolationPartial,
			Comments: []string{
				fmt.Sprintf("Simulation produced no sequence named %q.", state.amp.Output),
			},
		}, nil
	}
	state.product = product

	return model.StageResult{
		Score:    stageFullMarks,
		Comments: []string{fmt.Sprintf("Amplification step simulates cleanly, producing %q.", state.amp.Output)},
		Carry:    state,
	}, nil
}

// sitePresence scans the isolated product for the fixed site catalog and
// requires at least one of the two site pairs to be fully present. A
// presence/absence comment is recorded for every site regardless of
// outcome.
func (r *ConstructionRubric) sitePresence(_ context.Context, _ model.Submission, carry interface{}) (model.StageResult, error) {
	state := carry.(*designState)

	comments := make([]string, 0, len(biobrickSites)+1)
	present := make(map[string]bool, len(biobrickSites))
	for _, s := range biobrickSites {
		pos := strings.Index(state.product, s.motif)
		if pos < 0 {
			comments = append(comments, fmt.Sprintf("Site %s (%s): absent from the product.", s.name, s.motif))
			continue
		}
		present[s.name] = true
		state.found = append(state.found, siteHit{site: s, pos: pos})
		comments = append(comments, fmt.Sprintf("Site %s (%s): present at position %d.", s.name, s.motif, pos))
	}

	// Found sites are kept in ascending positional order.
	sort.Slice(state.found, func(i, j int) bool { return state.found[i].pos < state.found[j].pos })

	for _, pair := range sitePairs {
		if present[pair[0]] && present[pair[1]] {
			return model.StageResult{Score: stageFullMarks, Comments: comments, Carry: state}, nil
		}
	}

	comments = append(comments, fmt.Sprintf(
		"Neither site pair (%s+%s or %s+%s) is fully present in the product.",
		sitePairs[0][0], sitePairs[0][1], sitePairs[1][0], sitePairs[1][1]))
	return model.StageResult{Score: sitePartial, Comments: comments}, nil
}

// orderingUniqueness requires that no found site occurs more than once in
// the product. Positions are already ascending by construction, so the
// substantive check is uniqueness.
func (r *ConstructionRubric) orderingUniqueness(_ context.Context, _ model.Submission, carry interface{}) (model.StageResult, error) {
	state := carry.(*designState)

	for _, hit := range state.found {
		if n := strings.Count(state.product, hit.motif); n > 1 {
			return model.StageResult{
				Score: duplicatePartial,
				Comments: []string{
					fmt.Sprintf("Site %s occurs %d times; each biobrick site may appear at most once.", hit.name, n),
				},
			}, nil
		}
	}

	return model.StageResult{
		Score:    stageFullMarks,
		Comments: []string{"Sites are unique and appear in ascending order."},
		Carry:    state,
	}, nil
}

// flankingMargin requires at least flankMargin bases on both sides of every
// found site, checked in fixed catalog order. The first violation stops the
// pipeline; completing the loop is full marks even when no site was found.
func (r *ConstructionRubric) flankingMargin(_ context.Context, _ model.Submission, carry interface{}) (model.StageResult, error) {
	state := carry.(*designState)

	for _, s := range biobrickSites {
		for _, hit := range state.found {
			if hit.name != s.name {
				continue
			}
			upstream := hit.pos
			downstream := len(state.product) - (hit.pos + len(hit.motif))
			if upstream < flankMargin || downstream < flankMargin {
				return model.StageResult{
					Score: flankPartial,
					Comments: []string{
						fmt.Sprintf("Site %s has %d bases upstream and %d downstream; at least %d are required on both sides.",
							s.name, upstream, downstream, flankMargin),
					},
				}, nil
			}
		}
	}

	return model.StageResult{
		Score:    stageFullMarks,
		Comments: []string{fmt.Sprintf("All sites carry at least %d bases of flanking sequence.", flankMargin)},
		Carry:    state,
	}, nil
}

// finalProduct simulates the entire plan and requires the named final
// product to contain the insert, the flanked insert, and the backbone, in
// that order of checking. As the terminal stage it maps its failure modes
// to distinct partial scores instead of one uniform early-exit score.
func (r *ConstructionRubric) finalProduct(_ context.Context, _ model.Submission, carry interface{}) (model.StageResult, error) {
	state := carry.(*designState)

	pool, err := construct.Simulate(state.plan, r.cfg.Library)
	if err != nil {
		return model.StageResult{
			Score:    finalSimPartial,
			Comments: []string{fmt.Sprintf("The full construction fails to simulate: %v", err)},
		}, nil
	}

	final, ok := pool[r.cfg.FinalProduct]
	if !ok {
		return model.StageResult{
			Score:    finalMissingPartial,
			Comments: []string{fmt.Sprintf("No sequence named %q among the simulated products.", r.cfg.FinalProduct)},
		}, nil
	}

	required := []struct {
		label string
		seq   string
	}{
		{label: "target insert", seq: r.cfg.Insert},
		{label: "insert with its added sites", seq: r.cfg.FlankedInsert},
		{label: "vector backbone", seq: r.cfg.Backbone},
	}
	for _, req := range required {
		if !strings.Contains(final, req.seq) {
			return model.StageResult{
				Score:    finalMissingPartial,
				Comments: []string{fmt.Sprintf("Final product %q is missing the %s.", r.cfg.FinalProduct, req.label)},
			}, nil
		}
	}

	return model.StageResult{
		Score:    stageFullMarks,
		Comments: []string{fmt.Sprintf("Final product %q contains the insert, the flanked insert, and the backbone.", r.cfg.FinalProduct)},
		Carry:    state,
	}, nil
}
