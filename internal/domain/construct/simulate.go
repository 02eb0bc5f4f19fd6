package construct

import (
	"fmt"
	"sort"
	"strings"
)

// annealLength is how many 3' bases of a primer must match the template.
// Primer tails beyond this length are carried into the product unchanged.
const annealLength = 18

// enzyme describes a restriction enzyme: its recognition sequence and the
// cut offset within it (top-strand cut position).
type enzyme struct {
	site   string
	offset int
}

// enzymes is the catalog of supported restriction enzymes.
var enzymes = map[string]enzyme{
	"EcoRI": {site: "GAATTC", offset: 1},
	"BglII": {site: "AGATCT", offset: 1},
	"BamHI": {site: "GGATCC", offset: 1},
	"XhoI":  {site: "CTCGAG", offset: 1},
	"SpeI":  {site: "ACTAGT", offset: 1},
	"XbaI":  {site: "TCTAGA", offset: 1},
	"PstI":  {site: "CTGCAG", offset: 5},
}

// Simulate executes every step of the plan in order and returns the pool of
// named sequences afterwards: the library, the plan's declared sequences,
// and every step product. The library holds course-supplied templates the
// file references but does not declare.
func Simulate(plan *Plan, library map[string]string) (map[string]string, error) {
	pool := make(map[string]string, len(library)+len(plan.Sequences)+len(plan.Steps))
	for name, seq := range library {
		pool[name] = strings.ToUpper(seq)
	}
	for name, seq := range plan.Sequences {
		pool[name] = seq
	}

	for i, step := range plan.Steps {
		inputs := make([]string, len(step.Inputs))
		for j, name := range step.Inputs {
			seq, ok := pool[name]
			if !ok {
				return nil, fmt.Errorf("%w: step %d (%s): unknown sequence %q", ErrSimulation, i+1, step.Kind, name)
			}
			inputs[j] = seq
		}

		var product string
		var err error
		switch step.Kind {
		case StepPCR:
			product, err = simulatePCR(inputs[0], inputs[1], inputs[2])
		case StepDigest:
			product, err = simulateDigest(inputs[0], step.Enzymes, step.Fragment)
		case StepLigate:
			product = strings.Join(inputs, "")
		default:
			err = fmt.Errorf("unsupported step kind %q", step.Kind)
		}
		if err != nil {
			return nil, fmt.Errorf("%w: step %d (%s -> %s): %v", ErrSimulation, i+1, step.Kind, step.Output, err)
		}
		pool[step.Output] = product
	}

	return pool, nil
}

// simulatePCR assembles the amplicon: the full forward primer, the template
// between the two annealing regions, and the reverse complement of the full
// reverse primer.
func simulatePCR(fwd, rev, template string) (string, error) {
	fwdAnneal := tail(fwd, annealLength)
	fwdPos := strings.Index(template, fwdAnneal)
	if fwdPos < 0 {
		return "", fmt.Errorf("forward primer does not anneal to template")
	}

	revAnneal := ReverseComplement(tail(rev, annealLength))
	revPos := strings.Index(template[fwdPos+len(fwdAnneal):], revAnneal)
	if revPos < 0 {
		return "", fmt.Errorf("reverse primer does not anneal downstream of forward primer")
	}
	between := template[fwdPos+len(fwdAnneal) : fwdPos+len(fwdAnneal)+revPos]

	return fwd + between + ReverseComplement(rev), nil
}

// simulateDigest cuts the substrate with every listed enzyme and keeps the
// selected 1-based fragment, counting fragments left to right.
func simulateDigest(substrate string, names []string, fragment int) (string, error) {
	var cuts []int
	for _, name := range names {
		enz, ok := enzymes[name]
		if !ok {
			return "", fmt.Errorf("unknown enzyme %q", name)
		}
		found := false
		for pos := 0; ; {
			idx := strings.Index(substrate[pos:], enz.site)
			if idx < 0 {
				break
			}
			cuts = append(cuts, pos+idx+enz.offset)
			pos += idx + 1
			found = true
		}
		if !found {
			return "", fmt.Errorf("no %s site in substrate", name)
		}
	}

	sort.Ints(cuts)
	fragments := make([]string, 0, len(cuts)+1)
	prev := 0
	for _, c := range cuts {
		fragments = append(fragments, substrate[prev:c])
		prev = c
	}
	fragments = append(fragments, substrate[prev:])

	if fragment > len(fragments) {
		return "", fmt.Errorf("fragment %d requested but digest yields %d fragments", fragment, len(fragments))
	}
	return fragments[fragment-1], nil
}

// tail returns the last n characters of s, or all of s when shorter.
func tail(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[len(s)-n:]
}

// ReverseComplement returns the reverse complement of an upper-case DNA
// sequence. Unknown characters map to 'N'.
func ReverseComplement(seq string) string {
	out := make([]byte, len(seq))
	for i := 0; i < len(seq); i++ {
		var c byte
		switch seq[len(seq)-1-i] {
		case 'A':
			c = 'T'
		case 'T':
			c = 'A'
		case 'G':
			c = 'C'
		case 'C':
			c = 'G'
		default:
			c = 'N'
		}
		out[i] = c
	}
	return string(out)
}
