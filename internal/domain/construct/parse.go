package construct

import (
	"fmt"
	"strconv"
	"strings"
)

// Parse reads construction-file shorthand into a Plan.
//
// Step lines:
//
//	PCR <fwd-oligo> <rev-oligo> <template> <product>
//	Digest <substrate> <enz1,enz2,...> <fragment-index> <product>
//	Ligate <frag1> <frag2> [...] <product>
//
// Sequence lines:
//
//	oligo <name> <sequence>
//	plasmid <name> <sequence>
//	dsdna <name> <sequence>
//
// Keywords are case-insensitive. Blank lines and lines starting with '#'
// or '//' are ignored. Any other line is a parse error.
func Parse(text string) (*Plan, error) {
	plan := &Plan{Sequences: make(map[string]string)}

	for i, raw := range strings.Split(text, "\n") {
		line := strings.TrimSpace(raw)
		if line == "" || strings.HasPrefix(line, "#") || strings.HasPrefix(line, "//") {
			continue
		}

		fields := strings.Fields(line)
		keyword := strings.ToLower(fields[0])
		args := fields[1:]
		lineNo := i + 1

		switch keyword {
		case "pcr":
			if len(args) != 4 {
				return nil, fmt.Errorf("%w: line %d: PCR expects 4 arguments, got %d", ErrParse, lineNo, len(args))
			}
			plan.Steps = append(plan.Steps, Step{
				Kind:   StepPCR,
				Inputs: []string{args[0], args[1], args[2]},
				Output: args[3],
			})

		case "digest":
			if len(args) != 4 {
				return nil, fmt.Errorf("%w: line %d: Digest expects 4 arguments, got %d", ErrParse, lineNo, len(args))
			}
			enzymes := strings.Split(args[1], ",")
			for _, e := range enzymes {
				if e == "" {
					return nil, fmt.Errorf("%w: line %d: empty enzyme name", ErrParse, lineNo)
				}
			}
			frag, err := strconv.Atoi(args[2])
			if err != nil || frag < 1 {
				return nil, fmt.Errorf("%w: line %d: fragment index %q must be a positive integer", ErrParse, lineNo, args[2])
			}
			plan.Steps = append(plan.Steps, Step{
				Kind:     StepDigest,
				Inputs:   []string{args[0]},
				Enzymes:  enzymes,
				Fragment: frag,
				Output:   args[3],
			})

		case "ligate":
			if len(args) < 3 {
				return nil, fmt.Errorf("%w: line %d: Ligate expects at least 2 fragments and a product", ErrParse, lineNo)
			}
			plan.Steps = append(plan.Steps, Step{
				Kind:   StepLigate,
				Inputs: args[:len(args)-1],
				Output: args[len(args)-1],
			})

		case "oligo", "plasmid", "dsdna":
			if len(args) != 2 {
				return nil, fmt.Errorf("%w: line %d: %s expects a name and a sequence", ErrParse, lineNo, keyword)
			}
			seq := strings.ToUpper(args[1])
			if err := validateBases(seq); err != nil {
				return nil, fmt.Errorf("%w: line %d: %v", ErrParse, lineNo, err)
			}
			plan.Sequences[args[0]] = seq

		default:
			return nil, fmt.Errorf("%w: line %d: unknown keyword %q", ErrParse, lineNo, fields[0])
		}
	}

	if len(plan.Steps) == 0 {
		return nil, fmt.Errorf("%w: no fabrication steps found", ErrParse)
	}
	return plan, nil
}

// validateBases rejects any character outside the DNA alphabet.
func validateBases(seq string) error {
	for i, b := range seq {
		switch b {
		case 'A', 'C', 'G', 'T':
		default:
			return fmt.Errorf("invalid base %q at position %d", b, i)
		}
	}
	if seq == "" {
		return fmt.Errorf("empty sequence")
	}
	return nil
}
