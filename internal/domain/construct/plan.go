// Package construct parses construction-file shorthand and simulates the
// fabrication steps it describes: amplification (PCR), restriction
// digestion, and ligation over named sequence fragments.
package construct

// StepKind identifies a fabrication step.
type StepKind string

// Supported fabrication steps.
const (
	StepPCR    StepKind = "PCR"
	StepDigest StepKind = "Digest"
	StepLigate StepKind = "Ligate"
)

// Step is one fabrication step of a construction plan.
type Step struct {
	Kind StepKind

	// Inputs are the named sequences consumed by the step:
	// PCR: forward oligo, reverse oligo, template;
	// Digest: the substrate;
	// Ligate: two or more fragments, joined in order.
	Inputs []string

	// Enzymes lists the restriction enzymes for a Digest step.
	Enzymes []string

	// Fragment selects the 1-based digestion fragment to keep.
	Fragment int

	// Output names the sequence the step produces.
	Output string
}

// Plan is an ordered sequence of fabrication steps plus the source
// sequences the file itself declares (oligos, plasmids).
type Plan struct {
	Steps     []Step
	Sequences map[string]string
}

// AmplificationSteps returns the plan's PCR steps in order.
func (p *Plan) AmplificationSteps() []Step {
	var amps []Step
	for _, s := range p.Steps {
		if s.Kind == StepPCR {
			amps = append(amps, s)
		}
	}
	return amps
}

// Isolated returns a reduced plan containing only the given step and the
// plan's declared source sequences.
func (p *Plan) Isolated(step Step) *Plan {
	return &Plan{
		Steps:     []Step{step},
		Sequences: p.Sequences,
	}
}
