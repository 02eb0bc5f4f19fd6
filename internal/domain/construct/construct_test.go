package construct_test

import (
	"errors"
	"testing"

	"github.com/okian/gradebench/internal/domain/construct"
	. "github.com/smartystreets/goconvey/convey"
)

// Fixture: a BglII/XhoI cloning of an amplified insert into a vector.
//
// The forward oligo carries a 5-base pad, a BglII site, and an 18-base
// annealing region; the reverse oligo carries a pad, an XhoI site, a stop
// codon, and its own annealing region. The template holds both annealing
// regions around an 8-base core.
const (
	annealF   = "ATGAGCGGTGGCGATGGA"
	rcAnnealR = "CACCAGGTGGTGTTTGGA"
	between   = "GGGGCCCC"

	fwdOligo = "CCAAAAGATCT" + annealF
	revOligo = "GCTAGCTCGAGTTA" + "TCCAAACACCACCTGGTG" // tail is RC(rcAnnealR)

	template = "TTTTT" + annealF + between + rcAnnealR + "AAAAA"

	// The amplicon: full forward oligo, template core, RC of the reverse oligo.
	amplicon = fwdOligo + between + rcAnnealR + "TAACTCGAGCTAGC"

	vecLeft  = "GGACCGTTACCGGTTAAG"
	vecRight = "CCTTGGAACCTTGGCAAT"
	vector   = vecLeft + "AGATCT" + "TGTGTG" + "CTCGAG" + vecRight

	finalProduct = vecLeft + "AGATCT" + annealF + between + rcAnnealR + "TAA" + "CTCGAG" + vecRight
)

const planText = `
# BglII/XhoI cloning of ceaB into pBca9145
PCR ceaB-F ceaB-R ColE2 pcrpdt
Digest pcrpdt BglII,XhoI 2 pcrdig
Digest pBca9145 BglII,XhoI 1 vecleft
Digest pBca9145 BglII,XhoI 3 vecright
Ligate vecleft pcrdig vecright pBca9145-ceaB

oligo ceaB-F ` + fwdOligo + `
oligo ceaB-R ` + revOligo + `
`

func library() map[string]string {
	return map[string]string{
		"ColE2":    template,
		"pBca9145": vector,
	}
}

func TestParse(t *testing.T) {
	Convey("Given construction-file shorthand", t, func() {
		Convey("When parsing a complete plan", func() {
			plan, err := construct.Parse(planText)

			So(err, ShouldBeNil)
			So(len(plan.Steps), ShouldEqual, 5)
			So(plan.Steps[0].Kind, ShouldEqual, construct.StepPCR)
			So(plan.Steps[0].Inputs, ShouldResemble, []string{"ceaB-F", "ceaB-R", "ColE2"})
			So(plan.Steps[0].Output, ShouldEqual, "pcrpdt")
			So(plan.Steps[1].Kind, ShouldEqual, construct.StepDigest)
			So(plan.Steps[1].Enzymes, ShouldResemble, []string{"BglII", "XhoI"})
			So(plan.Steps[1].Fragment, ShouldEqual, 2)
			So(plan.Steps[4].Kind, ShouldEqual, construct.StepLigate)
			So(plan.Steps[4].Inputs, ShouldResemble, []string{"vecleft", "pcrdig", "vecright"})
			So(plan.Steps[4].Output, ShouldEqual, "pBca9145-ceaB")
			So(plan.Sequences["ceaB-F"], ShouldEqual, fwdOligo)
			So(plan.Sequences["ceaB-R"], ShouldEqual, revOligo)
		})

		Convey("When parsing lower-case keywords and mixed-case sequences", func() {
			plan, err := construct.Parse("pcr f r t p\noligo f ccaaaAGATCTatg")
			So(err, ShouldBeNil)
			So(plan.Steps[0].Kind, ShouldEqual, construct.StepPCR)
			So(plan.Sequences["f"], ShouldEqual, "CCAAAAGATCTATG")
		})

		Convey("When the text is malformed", func() {
			cases := []string{
				"GoldenGate a b c d",        // unknown keyword
				"PCR f r t",                 // short PCR line
				"Digest s BglII zero p",     // bad fragment index
				"Digest s BglII -1 p",       // negative fragment
				"Digest s BglII, 1 p",       // empty enzyme
				"Ligate a b",                // short ligate
				"PCR f r t p\noligo f ACGU", // invalid base
				"oligo f ACGT",              // sequence lines only, no steps
				"oligo f",                   // missing oligo parts
				"",                          // empty text
			}
			for _, text := range cases {
				_, err := construct.Parse(text)
				So(err, ShouldNotBeNil)
				So(errors.Is(err, construct.ErrParse), ShouldBeTrue)
			}
		})
	})
}

func TestReverseComplement(t *testing.T) {
	Convey("Given DNA sequences", t, func() {
		So(construct.ReverseComplement("ACGT"), ShouldEqual, "ACGT")
		So(construct.ReverseComplement("AAGGTT"), ShouldEqual, "AACCTT")
		So(construct.ReverseComplement("TCCAAACACCACCTGGTG"), ShouldEqual, rcAnnealR)
		So(construct.ReverseComplement(""), ShouldEqual, "")
	})
}

func TestSimulate(t *testing.T) {
	Convey("Given a parsed plan and a sequence library", t, func() {
		plan, err := construct.Parse(planText)
		So(err, ShouldBeNil)

		Convey("When simulating only the amplification step", func() {
			amps := plan.AmplificationSteps()
			So(len(amps), ShouldEqual, 1)

			pool, err := construct.Simulate(plan.Isolated(amps[0]), library())

			So(err, ShouldBeNil)
			So(pool["pcrpdt"], ShouldEqual, amplicon)
		})

		Convey("When simulating the entire plan", func() {
			pool, err := construct.Simulate(plan, library())

			So(err, ShouldBeNil)
			So(pool["pcrpdt"], ShouldEqual, amplicon)
			So(pool["pBca9145-ceaB"], ShouldEqual, finalProduct)
			// Sources stay available in the pool.
			So(pool["ColE2"], ShouldEqual, template)
		})

		Convey("When a referenced sequence is missing from pool and library", func() {
			_, err := construct.Simulate(plan, map[string]string{"ColE2": template})

			So(err, ShouldNotBeNil)
			So(errors.Is(err, construct.ErrSimulation), ShouldBeTrue)
		})

		Convey("When the forward primer does not anneal", func() {
			bad, err := construct.Parse("PCR f r t p\noligo f AAAAAAAAAAAAAAAAAAAAAAAA\noligo r " + revOligo)
			So(err, ShouldBeNil)

			_, err = construct.Simulate(bad, map[string]string{"t": template})
			So(errors.Is(err, construct.ErrSimulation), ShouldBeTrue)
		})

		Convey("When the reverse primer anneals upstream of the forward primer", func() {
			// Swapped oligos: the reverse region precedes the forward one.
			bad, err := construct.Parse("PCR r f t p\noligo f " + fwdOligo + "\noligo r " + revOligo)
			So(err, ShouldBeNil)

			_, err = construct.Simulate(bad, map[string]string{"t": template})
			So(errors.Is(err, construct.ErrSimulation), ShouldBeTrue)
		})

		Convey("When digesting with an unknown enzyme", func() {
			bad, err := construct.Parse("Digest v Fictase 1 p")
			So(err, ShouldBeNil)

			_, err = construct.Simulate(bad, map[string]string{"v": vector})
			So(errors.Is(err, construct.ErrSimulation), ShouldBeTrue)
		})

		Convey("When an enzyme has no recognition site in the substrate", func() {
			bad, err := construct.Parse("Digest v EcoRI 1 p")
			So(err, ShouldBeNil)

			_, err = construct.Simulate(bad, map[string]string{"v": vector})
			So(errors.Is(err, construct.ErrSimulation), ShouldBeTrue)
		})

		Convey("When the requested fragment index exceeds the digest", func() {
			bad, err := construct.Parse("Digest v BglII,XhoI 9 p")
			So(err, ShouldBeNil)

			_, err = construct.Simulate(bad, map[string]string{"v": vector})
			So(errors.Is(err, construct.ErrSimulation), ShouldBeTrue)
		})

		Convey("When digesting the vector", func() {
			d, err := construct.Parse("Digest v BglII,XhoI 1 left\nDigest v BglII,XhoI 2 stuffer\nDigest v BglII,XhoI 3 right")
			So(err, ShouldBeNil)

			pool, err := construct.Simulate(d, map[string]string{"v": vector})

			So(err, ShouldBeNil)
			So(pool["left"], ShouldEqual, vecLeft+"A")
			So(pool["stuffer"], ShouldEqual, "GATCT"+"TGTGTG"+"C")
			So(pool["right"], ShouldEqual, "TCGAG"+vecRight)
		})

		Convey("When ligating fragments", func() {
			l, err := construct.Parse("Ligate a b c p\noligo a AAAA\noligo b CCCC\noligo c GGGG")
			So(err, ShouldBeNil)

			pool, err := construct.Simulate(l, nil)

			So(err, ShouldBeNil)
			So(pool["p"], ShouldEqual, "AAAACCCCGGGG")
		})
	})
}
