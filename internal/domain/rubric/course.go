package rubric

// Course wiring for the reference assignments. The design-1 exercise
// amplifies the ceaB insert off the ColE2 template with BglII/XhoI tails
// and ligates it into the pBca9145 vector.

const (
	ceaBAnnealFwd = "ATGAGCGGTGGCGATGGA"
	ceaBAnnealRev = "CACCAGGTGGTGTTTGGA"
	ceaBLinker    = "GGGGCCCC"

	ceaBInsert = ceaBAnnealFwd + ceaBLinker + ceaBAnnealRev

	vectorLeftArm  = "GGACCGTTACCGGTTAAG"
	vectorRightArm = "CCTTGGAACCTTGGCAAT"
)

// courseLibrary holds the course-supplied template and vector sequences
// that construction files reference without declaring.
var courseLibrary = map[string]string{
	"ColE2":    "TTTTT" + ceaBInsert + "AAAAA",
	"pBca9145": vectorLeftArm + "AGATCT" + "TGTGTG" + "CTCGAG" + vectorRightArm,
}

// Design1Config is the rubric parameterization of the design-1
// assignment.
func Design1Config() ConstructionConfig {
	return ConstructionConfig{
		FinalProduct:  "pBca9145-ceaB",
		Insert:        ceaBInsert,
		FlankedInsert: "AGATCT" + ceaBInsert + "TAA" + "CTCGAG",
		Backbone:      vectorRightArm,
		Library:       courseLibrary,
	}
}

// NewCourseRegistry returns the registry of every evaluator the course
// currently runs, keyed by the names the assignment table uses.
func NewCourseRegistry() *Registry {
	reg := NewRegistry()
	reg.Register("design1", NewConstructionRubric(Design1Config()))
	reg.Register("numeric", NewNumericAnswer("numeric", 5, map[string]float64{
		"55": 5,
		"33": 3,
	}))
	return reg
}
