package construct

import "errors"

// Sentinel kinds for construction-file errors.
var (
	// ErrParse means the shorthand text is malformed.
	ErrParse = errors.New("construction file parse error")

	// ErrSimulation means a structurally valid plan describes invalid
	// biochemistry, e.g. a digest with no recognition site.
	ErrSimulation = errors.New("construction simulation error")
)
