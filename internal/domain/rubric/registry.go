package rubric

import "sort"

// Registry maps evaluator keys to rubric evaluators. The mapping is built
// once at process start and read-only afterwards; an unknown key is not an
// error condition for the sweep, so Resolve reports it with a bool rather
// than an error.
type Registry struct {
	evaluators map[string]Evaluator
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{evaluators: make(map[string]Evaluator)}
}

// Register binds an evaluator to a key, replacing any previous binding.
func (r *Registry) Register(key string, e Evaluator) {
	r.evaluators[key] = e
}

// Resolve looks up the evaluator for a key by exact match.
func (r *Registry) Resolve(key string) (Evaluator, bool) {
	e, ok := r.evaluators[key]
	return e, ok
}

// Keys returns the registered keys in sorted order, for logging.
func (r *Registry) Keys() []string {
	keys := make([]string, 0, len(r.evaluators))
	for k := range r.evaluators {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
