// Package registry holds the immutable catalogue of biomarkers the extractors recognise.
//
// A Registry is built once and passed to every component that needs it. It is never
// mutated after construction, so a single instance is safe to share between goroutines.
package registry

import (
	"github.com/rotisserie/eris"
	"golang.org/x/text/cases"
)

// Definition describes one catalogued biomarker.
type Definition struct {
	// Key is the canonical identifier, e.g. "TSH".
	Key string

	// Unit is the display unit for the normal range.
	Unit string

	// Min and Max bound the normal range inclusively.
	Min float64
	Max float64

	// Aliases are the spellings recognised in free text, tried in order.
	Aliases []string
}

// InRange reports whether value lies inside the inclusive normal range.
func (d Definition) InRange(value float64) bool {
	return value >= d.Min && value <= d.Max
}

// Registry is a read-only mapping from canonical key to Definition.
type Registry struct {
	defs  []Definition
	index map[string]int
	// folded alias or key -> position in defs; first definition wins on collisions
	aliases map[string]int
}

// New validates defs and builds a Registry preserving their order.
func New(defs ...Definition) (*Registry, error) {
	r := &Registry{
		defs:    make([]Definition, 0, len(defs)),
		index:   make(map[string]int, len(defs)),
		aliases: make(map[string]int),
	}

	for _, d := range defs {
		if d.Key == "" {
			return nil, eris.New("registry: definition without key")
		}
		if _, dup := r.index[d.Key]; dup {
			return nil, eris.Errorf("registry: duplicate key %q", d.Key)
		}
		if !(d.Min < d.Max) {
			return nil, eris.Errorf("registry: %s has min %v not below max %v", d.Key, d.Min, d.Max)
		}
		if len(d.Aliases) == 0 {
			return nil, eris.Errorf("registry: %s has no aliases", d.Key)
		}

		d.Aliases = append([]string(nil), d.Aliases...)
		pos := len(r.defs)
		r.defs = append(r.defs, d)
		r.index[d.Key] = pos
	}

	// Aliases are indexed in registry order so the first definition claims a shared spelling
	for pos, d := range r.defs {
		for _, name := range append([]string{d.Key}, d.Aliases...) {
			folded := fold(name)
			if _, taken := r.aliases[folded]; !taken {
				r.aliases[folded] = pos
			}
		}
	}

	return r, nil
}

// MustNew is New for static catalogues known to be valid.
func MustNew(defs ...Definition) *Registry {
	r, err := New(defs...)
	if err != nil {
		panic(err)
	}
	return r
}

// Get returns the definition for an exact canonical key.
func (r *Registry) Get(key string) (Definition, bool) {
	pos, ok := r.index[key]
	if !ok {
		return Definition{}, false
	}
	return r.defs[pos], true
}

// LookupAlias resolves free text to a canonical key, ignoring case.
func (r *Registry) LookupAlias(text string) (string, bool) {
	if text == "" {
		return "", false
	}
	pos, ok := r.aliases[fold(text)]
	if !ok {
		return "", false
	}
	return r.defs[pos].Key, true
}

// Definitions returns a copy of the catalogue in registry order.
func (r *Registry) Definitions() []Definition {
	out := make([]Definition, len(r.defs))
	for i, d := range r.defs {
		d.Aliases = append([]string(nil), d.Aliases...)
		out[i] = d
	}
	return out
}

// Keys returns the canonical keys in registry order.
func (r *Registry) Keys() []string {
	keys := make([]string, len(r.defs))
	for i, d := range r.defs {
		keys[i] = d.Key
	}
	return keys
}

// Len returns the number of definitions.
func (r *Registry) Len() int {
	return len(r.defs)
}

// A cases.Caser is stateful, so each call gets its own.
func fold(s string) string {
	return cases.Fold().String(s)
}
