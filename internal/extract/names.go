package extract

import "fmt"

// nameKeys is the attribute priority order for region display names.
var nameKeys = [...]string{"Name", "ID", "IDREF", "gene"}

// NameResolver derives display names for regions. When a record carries
// none of the name attributes it synthesizes "{type}_{n}" from a
// per-feature-type counter, so name-less records of the same type get
// unique names in input order. Counters belong to the resolver; a fresh
// run starts again at 1. Not safe for concurrent use.
type NameResolver struct {
	counters map[string]int
}

// NewNameResolver returns a resolver with all counters at zero.
func NewNameResolver() *NameResolver {
	return &NameResolver{counters: make(map[string]int)}
}

// Resolve returns the first non-empty of the Name, ID, IDREF and gene
// attributes, else the next synthesized name for the feature type.
func (r *NameResolver) Resolve(attrs map[string]string, featureType string) string {
	for _, key := range nameKeys {
		if v := attrs[key]; v != "" {
			return v
		}
	}
	r.counters[featureType]++
	return fmt.Sprintf("%s_%d", featureType, r.counters[featureType])
}
