// Package partition classifies contigs into organelle and nuclear groups.
package partition

import "strings"

// DefaultOrganelleContig is the literal mitochondrial contig name used by
// SGD reference annotations.
const DefaultOrganelleContig = "Mito"

// Classifier decides whether a contig belongs to the organelle genome.
type Classifier interface {
	IsOrganelle(contig string) bool
}

// ExactMatch matches one literal contig name, case-sensitively.
type ExactMatch struct {
	contig string
}

// NewExactMatch returns a classifier matching the given contig name. An
// empty name falls back to DefaultOrganelleContig.
func NewExactMatch(contig string) *ExactMatch {
	if contig == "" {
		contig = DefaultOrganelleContig
	}
	return &ExactMatch{contig: contig}
}

func (m *ExactMatch) IsOrganelle(contig string) bool {
	return contig == m.contig
}

// Heuristic matches common mitochondrial naming conventions against the
// lower-cased contig name. A nuclear contig whose name happens to start
// with "mt" is misclassified; callers needing strictness should use
// ExactMatch instead.
type Heuristic struct {
	prefixes   []string
	substrings []string
	aliases    map[string]struct{}
}

// NewHeuristic returns a classifier with the default naming conventions:
// prefixes "mito", "mt", "chrm"; substring "mitochond"; aliases "m",
// "chrm", "chrm_m".
func NewHeuristic() *Heuristic {
	return NewCustomHeuristic(
		[]string{"mito", "mt", "chrm"},
		[]string{"mitochond"},
		[]string{"m", "chrm", "chrm_m"},
	)
}

// NewCustomHeuristic returns a classifier with caller-supplied prefixes,
// substrings and aliases. All matching is done on the lower-cased contig,
// so the configured values should be lower case.
func NewCustomHeuristic(prefixes, substrings, aliases []string) *Heuristic {
	aliasSet := make(map[string]struct{}, len(aliases))
	for _, a := range aliases {
		aliasSet[a] = struct{}{}
	}
	return &Heuristic{prefixes: prefixes, substrings: substrings, aliases: aliasSet}
}

func (h *Heuristic) IsOrganelle(contig string) bool {
	c := strings.ToLower(contig)
	if _, ok := h.aliases[c]; ok {
		return true
	}
	for _, prefix := range h.prefixes {
		if strings.HasPrefix(c, prefix) {
			return true
		}
	}
	for _, sub := range h.substrings {
		if strings.Contains(c, sub) {
			return true
		}
	}
	return false
}
