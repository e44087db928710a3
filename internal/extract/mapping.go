// Package extract streams annotation records into per-category region files.
package extract

import "sort"

// Mapping declares which feature types each category collects. Category
// keys double as output file stems. A feature type may appear under more
// than one category; every matching category receives a row.
type Mapping map[string][]string

// DefaultMitoMapping returns the category mapping for the mitochondrial
// partition of the SGD reference annotation.
func DefaultMitoMapping() Mapping {
	return Mapping{
		"gene":      {"gene"},
		"tRNA_gene": {"tRNA_gene"},
		"rRNA_gene": {"rRNA_gene"},
		"origin_of_replication": {
			"origin_of_replication",
			"ARS",
			"ARS_consensus_sequence",
		},
	}
}

// DefaultNuclearMapping returns the category mapping for the nuclear
// partition, grouping related feature types under shared output files.
func DefaultNuclearMapping() Mapping {
	return Mapping{
		"gene":        {"gene"},
		"pseudogene":  {"pseudogene"},
		"ncRNA_gene":  {"ncRNA_gene"},
		"snoRNA_gene": {"snoRNA_gene"},
		"snRNA_gene":  {"snRNA_gene"},
		"tRNA_gene":   {"tRNA_gene"},
		"rRNA_gene":   {"rRNA_gene"},
		"Replication_origins": {
			"origin_of_replication",
			"ARS",
			"ARS_consensus_sequence",
		},
		"transposable_elements": {
			"transposable_element_gene",
			"LTR_retrotransposon",
			"long_terminal_repeat",
		},
		"Mating_loci": {
			"mating_type_region",
			"silent_mating_type_cassette_array",
		},
		"telomere": {
			"telomere",
			"telomeric_repeat",
		},
		"centromere": {
			"centromere",
			"centromere_DNA_Element_I",
			"centromere_DNA_Element_II",
			"centromere_DNA_Element_III",
		},
	}
}

// ReverseIndex resolves a feature type to the categories that collect it.
// Built once per run and read-only afterwards, so it is safe to share
// across workers.
type ReverseIndex struct {
	categories  map[string][]string
	passthrough map[string]struct{}
}

// NewReverseIndex inverts a mapping. The category keys for each feature
// type are sorted so fan-out emission order does not depend on map
// iteration. Passthrough types not collected by any category map to
// themselves.
func NewReverseIndex(m Mapping, passthrough []string) *ReverseIndex {
	categories := make(map[string][]string)
	for key, types := range m {
		for _, t := range types {
			categories[t] = append(categories[t], key)
		}
	}
	for _, keys := range categories {
		sort.Strings(keys)
	}

	pt := make(map[string]struct{}, len(passthrough))
	for _, t := range passthrough {
		pt[t] = struct{}{}
	}
	return &ReverseIndex{categories: categories, passthrough: pt}
}

// Lookup returns the category keys collecting the feature type, or the
// type itself when it is a passthrough. An empty result means no output
// collects the record.
func (ix *ReverseIndex) Lookup(featureType string) []string {
	if keys, ok := ix.categories[featureType]; ok {
		return keys
	}
	if _, ok := ix.passthrough[featureType]; ok {
		return []string{featureType}
	}
	return nil
}
