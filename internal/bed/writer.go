package bed

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"sort"
)

// RegionSet accumulates regions per category key. Append order within a
// category is preserved until WriteAll, which optionally sorts.
type RegionSet struct {
	regions map[string][]Region
}

// NewRegionSet returns an empty region set.
func NewRegionSet() *RegionSet {
	return &RegionSet{regions: make(map[string][]Region)}
}

// Add appends a region to the buffer for the given category key.
func (s *RegionSet) Add(category string, r Region) {
	s.regions[category] = append(s.regions[category], r)
}

// Categories returns the non-empty category keys in sorted order.
func (s *RegionSet) Categories() []string {
	keys := make([]string, 0, len(s.regions))
	for key, regions := range s.regions {
		if len(regions) > 0 {
			keys = append(keys, key)
		}
	}
	sort.Strings(keys)
	return keys
}

// Regions returns the buffered regions for a category key.
func (s *RegionSet) Regions(category string) []Region {
	return s.regions[category]
}

// Total returns the number of buffered regions across all categories.
func (s *RegionSet) Total() int {
	total := 0
	for _, regions := range s.regions {
		total += len(regions)
	}
	return total
}

// WriteOptions controls how WriteAll materializes region files.
type WriteOptions struct {
	// Overwrite truncates existing files instead of appending.
	Overwrite bool
	// Sort orders each file by contig (natural), start, end before writing.
	Sort bool
}

// CategoryCount reports how many rows went into one category file.
type CategoryCount struct {
	Category string
	Rows     int
	Path     string
}

// WriteAll writes one {category}.bed file per non-empty category under
// outdir, creating the directory if needed. Existing files are appended to
// unless Overwrite is set; appended rows are not deduplicated. Counts come
// back in sorted category order.
func (s *RegionSet) WriteAll(outdir string, opts WriteOptions) ([]CategoryCount, error) {
	if err := os.MkdirAll(outdir, 0o755); err != nil {
		return nil, fmt.Errorf("create output directory: %w", err)
	}

	counts := make([]CategoryCount, 0, len(s.regions))
	for _, category := range s.Categories() {
		regions := s.regions[category]
		if opts.Sort {
			Sort(regions)
		}

		path := filepath.Join(outdir, category+".bed")
		if err := writeRegions(path, regions, opts.Overwrite); err != nil {
			return counts, err
		}
		counts = append(counts, CategoryCount{Category: category, Rows: len(regions), Path: path})
	}
	return counts, nil
}

func writeRegions(path string, regions []Region, overwrite bool) error {
	flags := os.O_CREATE | os.O_WRONLY
	if overwrite || !fileExists(path) {
		flags |= os.O_TRUNC
	} else {
		flags |= os.O_APPEND
	}

	f, err := os.OpenFile(path, flags, 0o644)
	if err != nil {
		return fmt.Errorf("open region file: %w", err)
	}

	w := bufio.NewWriter(f)
	for _, r := range regions {
		fmt.Fprintf(w, "%s\t%d\t%d\t%s\t%s\t%s\n",
			r.Contig, r.Start, r.End, r.Name, r.Score, r.Strand)
	}
	if err := w.Flush(); err != nil {
		f.Close()
		return fmt.Errorf("write region file %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close region file %s: %w", path, err)
	}
	return nil
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
