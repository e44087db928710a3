package bed

import (
	"sort"
	"strings"
)

// Sort orders regions by contig, then start, then end. Contig order is
// natural: purely numeric identifiers compare numerically and sort before
// every non-numeric identifier; non-numeric identifiers compare lexically.
// Equal rows keep their input order.
func Sort(regions []Region) {
	sort.SliceStable(regions, func(i, j int) bool {
		a, b := regions[i], regions[j]
		if a.Contig != b.Contig {
			return contigLess(a.Contig, b.Contig)
		}
		if a.Start != b.Start {
			return a.Start < b.Start
		}
		return a.End < b.End
	})
}

func contigLess(a, b string) bool {
	aNum, bNum := isDigits(a), isDigits(b)
	switch {
	case aNum && bNum:
		if c := compareDigits(a, b); c != 0 {
			return c < 0
		}
		// Same value, leading zeros only ("007" vs "7").
		return a < b
	case aNum:
		return true
	case bNum:
		return false
	}
	return a < b
}

// isDigits reports whether the identifier is a non-empty run of ASCII
// digits.
func isDigits(id string) bool {
	if id == "" {
		return false
	}
	for i := 0; i < len(id); i++ {
		if id[i] < '0' || id[i] > '9' {
			return false
		}
	}
	return true
}

// compareDigits orders two digit runs by numeric value regardless of
// length. After trimming leading zeros the longer run is the larger
// value; equal-length runs compare lexically.
func compareDigits(a, b string) int {
	ta := strings.TrimLeft(a, "0")
	tb := strings.TrimLeft(b, "0")
	if len(ta) != len(tb) {
		if len(ta) < len(tb) {
			return -1
		}
		return 1
	}
	return strings.Compare(ta, tb)
}
