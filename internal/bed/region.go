// Package bed provides BED6 region rows and per-category region files.
package bed

import (
	"fmt"
	"strconv"
)

// Region is a single BED6 row. Start is 0-based half-open; End carries the
// annotation end coordinate unchanged.
type Region struct {
	Contig string
	Start  int64
	End    int64
	Name   string
	Score  string
	Strand string
}

// ParseCoords converts 1-based inclusive annotation coordinates to the
// 0-based half-open convention: start0 = max(0, start-1), end unchanged.
// Inputs that fail integer parsing return an error so the caller can skip
// the record. An end before start is passed through untouched.
func ParseCoords(startText, endText string) (start0, end int64, err error) {
	start, err := strconv.ParseInt(startText, 10, 64)
	if err != nil {
		return 0, 0, fmt.Errorf("parse start %q: %w", startText, err)
	}

	end, err = strconv.ParseInt(endText, 10, 64)
	if err != nil {
		return 0, 0, fmt.Errorf("parse end %q: %w", endText, err)
	}

	start0 = start - 1
	if start0 < 0 {
		start0 = 0
	}
	return start0, end, nil
}

// NormalizeScore maps the annotation "." placeholder to "0"; any other
// value is kept verbatim.
func NormalizeScore(score string) string {
	if score == "." {
		return "0"
	}
	return score
}

// NormalizeStrand maps anything outside "+", "-", "." to ".".
func NormalizeStrand(strand string) string {
	switch strand {
	case "+", "-", ".":
		return strand
	}
	return "."
}
