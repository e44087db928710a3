// Package gff provides GFF/GFF3 annotation file parsing functionality.
package gff

import (
	"errors"
	"fmt"
	"strings"
)

// Column indices of a GFF annotation line.
const (
	ColContig = iota
	ColSource
	ColType
	ColStart
	ColEnd
	ColScore
	ColStrand
	ColPhase
	ColAttributes

	// NumColumns is the number of columns a well-formed record carries.
	NumColumns = 9
)

// ErrFieldCount marks a line with fewer than nine tab-delimited columns.
var ErrFieldCount = errors.New("short annotation record")

// Record is one annotation line split into its nine columns. Start and End
// keep the raw 1-based inclusive column text; coordinate parsing happens
// downstream so that a bad coordinate can be skipped independently of a
// short line.
type Record struct {
	Contig     string
	Source     string
	Type       string
	Start      string
	End        string
	Score      string
	Strand     string
	Phase      string
	Attributes string
}

// ParseRecord splits an annotation line into a Record. Lines with more than
// nine columns keep the first nine; lines with fewer fail with ErrFieldCount.
func ParseRecord(line string) (*Record, error) {
	fields := strings.Split(line, "\t")
	if len(fields) < NumColumns {
		return nil, fmt.Errorf("%w: expected %d fields, got %d", ErrFieldCount, NumColumns, len(fields))
	}

	return &Record{
		Contig:     fields[ColContig],
		Source:     fields[ColSource],
		Type:       fields[ColType],
		Start:      fields[ColStart],
		End:        fields[ColEnd],
		Score:      fields[ColScore],
		Strand:     fields[ColStrand],
		Phase:      fields[ColPhase],
		Attributes: fields[ColAttributes],
	}, nil
}

// ParseError represents an error during GFF parsing with line context.
type ParseError struct {
	Line    int
	Message string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("gff parse error at line %d: %s", e.Line, e.Message)
}
