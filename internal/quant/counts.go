// Package quant computes FPKM and CPM tables from coverage count files.
package quant

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"
)

// countColumns is the bedtools-coverage layout over BED6 input: the six
// region columns followed by reads, bases covered, region length and
// fraction covered.
const countColumns = 10

// RegionCount is one coverage row. Columns that only pass through to the
// output stay as text; reads and region length are parsed for arithmetic.
type RegionCount struct {
	Contig       string
	Start        string
	End          string
	Name         string
	Score        string
	Strand       string
	Reads        float64
	BasesCovered string
	RegionLength float64
}

// ReadCountsFile parses a coverage counts file. Unlike annotation input,
// a malformed row here is fatal: counts are machine-written and a bad row
// means the wrong file.
func ReadCountsFile(path string) ([]RegionCount, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open counts file: %w", err)
	}
	defer f.Close()

	var counts []RegionCount
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	lineNum := 0
	for scanner.Scan() {
		lineNum++
		line := scanner.Text()
		if line == "" {
			continue
		}

		fields := strings.Split(line, "\t")
		if len(fields) < countColumns {
			return nil, fmt.Errorf("%s line %d: expected %d fields, got %d",
				path, lineNum, countColumns, len(fields))
		}

		reads, err := strconv.ParseFloat(fields[6], 64)
		if err != nil {
			return nil, fmt.Errorf("%s line %d: parse reads: %w", path, lineNum, err)
		}
		length, err := strconv.ParseFloat(fields[8], 64)
		if err != nil {
			return nil, fmt.Errorf("%s line %d: parse region length: %w", path, lineNum, err)
		}

		counts = append(counts, RegionCount{
			Contig:       fields[0],
			Start:        fields[1],
			End:          fields[2],
			Name:         fields[3],
			Score:        fields[4],
			Strand:       fields[5],
			Reads:        reads,
			BasesCovered: fields[7],
			RegionLength: length,
		})
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan counts file %s: %w", path, err)
	}
	return counts, nil
}
