package quant

import (
	"fmt"

	"github.com/evseq/regiondb/internal/tables"
)

// MergeSummary reports the row counts of a correlation merge.
type MergeSummary struct {
	LeftRows   int
	RightRows  int
	MergedRows int
}

// MergeCPM merges an EV-seq count table (columns name, reads and
// optionally region_length) with an RNA-seq count table (columns gene_id,
// count and optionally region_length) into one correlation table,
// inner-joined on name == gene_id. Each side gains a CPM column, and an
// FPKM column when its region lengths are present.
func MergeCPM(evPath, rnaPath, outPath string) (*MergeSummary, error) {
	ev, err := tables.ReadFile(evPath)
	if err != nil {
		return nil, err
	}
	rna, err := tables.ReadFile(rnaPath)
	if err != nil {
		return nil, err
	}

	evCols, err := addRateColumns(ev, "name", "reads", "cpm_evseq", "fpkm_evseq")
	if err != nil {
		return nil, fmt.Errorf("ev-seq table %s: %w", evPath, err)
	}
	rnaCols, err := addRateColumns(rna, "gene_id", "count", "cpm_rnaseq", "fpkm_rnaseq")
	if err != nil {
		return nil, fmt.Errorf("rna-seq table %s: %w", rnaPath, err)
	}

	evSel, err := ev.Select(evCols...)
	if err != nil {
		return nil, err
	}
	rnaSel, err := rna.Select(rnaCols...)
	if err != nil {
		return nil, err
	}

	merged, err := tables.InnerJoin(evSel, rnaSel, "name", "gene_id")
	if err != nil {
		return nil, err
	}
	if err := merged.WriteFile(outPath); err != nil {
		return nil, err
	}

	return &MergeSummary{
		LeftRows:   ev.NumRows(),
		RightRows:  rna.NumRows(),
		MergedRows: merged.NumRows(),
	}, nil
}

// addRateColumns appends CPM (and FPKM when region_length exists) to a
// count table and returns the output column selection.
func addRateColumns(t *tables.Table, keyCol, countCol, cpmCol, fpkmCol string) ([]string, error) {
	if _, ok := t.Column(keyCol); !ok {
		return nil, fmt.Errorf("column %q not found", keyCol)
	}

	counts, err := t.FloatColumn(countCol)
	if err != nil {
		return nil, err
	}
	total := 0.0
	for _, v := range counts {
		total += v
	}
	if total <= 0 {
		return nil, fmt.Errorf("column %s sums to %v, cannot normalize", countCol, total)
	}

	cpm := make([]string, len(counts))
	for i, v := range counts {
		cpm[i] = formatNumber(v / total * 1e6)
	}
	if err := t.AppendColumn(cpmCol, cpm); err != nil {
		return nil, err
	}
	selected := []string{keyCol, countCol, cpmCol}

	if _, ok := t.Column("region_length"); ok {
		lengths, err := t.FloatColumn("region_length")
		if err != nil {
			return nil, err
		}
		fpkm := make([]string, len(counts))
		for i, v := range counts {
			if lengths[i] > 0 {
				fpkm[i] = formatNumber(FPKM(v, lengths[i], total))
			} else {
				fpkm[i] = "0"
			}
		}
		if err := t.AppendColumn(fpkmCol, fpkm); err != nil {
			return nil, err
		}
		selected = []string{keyCol, "region_length", countCol, cpmCol, fpkmCol}
	}
	return selected, nil
}
