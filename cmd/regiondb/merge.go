package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/evseq/regiondb/internal/quant"
)

func runMerge(args []string) int {
	fs := flag.NewFlagSet("merge", flag.ExitOnError)

	var outPath string
	fs.StringVar(&outPath, "o", "merged_cpm.csv", "Output CSV path")
	fs.StringVar(&outPath, "out", "merged_cpm.csv", "Output CSV path")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `Merge an EV-seq count table with an RNA-seq count table for correlation.

The EV-seq table needs columns name and reads, the RNA-seq table gene_id
and count; a region_length column on either side adds an FPKM column for
that side. Each side gains a CPM column and the tables are inner-joined
on name == gene_id.

Usage:
  regiondb merge [options] <evseq-csv> <rnaseq-csv>

Options:
`)
		fs.PrintDefaults()
		fmt.Fprintf(os.Stderr, `
Examples:
  regiondb merge evseq_counts.csv rnaseq_counts.csv
  regiondb merge -o correlation.csv evseq_counts.csv rnaseq_counts.csv
`)
	}

	if err := fs.Parse(args); err != nil {
		return ExitUsage
	}

	if fs.NArg() < 2 {
		fmt.Fprintf(os.Stderr, "Error: two input tables required\n\n")
		fs.Usage()
		return ExitUsage
	}

	summary, err := quant.MergeCPM(fs.Arg(0), fs.Arg(1), outPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return ExitError
	}

	fmt.Printf("EV-seq table: %d rows\n", summary.LeftRows)
	fmt.Printf("RNA-seq table: %d rows\n", summary.RightRows)
	fmt.Printf("Merged %d genes into %s\n", summary.MergedRows, outPath)

	return ExitSuccess
}
