package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/spf13/viper"

	"github.com/evseq/regiondb/internal/quant"
)

func runQuant(args []string) int {
	fs := flag.NewFlagSet("quant", flag.ExitOnError)

	var (
		countsDir  string
		outDir     string
		totalReads int64
		verbose    bool
	)

	fs.StringVar(&countsDir, "counts-dir", "", "Directory of per-class .counts files (bedtools coverage output)")
	fs.StringVar(&countsDir, "c", "", "Directory of per-class .counts files (shorthand)")
	fs.StringVar(&outDir, "o", "", "Output directory for FPKM tables (default: counts directory)")
	fs.StringVar(&outDir, "out", "", "Output directory for FPKM tables (default: counts directory)")
	fs.Int64Var(&totalReads, "total-reads", 0, "Total mapped reads in the library (required)")
	fs.BoolVar(&verbose, "verbose", false, "Enable structured logging")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `Compute FPKM tables from per-feature-class coverage counts.

Reads every {class}.counts file in the counts directory, writes a
{class}_fpkm.csv table per class and a pooled
feature_class_FPKM_summary.csv across classes.

Usage:
  regiondb quant [options]

Options:
`)
		fs.PrintDefaults()
		fmt.Fprintf(os.Stderr, `
The total mapped read count normalizes FPKM values and must match the
library the counts were derived from:
  samtools view -c -F 260 aligned.bam

A default can be stored in the config:
  regiondb config set quant.total_mapped_reads 2947311

Examples:
  regiondb quant --counts-dir counts/ --total-reads 2947311
  regiondb quant -c counts/ -o fpkm/ --total-reads 2947311
`)
	}

	if err := fs.Parse(args); err != nil {
		return ExitUsage
	}

	if countsDir == "" {
		fmt.Fprintf(os.Stderr, "Error: --counts-dir is required\n\n")
		fs.Usage()
		return ExitUsage
	}
	if totalReads == 0 {
		totalReads = viper.GetInt64("quant.total_mapped_reads")
	}
	if totalReads <= 0 {
		fmt.Fprintf(os.Stderr, "Error: --total-reads must be a positive read count\n")
		fmt.Fprintf(os.Stderr, "Hint: samtools view -c -F 260 aligned.bam\n")
		return ExitUsage
	}
	if outDir == "" {
		outDir = countsDir
	}

	calc := quant.NewCalculator(totalReads)
	calc.SetLogger(buildLogger(verbose))

	summaries, err := calc.ProcessDir(countsDir, outDir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return ExitError
	}

	fmt.Printf("Processed %d feature classes (total mapped reads: %d)\n", len(summaries), totalReads)
	for _, s := range summaries {
		fmt.Printf("  %s: %.0f reads over %.0f bases, FPKM %.2f\n",
			s.FeatureClass, s.TotalReads, s.TotalLength, s.FPKM)
	}
	fmt.Printf("Wrote FPKM tables to %s\n", outDir)

	return ExitSuccess
}
