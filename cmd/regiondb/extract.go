package main

import (
	"errors"
	"flag"
	"fmt"
	"os"

	"github.com/spf13/viper"

	"github.com/evseq/regiondb/internal/bed"
	"github.com/evseq/regiondb/internal/extract"
	"github.com/evseq/regiondb/internal/partition"
)

func runExtract(args []string) int {
	fs := flag.NewFlagSet("extract", flag.ExitOnError)

	var (
		outDir     string
		overwrite  bool
		mitoOnly   bool
		mitoContig string
		noSkipMito bool
		sortOutput bool
		workers    int
		verbose    bool
	)

	fs.StringVar(&outDir, "o", "", `Output directory (default "regionDB")`)
	fs.StringVar(&outDir, "outdir", "", `Output directory (default "regionDB")`)
	fs.BoolVar(&overwrite, "overwrite", false, "Truncate existing region files instead of appending")
	fs.BoolVar(&mitoOnly, "mito-only", false, "Keep only records on the mitochondrial contig")
	fs.StringVar(&mitoContig, "mito-contig", partition.DefaultOrganelleContig, "Mitochondrial contig name for --mito-only")
	fs.BoolVar(&noSkipMito, "no-skip-mito", false, "Keep mitochondrial records in the nuclear extraction")
	fs.BoolVar(&sortOutput, "sort", false, "Sort regions by contig and start before writing")
	fs.IntVar(&workers, "workers", 0, "Number of classification workers (0 = all CPUs)")
	fs.BoolVar(&verbose, "verbose", false, "Enable structured logging")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `Extract per-feature-class BED region files from a GFF annotation.

Each record is mapped to zero or more feature classes and appended to the
class's .bed file in the output directory. By default records on
mitochondrial contigs are excluded; --mito-only inverts the selection.

Usage:
  regiondb extract [options] <gff-file>

Arguments:
  <gff-file>  GFF3 annotation file, plain or gzipped (use '-' for stdin)

Options:
`)
		fs.PrintDefaults()
		fmt.Fprintf(os.Stderr, `
Examples:
  regiondb extract saccharomyces_cerevisiae.gff
  regiondb extract --mito-only -o regionDB_mito saccharomyces_cerevisiae.gff
  regiondb extract --no-skip-mito --sort annotation.gff.gz
  zcat annotation.gff.gz | regiondb extract -
`)
	}

	if err := fs.Parse(args); err != nil {
		return ExitUsage
	}

	if fs.NArg() < 1 {
		fmt.Fprintf(os.Stderr, "Error: annotation file argument required\n\n")
		fs.Usage()
		return ExitUsage
	}
	if mitoOnly && noSkipMito {
		fmt.Fprintf(os.Stderr, "Error: --mito-only and --no-skip-mito are mutually exclusive\n")
		return ExitUsage
	}

	inputPath := fs.Arg(0)

	if outDir == "" {
		outDir = viper.GetString("extract.outdir")
	}
	if outDir == "" {
		outDir = "regionDB"
	}

	var (
		index      *extract.ReverseIndex
		classifier partition.Classifier
		mode       extract.PartitionMode
	)
	switch {
	case mitoOnly:
		index = extract.NewReverseIndex(extract.DefaultMitoMapping(), nil)
		classifier = partition.NewExactMatch(mitoContig)
		mode = extract.KeepOrganelle
	case noSkipMito:
		index = extract.NewReverseIndex(extract.DefaultNuclearMapping(), nil)
		mode = extract.KeepAll
	default:
		index = extract.NewReverseIndex(extract.DefaultNuclearMapping(), nil)
		classifier = partition.NewHeuristic()
		mode = extract.KeepNuclear
	}

	ex := extract.NewExtractor(index, classifier, mode)
	ex.SetWorkers(workers)
	ex.SetLogger(buildLogger(verbose))

	summary, err := ex.Run(inputPath, outDir, bed.WriteOptions{
		Overwrite: overwrite,
		Sort:      sortOutput,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		if errors.Is(err, os.ErrNotExist) {
			fmt.Fprintf(os.Stderr, "Hint: Check that the file path is correct\n")
		}
		return ExitError
	}

	summary.Print(os.Stdout)
	return ExitSuccess
}
