package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/evseq/regiondb/internal/datasource/sgd"
	"github.com/evseq/regiondb/internal/duckdb"
)

func runLookup(args []string) int {
	fs := flag.NewFlagSet("lookup", flag.ExitOnError)

	var (
		inputPath  string
		outputPath string
		column     string
		refresh    bool
		delayMS    int
		cachePath  string
		noCache    bool
		verbose    bool
	)

	fs.StringVar(&inputPath, "i", "", "Input CSV file with a gene name column")
	fs.StringVar(&inputPath, "input", "", "Input CSV file with a gene name column")
	fs.StringVar(&outputPath, "o", "", "Output CSV path (default: <input>_sgd.csv)")
	fs.StringVar(&outputPath, "output", "", "Output CSV path (default: <input>_sgd.csv)")
	fs.StringVar(&column, "c", "name", "Column holding the gene names")
	fs.StringVar(&column, "column", "name", "Column holding the gene names")
	fs.BoolVar(&refresh, "refresh", false, "Re-query genes already in the local cache")
	fs.IntVar(&delayMS, "delay", -1, "Delay between API calls in milliseconds (default 200)")
	fs.StringVar(&cachePath, "cache", "", "Annotation cache path (default: ~/.regiondb/sgd_cache.duckdb)")
	fs.BoolVar(&noCache, "no-cache", false, "Disable the local annotation cache")
	fs.BoolVar(&verbose, "verbose", false, "Enable structured logging")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `Annotate gene names via the SGD locus API.

Unique non-empty names from the chosen column are queried in order of
first appearance. Resolved loci are cached locally so repeat runs stay
offline; names the API does not know are listed in %s
next to the output file.

Usage:
  regiondb lookup [options] -i <input-csv>

Options:
`, sgd.NotFoundFile)
		fs.PrintDefaults()
		fmt.Fprintf(os.Stderr, `
Examples:
  regiondb lookup -i gene_fpkm.csv
  regiondb lookup -i gene_fpkm.csv -c gene_id -o annotated.csv
  regiondb lookup -i gene_fpkm.csv --refresh
`)
	}

	if err := fs.Parse(args); err != nil {
		return ExitUsage
	}

	if inputPath == "" {
		fmt.Fprintf(os.Stderr, "Error: -i/--input is required\n\n")
		fs.Usage()
		return ExitUsage
	}
	if outputPath == "" {
		ext := filepath.Ext(inputPath)
		outputPath = strings.TrimSuffix(inputPath, ext) + "_sgd.csv"
	}

	client := sgd.NewClient()
	switch {
	case delayMS >= 0:
		client.SetDelay(time.Duration(delayMS) * time.Millisecond)
	case viper.IsSet("lookup.delay_ms"):
		client.SetDelay(time.Duration(viper.GetInt("lookup.delay_ms")) * time.Millisecond)
	}

	var store sgd.Store
	if !noCache {
		if cachePath == "" {
			cachePath = viper.GetString("cache.path")
		}
		if cachePath == "" {
			if dir := DefaultDataDir(); dir != "" {
				cachePath = filepath.Join(dir, "sgd_cache.duckdb")
			}
		}
		if cachePath != "" {
			db, err := duckdb.Open(cachePath)
			if err != nil {
				fmt.Fprintf(os.Stderr, "Warning: annotation cache unavailable: %v\n", err)
			} else {
				defer db.Close()
				store = db
				if n, err := db.CountLoci(); err == nil {
					fmt.Fprintf(os.Stderr, "Using annotation cache: %s (%d loci)\n", cachePath, n)
				}
			}
		}
	}

	ann := sgd.NewAnnotator(client, store)
	ann.SetRefresh(refresh)
	ann.SetLogger(buildLogger(verbose))

	res, err := ann.AnnotateColumn(inputPath, column, outputPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return ExitError
	}

	queried := len(res.Found) + len(res.NotFound)
	fmt.Printf("Queried %d unique gene names: %d found (%d from cache), %d not found\n",
		queried, len(res.Found), res.FromCache, len(res.NotFound))
	fmt.Printf("Wrote annotations to %s\n", outputPath)
	if len(res.NotFound) > 0 {
		fmt.Printf("Not-found names listed in %s\n",
			filepath.Join(filepath.Dir(outputPath), sgd.NotFoundFile))
	}

	return ExitSuccess
}
