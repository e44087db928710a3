// Package main provides the regiondb command-line tool.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/spf13/viper"
	"go.uber.org/zap"
)

// Exit codes
const (
	ExitSuccess = 0
	ExitError   = 1
	ExitUsage   = 2
)

// Version information (set at build time)
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	os.Exit(run())
}

func run() int {
	// Global flags
	var showVersion bool
	flag.BoolVar(&showVersion, "version", false, "Show version information")

	// Parse global flags first
	flag.Parse()

	if showVersion {
		fmt.Printf("regiondb version %s (%s) built %s\n", version, commit, date)
		return ExitSuccess
	}

	initConfig()

	// Check for subcommand
	args := flag.Args()
	if len(args) < 1 {
		printUsage()
		return ExitUsage
	}

	switch args[0] {
	case "extract":
		return runExtract(args[1:])
	case "quant":
		return runQuant(args[1:])
	case "merge":
		return runMerge(args[1:])
	case "intersect":
		return runIntersect(args[1:])
	case "lookup":
		return runLookup(args[1:])
	case "download":
		return runDownload(args[1:])
	case "config":
		return runConfig(args[1:])
	case "help":
		printUsage()
		return ExitSuccess
	default:
		fmt.Fprintf(os.Stderr, "Error: unknown command %q\n\n", args[0])
		printUsage()
		return ExitUsage
	}
}

// initConfig loads tool settings from ~/.regiondb.yaml when present.
// Flags always win over config values.
func initConfig() {
	home, err := os.UserHomeDir()
	if err != nil {
		return
	}
	viper.SetConfigName(".regiondb")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(home)
	// A missing config file is fine; flag defaults cover everything.
	_ = viper.ReadInConfig()
}

// buildLogger returns the pipeline logger. Commands stay quiet by default;
// --verbose switches to a human-readable development logger on stderr.
func buildLogger(verbose bool) *zap.Logger {
	if !verbose {
		return zap.NewNop()
	}
	logger, err := zap.NewDevelopment()
	if err != nil {
		return zap.NewNop()
	}
	return logger
}

func printUsage() {
	fmt.Fprintf(os.Stderr, `regiondb - genome annotation region extraction

Usage:
  regiondb [options] <command> [arguments]

Commands:
  extract    Extract per-feature-class BED region files from a GFF annotation
  quant      Compute FPKM tables from coverage count files
  merge      Merge two count tables on gene name with CPM/FPKM columns
  intersect  Inner-join two CSV tables on named columns
  lookup     Annotate gene names via the SGD locus API (cached locally)
  download   Download the S288C reference annotation
  config     Manage regiondb configuration
  help       Show this help message

Global Options:
  --version   Show version information

Examples:
  # Download the reference annotation (one-time setup)
  regiondb download

  # Build nuclear region files from an annotation
  regiondb extract saccharomyces_cerevisiae.gff

  # Build mitochondrial region files only
  regiondb extract --mito-only -o regionDB_mito saccharomyces_cerevisiae.gff

  # FPKM over bedtools coverage output
  regiondb quant --counts-dir counts/ --total-reads 2947311 -o fpkm/

For more information on a command, use:
  regiondb <command> --help
`)
}
