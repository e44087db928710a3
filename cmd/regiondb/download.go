package main

import (
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/viper"
)

// SGD genome archive URLs
const (
	sgdArchiveBaseURL = "https://sgd-archive.yeastgenome.org/sequence/S288C_reference/genome_releases"
	genomeRelease     = "R64-5-1_20240529"
)

// referenceURLs returns the annotation and genome sequence URLs for the
// pinned S288C release.
func referenceURLs() (gffURL, fastaURL string) {
	dir := fmt.Sprintf("%s/S288C_reference_genome_%s", sgdArchiveBaseURL, genomeRelease)
	gffURL = fmt.Sprintf("%s/saccharomyces_cerevisiae_%s.gff.gz", dir, genomeRelease)
	fastaURL = fmt.Sprintf("%s/S288C_reference_sequence_%s.fsa.gz", dir, genomeRelease)
	return
}

// DefaultDataDir returns the default directory for downloaded annotations
// and the lookup cache.
func DefaultDataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".regiondb")
}

func runDownload(args []string) int {
	fs := flag.NewFlagSet("download", flag.ExitOnError)

	var (
		outputDir string
		gffOnly   bool
	)

	fs.StringVar(&outputDir, "output", "", "Output directory (default: ~/.regiondb/)")
	fs.BoolVar(&gffOnly, "gff-only", false, "Only download the GFF annotation (skip the genome sequence)")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `Download the S288C reference annotation from the SGD genome archive.

Usage:
  regiondb download [options]

Options:
`)
		fs.PrintDefaults()
		fmt.Fprintf(os.Stderr, `
Examples:
  # Download annotation and genome sequence (default)
  regiondb download

  # Annotation only
  regiondb download --gff-only

  # Download to a custom directory
  regiondb download --output /data/yeast

Files downloaded:
  - saccharomyces_cerevisiae_%s.gff.gz
  - S288C_reference_sequence_%s.fsa.gz

Existing files are kept, so an interrupted download can be rerun.
`, genomeRelease, genomeRelease)
	}

	if err := fs.Parse(args); err != nil {
		return ExitUsage
	}

	// Determine output directory
	if outputDir == "" {
		outputDir = viper.GetString("download.dir")
	}
	if outputDir == "" {
		outputDir = DefaultDataDir()
	}
	if outputDir == "" {
		fmt.Fprintf(os.Stderr, "Error: cannot determine home directory\n")
		return ExitError
	}

	if err := os.MkdirAll(outputDir, 0755); err != nil {
		fmt.Fprintf(os.Stderr, "Error: cannot create directory %s: %v\n", outputDir, err)
		return ExitError
	}

	gffURL, fastaURL := referenceURLs()

	fmt.Printf("Downloading S288C reference genome release %s...\n", genomeRelease)
	fmt.Printf("Destination: %s\n\n", outputDir)

	// Download annotation
	gffFile := filepath.Join(outputDir, filepath.Base(gffURL))
	if err := downloadFile(gffURL, gffFile); err != nil {
		fmt.Fprintf(os.Stderr, "Error downloading annotation: %v\n", err)
		return ExitError
	}

	// Download genome sequence (unless gff-only)
	if !gffOnly {
		fastaFile := filepath.Join(outputDir, filepath.Base(fastaURL))
		if err := downloadFile(fastaURL, fastaFile); err != nil {
			fmt.Fprintf(os.Stderr, "Error downloading genome sequence: %v\n", err)
			return ExitError
		}
	}

	fmt.Printf("\nDownload complete!\n")
	fmt.Printf("To build region files, run:\n")
	fmt.Printf("  regiondb extract %s\n", gffFile)

	return ExitSuccess
}

// downloadFile downloads a file from URL to the destination path with progress.
func downloadFile(url, destPath string) error {
	// Check if file already exists
	if info, err := os.Stat(destPath); err == nil {
		fmt.Printf("  %s already exists (%s), skipping\n", filepath.Base(destPath), formatSize(info.Size()))
		return nil
	}

	fmt.Printf("  Downloading %s...\n", filepath.Base(destPath))

	client := &http.Client{
		Timeout: 30 * time.Minute, // Long timeout for large files
	}

	resp, err := client.Get(url)
	if err != nil {
		return fmt.Errorf("HTTP request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("HTTP error: %s", resp.Status)
	}

	// Download to a temp file and rename on success
	tmpPath := destPath + ".tmp"
	f, err := os.Create(tmpPath)
	if err != nil {
		return fmt.Errorf("create file: %w", err)
	}

	var downloaded int64
	pw := &progressWriter{
		total:      resp.ContentLength,
		downloaded: &downloaded,
		lastPrint:  time.Now(),
	}

	_, err = io.Copy(f, io.TeeReader(resp.Body, pw))
	f.Close()

	if err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("download failed: %w", err)
	}

	if err := os.Rename(tmpPath, destPath); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("rename file: %w", err)
	}

	fmt.Printf("    Done: %s\n", formatSize(downloaded))
	return nil
}

// progressWriter tracks download progress.
type progressWriter struct {
	total      int64
	downloaded *int64
	lastPrint  time.Time
}

func (pw *progressWriter) Write(p []byte) (int, error) {
	n := len(p)
	*pw.downloaded += int64(n)

	// Print progress every second
	if time.Since(pw.lastPrint) > time.Second {
		if pw.total > 0 {
			pct := float64(*pw.downloaded) / float64(pw.total) * 100
			fmt.Printf("\r    Progress: %s / %s (%.1f%%)  ",
				formatSize(*pw.downloaded), formatSize(pw.total), pct)
		} else {
			fmt.Printf("\r    Progress: %s  ", formatSize(*pw.downloaded))
		}
		pw.lastPrint = time.Now()
	}

	return n, nil
}

// formatSize formats bytes as human-readable size.
func formatSize(bytes int64) string {
	const unit = 1024
	if bytes < unit {
		return fmt.Sprintf("%d B", bytes)
	}
	div, exp := int64(unit), 0
	for n := bytes / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %cB", float64(bytes)/float64(div), "KMGTPE"[exp])
}
