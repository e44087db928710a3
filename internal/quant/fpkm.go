package quant

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/evseq/regiondb/internal/tables"
)

// fpkmHeader is the per-region output layout. The fraction-covered input
// column is dropped in favor of the computed FPKM.
var fpkmHeader = []string{
	"chr", "start", "end", "name", "score", "strand",
	"reads", "bases_covered", "region_length", "FPKM",
}

// FPKM returns reads × 1e9 / (length × totalReads).
func FPKM(reads, length, totalReads float64) float64 {
	return reads * 1e9 / (length * totalReads)
}

// ClassSummary holds the pooled quantification for one feature class.
type ClassSummary struct {
	FeatureClass string
	TotalReads   float64
	TotalLength  float64
	FPKM         float64
}

// Calculator derives FPKM tables from coverage counts against a fixed
// library size.
type Calculator struct {
	totalReads float64
	logger     *zap.Logger
}

// NewCalculator creates a calculator for the given total mapped read
// count.
func NewCalculator(totalReads int64) *Calculator {
	return &Calculator{
		totalReads: float64(totalReads),
		logger:     zap.NewNop(),
	}
}

// SetLogger sets the logger for progress messages.
func (c *Calculator) SetLogger(l *zap.Logger) {
	c.logger = l
}

// ProcessClass computes the per-region FPKM table and the pooled class
// summary for one feature class. Rows with region length ≤ 0 are
// excluded before any arithmetic.
func (c *Calculator) ProcessClass(class string, counts []RegionCount) (*tables.Table, ClassSummary) {
	rows := make([][]string, 0, len(counts))
	var totalReads, totalLength float64
	for _, rc := range counts {
		if rc.RegionLength <= 0 {
			continue
		}
		rows = append(rows, []string{
			rc.Contig, rc.Start, rc.End, rc.Name, rc.Score, rc.Strand,
			formatNumber(rc.Reads),
			rc.BasesCovered,
			formatNumber(rc.RegionLength),
			formatNumber(FPKM(rc.Reads, rc.RegionLength, c.totalReads)),
		})
		totalReads += rc.Reads
		totalLength += rc.RegionLength
	}

	summary := ClassSummary{
		FeatureClass: class,
		TotalReads:   totalReads,
		TotalLength:  totalLength,
	}
	if totalLength > 0 {
		summary.FPKM = FPKM(totalReads, totalLength, c.totalReads)
	}
	return tables.New(fpkmHeader, rows), summary
}

// ProcessDir quantifies every *.counts file under countsDir, writing one
// {class}_fpkm.csv per class plus feature_class_FPKM_summary.csv under
// outDir. Classes are processed in name order.
func (c *Calculator) ProcessDir(countsDir, outDir string) ([]ClassSummary, error) {
	if _, err := os.Stat(countsDir); err != nil {
		return nil, fmt.Errorf("counts directory: %w", err)
	}

	paths, err := filepath.Glob(filepath.Join(countsDir, "*.counts"))
	if err != nil {
		return nil, fmt.Errorf("scan counts directory: %w", err)
	}
	if len(paths) == 0 {
		return nil, fmt.Errorf("no count files (*.counts) found in %s", countsDir)
	}
	sort.Strings(paths)

	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return nil, fmt.Errorf("create output directory: %w", err)
	}

	runID := uuid.NewString()
	summaries := make([]ClassSummary, 0, len(paths))
	for _, path := range paths {
		class := strings.TrimSuffix(filepath.Base(path), ".counts")

		counts, err := ReadCountsFile(path)
		if err != nil {
			return nil, err
		}

		table, summary := c.ProcessClass(class, counts)
		outPath := filepath.Join(outDir, class+"_fpkm.csv")
		if err := table.WriteFile(outPath); err != nil {
			return nil, err
		}
		summaries = append(summaries, summary)

		c.logger.Info("quantified feature class",
			zap.String("run_id", runID),
			zap.String("class", class),
			zap.Int("regions", table.NumRows()),
			zap.Float64("fpkm", summary.FPKM))
	}

	if err := writeSummaryTable(summaries, filepath.Join(outDir, "feature_class_FPKM_summary.csv")); err != nil {
		return nil, err
	}

	c.logger.Info("quantification complete",
		zap.String("run_id", runID),
		zap.String("counts_dir", countsDir),
		zap.Int("classes", len(summaries)))
	return summaries, nil
}

func writeSummaryTable(summaries []ClassSummary, path string) error {
	rows := make([][]string, len(summaries))
	for i, s := range summaries {
		rows[i] = []string{
			s.FeatureClass,
			strconv.FormatInt(int64(s.TotalReads), 10),
			strconv.FormatInt(int64(s.TotalLength), 10),
			formatNumber(s.FPKM),
		}
	}
	table := tables.New([]string{"feature_class", "total_reads", "total_length", "FPKM"}, rows)
	return table.WriteFile(path)
}

// formatNumber renders integers without a decimal point and everything
// else in the shortest round-trip form.
func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
