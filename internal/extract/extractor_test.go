package extract

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/evseq/regiondb/internal/bed"
	"github.com/evseq/regiondb/internal/gff"
	"github.com/evseq/regiondb/internal/partition"
)

const twoContigInput = "Mito\tsrc\tgene\t1\t10\t.\t+\t.\tID=G1\n" +
	"chr1\tsrc\tgene\t5\t20\t.\t-\t.\tID=G2\n"

func extractString(t *testing.T, e *Extractor, input string) (*bed.RegionSet, *Summary) {
	t.Helper()
	set, summary, err := e.Extract(gff.NewReaderFrom(strings.NewReader(input)))
	require.NoError(t, err)
	return set, summary
}

func TestExtractOrganelleOnly(t *testing.T) {
	index := NewReverseIndex(Mapping{"gene": {"gene"}}, nil)
	e := NewExtractor(index, partition.NewExactMatch("Mito"), KeepOrganelle)

	set, summary := extractString(t, e, twoContigInput)

	require.Equal(t, []string{"gene"}, set.Categories())
	regions := set.Regions("gene")
	require.Len(t, regions, 1)
	assert.Equal(t, bed.Region{
		Contig: "Mito", Start: 0, End: 10, Name: "G1", Score: "0", Strand: "+",
	}, regions[0])

	assert.Equal(t, 2, summary.Records)
	assert.Equal(t, 1, summary.Emitted)
	assert.Equal(t, 1, summary.FilteredOut)
	assert.NotEmpty(t, summary.RunID)
}

func TestExtractNuclearOnly(t *testing.T) {
	index := NewReverseIndex(Mapping{"gene": {"gene"}}, nil)
	e := NewExtractor(index, partition.NewHeuristic(), KeepNuclear)

	set, summary := extractString(t, e, twoContigInput)

	regions := set.Regions("gene")
	require.Len(t, regions, 1)
	assert.Equal(t, bed.Region{
		Contig: "chr1", Start: 4, End: 20, Name: "G2", Score: "0", Strand: "-",
	}, regions[0])
	assert.Equal(t, 1, summary.FilteredOut)
}

func TestPartitionsMutuallyExclusive(t *testing.T) {
	index := NewReverseIndex(Mapping{"gene": {"gene"}}, nil)
	classifier := partition.NewHeuristic()

	organelle := NewExtractor(index, classifier, KeepOrganelle)
	nuclear := NewExtractor(index, classifier, KeepNuclear)

	oSet, _ := extractString(t, organelle, twoContigInput)
	nSet, _ := extractString(t, nuclear, twoContigInput)

	seen := make(map[string]bool)
	for _, r := range oSet.Regions("gene") {
		seen[r.Contig] = true
	}
	for _, r := range nSet.Regions("gene") {
		assert.False(t, seen[r.Contig], "contig %s emitted by both partitions", r.Contig)
	}
	assert.Equal(t, 2, oSet.Total()+nSet.Total())
}

func TestExtractFanOut(t *testing.T) {
	index := NewReverseIndex(Mapping{
		"origin_of_replication": {"ARS"},
		"replication":           {"ARS"},
	}, nil)
	e := NewExtractor(index, nil, KeepAll)

	set, summary := extractString(t, e, "chrI\tsgd\tARS\t100\t200\t.\t.\t.\tName=ARS101\n")

	assert.Equal(t, 2, summary.Emitted)
	a := set.Regions("origin_of_replication")
	b := set.Regions("replication")
	require.Len(t, a, 1)
	require.Len(t, b, 1)
	assert.Equal(t, a[0], b[0], "fan-out rows must be identical")
}

func TestExtractSkipCounts(t *testing.T) {
	index := NewReverseIndex(Mapping{"gene": {"gene"}}, nil)
	e := NewExtractor(index, partition.NewExactMatch("Mito"), KeepNuclear)

	input := strings.Join([]string{
		"chrI\tsgd\tgene\t1\t10\t.\t+\t.\tID=ok",
		"chrI\tsgd\tgene\t10",
		"chrI\tsgd\tgene\tlow\t10\t.\t+\t.\tID=bad",
		"chrI\tsgd\texon\t1\t10\t.\t+\t.\tID=x",
		"Mito\tsgd\tgene\t1\t10\t.\t+\t.\tID=m",
	}, "\n") + "\n"

	_, summary := extractString(t, e, input)

	assert.Equal(t, 5, summary.Records)
	assert.Equal(t, 1, summary.Emitted)
	assert.Equal(t, 1, summary.Malformed)
	assert.Equal(t, 1, summary.BadCoords)
	assert.Equal(t, 1, summary.Unmapped)
	assert.Equal(t, 1, summary.FilteredOut)
	assert.Equal(t, 3, summary.Skipped())
}

func TestClassifyParseErrorsCarryLineNumbers(t *testing.T) {
	index := NewReverseIndex(Mapping{"gene": {"gene"}}, nil)
	e := NewExtractor(index, nil, KeepAll)

	_, skip, err := e.classify(WorkItem{LineNum: 7, Line: "chrI\tsgd\tgene\t10"})
	assert.Equal(t, SkipMalformed, skip)
	var perr *gff.ParseError
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, 7, perr.Line)
	assert.Contains(t, perr.Message, "expected 9 fields")

	_, skip, err = e.classify(WorkItem{LineNum: 12, Line: "chrI\tsgd\tgene\tlow\t10\t.\t+\t.\tID=bad"})
	assert.Equal(t, SkipBadCoords, skip)
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, 12, perr.Line)

	rec, skip, err := e.classify(WorkItem{LineNum: 3, Line: "chrI\tsgd\tgene\t1\t10\t.\t+\t.\tID=ok"})
	require.NoError(t, err)
	assert.Equal(t, SkipNone, skip)
	require.NotNil(t, rec)
}

func TestExtractLogsSkipPositions(t *testing.T) {
	input := "# header\n" +
		"\n" +
		"chrI\tsgd\tgene\t1\t10\t.\t+\t.\tID=ok\n" +
		"chrI\tsgd\tgene\t10\n" +
		"chrI\tsgd\tgene\tlow\t20\t.\t+\t.\tID=bad\n"

	core, logs := observer.New(zap.DebugLevel)
	index := NewReverseIndex(Mapping{"gene": {"gene"}}, nil)
	e := NewExtractor(index, nil, KeepAll)
	e.SetLogger(zap.New(core))

	_, summary := extractString(t, e, input)
	assert.Equal(t, 1, summary.Malformed)
	assert.Equal(t, 1, summary.BadCoords)

	entries := logs.FilterMessage("skipped record").All()
	require.Len(t, entries, 2)
	// Physical positions count the header comment and the blank line.
	assert.Equal(t, int64(4), entries[0].ContextMap()["line"])
	assert.Equal(t, int64(5), entries[1].ContextMap()["line"])
}

func TestExtractFallbackNamesInInputOrder(t *testing.T) {
	index := NewReverseIndex(Mapping{"gene": {"gene"}}, nil)
	e := NewExtractor(index, nil, KeepAll)
	e.SetWorkers(8)

	var b strings.Builder
	for i := 0; i < 100; i++ {
		fmt.Fprintf(&b, "chrI\tsgd\tgene\t%d\t%d\t.\t+\t.\t.\n", i+1, i+100)
	}

	set, _ := extractString(t, e, b.String())

	regions := set.Regions("gene")
	require.Len(t, regions, 100)
	for i, r := range regions {
		assert.Equal(t, fmt.Sprintf("gene_%d", i+1), r.Name)
		assert.Equal(t, int64(i), r.Start, "append order must follow input order")
	}
}

func TestExtractNormalizesScoreAndStrand(t *testing.T) {
	index := NewReverseIndex(Mapping{"gene": {"gene"}}, nil)
	e := NewExtractor(index, nil, KeepAll)

	set, _ := extractString(t, e, "chrI\tsgd\tgene\t1\t10\t945\t?\t.\tID=G1\n")

	r := set.Regions("gene")[0]
	assert.Equal(t, "945", r.Score)
	assert.Equal(t, ".", r.Strand)
}

func TestExtractEndBeforeStartPassesThrough(t *testing.T) {
	index := NewReverseIndex(Mapping{"gene": {"gene"}}, nil)
	e := NewExtractor(index, nil, KeepAll)

	set, _ := extractString(t, e, "chrI\tsgd\tgene\t500\t100\t.\t+\t.\tID=G1\n")

	r := set.Regions("gene")[0]
	assert.Equal(t, int64(499), r.Start)
	assert.Equal(t, int64(100), r.End)
}

func TestRunOverwriteIsByteIdentical(t *testing.T) {
	dir := t.TempDir()
	annPath := filepath.Join(dir, "ann.gff")
	require.NoError(t, os.WriteFile(annPath, []byte(twoContigInput), 0o644))
	outdir := filepath.Join(dir, "regionDB")

	index := NewReverseIndex(Mapping{"gene": {"gene"}}, nil)
	e := NewExtractor(index, nil, KeepAll)

	summary, err := e.Run(annPath, outdir, bed.WriteOptions{Overwrite: true})
	require.NoError(t, err)
	require.Len(t, summary.Categories, 1)
	assert.Equal(t, 2, summary.Categories[0].Rows)

	first, err := os.ReadFile(filepath.Join(outdir, "gene.bed"))
	require.NoError(t, err)

	_, err = e.Run(annPath, outdir, bed.WriteOptions{Overwrite: true})
	require.NoError(t, err)
	second, err := os.ReadFile(filepath.Join(outdir, "gene.bed"))
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, "Mito\t0\t10\tG1\t0\t+\nchr1\t4\t20\tG2\t0\t-\n", string(first))
}

func TestRunMissingInput(t *testing.T) {
	index := NewReverseIndex(Mapping{"gene": {"gene"}}, nil)
	e := NewExtractor(index, nil, KeepAll)

	_, err := e.Run(filepath.Join(t.TempDir(), "missing.gff"), t.TempDir(), bed.WriteOptions{})
	require.Error(t, err)
}

func TestSummaryPrint(t *testing.T) {
	s := &Summary{
		Input:       "ann.gff",
		OutDir:      "regionDB",
		Records:     10,
		Emitted:     3,
		Malformed:   1,
		FilteredOut: 2,
		Categories: []bed.CategoryCount{
			{Category: "gene", Rows: 3, Path: "regionDB/gene.bed"},
		},
	}

	var buf bytes.Buffer
	s.Print(&buf)
	out := buf.String()

	assert.Contains(t, out, "Processed 10 data lines from ann.gff")
	assert.Contains(t, out, "Wrote 3 regions to regionDB/gene.bed")
	assert.Contains(t, out, "Emitted 3 regions into 1 files under regionDB")
	assert.Contains(t, out, "1 malformed")
	assert.Contains(t, out, "Excluded 2 records by contig partition")
}
