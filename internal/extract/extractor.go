package extract

import (
	"fmt"
	"io"
	"runtime"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/evseq/regiondb/internal/bed"
	"github.com/evseq/regiondb/internal/gff"
	"github.com/evseq/regiondb/internal/partition"
)

// PartitionMode selects which side of the organelle split a run keeps.
type PartitionMode int

const (
	// KeepOrganelle keeps only contigs the classifier marks organelle.
	KeepOrganelle PartitionMode = iota
	// KeepNuclear keeps only contigs the classifier does not mark organelle.
	KeepNuclear
	// KeepAll disables the partition filter.
	KeepAll
)

// SkipReason says why a data line produced no regions.
type SkipReason int

const (
	SkipNone SkipReason = iota
	// SkipMalformed marks lines with fewer than nine columns.
	SkipMalformed
	// SkipPartition marks records on contigs excluded by the partition mode.
	SkipPartition
	// SkipBadCoords marks records whose start or end fails integer parsing.
	SkipBadCoords
	// SkipUnmapped marks feature types no category collects.
	SkipUnmapped
)

// Classified is a record that passed every filter, awaiting name
// resolution and buffering.
type Classified struct {
	Contig      string
	Start       int64
	End         int64
	Score       string
	Strand      string
	FeatureType string
	Attrs       map[string]string
	Categories  []string
}

// Extractor turns annotation files into per-category BED region files.
type Extractor struct {
	index      *ReverseIndex
	classifier partition.Classifier
	mode       PartitionMode
	workers    int
	logger     *zap.Logger
}

// NewExtractor creates an extractor over the given reverse index. The
// classifier may be nil only with KeepAll.
func NewExtractor(index *ReverseIndex, classifier partition.Classifier, mode PartitionMode) *Extractor {
	return &Extractor{
		index:      index,
		classifier: classifier,
		mode:       mode,
		logger:     zap.NewNop(),
	}
}

// SetLogger sets the logger for progress messages.
func (e *Extractor) SetLogger(l *zap.Logger) {
	e.logger = l
}

// SetWorkers fixes the worker-pool size. Zero or negative means one
// worker per CPU.
func (e *Extractor) SetWorkers(n int) {
	e.workers = n
}

func (e *Extractor) keep(contig string) bool {
	switch e.mode {
	case KeepOrganelle:
		return e.classifier.IsOrganelle(contig)
	case KeepNuclear:
		return !e.classifier.IsOrganelle(contig)
	}
	return true
}

// classify runs the per-record stages that need no shared state: column
// split, partition filter, coordinate parse and category lookup. Name
// resolution stays out so its counters see records in input order.
// Parse-level skips return a *gff.ParseError locating the damaged line.
func (e *Extractor) classify(item WorkItem) (*Classified, SkipReason, error) {
	rec, err := gff.ParseRecord(item.Line)
	if err != nil {
		return nil, SkipMalformed, &gff.ParseError{Line: item.LineNum, Message: err.Error()}
	}
	if !e.keep(rec.Contig) {
		return nil, SkipPartition, nil
	}

	start0, end, err := bed.ParseCoords(rec.Start, rec.End)
	if err != nil {
		return nil, SkipBadCoords, &gff.ParseError{Line: item.LineNum, Message: err.Error()}
	}

	categories := e.index.Lookup(rec.Type)
	if len(categories) == 0 {
		return nil, SkipUnmapped, nil
	}

	return &Classified{
		Contig:      rec.Contig,
		Start:       start0,
		End:         end,
		Score:       bed.NormalizeScore(rec.Score),
		Strand:      bed.NormalizeStrand(rec.Strand),
		FeatureType: rec.Type,
		Attrs:       gff.ParseAttributes(rec.Attributes),
		Categories:  categories,
	}, SkipNone, nil
}

// Summary reports what one extraction run read, emitted and skipped.
type Summary struct {
	RunID       string
	Input       string
	OutDir      string
	Records     int
	Emitted     int
	Malformed   int
	BadCoords   int
	FilteredOut int
	Unmapped    int
	Categories  []bed.CategoryCount
}

// Skipped returns the records dropped for structural reasons. Partition
// filtering is reported separately via FilteredOut.
func (s *Summary) Skipped() int {
	return s.Malformed + s.BadCoords + s.Unmapped
}

// Print writes the operator summary lines.
func (s *Summary) Print(w io.Writer) {
	fmt.Fprintf(w, "Processed %d data lines from %s\n", s.Records, s.Input)
	for _, c := range s.Categories {
		fmt.Fprintf(w, "Wrote %d regions to %s\n", c.Rows, c.Path)
	}
	fmt.Fprintf(w, "Emitted %d regions into %d files under %s\n",
		s.Emitted, len(s.Categories), s.OutDir)
	if n := s.Skipped(); n > 0 {
		fmt.Fprintf(w, "Skipped %d records (%d malformed, %d bad coordinates, %d unmapped)\n",
			n, s.Malformed, s.BadCoords, s.Unmapped)
	}
	if s.FilteredOut > 0 {
		fmt.Fprintf(w, "Excluded %d records by contig partition\n", s.FilteredOut)
	}
}

// Extract runs the pipeline over an open reader and returns the buffered
// regions with the run summary. Classification is parallel; name
// resolution and buffer appends happen in input order, so the output is
// identical to a single-worker run.
func (e *Extractor) Extract(r *gff.Reader) (*bed.RegionSet, *Summary, error) {
	items := make(chan WorkItem, 2*runtime.NumCPU())

	go func() {
		defer close(items)
		seq := 0
		for r.Scan() {
			items <- WorkItem{Seq: seq, LineNum: r.LineNumber(), Line: r.Text()}
			seq++
		}
	}()

	results := e.ParallelClassify(items, e.workers)

	set := bed.NewRegionSet()
	resolver := NewNameResolver()
	summary := &Summary{RunID: uuid.NewString()}

	if err := OrderedCollect(results, func(res WorkResult) error {
		if res.Err != nil {
			e.logger.Debug("skipped record",
				zap.Int("line", res.LineNum),
				zap.Error(res.Err))
		}
		switch res.Skip {
		case SkipMalformed:
			summary.Malformed++
		case SkipPartition:
			summary.FilteredOut++
		case SkipBadCoords:
			summary.BadCoords++
		case SkipUnmapped:
			summary.Unmapped++
		case SkipNone:
			rec := res.Rec
			name := resolver.Resolve(rec.Attrs, rec.FeatureType)
			for _, category := range rec.Categories {
				set.Add(category, bed.Region{
					Contig: rec.Contig,
					Start:  rec.Start,
					End:    rec.End,
					Name:   name,
					Score:  rec.Score,
					Strand: rec.Strand,
				})
				summary.Emitted++
			}
		}
		return nil
	}); err != nil {
		return nil, nil, err
	}

	if err := r.Err(); err != nil {
		return nil, nil, err
	}

	summary.Records = r.DataLines()
	return set, summary, nil
}

// Run extracts the annotation file at path and writes the region files
// under outdir. The input path "-" reads stdin.
func (e *Extractor) Run(path, outdir string, opts bed.WriteOptions) (*Summary, error) {
	r, err := gff.NewReader(path)
	if err != nil {
		return nil, err
	}
	defer r.Close()

	set, summary, err := e.Extract(r)
	if err != nil {
		return nil, err
	}

	counts, err := set.WriteAll(outdir, opts)
	if err != nil {
		return nil, err
	}
	summary.Input = path
	summary.OutDir = outdir
	summary.Categories = counts

	e.logger.Info("extraction complete",
		zap.String("run_id", summary.RunID),
		zap.String("input", path),
		zap.Int("records", summary.Records),
		zap.Int("emitted", summary.Emitted),
		zap.Int("skipped", summary.Skipped()),
		zap.Int("filtered_out", summary.FilteredOut))

	return summary, nil
}
