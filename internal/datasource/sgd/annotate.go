package sgd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/evseq/regiondb/internal/tables"
)

// NotFoundFile is the name of the miss list written next to the output.
const NotFoundFile = "sgd_not_found.txt"

// Store caches resolved loci between runs.
type Store interface {
	GetLocus(name string) (*Locus, bool, error)
	PutLocus(loc *Locus) error
}

// Annotator resolves the gene names of a table column against SGD,
// consulting a local store before the network.
type Annotator struct {
	client  *Client
	store   Store
	refresh bool
	logger  *zap.Logger
}

// NewAnnotator creates an annotator. The store may be nil, in which case
// every name goes to the network.
func NewAnnotator(client *Client, store Store) *Annotator {
	return &Annotator{
		client: client,
		store:  store,
		logger: zap.NewNop(),
	}
}

// SetRefresh makes the annotator bypass the store and overwrite cached
// entries with fresh API responses.
func (a *Annotator) SetRefresh(refresh bool) {
	a.refresh = refresh
}

// SetLogger sets the logger for per-gene progress messages.
func (a *Annotator) SetLogger(l *zap.Logger) {
	a.logger = l
}

// Result reports one annotation run.
type Result struct {
	Found     []*Locus
	NotFound  []string
	FromCache int
}

// AnnotateColumn queries every unique non-empty value of the named
// column, in first-seen order, and writes the annotated table to
// outputPath. Names SGD does not know go to sgd_not_found.txt next to
// the output.
func (a *Annotator) AnnotateColumn(inputPath, column, outputPath string) (*Result, error) {
	table, err := tables.ReadFile(inputPath)
	if err != nil {
		return nil, err
	}
	col, ok := table.Column(column)
	if !ok {
		return nil, fmt.Errorf("column %q not found in %s", column, inputPath)
	}

	seen := make(map[string]struct{})
	var genes []string
	for _, row := range table.Rows {
		name := row[col]
		if name == "" {
			continue
		}
		if _, dup := seen[name]; dup {
			continue
		}
		seen[name] = struct{}{}
		genes = append(genes, name)
	}

	result := &Result{}
	for _, gene := range genes {
		loc, cached, err := a.resolve(gene)
		if err != nil {
			return nil, err
		}
		if loc == nil {
			result.NotFound = append(result.NotFound, gene)
			continue
		}
		if cached {
			result.FromCache++
		}
		result.Found = append(result.Found, loc)
	}

	if err := writeLociTable(result.Found, outputPath); err != nil {
		return nil, err
	}
	if len(result.NotFound) > 0 {
		missPath := filepath.Join(filepath.Dir(outputPath), NotFoundFile)
		content := strings.Join(result.NotFound, "\n") + "\n"
		if err := os.WriteFile(missPath, []byte(content), 0o644); err != nil {
			return nil, fmt.Errorf("write miss list: %w", err)
		}
	}

	a.logger.Info("sgd lookup complete",
		zap.Int("queried", len(genes)),
		zap.Int("found", len(result.Found)),
		zap.Int("not_found", len(result.NotFound)),
		zap.Int("from_cache", result.FromCache))

	return result, nil
}

// resolve answers one gene from the store when possible, else from the
// API, caching fresh hits.
func (a *Annotator) resolve(gene string) (*Locus, bool, error) {
	if a.store != nil && !a.refresh {
		loc, ok, err := a.store.GetLocus(gene)
		if err != nil {
			return nil, false, err
		}
		if ok {
			return loc, true, nil
		}
	}

	a.logger.Info("querying sgd", zap.String("gene", gene))
	loc, err := a.client.Lookup(gene)
	if err != nil {
		return nil, false, err
	}
	if loc == nil {
		return nil, false, nil
	}

	if a.store != nil {
		if err := a.store.PutLocus(loc); err != nil {
			return nil, false, err
		}
	}
	return loc, false, nil
}

func writeLociTable(loci []*Locus, path string) error {
	rows := make([][]string, len(loci))
	for i, loc := range loci {
		rows[i] = []string{
			loc.QueryName,
			loc.SGDID,
			loc.SystematicName,
			loc.GeneName,
			loc.FormatName,
			loc.Description,
		}
	}
	table := tables.New([]string{
		"query_name", "sgdid", "systematic_name", "gene_name", "format_name", "description",
	}, rows)
	return table.WriteFile(path)
}
