package sgd

import (
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeStore struct {
	loci map[string]*Locus
	puts []string
}

func newFakeStore() *fakeStore {
	return &fakeStore{loci: make(map[string]*Locus)}
}

func (f *fakeStore) GetLocus(name string) (*Locus, bool, error) {
	loc, ok := f.loci[name]
	return loc, ok, nil
}

func (f *fakeStore) PutLocus(loc *Locus) error {
	f.puts = append(f.puts, loc.QueryName)
	f.loci[loc.QueryName] = loc
	return nil
}

// lookupServer answers /locus/{name} for the given genes and 404s the rest.
func lookupServer(t *testing.T, known map[string]string, hits *[]string) *Client {
	t.Helper()
	return newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		name := strings.TrimPrefix(r.URL.Path, "/locus/")
		if hits != nil {
			*hits = append(*hits, name)
		}
		desc, ok := known[name]
		if !ok {
			http.Error(w, "not found", http.StatusNotFound)
			return
		}
		fmt.Fprintf(w, `{"sgdid":"S-%s","gene_name":%q,"description":%q}`, name, name, desc)
	})
}

func writeInput(t *testing.T, dir string) string {
	t.Helper()
	path := filepath.Join(dir, "fpkm.csv")
	content := "name,reads\n" +
		"COX1,10\n" +
		"ATP6,5\n" +
		"COX1,3\n" +
		",0\n" +
		"MISSING,1\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestAnnotateColumn(t *testing.T) {
	dir := t.TempDir()
	var hits []string
	client := lookupServer(t, map[string]string{
		"COX1": "cytochrome c oxidase subunit I",
		"ATP6": "ATP synthase subunit a",
	}, &hits)

	outPath := filepath.Join(dir, "annotated.csv")
	a := NewAnnotator(client, nil)

	result, err := a.AnnotateColumn(writeInput(t, dir), "name", outPath)
	require.NoError(t, err)

	// Duplicates and empty values collapse; query order is first-seen.
	assert.Equal(t, []string{"COX1", "ATP6", "MISSING"}, hits)
	require.Len(t, result.Found, 2)
	assert.Equal(t, []string{"MISSING"}, result.NotFound)
	assert.Equal(t, 0, result.FromCache)

	out, err := os.ReadFile(outPath)
	require.NoError(t, err)
	assert.Equal(t,
		"query_name,sgdid,systematic_name,gene_name,format_name,description\n"+
			"COX1,S-COX1,,COX1,,cytochrome c oxidase subunit I\n"+
			"ATP6,S-ATP6,,ATP6,,ATP synthase subunit a\n",
		string(out))

	misses, err := os.ReadFile(filepath.Join(dir, NotFoundFile))
	require.NoError(t, err)
	assert.Equal(t, "MISSING\n", string(misses))
}

func TestAnnotateColumnUsesStore(t *testing.T) {
	dir := t.TempDir()
	var hits []string
	client := lookupServer(t, map[string]string{
		"ATP6": "ATP synthase subunit a",
	}, &hits)

	store := newFakeStore()
	store.loci["COX1"] = &Locus{QueryName: "COX1", SGDID: "S-cached", Description: "cached"}
	store.loci["MISSING"] = &Locus{QueryName: "MISSING", SGDID: "S-weird"}

	a := NewAnnotator(client, store)
	result, err := a.AnnotateColumn(writeInput(t, dir), "name", filepath.Join(dir, "out.csv"))
	require.NoError(t, err)

	// Cached names never reach the network; fresh hits get stored.
	assert.Equal(t, []string{"ATP6"}, hits)
	assert.Equal(t, []string{"ATP6"}, store.puts)
	assert.Equal(t, 2, result.FromCache)
	assert.Len(t, result.Found, 3)
	assert.Empty(t, result.NotFound)
}

func TestAnnotateColumnRefresh(t *testing.T) {
	dir := t.TempDir()
	var hits []string
	client := lookupServer(t, map[string]string{
		"COX1": "fresh description",
		"ATP6": "ATP synthase subunit a",
	}, &hits)

	store := newFakeStore()
	store.loci["COX1"] = &Locus{QueryName: "COX1", Description: "stale"}

	a := NewAnnotator(client, store)
	a.SetRefresh(true)

	result, err := a.AnnotateColumn(writeInput(t, dir), "name", filepath.Join(dir, "out.csv"))
	require.NoError(t, err)

	assert.Contains(t, hits, "COX1")
	assert.Equal(t, 0, result.FromCache)
	assert.Equal(t, "fresh description", store.loci["COX1"].Description)
}

func TestAnnotateColumnMissingColumn(t *testing.T) {
	dir := t.TempDir()
	client := lookupServer(t, nil, nil)

	a := NewAnnotator(client, nil)
	_, err := a.AnnotateColumn(writeInput(t, dir), "gene_id", filepath.Join(dir, "out.csv"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), `"gene_id" not found`)
}

func TestAnnotateColumnNoMisses(t *testing.T) {
	dir := t.TempDir()
	client := lookupServer(t, map[string]string{
		"COX1": "d1", "ATP6": "d2", "MISSING": "d3",
	}, nil)

	a := NewAnnotator(client, nil)
	result, err := a.AnnotateColumn(writeInput(t, dir), "name", filepath.Join(dir, "out.csv"))
	require.NoError(t, err)
	assert.Empty(t, result.NotFound)

	_, err = os.Stat(filepath.Join(dir, NotFoundFile))
	assert.True(t, os.IsNotExist(err), "no miss list expected")
}
