package quant

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMergeCPM(t *testing.T) {
	dir := t.TempDir()
	evPath := filepath.Join(dir, "ev.csv")
	rnaPath := filepath.Join(dir, "rna.csv")
	outPath := filepath.Join(dir, "merged.csv")

	require.NoError(t, os.WriteFile(evPath, []byte(
		"name,reads,region_length\n"+
			"COX1,10,1000\n"+
			"ATP6,30,2000\n"+
			"ORPHAN,10,500\n"), 0o644))
	require.NoError(t, os.WriteFile(rnaPath, []byte(
		"gene_id,count\n"+
			"ATP6,5\n"+
			"COX1,15\n"), 0o644))

	summary, err := MergeCPM(evPath, rnaPath, outPath)
	require.NoError(t, err)

	assert.Equal(t, 3, summary.LeftRows)
	assert.Equal(t, 2, summary.RightRows)
	assert.Equal(t, 2, summary.MergedRows)

	out, err := os.ReadFile(outPath)
	require.NoError(t, err)
	assert.Equal(t,
		"name,region_length,reads,cpm_evseq,fpkm_evseq,gene_id,count,cpm_rnaseq\n"+
			"COX1,1000,10,200000,200000,COX1,15,750000\n"+
			"ATP6,2000,30,600000,300000,ATP6,5,250000\n",
		string(out))
}

func TestMergeCPMWithoutRegionLength(t *testing.T) {
	dir := t.TempDir()
	evPath := filepath.Join(dir, "ev.csv")
	rnaPath := filepath.Join(dir, "rna.csv")
	outPath := filepath.Join(dir, "merged.csv")

	require.NoError(t, os.WriteFile(evPath, []byte("name,reads\nCOX1,10\nATP6,10\n"), 0o644))
	require.NoError(t, os.WriteFile(rnaPath, []byte("gene_id,count\nCOX1,4\n"), 0o644))

	summary, err := MergeCPM(evPath, rnaPath, outPath)
	require.NoError(t, err)
	assert.Equal(t, 1, summary.MergedRows)

	out, err := os.ReadFile(outPath)
	require.NoError(t, err)
	// No region_length column on either side, so no FPKM columns.
	assert.Equal(t,
		"name,reads,cpm_evseq,gene_id,count,cpm_rnaseq\n"+
			"COX1,10,500000,COX1,4,1000000\n",
		string(out))
}

func TestMergeCPMZeroTotal(t *testing.T) {
	dir := t.TempDir()
	evPath := filepath.Join(dir, "ev.csv")
	rnaPath := filepath.Join(dir, "rna.csv")

	require.NoError(t, os.WriteFile(evPath, []byte("name,reads\nCOX1,0\n"), 0o644))
	require.NoError(t, os.WriteFile(rnaPath, []byte("gene_id,count\nCOX1,4\n"), 0o644))

	_, err := MergeCPM(evPath, rnaPath, filepath.Join(dir, "merged.csv"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "cannot normalize")
}

func TestMergeCPMMissingKeyColumn(t *testing.T) {
	dir := t.TempDir()
	evPath := filepath.Join(dir, "ev.csv")
	rnaPath := filepath.Join(dir, "rna.csv")

	require.NoError(t, os.WriteFile(evPath, []byte("wrong,reads\nCOX1,1\n"), 0o644))
	require.NoError(t, os.WriteFile(rnaPath, []byte("gene_id,count\nCOX1,4\n"), 0o644))

	_, err := MergeCPM(evPath, rnaPath, filepath.Join(dir, "merged.csv"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), `"name" not found`)
}
