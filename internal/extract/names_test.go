package extract

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResolvePriority(t *testing.T) {
	tests := []struct {
		name  string
		attrs map[string]string
		want  string
	}{
		{
			name:  "Name wins",
			attrs: map[string]string{"Name": "COX1", "ID": "Q0045", "gene": "COX1alt"},
			want:  "COX1",
		},
		{
			name:  "ID second",
			attrs: map[string]string{"ID": "Q0045", "IDREF": "ref", "gene": "g"},
			want:  "Q0045",
		},
		{
			name:  "IDREF third",
			attrs: map[string]string{"IDREF": "ref", "gene": "g"},
			want:  "ref",
		},
		{
			name:  "gene fourth",
			attrs: map[string]string{"gene": "g", "Note": "ignored"},
			want:  "g",
		},
		{
			name:  "empty value is skipped",
			attrs: map[string]string{"Name": "", "ID": "Q0045"},
			want:  "Q0045",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := NewNameResolver()
			assert.Equal(t, tt.want, r.Resolve(tt.attrs, "gene"))
		})
	}
}

func TestResolveFallbackCounter(t *testing.T) {
	r := NewNameResolver()

	assert.Equal(t, "gene_1", r.Resolve(nil, "gene"))
	assert.Equal(t, "gene_2", r.Resolve(map[string]string{}, "gene"))
	assert.Equal(t, "gene_3", r.Resolve(map[string]string{"Note": "x"}, "gene"))
}

func TestResolveCountersPerFeatureType(t *testing.T) {
	r := NewNameResolver()

	assert.Equal(t, "gene_1", r.Resolve(nil, "gene"))
	assert.Equal(t, "telomere_1", r.Resolve(nil, "telomere"))
	assert.Equal(t, "gene_2", r.Resolve(nil, "gene"))
	assert.Equal(t, "telomere_2", r.Resolve(nil, "telomere"))
}

func TestResolveFreshResolverRestartsAtOne(t *testing.T) {
	first := NewNameResolver()
	first.Resolve(nil, "gene")
	first.Resolve(nil, "gene")

	second := NewNameResolver()
	assert.Equal(t, "gene_1", second.Resolve(nil, "gene"))
}
