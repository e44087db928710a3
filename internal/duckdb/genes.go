package duckdb

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/evseq/regiondb/internal/datasource/sgd"
)

// PutLocus inserts or replaces one cached locus annotation.
func (s *Store) PutLocus(loc *sgd.Locus) error {
	_, err := s.db.Exec(`INSERT OR REPLACE INTO gene_annotations
		(query_name, sgdid, systematic_name, gene_name, format_name, description)
		VALUES (?, ?, ?, ?, ?, ?)`,
		loc.QueryName, loc.SGDID, loc.SystematicName, loc.GeneName,
		loc.FormatName, loc.Description)
	if err != nil {
		return fmt.Errorf("cache locus %s: %w", loc.QueryName, err)
	}
	return nil
}

// GetLocus queries the cache for a previously resolved locus.
func (s *Store) GetLocus(name string) (*sgd.Locus, bool, error) {
	var loc sgd.Locus
	err := s.db.QueryRow(`SELECT
		query_name, sgdid, systematic_name, gene_name, format_name, description
		FROM gene_annotations WHERE query_name = ?`, name).Scan(
		&loc.QueryName, &loc.SGDID, &loc.SystematicName, &loc.GeneName,
		&loc.FormatName, &loc.Description)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("lookup cached locus %s: %w", name, err)
	}
	return &loc, true, nil
}

// CountLoci returns the number of cached annotations.
func (s *Store) CountLoci() (int64, error) {
	var count int64
	if err := s.db.QueryRow("SELECT COUNT(*) FROM gene_annotations").Scan(&count); err != nil {
		return 0, fmt.Errorf("count cached loci: %w", err)
	}
	return count, nil
}

// ClearLoci removes all cached annotations.
func (s *Store) ClearLoci() error {
	_, err := s.db.Exec("DELETE FROM gene_annotations")
	return err
}
