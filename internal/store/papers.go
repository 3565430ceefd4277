// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/pdiddy/paper-graph/pkg/types"
)

const paperColumns = `id, title, authors, summary, published, pdf_url, key_concepts, citations`

// AddPaper inserts p unless a paper with the same id exists. It returns the
// stored record and whether it was newly created.
func (s *Store) AddPaper(ctx context.Context, p types.Paper) (types.Paper, bool, error) {
	if p.ID == "" {
		return types.Paper{}, false, fmt.Errorf("paper id is required")
	}

	authorsJSON, err := json.Marshal(nonNil(p.Authors))
	if err != nil {
		return types.Paper{}, false, fmt.Errorf("encoding authors of %s: %w", p.ID, err)
	}
	conceptsJSON, err := json.Marshal(nonNil(p.KeyConcepts))
	if err != nil {
		return types.Paper{}, false, fmt.Errorf("encoding key concepts of %s: %w", p.ID, err)
	}
	citations := p.Citations
	if citations == nil {
		citations = []types.Citation{}
	}
	citationsJSON, err := json.Marshal(citations)
	if err != nil {
		return types.Paper{}, false, fmt.Errorf("encoding citations of %s: %w", p.ID, err)
	}

	res, err := s.db.ExecContext(ctx,
		`INSERT INTO papers (`+paperColumns+`, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO NOTHING`,
		p.ID, p.Title, string(authorsJSON), p.Summary, formatTime(p.Published),
		p.PDFURL, string(conceptsJSON), string(citationsJSON), formatTime(s.now()),
	)
	if err != nil {
		return types.Paper{}, false, fmt.Errorf("inserting paper %s: %w", p.ID, err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return types.Paper{}, false, fmt.Errorf("inserting paper %s: %w", p.ID, err)
	}
	stored, err := s.GetPaper(ctx, p.ID)
	if err != nil {
		return types.Paper{}, false, err
	}
	return stored, n > 0, nil
}

// GetPaper returns the paper with id, or ErrNotFound.
func (s *Store) GetPaper(ctx context.Context, id string) (types.Paper, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+paperColumns+` FROM papers WHERE id = ?`, id)
	p, err := scanPaper(row)
	if errors.Is(err, sql.ErrNoRows) {
		return types.Paper{}, fmt.Errorf("paper %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return types.Paper{}, fmt.Errorf("reading paper %s: %w", id, err)
	}
	return p, nil
}

// ListPapers returns every paper in insertion order.
func (s *Store) ListPapers(ctx context.Context) ([]types.Paper, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+paperColumns+` FROM papers ORDER BY rowid`)
	if err != nil {
		return nil, fmt.Errorf("querying papers: %w", err)
	}
	defer rows.Close()

	papers := []types.Paper{}
	for rows.Next() {
		p, err := scanPaper(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning paper: %w", err)
		}
		papers = append(papers, p)
	}
	return papers, rows.Err()
}

// DeletePaper removes the paper and every edge touching it.
func (s *Store) DeletePaper(ctx context.Context, id string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx,
		`DELETE FROM edges WHERE source_id = ? OR target_id = ?`, id, id,
	); err != nil {
		return fmt.Errorf("deleting edges of %s: %w", id, err)
	}

	res, err := tx.ExecContext(ctx, `DELETE FROM papers WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting paper %s: %w", id, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("paper %s: %w", id, ErrNotFound)
	}
	return tx.Commit()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanPaper(row scanner) (types.Paper, error) {
	var (
		p            types.Paper
		authorsJSON  sql.NullString
		summary      sql.NullString
		published    sql.NullString
		pdfURL       sql.NullString
		conceptsJSON sql.NullString
		citesJSON    sql.NullString
	)
	if err := row.Scan(&p.ID, &p.Title, &authorsJSON, &summary, &published,
		&pdfURL, &conceptsJSON, &citesJSON); err != nil {
		return types.Paper{}, err
	}

	p.Summary = summary.String
	p.PDFURL = pdfURL.String
	p.Published = parseTime(published)
	p.Authors = []string{}
	p.KeyConcepts = []string{}
	p.Citations = []types.Citation{}
	if err := decodeColumn(authorsJSON, &p.Authors); err != nil {
		return types.Paper{}, fmt.Errorf("decoding authors of %s: %w", p.ID, err)
	}
	if err := decodeColumn(conceptsJSON, &p.KeyConcepts); err != nil {
		return types.Paper{}, fmt.Errorf("decoding key concepts of %s: %w", p.ID, err)
	}
	if err := decodeColumn(citesJSON, &p.Citations); err != nil {
		return types.Paper{}, fmt.Errorf("decoding citations of %s: %w", p.ID, err)
	}
	return p, nil
}

// decodeColumn unmarshals a nullable JSON column into v. NULL leaves v
// untouched.
func decodeColumn(col sql.NullString, v any) error {
	if !col.Valid || col.String == "" {
		return nil
	}
	return json.Unmarshal([]byte(col.String), v)
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
