// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/pdiddy/paper-graph/pkg/types"
)

const edgeColumns = `id, source_id, target_id, edge_type, evidence, created_at`

// AddEdge links two stored papers. If any edge already joins the pair, in
// either direction and of any type, nothing is written and the existing
// edge is returned with created=false. An empty ID is filled with a new
// UUID.
func (s *Store) AddEdge(ctx context.Context, e types.Edge) (edge types.Edge, created bool, err error) {
	if e.SourceID == e.TargetID {
		return types.Edge{}, false, ErrSelfLoop
	}
	if !e.Type.Valid() {
		return types.Edge{}, false, fmt.Errorf("%w: %q", ErrInvalidEdgeType, e.Type)
	}
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	if e.CreatedAt.IsZero() {
		e.CreatedAt = s.now()
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return types.Edge{}, false, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	for _, id := range []string{e.SourceID, e.TargetID} {
		var exists int
		if err := tx.QueryRowContext(ctx, `SELECT count(*) FROM papers WHERE id = ?`, id).Scan(&exists); err != nil {
			return types.Edge{}, false, fmt.Errorf("checking paper %s: %w", id, err)
		}
		if exists == 0 {
			return types.Edge{}, false, fmt.Errorf("paper %s: %w", id, ErrNotFound)
		}
	}

	lo, hi := pairKey(e.SourceID, e.TargetID)
	res, err := tx.ExecContext(ctx,
		`INSERT INTO edges (`+edgeColumns+`, pair_lo, pair_hi)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(pair_lo, pair_hi) DO NOTHING`,
		e.ID, e.SourceID, e.TargetID, string(e.Type), e.Evidence, formatTime(e.CreatedAt), lo, hi,
	)
	if err != nil {
		return types.Edge{}, false, fmt.Errorf("inserting edge: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		existing, err := scanEdge(tx.QueryRowContext(ctx,
			`SELECT `+edgeColumns+` FROM edges WHERE pair_lo = ? AND pair_hi = ?`, lo, hi))
		if err != nil {
			return types.Edge{}, false, fmt.Errorf("reading existing edge: %w", err)
		}
		return existing, false, nil
	}

	if err := tx.Commit(); err != nil {
		return types.Edge{}, false, fmt.Errorf("committing edge: %w", err)
	}
	return e, true, nil
}

// FindEdge returns the edge joining a and b in either direction, or
// ErrNotFound.
func (s *Store) FindEdge(ctx context.Context, a, b string) (types.Edge, error) {
	lo, hi := pairKey(a, b)
	e, err := scanEdge(s.db.QueryRowContext(ctx,
		`SELECT `+edgeColumns+` FROM edges WHERE pair_lo = ? AND pair_hi = ?`, lo, hi))
	if errors.Is(err, sql.ErrNoRows) {
		return types.Edge{}, fmt.Errorf("edge %s-%s: %w", a, b, ErrNotFound)
	}
	if err != nil {
		return types.Edge{}, fmt.Errorf("reading edge: %w", err)
	}
	return e, nil
}

// ListEdges returns every edge in creation order.
func (s *Store) ListEdges(ctx context.Context) ([]types.Edge, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+edgeColumns+` FROM edges ORDER BY rowid`)
	if err != nil {
		return nil, fmt.Errorf("querying edges: %w", err)
	}
	defer rows.Close()

	edges := []types.Edge{}
	for rows.Next() {
		e, err := scanEdge(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning edge: %w", err)
		}
		edges = append(edges, e)
	}
	return edges, rows.Err()
}

// DeleteEdge removes the edge with id, or returns ErrNotFound.
func (s *Store) DeleteEdge(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM edges WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting edge %s: %w", id, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("edge %s: %w", id, ErrNotFound)
	}
	return nil
}

// GraphData returns every paper and every edge.
func (s *Store) GraphData(ctx context.Context) (types.GraphData, error) {
	papers, err := s.ListPapers(ctx)
	if err != nil {
		return types.GraphData{}, err
	}
	edges, err := s.ListEdges(ctx)
	if err != nil {
		return types.GraphData{}, err
	}
	return types.GraphData{Nodes: papers, Edges: edges}, nil
}

// pairKey orders two paper ids so that (a, b) and (b, a) share a key.
func pairKey(a, b string) (string, string) {
	if a < b {
		return a, b
	}
	return b, a
}

func scanEdge(row scanner) (types.Edge, error) {
	var (
		e         types.Edge
		edgeType  string
		evidence  sql.NullString
		createdAt sql.NullString
	)
	if err := row.Scan(&e.ID, &e.SourceID, &e.TargetID, &edgeType, &evidence, &createdAt); err != nil {
		return types.Edge{}, err
	}
	e.Type = types.EdgeType(edgeType)
	e.Evidence = evidence.String
	e.CreatedAt = parseTime(createdAt)
	return e, nil
}
