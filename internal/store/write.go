package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/roach88/kanren/internal/ir"
)

// AddFact inserts one row into relation. Returns false, without error, if
// the identical row is already stored.
func (s *Store) AddFact(ctx context.Context, relation string, args ir.IRArray) (bool, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return false, fmt.Errorf("add fact: %w", err)
	}
	defer tx.Rollback()

	added, err := insertFact(ctx, tx, relation, args)
	if err != nil {
		return false, fmt.Errorf("add fact: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return false, fmt.Errorf("add fact: %w", err)
	}
	return added, nil
}

// AddFacts inserts rows into relation in one transaction and returns how
// many were new. Either every row is applied or none is.
func (s *Store) AddFacts(ctx context.Context, relation string, rows []ir.IRArray) (int, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("add facts: %w", err)
	}
	defer tx.Rollback()

	added := 0
	for i, row := range rows {
		ok, err := insertFact(ctx, tx, relation, row)
		if err != nil {
			return 0, fmt.Errorf("add facts: row %d: %w", i, err)
		}
		if ok {
			added++
		}
	}
	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("add facts: %w", err)
	}
	return added, nil
}

// insertFact writes one row with the next sequence number.
// Uses ON CONFLICT DO NOTHING so duplicate rows are ignored.
func insertFact(ctx context.Context, tx *sql.Tx, relation string, args ir.IRArray) (bool, error) {
	if relation == "" {
		return false, fmt.Errorf("relation name is required")
	}
	argsJSON, err := marshalArgs(args)
	if err != nil {
		return false, err
	}
	id, err := ir.FactID(relation, args)
	if err != nil {
		return false, err
	}

	var seq int64
	if err := tx.QueryRowContext(ctx, `SELECT COALESCE(MAX(seq), 0) + 1 FROM facts`).Scan(&seq); err != nil {
		return false, fmt.Errorf("next seq: %w", err)
	}

	res, err := tx.ExecContext(ctx, `
		INSERT INTO facts (id, relation, seq, args, arity)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT DO NOTHING
	`, id, relation, seq, argsJSON, len(args))
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n == 1, nil
}

// marshalArgs converts a row to canonical JSON TEXT for storage.
func marshalArgs(args ir.IRArray) (string, error) {
	if args == nil {
		args = ir.IRArray{}
	}
	data, err := ir.MarshalCanonical(args)
	if err != nil {
		return "", fmt.Errorf("marshal args: %w", err)
	}
	return string(data), nil
}
