package store

import (
	"context"
	"fmt"

	"github.com/roach88/kanren/internal/ir"
)

// Relation returns the rows of relation in insertion order.
// Returns an empty slice (not nil) for an unknown relation.
func (s *Store) Relation(ctx context.Context, relation string) ([]ir.IRArray, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT args
		FROM facts
		WHERE relation = ?
		ORDER BY seq ASC, id COLLATE BINARY ASC
	`, relation)
	if err != nil {
		return nil, fmt.Errorf("query relation %s: %w", relation, err)
	}
	defer rows.Close()

	result := []ir.IRArray{}
	for rows.Next() {
		var argsJSON string
		if err := rows.Scan(&argsJSON); err != nil {
			return nil, fmt.Errorf("scan relation %s: %w", relation, err)
		}
		var args ir.IRArray
		if err := args.UnmarshalJSON([]byte(argsJSON)); err != nil {
			return nil, fmt.Errorf("unmarshal relation %s row: %w", relation, err)
		}
		result = append(result, args)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate relation %s: %w", relation, err)
	}
	return result, nil
}

// RelationInfo summarizes one stored relation.
type RelationInfo struct {
	Name  string `json:"name"`
	Rows  int    `json:"rows"`
	Arity int    `json:"arity"`
}

// Relations lists every relation with its row count, ordered by name.
// Arity is the largest row width stored for the relation.
func (s *Store) Relations(ctx context.Context) ([]RelationInfo, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT relation, COUNT(*), MAX(arity)
		FROM facts
		GROUP BY relation
		ORDER BY relation COLLATE BINARY ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("query relations: %w", err)
	}
	defer rows.Close()

	result := []RelationInfo{}
	for rows.Next() {
		var info RelationInfo
		if err := rows.Scan(&info.Name, &info.Rows, &info.Arity); err != nil {
			return nil, fmt.Errorf("scan relations: %w", err)
		}
		result = append(result, info)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate relations: %w", err)
	}
	return result, nil
}

// Count returns the number of rows in relation.
func (s *Store) Count(ctx context.Context, relation string) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM facts WHERE relation = ?`, relation).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count relation %s: %w", relation, err)
	}
	return n, nil
}
