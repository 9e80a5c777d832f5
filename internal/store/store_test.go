package store

import (
	"context"
	"database/sql"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/kanren/internal/ir"
)

// createTestStore opens a fresh store in a temp directory.
func createTestStore(t *testing.T) *Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "facts.db")
	s, err := Open(path)
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func row(vals ...ir.IRValue) ir.IRArray {
	return ir.IRArray(vals)
}

func TestOpen_CreatesNewDatabase(t *testing.T) {
	path := filepath.Join(t.TempDir(), "facts.db")

	s, err := Open(path)
	require.NoError(t, err)
	defer s.Close()

	_, err = os.Stat(path)
	assert.NoError(t, err, "database file was not created")
}

func TestOpen_Idempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "facts.db")
	ctx := context.Background()

	s, err := Open(path)
	require.NoError(t, err)
	_, err = s.AddFact(ctx, "parent", row(ir.IRString("alice"), ir.IRString("bob")))
	require.NoError(t, err)
	require.NoError(t, s.Close())

	for i := 0; i < 3; i++ {
		s, err := Open(path)
		require.NoError(t, err, "Open() iteration %d", i)
		n, err := s.Count(ctx, "parent")
		require.NoError(t, err)
		assert.Equal(t, 1, n)
		s.Close()
	}
}

func TestOpen_Pragmas(t *testing.T) {
	s := createTestStore(t)

	var mode string
	require.NoError(t, s.db.QueryRow("PRAGMA journal_mode").Scan(&mode))
	assert.Equal(t, "wal", mode)

	var version int
	require.NoError(t, s.db.QueryRow("PRAGMA user_version").Scan(&version))
	assert.Equal(t, currentSchemaVersion, version)
}

func TestOpen_MigratesV0Table(t *testing.T) {
	path := filepath.Join(t.TempDir(), "old.db")

	db, err := sql.Open("sqlite3", path)
	require.NoError(t, err)
	_, err = db.Exec(`
		CREATE TABLE facts (
			id TEXT PRIMARY KEY,
			relation TEXT NOT NULL,
			seq INTEGER NOT NULL,
			args TEXT NOT NULL,
			UNIQUE (relation, args)
		);
		INSERT INTO facts (id, relation, seq, args) VALUES ('x', 'edge', 1, '[1,2,3]');
	`)
	require.NoError(t, err)
	require.NoError(t, db.Close())

	s, err := Open(path)
	require.NoError(t, err)
	defer s.Close()

	infos, err := s.Relations(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []RelationInfo{{Name: "edge", Rows: 1, Arity: 3}}, infos)
}

func TestAddFact(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	added, err := s.AddFact(ctx, "parent", row(ir.IRString("alice"), ir.IRString("bob")))
	require.NoError(t, err)
	assert.True(t, added)

	added, err = s.AddFact(ctx, "parent", row(ir.IRString("alice"), ir.IRString("bob")))
	require.NoError(t, err)
	assert.False(t, added, "duplicate row is ignored")

	added, err = s.AddFact(ctx, "child", row(ir.IRString("alice"), ir.IRString("bob")))
	require.NoError(t, err)
	assert.True(t, added, "same row under another relation is distinct")

	n, err := s.Count(ctx, "parent")
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestAddFact_Errors(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	_, err := s.AddFact(ctx, "", row(ir.IRInt(1)))
	assert.ErrorContains(t, err, "relation name is required")

	_, err = s.AddFact(ctx, "r", row(nil))
	assert.Error(t, err)
}

func TestAddFact_NormalizesStrings(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	added, err := s.AddFact(ctx, "word", row(ir.IRString("caf\u00e9")))
	require.NoError(t, err)
	assert.True(t, added)

	added, err = s.AddFact(ctx, "word", row(ir.IRString("cafe\u0301")))
	require.NoError(t, err)
	assert.False(t, added, "NFC-equal rows are the same fact")
}

func TestAddFacts_Transactional(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	n, err := s.AddFacts(ctx, "edge", []ir.IRArray{
		row(ir.IRInt(1), ir.IRInt(2)),
		row(ir.IRInt(2), ir.IRInt(3)),
		row(ir.IRInt(1), ir.IRInt(2)),
	})
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	_, err = s.AddFacts(ctx, "edge", []ir.IRArray{
		row(ir.IRInt(3), ir.IRInt(4)),
		row(nil),
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "row 1")

	count, err := s.Count(ctx, "edge")
	require.NoError(t, err)
	assert.Equal(t, 2, count, "failed batch leaves no rows behind")
}

func TestRelation_InsertionOrder(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	want := []ir.IRArray{
		row(ir.IRString("zed"), ir.IRInt(3)),
		row(ir.IRString("amy"), ir.IRInt(1)),
		row(ir.IRString("bob"), ir.IRObject{"lmap": ir.IRArray{row(ir.IRInt(1), ir.IRBool(true))}}),
	}
	for _, r := range want {
		_, err := s.AddFact(ctx, "person", r)
		require.NoError(t, err)
	}
	_, err := s.AddFact(ctx, "other", row(ir.IRInt(0)))
	require.NoError(t, err)

	got, err := s.Relation(ctx, "person")
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestRelation_Unknown(t *testing.T) {
	s := createTestStore(t)

	got, err := s.Relation(context.Background(), "missing")
	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestRelations(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	infos, err := s.Relations(ctx)
	require.NoError(t, err)
	assert.Empty(t, infos)

	_, err = s.AddFacts(ctx, "parent", []ir.IRArray{
		row(ir.IRString("a"), ir.IRString("b")),
		row(ir.IRString("b"), ir.IRString("c")),
	})
	require.NoError(t, err)
	_, err = s.AddFact(ctx, "age", row(ir.IRString("a"), ir.IRInt(40)))
	require.NoError(t, err)

	infos, err = s.Relations(ctx)
	require.NoError(t, err)
	assert.Equal(t, []RelationInfo{
		{Name: "age", Rows: 1, Arity: 2},
		{Name: "parent", Rows: 2, Arity: 2},
	}, infos)
}

func TestClose_Nil(t *testing.T) {
	var s Store
	assert.NoError(t, s.Close())
}
