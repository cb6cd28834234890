package pgstore

import (
	"context"
	"strings"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// fakeQuerier records queries and serves canned rows, standing in for a pgx
// pool.
type fakeQuerier struct {
	execSQL  []string
	execArgs [][]any
	row      pgx.Row
}

func (f *fakeQuerier) Exec(_ context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	f.execSQL = append(f.execSQL, sql)
	f.execArgs = append(f.execArgs, args)
	return pgconn.CommandTag{}, nil
}

func (f *fakeQuerier) QueryRow(_ context.Context, _ string, _ ...any) pgx.Row {
	return f.row
}

type fakeRow struct {
	value string
	err   error
}

func (r fakeRow) Scan(dest ...any) error {
	if r.err != nil {
		return r.err
	}
	if p, ok := dest[0].(*string); ok {
		*p = r.value
	}
	return nil
}

func TestGet(t *testing.T) {
	s := New(&fakeQuerier{row: fakeRow{value: "stored"}})

	value, exists, err := s.Get(context.Background(), "k")
	if err != nil || !exists || value != "stored" {
		t.Errorf("Get = %q, %v, %v", value, exists, err)
	}
}

func TestGet_MissingRow(t *testing.T) {
	s := New(&fakeQuerier{row: fakeRow{err: pgx.ErrNoRows}})

	_, exists, err := s.Get(context.Background(), "k")
	if err != nil {
		t.Fatalf("Get error = %v", err)
	}
	if exists {
		t.Error("missing row reported as existing")
	}
}

func TestSet_Upserts(t *testing.T) {
	db := &fakeQuerier{}
	s := New(db)

	if err := s.Set(context.Background(), "k", "v"); err != nil {
		t.Fatal(err)
	}

	if len(db.execSQL) != 1 {
		t.Fatalf("exec calls = %v", db.execSQL)
	}
	if !strings.Contains(db.execSQL[0], "ON CONFLICT") {
		t.Errorf("query is not an upsert: %s", db.execSQL[0])
	}
	if len(db.execArgs[0]) != 2 || db.execArgs[0][0] != "k" || db.execArgs[0][1] != "v" {
		t.Errorf("args = %v", db.execArgs[0])
	}
}

func TestEnsureSchema(t *testing.T) {
	db := &fakeQuerier{}
	s := New(db, WithTableName("my_cache"))

	if err := s.EnsureSchema(context.Background()); err != nil {
		t.Fatal(err)
	}
	if len(db.execSQL) != 1 || !strings.Contains(db.execSQL[0], `"my_cache"`) {
		t.Errorf("exec = %v", db.execSQL)
	}
}

func TestWithTableName_Sanitizes(t *testing.T) {
	s := New(&fakeQuerier{}, WithTableName(`evil"; DROP TABLE users; --`))
	if strings.Contains(s.tableName, "; DROP") && !strings.HasPrefix(s.tableName, `"`) {
		t.Errorf("table name not sanitized: %s", s.tableName)
	}
}
