package database

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/Aleph-Alpha/dbfacade/pkg/connector"
)

const usersTable = `CREATE TABLE users (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	name TEXT NOT NULL,
	email TEXT UNIQUE,
	age INTEGER NOT NULL DEFAULT 0
)`

func memoryConfig() connector.Config {
	return connector.Config{Driver: "sqlite", DbName: ":memory:"}
}

// newTestDB opens an in-memory SQLite facade with an empty users table.
func newTestDB(t *testing.T, opts ...Option) *Database {
	t.Helper()

	db, err := New(memoryConfig(), opts...)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	mustExec(t, db, usersTable)
	return db
}

func mustExec(t *testing.T, db *Database, sqlText string, params ...any) {
	t.Helper()

	_, err := db.SQL(sqlText, params...).ExecuteStatus(context.Background())
	require.NoError(t, err)
	db.Clear()
}

// seedUsers inserts alice (30), bob (25) and carol (41) with ids 1 to 3.
func seedUsers(t *testing.T, db *Database) {
	t.Helper()

	ctx := context.Background()
	for _, u := range []map[string]any{
		{"name": "alice", "email": "alice@example.com", "age": 30},
		{"name": "bob", "email": "bob@example.com", "age": 25},
		{"name": "carol", "email": "carol@example.com", "age": 41},
	} {
		ok, err := db.Table("users").InsertNow(ctx, u)
		require.NoError(t, err)
		require.True(t, ok)
	}
}

// newStatementLog returns a mock logger collecting the SQL of every executed
// statement.
func newStatementLog(t *testing.T) (*MockLogger, *[]string) {
	t.Helper()

	ctrl := gomock.NewController(t)
	mockLogger := NewMockLogger(ctrl)

	var statements []string
	mockLogger.EXPECT().Debug(gomock.Any(), gomock.Any(), gomock.Any()).DoAndReturn(
		func(msg string, err error, fields ...map[string]interface{}) {
			for _, f := range fields {
				if s, ok := f["sql"].(string); ok {
					statements = append(statements, s)
				}
			}
		}).AnyTimes()
	mockLogger.EXPECT().Info(gomock.Any(), gomock.Any(), gomock.Any()).AnyTimes()
	mockLogger.EXPECT().Warn(gomock.Any(), gomock.Any(), gomock.Any()).AnyTimes()
	mockLogger.EXPECT().Error(gomock.Any(), gomock.Any(), gomock.Any()).AnyTimes()

	return mockLogger, &statements
}

func lastStatement(t *testing.T, statements *[]string) string {
	t.Helper()
	require.NotEmpty(t, *statements)
	return (*statements)[len(*statements)-1]
}

type observedQuery struct {
	driver string
	kind   string
	err    error
}

type recordingObserver struct {
	queries []observedQuery
	opened  int
	closed  int
}

func (r *recordingObserver) ObserveQuery(driver, kind string, _ time.Duration, err error) {
	r.queries = append(r.queries, observedQuery{driver: driver, kind: kind, err: err})
}

func (r *recordingObserver) ConnectionOpened(string) { r.opened++ }

func (r *recordingObserver) ConnectionClosed(string) { r.closed++ }

func (r *recordingObserver) count(kind string) int {
	n := 0
	for _, q := range r.queries {
		if q.kind == kind {
			n++
		}
	}
	return n
}
