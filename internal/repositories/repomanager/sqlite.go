package repomanager

import (
	"context"
	"database/sql"
	"strings"

	"github.com/dmitrijs2005/drscreen/internal/dbx"
	"github.com/dmitrijs2005/drscreen/internal/migrations"
	"github.com/dmitrijs2005/drscreen/internal/repositories/predictions"
	"github.com/dmitrijs2005/drscreen/internal/repositories/users"
	_ "modernc.org/sqlite"
)

// SQLiteRepositoryManager vends SQLite-backed repositories.
type SQLiteRepositoryManager struct{}

func NewSQLiteRepositoryManager() *SQLiteRepositoryManager {
	return &SQLiteRepositoryManager{}
}

func (m *SQLiteRepositoryManager) Users(db dbx.DBTX) users.Repository {
	return users.NewSQLiteRepository(db)
}

func (m *SQLiteRepositoryManager) Predictions(db dbx.DBTX) predictions.Repository {
	return predictions.NewSQLiteRepository(db)
}

func (m *SQLiteRepositoryManager) RunMigrations(ctx context.Context, db *sql.DB) error {
	return migrate(ctx, db, migrations.SQLite(), "sqlite3")
}

// SQLiteDSN turns a file path into a modernc DSN with foreign keys enforced
// and a busy timeout. DSNs that already carry a query string are returned
// unchanged.
func SQLiteDSN(path string) string {
	if strings.Contains(path, "?") {
		return path
	}
	return "file:" + path + "?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)"
}

func sqlitePath(dsn string) string {
	p := strings.TrimPrefix(dsn, "file:")
	if i := strings.IndexByte(p, '?'); i >= 0 {
		p = p[:i]
	}
	return p
}
