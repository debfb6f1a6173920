package repomanager

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/drscreen/internal/dbx"
	"github.com/dmitrijs2005/drscreen/internal/migrations"
	"github.com/dmitrijs2005/drscreen/internal/repositories/predictions"
	"github.com/dmitrijs2005/drscreen/internal/repositories/users"
	_ "github.com/jackc/pgx/v5/stdlib"
)

// PostgresRepositoryManager vends PostgreSQL-backed repositories.
type PostgresRepositoryManager struct{}

func NewPostgresRepositoryManager() *PostgresRepositoryManager {
	return &PostgresRepositoryManager{}
}

// Users returns a users.Repository bound to the provided DBTX.
func (m *PostgresRepositoryManager) Users(db dbx.DBTX) users.Repository {
	return users.NewPostgresRepository(db)
}

// Predictions returns a predictions.Repository bound to the provided DBTX.
func (m *PostgresRepositoryManager) Predictions(db dbx.DBTX) predictions.Repository {
	return predictions.NewPostgresRepository(db)
}

// RunMigrations applies the embedded PostgreSQL migrations.
func (m *PostgresRepositoryManager) RunMigrations(ctx context.Context, db *sql.DB) error {
	return migrate(ctx, db, migrations.Postgres(), "pgx")
}
