package services

import (
	"context"
	"database/sql"
	"sync"
	"testing"
	"time"

	"github.com/dmitrijs2005/drscreen/internal/credentials"
	"github.com/dmitrijs2005/drscreen/internal/repositories/repomanager"
	"github.com/dmitrijs2005/drscreen/internal/testutil/sqlitetest"
	"github.com/stretchr/testify/require"
)

// fakeClock returns t and then moves it forward by step.
type fakeClock struct {
	mu   sync.Mutex
	t    time.Time
	step time.Duration
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	now := c.t
	c.t = c.t.Add(c.step)
	return now
}

func (c *fakeClock) Set(t time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = t
}

type fixture struct {
	db    *sql.DB
	users *UserService
	preds *PredictionService
	clock *fakeClock
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	return newFixtureWithScheme(t, credentials.SchemeSHA256)
}

func newFixtureWithScheme(t *testing.T, scheme string) *fixture {
	t.Helper()

	db := sqlitetest.Open(t)
	rm := repomanager.NewSQLiteRepositoryManager()
	hasher, err := credentials.New(scheme)
	require.NoError(t, err)

	clock := &fakeClock{t: time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC), step: time.Second}
	return &fixture{
		db:    db,
		users: NewUserService(db, rm, hasher, WithClock(clock.Now)),
		preds: NewPredictionService(db, rm, WithClock(clock.Now)),
		clock: clock,
	}
}

func strptr(s string) *string { return &s }

func (f *fixture) countRows(t *testing.T, table string) int {
	t.Helper()
	var n int
	require.NoError(t, f.db.QueryRowContext(context.Background(), `SELECT COUNT(*) FROM `+table).Scan(&n))
	return n
}
