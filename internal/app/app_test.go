package app

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/dmitrijs2005/drscreen/internal/config"
	"github.com/dmitrijs2005/drscreen/internal/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	dir := t.TempDir()

	c := &config.Config{}
	c.LoadDefaults()
	c.DatabaseDSN = filepath.Join(dir, "data", "drscreen.db")
	c.UploadDir = filepath.Join(dir, "uploads")
	c.ModelPath = filepath.Join(dir, "model", "model.pb")
	c.RemediesPath = filepath.Join(dir, "remedies.json")
	c.ModelSeed = 11
	return c
}

func TestNewApp_CreatesArtifacts(t *testing.T) {
	ctx := context.Background()
	c := testConfig(t)
	var logs bytes.Buffer

	app, err := NewApp(ctx, c, logging.New(&logs, "debug"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = app.Close() })

	for _, p := range []string{c.DatabaseDSN, c.ModelPath, c.RemediesPath} {
		_, err := os.Stat(p)
		assert.NoError(t, err, p)
	}
	assert.Contains(t, logs.String(), "placeholder model")
	assert.Contains(t, logs.String(), "sessions are valid for this run only")

	require.NoError(t, app.Close())

	logs.Reset()
	c.SecretKey = "fixed"
	again, err := NewApp(ctx, c, logging.New(&logs, "debug"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = again.Close() })
	assert.NotContains(t, logs.String(), "placeholder model")
	assert.NotContains(t, logs.String(), "sessions are valid")
}

func TestNewApp_SeedAdmin(t *testing.T) {
	ctx := context.Background()
	c := testConfig(t)
	c.SeedAdmin = true

	app, err := NewApp(ctx, c, logging.Discard())
	require.NoError(t, err)
	t.Cleanup(func() { _ = app.Close() })

	s, err := app.controller.Login(ctx, AdminUsername, AdminPassword)
	require.NoError(t, err)
	u, err := app.controller.Profile(ctx, s.UserID)
	require.NoError(t, err)
	assert.Equal(t, AdminEmail, u.Email)
	require.NotNil(t, u.FullName)
	assert.Equal(t, AdminFullName, *u.FullName)
}

func TestNewApp_Errors(t *testing.T) {
	ctx := context.Background()

	c := testConfig(t)
	c.PasswordScheme = "md5"
	_, err := NewApp(ctx, c, logging.Discard())
	require.Error(t, err)

	c = testConfig(t)
	c.StorageBackend = "ftp"
	_, err = NewApp(ctx, c, logging.Discard())
	require.ErrorContains(t, err, "image storage init error")

	c = testConfig(t)
	require.NoError(t, os.MkdirAll(filepath.Dir(c.ModelPath), 0o755))
	require.NoError(t, os.WriteFile(c.ModelPath, []byte{0xff, 0xff, 0xff}, 0o644))
	_, err = NewApp(ctx, c, logging.Discard())
	require.ErrorContains(t, err, "model init error")
}

func TestApp_Run(t *testing.T) {
	ctx := context.Background()
	c := testConfig(t)

	app, err := NewApp(ctx, c, logging.Discard())
	require.NoError(t, err)
	t.Cleanup(func() { _ = app.Close() })

	var out bytes.Buffer
	app.in = strings.NewReader("exit\n")
	app.out = &out
	app.Run(ctx)

	assert.Contains(t, out.String(), "Welcome to drscreen")
}
