package uploads

import (
	"context"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"

	"github.com/dmitrijs2005/drscreen/internal/common"
	"github.com/dmitrijs2005/drscreen/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var uuidName = regexp.MustCompile(`^[0-9a-f]{8}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{12}`)

func TestNewName(t *testing.T) {
	a := NewName("Fundus.PNG")
	b := NewName("Fundus.PNG")

	assert.NotEqual(t, a, b)
	assert.True(t, strings.HasSuffix(a, ".png"))
	assert.Regexp(t, uuidName, a)
	assert.Regexp(t, regexp.MustCompile(`^[0-9a-f-]{36}$`), NewName("noext"))
}

func TestLocalStore_SaveRemove(t *testing.T) {
	ctx := context.Background()
	dir := filepath.Join(t.TempDir(), "uploads")
	s := NewLocalStore(dir)

	path, err := s.Save(ctx, []byte("img"), "eye.JPG")
	require.NoError(t, err)
	assert.Equal(t, dir, filepath.Dir(path))
	assert.True(t, strings.HasSuffix(path, ".jpg"))

	b, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, []byte("img"), b)

	url, err := s.URL(ctx, path)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(url, "file://"))

	require.NoError(t, s.Remove(ctx, path))
	_, err = os.Stat(path)
	assert.True(t, os.IsNotExist(err))

	assert.NoError(t, s.Remove(ctx, path), "removing twice is fine")
}

func TestLocalStore_SaveFailure(t *testing.T) {
	// A regular file where the directory should be.
	blocker := filepath.Join(t.TempDir(), "uploads")
	require.NoError(t, os.WriteFile(blocker, nil, 0o644))

	_, err := NewLocalStore(blocker).Save(context.Background(), []byte("img"), "a.png")
	assert.ErrorIs(t, err, common.ErrorStorage)
}

func TestNew_SelectsBackend(t *testing.T) {
	ctx := context.Background()
	cfg := &config.Config{}
	cfg.LoadDefaults()
	cfg.UploadDir = t.TempDir()

	s, err := New(ctx, cfg)
	require.NoError(t, err)
	assert.IsType(t, &LocalStore{}, s)

	cfg.StorageBackend = config.StorageS3
	s, err = New(ctx, cfg)
	require.NoError(t, err)
	assert.IsType(t, &S3Store{}, s)

	cfg.StorageBackend = "ftp"
	_, err = New(ctx, cfg)
	assert.Error(t, err)
}
