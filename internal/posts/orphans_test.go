package posts

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCleanOrphans(t *testing.T) {
	env := setupService(t)
	ctx := context.Background()

	createWithImages(t, env, 1) // front.png 和 g0.png 被引用
	storeFile(t, env, "orphan-old.png")
	storeFile(t, env, "orphan-new.png")

	old := time.Now().Add(-48 * time.Hour)
	require.NoError(t, os.Chtimes(filepath.Join(env.storage.BasePath(), "orphan-old.png"), old, old))
	require.NoError(t, os.Chtimes(filepath.Join(env.storage.BasePath(), "front.png"), old, old))

	report, err := env.svc.CleanOrphans(ctx, 24*time.Hour, true)
	require.NoError(t, err)
	assert.Equal(t, 4, report.Scanned)
	assert.Equal(t, []string{"orphan-old.png"}, report.Orphans)
	assert.Equal(t, 1, report.Skipped)
	assert.Equal(t, int64(len("data")), report.Bytes)
	assert.Zero(t, report.Deleted)

	exists, err := env.storage.Exists(ctx, "orphan-old.png")
	require.NoError(t, err)
	assert.True(t, exists, "dry run must not delete")

	report, err = env.svc.CleanOrphans(ctx, 24*time.Hour, false)
	require.NoError(t, err)
	assert.Equal(t, 1, report.Deleted)

	exists, err = env.storage.Exists(ctx, "orphan-old.png")
	require.NoError(t, err)
	assert.False(t, exists)

	exists, err = env.storage.Exists(ctx, "front.png")
	require.NoError(t, err)
	assert.True(t, exists, "referenced files are kept")
}
