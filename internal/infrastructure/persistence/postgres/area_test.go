package postgres

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nuemind/student-profile/internal/domain/shared"
	"github.com/nuemind/student-profile/internal/domain/storage"
)

func newTestConnection(t *testing.T) *Connection {
	t.Helper()

	url := os.Getenv("PROFILE_TEST_DATABASE_URL")
	if url == "" {
		t.Skip("PROFILE_TEST_DATABASE_URL not set")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	conn, err := NewConnectionFromURL(ctx, url, DefaultConfig())
	require.NoError(t, err)
	t.Cleanup(conn.Close)

	_, err = NewMigrator(conn).Migrate(ctx)
	require.NoError(t, err)

	_, err = conn.Exec(ctx, "DELETE FROM kv_entries")
	require.NoError(t, err)

	return conn
}

func TestArea_Postgres(t *testing.T) {
	conn := newTestConnection(t)
	ctx := context.Background()

	session := NewArea(conn, storage.AreaSession)
	local := NewArea(conn, storage.AreaLocal)

	_, ok, err := session.Get(ctx, storage.KeyStudentID)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, session.Set(ctx, storage.KeyStudentID, "S1"))
	require.NoError(t, session.Set(ctx, storage.KeyStudentID, "S2"))
	require.NoError(t, local.Set(ctx, storage.KeyStudentID, "L1"))

	v, ok, err := session.Get(ctx, storage.KeyStudentID)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "S2", v)

	v, _, err = local.Get(ctx, storage.KeyStudentID)
	require.NoError(t, err)
	assert.Equal(t, "L1", v)

	require.NoError(t, session.Delete(ctx, storage.KeyStudentID))
	_, ok, err = session.Get(ctx, storage.KeyStudentID)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestMigrator_Status(t *testing.T) {
	conn := newTestConnection(t)

	status, err := NewMigrator(conn).Status(context.Background())
	require.NoError(t, err)
	require.Len(t, status, 1)
	assert.True(t, status[0].IsApplied)
	assert.Equal(t, "create_kv_entries", status[0].Name)
}

func TestArea_EmptyKey(t *testing.T) {
	area := NewArea(nil, storage.AreaLocal)
	ctx := context.Background()

	_, _, err := area.Get(ctx, "")
	assert.ErrorIs(t, err, shared.ErrStorageKeyEmpty)
	assert.ErrorIs(t, area.Set(ctx, "", "v"), shared.ErrStorageKeyEmpty)
	assert.ErrorIs(t, area.Delete(ctx, ""), shared.ErrStorageKeyEmpty)
}

func TestGetMigrations(t *testing.T) {
	migs := GetMigrations()
	require.NotEmpty(t, migs)
	for i, m := range migs {
		assert.Equal(t, i+1, m.Version)
		assert.NotEmpty(t, m.UpSQL)
		assert.NotEmpty(t, m.DownSQL)
	}
}
