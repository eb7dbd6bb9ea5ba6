package persistence

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dhruvladia/career-coach-ai/types"
)

func TestHistoryStores(t *testing.T) {
	sqliteStore, err := NewSQLiteHistoryStore(filepath.Join(t.TempDir(), "history.db"))
	require.NoError(t, err)
	t.Cleanup(func() { sqliteStore.Close() })

	stores := map[string]HistoryStore{
		"memory": NewMemoryHistoryStore(),
		"sqlite": sqliteStore,
	}

	for name, store := range stores {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()

			got, err := store.Recent(ctx, "empty", 10)
			require.NoError(t, err)
			assert.Empty(t, got)

			require.NoError(t, store.Append(ctx, "session-1", []types.ChatEntry{
				{Role: types.RoleUser, Content: "I learned Rust"},
				{Role: types.RoleAssistant, Content: "Add Rust to your profile?", Stage: "profile_updater"},
			}))
			require.NoError(t, store.Append(ctx, "session-1", []types.ChatEntry{
				{Role: types.RoleUser, Content: "yes"},
				{Role: types.RoleAssistant, Content: "Profile updated!", Stage: "profile_updater"},
			}))
			require.NoError(t, store.Append(ctx, "session-2", []types.ChatEntry{
				{Role: types.RoleUser, Content: "unrelated session"},
			}))

			got, err = store.Recent(ctx, "session-1", 0)
			require.NoError(t, err)
			require.Len(t, got, 4, "sessions are isolated")
			assert.Equal(t, "I learned Rust", got[0].Content)
			assert.Equal(t, "Profile updated!", got[3].Content)
			assert.Equal(t, "profile_updater", got[3].Stage)

			got, err = store.Recent(ctx, "session-1", 2)
			require.NoError(t, err)
			require.Len(t, got, 2)
			assert.Equal(t, "yes", got[0].Content, "limit keeps the newest entries, oldest first")
			assert.Equal(t, "Profile updated!", got[1].Content)
		})
	}
}
