package persistence

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dhruvladia/career-coach-ai/types"
	"github.com/dhruvladia/career-coach-ai/workflow"
)

func newRedisStateStore(t *testing.T) *RedisStateStore {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return NewRedisStateStoreWithClient(client, "coach:")
}

func TestStateStores_RoundTrip(t *testing.T) {
	stores := map[string]workflow.StateStore{
		"memory": NewMemoryStateStore(),
		"redis":  newRedisStateStore(t),
	}

	for name, store := range stores {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()

			_, err := store.Load(ctx, "missing")
			require.Error(t, err)
			assert.True(t, types.IsCode(err, types.ErrNotFound))

			st := workflow.NewState("session-1", &types.UserProfile{SessionID: "session-1", Skills: []string{"Go"}})
			st.BeginTurn("I learned Rust")
			st.RoutingPlan = []string{"profile_updater", "career_path"}
			st.ConsumeLabel("profile_updater")
			st.RequestConfirmation("profile_updater", "profile_update", "Add Rust to your profile?", []byte(`{"skill":"Rust"}`))
			st.Phase = workflow.PhaseAwaitingInput

			require.NoError(t, store.Save(ctx, "session-1", st))

			loaded, err := store.Load(ctx, "session-1")
			require.NoError(t, err)

			assert.Equal(t, workflow.PhaseAwaitingInput, loaded.Phase)
			assert.True(t, loaded.RequiresHumanInput)
			require.NotNil(t, loaded.Pending)
			assert.Equal(t, "Add Rust to your profile?", loaded.Pending.Prompt)
			assert.Equal(t, []string{"profile_updater", "career_path"}, loaded.RoutingPlan)
			assert.Equal(t, []string{"career_path"}, loaded.PendingLabels())
			assert.NoError(t, loaded.Validate())

			// Save is an overwrite, not a merge.
			st.Phase = workflow.PhaseCompleted
			st.ClearHumanInput()
			require.NoError(t, store.Save(ctx, "session-1", st))
			loaded, err = store.Load(ctx, "session-1")
			require.NoError(t, err)
			assert.Equal(t, workflow.PhaseCompleted, loaded.Phase)
			assert.Nil(t, loaded.Pending)
		})
	}
}

func TestMemoryStateStore_Isolation(t *testing.T) {
	store := NewMemoryStateStore()
	ctx := context.Background()

	st := workflow.NewState("s", nil)
	st.BeginTurn("hello")
	require.NoError(t, store.Save(ctx, "s", st))

	// Mutating the caller's copy must not leak into the store.
	st.AppendAssistant("career_path", "draft")
	loaded, err := store.Load(ctx, "s")
	require.NoError(t, err)
	assert.Len(t, loaded.History, 1)

	// And mutating a loaded copy must not either.
	loaded.AppendAssistant("career_path", "other draft")
	again, err := store.Load(ctx, "s")
	require.NoError(t, err)
	assert.Len(t, again.History, 1)
}

func TestStateStore_Delete(t *testing.T) {
	stores := map[string]interface {
		workflow.StateStore
		Delete(ctx context.Context, sessionID string) error
	}{
		"memory": NewMemoryStateStore(),
		"redis":  newRedisStateStore(t),
	}

	for name, store := range stores {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			st := workflow.NewState("s", nil)
			require.NoError(t, store.Save(ctx, "s", st))
			require.NoError(t, store.Delete(ctx, "s"))
			_, err := store.Load(ctx, "s")
			assert.True(t, types.IsCode(err, types.ErrNotFound))
		})
	}
}
