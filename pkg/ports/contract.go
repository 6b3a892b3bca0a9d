package ports

import (
	"context"
	"testing"
	"time"

	"github.com/aretw0/anamnesis/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// RunSessionStoreContract runs a suite of tests to verify that a SessionStore
// implementation adheres to the interface contract.
func RunSessionStoreContract(t *testing.T, store SessionStore) {
	ctx := context.Background()
	sessionID := "contract-test-session-" + time.Now().Format("20060102150405")

	t.Run("Save and Load", func(t *testing.T) {
		state := domain.NewState(sessionID, []string{"perfil_tipo", "flacidez_facial", "manchas"})
		state.CurrentIndex = 1
		state.Answers["perfil_tipo"] = "Clínica"
		state.Scores["hipro"] = 10.5
		state.Eliminated["laser_co2"] = true
		state.History = append(state.History, "perfil_tipo")

		err := store.Save(ctx, sessionID, state)
		require.NoError(t, err, "Save should not return error")

		loaded, err := store.Load(ctx, sessionID)
		require.NoError(t, err, "Load should not return error")
		assert.Equal(t, state.Sequence, loaded.Sequence)
		assert.Equal(t, 1, loaded.CurrentIndex)
		assert.Equal(t, "Clínica", loaded.Answers["perfil_tipo"])
		assert.Equal(t, 10.5, loaded.Scores["hipro"])
		assert.True(t, loaded.Eliminated["laser_co2"])
		assert.Equal(t, []string{"perfil_tipo"}, loaded.History)
		assert.False(t, loaded.Completed)
	})

	t.Run("Loaded State Is Isolated", func(t *testing.T) {
		loaded, err := store.Load(ctx, sessionID)
		require.NoError(t, err)
		loaded.Answers["perfil_tipo"] = "mutated"

		again, err := store.Load(ctx, sessionID)
		require.NoError(t, err)
		assert.Equal(t, "Clínica", again.Answers["perfil_tipo"])
	})

	t.Run("Load Non-Existent", func(t *testing.T) {
		_, err := store.Load(ctx, "non-existent-"+sessionID)
		assert.ErrorIs(t, err, domain.ErrSessionNotFound)
	})

	t.Run("Delete", func(t *testing.T) {
		err := store.Save(ctx, sessionID, domain.NewState(sessionID, []string{"a"}))
		require.NoError(t, err)

		err = store.Delete(ctx, sessionID)
		require.NoError(t, err, "Delete should not return error")

		_, err = store.Load(ctx, sessionID)
		assert.ErrorIs(t, err, domain.ErrSessionNotFound, "Load after Delete should return ErrSessionNotFound")
	})

	t.Run("List", func(t *testing.T) {
		id1 := sessionID + "-1"
		id2 := sessionID + "-2"
		_ = store.Save(ctx, id1, domain.NewState(id1, []string{"a"}))
		_ = store.Save(ctx, id2, domain.NewState(id2, []string{"a"}))

		defer func() {
			_ = store.Delete(ctx, id1)
			_ = store.Delete(ctx, id2)
		}()

		sessions, err := store.List(ctx)
		require.NoError(t, err)
		assert.Contains(t, sessions, id1)
		assert.Contains(t, sessions, id2)
	})
}
