package entity

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewUser_StartsInMainMenu(t *testing.T) {
	u := NewUser(1, 10)
	require.Equal(t, StateMainMenu, u.State)
	require.Equal(t, int64(1), u.ID)
	require.Equal(t, int64(10), u.ChatID)
	require.False(t, u.CanAsk())
}

func TestUser_CanAskOnlyWithResult(t *testing.T) {
	for _, state := range []UserState{StateMainMenu, StateAwaitingPhoto, StateProcessing} {
		u := NewUser(1, 10)
		u.SetState(state)
		require.False(t, u.CanAsk(), state)
	}

	u := NewUser(1, 10)
	u.SetState(StateAwaitingQuestion)
	require.True(t, u.CanAsk())
}
