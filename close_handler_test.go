package phxsock

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNopCloseHandler(t *testing.T) {
	state, err := NopCloseHandler{}.HandleClose(errors.New("gone"), StateDisconnected)
	require.NoError(t, err)
	assert.Equal(t, StateDisconnected, state)
}

func TestCloseHandlerFunc(t *testing.T) {
	var gotReason error
	var gotState ConnectionState
	h := CloseHandlerFunc(func(reason error, state ConnectionState) (ConnectionState, error) {
		gotReason = reason
		gotState = state
		return StateConnecting, nil
	})

	reason := errors.New("connection reset")
	state, err := h.HandleClose(reason, StateDisconnected)
	require.NoError(t, err)
	assert.Equal(t, StateConnecting, state)
	assert.Same(t, reason, gotReason)
	assert.Equal(t, StateDisconnected, gotState)
}
