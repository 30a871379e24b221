package phxsock

// CloseHandler customizes how a socket reacts after the connection drops.
// It runs on the socket loop after subscribers have been notified and the
// reconnect timer (if enabled) has been scheduled.
//
// The returned state is adopted by the socket, which lets a handler override
// the default transition to StateDisconnected. A non-nil error stops the
// socket: the run loop exits and all further operations return
// ErrSocketClosed.
type CloseHandler interface {
	HandleClose(reason error, state ConnectionState) (ConnectionState, error)
}

// NopCloseHandler is the default close handler. It keeps the state unchanged
// and never stops the socket.
type NopCloseHandler struct{}

// HandleClose returns the state unchanged.
func (NopCloseHandler) HandleClose(_ error, state ConnectionState) (ConnectionState, error) {
	return state, nil
}

// CloseHandlerFunc adapts a function to the CloseHandler interface.
type CloseHandlerFunc func(reason error, state ConnectionState) (ConnectionState, error)

// HandleClose calls f.
func (f CloseHandlerFunc) HandleClose(reason error, state ConnectionState) (ConnectionState, error) {
	return f(reason, state)
}
