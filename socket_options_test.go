package phxsock

import (
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestSocketOptionsDefaults(t *testing.T) {
	opts := applyOptions()

	assert.True(t, opts.reconnect)
	assert.Equal(t, 30*time.Second, opts.heartbeatInterval)
	assert.Equal(t, 60*time.Second, opts.reconnectInterval)
	assert.Nil(t, opts.params)
	assert.Nil(t, opts.header)
	assert.Nil(t, opts.transport)
	assert.IsType(t, NopCloseHandler{}, opts.closeHandler)
	assert.IsType(t, &NoOpLogger{}, opts.logger)
}

func TestSocketOptionsOverrides(t *testing.T) {
	transport := newFakeTransport()
	handler := CloseHandlerFunc(func(_ error, state ConnectionState) (ConnectionState, error) {
		return state, nil
	})
	logger := NewStdLogger(nil, LogLevelError)
	header := http.Header{"X-Token": []string{"abc"}}

	opts := applyOptions(
		WithReconnect(false),
		WithHeartbeatInterval(5*time.Second),
		WithReconnectInterval(10*time.Second),
		WithParams(map[string]string{"vsn": "1.0.0"}),
		WithHeaders(header),
		WithTransport(transport),
		WithCloseHandler(handler),
		WithLogger(logger),
	)

	assert.False(t, opts.reconnect)
	assert.Equal(t, 5*time.Second, opts.heartbeatInterval)
	assert.Equal(t, 10*time.Second, opts.reconnectInterval)
	assert.Equal(t, map[string]string{"vsn": "1.0.0"}, opts.params)
	assert.Equal(t, header, opts.header)
	assert.Same(t, transport, opts.transport)
	assert.Same(t, logger, opts.logger)
}

func TestSocketOptionsGuards(t *testing.T) {
	opts := applyOptions(
		WithHeartbeatInterval(0),
		WithReconnectInterval(-time.Second),
		WithTransport(nil),
		WithCloseHandler(nil),
		WithLogger(nil),
	)

	assert.Equal(t, 30*time.Second, opts.heartbeatInterval)
	assert.Equal(t, 60*time.Second, opts.reconnectInterval)
	assert.Nil(t, opts.transport)
	assert.NotNil(t, opts.closeHandler)
	assert.NotNil(t, opts.logger)
}

func TestSocketOptionsParamsMerge(t *testing.T) {
	opts := applyOptions(
		WithParams(map[string]string{"token": "abc", "vsn": "1.0.0"}),
		WithParams(map[string]string{"token": "xyz"}),
	)

	assert.Equal(t, map[string]string{"token": "xyz", "vsn": "1.0.0"}, opts.params)
}
