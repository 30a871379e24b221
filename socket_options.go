package phxsock

import (
	"net/http"
	"time"
)

// socketOptions holds configuration for a Socket.
type socketOptions struct {
	reconnect         bool
	heartbeatInterval time.Duration
	reconnectInterval time.Duration
	params            map[string]string
	header            http.Header
	transport         Transport
	closeHandler      CloseHandler
	logger            Logger
}

// defaultOptions returns options with the protocol defaults.
func defaultOptions() *socketOptions {
	return &socketOptions{
		reconnect:         true,
		heartbeatInterval: 30 * time.Second,
		reconnectInterval: 60 * time.Second,
		closeHandler:      NopCloseHandler{},
		logger:            NewNoOpLogger(),
	}
}

// Option configures a Socket.
type Option func(*socketOptions)

// WithReconnect controls whether the socket schedules a new connection
// attempt after the connection drops. Enabled by default.
func WithReconnect(enabled bool) Option {
	return func(o *socketOptions) {
		o.reconnect = enabled
	}
}

// WithHeartbeatInterval sets the interval between heartbeat pushes while
// connected. Default 30s.
func WithHeartbeatInterval(d time.Duration) Option {
	return func(o *socketOptions) {
		if d > 0 {
			o.heartbeatInterval = d
		}
	}
}

// WithReconnectInterval sets the delay before a reconnection attempt after
// the connection drops. Default 60s.
func WithReconnectInterval(d time.Duration) Option {
	return func(o *socketOptions) {
		if d > 0 {
			o.reconnectInterval = d
		}
	}
}

// WithParams sets query parameters appended to the endpoint URL on every
// connection attempt. Multiple calls merge.
func WithParams(params map[string]string) Option {
	return func(o *socketOptions) {
		if o.params == nil {
			o.params = make(map[string]string, len(params))
		}
		for k, v := range params {
			o.params[k] = v
		}
	}
}

// WithHeaders sets HTTP headers sent with the transport handshake.
func WithHeaders(header http.Header) Option {
	return func(o *socketOptions) {
		o.header = header
	}
}

// WithTransport sets the transport used to open connections. Defaults to a
// WebsocketTransport with default settings.
func WithTransport(t Transport) Option {
	return func(o *socketOptions) {
		if t != nil {
			o.transport = t
		}
	}
}

// WithCloseHandler sets the close handler invoked after the connection
// drops. Defaults to NopCloseHandler.
func WithCloseHandler(h CloseHandler) Option {
	return func(o *socketOptions) {
		if h != nil {
			o.closeHandler = h
		}
	}
}

// WithLogger sets the logger for socket lifecycle events.
func WithLogger(logger Logger) Option {
	return func(o *socketOptions) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// applyOptions applies all options to the default options.
func applyOptions(opts ...Option) *socketOptions {
	options := defaultOptions()
	for _, opt := range opts {
		opt(options)
	}
	return options
}
