package phxsock

import "errors"

// Sentinel errors - check with errors.Is().
var (
	// ErrSocketClosed is returned by operations on a socket that has been
	// closed or stopped by its close handler.
	ErrSocketClosed = errors.New("socket closed")

	// ErrMissingURL is returned by NewSocket when no endpoint URL is given.
	ErrMissingURL = errors.New("no endpoint url configured")

	// ErrUnsupportedScheme is returned for endpoint URLs that are not
	// ws, wss, http, or https.
	ErrUnsupportedScheme = errors.New("unsupported url scheme")

	// ErrHandleClosed is returned when sending on a transport handle that
	// has already been closed.
	ErrHandleClosed = errors.New("transport handle closed")

	// ErrMalformedFrame is returned when an inbound wire frame cannot be
	// decoded. The websocket transport drops such frames.
	ErrMalformedFrame = errors.New("malformed frame")

	// ErrUnsupportedProxyScheme is returned for proxy URLs that are not
	// http, https, or socks5.
	ErrUnsupportedProxyScheme = errors.New("unsupported proxy scheme")
)
