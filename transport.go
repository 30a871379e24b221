package phxsock

import "net/http"

// Handle represents one physical connection attempt. A handle is live from
// Open until its Closed event; the socket compares handles by identity to
// filter events from connection attempts it has already abandoned.
type Handle interface {
	// Send writes a message to the wire. Fire-and-forget: delivery is not
	// acknowledged and failures surface as a later Closed event.
	Send(msg Message) error

	// Close tears the connection down. Closing an already-closed handle is
	// a no-op.
	Close() error
}

// TransportEvents receives lifecycle notifications from a transport. All
// callbacks are asynchronous with respect to Open and may be invoked from
// transport-owned goroutines.
type TransportEvents interface {
	// Connected reports that the handle completed its handshake.
	Connected(h Handle)

	// Received delivers a decoded inbound frame.
	Received(h Handle, msg Message)

	// Closed reports that the handle is gone, including handles whose
	// connection attempt never succeeded. Emitted at most once per handle;
	// every opened handle eventually produces either Connected or Closed.
	Closed(h Handle, reason error)
}

// Transport opens physical connections to the remote endpoint. Open must
// return without blocking on the network; success or failure is reported
// through the events sink.
type Transport interface {
	Open(endpoint string, header http.Header, events TransportEvents) Handle
}
