// Package phxsock implements the client side of a Phoenix-style channel
// protocol: many topic subscriptions multiplexed over one persistent
// websocket connection, with heartbeats, reconnection, and outbound pacing
// layered on top of the unreliable transport.
//
// # Features
//
//   - Single-connection socket controller with a serialized state machine
//   - Topic-based routing of inbound frames to registered subscribers
//   - FIFO outbound queue drained at one push per 100ms while connected
//   - Heartbeat keepalive and automatic reconnection
//   - Pluggable transport, close handler, and logger
//   - Websocket transport with TLS, proxy, and send rate limit support
//
// # Socket
//
// Create a socket and push messages; the socket connects in the background
// and drains the queue once the connection is up:
//
//	sock, err := phxsock.NewSocket("wss://example.com/socket/websocket",
//	    phxsock.WithParams(map[string]string{"token": token}),
//	    phxsock.WithHeartbeatInterval(30*time.Second),
//	)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer sock.Close()
//
//	push, err := sock.Push("room:lobby", "new_msg", map[string]any{"text": "hi"})
//
// # Subscriptions
//
// Subscribers receive every inbound frame for their topic, and a synthetic
// phx_error event when the connection drops:
//
//	sub := phxsock.SubscriberFunc(func(msg phxsock.Message) {
//	    if msg.Event == phxsock.EventError {
//	        // connection lost
//	        return
//	    }
//	    fmt.Println(msg.Event, msg.Payload)
//	})
//	sock.Subscribe(sub, "room:lobby")
//
// HandleMessage runs on the socket's internal goroutine; hand messages off
// to your own goroutine if handling them blocks.
//
// # Transport
//
// The default transport is a websocket carrying JSON frames. It can be
// configured or replaced:
//
//	transport := phxsock.NewWebsocketTransport(
//	    phxsock.WithDialTimeout(5*time.Second),
//	    phxsock.WithSendRateLimit(rate.Every(50*time.Millisecond), 1),
//	    phxsock.WithProxy(phxsock.ProxyConfig{URL: "socks5://127.0.0.1:1080"}),
//	)
//	sock, err := phxsock.NewSocket(url, phxsock.WithTransport(transport))
//
// Any Transport implementation works as long as every opened handle
// eventually reports Connected or Closed.
package phxsock
