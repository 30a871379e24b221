package phxsock

import (
	"fmt"
	"net/url"
	"strconv"
	"sync/atomic"
	"time"
)

// ConnectionState is the connection lifecycle state of a Socket.
type ConnectionState int32

const (
	// StateDisconnected means no live transport handle is held.
	StateDisconnected ConnectionState = iota
	// StateConnecting means a connection attempt is in flight.
	StateConnecting
	// StateConnected means the held handle has completed its handshake.
	StateConnected
)

// String returns the string representation of the connection state.
func (s ConnectionState) String() string {
	switch s {
	case StateDisconnected:
		return "disconnected"
	case StateConnecting:
		return "connecting"
	case StateConnected:
		return "connected"
	default:
		return "unknown"
	}
}

// flushInterval is the fixed pacing of the outbound queue drain: at most one
// queued push reaches the transport per interval.
const flushInterval = 100 * time.Millisecond

const mailboxSize = 128

// SocketStats is a snapshot of socket counters.
type SocketStats struct {
	// Pushes is the number of accepted push requests.
	Pushes uint64
	// FramesSent is the number of queued pushes handed to the transport.
	// Heartbeats are counted separately.
	FramesSent uint64
	// FramesReceived is the number of inbound frames routed to the registry.
	FramesReceived uint64
	// Heartbeats is the number of heartbeat pushes sent.
	Heartbeats uint64
	// ConnectAttempts is the number of transport opens.
	ConnectAttempts uint64
	// Disconnects is the number of processed close events.
	Disconnects uint64
}

// Socket multiplexes topic subscriptions over a single connection to a
// remote endpoint. It owns the connection lifecycle, the outbound queue, the
// heartbeat and reconnect timers, and the routing of inbound frames to
// subscribers.
//
// All state transitions run on a single internal goroutine; public
// operations are delivered to it as messages and processed one at a time in
// arrival order. Socket is safe for concurrent use.
type Socket struct {
	opts     *socketOptions
	endpoint string

	mailbox     chan any
	done        chan struct{}
	closed      atomic.Bool
	stateMirror atomic.Int32

	pushes          atomic.Uint64
	framesSent      atomic.Uint64
	framesReceived  atomic.Uint64
	heartbeats      atomic.Uint64
	connectAttempts atomic.Uint64
	disconnects     atomic.Uint64

	// Owned by the run loop. Never touched from other goroutines.
	state        ConnectionState
	handle       Handle
	refCounter   uint64
	queue        *pushQueue
	registry     *Registry
	flushPending bool
}

// Mailbox message types. Requests carry reply channels (buffered, never
// blocking the run loop); ticks and transport events carry the identity they
// were scheduled against so stale firings can be filtered.
type (
	pushRequest struct {
		topic   string
		event   string
		payload any
		reply   chan *Message
	}
	subscribeRequest struct {
		sub   Subscriber
		topic string
		reply chan struct{}
	}
	unsubscribeRequest struct {
		sub   Subscriber
		topic string
		reply chan struct{}
	}
	closeRequest struct{}

	connectTick   struct{}
	flushTick     struct{}
	heartbeatTick struct{ handle Handle }

	transportConnected struct{ handle Handle }
	transportReceived  struct {
		handle Handle
		msg    Message
	}
	transportClosed struct {
		handle Handle
		reason error
	}
)

// eventSink adapts the socket's mailbox to the TransportEvents contract
// without exposing the callbacks on the public API.
type eventSink struct {
	s *Socket
}

func (e eventSink) Connected(h Handle)             { e.s.post(transportConnected{handle: h}) }
func (e eventSink) Received(h Handle, msg Message) { e.s.post(transportReceived{handle: h, msg: msg}) }
func (e eventSink) Closed(h Handle, reason error)  { e.s.post(transportClosed{handle: h, reason: reason}) }

// NewSocket creates a socket for the endpoint URL and immediately schedules
// the first connection attempt. http and https schemes are rewritten to ws
// and wss; configured params are merged into the query string.
//
// The socket lives until Close is called or its close handler stops it.
func NewSocket(rawURL string, opts ...Option) (*Socket, error) {
	if rawURL == "" {
		return nil, ErrMissingURL
	}

	options := applyOptions(opts...)
	if options.transport == nil {
		options.transport = NewWebsocketTransport()
	}

	endpoint, err := buildEndpoint(rawURL, options.params)
	if err != nil {
		return nil, err
	}

	s := &Socket{
		opts:     options,
		endpoint: endpoint,
		mailbox:  make(chan any, mailboxSize),
		done:     make(chan struct{}),
		queue:    newPushQueue(),
		registry: NewRegistry(),
		state:    StateDisconnected,
	}

	go s.run()
	s.post(connectTick{})

	return s, nil
}

// buildEndpoint validates the base URL and appends the configured params.
func buildEndpoint(rawURL string, params map[string]string) (string, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", fmt.Errorf("invalid endpoint url: %w", err)
	}

	switch u.Scheme {
	case "ws", "wss":
	case "http":
		u.Scheme = "ws"
	case "https":
		u.Scheme = "wss"
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedScheme, u.Scheme)
	}

	if len(params) > 0 {
		q := u.Query()
		for k, v := range params {
			q.Set(k, v)
		}
		u.RawQuery = q.Encode()
	}

	return u.String(), nil
}

// Push accepts a message for delivery, assigns it the next ref, and queues
// it. The returned message acknowledges acceptance, not delivery: it is sent
// once the flush loop reaches it while connected. Push is accepted in any
// connection state.
func (s *Socket) Push(topic, event string, payload any) (*Message, error) {
	if s.closed.Load() {
		return nil, ErrSocketClosed
	}

	req := pushRequest{topic: topic, event: event, payload: payload, reply: make(chan *Message, 1)}
	s.post(req)

	select {
	case push := <-req.reply:
		return push, nil
	case <-s.done:
		return nil, ErrSocketClosed
	}
}

// Subscribe registers the subscriber for a topic. Idempotent: registering an
// already-registered pair is a no-op. Returns the subscriber unchanged.
func (s *Socket) Subscribe(sub Subscriber, topic string) Subscriber {
	req := subscribeRequest{sub: sub, topic: topic, reply: make(chan struct{}, 1)}
	s.post(req)
	select {
	case <-req.reply:
	case <-s.done:
	}
	return sub
}

// Unsubscribe removes the subscriber's registration for a topic. Idempotent
// if absent. Returns the subscriber unchanged.
func (s *Socket) Unsubscribe(sub Subscriber, topic string) Subscriber {
	req := unsubscribeRequest{sub: sub, topic: topic, reply: make(chan struct{}, 1)}
	s.post(req)
	select {
	case <-req.reply:
	case <-s.done:
	}
	return sub
}

// Close shuts the socket down: the run loop exits, the live handle (if any)
// is closed, and all further operations return ErrSocketClosed. Idempotent.
func (s *Socket) Close() error {
	if s.closed.Swap(true) {
		<-s.done
		return nil
	}
	s.post(closeRequest{})
	<-s.done
	return nil
}

// ConnectionState returns the current connection state.
func (s *Socket) ConnectionState() ConnectionState {
	return ConnectionState(s.stateMirror.Load())
}

// IsConnected returns true while a live, handshaken connection is held.
func (s *Socket) IsConnected() bool {
	return s.ConnectionState() == StateConnected && !s.closed.Load()
}

// Stats returns a snapshot of the socket counters.
func (s *Socket) Stats() SocketStats {
	return SocketStats{
		Pushes:          s.pushes.Load(),
		FramesSent:      s.framesSent.Load(),
		FramesReceived:  s.framesReceived.Load(),
		Heartbeats:      s.heartbeats.Load(),
		ConnectAttempts: s.connectAttempts.Load(),
		Disconnects:     s.disconnects.Load(),
	}
}

// post delivers a message to the run loop, dropping it if the socket has
// already stopped.
func (s *Socket) post(msg any) {
	select {
	case s.mailbox <- msg:
	case <-s.done:
	}
}

// scheduleAfter posts msg to the mailbox after d. There is no cancellation:
// stale firings are filtered by state and handle identity when dispatched.
func (s *Socket) scheduleAfter(d time.Duration, msg any) {
	time.AfterFunc(d, func() { s.post(msg) })
}

func (s *Socket) run() {
	defer close(s.done)
	for msg := range s.mailbox {
		if stop := s.dispatch(msg); stop {
			return
		}
	}
}

// dispatch processes one mailbox message. Returns true to stop the run loop.
func (s *Socket) dispatch(msg any) bool {
	switch m := msg.(type) {
	case pushRequest:
		s.handlePush(m)
	case subscribeRequest:
		if s.registry.Upsert(m.sub, m.topic) {
			s.opts.logger.Debug("subscribed", LogFields{LogFieldTopic: m.topic})
		}
		m.reply <- struct{}{}
	case unsubscribeRequest:
		if s.registry.Remove(m.sub, m.topic) {
			s.opts.logger.Debug("unsubscribed", LogFields{LogFieldTopic: m.topic})
		}
		m.reply <- struct{}{}
	case connectTick:
		s.handleConnect()
	case flushTick:
		s.flushPending = false
		s.flush()
	case heartbeatTick:
		s.handleHeartbeat(m)
	case transportConnected:
		s.handleConnected(m)
	case transportReceived:
		s.handleReceived(m)
	case transportClosed:
		return s.handleClosed(m)
	case closeRequest:
		s.shutdown()
		return true
	}
	return false
}

func (s *Socket) setState(state ConnectionState) {
	if s.state == state {
		return
	}
	s.opts.logger.Info("state changed", LogFields{LogFieldState: state})
	s.state = state
	s.stateMirror.Store(int32(state))
}

func (s *Socket) nextRef() string {
	s.refCounter++
	return strconv.FormatUint(s.refCounter, 10)
}

// handleConnect starts a connection attempt. A tick arriving while not
// disconnected (e.g. a redundant reconnect timer) is a benign no-op.
func (s *Socket) handleConnect() {
	if s.state != StateDisconnected {
		return
	}

	s.opts.logger.Info("connecting", LogFields{LogFieldURL: s.endpoint})
	s.connectAttempts.Add(1)
	s.handle = s.opts.transport.Open(s.endpoint, s.opts.header, eventSink{s: s})
	s.setState(StateConnecting)
}

// handleConnected promotes the socket to connected and starts the heartbeat
// cycle. Events for a handle other than the one currently held are ignored.
func (s *Socket) handleConnected(ev transportConnected) {
	if s.state != StateConnecting || ev.handle != s.handle {
		s.opts.logger.Debug("ignoring stale connected event", nil)
		return
	}

	s.setState(StateConnected)
	s.scheduleAfter(s.opts.heartbeatInterval, heartbeatTick{handle: s.handle})
}

// handleHeartbeat sends a keepalive push directly to the transport,
// bypassing the queue, and reschedules itself. A tick for a replaced handle
// or delivered while not connected does not reschedule; the cycle restarts
// with the next connected event.
func (s *Socket) handleHeartbeat(ev heartbeatTick) {
	if s.state != StateConnected || ev.handle != s.handle {
		return
	}

	hb := Message{
		Topic:   TopicPhoenix,
		Event:   EventHeartbeat,
		Payload: map[string]any{},
		Ref:     s.nextRef(),
	}
	if err := s.handle.Send(hb); err != nil {
		s.opts.logger.Warn("heartbeat send failed", LogFields{LogFieldError: err})
	} else {
		s.heartbeats.Add(1)
	}

	s.scheduleAfter(s.opts.heartbeatInterval, heartbeatTick{handle: s.handle})
}

// handleReceived routes an inbound frame to every subscriber registered for
// its topic.
func (s *Socket) handleReceived(ev transportReceived) {
	if ev.handle != s.handle {
		s.opts.logger.Debug("ignoring frame from stale handle", nil)
		return
	}

	s.framesReceived.Add(1)
	s.opts.logger.Debug("frame received", LogFields{
		LogFieldTopic: ev.msg.Topic,
		LogFieldEvent: ev.msg.Event,
		LogFieldRef:   ev.msg.Ref,
	})

	for _, sub := range s.registry.Matching(ev.msg.Topic) {
		sub.HandleMessage(ev.msg)
	}
}

// handleClosed processes the loss of the held connection: every subscriber
// gets a synthetic phx_error event, a reconnect is scheduled if enabled, and
// the close handler decides the final state. Returns true if the handler
// stopped the socket.
func (s *Socket) handleClosed(ev transportClosed) bool {
	if ev.handle != s.handle {
		s.opts.logger.Debug("ignoring closed event from stale handle", nil)
		return false
	}

	s.opts.logger.Info("connection closed", LogFields{
		LogFieldError:  ev.reason,
		LogFieldQueued: s.queue.Len(),
	})
	s.handle = nil
	s.disconnects.Add(1)

	s.registry.Each(func(sub Subscriber, topic string) {
		sub.HandleMessage(Message{
			Topic:   topic,
			Event:   EventError,
			Payload: ev.reason,
		})
	})

	if s.opts.reconnect {
		s.scheduleAfter(s.opts.reconnectInterval, connectTick{})
	}
	s.setState(StateDisconnected)

	state, err := s.opts.closeHandler.HandleClose(ev.reason, s.state)
	if err != nil {
		s.opts.logger.Error("close handler stopped socket", LogFields{LogFieldError: err})
		s.closed.Store(true)
		s.shutdown()
		return true
	}
	s.setState(state)
	return false
}

// handlePush assigns the next ref, queues the push, and kicks the flush
// chain if it is idle.
func (s *Socket) handlePush(req pushRequest) {
	push := &Message{
		Topic:   req.topic,
		Event:   req.event,
		Payload: req.payload,
		Ref:     s.nextRef(),
	}
	s.queue.Enqueue(push)
	s.pushes.Add(1)

	s.opts.logger.Debug("push queued", LogFields{
		LogFieldTopic:  push.Topic,
		LogFieldEvent:  push.Event,
		LogFieldRef:    push.Ref,
		LogFieldQueued: s.queue.Len(),
	})

	if !s.flushPending {
		s.flush()
	}

	req.reply <- push
}

// flush performs one flush attempt. While connected it sends at most one
// queued push and keeps the 100ms drain chain alive until the queue is found
// empty; while not connected it reschedules unconditionally so the chain
// survives until the connection returns. A close handler may adopt
// StateConnected without a live handle; that counts as not connected here.
func (s *Socket) flush() {
	if s.state != StateConnected || s.handle == nil {
		s.flushPending = true
		s.scheduleAfter(flushInterval, flushTick{})
		return
	}

	push, ok := s.queue.Dequeue()
	if !ok {
		// Chain goes idle; the next push wakes it.
		return
	}

	if err := s.handle.Send(*push); err != nil {
		// The push stays at the head of the queue; the chain retries it
		// until the send succeeds or the connection is replaced.
		s.queue.Requeue(push)
		s.opts.logger.Warn("send failed, push requeued", LogFields{
			LogFieldTopic: push.Topic,
			LogFieldRef:   push.Ref,
			LogFieldError: err,
		})
	} else {
		s.framesSent.Add(1)
	}

	s.flushPending = true
	s.scheduleAfter(flushInterval, flushTick{})
}

// shutdown releases the held handle on the way out of the run loop.
func (s *Socket) shutdown() {
	if s.handle != nil {
		s.handle.Close()
		s.handle = nil
	}
	s.setState(StateDisconnected)
	s.opts.logger.Info("socket closed", nil)
}
