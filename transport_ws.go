package phxsock

import (
	"context"
	"crypto/tls"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"golang.org/x/time/rate"
)

const defaultSendBuffer = 64

// WebsocketTransport opens connections over websocket and exchanges frames
// as JSON text messages. It is the default transport of NewSocket.
type WebsocketTransport struct {
	opts *websocketOptions
}

type websocketOptions struct {
	dialTimeout time.Duration
	tlsConfig   *tls.Config
	proxy       *ProxyConfig
	logger      Logger
	sendLimit   rate.Limit
	sendBurst   int
	sendBuffer  int
}

// WebsocketOption configures a WebsocketTransport.
type WebsocketOption func(*websocketOptions)

// WithDialTimeout sets the handshake timeout for connection attempts.
func WithDialTimeout(d time.Duration) WebsocketOption {
	return func(o *websocketOptions) {
		o.dialTimeout = d
	}
}

// WithTLSConfig sets the TLS configuration for wss endpoints.
func WithTLSConfig(config *tls.Config) WebsocketOption {
	return func(o *websocketOptions) {
		o.tlsConfig = config
	}
}

// WithProxy routes connection attempts through an HTTP CONNECT or SOCKS5
// proxy.
func WithProxy(cfg ProxyConfig) WebsocketOption {
	return func(o *websocketOptions) {
		o.proxy = &cfg
	}
}

// WithSendRateLimit caps the outbound frame rate on the wire. This is a
// transport-level limit on top of the socket's flush pacing; heartbeats are
// subject to it as well. Zero limit means unlimited.
func WithSendRateLimit(limit rate.Limit, burst int) WebsocketOption {
	return func(o *websocketOptions) {
		o.sendLimit = limit
		o.sendBurst = burst
	}
}

// WithTransportLogger sets the logger used by the transport.
func WithTransportLogger(logger Logger) WebsocketOption {
	return func(o *websocketOptions) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// NewWebsocketTransport creates a websocket transport.
func NewWebsocketTransport(opts ...WebsocketOption) *WebsocketTransport {
	options := &websocketOptions{
		dialTimeout: 10 * time.Second,
		logger:      NewNoOpLogger(),
		sendBuffer:  defaultSendBuffer,
	}
	for _, opt := range opts {
		opt(options)
	}
	return &WebsocketTransport{opts: options}
}

// Open starts a connection attempt to the endpoint. It returns immediately;
// the outcome is reported through events. A handle whose dial fails emits
// exactly one Closed event.
func (t *WebsocketTransport) Open(endpoint string, header http.Header, events TransportEvents) Handle {
	h := newWSHandle(t.opts, events)
	go h.connect(endpoint, header)
	return h
}

// wsHandle is one websocket connection attempt.
type wsHandle struct {
	opts    *websocketOptions
	events  TransportEvents
	limiter *rate.Limiter
	sendCh  chan Message

	ctx    context.Context
	cancel context.CancelFunc
	once   sync.Once

	mu   sync.Mutex
	conn *websocket.Conn
}

func newWSHandle(opts *websocketOptions, events TransportEvents) *wsHandle {
	ctx, cancel := context.WithCancel(context.Background())
	h := &wsHandle{
		opts:   opts,
		events: events,
		sendCh: make(chan Message, opts.sendBuffer),
		ctx:    ctx,
		cancel: cancel,
	}
	if opts.sendLimit > 0 {
		burst := opts.sendBurst
		if burst < 1 {
			burst = 1
		}
		h.limiter = rate.NewLimiter(opts.sendLimit, burst)
	}
	return h
}

func (h *wsHandle) connect(endpoint string, header http.Header) {
	dialer := &websocket.Dialer{
		HandshakeTimeout: h.opts.dialTimeout,
		TLSClientConfig:  h.opts.tlsConfig,
	}

	if h.opts.proxy != nil {
		pd, err := newProxyDialer(*h.opts.proxy)
		if err != nil {
			h.shutdown(err)
			return
		}
		dialer.NetDialContext = pd.DialContext
	}

	conn, _, err := dialer.DialContext(h.ctx, endpoint, header)
	if err != nil {
		h.shutdown(fmt.Errorf("dial %s: %w", endpoint, err))
		return
	}

	h.mu.Lock()
	if h.ctx.Err() != nil {
		// Closed while the dial was in flight.
		h.mu.Unlock()
		conn.Close()
		return
	}
	h.conn = conn
	h.mu.Unlock()

	h.opts.logger.Info("websocket connected", LogFields{LogFieldURL: endpoint})
	h.events.Connected(h)

	go h.writePump()
	h.readPump()
}

func (h *wsHandle) readPump() {
	for {
		_, data, err := h.conn.ReadMessage()
		if err != nil {
			h.shutdown(err)
			return
		}

		msg, err := DecodeMessage(data)
		if err != nil {
			// Fail closed: drop the frame, keep the connection.
			h.opts.logger.Warn("dropping malformed frame", LogFields{LogFieldError: err})
			continue
		}

		h.events.Received(h, msg)
	}
}

func (h *wsHandle) writePump() {
	for {
		select {
		case <-h.ctx.Done():
			return
		case msg := <-h.sendCh:
			if h.limiter != nil {
				if err := h.limiter.Wait(h.ctx); err != nil {
					return
				}
			}

			data, err := msg.Encode()
			if err != nil {
				h.opts.logger.Warn("dropping unencodable message", LogFields{
					LogFieldTopic: msg.Topic,
					LogFieldEvent: msg.Event,
					LogFieldError: err,
				})
				continue
			}

			if err := h.conn.WriteMessage(websocket.TextMessage, data); err != nil {
				h.shutdown(err)
				return
			}
		}
	}
}

// Send queues a message for transmission by the write pump.
func (h *wsHandle) Send(msg Message) error {
	if h.ctx.Err() != nil {
		return ErrHandleClosed
	}
	select {
	case h.sendCh <- msg:
		return nil
	case <-h.ctx.Done():
		return ErrHandleClosed
	}
}

// Close tears the connection down. The handle emits its Closed event with
// ErrHandleClosed as the reason.
func (h *wsHandle) Close() error {
	h.shutdown(ErrHandleClosed)
	return nil
}

// shutdown releases the connection and emits the single Closed event.
func (h *wsHandle) shutdown(reason error) {
	h.once.Do(func() {
		h.cancel()

		h.mu.Lock()
		conn := h.conn
		h.mu.Unlock()
		if conn != nil {
			conn.Close()
		}

		h.opts.logger.Info("websocket closed", LogFields{LogFieldError: reason})
		h.events.Closed(h, reason)
	})
}
