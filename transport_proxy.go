package phxsock

import (
	"bufio"
	"context"
	"encoding/base64"
	"fmt"
	"net"
	"net/http"
	"net/url"

	"golang.org/x/net/proxy"
)

// ProxyConfig holds proxy settings for the websocket transport.
type ProxyConfig struct {
	// URL is the proxy URL: http://host:port, https://host:port, or
	// socks5://host:port.
	URL string

	// Username and Password authenticate against the proxy. If empty, any
	// userinfo embedded in the URL is used instead.
	Username string
	Password string
}

// proxyDialer dials target addresses through an HTTP CONNECT or SOCKS5 proxy.
type proxyDialer struct {
	proxyURL *url.URL
	username string
	password string
	forward  net.Dialer
}

func newProxyDialer(cfg ProxyConfig) (*proxyDialer, error) {
	u, err := url.Parse(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("invalid proxy url: %w", err)
	}

	switch u.Scheme {
	case "http", "https", "socks5", "socks5h":
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedProxyScheme, u.Scheme)
	}

	username, password := cfg.Username, cfg.Password
	if username == "" && u.User != nil {
		username = u.User.Username()
		password, _ = u.User.Password()
	}

	return &proxyDialer{
		proxyURL: u,
		username: username,
		password: password,
	}, nil
}

// DialContext connects to addr through the configured proxy. It satisfies
// the NetDialContext signature of websocket.Dialer.
func (d *proxyDialer) DialContext(ctx context.Context, network, addr string) (net.Conn, error) {
	switch d.proxyURL.Scheme {
	case "socks5", "socks5h":
		return d.dialSOCKS5(ctx, network, addr)
	default:
		return d.dialConnect(ctx, addr)
	}
}

func (d *proxyDialer) addr(defaultPort string) string {
	if d.proxyURL.Port() != "" {
		return d.proxyURL.Host
	}
	return net.JoinHostPort(d.proxyURL.Hostname(), defaultPort)
}

// dialConnect tunnels through an HTTP proxy with a CONNECT request.
func (d *proxyDialer) dialConnect(ctx context.Context, target string) (net.Conn, error) {
	port := "8080"
	if d.proxyURL.Scheme == "https" {
		port = "443"
	}

	conn, err := d.forward.DialContext(ctx, "tcp", d.addr(port))
	if err != nil {
		return nil, fmt.Errorf("connect to proxy: %w", err)
	}

	req := &http.Request{
		Method: http.MethodConnect,
		URL:    &url.URL{Opaque: target},
		Host:   target,
		Header: make(http.Header),
	}
	if d.username != "" {
		cred := base64.StdEncoding.EncodeToString([]byte(d.username + ":" + d.password))
		req.Header.Set("Proxy-Authorization", "Basic "+cred)
	}

	if err := req.Write(conn); err != nil {
		conn.Close()
		return nil, fmt.Errorf("send CONNECT: %w", err)
	}

	resp, err := http.ReadResponse(bufio.NewReader(conn), req)
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("read CONNECT response: %w", err)
	}
	resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		conn.Close()
		return nil, fmt.Errorf("proxy CONNECT failed: %s", resp.Status)
	}

	return conn, nil
}

// dialSOCKS5 connects through a SOCKS5 proxy.
func (d *proxyDialer) dialSOCKS5(ctx context.Context, network, target string) (net.Conn, error) {
	var auth *proxy.Auth
	if d.username != "" {
		auth = &proxy.Auth{User: d.username, Password: d.password}
	}

	dialer, err := proxy.SOCKS5("tcp", d.addr("1080"), auth, &d.forward)
	if err != nil {
		return nil, fmt.Errorf("socks5 dialer: %w", err)
	}

	if cd, ok := dialer.(proxy.ContextDialer); ok {
		conn, err := cd.DialContext(ctx, network, target)
		if err != nil {
			return nil, fmt.Errorf("socks5 dial: %w", err)
		}
		return conn, nil
	}

	conn, err := dialer.Dial(network, target)
	if err != nil {
		return nil, fmt.Errorf("socks5 dial: %w", err)
	}
	return conn, nil
}
