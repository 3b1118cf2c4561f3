// Package webreactive runs an HTTP handler on an embedded server: a real
// loopback listener on an OS-assigned port by default, or in-memory pipes. For
// testing-specific adapters, see the webreactivetest subpackage.
package webreactive

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Server is a net/http server bound to a dynamically chosen port. It otherwise
// uses the same configuration as the zero value of [http.Server].
type Server struct {
	server         *http.Server
	listener       net.Listener
	memory         *memoryListener // nil unless WithMemoryListener
	port           int
	url            string
	logger         *zap.Logger
	serveErr       chan error
	serveOnce      sync.Once
	serveResult    error
	cleanupContext func() (context.Context, context.CancelFunc)
}

// New constructs and starts a Server. Unless configured otherwise, it listens
// on 127.0.0.1 with a port chosen by the operating system; use Port or URL to
// find it.
func New(handler http.Handler, opts ...Option) (*Server, error) {
	var cfg config
	WithAddress("127.0.0.1:0").apply(&cfg)
	WithCleanupTimeout(5 * time.Second).apply(&cfg)
	for _, opt := range opts {
		opt.apply(&cfg)
	}
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	server := &http.Server{
		Handler:           handler,
		ErrorLog:          cfg.ErrorLog,
		ReadHeaderTimeout: 10 * time.Second,
	}
	if server.ErrorLog == nil && cfg.Logger != nil {
		errorLog, err := zap.NewStdLogAt(cfg.Logger.Named("http"), zap.WarnLevel)
		if err != nil {
			return nil, fmt.Errorf("bridge error log: %w", err)
		}
		server.ErrorLog = errorLog
	}

	s := &Server{
		server:         server,
		logger:         logger,
		serveErr:       make(chan error, 1),
		cleanupContext: cfg.CleanupContext,
	}
	if cfg.Memory {
		s.memory = &memoryListener{
			conns:  make(chan net.Conn),
			closed: make(chan struct{}),
		}
		s.listener = s.memory
		s.url = "http://" + s.memory.Addr().String()
	} else {
		lis, err := net.Listen("tcp", cfg.Address)
		if err != nil {
			return nil, fmt.Errorf("listen on %s: %w", cfg.Address, err)
		}
		addr, ok := lis.Addr().(*net.TCPAddr)
		if !ok {
			lis.Close()
			return nil, fmt.Errorf("listener address %v is not TCP", lis.Addr())
		}
		s.listener = lis
		s.port = addr.Port
		s.url = "http://" + net.JoinHostPort(urlHost(addr.IP), strconv.Itoa(addr.Port))
	}

	go func() {
		s.serveErr <- server.Serve(s.listener)
	}()
	logger.Info("server started", zap.String("url", s.url), zap.Int("port", s.port))
	return s, nil
}

// Port returns the port the server is bound to, or zero when it's serving over
// in-memory pipes.
func (s *Server) Port() int {
	return s.port
}

// URL returns the server's base URL, without a trailing slash.
func (s *Server) URL() string {
	return s.url
}

// Transport returns an [http.Transport] that reaches the server and disables
// automatic compression. Servers using in-memory pipes get a transport that
// dials the pipes rather than TCP.
//
// Callers may reconfigure the returned Transport without affecting other
// transports or clients.
func (s *Server) Transport() *http.Transport {
	transport := http.DefaultTransport.(*http.Transport).Clone()
	transport.Proxy = nil
	transport.DisableCompression = true
	if s.memory != nil {
		transport.DialContext = s.memory.DialContext
	}
	return transport
}

// Client returns an [http.Client] using the server's Transport.
//
// Callers may reconfigure the returned client without affecting other clients.
func (s *Server) Client() *http.Client {
	return &http.Client{Transport: s.Transport()}
}

// Close immediately shuts down the server. To shut down the server without
// interrupting in-flight requests, use Shutdown.
func (s *Server) Close() error {
	if err := s.server.Close(); err != nil {
		return err
	}
	s.logger.Info("server closed", zap.String("url", s.url))
	return s.Wait()
}

// Shutdown gracefully shuts down the server, without interrupting any active
// connections. See [http.Server.Shutdown] for details.
func (s *Server) Shutdown(ctx context.Context) error {
	if err := s.server.Shutdown(ctx); err != nil {
		return err
	}
	s.logger.Info("server shut down", zap.String("url", s.url))
	return s.Wait()
}

// Cleanup calls Shutdown with a five second timeout. To customize the timeout,
// use WithCleanupTimeout.
//
// Cleanup is primarily intended for use in tests. If you find yourself using
// it, you may want to use the webreactivetest package instead.
func (s *Server) Cleanup() error {
	ctx, cancel := s.cleanupContext()
	defer cancel()
	return s.Shutdown(ctx)
}

// Wait blocks until the server stops serving. It returns nil if the server was
// stopped with Close or Shutdown, and the serving error otherwise. It's safe to
// call Wait from multiple goroutines.
func (s *Server) Wait() error {
	s.serveOnce.Do(func() {
		if err := <-s.serveErr; err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.serveResult = err
		}
	})
	return s.serveResult
}

// RegisterOnShutdown registers a function to call on Shutdown. See
// [http.Server.RegisterOnShutdown] for details.
func (s *Server) RegisterOnShutdown(f func()) {
	s.server.RegisterOnShutdown(f)
}

func urlHost(ip net.IP) string {
	if ip == nil || ip.IsUnspecified() {
		return "127.0.0.1"
	}
	return ip.String()
}

type memoryListener struct {
	conns  chan net.Conn
	once   sync.Once
	closed chan struct{}
}

// Accept implements net.Listener.
func (l *memoryListener) Accept() (net.Conn, error) {
	select {
	case conn := <-l.conns:
		return conn, nil
	case <-l.closed:
		return nil, net.ErrClosed
	}
}

// Close implements net.Listener.
func (l *memoryListener) Close() error {
	l.once.Do(func() {
		close(l.closed)
	})
	return nil
}

// Addr implements net.Listener.
func (l *memoryListener) Addr() net.Addr {
	return memoryAddr{}
}

// DialContext is the type expected by http.Transport.DialContext.
func (l *memoryListener) DialContext(ctx context.Context, network, addr string) (net.Conn, error) {
	server, client := net.Pipe()
	select {
	case l.conns <- server:
		return client, nil
	case <-l.closed:
	case <-ctx.Done():
		server.Close()
		client.Close()
		return nil, ctx.Err()
	}
	server.Close()
	client.Close()
	return nil, net.ErrClosed
}

type memoryAddr struct{}

// Network implements net.Addr.
func (memoryAddr) Network() string { return "memory" }

// String implements net.Addr.
func (memoryAddr) String() string { return "memory" }
