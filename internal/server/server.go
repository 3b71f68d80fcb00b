package server

import (
	"errors"
	"net"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"github.com/xaitan80/reqhead/internal/request"
)

// Handler receives every request head parsed successfully on a connection.
type Handler func(r *request.Request)

type Options struct {
	Reader request.ReaderOptions
	// ReadTimeout bounds the time allowed to receive a full request head.
	// Zero disables the deadline.
	ReadTimeout time.Duration
}

// Server accepts TCP connections and parses one request head from each.
// Nothing is written back; the connection is closed once the head has been
// parsed or parsing has failed.
type Server struct {
	opts   Options
	h      Handler
	logger *zap.Logger

	closed atomic.Bool

	mu    sync.Mutex
	ln    net.Listener
	conns map[net.Conn]struct{}
	wg    sync.WaitGroup
}

func New(logger *zap.Logger, opts Options, h Handler) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Server{
		opts:   opts,
		h:      h,
		logger: logger,
		conns:  make(map[net.Conn]struct{}),
	}
}

// Listen opens a TCP listener on the given port on all interfaces.
func Listen(port string) (net.Listener, error) {
	return net.Listen("tcp", net.JoinHostPort("", port))
}

// Serve accepts connections from ln until the listener is closed. It
// returns nil once Close has been called or the listener reports
// net.ErrClosed.
func (s *Server) Serve(ln net.Listener) error {
	s.mu.Lock()
	if s.closed.Load() {
		s.mu.Unlock()
		return ln.Close()
	}
	s.ln = ln
	s.mu.Unlock()

	s.logger.Info("listening", zap.Stringer("addr", ln.Addr()))

	var delay time.Duration
	for {
		conn, err := ln.Accept()
		if err != nil {
			if s.closed.Load() || errors.Is(err, net.ErrClosed) {
				return nil
			}
			delay = nextAcceptDelay(delay)
			s.logger.Warn("accept connection", zap.Error(err), zap.Duration("retry_in", delay))
			time.Sleep(delay)
			continue
		}
		delay = 0

		s.mu.Lock()
		if s.closed.Load() {
			s.mu.Unlock()
			_ = conn.Close()
			return nil
		}
		s.conns[conn] = struct{}{}
		s.wg.Add(1)
		s.mu.Unlock()

		go func() {
			defer s.wg.Done()
			s.handle(conn)
		}()
	}
}

const (
	minAcceptDelay = 5 * time.Millisecond
	maxAcceptDelay = time.Second
)

// nextAcceptDelay doubles the wait after each consecutive accept failure.
func nextAcceptDelay(prev time.Duration) time.Duration {
	if prev == 0 {
		return minAcceptDelay
	}
	return min(prev*2, maxAcceptDelay)
}

// Close stops accepting, closes every open connection and waits for their
// handlers to return.
func (s *Server) Close() error {
	if s == nil {
		return nil
	}
	s.closed.Store(true)

	var err error
	s.mu.Lock()
	if s.ln != nil {
		if cerr := s.ln.Close(); cerr != nil && !errors.Is(cerr, net.ErrClosed) {
			err = cerr
		}
	}
	for conn := range s.conns {
		_ = conn.Close()
	}
	s.mu.Unlock()

	s.wg.Wait()
	return err
}

func (s *Server) handle(conn net.Conn) {
	log := s.logger.With(zap.Stringer("remote", conn.RemoteAddr()))

	defer func() {
		s.mu.Lock()
		delete(s.conns, conn)
		s.mu.Unlock()

		if err := conn.Close(); err != nil && !errors.Is(err, net.ErrClosed) {
			log.Warn("close connection", zap.Error(err))
		}
	}()

	if s.opts.ReadTimeout > 0 {
		if err := conn.SetReadDeadline(time.Now().Add(s.opts.ReadTimeout)); err != nil {
			log.Warn("set read deadline", zap.Error(err))
			return
		}
	}

	rd := request.NewReader(conn, s.opts.Reader)
	r, err := rd.ReadRequest()
	if err != nil {
		if s.closed.Load() {
			log.Debug("connection closed during shutdown", zap.Error(err))
			return
		}
		log.Warn("failed to parse request", zap.Error(err))
		return
	}

	log.Debug("parsed request",
		zap.String("method", r.RequestLine.Method),
		zap.String("target", r.RequestLine.RequestTarget),
		zap.Int("headers", len(r.Headers)),
		zap.Int("consumed", r.Consumed()),
		zap.Int("buffered", len(rd.Buffered())),
	)

	if s.h != nil {
		s.h(r)
	}
}
