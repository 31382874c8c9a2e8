package transfer

import (
	"context"
	"errors"
	"net"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/net/netutil"

	"github.com/KIRKR101/Streamline/internal/observability"
)

// ServiceConfig configures the long-running receiver endpoint.
type ServiceConfig struct {
	ListenAddr string
	Dir        string
	Receiver   ReceiverConfig
}

func DefaultServiceConfig() ServiceConfig {
	return ServiceConfig{
		ListenAddr: "0.0.0.0:8080",
		Dir:        ".",
		Receiver:   DefaultReceiverConfig(),
	}
}

// Service accepts inbound transfer sessions one at a time and hands each
// connection to a Receiver. Sessions never overlap: the listener itself is
// capped at a single open connection.
type Service struct {
	cfg  ServiceConfig
	recv *Receiver
	log  zerolog.Logger

	connMu sync.Mutex
	conn   net.Conn
}

func NewService(cfg ServiceConfig, logger zerolog.Logger) *Service {
	if strings.TrimSpace(cfg.ListenAddr) == "" {
		cfg.ListenAddr = DefaultServiceConfig().ListenAddr
	}
	if strings.TrimSpace(cfg.Dir) == "" {
		cfg.Dir = DefaultServiceConfig().Dir
	}
	return &Service{
		cfg:  cfg,
		recv: NewReceiver(cfg.Dir, cfg.Receiver, logger),
		log:  logger,
	}
}

// Listen opens the transfer listener, capped at one connection so a second
// sender queues in the kernel backlog instead of interleaving sessions.
func (s *Service) Listen() (net.Listener, error) {
	ln, err := net.Listen("tcp", s.cfg.ListenAddr)
	if err != nil {
		return nil, err
	}
	return netutil.LimitListener(ln, 1), nil
}

// Run listens and serves until ctx is cancelled.
func (s *Service) Run(ctx context.Context) error {
	ln, err := s.Listen()
	if err != nil {
		return err
	}
	s.log.Info().Str("addr", ln.Addr().String()).Str("dir", s.cfg.Dir).Msg("listening")
	return s.Serve(ctx, ln)
}

// Serve accepts sessions on an existing listener. Each session runs to its
// terminal state before the next accept.
func (s *Service) Serve(ctx context.Context, ln net.Listener) error {
	defer ln.Close()
	go func() {
		<-ctx.Done()
		s.closeActive()
		_ = ln.Close()
	}()

	for {
		conn, err := ln.Accept()
		if err != nil {
			if ctx.Err() != nil || errors.Is(err, net.ErrClosed) {
				return nil
			}
			return err
		}
		s.handleConn(conn)
	}
}

func (s *Service) handleConn(conn net.Conn) {
	defer conn.Close()
	s.setActive(conn)
	defer s.setActive(nil)

	remote := conn.RemoteAddr().String()
	s.log.Info().Str("remote", remote).Msg("session opened")

	start := time.Now()
	report, err := s.recv.ReceiveAll(conn)
	observability.RecordSession(observability.DirectionReceive, string(report.Outcome), time.Since(start))
	if err != nil {
		s.log.Error().
			Str("remote", remote).
			Int("files", len(report.Files)).
			Uint64("bytes", report.Bytes).
			Err(err).
			Msg("session aborted")
		return
	}
	s.log.Info().
		Str("remote", remote).
		Int("files", len(report.Files)).
		Uint64("bytes", report.Bytes).
		Dur("elapsed", report.Elapsed).
		Msg("session done")
}

func (s *Service) setActive(conn net.Conn) {
	s.connMu.Lock()
	s.conn = conn
	s.connMu.Unlock()
}

func (s *Service) closeActive() {
	s.connMu.Lock()
	if s.conn != nil {
		_ = s.conn.Close()
	}
	s.connMu.Unlock()
}
