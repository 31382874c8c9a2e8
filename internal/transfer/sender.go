package transfer

import (
	"context"
	"fmt"
	"io"
	"net"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"

	"github.com/KIRKR101/Streamline/internal/observability"
	"github.com/KIRKR101/Streamline/internal/protocol"
)

// DefaultChunkSize bounds the copy buffer reused across files.
const DefaultChunkSize = 1 << 20

// SenderConfig tunes the sender pipeline.
type SenderConfig struct {
	ChunkSize   int
	DialTimeout time.Duration
	Limits      protocol.Limits
}

func DefaultSenderConfig() SenderConfig {
	return SenderConfig{
		ChunkSize:   DefaultChunkSize,
		DialTimeout: 5 * time.Second,
		Limits:      protocol.DefaultLimits(),
	}
}

// FileReport records the outcome of one file in a batch. Err is set for
// files that were skipped before touching the wire.
type FileReport struct {
	Path    string
	Name    string
	Bytes   uint64
	Elapsed time.Duration
	Err     error
}

// BatchReport aggregates one send batch.
type BatchReport struct {
	Files   []FileReport
	Sent    int
	Skipped int
	Bytes   uint64
	Elapsed time.Duration
}

// Sender transmits a fixed list of local files over one connection,
// preserving order and exact byte content.
type Sender struct {
	cfg SenderConfig
	buf []byte
	log zerolog.Logger
}

func NewSender(cfg SenderConfig, logger zerolog.Logger) *Sender {
	if cfg.ChunkSize <= 0 {
		cfg.ChunkSize = DefaultChunkSize
	}
	if cfg.Limits.MaxNameBytes == 0 {
		cfg.Limits = protocol.DefaultLimits()
	}
	return &Sender{
		cfg: cfg,
		buf: make([]byte, cfg.ChunkSize),
		log: logger,
	}
}

// SendFiles dials addr once, streams each file in the order given, then
// closes the write side so the receiver sees a clean EOF at a frame
// boundary. A local filesystem failure skips that file and continues; any
// socket failure aborts the remainder of the batch.
func (s *Sender) SendFiles(ctx context.Context, addr string, paths []string) (BatchReport, error) {
	start := time.Now()
	report := BatchReport{Files: make([]FileReport, 0, len(paths))}

	dialer := net.Dialer{Timeout: s.cfg.DialTimeout}
	conn, err := dialer.DialContext(ctx, "tcp", addr)
	if err != nil {
		return report, fmt.Errorf("connect %s: %w", addr, err)
	}
	defer conn.Close()
	s.log.Info().Str("remote", conn.RemoteAddr().String()).Int("files", len(paths)).Msg("session opened")

	for _, p := range paths {
		if err := ctx.Err(); err != nil {
			report.Elapsed = time.Since(start)
			return report, err
		}
		fr, err := s.sendOne(conn, p)
		report.Files = append(report.Files, fr)
		if err != nil {
			observability.RecordSession(observability.DirectionSend, observability.OutcomeAborted, time.Since(start))
			report.Elapsed = time.Since(start)
			return report, err
		}
		if fr.Err != nil {
			report.Skipped++
			observability.RecordFile(observability.DirectionSend, observability.OutcomeSkipped, 0)
			s.log.Warn().Str("path", p).Err(fr.Err).Msg("file skipped")
			continue
		}
		report.Sent++
		report.Bytes += fr.Bytes
		observability.RecordFile(observability.DirectionSend, observability.OutcomeOK, fr.Bytes)
		s.log.Info().
			Str("name", fr.Name).
			Uint64("bytes", fr.Bytes).
			Dur("elapsed", fr.Elapsed).
			Msg("file sent")
	}

	if tc, ok := conn.(*net.TCPConn); ok {
		if err := tc.CloseWrite(); err != nil {
			report.Elapsed = time.Since(start)
			return report, fmt.Errorf("close write side: %w", err)
		}
	}

	report.Elapsed = time.Since(start)
	observability.RecordSession(observability.DirectionSend, observability.OutcomeDone, report.Elapsed)
	s.log.Info().
		Int("sent", report.Sent).
		Int("skipped", report.Skipped).
		Uint64("bytes", report.Bytes).
		Dur("elapsed", report.Elapsed).
		Msg("session closed")
	return report, nil
}

// sendOne writes one header+body frame. The returned error is fatal to the
// batch (the stream can no longer be trusted); per-file filesystem problems
// are reported through FileReport.Err instead and leave the stream clean
// because they are detected before any header byte is written.
func (s *Sender) sendOne(conn io.Writer, path string) (FileReport, error) {
	start := time.Now()
	fr := FileReport{Path: path, Name: filepath.Base(path)}

	f, err := os.Open(path)
	if err != nil {
		fr.Err = err
		return fr, nil
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		fr.Err = err
		return fr, nil
	}
	if !info.Mode().IsRegular() {
		fr.Err = fmt.Errorf("not a regular file: %s", path)
		return fr, nil
	}
	size := uint64(info.Size())

	header, err := protocol.EncodeHeader(protocol.Header{Name: fr.Name, Size: size}, s.cfg.Limits)
	if err != nil {
		fr.Err = err
		return fr, nil
	}
	if _, err := conn.Write(header); err != nil {
		return fr, fmt.Errorf("write header for %s: %w", fr.Name, err)
	}

	// The declared size is the contract: never stream past it even if the
	// file grows mid-transfer.
	n, err := io.CopyBuffer(conn, io.LimitReader(f, int64(size)), s.buf)
	if err != nil {
		return fr, fmt.Errorf("send %s: %w", fr.Name, err)
	}
	if uint64(n) != size {
		return fr, fmt.Errorf("send %s: wrote %d of %d declared bytes", fr.Name, n, size)
	}

	fr.Bytes = size
	fr.Elapsed = time.Since(start)
	return fr, nil
}
