package transfer

import (
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"

	"github.com/KIRKR101/Streamline/internal/observability"
	"github.com/KIRKR101/Streamline/internal/protocol"
)

// Outcome is the terminal state of one receive session.
type Outcome string

const (
	OutcomeDone    Outcome = "done"
	OutcomeAborted Outcome = "aborted"
)

// SessionReport aggregates one receive session.
type SessionReport struct {
	Files   []string
	Bytes   uint64
	Elapsed time.Duration
	Outcome Outcome
}

// ReceiverConfig tunes the receiver pipeline.
type ReceiverConfig struct {
	ChunkSize int
	Limits    protocol.Limits
}

func DefaultReceiverConfig() ReceiverConfig {
	return ReceiverConfig{
		ChunkSize: DefaultChunkSize,
		Limits:    protocol.DefaultLimits(),
	}
}

// Receiver reconstructs an ordered frame sequence into a single target
// directory. The directory must already exist; creating it is CLI glue.
type Receiver struct {
	dir string
	cfg ReceiverConfig
	buf []byte
	log zerolog.Logger
}

func NewReceiver(dir string, cfg ReceiverConfig, logger zerolog.Logger) *Receiver {
	if cfg.ChunkSize <= 0 {
		cfg.ChunkSize = DefaultChunkSize
	}
	if cfg.Limits.MaxNameBytes == 0 {
		cfg.Limits = protocol.DefaultLimits()
	}
	return &Receiver{
		dir: dir,
		cfg: cfg,
		buf: make([]byte, cfg.ChunkSize),
		log: logger,
	}
}

// ReceiveAll drains one transfer sequence from r.
//
// State machine: decode a header (clean EOF here is Done), copy exactly the
// declared number of body bytes into the destination file, repeat. Any
// protocol or filesystem failure is Aborted; a partially written file is
// left in place at its truncated size rather than deleted, so a transient
// network fault never destroys evidence.
func (rc *Receiver) ReceiveAll(r io.Reader) (SessionReport, error) {
	start := time.Now()
	report := SessionReport{Outcome: OutcomeAborted}

	for {
		header, err := protocol.ReadHeader(r, rc.cfg.Limits)
		if errors.Is(err, io.EOF) {
			report.Outcome = OutcomeDone
			report.Elapsed = time.Since(start)
			return report, nil
		}
		if err != nil {
			report.Elapsed = time.Since(start)
			return report, fmt.Errorf("await header: %w", err)
		}

		dst, err := protocol.SafeJoin(rc.dir, header.Name)
		if err != nil {
			report.Elapsed = time.Since(start)
			return report, fmt.Errorf("resolve destination for %q: %w", header.Name, err)
		}

		fileStart := time.Now()
		if err := rc.receiveBody(r, dst, header.Size); err != nil {
			observability.RecordFile(observability.DirectionReceive, observability.OutcomeAborted, 0)
			report.Elapsed = time.Since(start)
			return report, err
		}

		report.Files = append(report.Files, filepath.Base(dst))
		report.Bytes += header.Size
		observability.RecordFile(observability.DirectionReceive, observability.OutcomeOK, header.Size)
		rc.log.Info().
			Str("name", filepath.Base(dst)).
			Uint64("bytes", header.Size).
			Dur("elapsed", time.Since(fileStart)).
			Msg("file received")
	}
}

// receiveBody copies exactly size bytes into dst, truncating any existing
// file at that path. Last received wins.
func (rc *Receiver) receiveBody(r io.Reader, dst string, size uint64) error {
	if size > math.MaxInt64 {
		return fmt.Errorf("%w: declared body length %d", protocol.ErrMalformedHeader, size)
	}
	f, err := os.Create(dst)
	if err != nil {
		return fmt.Errorf("create %s: %w", dst, err)
	}

	n, copyErr := io.CopyBuffer(f, io.LimitReader(r, int64(size)), rc.buf)
	closeErr := f.Close()

	if copyErr != nil {
		return fmt.Errorf("write %s: %w", dst, copyErr)
	}
	if uint64(n) != size {
		return fmt.Errorf("%w: %s: got %d of %d bytes", protocol.ErrTruncatedBody, filepath.Base(dst), n, size)
	}
	if closeErr != nil {
		return fmt.Errorf("close %s: %w", dst, closeErr)
	}
	return nil
}
