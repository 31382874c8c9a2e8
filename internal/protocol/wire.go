package protocol

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"unicode/utf8"
)

// Wire layout of one frame header:
//
//	[4 bytes] filename length, big-endian uint32
//	[N bytes] filename, UTF-8
//	[8 bytes] body length, big-endian uint64
//
// The body follows immediately with no separator. Frames repeat until the
// sender closes its write side; a clean EOF is only valid between frames.
const (
	nameLenSize = 4
	bodyLenSize = 8
)

// Header announces one file on the wire: its basename and exact body size.
// It exists only during decode/encode and is not retained past the body.
type Header struct {
	Name string
	Size uint64
}

// Limits constrains header decode memory use. A corrupted stream must not
// be able to size an allocation.
type Limits struct {
	MaxNameBytes uint32
}

func DefaultLimits() Limits {
	return Limits{MaxNameBytes: 4096}
}

// EncodeHeader serializes h into a single buffer so the header hits the
// socket in one write.
func EncodeHeader(h Header, limits Limits) ([]byte, error) {
	nameLen := len(h.Name)
	if nameLen == 0 || uint64(nameLen) > uint64(limits.MaxNameBytes) {
		return nil, fmt.Errorf("%w: %d bytes", ErrNameLength, nameLen)
	}
	buf := make([]byte, nameLenSize+nameLen+bodyLenSize)
	binary.BigEndian.PutUint32(buf[0:nameLenSize], uint32(nameLen))
	copy(buf[nameLenSize:], h.Name)
	binary.BigEndian.PutUint64(buf[nameLenSize+nameLen:], h.Size)
	return buf, nil
}

func WriteHeader(w io.Writer, h Header, limits Limits) error {
	buf, err := EncodeHeader(h, limits)
	if err != nil {
		return err
	}
	if _, err := w.Write(buf); err != nil {
		return err
	}
	return nil
}

// ReadHeader decodes one file header from r.
//
// A clean EOF before the first header byte is the normal end of a transfer
// sequence and is returned as io.EOF. Any EOF after that point means the
// peer died mid-header and is returned as ErrUnexpectedEOF; the session is
// unrecoverable.
func ReadHeader(r io.Reader, limits Limits) (Header, error) {
	var lenBuf [nameLenSize]byte
	if _, err := io.ReadFull(r, lenBuf[:]); err != nil {
		if errors.Is(err, io.EOF) {
			return Header{}, io.EOF
		}
		if errors.Is(err, io.ErrUnexpectedEOF) {
			return Header{}, ErrUnexpectedEOF
		}
		return Header{}, err
	}

	nameLen := binary.BigEndian.Uint32(lenBuf[:])
	if nameLen == 0 || nameLen > limits.MaxNameBytes {
		return Header{}, fmt.Errorf("%w: filename length %d", ErrMalformedHeader, nameLen)
	}

	name := make([]byte, nameLen)
	if _, err := io.ReadFull(r, name); err != nil {
		if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
			return Header{}, ErrUnexpectedEOF
		}
		return Header{}, err
	}
	if !utf8.Valid(name) {
		return Header{}, fmt.Errorf("%w: filename is not valid utf-8", ErrMalformedHeader)
	}

	var sizeBuf [bodyLenSize]byte
	if _, err := io.ReadFull(r, sizeBuf[:]); err != nil {
		if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
			return Header{}, ErrUnexpectedEOF
		}
		return Header{}, err
	}

	return Header{
		Name: string(name),
		Size: binary.BigEndian.Uint64(sizeBuf[:]),
	}, nil
}
