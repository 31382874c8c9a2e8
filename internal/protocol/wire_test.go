package protocol

import (
	"bytes"
	"encoding/binary"
	"errors"
	"io"
	"strings"
	"testing"
)

func TestHeaderRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	in := Header{Name: "report.tar.gz", Size: 1 << 30}
	if err := WriteHeader(&buf, in, DefaultLimits()); err != nil {
		t.Fatalf("write header: %v", err)
	}
	out, err := ReadHeader(&buf, DefaultLimits())
	if err != nil {
		t.Fatalf("read header: %v", err)
	}
	if out != in {
		t.Fatalf("header mismatch: got=%+v want=%+v", out, in)
	}
}

func TestReadHeaderCleanEOF(t *testing.T) {
	_, err := ReadHeader(bytes.NewReader(nil), DefaultLimits())
	if !errors.Is(err, io.EOF) {
		t.Fatalf("expected io.EOF at frame boundary, got %v", err)
	}
}

func TestReadHeaderPartialIsUnexpectedEOF(t *testing.T) {
	cases := map[string][]byte{
		"inside name length": {0x00, 0x00},
		"inside name":        {0x00, 0x00, 0x00, 0x05, 'a', 'b'},
		"inside body length": {0x00, 0x00, 0x00, 0x01, 'a', 0x00, 0x00},
	}
	for name, raw := range cases {
		if _, err := ReadHeader(bytes.NewReader(raw), DefaultLimits()); !errors.Is(err, ErrUnexpectedEOF) {
			t.Fatalf("%s: expected ErrUnexpectedEOF, got %v", name, err)
		}
	}
}

func TestReadHeaderNameLengthBounds(t *testing.T) {
	var zero bytes.Buffer
	_ = binary.Write(&zero, binary.BigEndian, uint32(0))
	if _, err := ReadHeader(&zero, DefaultLimits()); !errors.Is(err, ErrMalformedHeader) {
		t.Fatalf("zero name length: expected ErrMalformedHeader, got %v", err)
	}

	var huge bytes.Buffer
	_ = binary.Write(&huge, binary.BigEndian, uint32(1<<31))
	if _, err := ReadHeader(&huge, DefaultLimits()); !errors.Is(err, ErrMalformedHeader) {
		t.Fatalf("oversized name length: expected ErrMalformedHeader, got %v", err)
	}
}

func TestReadHeaderRejectsInvalidUTF8(t *testing.T) {
	var buf bytes.Buffer
	_ = binary.Write(&buf, binary.BigEndian, uint32(2))
	buf.Write([]byte{0xff, 0xfe})
	_ = binary.Write(&buf, binary.BigEndian, uint64(0))
	if _, err := ReadHeader(&buf, DefaultLimits()); !errors.Is(err, ErrMalformedHeader) {
		t.Fatalf("expected ErrMalformedHeader, got %v", err)
	}
}

func TestEncodeHeaderRejectsBadNames(t *testing.T) {
	if _, err := EncodeHeader(Header{Name: ""}, DefaultLimits()); !errors.Is(err, ErrNameLength) {
		t.Fatalf("empty name: expected ErrNameLength, got %v", err)
	}
	long := strings.Repeat("x", int(DefaultLimits().MaxNameBytes)+1)
	if _, err := EncodeHeader(Header{Name: long}, DefaultLimits()); !errors.Is(err, ErrNameLength) {
		t.Fatalf("long name: expected ErrNameLength, got %v", err)
	}
}

func TestBackToBackHeadersDoNotBleed(t *testing.T) {
	var buf bytes.Buffer
	body := []byte("ABC")
	if err := WriteHeader(&buf, Header{Name: "a.txt", Size: uint64(len(body))}, DefaultLimits()); err != nil {
		t.Fatalf("write first header: %v", err)
	}
	buf.Write(body)
	if err := WriteHeader(&buf, Header{Name: "b.bin", Size: 0}, DefaultLimits()); err != nil {
		t.Fatalf("write second header: %v", err)
	}

	first, err := ReadHeader(&buf, DefaultLimits())
	if err != nil {
		t.Fatalf("read first header: %v", err)
	}
	if first.Name != "a.txt" || first.Size != 3 {
		t.Fatalf("first header mismatch: %+v", first)
	}
	got := make([]byte, first.Size)
	if _, err := io.ReadFull(&buf, got); err != nil {
		t.Fatalf("read first body: %v", err)
	}
	if !bytes.Equal(got, body) {
		t.Fatalf("body mismatch: %q", got)
	}

	second, err := ReadHeader(&buf, DefaultLimits())
	if err != nil {
		t.Fatalf("read second header: %v", err)
	}
	if second.Name != "b.bin" || second.Size != 0 {
		t.Fatalf("second header mismatch: %+v", second)
	}
	if _, err := ReadHeader(&buf, DefaultLimits()); !errors.Is(err, io.EOF) {
		t.Fatalf("expected io.EOF after last frame, got %v", err)
	}
}
