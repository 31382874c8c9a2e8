package protocol

import "errors"

var (
	ErrMalformedHeader = errors.New("protocol: malformed header")
	ErrUnexpectedEOF   = errors.New("protocol: stream closed inside header")
	ErrTruncatedBody   = errors.New("protocol: truncated body")
	ErrNameLength      = errors.New("protocol: filename length out of range")
	ErrUnsafeName      = errors.New("protocol: unsafe filename")
)
