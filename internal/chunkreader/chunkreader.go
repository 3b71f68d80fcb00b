// Package chunkreader wraps a reader so that every Read returns at most a
// fixed number of bytes, the way a slow socket hands data over.
package chunkreader

import (
	"errors"
	"io"
	"strings"
)

var ErrInvalidChunkSize = errors.New("chunk size must be positive")

type Reader struct {
	src             io.Reader
	numBytesPerRead int
}

func New(src io.Reader, numBytesPerRead int) (*Reader, error) {
	if numBytesPerRead <= 0 {
		return nil, ErrInvalidChunkSize
	}
	return &Reader{src: src, numBytesPerRead: numBytesPerRead}, nil
}

// FromString is New over a string source.
func FromString(data string, numBytesPerRead int) (*Reader, error) {
	return New(strings.NewReader(data), numBytesPerRead)
}

// Read reads up to len(p) or numBytesPerRead bytes, whichever is smaller.
func (cr *Reader) Read(p []byte) (int, error) {
	if len(p) > cr.numBytesPerRead {
		p = p[:cr.numBytesPerRead]
	}
	return cr.src.Read(p)
}
