package request

import (
	"errors"
	"fmt"
	"io"

	"github.com/xaitan80/reqhead/internal/buffer"
)

const (
	DefaultReadSize   = 8
	DefaultBufferSize = 8
)

var (
	ErrStreamEndedPrematurely = errors.New("incomplete request: stream ended before end of headers")
	ErrRequestHeadTooLarge    = errors.New("request head too large")
)

// ReaderOptions tunes a Reader. Zero values select the defaults;
// MaxHeaderBytes of 0 means unbounded.
type ReaderOptions struct {
	ReadSize          int
	InitialBufferSize int
	MaxHeaderBytes    int
}

// Reader pulls bytes from a source in small reads and feeds them to a
// Request until its head is complete. A Reader parses one request.
type Reader struct {
	src            io.Reader
	buf            *buffer.Buffer
	readSize       int
	maxHeaderBytes int
}

func NewReader(src io.Reader, opts ReaderOptions) *Reader {
	if opts.ReadSize <= 0 {
		opts.ReadSize = DefaultReadSize
	}
	if opts.InitialBufferSize <= 0 {
		opts.InitialBufferSize = DefaultBufferSize
	}
	return &Reader{
		src:            src,
		buf:            buffer.New(opts.InitialBufferSize),
		readSize:       opts.ReadSize,
		maxHeaderBytes: opts.MaxHeaderBytes,
	}
}

// RequestFromReader parses an HTTP request head from reader incrementally
// with the default read and buffer sizes.
func RequestFromReader(reader io.Reader) (*Request, error) {
	return NewReader(reader, ReaderOptions{}).ReadRequest()
}

// ReadRequest reads until the request head is complete, the source ends or
// parsing fails.
func (rd *Reader) ReadRequest() (*Request, error) {
	r := NewRequest()
	lowWater := rd.readSize / 2

	for !r.Done() {
		rd.buf.GrowIfNeeded(lowWater)

		n, err := rd.src.Read(rd.buf.Free(rd.readSize))
		if n > 0 {
			rd.buf.Commit(n)
			consumed, perr := r.Feed(rd.buf.Bytes())
			if perr != nil {
				return nil, perr
			}
			rd.buf.Consume(consumed)
			if r.Done() {
				return r, nil
			}
			if rd.maxHeaderBytes > 0 && r.Consumed()+rd.buf.Len() > rd.maxHeaderBytes {
				return nil, fmt.Errorf("%w: more than %d bytes", ErrRequestHeadTooLarge, rd.maxHeaderBytes)
			}
		}
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("%w: got %d bytes", ErrStreamEndedPrematurely, r.Consumed()+rd.buf.Len())
		}
		if err != nil {
			return nil, fmt.Errorf("read request: %w", err)
		}
	}
	return r, nil
}

// Buffered returns a copy of the bytes read past the end of the request head.
func (rd *Reader) Buffered() []byte {
	return append([]byte(nil), rd.buf.Bytes()...)
}
