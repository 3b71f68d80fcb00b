package request

import (
	"errors"
	"fmt"
	"io"

	"github.com/xaitan80/reqhead/internal/headers"
)

// ErrNeedMoreData is the parser's "come back with more bytes" signal.
// Feed and ReadRequest never return it.
var ErrNeedMoreData = headers.ErrNeedMoreData

// State is the position of a Request in its parse. Only the three constants
// below exist; a Request's state moves forward through them and never back.
type State uint8

const (
	StateStart State = iota
	StateParsingHeaders
	StateDone
)

func (s State) String() string {
	switch s {
	case StateStart:
		return "start"
	case StateParsingHeaders:
		return "parsing headers"
	case StateDone:
		return "done"
	default:
		return fmt.Sprintf("State(%d)", uint8(s))
	}
}

// Request is one HTTP/1.1 request head, filled in by Feed.
// A Request is owned by a single connection and is not safe for concurrent use.
type Request struct {
	RequestLine RequestLine
	Headers     headers.Headers
	state       State
	consumed    int
}

// NewRequest returns an empty Request waiting for its request line.
func NewRequest() *Request {
	return &Request{state: StateStart, Headers: headers.NewHeaders()}
}

func (r *Request) State() State { return r.state }

// Done reports whether the blank line ending the header block has been seen.
func (r *Request) Done() bool { return r.state == StateDone }

// Consumed is the total number of bytes Feed has accepted so far.
func (r *Request) Consumed() int { return r.consumed }

// Feed parses as much of data as it can and returns the number of bytes
// consumed. Unconsumed bytes must be offered again, with more appended, on
// the next call. Once the request is done Feed is a no-op returning 0.
// A non-nil error is fatal for the request; the state is left unchanged.
func (r *Request) Feed(data []byte) (int, error) {
	switch r.state {
	case StateStart:
		rl, n, rest, err := parseRequestLine(data)
		if errors.Is(err, ErrNeedMoreData) {
			return 0, nil
		}
		if err != nil {
			return 0, err
		}
		hn, done, err := r.parseHeaders(rest)
		if err != nil {
			return 0, err
		}
		r.RequestLine = rl
		r.state = StateParsingHeaders
		if done {
			r.state = StateDone
		}
		r.consumed += n + hn
		return n + hn, nil
	case StateParsingHeaders:
		n, done, err := r.parseHeaders(data)
		if err != nil {
			return 0, err
		}
		if done {
			r.state = StateDone
		}
		r.consumed += n
		return n, nil
	case StateDone:
		return 0, nil
	default:
		return 0, fmt.Errorf("invalid parser state %v", r.state)
	}
}

// Describe writes the request line and headers in a human readable form:
//
//	Request line:
//	- Method: GET
//	- Target: /
//	- Version: 1.1
//	Headers:
//	- host: localhost:9001
func (r *Request) Describe(w io.Writer) error {
	if _, err := fmt.Fprintf(w, "Request line:\n- Method: %s\n- Target: %s\n- Version: %s\nHeaders:\n",
		r.RequestLine.Method, r.RequestLine.RequestTarget, r.RequestLine.HttpVersion); err != nil {
		return err
	}
	for _, k := range r.Headers.Keys() {
		if _, err := fmt.Fprintf(w, "- %s: %s\n", k, r.Headers[k]); err != nil {
			return err
		}
	}
	return nil
}

// parseHeaders parses into a scratch table and merges it into r.Headers only
// on success, so a failed Feed leaves the headers untouched.
func (r *Request) parseHeaders(data []byte) (int, bool, error) {
	scratch := headers.NewHeaders()
	n, done, err := scratch.Parse(data)
	if err != nil {
		return 0, false, err
	}
	for k, v := range scratch {
		r.Headers.Set(k, v)
	}
	return n, done, nil
}
