package headers

import (
	"bytes"
	"errors"
	"fmt"
	"sort"
	"strings"
)

var (
	// ErrNeedMoreData means no complete line is buffered yet. It is a control
	// signal: the caller retries once more bytes have arrived.
	ErrNeedMoreData = errors.New("need more data")

	ErrInvalidHeaderSpacing = errors.New("invalid header: whitespace before colon")
	ErrInvalidHeaderChar    = errors.New("invalid header: invalid character in field name")
	ErrMalformedHeader      = errors.New("invalid header: missing colon")
)

var crlf = []byte("\r\n")

// Headers maps lower-cased field names to their combined values.
type Headers map[string]string

// NewHeaders creates an empty Headers map.
func NewHeaders() Headers {
	return make(Headers)
}

// IndexCRLF returns the index of the '\r' of the first CRLF at or after
// from, or -1 if there is none.
func IndexCRLF(data []byte, from int) int {
	if from < 0 || from >= len(data) {
		return -1
	}
	idx := bytes.Index(data[from:], crlf)
	if idx == -1 {
		return -1
	}
	return from + idx
}

// Get looks a field up case-insensitively.
func (h Headers) Get(key string) string {
	return h[strings.ToLower(key)]
}

// Set stores value under the lower-cased key. If the key already exists the
// value is appended as "old, new", keeping arrival order.
func (h Headers) Set(key, value string) {
	key = strings.ToLower(key)
	if old, ok := h[key]; ok {
		h[key] = old + ", " + value
		return
	}
	h[key] = value
}

// Keys returns the field names in sorted order.
func (h Headers) Keys() []string {
	keys := make([]string, 0, len(h))
	for k := range h {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Parse consumes as many complete header lines from data as it can.
// It returns n (bytes consumed), done (true once the empty line was seen) and err.
// Behavior:
//   - Lines without a CRLF yet are left unconsumed; Parse returns what it took so far.
//   - The empty line ("\r\n") ends the block; nothing after it is consumed.
//   - On a malformed line Parse returns (0, false, err); the block is unusable.
func (h Headers) Parse(data []byte) (n int, done bool, err error) {
	for !done {
		consumed, last, perr := h.parseSingle(data, n)
		if errors.Is(perr, ErrNeedMoreData) {
			break
		}
		if perr != nil {
			return 0, false, perr
		}
		n += consumed
		done = last
	}
	return n, done, nil
}

// parseSingle parses the line starting at offset. Consumed bytes are relative
// to offset and include the CRLF.
func (h Headers) parseSingle(data []byte, offset int) (int, bool, error) {
	idx := IndexCRLF(data, offset)
	if idx == -1 {
		return 0, false, ErrNeedMoreData
	}
	if idx == offset {
		return 2, true, nil
	}

	line := data[offset:idx]
	colon := bytes.IndexByte(line, ':')
	if colon == -1 {
		return 0, false, fmt.Errorf("%w: %q", ErrMalformedHeader, line)
	}
	if colon > 0 {
		prev := line[colon-1]
		if prev == ' ' || prev == '\t' {
			return 0, false, fmt.Errorf("%w: %q", ErrInvalidHeaderSpacing, line)
		}
	}

	key := strings.TrimSpace(string(line[:colon]))
	if !validFieldName(key) {
		return 0, false, fmt.Errorf("%w: %q", ErrInvalidHeaderChar, key)
	}
	val := strings.TrimSpace(string(line[colon+1:]))

	h.Set(key, val)

	return idx - offset + 2, false, nil
}
