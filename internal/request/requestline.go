package request

import (
	"errors"
	"fmt"
	"strings"

	"github.com/xaitan80/reqhead/internal/headers"
)

var (
	ErrMalformedRequestLine = errors.New("invalid request line: want 3 parts")
	ErrInvalidMethod        = errors.New("invalid method")
	ErrInvalidTarget        = errors.New("invalid request target")
	ErrInvalidVersionFormat = errors.New("invalid http version format")
	ErrUnsupportedVersion   = errors.New("unsupported http version")
)

const versionPrefix = "HTTP/"

type RequestLine struct {
	HttpVersion   string
	RequestTarget string
	Method        string
}

// parseRequestLine attempts to parse a request-line from the beginning of data.
// It returns the parsed RequestLine, the number of bytes consumed (including
// the trailing CRLF) and the bytes after it. If no CRLF is found yet it
// returns ErrNeedMoreData and consumes nothing.
func parseRequestLine(data []byte) (RequestLine, int, []byte, error) {
	idx := headers.IndexCRLF(data, 0)
	if idx == -1 {
		return RequestLine{}, 0, nil, ErrNeedMoreData
	}
	line := string(data[:idx])

	parts := strings.Split(line, " ")
	if len(parts) != 3 {
		return RequestLine{}, 0, nil, fmt.Errorf("%w: %q", ErrMalformedRequestLine, line)
	}
	method, target, version := parts[0], parts[1], parts[2]

	if !validMethod(method) {
		return RequestLine{}, 0, nil, fmt.Errorf("%w: %q", ErrInvalidMethod, method)
	}
	if !strings.HasPrefix(target, "/") && !(method == "OPTIONS" && target == "*") {
		return RequestLine{}, 0, nil, fmt.Errorf("%w: %q", ErrInvalidTarget, target)
	}
	if !strings.HasPrefix(version, versionPrefix) {
		return RequestLine{}, 0, nil, fmt.Errorf("%w: %q", ErrInvalidVersionFormat, version)
	}
	ver := strings.TrimPrefix(version, versionPrefix)
	if ver != "1.1" {
		return RequestLine{}, 0, nil, fmt.Errorf("%w: %q", ErrUnsupportedVersion, ver)
	}

	rl := RequestLine{
		Method:        method,
		RequestTarget: target,
		HttpVersion:   ver,
	}
	consumed := idx + 2
	return rl, consumed, data[consumed:], nil
}

func validMethod(method string) bool {
	switch method {
	case "GET", "POST", "PUT", "DELETE", "PATCH", "HEAD", "OPTIONS":
		return true
	default:
		return false
	}
}
