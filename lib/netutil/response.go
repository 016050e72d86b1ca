// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package netutil

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strconv"
	"strings"

	"github.com/salfa/cloudfile/lib/fault"
)

// MaxResponseSize bounds body reads: 16 MB. The listing and download
// endpoints answer with a few kilobytes; the bound only guards against
// a misbehaving peer.
const MaxResponseSize int64 = 16 << 20

// LegacyReadSize is the buffer size of a single-read response.
const LegacyReadSize = 8192

// ReadMode selects how much of a response is consumed.
type ReadMode string

const (
	// ReadComplete reads the full framed response.
	ReadComplete ReadMode = "complete"

	// ReadSingle reads one buffered chunk. Legacy-compatible only.
	ReadSingle ReadMode = "single"
)

// ParseReadMode validates a mode name. The empty string selects
// ReadComplete.
func ParseReadMode(name string) (ReadMode, error) {
	switch ReadMode(name) {
	case "", ReadComplete:
		return ReadComplete, nil
	case ReadSingle:
		return ReadSingle, nil
	default:
		return "", fmt.Errorf("unknown read mode %q (want %q or %q)", name, ReadComplete, ReadSingle)
	}
}

// Response is a framed HTTP response.
type Response struct {
	// StatusCode is the numeric status, or 0 if the status line could
	// not be parsed in single-read mode.
	StatusCode int

	// Body is the raw body text.
	Body []byte
}

// ReadResponse reads one response from reader according to mode. In
// ReadSingle mode the underlying reader is read at most once and any
// bufio buffering is bypassed.
//
// A response without a header/body delimiter fails with
// [fault.UnexpectedEOF]; transport errors are returned wrapped.
func ReadResponse(reader *bufio.Reader, mode ReadMode) (*Response, error) {
	switch mode {
	case ReadSingle:
		return readSingle(reader)
	case ReadComplete, "":
		return readComplete(reader)
	default:
		return nil, fmt.Errorf("unknown read mode %q", mode)
	}
}

func readComplete(reader *bufio.Reader) (*Response, error) {
	response, err := http.ReadResponse(reader, nil)
	if err != nil {
		var netErr net.Error
		if errors.As(err, &netErr) {
			return nil, fmt.Errorf("reading response: %w", err)
		}
		return nil, fault.Wrap(fault.UnexpectedEOF, "netutil.ReadResponse", err, "malformed response framing")
	}
	defer response.Body.Close()

	body, err := io.ReadAll(io.LimitReader(response.Body, MaxResponseSize))
	if err != nil {
		return nil, fault.Wrap(fault.UnexpectedEOF, "netutil.ReadResponse", err, "reading response body")
	}
	return &Response{StatusCode: response.StatusCode, Body: body}, nil
}

func readSingle(reader *bufio.Reader) (*Response, error) {
	buffer := make([]byte, LegacyReadSize)

	// bufio.Reader.Read returns already-buffered bytes first and
	// otherwise issues at most one Read on the underlying stream.
	count, err := reader.Read(buffer)
	if count == 0 {
		if err == nil || err == io.EOF {
			return nil, fault.New(fault.UnexpectedEOF, "netutil.ReadResponse", "empty response")
		}
		return nil, fmt.Errorf("reading response: %w", err)
	}
	data := buffer[:count]

	head, body, found := bytes.Cut(data, []byte("\r\n\r\n"))
	if !found {
		return nil, fault.Remote(fault.UnexpectedEOF, "netutil.ReadResponse",
			"no header/body delimiter in response", string(data))
	}
	return &Response{StatusCode: parseStatusCode(head), Body: bytes.Clone(body)}, nil
}

// parseStatusCode extracts the code from "HTTP/1.1 200 OK".
func parseStatusCode(head []byte) int {
	statusLine, _, _ := bytes.Cut(head, []byte("\r\n"))
	fields := strings.Fields(string(statusLine))
	if len(fields) < 2 {
		return 0
	}
	code, err := strconv.Atoi(fields[1])
	if err != nil {
		return 0
	}
	return code
}
