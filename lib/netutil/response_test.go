// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package netutil

import (
	"bufio"
	"errors"
	"io"
	"net"
	"strings"
	"testing"

	"github.com/salfa/cloudfile/lib/fault"
)

func readerFor(text string) *bufio.Reader {
	return bufio.NewReader(strings.NewReader(text))
}

func TestReadCompleteContentLength(t *testing.T) {
	t.Parallel()

	text := "HTTP/1.1 200 OK\r\nContent-Length: 5\r\n\r\nhelloEXTRA"
	reader := readerFor(text)
	response, err := ReadResponse(reader, ReadComplete)
	if err != nil {
		t.Fatalf("ReadResponse: %v", err)
	}
	if response.StatusCode != 200 {
		t.Errorf("StatusCode = %d, want 200", response.StatusCode)
	}
	if string(response.Body) != "hello" {
		t.Errorf("Body = %q, want %q", response.Body, "hello")
	}

	// Bytes past the declared length belong to the next response.
	rest, _ := io.ReadAll(reader)
	if string(rest) != "EXTRA" {
		t.Errorf("remaining = %q, want %q", rest, "EXTRA")
	}
}

func TestReadCompleteSequentialResponses(t *testing.T) {
	t.Parallel()

	text := "HTTP/1.1 200 OK\r\nContent-Length: 3\r\n\r\none" +
		"HTTP/1.1 404 Not Found\r\nContent-Length: 3\r\n\r\ntwo"
	reader := readerFor(text)

	first, err := ReadResponse(reader, ReadComplete)
	if err != nil {
		t.Fatalf("first ReadResponse: %v", err)
	}
	second, err := ReadResponse(reader, ReadComplete)
	if err != nil {
		t.Fatalf("second ReadResponse: %v", err)
	}
	if string(first.Body) != "one" || string(second.Body) != "two" {
		t.Errorf("bodies = %q, %q; want one, two", first.Body, second.Body)
	}
	if second.StatusCode != 404 {
		t.Errorf("second StatusCode = %d, want 404", second.StatusCode)
	}
}

func TestReadCompleteChunked(t *testing.T) {
	t.Parallel()

	text := "HTTP/1.1 200 OK\r\nTransfer-Encoding: chunked\r\n\r\n" +
		"4\r\nabcd\r\n3\r\nefg\r\n0\r\n\r\n"
	response, err := ReadResponse(readerFor(text), ReadComplete)
	if err != nil {
		t.Fatalf("ReadResponse: %v", err)
	}
	if string(response.Body) != "abcdefg" {
		t.Errorf("Body = %q, want %q", response.Body, "abcdefg")
	}
}

func TestReadCompleteUntilClose(t *testing.T) {
	t.Parallel()

	text := "HTTP/1.1 200 OK\r\nConnection: close\r\n\r\nall of it"
	response, err := ReadResponse(readerFor(text), ReadComplete)
	if err != nil {
		t.Fatalf("ReadResponse: %v", err)
	}
	if string(response.Body) != "all of it" {
		t.Errorf("Body = %q, want %q", response.Body, "all of it")
	}
}

func TestReadCompleteTruncatedHeaders(t *testing.T) {
	t.Parallel()

	_, err := ReadResponse(readerFor("HTTP/1.1 200 OK\r\nContent-Le"), ReadComplete)
	if !fault.IsKind(err, fault.UnexpectedEOF) {
		t.Fatalf("error = %v, want kind %s", err, fault.UnexpectedEOF)
	}
}

func TestReadSingleSplitsAtDelimiter(t *testing.T) {
	t.Parallel()

	text := "HTTP/1.1 200 OK\r\nContent-Length: 100\r\n\r\npartial body"
	response, err := ReadResponse(readerFor(text), ReadSingle)
	if err != nil {
		t.Fatalf("ReadResponse: %v", err)
	}
	if response.StatusCode != 200 {
		t.Errorf("StatusCode = %d, want 200", response.StatusCode)
	}
	// Single-read mode does not honor Content-Length.
	if string(response.Body) != "partial body" {
		t.Errorf("Body = %q, want %q", response.Body, "partial body")
	}
}

// chunkReader returns its chunks one Read at a time.
type chunkReader struct {
	chunks []string
}

func (r *chunkReader) Read(buffer []byte) (int, error) {
	if len(r.chunks) == 0 {
		return 0, io.EOF
	}
	count := copy(buffer, r.chunks[0])
	r.chunks = r.chunks[1:]
	return count, nil
}

func TestReadSingleReadsOnce(t *testing.T) {
	t.Parallel()

	source := &chunkReader{chunks: []string{
		"HTTP/1.1 200 OK\r\n\r\nfirst",
		"second",
	}}
	response, err := ReadResponse(bufio.NewReader(source), ReadSingle)
	if err != nil {
		t.Fatalf("ReadResponse: %v", err)
	}
	if string(response.Body) != "first" {
		t.Errorf("Body = %q, want %q", response.Body, "first")
	}
	if len(source.chunks) != 1 {
		t.Errorf("underlying reads consumed %d chunks, want 1", 2-len(source.chunks))
	}
}

func TestReadSingleMissingDelimiter(t *testing.T) {
	t.Parallel()

	_, err := ReadResponse(readerFor("HTTP/1.1 200 OK\r\nno end"), ReadSingle)
	if !fault.IsKind(err, fault.UnexpectedEOF) {
		t.Fatalf("error = %v, want kind %s", err, fault.UnexpectedEOF)
	}
	if body := fault.Body(err); body != "HTTP/1.1 200 OK\r\nno end" {
		t.Errorf("Body(err) = %q, want the raw response", body)
	}
}

func TestReadSingleEmpty(t *testing.T) {
	t.Parallel()

	_, err := ReadResponse(readerFor(""), ReadSingle)
	if !fault.IsKind(err, fault.UnexpectedEOF) {
		t.Fatalf("error = %v, want kind %s", err, fault.UnexpectedEOF)
	}
}

func TestParseReadMode(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		want    ReadMode
		wantErr bool
	}{
		{"", ReadComplete, false},
		{"complete", ReadComplete, false},
		{"single", ReadSingle, false},
		{"partial", "", true},
	}
	for _, test := range tests {
		got, err := ParseReadMode(test.name)
		if (err != nil) != test.wantErr {
			t.Errorf("ParseReadMode(%q) error = %v, wantErr %v", test.name, err, test.wantErr)
			continue
		}
		if got != test.want {
			t.Errorf("ParseReadMode(%q) = %q, want %q", test.name, got, test.want)
		}
	}
}

func TestIsExpectedCloseError(t *testing.T) {
	t.Parallel()

	if IsExpectedCloseError(nil) {
		t.Error("nil should not be an expected close error")
	}
	for _, err := range []error{io.EOF, net.ErrClosed, io.ErrClosedPipe} {
		if !IsExpectedCloseError(err) {
			t.Errorf("IsExpectedCloseError(%v) = false, want true", err)
		}
	}
	if IsExpectedCloseError(errors.New("disk on fire")) {
		t.Error("arbitrary error reported as expected close")
	}
}
