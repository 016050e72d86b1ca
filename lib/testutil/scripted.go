// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package testutil

import (
	"bufio"
	"context"
	"fmt"
	"net"
	"net/http"
	"strings"
	"sync"
)

// Request is one HTTP request received by a [ScriptedDialer].
type Request struct {
	// Address is the dial address the connection was opened to.
	Address string

	// Line is the request line, e.g. "GET /share/download/x HTTP/1.1".
	Line string

	// Raw is the complete request text including the blank line.
	Raw string
}

// Target returns the request target from Line.
func (r Request) Target() string {
	fields := strings.Fields(r.Line)
	if len(fields) < 2 {
		return ""
	}
	return fields[1]
}

// Handler produces the raw response text for one request. Returning
// the empty string closes the connection without answering.
type Handler func(request Request) string

// ScriptedDialer hands out in-memory connections answered by
// per-address handlers. Safe for concurrent use.
type ScriptedDialer struct {
	mu          sync.Mutex
	handlers    map[string]Handler
	log         []Request
	requests    chan Request
	connections []*ScriptedConn
}

// NewScriptedDialer returns a dialer with no handlers. Dialing an
// address without a handler fails as if the connection were refused.
func NewScriptedDialer() *ScriptedDialer {
	return &ScriptedDialer{
		handlers: make(map[string]Handler),
		requests: make(chan Request, 256),
	}
}

// Handle installs handler for address, replacing any previous one.
func (d *ScriptedDialer) Handle(address string, handler Handler) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.handlers[address] = handler
}

// DialContext implements the session dialer interface.
func (d *ScriptedDialer) DialContext(ctx context.Context, network, address string) (net.Conn, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	d.mu.Lock()
	handler, ok := d.handlers[address]
	d.mu.Unlock()
	if !ok {
		return nil, &net.OpError{Op: "dial", Net: network, Err: fmt.Errorf("connection refused: no handler for %s", address)}
	}

	client, server := net.Pipe()
	conn := &ScriptedConn{Address: address, done: make(chan struct{})}
	d.mu.Lock()
	d.connections = append(d.connections, conn)
	d.mu.Unlock()

	go d.serve(conn, server, handler)
	return client, nil
}

func (d *ScriptedDialer) serve(conn *ScriptedConn, server net.Conn, handler Handler) {
	defer close(conn.done)
	defer server.Close()

	reader := bufio.NewReader(server)
	for {
		request, err := readRequest(reader)
		if err != nil {
			return
		}
		request.Address = conn.Address

		d.mu.Lock()
		d.log = append(d.log, request)
		d.mu.Unlock()
		select {
		case d.requests <- request:
		default:
		}

		response := handler(request)
		if response == "" {
			return
		}
		if _, err := server.Write([]byte(response)); err != nil {
			return
		}
	}
}

// readRequest reads header lines up to and including the blank line.
func readRequest(reader *bufio.Reader) (Request, error) {
	var raw strings.Builder
	var request Request
	for {
		line, err := reader.ReadString('\n')
		if err != nil {
			return Request{}, err
		}
		raw.WriteString(line)
		if request.Line == "" {
			request.Line = strings.TrimRight(line, "\r\n")
		}
		if line == "\r\n" || line == "\n" {
			request.Raw = raw.String()
			return request, nil
		}
	}
}

// Requests returns a channel receiving every request as it arrives.
func (d *ScriptedDialer) Requests() <-chan Request {
	return d.requests
}

// Log returns all requests received so far, in arrival order.
func (d *ScriptedDialer) Log() []Request {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]Request(nil), d.log...)
}

// Connections returns every connection dialed so far.
func (d *ScriptedDialer) Connections() []*ScriptedConn {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]*ScriptedConn(nil), d.connections...)
}

// ScriptedConn tracks the server side of one dialed connection.
type ScriptedConn struct {
	Address string
	done    chan struct{}
}

// Done is closed once the connection has been torn down by either
// side.
func (c *ScriptedConn) Done() <-chan struct{} {
	return c.done
}

// HTTPResponse renders a complete HTTP/1.1 response with a
// Content-Length header.
func HTTPResponse(status int, body string) string {
	return fmt.Sprintf("HTTP/1.1 %d %s\r\nContent-Type: text/html;charset=UTF-8\r\nContent-Length: %d\r\n\r\n%s",
		status, http.StatusText(status), len(body), body)
}
