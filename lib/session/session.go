// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package session

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"net"
	"time"

	"github.com/salfa/cloudfile/lib/catalog"
	"github.com/salfa/cloudfile/lib/fault"
	"github.com/salfa/cloudfile/lib/netutil"
	"github.com/salfa/cloudfile/lib/remote"
)

// DefaultDialTimeout bounds connection establishment when Options
// supplies no Dialer.
const DefaultDialTimeout = 10 * time.Second

// ErrDrained is returned by Scan when a round adds no entries. It
// matches with errors.Is and carries [fault.Exhausted].
var ErrDrained = fault.Sentinel(fault.Exhausted)

// Dialer opens byte-stream connections. *net.Dialer satisfies it.
type Dialer interface {
	DialContext(ctx context.Context, network, address string) (net.Conn, error)
}

// Options configures a Session. The zero value talks to the production
// hosts with complete-read framing.
type Options struct {
	// CatalogAddress is the host:port of the listing/delete API.
	CatalogAddress string

	// DownloadAddress is the host:port serving share download pages.
	DownloadAddress string

	// ReadMode selects response framing. Empty means
	// netutil.ReadComplete.
	ReadMode netutil.ReadMode

	// Dialer opens connections. Nil means a *net.Dialer with
	// DialTimeout.
	Dialer Dialer

	// DialTimeout is used only when Dialer is nil. Zero means
	// DefaultDialTimeout.
	DialTimeout time.Duration

	// Logger receives connection and scan progress. Nil means
	// slog.Default(). Tokens are never logged.
	Logger *slog.Logger
}

// Session drives remote operations for one catalog.
type Session struct {
	catalog *catalog.Catalog

	catalogAddress  string
	downloadAddress string
	readMode        netutil.ReadMode
	dialer          Dialer
	logger          *slog.Logger

	state  State
	conn   net.Conn
	reader *bufio.Reader
}

// New returns a disconnected Session operating on cat. Scan mutates
// cat in place.
func New(cat *catalog.Catalog, options Options) *Session {
	session := &Session{
		catalog:         cat,
		catalogAddress:  options.CatalogAddress,
		downloadAddress: options.DownloadAddress,
		readMode:        options.ReadMode,
		dialer:          options.Dialer,
		logger:          options.Logger,
	}
	if session.catalogAddress == "" {
		session.catalogAddress = remote.DefaultCatalogAddress
	}
	if session.downloadAddress == "" {
		session.downloadAddress = remote.DefaultDownloadAddress
	}
	if session.readMode == "" {
		session.readMode = netutil.ReadComplete
	}
	if session.dialer == nil {
		timeout := options.DialTimeout
		if timeout == 0 {
			timeout = DefaultDialTimeout
		}
		session.dialer = &net.Dialer{Timeout: timeout}
	}
	if session.logger == nil {
		session.logger = slog.Default()
	}
	return session
}

// Catalog returns the catalog this session mutates.
func (s *Session) Catalog() *catalog.Catalog {
	return s.catalog
}

// State returns the current connection state.
func (s *Session) State() State {
	return s.state
}

func (s *Session) addressFor(target Target) string {
	if target == DownloadHost {
		return s.downloadAddress
	}
	return s.catalogAddress
}

// Connect opens a fresh connection to target, closing any existing
// connection first. On failure the session is left Disconnected.
func (s *Session) Connect(ctx context.Context, target Target) error {
	if target != CatalogHost && target != DownloadHost {
		return fault.New(fault.InvalidInput, "session.Connect", "unknown target %v", target)
	}
	if err := s.Disconnect(); err != nil {
		s.logger.Debug("closing previous connection", "error", err)
	}

	address := s.addressFor(target)
	conn, err := s.dialer.DialContext(ctx, "tcp", address)
	if err != nil {
		return fmt.Errorf("connecting to %s host %s: %w", target, address, err)
	}

	s.conn = conn
	s.reader = bufio.NewReader(conn)
	s.state = stateFor(target)
	s.logger.Info("connected", "target", target.String(), "address", address)
	return nil
}

// Disconnect closes the connection, if any, and returns the session to
// Disconnected. Errors from a connection the peer already closed are
// not reported.
func (s *Session) Disconnect() error {
	if s.conn == nil {
		s.state = Disconnected
		return nil
	}
	previous := s.state
	err := s.conn.Close()
	s.conn = nil
	s.reader = nil
	s.state = Disconnected
	s.logger.Info("disconnected", "previous", previous.String())
	if err != nil && !netutil.IsExpectedCloseError(err) {
		return fmt.Errorf("closing connection: %w", err)
	}
	return nil
}

// require checks that the session is in want.
func (s *Session) require(op string, want State) error {
	if s.state != want || s.conn == nil {
		return fault.New(fault.NotConnected, op, "session is %s, need %s", s.state, want)
	}
	return nil
}

// roundTrip sends one GET for requestTarget and reads the response.
func (s *Session) roundTrip(ctx context.Context, address, requestTarget string) (*netutil.Response, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if deadline, ok := ctx.Deadline(); ok {
		if err := s.conn.SetDeadline(deadline); err != nil {
			return nil, fmt.Errorf("setting deadline: %w", err)
		}
		defer s.conn.SetDeadline(time.Time{})
	}

	request := remote.FormatRequest(requestTarget, remote.HostHeader(address))
	if _, err := io.WriteString(s.conn, request); err != nil {
		return nil, fmt.Errorf("sending request: %w", err)
	}
	return netutil.ReadResponse(s.reader, s.readMode)
}
