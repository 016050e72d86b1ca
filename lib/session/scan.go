// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package session

import (
	"context"
	"errors"
	"fmt"

	"github.com/salfa/cloudfile/lib/catalog"
	"github.com/salfa/cloudfile/lib/fault"
	"github.com/salfa/cloudfile/lib/remote"
)

// Scan runs one listing round against the catalog host and returns the
// number of entries it added (at most remote.PageSize).
//
// The round lists one page, appends its records to the catalog, and
// acknowledges them with a delete call. A delete the service refuses
// is logged and does not fail the round. Separator bytes in names are
// replaced with U+FFFD; a record whose object id holds one is
// acknowledged but not stored. A round whose listing is empty
// disconnects the session and returns an error matching ErrDrained.
func (s *Session) Scan(ctx context.Context) (int, error) {
	const op = "session.Scan"
	if err := s.require(op, ConnectedCatalogHost); err != nil {
		return 0, err
	}
	credentials := s.catalog.Credentials()

	response, err := s.roundTrip(ctx, s.catalogAddress,
		remote.ListingPath(credentials.UID, credentials.Token, credentials.DirID))
	if err != nil {
		return 0, fmt.Errorf("listing directory: %w", err)
	}
	records, err := remote.ParseListing(response.Body)
	if err != nil {
		return 0, err
	}

	entries := make([]catalog.Entry, 0, len(records))
	resIDs := make([]string, 0, len(records))
	for _, record := range records {
		// Every listed record is acknowledged, stored or not; an
		// unacknowledged record would head every later listing.
		resIDs = append(resIDs, record.ResID)
		if !catalog.ValidObjectID(record.ObjectID) {
			s.logger.Warn("skipping record with unstorable object id", "residstr", record.ResID)
			continue
		}
		entries = append(entries, catalog.Entry{
			Name:     catalog.SanitizeName(record.Name),
			ObjectID: record.ObjectID,
		})
	}
	if len(entries) > 0 {
		// Append re-serializes, so the container bytes already hold
		// this round if the acknowledgment below fails.
		if err := s.catalog.Append(entries...); err != nil {
			return 0, err
		}
	}

	if err := s.acknowledge(ctx, credentials, resIDs); err != nil {
		return len(entries), err
	}

	if len(records) == 0 {
		if err := s.Disconnect(); err != nil {
			s.logger.Warn("disconnecting after scan convergence", "error", err)
		}
		s.logger.Info("scan converged", "entries", s.catalog.Len())
		return 0, fault.New(fault.Exhausted, op, "scan finished: listing returned no records")
	}

	s.logger.Debug("scan round", "added", len(entries), "entries", s.catalog.Len())
	return len(entries), nil
}

// acknowledge deletes the scanned records from the remote listing. An
// empty id list is a no-op. Refusals are logged; transport failures
// are returned.
func (s *Session) acknowledge(ctx context.Context, credentials catalog.Credentials, resIDs []string) error {
	if len(resIDs) == 0 {
		return nil
	}
	response, err := s.roundTrip(ctx, s.catalogAddress,
		remote.DeletePath(credentials.UID, credentials.Token, resIDs))
	if err != nil {
		return fmt.Errorf("acknowledging %d records: %w", len(resIDs), err)
	}

	removed, err := remote.ParseDeleteAck(response.Body)
	switch {
	case err != nil:
		s.logger.Warn("delete acknowledgment refused", "records", len(resIDs), "error", err)
	case !removed:
		s.logger.Warn("delete acknowledgment reported no removal", "records", len(resIDs))
	}
	return nil
}

// ScanAll repeats Scan until the listing is drained and returns the
// total number of entries added. Convergence is not an error; the
// session is Disconnected when ScanAll returns nil.
func (s *Session) ScanAll(ctx context.Context) (int, error) {
	total := 0
	for {
		added, err := s.Scan(ctx)
		total += added
		if errors.Is(err, ErrDrained) {
			return total, nil
		}
		if err != nil {
			return total, err
		}
	}
}
