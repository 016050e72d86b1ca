// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package remote

import (
	"fmt"
	"net"
	"strings"
)

// PageSize is the number of directory records requested per listing
// call. The service rejects larger pages for this endpoint.
const PageSize = 4

// Production endpoints.
const (
	DefaultCatalogAddress  = "pan-yz.chaoxing.com:80"
	DefaultDownloadAddress = "sharewh.xuexi365.com:80"
)

// ListingPath returns the request target for one page of the directory
// listing under dirID. An empty dirID lists the account root.
func ListingPath(uid, token, dirID string) string {
	return fmt.Sprintf("/api/getMyDirAndFiles?puid=%s&_token=%s&fldid=%s&page=1&size=%d",
		uid, token, dirID, PageSize)
}

// DeletePath returns the request target acknowledging resIDs.
func DeletePath(uid, token string, resIDs []string) string {
	return fmt.Sprintf("/api/delete?puid=%s&_token=%s&resids=%s",
		uid, token, strings.Join(resIDs, ","))
}

// DownloadPath returns the request target for objectID's share page.
func DownloadPath(objectID string) string {
	return "/share/download/" + objectID
}

// ValidObjectID reports whether objectID can be placed in a request
// target. Space and control bytes would split or terminate the request
// line.
func ValidObjectID(objectID string) bool {
	if objectID == "" {
		return false
	}
	for index := 0; index < len(objectID); index++ {
		if b := objectID[index]; b <= ' ' || b == 0x7f {
			return false
		}
	}
	return true
}

// FormatRequest renders a bare GET request. No other headers are sent;
// the service answers without them and extra headers have been seen to
// change the response shape.
func FormatRequest(target, host string) string {
	return "GET " + target + " HTTP/1.1\r\nHost: " + host + "\r\n\r\n"
}

// HostHeader derives the Host header value from a dial address by
// dropping the port. Addresses without a port are returned unchanged.
func HostHeader(address string) string {
	host, _, err := net.SplitHostPort(address)
	if err != nil {
		return address
	}
	return host
}
