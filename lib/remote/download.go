// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package remote

import (
	"bytes"
	"fmt"
	"math/rand/v2"
	"regexp"

	"github.com/salfa/cloudfile/lib/fault"
)

// NotFoundMarker is the text the download page shows when the object
// id does not resolve ("failed to obtain download address").
const NotFoundMarker = "获取下载地址失败"

var (
	downloadURLPattern = regexp.MustCompile(`var\s+downloadUrl\s*=\s*'([^']*)'`)
	downloadURLPrefix  = regexp.MustCompile(`var\s+downloadUrl\s*=\s*'`)
)

// ParseDownloadPage extracts the direct download URL from a share
// page body.
func ParseDownloadPage(body []byte) (string, error) {
	const op = "remote.ParseDownloadPage"

	if match := downloadURLPattern.FindSubmatch(body); match != nil {
		return string(match[1]), nil
	}
	if downloadURLPrefix.Match(body) {
		return "", fault.Remote(fault.RemoteParse, op, "unterminated downloadUrl assignment", string(body))
	}
	if bytes.Contains(body, []byte(NotFoundMarker)) {
		return "", fault.New(fault.NotFound, op, "download link not found; check the object id")
	}
	return "", fault.Remote(fault.RemoteParse, op, "unrecognized download page", string(body))
}

// Referrer returns a Referer header value the download servers accept
// for URLs returned by [ParseDownloadPage]. The servers check only
// that the referrer is one of their four share mirrors.
func Referrer() string {
	return fmt.Sprintf("http://sharewh%d.xuexi365.com/", rand.IntN(4)+1)
}
