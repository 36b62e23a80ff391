// graveyard - personal archive crawler
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/graveyard

package fetcher

import "net/http"

// userAgent mimics a desktop browser; the archived site serves a reduced
// mobile layout to unrecognized agents for some endpoints.
const userAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0.0.0 Safari/537.36"

// applyHeaders sets the fixed header set §4.2 requires on every request:
// User-Agent, Accept*, Referer (set to the site root so a deep link still
// passes the "came from this site" check some endpoints apply), and
// Pragma: no-cache so an intermediate proxy does not serve a stale 304.
func applyHeaders(req *http.Request, target string) {
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	req.Header.Set("Accept-Language", "en-US,en;q=0.9,zh-CN;q=0.8")
	req.Header.Set("Accept-Encoding", "identity")
	req.Header.Set("Referer", SiteRoot+"/")
	req.Header.Set("Pragma", "no-cache")
	req.Header.Set("Cache-Control", "no-cache")
}
