// graveyard - personal archive crawler
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/graveyard

package fetcher

import (
	"context"
	"mime"
	"path"
)

// Download fetches sourceURL's raw bytes for attachment realization
// (§4.6 "Attachment realization"). It shares Get's pacing, retry and
// forbidden-detection behavior, and additionally reports the best-guess
// MIME type from the Content-Type header (falling back to the URL
// extension) so callers can record it alongside the cached file.
func (f *Fetcher) Download(ctx context.Context, sourceURL string) (body []byte, mimeType string, err error) {
	resp, err := f.Get(ctx, sourceURL, sourceURL)
	if err != nil {
		return nil, "", err
	}
	if resp == nil {
		return nil, "", nil
	}

	mimeType = resp.Header.Get("Content-Type")
	if mimeType == "" {
		mimeType = mime.TypeByExtension(path.Ext(sourceURL))
	}
	return resp.Body, mimeType, nil
}

// URLExtension returns the lowercased file extension (including the dot)
// of url's path, or "" if it has none (§6 cache layout "<cache>/HH/HH/
// RRRRRR.EXT").
func URLExtension(rawURL string) string {
	return path.Ext(stripQuery(rawURL))
}

func stripQuery(rawURL string) string {
	for i, c := range rawURL {
		if c == '?' || c == '#' {
			return rawURL[:i]
		}
	}
	return rawURL
}
