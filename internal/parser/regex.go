// graveyard - personal archive crawler
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/graveyard

package parser

import (
	"regexp"
	"strconv"
	"strings"
)

// profileURLPattern extracts the unique_name path segment from a profile
// URL such as "https://www.douban.com/people/some-name/" (§4.3 "Regex
// extractors for usernames from profile URLs").
var profileURLPattern = regexp.MustCompile(`douban\.com/people/([^/]+)/?`)

// doubanIDPattern extracts the first run of digits anywhere in a path,
// used for subject/note/broadcast/album/comment URLs like
// ".../subject/1234567/" or ".../status/1234567890/".
var doubanIDPattern = regexp.MustCompile(`/(\d+)/?(?:\?.*)?$`)

// leadingIntPattern keeps only the leading integer of a count string that
// may carry trailing descriptive text ("128 人关注" -> "128").
var leadingIntPattern = regexp.MustCompile(`^[\s]*([\d.]+)\s*(万|亿)?`)

// ExtractUniqueName pulls the unique_name out of a douban profile URL. The
// second return value is false if url does not look like a profile link.
func ExtractUniqueName(url string) (string, bool) {
	m := profileURLPattern.FindStringSubmatch(url)
	if m == nil {
		return "", false
	}
	return m[1], true
}

// ExtractDoubanID pulls the trailing numeric id out of a douban resource
// URL. The second return value is false if no digits were found, which
// callers treat as a ParseMissing skip for required-id fields.
func ExtractDoubanID(url string) (int64, bool) {
	m := doubanIDPattern.FindStringSubmatch(url)
	if m == nil {
		return 0, false
	}
	id, err := strconv.ParseInt(m[1], 10, 64)
	if err != nil {
		return 0, false
	}
	return id, true
}

// ParseCount parses a site-rendered counter that may carry Chinese
// magnitude suffixes (万 = 10,000; 亿 = 100,000,000) and/or trailing
// descriptive text ("1.2万次播放" -> 12000). It keeps only the leading
// integer/decimal run per §4.3 "Counts that parse with extra text keep
// only the leading integer"; an unparseable string yields 0, never an
// error, since counters are never a required identifying field.
func ParseCount(text string) int64 {
	text = strings.TrimSpace(text)
	m := leadingIntPattern.FindStringSubmatch(text)
	if m == nil || m[1] == "" {
		return 0
	}

	value, err := strconv.ParseFloat(m[1], 64)
	if err != nil {
		return 0
	}

	switch m[2] {
	case "万":
		value *= 10000
	case "亿":
		value *= 100000000
	}
	return int64(value)
}
