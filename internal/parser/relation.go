// graveyard - personal archive crawler
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/graveyard

package parser

import (
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// RelationEntry is one row scraped from a contacts listing (following,
// followers, or block list — §4.6 FollowingFollowerTask). The parser has
// no store access, so the task resolves UniqueName to a User row itself
// via fetchUser.
type RelationEntry struct {
	DoubanID   int64
	UniqueName string
	Name       string
}

// ParseContactsPage scrapes one page of a following/follower/blocklist
// listing. All three share the same "lst" markup on douban; only the
// fetch URL differs by relation kind, which is the caller's concern, not
// the parser's.
func ParseContactsPage(body []byte) ([]RelationEntry, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(string(body)))
	if err != nil {
		return nil, fmt.Errorf("parser: parse contacts page: %w", err)
	}

	var out []RelationEntry
	doc.Find("dl.obu, li.user-item").Each(func(_ int, s *goquery.Selection) {
		href, _ := s.Find("a.nbg, a.user-name").First().Attr("href")
		doubanID, ok := ExtractDoubanID(href)
		if !ok {
			return
		}
		uniqueName, _ := ExtractUniqueName(href)

		out = append(out, RelationEntry{
			DoubanID:   doubanID,
			UniqueName: uniqueName,
			Name:       strings.TrimSpace(s.Find("a.nbg, a.user-name").First().AttrOr("title", s.Find("a.nbg, a.user-name").First().Text())),
		})
	})
	return out, nil
}
