// graveyard - personal archive crawler
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/graveyard

package parser

import (
	"fmt"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
)

// CommentEntry is one comment scraped from a target's comment-pagination
// listing (§4.6 BroadcastCommentTask). AuthorUniqueName is resolved by the
// task, the same as BroadcastEntry.AuthorUniqueName.
type CommentEntry struct {
	DoubanID         int64
	AuthorUniqueName string
	Text             string
	CreatedAt        time.Time
}

// ParseCommentsPage scrapes one page of a broadcast/note/album comment
// thread.
func ParseCommentsPage(body []byte) ([]CommentEntry, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(string(body)))
	if err != nil {
		return nil, fmt.Errorf("parser: parse comments page: %w", err)
	}

	var out []CommentEntry
	doc.Find("li.comment-item").Each(func(_ int, s *goquery.Selection) {
		commentURL, _ := s.Find("a.comment-permalink").Attr("href")
		doubanID, ok := ExtractDoubanID(commentURL)
		if !ok {
			return
		}

		authorURL, _ := s.Find("a.comment-author").Attr("href")
		authorName, _ := ExtractUniqueName(authorURL)
		createdAt, _ := time.Parse("2006-01-02 15:04:05", strings.TrimSpace(s.Find("span.comment-time").Text()))

		out = append(out, CommentEntry{
			DoubanID:         doubanID,
			AuthorUniqueName: authorName,
			Text:             strings.TrimSpace(s.Find("span.comment-content").Text()),
			CreatedAt:        createdAt,
		})
	})
	return out, nil
}
