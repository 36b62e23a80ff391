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

	"github.com/tomtom215/graveyard/internal/models"
)

// BroadcastEntry is one status item scraped from a broadcasts timeline
// page (§4.3, §4.6 BroadcastTask). AuthorUniqueName is resolved to a User
// row by the task via fetchUser, never by the parser, which has no store
// access. InnerEntry is populated when Kind is "reshare": the parser
// recurses into the embedded original status markup so the task can
// persist it first (§4.6 "if it is a reshare, parse the inner status too
// and persist it first so the outer can reference it").
type BroadcastEntry struct {
	DoubanID         int64
	AuthorUniqueName string
	Kind             models.BroadcastKind
	Text             string
	AttachmentURLs   []string
	ReshareOfDoubanID int64
	ResharedCount    int64
	LikeCount        int64
	CommentsCount    int64
	CreatedAt        time.Time
	InnerEntry       *BroadcastEntry
}

// ParseBroadcastPage scrapes one page of a user's status stream.
// Malformed individual items are skipped (logged by the caller), not
// fatal to the page (§4.3 "Parsers MUST be tolerant").
func ParseBroadcastPage(body []byte) ([]BroadcastEntry, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(string(body)))
	if err != nil {
		return nil, fmt.Errorf("parser: parse broadcast page: %w", err)
	}

	var out []BroadcastEntry
	doc.Find("div.status-item").Each(func(_ int, s *goquery.Selection) {
		entry, err := parseBroadcastItem(s)
		if err != nil {
			return
		}
		out = append(out, entry)
	})
	return out, nil
}

func parseBroadcastItem(s *goquery.Selection) (BroadcastEntry, error) {
	statusURL, _ := s.Find("a.permalink").Attr("href")
	doubanID, ok := ExtractDoubanID(statusURL)
	if !ok {
		return BroadcastEntry{}, fmt.Errorf("broadcast: %w", ErrSkip)
	}

	authorURL, _ := s.Find("a.lnk-people").Attr("href")
	authorName, _ := ExtractUniqueName(authorURL)

	createdAt, _ := time.Parse("2006-01-02 15:04:05", strings.TrimSpace(s.Find("span.created_at").Text()))

	entry := BroadcastEntry{
		DoubanID:         doubanID,
		AuthorUniqueName: authorName,
		Text:             strings.TrimSpace(s.Find("div.status-saying").Text()),
		ResharedCount:    ParseCount(s.Find("a.reshare-count").Text()),
		LikeCount:        ParseCount(s.Find("a.like-count").Text()),
		CommentsCount:    ParseCount(s.Find("a.comment-count").Text()),
		CreatedAt:        createdAt,
	}

	s.Find("div.status-saying img").Each(func(_ int, img *goquery.Selection) {
		if src, ok := img.Attr("src"); ok {
			entry.AttachmentURLs = append(entry.AttachmentURLs, src)
		}
	})

	if reshare := s.Find("div.status-reshared"); reshare.Length() > 0 {
		entry.Kind = models.BroadcastReshare
		innerURL, _ := reshare.Find("a.permalink").Attr("href")
		if innerID, ok := ExtractDoubanID(innerURL); ok {
			entry.ReshareOfDoubanID = innerID
		}
		inner, err := parseBroadcastItem(reshare)
		if err == nil {
			entry.InnerEntry = &inner
		}
	} else if entry.Text != "" || len(entry.AttachmentURLs) > 0 {
		entry.Kind = models.BroadcastSaying
	} else {
		entry.Kind = models.BroadcastNoReply
	}

	return entry, nil
}
