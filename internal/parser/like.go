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

// FavoriteTargetBroadcast and FavoriteTargetReview are the Favorite.TargetType
// values a likes listing can produce.
const (
	FavoriteTargetBroadcast = "broadcast"
	FavoriteTargetReview    = "review"
)

// LikeEntry is one row scraped from a user's "likes" (收藏的广播/do-ed
// favorites) listing (§4.6 LikeTask). TargetType distinguishes a liked
// broadcast from a liked review, since both share the same favorites
// feed markup but link to different subject pages.
type LikeEntry struct {
	TargetDoubanID int64
	TargetType     string
	CreatedAt      time.Time
}

// ParseLikesPage scrapes one page of a user's favorites/likes listing.
func ParseLikesPage(body []byte) ([]LikeEntry, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(string(body)))
	if err != nil {
		return nil, fmt.Errorf("parser: parse likes page: %w", err)
	}

	var out []LikeEntry
	doc.Find("li.like-item, div.fav-item").Each(func(_ int, s *goquery.Selection) {
		href, _ := s.Find("a.target-link, a.title").First().Attr("href")
		targetID, ok := ExtractDoubanID(href)
		if !ok {
			return
		}
		createdAt, _ := time.Parse("2006-01-02 15:04:05", strings.TrimSpace(s.Find("span.like-time").Text()))

		out = append(out, LikeEntry{
			TargetDoubanID: targetID,
			TargetType:     favoriteTypeFromURL(href),
			CreatedAt:      createdAt,
		})
	})
	return out, nil
}

func favoriteTypeFromURL(url string) string {
	switch {
	case strings.Contains(url, "/status/"):
		return FavoriteTargetBroadcast
	case strings.Contains(url, "/review/"):
		return FavoriteTargetReview
	default:
		return FavoriteTargetBroadcast
	}
}
