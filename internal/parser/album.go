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

// AlbumEntry is one photo album scraped from a user's albums index page
// (§4.6 PhotoAlbumTask). LastUpdated drives the §3 refresh condition
// ("album refreshed when last_updated changes or local copy is
// expired").
type AlbumEntry struct {
	DoubanID    int64
	Title       string
	Description string
	Cover       string
	PhotoCount  int64
	LastUpdated time.Time
}

// ParseAlbumsPage scrapes a user's photo-albums index. Auto-detects the
// small-site layout the same way ParseNotesListPage does (§4.3 "photo
// albums (small-site and standard)").
func ParseAlbumsPage(body []byte) ([]AlbumEntry, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(string(body)))
	if err != nil {
		return nil, fmt.Errorf("parser: parse albums page: %w", err)
	}

	sel := "div.album-item"
	if doc.Find(sel).Length() == 0 {
		sel = "li.photo-album-item" // small-site layout
	}

	var out []AlbumEntry
	doc.Find(sel).Each(func(_ int, s *goquery.Selection) {
		href, _ := s.Find("a.album-title, a.title").First().Attr("href")
		doubanID, ok := ExtractDoubanID(href)
		if !ok {
			return
		}
		cover, _ := s.Find("img").Attr("src")
		lastUpdated, _ := time.Parse("2006-01-02 15:04:05", strings.TrimSpace(s.Find("span.last-updated").Text()))

		out = append(out, AlbumEntry{
			DoubanID:    doubanID,
			Title:       strings.TrimSpace(s.Find("a.album-title, a.title").First().Text()),
			Description: strings.TrimSpace(s.Find("p.album-desc").Text()),
			Cover:       cover,
			PhotoCount:  ParseCount(s.Find("span.photo-count").Text()),
			LastUpdated: lastUpdated,
		})
	})
	return out, nil
}

// PictureEntry is one photo scraped from an album's picture listing.
type PictureEntry struct {
	DoubanID    int64
	Description string
	ImageURL    string
}

// ParsePicturesPage scrapes one album's photo grid.
func ParsePicturesPage(body []byte) ([]PictureEntry, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(string(body)))
	if err != nil {
		return nil, fmt.Errorf("parser: parse pictures page: %w", err)
	}

	var out []PictureEntry
	doc.Find("li.photo-item, div.photo-wrap").Each(func(_ int, s *goquery.Selection) {
		href, _ := s.Find("a").First().Attr("href")
		doubanID, ok := ExtractDoubanID(href)
		if !ok {
			return
		}
		imageURL, _ := s.Find("img").Attr("src")
		out = append(out, PictureEntry{
			DoubanID:    doubanID,
			Description: strings.TrimSpace(s.Find("span.photo-desc").Text()),
			ImageURL:    imageURL,
		})
	})
	return out, nil
}
