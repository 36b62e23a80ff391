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

// NoteEntry is one item scraped from a notes listing page (§4.6
// NoteTask). The listing only carries enough to enqueue a per-note
// fetch; ParseNoteDetail fills in the rest.
type NoteEntry struct {
	DoubanID int64
	URL      string
	Title    string
}

// ParseNotesListPage scrapes a paged notes index. Layout is auto-detected
// between the "small-site" (douban small-sites embed notes inline, no
// dedicated index markup) and standard listing, matching §4.3 "notes
// (with small-site and standard layouts)".
func ParseNotesListPage(body []byte) ([]NoteEntry, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(string(body)))
	if err != nil {
		return nil, fmt.Errorf("parser: parse notes list: %w", err)
	}

	sel := "div.note-container"
	if doc.Find(sel).Length() == 0 {
		sel = "li.note-item" // small-site layout
	}

	var out []NoteEntry
	doc.Find(sel).Each(func(_ int, s *goquery.Selection) {
		href, _ := s.Find("a.note-title, a.title").First().Attr("href")
		doubanID, ok := ExtractDoubanID(href)
		if !ok {
			return
		}
		out = append(out, NoteEntry{
			DoubanID: doubanID,
			URL:      href,
			Title:    strings.TrimSpace(s.Find("a.note-title, a.title").First().Text()),
		})
	})
	return out, nil
}

// NoteDetail is the full note record scraped from a single note page.
type NoteDetail struct {
	DoubanID        int64
	Title           string
	Content         string
	AttachmentURLs  []string
	SubjectDoubanID int64
	SubjectKind     string
	PublishedAt     time.Time
}

// ParseNoteDetail scrapes one note's full content page. A note with no
// douban_id in its own permalink is skipped (§7 ParseMissing): the
// listing page URL is the fallback source of truth for that id, so the
// caller should pass NoteEntry.DoubanID through rather than relying
// solely on this parse.
func ParseNoteDetail(body []byte, fallbackID int64) (*NoteDetail, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(string(body)))
	if err != nil {
		return nil, fmt.Errorf("parser: parse note detail: %w", err)
	}

	detail := &NoteDetail{
		DoubanID:    fallbackID,
		Title:       strings.TrimSpace(doc.Find("h1.note-title, span[property='v:summary']").First().Text()),
		Content:     strings.TrimSpace(doc.Find("div.note, div#link-report").First().Text()),
		PublishedAt: parsePublishedAt(doc),
	}

	doc.Find("div.note img, div#link-report img").Each(func(_ int, img *goquery.Selection) {
		if src, ok := img.Attr("src"); ok {
			detail.AttachmentURLs = append(detail.AttachmentURLs, src)
		}
	})

	if subjectURL, ok := doc.Find("a.subject-link").Attr("href"); ok {
		if subjectID, ok := ExtractDoubanID(subjectURL); ok {
			detail.SubjectDoubanID = subjectID
			detail.SubjectKind = subjectKindFromURL(subjectURL)
		}
	}

	return detail, nil
}

func parsePublishedAt(doc *goquery.Document) time.Time {
	raw := strings.TrimSpace(doc.Find("span.pub-date, span.created-time").First().Text())
	t, _ := time.Parse("2006-01-02 15:04:05", raw)
	return t
}

func subjectKindFromURL(url string) string {
	switch {
	case strings.Contains(url, "/book/"):
		return string(models.SubjectBook)
	case strings.Contains(url, "/movie/") || strings.Contains(url, "/subject/"):
		return string(models.SubjectMovie)
	case strings.Contains(url, "/music/"):
		return string(models.SubjectMusic)
	default:
		return ""
	}
}
