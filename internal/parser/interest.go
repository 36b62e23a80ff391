// graveyard - personal archive crawler
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/graveyard

package parser

import (
	"fmt"
	"time"

	"github.com/goccy/go-json"

	"github.com/tomtom215/graveyard/internal/models"
)

// interestAPIEntry is one element of a mobile-site interests-list response
// for a given status (mark/doing/done) of a book/movie/music collection
// (§4.6 InterestsTask).
type interestAPIEntry struct {
	Subject struct {
		ID      json.Number `json:"id"`
		Title   string      `json:"title"`
		AltTitle string     `json:"alt_title"`
		Author  []string    `json:"author"`
		Cast    []string    `json:"cast"` // movie director/cast stands in for "author" on films
		Image   string      `json:"image"`
		Summary string      `json:"summary"`
		Rating  struct {
			Value float64 `json:"value"`
		} `json:"rating"`
		Alt string `json:"alt"`
	} `json:"subject"`
	Rating struct {
		Value int `json:"value"`
	} `json:"rating"`
	Tags       []string `json:"tags"`
	Comment    string   `json:"comment"`
	CreateTime string   `json:"create_time"`
}

// InterestResult bundles the two records one interest entry produces: the
// shared Subject row (book/movie/music metadata) and this user's Interest
// edge pointing at it.
type InterestResult struct {
	Subject  models.Subject
	Interest models.Interest
}

// ParseInterestsJSON decodes one page of a status-scoped interests listing
// (§4.6: "paged API fetch for each status in {mark, doing, done}"). kind
// and status are supplied by the caller (the mobile API nests them in the
// request path, not the response body); userID is filled in by the task
// after resolving the owning account.
func ParseInterestsJSON(body []byte, kind models.SubjectKind, status string, userID int64) ([]InterestResult, error) {
	var entries []interestAPIEntry
	if err := json.Unmarshal(body, &entries); err != nil {
		return nil, fmt.Errorf("parser: decode interests json: %w", err)
	}

	out := make([]InterestResult, 0, len(entries))
	for _, e := range entries {
		subjectID, err := e.Subject.ID.Int64()
		if err != nil || subjectID == 0 {
			continue // ErrSkip-equivalent: an interest with no subject id can't be keyed
		}

		author := firstNonEmpty(e.Subject.Author, e.Subject.Cast)
		createTime, _ := time.Parse("2006-01-02 15:04:05", e.CreateTime)

		out = append(out, InterestResult{
			Subject: models.Subject{
				SubjectID: subjectID,
				Title:     e.Subject.Title,
				AltTitle:  e.Subject.AltTitle,
				Author:    author,
				Image:     e.Subject.Image,
				Summary:   e.Subject.Summary,
				Rating:    e.Subject.Rating.Value,
				Alt:       e.Subject.Alt,
			},
			Interest: models.Interest{
				UserID:     userID,
				Kind:       string(kind),
				SubjectID:  subjectID,
				Status:     status,
				Rating:     e.Rating.Value,
				Tags:       joinTags(e.Tags),
				Comment:    e.Comment,
				CreateTime: createTime,
			},
		})
	}
	return out, nil
}

func firstNonEmpty(lists ...[]string) string {
	for _, l := range lists {
		if len(l) > 0 {
			return joinTags(l)
		}
	}
	return ""
}

func joinTags(tags []string) string {
	out := ""
	for i, t := range tags {
		if i > 0 {
			out += ","
		}
		out += t
	}
	return out
}
