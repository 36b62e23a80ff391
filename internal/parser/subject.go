// graveyard - personal archive crawler
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/graveyard

package parser

import (
	"fmt"

	"github.com/goccy/go-json"

	"github.com/tomtom215/graveyard/internal/models"
)

// subjectAPIResponse is the standalone book/movie/music detail shape,
// fetched directly by fetchBook/Movie/Music (§4.5) for a subject a Note
// references but the owning account never marked as an interest.
type subjectAPIResponse struct {
	ID       json.Number `json:"id"`
	Title    string      `json:"title"`
	AltTitle string      `json:"alt_title"`
	Author   []string    `json:"author"`
	Cast     []string    `json:"cast"`
	Image    string      `json:"image"`
	Summary  string      `json:"summary"`
	Rating   struct {
		Value float64 `json:"value"`
	} `json:"rating"`
	Alt string `json:"alt"`
}

// ParseSubjectJSON decodes a single book/movie/music detail response.
// ErrSkip is returned when no numeric subject id is present.
func ParseSubjectJSON(body []byte) (*models.Subject, error) {
	var raw subjectAPIResponse
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, fmt.Errorf("parser: decode subject json: %w", err)
	}
	subjectID, err := raw.ID.Int64()
	if err != nil || subjectID == 0 {
		return nil, fmt.Errorf("subject: %w", ErrSkip)
	}

	return &models.Subject{
		SubjectID: subjectID,
		Title:     raw.Title,
		AltTitle:  raw.AltTitle,
		Author:    firstNonEmpty(raw.Author, raw.Cast),
		Image:     raw.Image,
		Summary:   raw.Summary,
		Rating:    raw.Rating.Value,
		Alt:       raw.Alt,
	}, nil
}
