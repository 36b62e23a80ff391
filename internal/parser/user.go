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

// userAPIResponse mirrors the subset of the mobile-site user API this
// program cares about; unknown JSON fields are dropped on decode (the
// json package's default behavior), matching safeCreate's "insert only
// declared columns" semantics at the parse boundary too.
type userAPIResponse struct {
	ID        json.Number `json:"id"`
	UID       string      `json:"uid"`
	Name      string      `json:"name"`
	Avatar    string      `json:"avatar"`
	Signature string      `json:"signature"`
	Loc       struct {
		Name string `json:"name"`
	} `json:"loc"`
	Alt string `json:"alt"`
}

// ParseUserJSON decodes a user-profile API response into a models.User.
// ErrSkip is returned when the response carries no numeric id, since
// User.DoubanID is a required natural key (§7 "ParseMissing").
func ParseUserJSON(body []byte) (*models.User, error) {
	var raw userAPIResponse
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, fmt.Errorf("parser: decode user json: %w", err)
	}
	if raw.ID == "" {
		return nil, fmt.Errorf("user: %w", ErrSkip)
	}

	doubanID, err := raw.ID.Int64()
	if err != nil {
		return nil, fmt.Errorf("user: %w", ErrSkip)
	}

	return &models.User{
		DoubanID:   doubanID,
		UniqueName: raw.UID,
		Name:       raw.Name,
		Avatar:     raw.Avatar,
		Signature:  raw.Signature,
		Location:   raw.Loc.Name,
		URL:        raw.Alt,
	}, nil
}

// userExtraAPIResponse is the counters side-channel fetched separately
// from the profile page (§3 UserExtra).
type userExtraAPIResponse struct {
	FollowingCount int64 `json:"following_count"`
	FollowerCount  int64 `json:"followers_count"`
	BroadcastCount int64 `json:"statuses_count"`
	AlbumCount     int64 `json:"albums_count"`
}

// ParseUserExtraJSON decodes the counters sidecar. There is no required
// identifying field here (UserID is filled in by the caller), so a
// malformed body just yields a zero-valued UserExtra rather than ErrSkip.
func ParseUserExtraJSON(body []byte) (*models.UserExtra, error) {
	var raw userExtraAPIResponse
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, fmt.Errorf("parser: decode user extra json: %w", err)
	}
	return &models.UserExtra{
		FollowingCount: raw.FollowingCount,
		FollowerCount:  raw.FollowerCount,
		BroadcastCount: raw.BroadcastCount,
		AlbumCount:     raw.AlbumCount,
	}, nil
}
