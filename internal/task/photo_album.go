// graveyard - personal archive crawler
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/graveyard

package task

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/tomtom215/graveyard/internal/models"
	"github.com/tomtom215/graveyard/internal/parser"
	"github.com/tomtom215/graveyard/internal/store"
)

const (
	albumsPageSize   = 20
	picturesPageSize = 40
)

// PhotoAlbumTask backs up the account owner's photo albums: a paged
// listing, then the picture set of any album whose last_updated advanced
// or whose local copy expired (§3, §4.6).
type PhotoAlbumTask struct {
	AccountID int64
}

func (t PhotoAlbumTask) Name() string { return "photo_album" }

func (t PhotoAlbumTask) Owner() int64 { return t.AccountID }

func (t PhotoAlbumTask) Equals(other Task) bool {
	o, ok := other.(PhotoAlbumTask)
	return ok && sameAccountID(t.AccountID, o.AccountID)
}

func (t PhotoAlbumTask) Run(ctx context.Context, tc *Context) error {
	owner, err := syncAccount(ctx, tc)
	if err != nil {
		return err
	}

	start := 0
	for {
		rel := fmt.Sprintf("/people/%s/albums?start=%d", owner.UniqueName, start)
		resp, err := tc.Fetcher.Get(ctx, rel, "")
		if err != nil {
			return classifyFetchErr(ctx, tc, err)
		}
		if resp == nil {
			break
		}

		entries, err := parser.ParseAlbumsPage(resp.Body)
		if err != nil {
			return err
		}
		if len(entries) == 0 {
			break
		}

		for _, e := range entries {
			album, needsRefresh, err := fetchPhotoAlbum(ctx, tc, e, owner.ID)
			if err != nil {
				return err
			}
			if needsRefresh {
				if err := t.refreshPictures(ctx, tc, album); err != nil {
					return err
				}
			}
		}

		if len(entries) < albumsPageSize {
			break
		}
		start += len(entries)
	}

	return realizeAttachments(ctx, tc, tc.CacheDir)
}

func (t PhotoAlbumTask) refreshPictures(ctx context.Context, tc *Context, album *models.PhotoAlbum) error {
	start := 0
	for {
		rel := fmt.Sprintf("/photos/album/%d/?start=%d", album.DoubanID, start)
		resp, err := tc.Fetcher.Get(ctx, rel, "")
		if err != nil {
			return classifyFetchErr(ctx, tc, err)
		}
		if resp == nil {
			return nil
		}

		pictures, err := parser.ParsePicturesPage(resp.Body)
		if err != nil {
			return err
		}
		if len(pictures) == 0 {
			return nil
		}

		now := time.Now().UTC()
		for _, p := range pictures {
			pic := &models.PhotoPicture{
				DoubanID:    p.DoubanID,
				AlbumID:     album.ID,
				Description: p.Description,
				ImageURL:    p.ImageURL,
			}
			if err := tc.Store.WithTx(ctx, func(tx *sql.Tx) error {
				_, err := store.Upsert(ctx, tx, store.PhotoPictureSpec, pic, now)
				return err
			}); err != nil {
				return err
			}
			if p.ImageURL != "" {
				if _, err := tc.Store.GetOrCreateAttachment(ctx, p.ImageURL); err != nil {
					tc.Logger.Warn().Err(err).Str("url", p.ImageURL).Msg("task: register picture attachment")
				}
			}
		}

		if len(pictures) < picturesPageSize {
			return nil
		}
		start += len(pictures)
	}
}
