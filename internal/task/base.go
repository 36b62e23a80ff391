// graveyard - personal archive crawler
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/graveyard

package task

import (
	"context"
	"crypto/md5"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/tomtom215/graveyard/internal/fetcher"
	"github.com/tomtom215/graveyard/internal/metrics"
	"github.com/tomtom215/graveyard/internal/models"
	"github.com/tomtom215/graveyard/internal/parser"
	"github.com/tomtom215/graveyard/internal/store"
)

// apiBase is the mobile-site JSON API root (§4.3 "JSON decoders for the
// site's mobile/web APIs"), distinct from fetcher.SiteRoot which is the
// HTML web root used for scraping.
const apiBase = "https://api.douban.com/v2"

// meAPIPath resolves the account's own profile, used by syncAccount to
// bind an unlinked Account to its User row.
const meAPIPath = "/user/~me"

// classifyFetchErr maps a fetcher error into the uniform task-level
// handling §4.6 describes: a login-wall redirect becomes ErrSessionInvalid
// (the task aborts and the account is flagged), anything else propagates
// as-is.
func classifyFetchErr(ctx context.Context, tc *Context, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, fetcher.ErrSessionInvalid) {
		if markErr := tc.Store.MarkAccountInvalid(ctx, tc.Account.ID); markErr != nil {
			tc.Logger.Error().Err(markErr).Msg("task: failed to mark account invalid")
		}
		return ErrSessionInvalid
	}
	return err
}

// fetchUser returns the cached User row for doubanID if it is fresh
// (§4.5 "now - updated_at <= local_object_duration"), otherwise fetches,
// parses and upserts a new one. A bad fetch (nil response, ErrSkip parse)
// yields (nil, nil): the caller continues with best effort (§4.6 "A bad
// URL fetch logs, yields nil, and the task continues").
func fetchUser(ctx context.Context, tc *Context, doubanID int64) (*models.User, error) {
	now := time.Now().UTC()

	existing, err := tc.Store.GetBySpec(ctx, store.UserSpec, func() any { return &models.User{} }, doubanID)
	switch {
	case err == nil:
		u := existing.(*models.User)
		if now.Sub(u.UpdatedAt) <= tc.Settings.LocalObjectDuration {
			return u, nil
		}
	case errors.Is(err, store.ErrNotFound):
		// fall through to fetch
	default:
		return nil, err
	}

	resp, err := tc.Fetcher.Get(ctx, fmt.Sprintf("/user/%d", doubanID), apiBase)
	if err != nil {
		return nil, classifyFetchErr(ctx, tc, err)
	}
	if resp == nil {
		tc.Logger.Warn().Int64("douban_id", doubanID).Msg("task: user fetch exhausted retries, skipping")
		return nil, nil
	}

	u, err := parser.ParseUserJSON(resp.Body)
	if err != nil {
		if errors.Is(err, parser.ErrSkip) {
			tc.Logger.Warn().Int64("douban_id", doubanID).Msg("task: user response missing id, skipping")
			return nil, nil
		}
		return nil, err
	}

	if err := tc.Store.WithTx(ctx, func(tx *sql.Tx) error {
		_, err := store.Upsert(ctx, tx, store.UserSpec, u, now)
		return err
	}); err != nil {
		return nil, err
	}
	return u, nil
}

// fetchUserExtra refreshes a user's counters sidecar (§3 UserExtra "1:1
// side table with counters fetched separately"). UserExtraSpec is
// unversioned: a fresh fetch always overwrites the prior counts.
func fetchUserExtra(ctx context.Context, tc *Context, user *models.User) error {
	resp, err := tc.Fetcher.Get(ctx, fmt.Sprintf("/user/%d/stats", user.DoubanID), apiBase)
	if err != nil {
		return classifyFetchErr(ctx, tc, err)
	}
	if resp == nil {
		return nil
	}

	extra, err := parser.ParseUserExtraJSON(resp.Body)
	if err != nil {
		return err
	}
	extra.UserID = user.ID

	return tc.Store.WithTx(ctx, func(tx *sql.Tx) error {
		_, err := store.Upsert(ctx, tx, store.UserExtraSpec, extra, time.Now().UTC())
		return err
	})
}

// fetchSubject resolves a book/movie/music Subject by id, checking the
// local store first the same way fetchUser does.
func fetchSubject(ctx context.Context, tc *Context, kind models.SubjectKind, subjectID int64) (*models.Subject, error) {
	now := time.Now().UTC()
	spec := store.SubjectSpec(kind)

	existing, err := tc.Store.GetBySpec(ctx, spec, func() any { return &models.Subject{} }, subjectID)
	switch {
	case err == nil:
		s := existing.(*models.Subject)
		if now.Sub(s.UpdatedAt) <= tc.Settings.LocalObjectDuration {
			return s, nil
		}
	case errors.Is(err, store.ErrNotFound):
		// fall through to fetch
	default:
		return nil, err
	}

	resp, err := tc.Fetcher.Get(ctx, fmt.Sprintf("/%s/%d", kind, subjectID), apiBase)
	if err != nil {
		return nil, classifyFetchErr(ctx, tc, err)
	}
	if resp == nil {
		return nil, nil
	}

	subj, err := parser.ParseSubjectJSON(resp.Body)
	if err != nil {
		if errors.Is(err, parser.ErrSkip) {
			return nil, nil
		}
		return nil, err
	}

	if err := tc.Store.WithTx(ctx, func(tx *sql.Tx) error {
		_, err := store.Upsert(ctx, tx, spec, subj, now)
		return err
	}); err != nil {
		return nil, err
	}
	return subj, nil
}

// fetchNote loads the cached Note for doubanID if fresh, otherwise fetches
// its detail page at url, parses it and upserts.
func fetchNote(ctx context.Context, tc *Context, doubanID int64, url string, ownerUserID int64) (*models.Note, error) {
	now := time.Now().UTC()

	existing, err := tc.Store.GetBySpec(ctx, store.NoteSpec, func() any { return &models.Note{} }, doubanID)
	switch {
	case err == nil:
		n := existing.(*models.Note)
		if now.Sub(n.UpdatedAt) <= tc.Settings.LocalObjectDuration {
			return n, nil
		}
	case errors.Is(err, store.ErrNotFound):
		// fall through
	default:
		return nil, err
	}

	resp, err := tc.Fetcher.Get(ctx, url, "")
	if err != nil {
		return nil, classifyFetchErr(ctx, tc, err)
	}
	if resp == nil {
		return nil, nil
	}

	detail, err := parser.ParseNoteDetail(resp.Body, doubanID)
	if err != nil {
		return nil, err
	}

	attachmentsJSON := joinJSONStrings(detail.AttachmentURLs)
	n := &models.Note{
		DoubanID:    detail.DoubanID,
		UserID:      ownerUserID,
		Title:       detail.Title,
		Content:     detail.Content,
		URL:         url,
		SubjectKind: detail.SubjectKind,
		SubjectID:   detail.SubjectDoubanID,
		Attachments: attachmentsJSON,
		PublishedAt: detail.PublishedAt,
	}

	if err := tc.Store.WithTx(ctx, func(tx *sql.Tx) error {
		_, err := store.Upsert(ctx, tx, store.NoteSpec, n, now)
		return err
	}); err != nil {
		return nil, err
	}

	for _, u := range detail.AttachmentURLs {
		if _, err := tc.Store.GetOrCreateAttachment(ctx, u); err != nil {
			tc.Logger.Warn().Err(err).Str("url", u).Msg("task: register note attachment")
		}
	}

	return n, nil
}

// fetchPhotoAlbum upserts the album listing entry, skipping a refetch of
// the underlying picture set when the site-reported LastUpdated has not
// advanced and the local copy is not expired (§3 "album refreshed when
// last_updated changes or local copy is expired"). It returns the stored
// album plus whether the picture listing should be refetched.
func fetchPhotoAlbum(ctx context.Context, tc *Context, entry parser.AlbumEntry, ownerUserID int64) (album *models.PhotoAlbum, needsRefresh bool, err error) {
	now := time.Now().UTC()

	existing, getErr := tc.Store.GetBySpec(ctx, store.PhotoAlbumSpec, func() any { return &models.PhotoAlbum{} }, entry.DoubanID)
	var prior *models.PhotoAlbum
	switch {
	case getErr == nil:
		prior = existing.(*models.PhotoAlbum)
	case errors.Is(getErr, store.ErrNotFound):
		prior = nil
	default:
		return nil, false, getErr
	}

	a := &models.PhotoAlbum{
		DoubanID:    entry.DoubanID,
		UserID:      ownerUserID,
		Title:       entry.Title,
		Description: entry.Description,
		Cover:       entry.Cover,
		PhotoCount:  entry.PhotoCount,
		LastUpdated: entry.LastUpdated,
	}

	var outcome store.UpsertOutcome
	if err := tc.Store.WithTx(ctx, func(tx *sql.Tx) error {
		outcome, err = store.Upsert(ctx, tx, store.PhotoAlbumSpec, a, now)
		return err
	}); err != nil {
		return nil, false, err
	}

	needsRefresh = prior == nil || outcome.Changed || prior.Expired(now, tc.Settings.LocalObjectDuration)
	return a, needsRefresh, nil
}

// syncAccount ensures tc.Account.UserID is bound to a User row (§4.5
// "ensure the Account row has user bound; if the Account has no linked
// User, fetch the owner and link").
func syncAccount(ctx context.Context, tc *Context) (*models.User, error) {
	if tc.Account.HasUser() {
		u, err := tc.Store.GetUserByID(ctx, tc.Account.UserID)
		if err != nil {
			return nil, err
		}
		return u, nil
	}

	resp, err := tc.Fetcher.Get(ctx, meAPIPath, apiBase)
	if err != nil {
		return nil, classifyFetchErr(ctx, tc, err)
	}
	if resp == nil {
		return nil, fmt.Errorf("task: syncAccount: owner profile fetch exhausted retries")
	}

	u, err := parser.ParseUserJSON(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("task: syncAccount: %w", err)
	}

	now := time.Now().UTC()
	if err := tc.Store.WithTx(ctx, func(tx *sql.Tx) error {
		_, err := store.Upsert(ctx, tx, store.UserSpec, u, now)
		return err
	}); err != nil {
		return nil, err
	}

	if err := tc.Store.BindAccountUser(ctx, tc.Account.ID, u.ID); err != nil {
		return nil, err
	}
	tc.Account.UserID = u.ID
	return u, nil
}

// realizeAttachments loops calling fetchOneAttachment until no
// unmaterialized attachment remains (§4.6 "Attachment realization"). It is
// a no-op when the image_local_cache setting is off.
func realizeAttachments(ctx context.Context, tc *Context, cacheDir string) error {
	if !tc.Settings.ImageLocalCache {
		return nil
	}
	for {
		ok, err := fetchOneAttachment(ctx, tc, cacheDir)
		if err != nil {
			return err
		}
		if !ok {
			return nil
		}
	}
}

// fetchOneAttachment materializes a single unmaterialized Attachment row
// and reports whether it found one to work on.
func fetchOneAttachment(ctx context.Context, tc *Context, cacheDir string) (bool, error) {
	a, err := tc.Store.NextUnmaterializedAttachment(ctx)
	if errors.Is(err, store.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}

	body, mimeType, err := tc.Fetcher.Download(ctx, a.SourceURL)
	if err != nil {
		return false, classifyFetchErr(ctx, tc, err)
	}
	if body == nil {
		if _, retryErr := tc.Store.RecordAttachmentRetry(ctx, a.ID); retryErr != nil {
			tc.Logger.Warn().Err(retryErr).Int64("attachment_id", a.ID).Msg("task: record attachment retry")
		}
		return true, nil
	}

	relPath := attachmentCachePath(a.Retries, a.SourceURL)
	fullPath := filepath.Join(cacheDir, relPath)
	if err := os.MkdirAll(filepath.Dir(fullPath), 0o750); err != nil {
		return false, fmt.Errorf("task: create attachment cache dir: %w", err)
	}

	f, err := os.OpenFile(fullPath, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o640)
	if err != nil {
		if os.IsExist(err) {
			// Another realization pass already wrote this exact
			// content-addressed path; treat as success.
			if markErr := tc.Store.MarkAttachmentMaterialized(ctx, a.ID, relPath, mimeType); markErr != nil {
				return false, markErr
			}
			return true, nil
		}
		return false, fmt.Errorf("task: create attachment file: %w", err)
	}
	defer f.Close()

	if _, err := f.Write(body); err != nil {
		return false, fmt.Errorf("task: write attachment file: %w", err)
	}

	if err := tc.Store.MarkAttachmentMaterialized(ctx, a.ID, relPath, mimeType); err != nil {
		return false, err
	}
	metrics.RecordAttachmentMaterialized()
	return true, nil
}

// attachmentCachePath derives the two-level sharded cache path
// hh/hh/rest.ext from an MD5 of "retries|url" (§4.6, §6 cache layout
// "<cache>/HH/HH/RRRRRR.EXT"), preserving the source URL's extension.
func attachmentCachePath(retries int, sourceURL string) string {
	sum := md5.Sum([]byte(fmt.Sprintf("%d|%s", retries, sourceURL)))
	hexSum := fmt.Sprintf("%x", sum)
	ext := fetcher.URLExtension(sourceURL)
	return filepath.Join(hexSum[0:2], hexSum[2:4], hexSum[4:]+ext)
}

func joinJSONStrings(items []string) string {
	out := "["
	for i, s := range items {
		if i > 0 {
			out += ","
		}
		out += fmt.Sprintf("%q", s)
	}
	return out + "]"
}
