// graveyard - personal archive crawler
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/graveyard

package task

import (
	"fmt"

	"github.com/tomtom215/graveyard/internal/models"
)

// Names of the task kinds the Scheduler's HTTP task-submission endpoint
// accepts (§6 "Task input to Scheduler").
const (
	NameFollowingFollower = "following_follower"
	NameBroadcast         = "broadcast"
	NameBroadcastComment  = "broadcast_comment"
	NameNote              = "note"
	NamePhotoAlbum        = "photo_album"
	NameLike              = "like"
	NameInterestsBook     = "interests_book"
	NameInterestsMovie    = "interests_movie"
	NameInterestsMusic    = "interests_music"
)

// ByName constructs one concrete Task bound to accountID, given one of the
// Name constants above. The Scheduler calls this once per (task_name,
// account) pair in a submission payload (§6).
func ByName(name string, accountID int64) (Task, error) {
	switch name {
	case NameFollowingFollower:
		return FollowingFollowerTask{AccountID: accountID}, nil
	case NameBroadcast:
		return BroadcastTask{AccountID: accountID}, nil
	case NameBroadcastComment:
		return BroadcastCommentTask{AccountID: accountID}, nil
	case NameNote:
		return NoteTask{AccountID: accountID}, nil
	case NamePhotoAlbum:
		return PhotoAlbumTask{AccountID: accountID}, nil
	case NameLike:
		return LikeTask{AccountID: accountID}, nil
	case NameInterestsBook:
		return InterestsTask{AccountID: accountID, Kind: models.SubjectBook}, nil
	case NameInterestsMovie:
		return InterestsTask{AccountID: accountID, Kind: models.SubjectMovie}, nil
	case NameInterestsMusic:
		return InterestsTask{AccountID: accountID, Kind: models.SubjectMusic}, nil
	default:
		return nil, fmt.Errorf("task: unknown task name %q", name)
	}
}
