// Package interactions implements the optimistic update contract shared by
// the like, save, follow and comment-like controls: apply the change to local
// state synchronously, issue the request, revert on failure.
//
// Each rendered view owns its own shadow state (PostState, FollowState); two
// views showing the same post can diverge until both refetch. There is no
// shared entity cache, so none of these types need locking — a shadow is
// only ever touched by its owning view.
package interactions

import (
	"context"

	"github.com/instaexplore/instacli/internal/client/api"
	"github.com/instaexplore/instacli/internal/client/models"
	"github.com/instaexplore/instacli/internal/logging"
)

// PostState is the locally mutable shadow of one rendered post.
type PostState struct {
	ID        string
	Liked     bool
	LikeCount int
	Saved     bool
	Comments  []models.Comment
}

// PostStateOf seeds a shadow from a fetched post.
func PostStateOf(p models.Post) PostState {
	return PostState{
		ID:        p.ID,
		Liked:     p.IsLiked,
		LikeCount: len(p.Likes),
		Saved:     p.IsSaved,
		Comments:  p.Comments,
	}
}

// CommentState is the shadow of one rendered comment.
type CommentState struct {
	PostID    string
	ID        string
	Liked     bool
	LikeCount int
}

// CommentStateOf seeds a shadow from a fetched comment.
func CommentStateOf(postID string, c models.Comment) CommentState {
	return CommentState{PostID: postID, ID: c.ID, Liked: c.IsLiked, LikeCount: len(c.Likes)}
}

// FollowState is the three-valued relationship toward another user.
// Private-account semantics make it three-valued: a follow request against a
// private account lands in Requested rather than Following.
type FollowState int

const (
	NotFollowing FollowState = iota
	Requested
	Following
)

func (s FollowState) String() string {
	switch s {
	case Requested:
		return "requested"
	case Following:
		return "following"
	default:
		return "not following"
	}
}

// FollowStateOf derives the current relationship from a fetched user.
func FollowStateOf(u models.User) FollowState {
	switch {
	case u.IsFollowing:
		return Following
	case u.IsRequested:
		return Requested
	default:
		return NotFollowing
	}
}

// Controller issues the backing requests for the optimistic toggles. It is
// stateless and shared; the per-view shadows carry all mutable state.
type Controller struct {
	api api.Client
	log logging.Logger
}

func NewController(apiClient api.Client, log logging.Logger) *Controller {
	return &Controller{api: apiClient, log: log}
}

// ToggleLike flips the like flag and count locally, then persists. On failure
// the previous values come back; the error stays at log level.
func (c *Controller) ToggleLike(ctx context.Context, st *PostState) {
	prevLiked, prevCount := st.Liked, st.LikeCount

	st.Liked = !prevLiked
	if prevLiked {
		st.LikeCount = prevCount - 1
	} else {
		st.LikeCount = prevCount + 1
	}

	if err := c.api.LikePost(ctx, st.ID); err != nil {
		st.Liked = prevLiked
		st.LikeCount = prevCount
		c.log.Warn(ctx, "like toggle failed, rolled back", "post", st.ID, "error", err)
	}
}

// ToggleSave flips the save flag locally, then persists, reverting on failure.
func (c *Controller) ToggleSave(ctx context.Context, st *PostState) {
	prev := st.Saved
	st.Saved = !prev

	if err := c.api.SavePost(ctx, st.ID); err != nil {
		st.Saved = prev
		c.log.Warn(ctx, "save toggle failed, rolled back", "post", st.ID, "error", err)
	}
}

// ToggleCommentLike flips one comment's like state with the same rollback
// contract as ToggleLike.
func (c *Controller) ToggleCommentLike(ctx context.Context, st *CommentState) {
	prevLiked, prevCount := st.Liked, st.LikeCount

	st.Liked = !prevLiked
	if prevLiked {
		st.LikeCount = prevCount - 1
	} else {
		st.LikeCount = prevCount + 1
	}

	if err := c.api.LikeComment(ctx, st.PostID, st.ID); err != nil {
		st.Liked = prevLiked
		st.LikeCount = prevCount
		c.log.Warn(ctx, "comment like toggle failed, rolled back", "comment", st.ID, "error", err)
	}
}

// AddComment is not optimistic: it waits for the server, whose response is
// the full updated comment list, and replaces the local list outright.
func (c *Controller) AddComment(ctx context.Context, st *PostState, text string) error {
	comments, err := c.api.AddComment(ctx, st.ID, text)
	if err != nil {
		return err
	}
	st.Comments = comments
	return nil
}

// DeleteComment is not optimistic either; a failure here is surfaced to the
// caller for user-visible reporting.
func (c *Controller) DeleteComment(ctx context.Context, st *PostState, commentID string) error {
	if err := c.api.DeleteComment(ctx, st.ID, commentID); err != nil {
		return err
	}
	kept := st.Comments[:0]
	for _, cm := range st.Comments {
		if cm.ID != commentID {
			kept = append(kept, cm)
		}
	}
	st.Comments = kept
	return nil
}

// ToggleFollow advances the three-state follow machine.
//
// From Following or Requested the action is the single unfollow operation
// (cancelling a pending request and unfollowing are the same server call,
// which the backend handles idempotently). From NotFollowing the optimistic
// target depends on the account's privacy, and the server's answer is the
// final word on whether the follow became a pending request.
func (c *Controller) ToggleFollow(ctx context.Context, target models.User, st *FollowState) {
	prev := *st

	switch prev {
	case Following, Requested:
		*st = NotFollowing
		if err := c.api.Unfollow(ctx, target.ID); err != nil {
			*st = prev
			c.log.Warn(ctx, "unfollow failed, rolled back", "user", target.ID, "error", err)
		}

	case NotFollowing:
		if target.IsPrivate {
			*st = Requested
		} else {
			*st = Following
		}
		requested, err := c.api.Follow(ctx, target.ID)
		if err != nil {
			*st = prev
			c.log.Warn(ctx, "follow failed, rolled back", "user", target.ID, "error", err)
			return
		}
		if requested {
			*st = Requested
		} else {
			*st = Following
		}
	}
}
