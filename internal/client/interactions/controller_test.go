package interactions

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/instaexplore/instacli/internal/client/api/apitest"
	"github.com/instaexplore/instacli/internal/client/models"
	"github.com/instaexplore/instacli/internal/logging"
)

var errBoom = errors.New("boom")

func newController(fake *apitest.Fake) *Controller {
	log := logging.NewSlogLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))
	return NewController(fake, log)
}

func TestPostStateOf(t *testing.T) {
	p := models.Post{
		ID:       "p1",
		IsLiked:  true,
		Likes:    []string{"u1", "u2"},
		IsSaved:  false,
		Comments: []models.Comment{{ID: "c1"}},
	}
	st := PostStateOf(p)
	require.Equal(t, "p1", st.ID)
	require.True(t, st.Liked)
	require.Equal(t, 2, st.LikeCount)
	require.False(t, st.Saved)
	require.Len(t, st.Comments, 1)
}

func TestToggleLike_AppliesBeforeRequestCompletes(t *testing.T) {
	fake := &apitest.Fake{}
	observed := make(chan PostState, 1)
	st := PostState{ID: "p1", Liked: false, LikeCount: 3}

	fake.LikePostFn = func(ctx context.Context, postID string) error {
		observed <- st
		return nil
	}

	newController(fake).ToggleLike(context.Background(), &st)

	during := <-observed
	require.True(t, during.Liked, "local state flips before the request returns")
	require.Equal(t, 4, during.LikeCount)
	require.True(t, st.Liked)
	require.Equal(t, 4, st.LikeCount)
	require.Equal(t, []string{"p1"}, fake.LikeCalls)
}

func TestToggleLike_RollsBackOnFailure(t *testing.T) {
	fake := &apitest.Fake{
		LikePostFn: func(ctx context.Context, postID string) error { return errBoom },
	}
	st := PostState{ID: "p1", Liked: true, LikeCount: 5}

	newController(fake).ToggleLike(context.Background(), &st)

	require.True(t, st.Liked, "rollback restores the pre-toggle flag")
	require.Equal(t, 5, st.LikeCount, "rollback restores the pre-toggle count")
}

func TestToggleSave_RollsBackOnFailure(t *testing.T) {
	fake := &apitest.Fake{
		SavePostFn: func(ctx context.Context, postID string) error { return errBoom },
	}
	st := PostState{ID: "p1", Saved: false}

	newController(fake).ToggleSave(context.Background(), &st)
	require.False(t, st.Saved)

	fake.SavePostFn = nil
	newController(fake).ToggleSave(context.Background(), &st)
	require.True(t, st.Saved)
}

func TestToggleCommentLike(t *testing.T) {
	fake := &apitest.Fake{}
	st := CommentState{PostID: "p1", ID: "c1", Liked: false, LikeCount: 0}

	c := newController(fake)
	c.ToggleCommentLike(context.Background(), &st)
	require.True(t, st.Liked)
	require.Equal(t, 1, st.LikeCount)
	require.Equal(t, [][2]string{{"p1", "c1"}}, fake.CommentLikes)

	fake.LikeCommentFn = func(ctx context.Context, postID, commentID string) error { return errBoom }
	c.ToggleCommentLike(context.Background(), &st)
	require.True(t, st.Liked, "failed toggle leaves prior state intact")
	require.Equal(t, 1, st.LikeCount)
}

func TestAddComment_ReplacesListFromServer(t *testing.T) {
	fake := &apitest.Fake{
		AddCommentFn: func(ctx context.Context, postID, text string) ([]models.Comment, error) {
			return []models.Comment{{ID: "c1"}, {ID: "c2", Text: text}}, nil
		},
	}
	st := PostState{ID: "p1", Comments: []models.Comment{{ID: "c1"}}}

	require.NoError(t, newController(fake).AddComment(context.Background(), &st, "hi"))
	require.Len(t, st.Comments, 2)
	require.Equal(t, "hi", st.Comments[1].Text)
}

func TestAddComment_FailureLeavesListUntouched(t *testing.T) {
	fake := &apitest.Fake{
		AddCommentFn: func(ctx context.Context, postID, text string) ([]models.Comment, error) {
			return nil, errBoom
		},
	}
	st := PostState{ID: "p1", Comments: []models.Comment{{ID: "c1"}}}

	require.ErrorIs(t, newController(fake).AddComment(context.Background(), &st, "hi"), errBoom)
	require.Len(t, st.Comments, 1)
}

func TestDeleteComment(t *testing.T) {
	fake := &apitest.Fake{}
	st := PostState{ID: "p1", Comments: []models.Comment{{ID: "c1"}, {ID: "c2"}}}

	require.NoError(t, newController(fake).DeleteComment(context.Background(), &st, "c1"))
	require.Len(t, st.Comments, 1)
	require.Equal(t, "c2", st.Comments[0].ID)
}

func TestDeleteComment_ErrorIsSurfaced(t *testing.T) {
	fake := &apitest.Fake{
		DeleteCommentFn: func(ctx context.Context, postID, commentID string) error { return errBoom },
	}
	st := PostState{ID: "p1", Comments: []models.Comment{{ID: "c1"}}}

	require.ErrorIs(t, newController(fake).DeleteComment(context.Background(), &st, "c1"), errBoom)
	require.Len(t, st.Comments, 1, "nothing removed when the server refused")
}

func TestFollowStateOf(t *testing.T) {
	require.Equal(t, Following, FollowStateOf(models.User{IsFollowing: true}))
	require.Equal(t, Requested, FollowStateOf(models.User{IsRequested: true}))
	require.Equal(t, NotFollowing, FollowStateOf(models.User{}))
}

func TestToggleFollow_PublicAccount(t *testing.T) {
	fake := &apitest.Fake{
		FollowFn: func(ctx context.Context, userID string) (bool, error) { return false, nil },
	}
	st := NotFollowing

	newController(fake).ToggleFollow(context.Background(), models.User{ID: "u2"}, &st)
	require.Equal(t, Following, st)
	require.Equal(t, []string{"u2"}, fake.FollowCalls)
}

func TestToggleFollow_PrivateAccountLandsInRequested(t *testing.T) {
	fake := &apitest.Fake{
		FollowFn: func(ctx context.Context, userID string) (bool, error) { return true, nil },
	}
	st := NotFollowing

	newController(fake).ToggleFollow(context.Background(), models.User{ID: "u2", IsPrivate: true}, &st)
	require.Equal(t, Requested, st, "private account never jumps straight to following")
}

func TestToggleFollow_UnfollowCancelsPendingRequest(t *testing.T) {
	fake := &apitest.Fake{}
	st := Requested

	newController(fake).ToggleFollow(context.Background(), models.User{ID: "u2"}, &st)
	require.Equal(t, NotFollowing, st)
	require.Equal(t, []string{"u2"}, fake.UnfollowCalls, "cancelling a request is the unfollow operation")
}

func TestToggleFollow_UnfollowFromFollowing(t *testing.T) {
	fake := &apitest.Fake{}
	st := Following

	newController(fake).ToggleFollow(context.Background(), models.User{ID: "u2"}, &st)
	require.Equal(t, NotFollowing, st)
}

func TestToggleFollow_RollsBackOnFailure(t *testing.T) {
	fake := &apitest.Fake{
		FollowFn:   func(ctx context.Context, userID string) (bool, error) { return false, errBoom },
		UnfollowFn: func(ctx context.Context, userID string) error { return errBoom },
	}
	c := newController(fake)

	st := NotFollowing
	c.ToggleFollow(context.Background(), models.User{ID: "u2", IsPrivate: true}, &st)
	require.Equal(t, NotFollowing, st)

	st = Following
	c.ToggleFollow(context.Background(), models.User{ID: "u2"}, &st)
	require.Equal(t, Following, st)
}
