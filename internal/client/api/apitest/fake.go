// Package apitest provides a configurable fake api.Client for unit tests.
// Every method delegates to the corresponding Fn field when set and returns
// zero values otherwise; call arguments are recorded for assertions.
package apitest

import (
	"context"
	"sync"

	"github.com/instaexplore/instacli/internal/client/api"
	"github.com/instaexplore/instacli/internal/client/models"
	"github.com/instaexplore/instacli/internal/filex"
)

type Fake struct {
	mu sync.Mutex

	LoginFn          func(ctx context.Context, username, password string) (*api.AuthResult, error)
	RegisterFn       func(ctx context.Context, username, email, password string) (*api.AuthResult, error)
	MeFn             func(ctx context.Context) (*models.User, error)
	ChangePasswordFn func(ctx context.Context, oldPassword, newPassword string) error

	GetUserFn       func(ctx context.Context, userID string) (*models.User, error)
	UpdateProfileFn func(ctx context.Context, update api.ProfileUpdate) (*models.User, error)
	SearchUsersFn   func(ctx context.Context, query string) ([]models.User, error)
	SuggestionsFn   func(ctx context.Context) ([]models.User, error)
	FollowFn        func(ctx context.Context, userID string) (bool, error)
	UnfollowFn      func(ctx context.Context, userID string) error
	BlockUserFn     func(ctx context.Context, userID string) error

	FeedFn          func(ctx context.Context) ([]models.Post, error)
	CreatePostFn    func(ctx context.Context, caption, visibility string, image *filex.Attachment) (*models.Post, error)
	DeletePostFn    func(ctx context.Context, postID string) error
	LikePostFn      func(ctx context.Context, postID string) error
	SavePostFn      func(ctx context.Context, postID string) error
	AddCommentFn    func(ctx context.Context, postID, text string) ([]models.Comment, error)
	LikeCommentFn   func(ctx context.Context, postID, commentID string) error
	DeleteCommentFn func(ctx context.Context, postID, commentID string) error

	NotificationsFn         func(ctx context.Context) ([]models.Notification, error)
	MarkNotificationsReadFn func(ctx context.Context, filter api.ReadFilter) error

	ConversationsFn func(ctx context.Context) ([]models.Conversation, error)
	MessagesFn      func(ctx context.Context, partnerID string) ([]models.Message, error)
	SendMessageFn   func(ctx context.Context, req api.SendMessageRequest) (*models.Message, error)

	// Recorded calls.
	MeCalls       int
	FollowCalls   []string
	UnfollowCalls []string
	LikeCalls     []string
	SaveCalls     []string
	CommentLikes  [][2]string
	ReadFilters   []api.ReadFilter
	SentMessages  []api.SendMessageRequest
}

var _ api.Client = (*Fake)(nil)

func (f *Fake) Login(ctx context.Context, username, password string) (*api.AuthResult, error) {
	if f.LoginFn != nil {
		return f.LoginFn(ctx, username, password)
	}
	return &api.AuthResult{}, nil
}

func (f *Fake) Register(ctx context.Context, username, email, password string) (*api.AuthResult, error) {
	if f.RegisterFn != nil {
		return f.RegisterFn(ctx, username, email, password)
	}
	return &api.AuthResult{}, nil
}

func (f *Fake) Me(ctx context.Context) (*models.User, error) {
	f.mu.Lock()
	f.MeCalls++
	f.mu.Unlock()
	if f.MeFn != nil {
		return f.MeFn(ctx)
	}
	return &models.User{}, nil
}

func (f *Fake) ChangePassword(ctx context.Context, oldPassword, newPassword string) error {
	if f.ChangePasswordFn != nil {
		return f.ChangePasswordFn(ctx, oldPassword, newPassword)
	}
	return nil
}

func (f *Fake) GetUser(ctx context.Context, userID string) (*models.User, error) {
	if f.GetUserFn != nil {
		return f.GetUserFn(ctx, userID)
	}
	return &models.User{ID: userID}, nil
}

func (f *Fake) UpdateProfile(ctx context.Context, update api.ProfileUpdate) (*models.User, error) {
	if f.UpdateProfileFn != nil {
		return f.UpdateProfileFn(ctx, update)
	}
	return &models.User{}, nil
}

func (f *Fake) SearchUsers(ctx context.Context, query string) ([]models.User, error) {
	if f.SearchUsersFn != nil {
		return f.SearchUsersFn(ctx, query)
	}
	return nil, nil
}

func (f *Fake) Suggestions(ctx context.Context) ([]models.User, error) {
	if f.SuggestionsFn != nil {
		return f.SuggestionsFn(ctx)
	}
	return nil, nil
}

func (f *Fake) Follow(ctx context.Context, userID string) (bool, error) {
	f.mu.Lock()
	f.FollowCalls = append(f.FollowCalls, userID)
	f.mu.Unlock()
	if f.FollowFn != nil {
		return f.FollowFn(ctx, userID)
	}
	return false, nil
}

func (f *Fake) Unfollow(ctx context.Context, userID string) error {
	f.mu.Lock()
	f.UnfollowCalls = append(f.UnfollowCalls, userID)
	f.mu.Unlock()
	if f.UnfollowFn != nil {
		return f.UnfollowFn(ctx, userID)
	}
	return nil
}

func (f *Fake) BlockUser(ctx context.Context, userID string) error {
	if f.BlockUserFn != nil {
		return f.BlockUserFn(ctx, userID)
	}
	return nil
}

func (f *Fake) Feed(ctx context.Context) ([]models.Post, error) {
	if f.FeedFn != nil {
		return f.FeedFn(ctx)
	}
	return nil, nil
}

func (f *Fake) CreatePost(ctx context.Context, caption, visibility string, image *filex.Attachment) (*models.Post, error) {
	if f.CreatePostFn != nil {
		return f.CreatePostFn(ctx, caption, visibility, image)
	}
	return &models.Post{}, nil
}

func (f *Fake) DeletePost(ctx context.Context, postID string) error {
	if f.DeletePostFn != nil {
		return f.DeletePostFn(ctx, postID)
	}
	return nil
}

func (f *Fake) LikePost(ctx context.Context, postID string) error {
	f.mu.Lock()
	f.LikeCalls = append(f.LikeCalls, postID)
	f.mu.Unlock()
	if f.LikePostFn != nil {
		return f.LikePostFn(ctx, postID)
	}
	return nil
}

func (f *Fake) SavePost(ctx context.Context, postID string) error {
	f.mu.Lock()
	f.SaveCalls = append(f.SaveCalls, postID)
	f.mu.Unlock()
	if f.SavePostFn != nil {
		return f.SavePostFn(ctx, postID)
	}
	return nil
}

func (f *Fake) AddComment(ctx context.Context, postID, text string) ([]models.Comment, error) {
	if f.AddCommentFn != nil {
		return f.AddCommentFn(ctx, postID, text)
	}
	return nil, nil
}

func (f *Fake) LikeComment(ctx context.Context, postID, commentID string) error {
	f.mu.Lock()
	f.CommentLikes = append(f.CommentLikes, [2]string{postID, commentID})
	f.mu.Unlock()
	if f.LikeCommentFn != nil {
		return f.LikeCommentFn(ctx, postID, commentID)
	}
	return nil
}

func (f *Fake) DeleteComment(ctx context.Context, postID, commentID string) error {
	if f.DeleteCommentFn != nil {
		return f.DeleteCommentFn(ctx, postID, commentID)
	}
	return nil
}

func (f *Fake) Notifications(ctx context.Context) ([]models.Notification, error) {
	if f.NotificationsFn != nil {
		return f.NotificationsFn(ctx)
	}
	return nil, nil
}

func (f *Fake) MarkNotificationsRead(ctx context.Context, filter api.ReadFilter) error {
	f.mu.Lock()
	f.ReadFilters = append(f.ReadFilters, filter)
	f.mu.Unlock()
	if f.MarkNotificationsReadFn != nil {
		return f.MarkNotificationsReadFn(ctx, filter)
	}
	return nil
}

func (f *Fake) Conversations(ctx context.Context) ([]models.Conversation, error) {
	if f.ConversationsFn != nil {
		return f.ConversationsFn(ctx)
	}
	return nil, nil
}

func (f *Fake) Messages(ctx context.Context, partnerID string) ([]models.Message, error) {
	if f.MessagesFn != nil {
		return f.MessagesFn(ctx, partnerID)
	}
	return nil, nil
}

func (f *Fake) SendMessage(ctx context.Context, req api.SendMessageRequest) (*models.Message, error) {
	f.mu.Lock()
	f.SentMessages = append(f.SentMessages, req)
	f.mu.Unlock()
	if f.SendMessageFn != nil {
		return f.SendMessageFn(ctx, req)
	}
	return &models.Message{}, nil
}

// Reset clears all recorded calls.
func (f *Fake) Reset() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.MeCalls = 0
	f.FollowCalls = nil
	f.UnfollowCalls = nil
	f.LikeCalls = nil
	f.SaveCalls = nil
	f.CommentLikes = nil
	f.ReadFilters = nil
	f.SentMessages = nil
}
