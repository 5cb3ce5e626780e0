// Package api contains the HTTP transport client for the instaexplore
// backend. A single client instance, configured with a base endpoint and a
// credential provider, is shared by all feature modules.
package api

import (
	"context"

	"github.com/instaexplore/instacli/internal/client/models"
	"github.com/instaexplore/instacli/internal/filex"
)

// AuthResult is the backend response to login and register.
type AuthResult struct {
	User  models.User `json:"user"`
	Token string      `json:"token"`
}

// ProfileUpdate carries the mutable profile fields. Nil pointers mean
// "leave unchanged".
type ProfileUpdate struct {
	FullName  *string `json:"fullName,omitempty"`
	Bio       *string `json:"bio,omitempty"`
	IsPrivate *bool   `json:"isPrivate,omitempty"`
}

// ReadFilter scopes a bulk read-state update. Type selects "activity"
// (everything but messages) or "message"; SenderID additionally narrows to
// one sender.
type ReadFilter struct {
	Type     string
	SenderID string
}

// SendMessageRequest describes one outgoing direct message. At least one of
// Content, SharedPostID or Image must be set; Image switches the request to
// multipart encoding.
type SendMessageRequest struct {
	ReceiverID   string
	Content      string
	SharedPostID string
	Image        *filex.Attachment
}

// Client is the REST surface consumed by the feature modules. Implementations
// must attach the bearer credential when one is available and map transport
// failures to the sentinel errors in errors.go.
type Client interface {
	// Auth.
	Login(ctx context.Context, username, password string) (*AuthResult, error)
	Register(ctx context.Context, username, email, password string) (*AuthResult, error)
	Me(ctx context.Context) (*models.User, error)
	ChangePassword(ctx context.Context, oldPassword, newPassword string) error

	// Users.
	GetUser(ctx context.Context, userID string) (*models.User, error)
	UpdateProfile(ctx context.Context, update ProfileUpdate) (*models.User, error)
	SearchUsers(ctx context.Context, query string) ([]models.User, error)
	Suggestions(ctx context.Context) ([]models.User, error)
	Follow(ctx context.Context, userID string) (requested bool, err error)
	Unfollow(ctx context.Context, userID string) error
	BlockUser(ctx context.Context, userID string) error

	// Posts.
	Feed(ctx context.Context) ([]models.Post, error)
	CreatePost(ctx context.Context, caption, visibility string, image *filex.Attachment) (*models.Post, error)
	DeletePost(ctx context.Context, postID string) error
	LikePost(ctx context.Context, postID string) error
	SavePost(ctx context.Context, postID string) error
	AddComment(ctx context.Context, postID, text string) ([]models.Comment, error)
	LikeComment(ctx context.Context, postID, commentID string) error
	DeleteComment(ctx context.Context, postID, commentID string) error

	// Notifications.
	Notifications(ctx context.Context) ([]models.Notification, error)
	MarkNotificationsRead(ctx context.Context, filter ReadFilter) error

	// Messages.
	Conversations(ctx context.Context) ([]models.Conversation, error)
	Messages(ctx context.Context, partnerID string) ([]models.Message, error)
	SendMessage(ctx context.Context, req SendMessageRequest) (*models.Message, error)
}
