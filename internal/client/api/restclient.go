package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/google/uuid"

	"github.com/instaexplore/instacli/internal/client/models"
	"github.com/instaexplore/instacli/internal/common"
	"github.com/instaexplore/instacli/internal/filex"
)

// TokenProvider returns the bearer credential of the active session, or ""
// when unauthenticated. Keeping this a function means the session store stays
// the single owner of token truth.
type TokenProvider func() string

// RESTClient implements Client over HTTP using resty. All requests go to a
// fixed base endpoint; the authorization header is attached per request by a
// middleware so that account switches take effect immediately.
type RESTClient struct {
	http  *resty.Client
	token TokenProvider
}

var _ Client = (*RESTClient)(nil)

// NewRESTClient builds a RESTClient for the given base endpoint, e.g.
// "http://localhost:5000/api".
func NewRESTClient(endpoint string, token TokenProvider) *RESTClient {
	if token == nil {
		token = func() string { return "" }
	}

	c := &RESTClient{token: token}
	c.http = resty.New().SetBaseURL(endpoint)
	c.http.OnBeforeRequest(func(_ *resty.Client, req *resty.Request) error {
		req.SetHeader("X-Request-ID", uuid.NewString())
		if tok := c.token(); tok != "" {
			req.SetHeader(common.AuthorizationHeaderName, common.BearerPrefix+tok)
		}
		return nil
	})
	return c
}

// SetTimeout applies a per-request deadline to every call and returns the
// client for chaining.
func (c *RESTClient) SetTimeout(d time.Duration) *RESTClient {
	c.http.SetTimeout(d)
	return c
}

// serverMessage extracts the human-readable error the backend places in the
// response body, preferring "error" over "message".
func serverMessage(resp *resty.Response) string {
	var body struct {
		Error   string `json:"error"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal(resp.Body(), &body); err != nil {
		return ""
	}
	if body.Error != "" {
		return body.Error
	}
	return body.Message
}

// mapError converts a transport failure or an error status into the package
// sentinels, keeping the server's own message where there is one.
func (c *RESTClient) mapError(resp *resty.Response, err error) error {
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	if !resp.IsError() {
		return nil
	}
	switch resp.StatusCode() {
	case http.StatusUnauthorized:
		return ErrUnauthorized
	case http.StatusNotFound:
		return ErrNotFound
	}
	if msg := serverMessage(resp); msg != "" {
		return fmt.Errorf("server rejected request: %s", msg)
	}
	return fmt.Errorf("server rejected request: %s", resp.Status())
}

func (c *RESTClient) Login(ctx context.Context, username, password string) (*AuthResult, error) {
	var out AuthResult
	resp, err := c.http.R().SetContext(ctx).
		SetBody(map[string]string{"username": username, "password": password}).
		SetResult(&out).
		Post("/auth/login")
	if err := c.mapError(resp, err); err != nil {
		return nil, fmt.Errorf("login: %w", err)
	}
	return &out, nil
}

func (c *RESTClient) Register(ctx context.Context, username, email, password string) (*AuthResult, error) {
	var out AuthResult
	resp, err := c.http.R().SetContext(ctx).
		SetBody(map[string]string{"username": username, "email": email, "password": password}).
		SetResult(&out).
		Post("/auth/register")
	if err := c.mapError(resp, err); err != nil {
		return nil, fmt.Errorf("register: %w", err)
	}
	return &out, nil
}

func (c *RESTClient) Me(ctx context.Context) (*models.User, error) {
	var out struct {
		User models.User `json:"user"`
	}
	resp, err := c.http.R().SetContext(ctx).SetResult(&out).Get("/auth/me")
	if err := c.mapError(resp, err); err != nil {
		return nil, fmt.Errorf("session check: %w", err)
	}
	return &out.User, nil
}

func (c *RESTClient) ChangePassword(ctx context.Context, oldPassword, newPassword string) error {
	resp, err := c.http.R().SetContext(ctx).
		SetBody(map[string]string{"oldPassword": oldPassword, "newPassword": newPassword}).
		Put("/auth/password")
	if err := c.mapError(resp, err); err != nil {
		return fmt.Errorf("change password: %w", err)
	}
	return nil
}

func (c *RESTClient) GetUser(ctx context.Context, userID string) (*models.User, error) {
	var out models.User
	resp, err := c.http.R().SetContext(ctx).SetResult(&out).Get("/users/" + userID)
	if err := c.mapError(resp, err); err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}
	return &out, nil
}

func (c *RESTClient) UpdateProfile(ctx context.Context, update ProfileUpdate) (*models.User, error) {
	var out models.User
	resp, err := c.http.R().SetContext(ctx).SetBody(update).SetResult(&out).Put("/users/me")
	if err := c.mapError(resp, err); err != nil {
		return nil, fmt.Errorf("update profile: %w", err)
	}
	return &out, nil
}

func (c *RESTClient) SearchUsers(ctx context.Context, query string) ([]models.User, error) {
	var out []models.User
	resp, err := c.http.R().SetContext(ctx).
		SetQueryParam("q", query).
		SetResult(&out).
		Get("/users/search")
	if err := c.mapError(resp, err); err != nil {
		return nil, fmt.Errorf("search users: %w", err)
	}
	return out, nil
}

func (c *RESTClient) Suggestions(ctx context.Context) ([]models.User, error) {
	var out []models.User
	resp, err := c.http.R().SetContext(ctx).SetResult(&out).Get("/users/suggestions")
	if err := c.mapError(resp, err); err != nil {
		return nil, fmt.Errorf("suggestions: %w", err)
	}
	return out, nil
}

// followRequestSent is the backend's answer when the target account is
// private and the follow turned into a pending request.
const followRequestSent = "Follow request sent"

func (c *RESTClient) Follow(ctx context.Context, userID string) (bool, error) {
	var out struct {
		Message string `json:"message"`
	}
	resp, err := c.http.R().SetContext(ctx).SetResult(&out).Post("/users/" + userID + "/follow")
	if err := c.mapError(resp, err); err != nil {
		return false, fmt.Errorf("follow: %w", err)
	}
	return out.Message == followRequestSent, nil
}

func (c *RESTClient) Unfollow(ctx context.Context, userID string) error {
	resp, err := c.http.R().SetContext(ctx).Post("/users/" + userID + "/unfollow")
	if err := c.mapError(resp, err); err != nil {
		return fmt.Errorf("unfollow: %w", err)
	}
	return nil
}

func (c *RESTClient) BlockUser(ctx context.Context, userID string) error {
	resp, err := c.http.R().SetContext(ctx).Post("/users/" + userID + "/block")
	if err := c.mapError(resp, err); err != nil {
		return fmt.Errorf("block user: %w", err)
	}
	return nil
}

func (c *RESTClient) Feed(ctx context.Context) ([]models.Post, error) {
	var out []models.Post
	resp, err := c.http.R().SetContext(ctx).SetResult(&out).Get("/posts/feed")
	if err := c.mapError(resp, err); err != nil {
		return nil, fmt.Errorf("feed: %w", err)
	}
	return out, nil
}

func (c *RESTClient) CreatePost(ctx context.Context, caption, visibility string, image *filex.Attachment) (*models.Post, error) {
	var out models.Post
	req := c.http.R().SetContext(ctx).SetResult(&out)
	if image != nil {
		req.SetFileReader("image", image.Name, bytes.NewReader(image.Data))
		form := map[string]string{"caption": caption}
		if visibility != "" {
			form["visibility"] = visibility
		}
		req.SetFormData(form)
	} else {
		req.SetBody(map[string]string{"caption": caption, "visibility": visibility})
	}
	resp, err := req.Post("/posts")
	if err := c.mapError(resp, err); err != nil {
		return nil, fmt.Errorf("create post: %w", err)
	}
	return &out, nil
}

func (c *RESTClient) DeletePost(ctx context.Context, postID string) error {
	resp, err := c.http.R().SetContext(ctx).Delete("/posts/" + postID)
	if err := c.mapError(resp, err); err != nil {
		return fmt.Errorf("delete post: %w", err)
	}
	return nil
}

func (c *RESTClient) LikePost(ctx context.Context, postID string) error {
	resp, err := c.http.R().SetContext(ctx).Post("/posts/" + postID + "/like")
	if err := c.mapError(resp, err); err != nil {
		return fmt.Errorf("like post: %w", err)
	}
	return nil
}

func (c *RESTClient) SavePost(ctx context.Context, postID string) error {
	resp, err := c.http.R().SetContext(ctx).Post("/posts/" + postID + "/save")
	if err := c.mapError(resp, err); err != nil {
		return fmt.Errorf("save post: %w", err)
	}
	return nil
}

func (c *RESTClient) AddComment(ctx context.Context, postID, text string) ([]models.Comment, error) {
	var out []models.Comment
	resp, err := c.http.R().SetContext(ctx).
		SetBody(map[string]string{"text": text}).
		SetResult(&out).
		Post("/posts/" + postID + "/comment")
	if err := c.mapError(resp, err); err != nil {
		return nil, fmt.Errorf("add comment: %w", err)
	}
	return out, nil
}

func (c *RESTClient) LikeComment(ctx context.Context, postID, commentID string) error {
	resp, err := c.http.R().SetContext(ctx).Post("/posts/" + postID + "/comments/" + commentID + "/like")
	if err := c.mapError(resp, err); err != nil {
		return fmt.Errorf("like comment: %w", err)
	}
	return nil
}

func (c *RESTClient) DeleteComment(ctx context.Context, postID, commentID string) error {
	resp, err := c.http.R().SetContext(ctx).Delete("/posts/" + postID + "/comments/" + commentID)
	if err := c.mapError(resp, err); err != nil {
		return fmt.Errorf("delete comment: %w", err)
	}
	return nil
}

func (c *RESTClient) Notifications(ctx context.Context) ([]models.Notification, error) {
	var out []models.Notification
	resp, err := c.http.R().SetContext(ctx).SetResult(&out).Get("/notifications")
	if err := c.mapError(resp, err); err != nil {
		return nil, fmt.Errorf("notifications: %w", err)
	}
	return out, nil
}

func (c *RESTClient) MarkNotificationsRead(ctx context.Context, filter ReadFilter) error {
	req := c.http.R().SetContext(ctx)
	if filter.Type != "" {
		req.SetQueryParam("type", filter.Type)
	}
	if filter.SenderID != "" {
		req.SetQueryParam("senderId", filter.SenderID)
	}
	resp, err := req.Put("/notifications/read")
	if err := c.mapError(resp, err); err != nil {
		return fmt.Errorf("mark notifications read: %w", err)
	}
	return nil
}

func (c *RESTClient) Conversations(ctx context.Context) ([]models.Conversation, error) {
	var out []models.Conversation
	resp, err := c.http.R().SetContext(ctx).SetResult(&out).Get("/messages/conversations")
	if err := c.mapError(resp, err); err != nil {
		return nil, fmt.Errorf("conversations: %w", err)
	}
	return out, nil
}

func (c *RESTClient) Messages(ctx context.Context, partnerID string) ([]models.Message, error) {
	var out []models.Message
	resp, err := c.http.R().SetContext(ctx).SetResult(&out).Get("/messages/" + partnerID)
	if err := c.mapError(resp, err); err != nil {
		return nil, fmt.Errorf("messages: %w", err)
	}
	return out, nil
}

func (c *RESTClient) SendMessage(ctx context.Context, req SendMessageRequest) (*models.Message, error) {
	if req.Content == "" && req.Image == nil && req.SharedPostID == "" {
		return nil, fmt.Errorf("send message: %w: text, image or shared post required", common.ErrorValidation)
	}

	var out models.Message
	r := c.http.R().SetContext(ctx).SetResult(&out)

	if req.Image != nil {
		form := map[string]string{"receiverId": req.ReceiverID}
		if req.Content != "" {
			form["content"] = req.Content
		}
		if req.SharedPostID != "" {
			form["sharedPostId"] = req.SharedPostID
		}
		r.SetFormData(form)
		r.SetFileReader("image", req.Image.Name, bytes.NewReader(req.Image.Data))
	} else {
		r.SetBody(map[string]string{
			"receiverId":   req.ReceiverID,
			"content":      req.Content,
			"sharedPostId": req.SharedPostID,
		})
	}

	resp, err := r.Post("/messages")
	if err := c.mapError(resp, err); err != nil {
		return nil, fmt.Errorf("send message: %w", err)
	}
	return &out, nil
}
