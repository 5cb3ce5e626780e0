package models

import "time"

// PostRef is the shallow post reference embedded in notifications and shared
// messages.
type PostRef struct {
	ID    string `json:"_id"`
	Image string `json:"image,omitempty"`
}

// Post is a feed entry together with the viewer-specific interaction flags
// the backend computes per request (IsLiked, IsSaved).
type Post struct {
	ID         string    `json:"_id"`
	User       User      `json:"user"`
	Caption    string    `json:"caption,omitempty"`
	Image      string    `json:"image,omitempty"`
	Visibility string    `json:"visibility,omitempty"`
	Likes      []string  `json:"likes,omitempty"`
	Comments   []Comment `json:"comments,omitempty"`
	IsLiked    bool      `json:"isLiked"`
	IsSaved    bool      `json:"isSaved"`
	CreatedAt  time.Time `json:"createdAt"`
}

// Comment is a post comment with its own like state.
type Comment struct {
	ID        string    `json:"_id"`
	User      User      `json:"user"`
	Text      string    `json:"text"`
	Likes     []string  `json:"likes,omitempty"`
	IsLiked   bool      `json:"isLiked"`
	CreatedAt time.Time `json:"createdAt"`
}
