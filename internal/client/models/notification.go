package models

import "time"

// NotificationType classifies a notification record.
type NotificationType string

const (
	NotificationLike          NotificationType = "like"
	NotificationComment       NotificationType = "comment"
	NotificationCommentLike   NotificationType = "comment_like"
	NotificationFollow        NotificationType = "follow"
	NotificationFollowRequest NotificationType = "follow_request"
	NotificationFollowAccept  NotificationType = "follow_accept"
	NotificationMessage       NotificationType = "message"
)

// Notification is created server-side and reaches the client either over the
// realtime channel or in a bulk fetch. Only IsRead is mutated locally.
type Notification struct {
	ID        string           `json:"_id"`
	Type      NotificationType `json:"type"`
	Sender    User             `json:"sender"`
	Content   string           `json:"content,omitempty"`
	Post      *PostRef         `json:"post,omitempty"`
	CreatedAt time.Time        `json:"createdAt"`
	IsRead    bool             `json:"isRead"`
}

// IsMessage reports whether the record belongs to the messages surface
// rather than the activity feed.
func (n Notification) IsMessage() bool {
	return n.Type == NotificationMessage
}
