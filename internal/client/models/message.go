package models

import "time"

// LastMessage is the conversation-list preview snippet.
type LastMessage struct {
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"createdAt"`
}

// Conversation is derived client-side from the conversation-list resource and
// is not persisted beyond the current session.
type Conversation struct {
	UserInfo    User        `json:"userInfo"`
	LastMessage LastMessage `json:"lastMessage"`
}

// Message is one entry of a per-partner history. Histories are append-only;
// ordering is by server-assigned creation time.
type Message struct {
	ID         string    `json:"_id"`
	Sender     string    `json:"sender"`
	Receiver   string    `json:"receiver,omitempty"`
	Content    string    `json:"content,omitempty"`
	Image      string    `json:"image,omitempty"`
	SharedPost *PostRef  `json:"sharedPost,omitempty"`
	CreatedAt  time.Time `json:"createdAt"`
}
