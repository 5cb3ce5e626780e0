// Package models defines client-side data models used by the instaexplore CLI.
// All types mirror backend resources; the client holds cached, possibly stale
// copies and never owns the canonical record.
package models

// User is a backend-owned profile.
type User struct {
	ID               string   `json:"_id"`
	Username         string   `json:"username"`
	FullName         string   `json:"fullName,omitempty"`
	Bio              string   `json:"bio,omitempty"`
	Avatar           string   `json:"avatar,omitempty"`
	IsPrivate        bool     `json:"isPrivate"`
	Followers        []string `json:"followers,omitempty"`
	Following        []string `json:"following,omitempty"`
	IsFollowing      bool     `json:"isFollowing,omitempty"`
	IsRequested      bool     `json:"isRequested,omitempty"`
	TwoFactorEnabled bool     `json:"twoFactorEnabled,omitempty"`
}

// Account pairs a remembered user with the bearer token that authenticates it.
// The remembered-accounts list is ordered most-recently-used first.
type Account struct {
	User  User   `json:"user"`
	Token string `json:"token"`
}
