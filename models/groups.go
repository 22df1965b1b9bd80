package models

import (
	"time"

	"github.com/google/uuid"
)

// Group represents a named group of users. Admins are always members.
type Group struct {
	ID          uuid.UUID `json:"id"`
	Slug        string    `json:"slug"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"createdAt"`
	UserCount   int       `json:"userCount,omitempty"`
	IsAdmin     bool      `json:"isAdmin,omitempty"`
}

// GroupDetail is a group with its membership expanded. Invitations are only
// populated for group admins.
type GroupDetail struct {
	Group
	Users       []User       `json:"users"`
	Admins      []User       `json:"admins"`
	Invitations []Invitation `json:"invitations,omitempty"`
}

// GroupRequest is the payload for group creation and update.
type GroupRequest struct {
	Slug        string `json:"slug"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

// Invitation is a pending request for a user to join a group. At most one
// exists per user/group pair.
type Invitation struct {
	ID        uuid.UUID `json:"id"`
	User      User      `json:"user"`
	Group     Group     `json:"group"`
	CreatedAt time.Time `json:"createdAt"`
}

// InvitationRequest invites a user, by username, to a group.
type InvitationRequest struct {
	Username string `json:"username"`
}
