package models

import (
	"time"

	"github.com/google/uuid"
)

// User represents a user account. PasswordHash never leaves the system.
type User struct {
	ID           uuid.UUID  `json:"id"`
	Username     string     `json:"username"`
	Email        string     `json:"email,omitempty"`
	Name         string     `json:"name"`
	Image        string     `json:"image,omitempty"`
	PasswordHash string     `json:"-"`
	LastLogin    *time.Time `json:"lastLogin,omitempty"`
	CreatedAt    time.Time  `json:"createdAt"`
}

// UserProfile is the expanded view of a user returned by the profile
// endpoints. The restricted variant (someone else's profile) omits email,
// last login, invitations and the admin group list, and filters collections
// to public ones.
type UserProfile struct {
	User
	Groups           []Group      `json:"groups"`
	AdminGroups      []Group      `json:"adminGroups,omitempty"`
	Invitations      []Invitation `json:"invitations,omitempty"`
	Collections      []Collection `json:"collections"`
	OwnedCollections []Collection `json:"ownedCollections"`
}

// SignupRequest is the payload for account creation.
type SignupRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Name     string `json:"name"`
	Password string `json:"password"`
}

// LoginRequest is the payload for credential login.
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// UpdateUserRequest carries profile updates. Nil fields are left unchanged.
type UpdateUserRequest struct {
	Email *string `json:"email"`
	Name  *string `json:"name"`
	Image *string `json:"image"`
}

// UpdatePasswordRequest carries a password change for a logged-in user.
type UpdatePasswordRequest struct {
	Current string `json:"current"`
	New     string `json:"new"`
}

// PasswordResetRequest starts the reset flow for the given email address.
type PasswordResetRequest struct {
	Email string `json:"email"`
}

// PasswordReset completes the reset flow with an emailed token.
type PasswordReset struct {
	Token    string `json:"token"`
	Password string `json:"password"`
}

// AccessTokenResponse is returned by the auth mutations. The refresh token
// travels separately as an HTTP-only cookie.
type AccessTokenResponse struct {
	AccessToken string `json:"accessToken"`
}
