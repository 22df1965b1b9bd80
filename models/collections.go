package models

import (
	"time"

	"github.com/google/uuid"
)

// Collection groups samples and papers under a single owner. Private
// collections are only visible to the owner and to users or groups the
// collection has been shared with.
type Collection struct {
	ID           uuid.UUID `json:"id"`
	Owner        string    `json:"owner"`
	Name         string    `json:"name"`
	Description  string    `json:"description"`
	Private      bool      `json:"private"`
	CreatedAt    time.Time `json:"createdAt"`
	LastModified time.Time `json:"lastModified"`
	CanEdit      bool      `json:"canEdit,omitempty"`
	CanExecute   bool      `json:"canExecute,omitempty"`
}

// CollectionDetail is a collection with its contents and sharing expanded.
type CollectionDetail struct {
	Collection
	Samples []Sample          `json:"samples"`
	Papers  []Paper           `json:"papers"`
	Users   []CollectionUser  `json:"users,omitempty"`
	Groups  []CollectionGroup `json:"groups,omitempty"`
}

// CollectionUser is a direct share of a collection with a user.
type CollectionUser struct {
	User       User `json:"user"`
	CanEdit    bool `json:"canEdit"`
	CanExecute bool `json:"canExecute"`
}

// CollectionGroup is a share of a collection with a whole group.
type CollectionGroup struct {
	Group   Group `json:"group"`
	CanEdit bool  `json:"canEdit"`
}

// CollectionRequest is the payload for collection creation and update.
// Nil fields are left unchanged on update.
type CollectionRequest struct {
	Name        string  `json:"name"`
	Description *string `json:"description"`
	Private     *bool   `json:"private"`
}

// CollectionShareRequest sets the access level of a user or group share.
// Nil fields take the defaults (edit allowed, execute denied).
type CollectionShareRequest struct {
	CanEdit    *bool `json:"canEdit"`
	CanExecute *bool `json:"canExecute"`
}
