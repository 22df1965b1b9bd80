package models

import (
	"time"

	"github.com/google/uuid"
)

// Sample is a leaf content record describing sequenced material within a
// collection. LastModified is bumped on every save.
type Sample struct {
	ID            uuid.UUID `json:"id"`
	CollectionID  uuid.UUID `json:"collectionId"`
	Name          string    `json:"name"`
	Source        string    `json:"source"`
	Organism      string    `json:"organism"`
	QCPass        *bool     `json:"qcPass"`
	QCMessage     string    `json:"qcMessage"`
	PIName        string    `json:"piName"`
	AnnotatorName string    `json:"annotatorName"`
	Description   string    `json:"description"`
	CreatedAt     time.Time `json:"createdAt"`
	LastModified  time.Time `json:"lastModified"`
}

// SampleRequest is the payload for sample creation and update. Nil fields
// are left unchanged on update.
type SampleRequest struct {
	Name          *string `json:"name"`
	Source        *string `json:"source"`
	Organism      *string `json:"organism"`
	QCPass        *bool   `json:"qcPass"`
	QCMessage     *string `json:"qcMessage"`
	PIName        *string `json:"piName"`
	AnnotatorName *string `json:"annotatorName"`
	Description   *string `json:"description"`
}

// Paper is a literature reference attached to a collection.
type Paper struct {
	ID           uuid.UUID `json:"id"`
	CollectionID uuid.UUID `json:"collectionId"`
	Title        string    `json:"title"`
	Year         int       `json:"year"`
	URL          string    `json:"url"`
	CreatedAt    time.Time `json:"createdAt"`
}

// PaperRequest is the payload for paper creation and update.
type PaperRequest struct {
	Title *string `json:"title"`
	Year  *int    `json:"year"`
	URL   *string `json:"url"`
}
