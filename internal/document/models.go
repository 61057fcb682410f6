package document

import (
	"strings"
	"time"
)

// Status is the workflow state of a document.
type Status string

const (
	StatusDraft     Status = "draft"
	StatusApproved  Status = "approved"
	StatusRejected  Status = "rejected"
	StatusPublished Status = "published"
)

// Valid reports whether s is one of the known workflow states.
func (s Status) Valid() bool {
	switch s {
	case StatusDraft, StatusApproved, StatusRejected, StatusPublished:
		return true
	}
	return false
}

// ParseStatus normalizes user input into a Status. Empty input means draft.
func ParseStatus(v string) (Status, bool) {
	v = strings.ToLower(strings.TrimSpace(v))
	if v == "" {
		return StatusDraft, true
	}
	s := Status(v)
	return s, s.Valid()
}

// Document is the unit of work moved through the editorial workflow.
// ID and CreatedAt are assigned by the service on first save and never change.
type Document struct {
	ID        string    `json:"id" bson:"id"`
	OwnerID   string    `json:"ownerId,omitempty" bson:"ownerId,omitempty"`
	Title     string    `json:"title" bson:"title"`
	Body      string    `json:"body" bson:"body"`
	Status    Status    `json:"status" bson:"status"`
	CreatedAt time.Time `json:"createdAt" bson:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt" bson:"updatedAt"`
}

// Clone returns a copy that shares no state with d.
func (d *Document) Clone() *Document {
	if d == nil {
		return nil
	}
	c := *d
	return &c
}

// SaveInput is the payload of a save request. An empty ID creates a new document.
type SaveInput struct {
	ID      string `json:"id,omitempty"`
	OwnerID string `json:"ownerId,omitempty"`
	Title   string `json:"title"`
	Body    string `json:"body"`
	Status  Status `json:"status"`
}
