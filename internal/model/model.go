// Package model defines the core domain types shared by the events client.
package model

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"
)

// ID is an opaque identifier assigned by the platform. The platform emits
// numeric ids; ID accepts both JSON numbers and strings.
type ID string

// String returns the id as text.
func (id ID) String() string { return string(id) }

// IsZero reports whether the id is empty.
func (id ID) IsZero() bool { return id == "" }

// UnmarshalJSON decodes a JSON string or number into an ID.
func (id *ID) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		*id = ""
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return fmt.Errorf("decode id: %w", err)
		}
		*id = ID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return fmt.Errorf("decode id: %w", err)
	}
	*id = ID(n.String())
	return nil
}

// Author is the denormalised author snapshot attached to a comment. It may be
// stale relative to the live profile.
type Author struct {
	FullName  string  `json:"full_name,omitempty"`
	AvatarURL *string `json:"avatar_url,omitempty"`
}

// Comment is a single comment attached to an event.
type Comment struct {
	ID               ID        `json:"comment_id"`
	EventID          ID        `json:"post_id"`
	AuthorID         ID        `json:"user_id,omitempty"`
	Author           *Author   `json:"user,omitempty"`
	Body             string    `json:"text"`
	CreatedAt        time.Time `json:"created_at"`
	EditableByViewer bool      `json:"editable_by_viewer"`
}

// AuthorName returns the author display name, falling back to "Anonymous"
// for legacy entries without an author snapshot.
func (c *Comment) AuthorName() string {
	if c.Author == nil || strings.TrimSpace(c.Author.FullName) == "" {
		return "Anonymous"
	}
	return c.Author.FullName
}

// AuthorAvatarURL returns the avatar URL or an empty string.
func (c *Comment) AuthorAvatarURL() string {
	if c.Author == nil || c.Author.AvatarURL == nil {
		return ""
	}
	return *c.Author.AvatarURL
}

// AuthorInitial is the placeholder avatar letter used when no avatar exists.
// Comments without an author name get "U".
func (c *Comment) AuthorInitial() string {
	if c.Author == nil {
		return "U"
	}
	name := strings.TrimSpace(c.Author.FullName)
	if name == "" {
		return "U"
	}
	r, _ := utf8.DecodeRuneInString(name)
	return strings.ToUpper(string(r))
}

// Event is a bookable activity (a "post" on the platform) together with its
// ticket counters. Counters are authoritative only right after a fetch.
type Event struct {
	ID               ID        `json:"post_id"`
	Title            string    `json:"title"`
	Text             string    `json:"text,omitempty"`
	ImageURL         string    `json:"image_url,omitempty"`
	Tags             []string  `json:"tags,omitempty"`
	ViewsCount       int       `json:"views_count"`
	CreatedAt        time.Time `json:"created_at"`
	TicketsLimit     *int      `json:"tickets_limit"`
	TicketsAvailable int       `json:"tickets_available"`
	TicketsBooked    int       `json:"tickets_booked"`
	IsAvailable      bool      `json:"is_available"`
}

// Unlimited returns true when the event has no ticket capacity.
func (e *Event) Unlimited() bool {
	return e.TicketsLimit == nil
}

// TicketCounter renders the "available/limit" counter, or an empty string
// for events without a limit.
func (e *Event) TicketCounter() string {
	if e.Unlimited() {
		return ""
	}
	return fmt.Sprintf("%d/%d", e.TicketsAvailable, *e.TicketsLimit)
}

// VisibleTags drops the empty placeholder tag the platform sends for
// untagged events.
func (e *Event) VisibleTags() []string {
	tags := make([]string, 0, len(e.Tags))
	for _, t := range e.Tags {
		if strings.TrimSpace(t) != "" {
			tags = append(tags, t)
		}
	}
	return tags
}

// Availability is the ticket summary for a single event.
type Availability struct {
	Available   int  `json:"available"`
	Booked      int  `json:"booked"`
	Limit       *int `json:"limit"`
	IsAvailable bool `json:"is_available"`
}

// CreateCommentRequest is the payload for creating a comment.
type CreateCommentRequest struct {
	Body    string `json:"text"`
	EventID ID     `json:"post_id"`
}

// UpdateCommentRequest is the payload for editing a comment.
type UpdateCommentRequest struct {
	Body string `json:"text"`
}

// ReserveRequest is the payload for reserving a ticket.
type ReserveRequest struct {
	EventID ID `json:"post_id"`
}

// ErrorResponse is the platform's JSON error envelope. Different endpoints
// use different field names for the message.
type ErrorResponse struct {
	Detail  string `json:"detail,omitempty"`
	Error   string `json:"error,omitempty"`
	Message string `json:"message,omitempty"`
	Code    string `json:"code,omitempty"`
}

// Text returns the first non-empty message field.
func (r ErrorResponse) Text() string {
	switch {
	case r.Detail != "":
		return r.Detail
	case r.Error != "":
		return r.Error
	default:
		return r.Message
	}
}

// Viewer identifies the current user. It is supplied by the caller; the
// client never derives it from the credential.
type Viewer struct {
	UserID        ID
	Authenticated bool
}

// Owns reports whether c was written by the viewer. It is for display only;
// edit and delete rights come from the server's editable flag.
func (v Viewer) Owns(c Comment) bool {
	return !v.UserID.IsZero() && c.AuthorID == v.UserID
}
