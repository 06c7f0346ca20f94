// Package queue defines the domain events published to the message broker
// and the consumer that turns them into the activity log.
package queue

// EventType names what happened.  It is also used as the AMQP message type.
type EventType string

const (
	EventIdeaSubmitted     EventType = "idea.submitted"
	EventIdeaStatusChanged EventType = "idea.status_changed"
	EventIdeaUpvoted       EventType = "idea.upvoted"
	EventCommentPosted     EventType = "comment.posted"
	EventPointsAwarded     EventType = "points.awarded"
)

// ActivityEvent is published after every successful mutation.  Fields not
// relevant to the event type are left empty.
type ActivityEvent struct {
	ID         string    `json:"id"`
	Type       EventType `json:"type"`
	IdeaID     int64     `json:"idea_id,omitempty"`
	IdeaTitle  string    `json:"idea_title,omitempty"`
	Username   string    `json:"username"`
	Status     string    `json:"status,omitempty"`
	Points     int       `json:"points,omitempty"`
	Total      int       `json:"total,omitempty"`
	Level      int       `json:"level,omitempty"`
	Reason     string    `json:"reason,omitempty"`
	OccurredAt string    `json:"occurred_at"`
}
