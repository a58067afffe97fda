// Package queue carries workflow notification events out of the request path.
// Services publish events to a durable RabbitMQ queue; the background consumer
// renders and sends the emails. Mail delivery never blocks or fails the
// mutating request.
package queue

import "time"

const NotificationQueueName = "conference.notifications"

// Event types emitted by the workflow engine.
const (
	EventUserWelcome      = "user.welcome"
	EventUserLogin        = "user.login"
	EventPaperSubmitted   = "paper.submitted"
	EventPaperResubmitted = "paper.resubmitted"
	EventPaperDecision    = "paper.decision"
	EventReviewerAssigned = "reviewer.assigned"
	EventReviewerRemoved  = "reviewer.removed"
	EventReviewSubmitted  = "review.submitted"
	EventReviewVerdict    = "review.verdict"
)

// Recipient is one addressee of a notification event.
type Recipient struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

// NotificationEvent is the message published for every workflow notification.
// Subject and Body are fully rendered by the producer; the consumer only wraps
// them into the mail layout and sends.
type NotificationEvent struct {
	Type       string      `json:"type"`
	Recipients []Recipient `json:"recipients"`
	Subject    string      `json:"subject"`
	Body       string      `json:"body"`
	PaperID    int         `json:"paper_id,omitempty"`
	OccurredAt time.Time   `json:"occurred_at"`
}
