package model

import (
	"fmt"
	"time"
)

// EventKind enumerates the business events that produce a notification.
type EventKind string

const (
	EventQuoteSubmission EventKind = "quote_submission"
	EventTest            EventKind = "test"
)

// NotificationEvent is the logical message produced by a business event. It is
// ephemeral: built at dispatch time, fanned out to every registered device,
// never persisted.
type NotificationEvent struct {
	Kind      EventKind
	Title     string
	Body      string
	TargetURL string
	Metadata  map[string]string
}

// NewQuoteSubmissionEvent builds the notification for a freshly submitted
// quote request.
func NewQuoteSubmissionEvent(userName, userEmail string) NotificationEvent {
	return NotificationEvent{
		Kind:      EventQuoteSubmission,
		Title:     "🔔 New Quote Submission",
		Body:      fmt.Sprintf("%s has submitted a new quote.", userName),
		TargetURL: "/",
		Metadata: map[string]string{
			"type":      string(EventQuoteSubmission),
			"userName":  userName,
			"userEmail": userEmail,
			"timestamp": time.Now().UTC().Format(time.RFC3339),
			"url":       "/",
		},
	}
}

// NewTestEvent builds the notification used to verify delivery end to end
// without a real quote submission.
func NewTestEvent(triggeredBy string) NotificationEvent {
	return NotificationEvent{
		Kind:      EventTest,
		Title:     "🧪 Test Notification Received",
		Body:      fmt.Sprintf("Triggered by %s.", triggeredBy),
		TargetURL: "/",
		Metadata: map[string]string{
			"type":      string(EventTest),
			"timestamp": time.Now().UTC().Format(time.RFC3339),
			"url":       "/",
		},
	}
}
