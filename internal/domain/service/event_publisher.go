package service

import (
	"context"
	"time"
)

// Event kinds published to the analysis pipeline.
const (
	EventSubmissionReceived = "submission.received"
	EventAnalyzerUpdated    = "analyzer.updated"
)

// CourseEvent is the message handed to the external analysis pipeline when a
// submission lands or an analyzer changes.
type CourseEvent struct {
	RequestID           string    `json:"request_id,omitempty"` // For distributed tracing
	Kind                string    `json:"kind"`
	StudentAssignmentID int64     `json:"student_assignment_id,omitempty"`
	AnalyzerID          int64     `json:"analyzer_id,omitempty"`
	SubmissionURL       string    `json:"submission_url,omitempty"`
	OccurredAt          time.Time `json:"occurred_at"`
}

// EventPublisher defines the interface for publishing events to a message queue
type EventPublisher interface {
	// PublishCourseEvent publishes an event for async processing.
	PublishCourseEvent(ctx context.Context, event *CourseEvent) error

	// Close releases any resources held by the publisher
	Close() error
}
