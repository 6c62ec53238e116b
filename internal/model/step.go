package model

import "github.com/google/uuid"

// Template is the content definition a workflow step delivers.
type Template struct {
	ID         uuid.UUID `json:"id"`
	Subject    string    `json:"subject"`
	Content    string    `json:"content"`
	SenderName string    `json:"sender_name"`
	LayoutID   string    `json:"layout_id,omitempty"`
}

// ReplyCallback enables inbound reply handling for a step.
type ReplyCallback struct {
	Active bool   `json:"active"`
	URL    string `json:"url"`
}

// WorkflowStep is the channel step carried inside a trigger job. The step
// travels with the job so the pipeline never re-reads the workflow
// definition mid-flight.
type WorkflowStep struct {
	ID             uuid.UUID      `json:"id"`
	Channel        Channel        `json:"channel"`
	Template       *Template      `json:"template"`
	LayoutOverride string         `json:"layout_override,omitempty"`
	ReplyCallback  *ReplyCallback `json:"reply_callback,omitempty"`
}
