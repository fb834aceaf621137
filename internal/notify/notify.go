// Package notify posts job status changes to chat platforms (Slack, Discord).
package notify

import (
	"context"
	"fmt"
	"log"
	"time"
)

// Adapter is the interface platform-specific implementations satisfy. The
// backend only ever posts; it never reads messages back.
type Adapter interface {
	// Connect establishes a connection to the chat platform.
	Connect(ctx context.Context) error

	// Send delivers an outbound message to the platform.
	Send(ctx context.Context, msg Message) error

	// Close gracefully shuts down the adapter connection.
	Close() error
}

// Message represents a message to be posted to the chat platform.
type Message struct {
	Channel string  // target channel (empty uses the adapter default)
	Text    string  // message text (platform-native formatting)
	Events  []Event // structured event attachments
}

// Event represents a job event formatted for display in chat.
type Event struct {
	Title    string  // event headline (e.g. "Job B30701 is Ready for Press")
	Body     string  // detail text
	Severity string  // "info", "warning", "error", "success"
	Color    string  // sidebar color hint
	Fields   []Field // key-value metadata pairs
}

// Field is a key-value pair displayed in an event attachment.
type Field struct {
	Name  string
	Value string
	Short bool // hint: render side-by-side with another field
}

// Color constants for event severity.
const (
	ColorSuccess = "#36a64f"
	ColorInfo    = "#2196f3"
	ColorWarning = "#ff9800"
	ColorError   = "#e53935"
)

// severityColor maps a severity string to a sidebar color.
func severityColor(severity string) string {
	switch severity {
	case "success":
		return ColorSuccess
	case "info":
		return ColorInfo
	case "warning":
		return ColorWarning
	case "error":
		return ColorError
	default:
		return ColorInfo
	}
}

// StatusChange describes a committed status transition.
type StatusChange struct {
	JobNumber string
	Customer  string
	Status    string
	Actor     string // display name of who made the change, if known
	At        time.Time
}

// statusSeverity returns the appropriate severity for a job status.
func statusSeverity(status string) string {
	switch status {
	case "Ready for Press":
		return "success"
	case "On Hold":
		return "warning"
	default:
		return "info"
	}
}

// FormatStatusEvent formats a status change for chat display.
func FormatStatusEvent(ch StatusChange) Event {
	severity := statusSeverity(ch.Status)

	fields := []Field{
		{Name: "Job", Value: ch.JobNumber, Short: true},
		{Name: "Status", Value: ch.Status, Short: true},
	}
	if ch.Customer != "" {
		fields = append(fields, Field{Name: "Customer", Value: ch.Customer, Short: true})
	}
	if ch.Actor != "" {
		fields = append(fields, Field{Name: "By", Value: ch.Actor, Short: true})
	}

	body := ch.Customer
	return Event{
		Title:    fmt.Sprintf("Job %s — %s", ch.JobNumber, ch.Status),
		Body:     body,
		Severity: severity,
		Color:    severityColor(severity),
		Fields:   fields,
	}
}

// Notifier posts job events to a single configured channel. All posting is
// best-effort: a failed delivery is logged, never surfaced to the caller,
// so a chat outage cannot fail a save.
type Notifier struct {
	adapter Adapter
	channel string
}

// New creates a Notifier posting to the given channel.
func New(adapter Adapter, channel string) *Notifier {
	return &Notifier{adapter: adapter, channel: channel}
}

// StatusChanged posts a committed transition to the configured channel.
// Safe to call on a nil Notifier (notifications disabled).
func (n *Notifier) StatusChanged(ctx context.Context, ch StatusChange) {
	if n == nil || n.adapter == nil {
		return
	}
	evt := FormatStatusEvent(ch)
	msg := Message{Channel: n.channel, Events: []Event{evt}}
	if err := n.adapter.Send(ctx, msg); err != nil {
		log.Printf("notify: post status change for %s: %v", ch.JobNumber, err)
	}
}

// Close shuts down the underlying adapter.
func (n *Notifier) Close() error {
	if n == nil || n.adapter == nil {
		return nil
	}
	return n.adapter.Close()
}
