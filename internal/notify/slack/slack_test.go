package slack

import (
	"context"
	"sync"
	"testing"
	"time"

	slackapi "github.com/slack-go/slack"
	"github.com/stargate-press/stargate/internal/notify"
)

// mockClient records PostMessage calls and can simulate rate limiting.
type mockClient struct {
	mu         sync.Mutex
	posts      []string // channel IDs
	lastOpts   []slackapi.MsgOption
	rateLimits int // number of rate-limit errors to return before succeeding
}

func (m *mockClient) AuthTest() (*slackapi.AuthTestResponse, error) {
	return &slackapi.AuthTestResponse{UserID: "UBOT"}, nil
}

func (m *mockClient) PostMessage(channelID string, options ...slackapi.MsgOption) (string, string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.rateLimits > 0 {
		m.rateLimits--
		return "", "", &slackapi.RateLimitedError{RetryAfter: time.Millisecond}
	}
	m.posts = append(m.posts, channelID)
	m.lastOpts = options
	return channelID, "123.456", nil
}

func newConnected(t *testing.T, client *mockClient) *Adapter {
	t.Helper()
	a, err := New(AdapterOpts{Client: client, ChannelID: "CDEFAULT"})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if err := a.Connect(context.Background()); err != nil {
		t.Fatalf("Connect: %v", err)
	}
	return a
}

func TestNew_RequiresToken(t *testing.T) {
	if _, err := New(AdapterOpts{}); err == nil {
		t.Fatal("expected error for missing bot token")
	}
}

func TestSend_UsesDefaultChannel(t *testing.T) {
	client := &mockClient{}
	a := newConnected(t, client)

	err := a.Send(context.Background(), notify.Message{Text: "hello"})
	if err != nil {
		t.Fatalf("Send: %v", err)
	}
	if len(client.posts) != 1 || client.posts[0] != "CDEFAULT" {
		t.Errorf("posts = %v, want [CDEFAULT]", client.posts)
	}
}

func TestSend_ExplicitChannelWins(t *testing.T) {
	client := &mockClient{}
	a := newConnected(t, client)

	err := a.Send(context.Background(), notify.Message{Channel: "COTHER", Text: "hi"})
	if err != nil {
		t.Fatalf("Send: %v", err)
	}
	if client.posts[0] != "COTHER" {
		t.Errorf("posted to %q, want COTHER", client.posts[0])
	}
}

func TestSend_BeforeConnect(t *testing.T) {
	a, err := New(AdapterOpts{Client: &mockClient{}})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if err := a.Send(context.Background(), notify.Message{Text: "x"}); err == nil {
		t.Fatal("expected error before Connect")
	}
}

func TestSend_RetriesRateLimit(t *testing.T) {
	client := &mockClient{rateLimits: 2}
	a := newConnected(t, client)

	err := a.Send(context.Background(), notify.Message{Text: "eventually"})
	if err != nil {
		t.Fatalf("Send after rate limits: %v", err)
	}
	if len(client.posts) != 1 {
		t.Errorf("posts = %v, want one successful post", client.posts)
	}
}

func TestSend_GivesUpAfterMaxRetries(t *testing.T) {
	client := &mockClient{rateLimits: maxRetries + 1}
	a := newConnected(t, client)

	if err := a.Send(context.Background(), notify.Message{Text: "never"}); err == nil {
		t.Fatal("expected error after exhausting retries")
	}
}

func TestSend_AfterClose(t *testing.T) {
	a := newConnected(t, &mockClient{})
	if err := a.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if err := a.Send(context.Background(), notify.Message{Text: "x"}); err == nil {
		t.Fatal("expected error after Close")
	}
}

func TestEventToAttachment(t *testing.T) {
	att := eventToAttachment(notify.Event{
		Title: "Job B30701 — On Hold",
		Body:  "Acme Foods",
		Color: notify.ColorWarning,
		Fields: []notify.Field{
			{Name: "Job", Value: "B30701", Short: true},
		},
	})
	if att.Title != "Job B30701 — On Hold" || att.Color != notify.ColorWarning {
		t.Errorf("attachment = %+v", att)
	}
	if len(att.Fields) != 1 || att.Fields[0].Title != "Job" {
		t.Errorf("fields = %+v", att.Fields)
	}
	if att.Fallback != att.Title {
		t.Errorf("Fallback = %q, want title", att.Fallback)
	}
}
