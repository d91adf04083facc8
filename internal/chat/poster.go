package chat

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"sync"

	"github.com/charmbracelet/lipgloss"
	"github.com/slack-go/slack"
)

// Message is one post to the chat platform.
type Message struct {
	Username string
	Text     string
	IconURL  string
}

// Poster delivers messages to the chat platform.
type Poster interface {
	Post(ctx context.Context, msg Message) error
}

// SlackPoster posts through a Slack incoming webhook.
type SlackPoster struct {
	url    string
	client *http.Client
}

// NewSlackPoster returns a poster for the webhook at url. A nil client uses
// http.DefaultClient.
func NewSlackPoster(url string, client *http.Client) *SlackPoster {
	if client == nil {
		client = http.DefaultClient
	}
	return &SlackPoster{url: url, client: client}
}

func (p *SlackPoster) Post(ctx context.Context, msg Message) error {
	err := slack.PostWebhookCustomHTTPContext(ctx, p.url, p.client, &slack.WebhookMessage{
		Username: msg.Username,
		Text:     msg.Text,
		IconURL:  msg.IconURL,
	})
	if err != nil {
		return fmt.Errorf("slack: failed to post as %s: %w", msg.Username, err)
	}
	return nil
}

var (
	consoleNameStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("10"))
	consoleTextStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
)

// ConsolePoster prints messages to a terminal. Used by "wither say" and for
// dry runs without a webhook.
type ConsolePoster struct {
	mu  sync.Mutex
	out io.Writer
}

// NewConsolePoster returns a poster writing to out.
func NewConsolePoster(out io.Writer) *ConsolePoster {
	return &ConsolePoster{out: out}
}

func (p *ConsolePoster) Post(_ context.Context, msg Message) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	_, err := fmt.Fprintf(p.out, "%s %s\n",
		consoleNameStyle.Render(msg.Username+":"),
		consoleTextStyle.Render(msg.Text))
	return err
}
