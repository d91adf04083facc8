// Package chat relays messages between the chat platform and the game.
package chat

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"pickaxeclub/wither/internal/metrics"
)

const (
	// BotName is the identity wither posts and broadcasts as.
	BotName = "MC_wither"

	// PlatformRelay is the chat platform's own relay user. Its messages are
	// never handled as commands.
	PlatformRelay = "slackbot"

	// RelayDisplayName replaces PlatformRelay wherever a name is shown.
	RelayDisplayName = "Steve"

	iconBaseURL = "https://minotar.net/helm/"
)

// Console runs commands on the game server's remote console.
type Console interface {
	Execute(ctx context.Context, command string) (string, error)
}

// Relay moves text between the chat platform and the game.
type Relay struct {
	poster  Poster
	console Console
	logger  zerolog.Logger
	now     func() time.Time
}

// RelayOption configures a Relay.
type RelayOption func(*Relay)

// WithLogger sets the relay's logger.
func WithLogger(l zerolog.Logger) RelayOption {
	return func(r *Relay) { r.logger = l }
}

// WithClock overrides the clock used for avatar cache-busting.
func WithClock(now func() time.Time) RelayOption {
	return func(r *Relay) { r.now = now }
}

// NewRelay returns a relay posting through poster and broadcasting through
// console.
func NewRelay(poster Poster, console Console, opts ...RelayOption) *Relay {
	r := &Relay{
		poster:  poster,
		console: console,
		logger:  zerolog.Nop(),
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// ToChat posts text to the chat platform as speaker, with the speaker's
// game avatar as icon.
func (r *Relay) ToChat(ctx context.Context, speaker, text string) error {
	return r.post(ctx, speaker, Sanitize(text))
}

// Say posts text to the chat platform as BotName. The bot's own replies are
// posted verbatim so placeholders like <name> survive.
func (r *Relay) Say(ctx context.Context, text string) error {
	return r.post(ctx, BotName, text)
}

func (r *Relay) post(ctx context.Context, speaker, text string) error {
	name := displayName(speaker)
	msg := Message{
		Username: name,
		Text:     trimReset(text),
		IconURL:  iconBaseURL + url.PathEscape(name) + "?date=" + r.now().Format("2006-01-02"),
	}
	if err := r.poster.Post(ctx, msg); err != nil {
		return err
	}
	metrics.RelayMessagesTotal.WithLabelValues("to_chat").Inc()
	return nil
}

// ToGame broadcasts "<speaker> text" to every player.
func (r *Relay) ToGame(ctx context.Context, speaker, text string) error {
	line := "<" + displayName(speaker) + "> " + Sanitize(text)
	command, err := tellraw(line)
	if err != nil {
		return err
	}
	if _, err := r.console.Execute(ctx, command); err != nil {
		return fmt.Errorf("relay to game: %w", err)
	}
	metrics.RelayMessagesTotal.WithLabelValues("to_game").Inc()
	r.logger.Debug().Str("speaker", speaker).Msg("relayed to game")
	return nil
}

// ListPlayers asks the server who is online and shares the answer in both
// chat and game.
func (r *Relay) ListPlayers(ctx context.Context) error {
	out, err := r.console.Execute(ctx, "list")
	if err != nil {
		return fmt.Errorf("list players: %w", err)
	}
	out = strings.TrimSpace(out)
	if err := r.ToChat(ctx, BotName, out); err != nil {
		return err
	}
	return r.ToGame(ctx, BotName, out)
}

func displayName(speaker string) string {
	if speaker == PlatformRelay {
		return RelayDisplayName
	}
	return speaker
}

// tellraw builds a console command that shows line to all players.
func tellraw(line string) (string, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(struct {
		Text string `json:"text"`
	}{line}); err != nil {
		return "", fmt.Errorf("encode tellraw payload: %w", err)
	}
	return `tellraw @a ["",` + strings.TrimSpace(buf.String()) + `]`, nil
}
