// Package gamelog recognises the game server log lines worth relaying.
package gamelog

import (
	"regexp"
	"strings"
)

var (
	chatLine   = regexp.MustCompile(`INFO\]: <(.*)> (.*)`)
	noticeLine = regexp.MustCompile(`Server thread/INFO\]: ([^\d]+)`)
)

// Event is a relayable log event: PlayerChat or ServerNotice.
type Event interface {
	event()
}

// PlayerChat is a player speaking in game.
type PlayerChat struct {
	Speaker string
	Text    string
}

// ServerNotice is a digit-free server thread message, such as a death or
// advancement.
type ServerNotice struct {
	Text string
}

func (PlayerChat) event()   {}
func (ServerNotice) event() {}

// Parse matches body against the chat matcher first, then the server
// notice matcher. It returns nil when neither matches.
func Parse(body string) Event {
	if m := chatLine.FindStringSubmatch(body); m != nil {
		return PlayerChat{Speaker: m[1], Text: m[2]}
	}
	if m := noticeLine.FindStringSubmatch(body); m != nil {
		return ServerNotice{Text: m[1]}
	}
	return nil
}

// IsNoise reports whether ev should not be relayed. Join and leave notices
// ("... joined the game", "... left the game") are noise.
func IsNoise(ev Event) bool {
	switch e := ev.(type) {
	case nil:
		return true
	case ServerNotice:
		return strings.Contains(e.Text, "the game")
	}
	return false
}
