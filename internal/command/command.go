// Package command turns chat lines into commands and runs them.
package command

import (
	"strings"
)

// Trigger is the first word of every management command.
const Trigger = "wither"

// Kind identifies a command.
type Kind int

const (
	Chat Kind = iota
	ListPlayers
	SetDNS
	Address
	Boot
	Shutdown
	Status
	Backup
	Generate
	Boss
)

// names maps the word after the trigger to its kind.
var names = map[string]Kind{
	"list":     ListPlayers,
	"dns":      SetDNS,
	"ip":       Address,
	"boot":     Boot,
	"shutdown": Shutdown,
	"status":   Status,
	"backup":   Backup,
	"generate": Generate,
	"boss":     Boss,
}

func (k Kind) String() string {
	if k == Chat {
		return "chat"
	}
	for name, kind := range names {
		if kind == k {
			return name
		}
	}
	return "unknown"
}

// Command is one parsed chat line.
type Command struct {
	Kind   Kind
	Issuer string
	Raw    string
	Args   []string
}

// Parse interprets text sent by issuer. Empty text and lines relayed by
// the chat platform itself yield no command. Anything that is not a known
// "wither <name>" line is chat.
func Parse(issuer, text string) (Command, bool) {
	if strings.TrimSpace(text) == "" || issuer == PlatformRelay {
		return Command{}, false
	}

	cmd := Command{Kind: Chat, Issuer: issuer, Raw: text}
	fields := strings.Fields(text)
	if len(fields) >= 2 && strings.EqualFold(fields[0], Trigger) {
		if kind, ok := names[fields[1]]; ok {
			cmd.Kind = kind
			cmd.Args = fields[2:]
		}
	}
	return cmd, true
}
