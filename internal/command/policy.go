package command

import "pickaxeclub/wither/internal/chat"

// PlatformRelay is the chat platform's relay identity.
const PlatformRelay = chat.PlatformRelay

// open lists the kinds anyone may run.
var open = map[Kind]bool{
	Chat:        true,
	ListPlayers: true,
	Status:      true,
	Address:     true,
}

// Policy decides who may run which command.
type Policy struct {
	operators map[string]bool
}

// NewPolicy returns a policy granting management commands to operators.
func NewPolicy(operators []string) Policy {
	p := Policy{operators: make(map[string]bool, len(operators))}
	for _, op := range operators {
		p.operators[op] = true
	}
	return p
}

// Allowed reports whether issuer may run kind.
func (p Policy) Allowed(issuer string, kind Kind) bool {
	return open[kind] || p.operators[issuer]
}

// BotName is the identity wither speaks as in game.
const BotName = chat.BotName
