package chat

import (
	"html"
	"regexp"
	"strings"
)

var (
	quoteReplacer = strings.NewReplacer(
		"“", `"`, "”", `"`,
		"‘", "'", "’", "'",
	)

	// <@U024BE7LH>, <#C024BE7LR|general>, <https://example.com>
	mentionPattern = regexp.MustCompile(`<(\S+)>`)
)

// Sanitize turns chat-platform markup into plain text: curly quotes become
// straight quotes, <...> wrappers are removed keeping their contents, and
// HTML entities are unescaped.
func Sanitize(text string) string {
	text = quoteReplacer.Replace(text)
	text = mentionPattern.ReplaceAllString(text, "$1")
	return html.UnescapeString(text)
}

// trimReset drops a trailing terminal color reset left by the game log.
func trimReset(text string) string {
	text = strings.TrimSuffix(text, "\x1b[m")
	return strings.TrimSuffix(text, "[m")
}
