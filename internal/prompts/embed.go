// Package prompts embeds the fixed system prompts for the two completion
// personas: the request classifier and the briefing writer.
package prompts

import (
	"embed"
	"strings"
)

//go:embed text/*.md
var FS embed.FS

// Classifier returns the routing coordinator's system prompt.
func Classifier() string {
	return mustRead("text/classifier.md")
}

// Briefing returns the briefing writer's system prompt.
func Briefing() string {
	return mustRead("text/briefing.md")
}

func mustRead(name string) string {
	data, err := FS.ReadFile(name)
	if err != nil {
		// The files are compiled in; a miss is a build mistake.
		panic("prompts: " + err.Error())
	}
	return strings.TrimSpace(string(data))
}
