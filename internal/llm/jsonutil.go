package llm

import (
	"regexp"
	"strings"
)

// fencePattern matches a whole response wrapped in one markdown code block.
var fencePattern = regexp.MustCompile("(?s)^```[a-zA-Z]*\\s*\\n?(.*?)\\s*```$")

// StripCodeFence removes a single surrounding markdown code fence, which
// models often add around JSON even when told not to. Anything else is
// returned trimmed but otherwise untouched.
func StripCodeFence(content string) string {
	s := strings.TrimSpace(content)
	if m := fencePattern.FindStringSubmatch(s); len(m) > 1 {
		return strings.TrimSpace(m[1])
	}
	return s
}
