package dispatch

import (
	"regexp"
	"strings"
)

var cleanupSteps = []struct {
	pattern *regexp.Regexp
	repl    string
}{
	{regexp.MustCompile(`\*\*(.*?)\*\*`), "$1"},
	{regexp.MustCompile(`\*(.*?)\*`), "$1"},
	{regexp.MustCompile(`(?m)^[ \t]*\*[ \t]+`), "- "},
	{regexp.MustCompile(`(?m)^[ \t]*\+[ \t]+`), "- "},
	{regexp.MustCompile(`(?m)^(\d+\.[ \t]*)\*[ \t]+`), "$1"},
	{regexp.MustCompile("(?m)^[ \\t]*(?:[#>*+`~][ \\t]*)+"), ""},
}

var blankRun = regexp.MustCompile(`\n[ \t]*\n(?:[ \t]*\n)+`)

// CleanMarkdown strips emphasis, heading and quote markers from a model
// answer and normalizes bullets to "- ". Applying it twice changes nothing.
func CleanMarkdown(s string) string {
	// Stripping one marker can expose another, so run to a fixed point.
	// Every pass that changes the text removes a tab, shortens it, or turns
	// a "*" or "+" into "-".
	for {
		next := cleanOnce(s)
		if next == s {
			return next
		}
		s = next
	}
}

func cleanOnce(s string) string {
	for _, step := range cleanupSteps {
		s = step.pattern.ReplaceAllString(s, step.repl)
	}
	s = strings.ReplaceAll(s, "\t", "  ")
	s = blankRun.ReplaceAllString(s, "\n\n")
	return strings.TrimSpace(s)
}
