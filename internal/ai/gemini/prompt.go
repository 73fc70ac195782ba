package gemini

import (
	"embed"
	"fmt"
	"strings"
)

//go:embed prompts/*.md
var promptFiles embed.FS

const (
	defaultMaxInputRunes = 12000
	maxLineRunes         = 500
)

var (
	resumePrompt  = mustLoadPrompt("resume")
	culturePrompt = mustLoadPrompt("culture")
	talentPrompt  = mustLoadPrompt("talent")
)

func mustLoadPrompt(name string) string {
	data, err := promptFiles.ReadFile("prompts/" + name + ".md")
	if err != nil {
		panic(fmt.Sprintf("read %s prompt: %v", name, err))
	}
	return string(data)
}

func renderPrompt(template string, pairs ...string) string {
	return strings.NewReplacer(pairs...).Replace(template)
}

var bracketReplacer = strings.NewReplacer("[", "(", "]", ")")

// sanitizeBlock keeps line structure but neutralises section markers and
// bounds the length of untrusted text.
func sanitizeBlock(s string, limit int) string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	s = bracketReplacer.Replace(strings.TrimSpace(s))
	if s == "" {
		return "(empty)"
	}
	return truncateRunes(s, limit)
}

// sanitizeLine collapses untrusted text onto a single line.
func sanitizeLine(s string, limit int) string {
	s = strings.Join(strings.Fields(s), " ")
	s = bracketReplacer.Replace(s)
	if s == "" {
		return "none"
	}
	return truncateRunes(s, limit)
}

func truncateRunes(s string, limit int) string {
	if limit <= 0 {
		return s
	}
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit])
}
