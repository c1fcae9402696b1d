package ai

import (
	"strings"
	"unicode/utf8"
)

// PostProcessor cleans up generated content before it enters the queue.
type PostProcessor struct {
	maxLength int
}

// NewPostProcessor creates a new post-processor.
func NewPostProcessor(maxLength int) *PostProcessor {
	return &PostProcessor{maxLength: maxLength}
}

// Process normalizes whitespace, strips artifacts models tend to add
// around short-form text, and enforces the length cap.
func (p *PostProcessor) Process(gc *GeneratedContent) *GeneratedContent {
	text := strings.TrimSpace(gc.Text)

	// Strip markdown fences and stray quote wrapping.
	text = strings.TrimPrefix(text, "```")
	text = strings.TrimSuffix(text, "```")
	text = strings.TrimSpace(text)
	if len(text) >= 2 && strings.HasPrefix(text, `"`) && strings.HasSuffix(text, `"`) {
		text = text[1 : len(text)-1]
	}

	// Collapse runs of blank lines.
	for strings.Contains(text, "\n\n\n") {
		text = strings.ReplaceAll(text, "\n\n\n", "\n\n")
	}

	text = p.truncate(strings.TrimSpace(text))

	gc.Text = text
	return gc
}

// truncate cuts at a word boundary where possible, counting runes so a
// multi-byte character never gets split.
func (p *PostProcessor) truncate(text string) string {
	if p.maxLength <= 0 || utf8.RuneCountInString(text) <= p.maxLength {
		return text
	}

	cut := []rune(text)[:p.maxLength-1]
	for i := len(cut) - 1; i > p.maxLength/2; i-- {
		if cut[i] == ' ' {
			cut = cut[:i]
			break
		}
	}
	return strings.TrimSpace(string(cut)) + "…"
}
