package ai

import (
	"strings"
	"testing"
	"unicode/utf8"
)

func TestExtractJSON(t *testing.T) {
	body, ok := extractJSON("Here you go:\n```json\n{\"text\": \"hi\"}\n```")
	if !ok {
		t.Fatal("extractJSON failed to find the object")
	}
	if body != `{"text": "hi"}` {
		t.Errorf("extractJSON = %q", body)
	}

	if _, ok := extractJSON("no json here"); ok {
		t.Error("extractJSON found an object in plain text")
	}
}

func TestDecodeGenerated(t *testing.T) {
	gc := decodeGenerated(`{"text": "meme", "format": "drake", "irony_level": "ironic", "topics": ["a"]}`)
	if gc.Text != "meme" || gc.Format != "drake" || gc.IronyLevel != "ironic" {
		t.Errorf("decodeGenerated = %+v", gc)
	}
}

func TestDecodeGeneratedFallsBackToRawText(t *testing.T) {
	raw := "just a meme with no json at all"
	gc := decodeGenerated(raw)
	if gc.Text != raw {
		t.Errorf("fallback Text = %q, want raw input", gc.Text)
	}
	if gc.IronyLevel != "unknown" {
		t.Errorf("fallback IronyLevel = %q, want unknown", gc.IronyLevel)
	}
}

func TestDecodeEvaluation(t *testing.T) {
	ev := decodeEvaluation(`{"humor_score": 7, "overall_score": 8, "should_post": true}`)
	if ev.HumorScore != 7 || ev.OverallScore != 8 || !ev.ShouldPost {
		t.Errorf("decodeEvaluation = %+v", ev)
	}
}

func TestDecodeEvaluationFallsBackToNeutral(t *testing.T) {
	ev := decodeEvaluation("I think it's pretty funny!")
	if ev.OverallScore != 5 {
		t.Errorf("fallback OverallScore = %v, want 5", ev.OverallScore)
	}
	if !ev.ShouldPost {
		t.Error("fallback ShouldPost = false, want true")
	}
}

func TestPostProcessorStripsWrapping(t *testing.T) {
	p := NewPostProcessor(280)

	gc := p.Process(&GeneratedContent{Text: "```\n\"when the code compiles first try\"\n```"})
	if gc.Text != "when the code compiles first try" {
		t.Errorf("Process = %q", gc.Text)
	}
}

func TestPostProcessorTruncates(t *testing.T) {
	p := NewPostProcessor(50)

	long := strings.Repeat("meme ", 30)
	gc := p.Process(&GeneratedContent{Text: long})
	if len([]rune(gc.Text)) > 50 {
		t.Errorf("Process left %d runes, want <= 50", len([]rune(gc.Text)))
	}
	if !strings.HasSuffix(gc.Text, "…") {
		t.Errorf("truncated text %q missing ellipsis", gc.Text)
	}
}

func TestPostProcessorTruncatesMultiByteAtWordBoundary(t *testing.T) {
	p := NewPostProcessor(20)

	// Each word is four runes but twelve bytes; the word-boundary cut
	// must count runes, not bytes.
	long := strings.TrimSpace(strings.Repeat("😀😀😀😀 ", 10))
	gc := p.Process(&GeneratedContent{Text: long})

	if got := len([]rune(gc.Text)); got > 20 {
		t.Errorf("Process left %d runes, want <= 20", got)
	}
	if !strings.HasSuffix(gc.Text, "…") {
		t.Errorf("truncated text %q missing ellipsis", gc.Text)
	}
	if strings.Contains(strings.TrimSuffix(gc.Text, "…"), string(utf8.RuneError)) {
		t.Errorf("truncated text %q split a multi-byte rune", gc.Text)
	}
	// 19 runes of "😀😀😀😀 " patterns end mid-word; the cut should land
	// on the space after the third word.
	if want := "😀😀😀😀 😀😀😀😀 😀😀😀😀…"; gc.Text != want {
		t.Errorf("Process = %q, want %q", gc.Text, want)
	}
}

func TestPostProcessorKeepsShortText(t *testing.T) {
	p := NewPostProcessor(280)
	gc := p.Process(&GeneratedContent{Text: "  short meme  "})
	if gc.Text != "short meme" {
		t.Errorf("Process = %q, want trimmed original", gc.Text)
	}
}

func TestEscapeForPrompt(t *testing.T) {
	got := escapeForPrompt("line \"one\"\nline two")
	if got != `line \"one\" line two` {
		t.Errorf("escapeForPrompt = %q", got)
	}
}
