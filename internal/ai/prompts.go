package ai

import (
	"fmt"
	"strings"
)

// systemPrompt primes the model on the register the content should hit.
const systemPrompt = `You are an expert in internet meme culture, specifically focused on Gen Z and post-ironic humor.

Key principles of modern meme culture:

1. POST-IRONY: Sincerity and irony blend together. Something can be simultaneously genuine and mocking.
2. ABSURDISM: Random, nonsensical elements that create humor through unexpectedness.
3. META-HUMOR: Self-aware jokes about memes themselves, internet culture, or the act of memeing.
4. LAYERED REFERENCES: Memes that reference other memes, creating inside jokes for chronically online users.
5. FORMAT SUBVERSION: Taking established meme formats and using them in unexpected ways.
6. BREVITY & IMPACT: Short, punchy text. Often lowercase. Sometimes no punctuation. Maximum impact.
7. CULTURAL AWARENESS: Current events, internet micro-cultures, gaming, relatability, existential dread presented humorously.
8. AUTHENTICITY: Don't try too hard. Forced memes die quickly. Natural, flowing humor works best.

Your task is to generate meme content that feels native to internet culture, not like a corporate brand trying to be relatable.`

// buildGenerationPrompt creates the user prompt for one generation.
func buildGenerationPrompt(req GenerationRequest) string {
	var b strings.Builder
	fmt.Fprintf(&b, `Generate a meme tweet for the following context:

CONTEXT: %s

REQUIREMENTS:
- Irony level: %s
- Maximum length: 280 characters
- Must be funny and engaging
- Should feel authentic to internet culture
- Avoid corporate/brand voice`, req.Context, req.IronyLevel)

	if req.MemeFormat != "" {
		fmt.Fprintf(&b, "\n- Use meme format: %s", req.MemeFormat)
	}

	b.WriteString(`

Return your response as JSON with this structure:
{
    "text": "the meme tweet text",
    "format": "meme format used (if any)",
    "irony_level": "the irony level",
    "topics": ["topic1", "topic2"],
    "explanation": "brief explanation of why this is funny/effective"
}`)

	return b.String()
}

// buildEvaluationPrompt creates the self-evaluation prompt.
func buildEvaluationPrompt(text string) string {
	return fmt.Sprintf(`Evaluate this meme tweet for quality:

MEME: "%s"

Rate on:
1. Humor (0-10)
2. Authenticity (feels native to internet culture?) (0-10)
3. Potential engagement (0-10)
4. Risks (anything potentially offensive/problematic?)

Return as JSON:
{
    "humor_score": 0-10,
    "authenticity_score": 0-10,
    "engagement_score": 0-10,
    "overall_score": 0-10,
    "should_post": true/false,
    "risks": "any concerns",
    "feedback": "brief feedback"
}`, escapeForPrompt(text))
}

// buildMediaPrompt creates the media-analysis prompt.
func buildMediaPrompt() string {
	return `Analyze this meme image and provide detailed insights.

Analyze:
1. Visual content: What's depicted in the image?
2. Meme format: What meme format/template is this?
3. Text content: What text is overlaid on the image?
4. Humor type: What kind of humor is this?
5. Cultural references: What cultural moments, trends, or references does this use?
6. Emotional tone: What emotion or vibe does this convey?
7. Meme potential: How memeable/shareable is this? (0-100 score)
8. Topics/themes: What topics does this relate to?

Return as JSON:
{
    "visual_description": "detailed description",
    "meme_format": "format name or 'custom'",
    "text_content": ["text line 1", "text line 2"],
    "humor_type": "type of humor",
    "irony_level": "literal/ironic/post-ironic/meta-ironic/absurdist",
    "cultural_references": ["ref1", "ref2"],
    "emotional_tone": "tone description",
    "meme_potential_score": 0-100,
    "topics": ["topic1", "topic2"]
}`
}

// escapeForPrompt escapes special characters for use in prompts
func escapeForPrompt(s string) string {
	s = strings.ReplaceAll(s, `"`, `\"`)
	s = strings.ReplaceAll(s, "\n", " ")
	s = strings.ReplaceAll(s, "\t", " ")
	return strings.TrimSpace(s)
}
