package ai

import (
	"encoding/json"
	"strings"

	"github.com/memetide/memetide/internal/logger"
)

// extractJSON pulls the first JSON object out of a model response.
// Models wrap JSON in prose or markdown fences often enough that
// naive unmarshal on the whole body fails.
func extractJSON(raw string) (string, bool) {
	start := strings.Index(raw, "{")
	end := strings.LastIndex(raw, "}")
	if start == -1 || end == -1 || end <= start {
		return "", false
	}
	return raw[start : end+1], true
}

// decodeGenerated parses a generation response. When the model ignored
// the JSON instruction, the raw text is still usable as the meme itself.
func decodeGenerated(raw string) *GeneratedContent {
	if body, ok := extractJSON(raw); ok {
		var gc GeneratedContent
		if err := json.Unmarshal([]byte(body), &gc); err == nil && gc.Text != "" {
			return &gc
		}
	}

	logger.Warn().Msg("Generation response was not valid JSON, using raw text")
	return &GeneratedContent{
		Text:       strings.TrimSpace(raw),
		IronyLevel: "unknown",
	}
}

// decodeEvaluation parses an evaluation response. A malformed response
// falls back to a neutral passing score so one bad reply does not stall
// the pipeline.
func decodeEvaluation(raw string) *Evaluation {
	if body, ok := extractJSON(raw); ok {
		var ev Evaluation
		if err := json.Unmarshal([]byte(body), &ev); err == nil {
			return &ev
		}
	}

	logger.Warn().Msg("Evaluation response was not valid JSON, using neutral score")
	return &Evaluation{
		OverallScore: 5,
		ShouldPost:   true,
		Feedback:     "evaluation response could not be parsed",
	}
}

// decodeMediaAnalysis parses a media-analysis response.
func decodeMediaAnalysis(raw string) (*MediaAnalysis, bool) {
	body, ok := extractJSON(raw)
	if !ok {
		return nil, false
	}
	var ma MediaAnalysis
	if err := json.Unmarshal([]byte(body), &ma); err != nil {
		return nil, false
	}
	return &ma, true
}
