package pipeline

import (
	"context"
	"strings"
	"testing"

	"github.com/memetide/memetide/internal/ai"
	"github.com/memetide/memetide/internal/models"
	"github.com/memetide/memetide/internal/publish"
)

type fakeAdapter struct {
	generateCalls int
	evaluateCalls int
	content       ai.GeneratedContent
	evaluations   []ai.Evaluation
	lastRequest   ai.GenerationRequest
}

func (f *fakeAdapter) Generate(_ context.Context, req ai.GenerationRequest) (*ai.GeneratedContent, error) {
	f.generateCalls++
	f.lastRequest = req
	cp := f.content
	return &cp, nil
}

func (f *fakeAdapter) Evaluate(_ context.Context, _ string) (*ai.Evaluation, error) {
	idx := f.evaluateCalls
	f.evaluateCalls++
	if idx >= len(f.evaluations) {
		idx = len(f.evaluations) - 1
	}
	cp := f.evaluations[idx]
	return &cp, nil
}

func (f *fakeAdapter) AnalyzeMedia(_ context.Context, _, _ string) (*ai.MediaAnalysis, error) {
	return &ai.MediaAnalysis{}, nil
}

type fakeTrendProvider struct {
	trends []models.Trend
	used   []string
}

func (f *fakeTrendProvider) TopTrends(_ context.Context, _ float64, _ []string, _ int) ([]models.Trend, error) {
	return f.trends, nil
}

func (f *fakeTrendProvider) MarkUsed(_ context.Context, name string) error {
	f.used = append(f.used, name)
	return nil
}

type fakeLandscape struct{ summary string }

func (f *fakeLandscape) SummarizeLandscape(_ context.Context) string { return f.summary }

type fakeMediaInsights struct{ records []models.AnalyzedMedia }

func (f *fakeMediaInsights) Recent(_ context.Context, _ float64, _ int) ([]models.AnalyzedMedia, error) {
	return f.records, nil
}

type fakeQueueStore struct{ items []*models.QueueItem }

func (f *fakeQueueStore) Create(_ context.Context, item *models.QueueItem) error {
	item.ID = uint(len(f.items) + 1)
	f.items = append(f.items, item)
	return nil
}

type fakeTweetStore struct{ tweets []*models.Tweet }

func (f *fakeTweetStore) Create(_ context.Context, tweet *models.Tweet) error {
	f.tweets = append(f.tweets, tweet)
	return nil
}

type fakePublisher struct {
	posts   []string
	tweetID string
}

func (f *fakePublisher) Post(_ context.Context, text string) (*publish.PostResult, error) {
	f.posts = append(f.posts, text)
	return &publish.PostResult{TweetID: f.tweetID}, nil
}

func (f *fakePublisher) TweetMetrics(_ context.Context, _ string) (*publish.TweetMetrics, error) {
	return &publish.TweetMetrics{}, nil
}

func (f *fakePublisher) AccountMetrics(_ context.Context) (*publish.AccountMetrics, error) {
	return &publish.AccountMetrics{}, nil
}

func newTestGenerator(adapter *fakeAdapter, trends *fakeTrendProvider, queue *fakeQueueStore, tweets *fakeTweetStore, pub *fakePublisher) *Generator {
	return NewGenerator(
		adapter,
		ai.NewPostProcessor(280),
		trends,
		&fakeLandscape{},
		&fakeMediaInsights{},
		queue,
		tweets,
		pub,
	)
}

func TestGenerateRetriesOnceOnLowScore(t *testing.T) {
	adapter := &fakeAdapter{
		content:     ai.GeneratedContent{Text: "meme text", IronyLevel: "ironic"},
		evaluations: []ai.Evaluation{{OverallScore: 0, ShouldPost: true}},
	}
	gen := newTestGenerator(adapter, &fakeTrendProvider{}, &fakeQueueStore{}, &fakeTweetStore{}, nil)

	cand, err := gen.Generate(context.Background(), false, "ironic")
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}

	if adapter.generateCalls != 2 {
		t.Errorf("generateCalls = %d, want 2", adapter.generateCalls)
	}
	if adapter.evaluateCalls != 2 {
		t.Errorf("evaluateCalls = %d, want 2", adapter.evaluateCalls)
	}
	// Second attempt is accepted regardless of score.
	if cand.Evaluation.OverallScore != 0 {
		t.Errorf("OverallScore = %v, want 0", cand.Evaluation.OverallScore)
	}
}

func TestGenerateNoRetryOnGoodScore(t *testing.T) {
	adapter := &fakeAdapter{
		content:     ai.GeneratedContent{Text: "meme text"},
		evaluations: []ai.Evaluation{{OverallScore: 8, ShouldPost: true}},
	}
	gen := newTestGenerator(adapter, &fakeTrendProvider{}, &fakeQueueStore{}, &fakeTweetStore{}, nil)

	if _, err := gen.Generate(context.Background(), false, "ironic"); err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	if adapter.generateCalls != 1 {
		t.Errorf("generateCalls = %d, want 1", adapter.generateCalls)
	}
	if adapter.evaluateCalls != 1 {
		t.Errorf("evaluateCalls = %d, want 1", adapter.evaluateCalls)
	}
}

func TestGenerateToQueueCreatesPendingItem(t *testing.T) {
	adapter := &fakeAdapter{
		content: ai.GeneratedContent{
			Text:       "meme text",
			Format:     "drake",
			IronyLevel: "post-ironic",
			Topics:     []string{"gaming"},
		},
		evaluations: []ai.Evaluation{{OverallScore: 8, HumorScore: 7, ShouldPost: true}},
	}
	queue := &fakeQueueStore{}
	gen := newTestGenerator(adapter, &fakeTrendProvider{}, queue, &fakeTweetStore{}, nil)

	item, err := gen.GenerateToQueue(context.Background(), false)
	if err != nil {
		t.Fatalf("GenerateToQueue failed: %v", err)
	}

	if len(queue.items) != 1 {
		t.Fatalf("queue has %d items, want 1", len(queue.items))
	}
	if item.Status != models.StatusPending {
		t.Errorf("Status = %q, want %q", item.Status, models.StatusPending)
	}
	if item.QualityScore != 8 {
		t.Errorf("QualityScore = %v, want 8", item.QualityScore)
	}
	if item.Content != "meme text" {
		t.Errorf("Content = %q", item.Content)
	}
	if item.MemeFormat != "drake" {
		t.Errorf("MemeFormat = %q, want drake", item.MemeFormat)
	}
}

func TestGenerateAndPostAbortsWhenFlagged(t *testing.T) {
	adapter := &fakeAdapter{
		content:     ai.GeneratedContent{Text: "risky meme"},
		evaluations: []ai.Evaluation{{OverallScore: 8, ShouldPost: false, Risks: "too spicy"}},
	}
	tweets := &fakeTweetStore{}
	pub := &fakePublisher{tweetID: "123"}
	gen := newTestGenerator(adapter, &fakeTrendProvider{}, &fakeQueueStore{}, tweets, pub)

	tweet, err := gen.GenerateAndPost(context.Background(), false)
	if err != nil {
		t.Fatalf("GenerateAndPost returned error: %v", err)
	}
	if tweet != nil {
		t.Errorf("expected nil tweet for flagged candidate, got %+v", tweet)
	}
	if len(pub.posts) != 0 {
		t.Errorf("publisher was called %d times, want 0", len(pub.posts))
	}
	if len(tweets.tweets) != 0 {
		t.Errorf("tweet store has %d records, want 0", len(tweets.tweets))
	}
}

func TestGenerateAndPostRecordsTweet(t *testing.T) {
	adapter := &fakeAdapter{
		content:     ai.GeneratedContent{Text: "good meme", IronyLevel: "absurdist"},
		evaluations: []ai.Evaluation{{OverallScore: 9, ShouldPost: true}},
	}
	tweets := &fakeTweetStore{}
	pub := &fakePublisher{tweetID: "987654"}
	gen := newTestGenerator(adapter, &fakeTrendProvider{}, &fakeQueueStore{}, tweets, pub)

	tweet, err := gen.GenerateAndPost(context.Background(), false)
	if err != nil {
		t.Fatalf("GenerateAndPost failed: %v", err)
	}
	if tweet.TweetID != "987654" {
		t.Errorf("TweetID = %q, want 987654", tweet.TweetID)
	}
	if len(tweets.tweets) != 1 {
		t.Errorf("tweet store has %d records, want 1", len(tweets.tweets))
	}
	if len(pub.posts) != 1 || pub.posts[0] != "good meme" {
		t.Errorf("publisher posts = %v", pub.posts)
	}
}

func TestGenerateUsesTrendContext(t *testing.T) {
	adapter := &fakeAdapter{
		content:     ai.GeneratedContent{Text: "meme"},
		evaluations: []ai.Evaluation{{OverallScore: 8, ShouldPost: true}},
	}
	trends := &fakeTrendProvider{trends: []models.Trend{
		{Name: "skibidi", Description: "brainrot", PopularityScore: 80, LifecycleStage: models.StagePeak},
	}}
	gen := newTestGenerator(adapter, trends, &fakeQueueStore{}, &fakeTweetStore{}, nil)

	cand, err := gen.Generate(context.Background(), true, "ironic")
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}

	if cand.TrendContext != "skibidi - brainrot" {
		t.Errorf("TrendContext = %q, want %q", cand.TrendContext, "skibidi - brainrot")
	}
	if len(trends.used) != 1 || trends.used[0] != "skibidi" {
		t.Errorf("used trends = %v, want [skibidi]", trends.used)
	}
	if !strings.Contains(adapter.lastRequest.Context, "skibidi") {
		t.Errorf("prompt context %q does not mention the trend", adapter.lastRequest.Context)
	}
}

func TestGenerateFallsBackWithoutTrends(t *testing.T) {
	adapter := &fakeAdapter{
		content:     ai.GeneratedContent{Text: "meme"},
		evaluations: []ai.Evaluation{{OverallScore: 8, ShouldPost: true}},
	}
	gen := newTestGenerator(adapter, &fakeTrendProvider{}, &fakeQueueStore{}, &fakeTweetStore{}, nil)

	cand, err := gen.Generate(context.Background(), true, "ironic")
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	if cand.TrendContext != fallbackContext {
		t.Errorf("TrendContext = %q, want fallback", cand.TrendContext)
	}
}

func TestGenerateEnrichesWithMediaAndLandscape(t *testing.T) {
	adapter := &fakeAdapter{
		content:     ai.GeneratedContent{Text: "meme"},
		evaluations: []ai.Evaluation{{OverallScore: 8, ShouldPost: true}},
	}
	gen := NewGenerator(
		adapter,
		ai.NewPostProcessor(280),
		&fakeTrendProvider{},
		&fakeLandscape{summary: "TRENDING TOPICS: cats"},
		&fakeMediaInsights{records: []models.AnalyzedMedia{
			{MemeFormat: "drake", CulturalReferences: models.JSONList{"gaming"}},
		}},
		&fakeQueueStore{},
		&fakeTweetStore{},
		nil,
	)

	if _, err := gen.Generate(context.Background(), false, "ironic"); err != nil {
		t.Fatalf("Generate failed: %v", err)
	}

	prompt := adapter.lastRequest.Context
	if !strings.Contains(prompt, "POPULAR FORMATS RIGHT NOW: drake") {
		t.Errorf("prompt missing format hint: %q", prompt)
	}
	if !strings.Contains(prompt, "--- CURRENT MEME LANDSCAPE ---") {
		t.Errorf("prompt missing landscape header: %q", prompt)
	}
	if adapter.lastRequest.MemeFormat != "drake" {
		t.Errorf("MemeFormat = %q, want drake", adapter.lastRequest.MemeFormat)
	}
}
