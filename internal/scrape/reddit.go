package scrape

import (
	"context"
	"fmt"
	"math"
	"net/http"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/memetide/memetide/internal/trends"
)

const redditBaseURL = "https://www.reddit.com"

// RedditFetcher pulls hot posts from meme subreddits via the public JSON
// listings.
type RedditFetcher struct {
	client *resty.Client
}

type redditListing struct {
	Data struct {
		Children []struct {
			Data redditPost `json:"data"`
		} `json:"children"`
	} `json:"data"`
}

type redditPost struct {
	Title       string  `json:"title"`
	Selftext    string  `json:"selftext"`
	Score       int     `json:"score"`
	NumComments int     `json:"num_comments"`
	Permalink   string  `json:"permalink"`
	URL         string  `json:"url"`
	CreatedUTC  float64 `json:"created_utc"`
	IsVideo     bool    `json:"is_video"`
	PostHint    string  `json:"post_hint"`
}

func NewRedditFetcher(userAgent string) *RedditFetcher {
	return &RedditFetcher{
		client: resty.New().
			SetTimeout(30 * time.Second).
			SetRetryCount(3).
			SetRetryWaitTime(2 * time.Second).
			SetRetryMaxWaitTime(10 * time.Second).
			SetHeader("User-Agent", userAgent),
	}
}

// FetchSubreddit returns observations for a subreddit's hot posts no
// older than 24 hours.
func (f *RedditFetcher) FetchSubreddit(ctx context.Context, name string, limit int) ([]trends.Observation, error) {
	var listing redditListing
	resp, err := f.client.R().
		SetContext(ctx).
		SetQueryParam("limit", fmt.Sprintf("%d", limit)).
		SetResult(&listing).
		Get(fmt.Sprintf("%s/r/%s/hot.json", redditBaseURL, name))

	if err != nil {
		return nil, fmt.Errorf("failed to fetch r/%s: %w", name, err)
	}
	if resp.StatusCode() != http.StatusOK {
		return nil, fmt.Errorf("unexpected status code %d from r/%s", resp.StatusCode(), name)
	}

	cutoff := time.Now().Add(-24 * time.Hour)
	var observations []trends.Observation

	for _, child := range listing.Data.Children {
		post := child.Data
		if post.Title == "" {
			continue
		}
		if time.Unix(int64(post.CreatedUTC), 0).Before(cutoff) {
			continue
		}

		obs := trends.Observation{
			Name:           truncate(post.Title, 200),
			Description:    truncate(post.Selftext, 500),
			RawScore:       PopularityScore(post.Score, post.NumComments),
			SourcePlatform: "reddit/" + name,
			URL:            redditBaseURL + post.Permalink,
			MediaType:      detectMediaType(post),
		}
		if obs.MediaType == "image" || obs.MediaType == "video" {
			obs.MediaURL = post.URL
		}
		observations = append(observations, obs)
	}

	return observations, nil
}

// PopularityScore normalizes upvotes and comments to the 0-100 scale,
// weighting comments heavier per interaction. 10k weighted engagement
// maps to 100.
func PopularityScore(upvotes, comments int) float64 {
	engagement := float64(upvotes)*0.7 + float64(comments)*10*0.3
	score := math.Min(engagement/10000*100, 100)
	return math.Round(score*100) / 100
}

func detectMediaType(post redditPost) string {
	if post.IsVideo {
		return "video"
	}
	switch post.PostHint {
	case "image":
		return "image"
	case "hosted:video", "rich:video":
		return "video"
	}
	url := strings.ToLower(post.URL)
	for _, ext := range []string{".jpg", ".jpeg", ".png", ".gif", ".webp"} {
		if strings.Contains(url, ext) {
			return "image"
		}
	}
	for _, ext := range []string{".mp4", ".webm", ".mov"} {
		if strings.Contains(url, ext) {
			return "video"
		}
	}
	if strings.Contains(url, "v.redd.it") {
		return "video"
	}
	return "text"
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max]
}
