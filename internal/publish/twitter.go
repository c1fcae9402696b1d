package publish

import (
	"context"
	"fmt"

	"github.com/go-resty/resty/v2"

	"github.com/memetide/memetide/internal/config"
	"github.com/memetide/memetide/internal/logger"
)

const twitterBaseURL = "https://api.twitter.com/2"

// PostResult is the outcome of a successful post.
type PostResult struct {
	TweetID string
}

// TweetMetrics are public engagement numbers for one tweet.
type TweetMetrics struct {
	Likes       int
	Retweets    int
	Replies     int
	Impressions int
}

// AccountMetrics are public numbers for the authenticated account.
type AccountMetrics struct {
	Followers  int
	Following  int
	TweetCount int
}

// Publisher posts content and reads engagement metrics back.
type Publisher interface {
	Post(ctx context.Context, text string) (*PostResult, error)
	TweetMetrics(ctx context.Context, tweetID string) (*TweetMetrics, error)
	AccountMetrics(ctx context.Context) (*AccountMetrics, error)
}

// TwitterClient implements Publisher against the Twitter v2 API.
type TwitterClient struct {
	client *resty.Client
}

type twitterError struct {
	Title  string `json:"title"`
	Detail string `json:"detail"`
}

type createTweetResponse struct {
	Data struct {
		ID   string `json:"id"`
		Text string `json:"text"`
	} `json:"data"`
	Errors []twitterError `json:"errors"`
}

type tweetLookupResponse struct {
	Data struct {
		PublicMetrics struct {
			LikeCount       int `json:"like_count"`
			RetweetCount    int `json:"retweet_count"`
			ReplyCount      int `json:"reply_count"`
			ImpressionCount int `json:"impression_count"`
		} `json:"public_metrics"`
	} `json:"data"`
	Errors []twitterError `json:"errors"`
}

type userLookupResponse struct {
	Data struct {
		PublicMetrics struct {
			FollowersCount int `json:"followers_count"`
			FollowingCount int `json:"following_count"`
			TweetCount     int `json:"tweet_count"`
		} `json:"public_metrics"`
	} `json:"data"`
	Errors []twitterError `json:"errors"`
}

// NewTwitterClient creates a new Twitter API client.
func NewTwitterClient(cfg *config.Config) *TwitterClient {
	client := resty.New().
		SetBaseURL(twitterBaseURL).
		SetTimeout(cfg.HTTPTimeout).
		SetRetryCount(2).
		SetAuthToken(cfg.TwitterBearerToken).
		SetHeader("Content-Type", "application/json")

	return &TwitterClient{client: client}
}

func apiError(op string, status string, errs []twitterError) error {
	if len(errs) > 0 {
		return fmt.Errorf("twitter %s failed: %s", op, errs[0].Detail)
	}
	return fmt.Errorf("twitter %s failed: %s", op, status)
}

// Post publishes a tweet and returns its ID.
func (c *TwitterClient) Post(ctx context.Context, text string) (*PostResult, error) {
	var out createTweetResponse
	resp, err := c.client.R().
		SetContext(ctx).
		SetBody(map[string]string{"text": text}).
		SetResult(&out).
		SetError(&out).
		Post("/tweets")
	if err != nil {
		return nil, fmt.Errorf("twitter post request failed: %w", err)
	}
	if resp.IsError() || out.Data.ID == "" {
		return nil, apiError("post", resp.Status(), out.Errors)
	}

	logger.Info().Str("tweet_id", out.Data.ID).Msg("Posted tweet")
	return &PostResult{TweetID: out.Data.ID}, nil
}

// TweetMetrics fetches public metrics for one tweet.
func (c *TwitterClient) TweetMetrics(ctx context.Context, tweetID string) (*TweetMetrics, error) {
	var out tweetLookupResponse
	resp, err := c.client.R().
		SetContext(ctx).
		SetQueryParam("tweet.fields", "public_metrics").
		SetResult(&out).
		SetError(&out).
		Get("/tweets/" + tweetID)
	if err != nil {
		return nil, fmt.Errorf("twitter metrics request failed: %w", err)
	}
	if resp.IsError() {
		return nil, apiError("metrics lookup", resp.Status(), out.Errors)
	}

	pm := out.Data.PublicMetrics
	return &TweetMetrics{
		Likes:       pm.LikeCount,
		Retweets:    pm.RetweetCount,
		Replies:     pm.ReplyCount,
		Impressions: pm.ImpressionCount,
	}, nil
}

// AccountMetrics fetches public metrics for the authenticated account.
func (c *TwitterClient) AccountMetrics(ctx context.Context) (*AccountMetrics, error) {
	var out userLookupResponse
	resp, err := c.client.R().
		SetContext(ctx).
		SetQueryParam("user.fields", "public_metrics").
		SetResult(&out).
		SetError(&out).
		Get("/users/me")
	if err != nil {
		return nil, fmt.Errorf("twitter account request failed: %w", err)
	}
	if resp.IsError() {
		return nil, apiError("account lookup", resp.Status(), out.Errors)
	}

	pm := out.Data.PublicMetrics
	return &AccountMetrics{
		Followers:  pm.FollowersCount,
		Following:  pm.FollowingCount,
		TweetCount: pm.TweetCount,
	}, nil
}
