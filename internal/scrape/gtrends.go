package scrape

import (
	"context"
	"encoding/xml"
	"fmt"
	"math"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/memetide/memetide/internal/trends"
)

// TrendsFetcher reads the Google Trends daily-searches RSS feed.
type TrendsFetcher struct {
	client *resty.Client
	region string
}

type trendsFeed struct {
	XMLName xml.Name     `xml:"rss"`
	Items   []trendsItem `xml:"channel>item"`
}

type trendsItem struct {
	Title   string `xml:"title"`
	Traffic string `xml:"approx_traffic"`
	News    []struct {
		Title string `xml:"news_item_title"`
	} `xml:"news_item"`
}

func NewTrendsFetcher(region string) *TrendsFetcher {
	return &TrendsFetcher{
		client: resty.New().
			SetTimeout(30 * time.Second).
			SetRetryCount(3).
			SetRetryWaitTime(2 * time.Second),
		region: region,
	}
}

// FetchDaily returns observations for today's trending searches.
func (f *TrendsFetcher) FetchDaily(ctx context.Context) ([]trends.Observation, error) {
	resp, err := f.client.R().
		SetContext(ctx).
		Get(fmt.Sprintf("https://trends.google.com/trends/trendingsearches/daily/rss?geo=%s", f.region))

	if err != nil {
		return nil, fmt.Errorf("failed to fetch google trends: %w", err)
	}
	if resp.StatusCode() != http.StatusOK {
		return nil, fmt.Errorf("unexpected status code %d from google trends", resp.StatusCode())
	}

	var feed trendsFeed
	if err := xml.Unmarshal(resp.Body(), &feed); err != nil {
		return nil, fmt.Errorf("failed to parse trends feed: %w", err)
	}

	var observations []trends.Observation
	for i, item := range feed.Items {
		if i >= 20 || item.Title == "" {
			continue
		}
		newsContext := ""
		if len(item.News) > 0 {
			newsContext = item.News[0].Title
		}
		observations = append(observations, trends.Observation{
			Name:           item.Title,
			Description:    newsContext,
			RawScore:       TrafficScore(item.Traffic),
			SourcePlatform: "google_trends",
			MediaType:      "text",
		})
	}

	return observations, nil
}

// TrafficScore estimates a 0-100 popularity score from traffic strings
// like "500K+" or "2M+". Unparseable input scores 50.
func TrafficScore(traffic string) float64 {
	s := strings.ReplaceAll(traffic, ",", "")
	s = strings.ReplaceAll(s, "+", "")
	s = strings.TrimSpace(s)
	if s == "" {
		return 50
	}

	switch {
	case strings.Contains(s, "M"):
		n, err := strconv.ParseFloat(strings.ReplaceAll(s, "M", ""), 64)
		if err != nil {
			return 50
		}
		return math.Min(n*20, 100) // 1M traffic = 20 points
	case strings.Contains(s, "K"):
		n, err := strconv.ParseFloat(strings.ReplaceAll(s, "K", ""), 64)
		if err != nil {
			return 50
		}
		return math.Min(n/10, 100) // 100K traffic = 10 points
	default:
		n, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return 50
		}
		return math.Min(n/10000, 100)
	}
}
