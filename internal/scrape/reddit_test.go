package scrape

import "testing"

func TestPopularityScore(t *testing.T) {
	tests := []struct {
		upvotes  int
		comments int
		want     float64
	}{
		{0, 0, 0},
		{10000, 0, 70},
		{0, 1000, 30},
		{100000, 0, 100}, // capped
		{1000, 100, 10},
	}

	for _, tt := range tests {
		got := PopularityScore(tt.upvotes, tt.comments)
		if got != tt.want {
			t.Errorf("PopularityScore(%d, %d) = %v, want %v",
				tt.upvotes, tt.comments, got, tt.want)
		}
	}
}

func TestDetectMediaType(t *testing.T) {
	tests := []struct {
		name string
		post redditPost
		want string
	}{
		{"video flag", redditPost{IsVideo: true}, "video"},
		{"image hint", redditPost{PostHint: "image"}, "image"},
		{"hosted video hint", redditPost{PostHint: "hosted:video"}, "video"},
		{"jpg url", redditPost{URL: "https://i.redd.it/abc.JPG"}, "image"},
		{"webp url", redditPost{URL: "https://i.redd.it/abc.webp"}, "image"},
		{"mp4 url", redditPost{URL: "https://files.example.com/clip.mp4"}, "video"},
		{"vreddit url", redditPost{URL: "https://v.redd.it/xyz"}, "video"},
		{"plain link", redditPost{URL: "https://reddit.com/r/memes/comments/x"}, "text"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := detectMediaType(tt.post); got != tt.want {
				t.Errorf("detectMediaType = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestTruncate(t *testing.T) {
	if got := truncate("hello", 10); got != "hello" {
		t.Errorf("truncate short string = %q", got)
	}
	if got := truncate("hello world", 5); got != "hello" {
		t.Errorf("truncate = %q, want %q", got, "hello")
	}
}
