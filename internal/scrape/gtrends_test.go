package scrape

import "testing"

func TestTrafficScore(t *testing.T) {
	tests := []struct {
		traffic string
		want    float64
	}{
		{"2M+", 40},
		{"10M+", 100}, // capped
		{"500K+", 50},
		{"100K+", 10},
		{"50,000+", 5},
		{"garbage", 50},
		{"", 50},
	}

	for _, tt := range tests {
		if got := TrafficScore(tt.traffic); got != tt.want {
			t.Errorf("TrafficScore(%q) = %v, want %v", tt.traffic, got, tt.want)
		}
	}
}
