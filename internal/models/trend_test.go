package models

import "testing"

func TestClassifyStage(t *testing.T) {
	tests := []struct {
		name       string
		popularity float64
		velocity   float64
		want       string
	}{
		{"low popularity high velocity", 0, 50.01, StageRising},
		{"low popularity at velocity boundary", 19.99, 50, StageNew},
		{"low popularity just above boundary", 19.99, 50.01, StageRising},
		{"low popularity negative velocity", 10, -30, StageNew},
		{"mid popularity rising", 20, 20.01, StageRising},
		{"mid popularity at rising boundary", 20, 20, StageStable},
		{"mid popularity declining", 40, -20.01, StageDeclining},
		{"mid popularity at declining boundary", 40, -20, StageStable},
		{"mid popularity stable", 59.99, 0, StageStable},
		{"high popularity peak", 60, 0, StagePeak},
		{"high popularity at declining boundary", 60, -10, StagePeak},
		{"high popularity declining", 60, -10.01, StageDeclining},
		{"max popularity", 100, 5, StagePeak},
		{"max popularity falling", 100, -50, StageDeclining},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ClassifyStage(tt.popularity, tt.velocity)
			if got != tt.want {
				t.Errorf("ClassifyStage(%v, %v) = %q, want %q",
					tt.popularity, tt.velocity, got, tt.want)
			}
		})
	}
}

func TestClampScore(t *testing.T) {
	tests := []struct {
		in   float64
		want float64
	}{
		{-5, 0},
		{0, 0},
		{50.5, 50.5},
		{100, 100},
		{150, 100},
	}

	for _, tt := range tests {
		if got := ClampScore(tt.in); got != tt.want {
			t.Errorf("ClampScore(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}
}
