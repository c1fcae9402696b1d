package cache

import (
	"context"
	"testing"
	"time"
)

func TestMockDedup(t *testing.T) {
	m := NewMockDedup()
	ctx := context.Background()

	seen, err := m.IsAnalyzed(ctx, "abc")
	if err != nil {
		t.Fatalf("IsAnalyzed failed: %v", err)
	}
	if seen {
		t.Error("fresh cache reported hash as analyzed")
	}

	if err := m.MarkAnalyzed(ctx, "abc", time.Hour); err != nil {
		t.Fatalf("MarkAnalyzed failed: %v", err)
	}

	seen, err = m.IsAnalyzed(ctx, "abc")
	if err != nil {
		t.Fatalf("IsAnalyzed failed: %v", err)
	}
	if !seen {
		t.Error("marked hash not reported as analyzed")
	}

	if err := m.Clear(ctx); err != nil {
		t.Fatalf("Clear failed: %v", err)
	}
	seen, _ = m.IsAnalyzed(ctx, "abc")
	if seen {
		t.Error("hash survived Clear")
	}
}
