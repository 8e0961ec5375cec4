package usecase

import (
	"testing"
	"time"
)

func TestIsFresh(t *testing.T) {
	t.Parallel()

	now := time.Date(2025, time.March, 10, 12, 0, 0, 0, time.UTC)
	window := 6 * time.Hour

	tests := []struct {
		name        string
		publishedAt time.Time
		want        bool
	}{
		{"one hour old", now.Add(-1 * time.Hour), true},
		{"exactly at window boundary", now.Add(-window), true},
		{"one second past window", now.Add(-window - time.Second), false},
		{"ten hours old", now.Add(-10 * time.Hour), false},
		{"published in the future", now.Add(30 * time.Minute), true},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := IsFresh(tt.publishedAt, now, window); got != tt.want {
				t.Fatalf("IsFresh(%v) = %v, want %v", tt.publishedAt, got, tt.want)
			}
		})
	}
}

func TestIsFreshTimezoneAware(t *testing.T) {
	t.Parallel()

	// Same instant expressed in two zones must compare identically.
	est := time.FixedZone("EST", -5*3600)
	now := time.Date(2025, time.March, 10, 12, 0, 0, 0, time.UTC)
	published := time.Date(2025, time.March, 10, 6, 0, 0, 0, est) // 11:00 UTC

	if !IsFresh(published, now, 6*time.Hour) {
		t.Fatal("video published one hour ago (in EST) should be fresh")
	}
}
