package common

import (
	"testing"
	"time"
)

func TestIsFresh(t *testing.T) {
	now := time.Now()

	if !IsFresh(now.Add(-30*time.Minute), FreshnessEOD) {
		t.Error("30-minute-old EOD data should be fresh within a 1h TTL")
	}
	if IsFresh(now.Add(-2*time.Hour), FreshnessEOD) {
		t.Error("2-hour-old EOD data should be stale with a 1h TTL")
	}
	if IsFresh(time.Time{}, FreshnessFundamentals) {
		t.Error("zero timestamp should never be fresh")
	}
	if !IsFresh(now.Add(-6*24*time.Hour), FreshnessFundamentals) {
		t.Error("6-day-old fundamentals should be fresh within a 7d TTL")
	}
}
