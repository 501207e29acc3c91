package api

import (
	"net/http"
	"testing"
	"time"
)

func TestRetryAfterDuration(t *testing.T) {
	tests := []struct {
		name    string
		header  string
		present bool
		want    time.Duration
		wantMin time.Duration
		wantMax time.Duration
	}{
		{name: "absent", header: "", present: false},
		{name: "seconds", header: "120", present: true, want: 120 * time.Second},
		{name: "zero seconds", header: "0", present: true, want: 0},
		{name: "negative clamps to zero", header: "-5", present: true, want: 0},
		{name: "unparseable still counts", header: "soon", present: true, want: 0},
		{
			name:    "http date",
			header:  time.Now().Add(2 * time.Minute).UTC().Format(http.TimeFormat),
			present: true,
			wantMin: time.Minute,
			wantMax: 3 * time.Minute,
		},
		{
			name:    "past http date clamps to zero",
			header:  time.Now().Add(-time.Hour).UTC().Format(http.TimeFormat),
			present: true,
			want:    0,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := http.Header{}
			if tt.name != "absent" {
				h.Set("Retry-After", tt.header)
			}
			d, ok := retryAfterDuration(h)
			if ok != tt.present {
				t.Fatalf("present = %v, want %v", ok, tt.present)
			}
			if tt.wantMax > 0 {
				if d < tt.wantMin || d > tt.wantMax {
					t.Errorf("duration = %v, want between %v and %v", d, tt.wantMin, tt.wantMax)
				}
				return
			}
			if d != tt.want {
				t.Errorf("duration = %v, want %v", d, tt.want)
			}
		})
	}
}

func TestRetryAfterEmptyValueCountsAsPresent(t *testing.T) {
	h := http.Header{}
	h.Set("Retry-After", "")
	d, ok := retryAfterDuration(h)
	if !ok {
		t.Fatal("empty Retry-After value should still count as present")
	}
	if d != 0 {
		t.Errorf("duration = %v, want 0", d)
	}
}

func TestParseRateLimitInfo(t *testing.T) {
	now := time.Date(2023, 6, 1, 12, 0, 0, 0, time.UTC)

	t.Run("no headers", func(t *testing.T) {
		if info := parseRateLimitInfo(http.Header{}, now); info != nil {
			t.Errorf("expected nil, got %+v", info)
		}
	})

	t.Run("nil header", func(t *testing.T) {
		if info := parseRateLimitInfo(nil, now); info != nil {
			t.Errorf("expected nil, got %+v", info)
		}
	})

	t.Run("limit and remaining", func(t *testing.T) {
		h := http.Header{}
		h.Set("X-RateLimit-Limit", "1000")
		h.Set("X-RateLimit-Remaining", "37")
		info := parseRateLimitInfo(h, now)
		if info == nil {
			t.Fatal("expected info")
		}
		if info.Limit == nil || *info.Limit != 1000 {
			t.Errorf("Limit = %v", info.Limit)
		}
		if info.Remaining == nil || *info.Remaining != 37 {
			t.Errorf("Remaining = %v", info.Remaining)
		}
	})

	t.Run("relative reset seconds", func(t *testing.T) {
		h := http.Header{}
		h.Set("X-RateLimit-Reset", "60")
		info := parseRateLimitInfo(h, now)
		if info == nil || info.ResetAt == nil {
			t.Fatalf("expected ResetAt, got %+v", info)
		}
		if !info.ResetAt.Equal(now.Add(time.Minute)) {
			t.Errorf("ResetAt = %v, want %v", info.ResetAt, now.Add(time.Minute))
		}
	})

	t.Run("unix reset timestamp", func(t *testing.T) {
		h := http.Header{}
		h.Set("X-RateLimit-Reset", "1685620800")
		info := parseRateLimitInfo(h, now)
		if info == nil || info.ResetAt == nil {
			t.Fatalf("expected ResetAt, got %+v", info)
		}
		if info.ResetAt.Unix() != 1685620800 {
			t.Errorf("ResetAt = %v", info.ResetAt)
		}
	})

	t.Run("unparseable reset keeps raw", func(t *testing.T) {
		h := http.Header{}
		h.Set("RateLimit-Reset", "whenever")
		info := parseRateLimitInfo(h, now)
		if info == nil {
			t.Fatal("expected info")
		}
		if info.ResetAt != nil {
			t.Errorf("ResetAt = %v, want nil", info.ResetAt)
		}
		if info.ResetRaw != "whenever" {
			t.Errorf("ResetRaw = %q", info.ResetRaw)
		}
	})
}

func TestRateLimitInfoMeta(t *testing.T) {
	var nilInfo *RateLimitInfo
	if nilInfo.Meta() != nil {
		t.Error("nil info should yield nil meta")
	}

	limit, remaining := 100, 4
	reset := time.Date(2023, 6, 1, 13, 0, 0, 0, time.UTC)
	info := &RateLimitInfo{Limit: &limit, Remaining: &remaining, ResetAt: &reset}
	meta := info.Meta()
	if meta["limit"] != 100 || meta["remaining"] != 4 {
		t.Errorf("meta = %v", meta)
	}
	if meta["reset_at"] != "2023-06-01T13:00:00Z" {
		t.Errorf("reset_at = %v", meta["reset_at"])
	}

	empty := &RateLimitInfo{}
	if empty.Meta() != nil {
		t.Error("empty info should yield nil meta")
	}
}

func TestLastRateLimitReturnsCopy(t *testing.T) {
	c := newTestClient("https://example.freshdesk.com", "key")
	if c.LastRateLimit() != nil {
		t.Fatal("fresh client should have no rate limit info")
	}

	h := http.Header{}
	h.Set("X-RateLimit-Remaining", "9")
	c.recordRateLimit(h)

	got := c.LastRateLimit()
	if got == nil || got.Remaining == nil || *got.Remaining != 9 {
		t.Fatalf("LastRateLimit = %+v", got)
	}
	*got.Remaining = 0
	again := c.LastRateLimit()
	if *again.Remaining != 9 {
		t.Error("mutating the returned copy leaked into client state")
	}

	// Headers without rate limit info leave the last snapshot in place.
	c.recordRateLimit(http.Header{})
	if c.LastRateLimit() == nil {
		t.Error("empty headers should not clear the last snapshot")
	}
}
