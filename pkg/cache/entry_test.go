package cache

import (
	"testing"
	"time"
)

func TestNewEntry(t *testing.T) {
	before := time.Now()
	entry := NewEntry("/v1/analytics/data", []byte(`{"result":{}}`), 10*time.Minute)

	if string(entry.Data) != `{"result":{}}` {
		t.Errorf("Data = %s", entry.Data)
	}
	if entry.Method != "/v1/analytics/data" {
		t.Errorf("Method = %q", entry.Method)
	}
	if entry.CachedAt.Before(before) {
		t.Error("CachedAt should be set to creation time")
	}
	if ttl := entry.TTL(); ttl < 9*time.Minute || ttl > 10*time.Minute {
		t.Errorf("TTL() = %v, want ~10m", ttl)
	}
}

func TestCacheEntry_IsExpired(t *testing.T) {
	tests := []struct {
		name    string
		expires time.Time
		want    bool
	}{
		{"expired entry", time.Now().Add(-1 * time.Hour), true},
		{"valid entry", time.Now().Add(1 * time.Hour), false},
		{"just expired", time.Now().Add(-1 * time.Second), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			entry := &CacheEntry{Expires: tt.expires}
			if got := entry.IsExpired(); got != tt.want {
				t.Errorf("IsExpired() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestCacheEntry_TTL_Expired(t *testing.T) {
	entry := &CacheEntry{Expires: time.Now().Add(-1 * time.Hour)}
	if got := entry.TTL(); got != 0 {
		t.Errorf("TTL() = %v, want 0", got)
	}
}
