package cache

import (
	"strings"
	"testing"
)

func TestCacheKey_String(t *testing.T) {
	tests := []struct {
		name       string
		key        CacheKey
		wantPrefix string
		wantParts  int
	}{
		{
			name:       "method only",
			key:        CacheKey{Method: "/v1/analytics/data"},
			wantPrefix: "ozon:analytics:v1/analytics/data",
			wantParts:  3,
		},
		{
			name:       "client and method",
			key:        CacheKey{Method: "/v1/analytics/data", ClientID: "12345"},
			wantPrefix: "ozon:analytics:12345:v1/analytics/data",
			wantParts:  4,
		},
		{
			name:       "full key",
			key:        CacheKey{Method: "/v1/analytics/data/", ClientID: "12345", Body: []byte(`{"offset":0}`)},
			wantPrefix: "ozon:analytics:12345:v1/analytics/data:",
			wantParts:  5,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.key.String()
			if !strings.HasPrefix(got, tt.wantPrefix) {
				t.Errorf("String() = %q, want prefix %q", got, tt.wantPrefix)
			}
			if parts := strings.Split(got, ":"); len(parts) != tt.wantParts {
				t.Errorf("String() = %q has %d parts, want %d", got, len(parts), tt.wantParts)
			}
		})
	}
}

func TestCacheKey_Deterministic(t *testing.T) {
	a := CacheKey{Method: "/v1/analytics/data", ClientID: "1", Body: []byte(`{"offset":1000}`)}
	b := CacheKey{Method: "/v1/analytics/data", ClientID: "1", Body: []byte(`{"offset":1000}`)}

	if a.String() != b.String() {
		t.Errorf("Same inputs produced different keys: %q vs %q", a.String(), b.String())
	}
}

func TestCacheKey_BodyChangesKey(t *testing.T) {
	first := CacheKey{Method: "/v1/analytics/data", ClientID: "1", Body: []byte(`{"offset":0}`)}
	second := CacheKey{Method: "/v1/analytics/data", ClientID: "1", Body: []byte(`{"offset":1000}`)}
	otherClient := CacheKey{Method: "/v1/analytics/data", ClientID: "2", Body: []byte(`{"offset":0}`)}

	if first.String() == second.String() {
		t.Error("Different offsets must produce different keys")
	}
	if first.String() == otherClient.String() {
		t.Error("Different clients must produce different keys")
	}
}
