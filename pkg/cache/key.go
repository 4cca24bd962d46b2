package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
)

// keyPrefix namespaces every page cache key in Redis.
const keyPrefix = "ozon:analytics"

// CacheKey identifies one cached analytics API response.
type CacheKey struct {
	// Method is the API method path (e.g. "/v1/analytics/data").
	Method string

	// ClientID is the seller Client-Id the response belongs to.
	ClientID string

	// Body is the JSON request body. Different offsets or date ranges hash
	// to different keys.
	Body []byte
}

// String generates a deterministic cache key string.
// Format: ozon:analytics:<client_id>:<method>:<sha256(body)[:32]>
//
// Example:
//
//	ozon:analytics:12345:v1/analytics/data:3f1c...
func (k CacheKey) String() string {
	parts := []string{keyPrefix}

	if k.ClientID != "" {
		parts = append(parts, k.ClientID)
	}

	if method := strings.Trim(k.Method, "/"); method != "" {
		parts = append(parts, method)
	}

	if len(k.Body) > 0 {
		sum := sha256.Sum256(k.Body)
		parts = append(parts, hex.EncodeToString(sum[:16]))
	}

	return strings.Join(parts, ":")
}
