package cache

import "fmt"

// EnhanceKey caches validated enhancement output for one endpoint+options
// fingerprint.
func EnhanceKey(fingerprint string) string {
	return fmt.Sprintf("enhance:%s", fingerprint)
}

// RateLimitKey counts requests per client within the sliding window.
func RateLimitKey(client string) string {
	return fmt.Sprintf("ratelimit:%s", client)
}
