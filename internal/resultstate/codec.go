// Package resultstate carries a recommendation result from the page that
// requested it to the results page without fetching it again.
package resultstate

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/url"

	"github.com/Adams521/everything-gift/internal/models"
)

// Encode serialises result to JSON and percent-escapes it so it can ride in
// a URL. No length check is made: a very large result can exceed what
// browsers and proxies accept in an address.
func Encode(result models.RecommendationResult) (string, error) {
	raw, err := json.Marshal(result)
	if err != nil {
		return "", fmt.Errorf("encode result: %w", err)
	}
	return url.QueryEscape(string(raw)), nil
}

// Decode reverses Encode. Any missing or malformed token yields false.
func Decode(token string) (models.RecommendationResult, bool) {
	if token == "" {
		return models.RecommendationResult{}, false
	}
	raw, err := url.QueryUnescape(token)
	if err != nil {
		return models.RecommendationResult{}, false
	}
	trimmed := bytes.TrimSpace([]byte(raw))
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return models.RecommendationResult{}, false
	}

	var result models.RecommendationResult
	if err := json.Unmarshal(trimmed, &result); err != nil {
		return models.RecommendationResult{}, false
	}
	return result, true
}
