package resultstate

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/google/uuid"

	"github.com/Adams521/everything-gift/internal/models"
)

const (
	// ResultsPath is the navigation destination for results.
	ResultsPath = "/results"

	DataParam = "data"
	IDParam   = "id"
)

// Transport moves a result across one navigation hop. Pages only know this
// interface, so the carrier can change without touching rendering.
type Transport interface {
	// Attach returns the navigation target carrying result.
	Attach(ctx context.Context, result models.RecommendationResult) (string, error)
	// Receive recovers the result from the request that followed the target.
	Receive(r *http.Request) (models.RecommendationResult, bool)
}

// URLTransport embeds the encoded result in the target itself.
type URLTransport struct{}

var _ Transport = URLTransport{}

func (URLTransport) Attach(_ context.Context, result models.RecommendationResult) (string, error) {
	token, err := Encode(result)
	if err != nil {
		return "", err
	}
	return ResultsPath + "?" + url.Values{DataParam: {token}}.Encode(), nil
}

func (URLTransport) Receive(r *http.Request) (models.RecommendationResult, bool) {
	return Decode(r.URL.Query().Get(DataParam))
}

// KV is the subset of the cache client CacheTransport needs.
type KV interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
}

// CacheTransport parks the encoded result under an opaque id and only puts
// the id in the target. Entries expire after ttl.
type CacheTransport struct {
	kv  KV
	ttl time.Duration
}

var _ Transport = (*CacheTransport)(nil)

func NewCacheTransport(kv KV, ttl time.Duration) *CacheTransport {
	return &CacheTransport{kv: kv, ttl: ttl}
}

func (t *CacheTransport) Attach(ctx context.Context, result models.RecommendationResult) (string, error) {
	token, err := Encode(result)
	if err != nil {
		return "", err
	}
	id := uuid.NewString()
	if err := t.kv.Set(ctx, cacheKey(id), []byte(token), t.ttl); err != nil {
		return "", fmt.Errorf("store result %s: %w", id, err)
	}
	return ResultsPath + "?" + url.Values{IDParam: {id}}.Encode(), nil
}

func (t *CacheTransport) Receive(r *http.Request) (models.RecommendationResult, bool) {
	id, err := uuid.Parse(r.URL.Query().Get(IDParam))
	if err != nil {
		return models.RecommendationResult{}, false
	}
	token, err := t.kv.Get(r.Context(), cacheKey(id.String()))
	if err != nil {
		slog.Debug("Result not found in cache", "id", id, "error", err)
		return models.RecommendationResult{}, false
	}
	return Decode(string(token))
}

func cacheKey(id string) string {
	return "result:" + id
}
