package resultstate

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Adams521/everything-gift/internal/models"
)

func ptr[T any](v T) *T { return &v }

func sampleResult() models.RecommendationResult {
	return models.RecommendationResult{
		Categories: []string{"数码", "生活 & 家居"},
		Products: []models.Product{
			{
				ID:          1,
				Name:        "耳机",
				Price:       ptr(99.5),
				ImageURL:    ptr("https://img.alicdn.com/a.jpg?x=1&y=%20"),
				Platform:    "淘宝",
				PlatformURL: "https://item.taobao.com/item.htm?id=1#top",
				Description: ptr("降噪 100% 好用"),
			},
			{ID: 2, Name: "free sample", Price: ptr(0.0), Platform: "京东", PlatformURL: "https://jd.com/2"},
			{ID: 3, Name: "no price", Platform: "小红书", PlatformURL: "https://xhs.com/3", Description: ptr("")},
		},
		Reasoning: "根据\"生日\"场景，预算 50-200 元。\n第二行 + plus",
	}
}

func TestEncodeDecode_RoundTrip(t *testing.T) {
	tests := []struct {
		name   string
		result models.RecommendationResult
	}{
		{"full", sampleResult()},
		{"empty lists", models.RecommendationResult{Categories: []string{}, Products: []models.Product{}, Reasoning: ""}},
		{"nil lists", models.RecommendationResult{Reasoning: "nothing matched"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			token, err := Encode(tt.result)
			require.NoError(t, err)
			assert.NotContains(t, token, "&")
			assert.NotContains(t, token, "#")
			assert.NotContains(t, token, " ")

			got, ok := Decode(token)
			require.True(t, ok)
			assert.Equal(t, tt.result, got)
		})
	}
}

func TestDecode_MalformedTokens(t *testing.T) {
	tokens := []string{
		"",
		"%",
		"%zz",
		"not json",
		"%7B%22categories%22",
		"null",
		"%5B%5D",
		"42",
		`{"categories":"not-a-list"}`,
		`{"products":[{"id":"one"}]}`,
	}

	for _, token := range tokens {
		t.Run(token, func(t *testing.T) {
			assert.NotPanics(t, func() {
				_, ok := Decode(token)
				assert.False(t, ok)
			})
		})
	}
}

func TestURLTransport(t *testing.T) {
	result := sampleResult()

	target, err := URLTransport{}.Attach(context.Background(), result)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(target, ResultsPath+"?"+DataParam+"="))

	req := httptest.NewRequest(http.MethodGet, target, nil)
	got, ok := URLTransport{}.Receive(req)
	require.True(t, ok)
	assert.Equal(t, result, got)
}

func TestURLTransport_MissingParam(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, ResultsPath, nil)

	_, ok := URLTransport{}.Receive(req)

	assert.False(t, ok)
}

type memoryKV struct {
	mu   sync.Mutex
	data map[string][]byte
	fail bool
}

func (m *memoryKV) Get(_ context.Context, key string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.data[key]
	if !ok {
		return nil, errors.New("miss")
	}
	return v, nil
}

func (m *memoryKV) Set(_ context.Context, key string, data []byte, _ time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.fail {
		return errors.New("unavailable")
	}
	if m.data == nil {
		m.data = map[string][]byte{}
	}
	m.data[key] = data
	return nil
}

func TestCacheTransport(t *testing.T) {
	kv := &memoryKV{}
	transport := NewCacheTransport(kv, time.Minute)
	result := sampleResult()

	target, err := transport.Attach(context.Background(), result)
	require.NoError(t, err)

	u, err := url.Parse(target)
	require.NoError(t, err)
	assert.Equal(t, ResultsPath, u.Path)
	assert.Empty(t, u.Query().Get(DataParam))
	assert.NotEmpty(t, u.Query().Get(IDParam))

	got, ok := transport.Receive(httptest.NewRequest(http.MethodGet, target, nil))
	require.True(t, ok)
	assert.Equal(t, result, got)
}

func TestCacheTransport_UnknownOrInvalidID(t *testing.T) {
	transport := NewCacheTransport(&memoryKV{}, time.Minute)

	for _, target := range []string{
		ResultsPath,
		ResultsPath + "?id=not-a-uuid",
		ResultsPath + "?id=0b6f3a0e-8f57-4c43-9d39-6c0f5f6f9f55",
	} {
		_, ok := transport.Receive(httptest.NewRequest(http.MethodGet, target, nil))
		assert.False(t, ok, target)
	}
}

func TestCacheTransport_StoreFailure(t *testing.T) {
	transport := NewCacheTransport(&memoryKV{fail: true}, time.Minute)

	_, err := transport.Attach(context.Background(), sampleResult())

	assert.Error(t, err)
}
