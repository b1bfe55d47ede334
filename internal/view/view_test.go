package view

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Adams521/everything-gift/internal/models"
)

const placeholder = "https://via.placeholder.com/300x300?text=No+Image"

func ptr[T any](v T) *T { return &v }

func render(t *testing.T, page string, data any) (int, string) {
	t.Helper()
	r, err := NewRenderer()
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	r.Render(rec, http.StatusOK, page, data)
	return rec.Code, rec.Body.String()
}

func TestFormatPrice(t *testing.T) {
	assert.Equal(t, "¥99.50", FormatPrice(99.5))
	assert.Equal(t, "¥0.00", FormatPrice(0))
	assert.Equal(t, "¥1234.57", FormatPrice(1234.567))
}

func TestNewCard(t *testing.T) {
	full := NewCard(models.Product{
		ID: 1, Name: "耳机", Price: ptr(99.5), ImageURL: ptr("https://img/a.jpg"),
		Platform: "淘宝", PlatformURL: "https://t/1", Description: ptr("降噪"),
	}, placeholder)
	assert.Equal(t, "¥99.50", full.Price)
	assert.Equal(t, "https://img/a.jpg", full.ImageURL)
	assert.Equal(t, placeholder, full.Fallback)
	assert.Equal(t, "降噪", full.Description)

	bare := NewCard(models.Product{ID: 2, Name: "杯子", ImageURL: ptr("")}, placeholder)
	assert.Empty(t, bare.Price)
	assert.Empty(t, bare.ImageURL)
	assert.Empty(t, bare.Description)
}

func TestRender_ResultsScenario(t *testing.T) {
	data := ResultsPage{
		Found:      true,
		Reasoning:  "适合生日的数码礼物",
		Categories: []string{"数码"},
		Cards: NewCards([]models.Product{
			{ID: 1, Name: "耳机", Price: ptr(99.5), Platform: "淘宝", PlatformURL: "https://t.cn/1"},
		}, placeholder),
	}

	code, body := render(t, PageResults, data)

	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, 1, strings.Count(body, `class="chip"`))
	assert.Equal(t, 1, strings.Count(body, `class="card"`))
	assert.Contains(t, body, "¥99.50")
	assert.Contains(t, body, "适合生日的数码礼物")
	assert.NotContains(t, body, "暂无推荐商品")
}

func TestRender_ImageFallbackRule(t *testing.T) {
	cards := NewCards([]models.Product{
		{ID: 1, Name: "有图", ImageURL: ptr("https://broken.example/a.jpg"), Platform: "p", PlatformURL: "https://p/1"},
		{ID: 2, Name: "无图", Platform: "p", PlatformURL: "https://p/2"},
	}, placeholder)

	_, body := render(t, PageProducts, ProductsPage{Cards: cards})

	assert.Equal(t, 1, strings.Count(body, "<img "))
	assert.Contains(t, body, `src="https://broken.example/a.jpg"`)
	// The handler clears itself before swapping, so it can fire only once.
	assert.Contains(t, body, `onerror="this.onerror=null;this.src=this.dataset.fallback"`)
	assert.Contains(t, body, `data-fallback="https://via.placeholder.com/300x300?text=No`)
	assert.Equal(t, 1, strings.Count(body, "暂无图片"))
}

func TestRender_PriceOmittedWhenAbsent(t *testing.T) {
	cards := NewCards([]models.Product{{ID: 1, Name: "x", Platform: "p", PlatformURL: "https://p/1"}}, placeholder)

	_, body := render(t, PageProducts, ProductsPage{Cards: cards})

	assert.NotContains(t, body, `class="price"`)
	assert.NotContains(t, body, "¥")
}

func TestRender_EmptyStates(t *testing.T) {
	_, results := render(t, PageResults, ResultsPage{Found: true, Reasoning: "r"})
	assert.Contains(t, results, "暂无推荐商品，请尝试调整筛选条件。")
	assert.NotContains(t, results, `class="grid"`)
	assert.NotContains(t, results, "推荐品类")

	_, products := render(t, PageProducts, ProductsPage{})
	assert.Contains(t, products, "暂无商品数据。")
	assert.NotContains(t, products, `class="grid"`)
}

func TestRender_NoResult(t *testing.T) {
	_, body := render(t, PageResults, ResultsPage{})

	assert.Contains(t, body, "未找到推荐结果")
	assert.Contains(t, body, `href="/recommend"`)
}

func TestRender_CatalogError(t *testing.T) {
	_, body := render(t, PageProducts, ProductsPage{Error: "获取商品失败"})

	assert.Contains(t, body, "获取商品失败")
	assert.Contains(t, body, "重试")
}

func TestRender_Chrome(t *testing.T) {
	tests := []struct {
		name    string
		user    *models.User
		want    []string
		notWant []string
	}{
		{"logged out", nil, []string{`href="/login"`, `href="/register"`}, []string{"退出登录", "欢迎"}},
		{"member", &models.User{Username: "bob", Role: models.RoleMember}, []string{"欢迎", "bob", "退出登录"}, []string{"管理员", `class="badge`}},
		{"vip", &models.User{Username: "vv", Role: models.RoleVIP}, []string{`<span class="badge">VIP</span>`}, []string{"管理员"}},
		{"admin", &models.User{Username: "root", Role: models.RoleAdmin}, []string{"管理员"}, nil},
		{"unknown role", &models.User{Username: "x", Role: "owner"}, []string{"欢迎"}, []string{`class="badge`}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, body := render(t, PageHome, HomePage{Layout: Layout{User: tt.user, APIBase: "http://localhost:8000"}})
			for _, s := range tt.want {
				assert.Contains(t, body, s)
			}
			for _, s := range tt.notWant {
				assert.NotContains(t, body, s)
			}
			assert.Contains(t, body, `<meta name="api-base" content="http://localhost:8000">`)
		})
	}
}

func TestRender_RecommendFormKeepsInputAndAlerts(t *testing.T) {
	form := url.Values{"occasion": {"生日"}, "budget_min": {"50"}}
	data := RecommendPage{
		Form:    form,
		Selects: CriteriaSelects(form),
		Alert:   "推荐失败: 500",
	}

	_, body := render(t, PageRecommend, data)

	assert.Contains(t, body, `<option value="生日" selected>生日</option>`)
	assert.Contains(t, body, `value="50"`)
	assert.Contains(t, body, `role="alert">推荐失败: 500</div>`)
	assert.Contains(t, body, "b.disabled=true")
}

func TestCriteriaSelects(t *testing.T) {
	selects := CriteriaSelects(url.Values{"gender": {"女"}})

	require.NotEmpty(t, selects)
	for _, s := range selects {
		require.NotEmpty(t, s.Options)
		assert.Equal(t, "", s.Options[0].Value)
		selected := 0
		for _, o := range s.Options {
			if o.Selected {
				selected++
			}
		}
		assert.Equal(t, 1, selected, s.Name)
		if s.Name == "gender" {
			assert.False(t, s.Options[0].Selected)
		}
	}
}

func TestRender_UnknownPage(t *testing.T) {
	code, _ := render(t, "missing", nil)

	assert.Equal(t, http.StatusInternalServerError, code)
}
