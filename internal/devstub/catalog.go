package devstub

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/Adams521/everything-gift/internal/models"
)

type item struct {
	product  models.Product
	category string
	tags     []string
}

func ptr[T any](v T) *T { return &v }

var defaultItems = []item{
	{models.Product{ID: 1, Name: "降噪蓝牙耳机", Price: ptr(399.0), ImageURL: ptr("https://img.example.com/headphones.jpg"), Platform: "京东", PlatformURL: "https://item.jd.com/1", Description: ptr("主动降噪，续航30小时")}, "数码", []string{"音乐", "通勤", "生日"}},
	{models.Product{ID: 2, Name: "手冲咖啡套装", Price: ptr(168.0), Platform: "淘宝", PlatformURL: "https://item.taobao.com/2", Description: ptr("手冲壶、滤杯与磨豆机")}, "生活", []string{"咖啡", "实用型"}},
	{models.Product{ID: 3, Name: "星空投影灯", Price: ptr(99.5), ImageURL: ptr("https://img.example.com/lamp.jpg"), Platform: "拼多多", PlatformURL: "https://pdd.example.com/3"}, "家居", []string{"浪漫型", "纪念日", "生日"}},
	{models.Product{ID: 4, Name: "定制刻字钢笔", Price: ptr(258.0), Platform: "天猫", PlatformURL: "https://detail.tmall.com/4", Description: ptr("可刻姓名或祝福语")}, "文具", []string{"毕业", "商务往来", "有仪式感"}},
	{models.Product{ID: 5, Name: "桌游合集", Price: ptr(129.0), Platform: "淘宝", PlatformURL: "https://item.taobao.com/5"}, "娱乐", []string{"游戏", "搞笑型", "朋友"}},
	{models.Product{ID: 6, Name: "茶叶礼盒", Price: ptr(588.0), ImageURL: ptr(""), Platform: "京东", PlatformURL: "https://item.jd.com/6", Description: ptr("明前龙井 250g")}, "食品", []string{"父母", "见家长", "节日"}},
	{models.Product{ID: 7, Name: "手工香薰蜡烛", Platform: "小红书", PlatformURL: "https://xhs.example.com/7"}, "家居", []string{"浪漫型", "节日"}},
}

// Catalog serves the product list and a naive tag-matching recommender.
type Catalog struct {
	items []item
}

func NewCatalog() *Catalog {
	return &Catalog{items: defaultItems}
}

func (c *Catalog) Routes(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/v1/products", c.handleProducts)
	mux.HandleFunc("POST /api/v1/recommendations", c.handleRecommend)
}

func (c *Catalog) handleProducts(w http.ResponseWriter, r *http.Request) {
	limit := len(c.items)
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			writeDetail(w, http.StatusBadRequest, "limit 参数无效")
			return
		}
		limit = min(n, limit)
	}

	products := make([]models.Product, 0, limit)
	for _, it := range c.items[:limit] {
		products = append(products, it.product)
	}
	writeJSON(w, http.StatusOK, products)
}

func (c *Catalog) handleRecommend(w http.ResponseWriter, r *http.Request) {
	var criteria models.Criteria
	if err := json.NewDecoder(r.Body).Decode(&criteria); err != nil {
		writeDetail(w, http.StatusBadRequest, "请求格式错误")
		return
	}
	if criteria.BudgetMin != nil && criteria.BudgetMax != nil && *criteria.BudgetMin > *criteria.BudgetMax {
		writeDetail(w, http.StatusUnprocessableEntity, "最低预算不能高于最高预算")
		return
	}

	writeJSON(w, http.StatusOK, c.Recommend(criteria))
}

// Recommend picks items within budget, preferring those whose tags match
// the criteria. Without any match every in-budget item is returned.
func (c *Catalog) Recommend(criteria models.Criteria) models.RecommendationResult {
	wanted := criteriaTags(criteria)

	var inBudget, matched []item
	for _, it := range c.items {
		if !withinBudget(it.product.Price, criteria.BudgetMin, criteria.BudgetMax) {
			continue
		}
		inBudget = append(inBudget, it)
		if overlaps(it.tags, wanted) {
			matched = append(matched, it)
		}
	}
	if len(matched) == 0 {
		matched = inBudget
	}

	result := models.RecommendationResult{Categories: []string{}, Products: []models.Product{}}
	seen := map[string]bool{}
	for _, it := range matched {
		result.Products = append(result.Products, it.product)
		if !seen[it.category] {
			seen[it.category] = true
			result.Categories = append(result.Categories, it.category)
		}
	}
	result.Reasoning = reasoning(wanted, len(result.Products))
	return result
}

func criteriaTags(c models.Criteria) []string {
	var tags []string
	for _, s := range []*string{c.RecipientType, c.Occasion, c.Style, c.Relationship} {
		if s != nil && *s != "" {
			tags = append(tags, *s)
		}
	}
	return append(tags, c.Interests...)
}

func withinBudget(price, lo, hi *float64) bool {
	if price == nil {
		return lo == nil && hi == nil
	}
	if lo != nil && *price < *lo {
		return false
	}
	if hi != nil && *price > *hi {
		return false
	}
	return true
}

func overlaps(a, b []string) bool {
	for _, x := range a {
		for _, y := range b {
			if x == y {
				return true
			}
		}
	}
	return false
}

func reasoning(tags []string, n int) string {
	if n == 0 {
		return "预算范围内暂无合适的商品"
	}
	if len(tags) == 0 {
		return fmt.Sprintf("为你挑选了%d件热门礼物", n)
	}
	return fmt.Sprintf("根据「%s」为你挑选了%d件礼物", strings.Join(tags, "、"), n)
}
