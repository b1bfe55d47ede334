package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"net/url"
	"time"

	"github.com/Adams521/everything-gift/internal/auth"
	"github.com/Adams521/everything-gift/internal/cache"
	"github.com/Adams521/everything-gift/internal/endpoint"
	"github.com/Adams521/everything-gift/internal/models"
	"github.com/Adams521/everything-gift/internal/recommend"
	"github.com/Adams521/everything-gift/internal/resultstate"
	"github.com/Adams521/everything-gift/internal/session"
	"github.com/Adams521/everything-gift/internal/validation"
	"github.com/Adams521/everything-gift/internal/view"
)

// Backend is what the pages need from the gift backend.
type Backend interface {
	recommend.Recommender
	ListProducts(ctx context.Context, limit int) ([]models.Product, error)
	Register(ctx context.Context, req models.RegisterRequest) (models.AuthResponse, error)
	Login(ctx context.Context, req models.LoginRequest) (models.AuthResponse, error)
}

// Cache stores rendered-independent data such as catalog listings.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
}

type Deps struct {
	Backend   Backend
	Transport resultstate.Transport
	Sessions  session.Store
	Resolver  *endpoint.Resolver
	Renderer  *view.Renderer
	// Cache may be nil, which disables catalog caching.
	Cache   Cache
	Limiter cache.RateLimiter

	CatalogLimit    int
	CatalogCacheTTL time.Duration
	Placeholder     string
}

type Handler struct {
	svc       Backend
	workflow  *recommend.Workflow
	transport resultstate.Transport
	sessions  session.Store
	resolver  *endpoint.Resolver
	render    *view.Renderer
	cache     Cache
	limiter   cache.RateLimiter
	validate  *validation.Validator

	catalogLimit    int
	catalogCacheTTL time.Duration
	placeholder     string
}

func NewHandler(d Deps) *Handler {
	return &Handler{
		svc:             d.Backend,
		workflow:        recommend.NewWorkflow(d.Backend, d.Transport),
		transport:       d.Transport,
		sessions:        d.Sessions,
		resolver:        d.Resolver,
		render:          d.Renderer,
		cache:           d.Cache,
		limiter:         d.Limiter,
		validate:        validation.New(),
		catalogLimit:    d.CatalogLimit,
		catalogCacheTTL: d.CatalogCacheTTL,
		placeholder:     d.Placeholder,
	}
}

// layout builds the chrome from whatever identity the request carried.
func (h *Handler) layout(r *http.Request, title string) view.Layout {
	l := view.Layout{
		Title:   title,
		APIBase: h.resolver.Resolve(endpoint.Browser),
	}
	if id, ok := auth.IdentityFrom(r.Context()); ok {
		user := id.User
		l.User = &user
	}
	return l
}

func (h *Handler) Home(w http.ResponseWriter, r *http.Request) {
	h.render.Render(w, http.StatusOK, view.PageHome, view.HomePage{Layout: h.layout(r, "")})
}

func (h *Handler) RecommendForm(w http.ResponseWriter, r *http.Request) {
	h.renderRecommend(w, r, http.StatusOK, nil, "", nil)
}

func (h *Handler) SubmitRecommendation(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.renderRecommend(w, r, http.StatusBadRequest, nil, "推荐失败: 无法读取表单", nil)
		return
	}

	if h.limiter != nil && h.limiter.IsRateLimited(r.Context(), clientIP(r)) {
		slog.Warn("Rate limit exceeded", "ip", clientIP(r))
		h.renderRecommend(w, r, http.StatusTooManyRequests, r.PostForm, "请求过于频繁，请稍后再试", nil)
		return
	}

	criteria, err := recommend.ParseForm(r.PostForm)
	if err != nil {
		h.renderRecommend(w, r, http.StatusUnprocessableEntity, r.PostForm, "", criteriaErrors(err))
		return
	}

	target, err := h.workflow.Submit(r.Context(), criteria)
	if err != nil {
		h.renderRecommend(w, r, http.StatusBadGateway, recommend.Values(criteria), recommend.UserMessage(err), nil)
		return
	}

	http.Redirect(w, r, target, http.StatusSeeOther)
}

func (h *Handler) renderRecommend(w http.ResponseWriter, r *http.Request, status int, form url.Values, alert string, errs map[string]string) {
	if form == nil {
		form = url.Values{}
	}
	h.render.Render(w, status, view.PageRecommend, view.RecommendPage{
		Layout:  h.layout(r, "AI礼品推荐"),
		Form:    form,
		Selects: view.CriteriaSelects(form),
		Alert:   alert,
		Errors:  errs,
	})
}

func criteriaErrors(err error) map[string]string {
	out := map[string]string{}
	var verr *validation.Error
	if errors.As(err, &verr) {
		for field := range verr.Fields {
			out[field] = "请输入有效的数字"
		}
	}
	return out
}

func (h *Handler) Results(w http.ResponseWriter, r *http.Request) {
	page := view.ResultsPage{Layout: h.layout(r, "推荐结果")}

	if result, ok := h.transport.Receive(r); ok {
		page.Found = true
		page.Reasoning = result.Reasoning
		page.Categories = result.Categories
		page.Cards = view.NewCards(result.Products, h.placeholder)
	}

	h.render.Render(w, http.StatusOK, view.PageResults, page)
}

func (h *Handler) Products(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	start := time.Now()
	page := view.ProductsPage{Layout: h.layout(r, "商品列表")}

	cacheKey := fmt.Sprintf("catalog:%d", h.catalogLimit)
	if products, ok := h.cachedProducts(ctx, cacheKey); ok {
		slog.Info("Cache HIT", "key", cacheKey, "duration", time.Since(start))
		page.Cards = view.NewCards(products, h.placeholder)
		h.render.Render(w, http.StatusOK, view.PageProducts, page)
		return
	}

	products, err := h.svc.ListProducts(ctx, h.catalogLimit)
	if err != nil {
		slog.Error("Products fetch error", "error", err, "duration", time.Since(start))
		page.Error = "获取商品失败"
		h.render.Render(w, http.StatusBadGateway, view.PageProducts, page)
		return
	}

	if h.cache != nil {
		if data, err := json.Marshal(products); err == nil {
			go func() {
				_ = h.cache.Set(context.Background(), cacheKey, data, h.catalogCacheTTL)
			}()
		}
	}

	slog.Info("Catalog fetched", "count", len(products), "duration", time.Since(start))
	page.Cards = view.NewCards(products, h.placeholder)
	h.render.Render(w, http.StatusOK, view.PageProducts, page)
}

func (h *Handler) cachedProducts(ctx context.Context, key string) ([]models.Product, bool) {
	if h.cache == nil {
		return nil, false
	}
	data, err := h.cache.Get(ctx, key)
	if err != nil {
		return nil, false
	}
	var products []models.Product
	if err := json.Unmarshal(data, &products); err != nil {
		slog.Warn("Discarding unreadable catalog cache entry", "key", key, "error", err)
		return nil, false
	}
	return products, true
}

func (h *Handler) NotFound(w http.ResponseWriter, r *http.Request) {
	h.render.Render(w, http.StatusNotFound, view.PageError, view.ErrorPage{
		Layout:  h.layout(r, "页面不存在"),
		Message: "页面不存在",
	})
}

func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
