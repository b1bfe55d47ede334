package services

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/Adams521/everything-gift/internal/endpoint"
	"github.com/Adams521/everything-gift/internal/models"
	"github.com/Adams521/everything-gift/internal/resilience"
)

const (
	RecommendationsPath = "/api/v1/recommendations"
	ProductsPath        = "/api/v1/products"
	RegisterPath        = "/api/v1/auth/register"
	LoginPath           = "/api/v1/auth/login"

	maxErrorBody = 64 << 10
)

// ServiceClient talks to the gift backend from inside the gateway, so every
// address is resolved for the pre-render context.
type ServiceClient struct {
	resolver         *endpoint.Resolver
	client           *http.Client
	recommendationCB *resilience.CircuitBreaker
}

func NewServiceClient(resolver *endpoint.Resolver, timeout time.Duration) *ServiceClient {
	return &ServiceClient{
		resolver: resolver,
		client: &http.Client{
			Timeout: timeout,
		},
		recommendationCB: resilience.NewCircuitBreaker(3, 10*time.Second, IsServerFault),
	}
}

// do sends one request and decodes a 2xx JSON body into target.
func (s *ServiceClient) do(ctx context.Context, method, path string, body, target any) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, s.resolver.BuildURL(endpoint.PreRender, path), reader)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %s %s: %w", ErrNetwork, method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return newBackendError(resp.StatusCode, raw)
	}

	if err := json.NewDecoder(resp.Body).Decode(target); err != nil {
		return fmt.Errorf("%w: %s %s: %w", ErrMalformedResponse, method, path, err)
	}
	return nil
}

// Recommend submits criteria exactly once. Callers get either the parsed
// result or an error; there is no retry.
func (s *ServiceClient) Recommend(ctx context.Context, criteria models.Criteria) (models.RecommendationResult, error) {
	var result models.RecommendationResult
	err := s.recommendationCB.Execute(func() error {
		return s.do(ctx, http.MethodPost, RecommendationsPath, criteria, &result)
	})
	if errors.Is(err, resilience.ErrCircuitOpen) {
		return models.RecommendationResult{}, fmt.Errorf("%w: %w", ErrNetwork, err)
	}
	if err != nil {
		return models.RecommendationResult{}, err
	}
	return result, nil
}

// ListProducts fetches at most limit catalog entries. The call is
// idempotent, so network failures and 5xx replies are retried.
func (s *ServiceClient) ListProducts(ctx context.Context, limit int) ([]models.Product, error) {
	path := ProductsPath + "?limit=" + strconv.Itoa(limit)

	var products []models.Product
	err := resilience.Retry(ctx, 3, 300*time.Millisecond, func(ctx context.Context) error {
		products = nil
		err := s.do(ctx, http.MethodGet, path, nil, &products)
		if err != nil && !IsServerFault(err) {
			return &resilience.Permanent{Err: err}
		}
		return err
	})
	if err != nil {
		return nil, err
	}
	if products == nil {
		products = []models.Product{}
	}
	return products, nil
}

func (s *ServiceClient) Register(ctx context.Context, req models.RegisterRequest) (models.AuthResponse, error) {
	var out models.AuthResponse
	if err := s.do(ctx, http.MethodPost, RegisterPath, req, &out); err != nil {
		return models.AuthResponse{}, err
	}
	return out, nil
}

func (s *ServiceClient) Login(ctx context.Context, req models.LoginRequest) (models.AuthResponse, error) {
	var out models.AuthResponse
	if err := s.do(ctx, http.MethodPost, LoginPath, req, &out); err != nil {
		return models.AuthResponse{}, err
	}
	return out, nil
}
