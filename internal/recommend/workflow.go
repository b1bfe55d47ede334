package recommend

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/Adams521/everything-gift/internal/models"
	"github.com/Adams521/everything-gift/internal/resultstate"
	"github.com/Adams521/everything-gift/internal/services"
	"github.com/Adams521/everything-gift/internal/telemetry"
)

// Recommender is the backend call the workflow depends on.
type Recommender interface {
	Recommend(ctx context.Context, criteria models.Criteria) (models.RecommendationResult, error)
}

type Workflow struct {
	backend   Recommender
	transport resultstate.Transport
}

func NewWorkflow(backend Recommender, transport resultstate.Transport) *Workflow {
	return &Workflow{backend: backend, transport: transport}
}

// Submit sends criteria to the backend once and returns the results page
// target carrying the parsed reply. The target is only produced after the
// reply parsed successfully; on any error the caller must stay put.
func (w *Workflow) Submit(ctx context.Context, criteria models.Criteria) (string, error) {
	start := time.Now()

	result, err := w.backend.Recommend(ctx, criteria)
	if err != nil {
		telemetry.ObserveRecommendation(outcome(err))
		slog.Error("Recommendation failed", "error", err, "duration", time.Since(start))
		return "", err
	}

	target, err := w.transport.Attach(ctx, result)
	if err != nil {
		telemetry.ObserveRecommendation("error")
		slog.Error("Failed to attach recommendation result", "error", err)
		return "", fmt.Errorf("attach result: %w", err)
	}

	telemetry.ObserveRecommendation("success")
	slog.Info("Recommendation ready",
		"categories", len(result.Categories),
		"products", len(result.Products),
		"duration", time.Since(start),
	)
	return target, nil
}

func outcome(err error) string {
	var be *services.BackendError
	switch {
	case errors.As(err, &be):
		return "rejected"
	case errors.Is(err, services.ErrNetwork):
		return "network"
	default:
		return "error"
	}
}

// UserMessage turns a Submit error into the alert shown on the form.
func UserMessage(err error) string {
	var be *services.BackendError
	switch {
	case errors.As(err, &be) && be.Detail != "":
		return fmt.Sprintf("推荐失败: %d %s", be.Status, be.Detail)
	case errors.As(err, &be):
		return fmt.Sprintf("推荐失败: %d", be.Status)
	case errors.Is(err, services.ErrNetwork):
		return "推荐失败: 无法连接推荐服务，请稍后重试"
	default:
		return "推荐失败: 请稍后重试"
	}
}
