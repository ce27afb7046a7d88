package http

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"git-repository-analyzer/internal/git"
	"git-repository-analyzer/internal/metrics"
	"git-repository-analyzer/internal/stats"
	"git-repository-analyzer/internal/validation"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// ListRepositories handles GET /api/v1/repositories
func (h *Handler) ListRepositories(w http.ResponseWriter, r *http.Request) {
	repos, err := git.Discover(h.cfg.DownloadsDir)
	if err != nil {
		Error(w, err, http.StatusInternalServerError)
		return
	}

	JSON(w, http.StatusOK, map[string]interface{}{
		"repositories": repos,
		"total":        len(repos),
	})
}

// GetReport handles GET /api/v1/repositories/{group}/{name}/report.
// The handle is opened for this request only and closed afterwards.
func (h *Handler) GetReport(w http.ResponseWriter, r *http.Request) {
	repo, err := h.repositoryFromPath(r)
	if err != nil {
		Error(w, err, http.StatusBadRequest)
		return
	}

	q := h.withDefaults(reportQuery(r.URL.Query()), r.URL.Query())
	cfg, err := h.configuration(repo, q)
	if err != nil {
		h.metrics.ObserveAggregation(metrics.ResultInvalid, 0)
		Error(w, err, http.StatusBadRequest)
		return
	}

	handle, err := git.Open(repo.Path)
	if err != nil {
		h.metrics.ObserveAggregation(metrics.ResultNotRepository, 0)
		Error(w, err, http.StatusInternalServerError)
		return
	}
	defer handle.Close()

	report, err := h.aggregate(r.Context(), handle, cfg)
	if err != nil {
		Error(w, err, http.StatusInternalServerError)
		return
	}

	JSON(w, http.StatusOK, report)
}

// repositoryFromPath resolves the {group}/{name} URL parameters to a downloaded copy
func (h *Handler) repositoryFromPath(r *http.Request) (git.LocalRepository, error) {
	group := chi.URLParam(r, "group")
	name := chi.URLParam(r, "name")

	v := validation.New()
	v.Required("group", group).Required("name", name)
	if err := v.Validate(); err != nil {
		return git.LocalRepository{}, err
	}

	return h.findRepository(group + "/" + name)
}

func (h *Handler) findRepository(name string) (git.LocalRepository, error) {
	repos, err := git.Discover(h.cfg.DownloadsDir)
	if err != nil {
		return git.LocalRepository{}, err
	}
	for _, repo := range repos {
		if repo.Name == name {
			return repo, nil
		}
	}
	return git.LocalRepository{}, fmt.Errorf("%w: %s", ErrRepositoryNotFound, name)
}

// aggregate runs the aggregator inline and records the outcome
func (h *Handler) aggregate(ctx context.Context, handle stats.Handle, cfg stats.Configuration) (*stats.Report, error) {
	start := time.Now()
	report, err := stats.Aggregate(ctx, handle, cfg)
	elapsed := time.Since(start)

	var ioErr *stats.AggregationIOError
	switch {
	case err == nil:
		h.metrics.ObserveAggregation(metrics.ResultOK, elapsed)
		h.logger.Debug("Report aggregated",
			zap.String("repository", handle.Name()),
			zap.Int("commits", report.BasicStats.TotalCommits),
			zap.Duration("duration", elapsed),
		)
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		h.metrics.ObserveAggregation(metrics.ResultCanceled, elapsed)
	case errors.As(err, &ioErr):
		h.metrics.ObserveAggregation(metrics.ResultIOError, elapsed)
		h.logger.Warn("Aggregation failed", zap.String("repository", handle.Name()), zap.Error(err))
	default:
		h.metrics.ObserveAggregation(metrics.ResultIOError, elapsed)
		h.logger.Error("Aggregation failed", zap.String("repository", handle.Name()), zap.Error(err))
	}
	return report, err
}
