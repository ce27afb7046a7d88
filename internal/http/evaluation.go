package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"git-repository-analyzer/internal/evaluation"
	"git-repository-analyzer/internal/validation"

	"go.uber.org/zap"
)

type EvaluationResponse struct {
	Repository string                 `json:"repository"`
	Evaluation *evaluation.Evaluation `json:"evaluation"`
	Scores     evaluation.Scores      `json:"scores"`
}

// GetEvaluation handles GET /api/v1/repositories/{group}/{name}/evaluation
func (h *Handler) GetEvaluation(w http.ResponseWriter, r *http.Request) {
	repo, err := h.repositoryFromPath(r)
	if err != nil {
		Error(w, err, http.StatusBadRequest)
		return
	}

	e, err := h.evaluations.Load(r.Context(), repo.Name)
	if err != nil {
		Error(w, err, http.StatusInternalServerError)
		return
	}

	JSON(w, http.StatusOK, EvaluationResponse{
		Repository: repo.Name,
		Evaluation: e,
		Scores:     evaluation.Score(e),
	})
}

// DeleteEvaluation handles DELETE /api/v1/repositories/{group}/{name}/evaluation
func (h *Handler) DeleteEvaluation(w http.ResponseWriter, r *http.Request) {
	repo, err := h.repositoryFromPath(r)
	if err != nil {
		Error(w, err, http.StatusBadRequest)
		return
	}

	if err := h.evaluations.Delete(r.Context(), repo.Name); err != nil {
		Error(w, err, http.StatusInternalServerError)
		return
	}
	h.logger.Info("Evaluation deleted", zap.String("repository", repo.Name))

	w.WriteHeader(http.StatusNoContent)
}

// PutEvaluation handles PUT /api/v1/repositories/{group}/{name}/evaluation
func (h *Handler) PutEvaluation(w http.ResponseWriter, r *http.Request) {
	repo, err := h.repositoryFromPath(r)
	if err != nil {
		Error(w, err, http.StatusBadRequest)
		return
	}

	var e evaluation.Evaluation
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&e); err != nil {
		Error(w, fmt.Errorf("invalid request body"), http.StatusBadRequest)
		return
	}

	if err := evaluation.Validate(&e); err != nil {
		Error(w, err, http.StatusBadRequest)
		return
	}

	if err := h.evaluations.Save(r.Context(), repo.Name, &e); err != nil {
		Error(w, err, http.StatusInternalServerError)
		return
	}
	h.logger.Info("Evaluation saved", zap.String("repository", repo.Name))

	JSON(w, http.StatusOK, EvaluationResponse{
		Repository: repo.Name,
		Evaluation: &e,
		Scores:     evaluation.Score(&e),
	})
}

// SubmitEvaluation handles the evaluation form of the dashboard page
func (h *Handler) SubmitEvaluation(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		Error(w, fmt.Errorf("invalid form body"), http.StatusBadRequest)
		return
	}

	name := r.PostForm.Get("repo")
	page := url.Values{"repo": {name}}

	repo, err := h.findRepository(name)
	if err != nil {
		h.renderPage(w, r, http.StatusNotFound, page, errorBanner(err))
		return
	}

	e, err := evaluationFromForm(r.PostForm)
	if err == nil {
		err = evaluation.Validate(e)
	}
	if err != nil {
		h.renderPage(w, r, http.StatusBadRequest, page, errorBanner(err))
		return
	}

	if err := h.evaluations.Save(r.Context(), repo.Name, e); err != nil {
		h.logger.Error("Failed to save evaluation", zap.String("repository", repo.Name), zap.Error(err))
		h.renderPage(w, r, http.StatusInternalServerError, page, errorBanner(err))
		return
	}
	h.logger.Info("Evaluation saved", zap.String("repository", repo.Name))

	http.Redirect(w, r, "/?repo="+url.QueryEscape(repo.Name)+"#evaluation", http.StatusSeeOther)
}

// evaluationFromForm reads "<section>.<key>" scores and "<section>.<key>_comment"
// comments. Missing scores count as zero.
func evaluationFromForm(values url.Values) (*evaluation.Evaluation, error) {
	e := &evaluation.Evaluation{}
	v := validation.New()

	for _, f := range e.Fields() {
		key := f.Section + "." + f.Key
		*f.Comment = strings.TrimSpace(values.Get(key + "_comment"))

		raw := strings.TrimSpace(values.Get(key))
		if raw == "" {
			continue
		}
		n, err := strconv.Atoi(raw)
		if err != nil {
			v.Errors().Add(key, f.Label+" must be a whole number")
			continue
		}
		*f.Score = n
	}

	if err := v.Validate(); err != nil {
		return nil, err
	}
	return e, nil
}

// loadEvaluation returns the stored evaluation of repo, or a blank one when
// none was saved yet
func (h *Handler) loadEvaluation(r *http.Request, repo string) (*evaluation.Evaluation, bool, error) {
	e, err := h.evaluations.Load(r.Context(), repo)
	if errors.Is(err, evaluation.ErrNotFound) {
		return &evaluation.Evaluation{}, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return e, true, nil
}
