package http

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"html/template"
	"net/http"
	"net/url"
	"strings"
	"time"

	"git-repository-analyzer/internal/evaluation"
	"git-repository-analyzer/internal/git"
	"git-repository-analyzer/internal/render"
	"git-repository-analyzer/internal/session"
	"git-repository-analyzer/internal/stats"
	"git-repository-analyzer/internal/validation"

	"github.com/dustin/go-humanize"
	"go.uber.org/zap"
)

//go:embed templates/*.html
var templateFS embed.FS

const (
	BannerSelection = "selection"
	BannerTransient = "transient"
	BannerInvalid   = "invalid"
	BannerError     = "error"
)

// Banner is the error strip shown above the report
type Banner struct {
	Kind    string
	Message string
}

type evaluationView struct {
	Saved  bool
	Fields []evaluation.Field
	Scores evaluation.Scores
}

type pageData struct {
	Repositories []git.LocalRepository
	Selected     string
	Query        ReportQuery
	MaxDepth     int
	Banner       *Banner
	Report       *stats.Report
	Tree         string
	TimelineMax  int
	Evaluation   *evaluationView
}

func parsePages() (*template.Template, error) {
	funcs := template.FuncMap{
		"bytes": func(n int64) string { return humanize.Bytes(uint64(n)) },
		"comma": func(n int) string { return humanize.Comma(int64(n)) },
		"ago":   humanize.Time,
		"date":  func(t time.Time) string { return t.Format("2006-01-02 15:04") },
		"short": func(hash string) string { return hash[:min(8, len(hash))] },
		"pct":   func(f float64) string { return fmt.Sprintf("%.1f", f) },
		"score": func(p *int) int { return *p },
		"text":  func(p *string) string { return *p },
		"risk":  func(level string) string { return "risk-" + level },
		"width": func(count, top int) int {
			if top == 0 {
				return 0
			}
			return count * 100 / top
		},
	}
	return template.New("pages").Funcs(funcs).ParseFS(templateFS, "templates/*.html")
}

// errorBanner turns an error into the banner shown to the user. No error kind
// ends the session.
func errorBanner(err error) *Banner {
	var validationErr *validation.ValidationErrors
	var ioErr *stats.AggregationIOError
	switch {
	case errors.As(err, &validationErr):
		return &Banner{Kind: BannerInvalid, Message: strings.Join(validationErr.Messages(), "; ")}
	case errors.Is(err, git.ErrNotARepository), errors.Is(err, ErrRepositoryNotFound):
		return &Banner{Kind: BannerSelection, Message: "Cannot open the selected repository: " + err.Error()}
	case errors.As(err, &ioErr):
		return &Banner{Kind: BannerTransient, Message: "The repository could not be read. Reselect it to retry. (" + err.Error() + ")"}
	default:
		return &Banner{Kind: BannerError, Message: err.Error()}
	}
}

// Index handles GET /, the dashboard page
func (h *Handler) Index(w http.ResponseWriter, r *http.Request) {
	h.renderPage(w, r, http.StatusOK, r.URL.Query(), nil)
}

// EndSession handles POST /session/end
func (h *Handler) EndSession(w http.ResponseWriter, r *http.Request) {
	if c, err := r.Cookie(h.sessionCfg.CookieName); err == nil && c.Value != "" {
		if err := h.sessions.End(r.Context(), c.Value); err != nil {
			h.logger.Warn("Failed to end session", zap.Error(err))
		}
	}
	h.metrics.SetActiveSessions(h.sessions.OpenHandles())

	http.SetCookie(w, &http.Cookie{
		Name:     h.sessionCfg.CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
	})
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// renderPage selects the requested repository for the session, aggregates it
// inline and renders the result. Failures end up in the banner.
func (h *Handler) renderPage(w http.ResponseWriter, r *http.Request, status int, values url.Values, banner *Banner) {
	ctx := r.Context()

	id, err := h.sessionID(ctx, w, r)
	if err != nil {
		Error(w, err, http.StatusInternalServerError)
		return
	}

	data := pageData{MaxDepth: MaxDepth, Banner: banner}
	setBanner := func(err error) {
		if data.Banner == nil {
			data.Banner = errorBanner(err)
		}
	}

	repos, err := git.Discover(h.cfg.DownloadsDir)
	if err != nil {
		setBanner(err)
	}
	data.Repositories = repos

	handle, sel, release, err := h.sessions.Acquire(ctx, id)
	if errors.Is(err, session.ErrSessionNotFound) {
		if id, err = h.beginSession(ctx, w); err != nil {
			Error(w, err, http.StatusInternalServerError)
			return
		}
		handle, sel = nil, session.Selection{}
	}
	if err != nil {
		setBanner(err)
	}
	// the lease keeps the handle open while this request aggregates over it
	defer func() { release() }()

	current := git.LocalRepository{Name: sel.Repository, Path: sel.Path}
	if handle == nil {
		current = git.LocalRepository{}
	}

	if name := strings.TrimSpace(values.Get("repo")); name != "" && name != current.Name {
		repo, err := h.findRepository(name)
		if err == nil {
			if _, err = h.sessions.Select(ctx, id, repo); err == nil {
				release()
				handle, sel, release, err = h.sessions.Acquire(ctx, id)
				current = git.LocalRepository{Name: sel.Repository, Path: sel.Path}
			}
		}
		if err != nil {
			h.logger.Info("Repository selection failed", zap.String("repository", name), zap.Error(err))
			setBanner(err)
		}
	}
	h.metrics.SetActiveSessions(h.sessions.OpenHandles())

	data.Selected = current.Name
	data.Query = h.withDefaults(reportQuery(values), values)

	if handle != nil {
		cfg, err := h.configuration(current, data.Query)
		if err != nil {
			setBanner(err)
		} else if report, err := h.aggregate(ctx, handle, cfg); err != nil {
			setBanner(err)
		} else {
			data.Report = report
			data.Tree = render.Tree(report.FileStructure)
			for _, b := range report.ActivityTimeline.Buckets {
				data.TimelineMax = max(data.TimelineMax, b.Count)
			}
		}

		e, saved, err := h.loadEvaluation(r, current.Name)
		if err != nil {
			setBanner(err)
		} else {
			data.Evaluation = &evaluationView{Saved: saved, Fields: e.Fields(), Scores: evaluation.Score(e)}
		}
	}

	if err := HTML(w, status, h.pages, "index.html", data); err != nil {
		h.logger.Error("Failed to render page", zap.Error(err))
	}
}

// sessionID returns the session of the request cookie, starting one when the
// request has none
func (h *Handler) sessionID(ctx context.Context, w http.ResponseWriter, r *http.Request) (string, error) {
	if c, err := r.Cookie(h.sessionCfg.CookieName); err == nil && c.Value != "" {
		return c.Value, nil
	}
	return h.beginSession(ctx, w)
}

func (h *Handler) beginSession(ctx context.Context, w http.ResponseWriter) (string, error) {
	id, err := h.sessions.Begin(ctx)
	if err != nil {
		return "", err
	}

	http.SetCookie(w, &http.Cookie{
		Name:     h.sessionCfg.CookieName,
		Value:    id,
		Path:     "/",
		MaxAge:   int(h.sessionCfg.TTL.Seconds()),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	return id, nil
}
