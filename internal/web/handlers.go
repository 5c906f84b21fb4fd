package web

import (
	"context"
	"embed"
	"errors"
	"html/template"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/httplog/v2"

	"github.com/Deelite34/link-shortener/internal/database"
	"github.com/Deelite34/link-shortener/internal/models"
	"github.com/Deelite34/link-shortener/internal/service"
	"github.com/Deelite34/link-shortener/pkg/clientip"
)

//go:embed templates
var templatesFS embed.FS

const (
	bannedMsg = "You are banned from shortening links!"
	quotaMsg  = "You have reached 5 shortened links limit. " +
		"Remove at least one of your old links and try again!"
	invalidURLMsg = `Only alphabetic and: ":", "/", "." characters are allowed in URL to shorten.`
	exhaustedMsg  = "Failed to generate unique short link"
)

// LinkService is the part of the link service the HTML front end consumes.
type LinkService interface {
	Issue(ctx context.Context, destination, address string) (*models.Link, error)
	Resolve(ctx context.Context, slug string) (string, error)
	Revoke(ctx context.Context, slug, address string) error
	ListFor(ctx context.Context, address string) ([]*models.Link, error)
}

// Handler serves the form-based front end: the issuance form on "/" and the
// redirect/owner-delete endpoints under "/l/{slug}".
type Handler struct {
	svc       LinkService
	baseURL   string
	templates *template.Template
}

// NewHandler parses the embedded templates and returns a ready handler.
// baseURL overrides the host used when displaying short links; when empty
// the request host is used, like the original site did.
func NewHandler(svc LinkService, baseURL string) *Handler {
	return &Handler{
		svc:       svc,
		baseURL:   baseURL,
		templates: template.Must(template.ParseFS(templatesFS, "templates/*.html")),
	}
}

type indexData struct {
	Links      []*models.Link
	BaseURL    string
	ShortURL   string
	URLInput   string
	Error      string
	FieldError string
}

// linkBase returns the prefix displayed short links are built from,
// e.g. "http://example.com/l/".
func (h *Handler) linkBase(r *http.Request) string {
	if h.baseURL != "" {
		return strings.TrimSuffix(h.baseURL, "/") + "/l/"
	}

	scheme := "http"
	if r.TLS != nil {
		scheme = "https"
	}

	return scheme + "://" + r.Host + "/l/"
}

func (h *Handler) render(w http.ResponseWriter, statusCode int, data indexData) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(statusCode)
	_ = h.templates.ExecuteTemplate(w, "index.html", data)
}

// Index renders the issuance form plus the requester's current links.
func (h *Handler) Index(w http.ResponseWriter, r *http.Request) {
	const op = "web.Handler.Index"

	addr := clientip.FromRequest(r)

	links, err := h.svc.ListFor(r.Context(), addr)
	if err != nil {
		httplog.LogEntrySetFields(r.Context(), map[string]any{"op": op, "err": err})

		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	h.render(w, http.StatusOK, indexData{
		Links:   links,
		BaseURL: h.linkBase(r),
	})
}

// Shorten handles the issuance form submit.
func (h *Handler) Shorten(w http.ResponseWriter, r *http.Request) {
	const op = "web.Handler.Shorten"

	if err := r.ParseForm(); err != nil {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}

	addr := clientip.FromRequest(r)
	urlInput := r.PostFormValue("url_input")

	data := indexData{
		BaseURL:  h.linkBase(r),
		URLInput: urlInput,
	}

	link, err := h.svc.Issue(r.Context(), urlInput, addr)
	switch {
	case err == nil:
		data.ShortURL = data.BaseURL + link.URLOutput
		data.URLInput = ""
	case errors.Is(err, service.ErrInvalidURL):
		data.FieldError = invalidURLMsg
	case errors.Is(err, service.ErrClientBanned):
		data.Error = bannedMsg
	case errors.Is(err, service.ErrQuotaExceeded):
		data.Error = quotaMsg
	default:
		httplog.LogEntrySetFields(r.Context(), map[string]any{"op": op, "err": err})

		http.Error(w, exhaustedMsg, http.StatusInternalServerError)
		return
	}

	links, listErr := h.svc.ListFor(r.Context(), addr)
	if listErr != nil {
		httplog.LogEntrySetFields(r.Context(), map[string]any{"op": op, "err": listErr})
	} else {
		data.Links = links
	}

	statusCode := http.StatusOK
	if data.Error != "" {
		statusCode = http.StatusForbidden
	}

	h.render(w, statusCode, data)
}

// Redirect sends the visitor to the destination behind the slug.
func (h *Handler) Redirect(w http.ResponseWriter, r *http.Request) {
	const op = "web.Handler.Redirect"

	slug := chi.URLParam(r, "slug")

	target, err := h.svc.Resolve(r.Context(), slug)
	if err != nil {
		if errors.Is(err, database.ErrLinkNotFound) {
			http.NotFound(w, r)
			return
		}

		httplog.LogEntrySetFields(r.Context(), map[string]any{"op": op, "err": err})

		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	http.Redirect(w, r, target, http.StatusFound)
}

// Revoke deletes the slug on behalf of its owner and returns to the index.
func (h *Handler) Revoke(w http.ResponseWriter, r *http.Request) {
	const op = "web.Handler.Revoke"

	slug := chi.URLParam(r, "slug")
	addr := clientip.FromRequest(r)

	err := h.svc.Revoke(r.Context(), slug, addr)
	switch {
	case err == nil:
		http.Redirect(w, r, "/", http.StatusFound)
	case errors.Is(err, database.ErrLinkNotFound):
		http.NotFound(w, r)
	case errors.Is(err, service.ErrNotOwner):
		http.Error(w, http.StatusText(http.StatusForbidden), http.StatusForbidden)
	default:
		httplog.LogEntrySetFields(r.Context(), map[string]any{"op": op, "err": err})

		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
	}
}
