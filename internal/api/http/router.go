package http

import (
	"context"
	"net/http"
	"reflect"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httplog/v2"
	"github.com/go-playground/validator/v10"

	"github.com/Deelite34/link-shortener/internal/models"
	"github.com/Deelite34/link-shortener/internal/web"
)

// LinkService is the part of the link service the JSON API consumes.
type LinkService interface {
	Issue(ctx context.Context, destination, address string) (*models.Link, error)
	GetFor(ctx context.Context, slug, address string) (*models.Link, error)
	ListFor(ctx context.Context, address string) ([]*models.Link, error)
	Revoke(ctx context.Context, slug, address string) error
}

func getValidate() *validator.Validate {
	validate := validator.New()

	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	// Matches the destination character policy enforced by the service.
	_ = validate.RegisterValidation("shorturl", func(fl validator.FieldLevel) bool {
		return models.ValidDestination(fl.Field().String())
	})

	return validate
}

// NewRouter wires the HTML front end and the JSON API onto one chi router.
func NewRouter(logger *httplog.Logger, svc LinkService, pages *web.Handler) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(httplog.RequestLogger(logger))
	r.Use(middleware.Recoverer)
	r.Use(middleware.StripSlashes)

	r.Get("/ping", handlePing)

	r.Get("/", pages.Index)
	r.Post("/", pages.Shorten)
	r.Route("/l/{slug}", func(r chi.Router) {
		r.Get("/", pages.Redirect)
		r.Post("/", pages.Revoke)
	})

	r.Route("/links", func(r chi.Router) {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins:   []string{"https://*"},
			AllowedMethods:   []string{"POST", "GET", "DELETE", "OPTIONS"},
			AllowedHeaders:   []string{"Content-Type", "Accept"},
			AllowCredentials: false,
			MaxAge:           84600,
		}))
		r.Use(middleware.AllowContentType("application/json"))

		validate := getValidate()

		r.Get("/", handleListLinks(svc))
		r.Post("/", handleCreateLink(svc, validate))

		r.Route("/{slug}", func(r chi.Router) {
			r.Get("/", handleGetLink(svc))
			r.Delete("/", handleDeleteLink(svc))
		})
	})

	return r
}
