package http

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/httplog/v2"
	"github.com/go-chi/render"
	"github.com/go-playground/validator/v10"

	"github.com/Deelite34/link-shortener/internal/database"
	"github.com/Deelite34/link-shortener/internal/models"
	"github.com/Deelite34/link-shortener/internal/service"
	"github.com/Deelite34/link-shortener/pkg/clientip"
	"github.com/Deelite34/link-shortener/pkg/response"
)

// pageSize is the fixed page size of the link listing endpoint.
const pageSize = 5

// quotaExceededBody is the exact 403 body the API contract promises when
// the 5-link quota is hit.
var quotaExceededBody = map[string]string{"Fail": "5 link limit reached."}

func handlePing(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	fmt.Fprintln(w, "pong")
}

type linkRequest struct {
	URLInput string `json:"url_input" validate:"required,shorturl"`
}

type linkResponse struct {
	URLInput     string    `json:"url_input"`
	URLOutput    string    `json:"url_output"`
	CreationDate time.Time `json:"creation_date"`
}

func toLinkResponse(link *models.Link) linkResponse {
	return linkResponse{
		URLInput:     link.URLInput,
		URLOutput:    link.URLOutput,
		CreationDate: link.CreatedAt,
	}
}

func validationDetails(err error) []any {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return []any{err.Error()}
	}

	details := make([]any, 0, len(verrs))
	for _, ferr := range verrs {
		switch ferr.Tag() {
		case "required":
			details = append(details, fmt.Sprintf("The %s field is required.", ferr.Field()))
		case "shorturl":
			details = append(details, fmt.Sprintf(
				`Only alphabetic and: ":", "/", "." characters are allowed in the %s field.`, ferr.Field()))
		default:
			details = append(details, fmt.Sprintf("The %s field is invalid.", ferr.Field()))
		}
	}

	return details
}

func handleCreateLink(svc LinkService, validate *validator.Validate) http.HandlerFunc {
	const op = "api.http.handleCreateLink"

	return func(w http.ResponseWriter, r *http.Request) {
		var req linkRequest

		if err := render.DecodeJSON(r.Body, &req); err != nil {
			if errors.Is(err, io.EOF) {
				render.Status(r, http.StatusBadRequest)
				render.JSON(w, r, response.EmptyRequestBodyResponse)
				return
			}

			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, response.BadRequestResponse)
			return
		}

		if err := validate.Struct(req); err != nil {
			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, response.ValidationErrorResponse(validationDetails(err)...))
			return
		}

		link, err := svc.Issue(r.Context(), req.URLInput, clientip.FromRequest(r))
		if err != nil {
			switch {
			case errors.Is(err, service.ErrInvalidURL):
				render.Status(r, http.StatusBadRequest)
				render.JSON(w, r, response.ValidationErrorResponse())
			case errors.Is(err, service.ErrQuotaExceeded):
				render.Status(r, http.StatusForbidden)
				render.JSON(w, r, quotaExceededBody)
			case errors.Is(err, service.ErrClientBanned):
				render.Status(r, http.StatusForbidden)
				render.JSON(w, r, response.ClientBannedResponse)
			default:
				httplog.LogEntrySetFields(r.Context(), map[string]any{"op": op, "err": err})

				render.Status(r, http.StatusInternalServerError)
				render.JSON(w, r, response.ServerErrorResponse)
			}
			return
		}

		render.Status(r, http.StatusCreated)
		render.JSON(w, r, toLinkResponse(link))
	}
}

func handleListLinks(svc LinkService) http.HandlerFunc {
	const op = "api.http.handleListLinks"

	return func(w http.ResponseWriter, r *http.Request) {
		links, err := svc.ListFor(r.Context(), clientip.FromRequest(r))
		if err != nil {
			httplog.LogEntrySetFields(r.Context(), map[string]any{"op": op, "err": err})

			render.Status(r, http.StatusInternalServerError)
			render.JSON(w, r, response.ServerErrorResponse)
			return
		}

		page := 1
		if p, err := strconv.Atoi(r.URL.Query().Get("page")); err == nil && p > 0 {
			page = p
		}

		start := (page - 1) * pageSize
		if start > len(links) {
			start = len(links)
		}
		end := start + pageSize
		if end > len(links) {
			end = len(links)
		}

		data := make([]linkResponse, 0, end-start)
		for _, link := range links[start:end] {
			data = append(data, toLinkResponse(link))
		}

		render.Status(r, http.StatusOK)
		render.JSON(w, r, data)
	}
}

func handleGetLink(svc LinkService) http.HandlerFunc {
	const op = "api.http.handleGetLink"

	return func(w http.ResponseWriter, r *http.Request) {
		slug := chi.URLParam(r, "slug")

		link, err := svc.GetFor(r.Context(), slug, clientip.FromRequest(r))
		if err != nil {
			if errors.Is(err, database.ErrLinkNotFound) {
				render.Status(r, http.StatusNotFound)
				render.JSON(w, r, response.ResourceNotFoundResponse)
				return
			}

			httplog.LogEntrySetFields(r.Context(), map[string]any{"op": op, "err": err})

			render.Status(r, http.StatusInternalServerError)
			render.JSON(w, r, response.ServerErrorResponse)
			return
		}

		render.Status(r, http.StatusOK)
		render.JSON(w, r, toLinkResponse(link))
	}
}

func handleDeleteLink(svc LinkService) http.HandlerFunc {
	const op = "api.http.handleDeleteLink"

	return func(w http.ResponseWriter, r *http.Request) {
		slug := chi.URLParam(r, "slug")

		err := svc.Revoke(r.Context(), slug, clientip.FromRequest(r))
		if err != nil {
			// A foreign slug reads as absent on the API surface: callers only
			// ever see their own collection here.
			if errors.Is(err, database.ErrLinkNotFound) || errors.Is(err, service.ErrNotOwner) {
				render.Status(r, http.StatusNotFound)
				render.JSON(w, r, response.ResourceNotFoundResponse)
				return
			}

			httplog.LogEntrySetFields(r.Context(), map[string]any{"op": op, "err": err})

			render.Status(r, http.StatusInternalServerError)
			render.JSON(w, r, response.ServerErrorResponse)
			return
		}

		render.NoContent(w, r)
	}
}
