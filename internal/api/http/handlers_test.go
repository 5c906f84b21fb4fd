package http

import (
	"context"
	"log/slog"
	"net/http"
	"testing"
	"time"

	"github.com/gavv/httpexpect/v2"
	"github.com/go-chi/httplog/v2"
	"github.com/stretchr/testify/mock"

	"github.com/Deelite34/link-shortener/internal/database"
	"github.com/Deelite34/link-shortener/internal/models"
	"github.com/Deelite34/link-shortener/internal/service"
	"github.com/Deelite34/link-shortener/internal/web"
)

type MockLinkService struct {
	mock.Mock
}

func (s *MockLinkService) Issue(ctx context.Context, destination, address string) (*models.Link, error) {
	args := s.Called(ctx, destination, address)
	link, _ := args.Get(0).(*models.Link)
	return link, args.Error(1)
}

func (s *MockLinkService) Resolve(ctx context.Context, slug string) (string, error) {
	args := s.Called(ctx, slug)
	return args.String(0), args.Error(1)
}

func (s *MockLinkService) Revoke(ctx context.Context, slug, address string) error {
	args := s.Called(ctx, slug, address)
	return args.Error(0)
}

func (s *MockLinkService) ListFor(ctx context.Context, address string) ([]*models.Link, error) {
	args := s.Called(ctx, address)
	links, _ := args.Get(0).([]*models.Link)
	return links, args.Error(1)
}

func (s *MockLinkService) GetFor(ctx context.Context, slug, address string) (*models.Link, error) {
	args := s.Called(ctx, slug, address)
	link, _ := args.Get(0).(*models.Link)
	return link, args.Error(1)
}

const testAddr = "127.0.0.1"

func setupExpect(t *testing.T) (*httpexpect.Expect, *MockLinkService) {
	t.Helper()

	svc := new(MockLinkService)
	logger := httplog.NewLogger("link-shortener-test", httplog.Options{
		LogLevel: slog.LevelError,
	})
	router := NewRouter(logger, svc, web.NewHandler(svc, "http://short.test"))

	e := httpexpect.WithConfig(httpexpect.Config{
		TestName: t.Name(),
		BaseURL:  "http://short.test",
		Reporter: httpexpect.NewAssertReporter(t),
		Client: &http.Client{
			Transport: httpexpect.NewBinder(router),
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				return http.ErrUseLastResponse
			},
		},
	})

	t.Cleanup(func() {
		svc.AssertExpectations(t)
	})

	return e, svc
}

func TestPing(t *testing.T) {
	e, _ := setupExpect(t)

	e.GET("/ping").
		Expect().
		Status(http.StatusOK).
		Text().Contains("pong")
}

func TestCreateLink(t *testing.T) {
	const path = "/links/"

	t.Run("empty request body", func(t *testing.T) {
		e, _ := setupExpect(t)

		e.POST(path).
			WithHeader("Content-Type", "application/json").
			WithHeader("X-Forwarded-For", testAddr).
			Expect().
			Status(http.StatusBadRequest).
			JSON().Object().
			HasValue("error", "Empty Request Body")
	})

	t.Run("disallowed characters", func(t *testing.T) {
		e, _ := setupExpect(t)

		e.POST(path).
			WithHeader("X-Forwarded-For", testAddr).
			WithJSON(map[string]string{"url_input": "https://example.com/?q=1"}).
			Expect().
			Status(http.StatusBadRequest).
			JSON().Object().
			HasValue("error", "Validation Error")
	})

	t.Run("missing url_input", func(t *testing.T) {
		e, _ := setupExpect(t)

		e.POST(path).
			WithHeader("X-Forwarded-For", testAddr).
			WithJSON(map[string]string{}).
			Expect().
			Status(http.StatusBadRequest).
			JSON().Object().
			HasValue("error", "Validation Error")
	})

	t.Run("quota exceeded", func(t *testing.T) {
		e, svc := setupExpect(t)

		svc.On("Issue", mock.Anything, "www.wp.pl", testAddr).
			Return(nil, service.ErrQuotaExceeded).
			Once()

		e.POST(path).
			WithHeader("X-Forwarded-For", testAddr).
			WithJSON(map[string]string{"url_input": "www.wp.pl"}).
			Expect().
			Status(http.StatusForbidden).
			JSON().Object().
			IsEqual(map[string]string{"Fail": "5 link limit reached."})
	})

	t.Run("banned client", func(t *testing.T) {
		e, svc := setupExpect(t)

		svc.On("Issue", mock.Anything, "www.wp.pl", testAddr).
			Return(nil, service.ErrClientBanned).
			Once()

		e.POST(path).
			WithHeader("X-Forwarded-For", testAddr).
			WithJSON(map[string]string{"url_input": "www.wp.pl"}).
			Expect().
			Status(http.StatusForbidden).
			JSON().Object().
			HasValue("error", "Forbidden")
	})

	t.Run("slug space exhausted", func(t *testing.T) {
		e, svc := setupExpect(t)

		svc.On("Issue", mock.Anything, "www.wp.pl", testAddr).
			Return(nil, service.ErrSlugSpaceExhausted).
			Once()

		e.POST(path).
			WithHeader("X-Forwarded-For", testAddr).
			WithJSON(map[string]string{"url_input": "www.wp.pl"}).
			Expect().
			Status(http.StatusInternalServerError).
			JSON().Object().
			HasValue("error", "Server Error")
	})

	t.Run("success", func(t *testing.T) {
		e, svc := setupExpect(t)

		createdAt := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

		svc.On("Issue", mock.Anything, "www.wp.pl", testAddr).
			Return(&models.Link{
				ID:        1,
				URLInput:  "www.wp.pl",
				URLOutput: "abcdefghij",
				CreatedAt: createdAt,
			}, nil).
			Once()

		resp := e.POST(path).
			WithHeader("X-Forwarded-For", testAddr).
			WithJSON(map[string]string{"url_input": "www.wp.pl"}).
			Expect().
			Status(http.StatusCreated).
			JSON().Object()

		resp.HasValue("url_input", "www.wp.pl")
		resp.HasValue("url_output", "abcdefghij")
		resp.Value("creation_date").String().NotEmpty()
	})
}

func TestListLinks(t *testing.T) {
	const path = "/links/"

	t.Run("empty", func(t *testing.T) {
		e, svc := setupExpect(t)

		svc.On("ListFor", mock.Anything, testAddr).
			Return([]*models.Link{}, nil).
			Once()

		e.GET(path).
			WithHeader("X-Forwarded-For", testAddr).
			Expect().
			Status(http.StatusOK).
			JSON().Array().IsEmpty()
	})

	t.Run("two links", func(t *testing.T) {
		e, svc := setupExpect(t)

		svc.On("ListFor", mock.Anything, testAddr).
			Return([]*models.Link{
				{ID: 1, URLInput: "www.wp.pl", URLOutput: "aaaaaaaaaa"},
				{ID: 2, URLInput: "www.google.com", URLOutput: "bbbbbbbbbb"},
			}, nil).
			Once()

		arr := e.GET(path).
			WithHeader("X-Forwarded-For", testAddr).
			Expect().
			Status(http.StatusOK).
			JSON().Array()

		arr.Length().IsEqual(2)
		arr.Value(0).Object().HasValue("url_input", "www.wp.pl")
		arr.Value(1).Object().HasValue("url_output", "bbbbbbbbbb")
	})

	t.Run("second page", func(t *testing.T) {
		e, svc := setupExpect(t)

		links := make([]*models.Link, 0, 7)
		for i := 0; i < 7; i++ {
			links = append(links, &models.Link{
				ID:        int64(i + 1),
				URLInput:  "www.wp.pl",
				URLOutput: string(rune('a'+i)) + "bcdefghij",
			})
		}

		svc.On("ListFor", mock.Anything, testAddr).
			Return(links, nil).
			Once()

		arr := e.GET(path).
			WithQuery("page", 2).
			WithHeader("X-Forwarded-For", testAddr).
			Expect().
			Status(http.StatusOK).
			JSON().Array()

		arr.Length().IsEqual(2)
		arr.Value(0).Object().HasValue("url_output", "fbcdefghij")
	})
}

func TestGetLink(t *testing.T) {
	const path = "/links/abcdefghij/"

	t.Run("not found", func(t *testing.T) {
		e, svc := setupExpect(t)

		svc.On("GetFor", mock.Anything, "abcdefghij", testAddr).
			Return(nil, database.ErrLinkNotFound).
			Once()

		e.GET(path).
			WithHeader("X-Forwarded-For", testAddr).
			Expect().
			Status(http.StatusNotFound).
			JSON().Object().
			HasValue("error", "Resource Not Found")
	})

	t.Run("success", func(t *testing.T) {
		e, svc := setupExpect(t)

		svc.On("GetFor", mock.Anything, "abcdefghij", testAddr).
			Return(&models.Link{ID: 1, URLInput: "www.wp.pl", URLOutput: "abcdefghij"}, nil).
			Once()

		e.GET(path).
			WithHeader("X-Forwarded-For", testAddr).
			Expect().
			Status(http.StatusOK).
			JSON().Object().
			HasValue("url_output", "abcdefghij")
	})
}

func TestDeleteLink(t *testing.T) {
	const path = "/links/abcdefghij/"

	t.Run("not found", func(t *testing.T) {
		e, svc := setupExpect(t)

		svc.On("Revoke", mock.Anything, "abcdefghij", testAddr).
			Return(database.ErrLinkNotFound).
			Once()

		e.DELETE(path).
			WithHeader("X-Forwarded-For", testAddr).
			Expect().
			Status(http.StatusNotFound)
	})

	t.Run("foreign link reads as absent", func(t *testing.T) {
		e, svc := setupExpect(t)

		svc.On("Revoke", mock.Anything, "abcdefghij", testAddr).
			Return(service.ErrNotOwner).
			Once()

		e.DELETE(path).
			WithHeader("X-Forwarded-For", testAddr).
			Expect().
			Status(http.StatusNotFound)
	})

	t.Run("success", func(t *testing.T) {
		e, svc := setupExpect(t)

		svc.On("Revoke", mock.Anything, "abcdefghij", testAddr).
			Return(nil).
			Once()

		e.DELETE(path).
			WithHeader("X-Forwarded-For", testAddr).
			Expect().
			Status(http.StatusNoContent).
			NoContent()
	})
}
