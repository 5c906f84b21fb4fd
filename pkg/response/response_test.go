package response

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSuccessResponse(t *testing.T) {
	tests := []struct {
		name       string
		statusCode int
		msg        string
		data       []any
		want       Response
	}{
		{
			name:       "without data",
			statusCode: http.StatusOK,
			msg:        "Operation successful.",
			want: Response{
				Status:     StatusSuccess,
				StatusCode: http.StatusOK,
				Message:    "Operation successful.",
			},
		},
		{
			name:       "with data",
			statusCode: http.StatusCreated,
			msg:        "Operation successful.",
			data:       []any{map[string]any{"id": 1}},
			want: Response{
				Status:     StatusSuccess,
				StatusCode: http.StatusCreated,
				Message:    "Operation successful.",
				Data:       map[string]any{"id": 1},
			},
		},
		{
			name:       "with multiple data",
			statusCode: http.StatusOK,
			msg:        "Operation successful.",
			data: []any{
				map[string]any{"id": 1},
				map[string]any{"id": 2},
			},
			want: Response{
				Status:     StatusSuccess,
				StatusCode: http.StatusOK,
				Message:    "Operation successful.",
				Data:       map[string]any{"id": 1},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SuccessResponse(tt.statusCode, tt.msg, tt.data...)

			assert.Equal(t, tt.want, got)
		})
	}
}

func TestValidationErrorResponse(t *testing.T) {
	t.Run("without details", func(t *testing.T) {
		got := ValidationErrorResponse()

		assert.Equal(t, StatusError, got.Status)
		assert.Equal(t, http.StatusBadRequest, got.StatusCode)
		assert.Empty(t, got.Details)
	})

	t.Run("with details", func(t *testing.T) {
		got := ValidationErrorResponse("The url_input field is required.")

		assert.Equal(t, StatusError, got.Status)
		assert.Equal(t, []any{"The url_input field is required."}, got.Details)
	})
}
