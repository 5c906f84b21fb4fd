package response

import "net/http"

const (
	StatusSuccess = "success"
	StatusError   = "error"
)

var EmptyRequestBodyResponse = Response{
	Status:     StatusError,
	StatusCode: http.StatusBadRequest,
	Error:      "Empty Request Body",
	Message:    "Request body is empty. Please provide necessary data.",
}

var BadRequestResponse = Response{
	Status:     StatusError,
	StatusCode: http.StatusBadRequest,
	Error:      "Bad Request",
	Message:    "The request body could not be parsed.",
}

var ResourceNotFoundResponse = Response{
	Status:     StatusError,
	StatusCode: http.StatusNotFound,
	Error:      "Resource Not Found",
	Message:    "The requested resource was not found.",
}

var ClientBannedResponse = Response{
	Status:     StatusError,
	StatusCode: http.StatusForbidden,
	Error:      "Forbidden",
	Message:    "You are banned from shortening links!",
}

var ServerErrorResponse = Response{
	Status:     StatusError,
	StatusCode: http.StatusInternalServerError,
	Error:      "Server Error",
	Message:    "An internal server error occurred. Please try again later.",
}

type Response struct {
	Status     string `json:"status"`
	StatusCode int    `json:"status_code"`
	Error      string `json:"error,omitempty"`
	Message    string `json:"message"`
	Details    []any  `json:"details,omitempty"`
	Data       any    `json:"data,omitempty"`
}

func SuccessResponse(statusCode int, msg string, data ...any) Response {
	resp := Response{
		Status:     StatusSuccess,
		StatusCode: statusCode,
		Message:    msg,
	}

	if len(data) > 0 {
		resp.Data = data[0]
	}

	return resp
}

func ValidationErrorResponse(details ...any) Response {
	return Response{
		Status:     StatusError,
		StatusCode: http.StatusBadRequest,
		Error:      "Validation Error",
		Message:    "The request body failed validation.",
		Details:    details,
	}
}
