package httpapi

import (
	"net/http"

	"github.com/go-chi/render"
)

type ErrResponse struct {
	Err            error `json:"-"` // low-level runtime error
	HTTPStatusCode int   `json:"-"` // http response status code

	StatusText string `json:"status"`          // user-level status message
	ErrorText  string `json:"error,omitempty"` // application-level error message, for debugging
}

func (e *ErrResponse) Render(w http.ResponseWriter, r *http.Request) error {
	render.Status(r, e.HTTPStatusCode)
	return nil
}

func ErrInvalidRequest(err error) render.Renderer {
	return &ErrResponse{
		Err:            err,
		HTTPStatusCode: http.StatusBadRequest,
		StatusText:     "Invalid request.",
		ErrorText:      err.Error(),
	}
}

func ErrNotFound() render.Renderer {
	return &ErrResponse{
		HTTPStatusCode: http.StatusNotFound,
		StatusText:     http.StatusText(http.StatusNotFound),
	}
}

// ErrInternalServerError carries no error detail: server-side failure
// context goes to the log, not to the client.
func ErrInternalServerError() render.Renderer {
	return &ErrResponse{
		HTTPStatusCode: http.StatusInternalServerError,
		StatusText:     http.StatusText(http.StatusInternalServerError),
	}
}

type StatusResponse struct {
	StatusCode int `json:"statusCode"`
}

func NewStatusResponse(statusCode int) *StatusResponse {
	return &StatusResponse{StatusCode: statusCode}
}

func (rd *StatusResponse) Render(w http.ResponseWriter, r *http.Request) error {
	render.Status(r, rd.StatusCode)
	return nil
}
