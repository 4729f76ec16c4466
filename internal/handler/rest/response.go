package rest

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/narwhalmedia/marquee/internal/owned/domain"
	apperrors "github.com/narwhalmedia/marquee/pkg/errors"
	"github.com/narwhalmedia/marquee/pkg/interfaces"
	"github.com/narwhalmedia/marquee/pkg/logger"
)

const maxBodyBytes = 1 << 20

const retryHint = "The movie catalog could not be reached. Try again in a moment."

// errorResponse is the body of every non-2xx response
type errorResponse struct {
	Error  string                  `json:"error"`
	Code   string                  `json:"code"`
	Fields domain.ValidationErrors `json:"fields,omitempty"`
	Retry  string                  `json:"retry,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if body == nil {
		return
	}
	_ = json.NewEncoder(w).Encode(body)
}

// writeError maps err onto a status code and a JSON body.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := apperrors.HTTPStatus(err)
	resp := errorResponse{
		Error: err.Error(),
		Code:  string(apperrors.TypeOf(err)),
	}

	var appErr *apperrors.AppError
	if errors.As(err, &appErr) {
		resp.Error = appErr.Message
	}

	switch status {
	case http.StatusUnprocessableEntity:
		if verrs, ok := domain.AsValidationErrors(err); ok {
			resp.Fields = verrs
		}
	case http.StatusBadGateway:
		resp.Retry = retryHint
	case http.StatusInternalServerError:
		resp.Code = string(apperrors.ErrorTypeInternal)
		resp.Error = "internal error"
		logger.FromContext(r.Context()).Error("Request failed", interfaces.Error(err))
	}

	writeJSON(w, status, resp)
}

// decodeBody reads a bounded JSON body into dst.
func decodeBody(w http.ResponseWriter, r *http.Request, dst interface{}) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return apperrors.BadRequest("request body is empty")
		}
		return apperrors.BadRequest(fmt.Sprintf("invalid JSON body: %v", err))
	}
	return nil
}
