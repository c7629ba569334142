// internal/webutil/response.go
package webutil

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/haradejene/yegara-web-lms/internal/model"
)

// HandleError writes the JSON error body for err. It is the single place where
// errors become HTTP responses.
func HandleError(w http.ResponseWriter, logger *slog.Logger, err error) {
	if logger == nil {
		logger = slog.Default()
	}
	statusCode := MapErrorToStatusCode(err)

	var errResp model.APIErrorResponse
	var appErr *model.AppError
	if errors.As(err, &appErr) {
		errResp = model.APIErrorResponse{Error: appErr.Detail}
	} else {
		// unexpected error; details stay in the log
		if statusCode >= http.StatusInternalServerError {
			logger.Error("Unhandled error", slog.Any("error", err))
		}
		errResp = model.APIErrorResponse{Error: defaultDetail(statusCode)}
	}

	RespondWithJSON(w, statusCode, errResp, logger)
}

func defaultDetail(statusCode int) model.ErrorDetail {
	switch statusCode {
	case http.StatusNotFound:
		return model.ErrorDetail{Code: model.CodeNotFound, Message: "The requested resource was not found."}
	case http.StatusBadRequest:
		return model.ErrorDetail{Code: model.CodeValidation, Message: "The request is invalid."}
	case http.StatusUnauthorized:
		return model.ErrorDetail{Code: model.CodeUnauthenticated, Message: "Authentication is required."}
	case http.StatusForbidden:
		return model.ErrorDetail{Code: model.CodeForbidden, Message: "You do not have permission to perform this action."}
	case http.StatusConflict:
		return model.ErrorDetail{Code: "CONFLICT", Message: "The resource already exists."}
	default:
		return model.ErrorDetail{Code: model.CodeInternal, Message: "An internal server error occurred."}
	}
}

// MapErrorToStatusCode maps the wrapped sentinel to an HTTP status.
func MapErrorToStatusCode(err error) int {
	switch {
	// internal failures may wrap a repository sentinel; they stay 500
	case errors.Is(err, model.ErrInternalServer):
		return http.StatusInternalServerError
	case errors.Is(err, model.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, model.ErrInvalidInput):
		return http.StatusBadRequest
	case errors.Is(err, model.ErrUnauthenticated):
		return http.StatusUnauthorized
	case errors.Is(err, model.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, model.ErrConflict):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// RespondWithJSON writes payload as JSON with the given status.
func RespondWithJSON(w http.ResponseWriter, code int, payload interface{}, logger *slog.Logger) {
	response, err := json.Marshal(payload)
	if err != nil {
		if logger == nil {
			logger = slog.Default()
		}
		logger.Error("Error marshaling JSON response", slog.Any("error", err))
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`{"error":{"code":"INTERNAL_SERVER_ERROR","message":"Failed to build the response."}}`))
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	w.Write(response)
}
