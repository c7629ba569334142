package webutil

import (
	"encoding/json"
	"errors"
	"fmt"
	"mime"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/haradejene/yegara-web-lms/internal/model"
)

const maxJSONBody = 1 << 20

// DecodeJSONBody decodes a single JSON object into dst. Unknown fields are rejected.
func DecodeJSONBody(r *http.Request, dst interface{}) error {
	if r.Body == nil {
		return model.ErrInvalidInput
	}
	defer r.Body.Close()

	decoder := json.NewDecoder(http.MaxBytesReader(nil, r.Body, maxJSONBody))
	decoder.DisallowUnknownFields()

	if err := decoder.Decode(dst); err != nil {
		return fmt.Errorf("%w: %v", model.ErrInvalidInput, err)
	}
	return nil
}

// IsFormRequest reports an urlencoded or multipart body.
func IsFormRequest(r *http.Request) bool {
	mediaType, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if err != nil {
		return false
	}
	return mediaType == "application/x-www-form-urlencoded" || strings.HasPrefix(mediaType, "multipart/")
}

// FormValue reads key from an urlencoded or multipart body.
func FormValue(r *http.Request, key string) (string, error) {
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	var err error
	if strings.HasPrefix(mediaType, "multipart/") {
		err = r.ParseMultipartForm(maxJSONBody)
	} else {
		err = r.ParseForm()
	}
	if err != nil {
		return "", fmt.Errorf("%w: %v", model.ErrInvalidInput, err)
	}
	return r.PostFormValue(key), nil
}

// ValidateStruct runs the shared validator and converts the first failure into
// a VALIDATION_ERROR AppError whose field is the JSON name.
func ValidateStruct(s interface{}) error {
	err := Validator.Struct(s)
	if err == nil {
		return nil
	}
	var validationErrors validator.ValidationErrors
	if errors.As(err, &validationErrors) && len(validationErrors) > 0 {
		first := validationErrors[0]
		return model.NewAppError(model.CodeValidation, first.Translate(Trans), first.Field(), model.ErrInvalidInput)
	}
	return err
}

// InvalidBody is the standard AppError for undecodable request bodies.
func InvalidBody() *model.AppError {
	return model.NewAppError(model.CodeInvalidBody, "The request body is malformed.", "", model.ErrInvalidInput)
}

// InvalidParam is the standard AppError for malformed URL parameters.
func InvalidParam(name string) *model.AppError {
	return model.NewAppError(model.CodeInvalidParam, fmt.Sprintf("%s is not a valid id.", name), name, model.ErrInvalidInput)
}
