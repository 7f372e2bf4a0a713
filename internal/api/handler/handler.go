package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/Rrens/sop-assistant/internal/api/response"
	"github.com/Rrens/sop-assistant/internal/domain"
)

var validate = validator.New()

// decode reads a JSON body into dst and validates it. It writes the 400
// response itself and reports whether the handler may continue.
func decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		response.BadRequest(w, "invalid request body")
		return false
	}

	if err := validate.Struct(dst); err != nil {
		var validationErrors validator.ValidationErrors
		if errors.As(err, &validationErrors) {
			response.BadRequest(w, fieldErrors(validationErrors))
			return false
		}
		response.BadRequest(w, "invalid request body")
		return false
	}
	return true
}

func fieldErrors(validationErrors validator.ValidationErrors) map[string]string {
	out := make(map[string]string, len(validationErrors))
	for _, e := range validationErrors {
		field := e.Field()
		switch e.Tag() {
		case "required":
			out[field] = "field is required"
		case "email":
			out[field] = "invalid email format"
		case "min":
			out[field] = "must be at least " + e.Param()
		case "max":
			out[field] = "must be at most " + e.Param()
		case "oneof":
			out[field] = "must be one of: " + e.Param()
		default:
			out[field] = "validation failed on " + e.Tag()
		}
	}
	return out
}

// urlUUID parses a UUID path parameter, answering 400 when malformed
func urlUUID(w http.ResponseWriter, r *http.Request, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, name))
	if err != nil {
		response.BadRequest(w, "invalid "+name)
		return uuid.Nil, false
	}
	return id, true
}

// fail maps service errors to HTTP statuses. Unknown errors are logged and
// answered with an opaque 500.
func fail(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, domain.ErrUnauthorized):
		response.Unauthorized(w, "authentication required")
	case errors.Is(err, domain.ErrInvalidCredentials):
		response.Unauthorized(w, domain.ErrInvalidCredentials.Error())
	case errors.Is(err, domain.ErrForbidden):
		response.Forbidden(w, domain.ErrForbidden.Error())
	case errors.Is(err, domain.ErrNotFound):
		response.NotFound(w, "not found")
	case errors.Is(err, domain.ErrEmailTaken),
		errors.Is(err, domain.ErrCategoryExists):
		response.Conflict(w, err.Error())
	case errors.Is(err, domain.ErrCategoryInUse),
		errors.Is(err, domain.ErrUnknownCategory),
		errors.Is(err, domain.ErrNoFieldsToUpdate),
		errors.Is(err, domain.ErrInvalidImage):
		response.BadRequest(w, rootMessage(err))
	default:
		log.Error().Err(err).
			Str("request_id", middleware.GetReqID(r.Context())).
			Str("path", r.URL.Path).
			Msg("Request failed")
		response.InternalError(w, "internal server error")
	}
}

// rootMessage returns the message of the domain sentinel wrapped by err
func rootMessage(err error) string {
	for _, sentinel := range []error{
		domain.ErrCategoryInUse,
		domain.ErrUnknownCategory,
		domain.ErrNoFieldsToUpdate,
		domain.ErrInvalidImage,
	} {
		if errors.Is(err, sentinel) {
			return sentinel.Error()
		}
	}
	return err.Error()
}
