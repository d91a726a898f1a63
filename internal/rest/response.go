package rest

import (
	"errors"
	"net/http"

	"pawScout/business/interview"
	"pawScout/domain"
)

type ResponseError struct {
	Message string `json:"message"`
}

// statusForError maps the engine's typed error kinds onto HTTP statuses so
// handlers stay uniform.
func statusForError(err error) int {
	var (
		parseErr  *domain.ParseError
		unknownF  *domain.UnknownFeatureError
		unknownN  *domain.UnknownNeedError
		rangeErr  *domain.ValueOutOfRangeError
		schemaErr *domain.SchemaError
		duplicate *domain.DuplicateIDError
	)
	switch {
	case errors.Is(err, interview.ErrSessionNotFound):
		return http.StatusNotFound
	case errors.As(err, &unknownN), errors.As(err, &unknownF):
		return http.StatusNotFound
	case errors.As(err, &parseErr),
		errors.As(err, &rangeErr),
		errors.As(err, &schemaErr),
		errors.As(err, &duplicate):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
