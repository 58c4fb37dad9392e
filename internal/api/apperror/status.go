package apperror

import (
	"errors"
	"net/http"
)

// Describe converts any error into an HTTP status, a top level message and
// the envelope's error items.
func Describe(err error) (int, string, []ErrorItem) {
	var (
		cfgErr   *ConfigurationError
		nfErr    *NotFoundError
		valErr   *ValidationError
		parseErr *ParseError
		perErr   *PersistenceError
	)

	switch {
	case errors.As(err, &valErr):
		return http.StatusBadRequest, "Validation failed", valErr.Items
	case errors.As(err, &parseErr):
		return http.StatusBadRequest, parseErr.Error(), []ErrorItem{
			{Field: parseErr.Field, Message: parseErr.Error(), Type: TypeInvalid},
		}
	case errors.As(err, &nfErr):
		return http.StatusNotFound, nfErr.Error(), []ErrorItem{
			{Field: "id", Message: nfErr.Error(), Type: TypeNotFound},
		}
	case errors.As(err, &cfgErr):
		return http.StatusInternalServerError, cfgErr.Error(), []ErrorItem{
			{Field: "resource", Message: cfgErr.Error(), Type: TypeInternalError},
		}
	case errors.As(err, &perErr):
		switch perErr.Kind {
		case PersistenceConflict:
			return http.StatusConflict, "Resource already exists", []ErrorItem{
				{Field: perErr.Resource, Message: "duplicate value violates a unique constraint", Type: TypeInvalid},
			}
		case PersistenceReference:
			return http.StatusBadRequest, "Referenced resource does not exist", []ErrorItem{
				{Field: perErr.Resource, Message: "foreign key constraint violated", Type: TypeInvalid},
			}
		}
	}

	return http.StatusInternalServerError, "Internal server error", []ErrorItem{
		{Field: "server", Message: "an unexpected error occurred", Type: TypeInternalError},
	}
}
