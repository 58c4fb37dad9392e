package middleware

import (
	"errors"
	"fmt"
	"net/http"

	"storeapi/internal/api/handler/response"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// Recovery turns a panic into a failure envelope, 500 unless the panic
// value is one of the typed application errors.
func Recovery(logger zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			rec := recover()
			if rec == nil {
				return
			}
			err, ok := rec.(error)
			if !ok {
				err = fmt.Errorf("%v", rec)
			}
			if errors.Is(err, http.ErrAbortHandler) {
				panic(rec)
			}

			logger.Error().Err(err).Str("request_id", RequestID(c)).Str("path", c.Request.URL.Path).Msg("Recovered from panic")
			status, body := response.FromError(err)
			c.AbortWithStatusJSON(status, body)
		}()
		c.Next()
	}
}
