package v1

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/xiaot623/gogo/ibu/internal/domain"
)

// ErrorHandler renders every error that reaches echo as a domain.ErrorResponse.
// Client errors keep their message. Anything else, including recovered
// panics, is logged and answered with the generic message.
func ErrorHandler(logger *slog.Logger) echo.HTTPErrorHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		code := http.StatusInternalServerError
		body := domain.ErrorResponse{Error: unexpectedErrorMessage}

		var he *echo.HTTPError
		if errors.As(err, &he) && he.Code < http.StatusInternalServerError {
			code = he.Code
			body.Error = fmt.Sprint(he.Message)
		} else {
			logger.Error("request failed",
				"method", c.Request().Method,
				"path", c.Path(),
				"error", err,
			)
		}

		var werr error
		if c.Request().Method == http.MethodHead {
			werr = c.NoContent(code)
		} else {
			werr = c.JSON(code, body)
		}
		if werr != nil {
			logger.Error("failed to write error response", "error", werr)
		}
	}
}
