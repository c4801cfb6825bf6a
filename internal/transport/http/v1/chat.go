package v1

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/xiaot623/gogo/ibu/internal/domain"
	"github.com/xiaot623/gogo/ibu/internal/service"
)

const unexpectedErrorMessage = "An unexpected error occurred. Please try again later."

// Chat answers one question about the resume.
// POST /api/chat
func (h *Handler) Chat(c echo.Context) error {
	var req domain.ChatRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusUnprocessableEntity, domain.ErrorResponse{
			Error:  "invalid request body",
			Detail: bindErrorDetail(err),
		})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusUnprocessableEntity, domain.ErrorResponse{
			Error:  "validation failed",
			Detail: validationDetail(err),
		})
	}

	// A client disconnect does not cancel the remote call; the completion
	// client's own timeout bounds it.
	ctx := context.WithoutCancel(c.Request().Context())

	resp, err := h.service.HandleQuestion(ctx, req.Question, req.SessionID)
	if err != nil {
		var ufe *service.UserFacingError
		if errors.As(err, &ufe) {
			return c.JSON(http.StatusServiceUnavailable, domain.ErrorResponse{Error: ufe.Message})
		}
		h.logger.Error("unexpected error processing chat request", "error", err)
		return c.JSON(http.StatusInternalServerError, domain.ErrorResponse{Error: unexpectedErrorMessage})
	}

	return c.JSON(http.StatusOK, resp)
}

func bindErrorDetail(err error) string {
	var he *echo.HTTPError
	if errors.As(err, &he) {
		return fmt.Sprint(he.Message)
	}
	return err.Error()
}
