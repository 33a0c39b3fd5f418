package rest

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/ogurasousui/codex-visa-workflow/internal/core/document"
	"github.com/ogurasousui/codex-visa-workflow/internal/core/employee"
	"github.com/ogurasousui/codex-visa-workflow/internal/core/workflow"
	"github.com/ogurasousui/codex-visa-workflow/internal/platform/auth"
)

// errorResponse はエラー時の JSON 本文です。
type errorResponse struct {
	Error string `json:"error"`
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, auth.ErrMissingToken),
		errors.Is(err, auth.ErrInvalidToken),
		errors.Is(err, auth.ErrTokenExpired),
		errors.Is(err, auth.ErrNoActor),
		errors.Is(err, employee.ErrInvalidActor):
		return http.StatusUnauthorized
	case errors.Is(err, document.ErrForbidden), errors.Is(err, employee.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, document.ErrContentTooLarge):
		return http.StatusRequestEntityTooLarge
	case errors.Is(err, document.ErrDocumentNotFound),
		errors.Is(err, document.ErrEmployeeNotFound),
		errors.Is(err, employee.ErrEmployeeNotFound):
		return http.StatusNotFound
	case errors.Is(err, document.ErrAlreadyReviewed):
		return http.StatusConflict
	case errors.Is(err, document.ErrInvalidID),
		errors.Is(err, document.ErrInvalidEmployeeID),
		errors.Is(err, document.ErrInvalidType),
		errors.Is(err, document.ErrInvalidStatus),
		errors.Is(err, document.ErrInvalidFileName),
		errors.Is(err, document.ErrEmptyContent),
		errors.Is(err, document.ErrCommentRequired),
		errors.Is(err, employee.ErrInvalidID),
		errors.Is(err, workflow.ErrUnknownRole):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func abortWithError(c *gin.Context, err error) {
	code := statusFor(err)
	msg := err.Error()
	if code == http.StatusInternalServerError {
		msg = "internal error"
	}
	_ = c.Error(err)
	c.AbortWithStatusJSON(code, errorResponse{Error: msg})
}
