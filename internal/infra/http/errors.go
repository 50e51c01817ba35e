package http

import (
	"errors"
	"net/http"

	"jobly/internal/domain"
	"jobly/internal/infra/auth/rbac"
	"jobly/internal/infra/sqlbuild"

	"github.com/gin-gonic/gin"
)

type errorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Status  int    `json:"status"`
}

type errorResponse struct {
	Error errorBody `json:"error"`
}

func writeError(c *gin.Context, err error) {
	if authz, ok := rbac.IsAuthzError(err); ok {
		writeErrorCode(c, http.StatusUnauthorized, authz.Code, "unauthorized")
		return
	}
	status, code := http.StatusInternalServerError, "INTERNAL"
	message := "internal error"
	switch {
	case errors.Is(err, domain.ErrDuplicate):
		status, code = http.StatusBadRequest, "DUPLICATE"
	case errors.Is(err, domain.ErrEmptyUpdate):
		status, code = http.StatusBadRequest, "EMPTY_UPDATE"
	case errors.Is(err, sqlbuild.ErrDuplicateField):
		status, code = http.StatusBadRequest, "DUPLICATE_FIELD"
	case errors.Is(err, domain.ErrBadRequest):
		status, code = http.StatusBadRequest, "BAD_REQUEST"
	case errors.Is(err, domain.ErrNotFound):
		status, code = http.StatusNotFound, "NOT_FOUND"
	case errors.Is(err, domain.ErrUnauthorized):
		status, code = http.StatusUnauthorized, "UNAUTHORIZED"
	case errors.Is(err, domain.ErrForbidden):
		status, code = http.StatusForbidden, "FORBIDDEN"
	}
	if status != http.StatusInternalServerError {
		message = err.Error()
	} else {
		_ = c.Error(err)
	}
	writeErrorCode(c, status, code, message)
}

func writeErrorCode(c *gin.Context, status int, code, message string) {
	c.JSON(status, errorResponse{Error: errorBody{
		Code:    code,
		Message: message,
		Status:  status,
	}})
}

func writeBindError(c *gin.Context, err error) {
	writeErrorCode(c, http.StatusBadRequest, "INVALID_REQUEST", err.Error())
}
