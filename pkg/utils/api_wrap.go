package utils

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
)

type APIResponse struct {
	Status  string      `json:"status"`
	Code    int         `json:"code"`
	Message string      `json:"message,omitempty"`
	TraceID string      `json:"trace_id,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}

func traceIDFrom(c *gin.Context) string {
	if v, ok := c.Get("trace_id"); ok {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}

func RespondSuccess(c *gin.Context, data interface{}, message string) {
	c.JSON(http.StatusOK, APIResponse{
		Status:  "success",
		Code:    http.StatusOK,
		Message: message,
		TraceID: traceIDFrom(c),
		Data:    data,
	})
}

func RespondError(c *gin.Context, code int, message string) {
	c.JSON(code, APIResponse{
		Status:  "error",
		Code:    code,
		Message: message,
		TraceID: traceIDFrom(c),
	})
}

// HandleServiceError maps the service error taxonomy onto stable HTTP statuses
// so callers can tell "fix your input" from "try again later" from "not allowed".
func HandleServiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrValidation):
		RespondError(c, http.StatusUnprocessableEntity, err.Error())
	case errors.Is(err, ErrInvalidRole):
		RespondError(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, ErrSelfLink):
		RespondError(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, ErrInvalidCredentials):
		RespondError(c, http.StatusUnauthorized, "Invalid credentials")
	case errors.Is(err, ErrForbidden), errors.Is(err, ErrNoSubscription):
		RespondError(c, http.StatusForbidden, err.Error())
	case errors.Is(err, ErrNotFound),
		errors.Is(err, ErrAccountNotFound),
		errors.Is(err, ErrPlanNotFound):
		RespondError(c, http.StatusNotFound, err.Error())
	case errors.Is(err, ErrEmailAlreadyExists), errors.Is(err, ErrPlanInactive):
		RespondError(c, http.StatusConflict, err.Error())
	case errors.Is(err, ErrDependency):
		RespondError(c, http.StatusBadGateway, "Upstream provider unavailable, try again later")
	case errors.Is(err, ErrDatabaseError):
		log.WithError(err).Error("database error")
		RespondError(c, http.StatusInternalServerError, "Internal server error")
	default:
		log.WithError(err).Error("unhandled service error")
		RespondError(c, http.StatusInternalServerError, "Internal server error")
	}
}
