package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/sadopc/taskday/internal/domain"
	"github.com/sadopc/taskday/internal/timer"
)

type errorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

func writeError(c *gin.Context, status int, code, message string) {
	c.AbortWithStatusJSON(status, errorResponse{Error: code, Message: message})
}

// writeErr maps timer and store errors onto HTTP statuses.
func (s *Server) writeErr(c *gin.Context, err error) {
	var (
		verr  *timer.ValidationError
		nf    *timer.NotFoundError
		stErr *timer.StoreError
	)
	switch {
	case errors.As(err, &verr):
		writeError(c, http.StatusBadRequest, "validation_failed", verr.Error())
	case errors.As(err, &nf), errors.Is(err, domain.ErrNotFound):
		writeError(c, http.StatusNotFound, "not_found", err.Error())
	case errors.Is(err, domain.ErrConflict):
		writeError(c, http.StatusConflict, "conflict", err.Error())
	case errors.As(err, &stErr):
		s.logger.ErrorContext(c.Request.Context(), "store unavailable", "op", stErr.Op, "task_id", stErr.TaskID, "error", stErr.Err)
		writeError(c, http.StatusServiceUnavailable, "store_unavailable", "time entry store unavailable")
	default:
		s.logger.ErrorContext(c.Request.Context(), "request failed", "path", c.FullPath(), "error", err)
		writeError(c, http.StatusInternalServerError, "server_error", "internal error")
	}
}
