package controllers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/Kirtivanjode/wanderwithkii/middleware"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// errValidation marks a 400 raised from inside a transaction.
type errValidation struct{ msg string }

func (e errValidation) Error() string { return e.msg }

func badRequest(msg string) error { return errValidation{msg: msg} }

func respondMessage(c *gin.Context, status int, msg string) {
	c.JSON(status, MessageResponse{Message: msg})
}

// serverError logs err with the request context and answers 500 with msg.
func serverError(c *gin.Context, log *zap.SugaredLogger, err error, msg string) {
	_ = c.Error(err)
	log.Errorw(msg,
		"error", err,
		"method", c.Request.Method,
		"path", c.Request.URL.Path,
		"request_id", c.GetString(middleware.RequestIDKey),
	)
	respondMessage(c, http.StatusInternalServerError, msg)
}

// respondValidation answers 400 when err is a validation error.
func respondValidation(c *gin.Context, err error) bool {
	var v errValidation
	if errors.As(err, &v) {
		respondMessage(c, http.StatusBadRequest, v.msg)
		return true
	}
	return false
}

// parseID reads a positive integer path parameter, answering 400 otherwise.
func parseID(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		respondMessage(c, http.StatusBadRequest, "Invalid "+name)
		return 0, false
	}
	return uint(id), true
}

// optionalBool parses a query flag. Absent means nil.
func optionalBool(c *gin.Context, name string) (*bool, bool) {
	raw, ok := c.GetQuery(name)
	if !ok || raw == "" {
		return nil, true
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		respondMessage(c, http.StatusBadRequest, "Invalid "+name+" filter")
		return nil, false
	}
	return &v, true
}

func trimmed(s *string) string {
	if s == nil {
		return ""
	}
	return strings.TrimSpace(*s)
}

// uploadError answers 400 for rejected files and 500 for anything else.
func uploadError(c *gin.Context, log *zap.SugaredLogger, err error) {
	if respondValidation(c, err) {
		return
	}
	serverError(c, log, err, "Failed to read upload")
}
