package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sort"

	"github.com/annazecevic/catalog-service/dto"
	"github.com/annazecevic/catalog-service/logger"
	"github.com/annazecevic/catalog-service/middleware"
	"github.com/annazecevic/catalog-service/service"
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/google/uuid"
)

// statusFor maps an application error code to its HTTP status. Not-found
// codes tied to a request field (a featuring artist, a genre id in the
// body) are client mistakes and answer 400.
func statusFor(appErr *service.AppError) int {
	switch appErr.Code {
	case service.CodeValidation, service.CodeInvalidCopyright,
		service.CodePercentageMismatch, service.CodeGenreExists:
		return http.StatusBadRequest
	case service.CodeArtistExists, service.CodeGenreInUse:
		return http.StatusConflict
	case service.CodeArtistNotFound, service.CodeSingleNotFound, service.CodeAlbumNotFound,
		service.CodeStatNotFound, service.CodeGenreNotFound:
		if appErr.Field != "" {
			return http.StatusBadRequest
		}
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

func respondError(c *gin.Context, err error) {
	var appErr *service.AppError
	if !errors.As(err, &appErr) {
		appErr = &service.AppError{Code: service.CodeInternal, Message: service.ErrInternal.Message, Err: err}
	}

	status := statusFor(appErr)
	if status == http.StatusInternalServerError {
		logger.Error(logger.EventDBError, "Request failed", logger.Fields(
			"path", c.FullPath(),
			"method", c.Request.Method,
			"error", err,
		))
		c.JSON(status, dto.ErrorResponse{Errors: []dto.ErrorItem{{
			Message: service.ErrInternal.Message,
			Code:    service.CodeInternal,
		}}})
		return
	}

	c.JSON(status, dto.ErrorResponse{Errors: []dto.ErrorItem{{
		Message: appErr.Message,
		Code:    appErr.Code,
		Field:   appErr.Field,
	}}})
}

func badRequest(c *gin.Context, field, message string) {
	c.JSON(http.StatusBadRequest, dto.ErrorResponse{Errors: []dto.ErrorItem{{
		Message: message,
		Code:    service.CodeValidation,
		Field:   field,
	}}})
}

// bindJSON decodes the body into obj and keeps the raw bytes on the context
// so the handler can inspect the keys the client sent.
func bindJSON(c *gin.Context, obj interface{}) bool {
	if err := c.ShouldBindBodyWith(obj, binding.JSON); err != nil {
		logger.Warn(logger.EventValidationFailure, "Request body rejected", logger.Fields(
			"path", c.FullPath(),
			"ip", c.ClientIP(),
			"error", err,
		))
		badRequest(c, "", err.Error())
		return false
	}
	return true
}

// nonModifiableWarnings lists the read-only keys present in the raw JSON
// body. They are ignored by the update and reported back as warnings.
func nonModifiableWarnings(c *gin.Context, readOnly ...string) []dto.Warning {
	raw, ok := c.Get(gin.BodyBytesKey)
	if !ok {
		return nil
	}
	body, ok := raw.([]byte)
	if !ok {
		return nil
	}
	var keys map[string]json.RawMessage
	if err := json.Unmarshal(body, &keys); err != nil {
		return nil
	}

	var warnings []dto.Warning
	for _, field := range readOnly {
		if _, present := keys[field]; present {
			warnings = append(warnings, dto.Warning{
				Message: fmt.Sprintf("Field '%s' cannot be modified by the user.", field),
				Code:    service.CodeFieldNotModifiable,
				Field:   field,
			})
		}
	}
	sort.Slice(warnings, func(i, j int) bool { return warnings[i].Field < warnings[j].Field })
	return warnings
}

// rejectUnsafe answers 400 for the first field, in name order, whose value
// looks like an injection attempt.
func rejectUnsafe(c *gin.Context, fields map[string]string) bool {
	names := make([]string, 0, len(fields))
	for name := range fields {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		value := fields[name]
		if middleware.CheckXSSPatterns(value) || middleware.CheckSQLInjectionPatterns(value) {
			logger.Security(logger.EventValidationFailure, "Suspicious input rejected", logger.Fields(
				"field", name,
				"path", c.FullPath(),
				"ip", c.ClientIP(),
			))
			badRequest(c, name, "invalid characters in "+name)
			return true
		}
	}
	return false
}

// idParam returns the :id path parameter when it is a well-formed UUID.
func idParam(c *gin.Context) (string, bool) {
	id := c.Param("id")
	if _, err := uuid.Parse(id); err != nil {
		badRequest(c, "id", "invalid id")
		return "", false
	}
	return id, true
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
