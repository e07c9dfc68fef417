// Package handler implements the HTTP API endpoints.
package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/erp/wms-connect/internal/domain/fulfillment"
	"github.com/erp/wms-connect/internal/interfaces/http/dto"
)

// BaseHandler provides common handler utilities
type BaseHandler struct{}

// getRequestID extracts the request ID from the context
func getRequestID(c *gin.Context) string {
	if id := c.GetString("request_id"); id != "" {
		return id
	}
	if id := c.GetHeader("X-Request-ID"); id != "" {
		return id
	}
	return ""
}

// Success sends a success response
func (h *BaseHandler) Success(c *gin.Context, data any) {
	c.JSON(http.StatusOK, dto.NewSuccessResponse(data))
}

// Created sends a 201 created response
func (h *BaseHandler) Created(c *gin.Context, data any) {
	c.JSON(http.StatusCreated, dto.NewSuccessResponse(data))
}

// NoContent sends a 204 no content response
func (h *BaseHandler) NoContent(c *gin.Context) {
	c.Status(http.StatusNoContent)
}

// Error sends an error response with the appropriate status code
func (h *BaseHandler) Error(c *gin.Context, statusCode int, code, message string) {
	requestID := getRequestID(c)
	c.JSON(statusCode, dto.NewErrorResponseWithRequestID(code, message, requestID))
}

// ErrorWithCode sends an error response, deriving status code from error code
func (h *BaseHandler) ErrorWithCode(c *gin.Context, code, message string) {
	h.Error(c, dto.GetHTTPStatus(code), code, message)
}

// BadRequest sends a 400 bad request response
func (h *BaseHandler) BadRequest(c *gin.Context, message string) {
	h.Error(c, http.StatusBadRequest, dto.ErrCodeBadRequest, message)
}

// InternalError sends a 500 internal server error response
func (h *BaseHandler) InternalError(c *gin.Context, message string) {
	h.Error(c, http.StatusInternalServerError, dto.ErrCodeInternal, message)
}

// domainErrorCodes pairs fulfillment sentinel errors with API error codes.
// Order matters where sentinels wrap each other, most specific first.
var domainErrorCodes = []struct {
	err  error
	code string
}{
	{fulfillment.ErrOrderNotFound, dto.ErrCodeNotFound},
	{fulfillment.ErrRemoteOrderNotFound, dto.ErrCodeRemoteOrderNotFound},
	{fulfillment.ErrRemoteOrderExists, dto.ErrCodeAlreadyExists},
	{fulfillment.ErrInvalidOrderNumber, dto.ErrCodeBadRequest},
	{fulfillment.ErrNotSubmitted, dto.ErrCodeNotSubmitted},
	{fulfillment.ErrAlreadySubmitted, dto.ErrCodeAlreadySubmitted},
	{fulfillment.ErrNotReady, dto.ErrCodeNotReady},
	{fulfillment.ErrAutoUpdateDisabled, dto.ErrCodeAutoUpdateDisabled},
	{fulfillment.ErrWarehouseUnreachable, dto.ErrCodeWarehouseUnreachable},
	{fulfillment.ErrWarehouseRejected, dto.ErrCodeWarehouseRejected},
	{fulfillment.ErrMalformedResponse, dto.ErrCodeMalformedResponse},
	{fulfillment.ErrSubmissionFailed, dto.ErrCodeSubmissionFailed},
}

// HandleDomainError converts fulfillment errors to HTTP responses
func (h *BaseHandler) HandleDomainError(c *gin.Context, err error) {
	if err == nil {
		return
	}

	for _, m := range domainErrorCodes {
		if errors.Is(err, m.err) {
			h.ErrorWithCode(c, m.code, err.Error())
			return
		}
	}

	h.InternalError(c, "An unexpected error occurred")
}
