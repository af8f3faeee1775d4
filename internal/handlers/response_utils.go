package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"correlation-service/internal/ffdc"
	"correlation-service/internal/models"
)

// RespondWithError sends a transport level error, such as a malformed body.
func RespondWithError(c *gin.Context, httpStatus int, appErrorCode string, message string, details interface{}) {
	c.JSON(httpStatus, models.APIError{
		RelatedHTTPCode: httpStatus,
		ClassName:       "InvalidParameterException",
		Code:            appErrorCode,
		Message:         message,
		Details:         details,
	})
}

// RespondWithServiceError maps an error returned by the service to its
// status code and failure body.
func RespondWithServiceError(c *gin.Context, err error) {
	var fe *ffdc.Error
	if errors.As(err, &fe) {
		status := fe.HTTPCode()
		if status == 0 {
			status = http.StatusInternalServerError
		}
		c.JSON(status, models.APIError{
			RelatedHTTPCode:   status,
			ClassName:         fe.Kind.String(),
			Code:              fe.Code.ID,
			Message:           fe.Error(),
			SystemAction:      fe.Code.SystemAction,
			UserAction:        fe.Code.UserAction,
			ActionDescription: fe.ActionDescription,
			Properties:        fe.Parameters,
		})
		return
	}

	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		c.JSON(http.StatusGatewayTimeout, models.APIError{
			RelatedHTTPCode: http.StatusGatewayTimeout,
			ClassName:       ffdc.KindPropertyServer.String(),
			Code:            models.ErrorCodeRequestTimeout,
			Message:         err.Error(),
		})
		return
	}

	c.JSON(http.StatusInternalServerError, models.APIError{
		RelatedHTTPCode: http.StatusInternalServerError,
		ClassName:       ffdc.KindPropertyServer.String(),
		Code:            models.ErrorCodeInternalServerError,
		Message:         err.Error(),
	})
}

// RespondWithSuccess sends data, or no body when data is nil.
func RespondWithSuccess(c *gin.Context, httpStatus int, data interface{}) {
	if data != nil {
		c.JSON(httpStatus, data)
	} else {
		c.Status(httpStatus)
	}
}
