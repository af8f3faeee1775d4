// Package handlers exposes the correlation service over HTTP.
package handlers

import (
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"correlation-service/internal/correlation"
	"correlation-service/internal/models"
)

// API provides handlers for the correlation service.
type API struct {
	service *correlation.Service
	logger  *slog.Logger
}

// NewAPI creates a new API handler over the service.
func NewAPI(service *correlation.Service, logger *slog.Logger) *API {
	return &API{service: service, logger: logger}
}

// RegisterRoutes registers the health check and the versioned API routes.
func (a *API) RegisterRoutes(router *gin.Engine) {
	router.GET("/healthz", a.healthHandler)

	v1 := router.Group("/api/v1/users/:user_id")

	sourceRoutes := v1.Group("/external-sources")
	{
		sourceRoutes.POST("", a.upsertExternalSourceHandler)
		sourceRoutes.GET("/by-name", a.getExternalSourceHandler)
		sourceRoutes.DELETE("", a.removeExternalSourceHandler)
		sourceRoutes.POST("/processing-state", a.recordProcessingStateHandler)
		sourceRoutes.GET("/processing-state", a.getProcessingStateHandler)
	}

	elementRoutes := v1.Group("/correlated-elements")
	{
		elementRoutes.POST("", a.upsertCorrelatedElementHandler)
		elementRoutes.GET("", a.getCorrelatedElementHandler)
	}
}

func (a *API) healthHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// upsertExternalSourceHandler godoc
// @Summary Register or update an external source
// @Description Creates the software server capability of the external source, or replaces the properties of the existing one with the same qualified name.
// @Tags external-sources
// @Accept  json
// @Produce  json
// @Param   user_id  path  string  true  "Calling user"
// @Param   body  body  models.ExternalSourceRequestBody  true  "External source properties"
// @Success 200 {object} models.GUIDResponse "GUID of the external source"
// @Failure 400 {object} models.APIError "Invalid parameter"
// @Failure 403 {object} models.APIError "User not authorized"
// @Failure 500 {object} models.APIError "Repository failure"
// @Router /users/{user_id}/external-sources [post]
func (a *API) upsertExternalSourceHandler(c *gin.Context) {
	var req models.ExternalSourceRequestBody
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondWithError(c, http.StatusBadRequest, models.ErrorCodeInvalidJSON, "Invalid request payload", gin.H{"reason": err.Error()})
		return
	}

	guid, err := a.service.UpsertExternalSource(c.Request.Context(), c.Param("user_id"), req.ExternalSource)
	if err != nil {
		RespondWithServiceError(c, err)
		return
	}
	RespondWithSuccess(c, http.StatusOK, models.GUIDResponse{RelatedHTTPCode: http.StatusOK, GUID: guid})
}

// getExternalSourceHandler godoc
// @Summary Look up an external source
// @Description Returns the GUID of the external source with the qualified name. The guid is empty when the source is not registered.
// @Tags external-sources
// @Produce  json
// @Param   user_id  path  string  true  "Calling user"
// @Param   qualifiedName  query  string  true  "Qualified name of the external source"
// @Success 200 {object} models.GUIDResponse
// @Failure 400 {object} models.APIError "Invalid parameter"
// @Router /users/{user_id}/external-sources/by-name [get]
func (a *API) getExternalSourceHandler(c *gin.Context) {
	guid, err := a.service.GetExternalSource(c.Request.Context(), c.Param("user_id"), c.Query("qualifiedName"))
	if err != nil {
		RespondWithServiceError(c, err)
		return
	}
	RespondWithSuccess(c, http.StatusOK, models.GUIDResponse{RelatedHTTPCode: http.StatusOK, GUID: guid})
}

// removeExternalSourceHandler godoc
// @Summary Remove an external source
// @Description External sources cannot be removed. The request always fails with 501.
// @Tags external-sources
// @Accept  json
// @Produce  json
// @Param   user_id  path  string  true  "Calling user"
// @Param   body  body  models.DeleteRequestBody  false  "Source to remove"
// @Failure 501 {object} models.APIError "Function not supported"
// @Router /users/{user_id}/external-sources [delete]
func (a *API) removeExternalSourceHandler(c *gin.Context) {
	var req models.DeleteRequestBody
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		a.logger.Debug("ignoring unreadable delete body", "error", err)
	}
	// Unknown semantics are passed through; the removal is rejected anyway.
	semantic, err := correlation.ParseDeleteSemantic(req.DeleteSemantic)
	if err != nil {
		semantic = correlation.DeleteSemantic(req.DeleteSemantic)
	}

	err = a.service.RemoveExternalSource(c.Request.Context(), c.Param("user_id"), req.QualifiedName, req.ExternalSourceName, semantic)
	RespondWithServiceError(c, err)
}

// recordProcessingStateHandler godoc
// @Summary Record synchronization checkpoints
// @Description Replaces the processing state classification of the external source. Keys that are not supplied are removed.
// @Tags external-sources
// @Accept  json
// @Produce  json
// @Param   user_id  path  string  true  "Calling user"
// @Param   body  body  models.ProcessingStateRequestBody  true  "Processing state"
// @Success 200 {object} models.VoidResponse
// @Failure 400 {object} models.APIError "Invalid parameter or unregistered source"
// @Failure 403 {object} models.APIError "User not authorized"
// @Failure 500 {object} models.APIError "Repository failure"
// @Router /users/{user_id}/external-sources/processing-state [post]
func (a *API) recordProcessingStateHandler(c *gin.Context) {
	var req models.ProcessingStateRequestBody
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondWithError(c, http.StatusBadRequest, models.ErrorCodeInvalidJSON, "Invalid request payload", gin.H{"reason": err.Error()})
		return
	}

	if err := a.service.RecordProcessingState(c.Request.Context(), c.Param("user_id"), req.ProcessingState, req.ExternalSourceName); err != nil {
		RespondWithServiceError(c, err)
		return
	}
	RespondWithSuccess(c, http.StatusOK, models.VoidResponse{RelatedHTTPCode: http.StatusOK})
}

// getProcessingStateHandler godoc
// @Summary Read synchronization checkpoints
// @Tags external-sources
// @Produce  json
// @Param   user_id  path  string  true  "Calling user"
// @Param   externalSourceName  query  string  true  "Qualified name of the external source"
// @Success 200 {object} models.ProcessingStateResponse
// @Failure 400 {object} models.APIError "Invalid parameter or unregistered source"
// @Router /users/{user_id}/external-sources/processing-state [get]
func (a *API) getProcessingStateHandler(c *gin.Context) {
	state, err := a.service.GetProcessingState(c.Request.Context(), c.Param("user_id"), c.Query("externalSourceName"))
	if err != nil {
		RespondWithServiceError(c, err)
		return
	}
	RespondWithSuccess(c, http.StatusOK, models.ProcessingStateResponse{RelatedHTTPCode: http.StatusOK, ProcessingState: state})
}

// upsertCorrelatedElementHandler godoc
// @Summary Create or update an externally sourced element
// @Description Updates the element correlated with the external identifier, or matches it by qualified name, and remembers the correlation.
// @Tags correlated-elements
// @Accept  json
// @Produce  json
// @Param   user_id  path  string  true  "Calling user"
// @Param   body  body  models.CorrelatedElementRequestBody  true  "Correlation and element properties"
// @Success 200 {object} models.GUIDResponse
// @Failure 400 {object} models.APIError "Invalid parameter or unregistered source"
// @Failure 403 {object} models.APIError "User not authorized"
// @Failure 500 {object} models.APIError "Repository failure"
// @Router /users/{user_id}/correlated-elements [post]
func (a *API) upsertCorrelatedElementHandler(c *gin.Context) {
	var req models.CorrelatedElementRequestBody
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondWithError(c, http.StatusBadRequest, models.ErrorCodeInvalidJSON, "Invalid request payload", gin.H{"reason": err.Error()})
		return
	}

	guid, err := a.service.UpsertCorrelatedElement(c.Request.Context(), c.Param("user_id"), req)
	if err != nil {
		RespondWithServiceError(c, err)
		return
	}
	RespondWithSuccess(c, http.StatusOK, models.GUIDResponse{RelatedHTTPCode: http.StatusOK, GUID: guid})
}

// getCorrelatedElementHandler godoc
// @Summary Look up a correlation
// @Tags correlated-elements
// @Produce  json
// @Param   user_id  path  string  true  "Calling user"
// @Param   externalSourceName  query  string  true  "Qualified name of the external source"
// @Param   externalIdentifier  query  string  true  "Identifier of the element in the external source"
// @Success 200 {object} models.CorrelationResponse
// @Failure 400 {object} models.APIError "Invalid parameter"
// @Router /users/{user_id}/correlated-elements [get]
func (a *API) getCorrelatedElementHandler(c *gin.Context) {
	rec, err := a.service.GetCorrelatedElement(c.Request.Context(), c.Param("user_id"), c.Query("externalSourceName"), c.Query("externalIdentifier"))
	if err != nil {
		RespondWithServiceError(c, err)
		return
	}
	RespondWithSuccess(c, http.StatusOK, models.CorrelationResponse{RelatedHTTPCode: http.StatusOK, Correlation: rec})
}
