package models

import (
	"correlation-service/internal/correlation"
	"correlation-service/internal/repository"
)

// ExternalSourceRequestBody registers or updates an external source.
type ExternalSourceRequestBody struct {
	ExternalSource correlation.ExternalSourceProperties `json:"externalSource"`
}

// DeleteRequestBody asks for an external source to be removed.
type DeleteRequestBody struct {
	QualifiedName      string `json:"qualifiedName"`
	ExternalSourceName string `json:"externalSourceName"`
	DeleteSemantic     string `json:"deleteSemantic,omitempty"`
}

// ProcessingStateRequestBody records synchronization checkpoints.
type ProcessingStateRequestBody struct {
	ExternalSourceName string                      `json:"externalSourceName"`
	ProcessingState    correlation.ProcessingState `json:"processingState"`
}

// CorrelatedElementRequestBody creates or updates an externally sourced
// element.
type CorrelatedElementRequestBody = correlation.CorrelatedElementRequest

// VoidResponse is returned by operations without a result.
type VoidResponse struct {
	RelatedHTTPCode int `json:"relatedHTTPCode"`
}

// GUIDResponse carries the guid of an element. The guid is empty when the
// element does not exist.
type GUIDResponse struct {
	RelatedHTTPCode int    `json:"relatedHTTPCode"`
	GUID            string `json:"guid"`
}

// ProcessingStateResponse carries the recorded checkpoints, if any.
type ProcessingStateResponse struct {
	RelatedHTTPCode int                          `json:"relatedHTTPCode"`
	ProcessingState *correlation.ProcessingState `json:"processingState,omitempty"`
}

// CorrelationResponse carries a correlation record, if any.
type CorrelationResponse struct {
	RelatedHTTPCode int                           `json:"relatedHTTPCode"`
	Correlation     *repository.CorrelationRecord `json:"correlation,omitempty"`
}
