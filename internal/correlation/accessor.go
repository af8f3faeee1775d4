package correlation

import (
	"context"

	"correlation-service/internal/repository"
	"correlation-service/internal/validation"
)

// CorrelationAccessor reads and writes the mapping from external
// identifiers to internal guids.
type CorrelationAccessor struct {
	store     repository.CorrelationStore
	validator *validation.InvalidParameterHandler
}

// NewCorrelationAccessor returns an accessor over store.
func NewCorrelationAccessor(store repository.CorrelationStore, validator *validation.InvalidParameterHandler) *CorrelationAccessor {
	return &CorrelationAccessor{store: store, validator: validator}
}

// Find returns the record for the external identifier in the source, or
// nil when it has not been correlated.
func (a *CorrelationAccessor) Find(ctx context.Context, userID, externalSourceGUID, externalIdentifier string) (*repository.CorrelationRecord, error) {
	return a.store.FindCorrelation(ctx, userID, externalSourceGUID, externalIdentifier)
}

// Record remembers that the external identifier maps to rec.InternalGUID.
func (a *CorrelationAccessor) Record(ctx context.Context, userID string, rec repository.CorrelationRecord) error {
	const method = "saveCorrelation"
	if err := a.validator.ValidateGUID(rec.ExternalSourceGUID, "externalSourceGUID", method); err != nil {
		return err
	}
	if err := a.validator.ValidateGUID(rec.InternalGUID, "internalGUID", method); err != nil {
		return err
	}
	return a.store.SaveCorrelation(ctx, userID, rec)
}
