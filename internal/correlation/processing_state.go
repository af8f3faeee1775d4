package correlation

import (
	"context"
	"log/slog"

	"correlation-service/internal/ffdc"
	"correlation-service/internal/repository"
	"correlation-service/internal/typedefs"
	"correlation-service/internal/validation"
)

// StateTracker stores synchronization checkpoints as a classification on
// the external source entity.
type StateTracker struct {
	registrations *RegistrationManager
	classifier    repository.ClassificationWriter
	reader        repository.ClassificationReader
	validator     *validation.InvalidParameterHandler
	types         typedefs.Registry
	logger        *slog.Logger
}

// NewStateTracker returns a tracker resolving external sources through
// registrations.
func NewStateTracker(registrations *RegistrationManager, classifier repository.ClassificationWriter, reader repository.ClassificationReader, validator *validation.InvalidParameterHandler, types typedefs.Registry, logger *slog.Logger) *StateTracker {
	return &StateTracker{
		registrations: registrations,
		classifier:    classifier,
		reader:        reader,
		validator:     validator,
		types:         types,
		logger:        logger,
	}
}

// RecordProcessingState replaces the checkpoint classification of the
// external source. Keys absent from state are removed.
func (t *StateTracker) RecordProcessingState(ctx context.Context, userID string, state ProcessingState, externalSourceName string) error {
	const method = "upsertProcessingState"
	if err := t.validator.ValidateUserID(userID, method); err != nil {
		return err
	}
	if err := t.validator.ValidateName(state.QualifiedName, typedefs.QualifiedNamePropertyName, method); err != nil {
		return err
	}
	if err := t.validator.ValidateName(externalSourceName, "externalSourceName", method); err != nil {
		return err
	}

	guid, err := t.registrations.resolve(ctx, userID, externalSourceName, "externalSourceName", method)
	if err != nil {
		return err
	}

	props := repository.NewInstanceProperties().
		AddString(typedefs.QualifiedNamePropertyName, state.QualifiedName).
		AddLongMap(typedefs.SyncDatesByKeyPropertyName, state.SyncDatesByKey)

	if err := t.classifier.SetClassification(ctx, userID, guid, t.types.SoftwareServerCapability, t.types.ProcessingStateClassification, props); err != nil {
		return err
	}
	t.logger.Info("recorded processing state", "externalSource", externalSourceName, "guid", guid, "keys", len(state.SyncDatesByKey))
	return nil
}

// GetProcessingState returns the last recorded checkpoints of the external
// source, or nil when none were recorded.
func (t *StateTracker) GetProcessingState(ctx context.Context, userID, externalSourceName string) (*ProcessingState, error) {
	const method = "getProcessingState"
	if err := t.validator.ValidateUserID(userID, method); err != nil {
		return nil, err
	}
	if err := t.validator.ValidateName(externalSourceName, "externalSourceName", method); err != nil {
		return nil, err
	}

	guid, err := t.registrations.resolve(ctx, userID, externalSourceName, "externalSourceName", method)
	if err != nil {
		return nil, err
	}

	c, err := t.reader.GetClassification(ctx, userID, guid, t.types.ProcessingStateClassification)
	if err != nil || c == nil {
		return nil, err
	}
	dates, err := c.Properties.GetLongMap(typedefs.SyncDatesByKeyPropertyName)
	if err != nil {
		return nil, ffdc.NewPropertyServer(ffdc.RepositoryFailure, method, err, method, err.Error())
	}
	return &ProcessingState{
		QualifiedName:  c.Properties.GetString(typedefs.QualifiedNamePropertyName),
		SyncDatesByKey: SyncDates(dates).Clone(),
	}, nil
}
