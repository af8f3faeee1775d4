// Package correlation reconciles elements owned by external systems with
// the entities held in a metadata repository.
//
// It keeps a stable mapping from external identifiers to repository guids,
// performs idempotent upserts keyed by qualified name and records
// per-key synchronization checkpoints. All operations are synchronous and
// hold no state between calls; concurrency safety is the repository
// binding's concern.
package correlation

import (
	"context"
	"io"
	"log/slog"

	"correlation-service/internal/ffdc"
	"correlation-service/internal/repository"
	"correlation-service/internal/typedefs"
	"correlation-service/internal/validation"
)

// Collaborators are the repository capabilities the service consumes.
type Collaborators struct {
	Finder               repository.EntityFinder
	Writer               repository.EntityWriter
	Classifier           repository.ClassificationWriter
	ClassificationReader repository.ClassificationReader
	Correlations         repository.CorrelationStore
}

// CollaboratorsFrom uses one repository for every capability.
func CollaboratorsFrom(repo repository.Repository) Collaborators {
	return Collaborators{
		Finder:               repo,
		Writer:               repo,
		Classifier:           repo,
		ClassificationReader: repo,
		Correlations:         repo,
	}
}

// Option configures a Service.
type Option func(*options)

type options struct {
	logger    *slog.Logger
	validator *validation.InvalidParameterHandler
}

// WithLogger sets the logger. The default discards output.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) { o.logger = l }
}

// WithInvalidParameterHandler replaces the default parameter validation.
func WithInvalidParameterHandler(h *validation.InvalidParameterHandler) Option {
	return func(o *options) { o.validator = h }
}

// Service is the entry point used by the transport and the scheduler.
type Service struct {
	upserter      *Upserter
	registrations *RegistrationManager
	tracker       *StateTracker
	correlations  *CorrelationAccessor
	validator     *validation.InvalidParameterHandler
	types         typedefs.Registry
	logger        *slog.Logger
}

// NewService wires the components over the collaborators.
func NewService(types typedefs.Registry, c Collaborators, opts ...Option) *Service {
	o := options{}
	for _, opt := range opts {
		opt(&o)
	}
	if o.logger == nil {
		o.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if o.validator == nil {
		o.validator = validation.NewInvalidParameterHandler()
	}
	logger := o.logger.With("component", "correlation")

	upserter := NewUpserter(c.Finder, c.Writer, o.validator, logger)
	registrations := NewRegistrationManager(upserter, o.validator, types, logger)
	return &Service{
		upserter:      upserter,
		registrations: registrations,
		tracker:       NewStateTracker(registrations, c.Classifier, c.ClassificationReader, o.validator, types, logger),
		correlations:  NewCorrelationAccessor(c.Correlations, o.validator),
		validator:     o.validator,
		types:         types,
		logger:        logger,
	}
}

// UpsertExternalSource registers or updates an external source and returns
// its guid.
func (s *Service) UpsertExternalSource(ctx context.Context, userID string, props ExternalSourceProperties) (string, error) {
	return s.registrations.UpsertExternalSource(ctx, userID, props)
}

// UpsertExternalSourceResult is UpsertExternalSource reporting whether the
// source was created.
func (s *Service) UpsertExternalSourceResult(ctx context.Context, userID string, props ExternalSourceProperties) (UpsertResult, error) {
	return s.registrations.upsert(ctx, userID, props)
}

// GetExternalSource returns the guid of the external source or "".
func (s *Service) GetExternalSource(ctx context.Context, userID, qualifiedName string) (string, error) {
	return s.registrations.GetExternalSource(ctx, userID, qualifiedName)
}

// RemoveExternalSource is not supported and always returns an error.
func (s *Service) RemoveExternalSource(ctx context.Context, userID, qualifiedName, externalSourceName string, semantic DeleteSemantic) error {
	return s.registrations.RemoveExternalSource(ctx, userID, qualifiedName, externalSourceName, semantic)
}

// RecordProcessingState replaces the checkpoints of the external source.
func (s *Service) RecordProcessingState(ctx context.Context, userID string, state ProcessingState, externalSourceName string) error {
	return s.tracker.RecordProcessingState(ctx, userID, state, externalSourceName)
}

// GetProcessingState returns the checkpoints of the external source, or
// nil.
func (s *Service) GetProcessingState(ctx context.Context, userID, externalSourceName string) (*ProcessingState, error) {
	return s.tracker.GetProcessingState(ctx, userID, externalSourceName)
}

// UpsertCorrelatedElement creates or updates an element owned by an
// external source and remembers its external identifier. A known
// identifier updates the correlated element; otherwise the element is
// matched by qualified name.
func (s *Service) UpsertCorrelatedElement(ctx context.Context, userID string, req CorrelatedElementRequest) (string, error) {
	const method = "upsertCorrelatedElement"
	if err := s.validator.ValidateUserID(userID, method); err != nil {
		return "", err
	}
	if err := s.validator.ValidateName(req.Correlation.ExternalSourceName, "externalSourceName", method); err != nil {
		return "", err
	}
	if err := s.validator.ValidateName(req.Correlation.ExternalIdentifier, "externalIdentifier", method); err != nil {
		return "", err
	}
	if err := s.validator.ValidateName(req.Element.TypeName, "typeName", method); err != nil {
		return "", err
	}
	if err := s.validator.ValidateName(req.Element.QualifiedName, typedefs.QualifiedNamePropertyName, method); err != nil {
		return "", err
	}
	entityType, ok := s.types.EntityType(req.Element.TypeName)
	if !ok {
		return "", ffdc.NewInvalidParameter(ffdc.UnknownType, method, req.Element.TypeName, method).
			WithParameter("typeName", req.Element.TypeName)
	}

	sourceGUID, err := s.registrations.resolve(ctx, userID, req.Correlation.ExternalSourceName, "externalSourceName", method)
	if err != nil {
		return "", err
	}

	existing, err := s.correlations.Find(ctx, userID, sourceGUID, req.Correlation.ExternalIdentifier)
	if err != nil {
		return "", err
	}

	props := req.Element.InstanceProperties()
	var guid string
	if existing != nil {
		if err := s.upserter.writer.UpdateEntity(ctx, userID, existing.InternalGUID, entityType, props, req.IsMergeUpdate); err != nil {
			return "", err
		}
		s.logger.Info("updated correlated element",
			"externalSource", req.Correlation.ExternalSourceName, "externalIdentifier", req.Correlation.ExternalIdentifier, "guid", existing.InternalGUID)
		if existing.AnchorGUID == req.AnchorGUID {
			return existing.InternalGUID, nil
		}
		guid = existing.InternalGUID
	} else {
		res, err := s.upserter.Upsert(ctx, UpsertRequest{
			UserID:        userID,
			EntityType:    entityType,
			QualifiedName: req.Element.QualifiedName,
			Properties:    props,
			IsMergeUpdate: req.IsMergeUpdate,
			MethodName:    method,
		})
		if err != nil {
			return "", err
		}
		guid = res.GUID
	}

	err = s.correlations.Record(ctx, userID, repository.CorrelationRecord{
		ExternalSourceGUID: sourceGUID,
		ExternalSourceName: req.Correlation.ExternalSourceName,
		ExternalIdentifier: req.Correlation.ExternalIdentifier,
		InternalGUID:       guid,
		AnchorGUID:         req.AnchorGUID,
	})
	if err != nil {
		return "", err
	}
	return guid, nil
}

// GetCorrelatedElement returns the correlation of the external identifier,
// or nil when the source or the identifier is unknown.
func (s *Service) GetCorrelatedElement(ctx context.Context, userID, externalSourceName, externalIdentifier string) (*repository.CorrelationRecord, error) {
	const method = "getCorrelatedElement"
	if err := s.validator.ValidateUserID(userID, method); err != nil {
		return nil, err
	}
	if err := s.validator.ValidateName(externalSourceName, "externalSourceName", method); err != nil {
		return nil, err
	}
	if err := s.validator.ValidateName(externalIdentifier, "externalIdentifier", method); err != nil {
		return nil, err
	}

	sourceGUID, err := s.upserter.FindGUID(ctx, userID, s.types.SoftwareServerCapability, externalSourceName)
	if err != nil || sourceGUID == "" {
		return nil, err
	}
	return s.correlations.Find(ctx, userID, sourceGUID, externalIdentifier)
}

// Types returns the type table the service was built with.
func (s *Service) Types() typedefs.Registry {
	return s.types
}
