package tracing

import (
	"context"
	"errors"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"correlation-service/internal/ffdc"
	"correlation-service/internal/repository"
	"correlation-service/internal/typedefs"
)

// Span and attribute names.
const (
	SpanPrefixRepository = "repository."

	AttrUserID        = "repository.user_id"
	AttrTypeName      = "repository.type_name"
	AttrGUID          = "repository.guid"
	AttrQualifiedName = "repository.qualified_name"
	AttrFound         = "repository.found"
	AttrMerge         = "repository.merge_update"
	AttrErrorKind     = "repository.error_kind"
	AttrErrorCode     = "repository.error_code"
)

// Repository records a span around every call to the wrapped repository.
type Repository struct {
	next   repository.Repository
	tracer trace.Tracer
}

// WrapRepository decorates next. A nil tracer returns next unchanged.
func WrapRepository(next repository.Repository, tracer trace.Tracer) repository.Repository {
	if tracer == nil {
		return next
	}
	return &Repository{next: next, tracer: tracer}
}

func (r *Repository) start(ctx context.Context, op, userID string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	ctx, span := r.tracer.Start(ctx, SpanPrefixRepository+op, trace.WithSpanKind(trace.SpanKindClient))
	span.SetAttributes(attribute.String(AttrUserID, userID))
	span.SetAttributes(attrs...)
	return ctx, span
}

func finish(span trace.Span, err error) {
	defer span.End()
	if err == nil {
		span.SetStatus(codes.Ok, "")
		return
	}
	if kind, ok := ffdc.KindOf(err); ok {
		span.SetAttributes(attribute.String(AttrErrorKind, kind.String()))
	}
	var fe *ffdc.Error
	if errors.As(err, &fe) {
		span.SetAttributes(attribute.String(AttrErrorCode, fe.Code.ID))
	}
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
}

func (r *Repository) FindEntityByUniqueName(ctx context.Context, userID string, entityType typedefs.TypeDef, propertyName, exactValue string) (*repository.EntityDetail, error) {
	ctx, span := r.start(ctx, "find_entity_by_unique_name", userID,
		attribute.String(AttrTypeName, entityType.Name),
		attribute.String(AttrQualifiedName, exactValue))
	e, err := r.next.FindEntityByUniqueName(ctx, userID, entityType, propertyName, exactValue)
	span.SetAttributes(attribute.Bool(AttrFound, e != nil))
	finish(span, err)
	return e, err
}

func (r *Repository) CreateEntity(ctx context.Context, userID string, entityType typedefs.TypeDef, properties repository.InstanceProperties) (string, error) {
	ctx, span := r.start(ctx, "create_entity", userID,
		attribute.String(AttrTypeName, entityType.Name),
		attribute.String(AttrQualifiedName, properties.GetString(typedefs.QualifiedNamePropertyName)))
	guid, err := r.next.CreateEntity(ctx, userID, entityType, properties)
	span.SetAttributes(attribute.String(AttrGUID, guid))
	finish(span, err)
	return guid, err
}

func (r *Repository) UpdateEntity(ctx context.Context, userID, guid string, entityType typedefs.TypeDef, properties repository.InstanceProperties, isMergeUpdate bool) error {
	ctx, span := r.start(ctx, "update_entity", userID,
		attribute.String(AttrTypeName, entityType.Name),
		attribute.String(AttrGUID, guid),
		attribute.Bool(AttrMerge, isMergeUpdate))
	err := r.next.UpdateEntity(ctx, userID, guid, entityType, properties, isMergeUpdate)
	finish(span, err)
	return err
}

func (r *Repository) SetClassification(ctx context.Context, userID, entityGUID string, entityType, classificationType typedefs.TypeDef, properties repository.InstanceProperties) error {
	ctx, span := r.start(ctx, "set_classification", userID,
		attribute.String(AttrTypeName, classificationType.Name),
		attribute.String(AttrGUID, entityGUID))
	err := r.next.SetClassification(ctx, userID, entityGUID, entityType, classificationType, properties)
	finish(span, err)
	return err
}

func (r *Repository) GetClassification(ctx context.Context, userID, entityGUID string, classificationType typedefs.TypeDef) (*repository.Classification, error) {
	ctx, span := r.start(ctx, "get_classification", userID,
		attribute.String(AttrTypeName, classificationType.Name),
		attribute.String(AttrGUID, entityGUID))
	c, err := r.next.GetClassification(ctx, userID, entityGUID, classificationType)
	span.SetAttributes(attribute.Bool(AttrFound, c != nil))
	finish(span, err)
	return c, err
}

func (r *Repository) FindCorrelation(ctx context.Context, userID, externalSourceGUID, externalIdentifier string) (*repository.CorrelationRecord, error) {
	ctx, span := r.start(ctx, "find_correlation", userID, attribute.String(AttrGUID, externalSourceGUID))
	rec, err := r.next.FindCorrelation(ctx, userID, externalSourceGUID, externalIdentifier)
	span.SetAttributes(attribute.Bool(AttrFound, rec != nil))
	finish(span, err)
	return rec, err
}

func (r *Repository) SaveCorrelation(ctx context.Context, userID string, record repository.CorrelationRecord) error {
	ctx, span := r.start(ctx, "save_correlation", userID, attribute.String(AttrGUID, record.InternalGUID))
	err := r.next.SaveCorrelation(ctx, userID, record)
	finish(span, err)
	return err
}
