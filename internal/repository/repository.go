// Package repository declares the collaborator contracts the correlation
// core consumes. Bindings live in the memrepo and gormrepo sub-packages.
//
// The contracts are deliberately narrow: exact-match lookup, entity
// mutation and classification mutation can each be replaced on their own
// in tests.
package repository

import (
	"context"
	"time"

	"correlation-service/internal/typedefs"
)

// EntityDetail is an entity as stored in the repository.
type EntityDetail struct {
	GUID       string
	Type       typedefs.TypeDef
	Properties InstanceProperties
	Version    int64
	CreatedBy  string
	UpdatedBy  string
	CreateTime time.Time
	UpdateTime time.Time
}

// Classification is a typed property bundle attached to an entity.
type Classification struct {
	EntityGUID string
	Type       typedefs.TypeDef
	Properties InstanceProperties
	UpdatedBy  string
	UpdateTime time.Time
}

// CorrelationRecord maps an external element identifier to the internal
// guid of the element, scoped by the external source.
type CorrelationRecord struct {
	ExternalSourceGUID string    `json:"externalSourceGUID"`
	ExternalSourceName string    `json:"externalSourceName"`
	ExternalIdentifier string    `json:"externalIdentifier"`
	InternalGUID       string    `json:"internalGUID"`
	AnchorGUID         string    `json:"anchorGUID,omitempty"`
	CreateTime         time.Time `json:"createTime"`
	UpdateTime         time.Time `json:"updateTime"`
}

// EntityFinder performs exact-match lookups on a unique property.
type EntityFinder interface {
	// FindEntityByUniqueName returns the single entity of entityType whose
	// propertyName equals exactValue, or nil when there is none.
	FindEntityByUniqueName(ctx context.Context, userID string, entityType typedefs.TypeDef, propertyName, exactValue string) (*EntityDetail, error)
}

// EntityWriter creates and updates entities.
type EntityWriter interface {
	// CreateEntity stores a new entity and returns its assigned guid.
	CreateEntity(ctx context.Context, userID string, entityType typedefs.TypeDef, properties InstanceProperties) (string, error)

	// UpdateEntity replaces the properties of an existing entity. When
	// isMergeUpdate is set, properties not supplied keep their stored value;
	// otherwise they are cleared.
	UpdateEntity(ctx context.Context, userID, guid string, entityType typedefs.TypeDef, properties InstanceProperties, isMergeUpdate bool) error
}

// ClassificationWriter attaches classifications to entities.
type ClassificationWriter interface {
	// SetClassification attaches the classification to the entity,
	// replacing the full property set of any existing classification of
	// the same type.
	SetClassification(ctx context.Context, userID, entityGUID string, entityType, classificationType typedefs.TypeDef, properties InstanceProperties) error
}

// ClassificationReader reads classifications back.
type ClassificationReader interface {
	// GetClassification returns the classification of the given type on
	// the entity, or nil when it is not classified.
	GetClassification(ctx context.Context, userID, entityGUID string, classificationType typedefs.TypeDef) (*Classification, error)
}

// CorrelationStore persists correlation records.
type CorrelationStore interface {
	// FindCorrelation returns the record for the pair, or nil.
	FindCorrelation(ctx context.Context, userID, externalSourceGUID, externalIdentifier string) (*CorrelationRecord, error)

	// SaveCorrelation inserts the record, or updates the internal and
	// anchor guids of the existing record for the same pair.
	SaveCorrelation(ctx context.Context, userID string, record CorrelationRecord) error
}

// Repository is implemented by complete bindings.
type Repository interface {
	EntityFinder
	EntityWriter
	ClassificationWriter
	ClassificationReader
	CorrelationStore
}
