// Package memrepo is an in-memory repository binding used by tests and by
// "serve --in-memory".
package memrepo

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"correlation-service/internal/ffdc"
	"correlation-service/internal/repository"
	"correlation-service/internal/typedefs"
)

type classificationKey struct {
	entityGUID string
	typeName   string
}

type correlationKey struct {
	sourceGUID string
	externalID string
}

// Store keeps entities, classifications and correlation records in maps.
type Store struct {
	entities        map[string]repository.EntityDetail
	classifications map[classificationKey]repository.Classification
	correlations    map[correlationKey]repository.CorrelationRecord
	access          repository.AccessPolicy
	now             func() time.Time
	mu              sync.RWMutex
}

// Option configures a Store.
type Option func(*Store)

// WithAccessPolicy restricts which users may call the store.
func WithAccessPolicy(p repository.AccessPolicy) Option {
	return func(s *Store) { s.access = p }
}

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// NewStore creates and returns a new Store.
func NewStore(opts ...Option) *Store {
	s := &Store{
		entities:        make(map[string]repository.EntityDetail),
		classifications: make(map[classificationKey]repository.Classification),
		correlations:    make(map[correlationKey]repository.CorrelationRecord),
		now:             func() time.Time { return time.Now().UTC() },
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

var _ repository.Repository = (*Store)(nil)

// --- Entity Methods ---

// FindEntityByUniqueName returns the entity of entityType whose property
// exactly equals exactValue.
func (s *Store) FindEntityByUniqueName(ctx context.Context, userID string, entityType typedefs.TypeDef, propertyName, exactValue string) (*repository.EntityDetail, error) {
	const action = "findEntityByUniqueName"
	if err := s.begin(ctx, userID, action); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	var matches []repository.EntityDetail
	for _, e := range s.entities {
		if e.Type.Name != entityType.Name {
			continue
		}
		if e.Properties.GetString(propertyName) == exactValue {
			matches = append(matches, e)
		}
	}
	switch len(matches) {
	case 0:
		return nil, nil
	case 1:
		found := copyEntity(matches[0])
		return &found, nil
	default:
		return nil, ffdc.NewPropertyServer(ffdc.MultipleEntitiesFound, action, nil, entityType.Name, propertyName, exactValue)
	}
}

// GetEntity retrieves an entity by its guid.
func (s *Store) GetEntity(guid string) (repository.EntityDetail, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	e, ok := s.entities[guid]
	if !ok {
		return repository.EntityDetail{}, false
	}
	return copyEntity(e), true
}

// ListEntities returns the entities of the given type ordered by qualified name.
func (s *Store) ListEntities(typeName string) []repository.EntityDetail {
	s.mu.RLock()
	defer s.mu.RUnlock()
	list := make([]repository.EntityDetail, 0, len(s.entities))
	for _, e := range s.entities {
		if typeName == "" || e.Type.Name == typeName {
			list = append(list, copyEntity(e))
		}
	}
	sort.Slice(list, func(i, j int) bool {
		return list[i].Properties.GetString(typedefs.QualifiedNamePropertyName) <
			list[j].Properties.GetString(typedefs.QualifiedNamePropertyName)
	})
	return list
}

// CreateEntity adds a new entity to the store.
func (s *Store) CreateEntity(ctx context.Context, userID string, entityType typedefs.TypeDef, properties repository.InstanceProperties) (string, error) {
	const action = "createEntity"
	if err := s.begin(ctx, userID, action); err != nil {
		return "", err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.checkUniqueName(action, "", entityType.Name, properties); err != nil {
		return "", err
	}

	guid := uuid.New().String()
	now := s.now()
	s.entities[guid] = repository.EntityDetail{
		GUID:       guid,
		Type:       entityType,
		Properties: properties.Clone(),
		Version:    1,
		CreatedBy:  userID,
		UpdatedBy:  userID,
		CreateTime: now,
		UpdateTime: now,
	}
	return guid, nil
}

// UpdateEntity replaces or merges the properties of an existing entity.
func (s *Store) UpdateEntity(ctx context.Context, userID, guid string, entityType typedefs.TypeDef, properties repository.InstanceProperties, isMergeUpdate bool) error {
	const action = "updateEntity"
	if err := s.begin(ctx, userID, action); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.entities[guid]
	if !ok {
		return ffdc.NewPropertyServer(ffdc.EntityNotKnown, action, nil, guid)
	}
	if e.Type.Name != entityType.Name {
		return ffdc.NewPropertyServer(ffdc.EntityTypeMismatch, action, nil, guid, e.Type.Name, entityType.Name)
	}

	next := properties.Clone()
	if isMergeUpdate {
		next = repository.Merge(e.Properties, properties)
	}
	if err := s.checkUniqueName(action, guid, entityType.Name, next); err != nil {
		return err
	}
	e.Properties = next
	e.Version++
	e.UpdatedBy = userID
	e.UpdateTime = s.now()
	s.entities[guid] = e
	return nil
}

// --- Classification Methods ---

// SetClassification attaches or replaces a classification on an entity.
func (s *Store) SetClassification(ctx context.Context, userID, entityGUID string, entityType, classificationType typedefs.TypeDef, properties repository.InstanceProperties) error {
	const action = "setClassification"
	if err := s.begin(ctx, userID, action); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.entities[entityGUID]
	if !ok {
		return ffdc.NewPropertyServer(ffdc.EntityNotKnown, action, nil, entityGUID)
	}
	if e.Type.Name != entityType.Name {
		return ffdc.NewPropertyServer(ffdc.EntityTypeMismatch, action, nil, entityGUID, e.Type.Name, entityType.Name)
	}

	s.classifications[classificationKey{entityGUID, classificationType.Name}] = repository.Classification{
		EntityGUID: entityGUID,
		Type:       classificationType,
		Properties: properties.Clone(),
		UpdatedBy:  userID,
		UpdateTime: s.now(),
	}
	return nil
}

// GetClassification returns the classification of the given type, or nil.
func (s *Store) GetClassification(ctx context.Context, userID, entityGUID string, classificationType typedefs.TypeDef) (*repository.Classification, error) {
	const action = "getClassification"
	if err := s.begin(ctx, userID, action); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	if _, ok := s.entities[entityGUID]; !ok {
		return nil, ffdc.NewPropertyServer(ffdc.EntityNotKnown, action, nil, entityGUID)
	}
	c, ok := s.classifications[classificationKey{entityGUID, classificationType.Name}]
	if !ok {
		return nil, nil
	}
	c.Properties = c.Properties.Clone()
	return &c, nil
}

// --- Correlation Methods ---

// FindCorrelation returns the correlation record for the pair, or nil.
func (s *Store) FindCorrelation(ctx context.Context, userID, externalSourceGUID, externalIdentifier string) (*repository.CorrelationRecord, error) {
	if err := s.begin(ctx, userID, "findCorrelation"); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	rec, ok := s.correlations[correlationKey{externalSourceGUID, externalIdentifier}]
	if !ok {
		return nil, nil
	}
	return &rec, nil
}

// SaveCorrelation inserts or updates the record for the pair.
func (s *Store) SaveCorrelation(ctx context.Context, userID string, record repository.CorrelationRecord) error {
	if err := s.begin(ctx, userID, "saveCorrelation"); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	key := correlationKey{record.ExternalSourceGUID, record.ExternalIdentifier}
	now := s.now()
	if existing, ok := s.correlations[key]; ok {
		existing.InternalGUID = record.InternalGUID
		existing.AnchorGUID = record.AnchorGUID
		existing.ExternalSourceName = record.ExternalSourceName
		existing.UpdateTime = now
		s.correlations[key] = existing
		return nil
	}
	record.CreateTime = now
	record.UpdateTime = now
	s.correlations[key] = record
	return nil
}

// checkUniqueName rejects properties whose qualified name is already held
// by another entity of the type. Callers hold s.mu.
func (s *Store) checkUniqueName(action, guid, typeName string, properties repository.InstanceProperties) error {
	qualifiedName := properties.GetString(typedefs.QualifiedNamePropertyName)
	if qualifiedName == "" {
		return nil
	}
	for other, e := range s.entities {
		if other != guid && e.Type.Name == typeName && e.Properties.GetString(typedefs.QualifiedNamePropertyName) == qualifiedName {
			return ffdc.NewPropertyServer(ffdc.DuplicateQualifiedName, action, nil, typeName, qualifiedName)
		}
	}
	return nil
}

func (s *Store) begin(ctx context.Context, userID, action string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return s.access.Check(userID, action)
}

func copyEntity(e repository.EntityDetail) repository.EntityDetail {
	e.Properties = e.Properties.Clone()
	return e
}
