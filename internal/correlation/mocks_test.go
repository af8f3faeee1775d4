package correlation

import (
	"context"

	"github.com/stretchr/testify/mock"

	"correlation-service/internal/repository"
	"correlation-service/internal/typedefs"
)

// --- Mock repository ---
type MockRepository struct {
	mock.Mock
}

var _ repository.Repository = (*MockRepository)(nil)

func (m *MockRepository) FindEntityByUniqueName(ctx context.Context, userID string, entityType typedefs.TypeDef, propertyName, exactValue string) (*repository.EntityDetail, error) {
	args := m.Called(ctx, userID, entityType, propertyName, exactValue)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*repository.EntityDetail), args.Error(1)
}

func (m *MockRepository) CreateEntity(ctx context.Context, userID string, entityType typedefs.TypeDef, properties repository.InstanceProperties) (string, error) {
	args := m.Called(ctx, userID, entityType, properties)
	return args.String(0), args.Error(1)
}

func (m *MockRepository) UpdateEntity(ctx context.Context, userID, guid string, entityType typedefs.TypeDef, properties repository.InstanceProperties, isMergeUpdate bool) error {
	args := m.Called(ctx, userID, guid, entityType, properties, isMergeUpdate)
	return args.Error(0)
}

func (m *MockRepository) SetClassification(ctx context.Context, userID, entityGUID string, entityType, classificationType typedefs.TypeDef, properties repository.InstanceProperties) error {
	args := m.Called(ctx, userID, entityGUID, entityType, classificationType, properties)
	return args.Error(0)
}

func (m *MockRepository) GetClassification(ctx context.Context, userID, entityGUID string, classificationType typedefs.TypeDef) (*repository.Classification, error) {
	args := m.Called(ctx, userID, entityGUID, classificationType)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*repository.Classification), args.Error(1)
}

func (m *MockRepository) FindCorrelation(ctx context.Context, userID, externalSourceGUID, externalIdentifier string) (*repository.CorrelationRecord, error) {
	args := m.Called(ctx, userID, externalSourceGUID, externalIdentifier)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*repository.CorrelationRecord), args.Error(1)
}

func (m *MockRepository) SaveCorrelation(ctx context.Context, userID string, record repository.CorrelationRecord) error {
	args := m.Called(ctx, userID, record)
	return args.Error(0)
}

func newMockService(m *MockRepository) *Service {
	return NewService(typedefs.Default(), CollaboratorsFrom(m))
}
