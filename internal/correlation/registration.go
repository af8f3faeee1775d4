package correlation

import (
	"context"
	"log/slog"

	"correlation-service/internal/ffdc"
	"correlation-service/internal/typedefs"
	"correlation-service/internal/validation"
)

// RegistrationManager owns the lifecycle of external source entities.
// External sources are created and updated, never removed.
type RegistrationManager struct {
	upserter  *Upserter
	validator *validation.InvalidParameterHandler
	types     typedefs.Registry
	logger    *slog.Logger
}

// NewRegistrationManager returns a manager that stores external sources as
// types.SoftwareServerCapability entities.
func NewRegistrationManager(upserter *Upserter, validator *validation.InvalidParameterHandler, types typedefs.Registry, logger *slog.Logger) *RegistrationManager {
	return &RegistrationManager{upserter: upserter, validator: validator, types: types, logger: logger}
}

// UpsertExternalSource registers the external source or replaces the
// properties of the existing registration, returning its guid either way.
func (m *RegistrationManager) UpsertExternalSource(ctx context.Context, userID string, props ExternalSourceProperties) (string, error) {
	res, err := m.upsert(ctx, userID, props)
	return res.GUID, err
}

func (m *RegistrationManager) upsert(ctx context.Context, userID string, props ExternalSourceProperties) (UpsertResult, error) {
	return m.upserter.Upsert(ctx, UpsertRequest{
		UserID:        userID,
		EntityType:    m.types.SoftwareServerCapability,
		QualifiedName: props.QualifiedName,
		Properties:    props.InstanceProperties(),
		MethodName:    "upsertExternalSource",
	})
}

// GetExternalSource returns the guid of the external source with the
// qualified name, or "" when it is not registered.
func (m *RegistrationManager) GetExternalSource(ctx context.Context, userID, qualifiedName string) (string, error) {
	const method = "getExternalSource"
	if err := m.validator.ValidateUserID(userID, method); err != nil {
		return "", err
	}
	if err := m.validator.ValidateName(qualifiedName, typedefs.QualifiedNamePropertyName, method); err != nil {
		return "", err
	}
	return m.upserter.FindGUID(ctx, userID, m.types.SoftwareServerCapability, qualifiedName)
}

// RemoveExternalSource always fails with a function not supported error.
// Elements owned by an external source are removed by that source.
func (m *RegistrationManager) RemoveExternalSource(_ context.Context, userID, qualifiedName, externalSourceName string, semantic DeleteSemantic) error {
	const method = "removeExternalSource"
	m.logger.Warn("rejected external source removal",
		"user", userID, "qualifiedName", qualifiedName, "externalSource", externalSourceName, "deleteSemantic", string(semantic))
	return ffdc.NewFunctionNotSupported(ffdc.FunctionNotSupported, method, method, qualifiedName).
		WithParameter("deleteSemantic", string(semantic))
}

// resolve returns the guid of a registered external source or an invalid
// parameter error naming parameterName.
func (m *RegistrationManager) resolve(ctx context.Context, userID, qualifiedName, parameterName, method string) (string, error) {
	guid, err := m.upserter.FindGUID(ctx, userID, m.types.SoftwareServerCapability, qualifiedName)
	if err != nil {
		return "", err
	}
	if guid == "" {
		return "", ffdc.NewInvalidParameter(ffdc.ExternalSourceNotRegistered, method, qualifiedName, method).
			WithParameter(parameterName, qualifiedName)
	}
	return guid, nil
}
