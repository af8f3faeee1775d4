package correlation

import (
	"context"
	"log/slog"

	"correlation-service/internal/repository"
	"correlation-service/internal/typedefs"
	"correlation-service/internal/validation"
)

// Upserter implements create-or-update keyed by qualified name.
//
// Two concurrent upserts of the same new qualified name may both miss the
// lookup; the repository's uniqueness rule then rejects the second create.
// Concurrent updates of an existing element are last write wins.
type Upserter struct {
	finder    repository.EntityFinder
	writer    repository.EntityWriter
	validator *validation.InvalidParameterHandler
	logger    *slog.Logger
}

// NewUpserter returns an Upserter over the given collaborators.
func NewUpserter(finder repository.EntityFinder, writer repository.EntityWriter, validator *validation.InvalidParameterHandler, logger *slog.Logger) *Upserter {
	return &Upserter{finder: finder, writer: writer, validator: validator, logger: logger}
}

// Upsert creates the element when no element of the type has the qualified
// name, otherwise it updates the existing element in place. Parameters are
// validated before the repository is touched and repository errors are
// returned as is.
func (u *Upserter) Upsert(ctx context.Context, req UpsertRequest) (UpsertResult, error) {
	method := req.MethodName
	if method == "" {
		method = "upsert"
	}
	if err := u.validator.ValidateUserID(req.UserID, method); err != nil {
		return UpsertResult{}, err
	}
	if err := u.validator.ValidateName(req.QualifiedName, typedefs.QualifiedNamePropertyName, method); err != nil {
		return UpsertResult{}, err
	}

	existing, err := u.finder.FindEntityByUniqueName(ctx, req.UserID, req.EntityType, typedefs.QualifiedNamePropertyName, req.QualifiedName)
	if err != nil {
		return UpsertResult{}, err
	}

	props := req.Properties.Clone()
	if props == nil {
		props = repository.NewInstanceProperties()
	}
	props.AddString(typedefs.QualifiedNamePropertyName, req.QualifiedName)

	if existing == nil {
		guid, err := u.writer.CreateEntity(ctx, req.UserID, req.EntityType, props)
		if err != nil {
			return UpsertResult{}, err
		}
		u.logger.Info("created entity", "type", req.EntityType.Name, "qualifiedName", req.QualifiedName, "guid", guid)
		return UpsertResult{GUID: guid, Created: true}, nil
	}

	if err := u.writer.UpdateEntity(ctx, req.UserID, existing.GUID, req.EntityType, props, req.IsMergeUpdate); err != nil {
		return UpsertResult{}, err
	}
	u.logger.Info("updated entity", "type", req.EntityType.Name, "qualifiedName", req.QualifiedName, "guid", existing.GUID, "merge", req.IsMergeUpdate)
	return UpsertResult{GUID: existing.GUID}, nil
}

// FindGUID returns the guid of the element of entityType with the
// qualified name, or "" when there is none. It does not validate.
func (u *Upserter) FindGUID(ctx context.Context, userID string, entityType typedefs.TypeDef, qualifiedName string) (string, error) {
	existing, err := u.finder.FindEntityByUniqueName(ctx, userID, entityType, typedefs.QualifiedNamePropertyName, qualifiedName)
	if err != nil {
		return "", err
	}
	if existing == nil {
		u.logger.Debug("entity not found", "type", entityType.Name, "qualifiedName", qualifiedName)
		return "", nil
	}
	return existing.GUID, nil
}
