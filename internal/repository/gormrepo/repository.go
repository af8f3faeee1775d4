// Package gormrepo stores entities, classifications and correlations in a
// relational database through gorm.
package gormrepo

import (
	"context"
	"errors"
	"strings"

	"github.com/lib/pq"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"correlation-service/internal/ffdc"
	"correlation-service/internal/models"
	"correlation-service/internal/repository"
	"correlation-service/internal/typedefs"
)

// PostgreSQL error code for unique_violation.
const uniqueViolation = "23505"

// Repository is the gorm binding of repository.Repository.
type Repository struct {
	db     *gorm.DB
	access repository.AccessPolicy
}

var _ repository.Repository = (*Repository)(nil)

// New returns a repository over db. The schema must already be migrated.
func New(db *gorm.DB, access repository.AccessPolicy) *Repository {
	return &Repository{db: db, access: access}
}

// FindEntityByUniqueName looks the entity up by exact match. The
// qualifiedName property is matched on its indexed column; other
// properties are compared after loading the entities of the type.
func (r *Repository) FindEntityByUniqueName(ctx context.Context, userID string, entityType typedefs.TypeDef, propertyName, exactValue string) (*repository.EntityDetail, error) {
	const action = "findEntityByUniqueName"
	if err := r.access.Check(userID, action); err != nil {
		return nil, err
	}

	var rows []models.EntityRecord
	q := r.db.WithContext(ctx).Where("type_name = ?", entityType.Name)
	if propertyName == typedefs.QualifiedNamePropertyName {
		q = q.Where("qualified_name = ?", exactValue).Limit(2)
	}
	if err := q.Find(&rows).Error; err != nil {
		return nil, ffdc.Wrap(err, action)
	}

	var matches []models.EntityRecord
	for _, row := range rows {
		if repository.InstanceProperties(row.Properties).GetString(propertyName) == exactValue {
			matches = append(matches, row)
		}
	}
	switch len(matches) {
	case 0:
		return nil, nil
	case 1:
		e := toEntityDetail(matches[0])
		return &e, nil
	default:
		return nil, ffdc.NewPropertyServer(ffdc.MultipleEntitiesFound, action, nil, entityType.Name, propertyName, exactValue)
	}
}

// CreateEntity inserts a new entity and returns its guid.
func (r *Repository) CreateEntity(ctx context.Context, userID string, entityType typedefs.TypeDef, properties repository.InstanceProperties) (string, error) {
	const action = "createEntity"
	if err := r.access.Check(userID, action); err != nil {
		return "", err
	}

	qualifiedName := properties.GetString(typedefs.QualifiedNamePropertyName)
	row := models.EntityRecord{
		TypeName:      entityType.Name,
		TypeGUID:      entityType.GUID,
		QualifiedName: nullable(qualifiedName),
		Properties:    datatypes.JSONMap(properties.Clone()),
		Version:       1,
		CreatedBy:     userID,
		UpdatedBy:     userID,
	}
	if err := r.db.WithContext(ctx).Create(&row).Error; err != nil {
		if isUniqueViolation(err) {
			return "", ffdc.NewPropertyServer(ffdc.DuplicateQualifiedName, action, err, entityType.Name, qualifiedName)
		}
		return "", ffdc.Wrap(err, action)
	}
	return row.GUID, nil
}

// UpdateEntity replaces or merges the properties of an entity and bumps
// its version.
func (r *Repository) UpdateEntity(ctx context.Context, userID, guid string, entityType typedefs.TypeDef, properties repository.InstanceProperties, isMergeUpdate bool) error {
	const action = "updateEntity"
	if err := r.access.Check(userID, action); err != nil {
		return err
	}

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		row, err := loadEntity(tx, guid, entityType, action)
		if err != nil {
			return err
		}

		props := properties.Clone()
		if isMergeUpdate {
			props = repository.Merge(repository.InstanceProperties(row.Properties), properties)
		}
		if props == nil {
			props = repository.NewInstanceProperties()
		}
		qualifiedName := props.GetString(typedefs.QualifiedNamePropertyName)

		err = tx.Model(&row).Updates(map[string]interface{}{
			"properties":     datatypes.JSONMap(props),
			"qualified_name": nullable(qualifiedName),
			"version":        gorm.Expr("version + ?", 1),
			"updated_by":     userID,
		}).Error
		if err != nil {
			if isUniqueViolation(err) {
				return ffdc.NewPropertyServer(ffdc.DuplicateQualifiedName, action, err, entityType.Name, qualifiedName)
			}
			return ffdc.Wrap(err, action)
		}
		return nil
	})
}

// SetClassification inserts the classification or replaces all properties
// of the existing one.
func (r *Repository) SetClassification(ctx context.Context, userID, entityGUID string, entityType, classificationType typedefs.TypeDef, properties repository.InstanceProperties) error {
	const action = "setClassification"
	if err := r.access.Check(userID, action); err != nil {
		return err
	}

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := loadEntity(tx, entityGUID, entityType, action); err != nil {
			return err
		}
		rec := models.ClassificationRecord{
			EntityGUID: entityGUID,
			TypeName:   classificationType.Name,
			TypeGUID:   classificationType.GUID,
			Properties: datatypes.JSONMap(properties.Clone()),
			UpdatedBy:  userID,
		}
		err := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "entity_guid"}, {Name: "type_name"}},
			DoUpdates: clause.AssignmentColumns([]string{"type_guid", "properties", "updated_by", "updated_at"}),
		}).Create(&rec).Error
		if err != nil {
			return ffdc.Wrap(err, action)
		}
		return nil
	})
}

// GetClassification returns the classification of the given type, or nil.
func (r *Repository) GetClassification(ctx context.Context, userID, entityGUID string, classificationType typedefs.TypeDef) (*repository.Classification, error) {
	const action = "getClassification"
	if err := r.access.Check(userID, action); err != nil {
		return nil, err
	}

	db := r.db.WithContext(ctx)
	var count int64
	if err := db.Model(&models.EntityRecord{}).Where("guid = ?", entityGUID).Count(&count).Error; err != nil {
		return nil, ffdc.Wrap(err, action)
	}
	if count == 0 {
		return nil, ffdc.NewPropertyServer(ffdc.EntityNotKnown, action, nil, entityGUID)
	}

	var rows []models.ClassificationRecord
	err := db.Where("entity_guid = ? AND type_name = ?", entityGUID, classificationType.Name).Limit(1).Find(&rows).Error
	if err != nil {
		return nil, ffdc.Wrap(err, action)
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return &repository.Classification{
		EntityGUID: rows[0].EntityGUID,
		Type:       typedefs.TypeDef{GUID: rows[0].TypeGUID, Name: rows[0].TypeName},
		Properties: repository.InstanceProperties(rows[0].Properties),
		UpdatedBy:  rows[0].UpdatedBy,
		UpdateTime: rows[0].UpdatedAt,
	}, nil
}

// FindCorrelation returns the correlation record for the pair, or nil.
func (r *Repository) FindCorrelation(ctx context.Context, userID, externalSourceGUID, externalIdentifier string) (*repository.CorrelationRecord, error) {
	const action = "findCorrelation"
	if err := r.access.Check(userID, action); err != nil {
		return nil, err
	}

	var rows []models.CorrelationRecord
	err := r.db.WithContext(ctx).
		Where("external_source_guid = ? AND external_identifier = ?", externalSourceGUID, externalIdentifier).
		Limit(1).Find(&rows).Error
	if err != nil {
		return nil, ffdc.Wrap(err, action)
	}
	if len(rows) == 0 {
		return nil, nil
	}
	rec := toCorrelation(rows[0])
	return &rec, nil
}

// SaveCorrelation inserts the record or updates the guids of the existing
// record for the pair.
func (r *Repository) SaveCorrelation(ctx context.Context, userID string, record repository.CorrelationRecord) error {
	const action = "saveCorrelation"
	if err := r.access.Check(userID, action); err != nil {
		return err
	}

	row := models.CorrelationRecord{
		ExternalSourceGUID: record.ExternalSourceGUID,
		ExternalSourceName: record.ExternalSourceName,
		ExternalIdentifier: record.ExternalIdentifier,
		InternalGUID:       record.InternalGUID,
		AnchorGUID:         record.AnchorGUID,
	}
	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "external_source_guid"}, {Name: "external_identifier"}},
		DoUpdates: clause.AssignmentColumns([]string{"external_source_name", "internal_guid", "anchor_guid", "updated_at"}),
	}).Create(&row).Error
	if err != nil {
		return ffdc.Wrap(err, action)
	}
	return nil
}

func loadEntity(tx *gorm.DB, guid string, entityType typedefs.TypeDef, action string) (models.EntityRecord, error) {
	var row models.EntityRecord
	if err := tx.Where("guid = ?", guid).First(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return row, ffdc.NewPropertyServer(ffdc.EntityNotKnown, action, nil, guid)
		}
		return row, ffdc.Wrap(err, action)
	}
	if row.TypeName != entityType.Name {
		return row, ffdc.NewPropertyServer(ffdc.EntityTypeMismatch, action, nil, guid, row.TypeName, entityType.Name)
	}
	return row, nil
}

func isUniqueViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == uniqueViolation
	}
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}

func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func toEntityDetail(row models.EntityRecord) repository.EntityDetail {
	return repository.EntityDetail{
		GUID:       row.GUID,
		Type:       typedefs.TypeDef{GUID: row.TypeGUID, Name: row.TypeName},
		Properties: repository.InstanceProperties(row.Properties),
		Version:    row.Version,
		CreatedBy:  row.CreatedBy,
		UpdatedBy:  row.UpdatedBy,
		CreateTime: row.CreatedAt,
		UpdateTime: row.UpdatedAt,
	}
}

func toCorrelation(row models.CorrelationRecord) repository.CorrelationRecord {
	return repository.CorrelationRecord{
		ExternalSourceGUID: row.ExternalSourceGUID,
		ExternalSourceName: row.ExternalSourceName,
		ExternalIdentifier: row.ExternalIdentifier,
		InternalGUID:       row.InternalGUID,
		AnchorGUID:         row.AnchorGUID,
		CreateTime:         row.CreatedAt,
		UpdateTime:         row.UpdatedAt,
	}
}
