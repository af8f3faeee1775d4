package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// EntityRecord is the stored form of a repository entity.
// @Description EntityRecord is an entity held by the metadata repository.
type EntityRecord struct {
	GUID     string `json:"guid" gorm:"type:varchar(36);primaryKey"`
	TypeName string `json:"typeName" gorm:"type:varchar(255);not null;uniqueIndex:idx_entity_type_qualified_name"`
	TypeGUID string `json:"typeGUID" gorm:"type:varchar(36);not null"`
	// QualifiedName mirrors the qualifiedName property so that uniqueness
	// can be enforced by the database. Nil for entities without one.
	QualifiedName *string           `json:"qualifiedName,omitempty" gorm:"type:varchar(1024);uniqueIndex:idx_entity_type_qualified_name"`
	Properties    datatypes.JSONMap `json:"properties"`
	Version       int64             `json:"version" gorm:"not null;default:1"`
	CreatedBy     string            `json:"createdBy" gorm:"type:varchar(255)"`
	UpdatedBy     string            `json:"updatedBy" gorm:"type:varchar(255)"`
	CreatedAt     time.Time         `json:"createTime" gorm:"autoCreateTime"`
	UpdatedAt     time.Time         `json:"updateTime" gorm:"autoUpdateTime"`
}

// TableName overrides the gorm default.
func (EntityRecord) TableName() string { return "entities" }

// BeforeCreate assigns a guid when the caller did not.
func (e *EntityRecord) BeforeCreate(*gorm.DB) error {
	if e.GUID == "" {
		e.GUID = uuid.New().String()
	}
	return nil
}

// ClassificationRecord is a classification attached to an entity. There is
// at most one classification of each type per entity.
type ClassificationRecord struct {
	ID         uint              `json:"-" gorm:"primaryKey"`
	EntityGUID string            `json:"entityGUID" gorm:"type:varchar(36);not null;uniqueIndex:idx_classification_entity_type"`
	TypeName   string            `json:"typeName" gorm:"type:varchar(255);not null;uniqueIndex:idx_classification_entity_type"`
	TypeGUID   string            `json:"typeGUID" gorm:"type:varchar(36);not null"`
	Properties datatypes.JSONMap `json:"properties"`
	UpdatedBy  string            `json:"updatedBy" gorm:"type:varchar(255)"`
	CreatedAt  time.Time         `json:"createTime" gorm:"autoCreateTime"`
	UpdatedAt  time.Time         `json:"updateTime" gorm:"autoUpdateTime"`
}

// TableName overrides the gorm default.
func (ClassificationRecord) TableName() string { return "classifications" }

// CorrelationRecord maps an external identifier to an internal guid.
type CorrelationRecord struct {
	ID                 uint      `json:"-" gorm:"primaryKey"`
	ExternalSourceGUID string    `json:"externalSourceGUID" gorm:"type:varchar(36);not null;uniqueIndex:idx_correlation_source_identifier"`
	ExternalSourceName string    `json:"externalSourceName" gorm:"type:varchar(1024);not null"`
	ExternalIdentifier string    `json:"externalIdentifier" gorm:"type:varchar(1024);not null;uniqueIndex:idx_correlation_source_identifier"`
	InternalGUID       string    `json:"internalGUID" gorm:"type:varchar(36);not null;index"`
	AnchorGUID         string    `json:"anchorGUID,omitempty" gorm:"type:varchar(36)"`
	CreatedAt          time.Time `json:"createTime" gorm:"autoCreateTime"`
	UpdatedAt          time.Time `json:"updateTime" gorm:"autoUpdateTime"`
}

// TableName overrides the gorm default.
func (CorrelationRecord) TableName() string { return "correlations" }

// All lists the models managed by migrations.
func All() []interface{} {
	return []interface{}{&EntityRecord{}, &ClassificationRecord{}, &CorrelationRecord{}}
}
