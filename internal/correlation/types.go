package correlation

import (
	"fmt"
	"strings"

	"correlation-service/internal/repository"
	"correlation-service/internal/typedefs"
)

// ExternalSourceProperties describes the software server capability that
// represents an external system such as a data engine.
type ExternalSourceProperties struct {
	QualifiedName        string            `json:"qualifiedName" yaml:"qualifiedName"`
	Name                 string            `json:"name,omitempty" yaml:"name,omitempty"`
	Description          string            `json:"description,omitempty" yaml:"description,omitempty"`
	EngineType           string            `json:"engineType,omitempty" yaml:"engineType,omitempty"`
	EngineVersion        string            `json:"engineVersion,omitempty" yaml:"engineVersion,omitempty"`
	PatchLevel           string            `json:"patchLevel,omitempty" yaml:"patchLevel,omitempty"`
	Source               string            `json:"source,omitempty" yaml:"source,omitempty"`
	AdditionalProperties map[string]string `json:"additionalProperties,omitempty" yaml:"additionalProperties,omitempty"`
}

// InstanceProperties converts the properties into their repository form.
func (p ExternalSourceProperties) InstanceProperties() repository.InstanceProperties {
	return repository.NewInstanceProperties().
		AddString(typedefs.QualifiedNamePropertyName, p.QualifiedName).
		AddString(typedefs.NamePropertyName, p.Name).
		AddString(typedefs.DescriptionPropertyName, p.Description).
		AddString(typedefs.CapabilityTypePropertyName, p.EngineType).
		AddString(typedefs.CapabilityVersionPropertyName, p.EngineVersion).
		AddString(typedefs.PatchLevelPropertyName, p.PatchLevel).
		AddString(typedefs.SourcePropertyName, p.Source).
		AddStringMap(typedefs.AdditionalPropertiesPropertyName, p.AdditionalProperties)
}

// SyncDates maps a synchronization key to the time, in milliseconds since
// the epoch, that the key was last synchronized.
type SyncDates map[string]int64

// Clone returns an independent copy. The copy of a nil map is an empty map.
func (d SyncDates) Clone() SyncDates {
	out := make(SyncDates, len(d))
	for k, v := range d {
		out[k] = v
	}
	return out
}

// With returns a copy of d with key set to at.
func (d SyncDates) With(key string, at int64) SyncDates {
	out := d.Clone()
	out[key] = at
	return out
}

// ProcessingState is the checkpoint record stored on an external source.
// Recording a state replaces the previous one entirely; keys missing from
// SyncDatesByKey are dropped.
type ProcessingState struct {
	QualifiedName  string    `json:"qualifiedName" yaml:"qualifiedName"`
	SyncDatesByKey SyncDates `json:"syncDatesByKey" yaml:"syncDatesByKey"`
}

// DeleteSemantic names the kind of removal a caller asked for.
type DeleteSemantic string

const (
	DeleteSoft    DeleteSemantic = "SOFT"
	DeleteHard    DeleteSemantic = "HARD"
	DeleteMemento DeleteSemantic = "MEMENTO"
)

// ParseDeleteSemantic accepts a semantic name in any case. An empty string
// means SOFT.
func ParseDeleteSemantic(s string) (DeleteSemantic, error) {
	switch d := DeleteSemantic(strings.ToUpper(strings.TrimSpace(s))); d {
	case "":
		return DeleteSoft, nil
	case DeleteSoft, DeleteHard, DeleteMemento:
		return d, nil
	default:
		return "", fmt.Errorf("unknown delete semantic %q", s)
	}
}

// UpsertRequest is the input of the generic create-or-update protocol.
type UpsertRequest struct {
	UserID        string
	EntityType    typedefs.TypeDef
	QualifiedName string
	Properties    repository.InstanceProperties
	// IsMergeUpdate keeps stored properties that Properties omits. When
	// false, omitted properties are cleared on update.
	IsMergeUpdate bool
	MethodName    string
}

// UpsertResult reports the guid of the element and which branch was taken.
type UpsertResult struct {
	GUID    string
	Created bool
}

// MetadataCorrelationProperties identifies an element in an external
// source.
type MetadataCorrelationProperties struct {
	ExternalSourceName string `json:"externalSourceName" yaml:"externalSourceName"`
	ExternalIdentifier string `json:"externalIdentifier" yaml:"externalIdentifier"`
}

// ElementProperties are the properties of an externally sourced element.
type ElementProperties struct {
	TypeName             string            `json:"typeName" yaml:"typeName"`
	QualifiedName        string            `json:"qualifiedName" yaml:"qualifiedName"`
	DisplayName          string            `json:"displayName,omitempty" yaml:"displayName,omitempty"`
	Description          string            `json:"description,omitempty" yaml:"description,omitempty"`
	AdditionalProperties map[string]string `json:"additionalProperties,omitempty" yaml:"additionalProperties,omitempty"`
}

// InstanceProperties converts the properties into their repository form.
func (p ElementProperties) InstanceProperties() repository.InstanceProperties {
	return repository.NewInstanceProperties().
		AddString(typedefs.QualifiedNamePropertyName, p.QualifiedName).
		AddString(typedefs.DisplayNamePropertyName, p.DisplayName).
		AddString(typedefs.DescriptionPropertyName, p.Description).
		AddStringMap(typedefs.AdditionalPropertiesPropertyName, p.AdditionalProperties)
}

// CorrelatedElementRequest asks for an externally sourced element to be
// created or updated and its external identifier remembered.
type CorrelatedElementRequest struct {
	Correlation   MetadataCorrelationProperties `json:"metadataCorrelationProperties"`
	Element       ElementProperties             `json:"elementProperties"`
	AnchorGUID    string                        `json:"anchorGUID,omitempty"`
	IsMergeUpdate bool                          `json:"isMergeUpdate,omitempty"`
}
