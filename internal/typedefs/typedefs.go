// Package typedefs holds the open metadata type identifiers used by the
// correlation service. The table is passed to components at construction
// so they never depend on a live type registry.
package typedefs

import "sort"

// Property names shared across entity and classification types.
const (
	QualifiedNamePropertyName        = "qualifiedName"
	NamePropertyName                 = "name"
	DisplayNamePropertyName          = "displayName"
	DescriptionPropertyName          = "description"
	CapabilityTypePropertyName       = "capabilityType"
	CapabilityVersionPropertyName    = "capabilityVersion"
	PatchLevelPropertyName           = "patchLevel"
	SourcePropertyName               = "source"
	AdditionalPropertiesPropertyName = "additionalProperties"
	SyncDatesByKeyPropertyName       = "syncDatesByKey"
)

// TypeDef identifies an entity or classification type.
type TypeDef struct {
	GUID string `json:"guid" yaml:"guid"`
	Name string `json:"name" yaml:"name"`
}

// IsZero reports whether the type has not been set.
func (t TypeDef) IsZero() bool {
	return t.GUID == "" && t.Name == ""
}

func (t TypeDef) String() string {
	return t.Name
}

// Registry is the immutable table of types known to the service.
type Registry struct {
	SoftwareServerCapability      TypeDef
	ProcessingStateClassification TypeDef

	entities map[string]TypeDef
}

// Default returns the registry used by the service binaries.
func Default() Registry {
	ssc := TypeDef{GUID: "fe30a033-8f86-4d17-8986-e6166fa24177", Name: "SoftwareServerCapability"}
	return NewRegistry(
		ssc,
		TypeDef{GUID: "261fb0aa-b884-4ee8-87ea-a60510e9751d", Name: "DataEngineProcessingState"},
		TypeDef{GUID: "896d14c2-7522-4f6c-8519-757711943fe6", Name: "Asset"},
		TypeDef{GUID: "1449911c-4f44-4c22-abc0-7540154feefb", Name: "DataSet"},
		TypeDef{GUID: "d8f33bd7-afa9-4a11-a8c7-07dcec83c050", Name: "Process"},
		TypeDef{GUID: "e3d9fd9f-d5ed-2aed-ccce-2ad4fb62a1c4", Name: "Port"},
		TypeDef{GUID: "0921c83f-b2db-4086-a52c-0d10e52ca078", Name: "Database"},
		TypeDef{GUID: "eab811ec-556a-45f1-9091-bc7ac8face5c", Name: "DeployedDatabaseSchema"},
		TypeDef{GUID: "10752b4a-4b5d-4519-9eae-fdd6d162122f", Name: "DataFile"},
		TypeDef{GUID: "af536f20-062b-48ef-9c31-1ddd05b04c56", Name: "ExternalReference"},
		TypeDef{GUID: "0db3e6ec-f5ef-4d75-ae38-b7ee6fd6ec0a", Name: "GlossaryTerm"},
	)
}

// NewRegistry builds a registry from the external source type, the
// processing state classification type and any further entity types that
// correlated elements may use.
func NewRegistry(externalSource, processingState TypeDef, entities ...TypeDef) Registry {
	r := Registry{
		SoftwareServerCapability:      externalSource,
		ProcessingStateClassification: processingState,
		entities:                      make(map[string]TypeDef, len(entities)+1),
	}
	r.entities[externalSource.Name] = externalSource
	for _, t := range entities {
		r.entities[t.Name] = t
	}
	return r
}

// EntityType returns the entity type registered under name.
func (r Registry) EntityType(name string) (TypeDef, bool) {
	t, ok := r.entities[name]
	return t, ok
}

// EntityTypeNames lists the registered entity type names in sorted order.
func (r Registry) EntityTypeNames() []string {
	names := make([]string, 0, len(r.entities))
	for name := range r.entities {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
