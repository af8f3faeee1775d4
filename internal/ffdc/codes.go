package ffdc

import (
	"fmt"
	"net/http"
)

// ErrorCode is one entry of the message catalogue.
type ErrorCode struct {
	HTTPCode        int
	ID              string
	MessageTemplate string
	SystemAction    string
	UserAction      string
}

// Format renders the message template with args.
func (c ErrorCode) Format(args ...any) string {
	if len(args) == 0 {
		return c.MessageTemplate
	}
	return fmt.Sprintf(c.MessageTemplate, args...)
}

// Invalid parameter codes.
var (
	NullUserID = ErrorCode{
		HTTPCode:        http.StatusBadRequest,
		ID:              "OMAG-COMMON-400-001",
		MessageTemplate: "The user identifier (user id) passed on the %s operation is null",
		SystemAction:    "The system is unable to process the request without a user id.",
		UserAction:      "Correct the code in the caller to provide the user id.",
	}
	NullName = ErrorCode{
		HTTPCode:        http.StatusBadRequest,
		ID:              "OMAG-COMMON-400-002",
		MessageTemplate: "The name passed on the %s parameter of the %s operation is null",
		SystemAction:    "The system is unable to process the request without a name.",
		UserAction:      "Correct the code in the caller to provide the name on the parameter.",
	}
	InvalidName = ErrorCode{
		HTTPCode:        http.StatusBadRequest,
		ID:              "OMAG-COMMON-400-003",
		MessageTemplate: "The name %q passed on the %s parameter of the %s operation is not valid",
		SystemAction:    "The system is unable to process the request with this name.",
		UserAction:      "Remove control characters and surrounding white space from the name, and keep it within the length limit.",
	}
	NullGUID = ErrorCode{
		HTTPCode:        http.StatusBadRequest,
		ID:              "OMAG-COMMON-400-004",
		MessageTemplate: "The unique identifier (guid) passed on the %s parameter of the %s operation is null",
		SystemAction:    "The system is unable to perform the request because the unique identifier for the element is not passed.",
		UserAction:      "Correct the code in the caller to provide the guid.",
	}
	UnknownType = ErrorCode{
		HTTPCode:        http.StatusBadRequest,
		ID:              "OMAG-COMMON-400-005",
		MessageTemplate: "The type name %q passed on the %s operation is not a known entity type",
		SystemAction:    "The system is unable to create or update an element of an unknown type.",
		UserAction:      "Use one of the entity types registered with the service.",
	}
	ExternalSourceNotRegistered = ErrorCode{
		HTTPCode:        http.StatusBadRequest,
		ID:              "OMAS-DATA-ENGINE-400-011",
		MessageTemplate: "The external source %q passed on the %s operation is not registered",
		SystemAction:    "The system is unable to attach information to an external source that has not been registered.",
		UserAction:      "Register the external source with upsertExternalSource before synchronizing its elements.",
	}
)

// Authorization codes.
var (
	UserNotAuthorized = ErrorCode{
		HTTPCode:        http.StatusForbidden,
		ID:              "OMAS-DATA-ENGINE-404-001",
		MessageTemplate: "User %s is not authorized to issue the %s operation",
		SystemAction:    "The system is unable to process the request.",
		UserAction:      "Request access for the user, or issue the request with a different user id.",
	}
)

// Property server codes.
var (
	RepositoryFailure = ErrorCode{
		HTTPCode:        http.StatusInternalServerError,
		ID:              "OMAS-DATA-ENGINE-500-001",
		MessageTemplate: "The repository returned an unexpected error during the %s operation: %s",
		SystemAction:    "The system is unable to complete the request. No retry is attempted.",
		UserAction:      "Check the repository logs. Retry the request once the repository is available.",
	}
	EntityNotKnown = ErrorCode{
		HTTPCode:        http.StatusNotFound,
		ID:              "OMAS-DATA-ENGINE-404-002",
		MessageTemplate: "The entity with guid %s is not known to the repository",
		SystemAction:    "The system is unable to update or classify an entity that does not exist.",
		UserAction:      "Check that the entity has not been removed by another process.",
	}
	EntityTypeMismatch = ErrorCode{
		HTTPCode:        http.StatusConflict,
		ID:              "OMAS-DATA-ENGINE-409-002",
		MessageTemplate: "The entity with guid %s is of type %s and can not be updated as type %s",
		SystemAction:    "The system rejected the update.",
		UserAction:      "Correct the type name passed by the caller.",
	}
	DuplicateQualifiedName = ErrorCode{
		HTTPCode:        http.StatusConflict,
		ID:              "OMAS-DATA-ENGINE-409-001",
		MessageTemplate: "An entity of type %s with qualified name %q already exists",
		SystemAction:    "The repository rejected the write because qualified names are unique per type.",
		UserAction:      "Look up the existing entity and update it instead.",
	}
	MultipleEntitiesFound = ErrorCode{
		HTTPCode:        http.StatusInternalServerError,
		ID:              "OMAS-DATA-ENGINE-500-002",
		MessageTemplate: "More than one entity of type %s has %s equal to %q",
		SystemAction:    "The system is unable to decide which entity the request refers to.",
		UserAction:      "Remove the duplicate entities from the repository.",
	}
)

// Unsupported operation codes.
var (
	FunctionNotSupported = ErrorCode{
		HTTPCode:        http.StatusNotImplemented,
		ID:              "OMRS-METADATA-COLLECTION-501-001",
		MessageTemplate: "The %s operation is not supported for %s: elements owned by an external source can only be removed by that source",
		SystemAction:    "The system rejected the request. Removing the element would leave the correlation with the external source out of step.",
		UserAction:      "Remove the element in the external source and let it stop synchronizing the element.",
	}
)
