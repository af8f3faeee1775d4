package models

// APIError is the failure body of every endpoint.
// @Description APIError carries the first failure data capture of a failed request: the related HTTP code, the exception class, the message and its id, and the actions the system took and the user should take.
type APIError struct {
	RelatedHTTPCode   int               `json:"relatedHTTPCode"`
	ClassName         string            `json:"exceptionClassName"`
	Code              string            `json:"exceptionErrorMessageId"`         // e.g. "OMAG-COMMON-400-002" or "INVALID_JSON"
	Message           string            `json:"exceptionErrorMessage"`           // Human-readable message
	SystemAction      string            `json:"exceptionSystemAction,omitempty"` // What the server did
	UserAction        string            `json:"exceptionUserAction,omitempty"`   // What the caller should do
	ActionDescription string            `json:"actionDescription,omitempty"`     // Operation that failed
	Properties        map[string]string `json:"exceptionProperties,omitempty"`   // Offending parameters
	Details           interface{}       `json:"details,omitempty"`               // Binding failures and similar
}

// Transport level error codes. Failures raised by the service carry the
// message id of their ffdc error code instead.
const (
	ErrorCodeInternalServerError = "INTERNAL_SERVER_ERROR"
	ErrorCodeValidation          = "VALIDATION_ERROR"
	ErrorCodeInvalidJSON         = "INVALID_JSON"
	ErrorCodeInvalidEnumValue    = "INVALID_ENUM_VALUE"
	ErrorCodeRequestTimeout      = "REQUEST_TIMEOUT"
)
