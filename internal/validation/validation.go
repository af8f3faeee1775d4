// Package validation checks caller supplied identifiers before any
// repository interaction takes place.
package validation

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"

	"correlation-service/internal/ffdc"
)

// DefaultMaxNameLength bounds qualified names and other unique names.
const DefaultMaxNameLength = 1024

const qualifiedNameTag = "qualifiedname"

// InvalidParameterHandler validates user ids, names and guids. Each
// failure is reported as an ffdc invalid parameter error naming the
// parameter and the operation.
type InvalidParameterHandler struct {
	validate      *validator.Validate
	maxNameLength int
}

// Option configures an InvalidParameterHandler.
type Option func(*InvalidParameterHandler)

// WithMaxNameLength overrides DefaultMaxNameLength.
func WithMaxNameLength(n int) Option {
	return func(h *InvalidParameterHandler) {
		if n > 0 {
			h.maxNameLength = n
		}
	}
}

// NewInvalidParameterHandler returns a handler with the qualified name rule
// registered.
func NewInvalidParameterHandler(opts ...Option) *InvalidParameterHandler {
	h := &InvalidParameterHandler{
		validate:      validator.New(validator.WithRequiredStructEnabled()),
		maxNameLength: DefaultMaxNameLength,
	}
	for _, opt := range opts {
		opt(h)
	}
	// Registration only fails on an empty tag or nil func.
	_ = h.validate.RegisterValidation(qualifiedNameTag, func(fl validator.FieldLevel) bool {
		return IsValidName(fl.Field().String(), h.maxNameLength)
	})
	return h
}

// ValidateUserID fails when userID is empty.
func (h *InvalidParameterHandler) ValidateUserID(userID, methodName string) error {
	if strings.TrimSpace(userID) == "" {
		return ffdc.NewInvalidParameter(ffdc.NullUserID, methodName, methodName).
			WithParameter("userId", userID)
	}
	return nil
}

// ValidateName fails when name is empty or is not a syntactically valid
// unique name.
func (h *InvalidParameterHandler) ValidateName(name, parameterName, methodName string) error {
	if err := h.validate.Var(name, "required"); err != nil {
		return ffdc.NewInvalidParameter(ffdc.NullName, methodName, parameterName, methodName).
			WithParameter("parameterName", parameterName)
	}
	if err := h.validate.Var(name, qualifiedNameTag); err != nil {
		return ffdc.NewInvalidParameter(ffdc.InvalidName, methodName, name, parameterName, methodName).
			WithParameter("parameterName", parameterName)
	}
	return nil
}

// ValidateGUID fails when guid is empty.
func (h *InvalidParameterHandler) ValidateGUID(guid, parameterName, methodName string) error {
	if strings.TrimSpace(guid) == "" {
		return ffdc.NewInvalidParameter(ffdc.NullGUID, methodName, parameterName, methodName).
			WithParameter("parameterName", parameterName)
	}
	return nil
}

// IsValidName reports whether name may be used as a qualified name: valid
// UTF-8, no leading or trailing white space, no control characters and at
// most maxLength runes.
func IsValidName(name string, maxLength int) bool {
	if name == "" || !utf8.ValidString(name) {
		return false
	}
	if strings.TrimSpace(name) != name {
		return false
	}
	if maxLength > 0 && utf8.RuneCountInString(name) > maxLength {
		return false
	}
	for _, r := range name {
		if unicode.IsControl(r) {
			return false
		}
	}
	return true
}
