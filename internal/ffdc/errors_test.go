package ffdc

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestErrorKinds(t *testing.T) {
	testCases := []struct {
		name      string
		err       error
		kind      Kind
		className string
		status    int
	}{
		{
			name:      "invalid parameter",
			err:       NewInvalidParameter(NullUserID, "upsertExternalSource", "upsertExternalSource"),
			kind:      KindInvalidParameter,
			className: "InvalidParameterException",
			status:    http.StatusBadRequest,
		},
		{
			name:      "user not authorized",
			err:       NewUserNotAuthorized(UserNotAuthorized, "createEntity", "bob", "createEntity"),
			kind:      KindUserNotAuthorized,
			className: "UserNotAuthorizedException",
			status:    http.StatusForbidden,
		},
		{
			name:      "property server",
			err:       NewPropertyServer(RepositoryFailure, "updateEntity", errors.New("connection refused"), "updateEntity", "connection refused"),
			kind:      KindPropertyServer,
			className: "PropertyServerException",
			status:    http.StatusInternalServerError,
		},
		{
			name:      "function not supported",
			err:       NewFunctionNotSupported(FunctionNotSupported, "removeExternalSource", "removeExternalSource", "engine"),
			kind:      KindFunctionNotSupported,
			className: "FunctionNotSupportedException",
			status:    http.StatusNotImplemented,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			kind, ok := KindOf(tc.err)
			require.True(t, ok)
			assert.Equal(t, tc.kind, kind)
			assert.Equal(t, tc.className, kind.String())

			var fe *Error
			require.ErrorAs(t, tc.err, &fe)
			assert.Equal(t, tc.status, fe.HTTPCode())

			assert.Equal(t, tc.kind == KindInvalidParameter, IsInvalidParameter(tc.err))
			assert.Equal(t, tc.kind == KindUserNotAuthorized, IsUserNotAuthorized(tc.err))
			assert.Equal(t, tc.kind == KindPropertyServer, IsPropertyServer(tc.err))
			assert.Equal(t, tc.kind == KindFunctionNotSupported, IsFunctionNotSupported(tc.err))
		})
	}
}

func TestErrorMessageCarriesCode(t *testing.T) {
	err := NewUserNotAuthorized(UserNotAuthorized, "createEntity", "bob", "createEntity")
	assert.Equal(t, "OMAS-DATA-ENGINE-404-001 User bob is not authorized to issue the createEntity operation", err.Error())
}

func TestWrappedErrorsKeepKind(t *testing.T) {
	denied := NewUserNotAuthorized(UserNotAuthorized, "createEntity", "bob", "createEntity")
	wrapped := fmt.Errorf("upsert: %w", denied)

	assert.True(t, IsUserNotAuthorized(wrapped))
	assert.ErrorIs(t, wrapped, denied)
	assert.ErrorIs(t, wrapped, &Error{Kind: KindUserNotAuthorized, Code: UserNotAuthorized})
	assert.NotErrorIs(t, wrapped, &Error{Kind: KindPropertyServer, Code: RepositoryFailure})
}

func TestWrap(t *testing.T) {
	t.Run("nil", func(t *testing.T) {
		assert.NoError(t, Wrap(nil, "createEntity"))
	})

	t.Run("ffdc error passes through", func(t *testing.T) {
		denied := NewUserNotAuthorized(UserNotAuthorized, "createEntity", "bob", "createEntity")
		assert.Same(t, denied, Wrap(denied, "createEntity"))
	})

	t.Run("plain error becomes property server", func(t *testing.T) {
		err := Wrap(context.DeadlineExceeded, "findEntityByUniqueName")
		assert.True(t, IsPropertyServer(err))
		assert.ErrorIs(t, err, context.DeadlineExceeded)
		assert.Contains(t, err.Error(), "findEntityByUniqueName")
	})
}

func TestParameterString(t *testing.T) {
	err := NewInvalidParameter(NullName, "getExternalSource", "qualifiedName", "getExternalSource").
		WithParameter("zeta", "1").
		WithParameter("alpha", "2")
	assert.Equal(t, "alpha=2, zeta=1", err.ParameterString())
	assert.Equal(t, "", (&Error{}).ParameterString())
}
