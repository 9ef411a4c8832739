// Copyright (c) 2025 tsido
// Licensed under the PolyForm Noncommercial License 1.0.0
// This software is restricted to non-commercial use only.

package errcodes

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tsido/idobridge/internal/domain/journey/model"
	"github.com/tsido/idobridge/internal/domain/journey/ports"
	"github.com/tsido/idobridge/internal/value"
)

func TestMap_KnownCodes(t *testing.T) {
	tests := []struct {
		native ports.NativeErrorCode
		want   model.ErrorCode
	}{
		{ports.NativeNotInitialized, model.CodeNotInitialized},
		{ports.NativeNoActiveJourney, model.CodeNoActiveJourney},
		{ports.NativeNetworkError, model.CodeNetworkError},
		{ports.NativeClientResponseNotValid, model.CodeClientResponseNotValid},
		{ports.NativeServerError, model.CodeServerError},
		{ports.NativeInvalidStateString, model.CodeInvalidStateString},
		{ports.NativeInternalError, model.CodeInternalError},
		{ports.NativeDeviceRegistrationError, model.CodeDeviceRegistrationError},
		{ports.NativeDeviceValidationError, model.CodeDeviceValidationError},
		{ports.NativeInvalidCredentials, model.CodeInvalidCredentials},
		{ports.NativeExpiredOtpPasscode, model.CodeExpiredOtpPasscode},
	}
	for _, tt := range tests {
		t.Run(string(tt.want), func(t *testing.T) {
			assert.Equal(t, tt.want, Map(tt.native))
		})
	}
}

func TestMap_UnknownCodes(t *testing.T) {
	for _, code := range []ports.NativeErrorCode{0, -1, 12, 999} {
		assert.Equal(t, model.CodeUnknown, Map(code))
		_, ok := Lookup(code)
		assert.False(t, ok)
	}
}

func TestClass(t *testing.T) {
	assert.ErrorIs(t, Class(model.CodeExpiredOtpPasscode), model.ErrOtpExpired)
	assert.ErrorIs(t, Class(model.CodeNotInitialized), model.ErrInitialization)
	assert.ErrorIs(t, Class(model.CodeUnknown), model.ErrUnknown)
}

func TestFromNative(t *testing.T) {
	t.Run("with data", func(t *testing.T) {
		got := FromNative(&ports.NativeError{
			Code:    ports.NativeInvalidCredentials,
			Message: "bad password",
			Data:    map[string]any{"attempts": 2},
		})
		assert.Equal(t, model.CodeInvalidCredentials, got.Code)
		assert.Equal(t, "bad password", got.Description)
		require.NotNil(t, got.Raw)
		want := value.Object(value.NewMap().Set("attempts", value.Number(2)))
		assert.True(t, want.Equal(*got.Raw))
		assert.ErrorIs(t, got, model.ErrCredential)
	})

	t.Run("unknown code", func(t *testing.T) {
		got := FromNative(&ports.NativeError{Code: 999, Message: "new failure"})
		assert.Equal(t, model.CodeUnknown, got.Code)
		assert.Nil(t, got.Raw)
	})

	t.Run("unconvertible data", func(t *testing.T) {
		got := FromNative(&ports.NativeError{Code: ports.NativeServerError, Data: make(chan int)})
		require.NotNil(t, got.Raw)
		assert.Equal(t, value.KindString, got.Raw.Kind())
	})

	t.Run("nil", func(t *testing.T) {
		got := FromNative(nil)
		assert.Equal(t, model.CodeUnknown, got.Code)
	})
}
