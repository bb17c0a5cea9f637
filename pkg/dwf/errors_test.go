package dwf

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestErrorFromSDK(t *testing.T) {
	tests := []struct {
		code      int
		wantCode  ErrorCode
		wantParam int
	}{
		{1, CodeUnknown, 0},
		{2, CodeAPILockTimeout, 0},
		{3, CodeAlreadyOpened, 0},
		{4, CodeNotSupported, 0},
		{0x10, CodeInvalidParameter, 0},
		{0x11, CodeInvalidParameter, 1},
		{0x14, CodeInvalidParameter, 4},
		{0x15, CodeOther, 0},
		{99, CodeOther, 0},
	}
	for _, tt := range tests {
		t.Run(fmt.Sprintf("0x%x", tt.code), func(t *testing.T) {
			err := ErrorFromSDK(tt.code, "reason")
			require.NotNil(t, err)
			assert.Equal(t, tt.wantCode, err.Code)
			assert.Equal(t, tt.wantParam, err.Param)
			assert.Equal(t, "reason", err.Reason)
		})
	}

	assert.Nil(t, ErrorFromSDK(0, ""))
}

func TestErrorString(t *testing.T) {
	assert.Equal(t, "dwf: not supported", (&Error{Code: CodeNotSupported}).Error())
	assert.Equal(t, "dwf: invalid parameter 2: bad channel",
		(&Error{Code: CodeInvalidParameter, Param: 2, Reason: "bad channel"}).Error())
	assert.Equal(t, "ErrorCode(42)", ErrorCode(42).String())
}

func TestErrorIs(t *testing.T) {
	p1 := invalidParam(1, "x")
	wrapped := fmt.Errorf("configure: %w", p1)

	assert.ErrorIs(t, wrapped, ErrInvalidParameter)
	assert.ErrorIs(t, wrapped, &Error{Code: CodeInvalidParameter, Param: 1})
	assert.NotErrorIs(t, wrapped, &Error{Code: CodeInvalidParameter, Param: 0})
	assert.NotErrorIs(t, wrapped, ErrNotSupported)

	// the reason does not take part in matching
	assert.ErrorIs(t, &Error{Code: CodeAlreadyOpened, Reason: "busy"}, ErrAlreadyOpened)
	assert.False(t, errors.Is(ErrNotSupported, errors.New("dwf: not supported")))
}

func TestUnknownVariantError(t *testing.T) {
	err := unknownVariant("TriggerSource", 42)
	assert.ErrorIs(t, err, ErrUnknownVariant)
	assert.Contains(t, err.Error(), "TriggerSource value 42")
}
