package errors

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNew(t *testing.T) {
	err := New(ErrConfig, "Config file not found", "Run 'sctl init' to create one")

	assert.Equal(t, ErrConfig, err.Code)
	assert.Equal(t, "Config file not found", err.Message)
	assert.Equal(t, "Run 'sctl init' to create one", err.Suggestion)
	assert.Nil(t, err.Cause)
}

func TestError_Format(t *testing.T) {
	err := New(ErrSSH, "Can't reach 'web1'", "Check the host is online")
	msg := err.Error()

	assert.Contains(t, msg, "✗ Can't reach 'web1'")
	assert.Contains(t, msg, "Check the host is online")
}

func TestError_FormatWithCause(t *testing.T) {
	cause := fmt.Errorf("dial tcp: i/o timeout")
	err := WrapWithCode(cause, ErrSSH, "Connection failed", "Try again later")
	msg := err.Error()

	assert.Contains(t, msg, "✗ Connection failed")
	assert.Contains(t, msg, "dial tcp: i/o timeout")
	assert.Contains(t, msg, "Try again later")
}

func TestWrap_DefaultsToSSH(t *testing.T) {
	cause := fmt.Errorf("underlying")
	err := Wrap(cause, "something broke")

	assert.Equal(t, ErrSSH, err.Code)
	assert.Equal(t, cause, err.Cause)
}

func TestUnwrap(t *testing.T) {
	cause := fmt.Errorf("root cause")
	err := WrapWithCode(cause, ErrExec, "wrapper", "")

	assert.Equal(t, cause, err.Unwrap())
}

func TestIsCode(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		code   string
		expect bool
	}{
		{"matching code", New(ErrConfig, "msg", ""), ErrConfig, true},
		{"different code", New(ErrSSH, "msg", ""), ErrConfig, false},
		{"wrapped structured error", fmt.Errorf("outer: %w", New(ErrExec, "msg", "")), ErrExec, true},
		{"plain error", fmt.Errorf("plain"), ErrConfig, false},
		{"nil error", nil, ErrConfig, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expect, IsCode(tt.err, tt.code))
		})
	}
}
