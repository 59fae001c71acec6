package errors

import (
	"errors"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNetworkError(t *testing.T) {
	err := NewNetworkError("webhook", "https://hooks.example.com/x", io.ErrUnexpectedEOF)
	assert.Equal(t, "webhook https://hooks.example.com/x: unexpected EOF", err.Error())
	assert.True(t, errors.Is(err, io.ErrUnexpectedEOF))

	err.StatusCode = 502
	assert.Equal(t, "webhook https://hooks.example.com/x: unexpected EOF (response 502)", err.Error())
}

func TestStatusError(t *testing.T) {
	var target *StatusError
	var err error = NewStatusError("xray summary", "https://acme.jfrog.test/xray", 503, "busy")

	assert.True(t, errors.As(err, &target))
	assert.Equal(t, 503, target.StatusCode)
	assert.Equal(t, "xray summary https://acme.jfrog.test/xray: unexpected status code 503", err.Error())
}

func TestNotImplementedError(t *testing.T) {
	err := NewNotImplementedError("vault", "secrets backend")
	assert.Equal(t, `secrets backend "vault" is not implemented`, err.Error())
}
