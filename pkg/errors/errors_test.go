package errors

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func TestError(t *testing.T) {
	e1 := New("cause1")
	e2 := New("cause2").Wrap(e1)
	e := New("dummy").Wrap(e2)
	e3 := e.Unwrap()
	assert.True(t, Is(e, e1))
	assert.True(t, Is(e, e2))
	assert.True(t, Is(e3, e2))
}

func TestErrorSentinelNotMutated(t *testing.T) {
	sentinel := New("sentinel")
	wrapped := sentinel.Wrap(fmt.Errorf("inner"))
	assert.Nil(t, sentinel.Unwrap())
	assert.True(t, Is(wrapped, sentinel))
	assert.EqualError(t, wrapped, "sentinel: inner")
}

func TestErrorWrapMessage(t *testing.T) {
	e := New("top").WrapMessage("attempt %d", 3)
	assert.EqualError(t, e, "top: attempt 3")
}

func TestErrorWrapWithLog(t *testing.T) {
	e := New("logged").WrapWithLog(zap.NewNop(), fmt.Errorf("inner"))
	assert.True(t, Is(e, New("logged")))
	assert.EqualError(t, e, "logged: inner")
}
