package rand

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLetterString(t *testing.T) {
	s := LetterString(16)
	require.Len(t, s, 16)
	for _, r := range s {
		assert.True(t, strings.ContainsRune(letterBytes, r))
	}
	assert.Empty(t, LetterString(0))
}
