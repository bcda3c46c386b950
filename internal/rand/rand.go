// Package rand provides concurrency-safe random strings for test fixtures.
package rand

import (
	"math/rand"
	"sync"
	"time"
)

const letterBytes = "abcdefghijklmnopqrstuvwxyz0123456789"

var (
	mx  sync.Mutex
	src = rand.New(rand.NewSource(time.Now().UnixNano())) // #nosec
)

// LetterString returns a random string picked in the [0-9]|[a-z] range
func LetterString(n int) string {
	b := make([]byte, n)
	mx.Lock()
	for i := range b {
		b[i] = letterBytes[src.Intn(len(letterBytes))]
	}
	mx.Unlock()
	return string(b)
}
