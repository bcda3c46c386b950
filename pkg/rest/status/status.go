// Package status exports errors produced by the rest package.
package status

import (
	"github.com/oneconcern/geomon/pkg/errors"
)

var (
	// ErrNetwork indicates a transport-level failure: the request never
	// yielded a response from the service
	ErrNetwork = errors.New("network failure")

	// ErrInvalidResponse indicates the service answered with a payload the
	// client could not decode
	ErrInvalidResponse = errors.New("undecodable response from service")
)
