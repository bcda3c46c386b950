// Package status exports errors produced by the core package.
package status

import (
	"github.com/oneconcern/geomon/pkg/errors"
)

var (
	// ErrValidation indicates a rejected input, e.g. a duplicate version name
	ErrValidation = errors.New("invalid input")

	// ErrNotFound indicates the version (or row) does not exist on the service
	ErrNotFound = errors.New("not found")

	// ErrVersionLocked indicates the version's write lock is held by another
	// session; this is a retryable condition
	ErrVersionLocked = errors.New("version lock held by another session")

	// ErrSessionClosed indicates an operation was attempted on an edit session
	// after it was stopped; this is a usage error in the calling code
	ErrSessionClosed = errors.New("edit session already stopped")

	// ErrSessionStale indicates the service no longer honors the session,
	// e.g. after a server-side lock timeout
	ErrSessionStale = errors.New("edit session no longer valid")

	// ErrNotReconciled indicates a post was attempted without a prior
	// conflict-free reconcile; this is a usage error in the calling code
	ErrNotReconciled = errors.New("post requires a prior conflict-free reconcile")

	// ErrConflicts indicates unresolved conflicts block the operation
	ErrConflicts = errors.New("unresolved conflicts")

	// ErrInvalidGuid indicates a malformed version guid
	ErrInvalidGuid = errors.New("invalid guid")
)
