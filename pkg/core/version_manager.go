/*
 * Copyright © 2019 One Concern
 *
 */

package core

import (
	"net/http"

	"github.com/oneconcern/geomon/pkg/core/status"
	"github.com/oneconcern/geomon/pkg/errors"
	"github.com/oneconcern/geomon/pkg/metrics"
	"github.com/oneconcern/geomon/pkg/rest"
	"github.com/segmentio/ksuid"
	"go.uber.org/zap"
)

// statusInvalidSession is the service's code for a session it no longer honors
const statusInvalidSession = 498

// VersionManager is the entry point to the branch-versioning protocol.
//
// It owns the registry operations (create, alter, delete, list) and hands out
// EditSession capabilities through StartEditing. All mutating operations hang
// off the session, so they cannot be issued without the write lock.
type VersionManager struct {
	remote *rest.Client
	l      *zap.Logger
	m      *metrics.Usage
	retry  RetryPolicy
	clock  Clock
	tag    string
	_      struct{}
}

// New builds a version manager talking to a service through the given client.
//
// The default manager gets populated with a random KSUID as its workflow tag,
// does not retry on lock contention, and does not log.
func New(remote *rest.Client, opts ...Option) *VersionManager {
	vm := &VersionManager{
		remote: remote,
		l:      zap.NewNop(),
		retry:  NoRetry(),
		clock:  RealClock(),
		tag:    ksuid.New().String(),
	}
	for _, apply := range opts {
		apply(vm)
	}
	vm.l = vm.l.With(zap.String("tag", vm.tag))
	return vm
}

// Tag yields the workflow tag stamped into this manager's logs
func (vm *VersionManager) Tag() string {
	return vm.tag
}

// MetricsEnabled tells whether usage metrics are collected
func (vm *VersionManager) MetricsEnabled() bool {
	return vm.m != nil
}

// classify maps the service's error codes onto the client's error taxonomy.
// Errors that do not stem from the service (e.g. network failures) pass through.
func classify(err error) error {
	if err == nil {
		return nil
	}
	var apiErr *rest.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.Code {
		case http.StatusBadRequest:
			return status.ErrValidation.Wrap(err)
		case http.StatusNotFound:
			return status.ErrNotFound.Wrap(err)
		case http.StatusConflict:
			return status.ErrConflicts.Wrap(err)
		case http.StatusLocked:
			return status.ErrVersionLocked.Wrap(err)
		case statusInvalidSession:
			return status.ErrSessionStale.Wrap(err)
		}
	}
	return err
}
