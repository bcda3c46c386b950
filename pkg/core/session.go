/*
 * Copyright © 2019 One Concern
 *
 */

package core

import (
	"context"
	"sync"
	"time"

	"github.com/oneconcern/geomon/pkg/core/status"
	"github.com/oneconcern/geomon/pkg/errors"
	"github.com/oneconcern/geomon/pkg/model"
	"go.uber.org/zap"
)

type startEditingRequest struct {
	SessionID model.SessionGuid `json:"sessionId"`
}

type stopEditingRequest struct {
	SessionID model.SessionGuid `json:"sessionId"`
	SaveEdits bool              `json:"saveEdits"`
}

// EditSession is the capability granted by a successful StartEditing: it
// represents the write lock held on one version.
//
// Every mutating operation of the protocol is a method on the session, so code
// without a live session cannot issue edits, reconciles, posts or restores.
// The session tracks the legal operation ordering (edit* -> reconcile ->
// (inspect|restore)* -> post) and loudly rejects out-of-order calls.
type EditSession struct {
	vm      *VersionManager
	version model.VersionGuid
	id      model.SessionGuid
	l       *zap.Logger

	mx         sync.Mutex
	closed     bool
	reconciled bool // a conflict-free reconcile happened, with no edits after it
	conflicted bool // the last reconcile reported unresolved conflicts
	_          struct{}
}

// StartEditing requests the write lock on a version and returns the session
// holding it.
//
// The session guid is minted client-side and registered with the service.
// When the lock is held by another session, the manager's retry policy decides
// whether to back off and retry; the default policy surfaces the contention
// immediately so the caller chooses.
func (vm *VersionManager) StartEditing(ctx context.Context, version model.VersionGuid) (s *EditSession, err error) {
	defer func(t0 time.Time) {
		if vm.MetricsEnabled() {
			vm.m.UsedAll(t0, "StartEditing")(err)
		}
	}(time.Now())

	if err = version.Validate(); err != nil {
		return nil, status.ErrInvalidGuid.Wrap(err)
	}

	if vm.retry.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, vm.retry.Timeout)
		defer cancel()
	}

	id := model.NewSessionGuid()
	maxAttempts := vm.retry.attempts()
	for attempt := 1; ; attempt++ {
		err = classify(vm.remote.PostJSON(ctx, model.VersionRoute(version, "startEditing"),
			startEditingRequest{SessionID: id}, nil))
		if err == nil {
			break
		}
		if !errors.Is(err, status.ErrVersionLocked) {
			return nil, err
		}
		if attempt >= maxAttempts {
			if attempt > 1 {
				return nil, status.ErrVersionLocked.WrapMessage("lock still held after %d attempts", attempt)
			}
			return nil, err
		}
		vm.l.Debug("version lock contended, backing off",
			zap.String("version_id", version.String()),
			zap.Int("attempt", attempt),
		)
		if sleepErr := vm.clock.Sleep(ctx, vm.retry.backoff(attempt)); sleepErr != nil {
			return nil, status.ErrVersionLocked.Wrap(sleepErr)
		}
	}

	s = &EditSession{
		vm:      vm,
		version: version,
		id:      id,
		l: vm.l.With(
			zap.String("version_id", version.String()),
			zap.String("session_id", id.String()),
		),
	}
	s.l.Info("edit session started")
	return s, nil
}

// Version yields the version this session locks
func (s *EditSession) Version() model.VersionGuid {
	return s.version
}

// ID yields the session guid
func (s *EditSession) ID() model.SessionGuid {
	return s.id
}

// guard rejects operations on a stopped session
func (s *EditSession) guard() error {
	s.mx.Lock()
	defer s.mx.Unlock()
	if s.closed {
		return status.ErrSessionClosed
	}
	return nil
}

// invalidateReconcile records that the branch changed after the last reconcile
func (s *EditSession) invalidateReconcile() {
	s.mx.Lock()
	s.reconciled = false
	s.conflicted = false
	s.mx.Unlock()
}

// StopEditing releases the write lock. With save, buffered edits are committed
// into the version; without, they are discarded.
//
// StopEditing must be called exactly once per successful StartEditing: a
// second call is rejected with a session error. On failure the session stays
// open so the caller may retry or fall back to Abandon.
func (s *EditSession) StopEditing(ctx context.Context, save bool) (err error) {
	defer func(t0 time.Time) {
		if s.vm.MetricsEnabled() {
			s.vm.m.UsedAll(t0, "StopEditing")(err)
		}
	}(time.Now())

	if err = s.guard(); err != nil {
		return err
	}
	err = classify(s.vm.remote.PostJSON(ctx, model.VersionRoute(s.version, "stopEditing"),
		stopEditingRequest{SessionID: s.id, SaveEdits: save}, nil))
	if err != nil {
		return err
	}

	s.mx.Lock()
	s.closed = true
	s.mx.Unlock()
	s.l.Info("edit session stopped", zap.Bool("saved", save))
	return nil
}

// Abandon force-releases the lock, discarding buffered edits. It is meant for
// cleanup and error paths: abandoning an already-stopped session is a no-op,
// and a session the service already dropped counts as released.
//
// A crashed workflow must never leave a version lock held as far as this
// client can help it, so drivers should defer Abandon right after StartEditing.
func (s *EditSession) Abandon(ctx context.Context) error {
	s.mx.Lock()
	if s.closed {
		s.mx.Unlock()
		return nil
	}
	s.mx.Unlock()

	err := classify(s.vm.remote.PostJSON(ctx, model.VersionRoute(s.version, "stopEditing"),
		stopEditingRequest{SessionID: s.id, SaveEdits: false}, nil))
	if err != nil && !errors.Is(err, status.ErrSessionStale) && !errors.Is(err, status.ErrNotFound) {
		s.l.Warn("failed to abandon edit session", zap.Error(err))
		return err
	}

	s.mx.Lock()
	s.closed = true
	s.mx.Unlock()
	s.l.Info("edit session abandoned")
	return nil
}
