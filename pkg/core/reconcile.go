/*
 * Copyright © 2019 One Concern
 *
 */

package core

import (
	"context"
	"time"

	"github.com/oneconcern/geomon/pkg/model"
	"go.uber.org/zap"
)

// reconcileSettings defines various settings for a reconcile
type reconcileSettings struct {
	abortIfConflicts bool
	detection        model.ConflictDetection
	withPost         bool
}

// ReconcileOption sets options for a reconcile
type ReconcileOption func(*reconcileSettings)

// ReconcileAbortOnConflicts makes the reconcile abort when conflicts are
// found, leaving no partial merge state behind. The session remains open so
// the caller can inspect, resolve and retry.
func ReconcileAbortOnConflicts(abort bool) ReconcileOption {
	return func(s *reconcileSettings) {
		s.abortIfConflicts = abort
	}
}

// ReconcileDetection selects the conflict detection mode. It defaults to
// by-object detection: any concurrent edit of the same feature conflicts.
func ReconcileDetection(mode model.ConflictDetection) ReconcileOption {
	return func(s *reconcileSettings) {
		if mode.IsValid() {
			s.detection = mode
		}
	}
}

// ReconcileWithPost posts the version into DEFAULT in the same call, when the
// reconcile comes out conflict-free
func ReconcileWithPost(withPost bool) ReconcileOption {
	return func(s *reconcileSettings) {
		s.withPost = withPost
	}
}

func defaultReconcileSettings() reconcileSettings {
	return reconcileSettings{
		detection: model.DetectByObject,
	}
}

type reconcileRequest struct {
	SessionID        model.SessionGuid       `json:"sessionId"`
	AbortIfConflicts bool                    `json:"abortIfConflicts"`
	Detection        model.ConflictDetection `json:"detection"`
	WithPost         bool                    `json:"withPost"`
}

type reconcileResponse struct {
	Success bool                   `json:"success"`
	Outcome model.ReconcileOutcome `json:"outcome"`
}

// Reconcile compares the locked version against DEFAULT since their common
// ancestor moment and classifies the divergence.
//
// Reconcile is idempotent: with no new edits on either side it deterministically
// reports no conflicts. A conflicted outcome leaves the session open; posting
// stays blocked until a later reconcile comes out clean.
func (s *EditSession) Reconcile(ctx context.Context, opts ...ReconcileOption) (outcome model.ReconcileOutcome, err error) {
	defer func(t0 time.Time) {
		if s.vm.MetricsEnabled() {
			s.vm.m.UsedAll(t0, "Reconcile")(err)
		}
	}(time.Now())

	if err = s.guard(); err != nil {
		return outcome, err
	}

	settings := defaultReconcileSettings()
	for _, apply := range opts {
		apply(&settings)
	}

	var result reconcileResponse
	err = classify(s.vm.remote.PostJSON(ctx, model.VersionRoute(s.version, "reconcile"), reconcileRequest{
		SessionID:        s.id,
		AbortIfConflicts: settings.abortIfConflicts,
		Detection:        settings.detection,
		WithPost:         settings.withPost,
	}, &result))
	if err != nil {
		return outcome, err
	}
	outcome = result.Outcome

	s.mx.Lock()
	s.reconciled = !outcome.HasConflicts
	s.conflicted = outcome.HasConflicts
	s.mx.Unlock()

	s.l.Info("reconciled against DEFAULT",
		zap.Bool("has_conflicts", outcome.HasConflicts),
		zap.Bool("did_post", outcome.DidPost),
		zap.String("detection", settings.detection.String()),
	)
	return outcome, nil
}
