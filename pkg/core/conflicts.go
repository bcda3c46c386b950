package core

import (
	"context"
	"time"

	"github.com/oneconcern/geomon/pkg/core/status"
	"github.com/oneconcern/geomon/pkg/model"
	"go.uber.org/zap"
)

type conflictsRequest struct {
	SessionID model.SessionGuid `json:"sessionId"`
}

type conflictsResponse struct {
	Success   bool              `json:"success"`
	Conflicts model.ConflictSet `json:"conflicts"`
}

type inspectRequest struct {
	SessionID   model.SessionGuid        `json:"sessionId"`
	Inspections []model.InspectionRecord `json:"inspections"`
}

// Conflicts fetches the conflict set produced by the most recent reconcile,
// empty when none was found or no reconcile has run yet.
//
// The set is always fetched fresh from the service: conflict views must never
// be reused across reconciles.
func (s *EditSession) Conflicts(ctx context.Context) (set model.ConflictSet, err error) {
	defer func(t0 time.Time) {
		if s.vm.MetricsEnabled() {
			s.vm.m.UsedAll(t0, "Conflicts")(err)
		}
	}(time.Now())

	if err = s.guard(); err != nil {
		return nil, err
	}
	var result conflictsResponse
	err = classify(s.vm.remote.PostJSON(ctx, model.VersionRoute(s.version, "conflicts"),
		conflictsRequest{SessionID: s.id}, &result))
	if err != nil {
		return nil, err
	}
	return result.Conflicts, nil
}

// Inspect marks conflicting features as reviewed, attaching optional notes.
//
// Inspection records human review state only: it does not resolve anything.
// Resolution happens by re-editing or restoring the rows and reconciling again.
func (s *EditSession) Inspect(ctx context.Context, records []model.InspectionRecord) (err error) {
	defer func(t0 time.Time) {
		if s.vm.MetricsEnabled() {
			s.vm.m.UsedAll(t0, "InspectConflicts")(err)
		}
	}(time.Now())

	if err = s.guard(); err != nil {
		return err
	}
	if len(records) == 0 {
		return status.ErrValidation.WrapMessage("no inspection record")
	}
	for _, record := range records {
		if len(record.Rows) == 0 {
			return status.ErrValidation.WrapMessage("no row flagged for layer %d", record.LayerID)
		}
	}

	err = classify(s.vm.remote.PostJSON(ctx, model.VersionRoute(s.version, "inspectConflicts"),
		inspectRequest{SessionID: s.id, Inspections: records}, nil))
	if err != nil {
		return err
	}
	s.l.Debug("conflicts inspected", zap.Int("layers", len(records)))
	return nil
}
