package core

import (
	"context"
	"time"

	"github.com/oneconcern/geomon/pkg/core/status"
	"github.com/oneconcern/geomon/pkg/model"
	"go.uber.org/zap"
)

type differencesRequest struct {
	Moment     model.Moment         `json:"moment"`
	ResultType model.DiffResultType `json:"resultType"`
}

type differencesResponse struct {
	Success bool             `json:"success"`
	Diffs   model.LayerDiffs `json:"differences"`
}

type restoreRowsRequest struct {
	SessionID model.SessionGuid    `json:"sessionId"`
	Rows      []model.RowSelection `json:"rows"`
}

// Differences computes, per layer, the rows inserted, updated and deleted in
// the version since the given ancestor moment.
//
// This is a read-only audit: no edit session is required and nothing is
// cached client-side.
func (vm *VersionManager) Differences(ctx context.Context, version model.VersionGuid, moment model.Moment, resultType model.DiffResultType) (diffs model.LayerDiffs, err error) {
	defer func(t0 time.Time) {
		if vm.MetricsEnabled() {
			vm.m.UsedAll(t0, "Differences")(err)
		}
	}(time.Now())

	if err = version.Validate(); err != nil {
		return nil, status.ErrInvalidGuid.Wrap(err)
	}
	if !resultType.IsValid() {
		return nil, status.ErrValidation.WrapMessage("invalid diff result type %q", resultType)
	}

	var result differencesResponse
	err = classify(vm.remote.PostJSON(ctx, model.VersionRoute(version, "differences"),
		differencesRequest{Moment: moment, ResultType: resultType}, &result))
	if err != nil {
		return nil, err
	}
	return result.Diffs, nil
}

// RestoreRows reverts the listed rows of the locked version back to their
// ancestor state, discarding the branch's local edits on exactly those rows.
//
// Restoring is the shortcut to resolve a conflict by accepting the ancestor
// side without manual re-editing; a fresh reconcile is required afterwards.
func (s *EditSession) RestoreRows(ctx context.Context, rows []model.RowSelection) (err error) {
	defer func(t0 time.Time) {
		if s.vm.MetricsEnabled() {
			s.vm.m.UsedAll(t0, "RestoreRows")(err)
		}
	}(time.Now())

	if err = s.guard(); err != nil {
		return err
	}
	if len(rows) == 0 {
		return status.ErrValidation.WrapMessage("no row to restore")
	}
	for _, sel := range rows {
		if len(sel.ObjectIDs) == 0 {
			return status.ErrValidation.WrapMessage("no object id for layer %d", sel.LayerID)
		}
	}

	err = classify(s.vm.remote.PostJSON(ctx, model.VersionRoute(s.version, "restoreRows"),
		restoreRowsRequest{SessionID: s.id, Rows: rows}, nil))
	if err != nil {
		return err
	}

	s.invalidateReconcile()
	s.l.Debug("rows restored from ancestor", zap.Int("layers", len(rows)))
	return nil
}
